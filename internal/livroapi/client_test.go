package livroapi_test

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/livroelivro/sebo/internal/livroapi"
)

func newClient(t *testing.T, h http.HandlerFunc, retries int) *livroapi.Client {
	t.Helper()
	srv := httptest.NewServer(h)
	t.Cleanup(srv.Close)
	c, err := livroapi.New(
		livroapi.Config{BaseURL: srv.URL + "/dev", Timeout: time.Second, MaxRetries: retries},
		livroapi.WithBackoff(time.Millisecond, 5*time.Millisecond),
	)
	require.NoError(t, err)
	return c
}

type countingDoer struct {
	next  livroapi.Doer
	calls *atomic.Int32
}

func (d countingDoer) Do(req *http.Request) (*http.Response, error) {
	d.calls.Add(1)
	return d.next.Do(req)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

const userJSON = `{
	"id": "u1",
	"name": "Ana Souza",
	"email": "ana@example.com",
	"cpf": "111.444.777-35",
	"phone": "(11) 98765-4321",
	"birthDate": [1990, 5, 7],
	"address": {"cep": "01310-100", "state": "SP", "city": "São Paulo", "street": "Av. Paulista", "number": "1000", "neighborhood": "Bela Vista"},
	"preferences": {"genres": ["ficcao"]},
	"bookIDs": ["b1", "b2"]
}`

func TestNew(t *testing.T) {
	t.Run("rejects relative base url", func(t *testing.T) {
		_, err := livroapi.New(livroapi.Config{BaseURL: "not a url"})
		assert.ErrorIs(t, err, livroapi.ErrInvalidBaseURL)
	})

	t.Run("empty base url uses default", func(t *testing.T) {
		c, err := livroapi.New(livroapi.Config{})
		require.NoError(t, err)
		assert.NotNil(t, c)
	})
}

func TestLogin(t *testing.T) {
	t.Run("converts birth date array to ISO", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/dev/auth/login/", r.URL.Path)
			assert.Equal(t, "application/json", r.Header.Get("Content-Type"))

			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@example.com", body["email"])
			assert.Equal(t, "secret123", body["password"])

			w.WriteHeader(http.StatusOK)
			_, _ = io.WriteString(w, userJSON)
		}, 0)

		user, err := c.Login(context.Background(), "ana@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, "u1", user.ID)
		assert.Equal(t, "1990-05-07", user.BirthDate)
		assert.Equal(t, "São Paulo", user.Address.City)
		assert.True(t, user.OwnsBook("b2"))
		assert.False(t, user.OwnsBook("b3"))
	})

	t.Run("rejected credentials", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusUnauthorized)
		}, 0)

		_, err := c.Login(context.Background(), "ana@example.com", "wrong")
		assert.ErrorIs(t, err, livroapi.ErrInvalidCredentials)
	})

	t.Run("throttling is not a credentials error", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusTooManyRequests)
		}, 0)

		_, err := c.Login(context.Background(), "ana@example.com", "secret123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, livroapi.ErrInvalidCredentials)
	})

	t.Run("server failure is not a credentials error", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusInternalServerError)
		}, 0)

		_, err := c.Login(context.Background(), "ana@example.com", "secret123")
		require.Error(t, err)
		assert.NotErrorIs(t, err, livroapi.ErrInvalidCredentials)

		var apiErr *livroapi.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusInternalServerError, apiErr.Status)
	})
}

func TestCreateUser(t *testing.T) {
	t.Run("sends birth date as array", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/dev/users/", r.URL.Path)

			var body map[string]any
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []any{1990.0, 5.0, 7.0}, body["birthDate"])
			assert.Equal(t, "secret123", body["password"])

			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, userJSON)
		}, 0)

		user, err := c.CreateUser(context.Background(), livroapi.CreateUserRequest{
			Name:      "Ana Souza",
			Email:     "ana@example.com",
			Password:  "secret123",
			BirthDate: "1990-05-07",
		})
		require.NoError(t, err)
		assert.Equal(t, "1990-05-07", user.BirthDate)
	})

	t.Run("invalid birth date is rejected locally", func(t *testing.T) {
		var hits atomic.Int32
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
		}, 0)

		_, err := c.CreateUser(context.Background(), livroapi.CreateUserRequest{BirthDate: "07/05/1990"})
		assert.ErrorIs(t, err, livroapi.ErrInvalidDate)
		assert.Zero(t, hits.Load())
	})
}

func TestBooks(t *testing.T) {
	books := []livroapi.Book{
		{ID: "b1", Title: "Dom Casmurro", Author: "Machado de Assis", Category: "ficcao", Condition: "otimo", Type: "doacao"},
		{ID: "b2", Title: "Clean Code", Author: "Robert C. Martin", Category: "tecnico", Condition: "bom", Type: "troca"},
	}

	t.Run("list", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodGet, r.Method)
			assert.Equal(t, "/dev/books/", r.URL.Path)
			writeJSON(w, http.StatusOK, books)
		}, 0)

		got, err := c.Books(context.Background())
		require.NoError(t, err)
		assert.Equal(t, books, got)
	})

	t.Run("latest", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/dev/books/list/4", r.URL.Path)
			writeJSON(w, http.StatusOK, books[:1])
		}, 0)

		got, err := c.Latest(context.Background(), 4)
		require.NoError(t, err)
		assert.Len(t, got, 1)
	})

	t.Run("missing book", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/dev/books/nope", r.URL.Path)
			http.Error(w, "not found", http.StatusNotFound)
		}, 0)

		_, err := c.Book(context.Background(), "nope")
		assert.ErrorIs(t, err, livroapi.ErrNotFound)
	})

	t.Run("create wraps owner email", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			var body struct {
				OwnerEmail string             `json:"ownerEmail"`
				Book       livroapi.BookInput `json:"book"`
			}
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@example.com", body.OwnerEmail)
			assert.Equal(t, "Dom Casmurro", body.Book.Title)
			writeJSON(w, http.StatusCreated, books[0])
		}, 0)

		got, err := c.CreateBook(context.Background(), "ana@example.com", livroapi.BookInput{Title: "Dom Casmurro"})
		require.NoError(t, err)
		assert.Equal(t, "b1", got.ID)
	})

	t.Run("update returns pre-signed url", func(t *testing.T) {
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			assert.Equal(t, "/dev/books/b1", r.URL.Path)
			b := books[0]
			b.PreSignedURL = "https://bucket.example.com/cover.jpg?sig=x"
			writeJSON(w, http.StatusOK, b)
		}, 0)

		got, err := c.UpdateBook(context.Background(), "b1", livroapi.BookInput{Title: "Dom Casmurro", ImageFileName: "cover.jpg"})
		require.NoError(t, err)
		assert.NotEmpty(t, got.PreSignedURL)
	})

	t.Run("delete", func(t *testing.T) {
		var method string
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			method = r.Method
			w.WriteHeader(http.StatusNoContent)
		}, 0)

		require.NoError(t, c.DeleteBook(context.Background(), "b1"))
		assert.Equal(t, http.MethodDelete, method)
		assert.ErrorIs(t, c.DeleteBook(context.Background(), ""), livroapi.ErrEmptyID)
	})
}

func TestRetry(t *testing.T) {
	t.Run("recovers after transient failures", func(t *testing.T) {
		var hits atomic.Int32
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			var body map[string]string
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "ana@example.com", body["email"], "body must be resent on retry")

			if hits.Add(1) < 3 {
				w.WriteHeader(http.StatusServiceUnavailable)
				return
			}
			_, _ = io.WriteString(w, userJSON)
		}, 3)

		_, err := c.Login(context.Background(), "ana@example.com", "secret123")
		require.NoError(t, err)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("returns last response when retries run out", func(t *testing.T) {
		var hits atomic.Int32
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusTooManyRequests)
		}, 2)

		_, err := c.Books(context.Background())
		var apiErr *livroapi.APIError
		require.True(t, errors.As(err, &apiErr))
		assert.Equal(t, http.StatusTooManyRequests, apiErr.Status)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("client errors are not retried", func(t *testing.T) {
		var hits atomic.Int32
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			hits.Add(1)
			w.WriteHeader(http.StatusBadRequest)
		}, 3)

		_, err := c.Books(context.Background())
		require.Error(t, err)
		assert.Equal(t, int32(1), hits.Load())
	})

	t.Run("writes are not repeated after an ambiguous failure", func(t *testing.T) {
		for _, status := range []int{http.StatusInternalServerError, http.StatusBadGateway, http.StatusGatewayTimeout} {
			var hits atomic.Int32
			c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
				assert.Equal(t, http.MethodPost, r.Method)
				hits.Add(1)
				w.WriteHeader(status)
			}, 3)

			_, err := c.CreateBook(context.Background(), "ana@example.com", livroapi.BookInput{Title: "Dom Casmurro"})
			var apiErr *livroapi.APIError
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, status, apiErr.Status)
			assert.Equal(t, int32(1), hits.Load(), "status %d", status)
		}
	})

	t.Run("writes retry on throttling", func(t *testing.T) {
		var hits atomic.Int32
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 2 {
				w.WriteHeader(http.StatusTooManyRequests)
				return
			}
			writeJSON(w, http.StatusCreated, livroapi.Book{ID: "b1"})
		}, 3)

		got, err := c.CreateBook(context.Background(), "ana@example.com", livroapi.BookInput{Title: "Dom Casmurro"})
		require.NoError(t, err)
		assert.Equal(t, "b1", got.ID)
		assert.Equal(t, int32(2), hits.Load())
	})

	t.Run("reads retry on gateway errors", func(t *testing.T) {
		var hits atomic.Int32
		c := newClient(t, func(w http.ResponseWriter, r *http.Request) {
			if hits.Add(1) < 3 {
				w.WriteHeader(http.StatusBadGateway)
				return
			}
			writeJSON(w, http.StatusOK, []livroapi.Book{})
		}, 3)

		_, err := c.Books(context.Background())
		require.NoError(t, err)
		assert.Equal(t, int32(3), hits.Load())
	})

	t.Run("writes retry when the connection is refused", func(t *testing.T) {
		srv := httptest.NewServer(http.NotFoundHandler())
		base := srv.URL
		srv.Close()

		var calls atomic.Int32
		c, err := livroapi.New(
			livroapi.Config{BaseURL: base, MaxRetries: 2},
			livroapi.WithBackoff(time.Millisecond, time.Millisecond),
			livroapi.WithHTTPClient(countingDoer{next: http.DefaultClient, calls: &calls}),
		)
		require.NoError(t, err)

		_, err = c.CreateBook(context.Background(), "ana@example.com", livroapi.BookInput{Title: "x"})
		require.Error(t, err)
		assert.Equal(t, int32(3), calls.Load())
	})

	t.Run("context cancellation stops backoff", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusBadGateway)
		}))
		t.Cleanup(srv.Close)
		c, err := livroapi.New(
			livroapi.Config{BaseURL: srv.URL, MaxRetries: 5},
			livroapi.WithBackoff(time.Hour, time.Hour),
		)
		require.NoError(t, err)

		ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
		defer cancel()

		start := time.Now()
		_, err = c.Books(ctx)
		require.Error(t, err)
		assert.Less(t, time.Since(start), 5*time.Second)
	})
}

func TestUploadImage(t *testing.T) {
	t.Run("puts the image", func(t *testing.T) {
		var got []byte
		var contentType string
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPut, r.Method)
			contentType = r.Header.Get("Content-Type")
			got, _ = io.ReadAll(r.Body)
		}))
		t.Cleanup(srv.Close)

		c, err := livroapi.New(livroapi.Config{BaseURL: "http://api.invalid/dev/", MaxRetries: 0})
		require.NoError(t, err)

		img := bytes.Repeat([]byte{0xff}, livroapi.MaxImageSize)
		err = c.UploadImage(context.Background(), srv.URL+"/cover.jpg?sig=abc", "image/jpeg", bytes.NewReader(img), int64(len(img)))
		require.NoError(t, err)
		assert.Equal(t, "image/jpeg", contentType)
		assert.Len(t, got, livroapi.MaxImageSize)
	})

	t.Run("declared size over limit", func(t *testing.T) {
		c, err := livroapi.New(livroapi.Config{BaseURL: "http://api.invalid/"})
		require.NoError(t, err)

		err = c.UploadImage(context.Background(), "http://bucket.invalid/x", "image/png", bytes.NewReader(nil), livroapi.MaxImageSize+1)
		assert.ErrorIs(t, err, livroapi.ErrImageTooLarge)
	})

	t.Run("actual size over limit", func(t *testing.T) {
		c, err := livroapi.New(livroapi.Config{BaseURL: "http://api.invalid/"})
		require.NoError(t, err)

		img := bytes.Repeat([]byte{1}, livroapi.MaxImageSize+10)
		err = c.UploadImage(context.Background(), "http://bucket.invalid/x", "image/png", bytes.NewReader(img), 0)
		assert.ErrorIs(t, err, livroapi.ErrImageTooLarge)
	})
}
