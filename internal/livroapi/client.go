package livroapi

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/livroelivro/sebo/pkg/logger"
)

const (
	DefaultBaseURL = "https://6tq0bqkysh.execute-api.sa-east-1.amazonaws.com/dev/"
	// MaxImageSize is the largest cover image the upload accepts.
	MaxImageSize = 250 * 1024
	// maxErrorBody caps how much of an error response is kept in APIError.
	maxErrorBody = 4 << 10
)

// Config holds the remote service settings.
type Config struct {
	BaseURL    string        `env:"LIVRO_API_URL" envDefault:"https://6tq0bqkysh.execute-api.sa-east-1.amazonaws.com/dev/"`
	Timeout    time.Duration `env:"LIVRO_API_TIMEOUT" envDefault:"15s"`
	MaxRetries int           `env:"LIVRO_API_MAX_RETRIES" envDefault:"3"`
}

// Client talks to the book-exchange backend.
type Client struct {
	base *url.URL
	doer Doer
	log  *slog.Logger
}

type Option func(*clientOptions)

type clientOptions struct {
	doer      Doer
	log       *slog.Logger
	baseDelay time.Duration
	maxDelay  time.Duration
}

// WithHTTPClient replaces the transport the retry layer wraps.
func WithHTTPClient(d Doer) Option {
	return func(o *clientOptions) {
		if d != nil {
			o.doer = d
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(o *clientOptions) {
		if l != nil {
			o.log = l
		}
	}
}

// WithBackoff sets the base and cap of the retry backoff.
func WithBackoff(base, max time.Duration) Option {
	return func(o *clientOptions) {
		if base > 0 {
			o.baseDelay = base
		}
		if max > 0 {
			o.maxDelay = max
		}
	}
}

// New builds a Client from cfg.
func New(cfg Config, opts ...Option) (*Client, error) {
	raw := strings.TrimSpace(cfg.BaseURL)
	if raw == "" {
		raw = DefaultBaseURL
	}
	base, err := url.Parse(raw)
	if err != nil || base.Scheme == "" || base.Host == "" {
		return nil, errors.Join(ErrInvalidBaseURL, err)
	}
	if !strings.HasSuffix(base.Path, "/") {
		base.Path += "/"
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 15 * time.Second
	}
	o := clientOptions{
		doer:      &http.Client{Timeout: timeout},
		log:       logger.Discard(),
		baseDelay: defaultBaseDelay,
		maxDelay:  defaultMaxDelay,
	}
	for _, opt := range opts {
		opt(&o)
	}

	rd := newRetryDoer(o.doer, cfg.MaxRetries, o.log)
	rd.baseDelay = o.baseDelay
	rd.maxDelay = o.maxDelay
	if rd.minDelay > rd.baseDelay {
		rd.minDelay = rd.baseDelay
	}

	return &Client{base: base, doer: rd, log: o.log}, nil
}

// Login exchanges credentials for the account. Any answer other than 200
// below 500, except 429, is treated as rejected credentials.
func (c *Client) Login(ctx context.Context, email, password string) (User, error) {
	var w wireUser
	err := c.call(ctx, http.MethodPost, "auth/login/", loginRequest{Email: email, Password: password}, &w)
	if err != nil {
		var apiErr *APIError
		if errors.As(err, &apiErr) && apiErr.Status < http.StatusInternalServerError && apiErr.Status != http.StatusTooManyRequests {
			return User{}, errors.Join(ErrInvalidCredentials, err)
		}
		return User{}, err
	}
	return w.toUser(), nil
}

// CreateUser registers a new account.
func (c *Client) CreateUser(ctx context.Context, req CreateUserRequest) (User, error) {
	parts, err := datePartsFromISO(req.BirthDate)
	if err != nil {
		return User{}, err
	}
	var w wireUser
	if err := c.call(ctx, http.MethodPost, "users/", wireCreateUser{CreateUserRequest: req, BirthDate: parts}, &w); err != nil {
		return User{}, err
	}
	return w.toUser(), nil
}

// UpdateUser saves the editable profile fields of user id.
func (c *Client) UpdateUser(ctx context.Context, id string, req UpdateUserRequest) (User, error) {
	if id == "" {
		return User{}, ErrEmptyID
	}
	var w wireUser
	if err := c.call(ctx, http.MethodPatch, "users/"+url.PathEscape(id), req, &w); err != nil {
		return User{}, err
	}
	return w.toUser(), nil
}

// Books lists every book available for exchange or donation.
func (c *Client) Books(ctx context.Context) ([]Book, error) {
	var books []Book
	if err := c.call(ctx, http.MethodGet, "books/", nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

// Latest lists the n most recent books.
func (c *Client) Latest(ctx context.Context, n int) ([]Book, error) {
	if n <= 0 {
		return []Book{}, nil
	}
	var books []Book
	if err := c.call(ctx, http.MethodGet, "books/list/"+strconv.Itoa(n), nil, &books); err != nil {
		return nil, err
	}
	return books, nil
}

func (c *Client) Book(ctx context.Context, id string) (Book, error) {
	if id == "" {
		return Book{}, ErrEmptyID
	}
	var b Book
	if err := c.call(ctx, http.MethodGet, "books/"+url.PathEscape(id), nil, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// CreateBook lists a book under the owner's account.
func (c *Client) CreateBook(ctx context.Context, ownerEmail string, in BookInput) (Book, error) {
	var b Book
	if err := c.call(ctx, http.MethodPost, "books/", createBookRequest{OwnerEmail: ownerEmail, Book: in}, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

// UpdateBook replaces the book fields. When in.ImageFileName is set the
// answer carries a PreSignedURL for UploadImage.
func (c *Client) UpdateBook(ctx context.Context, id string, in BookInput) (Book, error) {
	if id == "" {
		return Book{}, ErrEmptyID
	}
	var b Book
	if err := c.call(ctx, http.MethodPut, "books/"+url.PathEscape(id), in, &b); err != nil {
		return Book{}, err
	}
	return b, nil
}

func (c *Client) DeleteBook(ctx context.Context, id string) error {
	if id == "" {
		return ErrEmptyID
	}
	return c.call(ctx, http.MethodDelete, "books/"+url.PathEscape(id), nil, nil)
}

// UploadImage PUTs the cover image to a pre-signed storage URL. Images over
// MaxImageSize are rejected before any request is made.
func (c *Client) UploadImage(ctx context.Context, presignedURL, contentType string, body io.Reader, size int64) error {
	if size > MaxImageSize {
		return ErrImageTooLarge
	}
	data, err := io.ReadAll(io.LimitReader(body, MaxImageSize+1))
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	if len(data) > MaxImageSize {
		return ErrImageTooLarge
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPut, presignedURL, bytes.NewReader(data))
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.doer.Do(req)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()
	return checkStatus(resp)
}

func (c *Client) call(ctx context.Context, method, path string, in, out any) error {
	var body io.Reader
	if in != nil {
		raw, err := json.Marshal(in)
		if err != nil {
			return errors.Join(ErrEncodeRequest, err)
		}
		body = bytes.NewReader(raw)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.base.JoinPath(path).String(), body)
	if err != nil {
		return errors.Join(ErrRequestFailed, err)
	}
	req.Header.Set("Accept", "application/json")
	if in != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	start := time.Now()
	resp, err := c.doer.Do(req)
	if err != nil {
		c.log.WarnContext(ctx, "remote call failed",
			slog.String("method", method),
			slog.String("path", path),
			logger.Error(err),
		)
		return errors.Join(ErrRequestFailed, err)
	}
	defer resp.Body.Close()

	c.log.DebugContext(ctx, "remote call",
		slog.String("method", method),
		slog.String("path", path),
		logger.Status(resp.StatusCode),
		logger.Duration(time.Since(start)),
	)

	if err := checkStatus(resp); err != nil {
		return err
	}
	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}
	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Join(ErrDecodeResponse, err)
	}
	return nil
}

func checkStatus(resp *http.Response) error {
	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return nil
	}
	raw, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
	return &APIError{Status: resp.StatusCode, Body: strings.TrimSpace(string(raw))}
}
