package catalog

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"strconv"
	"time"

	"golang.org/x/sync/singleflight"

	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/kvstore"
	"github.com/livroelivro/sebo/pkg/logger"
	"github.com/livroelivro/sebo/pkg/sanitizer"
	"github.com/livroelivro/sebo/pkg/validator"
)

const (
	// DefaultTTL is how long a fetched book list is served before refreshing.
	DefaultTTL = 60 * time.Minute

	booksKey   = "books"
	timeoutKey = "booksTimeout"
)

// API is the subset of the remote client the catalog uses.
type API interface {
	Books(ctx context.Context) ([]livroapi.Book, error)
	Latest(ctx context.Context, n int) ([]livroapi.Book, error)
	CreateBook(ctx context.Context, ownerEmail string, in livroapi.BookInput) (livroapi.Book, error)
	UpdateBook(ctx context.Context, id string, in livroapi.BookInput) (livroapi.Book, error)
	DeleteBook(ctx context.Context, id string) error
	UploadImage(ctx context.Context, presignedURL, contentType string, body io.Reader, size int64) error
}

// Image is a cover upload attached to a book update.
type Image struct {
	Name        string
	ContentType string
	Size        int64
	Body        io.Reader
}

// Service serves the book list from a shared cache, refreshing it from the
// API once it is older than the TTL.
type Service struct {
	api   API
	store kvstore.Store
	ttl   time.Duration
	now   func() time.Time
	log   *slog.Logger
	group singleflight.Group
}

type Option func(*Service)

func WithTTL(ttl time.Duration) Option {
	return func(s *Service) {
		if ttl > 0 {
			s.ttl = ttl
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Service) {
		if now != nil {
			s.now = now
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

// NewService stores the cache under store, which should be a dedicated
// namespace.
func NewService(api API, store kvstore.Store, opts ...Option) *Service {
	s := &Service{
		api:   api,
		store: store,
		ttl:   DefaultTTL,
		now:   time.Now,
		log:   logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("catalog"))
	return s
}

// Books returns the cached list while it is fresh. An empty list counts as
// stale. Concurrent refreshes share one API call; a failed refresh clears
// the cache.
func (s *Service) Books(ctx context.Context) ([]livroapi.Book, error) {
	if books, ok := s.cached(ctx); ok {
		return books, nil
	}

	v, err, _ := s.group.Do(booksKey, func() (any, error) {
		// A concurrent caller may have refreshed while we waited.
		if books, ok := s.cached(ctx); ok {
			return books, nil
		}
		return s.refresh(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]livroapi.Book), nil
}

// Search returns the cached books matching f, ordered by sort.
func (s *Service) Search(ctx context.Context, f Filter, sort Sort) ([]livroapi.Book, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return nil, err
	}
	return Apply(books, f, sort), nil
}

// Book finds id in the current list.
func (s *Service) Book(ctx context.Context, id string) (livroapi.Book, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return livroapi.Book{}, err
	}
	for _, b := range books {
		if b.ID == id {
			return b, nil
		}
	}
	return livroapi.Book{}, ErrBookNotFound
}

// Latest asks the API for the n newest books, bypassing the cache.
func (s *Service) Latest(ctx context.Context, n int) ([]livroapi.Book, error) {
	return s.api.Latest(ctx, n)
}

// MyBooks returns the listed books whose ids the user owns.
func (s *Service) MyBooks(ctx context.Context, user livroapi.User) ([]livroapi.Book, error) {
	books, err := s.Books(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]livroapi.Book, 0, len(user.BookIDs))
	for _, b := range books {
		if user.OwnsBook(b.ID) {
			out = append(out, b)
		}
	}
	return out, nil
}

// CreateBook validates and lists a book for ownerEmail, appending it to
// the cache.
func (s *Service) CreateBook(ctx context.Context, ownerEmail string, in livroapi.BookInput) (livroapi.Book, error) {
	in = normalizeInput(in)
	if err := ValidateBook(in, nil); err != nil {
		return livroapi.Book{}, err
	}

	book, err := s.api.CreateBook(ctx, ownerEmail, in)
	if err != nil {
		return livroapi.Book{}, err
	}
	s.log.InfoContext(ctx, "book created", logger.BookID(book.ID))

	s.mutate(ctx, func(books []livroapi.Book) []livroapi.Book {
		return append(books, book)
	})
	return book, nil
}

// UpdateBook saves in and, when img is set, uploads the cover to the
// pre-signed URL the API answers with.
func (s *Service) UpdateBook(ctx context.Context, id string, in livroapi.BookInput, img *Image) (livroapi.Book, error) {
	in = normalizeInput(in)
	if err := ValidateBook(in, img); err != nil {
		return livroapi.Book{}, err
	}
	if img != nil {
		in.ImageFileName = sanitizer.SanitizeFilename(img.Name)
	}

	book, err := s.api.UpdateBook(ctx, id, in)
	if err != nil {
		return livroapi.Book{}, err
	}

	if img != nil && book.PreSignedURL != "" {
		if err := s.api.UploadImage(ctx, book.PreSignedURL, img.ContentType, img.Body, img.Size); err != nil {
			s.log.ErrorContext(ctx, "cover upload failed", logger.BookID(id), logger.Error(err))
			return book, errors.Join(ErrImageUpload, err)
		}
	}

	s.mutate(ctx, func(books []livroapi.Book) []livroapi.Book {
		for i := range books {
			if books[i].ID == id {
				books[i] = book
			}
		}
		return books
	})
	return book, nil
}

// DeleteBook removes the book remotely and from the cache.
func (s *Service) DeleteBook(ctx context.Context, id string) error {
	if err := s.api.DeleteBook(ctx, id); err != nil {
		return err
	}
	s.log.InfoContext(ctx, "book deleted", logger.BookID(id))

	s.mutate(ctx, func(books []livroapi.Book) []livroapi.Book {
		out := books[:0]
		for _, b := range books {
			if b.ID != id {
				out = append(out, b)
			}
		}
		return out
	})
	return nil
}

// Invalidate drops the cached list so the next read refreshes it.
func (s *Service) Invalidate(ctx context.Context) error {
	return errors.Join(
		s.store.Delete(ctx, booksKey),
		s.store.Delete(ctx, timeoutKey),
	)
}

// ValidateBook checks the required listing fields and, when present, the
// cover size.
func ValidateBook(in livroapi.BookInput, img *Image) error {
	rules := []validator.Rule{
		validator.Required("title", in.Title),
		validator.Required("author", in.Author),
		validator.Required("category", in.Category),
		validator.Required("condition", in.Condition),
		validator.OneOf("condition", in.Condition, Conditions),
		validator.Required("type", in.Type),
		validator.OneOf("type", in.Type, Types),
	}
	if img != nil {
		rules = append(rules, validator.MaxBytes("image", img.Size, livroapi.MaxImageSize).
			WithMessage("book.image_too_large", "A imagem deve ter no máximo 250KB. Por favor, selecione uma imagem menor."))
	}
	return validator.Apply(rules...)
}

func normalizeInput(in livroapi.BookInput) livroapi.BookInput {
	in.Title = sanitizer.Trim(in.Title)
	in.Author = sanitizer.Trim(in.Author)
	in.Description = sanitizer.Trim(in.Description)
	in.ISBN = sanitizer.Digits(in.ISBN)
	return in
}

func (s *Service) cached(ctx context.Context) ([]livroapi.Book, bool) {
	raw, err := s.store.Get(ctx, timeoutKey)
	if err != nil {
		return nil, false
	}
	stamp, err := strconv.ParseInt(string(raw), 10, 64)
	if err != nil || s.now().Sub(time.UnixMilli(stamp)) > s.ttl {
		return nil, false
	}

	books, err := kvstore.GetJSON[[]livroapi.Book](ctx, s.store, booksKey)
	if err != nil || len(books) == 0 {
		return nil, false
	}
	return books, true
}

func (s *Service) refresh(ctx context.Context) ([]livroapi.Book, error) {
	books, err := s.api.Books(ctx)
	if err != nil {
		s.log.WarnContext(ctx, "book refresh failed", logger.Error(err))
		return nil, errors.Join(ErrRefresh, err, s.Invalidate(ctx))
	}
	if books == nil {
		books = []livroapi.Book{}
	}
	if err := s.save(ctx, books); err != nil {
		// Serve the fresh list even if it could not be cached.
		s.log.WarnContext(ctx, "book cache write failed", logger.Error(err))
	}
	return books, nil
}

func (s *Service) save(ctx context.Context, books []livroapi.Book) error {
	if err := kvstore.SetJSON(ctx, s.store, booksKey, books, 0); err != nil {
		return err
	}
	stamp := strconv.FormatInt(s.now().UnixMilli(), 10)
	return s.store.Set(ctx, timeoutKey, []byte(stamp), 0)
}

// mutate applies fn to the cached list, keeping its timestamp. Nothing is
// written when there is no cache.
func (s *Service) mutate(ctx context.Context, fn func([]livroapi.Book) []livroapi.Book) {
	books, err := kvstore.GetJSON[[]livroapi.Book](ctx, s.store, booksKey)
	if err != nil {
		return
	}
	if err := kvstore.SetJSON(ctx, s.store, booksKey, fn(books), 0); err != nil {
		s.log.WarnContext(ctx, "book cache write failed", logger.Error(err))
	}
}
