package cart

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/kvstore"
	"github.com/livroelivro/sebo/pkg/logger"
)

const (
	// ShippingPerBook is the flat shipping cost, in reais, of each book.
	ShippingPerBook = 50

	cartKey = "cart"
	// cartTTL is refreshed on every write.
	cartTTL = 30 * 24 * time.Hour
)

const (
	MsgLoginRequired = "Você precisa estar logado para adicionar livros ao carrinho."
	MsgBookNotFound  = "Livro não encontrado."
	MsgOwnBook       = "Você não pode adicionar seus próprios livros ao carrinho."
	MsgAlreadyInCart = "Este livro já está no seu carrinho!"
	MsgAdded         = "Livro adicionado ao carrinho!"
)

// Users resolves the visitor's logged-in account.
type Users interface {
	CurrentUser(ctx context.Context, session kvstore.Store) (livroapi.User, error)
}

// Books resolves a listed book by id.
type Books interface {
	Book(ctx context.Context, id string) (livroapi.Book, error)
}

var (
	// ErrNotLoggedIn is what Users returns for anonymous visitors.
	ErrNotLoggedIn = errors.New("cart: not logged in")
	// ErrBookNotFound is what Books returns for unknown ids.
	ErrBookNotFound = errors.New("cart: book not found")
)

// Result codes name the outcome of Add for translation.
const (
	CodeAdded         = "added"
	CodeLoginRequired = "login_required"
	CodeBookNotFound  = "book_not_found"
	CodeOwnBook       = "own_book"
	CodeAlreadyInCart = "already_in_cart"
)

// Result is the outcome of Add, with the message shown to the visitor.
type Result struct {
	Success       bool   `json:"success"`
	Code          string `json:"code"`
	Message       string `json:"message"`
	RequiresLogin bool   `json:"requiresLogin,omitempty"`
}

// Service keeps each visitor's interest list as an ordered list of book ids
// in their session store.
type Service struct {
	users       Users
	books       Books
	notLoggedIn error
	notFound    error
	log         *slog.Logger
}

type Option func(*Service)

// WithErrors sets the sentinels Users and Books return for a missing
// account and a missing book.
func WithErrors(notLoggedIn, bookNotFound error) Option {
	return func(s *Service) {
		if notLoggedIn != nil {
			s.notLoggedIn = notLoggedIn
		}
		if bookNotFound != nil {
			s.notFound = bookNotFound
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

func NewService(users Users, books Books, opts ...Option) *Service {
	s := &Service{
		users:       users,
		books:       books,
		notLoggedIn: ErrNotLoggedIn,
		notFound:    ErrBookNotFound,
		log:         logger.Discard(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("cart"))
	return s
}

// Add puts bookID on the list. Rule violations come back as an unsuccessful
// Result; only infrastructure failures are errors. Rules are checked in
// order: login, existence, ownership, duplicates.
func (s *Service) Add(ctx context.Context, session kvstore.Store, bookID string) (Result, error) {
	user, err := s.users.CurrentUser(ctx, session)
	if errors.Is(err, s.notLoggedIn) {
		return Result{Code: CodeLoginRequired, Message: MsgLoginRequired, RequiresLogin: true}, nil
	}
	if err != nil {
		return Result{}, err
	}

	if _, err := s.books.Book(ctx, bookID); errors.Is(err, s.notFound) {
		return Result{Code: CodeBookNotFound, Message: MsgBookNotFound}, nil
	} else if err != nil {
		return Result{}, err
	}

	if user.OwnsBook(bookID) {
		return Result{Code: CodeOwnBook, Message: MsgOwnBook}, nil
	}

	ids, err := s.IDs(ctx, session)
	if err != nil {
		return Result{}, err
	}
	if slices.Contains(ids, bookID) {
		return Result{Code: CodeAlreadyInCart, Message: MsgAlreadyInCart}, nil
	}

	if err := s.save(ctx, session, append(ids, bookID)); err != nil {
		return Result{}, err
	}
	s.log.DebugContext(ctx, "book added to cart", logger.BookID(bookID))
	return Result{Success: true, Code: CodeAdded, Message: MsgAdded}, nil
}

// Remove drops bookID; removing an absent id is a no-op.
func (s *Service) Remove(ctx context.Context, session kvstore.Store, bookID string) error {
	ids, err := s.IDs(ctx, session)
	if err != nil {
		return err
	}
	return s.save(ctx, session, slices.DeleteFunc(ids, func(id string) bool { return id == bookID }))
}

func (s *Service) Clear(ctx context.Context, session kvstore.Store) error {
	return s.save(ctx, session, []string{})
}

// IDs returns the stored list, empty when nothing was saved yet.
func (s *Service) IDs(ctx context.Context, session kvstore.Store) ([]string, error) {
	return kvstore.GetJSONOr(ctx, session, cartKey, []string{})
}

// Items resolves the stored ids to books, skipping ids that are no longer
// listed.
func (s *Service) Items(ctx context.Context, session kvstore.Store) ([]livroapi.Book, error) {
	ids, err := s.IDs(ctx, session)
	if err != nil {
		return nil, err
	}
	return s.resolve(ctx, ids)
}

// Count is the number of stored ids, including stale ones.
func (s *Service) Count(ctx context.Context, session kvstore.Store) (int, error) {
	ids, err := s.IDs(ctx, session)
	return len(ids), err
}

// Summary is the cart as shown to the visitor. Count and Shipping follow the
// stored ids, stale ones included; Items holds only books still listed.
type Summary struct {
	Items    []livroapi.Book
	Count    int
	Shipping int
}

// Summary reads the cart once and derives items, count and shipping from
// the same list.
func (s *Service) Summary(ctx context.Context, session kvstore.Store) (Summary, error) {
	ids, err := s.IDs(ctx, session)
	if err != nil {
		return Summary{}, err
	}
	items, err := s.resolve(ctx, ids)
	if err != nil {
		return Summary{}, err
	}
	return Summary{Items: items, Count: len(ids), Shipping: len(ids) * ShippingPerBook}, nil
}

func (s *Service) resolve(ctx context.Context, ids []string) ([]livroapi.Book, error) {
	items := make([]livroapi.Book, 0, len(ids))
	for _, id := range ids {
		b, err := s.books.Book(ctx, id)
		if errors.Is(err, s.notFound) {
			continue
		}
		if err != nil {
			return nil, err
		}
		items = append(items, b)
	}
	return items, nil
}

func (s *Service) save(ctx context.Context, session kvstore.Store, ids []string) error {
	if ids == nil {
		ids = []string{}
	}
	return kvstore.SetJSON(ctx, session, cartKey, ids, cartTTL)
}

// FormatBRL renders whole reais as "R$ 1.250,00".
func FormatBRL(reais int) string {
	sign := ""
	if reais < 0 {
		sign = "-"
		reais = -reais
	}
	digits := fmt.Sprint(reais)
	var b strings.Builder
	for i, r := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			b.WriteByte('.')
		}
		b.WriteRune(r)
	}
	return sign + "R$ " + b.String() + ",00"
}
