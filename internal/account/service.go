package account

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/kvstore"
	"github.com/livroelivro/sebo/pkg/logger"
	"github.com/livroelivro/sebo/pkg/sanitizer"
	"github.com/livroelivro/sebo/pkg/validator"
)

const (
	// SessionTTL bounds how long an idle login is kept.
	SessionTTL = 30 * 24 * time.Hour

	currentUserKey = "currentUser"
	ordersKey      = "orders"
	consentKey     = "cookieConsent"
)

const (
	OrderCompleted = "concluido"
	OrderCancelled = "cancelado"
)

// Consent values stored for the cookie banner.
const (
	ConsentAccepted = "accepted"
	ConsentRejected = "rejected"
)

// API is the subset of the remote client accounts use.
type API interface {
	Login(ctx context.Context, email, password string) (livroapi.User, error)
	CreateUser(ctx context.Context, req livroapi.CreateUserRequest) (livroapi.User, error)
	UpdateUser(ctx context.Context, id string, req livroapi.UpdateUserRequest) (livroapi.User, error)
}

// Order is an exchange request as kept in the visitor session.
type Order struct {
	ID     string `json:"id"`
	UserID string `json:"userId"`
	BookID string `json:"bookId,omitempty"`
	Status string `json:"status"`
}

// Pending reports whether the order is neither completed nor cancelled.
func (o Order) Pending() bool {
	return o.Status != OrderCompleted && o.Status != OrderCancelled
}

// Service manages the logged-in account of each visitor session.
type Service struct {
	api API
	log *slog.Logger
}

type Option func(*Service)

func WithLogger(l *slog.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.log = l
		}
	}
}

func NewService(api API, opts ...Option) *Service {
	s := &Service{api: api, log: logger.Discard()}
	for _, opt := range opts {
		opt(s)
	}
	s.log = s.log.With(logger.Component("account"))
	return s
}

// Register validates form, creates the account and logs the visitor in.
func (s *Service) Register(ctx context.Context, session kvstore.Store, form RegistrationForm) (livroapi.User, error) {
	if err := form.Validate(); err != nil {
		return livroapi.User{}, err
	}

	req := form.ToCreateUserRequest()
	user, err := s.api.CreateUser(ctx, req)
	var apiErr *livroapi.APIError
	if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
		s.log.InfoContext(ctx, "email already registered", logger.Email(req.Email))
		return livroapi.User{}, emailTaken()
	}
	if err != nil {
		s.log.WarnContext(ctx, "registration failed", logger.Email(req.Email), logger.Error(err))
		return livroapi.User{}, err
	}

	if err := s.store(ctx, session, user); err != nil {
		return livroapi.User{}, err
	}
	s.log.InfoContext(ctx, "account registered", logger.Email(user.Email), logger.CPF(user.CPF))
	return user, nil
}

// emailTaken reports a remote 409 on registration as a form error on email.
func emailTaken() error {
	return validator.ValidationErrors{{
		Field:          "email",
		Message:        "Este e-mail já está cadastrado",
		TranslationKey: "register.email_taken",
	}}
}

// Login checks the credentials remotely and keeps the account, without the
// password, in the session.
func (s *Service) Login(ctx context.Context, session kvstore.Store, form LoginForm) (livroapi.User, error) {
	form.Email = sanitizer.NormalizeEmail(form.Email)
	if err := form.Validate(); err != nil {
		return livroapi.User{}, err
	}

	user, err := s.api.Login(ctx, form.Email, form.Password)
	if errors.Is(err, livroapi.ErrInvalidCredentials) {
		s.log.InfoContext(ctx, "login rejected", logger.Email(form.Email))
		return livroapi.User{}, ErrInvalidCredentials
	}
	if err != nil {
		return livroapi.User{}, err
	}

	if err := s.store(ctx, session, user); err != nil {
		return livroapi.User{}, err
	}
	return user, nil
}

// Logout forgets the account. The cart is kept.
func (s *Service) Logout(ctx context.Context, session kvstore.Store) error {
	return session.Delete(ctx, currentUserKey)
}

// CurrentUser returns the logged-in account or ErrNotLoggedIn.
func (s *Service) CurrentUser(ctx context.Context, session kvstore.Store) (livroapi.User, error) {
	user, err := kvstore.GetJSON[livroapi.User](ctx, session, currentUserKey)
	switch {
	case errors.Is(err, kvstore.ErrNotFound):
		return livroapi.User{}, ErrNotLoggedIn
	case errors.Is(err, kvstore.ErrDecode):
		return livroapi.User{}, errors.Join(ErrCorruptSession, err)
	case err != nil:
		return livroapi.User{}, err
	}
	return user, nil
}

// UpdateProfile validates and saves the editable fields of the current
// account.
func (s *Service) UpdateProfile(ctx context.Context, session kvstore.Store, form ProfileForm) (livroapi.User, error) {
	user, err := s.CurrentUser(ctx, session)
	if err != nil {
		return livroapi.User{}, err
	}
	if err := form.Validate(); err != nil {
		return livroapi.User{}, err
	}

	req := form.ToUpdateUserRequest()
	updated, err := s.api.UpdateUser(ctx, user.ID, req)
	if err != nil {
		return livroapi.User{}, err
	}
	// Keep local fields the service may omit from its answer.
	if updated.ID == "" {
		updated = user
		updated.Name, updated.Phone, updated.Address = req.Name, req.Phone, req.Address
	}
	if updated.BookIDs == nil {
		updated.BookIDs = user.BookIDs
	}

	if err := s.store(ctx, session, updated); err != nil {
		return livroapi.User{}, err
	}
	return updated, nil
}

// AddBook records a newly listed book on the current account.
func (s *Service) AddBook(ctx context.Context, session kvstore.Store, bookID string) error {
	return s.updateBookIDs(ctx, session, func(ids []string) []string {
		if slices.Contains(ids, bookID) {
			return ids
		}
		return append(ids, bookID)
	})
}

// RemoveBook drops a deleted book from the current account.
func (s *Service) RemoveBook(ctx context.Context, session kvstore.Store, bookID string) error {
	return s.updateBookIDs(ctx, session, func(ids []string) []string {
		return slices.DeleteFunc(ids, func(id string) bool { return id == bookID })
	})
}

func (s *Service) updateBookIDs(ctx context.Context, session kvstore.Store, fn func([]string) []string) error {
	user, err := s.CurrentUser(ctx, session)
	if err != nil {
		return err
	}
	user.BookIDs = fn(user.BookIDs)
	return s.store(ctx, session, user)
}

// Orders lists the exchange orders kept in the session.
func (s *Service) Orders(ctx context.Context, session kvstore.Store) ([]Order, error) {
	return kvstore.GetJSONOr(ctx, session, ordersKey, []Order{})
}

// SetCookieConsent records the visitor's answer to the cookie banner.
func (s *Service) SetCookieConsent(ctx context.Context, session kvstore.Store, accepted bool) error {
	v := ConsentRejected
	if accepted {
		v = ConsentAccepted
	}
	return session.Set(ctx, consentKey, []byte(v), SessionTTL)
}

// CookieConsent is "" until the visitor answers.
func (s *Service) CookieConsent(ctx context.Context, session kvstore.Store) (string, error) {
	v, err := session.Get(ctx, consentKey)
	if errors.Is(err, kvstore.ErrNotFound) {
		return "", nil
	}
	return string(v), err
}

func (s *Service) store(ctx context.Context, session kvstore.Store, user livroapi.User) error {
	return kvstore.SetJSON(ctx, session, currentUserKey, user, SessionTTL)
}

// BookLister returns the current book list.
type BookLister interface {
	Books(ctx context.Context) ([]livroapi.Book, error)
}

// CartCounter counts the books on the visitor's interest list.
type CartCounter interface {
	Count(ctx context.Context, session kvstore.Store) (int, error)
}

// Dashboard holds the counters of the account overview.
type Dashboard struct {
	MyBooks         int `json:"myBooks"`
	CompletedOrders int `json:"completedOrders"`
	PendingOrders   int `json:"pendingOrders"`
	CartItems       int `json:"cartItems"`
}

// Dashboard gathers the overview counters concurrently. MyBooks counts
// listed books whose owner is the current user.
func (s *Service) Dashboard(ctx context.Context, session kvstore.Store, books BookLister, cart CartCounter) (Dashboard, error) {
	user, err := s.CurrentUser(ctx, session)
	if err != nil {
		return Dashboard{}, err
	}

	var d Dashboard
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		list, err := books.Books(gctx)
		if err != nil {
			return err
		}
		for _, b := range list {
			if b.OwnerID == user.ID {
				d.MyBooks++
			}
		}
		return nil
	})

	g.Go(func() error {
		orders, err := s.Orders(gctx, session)
		if err != nil {
			return err
		}
		for _, o := range orders {
			if o.UserID != user.ID {
				continue
			}
			if o.Pending() {
				d.PendingOrders++
			} else if o.Status == OrderCompleted {
				d.CompletedOrders++
			}
		}
		return nil
	})

	g.Go(func() error {
		n, err := cart.Count(gctx, session)
		d.CartItems = n
		return err
	})

	if err := g.Wait(); err != nil {
		return Dashboard{}, err
	}
	return d, nil
}
