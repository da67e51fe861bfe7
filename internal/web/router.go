package web

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/livroelivro/sebo/internal/account"
	"github.com/livroelivro/sebo/internal/cart"
	"github.com/livroelivro/sebo/internal/catalog"
	"github.com/livroelivro/sebo/pkg/httpserver"
	"github.com/livroelivro/sebo/pkg/i18n"
	"github.com/livroelivro/sebo/pkg/kvstore"
	"github.com/livroelivro/sebo/pkg/logger"
	"github.com/livroelivro/sebo/pkg/ratelimiter"
	"github.com/livroelivro/sebo/pkg/requestid"
)

// maxBodySize bounds request bodies, cover uploads included.
const maxBodySize = 2 << 20

// Config holds the HTTP surface settings. Throttle limits login and
// registration attempts per client IP; a zero Capacity turns it off.
type Config struct {
	AllowedOrigins []string `env:"CORS_ALLOWED_ORIGINS" envSeparator:"," envDefault:"*"`
	Throttle       ratelimiter.Config
}

// Deps are the services the handlers bind.
type Deps struct {
	Accounts     *account.Service
	Catalog      *catalog.Service
	Cart         *cart.Service
	Store        kvstore.Store
	Translator   *i18n.Translator
	Logger       *slog.Logger
	HealthChecks map[string]httpserver.Check
}

// Handler serves the JSON API.
type Handler struct {
	accounts *account.Service
	catalog  *catalog.Service
	cart     *cart.Service
	store    kvstore.Store
	tr       *i18n.Translator
	log      *slog.Logger
}

// NewRouter wires middleware and routes. It fails only on an invalid
// throttle configuration.
func NewRouter(cfg Config, d Deps) (http.Handler, error) {
	log := d.Logger
	if log == nil {
		log = logger.Discard()
	}
	h := &Handler{
		accounts: d.Accounts,
		catalog:  d.Catalog,
		cart:     d.Cart,
		store:    d.Store,
		tr:       d.Translator,
		log:      log.With(logger.Component("web")),
	}

	throttle := func(next http.Handler) http.Handler { return next }
	if cfg.Throttle.Enabled() {
		bucket, err := ratelimiter.NewBucket(kvstore.Namespace(d.Store, "ratelimit"), cfg.Throttle)
		if err != nil {
			return nil, err
		}
		throttle = ratelimiter.Middleware(bucket, ratelimiter.ClientIP, h.handle(h.tooManyRequests), h.log)
	}

	origins := cfg.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"*"}
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(requestid.Middleware)
	r.Use(h.accessLog)
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Accept-Language", "Content-Type", SessionHeader, requestid.Header},
		ExposedHeaders: []string{SessionHeader, requestid.Header, "Content-Language", "Retry-After"},
		MaxAge:         300,
	}))
	r.Use(i18n.Middleware(i18n.NewMatcher(h.tr.SupportedLanguages()...)))

	r.Get("/healthz", httpserver.HealthCheckHandler(h.log, d.HealthChecks))

	r.Route("/v1", func(r chi.Router) {
		r.Use(middleware.RequestSize(maxBodySize))
		r.Use(sessionMiddleware)

		r.Post("/validate", h.handle(h.validateField))

		r.With(throttle).Post("/accounts", h.handle(h.register))
		r.With(throttle).Post("/session", h.handle(h.login))
		r.Delete("/session", h.handle(h.logout))
		r.Get("/me", h.handle(h.me))
		r.Patch("/me", h.handle(h.updateMe))
		r.Get("/dashboard", h.handle(h.dashboard))
		r.Get("/consent", h.handle(h.consent))
		r.Put("/consent", h.handle(h.setConsent))

		r.Route("/books", func(r chi.Router) {
			r.Get("/", h.handle(h.listBooks))
			r.Post("/", h.handle(h.createBook))
			r.Get("/latest", h.handle(h.latestBooks))
			r.Get("/mine", h.handle(h.myBooks))
			r.Get("/{id}", h.handle(h.getBook))
			r.Put("/{id}", h.handle(h.updateBook))
			r.Delete("/{id}", h.handle(h.deleteBook))
		})

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", h.handle(h.getCart))
			r.Delete("/", h.handle(h.clearCart))
			r.Post("/{bookID}", h.handle(h.addToCart))
			r.Delete("/{bookID}", h.handle(h.removeFromCart))
		})
	})

	return r, nil
}

func (h *Handler) tooManyRequests(r *http.Request) Response {
	return h.fail(r, ErrTooManyRequests)
}

// handle adapts a Response-returning func to net/http. A nil Response
// means 204.
func (h *Handler) handle(fn func(r *http.Request) Response) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := fn(r)
		if resp == nil {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		if err := resp.Render(w, r); err != nil {
			h.log.ErrorContext(r.Context(), "render response", logger.Error(err))
		}
	}
}

func (h *Handler) accessLog(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		h.log.InfoContext(r.Context(), "http request",
			slog.String("method", r.Method),
			slog.String("path", r.URL.Path),
			slog.String("remote_ip", r.RemoteAddr),
			logger.Status(status),
			logger.Duration(time.Since(start)),
		)
	})
}
