package web

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/google/uuid"

	"github.com/livroelivro/sebo/pkg/kvstore"
	"github.com/livroelivro/sebo/pkg/logger"
)

// SessionHeader carries the visitor id. Requests without a valid UUID get a
// new one, echoed back in the response.
const SessionHeader = "X-Session-ID"

type sessionKey struct{}

func withSessionID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, sessionKey{}, id)
}

// SessionID returns the visitor id stored by the session middleware.
func SessionID(ctx context.Context) string {
	id, _ := ctx.Value(sessionKey{}).(string)
	return id
}

// SessionLogExtractor adds session_id to log records.
func SessionLogExtractor(ctx context.Context) (slog.Attr, bool) {
	if id := SessionID(ctx); id != "" {
		return logger.SessionID(id), true
	}
	return slog.Attr{}, false
}

func sessionMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(SessionHeader)
		if parsed, err := uuid.Parse(id); err != nil {
			id = uuid.NewString()
		} else {
			id = parsed.String()
		}
		w.Header().Set(SessionHeader, id)
		next.ServeHTTP(w, r.WithContext(withSessionID(r.Context(), id)))
	})
}

// sessionStore scopes the shared store to the visitor.
func sessionStore(store kvstore.Store, r *http.Request) kvstore.Store {
	return kvstore.Namespace(store, "session:"+SessionID(r.Context()))
}
