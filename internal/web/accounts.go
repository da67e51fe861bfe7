package web

import (
	"net/http"
	"strings"

	"github.com/livroelivro/sebo/internal/account"
	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/i18n"
	"github.com/livroelivro/sebo/pkg/kvstore"
)

func (h *Handler) register(r *http.Request) Response {
	var form account.RegistrationForm
	if err := decodeJSON(r, &form); err != nil {
		return h.fail(r, err)
	}
	user, err := h.accounts.Register(r.Context(), sessionStore(h.store, r), form)
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(user, WithStatus(http.StatusCreated), WithMessage(h.tr.Tc(r.Context(), "messages.registered")))
}

func (h *Handler) login(r *http.Request) Response {
	var form account.LoginForm
	if err := decodeJSON(r, &form); err != nil {
		return h.fail(r, err)
	}
	user, err := h.accounts.Login(r.Context(), sessionStore(h.store, r), form)
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(user)
}

func (h *Handler) logout(r *http.Request) Response {
	if err := h.accounts.Logout(r.Context(), sessionStore(h.store, r)); err != nil {
		return h.fail(r, err)
	}
	return JSON(nil, WithMessage(h.tr.Tc(r.Context(), "messages.logged_out")))
}

func (h *Handler) me(r *http.Request) Response {
	user, _, err := h.currentUser(r)
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(user)
}

func (h *Handler) updateMe(r *http.Request) Response {
	var form account.ProfileForm
	if err := decodeJSON(r, &form); err != nil {
		return h.fail(r, err)
	}
	user, err := h.accounts.UpdateProfile(r.Context(), sessionStore(h.store, r), form)
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(user, WithMessage(h.tr.Tc(r.Context(), "messages.profile_updated")))
}

func (h *Handler) dashboard(r *http.Request) Response {
	user, sess, err := h.currentUser(r)
	if err != nil {
		return h.fail(r, err)
	}
	d, err := h.accounts.Dashboard(r.Context(), sess, h.catalog, h.cart)
	if err != nil {
		return h.fail(r, err)
	}
	welcome := h.tr.T(i18n.GetLocale(r.Context()), "dashboard.welcome", "name", firstName(user.Name))
	return JSON(d, WithMessage(welcome))
}

type consentRequest struct {
	Accepted bool `json:"accepted"`
}

func (h *Handler) consent(r *http.Request) Response {
	v, err := h.accounts.CookieConsent(r.Context(), sessionStore(h.store, r))
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(map[string]string{"consent": v})
}

func (h *Handler) setConsent(r *http.Request) Response {
	var req consentRequest
	if err := decodeJSON(r, &req); err != nil {
		return h.fail(r, err)
	}
	if err := h.accounts.SetCookieConsent(r.Context(), sessionStore(h.store, r), req.Accepted); err != nil {
		return h.fail(r, err)
	}
	return nil
}

// currentUser resolves the visitor's session and account.
func (h *Handler) currentUser(r *http.Request) (livroapi.User, kvstore.Store, error) {
	sess := sessionStore(h.store, r)
	user, err := h.accounts.CurrentUser(r.Context(), sess)
	return user, sess, err
}

func firstName(name string) string {
	if f := strings.Fields(name); len(f) > 0 {
		return f[0]
	}
	return name
}
