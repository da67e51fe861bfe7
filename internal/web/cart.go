package web

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/livroelivro/sebo/internal/cart"
	"github.com/livroelivro/sebo/pkg/i18n"
)

type cartView struct {
	Items             []bookView `json:"items"`
	Count             int        `json:"count"`
	Shipping          int        `json:"shipping"`
	ShippingFormatted string     `json:"shippingFormatted"`
}

func (h *Handler) getCart(r *http.Request) Response {
	return h.renderCart(r, "")
}

func (h *Handler) renderCart(r *http.Request, message string) Response {
	ctx := r.Context()
	sess := sessionStore(h.store, r)

	sum, err := h.cart.Summary(ctx, sess)
	if err != nil {
		return h.fail(r, err)
	}

	view := cartView{
		Items:             viewBooks(sum.Items),
		Count:             sum.Count,
		Shipping:          sum.Shipping,
		ShippingFormatted: cart.FormatBRL(sum.Shipping),
	}
	if message == "" {
		return JSON(view)
	}
	return JSON(view, WithMessage(message))
}

// addToCart answers 201 on success and 401, 404 or 409 with the rule that
// refused the book.
func (h *Handler) addToCart(r *http.Request) Response {
	res, err := h.cart.Add(r.Context(), sessionStore(h.store, r), chi.URLParam(r, "bookID"))
	if err != nil {
		return h.fail(r, err)
	}
	res.Message = h.tr.Td(i18n.GetLocale(r.Context()), "cart."+res.Code, res.Message)

	status := http.StatusCreated
	switch res.Code {
	case cart.CodeLoginRequired:
		status = http.StatusUnauthorized
	case cart.CodeBookNotFound:
		status = http.StatusNotFound
	case cart.CodeOwnBook, cart.CodeAlreadyInCart:
		status = http.StatusConflict
	}
	return JSON(res, WithStatus(status), WithMessage(res.Message))
}

func (h *Handler) removeFromCart(r *http.Request) Response {
	if err := h.cart.Remove(r.Context(), sessionStore(h.store, r), chi.URLParam(r, "bookID")); err != nil {
		return h.fail(r, err)
	}
	return h.renderCart(r, "")
}

func (h *Handler) clearCart(r *http.Request) Response {
	if err := h.cart.Clear(r.Context(), sessionStore(h.store, r)); err != nil {
		return h.fail(r, err)
	}
	return h.renderCart(r, "")
}
