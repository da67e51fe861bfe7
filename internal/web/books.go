package web

import (
	"errors"
	"io"
	"mime"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/livroelivro/sebo/internal/catalog"
	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/i18n"
	"github.com/livroelivro/sebo/pkg/validator"
)

const (
	defaultLatest = 4
	maxLatest     = 50

	// multipartMemory is how much of a multipart body is kept in memory;
	// larger parts spill to temporary files.
	multipartMemory = 64 << 10
)

// bookView adds display labels to a book.
type bookView struct {
	livroapi.Book
	CategoryLabel  string `json:"categoryLabel"`
	ConditionLabel string `json:"conditionLabel"`
	TypeLabel      string `json:"typeLabel"`
}

func viewBook(b livroapi.Book) bookView {
	return bookView{
		Book:           b,
		CategoryLabel:  catalog.CategoryLabel(b.Category),
		ConditionLabel: catalog.ConditionLabel(b.Condition),
		TypeLabel:      catalog.TypeLabel(b.Type),
	}
}

func viewBooks(books []livroapi.Book) []bookView {
	out := make([]bookView, len(books))
	for i, b := range books {
		out[i] = viewBook(b)
	}
	return out
}

// listBooks serves the catalog page. Filters: category (or categoria),
// condition and type (repeatable or comma separated), q, sort.
func (h *Handler) listBooks(r *http.Request) Response {
	q := r.URL.Query()
	category := q.Get("category")
	if category == "" {
		category = q.Get("categoria")
	}
	f := catalog.Filter{
		Category:   category,
		Conditions: multiValue(q["condition"]),
		Types:      multiValue(q["type"]),
		Search:     q.Get("q"),
	}

	books, err := h.catalog.Search(r.Context(), f, catalog.ParseSort(q.Get("sort")))
	if err != nil {
		return h.fail(r, err)
	}
	summary := h.tr.N(i18n.GetLocale(r.Context()), "catalog.showing", len(books))
	return JSON(viewBooks(books), WithMeta(map[string]any{"count": len(books), "summary": summary}))
}

func (h *Handler) latestBooks(r *http.Request) Response {
	n := defaultLatest
	if raw := r.URL.Query().Get("n"); raw != "" {
		v, err := strconv.Atoi(raw)
		if err != nil {
			return h.fail(r, ErrBadRequest)
		}
		if err := validator.Apply(validator.MinNum("n", v, 1)); err != nil {
			return h.fail(r, err)
		}
		n = min(v, maxLatest)
	}
	books, err := h.catalog.Latest(r.Context(), n)
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(viewBooks(books))
}

func (h *Handler) myBooks(r *http.Request) Response {
	user, _, err := h.currentUser(r)
	if err != nil {
		return h.fail(r, err)
	}
	books, err := h.catalog.MyBooks(r.Context(), user)
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(viewBooks(books))
}

func (h *Handler) getBook(r *http.Request) Response {
	b, err := h.catalog.Book(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(viewBook(b))
}

func (h *Handler) createBook(r *http.Request) Response {
	user, sess, err := h.currentUser(r)
	if err != nil {
		return h.fail(r, err)
	}
	var in livroapi.BookInput
	if err := decodeJSON(r, &in); err != nil {
		return h.fail(r, err)
	}

	book, err := h.catalog.CreateBook(r.Context(), user.Email, in)
	if err != nil {
		return h.fail(r, err)
	}
	if err := h.accounts.AddBook(r.Context(), sess, book.ID); err != nil {
		return h.fail(r, err)
	}
	return JSON(viewBook(book), WithStatus(http.StatusCreated), WithMessage(h.tr.Tc(r.Context(), "messages.book_created")))
}

// updateBook accepts JSON, or multipart/form-data with the fields as form
// values and an optional "image" file.
func (h *Handler) updateBook(r *http.Request) Response {
	id := chi.URLParam(r, "id")
	user, _, err := h.currentUser(r)
	if err != nil {
		return h.fail(r, err)
	}
	if !user.OwnsBook(id) {
		return h.fail(r, ErrForbidden)
	}

	in, img, err := bindBookUpdate(r)
	if err != nil {
		return h.fail(r, err)
	}
	if img != nil {
		if c, ok := img.Body.(io.Closer); ok {
			defer c.Close()
		}
	}
	book, err := h.catalog.UpdateBook(r.Context(), id, in, img)
	if err != nil {
		return h.fail(r, err)
	}
	return JSON(viewBook(book), WithMessage(h.tr.Tc(r.Context(), "messages.book_updated")))
}

func (h *Handler) deleteBook(r *http.Request) Response {
	id := chi.URLParam(r, "id")
	user, sess, err := h.currentUser(r)
	if err != nil {
		return h.fail(r, err)
	}
	if !user.OwnsBook(id) {
		return h.fail(r, ErrForbidden)
	}

	if err := h.catalog.DeleteBook(r.Context(), id); err != nil {
		return h.fail(r, err)
	}
	if err := h.accounts.RemoveBook(r.Context(), sess, id); err != nil {
		return h.fail(r, err)
	}
	return JSON(nil, WithMessage(h.tr.Tc(r.Context(), "messages.book_deleted")))
}

func bindBookUpdate(r *http.Request) (livroapi.BookInput, *catalog.Image, error) {
	var in livroapi.BookInput
	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType != "multipart/form-data" {
		return in, nil, decodeJSON(r, &in)
	}

	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var maxBytes *http.MaxBytesError
		if errors.As(err, &maxBytes) {
			return in, nil, err
		}
		return in, nil, errors.Join(ErrBadRequest, err)
	}
	in = livroapi.BookInput{
		Title:       r.FormValue("title"),
		Author:      r.FormValue("author"),
		ISBN:        r.FormValue("isbn"),
		Category:    r.FormValue("category"),
		Condition:   r.FormValue("condition"),
		Type:        r.FormValue("type"),
		Description: r.FormValue("description"),
	}

	file, header, err := r.FormFile("image")
	if errors.Is(err, http.ErrMissingFile) {
		return in, nil, nil
	}
	if err != nil {
		return in, nil, errors.Join(ErrBadRequest, err)
	}
	// Closed by the caller once the upload is done.
	img := &catalog.Image{
		Name:        header.Filename,
		ContentType: header.Header.Get("Content-Type"),
		Size:        header.Size,
		Body:        file,
	}
	return in, img, nil
}

func multiValue(values []string) []string {
	var out []string
	for _, v := range values {
		for part := range strings.SplitSeq(v, ",") {
			if part = strings.TrimSpace(part); part != "" {
				out = append(out, part)
			}
		}
	}
	return out
}
