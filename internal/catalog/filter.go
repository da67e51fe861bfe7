package catalog

import (
	"slices"
	"strings"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"

	"github.com/livroelivro/sebo/internal/livroapi"
	"github.com/livroelivro/sebo/pkg/fieldcheck"
	"github.com/livroelivro/sebo/pkg/sanitizer"
)

// Filter narrows the catalog. Empty Conditions or Types match everything,
// as does Category "todos" or "".
type Filter struct {
	Category   string
	Conditions []string
	Types      []string
	Search     string
}

// Sort orders a book list.
type Sort string

const (
	SortRecent     Sort = "recent"
	SortTitleAsc   Sort = "title-asc"
	SortTitleDesc  Sort = "title-desc"
	SortAuthorAsc  Sort = "author-asc"
	SortAuthorDesc Sort = "author-desc"
)

// ParseSort falls back to SortRecent for unknown values.
func ParseSort(s string) Sort {
	switch v := Sort(strings.TrimSpace(s)); v {
	case SortTitleAsc, SortTitleDesc, SortAuthorAsc, SortAuthorDesc:
		return v
	default:
		return SortRecent
	}
}

// Match reports whether b passes every criterion of f. Search is case and
// accent insensitive over title, author and ISBN.
func (f Filter) Match(b livroapi.Book) bool {
	if f.Category != "" && f.Category != CategoryAll && b.Category != f.Category {
		return false
	}
	if len(f.Conditions) > 0 && !slices.Contains(f.Conditions, b.Condition) {
		return false
	}
	if len(f.Types) > 0 && !slices.Contains(f.Types, b.Type) {
		return false
	}
	if q := sanitizer.SearchKey(f.Search); q != "" {
		return strings.Contains(sanitizer.SearchKey(b.Title), q) ||
			strings.Contains(sanitizer.SearchKey(b.Author), q) ||
			strings.Contains(b.ISBN, q)
	}
	return true
}

// Apply filters then sorts books into a new slice.
func Apply(books []livroapi.Book, f Filter, s Sort) []livroapi.Book {
	out := make([]livroapi.Book, 0, len(books))
	for _, b := range books {
		if f.Match(b) {
			out = append(out, b)
		}
	}
	SortBooks(out, s)
	return out
}

// SortBooks sorts in place. Text sorts use Brazilian Portuguese collation;
// recent puts books with unparsable dates last.
func SortBooks(books []livroapi.Book, s Sort) {
	switch s {
	case SortTitleAsc, SortTitleDesc, SortAuthorAsc, SortAuthorDesc:
		// Collators are not safe for concurrent use.
		col := collate.New(language.BrazilianPortuguese)
		key := func(b livroapi.Book) string { return b.Title }
		if s == SortAuthorAsc || s == SortAuthorDesc {
			key = func(b livroapi.Book) string { return b.Author }
		}
		desc := s == SortTitleDesc || s == SortAuthorDesc
		slices.SortStableFunc(books, func(a, b livroapi.Book) int {
			c := col.CompareString(key(a), key(b))
			if desc {
				return -c
			}
			return c
		})
	default:
		slices.SortStableFunc(books, func(a, b livroapi.Book) int {
			ta, okA := createdAt(a)
			tb, okB := createdAt(b)
			switch {
			case !okA && !okB:
				return 0
			case !okA:
				return 1
			case !okB:
				return -1
			}
			return tb.Compare(ta)
		})
	}
}

func createdAt(b livroapi.Book) (time.Time, bool) {
	return fieldcheck.ParseDate(b.CreatedAt)
}
