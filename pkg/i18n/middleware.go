package i18n

import "net/http"

// LangQueryParam overrides Accept-Language when present and supported.
const LangQueryParam = "lang"

// Middleware negotiates the request language and stores it with SetLocale.
func Middleware(m *Matcher) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Accept-Language")
			if q := r.URL.Query().Get(LangQueryParam); q != "" {
				header = q
			}
			lang := m.Match(header)
			w.Header().Set("Content-Language", lang)
			next.ServeHTTP(w, r.WithContext(SetLocale(r.Context(), lang)))
		})
	}
}
