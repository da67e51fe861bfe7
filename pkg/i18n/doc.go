// Package i18n translates user-facing messages, validation errors included.
//
// Catalogs are YAML documents keyed by language tag and loaded through a
// TranslationAdapter, typically an FSAdapter over an embed.FS. Keys are
// dot-separated paths into the nested maps and values may contain %{name}
// placeholders:
//
//	pt-BR:
//	  validation:
//	    min_length: "Deve ter pelo menos %{min} caracteres"
//
// Lookups fall back from the requested language to the default language
// (pt-BR unless WithDefaultLanguage says otherwise) and finally to the key.
//
// Matcher negotiates Accept-Language headers with golang.org/x/text/language,
// so "pt", "pt-PT" and "pt-BR;q=0.9" all resolve to the closest supported
// tag. Middleware stores the result in the request context for Tc.
package i18n
