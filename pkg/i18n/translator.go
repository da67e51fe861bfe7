package i18n

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"regexp"
	"sort"
	"strings"

	"github.com/livroelivro/sebo/pkg/validator"
)

// Translator resolves dotted keys against per-language catalogs. It is
// read-only after construction and safe for concurrent use.
type Translator struct {
	translations   map[string]map[string]any
	defaultLang    string
	missingLogMode bool
	logger         *slog.Logger
}

// NewTranslator loads the catalogs from adapter. The default language must be
// one of the loaded languages.
func NewTranslator(ctx context.Context, adapter TranslationAdapter, options ...Option) (*Translator, error) {
	if adapter == nil {
		return nil, ErrNilAdapter
	}

	t := &Translator{
		defaultLang: DefaultLanguage,
		logger:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, option := range options {
		option(t)
	}

	translations, err := adapter.Load(ctx)
	if err != nil {
		return nil, err
	}
	if len(translations) == 0 {
		return nil, ErrNoTranslations
	}
	for lang, catalog := range translations {
		if lang == "" || catalog == nil {
			return nil, fmt.Errorf("invalid catalog for language %q", lang)
		}
	}
	if _, ok := translations[t.defaultLang]; !ok {
		return nil, &ErrLanguageNotSupported{Lang: t.defaultLang}
	}

	t.translations = translations
	t.logger.InfoContext(ctx, "translations loaded", "languages", t.SupportedLanguages())
	return t, nil
}

// ErrLanguageNotSupported indicates that the requested language is not available.
type ErrLanguageNotSupported struct {
	Lang string
}

func (e *ErrLanguageNotSupported) Error() string {
	return fmt.Sprintf("language not supported: %s", e.Lang)
}

// DefaultLanguage returns the fallback language.
func (t *Translator) DefaultLanguage() string {
	return t.defaultLang
}

// SupportedLanguages lists the loaded languages with the default first.
func (t *Translator) SupportedLanguages() []string {
	langs := make([]string, 0, len(t.translations))
	for lang := range t.translations {
		if lang != t.defaultLang {
			langs = append(langs, lang)
		}
	}
	sort.Strings(langs)
	return append([]string{t.defaultLang}, langs...)
}

// getTranslation traverses a nested map using dot-separated keys.
func getTranslation(m map[string]any, key string) (string, bool) {
	parts := strings.Split(key, ".")
	current := m

	for i, part := range parts {
		val, ok := current[part]
		if !ok {
			return "", false
		}
		if i == len(parts)-1 {
			s, ok := val.(string)
			return s, ok
		}
		next, ok := val.(map[string]any)
		if !ok {
			return "", false
		}
		current = next
	}

	return "", false
}

// HasTranslation reports whether lang itself defines key, without fallback.
func (t *Translator) HasTranslation(lang, key string) bool {
	catalog, ok := t.translations[lang]
	if !ok {
		return false
	}
	_, ok = getTranslation(catalog, key)
	return ok
}

func (t *Translator) lookup(lang, key string) (string, bool) {
	if catalog, ok := t.translations[lang]; ok {
		if s, ok := getTranslation(catalog, key); ok {
			return s, true
		}
	}
	if lang != t.defaultLang {
		if s, ok := getTranslation(t.translations[t.defaultLang], key); ok {
			return s, true
		}
	}
	if t.missingLogMode {
		t.logger.Warn("translation not found", "lang", lang, "key", key)
	}
	return "", false
}

var paramRegex = regexp.MustCompile(`%\{([^}]+)\}`)

// interpolate replaces %{name} placeholders. Unknown placeholders are kept.
func interpolate(tmpl string, params map[string]string) string {
	if len(params) == 0 {
		return tmpl
	}
	return paramRegex.ReplaceAllStringFunc(tmpl, func(match string) string {
		if val, ok := params[match[2:len(match)-1]]; ok {
			return val
		}
		return match
	})
}

func pairs(args []string) map[string]string {
	params := make(map[string]string, len(args)/2)
	for i := 0; i+1 < len(args); i += 2 {
		params[args[i]] = args[i+1]
	}
	return params
}

// T translates key for lang. Args are key/value pairs substituted into %{key}
// placeholders. Missing keys fall back to the default language, then to the
// key itself.
//
//	t.T("pt-BR", "cart.added", "title", "Dom Casmurro")
func (t *Translator) T(lang, key string, args ...string) string {
	return t.Td(lang, key, key, args...)
}

// Td is T with an explicit fallback instead of the key.
func (t *Translator) Td(lang, key, defaultValue string, args ...string) string {
	tmpl, ok := t.lookup(lang, key)
	if !ok {
		tmpl = defaultValue
	}
	return interpolate(tmpl, pairs(args))
}

// N picks key.zero, key.one or key.other by n and exposes n as %{count}.
func (t *Translator) N(lang, key string, n int, args ...string) string {
	args = append(args, "count", fmt.Sprint(n))

	var suffixes []string
	switch n {
	case 0:
		suffixes = []string{"zero", "other"}
	case 1:
		suffixes = []string{"one", "other"}
	default:
		suffixes = []string{"other"}
	}

	for _, suffix := range suffixes {
		if tmpl, ok := t.lookup(lang, key+"."+suffix); ok {
			return interpolate(tmpl, pairs(args))
		}
	}
	return key
}

// Tc is T with the language taken from ctx.
func (t *Translator) Tc(ctx context.Context, key string, args ...string) string {
	return t.T(t.localeOr(ctx), key, args...)
}

func (t *Translator) localeOr(ctx context.Context) string {
	if lang, ok := LocaleFromContext(ctx); ok {
		return lang
	}
	return t.defaultLang
}

// TranslateErrors renders validation errors per field. Errors whose key is
// missing everywhere keep their own Message.
func (t *Translator) TranslateErrors(lang string, errs validator.ValidationErrors) map[string][]string {
	if len(errs) == 0 {
		return nil
	}

	out := make(map[string][]string, len(errs))
	for _, e := range errs {
		params := make(map[string]string, len(e.TranslationValues))
		for k, v := range e.TranslationValues {
			params[k] = fmt.Sprint(v)
		}

		msg := e.Message
		if e.TranslationKey != "" {
			if tmpl, ok := t.lookup(lang, e.TranslationKey); ok {
				msg = interpolate(tmpl, params)
			}
		}
		out[e.Field] = append(out[e.Field], msg)
	}
	return out
}
