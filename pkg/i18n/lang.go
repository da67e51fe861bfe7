package i18n

import (
	"golang.org/x/text/language"
)

// DefaultLanguage is used when nothing in the request matches.
const DefaultLanguage = "pt-BR"

// maxAcceptLanguageLength bounds the header parsed per request.
const maxAcceptLanguageLength = 4096

// Matcher negotiates a request's preferred language against a fixed list.
type Matcher struct {
	supported []string
	matcher   language.Matcher
}

// NewMatcher builds a matcher over supported. The first entry is the
// fallback. Entries that are not valid BCP 47 tags are ignored.
func NewMatcher(supported ...string) *Matcher {
	m := &Matcher{}
	tags := make([]language.Tag, 0, len(supported))
	for _, s := range supported {
		tag, err := language.Parse(s)
		if err != nil {
			continue
		}
		tags = append(tags, tag)
		m.supported = append(m.supported, s)
	}
	if len(tags) == 0 {
		tags = []language.Tag{language.BrazilianPortuguese}
		m.supported = []string{DefaultLanguage}
	}
	m.matcher = language.NewMatcher(tags)
	return m
}

// Match returns the supported language closest to the preferences listed in
// an Accept-Language header, or the fallback.
func (m *Matcher) Match(acceptLanguage string) string {
	if len(acceptLanguage) > maxAcceptLanguageLength {
		acceptLanguage = acceptLanguage[:maxAcceptLanguageLength]
	}
	prefs, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(prefs) == 0 {
		return m.supported[0]
	}

	_, idx, conf := m.matcher.Match(prefs...)
	if conf == language.No {
		return m.supported[0]
	}
	return m.supported[idx]
}

// ParseAcceptLanguage is a one-shot Match.
func ParseAcceptLanguage(header string, supportedLangs []string, defaultLang string) string {
	langs := append([]string{defaultLang}, supportedLangs...)
	return NewMatcher(langs...).Match(header)
}
