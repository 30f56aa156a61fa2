package assistant

import (
	"fmt"

	"golang.org/x/text/language"
)

// Language is a supported reply language
type Language string

const (
	English    Language = "en"
	Portuguese Language = "pt"
)

var (
	supported = []Language{Portuguese, English}
	matcher   = language.NewMatcher([]language.Tag{
		language.BrazilianPortuguese,
		language.English,
	})
)

// Name is the language name used in prompts
func (l Language) Name() string {
	if l == English {
		return "English"
	}
	return "Portuguese (Brazil)"
}

// ParseLanguage accepts a BCP 47 tag such as "pt", "pt-BR" or "en-US"
func ParseLanguage(s string) (Language, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return "", fmt.Errorf("invalid language %q: %w", s, err)
	}
	_, idx, conf := matcher.Match(tag)
	if conf == language.No {
		return "", fmt.Errorf("unsupported language %q", s)
	}
	return supported[idx], nil
}

// FromAcceptLanguage picks the best supported language of an
// Accept-Language header, or fallback when nothing matches
func FromAcceptLanguage(header string, fallback Language) Language {
	tags, _, err := language.ParseAcceptLanguage(header)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := matcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supported[idx]
}
