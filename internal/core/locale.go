package core

import (
	"strings"

	"golang.org/x/text/language"
)

// DefaultLanguage is used when no preference is stored and for any language
// without notification templates.
const DefaultLanguage = "en-IN"

var (
	supportedTags = []language.Tag{
		language.MustParse(DefaultLanguage), // first entry is the matcher fallback
		language.MustParse("hi-IN"),
	}
	localeMatcher = language.NewMatcher(supportedTags)
)

// SupportedLocales lists the locales with built-in notification templates.
func SupportedLocales() []string {
	out := make([]string, len(supportedTags))
	for i, t := range supportedTags {
		out[i] = t.String()
	}
	return out
}

// MatchLocale resolves lang to a supported locale of the same base language.
// The second result is false when nothing matched and the default locale was
// chosen as a fallback. The matcher pairs related languages (mr with hi) at
// low confidence; those count as no match.
func MatchLocale(lang string) (string, bool) {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return DefaultLanguage, false
	}
	base, baseConf := tag.Base()
	if baseConf != language.Exact {
		return DefaultLanguage, false
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return DefaultLanguage, false
	}
	if matched, _ := supportedTags[idx].Base(); matched != base {
		return DefaultLanguage, false
	}
	return supportedTags[idx].String(), true
}

// NormalizeLanguage canonicalizes a BCP 47 code ("hi-in" -> "hi-IN").
// Unparseable input is returned trimmed but otherwise unchanged.
func NormalizeLanguage(lang string) string {
	lang = strings.TrimSpace(lang)
	tag, err := language.Parse(lang)
	if err != nil {
		return lang
	}
	return tag.String()
}

// IsDefaultLanguage reports whether lang needs no translation: it is empty
// or shares the default locale's base language ("en-US", "en").
func IsDefaultLanguage(lang string) bool {
	lang = strings.TrimSpace(lang)
	return lang == "" || BaseLanguage(lang) == BaseLanguage(DefaultLanguage)
}

// BaseLanguage reduces a code to its base language ("hi-IN" -> "hi"), the
// form most translation services expect.
func BaseLanguage(lang string) string {
	tag, err := language.Parse(strings.TrimSpace(lang))
	if err != nil {
		return lang
	}
	base, _ := tag.Base()
	return base.String()
}
