package catalog

import "golang.org/x/text/language"

// Language is a two-letter language code partitioning localized fields.
type Language string

// String returns the string representation of a Language.
func (l Language) String() string {
	return string(l)
}

// Tag returns the BCP 47 tag of the language.
func (l Language) Tag() language.Tag {
	return language.Make(string(l))
}

// LanguageOf returns the Language for the base of a BCP 47 tag.
func LanguageOf(tag language.Tag) Language {
	base, _ := tag.Base()
	return Language(base.String())
}

// Supported languages.
var (
	English = LanguageOf(language.English)
	Finnish = LanguageOf(language.Finnish)
	Swedish = LanguageOf(language.Swedish)
)

// Languages is the fixed set every localized field is partitioned by.
var Languages = []Language{English, Finnish, Swedish}

// Localized maps each language to language-specific content.
type Localized[T any] map[Language]T

// NewLocalized builds a Localized value with one entry per supported language.
func NewLocalized[T any](build func(Language) T) Localized[T] {
	l := make(Localized[T], len(Languages))
	for _, lang := range Languages {
		l[lang] = build(lang)
	}
	return l
}

// Clone copies the map, passing every value through copyValue.
func (l Localized[T]) Clone(copyValue func(T) T) Localized[T] {
	if l == nil {
		return nil
	}
	out := make(Localized[T], len(l))
	for lang, v := range l {
		out[lang] = copyValue(v)
	}
	return out
}
