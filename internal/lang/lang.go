// Package lang normalizes Scryfall printed-language codes. Cards default to
// English when no language is given, and cache paths always carry an
// explicit language tag.
package lang

import "strings"

// Default is the language assumed when a lookup does not name one.
const Default = "en"

type entry struct {
	code    string
	display string
	words   []string
}

// Printed languages recognized by Scryfall.
var languages = []entry{
	{"en", "English", []string{"english"}},
	{"es", "Spanish", []string{"spanish"}},
	{"fr", "French", []string{"french"}},
	{"de", "German", []string{"german"}},
	{"it", "Italian", []string{"italian"}},
	{"pt", "Portuguese", []string{"portuguese"}},
	{"ja", "Japanese", []string{"japanese"}},
	{"ko", "Korean", []string{"korean"}},
	{"ru", "Russian", []string{"russian"}},
	{"zhs", "Simplified Chinese", []string{"chinese"}},
	{"zht", "Traditional Chinese", nil},
	{"he", "Hebrew", []string{"hebrew"}},
	{"la", "Latin", []string{"latin"}},
	{"grc", "Ancient Greek", []string{"greek"}},
	{"ar", "Arabic", []string{"arabic"}},
	{"sa", "Sanskrit", []string{"sanskrit"}},
	{"ph", "Phyrexian", []string{"phyrexian"}},
}

var (
	byCode map[string]*entry
	byWord map[string]*entry
)

func init() {
	byCode = make(map[string]*entry, len(languages))
	byWord = make(map[string]*entry)
	for i := range languages {
		e := &languages[i]
		byCode[e.code] = e
		for _, w := range e.words {
			byWord[w] = e
		}
	}
}

func lookup(code string) *entry {
	code = strings.ToLower(strings.TrimSpace(code))
	if code == "" {
		return nil
	}
	if e, ok := byCode[code]; ok {
		return e
	}
	return byWord[code]
}

// Normalize maps a language code or full name to its Scryfall code. An
// empty value normalizes to the default language; an unrecognized value is
// passed through lower-cased so the API can reject it itself.
func Normalize(code string) string {
	trimmed := strings.ToLower(strings.TrimSpace(code))
	if trimmed == "" {
		return Default
	}
	if e := lookup(trimmed); e != nil {
		return e.code
	}
	return trimmed
}

// Display returns the human-readable name for a language code, or the code
// itself when unrecognized.
func Display(code string) string {
	if e := lookup(code); e != nil {
		return e.display
	}
	return code
}

// Known reports whether the code names a recognized printed language.
func Known(code string) bool {
	return lookup(code) != nil
}
