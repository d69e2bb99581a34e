package util

import (
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	CaseLower  = "lower"
	CaseUpper  = "upper"
	CaseTitle  = "title"
	CaseCamel  = "camel"
	CaseSnake  = "snake"
	CaseKebab  = "kebab"
	CaseStudly = "studly"
)

var caseNames = []string{CaseLower, CaseUpper, CaseTitle, CaseCamel, CaseSnake, CaseKebab, CaseStudly}

func IsCase(name string) bool {
	for _, c := range caseNames {
		if c == name {
			return true
		}
	}
	return false
}

// ToCase converts s to the named case. Unknown names leave s untouched.
func ToCase(s, name string) string {
	switch name {
	case CaseLower:
		return cases.Lower(language.Und).String(s)
	case CaseUpper:
		return cases.Upper(language.Und).String(s)
	case CaseTitle:
		return cases.Title(language.Und).String(strings.Join(words(s), " "))
	case CaseSnake:
		return joinLower(words(s), "_")
	case CaseKebab:
		return joinLower(words(s), "-")
	case CaseStudly:
		return studly(words(s))
	case CaseCamel:
		st := []rune(studly(words(s)))
		if len(st) > 0 {
			st[0] = unicode.ToLower(st[0])
		}
		return string(st)
	}
	return s
}

func joinLower(ws []string, sep string) string {
	lower := cases.Lower(language.Und)
	for i, w := range ws {
		ws[i] = lower.String(w)
	}
	return strings.Join(ws, sep)
}

func studly(ws []string) string {
	title := cases.Title(language.Und)
	var b strings.Builder
	for _, w := range ws {
		b.WriteString(title.String(w))
	}
	return b.String()
}

// words splits s on separators and lower-to-upper case boundaries,
// so "ModelA" becomes ["Model", "A"] and "user_profile" becomes ["user", "profile"].
func words(s string) []string {
	var (
		ws  []string
		cur []rune
	)
	flush := func() {
		if len(cur) > 0 {
			ws = append(ws, string(cur))
			cur = cur[:0]
		}
	}
	runes := []rune(s)
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || unicode.IsSpace(r):
			flush()
			continue
		case unicode.IsUpper(r) && i > 0 && !unicode.IsUpper(runes[i-1]) && !isSep(runes[i-1]):
			flush()
		}
		cur = append(cur, r)
	}
	flush()
	return ws
}

func isSep(r rune) bool {
	return r == '_' || r == '-' || unicode.IsSpace(r)
}
