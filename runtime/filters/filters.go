// Package filters holds ready-made string filters for generated templates:
//
//	${user.Name | filters.Title}
//	${query | filters.URLQuery}
//
// A filter is any func(string) string; the ones here are plain functions so
// they can be mixed freely with filters defined next to the template.
package filters

import (
	"html"
	"net/url"
	"slices"
	"strconv"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Upper maps s to upper case.
func Upper(s string) string { return strings.ToUpper(s) }

// Lower maps s to lower case.
func Lower(s string) string { return strings.ToLower(s) }

// Title capitalizes words using language-neutral casing rules.
func Title(s string) string {
	// cases.Caser хранит состояние, поэтому новый на каждый вызов
	return cases.Title(language.Und).String(s)
}

// HTML escapes <, >, &, ' and ".
func HTML(s string) string { return html.EscapeString(s) }

// URLQuery escapes s for use inside a URL query.
func URLQuery(s string) string { return url.QueryEscape(s) }

// Trim removes leading and trailing white space.
func Trim(s string) string { return strings.TrimSpace(s) }

// Quote renders s as a double-quoted Go string literal.
func Quote(s string) string { return strconv.Quote(s) }

// Reverse reverses s rune by rune.
func Reverse(s string) string {
	r := []rune(s)
	slices.Reverse(r)
	return string(r)
}
