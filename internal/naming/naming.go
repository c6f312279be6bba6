// Package naming converts model element names into labels, URL segments and
// Go identifiers.
package naming

import (
	"regexp"
	"strings"
	"unicode"
)

var splitWordsPattern = regexp.MustCompile(`[_\-\s.]+`)

// Words splits name on separators and camelCase boundaries.
func Words(name string) []string {
	var out []string
	for _, part := range splitWordsPattern.Split(name, -1) {
		if part == "" {
			continue
		}
		out = append(out, strings.Fields(splitCamel(part))...)
	}
	return out
}

// Label converts an element name into a human-friendly label.
func Label(name string) string {
	words := Words(name)
	for i, w := range words {
		words[i] = titleCase(w)
	}
	return strings.Join(words, " ")
}

// Kebab returns the lower-case, dash separated form (PartAsPlanned ->
// part-as-planned).
func Kebab(name string) string {
	words := Words(name)
	for i, w := range words {
		words[i] = strings.ToLower(w)
	}
	return strings.Join(words, "-")
}

// Snake returns the lower-case, underscore separated form used for file
// names (PartAsPlanned -> part_as_planned).
func Snake(name string) string {
	return strings.ReplaceAll(Kebab(name), "-", "_")
}

// Pascal returns an exported Go identifier for name. Common initialisms are
// upper-cased and a leading digit gets an underscore prefix.
func Pascal(name string) string {
	var sb strings.Builder
	for _, w := range Words(name) {
		if upper := strings.ToUpper(w); initialisms[upper] {
			sb.WriteString(upper)
			continue
		}
		sb.WriteString(strings.ToUpper(w[:1]) + w[1:])
	}
	out := sanitize(sb.String())
	if out == "" {
		return "X"
	}
	if unicode.IsDigit(rune(out[0])) {
		out = "X" + out
	}
	return out
}

// Camel returns an unexported Go identifier for name.
func Camel(name string) string {
	words := Words(name)
	if len(words) == 0 {
		return "x"
	}
	first := sanitize(strings.ToLower(words[0]))
	if first == "" || unicode.IsDigit(rune(first[0])) {
		first = "x" + first
	}
	if len(words) == 1 {
		return first
	}
	return first + Pascal(strings.Join(words[1:], " "))
}

// ConstantCase returns the upper-case, underscore separated form used for
// enumeration constants.
func ConstantCase(value string) string {
	words := Words(sanitizeWords(value))
	for i, w := range words {
		words[i] = strings.ToUpper(w)
	}
	return strings.Join(words, "_")
}

var initialisms = map[string]bool{
	"ID": true, "URL": true, "URN": true, "URI": true, "UUID": true, "HTTP": true,
	"JSON": true, "API": true, "XML": true, "HTML": true, "BPN": true,
}

func sanitize(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		}
	}
	return sb.String()
}

func sanitizeWords(s string) string {
	var sb strings.Builder
	for _, r := range s {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
		} else {
			sb.WriteRune(' ')
		}
	}
	return sb.String()
}

func splitCamel(input string) string {
	var out strings.Builder
	runes := []rune(input)
	for i, r := range runes {
		if i > 0 && isBoundary(runes, i) {
			out.WriteRune(' ')
		}
		out.WriteRune(r)
	}
	return out.String()
}

// isBoundary also splits acronyms from a following word (HTTPServer ->
// HTTP Server).
func isBoundary(runes []rune, i int) bool {
	prev, r := runes[i-1], runes[i]
	switch {
	case unicode.IsLower(prev) && unicode.IsUpper(r):
		return true
	case unicode.IsLetter(prev) && unicode.IsDigit(r):
		return true
	case unicode.IsDigit(prev) && unicode.IsLetter(r):
		return true
	case unicode.IsUpper(prev) && unicode.IsUpper(r) && i+1 < len(runes) && unicode.IsLower(runes[i+1]):
		return true
	}
	return false
}

func titleCase(word string) string {
	if word == "" {
		return ""
	}
	lower := strings.ToLower(word)
	return strings.ToUpper(lower[:1]) + lower[1:]
}
