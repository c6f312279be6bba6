package turtle

import (
	"github.com/viant/parsly"
	"github.com/viant/parsly/matcher"
)

const (
	whitespaceCode = iota + 1
	prefixDirectiveCode
	baseDirectiveCode
	iriRefCode
	blankLabelCode
	stringCode
	numberCode
	langTagCode
	datatypeMarkerCode
	wordCode
	dotCode
	semicolonCode
	commaCode
	openBracketCode
	closeBracketCode
	openParenCode
	closeParenCode
)

var (
	whitespaceToken      = parsly.NewToken(whitespaceCode, "Whitespace", &whitespaceMatcher{})
	prefixDirectiveToken = parsly.NewToken(prefixDirectiveCode, "@prefix", matcher.NewFragment("@prefix"))
	baseDirectiveToken   = parsly.NewToken(baseDirectiveCode, "@base", matcher.NewFragment("@base"))
	iriRefToken          = parsly.NewToken(iriRefCode, "IRIREF", &iriRefMatcher{})
	blankLabelToken      = parsly.NewToken(blankLabelCode, "BLANK_NODE_LABEL", &blankLabelMatcher{})
	stringToken          = parsly.NewToken(stringCode, "String", &stringMatcher{})
	numberToken          = parsly.NewToken(numberCode, "Number", &numberMatcher{})
	langTagToken         = parsly.NewToken(langTagCode, "LANGTAG", &langTagMatcher{})
	datatypeMarkerToken  = parsly.NewToken(datatypeMarkerCode, "^^", matcher.NewFragment("^^"))
	wordToken            = parsly.NewToken(wordCode, "PrefixedName", &wordMatcher{})
	dotToken             = parsly.NewToken(dotCode, ".", matcher.NewByte('.'))
	semicolonToken       = parsly.NewToken(semicolonCode, ";", matcher.NewByte(';'))
	commaToken           = parsly.NewToken(commaCode, ",", matcher.NewByte(','))
	openBracketToken     = parsly.NewToken(openBracketCode, "[", matcher.NewByte('['))
	closeBracketToken    = parsly.NewToken(closeBracketCode, "]", matcher.NewByte(']'))
	openParenToken       = parsly.NewToken(openParenCode, "(", matcher.NewByte('('))
	closeParenToken      = parsly.NewToken(closeParenCode, ")", matcher.NewByte(')'))
)

// whitespaceMatcher consumes blanks and '#' comments.
type whitespaceMatcher struct{}

func (m *whitespaceMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	i := pos
	for i < size {
		switch input[i] {
		case ' ', '\t', '\n', '\r':
			i++
		case '#':
			for i < size && input[i] != '\n' {
				i++
			}
		default:
			return i - pos
		}
	}
	return i - pos
}

type iriRefMatcher struct{}

func (m *iriRefMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos >= size || input[pos] != '<' {
		return 0
	}
	for i := pos + 1; i < size; i++ {
		switch input[i] {
		case '>':
			return i - pos + 1
		case ' ', '\t', '\n', '\r', '<', '"', '{', '}', '|', '^', '`':
			return 0
		}
	}
	return 0
}

type blankLabelMatcher struct{}

func (m *blankLabelMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos+2 >= size || input[pos] != '_' || input[pos+1] != ':' {
		return 0
	}
	end := pos + 2
	for end < size && isNameChar(input[end]) {
		end++
	}
	for end > pos+2 && input[end-1] == '.' {
		end--
	}
	if end == pos+2 {
		return 0
	}
	return end - pos
}

// stringMatcher matches the four Turtle string forms including escapes.
type stringMatcher struct{}

func (m *stringMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos >= size || (input[pos] != '"' && input[pos] != '\'') {
		return 0
	}
	quote := input[pos]
	if pos+2 < size && input[pos+1] == quote && input[pos+2] == quote {
		for i := pos + 3; i < size; i++ {
			if input[i] == '\\' {
				i++
				continue
			}
			if input[i] == quote && i+2 < size && input[i+1] == quote && input[i+2] == quote {
				// allow up to two quotes right before the closing delimiter
				end := i + 3
				for end < size && input[end] == quote && end-i < 5 {
					end++
				}
				return end - pos
			}
		}
		return 0
	}
	for i := pos + 1; i < size; i++ {
		switch input[i] {
		case '\\':
			i++
		case quote:
			return i - pos + 1
		case '\n', '\r':
			return 0
		}
	}
	return 0
}

type numberMatcher struct{}

func (m *numberMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	i := pos
	if i < size && (input[i] == '+' || input[i] == '-') {
		i++
	}
	digits := 0
	for i < size && isDigit(input[i]) {
		i++
		digits++
	}
	if i+1 < size && input[i] == '.' && isDigit(input[i+1]) {
		i++
		for i < size && isDigit(input[i]) {
			i++
			digits++
		}
	}
	if digits == 0 {
		return 0
	}
	if i < size && (input[i] == 'e' || input[i] == 'E') {
		j := i + 1
		if j < size && (input[j] == '+' || input[j] == '-') {
			j++
		}
		if j < size && isDigit(input[j]) {
			for j < size && isDigit(input[j]) {
				j++
			}
			i = j
		}
	}
	if i < size && isNameStart(input[i]) {
		return 0
	}
	return i - pos
}

type langTagMatcher struct{}

func (m *langTagMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos+1 >= size || input[pos] != '@' || !isLetter(input[pos+1]) {
		return 0
	}
	i := pos + 1
	for i < size && (isLetter(input[i]) || isDigit(input[i]) || input[i] == '-') {
		i++
	}
	return i - pos
}

// wordMatcher matches prefixed names and bare keywords (a, true, false,
// PREFIX, BASE). A trailing '.' belongs to the statement, not the name.
type wordMatcher struct{}

func (m *wordMatcher) Match(cursor *parsly.Cursor) int {
	input, pos, size := cursor.Input, cursor.Pos, cursor.InputSize
	if pos >= size || !(isNameStart(input[pos]) || input[pos] == ':') {
		return 0
	}
	i := pos
scan:
	for i < size {
		c := input[i]
		switch {
		case c == '\\' && i+1 < size:
			i += 2
		case c == '%' && i+2 < size:
			i += 3
		case isNameChar(c) || c == ':':
			i++
		default:
			break scan
		}
	}
	for i > pos && input[i-1] == '.' {
		i--
	}
	return i - pos
}

func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}

func isNameStart(c byte) bool {
	return isLetter(c) || c == '_' || c >= 0x80
}

func isNameChar(c byte) bool {
	return isNameStart(c) || isDigit(c) || c == '-' || c == '.'
}
