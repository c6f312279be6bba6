// Package turtle parses RDF 1.1 Turtle documents into rdf graphs.
package turtle

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync/atomic"
	"unicode/utf8"

	"github.com/viant/parsly"

	"github.com/goliatone/go-aspectmodel/pkg/rdf"
)

var documentSeq atomic.Uint64

// ParseError reports a syntax error with its position in the document.
type ParseError struct {
	Name   string
	Line   int
	Column int
	Msg    string
	Err    error
}

func (e *ParseError) Error() string {
	name := e.Name
	if name == "" {
		name = "<input>"
	}
	return fmt.Sprintf("turtle: %s:%d:%d: %s", name, e.Line, e.Column, e.Msg)
}

func (e *ParseError) Unwrap() error { return e.Err }

// Option customises a parse.
type Option func(*parser)

// WithBase sets the base IRI used to resolve relative IRIs until the
// document declares its own.
func WithBase(base string) Option {
	return func(p *parser) {
		p.base = base
	}
}

// WithBlankPrefix overrides the label prefix of generated blank nodes.
// Graphs parsed with distinct prefixes can be merged without collisions.
func WithBlankPrefix(prefix string) Option {
	return func(p *parser) {
		p.blankPrefix = prefix
	}
}

// Parse reads a Turtle document. name is only used in error messages.
func Parse(name string, data []byte, opts ...Option) (*rdf.Graph, error) {
	p := &parser{
		name:        name,
		input:       data,
		cursor:      parsly.NewCursor(name, data, 0),
		graph:       rdf.NewGraph(),
		blankPrefix: fmt.Sprintf("d%d", documentSeq.Add(1)),
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if err := p.document(); err != nil {
		return nil, err
	}
	p.graph.Base = p.base
	return p.graph, nil
}

type parser struct {
	name        string
	input       []byte
	cursor      *parsly.Cursor
	graph       *rdf.Graph
	base        string
	blankPrefix string
	anonSeq     int
}

func (p *parser) document() error {
	for {
		p.cursor.MatchOne(whitespaceToken)
		if !p.cursor.HasMore() {
			return nil
		}
		if err := p.statement(); err != nil {
			return err
		}
	}
}

// next matches one of toks after optional whitespace and returns the code and
// text of the match. Nothing is consumed when none of toks matches.
func (p *parser) next(toks ...*parsly.Token) (int, string) {
	pos := p.cursor.Pos
	matched := p.cursor.MatchAfterOptional(whitespaceToken, toks...)
	for _, tok := range toks {
		if matched.Code == tok.Code {
			return matched.Code, matched.Text(p.cursor)
		}
	}
	p.cursor.Pos = pos
	return 0, ""
}

func (p *parser) expect(tok *parsly.Token) error {
	if code, _ := p.next(tok); code != tok.Code {
		return p.expected(tok)
	}
	return nil
}

func (p *parser) statement() error {
	code, _ := p.next(prefixDirectiveToken, baseDirectiveToken)
	switch code {
	case prefixDirectiveCode:
		return p.prefixDecl(true)
	case baseDirectiveCode:
		return p.baseDecl(true)
	}

	pos := p.cursor.Pos
	if code, text := p.next(wordToken); code == wordCode {
		switch strings.ToUpper(text) {
		case "PREFIX":
			return p.prefixDecl(false)
		case "BASE":
			return p.baseDecl(false)
		}
		p.cursor.Pos = pos
	}
	return p.triples()
}

func (p *parser) prefixDecl(dotted bool) error {
	code, text := p.next(wordToken)
	if code != wordCode || !strings.HasSuffix(text, ":") || strings.Count(text, ":") != 1 {
		return p.errorf("expected prefix name ending with ':'")
	}
	iri, err := p.iriRef()
	if err != nil {
		return err
	}
	p.graph.Prefixes[strings.TrimSuffix(text, ":")] = iri
	if dotted {
		return p.expect(dotToken)
	}
	return nil
}

func (p *parser) baseDecl(dotted bool) error {
	iri, err := p.iriRef()
	if err != nil {
		return err
	}
	p.base = iri
	if dotted {
		return p.expect(dotToken)
	}
	return nil
}

func (p *parser) iriRef() (string, error) {
	code, text := p.next(iriRefToken)
	if code != iriRefCode {
		return "", p.expected(iriRefToken)
	}
	return p.resolve(text[1 : len(text)-1])
}

func (p *parser) triples() error {
	code, text := p.next(iriRefToken, blankLabelToken, openBracketToken, openParenToken, wordToken)
	var (
		subject rdf.Term
		err     error
	)
	switch code {
	case iriRefCode:
		var iri string
		if iri, err = p.resolve(text[1 : len(text)-1]); err == nil {
			subject = rdf.IRI(iri)
		}
	case blankLabelCode:
		subject = p.labeled(text[2:])
	case wordCode:
		subject, err = p.prefixedName(text)
	case openBracketCode:
		if subject, err = p.blankPropertyList(); err == nil {
			if code, _ := p.next(dotToken); code == dotCode {
				return nil
			}
		}
	case openParenCode:
		subject, err = p.collection()
	default:
		return p.expected(iriRefToken, blankLabelToken, wordToken, openBracketToken, openParenToken)
	}
	if err != nil {
		return err
	}
	if err := p.predicateObjectList(subject); err != nil {
		return err
	}
	return p.expect(dotToken)
}

func (p *parser) predicateObjectList(subject rdf.Term) error {
	for {
		predicate, err := p.verb()
		if err != nil {
			return err
		}
		if err := p.objectList(subject, predicate); err != nil {
			return err
		}
		if code, _ := p.next(semicolonToken); code != semicolonCode {
			return nil
		}
		for {
			if code, _ := p.next(semicolonToken); code != semicolonCode {
				break
			}
		}
		if !p.verbAhead() {
			return nil
		}
	}
}

func (p *parser) verbAhead() bool {
	pos := p.cursor.Pos
	code, _ := p.next(iriRefToken, wordToken)
	p.cursor.Pos = pos
	return code != 0
}

func (p *parser) verb() (rdf.Term, error) {
	code, text := p.next(iriRefToken, wordToken)
	switch code {
	case iriRefCode:
		iri, err := p.resolve(text[1 : len(text)-1])
		return rdf.IRI(iri), err
	case wordCode:
		if text == "a" {
			return rdf.IRI(rdf.RDFType), nil
		}
		return p.prefixedName(text)
	}
	return rdf.Term{}, p.expected(iriRefToken, wordToken)
}

func (p *parser) objectList(subject, predicate rdf.Term) error {
	for {
		object, err := p.object()
		if err != nil {
			return err
		}
		p.graph.Add(subject, predicate, object)
		if code, _ := p.next(commaToken); code != commaCode {
			return nil
		}
	}
}

func (p *parser) object() (rdf.Term, error) {
	code, text := p.next(iriRefToken, blankLabelToken, stringToken, numberToken, openBracketToken, openParenToken, wordToken)
	switch code {
	case iriRefCode:
		iri, err := p.resolve(text[1 : len(text)-1])
		return rdf.IRI(iri), err
	case blankLabelCode:
		return p.labeled(text[2:]), nil
	case stringCode:
		return p.literal(text)
	case numberCode:
		return numericLiteral(text), nil
	case openBracketCode:
		return p.blankPropertyList()
	case openParenCode:
		return p.collection()
	case wordCode:
		switch text {
		case "true", "false":
			return rdf.Literal(text, rdf.XSDBoolean), nil
		}
		return p.prefixedName(text)
	}
	return rdf.Term{}, p.expected(iriRefToken, wordToken, stringToken, numberToken, openBracketToken, openParenToken)
}

func (p *parser) literal(text string) (rdf.Term, error) {
	quoteLen := 1
	if len(text) >= 6 && (strings.HasPrefix(text, `"""`) || strings.HasPrefix(text, `'''`)) {
		quoteLen = 3
	}
	value, err := unescapeString(text[quoteLen : len(text)-quoteLen])
	if err != nil {
		return rdf.Term{}, p.errorf("%v", err)
	}

	code, suffix := p.next(langTagToken, datatypeMarkerToken)
	switch code {
	case langTagCode:
		return rdf.LangLiteral(value, suffix[1:]), nil
	case datatypeMarkerCode:
		dt, err := p.verb()
		if err != nil {
			return rdf.Term{}, err
		}
		if dt.Value == rdf.RDFType {
			return rdf.Term{}, p.errorf("'a' is not a datatype")
		}
		return rdf.Literal(value, dt.Value), nil
	}
	return rdf.Literal(value, rdf.XSDString), nil
}

func numericLiteral(text string) rdf.Term {
	switch {
	case strings.ContainsAny(text, "eE"):
		return rdf.Literal(text, rdf.XSDDouble)
	case strings.Contains(text, "."):
		return rdf.Literal(text, rdf.XSDDecimal)
	default:
		return rdf.Literal(text, rdf.XSDInteger)
	}
}

func (p *parser) blankPropertyList() (rdf.Term, error) {
	node := p.anonymous()
	if code, _ := p.next(closeBracketToken); code == closeBracketCode {
		return node, nil
	}
	if err := p.predicateObjectList(node); err != nil {
		return rdf.Term{}, err
	}
	if err := p.expect(closeBracketToken); err != nil {
		return rdf.Term{}, err
	}
	return node, nil
}

func (p *parser) collection() (rdf.Term, error) {
	var items []rdf.Term
	for {
		if code, _ := p.next(closeParenToken); code == closeParenCode {
			break
		}
		if !p.cursor.HasMore() {
			return rdf.Term{}, p.expected(closeParenToken)
		}
		item, err := p.object()
		if err != nil {
			return rdf.Term{}, err
		}
		items = append(items, item)
	}

	head := rdf.IRI(rdf.RDFNil)
	for i := len(items) - 1; i >= 0; i-- {
		node := p.anonymous()
		p.graph.Add(node, rdf.IRI(rdf.RDFFirst), items[i])
		p.graph.Add(node, rdf.IRI(rdf.RDFRest), head)
		head = node
	}
	return head, nil
}

func (p *parser) prefixedName(text string) (rdf.Term, error) {
	idx := strings.IndexByte(text, ':')
	if idx < 0 {
		return rdf.Term{}, p.errorf("unexpected %q", text)
	}
	prefix := text[:idx]
	ns, ok := p.graph.Prefixes[prefix]
	if !ok {
		return rdf.Term{}, p.errorf("undefined prefix %q", prefix)
	}
	return rdf.IRI(ns + unescapeLocal(text[idx+1:])), nil
}

func (p *parser) labeled(label string) rdf.Term {
	return rdf.Blank(p.blankPrefix + "_" + label)
}

func (p *parser) anonymous() rdf.Term {
	p.anonSeq++
	return rdf.Blank(p.blankPrefix + "g" + strconv.Itoa(p.anonSeq))
}

func (p *parser) resolve(iri string) (string, error) {
	if p.base == "" {
		return iri, nil
	}
	ref, err := url.Parse(iri)
	if err != nil {
		return "", p.errorf("invalid IRI %q: %v", iri, err)
	}
	if ref.IsAbs() {
		return iri, nil
	}
	base, err := url.Parse(p.base)
	if err != nil {
		return "", p.errorf("invalid base IRI %q: %v", p.base, err)
	}
	return base.ResolveReference(ref).String(), nil
}

func (p *parser) position() (int, int) {
	pos := p.cursor.Pos
	if pos > len(p.input) {
		pos = len(p.input)
	}
	line, col := 1, 1
	for _, c := range string(p.input[:pos]) {
		if c == '\n' {
			line++
			col = 1
			continue
		}
		col++
	}
	return line, col
}

func (p *parser) errorf(format string, args ...any) error {
	line, col := p.position()
	return &ParseError{Name: p.name, Line: line, Column: col, Msg: fmt.Sprintf(format, args...)}
}

func (p *parser) expected(toks ...*parsly.Token) error {
	p.cursor.MatchOne(whitespaceToken)
	line, col := p.position()
	names := make([]string, 0, len(toks))
	for _, tok := range toks {
		names = append(names, tok.Name)
	}
	found := "end of input"
	if p.cursor.HasMore() {
		end := p.cursor.Pos + 16
		if end > len(p.input) {
			end = len(p.input)
		}
		found = strconv.Quote(string(p.input[p.cursor.Pos:end]))
	}
	return &ParseError{
		Name:   p.name,
		Line:   line,
		Column: col,
		Msg:    fmt.Sprintf("expected %s, found %s", strings.Join(names, " or "), found),
		Err:    p.cursor.NewError(toks...),
	}
}

func unescapeString(s string) (string, error) {
	if !strings.ContainsRune(s, '\\') {
		return s, nil
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c != '\\' {
			sb.WriteByte(c)
			continue
		}
		i++
		if i >= len(s) {
			return "", fmt.Errorf("dangling escape")
		}
		switch s[i] {
		case 't':
			sb.WriteByte('\t')
		case 'b':
			sb.WriteByte('\b')
		case 'n':
			sb.WriteByte('\n')
		case 'r':
			sb.WriteByte('\r')
		case 'f':
			sb.WriteByte('\f')
		case '"', '\'', '\\':
			sb.WriteByte(s[i])
		case 'u', 'U':
			width := 4
			if s[i] == 'U' {
				width = 8
			}
			if i+width >= len(s) {
				return "", fmt.Errorf("truncated unicode escape")
			}
			code, err := strconv.ParseUint(s[i+1:i+1+width], 16, 32)
			if err != nil || !utf8.ValidRune(rune(code)) {
				return "", fmt.Errorf("invalid unicode escape %q", s[i-1:i+1+width])
			}
			sb.WriteRune(rune(code))
			i += width
		default:
			return "", fmt.Errorf("unknown escape \\%c", s[i])
		}
	}
	return sb.String(), nil
}

func unescapeLocal(s string) string {
	if !strings.ContainsRune(s, '\\') {
		return s
	}
	var sb strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) {
			i++
		}
		sb.WriteByte(s[i])
	}
	return sb.String()
}
