package rdf

import (
	"fmt"
	"io"
	"regexp"
	"sort"
	"strings"
)

var localNamePattern = regexp.MustCompile(`^[A-Za-z0-9_]([A-Za-z0-9_.-]*[A-Za-z0-9_-])?$`)

// TurtleWriter serialises graphs as Turtle. Blank nodes referenced exactly
// once are inlined as [ ... ] and well formed lists as ( ... ).
type TurtleWriter struct {
	prefixes map[string]string
	indent   string
}

// NewTurtleWriter creates a writer with the rdf and xsd prefixes preset.
func NewTurtleWriter() *TurtleWriter {
	return &TurtleWriter{
		prefixes: map[string]string{
			"rdf": RDFNamespace,
			"xsd": XSDNamespace,
		},
		indent: "   ",
	}
}

// SetPrefix sets a namespace prefix.
func (w *TurtleWriter) SetPrefix(prefix, iri string) {
	w.prefixes[prefix] = iri
}

// SetPrefixes copies every entry of prefixes.
func (w *TurtleWriter) SetPrefixes(prefixes map[string]string) {
	for k, v := range prefixes {
		w.prefixes[k] = v
	}
}

// Write serialises g to out.
func (w *TurtleWriter) Write(out io.Writer, g *Graph) error {
	_, err := io.WriteString(out, w.Format(g))
	return err
}

// Format returns the Turtle serialisation of g.
func (w *TurtleWriter) Format(g *Graph) string {
	st := &writeState{
		w:        w,
		g:        g,
		refs:     countBlankRefs(g),
		emitted:  make(map[Term]bool),
		inlining: make(map[Term]bool),
	}

	var sb strings.Builder
	w.writePrefixes(&sb)

	first := true
	for _, s := range g.Subjects() {
		if st.inlinable(s) {
			continue
		}
		if !first {
			sb.WriteString("\n")
		}
		first = false
		sb.WriteString(st.term(s, 0))
		st.writePredicates(&sb, s, 1)
		sb.WriteString(" .\n")
	}
	return sb.String()
}

func (w *TurtleWriter) writePrefixes(sb *strings.Builder) {
	keys := make([]string, 0, len(w.prefixes))
	for k := range w.prefixes {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, prefix := range keys {
		sb.WriteString(fmt.Sprintf("@prefix %s: <%s> .\n", prefix, w.prefixes[prefix]))
	}
	if len(keys) > 0 {
		sb.WriteString("\n")
	}
}

func countBlankRefs(g *Graph) map[Term]int {
	refs := make(map[Term]int)
	for _, t := range g.triples {
		if t.Object.IsBlank() {
			refs[t.Object]++
		}
	}
	return refs
}

type writeState struct {
	w        *TurtleWriter
	g        *Graph
	refs     map[Term]int
	emitted  map[Term]bool
	inlining map[Term]bool
}

func (st *writeState) inlinable(t Term) bool {
	return t.IsBlank() && st.refs[t] == 1
}

func (st *writeState) writePredicates(sb *strings.Builder, s Term, depth int) {
	triples := st.g.About(s)
	order := make([]string, 0, len(triples))
	grouped := make(map[string][]Term)
	for _, t := range triples {
		p := t.Predicate.Value
		if _, ok := grouped[p]; !ok {
			order = append(order, p)
		}
		grouped[p] = append(grouped[p], t.Object)
	}
	// rdf:type reads best first
	sort.SliceStable(order, func(i, j int) bool {
		return order[i] == RDFType && order[j] != RDFType
	})

	pad := strings.Repeat(st.w.indent, depth)
	for i, p := range order {
		if i > 0 {
			sb.WriteString(" ;")
		}
		sb.WriteString("\n")
		sb.WriteString(pad)
		if p == RDFType {
			sb.WriteString("a")
		} else {
			sb.WriteString(st.iri(p))
		}
		sb.WriteString(" ")
		for j, o := range grouped[p] {
			if j > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(st.term(o, depth))
		}
	}
}

func (st *writeState) term(t Term, depth int) string {
	switch t.Kind {
	case KindIRI:
		return st.iri(t.Value)
	case KindLiteral:
		return st.literal(t)
	case KindBlank:
		if !st.inlinable(t) || st.inlining[t] {
			return "_:" + t.Value
		}
		st.inlining[t] = true
		defer delete(st.inlining, t)

		if items, ok := st.list(t); ok {
			parts := make([]string, 0, len(items))
			for _, item := range items {
				parts = append(parts, st.term(item, depth))
			}
			return "( " + strings.Join(parts, " ") + " )"
		}
		if !st.g.Has(t) {
			return "[]"
		}
		var sb strings.Builder
		sb.WriteString("[")
		st.writePredicates(&sb, t, depth+1)
		sb.WriteString("\n")
		sb.WriteString(strings.Repeat(st.w.indent, depth))
		sb.WriteString("]")
		return sb.String()
	default:
		return ""
	}
}

// list returns the collection items when t heads a list whose nodes carry
// nothing but rdf:first and rdf:rest.
func (st *writeState) list(t Term) ([]Term, bool) {
	for node := t; !(node.IsIRI() && node.Value == RDFNil); {
		if !node.IsBlank() || (node != t && st.refs[node] != 1) {
			return nil, false
		}
		about := st.g.About(node)
		if len(about) != 2 {
			return nil, false
		}
		rest, ok := st.g.Object(node, RDFRest)
		if !ok {
			return nil, false
		}
		if _, ok := st.g.Object(node, RDFFirst); !ok {
			return nil, false
		}
		node = rest
	}
	items, err := st.g.List(t)
	if err != nil {
		return nil, false
	}
	return items, true
}

func (st *writeState) iri(value string) string {
	best, bestNS := "", ""
	for prefix, ns := range st.w.prefixes {
		if ns == "" || !strings.HasPrefix(value, ns) {
			continue
		}
		if len(ns) > len(bestNS) || (len(ns) == len(bestNS) && prefix < best) {
			local := value[len(ns):]
			if local == "" || localNamePattern.MatchString(local) {
				best, bestNS = prefix, ns
			}
		}
	}
	if bestNS != "" {
		return best + ":" + value[len(bestNS):]
	}
	return "<" + value + ">"
}

func (st *writeState) literal(t Term) string {
	quoted := quoteLiteral(t.Value)
	switch {
	case t.Lang != "":
		return quoted + "@" + t.Lang
	case t.Datatype == "" || t.Datatype == XSDString:
		return quoted
	case t.Datatype == XSDBoolean && (t.Value == "true" || t.Value == "false"):
		return t.Value
	case t.Datatype == XSDInteger && integerLexical.MatchString(t.Value):
		return t.Value
	case t.Datatype == XSDDecimal && decimalLexical.MatchString(t.Value):
		return t.Value
	default:
		return quoted + "^^" + st.iri(t.Datatype)
	}
}

var (
	integerLexical = regexp.MustCompile(`^[+-]?[0-9]+$`)
	decimalLexical = regexp.MustCompile(`^[+-]?[0-9]*\.[0-9]+$`)
)

func quoteLiteral(value string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range value {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			sb.WriteRune(r)
		}
	}
	sb.WriteByte('"')
	return sb.String()
}
