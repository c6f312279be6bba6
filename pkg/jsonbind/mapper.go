package jsonbind

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
)

// DefaultIndent is the indent used by Encode and Pretty unless configured.
const DefaultIndent = "  "

// Option configures a Mapper.
type Option func(*Mapper)

// WithIndent sets the indent for Encode and Pretty. An empty indent produces
// compact output.
func WithIndent(indent string) Option {
	return func(m *Mapper) {
		m.indent = indent
	}
}

// WithStrict rejects objects carrying fields the target type does not
// declare, at any depth and inside Optional values.
func WithStrict(strict bool) Option {
	return func(m *Mapper) {
		m.strict = strict
	}
}

// WithSourceInErrors adds the line, column and an excerpt of the input to
// decode errors.
func WithSourceInErrors(enabled bool) Option {
	return func(m *Mapper) {
		m.sourceInErrors = enabled
	}
}

// Mapper decodes payloads into generated types and encodes them back.
type Mapper struct {
	indent         string
	strict         bool
	sourceInErrors bool
}

func NewMapper(opts ...Option) *Mapper {
	m := &Mapper{indent: DefaultIndent}
	for _, opt := range opts {
		if opt != nil {
			opt(m)
		}
	}
	return m
}

// Decode parses data into v.
func (m *Mapper) Decode(data []byte, v any) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	if m.strict {
		dec.DisallowUnknownFields()
	}
	if err := dec.Decode(v); err != nil {
		return m.decodeError(data, dec.InputOffset(), err)
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return m.decodeError(data, dec.InputOffset(), errors.New("unexpected data after top-level value"))
	}
	if m.strict {
		// Optional values decode outside dec, so nested keys are checked
		// against the target type again.
		if err := checkKnownFields(data, v); err != nil {
			return err
		}
	}
	return nil
}

// Encode renders v as JSON without HTML escaping.
func (m *Mapper) Encode(v any) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if m.indent != "" {
		enc.SetIndent("", m.indent)
	}
	if err := enc.Encode(v); err != nil {
		return nil, fmt.Errorf("jsonbind: encode: %w", err)
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}

// Pretty re-indents raw JSON keeping object key order.
func (m *Mapper) Pretty(raw []byte) ([]byte, error) {
	var buf bytes.Buffer
	indent := m.indent
	if indent == "" {
		if err := json.Compact(&buf, raw); err != nil {
			return nil, m.decodeError(raw, syntaxOffset(err), err)
		}
		return buf.Bytes(), nil
	}
	if err := json.Indent(&buf, raw, "", indent); err != nil {
		return nil, m.decodeError(raw, syntaxOffset(err), err)
	}
	return buf.Bytes(), nil
}

// DecodeError reports a failure to decode a payload. Line, Column and
// Excerpt are set when the mapper includes the source in errors.
type DecodeError struct {
	Offset  int64
	Field   string
	Line    int
	Column  int
	Excerpt string
	Err     error
}

func (e *DecodeError) Error() string {
	var sb strings.Builder
	sb.WriteString("jsonbind: decode")
	if e.Field != "" {
		sb.WriteString(" field ")
		sb.WriteString(e.Field)
	}
	sb.WriteString(": ")
	sb.WriteString(e.Err.Error())
	if e.Line > 0 {
		fmt.Fprintf(&sb, " (line %d, column %d: %s)", e.Line, e.Column, e.Excerpt)
	}
	return sb.String()
}

func (e *DecodeError) Unwrap() error { return e.Err }

func (m *Mapper) decodeError(data []byte, fallback int64, err error) error {
	de := &DecodeError{Offset: fallback, Err: err}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	switch {
	case errors.As(err, &syntaxErr):
		de.Offset = syntaxErr.Offset
	case errors.As(err, &typeErr):
		de.Offset = typeErr.Offset
		de.Field = typeErr.Field
	}
	if m.sourceInErrors {
		de.Line, de.Column, de.Excerpt = locate(data, de.Offset)
	}
	return de
}

func syntaxOffset(err error) int64 {
	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return syntaxErr.Offset
	}
	return 0
}

// locate converts a byte offset into a 1-based line and column and returns
// the offending line trimmed to a readable excerpt.
func locate(data []byte, offset int64) (line, column int, excerpt string) {
	if offset > int64(len(data)) {
		offset = int64(len(data))
	}
	if offset < 0 {
		offset = 0
	}
	head := data[:offset]
	line = bytes.Count(head, []byte("\n")) + 1
	start := bytes.LastIndexByte(head, '\n') + 1
	column = int(offset) - start + 1
	end := bytes.IndexByte(data[start:], '\n')
	if end < 0 {
		end = len(data) - start
	}
	excerpt = strings.TrimSpace(string(data[start : start+end]))
	const maxExcerpt = 80
	if len(excerpt) > maxExcerpt {
		excerpt = excerpt[:maxExcerpt] + "..."
	}
	return line, column, excerpt
}
