package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/goliatone/go-aspectmodel/internal/naming"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
)

// Renderer implements render.Renderer for terminal-driven sessions: it walks
// the aspect's properties, prompts for every value and emits the payload.
type Renderer struct {
	driver            PromptDriver
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	defaults          *jsonpayload.Renderer
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) *Renderer {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}
	if r.driver == nil {
		r.driver = NewSurveyDriver(nil)
	}
	if r.defaults == nil {
		r.defaults = jsonpayload.New()
	}
	return r
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	if r.outputFormat == OutputFormatPrettyText {
		return "text/plain; charset=utf-8"
	}
	return "application/json"
}

// Render prompts for the payload of aspect. The generated sample payload
// (honouring options.Values) supplies the default of every prompt.
func (r *Renderer) Render(ctx context.Context, aspect *metamodel.Aspect, options render.Options) ([]byte, error) {
	if ctx == nil {
		return nil, errors.New("tui: context is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if aspect == nil {
		return nil, errors.New("tui: aspect is nil")
	}

	defaults, err := r.defaults.Generate(aspect, options)
	if err != nil {
		return nil, fmt.Errorf("tui: %w", err)
	}

	s := &session{driver: r.driver, lang: options.LocaleOrDefault()}
	values, err := s.properties(ctx, aspect.Properties, defaults, "")
	if err != nil {
		return nil, err
	}

	if r.submitTransformer != nil {
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}
	return r.serialize(values)
}

func (r *Renderer) serialize(values *jsonpayload.Object) ([]byte, error) {
	if r.outputFormat == OutputFormatPrettyText {
		return []byte(prettyPrint(values)), nil
	}
	out, err := jsonpayload.Marshal(values, "  ")
	if err != nil {
		return nil, fmt.Errorf("tui: marshal payload: %w", err)
	}
	return out, nil
}

// session holds the state of one Render call.
type session struct {
	driver PromptDriver
	lang   string
}

func (s *session) properties(ctx context.Context, props []*metamodel.Property, defaults *jsonpayload.Object, path string) (*jsonpayload.Object, error) {
	out := jsonpayload.NewObject()
	for _, p := range props {
		if p.NotInPayload {
			continue
		}
		key := p.PayloadKey()
		childPath := joinPath(path, key)
		var def any
		hasDefault := false
		if defaults != nil {
			def, hasDefault = defaults.Get(key)
		}

		if p.Optional {
			include, err := s.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Include %s?", s.label(p)),
				Default: hasDefault,
				Help:    p.Description(s.lang),
			})
			if err != nil {
				return nil, err
			}
			if !include {
				continue
			}
		}

		v, err := s.characteristic(ctx, question{label: s.label(p), help: p.Description(s.lang), path: childPath}, p.Characteristic, def)
		if err != nil {
			return nil, err
		}
		out.Set(key, v)
	}
	return out, nil
}

// question carries the display text of the value being asked for.
type question struct {
	label string
	help  string
	path  string
}

func (s *session) label(p *metamodel.Property) string {
	if name := p.PreferredName(s.lang); name != "" {
		return name
	}
	return naming.Label(p.Name)
}

func (s *session) characteristic(ctx context.Context, pr question, c *metamodel.Characteristic, def any) (any, error) {
	if c == nil {
		return s.scalar(ctx, pr, metamodel.XSDString, nil, def)
	}
	eff := c.Effective()
	switch eff.Kind {
	case metamodel.KindEither:
		return s.either(ctx, pr, eff, def)
	case metamodel.KindEnumeration, metamodel.KindState:
		if len(eff.Values) > 0 {
			return s.enumeration(ctx, pr, eff, def)
		}
	case metamodel.KindCollection, metamodel.KindList, metamodel.KindSet, metamodel.KindSortedSet, metamodel.KindTimeSeries:
		return s.collection(ctx, pr, c, def)
	}
	return s.typed(ctx, pr, c.EffectiveDataType(), c.AllConstraints(), def)
}

func (s *session) typed(ctx context.Context, pr question, t *metamodel.Type, constraints []*metamodel.Constraint, def any) (any, error) {
	if t.IsComplex() {
		defaults, _ := def.(*jsonpayload.Object)
		return s.properties(ctx, t.Entity.AllProperties(), defaults, pr.path)
	}
	datatype := metamodel.XSDString
	if t.IsScalar() {
		datatype = t.Scalar
	}
	return s.scalar(ctx, pr, datatype, constraints, def)
}

func (s *session) either(ctx context.Context, pr question, c *metamodel.Characteristic, def any) (any, error) {
	options := []string{"left: " + sideName(c.Left), "right: " + sideName(c.Right)}
	defaults, _ := def.(*jsonpayload.Object)
	defaultIdx := 0
	if defaults != nil {
		if _, ok := defaults.Get("right"); ok {
			defaultIdx = 1
		}
	}

	idx, err := s.driver.Select(ctx, SelectConfig{Message: pr.label, Options: options, DefaultIndex: defaultIdx, Help: pr.help})
	if err != nil {
		return nil, err
	}
	side, branch := "left", c.Left
	if idx == 1 {
		side, branch = "right", c.Right
	}
	var sideDefault any
	if defaults != nil {
		sideDefault, _ = defaults.Get(side)
	}

	v, err := s.characteristic(ctx, question{label: pr.label + " (" + side + ")", help: pr.help, path: joinPath(pr.path, side)}, branch, sideDefault)
	if err != nil {
		return nil, err
	}
	out := jsonpayload.NewObject()
	out.Set(side, v)
	return out, nil
}

func sideName(c *metamodel.Characteristic) string {
	if c == nil {
		return "value"
	}
	return naming.Label(c.Name)
}

func (s *session) enumeration(ctx context.Context, pr question, c *metamodel.Characteristic, def any) (any, error) {
	options := make([]string, len(c.Values))
	defaultIdx := -1
	defLexical := lexicalOf(def)
	for i, v := range c.Values {
		options[i] = v.Lexical()
		if defaultIdx < 0 && def != nil && lexicalOf(valueJSON(v)) == defLexical {
			defaultIdx = i
		}
	}
	if defaultIdx < 0 && c.DefaultValue != nil {
		defaultIdx = indexOf(options, c.DefaultValue.Lexical())
	}
	if defaultIdx < 0 {
		defaultIdx = 0
	}

	for {
		idx, err := s.driver.Select(ctx, SelectConfig{Message: pr.label, Options: options, DefaultIndex: defaultIdx, Help: pr.help})
		if err != nil {
			return nil, err
		}
		if idx < 0 || idx >= len(options) {
			if err := s.driver.Info(ctx, fmt.Sprintf("Invalid %s selection", pr.path)); err != nil {
				return nil, err
			}
			continue
		}
		return valueJSON(c.Values[idx]), nil
	}
}

func (s *session) collection(ctx context.Context, pr question, c *metamodel.Characteristic, def any) (any, error) {
	eff := c.Effective()
	defaults, _ := def.([]any)
	element := eff.ElementCharacteristic

	if element != nil && element.Effective().IsEnumeration() && len(element.Effective().Values) > 0 {
		return s.enumerationSet(ctx, pr, element.Effective(), defaults)
	}

	minItems, maxItems := lengthBounds(c.AllConstraints())
	items := make([]any, 0, len(defaults))
	for i := 0; ; i++ {
		if maxItems >= 0 && i >= maxItems {
			break
		}
		if i >= minItems {
			more, err := s.driver.Confirm(ctx, ConfirmConfig{
				Message: fmt.Sprintf("Add %s item %d?", pr.label, i+1),
				Default: i < len(defaults) || (i == 0 && len(defaults) == 0),
				Help:    pr.help,
			})
			if err != nil {
				return nil, err
			}
			if !more {
				break
			}
		}

		var itemDefault any
		if i < len(defaults) {
			itemDefault = defaults[i]
		} else if len(defaults) > 0 {
			itemDefault = defaults[0]
		}
		item := question{label: fmt.Sprintf("%s [%d]", pr.label, i+1), help: pr.help, path: fmt.Sprintf("%s.%d", pr.path, i)}

		var (
			v   any
			err error
		)
		if element != nil {
			v, err = s.characteristic(ctx, item, element, itemDefault)
		} else {
			v, err = s.typed(ctx, item, c.EffectiveDataType(), nil, itemDefault)
		}
		if err != nil {
			return nil, err
		}
		items = append(items, v)
	}
	return items, nil
}

func (s *session) enumerationSet(ctx context.Context, pr question, c *metamodel.Characteristic, defaults []any) (any, error) {
	options := make([]string, len(c.Values))
	for i, v := range c.Values {
		options[i] = v.Lexical()
	}
	wanted := make([]string, 0, len(defaults))
	for _, d := range defaults {
		for i, v := range c.Values {
			if lexicalOf(valueJSON(v)) == lexicalOf(d) {
				wanted = append(wanted, options[i])
			}
		}
	}

	indices, err := s.driver.MultiSelect(ctx, SelectConfig{
		Message:  pr.label,
		Options:  options,
		Defaults: indicesOf(options, wanted),
		Help:     pr.help,
	})
	if err != nil {
		return nil, err
	}
	items := make([]any, 0, len(indices))
	for _, idx := range indices {
		if idx >= 0 && idx < len(c.Values) {
			items = append(items, valueJSON(c.Values[idx]))
		}
	}
	return items, nil
}

func (s *session) scalar(ctx context.Context, pr question, datatype string, constraints []*metamodel.Constraint, def any) (any, error) {
	if datatype == metamodel.XSDBoolean {
		b, _ := def.(bool)
		return s.driver.Confirm(ctx, ConfirmConfig{Message: pr.label, Default: b, Help: pr.help})
	}

	lang := s.lang
	defaultText := lexicalOf(def)
	if datatype == metamodel.RDFLangString {
		if obj, ok := def.(*jsonpayload.Object); ok {
			if keys := obj.Keys(); len(keys) > 0 {
				lang = keys[0]
				v, _ := obj.Get(lang)
				defaultText = lexicalOf(v)
			}
		}
	}
	check := validator(datatype, constraints)

	for {
		input, err := s.driver.Input(ctx, InputConfig{
			Message:   pr.label,
			Default:   defaultText,
			Help:      pr.help,
			Validator: check,
		})
		if err != nil {
			return nil, err
		}
		input = strings.TrimSpace(input)
		if err := check(input); err != nil {
			if err := s.driver.Info(ctx, fmt.Sprintf("Invalid %s: %v", pr.path, err)); err != nil {
				return nil, err
			}
			continue
		}

		switch {
		case datatype == metamodel.RDFLangString:
			out := jsonpayload.NewObject()
			out.Set(lang, input)
			return out, nil
		case metamodel.IsNumericType(datatype):
			return json.Number(input), nil
		}
		return input, nil
	}
}

// valueJSON converts a model value into its payload form.
func valueJSON(v metamodel.Value) any {
	switch val := v.(type) {
	case *metamodel.ScalarValue:
		switch {
		case val.Datatype == metamodel.XSDBoolean:
			if b, err := strconv.ParseBool(val.Value); err == nil {
				return b
			}
		case metamodel.IsNumericType(val.Datatype):
			if _, err := strconv.ParseFloat(val.Value, 64); err == nil {
				return json.Number(val.Value)
			}
		}
		return val.Value
	case *metamodel.EntityInstance:
		out := jsonpayload.NewObject()
		if val.Entity == nil {
			for _, name := range val.Order {
				item, _ := val.Get(name)
				out.Set(name, valueJSON(item))
			}
			return out
		}
		for _, p := range val.Entity.AllProperties() {
			if p.NotInPayload {
				continue
			}
			if item, ok := val.Get(p.Name); ok {
				out.Set(p.PayloadKey(), valueJSON(item))
			}
		}
		return out
	case *metamodel.CollectionValue:
		items := make([]any, 0, len(val.Items))
		for _, item := range val.Items {
			items = append(items, valueJSON(item))
		}
		return items
	}
	return nil
}

// lexicalOf returns the prompt text of a default payload value.
func lexicalOf(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case json.Number:
		return val.String()
	case bool:
		return strconv.FormatBool(val)
	case *jsonpayload.Object:
		// entity instances are selected by their values, not their name
		data, err := json.Marshal(val)
		if err != nil {
			return ""
		}
		return string(data)
	}
	return fmt.Sprint(v)
}

func joinPath(parent, key string) string {
	if parent == "" {
		return key
	}
	return parent + "." + key
}

func prettyPrint(values *jsonpayload.Object) string {
	var lines []string
	var walk func(path string, v any)
	walk = func(path string, v any) {
		switch val := v.(type) {
		case *jsonpayload.Object:
			for _, key := range val.Keys() {
				child, _ := val.Get(key)
				walk(joinPath(path, key), child)
			}
		case []any:
			for i, item := range val {
				walk(fmt.Sprintf("%s.%d", path, i), item)
			}
		default:
			lines = append(lines, fmt.Sprintf("%s = %s", path, lexicalOf(val)))
		}
	}
	walk("", values)
	sort.Strings(lines)
	return strings.Join(lines, "\n") + "\n"
}

var _ render.Renderer = (*Renderer)(nil)
