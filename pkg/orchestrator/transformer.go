package orchestrator

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"slices"
	"sort"
	"strings"

	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
)

// Transformer mutates the selected aspect before it is rendered. The
// orchestrator hands it a copy of the aspect and its property tree; values,
// constraints and units stay shared with the loaded model.
type Transformer interface {
	Transform(ctx context.Context, model *metamodel.AspectModel, aspect *metamodel.Aspect) error
}

// TransformerFunc adapts plain functions to the Transformer interface.
type TransformerFunc func(ctx context.Context, model *metamodel.AspectModel, aspect *metamodel.Aspect) error

// Transform executes the wrapped function when non-nil.
func (fn TransformerFunc) Transform(ctx context.Context, model *metamodel.AspectModel, aspect *metamodel.Aspect) error {
	if fn == nil {
		return nil
	}
	return fn(ctx, model, aspect)
}

// JSONPresetTransformer applies declarative text overrides loaded from a JSON
// document. Properties are addressed by payload key path:
//
//	{
//	  "aspect": {"preferredName": {"en": "Planned part"}},
//	  "properties": {
//	    "partTypeInformation.manufacturerPartId": {"description": {"en": "OEM part number"}}
//	  }
//	}
type JSONPresetTransformer struct {
	document presetDocument
}

type presetDocument struct {
	Aspect     *textPatch           `json:"aspect"`
	Properties map[string]textPatch `json:"properties"`
}

type textPatch struct {
	PreferredName map[string]string `json:"preferredName"`
	Description   map[string]string `json:"description"`
	See           []string          `json:"see"`
}

// NewJSONPresetTransformer constructs a transformer from raw JSON bytes.
func NewJSONPresetTransformer(data []byte) (*JSONPresetTransformer, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errors.New("json preset transformer: document is empty")
	}
	var document presetDocument
	if err := json.Unmarshal(data, &document); err != nil {
		return nil, fmt.Errorf("json preset transformer: parse document: %w", err)
	}
	return &JSONPresetTransformer{document: document}, nil
}

// NewJSONPresetTransformerFromFS loads a preset document from the provided
// filesystem path.
func NewJSONPresetTransformerFromFS(fsys fs.FS, path string) (*JSONPresetTransformer, error) {
	if fsys == nil {
		return nil, errors.New("json preset transformer: filesystem is nil")
	}
	if strings.TrimSpace(path) == "" {
		return nil, errors.New("json preset transformer: path is required")
	}
	data, err := fs.ReadFile(fsys, path)
	if err != nil {
		return nil, fmt.Errorf("json preset transformer: read %s: %w", path, err)
	}
	return NewJSONPresetTransformer(data)
}

// Transform applies the patches onto the supplied aspect. Unknown property
// paths are reported as errors so presets do not silently drift.
func (t *JSONPresetTransformer) Transform(ctx context.Context, _ *metamodel.AspectModel, aspect *metamodel.Aspect) error {
	if aspect == nil {
		return errors.New("json preset transformer: aspect is nil")
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	if t.document.Aspect != nil {
		applyTextPatch(&aspect.Base, *t.document.Aspect)
	}

	paths := make([]string, 0, len(t.document.Properties))
	for path := range t.document.Properties {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		if err := ctx.Err(); err != nil {
			return err
		}
		property := findPropertyByPath(aspect.Properties, path)
		if property == nil {
			return fmt.Errorf("json preset transformer: property %q not found", path)
		}
		applyTextPatch(&property.Base, t.document.Properties[path])
	}
	return nil
}

func applyTextPatch(base *metamodel.Base, patch textPatch) {
	if len(patch.PreferredName) > 0 {
		base.PreferredNames = mergeStringMap(base.PreferredNames, patch.PreferredName)
	}
	if len(patch.Description) > 0 {
		base.Descriptions = mergeStringMap(base.Descriptions, patch.Description)
	}
	if len(patch.See) > 0 {
		for _, ref := range patch.See {
			if !slices.Contains(base.See, ref) {
				base.See = append(base.See, ref)
			}
		}
	}
}

func findPropertyByPath(properties []*metamodel.Property, path string) *metamodel.Property {
	segments := strings.Split(path, ".")
	current := properties
	var found *metamodel.Property
	for _, segment := range segments {
		found = nil
		for _, p := range current {
			if p.PayloadKey() == segment || p.Name == segment {
				found = p
				break
			}
		}
		if found == nil {
			return nil
		}
		current = nil
		if dt := found.DataType(); dt.IsComplex() {
			current = dt.Entity.AllProperties()
		}
	}
	return found
}

func mergeStringMap(dst, src map[string]string) map[string]string {
	if dst == nil {
		dst = make(map[string]string, len(src))
	}
	for k, v := range src {
		dst[k] = v
	}
	return dst
}
