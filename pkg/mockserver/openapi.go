package mockserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/labstack/echo/v4"
)

// LoadOpenAPI parses an OpenAPI document from JSON or YAML.
func LoadOpenAPI(ctx context.Context, data []byte) (*openapi3.T, error) {
	if len(data) == 0 {
		return nil, errors.New("mockserver: openapi document is empty")
	}
	loader := &openapi3.Loader{Context: ctx}
	doc, err := loader.LoadFromData(data)
	if err != nil {
		return nil, fmt.Errorf("mockserver: load openapi document: %w", err)
	}
	if err := doc.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
		return nil, fmt.Errorf("mockserver: validate openapi document: %w", err)
	}
	return doc, nil
}

// StubsFromOpenAPI turns every GET operation whose 200 response carries a
// JSON example into a stub answering with that example. Templated paths are
// skipped.
func StubsFromOpenAPI(doc *openapi3.T) ([]Stub, error) {
	if doc == nil || doc.Paths == nil {
		return nil, errors.New("mockserver: openapi document has no paths")
	}

	items := doc.Paths.Map()
	paths := make([]string, 0, len(items))
	for path := range items {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	var stubs []Stub
	for _, path := range paths {
		item := items[path]
		if item == nil || item.Get == nil || strings.Contains(path, "{") {
			continue
		}
		body, ok, err := jsonExample(item.Get)
		if err != nil {
			return nil, fmt.Errorf("mockserver: %s: %w", path, err)
		}
		if !ok {
			continue
		}
		name := item.Get.OperationID
		if name == "" {
			name = http.MethodGet + " " + path
		}
		stubs = append(stubs, Get(path).
			Named(name).
			WithHeader(echo.HeaderAccept, "application/json").
			WillReturn(JSON(http.StatusOK, body)))
	}
	if len(stubs) == 0 {
		return nil, errors.New("mockserver: no GET operation with a JSON example")
	}
	return stubs, nil
}

func jsonExample(op *openapi3.Operation) ([]byte, bool, error) {
	if op.Responses == nil {
		return nil, false, nil
	}
	ref := op.Responses.Status(http.StatusOK)
	if ref == nil || ref.Value == nil {
		return nil, false, nil
	}
	media := ref.Value.Content.Get("application/json")
	if media == nil {
		return nil, false, nil
	}

	example := media.Example
	if example == nil && len(media.Examples) > 0 {
		names := make([]string, 0, len(media.Examples))
		for name := range media.Examples {
			names = append(names, name)
		}
		sort.Strings(names)
		if ex := media.Examples[names[0]]; ex != nil && ex.Value != nil {
			example = ex.Value.Value
		}
	}
	if example == nil {
		return nil, false, nil
	}
	body, err := json.MarshalIndent(example, "", "  ")
	if err != nil {
		return nil, false, err
	}
	return body, true, nil
}
