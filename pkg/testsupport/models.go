package testsupport

import (
	"context"
	"errors"
	"fmt"
	"testing"

	internalloader "github.com/goliatone/go-aspectmodel/internal/loader"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/metamodel"
	"github.com/goliatone/go-aspectmodel/pkg/resolver"
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

// LoadModel resolves a fixture aspect URN against the embedded models and
// returns the loaded model together with the aspect.
func LoadModel(t testing.TB, aspectURN string) (*metamodel.AspectModel, *metamodel.Aspect) {
	t.Helper()

	model, aspect, err := LoadModelFromURN(aspectURN)
	if err != nil {
		t.Fatalf("load model: %v", err)
	}
	return model, aspect
}

// LoadModelFromURN returns a loaded fixture model without requiring
// testing.T, for setup code outside of tests.
func LoadModelFromURN(aspectURN string) (*metamodel.AspectModel, *metamodel.Aspect, error) {
	if aspectURN == "" {
		return nil, nil, errors.New("testsupport: aspect urn is required")
	}
	u, err := urn.Parse(aspectURN)
	if err != nil {
		return nil, nil, fmt.Errorf("testsupport: %w", err)
	}
	loader := internalloader.New(pkgloader.NewOptions(
		pkgloader.WithStrategy(resolver.FS(ModelsFS())),
	))
	model, err := loader.Load(context.Background(), pkgloader.SourceFromURN(u))
	if err != nil {
		return nil, nil, fmt.Errorf("testsupport: load %s: %w", aspectURN, err)
	}
	aspect, ok := model.Aspect(aspectURN)
	if !ok {
		return nil, nil, fmt.Errorf("testsupport: aspect %s not found", aspectURN)
	}
	return model, aspect, nil
}
