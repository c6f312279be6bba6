package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	aspectmodel "github.com/goliatone/go-aspectmodel"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

func main() {
	var (
		modelsDir = flag.String("models", "pkg/testsupport/testdata/models", "models root")
		aspectURN = flag.String("urn", "urn:samm:io.catenax.part_as_planned:2.0.0#PartAsPlanned", "aspect URN to document")
		outDir    = flag.String("out", "target", "output directory")
		locale    = flag.String("locale", "en", "documentation language")
	)
	flag.Parse()

	ctx := context.Background()
	u, err := urn.Parse(*aspectURN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Invalid urn: %v\n", err)
		os.Exit(1)
	}

	loader := aspectmodel.NewModelsLoader(*modelsDir)
	model, aspect, err := aspectmodel.Load(ctx, loader, pkgloader.SourceFromURN(u), u.Name)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load model: %v\n", err)
		os.Exit(1)
	}

	path, err := aspectmodel.WriteHTML(ctx, model, aspect, *outDir, aspectmodel.Options{Locale: *locale})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to generate docs: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Generated %s documentation → %s\n", aspect.Name, path)
}
