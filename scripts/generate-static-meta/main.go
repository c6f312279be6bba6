package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	aspectmodel "github.com/goliatone/go-aspectmodel"
	pkgloader "github.com/goliatone/go-aspectmodel/pkg/loader"
	"github.com/goliatone/go-aspectmodel/pkg/orchestrator"
	"github.com/goliatone/go-aspectmodel/pkg/render"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/gocode"
	"github.com/goliatone/go-aspectmodel/pkg/renderers/jsonpayload"
	"github.com/goliatone/go-aspectmodel/pkg/urn"
)

func main() {
	var (
		modelsDir = flag.String("models", "pkg/testsupport/testdata/models", "models root laid out as <namespace>/<version>/<Name>.ttl")
		aspectURN = flag.String("urn", "urn:samm:io.catenax.part_as_planned:2.0.0#PartAsPlanned", "aspect URN to generate")
		pkg       = flag.String("package", "", "package clause (default: lower-cased aspect name)")
		mock      = flag.Bool("mock", false, "include the sample response and mock server stub")
		outPath   = flag.String("out", "", "output file (default: <aspect_name>.go)")
	)
	flag.Parse()

	u, err := urn.Parse(*aspectURN)
	if err != nil {
		fmt.Fprintf(os.Stderr, "invalid urn: %v\n", err)
		os.Exit(1)
	}

	renderer := gocode.New(
		gocode.WithPackage(*pkg),
		gocode.WithMockHelpers(*mock),
		gocode.WithPayloadRenderer(jsonpayload.New()),
	)
	orch := orchestrator.New(
		orchestrator.WithLoader(aspectmodel.NewModelsLoader(*modelsDir)),
		orchestrator.WithRegistry(render.NewRegistry(renderer)),
		orchestrator.WithDefaultRenderer(renderer.Name()),
	)

	res, err := orch.Generate(context.Background(), orchestrator.Request{
		Source: pkgloader.SourceFromURN(u),
		Aspect: u.Name,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to generate static meta: %v\n", err)
		os.Exit(1)
	}

	target := *outPath
	if target == "" {
		target = gocode.FileName(res.Aspect)
	}
	if dir := filepath.Dir(target); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			fmt.Fprintf(os.Stderr, "failed to create %s: %v\n", dir, err)
			os.Exit(1)
		}
	}
	if err := os.WriteFile(target, res.Output, 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "failed to write output: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("✓ Wrote %s static meta to %s\n", res.Aspect.Name, target)
}
