package aspectmodel

import (
	"io/fs"
	"strings"
	"testing"

	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
)

func TestDocsAssetsFSContainsStylesheet(t *testing.T) {
	data, err := fs.ReadFile(DocsAssetsFS(), docs.StylesheetName)
	if err != nil {
		t.Fatalf("expected stylesheet to be readable: %v", err)
	}
	if !strings.Contains(string(data), "{") {
		t.Fatalf("expected css rules in stylesheet")
	}
}

func TestDocsTemplatesFSIncludesAspectTemplate(t *testing.T) {
	if _, err := fs.ReadFile(DocsTemplatesFS(), "templates/aspect.tpl"); err != nil {
		t.Fatalf("expected aspect template to be readable: %v", err)
	}
}
