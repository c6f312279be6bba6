package testsupport

import (
	"embed"
	"io/fs"
	"path/filepath"
	"runtime"
	"testing"
)

// Fixture URNs shipped under testdata/models.
const (
	PartAsPlannedURN = "urn:samm:io.catenax.part_as_planned:2.0.0#PartAsPlanned"
	MovementURN      = "urn:samm:io.example.movement:1.0.0#Movement"
)

//go:embed testdata/models
var models embed.FS

// ModelsFS exposes the fixture models root laid out as
// <namespace>/<version>/<Name>.ttl.
func ModelsFS() fs.FS {
	sub, err := fs.Sub(models, "testdata/models")
	if err != nil {
		panic(err)
	}
	return sub
}

// ModelsDir returns the absolute path of the fixture models root on disk.
func ModelsDir(t testing.TB) string {
	t.Helper()

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("testsupport: cannot locate fixtures")
	}
	return filepath.Join(filepath.Dir(file), "testdata", "models")
}

// ModelPath returns the on-disk path of a fixture model file.
func ModelPath(t testing.TB, namespace, version, file string) string {
	t.Helper()
	return filepath.Join(ModelsDir(t), namespace, version, file)
}

// ReadModel returns the content of a fixture model file.
func ReadModel(t testing.TB, namespace, version, file string) []byte {
	t.Helper()

	data, err := fs.ReadFile(ModelsFS(), namespace+"/"+version+"/"+file)
	if err != nil {
		t.Fatalf("read model fixture: %v", err)
	}
	return data
}

// PartAsPlannedPath is the on-disk path of the PartAsPlanned fixture.
func PartAsPlannedPath(t testing.TB) string {
	t.Helper()
	return ModelPath(t, "io.catenax.part_as_planned", "2.0.0", "PartAsPlanned.ttl")
}
