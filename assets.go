package aspectmodel

import (
	"io/fs"

	"github.com/goliatone/go-aspectmodel/pkg/renderers/docs"
)

// DocsTemplatesFS exposes the built-in documentation templates so callers can
// copy or extend them without importing the renderer package directly.
func DocsTemplatesFS() fs.FS {
	return docs.TemplatesFS()
}

// DocsAssetsFS exposes the documentation stylesheet.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(aspectmodel.DocsAssetsFS()),
//	  ),
//	)
func DocsAssetsFS() fs.FS {
	return docs.AssetsFS()
}
