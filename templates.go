package mfadmin

import (
	"io/fs"

	"github.com/goliatone/go-mfadmin/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in console templates so callers can
// reuse or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedAssets exposes the console stylesheet and toast script.
//
// Typical mount:
//
//	mux.Handle("/assets/",
//	  http.StripPrefix("/assets/",
//	    http.FileServerFS(mfadmin.EmbeddedAssets()),
//	  ),
//	)
func EmbeddedAssets() fs.FS {
	return vanilla.AssetsFS()
}
