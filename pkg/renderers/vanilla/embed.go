package vanilla

import (
	"embed"
	"io/fs"
)

// Asset file names under AssetsFS.
const (
	StylesheetName = "mfadmin.css"
	ScriptName     = "mfadmin.js"
)

//go:embed templates/*.tmpl templates/components/*.tmpl
var templatesFS embed.FS

//go:embed assets/*
var assetsFS embed.FS

func TemplatesFS() fs.FS { return templatesFS }

// AssetsFS holds the console stylesheets and the toast stream script.
func AssetsFS() fs.FS {
	sub, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err)
	}
	return sub
}
