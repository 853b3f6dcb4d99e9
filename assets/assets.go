// Package assets bundles the blog's markdown sources, the article manifest
// and the page templates into the binary.
package assets

import (
	"embed"
	"io/fs"
)

// ArticlesDir is the directory, relative to Content, holding markdown sources.
const ArticlesDir = "articles"

//go:embed manifest.yml articles/*.md
var content embed.FS

//go:embed templates/*.html
var templates embed.FS

// Content exposes the manifest and the articles directory.
func Content() fs.FS { return content }

// Templates exposes the page templates.
func Templates() fs.FS { return templates }
