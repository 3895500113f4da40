// Package web embeds the built single-page UI that the API server serves at /.
package web

import "embed"

//go:embed dist
var FS embed.FS
