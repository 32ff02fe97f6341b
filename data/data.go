// Package data embeds the default scenario.
package data

import (
	"embed"
	"io/fs"
	"os"
)

// FS holds provinces.json, daimyo.json, generals.json and events.json.
//
//go:embed *.json
var FS embed.FS

// Dir returns the scenario filesystem rooted at dir, or the embedded one when
// dir is empty.
func Dir(dir string) fs.FS {
	if dir == "" {
		return FS
	}
	return os.DirFS(dir)
}
