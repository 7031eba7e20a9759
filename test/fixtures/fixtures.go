// Package fixtures holds recorded API responses for adapter tests.
package fixtures

import (
	"embed"
	"path"
)

//go:embed *.json
var files embed.FS

// Load returns the named fixture, e.g. Load("player_mvp_plus.json").
// It panics on an unknown name.
func Load(name string) []byte {
	b, err := files.ReadFile(path.Clean(name))
	if err != nil {
		panic(err)
	}
	return b
}
