// Package gamedata provides the static modifier tables and the embedded
// scenario presets for squad battles.
package gamedata

import "embed"

// dataFS embeds all JSON files from this directory at build time.
//
//go:embed *.json
var dataFS embed.FS
