// Package theme provides the embedded colour themes used by the terminal explorer.
package theme

import "embed"

// themeFS holds themes.json, compiled into the binary.
//
//go:embed themes.json
var themeFS embed.FS
