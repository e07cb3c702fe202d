package theme

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/gdamore/tcell/v2"
)

// ParseHexColor reads a theme colour written as "#RRGGBB". The '#' is optional.
func ParseHexColor(s string) (tcell.Color, error) {
	hex := strings.TrimPrefix(s, "#")
	if len(hex) != 6 {
		return tcell.ColorDefault, fmt.Errorf("theme colour %q: want 6 hex digits", s)
	}

	v, err := strconv.ParseUint(hex, 16, 32)
	if err != nil {
		return tcell.ColorDefault, fmt.Errorf("theme colour %q: %w", s, err)
	}
	return tcell.NewHexColor(int32(v)), nil
}
