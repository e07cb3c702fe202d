package theme

import (
	"errors"
	"fmt"
	"strings"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/endlessutopia/internal/world"
)

// DefaultID is the theme used when none is requested.
const DefaultID = "phosphor"

// ErrUnknownTheme is returned by Select for an id that is not in the registry.
var ErrUnknownTheme = errors.New("theme: unknown theme")

// Def is one colour theme loaded from JSON. Biome keys are world.Biome tags.
type Def struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Cursor     string            `json:"cursor"`     // Explorer cursor glyph
	Background string            `json:"background"` // Hex colour
	Status     string            `json:"status"`     // Status line foreground
	Biomes     map[string]string `json:"biomes"`
}

// CursorRune returns the cursor glyph, or '?' if none is set.
func (d *Def) CursorRune() rune {
	for _, r := range d.Cursor {
		return r
	}
	return '?'
}

// BiomeStyle returns the style for tiles of the given biome.
func (d *Def) BiomeStyle(b world.Biome) tcell.Style {
	return tcell.StyleDefault.
		Background(colorOr(d.Background, tcell.ColorBlack)).
		Foreground(colorOr(d.Biomes[b.String()], tcell.ColorWhite))
}

// StatusStyle returns the style for the status line.
func (d *Def) StatusStyle() tcell.Style {
	return tcell.StyleDefault.
		Background(colorOr(d.Background, tcell.ColorBlack)).
		Foreground(colorOr(d.Status, tcell.ColorWhite))
}

// BackgroundStyle returns the screen's base style.
func (d *Def) BackgroundStyle() tcell.Style {
	return tcell.StyleDefault.
		Background(colorOr(d.Background, tcell.ColorBlack)).
		Foreground(tcell.ColorWhite)
}

func colorOr(hex string, fallback tcell.Color) tcell.Color {
	color, err := ParseHexColor(hex)
	if err != nil {
		return fallback
	}
	return color
}

// File represents the structure of themes.json.
type File struct {
	Themes []Def `json:"themes"`
}

// Registry holds the loaded themes.
type Registry struct {
	themes []Def
}

// NewRegistry creates a registry from loaded theme definitions.
func NewRegistry(themes []Def) *Registry {
	return &Registry{themes: themes}
}

// LoadRegistry loads the embedded themes.json.
func LoadRegistry() (*Registry, error) {
	file, err := decode[File]("themes.json")
	if err != nil {
		return nil, err
	}
	if len(file.Themes) == 0 {
		return nil, errors.New("no themes loaded from themes.json")
	}
	for _, def := range file.Themes {
		if err := def.validate(); err != nil {
			return nil, err
		}
	}
	return NewRegistry(file.Themes), nil
}

func (d *Def) validate() error {
	for _, hex := range []string{d.Background, d.Status} {
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("theme %s: %w", d.ID, err)
		}
	}
	for tag, hex := range d.Biomes {
		if _, err := world.ParseBiome(tag); err != nil {
			return fmt.Errorf("theme %s: %w", d.ID, err)
		}
		if _, err := ParseHexColor(hex); err != nil {
			return fmt.Errorf("theme %s biome %s: %w", d.ID, tag, err)
		}
	}
	return nil
}

// GetByID returns the theme with the given ID, or nil if not found.
func (r *Registry) GetByID(id string) *Def {
	for i := range r.themes {
		if r.themes[i].ID == id {
			return &r.themes[i]
		}
	}
	return nil
}

// Default returns the default theme, or the first one if it is missing.
func (r *Registry) Default() *Def {
	if def := r.GetByID(DefaultID); def != nil {
		return def
	}
	return &r.themes[0]
}

// Select returns the theme with the given id. An empty id selects the default.
// An unknown id returns the default together with an error wrapping
// ErrUnknownTheme, so callers can warn and carry on.
func (r *Registry) Select(id string) (*Def, error) {
	if id == "" {
		return r.Default(), nil
	}
	if def := r.GetByID(id); def != nil {
		return def, nil
	}
	return r.Default(), fmt.Errorf("%w %q (have %s)", ErrUnknownTheme, id, strings.Join(r.IDs(), ", "))
}

// IDs lists the theme ids in file order.
func (r *Registry) IDs() []string {
	ids := make([]string, 0, r.Count())
	for _, def := range r.All() {
		ids = append(ids, def.ID)
	}
	return ids
}

// All returns all theme definitions.
func (r *Registry) All() []Def {
	return r.themes
}

// Count returns the number of themes in the registry.
func (r *Registry) Count() int {
	return len(r.themes)
}
