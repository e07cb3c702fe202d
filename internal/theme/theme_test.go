package theme

import (
	"errors"
	"strings"
	"testing"

	"github.com/gdamore/tcell/v2"

	"github.com/samdwyer/endlessutopia/internal/world"
)

func TestLoadRegistry(t *testing.T) {
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("Failed to load themes: %v", err)
	}

	if registry.Count() != 3 {
		t.Errorf("Expected 3 themes, got %d", registry.Count())
	}

	for _, id := range []string{"phosphor", "amber", "mono"} {
		if registry.GetByID(id) == nil {
			t.Errorf("Expected theme %q not found", id)
		}
	}

	if registry.GetByID("neon") != nil {
		t.Error("GetByID(\"neon\") should be nil")
	}
	if got := registry.Default().ID; got != DefaultID {
		t.Errorf("Default().ID = %q, want %q", got, DefaultID)
	}
}

func TestEveryThemeCoversEveryBiome(t *testing.T) {
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("Failed to load themes: %v", err)
	}

	biomes := []world.Biome{
		world.BiomeCalm,
		world.BiomePattern,
		world.BiomeGlitch,
		world.BiomeLandmarkTrace,
		world.BiomeLandmarkPresent,
	}
	for _, def := range registry.All() {
		for _, b := range biomes {
			if _, ok := def.Biomes[b.String()]; !ok {
				t.Errorf("theme %s has no colour for %v", def.ID, b)
			}
		}
	}
}

func TestParseHexColor(t *testing.T) {
	tests := []struct {
		input string
		valid bool
	}{
		{"#FF0000", true},
		{"FF0000", true},
		{"#00ff00", true},
		{"#000000", true},
		{"invalid", false},
		{"#FFF", false},
		{"#GG0000", false},
	}

	for _, tt := range tests {
		_, err := ParseHexColor(tt.input)
		if tt.valid && err != nil {
			t.Errorf("ParseHexColor(%q) should be valid, got error: %v", tt.input, err)
		}
		if !tt.valid && err == nil {
			t.Errorf("ParseHexColor(%q) should be invalid, got no error", tt.input)
		}
	}
}

func TestDefStyles(t *testing.T) {
	def := Def{
		ID:         "test",
		Cursor:     "§",
		Background: "#000000",
		Status:     "#FFFFFF",
		Biomes:     map[string]string{"glitch": "#FF0000"},
	}

	if def.CursorRune() != '§' {
		t.Errorf("CursorRune() = %q, want '§'", def.CursorRune())
	}

	base := tcell.StyleDefault.Background(tcell.NewRGBColor(0, 0, 0))
	if got, want := def.BiomeStyle(world.BiomeGlitch), base.Foreground(tcell.NewRGBColor(0xFF, 0, 0)); got != want {
		t.Errorf("BiomeStyle(glitch) = %v, want red foreground", got)
	}
	if got, want := def.BiomeStyle(world.BiomeCalm), base.Foreground(tcell.ColorWhite); got != want {
		t.Errorf("BiomeStyle(calm) without colour = %v, want white fallback", got)
	}

	empty := Def{}
	if empty.CursorRune() != '?' {
		t.Errorf("CursorRune() on empty theme = %q, want '?'", empty.CursorRune())
	}
}

func TestValidateRejectsUnknownBiome(t *testing.T) {
	def := Def{ID: "bad", Background: "#000000", Status: "#FFFFFF", Biomes: map[string]string{"lava": "#FF0000"}}
	if err := def.validate(); err == nil {
		t.Error("validate() should reject unknown biome tags")
	}
}

func TestSelect(t *testing.T) {
	registry, err := LoadRegistry()
	if err != nil {
		t.Fatalf("Failed to load themes: %v", err)
	}

	tests := []struct {
		id      string
		want    string
		unknown bool
	}{
		{"", DefaultID, false},
		{"amber", "amber", false},
		{"mono", "mono", false},
		{"neon", DefaultID, true},
	}

	for _, tt := range tests {
		def, err := registry.Select(tt.id)
		if def == nil || def.ID != tt.want {
			t.Errorf("Select(%q) = %v, want theme %q", tt.id, def, tt.want)
		}
		if got := errors.Is(err, ErrUnknownTheme); got != tt.unknown {
			t.Errorf("Select(%q) error = %v, want unknown=%v", tt.id, err, tt.unknown)
		}
	}
}

func TestIDs(t *testing.T) {
	registry := NewRegistry([]Def{{ID: "a"}, {ID: "b"}})
	if got := strings.Join(registry.IDs(), ","); got != "a,b" {
		t.Errorf("IDs() = %q, want \"a,b\"", got)
	}
}

func TestParseHexColorValue(t *testing.T) {
	got, err := ParseHexColor("#FFD700")
	if err != nil {
		t.Fatalf("ParseHexColor(#FFD700) error: %v", err)
	}
	if want := tcell.NewRGBColor(0xFF, 0xD7, 0x00); got != want {
		t.Errorf("ParseHexColor(#FFD700) = %v, want %v", got, want)
	}
	if _, err := ParseHexColor("+12345"); err == nil {
		t.Error("ParseHexColor(+12345) should be invalid")
	}
}
