// Package world provides the deterministic, coordinate-addressed world engine.
package world

import (
	"encoding/json"
	"fmt"
)

// Biome is the classification of a tile.
type Biome int

const (
	// BiomeCalm is empty space.
	BiomeCalm Biome = iota
	// BiomePattern is a regular, human-recognizable pattern.
	BiomePattern
	// BiomeGlitch is a corrupted area drawn from the glitch palettes.
	BiomeGlitch
	// BiomeLandmarkTrace marks a coordinate where the landmark was already found.
	BiomeLandmarkTrace
	// BiomeLandmarkPresent is the landmark itself, seen for the first time.
	BiomeLandmarkPresent
)

var biomeNames = [...]string{
	BiomeCalm:            "calm",
	BiomePattern:         "pattern",
	BiomeGlitch:          "glitch",
	BiomeLandmarkTrace:   "landmark_trace",
	BiomeLandmarkPresent: "landmark_present",
}

// String returns the biome tag used in logs and over the wire.
func (b Biome) String() string {
	if b < 0 || int(b) >= len(biomeNames) {
		return "unknown"
	}
	return biomeNames[b]
}

// ParseBiome is the inverse of Biome.String.
func ParseBiome(s string) (Biome, error) {
	for i, name := range biomeNames {
		if name == s {
			return Biome(i), nil
		}
	}
	return 0, fmt.Errorf("unknown biome %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (b Biome) MarshalText() ([]byte, error) {
	if b < 0 || int(b) >= len(biomeNames) {
		return nil, fmt.Errorf("invalid biome %d", int(b))
	}
	return []byte(b.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (b *Biome) UnmarshalText(text []byte) error {
	parsed, err := ParseBiome(string(text))
	if err != nil {
		return err
	}
	*b = parsed
	return nil
}

// Tile is the world content at one coordinate.
type Tile struct {
	Character rune
	Biome     Biome
}

// Rune returns the tile's display character.
func (t Tile) Rune() rune {
	return t.Character
}

// IsLandmark reports whether the tile is the landmark or its trace.
func (t Tile) IsLandmark() bool {
	return t.Biome == BiomeLandmarkPresent || t.Biome == BiomeLandmarkTrace
}

type tileJSON struct {
	Character string `json:"character"`
	Biome     Biome  `json:"biome"`
}

// MarshalJSON encodes the tile as {"character": "x", "biome": "calm"}.
func (t Tile) MarshalJSON() ([]byte, error) {
	return json.Marshal(tileJSON{Character: string(t.Character), Biome: t.Biome})
}

// UnmarshalJSON decodes a tile produced by MarshalJSON.
func (t *Tile) UnmarshalJSON(data []byte) error {
	var raw tileJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	runes := []rune(raw.Character)
	if len(runes) != 1 {
		return fmt.Errorf("tile character must be a single rune, got %q", raw.Character)
	}
	t.Character = runes[0]
	t.Biome = raw.Biome
	return nil
}

// Coord is a position in the world plane.
type Coord struct {
	X int32 `json:"x"`
	Y int32 `json:"y"`
}

// String formats the coordinate as (x, y).
func (c Coord) String() string {
	return fmt.Sprintf("(%d, %d)", c.X, c.Y)
}
