package world

import "math"

// Biome thresholds on hash % 100.
const (
	calmCutoff    = 60 // [0, 60) calm
	patternCutoff = 85 // [60, 85) pattern, [85, 100) glitch
)

// PatternFamily is one of the pattern rules used by the pattern biome.
type PatternFamily int

const (
	PatternCheckerboard PatternFamily = iota
	PatternWave
	PatternDiagonal
	PatternDots
	PatternCross
	PatternRings
	PatternScatter
	PatternSparse
)

// String returns a human-readable family name.
func (p PatternFamily) String() string {
	switch p {
	case PatternCheckerboard:
		return "checkerboard"
	case PatternWave:
		return "wave"
	case PatternDiagonal:
		return "diagonal"
	case PatternDots:
		return "dots"
	case PatternCross:
		return "cross"
	case PatternRings:
		return "rings"
	case PatternScatter:
		return "scatter"
	case PatternSparse:
		return "sparse"
	default:
		return "unknown"
	}
}

// patternFamilyFor picks the family from (hash / 100) % 10.
func patternFamilyFor(hash uint64) PatternFamily {
	switch (hash / 100) % 10 {
	case 0, 1:
		return PatternCheckerboard
	case 2, 3:
		return PatternWave
	case 4:
		return PatternDiagonal
	case 5:
		return PatternDots
	case 6:
		return PatternCross
	case 7:
		return PatternRings
	case 8:
		return PatternScatter
	default:
		return PatternSparse
	}
}

var scatterGlyphs = []rune{'*', '·', '˙', ' ', ' ', ' '}

// glyph applies the family's rule. Coordinate arithmetic is int32 and wraps;
// % truncates toward zero, so negative coordinates give negative remainders.
func (p PatternFamily) glyph(x, y int32, hash uint64) rune {
	switch p {
	case PatternCheckerboard:
		if (x+y)%2 == 0 {
			return '·'
		}
	case PatternWave:
		wave := (math.Sin(float64(x)*0.5) + math.Cos(float64(y)*0.3)) * 3.0
		if math.Abs(wave) < 1.0 {
			return '~'
		}
	case PatternDiagonal:
		if (x-y)%3 == 0 {
			return '/'
		}
	case PatternDots:
		if (x*7+y*11)%13 == 0 {
			return '•'
		}
	case PatternCross:
		if x%5 == 0 || y%5 == 0 {
			return '+'
		}
	case PatternRings:
		if ringDistance(x, y)%10 == 0 {
			return 'o'
		}
	case PatternScatter:
		return pick(scatterGlyphs, hash)
	default:
		if hash%20 == 0 {
			return '.'
		}
	}
	return ' '
}

// ringDistance is the truncated Euclidean distance from the origin. A squared
// distance that wrapped negative counts as distance 0.
func ringDistance(x, y int32) int32 {
	sq := x*x + y*y
	if sq < 0 {
		return 0
	}
	return int32(math.Sqrt(float64(sq)))
}

// GlitchPalette is one of the glitch glyph palettes, in increasing density.
type GlitchPalette int

const (
	GlitchShade GlitchPalette = iota
	GlitchSymbol
	GlitchBlock
	GlitchHalfBlock
)

// String returns a human-readable palette name.
func (g GlitchPalette) String() string {
	switch g {
	case GlitchShade:
		return "shade"
	case GlitchSymbol:
		return "symbol"
	case GlitchBlock:
		return "block"
	case GlitchHalfBlock:
		return "half_block"
	default:
		return "unknown"
	}
}

var glitchGlyphs = [...][]rune{
	GlitchShade:     {'▓', '▒', '░', '█'},
	GlitchSymbol:    {'#', '$', '%', '&', '@', '¤'},
	GlitchBlock:     {'█', '▓', '▒', '░', '▪', '▫'},
	GlitchHalfBlock: {'▀', '▄', '▌', '▐', '█', '▓'},
}

// glitchPaletteFor picks the palette from hash % 10.
func glitchPaletteFor(hash uint64) GlitchPalette {
	switch intensity := hash % 10; {
	case intensity < 3:
		return GlitchShade
	case intensity < 6:
		return GlitchSymbol
	case intensity < 8:
		return GlitchBlock
	default:
		return GlitchHalfBlock
	}
}

func (g GlitchPalette) glyph(hash uint64) rune {
	return pick(glitchGlyphs[g], hash)
}

// pick indexes a palette by hash % len(palette).
func pick(palette []rune, hash uint64) rune {
	return palette[hash%uint64(len(palette))]
}

// Classify maps a coordinate and its hash to a biome and glyph. It is pure and
// knows nothing about the landmark.
func Classify(x, y int32, hash uint64) (Biome, rune) {
	switch selector := hash % 100; {
	case selector < calmCutoff:
		return BiomeCalm, ' '
	case selector < patternCutoff:
		return BiomePattern, patternFamilyFor(hash).glyph(x, y, hash)
	default:
		return BiomeGlitch, glitchPaletteFor(hash).glyph(hash)
	}
}
