package world

import (
	"cmp"
	"context"
	"slices"
	"strings"

	"github.com/google/uuid"
	"github.com/zyedidia/generic/mapset"
	"go.opentelemetry.io/otel/attribute"

	"github.com/samdwyer/endlessutopia/internal/telemetry"
)

var (
	landmarkPoses  = []rune{'@', 'C', 'c', 'o', 'O'}
	landmarkTraces = []rune{'.', '·', '˙', '∙', '•'}
)

// Engine is one world instance. Generation is pure; the only mutable state is
// the set of coordinates where the landmark has been found.
//
// An Engine is not safe for concurrent use. Hosts that share one must
// serialize calls.
type Engine struct {
	id       string
	key      string
	landmark Coord
	visited  mapset.Set[Coord]
}

// Option configures an Engine.
type Option func(*Engine)

// WithLandmarkKey places the landmark by hashing key instead of DefaultLandmarkKey.
func WithLandmarkKey(key string) Option {
	return func(e *Engine) {
		e.key = key
	}
}

// NewEngine creates an engine with an empty visited set.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		id:      uuid.NewString(),
		key:     DefaultLandmarkKey,
		visited: mapset.New[Coord](),
	}
	for _, opt := range opts {
		opt(e)
	}
	e.landmark = landmarkFor(e.key)
	return e
}

// ID identifies the instance in diagnostics. It never affects generation.
func (e *Engine) ID() string {
	return e.id
}

// Landmark returns this engine's landmark position.
func (e *Engine) Landmark() Coord {
	return e.landmark
}

// IsLandmark reports whether (x, y) is the landmark position.
func (e *Engine) IsLandmark(x, y int32) bool {
	return x == e.landmark.X && y == e.landmark.Y
}

// GetTile returns the tile at (x, y). The first query of the landmark returns
// it as present and records it; every later query returns a trace.
func (e *Engine) GetTile(x, y int32) Tile {
	c := Coord{X: x, Y: y}
	// Visited must be checked before landmark equality.
	if e.visited.Has(c) {
		return Tile{Character: pick(landmarkTraces, Hash(x, y)), Biome: BiomeLandmarkTrace}
	}
	if e.IsLandmark(x, y) {
		e.visited.Put(c)
		return Tile{Character: pick(landmarkPoses, Hash(x, y)), Biome: BiomeLandmarkPresent}
	}
	return e.terrain(x, y)
}

// Peek returns what GetTile would return without recording a discovery.
func (e *Engine) Peek(x, y int32) Tile {
	c := Coord{X: x, Y: y}
	if e.visited.Has(c) {
		return Tile{Character: pick(landmarkTraces, Hash(x, y)), Biome: BiomeLandmarkTrace}
	}
	if e.IsLandmark(x, y) {
		return Tile{Character: pick(landmarkPoses, Hash(x, y)), Biome: BiomeLandmarkPresent}
	}
	return e.terrain(x, y)
}

func (e *Engine) terrain(x, y int32) Tile {
	biome, ch := Classify(x, y, Hash(x, y))
	return Tile{Character: ch, Biome: biome}
}

// GetRegion returns height rows of width tiles starting at (x0, y0), queried
// row by row. Non-positive extents yield an empty region.
func (e *Engine) GetRegion(ctx context.Context, x0, y0 int32, width, height int) [][]Tile {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.region")
	defer span.End()

	span.SetAttributes(
		attribute.String("engine.id", e.id),
		attribute.Int("region.x", int(x0)),
		attribute.Int("region.y", int(y0)),
		attribute.Int("region.width", width),
		attribute.Int("region.height", height),
	)

	if width <= 0 || height <= 0 {
		return [][]Tile{}
	}

	region := make([][]Tile, height)
	found := 0
	for dy := 0; dy < height; dy++ {
		row := make([]Tile, width)
		y := y0 + int32(dy)
		for dx := 0; dx < width; dx++ {
			row[dx] = e.GetTile(x0+int32(dx), y)
			if row[dx].Biome == BiomeLandmarkPresent {
				found++
			}
		}
		region[dy] = row
	}

	span.SetAttributes(attribute.Int("region.landmarks_found", found))
	return region
}

// RenderRegion renders GetRegion as text, one glyph per tile and a newline
// after every row.
func (e *Engine) RenderRegion(ctx context.Context, x0, y0 int32, width, height int) string {
	region := e.GetRegion(ctx, x0, y0, width, height)

	var b strings.Builder
	if len(region) > 0 {
		b.Grow(len(region) * (len(region[0]) + 1))
	}
	for _, row := range region {
		for _, tile := range row {
			b.WriteRune(tile.Character)
		}
		b.WriteByte('\n')
	}
	return b.String()
}

// FindLandmarkNear scans the square [cx-r, cx+r] x [cy-r, cy+r] row by row and
// returns every landmark coordinate in it. Cells outside the int32 plane are
// skipped. A negative radius yields nothing.
func (e *Engine) FindLandmarkNear(ctx context.Context, cx, cy, radius int32) []Coord {
	tracer := telemetry.Tracer("world")
	_, span := tracer.Start(ctx, "world.find_landmark_near")
	defer span.End()

	found := []Coord{}
	if radius >= 0 {
		r := int64(radius)
		yMin, yMax := clampAxis(int64(cy)-r), clampAxis(int64(cy)+r)
		xMin, xMax := clampAxis(int64(cx)-r), clampAxis(int64(cx)+r)
		for y := yMin; y <= yMax; y++ {
			for x := xMin; x <= xMax; x++ {
				if e.IsLandmark(int32(x), int32(y)) {
					found = append(found, Coord{X: int32(x), Y: int32(y)})
				}
			}
		}
	}

	span.SetAttributes(
		attribute.String("engine.id", e.id),
		attribute.Int("search.x", int(cx)),
		attribute.Int("search.y", int(cy)),
		attribute.Int("search.radius", int(radius)),
		attribute.Int("search.found", len(found)),
	)
	return found
}

func clampAxis(v int64) int64 {
	return min(max(v, int64(minAxis)), int64(maxAxis))
}

const (
	minAxis = -1 << 31
	maxAxis = 1<<31 - 1
)

// Visited returns the recorded discoveries sorted by y, then x.
func (e *Engine) Visited() []Coord {
	out := make([]Coord, 0, e.visited.Size())
	e.visited.Each(func(c Coord) {
		out = append(out, c)
	})
	slices.SortFunc(out, func(a, b Coord) int {
		if c := cmp.Compare(a.Y, b.Y); c != 0 {
			return c
		}
		return cmp.Compare(a.X, b.X)
	})
	return out
}

// VisitedCount returns the number of recorded discoveries.
func (e *Engine) VisitedCount() int {
	return e.visited.Size()
}
