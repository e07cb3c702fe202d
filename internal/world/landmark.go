package world

// DefaultLandmarkKey is the byte sequence hashed to place the landmark.
const DefaultLandmarkKey = "ascicat"

const landmarkOffset = 50_000

// LandmarkPosition returns the landmark of the default world.
func LandmarkPosition() Coord {
	return landmarkFor(DefaultLandmarkKey)
}

// landmarkFor places the landmark for key. X is bits 16..47 of the key hash,
// Y the low 32 bits, each read as int32 with 50000 subtracted. The subtraction
// wraps, so the landmark can sit anywhere on the plane.
//
// The bit layout is part of the world format: changing it moves the landmark
// of every shared world.
func landmarkFor(key string) Coord {
	h := hashBytes(key)
	return Coord{
		X: int32(uint32(h>>16)) - landmarkOffset,
		Y: int32(uint32(h)) - landmarkOffset,
	}
}
