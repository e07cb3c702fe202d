package world

// The seed, the multiplier and the mul/xor/mul/xor/mul order are part of the
// world format. Any change moves every tile and the landmark.
const (
	hashSeed       uint64 = 0x517cc1b727220a95
	hashMultiplier uint64 = 0x6c62272e07bb0142
)

// Hash mixes a coordinate into a 64-bit value. All arithmetic wraps.
func Hash(x, y int32) uint64 {
	h := hashSeed
	h *= hashMultiplier
	h ^= uint64(x) // sign-extended
	h *= hashMultiplier
	h ^= uint64(y)
	h *= hashMultiplier
	return h
}

// hashBytes folds a byte string into the same seed/multiplier chain, one byte per step.
func hashBytes(key string) uint64 {
	h := hashSeed
	for i := 0; i < len(key); i++ {
		h *= hashMultiplier
		h ^= uint64(key[i])
	}
	return h
}
