package utils

import (
	"encoding/hex"
	"hash/fnv"
	"math/rand"
	"strconv"

	"github.com/google/uuid"
)

// GenerateID returns a unique identifier for newly spawned entities.
func GenerateID() string {
	return uuid.NewString()
}

// DeterministicID draws an identifier from the given rng stream, so
// generation with the same seed yields the same IDs. Used for
// world-build spawns; live spawns use GenerateID.
func DeterministicID(rng *rand.Rand, prefix string) string {
	b := make([]byte, 8)
	rng.Read(b)
	return prefix + hex.EncodeToString(b)
}

// StringToSeed turns an arbitrary seed string into an int64 usable with
// math/rand. Decimal strings map to their numeric value so operators can
// pass plain numbers; anything else is hashed.
func StringToSeed(s string) int64 {
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return n
	}
	h := fnv.New64a()
	h.Write([]byte(s))
	return int64(h.Sum64())
}
