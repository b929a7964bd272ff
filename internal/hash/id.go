// Package hash converts sample keys to fixed-size series identifiers.
package hash

import "github.com/cespare/xxhash/v2"

// ID computes the xxHash64 of the given sample key.
//
// The hash is deterministic across processes, so the same key always maps to
// the same series ID regardless of which batch it was encoded in.
func ID(key string) uint64 {
	return xxhash.Sum64String(key)
}
