package table

import "math/bits"

// fxSeed is the constant multiplier used by rustc's FxHash (and Firefox's
// hash map before it). It has no special meaning beyond being a large odd
// number with a good bit spread; spec.md §4.2 asks for "a fixed-seed FxHash"
// without mandating a specific constant, so this is the well-known one.
const fxSeed uint64 = 0x517cc1b727220a95

// fxHash computes an FxHash-style hash of s: for each byte, rotate the
// accumulator, fold in the byte, and multiply by the seed. It is not
// cryptographically secure and is not meant to be; it is chosen for speed on
// the short, ASCII-heavy identifiers and literals Lox programs tend to use.
func fxHash(s string) uint64 {
	var h uint64
	for i := 0; i < len(s); i++ {
		h = (bits.RotateLeft64(h, 5) ^ uint64(s[i])) * fxSeed
	}
	return h
}
