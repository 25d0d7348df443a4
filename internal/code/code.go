// Package code generates the short, human-shareable trip identifiers.
package code

import (
	"math/rand"
	"strings"
)

// Alphabet is the 32-symbol set trip codes are drawn from. 0, 1, I and O
// are excluded because they are easy to misread when a code is shared
// verbally or scribbled on paper.
const Alphabet = "ABCDEFGHJKLMNPQRSTUVWXYZ23456789"

// DefaultLength is the standard trip code length. At 6 symbols over a
// 32-character alphabet there are 32^6 (~1.07 billion) possible codes.
const DefaultLength = 6

// maxAttempts caps collision retries. After the cap the last draw is
// returned even if it collides: this is an accepted weakness, not a hard
// uniqueness guarantee, but at the default length a collision needs a
// store holding a meaningful fraction of a billion trips.
const maxAttempts = 5

// Generate draws a code of the given length, retrying while the draw is
// present in existing, up to maxAttempts. It is a pure function of the
// random source and its inputs; injecting r keeps it deterministic in tests.
func Generate(r *rand.Rand, length int, existing map[string]bool) string {
	var code string
	for attempt := 0; attempt < maxAttempts; attempt++ {
		var b strings.Builder
		b.Grow(length)
		for i := 0; i < length; i++ {
			b.WriteByte(Alphabet[r.Intn(len(Alphabet))])
		}
		code = b.String()
		if !existing[code] {
			break
		}
	}
	return code
}
