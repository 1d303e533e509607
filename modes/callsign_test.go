package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDecodeCallsignStripsPadding(t *testing.T) {
	raw := mustRaw(t, "8D4840D6202CC371C32CE0576098", 50)
	assert.Equal(t, "KLM1023", decodeCallsign(raw.Bits, raw.LengthBits))
}

func TestDecodeCallsignAlphabetHasNoDuplicateLetters(t *testing.T) {
	seen := map[rune]int{}
	for _, r := range callsignAlphabet {
		if r == '#' {
			continue
		}
		seen[r]++
	}
	for r, count := range seen {
		assert.Equal(t, 1, count, "character %q should appear exactly once outside of padding", r)
	}
}
