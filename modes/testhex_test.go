package modes

import (
	"encoding/hex"
	"strings"
	"testing"
)

// mustRaw builds a RawMessage from a hex string (e.g. the 14-byte frames
// from spec.md §8's concrete scenarios), inferring short vs long from the
// DF nibble per LengthForDF.
func mustRaw(t *testing.T, hexStr string, signal int) RawMessage {
	t.Helper()
	hexStr = strings.TrimSpace(hexStr)
	b, err := hex.DecodeString(hexStr)
	if err != nil {
		t.Fatalf("bad hex %q: %v", hexStr, err)
	}

	var bits uint64
	for _, by := range b {
		bits = bits<<8 | uint64(by)
	}

	df := int(b[0] >> 3)
	lengthBits := LengthForDF(df)
	totalBits := len(b) * 8
	if totalBits > lengthBits {
		// trim any trailing bytes the frame carries beyond its DF's length
		bits >>= uint(totalBits - lengthBits)
	}

	return RawMessage{SignalStrength: signal, Bits: bits, LengthBits: lengthBits}
}
