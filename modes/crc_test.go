package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pgregory.net/rapid"
)

// validFrames are real, CRC-clean DF17 captures used as seeds across the
// CRC/correction tests below.
var validFrames = []struct {
	name string
	hex  string
}{
	{"ident", "8D4840D6202CC371C32CE0576098"},
	{"posEven", "8D40621D58C382D690C8AC2863A7"},
	{"posOdd", "8D40621D58C386435CC412692AD6"},
	{"velocity", "8D485020994409940838175B284F"},
}

func TestCRCValidatesCleanFrames(t *testing.T) {
	for _, f := range validFrames {
		t.Run(f.name, func(t *testing.T) {
			raw := mustRaw(t, f.hex, 50)
			sum := crc(raw.Bits, raw.LengthBits)
			assert.Equal(t, sum, parityField(raw.Bits, raw.LengthBits), "crc should equal transmitted parity")
		})
	}
}

func TestCorrectSingleBitErrorRecoversEveryBit(t *testing.T) {
	raw := mustRaw(t, "8D4840D6202CC371C32CE0576098", 50)
	for bit := 0; bit < raw.LengthBits; bit++ {
		flipped := flipBit(raw.Bits, raw.LengthBits, bit)
		corrected, _, ok := correctSingleBitError(flipped, raw.LengthBits)
		require.True(t, ok, "bit %d: expected correction to succeed", bit)
		assert.Equal(t, raw.Bits, corrected, "bit %d: correction should restore the original message", bit)
	}
}

func TestFlipBitIsSelfInverse(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		lengthBits := rapid.SampledFrom([]int{ShortMsgBits, LongMsgBits}).Draw(rt, "lengthBits")
		bit := rapid.IntRange(0, lengthBits-1).Draw(rt, "bit")
		msg := rapid.Uint64Range(0, uint64(1)<<uint(lengthBits)-1).Draw(rt, "msg")

		once := flipBit(msg, lengthBits, bit)
		twice := flipBit(once, lengthBits, bit)
		assert.Equal(rt, msg, twice)
	})
}

func TestXorAddressFormat(t *testing.T) {
	for _, df := range []int{0, 4, 5, 16, 20, 21, 24} {
		assert.True(t, xorAddressFormat(df), "df %d", df)
	}
	for _, df := range []int{1, 11, 17, 18, 19, 22, 23} {
		assert.False(t, xorAddressFormat(df), "df %d", df)
	}
}

func TestRecoverXORedAddress(t *testing.T) {
	raw := mustRaw(t, "20000F9D4F6B85", 50) // DF4, address XOR-folded into parity
	sum := crc(raw.Bits, raw.LengthBits)
	addr := parityField(raw.Bits, raw.LengthBits) ^ sum

	known := fakeKnown{addr: addr}
	got, ok := recoverXORedAddress(raw.Bits, raw.LengthBits, known)
	require.True(t, ok)
	assert.Equal(t, addr, got)

	unknown := fakeKnown{addr: addr + 1}
	_, ok = recoverXORedAddress(raw.Bits, raw.LengthBits, unknown)
	assert.False(t, ok)
}

type fakeKnown struct{ addr uint32 }

func (f fakeKnown) Seen(addr uint32) bool { return addr == f.addr }
