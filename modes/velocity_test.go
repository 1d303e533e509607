package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseMovementTable(t *testing.T) {
	cases := []struct {
		movement int
		knots    int
	}{
		{0, 0},
		{1, 0},
		{8, 0},
		{9, 1},      // (9-6)>>2 + 1
		{12, 2},     // (12-6)>>2 + 1
		{13, 3},     // (13-11)>>1 + 2
		{38, 15},    // (38-11)>>1 + 2
		{39, 16},    // (39-38) + 15
		{93, 70},    // (93-38) + 15
		{94, 72},    // (94-93)*2 + 70
		{108, 100},  // (108-93)*2 + 70
		{109, 105},  // (109-108)*5 + 100
		{123, 175},  // (123-108)*5 + 100
		{124, 199},
		{127, 199},
	}
	for _, c := range cases {
		assert.Equal(t, c.knots, parseMovement(c.movement), "movement=%d", c.movement)
	}
}

func TestParseMovementMonotonic(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(1, 123).Draw(rt, "a")
		b := rapid.IntRange(1, 123).Draw(rt, "b")
		if a > b {
			a, b = b, a
		}
		assert.LessOrEqual(rt, parseMovement(a), parseMovement(b))
	})
}

func TestDecodeVerticalRateSign(t *testing.T) {
	raw := mustRaw(t, "8D485020994409940838175B284F", 50)
	assert.Equal(t, -832, decodeVerticalRate(raw.Bits, raw.LengthBits))
}

func TestDecodeAirborneVelocitySubsonic(t *testing.T) {
	raw := mustRaw(t, "8D485020994409940838175B284F", 50)
	v := decodeAirborneVelocitySubsonic(raw.Bits, raw.LengthBits, false)
	assert.True(t, v.BothPresent)
	assert.Equal(t, -8, v.EWVelocity)
	assert.Equal(t, -159, v.NSVelocity)
	assert.Equal(t, 159, v.Speed)
	assert.Equal(t, 183, v.Heading)
}

func TestDecodeAirborneVelocityBothPresentEvenWhenStationary(t *testing.T) {
	// ewRaw and nsRaw both equal 1 decode to ew=0,ns=0: the aircraft is
	// reporting zero ground speed, not "no velocity data".
	var msg uint64
	msg = setByte(msg, 5, 0x00)
	msg = setByte(msg, 6, 0x01) // ewRaw = 1
	msg = setByte(msg, 7, 0x00)
	msg = setByte(msg, 8, 0x20) // nsRaw = (0&0x7F)<<3 | (0x20>>5) = 1

	v := decodeAirborneVelocitySubsonic(msg, LongMsgBits, false)
	assert.True(t, v.BothPresent)
	assert.Equal(t, 0, v.EWVelocity)
	assert.Equal(t, 0, v.NSVelocity)
	assert.Equal(t, 0, v.Speed)
}

func setByte(msg uint64, n int, b byte) uint64 {
	shift := uint(LongMsgBits - (n+1)*8)
	mask := uint64(0xFF) << shift
	return (msg &^ mask) | (uint64(b) << shift)
}
