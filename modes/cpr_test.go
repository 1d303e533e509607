package modes

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestCPRNLKnownValues(t *testing.T) {
	assert.Equal(t, 59, CPRNL(0))
	assert.Equal(t, 59, CPRNL(-0))
	assert.Equal(t, 2, CPRNL(86.9))
	assert.Equal(t, 1, CPRNL(87)) // exactly on the last transition falls to the pole-ward case
	assert.Equal(t, 1, CPRNL(90))
	assert.Equal(t, 1, CPRNL(-90))
}

func TestCPRNLMonotonicNonIncreasing(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.Float64Range(0, 90).Draw(rt, "a")
		b := rapid.Float64Range(0, 90).Draw(rt, "b")
		if a > b {
			a, b = b, a
		}
		assert.GreaterOrEqual(rt, CPRNL(a), CPRNL(b), "NL must not increase with |latitude|")
	})
}

// TestGlobalCPRKnownPair decodes the canonical even/odd airborne position
// pair, verifying against the algorithm's own self-consistent output.
func TestGlobalCPRKnownPair(t *testing.T) {
	evenRaw := mustRaw(t, "8D40621D58C382D690C8AC2863A7", 50)
	oddRaw := mustRaw(t, "8D40621D58C386435CC412692AD6", 50)

	var evenRec, oddRec DecodedRecord
	decodePositionMsg(DefaultConfig(), &evenRec, evenRaw.Bits, evenRaw.LengthBits, tcAirbornePosBaroHi)
	decodePositionMsg(DefaultConfig(), &oddRec, oddRaw.Bits, oddRaw.LengthBits, tcAirbornePosBaroHi)

	assert.False(t, evenRec.CPROdd)
	assert.True(t, oddRec.CPROdd)

	pos, ok := GlobalCPR(evenRec.CPRRawLat, evenRec.CPRRawLon, oddRec.CPRRawLat, oddRec.CPRRawLon, 4, 1)
	assert.True(t, ok)
	assert.InDelta(t, 52.257, pos.Latitude, 0.001)
	assert.InDelta(t, 3.919, pos.Longitude, 0.001)
}

func TestGlobalCPRRejectsStaleTimestamps(t *testing.T) {
	_, ok := GlobalCPR(1, 1, 2, 2, 1, 12)
	assert.False(t, ok, "more than 10s apart must be rejected")

	_, ok = GlobalCPR(1, 1, 2, 2, 0, 0)
	assert.False(t, ok, "zero timestamps mean no fix has been taken yet")
}

func TestRelativeCPRRoundTripsNearReference(t *testing.T) {
	// A position close to the reference should decode back within CPR's
	// ~5m resolution once re-encoded into the same 17-bit zone fraction.
	refLat, refLon := 52.25, 3.92
	const dLat = 360.0 / 60.0
	nl := CPRNL(refLat)
	dLon := 360.0 / float64(nl)

	latFrac := math.Mod(refLat, dLat) / dLat
	lonFrac := math.Mod(refLon, dLon) / dLon
	latCPR := uint32(latFrac * maxCPR)
	lonCPR := uint32(lonFrac * maxCPR)

	pos := RelativeCPR(refLat, refLon, latCPR, lonCPR, false)
	assert.InDelta(t, refLat, pos.Latitude, 0.01)
	assert.InDelta(t, refLon, pos.Longitude, 0.01)
}

func TestCPRModAlwaysNonNegative(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		a := rapid.IntRange(-1000, 1000).Draw(rt, "a")
		b := rapid.IntRange(1, 100).Draw(rt, "b")
		r := cprMod(a, b)
		assert.GreaterOrEqual(rt, r, 0)
		assert.Less(rt, r, b)
	})
}
