package modes

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"pgregory.net/rapid"
)

func TestParseID13Mapping(t *testing.T) {
	// Bit 12 (C1) must land on Gillham bit 0x0010.
	assert.Equal(t, uint32(0x0010), parseID13(0x1000))
	// Bit 11 (A1) must land on Gillham bit 0x1000.
	assert.Equal(t, uint32(0x1000), parseID13(0x0800))
	assert.Equal(t, uint32(0), parseID13(0))
}

func TestModeAToModeCRejectsInvalidCombinations(t *testing.T) {
	assert.Equal(t, -9999, modeAToModeC(0x0011)) // D1 set (with C1, so only D1 is at fault)
	assert.Equal(t, -9999, modeAToModeC(0))      // C1/C2/C4 all zero
}

func TestParseAC13QPath(t *testing.T) {
	raw := mustRaw(t, "20000F9D4F6B85", 50)
	field := (uint32(byteAt(raw.Bits, raw.LengthBits, 2))<<8 | uint32(byteAt(raw.Bits, raw.LengthBits, 3))) & 0x1FFF
	assert.NotZero(t, field&0x0010, "expected the Q-bit path")
	assert.Equal(t, 24125, parseAC13(field))
}

func TestParseAC13MultipleOf25Or100(t *testing.T) {
	rapid.Check(t, func(rt *rapid.T) {
		field := uint32(rapid.IntRange(0, 0x1FFF).Draw(rt, "field"))
		alt := parseAC13(field)
		if field&0x0040 != 0 { // metric
			assert.Equal(rt, 0, alt)
			return
		}
		if field&0x0010 != 0 { // Q=1, 25ft steps
			assert.Equal(rt, 0, (alt+1000)%25)
		} else if alt != 0 { // Gillham, 100ft steps
			assert.Equal(rt, 0, alt%100)
		}
	})
}

func TestParseAC12QPath(t *testing.T) {
	raw := mustRaw(t, "8D40621D58C382D690C8AC2863A7", 50)
	field := (uint32(byteAt(raw.Bits, raw.LengthBits, 5))<<4 | uint32(byteAt(raw.Bits, raw.LengthBits, 6))>>4) & 0x0FFF
	assert.NotZero(t, field&0x10, "expected the Q-bit path")
	assert.Equal(t, 38000, parseAC12(field))
}

func TestParseAC12GillhamPath(t *testing.T) {
	// Q=0 path: the 12-bit field is expanded to 13 bits with M=0 spliced
	// in at bit 6 before parseID13/modeAToModeC run on it.
	field := uint32(0x0080)
	assert.Zero(t, field&0x10)
	assert.Equal(t, -1200, parseAC12(field))
}
