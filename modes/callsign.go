package modes

// callsignAlphabet is the ICAO 6-bit character alphabet used to pack an
// 8-character callsign into 48 bits, per spec.md §4.3.
const callsignAlphabet = "#ABCDEFGHIJKLMNOPQRSTUVWXYZ#####_###############0123456789######"

// decodeCallsign extracts the 48-bit callsign payload starting at byte 5
// of a long message, treats it as 8 groups of 6 bits MSB-first, and
// strips the alphabet's padding characters ('_' and '#').
func decodeCallsign(msg uint64, lengthBits int) string {
	b5 := byteAt(msg, lengthBits, 5)
	b6 := byteAt(msg, lengthBits, 6)
	b7 := byteAt(msg, lengthBits, 7)
	b8 := byteAt(msg, lengthBits, 8)
	b9 := byteAt(msg, lengthBits, 9)
	b10 := byteAt(msg, lengthBits, 10)

	chars := [8]byte{
		b5 >> 2,
		(b5&0x03)<<4 | b6>>4,
		(b6&0x0F)<<2 | b7>>6,
		b7 & 0x3F,
		b8 >> 2,
		(b8&0x03)<<4 | b9>>4,
		(b9&0x0F)<<2 | b10>>6,
		b10 & 0x3F,
	}

	out := make([]byte, 0, 8)
	for _, c := range chars {
		ch := callsignAlphabet[c]
		if ch == '_' || ch == '#' {
			continue
		}
		out = append(out, ch)
	}
	return string(out)
}
