package modes

// parseID13 permutes a 13-bit identity/Gillham field into the standard
// C1 A1 C2 A2 C4 A4 X B1 D1 B2 D2 B4 D4 Gillham layout. The bit-to-bit
// mapping below is the wire contract from spec.md §4.3 ("parse_id13") and
// must be reproduced exactly.
func parseID13(field uint32) uint32 {
	var gillham uint32

	if field&0x1000 != 0 {
		gillham |= 0x0010 // Bit 12 = C1
	}
	if field&0x0800 != 0 {
		gillham |= 0x1000 // Bit 11 = A1
	}
	if field&0x0400 != 0 {
		gillham |= 0x0020 // Bit 10 = C2
	}
	if field&0x0200 != 0 {
		gillham |= 0x2000 // Bit 9 = A2
	}
	if field&0x0100 != 0 {
		gillham |= 0x0040 // Bit 8 = C4
	}
	if field&0x0080 != 0 {
		gillham |= 0x4000 // Bit 7 = A4
	}
	if field&0x0020 != 0 {
		gillham |= 0x0100 // Bit 5 = B1
	}
	if field&0x0010 != 0 {
		gillham |= 0x0001 // Bit 4 = D1 or Q
	}
	if field&0x0008 != 0 {
		gillham |= 0x0200 // Bit 3 = B2
	}
	if field&0x0004 != 0 {
		gillham |= 0x0002 // Bit 2 = D2
	}
	if field&0x0002 != 0 {
		gillham |= 0x0400 // Bit 1 = B4
	}
	if field&0x0001 != 0 {
		gillham |= 0x0004 // Bit 0 = D4
	}

	return gillham
}

// modeAToModeC converts a Gillham-coded Mode A value to a Mode C
// altitude in 100-ft units, per spec.md §4.3. Returns -9999 for any
// combination the standard forbids: D1 set, D2 set above 62,700ft, or
// C1/C2/C4 all zero.
func modeAToModeC(modeA uint32) int {
	var fiveHundreds, oneHundreds uint32

	if (modeA&0xFFFF888B) != 0 || (modeA&0x000000F0) == 0 {
		return -9999
	}

	if modeA&0x0010 != 0 {
		oneHundreds ^= 0x007 // C1
	}
	if modeA&0x0020 != 0 {
		oneHundreds ^= 0x003 // C2
	}
	if modeA&0x0040 != 0 {
		oneHundreds ^= 0x001 // C4
	}

	// 7 and 5 are reflections of each other in this Gray code; fold them.
	if oneHundreds&5 == 5 {
		oneHundreds ^= 2
	}
	if oneHundreds > 5 {
		return -9999
	}

	if modeA&0x0002 != 0 {
		fiveHundreds ^= 0x0FF // D2
	}
	if modeA&0x0004 != 0 {
		fiveHundreds ^= 0x07F // D4
	}
	if modeA&0x1000 != 0 {
		fiveHundreds ^= 0x03F // A1
	}
	if modeA&0x2000 != 0 {
		fiveHundreds ^= 0x01F // A2
	}
	if modeA&0x4000 != 0 {
		fiveHundreds ^= 0x00F // A4
	}
	if modeA&0x0100 != 0 {
		fiveHundreds ^= 0x007 // B1
	}
	if modeA&0x0200 != 0 {
		fiveHundreds ^= 0x003 // B2
	}
	if modeA&0x0400 != 0 {
		fiveHundreds ^= 0x001 // B4
	}

	if fiveHundreds&1 != 0 {
		oneHundreds = 6 - oneHundreds
	}

	return int(fiveHundreds)*5 + int(oneHundreds) - 13
}

// parseAC13 decodes a 13-bit AC altitude field (DF0, DF4, DF16, DF20),
// returning feet. Metric (M=1) altitude reporting is not decoded; it
// returns 0.
func parseAC13(field uint32) int {
	mBit := field & 0x0040
	qBit := field & 0x0010

	if mBit != 0 {
		return 0 // metric altitude: unsupported
	}

	if qBit != 0 {
		n := ((field & 0x1F80) >> 2) | ((field & 0x0020) >> 1) | (field & 0x000F)
		return int(n)*25 - 1000
	}

	n := modeAToModeC(parseID13(field))
	if n < -12 {
		return 0
	}
	return 100 * n
}

// parseAC12 decodes a 12-bit AC altitude field (DF17/18 airborne
// position), returning feet. When Q=0 the 12-bit field is re-expanded
// into the 13-bit Gillham layout parseID13 expects by reinserting M=0 at
// bit 6, per spec.md §4.3 and the Open Question in spec.md §9 about that
// reconstruction: `((field & 0x0FC0) << 1) | (field & 0x003F)` shifts
// everything above bit 5 up by one to make room for the M bit.
func parseAC12(field uint32) int {
	qBit := field & 0x10

	if qBit != 0 {
		n := ((field & 0x0FE0) >> 1) | (field & 0x000F)
		return int(n)*25 - 1000
	}

	n := ((field & 0x0FC0) << 1) | (field & 0x003F)
	alt := modeAToModeC(parseID13(n))
	if alt < -12 {
		return 0
	}
	return 100 * alt
}
