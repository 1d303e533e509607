package modes

import "fmt"

// Downlink Formats dispatched by Decode, per spec.md §4.5.
const (
	dfShortAirSurveillance  = 0
	dfSurveillanceAltitude  = 4
	dfSurveillanceIdentity  = 5
	dfAllCallReply          = 11
	dfLongAirSurveillance   = 16
	dfADSB                  = 17
	dfExtendedSquitterOther = 18
	dfCommBAltitude         = 20
	dfCommBIdentity         = 21
)

// DF17/18 Type Codes, per spec.md §4.5.
const (
	tcIdentCatStart       = 1
	tcIdentCatEnd         = 4
	tcSurfacePosStart     = 5
	tcSurfacePosEnd       = 8
	tcAirbornePosBaroHi   = 18
	tcAirborneVelocity    = 19
	tcAirbornePosGNSSLo   = 20
	tcAirbornePosGNSSHi   = 22
	tcReservedTest        = 23
	tcAircraftStatus      = 28
	tcTargetStateStatus   = 29
)

// squawkString formats a decoded Gillham/identity value as 4 zero-padded
// uppercase hex digits, per spec.md §9: `{:=04X}`.
func squawkString(v uint32) string {
	return fmt.Sprintf("%04X", v)
}

// Decode is the pure entry point described in spec.md §6: given a config,
// a statistics sink, an ICAO-known oracle (for XOR-address recovery), and
// a raw message, it returns the fields this single message taught us.
// Only the invalid-length case (spec.md §7.1) is returned as an error;
// every other rejection is represented by the absence of fields in the
// returned record.
func Decode(cfg Config, sink StatsSink, known ICAOKnown, raw RawMessage) (DecodedRecord, error) {
	if raw.LengthBits != ShortMsgBits && raw.LengthBits != LongMsgBits {
		return DecodedRecord{}, &DecodeError{LengthBits: raw.LengthBits}
	}

	rec := DecodedRecord{
		SignalStrength: raw.SignalStrength,
	}

	df := int(byteAt(raw.Bits, raw.LengthBits, 0) >> 3)
	rec.DownlinkFormat = df

	if cfg.CheckCRC {
		rec.CRCSum = crc(raw.Bits, raw.LengthBits)
		rec.CRCOK = rec.CRCSum^parityField(raw.Bits, raw.LengthBits) == 0
		if rec.CRCOK {
			sink.Inc("valid_crc")
		} else {
			sink.Inc("not_valid_crc")
		}
	} else {
		rec.CRCOK = true
	}

	msg := raw.Bits
	if cfg.CheckCRC && xorAddressFormat(df) {
		// For these formats the direct CRC⊕parity check above is
		// meaningless: parity carries ICAO24⊕CRC, not CRC alone. The
		// only real validity test is whether that XOR recovers a
		// known address, so it overrides the direct result either way.
		if addr, ok := recoverXORedAddress(msg, raw.LengthBits, known); ok {
			if !rec.CRCOK {
				sink.Inc("valid_crc")
			}
			rec.CRCOK = true
			rec.HasICAO24 = true
			rec.ICAO24 = addr
		} else {
			if rec.CRCOK {
				sink.Inc("not_valid_crc")
			}
			rec.CRCOK = false
		}
	} else if !rec.CRCOK && cfg.ApplyBitErrorCorrection && df != dfAllCallReply {
		// Single-bit correction is never applied to DF11: a false
		// positive there creates a phantom aircraft address, which is
		// worse than dropping the message.
		if corrected, _, ok := correctSingleBitError(msg, raw.LengthBits); ok {
			msg = corrected
			rec.CRCOK = true
			rec.BitCorrected = true
			rec.CRCSum = crc(msg, raw.LengthBits)
			sink.Inc("valid_crc")
		}
	}

	incDFCounter(sink, df)
	sink.Inc("df_total")

	if !rec.CRCOK {
		return rec, nil
	}

	if !rec.HasICAO24 && (df == dfAllCallReply || df == dfADSB || df == dfExtendedSquitterOther) {
		rec.HasICAO24 = true
		rec.ICAO24 = icao24From(msg, raw.LengthBits)
		sink.AddMember("icao24", fmt.Sprintf("%06X", rec.ICAO24))
	}

	rec.Capability = int(byteAt(msg, raw.LengthBits, 0) & 0x07)
	rec.TypeCode = int(byteAt(msg, raw.LengthBits, 4) >> 3)
	rec.EmitterCategory = int(byteAt(msg, raw.LengthBits, 4) & 0x07)

	switch df {
	case dfShortAirSurveillance:
		decodeAltitudeMsg(cfg, &rec, msg, raw.LengthBits)
	case dfSurveillanceAltitude:
		decodeAltitudeMsg(cfg, &rec, msg, raw.LengthBits)
		decodeFlightStatusMsg(&rec, msg, raw.LengthBits)
	case dfSurveillanceIdentity:
		decodeIdentityMsg(&rec, msg, raw.LengthBits)
		decodeFlightStatusMsg(&rec, msg, raw.LengthBits)
	case dfAllCallReply:
		// nothing further to decode; ICAO24 only.
	case dfLongAirSurveillance:
		decodeAltitudeMsg(cfg, &rec, msg, raw.LengthBits)
	case dfADSB:
		decodeExtendedSquitter(cfg, sink, &rec, msg, raw.LengthBits)
	case dfExtendedSquitterOther:
		if rec.Capability == 0 || rec.Capability == 1 || rec.Capability == 6 {
			decodeExtendedSquitter(cfg, sink, &rec, msg, raw.LengthBits)
		}
	case dfCommBAltitude:
		decodeCommBCallsign(sink, &rec, msg, raw.LengthBits)
		decodeAltitudeMsg(cfg, &rec, msg, raw.LengthBits)
		decodeFlightStatusMsg(&rec, msg, raw.LengthBits)
	case dfCommBIdentity:
		decodeCommBCallsign(sink, &rec, msg, raw.LengthBits)
		decodeCommBIdentityMsg(&rec, msg, raw.LengthBits)
		decodeFlightStatusMsg(&rec, msg, raw.LengthBits)
	}

	return rec, nil
}

// IsDispatchedDF reports whether Decode has a handler for this downlink
// format. Decode itself only counts unknown formats; it does not log them.
func IsDispatchedDF(df int) bool {
	switch df {
	case dfShortAirSurveillance, dfSurveillanceAltitude, dfSurveillanceIdentity,
		dfAllCallReply, dfLongAirSurveillance, dfADSB, dfExtendedSquitterOther,
		dfCommBAltitude, dfCommBIdentity:
		return true
	default:
		return false
	}
}

func icao24From(msg uint64, lengthBits int) uint32 {
	return uint32(byteAt(msg, lengthBits, 1))<<16 |
		uint32(byteAt(msg, lengthBits, 2))<<8 |
		uint32(byteAt(msg, lengthBits, 3))
}

func incDFCounter(sink StatsSink, df int) {
	if df < 0 || df > 31 {
		return
	}
	sink.Inc(fmt.Sprintf("df_%d", df))
}

func decodeAltitudeMsg(cfg Config, rec *DecodedRecord, msg uint64, lengthBits int) {
	ac13 := (uint32(byteAt(msg, lengthBits, 2))<<8 | uint32(byteAt(msg, lengthBits, 3))) & 0x1FFF
	if ac13 == 0 {
		return
	}
	alt := parseAC13(ac13)
	rec.HasAltitude = true
	if cfg.UseMetric {
		rec.Altitude = feetToMeters(alt)
	} else {
		rec.Altitude = alt
	}
}

func decodeIdentityField(msg uint64, lengthBits int) uint32 {
	return (uint32(byteAt(msg, lengthBits, 2))<<8 | uint32(byteAt(msg, lengthBits, 3))) & 0x1FFF
}

func decodeIdentityMsg(rec *DecodedRecord, msg uint64, lengthBits int) {
	id13 := decodeIdentityField(msg, lengthBits)
	if id13 == 0 {
		return
	}
	rec.HasSquawk = true
	rec.Squawk = squawkString(parseID13(id13))
}

func decodeCommBIdentityMsg(rec *DecodedRecord, msg uint64, lengthBits int) {
	decodeIdentityMsg(rec, msg, lengthBits)
}

func decodeFlightStatusMsg(rec *DecodedRecord, msg uint64, lengthBits int) {
	rec.HasFlightStatus = true
	rec.FlightStatus = int(byteAt(msg, lengthBits, 0) & 0x07)
}

func decodeCommBCallsign(sink StatsSink, rec *DecodedRecord, msg uint64, lengthBits int) {
	if byteAt(msg, lengthBits, 4) != 0x20 { // BDS 2,0
		return
	}
	cs := decodeCallsign(msg, lengthBits)
	rec.HasCallSign = true
	rec.CallSign = cs
	sink.AddMember("callsign", cs)
}

// decodeExtendedSquitter implements decode_ADSB_msg: branch on the 5-bit
// type code (and, for TC29, a 2-bit sub-type at a different offset), per
// spec.md §4.5.
func decodeExtendedSquitter(cfg Config, sink StatsSink, rec *DecodedRecord, msg uint64, lengthBits int) {
	tc := rec.TypeCode
	b4 := byteAt(msg, lengthBits, 4)

	var subType int
	if tc == tcTargetStateStatus {
		subType = int(b4&0x06) >> 1
	} else {
		subType = int(b4 & 0x07)
	}

	if tc >= tcIdentCatStart && tc <= tcIdentCatEnd {
		cs := decodeCallsign(msg, lengthBits)
		rec.HasCallSign = true
		rec.CallSign = cs
		sink.AddMember("callsign", cs)
	}

	if tc == tcAirborneVelocity {
		decodeVelocityMsg(cfg, rec, msg, lengthBits, subType)
	}

	if tc >= tcSurfacePosStart && tc <= tcAirbornePosGNSSHi {
		decodePositionMsg(cfg, rec, msg, lengthBits, tc)
	}

	if tc == tcReservedTest && subType == 7 {
		field := ((uint32(byteAt(msg, lengthBits, 5))<<8 | uint32(byteAt(msg, lengthBits, 6))) & 0xFFF1) >> 3
		if field != 0 {
			rec.HasSquawk = true
			rec.Squawk = squawkString(parseID13(field))
		}
	}

	if tc == tcAircraftStatus && subType == 1 {
		field := (uint32(byteAt(msg, lengthBits, 5))<<8 | uint32(byteAt(msg, lengthBits, 6))) & 0x1FFF
		if field != 0 {
			rec.HasSquawk = true
			rec.Squawk = squawkString(parseID13(field))
		}
	}
}

func decodeVelocityMsg(cfg Config, rec *DecodedRecord, msg uint64, lengthBits int, subType int) {
	if subType >= 1 && subType <= 4 {
		rec.HasVerticalRate = true
		rate := decodeVerticalRate(msg, lengthBits)
		if cfg.UseMetric {
			rate = feetToMeters(rate)
		}
		rec.VerticalRate = rate
	}

	switch {
	case subType == 1 || subType == 2:
		v := decodeAirborneVelocitySubsonic(msg, lengthBits, subType == 2)
		rec.EWVelocity = v.EWVelocity
		rec.NSVelocity = v.NSVelocity
		if v.BothPresent {
			rec.HasVelocity = true
			speed := v.Speed
			if cfg.UseMetric {
				speed = knotsToKPH(speed)
			}
			rec.Velocity = speed
		}
		if v.Speed != 0 {
			rec.HasHeading = true
			rec.Heading = v.Heading
		}
	case subType == 3 || subType == 4:
		airspeed, hasHeading, heading := decodeAirspeedHeading(msg, lengthBits, subType == 4)
		if airspeed != 0 {
			rec.HasVelocity = true
			if cfg.UseMetric {
				airspeed = knotsToKPH(airspeed)
			}
			rec.Velocity = airspeed
		}
		if hasHeading {
			rec.HasHeading = true
			rec.Heading = heading
		}
	}
}

func decodePositionMsg(cfg Config, rec *DecodedRecord, msg uint64, lengthBits int, tc int) {
	isAirborne := (tc >= 9 && tc <= tcAirbornePosBaroHi) || (tc >= tcAirbornePosGNSSLo && tc <= tcAirbornePosGNSSHi)
	isSurface := tc >= tcSurfacePosStart && tc <= tcSurfacePosEnd

	if isAirborne {
		ac12 := (uint32(byteAt(msg, lengthBits, 5))<<4 | uint32(byteAt(msg, lengthBits, 6))>>4) & 0x0FFF
		if ac12 != 0 {
			alt := parseAC12(ac12)
			rec.HasAltitude = true
			if cfg.UseMetric {
				rec.Altitude = feetToMeters(alt)
			} else {
				rec.Altitude = alt
			}
		}
		rec.HasOnGround = true
		rec.OnGround = false
	} else if isSurface {
		movement := (int(byteAt(msg, lengthBits, 4))<<4 | int(byteAt(msg, lengthBits, 5))>>4) & 0x007F
		if movement > 0 && movement < 125 {
			speed := parseMovement(movement)
			rec.HasVelocity = true
			if cfg.UseMetric {
				rec.Velocity = knotsToKPH(speed)
			} else {
				rec.Velocity = speed
			}
		}
		if byteAt(msg, lengthBits, 5)&0x08 != 0 {
			rec.HasHeading = true
			rec.Heading = decodeHeadingOnGround(msg, lengthBits)
		}
		rec.HasOnGround = true
		rec.OnGround = true
	}

	if isAirborne {
		odd := byteAt(msg, lengthBits, 6)&0x04 != 0
		lat := (uint32(byteAt(msg, lengthBits, 6)&0x03)<<15 | uint32(byteAt(msg, lengthBits, 7))<<7 | uint32(byteAt(msg, lengthBits, 8))>>1)
		lon := (uint32(byteAt(msg, lengthBits, 8)&0x01)<<16 | uint32(byteAt(msg, lengthBits, 9))<<8 | uint32(byteAt(msg, lengthBits, 10)))

		rec.HasCPR = true
		rec.CPROdd = odd
		rec.CPRRawLat = lat
		rec.CPRRawLon = lon
	}
}
