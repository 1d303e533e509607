package modes

import "math"

const maxCPR = 131072.0 // 2^17, CPR lat/lon are encoded as 17-bit fractions of a zone

// nlTable holds the 58 precomputed transition latitudes of the CPR NL
// function (ICAO Annex 10 / DO-260 table), in ascending order. Entry i
// is the latitude below which NL is 59-i; latitudes at or above the
// last entry (87.0, the pole-ward limit) give NL=1.
var nlTable = [...]float64{
	10.47047130, 14.82817437, 18.18626357, 21.02939493, 23.54504487,
	25.82924707, 27.93898710, 29.91135686, 31.77209708, 33.53993436,
	35.22899598, 36.85025108, 38.41241892, 39.92256684, 41.38651832,
	42.80914012, 44.19454951, 45.54626723, 46.86733252, 48.16039128,
	49.42776439, 50.67150166, 51.89342469, 53.09516153, 54.27817472,
	55.44378444, 56.59318756, 57.72747354, 58.84763776, 59.95459277,
	61.04917774, 62.13216659, 63.20427479, 64.26616523, 65.31845310,
	66.36171008, 67.39646774, 68.42322022, 69.44242631, 70.45451075,
	71.45986473, 72.45884545, 73.45177442, 74.43893416, 75.42056257,
	76.39684391, 77.36789461, 78.33374083, 79.29428225, 80.24923213,
	81.19801349, 82.13956981, 83.07199445, 83.99173563, 84.89166191,
	85.75541621, 86.53536998, 87.00000000,
}

// CPRNL is the "Number of Longitude zones" function from spec.md §4.4: a
// fixed, monotonically non-increasing step function of absolute latitude,
// returning a value from 1 (near the poles) to 59 (at the equator).
func CPRNL(lat float64) int {
	lat = math.Abs(lat)
	for i, transition := range nlTable {
		if lat < transition {
			return len(nlTable) + 1 - i
		}
	}
	return 1
}

func cprMod(a, b int) int {
	r := a % b
	if r < 0 {
		r += b
	}
	return r
}

// CPRPosition is a decoded latitude/longitude, rounded to 3 decimal
// places per spec.md §3.
type CPRPosition struct {
	Latitude  float64
	Longitude float64
}

// GlobalCPR implements spec.md §4.4's globally unambiguous decode: given
// a matched even/odd pair of 17-bit raw CPR coordinates and their
// timestamps (seconds, monotonic), it returns the decoded position, or
// ok=false if the pair can't be resolved (missing timestamps, more than
// 10s apart, or the aircraft crossed a latitude zone boundary).
func GlobalCPR(evenRawLat, evenRawLon, oddRawLat, oddRawLon uint32, evenTime, oddTime float64) (pos CPRPosition, ok bool) {
	if evenTime == 0 || oddTime == 0 {
		return CPRPosition{}, false
	}
	if math.Abs(oddTime-evenTime) > 10.0 {
		return CPRPosition{}, false
	}

	latEvenCPR := float64(evenRawLat) / maxCPR
	lonEvenCPR := float64(evenRawLon) / maxCPR
	latOddCPR := float64(oddRawLat) / maxCPR
	lonOddCPR := float64(oddRawLon) / maxCPR

	j := int(math.Floor(59*latEvenCPR - 60*latOddCPR + 0.5))

	latEven := (360.0 / 60.0) * (float64(cprMod(j, 60)) + latEvenCPR)
	latOdd := (360.0 / 59.0) * (float64(cprMod(j, 59)) + latOddCPR)

	if latEven >= 270 {
		latEven -= 360
	}
	if latOdd >= 270 {
		latOdd -= 360
	}

	if CPRNL(latEven) != CPRNL(latOdd) {
		return CPRPosition{}, false // crossed a latitude zone boundary
	}

	newerIsEven := evenTime >= oddTime
	var lat float64
	var ni int
	var dlon float64
	var m int
	var lonNewerCPR float64

	if newerIsEven {
		lat = latEven
		nl := CPRNL(latEven)
		ni = maxInt(nl, 1)
		dlon = 360.0 / float64(ni)
		m = int(math.Floor(lonEvenCPR*float64(nl-1) - lonOddCPR*float64(nl) + 0.5))
		lonNewerCPR = lonEvenCPR
	} else {
		lat = latOdd
		nl := CPRNL(latOdd)
		ni = maxInt(nl-1, 1)
		dlon = 360.0 / float64(ni)
		m = int(math.Floor(lonEvenCPR*float64(nl-1) - lonOddCPR*float64(nl) + 0.5))
		lonNewerCPR = lonOddCPR
	}

	lon := dlon * (float64(cprMod(m, ni)) + lonNewerCPR)
	if lon >= 180 {
		lon -= 360
	}

	return CPRPosition{
		Latitude:  round3(lat),
		Longitude: round3(lon),
	}, true
}

// RelativeCPR implements spec.md §4.4's locally-relative decode: decode a
// single CPR-encoded coordinate against a previously known reference
// position. isOdd selects the 59-zone (odd) vs 60-zone (even) latitude
// step.
func RelativeCPR(refLat, refLon float64, rawLat, rawLon uint32, isOdd bool) CPRPosition {
	latCPR := float64(rawLat) / maxCPR
	lonCPR := float64(rawLon) / maxCPR

	dLat := 360.0 / 60.0
	if isOdd {
		dLat = 360.0 / 59.0
	}

	j := math.Floor(refLat/dLat) + math.Floor(math.Mod(refLat, dLat)/dLat-latCPR+0.5)
	lat := dLat * (j + latCPR)

	nl := CPRNL(lat)
	dLon := 360.0
	if nl != 0 {
		dLon = 360.0 / float64(nl)
	}

	m := math.Floor(refLon/dLon) + math.Floor(math.Mod(refLon, dLon)/dLon-lonCPR+0.5)
	lon := dLon * (m + lonCPR)

	return CPRPosition{Latitude: round3(lat), Longitude: round3(lon)}
}

func round3(v float64) float64 {
	return math.Round(v*1000) / 1000
}

func maxInt(a, b int) int {
	if a > b {
		return a
	}
	return b
}
