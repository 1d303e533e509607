package track

import (
	"sync"
	"time"

	"github.com/adsbtrack/modesd/modes"
)

// staleAfter matches the teacher's MODES_AIRCRAFT_TTL: a record not updated
// within this window is evicted on the next Sweep.
const staleAfter = 60 * time.Second

// Record is one aircraft's accumulated state: the merged DecodedRecord
// (non-empty fields only, "non-empty overwrites empty" across updates) plus
// the CPR bookkeeping spec.md §3 treats as external collaborator state.
type Record struct {
	ICAO24    uint32
	Merged    modes.DecodedRecord
	LastSeen  time.Time
	Messages  int64

	oddRawLat, oddRawLon   uint32
	evenRawLat, evenRawLon uint32
	oddTime, evenTime      float64 // whole Unix seconds of the update; 0 = none
}

// merge copies every field the incoming message actually reported into the
// record, leaving fields it didn't touch untouched. This is spec.md §3's
// "per-record merge (non-empty overwrites empty)".
func (r *Record) merge(in modes.DecodedRecord) {
	m := &r.Merged
	m.SignalStrength = in.SignalStrength
	m.DownlinkFormat = in.DownlinkFormat
	m.CRCSum = in.CRCSum
	m.CRCOK = in.CRCOK
	m.BitCorrected = in.BitCorrected
	m.Capability = in.Capability
	m.TypeCode = in.TypeCode
	m.EmitterCategory = in.EmitterCategory

	if in.HasICAO24 {
		m.HasICAO24 = true
		m.ICAO24 = in.ICAO24
	}
	if in.HasCallSign {
		m.HasCallSign = true
		m.CallSign = in.CallSign
	}
	if in.HasSquawk {
		m.HasSquawk = true
		m.Squawk = in.Squawk
	}
	if in.HasAltitude {
		m.HasAltitude = true
		m.Altitude = in.Altitude
	}
	if in.HasVelocity {
		m.HasVelocity = true
		m.Velocity = in.Velocity
		m.EWVelocity = in.EWVelocity
		m.NSVelocity = in.NSVelocity
	}
	if in.HasHeading {
		m.HasHeading = true
		m.Heading = in.Heading
	}
	if in.HasVerticalRate {
		m.HasVerticalRate = true
		m.VerticalRate = in.VerticalRate
	}
	if in.HasFlightStatus {
		m.HasFlightStatus = true
		m.FlightStatus = in.FlightStatus
	}
	if in.HasOnGround {
		m.HasOnGround = true
		m.OnGround = in.OnGround
	}
}

// applyCPR folds in a DF17/18 airborne position message's raw CPR fields
// and, once an even/odd pair is available, runs modes.GlobalCPR to produce
// a position. Grounded on the teacher's Aircraft odd/even_cprlat/lon/time
// fields and Sky.UpdateData's CPR branch in aircraft.go.
func (r *Record) applyCPR(in modes.DecodedRecord, now time.Time, sink modes.StatsSink) {
	if !in.HasCPR {
		return
	}
	t := float64(now.Unix())
	if in.CPROdd {
		r.oddRawLat, r.oddRawLon = in.CPRRawLat, in.CPRRawLon
		r.oddTime = t
	} else {
		r.evenRawLat, r.evenRawLon = in.CPRRawLat, in.CPRRawLon
		r.evenTime = t
	}

	pos, ok := modes.GlobalCPR(r.evenRawLat, r.evenRawLon, r.oddRawLat, r.oddRawLon, r.evenTime, r.oddTime)
	if !ok {
		return
	}
	r.Merged.HasPosition = true
	r.Merged.Latitude = pos.Latitude
	r.Merged.Longitude = pos.Longitude

	sink.ObserveMin("min_lat", pos.Latitude)
	sink.ObserveMax("max_lat", pos.Latitude)
	sink.ObserveMin("min_lon", pos.Longitude)
	sink.ObserveMax("max_lon", pos.Longitude)

	// A consumed pair must not be reused by a later, unrelated lone
	// message: after a successful global decode both raw pairs and both
	// timestamps reset to zero, matching decodeCPR in squitter.py.
	r.oddRawLat, r.oddRawLon = 0, 0
	r.evenRawLat, r.evenRawLon = 0, 0
	r.oddTime, r.evenTime = 0, 0
}

// Store is the concurrency-safe per-aircraft map from spec.md §4.6,
// matching the teacher's Sky: one mutex guards the whole map, held for the
// duration of a single record's update so updates for the same aircraft
// serialize (spec.md §5).
type Store struct {
	mu      sync.Mutex
	records map[uint32]*Record
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{records: make(map[uint32]*Record)}
}

// Update folds a single Decode result into the aircraft's Record, creating
// it if this is the first message seen for that address. It returns nil if
// the record has no known ICAO24 (spec.md §7: a message that never
// resolved an address carries no per-aircraft state to merge into). sink
// receives the min_lat/max_lat/min_lon/max_lon observations spec.md §3's
// aggregate statistics require on every successful CPR decode.
func (s *Store) Update(rec modes.DecodedRecord, now time.Time, sink modes.StatsSink) *Record {
	if !rec.HasICAO24 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	r := s.records[rec.ICAO24]
	if r == nil {
		r = &Record{ICAO24: rec.ICAO24}
		s.records[rec.ICAO24] = r
	}

	r.LastSeen = now
	r.Messages++
	r.merge(rec)
	r.applyCPR(rec, now, sink)

	return r
}

// Get returns a snapshot copy of one aircraft's record, if known.
func (s *Store) Get(icao24 uint32) (Record, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	r, ok := s.records[icao24]
	if !ok {
		return Record{}, false
	}
	return *r, true
}

// Snapshot returns a copy of every tracked record, safe to range over
// without holding the store's lock.
func (s *Store) Snapshot() []Record {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]Record, 0, len(s.records))
	for _, r := range s.records {
		out = append(out, *r)
	}
	return out
}

// Count returns the number of tracked aircraft.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.records)
}

// Sweep evicts every record not updated within staleAfter, matching the
// teacher's RemoveStaleAircrafts — except this one actually deletes the
// keys it collects, rather than discarding them.
func (s *Store) Sweep(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	for addr, r := range s.records {
		if now.Sub(r.LastSeen) > staleAfter {
			delete(s.records, addr)
			removed++
		}
	}
	return removed
}
