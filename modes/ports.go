package modes

// StatsSink is the aggregate-statistics collaborator from spec.md §3/§9:
// the decoder only increments it, it never reads state back. Implementations
// live in package stats and must be safe for concurrent use, since the
// embedder is expected to decode messages for many aircraft in parallel.
type StatsSink interface {
	Inc(name string)
	Add(name string, n float64)
	ObserveMin(name string, v float64)
	ObserveMax(name string, v float64)
	AddMember(set, member string)
}

// NopStats discards everything; useful for tests and for callers that
// don't care about aggregate counters.
type NopStats struct{}

func (NopStats) Inc(string)                 {}
func (NopStats) Add(string, float64)        {}
func (NopStats) ObserveMin(string, float64) {}
func (NopStats) ObserveMax(string, float64) {}
func (NopStats) AddMember(string, string)   {}

// ICAOKnown answers whether an ICAO24 address was recently confirmed by a
// message with a directly-verifiable CRC (DF11/DF17 without correction).
// The CRC engine consults it to recover addresses that are XOR-folded into
// the parity field of DF0/4/5/16/20/21 (spec.md §4.2). track.Cache
// implements this.
type ICAOKnown interface {
	Seen(addr uint32) bool
}

// AlwaysUnknown never confirms an address; used when the caller doesn't
// want XOR-address recovery attempted (e.g. decoding a single message with
// no cache of prior traffic).
type AlwaysUnknown struct{}

func (AlwaysUnknown) Seen(uint32) bool { return false }
