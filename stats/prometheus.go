package stats

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Prometheus is a modes.StatsSink backed by prometheus/client_golang
// vectors, registered against a caller-supplied Registerer so the embedder
// controls whether/how the resulting metrics get scraped (serving the
// scrape endpoint itself stays out of scope, per spec.md's non-goal on
// serving a UI/HTTP endpoint).
type Prometheus struct {
	counters *prometheus.CounterVec
	gauges   *prometheus.GaugeVec
	setSize  *prometheus.GaugeVec

	// Prometheus gauges are write-only snapshots, not compare-and-swap, so
	// the running min/max has to be tracked here and pushed to the gauge
	// only when it changes.
	mu      sync.Mutex
	mins    map[string]float64
	maxs    map[string]float64
	members map[string]map[string]struct{}
}

// NewPrometheus registers its vectors against reg and returns the sink.
func NewPrometheus(reg prometheus.Registerer) *Prometheus {
	p := &Prometheus{
		counters: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "modesd",
			Name:      "events_total",
			Help:      "Count of decoder events by name (df_N, valid_crc, not_valid_crc, ...).",
		}, []string{"name"}),
		gauges: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "modesd",
			Name:      "observed_extremes",
			Help:      "Min/max observed values by name and bound (min|max).",
		}, []string{"name", "bound"}),
		setSize: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Namespace: "modesd",
			Name:      "member_set_size",
			Help:      "Distinct member count of a tracked set (icao24, callsign, ...).",
		}, []string{"set"}),
		mins:    make(map[string]float64),
		maxs:    make(map[string]float64),
		members: make(map[string]map[string]struct{}),
	}
	reg.MustRegister(p.counters, p.gauges, p.setSize)
	return p
}

func (p *Prometheus) Inc(name string) {
	p.counters.WithLabelValues(name).Inc()
}

// Add accumulates n into the same counter vector Inc uses, for quantities
// that aren't simple per-event counts (e.g. bits decoded per message).
func (p *Prometheus) Add(name string, n float64) {
	p.counters.WithLabelValues(name).Add(n)
}

func (p *Prometheus) ObserveMin(name string, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.mins[name]; ok && v >= cur {
		return
	}
	p.mins[name] = v
	p.gauges.WithLabelValues(name, "min").Set(v)
}

func (p *Prometheus) ObserveMax(name string, v float64) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if cur, ok := p.maxs[name]; ok && v <= cur {
		return
	}
	p.maxs[name] = v
	p.gauges.WithLabelValues(name, "max").Set(v)
}

func (p *Prometheus) AddMember(set, member string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	s, ok := p.members[set]
	if !ok {
		s = make(map[string]struct{})
		p.members[set] = s
	}
	if _, already := s[member]; already {
		return
	}
	s[member] = struct{}{}
	p.setSize.WithLabelValues(set).Set(float64(len(s)))
}
