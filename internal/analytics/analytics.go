// Package analytics records calculation outcomes. Sinks are fire-and-forget:
// callers never depend on whether an event was recorded.
package analytics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Calculation outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeDegenerate  = "degenerate"
	OutcomeParseError  = "parse_error"
	OutcomeDomainError = "domain_error"
)

// History write results. An empty History on an Event means no write was attempted.
const (
	HistoryWritten = "written"
	HistoryFailed  = "failed"
)

// Event describes one executed calculation.
type Event struct {
	Family  string
	Kind    string
	Outcome string
	History string
}

// Sink receives calculation events.
type Sink interface {
	Record(Event)
}

// Nop discards every event.
type Nop struct{}

// Record implements Sink.
func (Nop) Record(Event) {}

// Prometheus counts events on two counter vectors.
type Prometheus struct {
	calculations  *prometheus.CounterVec
	historyWrites *prometheus.CounterVec
}

// NewPrometheus creates the counters and registers them on reg. A nil reg
// leaves the counters unregistered.
func NewPrometheus(reg prometheus.Registerer) (*Prometheus, error) {
	p := &Prometheus{
		calculations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calculator",
			Name:      "calculations_total",
			Help:      "Calculations executed, by family, kind and outcome.",
		}, []string{"family", "kind", "outcome"}),
		historyWrites: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "calculator",
			Name:      "history_writes_total",
			Help:      "History appends, by family and persistence result.",
		}, []string{"family", "result"}),
	}
	if reg == nil {
		return p, nil
	}
	for _, c := range []prometheus.Collector{p.calculations, p.historyWrites} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return p, nil
}

// Record implements Sink.
func (p *Prometheus) Record(e Event) {
	p.calculations.WithLabelValues(e.Family, e.Kind, e.Outcome).Inc()
	if e.History != "" {
		p.historyWrites.WithLabelValues(e.Family, e.History).Inc()
	}
}

// Recorder keeps events in memory. It is safe for concurrent use.
type Recorder struct {
	mu     sync.Mutex
	events []Event
}

// Record implements Sink.
func (r *Recorder) Record(e Event) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
}

// Events returns the recorded events in order.
func (r *Recorder) Events() []Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Event{}, r.events...)
}
