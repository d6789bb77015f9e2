package analytics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrometheusCountsOutcomes(t *testing.T) {
	reg := prometheus.NewRegistry()
	sink, err := NewPrometheus(reg)
	require.NoError(t, err)

	sink.Record(Event{Family: "percentage", Kind: "percent-of", Outcome: OutcomeSuccess, History: HistoryWritten})
	sink.Record(Event{Family: "percentage", Kind: "percent-of", Outcome: OutcomeSuccess, History: HistoryFailed})
	sink.Record(Event{Family: "loan", Kind: "loan-payment", Outcome: OutcomeParseError})

	assert.Equal(t, 2.0, testutil.ToFloat64(sink.calculations.WithLabelValues("percentage", "percent-of", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.calculations.WithLabelValues("loan", "loan-payment", OutcomeParseError)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.historyWrites.WithLabelValues("percentage", HistoryWritten)))
	assert.Equal(t, 1.0, testutil.ToFloat64(sink.historyWrites.WithLabelValues("percentage", HistoryFailed)))
	assert.Equal(t, 0.0, testutil.ToFloat64(sink.historyWrites.WithLabelValues("loan", HistoryWritten)))

	families, err := reg.Gather()
	require.NoError(t, err)
	var names []string
	for _, mf := range families {
		names = append(names, mf.GetName())
	}
	assert.ElementsMatch(t, []string{"calculator_calculations_total", "calculator_history_writes_total"}, names)
}

func TestPrometheusDoubleRegistrationFails(t *testing.T) {
	reg := prometheus.NewRegistry()
	_, err := NewPrometheus(reg)
	require.NoError(t, err)

	_, err = NewPrometheus(reg)
	assert.Error(t, err)
}

func TestRecorderKeepsOrder(t *testing.T) {
	var r Recorder
	r.Record(Event{Kind: "a"})
	r.Record(Event{Kind: "b"})
	Nop{}.Record(Event{Kind: "ignored"})

	events := r.Events()
	require.Len(t, events, 2)
	assert.Equal(t, "a", events[0].Kind)
	assert.Equal(t, "b", events[1].Kind)
}
