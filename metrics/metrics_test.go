package metrics

import (
	"testing"

	dto "github.com/prometheus/client_model/go"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func counterValue(t *testing.T, vec *prometheus.CounterVec, labels ...string) float64 {
	t.Helper()
	m := &dto.Metric{}
	require.NoError(t, vec.WithLabelValues(labels...).Write(m))
	return m.GetCounter().GetValue()
}

func TestRecorder_RecordOutcome(t *testing.T) {
	r := NewRecorder()

	r.RecordOutcome("protein", "value")
	r.RecordOutcome("protein", "decline")
	r.RecordOutcome("protein", "failure")

	assert.Equal(t, float64(1), counterValue(t, r.SamplesTotal, "protein"))
	assert.Equal(t, float64(1), counterValue(t, r.DeclinesTotal, "protein"))
	assert.Equal(t, float64(1), counterValue(t, r.ParseFailuresTotal, "protein"))
	assert.Equal(t, float64(3), counterValue(t, r.QueriesTotal, "protein"))
}

func TestRecorder_RecordFinal(t *testing.T) {
	r := NewRecorder()
	r.RecordFinal("protein", 0.9, "CONFIDENT")

	assert.Equal(t, float64(1), counterValue(t, r.ArchetypeTotal, "CONFIDENT"))
}
