package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollectorRecordsOutcomes(t *testing.T) {
	collector := NewCollector(prometheus.NewRegistry())

	collector.RecordRequest(OutcomeOK, 10*time.Millisecond)
	collector.RecordRequest(OutcomeOK, 20*time.Millisecond)
	collector.RecordRequest(OutcomeUpstreamTimeout, time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(collector.requestsTotal.WithLabelValues(OutcomeOK)))
	assert.Equal(t, float64(1), testutil.ToFloat64(collector.requestsTotal.WithLabelValues(OutcomeUpstreamTimeout)))
	assert.Equal(t, float64(0), testutil.ToFloat64(collector.requestsTotal.WithLabelValues(OutcomeInvalid)))
}
