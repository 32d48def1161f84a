package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestNewRegistersMetrics(t *testing.T) {
	registry := prometheus.NewRegistry()

	// Replace global default registry to allow test inspection.
	prometheus.DefaultRegisterer = registry
	prometheus.DefaultGatherer = registry

	m := New()

	if m.PostingsCreated == nil || m.SyncDuration == nil || m.LimitReserved == nil {
		t.Fatalf("expected key metrics to be initialized: %+v", m)
	}

	m.PostingsCreated.WithLabelValues(SourceRecurring).Add(2)
	m.ChargesSkipped.Inc()

	if got := testutil.ToFloat64(m.PostingsCreated.WithLabelValues(SourceRecurring)); got != 2 {
		t.Fatalf("expected 2 recurring postings, got %v", got)
	}

	metricFamilies, err := registry.Gather()
	if err != nil {
		t.Fatalf("failed to gather metrics: %v", err)
	}

	if len(metricFamilies) == 0 {
		t.Fatalf("expected registered metrics, got none")
	}
}
