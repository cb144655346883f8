package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestInitializeMetrics(t *testing.T) {
	// Must not panic and must leave pre-populated series at zero.
	InitializeMetrics()

	if got := testutil.ToFloat64(PipelineFilesTotal.WithLabelValues("raw", "success")); got != 0 {
		t.Errorf("pre-populated counter = %v, want 0", got)
	}
	if got := testutil.ToFloat64(OwnershipViolationsTotal); got != 0 {
		t.Errorf("ownership violations counter = %v, want 0", got)
	}
}

func TestCountersIncrement(t *testing.T) {
	before := testutil.ToFloat64(PipelineFilesTotal.WithLabelValues("preset", "success"))
	PipelineFilesTotal.WithLabelValues("preset", "success").Inc()
	after := testutil.ToFloat64(PipelineFilesTotal.WithLabelValues("preset", "success"))

	if after != before+1 {
		t.Errorf("counter after Inc() = %v, want %v", after, before+1)
	}
}
