package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCollector_StageCompleted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg)

	c.StageCompleted("research", false, 120*time.Millisecond)
	c.StageCompleted("research", false, 80*time.Millisecond)
	c.StageCompleted("draft_answer", true, 10*time.Millisecond)

	assert.Equal(t, float64(2),
		testutil.ToFloat64(c.stageExecutions.WithLabelValues("research", OutcomeOK)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(c.stageExecutions.WithLabelValues("draft_answer", OutcomeDegraded)))
	assert.Equal(t, float64(0),
		testutil.ToFloat64(c.stageExecutions.WithLabelValues("draft_answer", OutcomeOK)))
}

func TestCollector_RunCompleted(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg)

	c.RunCompleted(time.Second)
	c.RunCompleted(2 * time.Second)

	assert.Equal(t, float64(2), testutil.ToFloat64(c.runsTotal))
}

func TestCollector_AdapterRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg)

	c.AdapterRequest("tavily", nil)
	c.AdapterRequest("tavily", errors.New("boom"))
	c.AdapterRequest("groq", nil)

	assert.Equal(t, float64(1),
		testutil.ToFloat64(c.adapterRequests.WithLabelValues("tavily", OutcomeOK)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(c.adapterRequests.WithLabelValues("tavily", OutcomeError)))
	assert.Equal(t, float64(1),
		testutil.ToFloat64(c.adapterRequests.WithLabelValues("groq", OutcomeOK)))
}

func TestCollector_RegistersAllMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	c := NewCollector("test", reg)

	// Touch every vec so the gather sees them.
	c.StageCompleted("s", false, time.Millisecond)
	c.RunCompleted(time.Millisecond)
	c.AdapterRequest("a", nil)

	families, err := reg.Gather()
	assert.NoError(t, err)

	names := make(map[string]bool, len(families))
	for _, f := range families {
		names[f.GetName()] = true
	}
	for _, want := range []string{
		"test_pipeline_runs_total",
		"test_pipeline_run_duration_seconds",
		"test_stage_executions_total",
		"test_stage_duration_seconds",
		"test_adapter_requests_total",
	} {
		assert.True(t, names[want], "metric %s not registered", want)
	}
}
