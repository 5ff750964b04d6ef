package metrics_test

import (
	"testing"

	"github.com/UnknownOlympus/employees/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewMetrics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()

	m := metrics.NewMetrics(reg)
	m.RecordsChanged.WithLabelValues("create").Inc()

	assert.InDelta(t, 1, testutil.ToFloat64(m.RecordsChanged.WithLabelValues("create")), 0)
	assert.InDelta(t, 0, testutil.ToFloat64(m.RecordsChanged.WithLabelValues("delete")), 0)

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)
}

func TestNewMetrics_DuplicateRegistrationPanics(t *testing.T) {
	t.Parallel()

	reg := prometheus.NewRegistry()
	_ = metrics.NewMetrics(reg)

	assert.Panics(t, func() { metrics.NewMetrics(reg) })
}
