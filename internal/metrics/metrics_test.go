package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gaugeValue(t *testing.T, g prometheus.Gauge) float64 {
	t.Helper()
	var m dto.Metric
	require.NoError(t, g.Write(&m))
	return m.GetGauge().GetValue()
}

func TestNewRegistersCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "node-1")

	families, err := reg.Gather()
	require.NoError(t, err)
	assert.NotEmpty(t, families)

	m.Term.Set(7)
	assert.Equal(t, float64(7), gaugeValue(t, m.Term))
}

func TestSetRoleTogglesExclusively(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg, "node-1")

	m.SetRole("leader")
	assert.Equal(t, float64(1), gaugeValue(t, m.Role.WithLabelValues("leader")))
	assert.Equal(t, float64(0), gaugeValue(t, m.Role.WithLabelValues("follower")))
	assert.Equal(t, float64(0), gaugeValue(t, m.Role.WithLabelValues("candidate")))

	m.SetRole("follower")
	assert.Equal(t, float64(0), gaugeValue(t, m.Role.WithLabelValues("leader")))
	assert.Equal(t, float64(1), gaugeValue(t, m.Role.WithLabelValues("follower")))
}
