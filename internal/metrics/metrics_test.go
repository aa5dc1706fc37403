package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	dto "github.com/prometheus/client_model/go"
	"github.com/stretchr/testify/require"
)

func TestRegistryCountersIncrement(t *testing.T) {
	reg := prometheus.NewRegistry()
	r := NewRegistryFor(reg)

	r.DatagramsReceived.Inc()
	r.DatagramsReceived.Inc()
	r.ProtocolErrors.WithLabelValues("bad_crc").Inc()
	r.ActiveSlots.Set(3)

	var m dto.Metric
	require.NoError(t, r.DatagramsReceived.Write(&m))
	require.Equal(t, float64(2), m.GetCounter().GetValue())

	var g dto.Metric
	require.NoError(t, r.ActiveSlots.Write(&g))
	require.Equal(t, float64(3), g.GetGauge().GetValue())
}
