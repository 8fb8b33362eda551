package metrics

import (
	"io"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountersAndHandler(t *testing.T) {
	m := New()
	m.RoutedEvents.WithLabelValues("CameraSelect").Inc()
	m.RoutedEvents.WithLabelValues("CameraSelect").Inc()
	m.DroppedInputs.Inc()
	m.ActiveTransitions.Set(3)

	assert.Equal(t, 2.0, testutil.ToFloat64(m.RoutedEvents.WithLabelValues("CameraSelect")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.DroppedInputs))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.ActiveTransitions))

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := srv.Client().Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	assert.Contains(t, string(body), `vjgrid_routed_events_total{kind="CameraSelect"} 2`)
	assert.Contains(t, string(body), "vjgrid_active_transitions 3")
}

func TestNewRegistriesAreIndependent(t *testing.T) {
	a := New()
	b := New()
	a.SnapshotsSaved.Inc()
	assert.Equal(t, 0.0, testutil.ToFloat64(b.SnapshotsSaved))
}
