package metrics

import (
	"errors"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserveProviderCall(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.ObserveProviderCall("google", "listEvents", 40*time.Millisecond, nil)
	m.ObserveProviderCall("google", "listEvents", 55*time.Millisecond, nil)
	m.ObserveProviderCall("outlook", "createEvent", 120*time.Millisecond, errors.New("boom"))

	assert.Equal(t, float64(2), testutil.ToFloat64(
		m.providerRequests.WithLabelValues("google", "listEvents", StatusSuccess)))
	assert.Equal(t, float64(1), testutil.ToFloat64(
		m.providerRequests.WithLabelValues("outlook", "createEvent", StatusError)))
	assert.Equal(t, float64(0), testutil.ToFloat64(
		m.providerRequests.WithLabelValues("outlook", "createEvent", StatusSuccess)))
}

func TestSessionGauge(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.SessionStarted()
	m.SessionStarted()
	m.SessionEnded()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.activeSessions))
}

func TestCollectorsRegister(t *testing.T) {
	reg := prometheus.NewRegistry()
	New(reg)

	families, err := reg.Gather()
	require.NoError(t, err)
	// Counter and histogram vecs only appear after first observation; the
	// gauge is registered eagerly.
	assert.NotEmpty(t, families)
}
