package metrics

import (
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestObserve(t *testing.T) {
	m := New()

	m.Observe("LaunchRequest", time.Now(), nil)
	m.Observe("LaunchRequest", time.Now(), nil)
	m.Observe("IntentRequest", time.Now(), errors.New("db down"))

	assert.Equal(t, 2.0, testutil.ToFloat64(m.dispatches.WithLabelValues("LaunchRequest", OutcomeSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.dispatches.WithLabelValues("IntentRequest", OutcomeFailure)))
	assert.Equal(t, 0.0, testutil.ToFloat64(m.dispatches.WithLabelValues("IntentRequest", OutcomeSuccess)))
}

func TestHandler(t *testing.T) {
	m := New()
	m.Observe("SessionEndedRequest", time.Now(), nil)

	srv := httptest.NewServer(m.Handler())
	defer srv.Close()

	resp, err := http.Get(srv.URL)
	require.NoError(t, err)
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), `skill_dispatch_total{outcome="success",type="SessionEndedRequest"} 1`)
	assert.Contains(t, string(body), "skill_dispatch_duration_seconds_bucket")
}
