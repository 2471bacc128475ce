package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New("1.0.0", time.Now())
	m.TokenIssued()
	m.TokenIssued()
	m.ProxyOutcome("failed")
	m.ObserveRequest(http.MethodGet, "/health", 200)
	m.ObserveRequest(http.MethodGet, "", 404)

	require.Equal(t, 2.0, testutil.ToFloat64(m.tokensIssued))
	require.Equal(t, 1.0, testutil.ToFloat64(m.proxied.WithLabelValues("failed")))
	require.Equal(t, 1.0, testutil.ToFloat64(m.requests.WithLabelValues("GET", "unmatched", "404")))
}

func TestMetrics_Handler(t *testing.T) {
	m := New("9.9.9", time.Now())
	m.TokenIssued()

	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	body := rec.Body.String()
	require.True(t, strings.Contains(body, "rtcagent_tokens_issued_total 1"))
	require.True(t, strings.Contains(body, `rtcagent_version{version="9.9.9"} 1`))
	require.True(t, strings.Contains(body, "rtcagent_uptime_seconds"))
}
