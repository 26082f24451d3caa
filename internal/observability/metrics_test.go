// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package observability

import (
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsObservations(t *testing.T) {
	m := NewMetrics(prometheus.NewRegistry())

	m.ObserveLLMRequest("openai", 250*time.Millisecond, nil)
	m.ObserveLLMRequest("openai", time.Second, fmt.Errorf("boom"))
	m.ObserveRetrieval("sql")
	m.ObserveSQLExecution(nil)
	m.ObserveSQLExecution(fmt.Errorf("syntax error"))
	m.ObserveIndexed("ddl")

	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("openai", "ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.LLMRequests.WithLabelValues("openai", "error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Retrievals.WithLabelValues("sql")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SQLExecutions.WithLabelValues("ok")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.SQLExecutions.WithLabelValues("error")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.IndexedItems.WithLabelValues("ddl")))
}

func TestHandlerExposesObservedMetrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetrics(reg)

	m.ObserveLLMRequest("openai", 100*time.Millisecond, nil)
	m.ObserveRetrieval("sql")
	m.ObserveSQLExecution(nil)

	ts := httptest.NewServer(Handler(reg))
	defer ts.Close()

	resp, err := http.Get(ts.URL)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	text := string(body)
	assert.Contains(t, text, `sqlmind_llm_requests_total{provider="openai",status="ok"} 1`)
	assert.Contains(t, text, `sqlmind_retrievals_total{kind="sql"} 1`)
	assert.Contains(t, text, `sqlmind_sql_executions_total{status="ok"} 1`)
	assert.Contains(t, text, "sqlmind_llm_request_seconds_bucket")
}

func TestMetricsNilReceiver(t *testing.T) {
	var m *Metrics
	require.NotPanics(t, func() {
		m.ObserveLLMRequest("openai", time.Second, nil)
		m.ObserveRetrieval("sql")
		m.ObserveSQLExecution(nil)
		m.ObserveIndexed("doc")
	})
}
