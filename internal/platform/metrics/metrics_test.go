// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package metrics_test

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/techhub/internal/platform/metrics"
)

/*
TestMetrics_Isolated verifies two instances do not share counters.
*/
func TestMetrics_Isolated(t *testing.T) {
	first := metrics.New()
	second := metrics.New()

	first.ModerationDecisions.WithLabelValues("job", "approve").Inc()

	assert.Equal(t, 1.0, testutil.ToFloat64(first.ModerationDecisions.WithLabelValues("job", "approve")))
	assert.Equal(t, 0.0, testutil.ToFloat64(second.ModerationDecisions.WithLabelValues("job", "approve")))

	count, err := testutil.GatherAndCount(first.Registry(), "techhub_moderation_decisions_total")
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

/*
TestMetrics_Handler exposes the namespaced collectors.
*/
func TestMetrics_Handler(t *testing.T) {
	m := metrics.New()
	m.AuthorizationDenied.WithLabelValues("admin").Inc()

	recorder := httptest.NewRecorder()
	m.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), `techhub_authorization_denied_total{required_role="admin"} 1`)
}
