// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package metrics

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRecordClick(t *testing.T) {
	changed := testutil.ToFloat64(clicksTotal.WithLabelValues(OutcomeChanged))
	ignored := testutil.ToFloat64(clicksTotal.WithLabelValues(OutcomeIgnored))

	RecordClick(true)
	RecordClick(true)
	RecordClick(false)

	assert.Equal(t, changed+2, testutil.ToFloat64(clicksTotal.WithLabelValues(OutcomeChanged)))
	assert.Equal(t, ignored+1, testutil.ToFloat64(clicksTotal.WithLabelValues(OutcomeIgnored)))
}

func TestRecordBallot(t *testing.T) {
	before := testutil.ToFloat64(ballotsTotal)
	RecordBallot()
	assert.Equal(t, before+1, testutil.ToFloat64(ballotsTotal))

	rejected := testutil.ToFloat64(ballotsRejected.WithLabelValues("over_capacity"))
	RecordRejectedBallot("over_capacity")
	assert.Equal(t, rejected+1, testutil.ToFloat64(ballotsRejected.WithLabelValues("over_capacity")))
}

func TestHandler(t *testing.T) {
	SetSessionsActive(3)
	assert.Equal(t, float64(3), testutil.ToFloat64(sessionsActive))

	w := httptest.NewRecorder()
	Handler().ServeHTTP(w, httptest.NewRequest("GET", "/metrics", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.Contains(w.Body.String(), "quickly_elect_sessions_active 3"))
}
