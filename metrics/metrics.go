// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

// Package metrics exposes Prometheus counters for ballot activity.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	clicksTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickly_elect_clicks_total",
			Help: "Candidate button clicks by outcome",
		},
		[]string{"outcome"},
	)
	ballotsTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "quickly_elect_ballots_submitted_total",
			Help: "Ballots recorded",
		},
	)
	ballotsRejected = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "quickly_elect_ballots_rejected_total",
			Help: "Ballot submissions rejected by validation",
		},
		[]string{"reason"},
	)
	sessionsActive = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "quickly_elect_sessions_active",
			Help: "Voter sessions currently held in memory",
		},
	)
)

// Click outcomes
const (
	OutcomeChanged = "changed"
	OutcomeIgnored = "ignored"
)

func RecordClick(changed bool) {
	if changed {
		clicksTotal.WithLabelValues(OutcomeChanged).Inc()
		return
	}
	clicksTotal.WithLabelValues(OutcomeIgnored).Inc()
}

func RecordBallot() {
	ballotsTotal.Inc()
}

func RecordRejectedBallot(reason string) {
	ballotsRejected.WithLabelValues(reason).Inc()
}

func SetSessionsActive(n int) {
	sessionsActive.Set(float64(n))
}

// Handler serves the default registry
func Handler() http.Handler {
	return promhttp.Handler()
}
