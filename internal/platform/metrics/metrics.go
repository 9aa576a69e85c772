// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package metrics owns the Prometheus collectors exported on /metrics.
//
// Collectors live on a private [prometheus.Registry] rather than the global default
// so tests can build isolated instances.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "techhub"

// Metrics groups every collector the API records to.
type Metrics struct {
	registry *prometheus.Registry

	HTTPRequests        *prometheus.CounterVec
	HTTPLatency         *prometheus.HistogramVec
	Submissions         *prometheus.CounterVec
	ModerationDecisions *prometheus.CounterVec
	RoleChanges         *prometheus.CounterVec
	AuthorizationDenied *prometheus.CounterVec
}

// New creates and registers all collectors, including Go runtime and process stats.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),

		HTTPRequests: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "http_requests_total", Help: "Count of HTTP requests"},
			[]string{"route", "method", "status"},
		),
		HTTPLatency: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "Latency of HTTP requests",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route", "method"},
		),
		Submissions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "content_submissions_total", Help: "Content submissions by kind and initial status"},
			[]string{"kind", "status"},
		),
		ModerationDecisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "moderation_decisions_total", Help: "Moderation decisions by kind and action"},
			[]string{"kind", "action"},
		),
		RoleChanges: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "role_changes_total", Help: "Audited role changes and deactivations"},
			[]string{"action"},
		),
		AuthorizationDenied: prometheus.NewCounterVec(
			prometheus.CounterOpts{Namespace: namespace, Name: "authorization_denied_total", Help: "FORBIDDEN outcomes by required role"},
			[]string{"required_role"},
		),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.HTTPRequests,
		m.HTTPLatency,
		m.Submissions,
		m.ModerationDecisions,
		m.RoleChanges,
		m.AuthorizationDenied,
	)

	return m
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry exposes the underlying registry, used by tests to gather samples.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
