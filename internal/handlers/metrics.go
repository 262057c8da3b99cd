package handlers

import "github.com/prometheus/client_golang/prometheus"

type ContentMetrics struct {
	PublishAttempts  *prometheus.CounterVec
	RephraseRequests *prometheus.CounterVec
}

func (m *ContentMetrics) IncPublish(platform, outcome string) {
	if m == nil || m.PublishAttempts == nil {
		return
	}

	m.PublishAttempts.WithLabelValues(platform, outcome).Inc()
}

func (m *ContentMetrics) IncRephrase(outcome string) {
	if m == nil || m.RephraseRequests == nil {
		return
	}

	m.RephraseRequests.WithLabelValues(outcome).Inc()
}
