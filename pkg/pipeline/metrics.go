/*
 * Copyright (C) 2025 IBM, Inc.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 *
 */

package pipeline

import (
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/severity"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	detectorFailures = operational.DefineMetric(
		"detector_failures_total",
		"Number of sensors a detector failed to analyse",
		operational.TypeCounter,
		"detector",
	)
	sensorsSkipped = operational.DefineMetric(
		"sensors_skipped_total",
		"Number of ingested sensors left out of detection",
		operational.TypeCounter,
		"reason",
	)
	anomaliesFlagged = operational.DefineMetric(
		"anomalies_flagged",
		"Number of rows flagged by a detector during the last run",
		operational.TypeGauge,
		"sensor", "method",
	)
	severityRows = operational.DefineMetric(
		"severity_rows",
		"Number of rows per severity level during the last run",
		operational.TypeGauge,
		"sensor", "level",
	)
	rcaEntries = operational.DefineMetric(
		"rca_entries_total",
		"Number of anomalies explained by root cause analysis",
		operational.TypeCounter,
		"sensor",
	)
)

type metrics struct {
	*operational.Metrics
	stageDuration    *prometheus.HistogramVec
	detectorFailures *prometheus.CounterVec
	sensorsSkipped   *prometheus.CounterVec
	anomaliesFlagged *prometheus.GaugeVec
	severityRows     *prometheus.GaugeVec
	rcaEntries       *prometheus.CounterVec
}

func newMetrics(opMetrics *operational.Metrics) *metrics {
	return &metrics{
		Metrics:          opMetrics,
		stageDuration:    opMetrics.GetOrCreateStageDurationHisto(),
		detectorFailures: opMetrics.NewCounterVec(&detectorFailures),
		sensorsSkipped:   opMetrics.NewCounterVec(&sensorsSkipped),
		anomaliesFlagged: opMetrics.NewGaugeVec(&anomaliesFlagged),
		severityRows:     opMetrics.NewGaugeVec(&severityRows),
		rcaEntries:       opMetrics.NewCounterVec(&rcaEntries),
	}
}

func (m *metrics) stageDurationTimer(stage string) *operational.Timer {
	return operational.NewTimer(m.stageDuration.WithLabelValues(stage))
}

func (m *metrics) skipped(reason string) {
	m.sensorsSkipped.WithLabelValues(reason).Inc()
}

func (m *metrics) failed(detector string) {
	m.detectorFailures.WithLabelValues(detector).Inc()
}

func (m *metrics) severity(t *severity.Table) {
	counts := t.Counts()
	for _, l := range []severity.Level{severity.Normal, severity.Low, severity.Medium, severity.High} {
		m.severityRows.WithLabelValues(t.Sensor, l.String()).Set(float64(counts[l]))
	}
}
