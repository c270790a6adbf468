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

package ingest

import (
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
)

var (
	sheetsRead = operational.DefineMetric(
		"ingest_sheets_read",
		"Number of sensor sheets read",
		operational.TypeCounter,
		"stage",
	)
	rowsRead = operational.DefineMetric(
		"ingest_rows_read",
		"Number of sheet rows kept after time parsing",
		operational.TypeCounter,
		"stage",
	)
	rowsDropped = operational.DefineMetric(
		"ingest_rows_dropped",
		"Number of sheet rows dropped because their time cell can't be parsed",
		operational.TypeCounter,
		"stage",
	)
	errorsCounter = operational.DefineMetric(
		"ingest_errors",
		"Counter of errors during ingestion",
		operational.TypeCounter,
		"stage", "type", "code",
	)
)

type metrics struct {
	*operational.Metrics
	stage         string
	stageType     string
	stageDuration prometheus.Observer
	sheetsRead    prometheus.Counter
	rowsRead      prometheus.Counter
	rowsDropped   prometheus.Counter
	errors        *prometheus.CounterVec
}

func newMetrics(opMetrics *operational.Metrics, stage, stageType string) *metrics {
	return &metrics{
		Metrics:       opMetrics,
		stage:         stage,
		stageType:     stageType,
		stageDuration: opMetrics.GetOrCreateStageDurationHisto().WithLabelValues(stage),
		sheetsRead:    opMetrics.NewCounter(&sheetsRead, stage),
		rowsRead:      opMetrics.NewCounter(&rowsRead, stage),
		rowsDropped:   opMetrics.NewCounter(&rowsDropped, stage),
		errors:        opMetrics.NewCounterVec(&errorsCounter),
	}
}

// Increment error counter
// `code` should reflect any error code relative to this type. It can be a short string message,
// but make sure to not include any dynamic value with high cardinality
func (m *metrics) error(code string) {
	m.errors.WithLabelValues(m.stage, m.stageType, code).Inc()
}

func (m *metrics) sheet(s *frame.SensorSeries, dropped int) {
	m.sheetsRead.Inc()
	m.rowsRead.Add(float64(s.Len()))
	m.rowsDropped.Add(float64(dropped))
}

func (m *metrics) stageDurationTimer() *operational.Timer {
	return operational.NewTimer(m.stageDuration)
}
