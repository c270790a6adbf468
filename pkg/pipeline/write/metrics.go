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

package write

import (
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
)

var errorsCounter = operational.DefineMetric(
	"write_errors",
	"Counter of errors while writing batches",
	operational.TypeCounter,
	"stage", "type", "code",
)

type metrics struct {
	stage          string
	stageType      string
	recordsWritten prometheus.Counter
	errors         *prometheus.CounterVec
}

func newMetrics(opMetrics *operational.Metrics, stage, stageType string) *metrics {
	return &metrics{
		stage:          stage,
		stageType:      stageType,
		recordsWritten: opMetrics.CreateRecordsWrittenCounter(stage),
		errors:         opMetrics.NewCounterVec(&errorsCounter),
	}
}

func (m *metrics) error(code string) {
	m.errors.WithLabelValues(m.stage, m.stageType, code).Inc()
}
