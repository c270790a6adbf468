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

package operational

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	dto "github.com/prometheus/client_model/go"
)

func TestMetricsSharedCollectors(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegisterer(&config.MetricsSettings{Prefix: "test_"}, reg)

	c1 := m.CreateRecordsWrittenCounter("csv")
	c2 := m.CreateRecordsWrittenCounter("csv")
	c1.Add(3)
	c2.Inc()
	assert.Equal(t, 4.0, testutil.ToFloat64(c1))

	h := m.GetOrCreateStageDurationHisto()
	NewTimer(h.WithLabelValues("ingest")).ObserveMilliseconds()

	count, err := testutil.GatherAndCount(reg, "test_records_written", "test_stage_duration_ms")
	require.NoError(t, err)
	assert.Equal(t, 2, count)
}

func TestMetricTypeMismatch(t *testing.T) {
	m := NewMetricsWithRegisterer(nil, prometheus.NewRegistry())
	assert.Panics(t, func() { m.NewGaugeVec(&recordsWritten) })
}

func TestGetDocumentation(t *testing.T) {
	doc := GetDocumentation()
	assert.Contains(t, doc, "### records_written")
	assert.Contains(t, doc, "| **Labels** | stage |")
}

func TestWriteTextFile(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewMetricsWithRegisterer(&config.MetricsSettings{Prefix: "tf_"}, reg)
	m.CreateRecordsWrittenCounter("stdout").Add(7)

	path := filepath.Join(t.TempDir(), "metrics", "pipeline.prom")
	require.NoError(t, WriteTextFile(reg, path))

	b, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(b), `tf_records_written{writer="stdout"} 7`)
	_, err = os.Stat(path + ".tmp")
	assert.True(t, os.IsNotExist(err))
}

func TestTimerObservesMilliseconds(t *testing.T) {
	m := NewMetricsWithRegisterer(nil, prometheus.NewRegistry())
	h := m.GetOrCreateStageDurationHisto()
	NewTimer(h.WithLabelValues("detect")).ObserveMilliseconds()
	NewTimer(h.WithLabelValues("detect")).ObserveMilliseconds()

	var metric dto.Metric
	require.NoError(t, h.WithLabelValues("detect").(prometheus.Metric).Write(&metric))
	require.NotNil(t, metric.Histogram)
	assert.Equal(t, uint64(2), metric.Histogram.GetSampleCount())
	assert.Len(t, metric.Histogram.GetBucket(), 6)
	assert.Equal(t, "stage", metric.GetLabel()[0].GetName())
}
