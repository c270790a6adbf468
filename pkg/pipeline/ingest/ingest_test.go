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
	"bytes"
	"context"
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/golang/snappy"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestMetrics() *operational.Metrics {
	return operational.NewMetricsWithRegisterer(&config.MetricsSettings{}, prometheus.NewRegistry())
}

func collect(ing Ingester) []*frame.SensorSeries {
	out := make(chan *frame.SensorSeries, 100)
	ing.Ingest(out)
	close(out)
	var res []*frame.SensorSeries
	for s := range out {
		res = append(res, s)
	}
	return res
}

func TestIngestFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "S2120.csv"), []byte("time,Wind Speed\n2024-03-01 10:00,1\nbad,2\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "S2103.csv"), []byte("time,CO2\n2024-03-01 10:00,400\n2024-03-01 10:10,410\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("ignored"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "broken.csv"), []byte("CO2\n1\n"), 0o600))

	opMetrics := newTestMetrics()
	ing, err := NewIngestFile(opMetrics, "ingest", &api.IngestFile{Directory: dir})
	require.NoError(t, err)
	series := collect(ing)
	require.Len(t, series, 2)
	assert.Equal(t, "S2103", series[0].Name)
	assert.Equal(t, 2, series[0].Len())
	assert.Equal(t, "S2120", series[1].Name)
	assert.Equal(t, 1, series[1].Len())

	m := ing.(*ingestFile).metrics
	assert.Equal(t, 2.0, testutil.ToFloat64(m.sheetsRead))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.rowsRead))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.rowsDropped))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.errors.WithLabelValues("ingest", api.FileType, "read")))
}

func TestIngestFile_SensorsFilter(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "S2103.jsonl"), []byte(`{"time":"2024-03-01 10:00","CO2":400}`+"\n"), 0o600))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "S2120.jsonl"), []byte(`{"time":"2024-03-01 10:00","Wind Speed":1}`+"\n"), 0o600))

	ing, err := NewIngestFile(newTestMetrics(), "ingest", &api.IngestFile{Directory: dir, Format: api.SheetFormatJSONL, Sensors: []string{"s2120"}})
	require.NoError(t, err)
	series := collect(ing)
	require.Len(t, series, 1)
	assert.Equal(t, "S2120", series[0].Name)
	assert.Equal(t, 1.0, series[0].Rows[0]["Wind Speed"])
}

func TestNewIngestFile_Errors(t *testing.T) {
	_, err := NewIngestFile(newTestMetrics(), "ingest", &api.IngestFile{})
	require.Error(t, err)
	_, err = NewIngestFile(newTestMetrics(), "ingest", &api.IngestFile{Directory: filepath.Join(t.TempDir(), "missing")})
	require.Error(t, err)
}

type fakeStore struct {
	objects map[string][]byte
	listErr error
}

func (f *fakeStore) list(_ context.Context, _ string) ([]string, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	keys := make([]string, 0, len(f.objects))
	for k := range f.objects {
		keys = append(keys, k)
	}
	return keys, nil
}

func (f *fakeStore) get(_ context.Context, key string) (io.ReadCloser, error) {
	b, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return io.NopCloser(bytes.NewReader(b)), nil
}

func TestIngestS3(t *testing.T) {
	store := &fakeStore{objects: map[string][]byte{
		"sheets/S2103.csv":        []byte("time,CO2\n2024-03-01 10:00,400\n"),
		"sheets/S2120.csv.snappy": snappy.Encode(nil, []byte("time,Wind Speed\n2024-03-01 10:00,3\n")),
		"sheets/readme.md":        []byte("# sheets"),
	}}
	ing := newIngestS3(newTestMetrics(), "ingest", &api.IngestS3{Bucket: "b", Prefix: "sheets/"}, defaultS3Timeout, store)
	series := collect(ing)
	require.Len(t, series, 2)
	assert.Equal(t, "S2103", series[0].Name)
	assert.Equal(t, "S2120", series[1].Name)
	assert.Equal(t, "3", series[1].Rows[0]["Wind Speed"])
}

func TestIngestS3_ListError(t *testing.T) {
	ing := newIngestS3(newTestMetrics(), "ingest", &api.IngestS3{Bucket: "b"}, defaultS3Timeout, &fakeStore{listErr: errors.New("denied")})
	assert.Empty(t, collect(ing))
	assert.Equal(t, 1.0, testutil.ToFloat64(ing.metrics.errors.WithLabelValues("ingest", api.S3Type, "list")))
}

func TestIngestSynthetic(t *testing.T) {
	params := &api.IngestSynthetic{Sensors: []string{"A", "B"}, Features: []string{"x", "y"}, Samples: 50, Spikes: 2, Seed: 7}
	ing, err := NewIngestSynthetic(newTestMetrics(), "ingest", params)
	require.NoError(t, err)
	first := collect(ing)
	require.Len(t, first, 2)
	assert.Equal(t, "A", first[0].Name)
	assert.Equal(t, []string{"x", "y"}, first[0].Columns)
	require.Equal(t, 50, first[0].Len())
	assert.Equal(t, SyntheticStart, first[0].Times[0])
	assert.Equal(t, defaultInterval, first[0].Times[1].Sub(first[0].Times[0]))

	// same seed, same data
	ing2, err := NewIngestSynthetic(newTestMetrics(), "ingest", params)
	require.NoError(t, err)
	second := collect(ing2)
	assert.Equal(t, first[1].Rows, second[1].Rows)
}

func TestIngestSynthetic_Defaults(t *testing.T) {
	ing, err := NewIngestSynthetic(newTestMetrics(), "ingest", nil)
	require.NoError(t, err)
	series := collect(ing)
	require.Len(t, series, 1)
	assert.Equal(t, "S2103", series[0].Name)
	assert.Equal(t, defaultSamples, series[0].Len())
	assert.Equal(t, defaultSyntheticFeatures, series[0].Columns)
}
