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

package frame

import (
	"testing"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

func TestNewSensorSeriesSortsAndMerges(t *testing.T) {
	times := []time.Time{t0.Add(20 * time.Minute), t0, t0.Add(10 * time.Minute), t0}
	rows := []config.GenericMap{
		{"CO2": 430.0},
		{"CO2": 400.0, "Temperature": ""},
		{"CO2": 410.0},
		{"CO2": "", "Temperature": 21.5},
	}
	s := NewSensorSeries("S2103", []string{"CO2", "Temperature"}, times, rows)

	require.Equal(t, 3, s.Len())
	assert.Equal(t, []time.Time{t0, t0.Add(10 * time.Minute), t0.Add(20 * time.Minute)}, s.Times)
	assert.Equal(t, config.GenericMap{"CO2": 400.0, "Temperature": 21.5}, s.Rows[0])
	// input rows are not modified by the merge
	assert.Equal(t, "", rows[1]["Temperature"])
}

func TestNewSensorSeriesKeepsDuplicateSamples(t *testing.T) {
	times := []time.Time{t0, t0, t0, t0.Add(time.Minute)}
	rows := []config.GenericMap{
		{"CO2": "400", "Temperature": 20.0},
		{"CO2": "N/A", "Temperature": ""},
		{"CO2": 600.0},
		{"CO2": "600"},
	}
	s := NewSensorSeries("S2103", []string{"CO2", "Temperature"}, times, rows)

	require.Equal(t, 2, s.Len())
	assert.Equal(t, []interface{}{"400", "N/A", 600.0}, s.Values(0, "CO2"))
	assert.Equal(t, []interface{}{20.0}, s.Values(0, "Temperature"))
	assert.Equal(t, []interface{}{"600"}, s.Values(1, "CO2"))
	assert.Nil(t, s.Values(1, "Temperature"))
	assert.Equal(t, config.GenericMap{"CO2": "400", "Temperature": 20.0}, rows[0])
}

func TestFrameColumns(t *testing.T) {
	f := New("S", 10*time.Minute, []time.Time{t0, t0.Add(10 * time.Minute)})
	require.NoError(t, f.AddColumn("a", []float64{1, 2}))
	require.NoError(t, f.AddColumn("b", []float64{3, 4}))
	require.Error(t, f.AddColumn("c", []float64{1}))
	require.Error(t, f.AddColumn("a", []float64{5, 6}))

	assert.Equal(t, []string{"a", "b"}, f.Columns)
	col := f.Column("a")
	col[0] = 99
	assert.Equal(t, []float64{1, 2}, f.Column("a"))
	assert.Nil(t, f.Column("missing"))
	assert.Equal(t, []string{"b"}, f.Present([]string{"missing", "b"}))

	m, err := f.Matrix([]string{"b", "a"}, 1, 2)
	require.NoError(t, err)
	assert.Equal(t, 4.0, m.At(0, 0))
	assert.Equal(t, 2.0, m.At(0, 1))

	_, err = f.Matrix([]string{"a"}, 0, 3)
	require.Error(t, err)
	_, err = f.Matrix([]string{"zz"}, 0, 1)
	require.Error(t, err)
}

func TestAnomalyTable(t *testing.T) {
	times := []time.Time{t0, t0.Add(10 * time.Minute), t0.Add(20 * time.Minute)}
	f := New("S", 10*time.Minute, times)
	require.NoError(t, f.AddColumn("x", []float64{1, 2, 3}))

	tbl := &AnomalyTable{
		Frame:      f,
		Method:     MethodWindowedPCA,
		ScoreField: "recon_error",
		FlagField:  "anom_pca",
		Offset:     1,
		Times:      times[1:],
		Scores:     []float64{0.1, 2.5},
		Flags:      []bool{false, true},
		Threshold:  1.2,
	}

	x, ok := tbl.Column("x")
	require.True(t, ok)
	assert.Equal(t, []float64{2, 3}, x)
	_, ok = tbl.Column("y")
	assert.False(t, ok)
	_, ok = tbl.FlagColumn("if_anom")
	assert.False(t, ok)

	assert.Equal(t, []string{"time", "x", "recon_error", "anom_pca", "threshold"}, tbl.OutputColumns())
	assert.Equal(t, config.GenericMap{"time": times[2], "x": 3.0, "recon_error": 2.5, "anom_pca": true, "threshold": 1.2}, tbl.Row(1))
	assert.Equal(t, 1, tbl.Anomalies())

	fs := tbl.FlagSeries()
	v, present := fs.Lookup(times[2])
	assert.True(t, present)
	assert.True(t, v)
	v, present = fs.Lookup(times[1])
	assert.True(t, present)
	assert.False(t, v)
	_, present = fs.Lookup(times[0])
	assert.False(t, present)
}
