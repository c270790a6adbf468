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

package preprocess

import (
	"math"
	"testing"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var t0 = time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

func newSeries(offsets []time.Duration, rows []config.GenericMap, columns ...string) *frame.SensorSeries {
	times := make([]time.Time, len(offsets))
	for i, o := range offsets {
		times[i] = t0.Add(o)
	}
	return frame.NewSensorSeries("S2103", columns, times, rows)
}

func TestProcessDenseAndUniform(t *testing.T) {
	s := newSeries(
		[]time.Duration{0, 3 * time.Minute, 25 * time.Minute, 58 * time.Minute},
		[]config.GenericMap{{"CO2": 400.0}, {"CO2": "420"}, {"CO2": "bad"}, {"CO2": 460}},
		"CO2",
	)
	f := NewPreprocessor(api.Preprocess{}).Process(s, []string{"CO2"})

	require.Equal(t, 6, f.Len())
	for i := 1; i < f.Len(); i++ {
		assert.Equal(t, 10*time.Minute, f.Times[i].Sub(f.Times[i-1]))
	}
	assert.Equal(t, t0, f.Times[0])
	assert.Equal(t, []string{"CO2", "CO2_rmean", "CO2_rstd", "CO2_delta"}, f.Columns)
	for _, c := range f.Columns {
		for _, v := range f.Column(c) {
			assert.False(t, math.IsNaN(v), "NaN in %s", c)
		}
	}

	// bin 0 is the mean of 400 and 420, then a linear ramp up to 460 at bin 5
	co2 := f.Column("CO2")
	assert.InDeltaSlice(t, []float64{410, 420, 430, 440, 450, 460}, co2, 1e-9)
	assert.Equal(t, []float64{0, 10, 10, 10, 10, 10}, f.Column("CO2_delta"))

	rstd := f.Column("CO2_rstd")
	assert.Equal(t, 0.0, rstd[0])
	assert.InDelta(t, math.Sqrt(50), rstd[1], 1e-9)
	assert.InDelta(t, 10.0, rstd[2], 1e-9)
	assert.InDelta(t, 420.0, f.Column("CO2_rmean")[2], 1e-9)
}

func TestProcessEdgeFill(t *testing.T) {
	s := newSeries(
		[]time.Duration{0, 10 * time.Minute, 20 * time.Minute, 30 * time.Minute},
		[]config.GenericMap{{"T": nil, "H": 50.0}, {"T": 20.0, "H": nil}, {"T": 22.0, "H": nil}, {"T": "", "H": nil}},
		"T", "H",
	)
	f := NewPreprocessor(api.Preprocess{}).Process(s, []string{"T", "H"})
	assert.Equal(t, []float64{20, 20, 22, 22}, f.Column("T"))
	assert.Equal(t, []float64{50, 50, 50, 50}, f.Column("H"))
	assert.Equal(t, []string{"T", "H", "T_rmean", "T_rstd", "T_delta", "H_rmean", "H_rstd", "H_delta"}, f.Columns)
}

func TestProcessDropsUnusableFeatures(t *testing.T) {
	s := newSeries(
		[]time.Duration{0, 10 * time.Minute},
		[]config.GenericMap{{"A": "x", "B": 1.0}, {"A": "", "B": 2.0}},
		"A", "B",
	)
	p := NewPreprocessor(api.Preprocess{})

	f := p.Process(s, []string{"A", "B", "Missing"})
	assert.Equal(t, []string{"B", "B_rmean", "B_rstd", "B_delta"}, f.Columns)

	empty := p.Process(s, []string{"A"})
	assert.Equal(t, 0, empty.Len())
	assert.Empty(t, empty.Columns)

	assert.Equal(t, 0, p.Process(frame.NewSensorSeries("E", nil, nil, nil), []string{"A"}).Len())
}

func TestProcessCustomCadence(t *testing.T) {
	s := newSeries(
		[]time.Duration{0, 45 * time.Minute, 2 * time.Hour},
		[]config.GenericMap{{"A": 1.0}, {"A": 3.0}, {"A": 5.0}},
		"A",
	)
	f := NewPreprocessor(api.Preprocess{Cadence: api.Duration{Duration: time.Hour}}).Process(s, []string{"A"})
	require.Equal(t, 3, f.Len())
	assert.Equal(t, []float64{2, 3.5, 5}, f.Column("A"))
	assert.Equal(t, time.Hour, f.Cadence)
}

func TestProcessAveragesDuplicateTimestamps(t *testing.T) {
	p := NewPreprocessor(api.Preprocess{})

	s := newSeries(
		[]time.Duration{0, 0, time.Minute},
		[]config.GenericMap{{"CO2": "400"}, {"CO2": "N/A"}, {"CO2": "600"}},
		"CO2",
	)
	f := p.Process(s, []string{"CO2"})
	require.Equal(t, 1, f.Len())
	assert.Equal(t, []float64{500}, f.Column("CO2"))

	s = newSeries(
		[]time.Duration{0, 0, time.Minute},
		[]config.GenericMap{{"CO2": "400"}, {"CO2": 600.0}, {"CO2": 800}},
		"CO2",
	)
	f = p.Process(s, []string{"CO2"})
	assert.Equal(t, []float64{600}, f.Column("CO2"))
}

func TestProcessDropsDerivedNameCollisions(t *testing.T) {
	s := newSeries(
		[]time.Duration{0, 10 * time.Minute, 20 * time.Minute},
		[]config.GenericMap{{"X": 1.0, "X_delta": 100.0}, {"X": 3.0, "X_delta": 200.0}, {"X": 4.0, "X_delta": 300.0}},
		"X", "X_delta",
	)
	f := NewPreprocessor(api.Preprocess{}).Process(s, []string{"X", "X_delta", "X"})
	assert.Equal(t, []string{"X", "X_rmean", "X_rstd", "X_delta"}, f.Columns)
	assert.Equal(t, []float64{0, 2, 1}, f.Column("X_delta"))
}

func TestProcessIgnoresNaNCells(t *testing.T) {
	s := newSeries(
		[]time.Duration{0, 10 * time.Minute},
		[]config.GenericMap{{"A": math.NaN(), "B": math.NaN()}, {"A": 2.0, "B": math.NaN()}},
		"A", "B",
	)
	f := NewPreprocessor(api.Preprocess{}).Process(s, []string{"A", "B"})
	assert.Equal(t, []string{"A", "A_rmean", "A_rstd", "A_delta"}, f.Columns)
	assert.Equal(t, []float64{2, 2}, f.Column("A"))
}
