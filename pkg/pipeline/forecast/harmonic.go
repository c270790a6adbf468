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

package forecast

import (
	"fmt"
	"math"
	"time"

	"gonum.org/v1/gonum/mat"
)

const (
	day  = 24 * time.Hour
	week = 7 * day
)

// Harmonic regresses the series on a linear trend plus order sine/cosine pairs for the daily
// and the weekly periods.
type Harmonic struct {
	order int
}

func (hm *Harmonic) features(origin time.Time, t time.Time) []float64 {
	elapsed := t.Sub(origin)
	row := []float64{1, elapsed.Hours() / 24}
	for _, period := range []time.Duration{day, week} {
		phase := 2 * math.Pi * float64(elapsed) / float64(period)
		for k := 1; k <= hm.order; k++ {
			row = append(row, math.Sin(float64(k)*phase), math.Cos(float64(k)*phase))
		}
	}
	return row
}

func (hm *Harmonic) Forecast(s Series, steps int) ([]float64, error) {
	n := s.Len()
	cols := 2 + 4*hm.order
	if n < 3 {
		return nil, fmt.Errorf("%d values: %w", n, ErrInsufficientData)
	}
	origin := s.Times[0]
	x := mat.NewDense(n, cols, nil)
	for i, t := range s.Times {
		x.SetRow(i, hm.features(origin, t))
	}
	beta, err := leastSquares(x, s.Values, 1e-3)
	if err != nil {
		return nil, err
	}

	last := s.Times[n-1]
	pred := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		row := hm.features(origin, last.Add(time.Duration(h)*s.Cadence))
		for j, b := range beta {
			pred[h-1] += b * row[j]
		}
	}
	return pred, nil
}
