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

	"gonum.org/v1/gonum/stat"
)

// Seasonal is an additive Holt-Winters smoother with a fixed season length.
type Seasonal struct {
	season int
	alpha  float64
	beta   float64
	gamma  float64
}

func (hw *Seasonal) Forecast(s Series, steps int) ([]float64, error) {
	m, n := hw.season, s.Len()
	if n < m+1 {
		return nil, fmt.Errorf("%d values for a season of %d: %w", n, m, ErrInsufficientData)
	}
	x := s.Values

	level := stat.Mean(x[:m], nil)
	trend := 0.0
	if n >= 2*m {
		trend = (stat.Mean(x[m:2*m], nil) - level) / float64(m)
	}
	seasonals := make([]float64, n)
	for i := 0; i < m; i++ {
		seasonals[i] = x[i] - level
	}

	for t := m; t < n; t++ {
		prevLevel := level
		level = hw.alpha*(x[t]-seasonals[t-m]) + (1-hw.alpha)*(level+trend)
		trend = hw.beta*(level-prevLevel) + (1-hw.beta)*trend
		seasonals[t] = hw.gamma*(x[t]-level) + (1-hw.gamma)*seasonals[t-m]
	}

	pred := make([]float64, steps)
	for h := 1; h <= steps; h++ {
		pred[h-1] = level + float64(h)*trend + seasonals[n-m+(h-1)%m]
	}
	return pred, nil
}
