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

	"gonum.org/v1/gonum/mat"
)

// Autoregressive fits an AR(order) model with intercept on the series differenced differencing
// times, then integrates the predictions back.
type Autoregressive struct {
	order        int
	differencing int
}

func (a *Autoregressive) Forecast(s Series, steps int) ([]float64, error) {
	levels := [][]float64{s.Values}
	for k := 0; k < a.differencing; k++ {
		prev := levels[k]
		if len(prev) < 2 {
			return nil, fmt.Errorf("%d values can't be differenced %d times: %w", s.Len(), a.differencing, ErrInsufficientData)
		}
		d := make([]float64, len(prev)-1)
		for i := range d {
			d[i] = prev[i+1] - prev[i]
		}
		levels = append(levels, d)
	}
	z := levels[a.differencing]
	p := a.order
	m := len(z) - p
	if m < p+2 {
		return nil, fmt.Errorf("%d differenced values for order %d: %w", len(z), p, ErrInsufficientData)
	}

	x := mat.NewDense(m, p+1, nil)
	y := make([]float64, m)
	for i := 0; i < m; i++ {
		x.Set(i, 0, 1)
		for j := 1; j <= p; j++ {
			x.Set(i, j, z[p+i-j])
		}
		y[i] = z[p+i]
	}
	beta, err := leastSquares(x, y, 1e-9*float64(m))
	if err != nil {
		return nil, err
	}

	history := append([]float64{}, z...)
	pred := make([]float64, steps)
	for h := 0; h < steps; h++ {
		v := beta[0]
		for j := 1; j <= p; j++ {
			v += beta[j] * history[len(history)-j]
		}
		history = append(history, v)
		pred[h] = v
	}

	for k := a.differencing - 1; k >= 0; k-- {
		last := levels[k][len(levels[k])-1]
		for h := range pred {
			last += pred[h]
			pred[h] = last
		}
	}
	return pred, nil
}
