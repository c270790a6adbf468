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

package detect

import (
	"math"

	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

// Scaler standardizes columns with the mean and population std of the rows it was fitted on.
type Scaler struct {
	Mean  []float64
	Scale []float64
}

// FitScaler learns the per-column mean and population std of m. Columns whose variance is
// within rounding error of zero get a unit scale and are centered on their first value, so that
// a constant column transforms to exact zeros.
func FitScaler(m mat.Matrix) *Scaler {
	r, c := m.Dims()
	s := &Scaler{Mean: make([]float64, c), Scale: make([]float64, c)}
	col := make([]float64, r)
	for j := 0; j < c; j++ {
		mat.Col(col, j, m)
		mean, variance := stat.PopMeanVariance(col, nil)
		if isConstant(variance, mean, r) {
			s.Mean[j] = col[0]
			s.Scale[j] = 1
			continue
		}
		s.Mean[j] = mean
		s.Scale[j] = math.Sqrt(variance)
	}
	return s
}

// isConstant bounds the variance that accumulated rounding can produce on a constant column.
func isConstant(variance, mean float64, n int) bool {
	eps := math.Nextafter(1, 2) - 1
	nf := float64(n)
	bound := nf*eps*variance + math.Pow(nf*mean*eps, 2)
	return variance <= bound
}

// Transform returns a standardized copy of m.
func (s *Scaler) Transform(m mat.Matrix) *mat.Dense {
	r, c := m.Dims()
	out := mat.NewDense(r, c, nil)
	out.Apply(func(_, j int, v float64) float64 {
		return (v - s.Mean[j]) / s.Scale[j]
	}, m)
	return out
}
