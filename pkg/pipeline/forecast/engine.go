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
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"gonum.org/v1/gonum/mat"
)

var (
	// ErrInsufficientData is returned when a series is too short for an engine.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrModelFit is returned when an engine's fit is numerically unusable.
	ErrModelFit = errors.New("model fit failed")
)

// Series is a training series: values observed at increasing times.
type Series struct {
	Times   []time.Time
	Values  []float64
	Cadence time.Duration
}

func (s Series) Len() int {
	return len(s.Values)
}

// Engine predicts the next steps values of a series, spaced by its cadence.
type Engine interface {
	Forecast(s Series, steps int) ([]float64, error)
}

func NewEngine(cfg api.ForecastEngine) (Engine, error) {
	cfg.SetDefaults()
	switch cfg.Type {
	case api.ForecastAutoregressive:
		return &Autoregressive{order: cfg.Order, differencing: *cfg.Differencing}, nil
	case api.ForecastSeasonal:
		return &Seasonal{season: cfg.SeasonLength, alpha: cfg.Alpha, beta: cfg.Beta, gamma: cfg.Gamma}, nil
	case api.ForecastHarmonic:
		return &Harmonic{order: cfg.FourierOrder}, nil
	}
	return nil, fmt.Errorf("forecast engine %q not defined", cfg.Type)
}

// leastSquares solves min |xβ - y|² + λ|β₁..|² through the normal equations. The first column
// (the intercept) is not penalized; λ keeps nearly collinear regressors solvable.
func leastSquares(x *mat.Dense, y []float64, lambda float64) ([]float64, error) {
	_, cols := x.Dims()
	var xtx mat.Dense
	xtx.Mul(x.T(), x)
	for j := 1; j < cols; j++ {
		xtx.Set(j, j, xtx.At(j, j)+lambda)
	}
	var xty mat.VecDense
	xty.MulVec(x.T(), mat.NewVecDense(len(y), y))

	var beta mat.VecDense
	if err := beta.SolveVec(&xtx, &xty); err != nil {
		var cond mat.Condition
		if !errors.As(err, &cond) {
			return nil, fmt.Errorf("%w: %v", ErrModelFit, err)
		}
	}
	out := make([]float64, cols)
	for j := range out {
		out[j] = beta.AtVec(j)
	}
	for _, b := range out {
		if math.IsNaN(b) || math.IsInf(b, 0) {
			return nil, fmt.Errorf("%w: NaN coefficient", ErrModelFit)
		}
	}
	return out, nil
}
