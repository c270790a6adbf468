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

package api

type ForecastEngineType string

const (
	ForecastAutoregressive ForecastEngineType = "autoregressive" // AR(p) fitted on the d-times differenced series
	ForecastSeasonal       ForecastEngineType = "seasonal"       // additive Holt-Winters with a fixed season length
	ForecastHarmonic       ForecastEngineType = "harmonic"       // linear trend plus daily and weekly Fourier terms

	DefaultWarningExpression = "value > threshold"
)

// ForecastEngine configures one forecasting engine run over every sensor and base feature.
type ForecastEngine struct {
	Type              ForecastEngineType `yaml:"type" json:"type" enum:"ForecastEngineEnum" doc:"forecasting engine"`
	Steps             int                `yaml:"steps,omitempty" json:"steps,omitempty" doc:"number of predicted points; default 12 for autoregressive, 24 otherwise"`
	MinRows           int                `yaml:"minRows,omitempty" json:"minRows,omitempty" doc:"series with fewer training rows are skipped; default 10 for autoregressive, 30 otherwise"`
	ExcludeAnomalies  *bool              `yaml:"excludeAnomalies,omitempty" json:"excludeAnomalies,omitempty" doc:"train only on rows not flagged by the isolation forest; default false for autoregressive, true otherwise"`
	Order             int                `yaml:"order,omitempty" json:"order,omitempty" doc:"autoregressive order p; default 2"`
	Differencing      *int               `yaml:"differencing,omitempty" json:"differencing,omitempty" doc:"autoregressive differencing d; default 1"`
	SeasonLength      int                `yaml:"seasonLength,omitempty" json:"seasonLength,omitempty" doc:"seasonal period in samples; default 24"`
	Alpha             float64            `yaml:"alpha,omitempty" json:"alpha,omitempty" doc:"seasonal level smoothing; default 0.3"`
	Beta              float64            `yaml:"beta,omitempty" json:"beta,omitempty" doc:"seasonal trend smoothing; default 0.05"`
	Gamma             float64            `yaml:"gamma,omitempty" json:"gamma,omitempty" doc:"seasonal season smoothing; default 0.2"`
	FourierOrder      int                `yaml:"fourierOrder,omitempty" json:"fourierOrder,omitempty" doc:"harmonic number of Fourier pairs for each seasonality; default 3"`
	WarningExpression string             `yaml:"warningExpression,omitempty" json:"warningExpression,omitempty" doc:"boolean expression over value and threshold raising an early warning; default value > threshold"`
}

func (e *ForecastEngine) SetDefaults() {
	autoregressive := e.Type == ForecastAutoregressive
	if e.Steps <= 0 {
		if autoregressive {
			e.Steps = 12
		} else {
			e.Steps = 24
		}
	}
	if e.MinRows <= 0 {
		if autoregressive {
			e.MinRows = 10
		} else {
			e.MinRows = 30
		}
	}
	if e.ExcludeAnomalies == nil {
		exclude := !autoregressive
		e.ExcludeAnomalies = &exclude
	}
	if e.Order <= 0 {
		e.Order = 2
	}
	if e.Differencing == nil {
		d := 1
		e.Differencing = &d
	}
	if e.SeasonLength <= 0 {
		e.SeasonLength = 24
	}
	if e.Alpha <= 0 {
		e.Alpha = 0.3
	}
	if e.Beta <= 0 {
		e.Beta = 0.05
	}
	if e.Gamma <= 0 {
		e.Gamma = 0.2
	}
	if e.FourierOrder <= 0 {
		e.FourierOrder = 3
	}
	if e.WarningExpression == "" {
		e.WarningExpression = DefaultWarningExpression
	}
}

type Forecast struct {
	Disabled     bool               `yaml:"disabled,omitempty" json:"disabled,omitempty" doc:"skip forecasting"`
	Engines      []ForecastEngine   `yaml:"engines,omitempty" json:"engines,omitempty" doc:"forecasting engines to run"`
	Thresholds   map[string]float64 `yaml:"thresholds,omitempty" json:"thresholds,omitempty" doc:"per-feature early warning thresholds"`
	SummarySteps int                `yaml:"summarySteps,omitempty" json:"summarySteps,omitempty" doc:"number of trailing forecast points listed in the summary; default 3"`
}

func DefaultThresholds() map[string]float64 {
	return map[string]float64{
		"Temperature": 30,
		"CO2":         1500,
		"Humidity":    90,
		"Noise_dBA":   85,
	}
}

func (f *Forecast) SetDefaults() {
	if f.Thresholds == nil {
		f.Thresholds = DefaultThresholds()
	}
	if f.SummarySteps <= 0 {
		f.SummarySteps = 3
	}
	if len(f.Engines) == 0 {
		f.Engines = []ForecastEngine{
			{Type: ForecastAutoregressive},
			{Type: ForecastSeasonal},
			{Type: ForecastHarmonic},
		}
	}
	for i := range f.Engines {
		f.Engines[i].SetDefaults()
	}
}
