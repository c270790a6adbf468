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

const (
	DefaultContamination    = 0.01
	DefaultTrainFraction    = 0.8
	DefaultNumTrees         = 100
	DefaultMaxSamples       = 256
	DefaultSeed             = 42
	DefaultMinRows          = 10
	DefaultWindowSize       = 6
	DefaultVarianceFraction = 0.95

	IFScoreField  = "if_score"
	IFFlagField   = "if_anom"
	PCAScoreField = "recon_error"
	PCAFlagField  = "anom_pca"
)

type IsolationForest struct {
	Contamination float64 `yaml:"contamination,omitempty" json:"contamination,omitempty" doc:"expected fraction of outliers in the training rows; default 0.01"`
	TrainFraction float64 `yaml:"trainFraction,omitempty" json:"trainFraction,omitempty" doc:"leading fraction of rows used for scaling and fitting; default 0.8"`
	NumTrees      int     `yaml:"numTrees,omitempty" json:"numTrees,omitempty" doc:"number of isolation trees; default 100"`
	MaxSamples    int     `yaml:"maxSamples,omitempty" json:"maxSamples,omitempty" doc:"sub-sample size per tree; default 256 (bounded by the training rows)"`
	Seed          *int64  `yaml:"seed,omitempty" json:"seed,omitempty" doc:"random seed; default 42"`
	MinRows       int     `yaml:"minRows,omitempty" json:"minRows,omitempty" doc:"sensors with fewer preprocessed rows are skipped; default 10"`
	ScoreField    string  `yaml:"scoreField,omitempty" json:"scoreField,omitempty" doc:"name of the output score column; default if_score"`
	FlagField     string  `yaml:"flagField,omitempty" json:"flagField,omitempty" doc:"name of the output flag column; default if_anom"`
}

func (i *IsolationForest) SetDefaults() {
	if i.Contamination == 0 {
		i.Contamination = DefaultContamination
	}
	if i.TrainFraction == 0 {
		i.TrainFraction = DefaultTrainFraction
	}
	if i.NumTrees <= 0 {
		i.NumTrees = DefaultNumTrees
	}
	if i.MaxSamples <= 0 {
		i.MaxSamples = DefaultMaxSamples
	}
	if i.Seed == nil {
		seed := int64(DefaultSeed)
		i.Seed = &seed
	}
	if i.MinRows <= 0 {
		i.MinRows = DefaultMinRows
	}
	if i.ScoreField == "" {
		i.ScoreField = IFScoreField
	}
	if i.FlagField == "" {
		i.FlagField = IFFlagField
	}
}

type WindowedPCA struct {
	WindowSize       int     `yaml:"windowSize,omitempty" json:"windowSize,omitempty" doc:"number of consecutive rows per window; default 6"`
	VarianceFraction float64 `yaml:"varianceFraction,omitempty" json:"varianceFraction,omitempty" doc:"cumulative explained variance kept by the projection; default 0.95"`
	Sigmas           float64 `yaml:"sigmas,omitempty" json:"sigmas,omitempty" doc:"threshold is mean + sigmas * std of the reconstruction error; default 3"`
	ScoreField       string  `yaml:"scoreField,omitempty" json:"scoreField,omitempty" doc:"name of the output error column; default recon_error"`
	FlagField        string  `yaml:"flagField,omitempty" json:"flagField,omitempty" doc:"name of the output flag column; default anom_pca"`
}

func (w *WindowedPCA) SetDefaults() {
	if w.WindowSize == 0 {
		w.WindowSize = DefaultWindowSize
	}
	if w.VarianceFraction == 0 {
		w.VarianceFraction = DefaultVarianceFraction
	}
	if w.Sigmas == 0 {
		w.Sigmas = 3
	}
	if w.ScoreField == "" {
		w.ScoreField = PCAScoreField
	}
	if w.FlagField == "" {
		w.FlagField = PCAFlagField
	}
}
