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
	DefaultSeverityLowThreshold  = -0.1
	DefaultSeverityHighThreshold = -0.3
)

type Severity struct {
	ScoreField    string   `yaml:"scoreField,omitempty" json:"scoreField,omitempty" doc:"primary table score column; default if_score"`
	FlagField     string   `yaml:"flagField,omitempty" json:"flagField,omitempty" doc:"primary table flag column; default if_anom"`
	LowThreshold  *float64 `yaml:"lowThreshold,omitempty" json:"lowThreshold,omitempty" doc:"scores below this value are at least Medium; default -0.1"`
	HighThreshold *float64 `yaml:"highThreshold,omitempty" json:"highThreshold,omitempty" doc:"scores below this value are High; default -0.3"`
}

func (s *Severity) SetDefaults() {
	if s.ScoreField == "" {
		s.ScoreField = IFScoreField
	}
	if s.FlagField == "" {
		s.FlagField = IFFlagField
	}
	if s.LowThreshold == nil {
		v := DefaultSeverityLowThreshold
		s.LowThreshold = &v
	}
	if s.HighThreshold == nil {
		v := DefaultSeverityHighThreshold
		s.HighThreshold = &v
	}
}

type RCA struct {
	TopK       int      `yaml:"topK,omitempty" json:"topK,omitempty" doc:"number of ranked causes reported per anomaly; default 1"`
	Features   []string `yaml:"features,omitempty" json:"features,omitempty" doc:"features to rank; default every numeric column except the score"`
	ScoreField string   `yaml:"scoreField,omitempty" json:"scoreField,omitempty" doc:"score column excluded from ranking; default if_score"`
	FlagField  string   `yaml:"flagField,omitempty" json:"flagField,omitempty" doc:"flag column selecting the anomalous rows; default if_anom"`
	Limit      int      `yaml:"limit,omitempty" json:"limit,omitempty" doc:"number of report lines logged by the driver; default 5"`
}

func (r *RCA) SetDefaults() {
	if r.TopK <= 0 {
		r.TopK = 1
	}
	if r.ScoreField == "" {
		r.ScoreField = IFScoreField
	}
	if r.FlagField == "" {
		r.FlagField = IFFlagField
	}
	if r.Limit <= 0 {
		r.Limit = 5
	}
}
