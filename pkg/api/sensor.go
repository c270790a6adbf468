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

const DefaultMaxFeatures = 5

type SeverityRole string

const (
	SeverityRoleNone    SeverityRole = ""        // only contributes flags to other sensors
	SeverityRolePrimary SeverityRole = "primary" // severity is computed for this sensor
)

// SensorProfile selects the features analysed for a sensor sheet and the optional stages applied to it.
type SensorProfile struct {
	Name            string       `yaml:"name" json:"name" doc:"sensor (sheet) name, matched case-insensitively; * matches any sensor without a dedicated profile"`
	Features        []string     `yaml:"features,omitempty" json:"features,omitempty" doc:"explicit list of features"`
	FeatureContains []string     `yaml:"featureContains,omitempty" json:"featureContains,omitempty" doc:"select columns whose name contains one of these substrings"`
	MaxFeatures     int          `yaml:"maxFeatures,omitempty" json:"maxFeatures,omitempty" doc:"maximum number of selected features when they are not listed explicitly; default 5"`
	PCA             bool         `yaml:"pca,omitempty" json:"pca,omitempty" doc:"run the windowed PCA detector on this sensor"`
	Severity        SeverityRole `yaml:"severity,omitempty" json:"severity,omitempty" enum:"SeverityRoleEnum" doc:"severity role of the sensor; empty means it only contributes flags"`
	RCA             bool         `yaml:"rca,omitempty" json:"rca,omitempty" doc:"run root cause analysis on this sensor"`
}
