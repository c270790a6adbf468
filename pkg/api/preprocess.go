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

import "time"

const (
	DefaultCadence       = 10 * time.Minute
	DefaultRollingWindow = 3
)

type Preprocess struct {
	Cadence       Duration `yaml:"cadence,omitempty" json:"cadence,omitempty" doc:"resampling interval; default 10m"`
	RollingWindow int      `yaml:"rollingWindow,omitempty" json:"rollingWindow,omitempty" doc:"number of samples used by rolling mean and std; default 3"`
}

func (p *Preprocess) SetDefaults() {
	if p.Cadence.Duration <= 0 {
		p.Cadence.Duration = DefaultCadence
	}
	if p.RollingWindow <= 0 {
		p.RollingWindow = DefaultRollingWindow
	}
}
