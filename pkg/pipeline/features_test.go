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

package pipeline

import (
	"testing"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/test"
	"github.com/stretchr/testify/assert"
)

func TestSelectFeatures(t *testing.T) {
	series := test.NewSeries("WS302", 4, 10*time.Minute, func(col string, i int) interface{} {
		switch col {
		case "Device":
			return "ws-302"
		case "Battery":
			if i == 0 {
				return ""
			}
		}
		return float64(i)
	}, "Device", "Battery", "LAeq", "LAmax", "Noise_dBA", "Signal")

	tests := []struct {
		name    string
		profile api.SensorProfile
		want    []string
	}{
		{
			name:    "explicit list is kept as is",
			profile: api.SensorProfile{Features: []string{"Noise_dBA", "Missing"}},
			want:    []string{"Noise_dBA", "Missing"},
		},
		{
			name:    "substring match capped",
			profile: api.SensorProfile{FeatureContains: []string{"Noise", "LA"}, MaxFeatures: 1},
			want:    []string{"LAeq"},
		},
		{
			name:    "substring match",
			profile: api.SensorProfile{FeatureContains: []string{"Noise", "LA"}, MaxFeatures: 5},
			want:    []string{"LAeq", "LAmax", "Noise_dBA"},
		},
		{
			name:    "first numeric columns",
			profile: api.SensorProfile{MaxFeatures: 2},
			want:    []string{"Battery", "LAeq"},
		},
		{
			name:    "default cap",
			profile: api.SensorProfile{},
			want:    []string{"Battery", "LAeq", "LAmax", "Noise_dBA", "Signal"},
		},
		{
			name:    "no match",
			profile: api.SensorProfile{FeatureContains: []string{"CO2"}},
			want:    nil,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, selectFeatures(tt.profile, series))
		})
	}
}
