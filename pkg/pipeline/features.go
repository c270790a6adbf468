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
	"strings"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/utils"
)

// selectFeatures picks the analysed columns of a sheet: the explicit list of the profile, else
// the columns matching one of its substrings, else the first numeric columns. Pattern and
// numeric selections are capped to MaxFeatures.
func selectFeatures(profile api.SensorProfile, series *frame.SensorSeries) []string {
	if len(profile.Features) > 0 {
		return append([]string{}, profile.Features...)
	}
	limit := profile.MaxFeatures
	if limit <= 0 {
		limit = api.DefaultMaxFeatures
	}
	var selected []string
	for _, c := range series.Columns {
		if len(selected) == limit {
			break
		}
		if len(profile.FeatureContains) > 0 {
			if containsAny(c, profile.FeatureContains) {
				selected = append(selected, c)
			}
			continue
		}
		if isNumericColumn(series, c) {
			selected = append(selected, c)
		}
	}
	return selected
}

func containsAny(s string, patterns []string) bool {
	for _, p := range patterns {
		if strings.Contains(s, p) {
			return true
		}
	}
	return false
}

// isNumericColumn reports whether every non-empty cell of the column is a number, and at least one is.
func isNumericColumn(series *frame.SensorSeries, column string) bool {
	found := false
	for i := range series.Rows {
		for _, v := range series.Values(i, column) {
			if s, isString := v.(string); isString && strings.TrimSpace(s) == "" {
				continue
			}
			if _, err := utils.ConvertToFloat64(v); err != nil {
				return false
			}
			found = true
		}
	}
	return found
}
