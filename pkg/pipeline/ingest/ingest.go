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

package ingest

import (
	"path"
	"strings"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
)

// Ingester reads every sensor sheet once and sends one series per sensor. The channel is
// closed by the pipeline once Ingest returns.
type Ingester interface {
	Ingest(out chan<- *frame.SensorSeries)
}

// sensorName derives the sensor name from a file or object name: the base name without extension.
func sensorName(name string) string {
	base := path.Base(strings.ReplaceAll(name, "\\", "/"))
	return strings.TrimSuffix(base, path.Ext(base))
}

// sensorFilter matches sensor names case-insensitively; an empty filter accepts everything.
type sensorFilter map[string]struct{}

func newSensorFilter(names []string) sensorFilter {
	f := sensorFilter{}
	for _, n := range names {
		if n = strings.TrimSpace(n); n != "" {
			f[strings.ToLower(n)] = struct{}{}
		}
	}
	return f
}

func (f sensorFilter) accepts(name string) bool {
	if len(f) == 0 {
		return true
	}
	_, ok := f[strings.ToLower(name)]
	return ok
}
