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

package write

import (
	"math"
	"strings"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/utils"
)

// Batch is a named output table: the rows of one report, in column order.
type Batch struct {
	Name    string
	Sensor  string
	Columns []string
	Rows    []config.GenericMap
}

type Writer interface {
	Write(b *Batch) error
	Close() error
}

type WriteNone struct {
}

// Write discards the batch
func (t *WriteNone) Write(_ *Batch) error {
	return nil
}

func (t *WriteNone) Close() error {
	return nil
}

// NewWriteNone create a new write
func NewWriteNone() (Writer, error) {
	return &WriteNone{}, nil
}

// batchFilter accepts the batches whose name starts with one of its prefixes; an empty filter accepts all.
type batchFilter []string

func (f batchFilter) accepts(name string) bool {
	if len(f) == 0 {
		return true
	}
	for _, prefix := range f {
		if strings.HasPrefix(name, prefix) {
			return true
		}
	}
	return false
}

// rowSensor returns the sensor of a row, falling back to the batch sensor.
func rowSensor(b *Batch, row config.GenericMap) string {
	if s, ok := row["sensor"]; ok {
		if str := utils.ConvertToString(s); str != "" {
			return str
		}
	}
	return b.Sensor
}

// jsonRow prepares a row for json encoding, which rejects NaN and infinite values.
func jsonRow(row config.GenericMap) config.GenericMap {
	out := make(config.GenericMap, len(row))
	for k, v := range row {
		if f, ok := v.(float64); ok && (math.IsNaN(f) || math.IsInf(f, 0)) {
			out[k] = nil
			continue
		}
		out[k] = v
	}
	return out
}
