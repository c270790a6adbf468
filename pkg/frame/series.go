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

package frame

import (
	"sort"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
)

// SensorSeries is the raw time-indexed table of one sensor sheet, as ingested.
type SensorSeries struct {
	Name    string
	Columns []string
	Times   []time.Time
	Rows    []config.GenericMap
}

type timedRow struct {
	t   time.Time
	row config.GenericMap
}

// Samples holds every non-empty cell read for a column at one timestamp, in ingestion order.
type Samples []interface{}

// NewSensorSeries orders rows by time. Rows sharing a timestamp are merged into one row: a cell
// read more than once becomes Samples, so that resampling still averages every original value.
// Empty cells never shadow a value.
func NewSensorSeries(name string, columns []string, times []time.Time, rows []config.GenericMap) *SensorSeries {
	pairs := make([]timedRow, 0, len(rows))
	for i := range rows {
		pairs = append(pairs, timedRow{t: times[i].UTC(), row: rows[i]})
	}
	sort.SliceStable(pairs, func(i, j int) bool { return pairs[i].t.Before(pairs[j].t) })

	s := &SensorSeries{
		Name:    name,
		Columns: columns,
		Times:   make([]time.Time, 0, len(pairs)),
		Rows:    make([]config.GenericMap, 0, len(pairs)),
	}
	for _, p := range pairs {
		last := len(s.Times) - 1
		if last >= 0 && s.Times[last].Equal(p.t) {
			merged := s.Rows[last]
			for k, v := range p.row {
				existing, ok := merged[k]
				switch {
				case !ok || isEmptyCell(existing):
					merged[k] = v
				case isEmptyCell(v):
				default:
					merged[k] = appendSample(existing, v)
				}
			}
			continue
		}
		s.Times = append(s.Times, p.t)
		s.Rows = append(s.Rows, p.row.Copy())
	}
	return s
}

func appendSample(existing, v interface{}) Samples {
	if samples, ok := existing.(Samples); ok {
		return append(samples, v)
	}
	return Samples{existing, v}
}

func (s *SensorSeries) Len() int {
	return len(s.Times)
}

// Values returns the samples of a column at row i: none for a missing or empty cell, several
// when the timestamp was read more than once.
func (s *SensorSeries) Values(i int, column string) []interface{} {
	v, ok := s.Rows[i][column]
	if !ok || isEmptyCell(v) {
		return nil
	}
	if samples, isSamples := v.(Samples); isSamples {
		return samples
	}
	return []interface{}{v}
}

func isEmptyCell(v interface{}) bool {
	switch c := v.(type) {
	case nil:
		return true
	case string:
		return c == ""
	}
	return false
}
