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
	"fmt"
	"time"

	"gonum.org/v1/gonum/mat"
)

// Frame is a dense, uniformly spaced feature table with no missing values.
type Frame struct {
	Sensor  string
	Cadence time.Duration
	Times   []time.Time
	Columns []string
	data    map[string][]float64
}

// New builds a frame; every column must have one value per timestamp.
func New(sensor string, cadence time.Duration, times []time.Time) *Frame {
	return &Frame{
		Sensor:  sensor,
		Cadence: cadence,
		Times:   times,
		data:    map[string][]float64{},
	}
}

// Empty returns a frame with no rows and no columns.
func Empty(sensor string, cadence time.Duration) *Frame {
	return New(sensor, cadence, nil)
}

// AddColumn appends a column. Column names are unique.
func (f *Frame) AddColumn(name string, values []float64) error {
	if len(values) != len(f.Times) {
		return fmt.Errorf("column %s has %d values for %d rows", name, len(values), len(f.Times))
	}
	if _, ok := f.data[name]; ok {
		return fmt.Errorf("column %s already exists", name)
	}
	f.Columns = append(f.Columns, name)
	f.data[name] = values
	return nil
}

func (f *Frame) Len() int {
	return len(f.Times)
}

func (f *Frame) Has(name string) bool {
	_, ok := f.data[name]
	return ok
}

// Column returns a copy of the named column, or nil when absent.
func (f *Frame) Column(name string) []float64 {
	v, ok := f.data[name]
	if !ok {
		return nil
	}
	out := make([]float64, len(v))
	copy(out, v)
	return out
}

// Value returns a single cell without copying the column.
func (f *Frame) Value(name string, row int) (float64, bool) {
	v, ok := f.data[name]
	if !ok || row < 0 || row >= len(v) {
		return 0, false
	}
	return v[row], true
}

// Matrix returns rows [from, to) of the given columns as a dense matrix.
func (f *Frame) Matrix(columns []string, from, to int) (*mat.Dense, error) {
	if from < 0 || to > f.Len() || from > to {
		return nil, fmt.Errorf("row range [%d,%d) out of bounds for %d rows", from, to, f.Len())
	}
	if to == from || len(columns) == 0 {
		return nil, fmt.Errorf("empty row range [%d,%d) or no columns", from, to)
	}
	m := mat.NewDense(to-from, len(columns), nil)
	for j, c := range columns {
		v, ok := f.data[c]
		if !ok {
			return nil, fmt.Errorf("unknown column %s", c)
		}
		for i := from; i < to; i++ {
			m.Set(i-from, j, v[i])
		}
	}
	return m, nil
}

// Present filters the given names down to the columns the frame holds, keeping their order.
func (f *Frame) Present(names []string) []string {
	out := make([]string, 0, len(names))
	for _, n := range names {
		if f.Has(n) {
			out = append(out, n)
		}
	}
	return out
}
