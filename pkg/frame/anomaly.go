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
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
)

const (
	MethodIsolationForest = "if"
	MethodWindowedPCA     = "pca"
)

// AnomalyTable holds a detector's output for the rows [Offset, Offset+len(Times)) of Frame.
// The frame is shared with the detector input and is never modified.
type AnomalyTable struct {
	Frame      *Frame
	Method     string
	ScoreField string
	FlagField  string
	Offset     int
	Times      []time.Time
	Scores     []float64
	Flags      []bool
	Threshold  float64
}

func (a *AnomalyTable) Len() int {
	return len(a.Times)
}

// Column resolves the score field or any frame column, aligned with the table rows.
func (a *AnomalyTable) Column(name string) ([]float64, bool) {
	if name == a.ScoreField {
		out := make([]float64, len(a.Scores))
		copy(out, a.Scores)
		return out, true
	}
	if a.Frame == nil || !a.Frame.Has(name) {
		return nil, false
	}
	return a.Frame.Column(name)[a.Offset : a.Offset+a.Len()], true
}

// FlagColumn returns the flags when name designates the flag field.
func (a *AnomalyTable) FlagColumn(name string) ([]bool, bool) {
	if name != a.FlagField {
		return nil, false
	}
	out := make([]bool, len(a.Flags))
	copy(out, a.Flags)
	return out, true
}

// FeatureColumns lists the frame columns carried by the table.
func (a *AnomalyTable) FeatureColumns() []string {
	if a.Frame == nil {
		return nil
	}
	return a.Frame.Columns
}

// OutputColumns is the column order used when the table is persisted.
func (a *AnomalyTable) OutputColumns() []string {
	cols := []string{"time"}
	cols = append(cols, a.FeatureColumns()...)
	cols = append(cols, a.ScoreField, a.FlagField)
	if a.Method == MethodWindowedPCA {
		cols = append(cols, "threshold")
	}
	return cols
}

// Row renders the i-th table row as a generic map, time first.
func (a *AnomalyTable) Row(i int) config.GenericMap {
	row := config.GenericMap{"time": a.Times[i]}
	for _, c := range a.FeatureColumns() {
		v, _ := a.Frame.Value(c, a.Offset+i)
		row[c] = v
	}
	row[a.ScoreField] = a.Scores[i]
	row[a.FlagField] = a.Flags[i]
	if a.Method == MethodWindowedPCA {
		row["threshold"] = a.Threshold
	}
	return row
}

// Anomalies counts the flagged rows.
func (a *AnomalyTable) Anomalies() int {
	n := 0
	for _, f := range a.Flags {
		if f {
			n++
		}
	}
	return n
}

// FlagSeries returns the flags keyed by timestamp.
func (a *AnomalyTable) FlagSeries() FlagSeries {
	fs := make(FlagSeries, len(a.Times))
	for i, t := range a.Times {
		fs[t.UnixNano()] = a.Flags[i]
	}
	return fs
}
