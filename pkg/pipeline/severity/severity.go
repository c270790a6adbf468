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

package severity

import (
	"errors"
	"fmt"
	"sort"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/sirupsen/logrus"
)

const (
	LevelField        = "severity"
	CoOccurrenceField = "co_occurrence"
)

var (
	slog = logrus.WithField("component", "severity.Scorer")

	ErrMissingField = errors.New("anomaly table lacks a configured field")
)

type Level int

const (
	Normal Level = iota
	Low
	Medium
	High
)

func (l Level) String() string {
	switch l {
	case Low:
		return "Low"
	case Medium:
		return "Medium"
	case High:
		return "High"
	}
	return "Normal"
}

// Table is a primary anomaly table with a severity level and a co-occurrence count per row.
type Table struct {
	Sensor       string
	Primary      *frame.AnomalyTable
	Levels       []Level
	CoOccurrence []int
}

func (t *Table) Len() int {
	return len(t.Levels)
}

// Counts returns the number of rows per level.
func (t *Table) Counts() map[Level]int {
	out := map[Level]int{}
	for _, l := range t.Levels {
		out[l]++
	}
	return out
}

func (t *Table) OutputColumns() []string {
	return append(t.Primary.OutputColumns(), LevelField, CoOccurrenceField)
}

func (t *Table) Row(i int) config.GenericMap {
	row := t.Primary.Row(i)
	row[LevelField] = t.Levels[i].String()
	row[CoOccurrenceField] = t.CoOccurrence[i]
	return row
}

// Scorer grades flagged rows of a primary sensor from their score and the number of auxiliary
// sensors flagged at the same timestamp.
type Scorer struct {
	scoreField string
	flagField  string
	low        float64
	high       float64
}

func NewScorer(cfg api.Severity) (*Scorer, error) {
	slog.Debugf("entering NewScorer")
	cfg.SetDefaults()
	if *cfg.HighThreshold >= *cfg.LowThreshold {
		return nil, fmt.Errorf("high threshold %v must be lower than low threshold %v", *cfg.HighThreshold, *cfg.LowThreshold)
	}
	return &Scorer{
		scoreField: cfg.ScoreField,
		flagField:  cfg.FlagField,
		low:        *cfg.LowThreshold,
		high:       *cfg.HighThreshold,
	}, nil
}

// Score assigns a level to every row of primary. Unflagged rows are Normal. A flagged row is
// Low, Medium under the low threshold and High under the high threshold. Two co-occurring
// auxiliary flags lift Low to Medium and three or more force High. Auxiliary series without a
// value at a timestamp do not count.
func (s *Scorer) Score(sensor string, primary *frame.AnomalyTable, auxiliary map[string]frame.FlagSeries) (*Table, error) {
	scores, ok := primary.Column(s.scoreField)
	if !ok {
		return nil, fmt.Errorf("%s: score field %q: %w", sensor, s.scoreField, ErrMissingField)
	}
	flags, ok := primary.FlagColumn(s.flagField)
	if !ok {
		return nil, fmt.Errorf("%s: flag field %q: %w", sensor, s.flagField, ErrMissingField)
	}

	names := make([]string, 0, len(auxiliary))
	for name := range auxiliary {
		if name != sensor {
			names = append(names, name)
		}
	}
	sort.Strings(names)

	out := &Table{
		Sensor:       sensor,
		Primary:      primary,
		Levels:       make([]Level, primary.Len()),
		CoOccurrence: make([]int, primary.Len()),
	}
	for i, t := range primary.Times {
		count := 0
		for _, name := range names {
			if flag, present := auxiliary[name].Lookup(t); present && flag {
				count++
			}
		}
		out.CoOccurrence[i] = count
		if flags[i] {
			out.Levels[i] = s.level(scores[i], count)
		}
	}
	slog.Debugf("%s: severity counts %v against %d auxiliary sensors", sensor, out.Counts(), len(names))
	return out, nil
}

func (s *Scorer) level(score float64, coOccurrence int) Level {
	level := Low
	if score < s.low {
		level = Medium
	}
	if score < s.high {
		level = High
	}
	if coOccurrence >= 2 && level == Low {
		level = Medium
	}
	if coOccurrence >= 3 {
		level = High
	}
	return level
}
