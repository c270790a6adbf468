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

package rca

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

var rlog = logrus.WithField("component", "rca.Analyzer")

type Cause struct {
	Feature string
	ZScore  float64
}

// Entry explains one anomalous row by its most deviating features.
type Entry struct {
	Sensor string
	Time   time.Time
	Causes []Cause
}

func (e Entry) String() string {
	parts := make([]string, len(e.Causes))
	for i, c := range e.Causes {
		parts[i] = fmt.Sprintf("%s (z=%.2f)", c.Feature, c.ZScore)
	}
	return fmt.Sprintf("[%s] RCA %s: %s -> probable main cause", e.Time.UTC().Format(time.RFC3339), e.Sensor, strings.Join(parts, ", "))
}

func (e Entry) Row() config.GenericMap {
	row := config.GenericMap{
		"time":   e.Time,
		"sensor": e.Sensor,
		"report": e.String(),
	}
	if len(e.Causes) > 0 {
		row["feature"] = e.Causes[0].Feature
		row["z"] = e.Causes[0].ZScore
	}
	return row
}

var OutputColumns = []string{"time", "sensor", "feature", "z", "report"}

// Analyzer ranks the features of each flagged row by their absolute z-score over the table.
type Analyzer struct {
	cfg api.RCA
}

func NewAnalyzer(cfg api.RCA) *Analyzer {
	rlog.Debugf("entering NewAnalyzer")
	cfg.SetDefaults()
	return &Analyzer{cfg: cfg}
}

// Analyze returns one entry per row flagged in flagField, in table order. Means and sample
// standard deviations are taken over the whole table; features with a zero or undefined std
// are not ranked.
func (a *Analyzer) Analyze(sensor string, table *frame.AnomalyTable) ([]Entry, error) {
	flags, ok := table.FlagColumn(a.cfg.FlagField)
	if !ok {
		return nil, fmt.Errorf("%s: flag field %q not in table", sensor, a.cfg.FlagField)
	}
	features := a.cfg.Features
	if len(features) == 0 {
		for _, c := range table.FeatureColumns() {
			if c != a.cfg.ScoreField {
				features = append(features, c)
			}
		}
	}

	type featureStats struct {
		name   string
		values []float64
		mean   float64
		std    float64
	}
	var ranked []featureStats
	for _, feat := range features {
		if feat == a.cfg.ScoreField {
			continue
		}
		values, ok := table.Column(feat)
		if !ok {
			rlog.Warnf("%s: feature %s not in table, ignoring it", sensor, feat)
			continue
		}
		mean, std := stat.MeanStdDev(values, nil)
		if std == 0 || math.IsNaN(std) {
			continue
		}
		ranked = append(ranked, featureStats{name: feat, values: values, mean: mean, std: std})
	}

	var entries []Entry
	for i, flagged := range flags {
		if !flagged {
			continue
		}
		causes := make([]Cause, 0, len(ranked))
		for _, fs := range ranked {
			causes = append(causes, Cause{Feature: fs.name, ZScore: math.Abs(fs.values[i]-fs.mean) / fs.std})
		}
		sort.SliceStable(causes, func(x, y int) bool { return causes[x].ZScore > causes[y].ZScore })
		if len(causes) > a.cfg.TopK {
			causes = causes[:a.cfg.TopK]
		}
		entries = append(entries, Entry{Sensor: sensor, Time: table.Times[i], Causes: causes})
	}
	rlog.Debugf("%s: %d anomalies explained over %d ranked features", sensor, len(entries), len(ranked))
	return entries, nil
}

// Limit is the number of report lines worth logging.
func (a *Analyzer) Limit() int {
	return a.cfg.Limit
}
