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

package forecast

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Knetic/govaluate"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/sirupsen/logrus"
)

var (
	blog = logrus.WithField("component", "forecast.Batch")

	forecastFailures = operational.DefineMetric(
		"forecast_failures_total",
		"Number of sensor features an engine failed to forecast",
		operational.TypeCounter,
		"engine",
	)
	forecastSkipped = operational.DefineMetric(
		"forecast_skipped_total",
		"Number of sensor features skipped for lack of training rows",
		operational.TypeCounter,
		"engine",
	)
	warningsRaised = operational.DefineMetric(
		"forecast_warnings_total",
		"Number of early warnings raised",
		operational.TypeCounter,
		"engine",
	)
)

// Input is one sensor's preprocessed frame, the base features to forecast and, when available,
// the isolation forest table whose flags mark the rows to leave out of training.
type Input struct {
	Sensor    string
	Frame     *frame.Frame
	Features  []string
	Anomalies *frame.AnomalyTable
}

type Point struct {
	Sensor  string
	Feature string
	Time    time.Time
	Value   float64
}

type Warning struct {
	Engine    string
	Sensor    string
	Feature   string
	Time      time.Time
	Value     float64
	Threshold float64
}

func (w Warning) String() string {
	return fmt.Sprintf("%s-%s: %s forecast %.2f crosses threshold %v at %s",
		w.Sensor, w.Feature, w.Engine, w.Value, w.Threshold, w.Time.UTC().Format(time.RFC3339))
}

// Result gathers an engine's forecasts, ordered by sensor, feature and time.
type Result struct {
	Engine   string
	Points   []Point
	Warnings []Warning
}

var (
	PointColumns   = []string{"time", "sensor", "feature", "forecast"}
	WarningColumns = []string{"time", "sensor", "feature", "forecast", "threshold", "message"}
	SummaryColumns = []string{"sensor", "feature", "time", "forecast"}
)

func (r *Result) PointRows() []config.GenericMap {
	rows := make([]config.GenericMap, 0, len(r.Points))
	for _, p := range r.Points {
		rows = append(rows, config.GenericMap{"time": p.Time, "sensor": p.Sensor, "feature": p.Feature, "forecast": p.Value})
	}
	return rows
}

func (r *Result) WarningRows() []config.GenericMap {
	rows := make([]config.GenericMap, 0, len(r.Warnings))
	for _, w := range r.Warnings {
		rows = append(rows, config.GenericMap{
			"time": w.Time, "sensor": w.Sensor, "feature": w.Feature,
			"forecast": w.Value, "threshold": w.Threshold, "message": w.String(),
		})
	}
	return rows
}

// Summary keeps the last steps points of each (sensor, feature) forecast.
func (r *Result) Summary(steps int) []Point {
	var out []Point
	for i := 0; i < len(r.Points); {
		j := i
		for j < len(r.Points) && r.Points[j].Sensor == r.Points[i].Sensor && r.Points[j].Feature == r.Points[i].Feature {
			j++
		}
		from := j - steps
		if from < i {
			from = i
		}
		out = append(out, r.Points[from:j]...)
		i = j
	}
	return out
}

func SummaryRows(points []Point) []config.GenericMap {
	rows := make([]config.GenericMap, 0, len(points))
	for _, p := range points {
		rows = append(rows, config.GenericMap{"sensor": p.Sensor, "feature": p.Feature, "time": p.Time, "forecast": p.Value})
	}
	return rows
}

type engineRun struct {
	name             string
	engine           Engine
	steps            int
	minRows          int
	excludeAnomalies bool
	warning          *govaluate.EvaluableExpression
	failures         prometheus.Counter
	skipped          prometheus.Counter
	warnings         prometheus.Counter
}

// Batch runs every configured engine over every sensor and base feature.
type Batch struct {
	runs         []engineRun
	thresholds   map[string]float64
	summarySteps int
}

func NewBatch(cfg api.Forecast, opMetrics *operational.Metrics) (*Batch, error) {
	blog.Debugf("entering NewBatch")
	cfg.SetDefaults()
	b := &Batch{
		thresholds:   map[string]float64{},
		summarySteps: cfg.SummarySteps,
	}
	// configuration keys may have been lowercased on the way in
	for k, v := range cfg.Thresholds {
		b.thresholds[strings.ToLower(k)] = v
	}
	for _, e := range cfg.Engines {
		engine, err := NewEngine(e)
		if err != nil {
			return nil, err
		}
		expr, err := govaluate.NewEvaluableExpression(e.WarningExpression)
		if err != nil {
			return nil, fmt.Errorf("engine %s: can't parse warning expression %q: %w", e.Type, e.WarningExpression, err)
		}
		name := string(e.Type)
		b.runs = append(b.runs, engineRun{
			name:             name,
			engine:           engine,
			steps:            e.Steps,
			minRows:          e.MinRows,
			excludeAnomalies: *e.ExcludeAnomalies,
			warning:          expr,
			failures:         opMetrics.NewCounter(&forecastFailures, name),
			skipped:          opMetrics.NewCounter(&forecastSkipped, name),
			warnings:         opMetrics.NewCounter(&warningsRaised, name),
		})
	}
	return b, nil
}

func (b *Batch) SummarySteps() int {
	return b.summarySteps
}

// Threshold returns the early warning threshold of a feature, matched case-insensitively.
func (b *Batch) Threshold(feature string) (float64, bool) {
	v, ok := b.thresholds[strings.ToLower(feature)]
	return v, ok
}

// Run forecasts all inputs with every engine. Failing or too short series are logged and
// skipped.
func (b *Batch) Run(inputs []Input) []Result {
	sorted := make([]Input, len(inputs))
	copy(sorted, inputs)
	sort.SliceStable(sorted, func(i, j int) bool { return sorted[i].Sensor < sorted[j].Sensor })

	results := make([]Result, 0, len(b.runs))
	for i := range b.runs {
		run := &b.runs[i]
		res := Result{Engine: run.name}
		for _, in := range sorted {
			for _, feat := range in.Frame.Present(in.Features) {
				points, warning, err := b.forecast(run, in, feat)
				if err != nil {
					if errors.Is(err, ErrInsufficientData) {
						run.skipped.Inc()
						blog.Warnf("%s: %s-%s skipped: %v", run.name, in.Sensor, feat, err)
					} else {
						run.failures.Inc()
						blog.Errorf("%s: %s-%s failed: %v", run.name, in.Sensor, feat, err)
					}
					continue
				}
				res.Points = append(res.Points, points...)
				if warning != nil {
					run.warnings.Inc()
					res.Warnings = append(res.Warnings, *warning)
				}
			}
		}
		blog.Infof("%s: %d forecast points, %d early warnings", run.name, len(res.Points), len(res.Warnings))
		results = append(results, res)
	}
	return results
}

func (b *Batch) forecast(run *engineRun, in Input, feat string) ([]Point, *Warning, error) {
	series := trainingSeries(in, feat, run.excludeAnomalies)
	if series.Len() < run.minRows {
		return nil, nil, fmt.Errorf("%d training rows, %d needed: %w", series.Len(), run.minRows, ErrInsufficientData)
	}
	values, err := run.engine.Forecast(series, run.steps)
	if err != nil {
		return nil, nil, err
	}

	last := series.Times[series.Len()-1]
	points := make([]Point, len(values))
	for k, v := range values {
		points[k] = Point{Sensor: in.Sensor, Feature: feat, Time: last.Add(time.Duration(k+1) * series.Cadence), Value: v}
	}

	threshold, ok := b.Threshold(feat)
	if !ok {
		return points, nil, nil
	}
	for k, p := range points {
		result, err := run.warning.Evaluate(map[string]interface{}{
			"value":     p.Value,
			"threshold": threshold,
			"step":      float64(k + 1),
			"sensor":    in.Sensor,
			"feature":   feat,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("can't evaluate warning expression: %w", err)
		}
		if raised, ok := result.(bool); ok && raised {
			return points, &Warning{Engine: run.name, Sensor: in.Sensor, Feature: feat, Time: p.Time, Value: p.Value, Threshold: threshold}, nil
		}
	}
	return points, nil, nil
}

// trainingSeries extracts a feature, leaving out the rows flagged by the isolation forest when
// asked to.
func trainingSeries(in Input, feat string, excludeAnomalies bool) Series {
	values := in.Frame.Column(feat)
	var excluded frame.FlagSeries
	if excludeAnomalies && in.Anomalies != nil {
		excluded = in.Anomalies.FlagSeries()
	}
	s := Series{Cadence: in.Frame.Cadence}
	for i, t := range in.Frame.Times {
		if flag, present := excluded.Lookup(t); present && flag {
			continue
		}
		s.Times = append(s.Times, t)
		s.Values = append(s.Values, values[i])
	}
	return s
}
