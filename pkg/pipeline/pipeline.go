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
	"errors"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/heptiolabs/healthcheck"
	"github.com/netobserv/gopipes/pkg/node"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/detect"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/forecast"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/ingest"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/preprocess"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/rca"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/severity"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/write"
	log "github.com/sirupsen/logrus"
)

// interface definitions of pipeline components
const (
	StageIngest   = "ingest"
	StageDetect   = "detect"
	StageCollect  = "collect"
	StageSeverity = "severity"
	StageRCA      = "rca"
	StageForecast = "forecast"
	StageWrite    = "write"
)

const SummaryBatch = "pipeline_summary"

var SummaryColumns = []string{"sensor", "method", "anomalies", "total"}

// ErrInterrupted is returned when the process is asked to stop before the batch is complete.
var ErrInterrupted = errors.New("pipeline interrupted")

type runState int32

const (
	stateCreated runState = iota
	stateIngesting
	stateAnalysing
	stateDone
	stateFailed
)

type namedWriter struct {
	name   string
	writer write.Writer
}

// SensorResult holds what detection produced for one sensor.
type SensorResult struct {
	Sensor   string
	Profile  api.SensorProfile
	Frame    *frame.Frame
	Features []string
	IF       *frame.AnomalyTable
	PCA      *frame.AnomalyTable
}

type SummaryRow struct {
	Sensor    string
	Method    string
	Anomalies int
	Total     int
}

func (s SummaryRow) Row() config.GenericMap {
	return config.GenericMap{"sensor": s.Sensor, "method": s.Method, "anomalies": s.Anomalies, "total": s.Total}
}

// Report is the outcome of one batch run.
type Report struct {
	RunID     string
	Started   time.Time
	Finished  time.Time
	Sensors   []*SensorResult
	Summary   []SummaryRow
	Severity  []*severity.Table
	RCA       []rca.Entry
	Forecasts []forecast.Result
}

// Pipeline manager
type Pipeline struct {
	cfg          *config.ConfigFileStruct
	runID        string
	clock        clock.Clock
	ingester     ingest.Ingester
	preprocessor *preprocess.Preprocessor
	forest       *detect.IsolationForest
	pca          *detect.WindowedPCA
	scorer       *severity.Scorer
	analyzer     *rca.Analyzer
	forecaster   *forecast.Batch
	writers      []namedWriter
	metrics      *metrics
	exitChan     <-chan struct{}
	state        atomic.Int32
}

// NewPipeline defines the pipeline elements
func NewPipeline(cfg *config.ConfigFileStruct) (*Pipeline, error) {
	log.Debugf("entering NewPipeline")
	return newBuilder(cfg, operational.NewMetrics(&cfg.MetricsSettings), clock.New()).build()
}

func (p *Pipeline) RunID() string {
	return p.runID
}

// Run ingests every sensor, detects anomalies per sensor and, once all sensors are analysed,
// fuses severities, explains anomalies, forecasts and writes every report.
func (p *Pipeline) Run() (*Report, error) {
	timer := p.metrics.stageDurationTimer("run")
	defer timer.ObserveMilliseconds()
	report := &Report{RunID: p.runID, Started: p.clock.Now()}
	log.Infof("starting run %s", p.runID)
	// buffered writers flush on close, interrupted runs included
	defer p.closeWriters()

	p.setState(stateIngesting)
	results, err := p.detectAll()
	if err != nil {
		p.setState(stateFailed)
		return nil, err
	}
	report.Sensors = results
	p.setState(stateAnalysing)
	if p.interrupted() {
		p.setState(stateFailed)
		return nil, ErrInterrupted
	}

	for _, res := range results {
		p.writeTable(res.IF)
		if res.PCA != nil {
			p.writeTable(res.PCA)
		}
	}
	report.Summary = p.summary(results)
	p.write(summaryBatch(report.Summary))

	report.Severity = p.fuseSeverities(results)
	report.RCA = p.explain(results)
	if p.interrupted() {
		p.setState(stateFailed)
		return nil, ErrInterrupted
	}
	if p.forecaster != nil {
		report.Forecasts = p.runForecasts(results)
	}

	report.Finished = p.clock.Now()
	p.setState(stateDone)
	log.Infof("run %s done: %d sensors analysed", p.runID, len(results))
	return report, nil
}

// detectAll runs the detection graph: the ingester feeds a detection stage that sends its
// results to a collector. It returns once the collector has received every result.
func (p *Pipeline) detectAll() ([]*SensorResult, error) {
	timer := p.metrics.stageDurationTimer(StageDetect)
	defer timer.ObserveMilliseconds()

	start := node.AsInit(p.ingester.Ingest)
	detectNode := node.AsMiddle(func(in <-chan *frame.SensorSeries, out chan<- *SensorResult) {
		for series := range in {
			if res := p.analyseSensor(series); res != nil {
				out <- res
			}
		}
	})
	var results []*SensorResult
	seen := map[string]struct{}{}
	collect := node.AsTerminal(func(in <-chan *SensorResult) {
		for res := range in {
			key := strings.ToLower(res.Sensor)
			if _, dup := seen[key]; dup {
				log.Warnf("sensor %s ingested twice, keeping the first sheet", res.Sensor)
				p.metrics.skipped("duplicate")
				continue
			}
			seen[key] = struct{}{}
			results = append(results, res)
		}
	})
	if err := connect(StageIngest, start, StageDetect, detectNode); err != nil {
		return nil, err
	}
	if err := connect(StageDetect, detectNode, StageCollect, collect); err != nil {
		return nil, err
	}
	start.Start()
	<-collect.Done()
	return results, nil
}

func (p *Pipeline) analyseSensor(series *frame.SensorSeries) *SensorResult {
	slog := log.WithField("sensor", series.Name)
	profile, ok := p.cfg.ProfileFor(series.Name)
	if !ok {
		slog.Warn("no sensor profile, skipping")
		p.metrics.skipped("no_profile")
		return nil
	}
	features := selectFeatures(profile, series)
	if len(features) == 0 {
		slog.Warn("no feature selected, skipping")
		p.metrics.skipped("no_features")
		return nil
	}
	f := p.preprocessor.Process(series, features)
	if f.Len() == 0 {
		slog.Warn("nothing left after preprocessing, skipping")
		p.metrics.skipped("empty")
		return nil
	}
	if f.Len() < p.forest.MinRows() {
		slog.Warnf("%d rows after preprocessing, %d needed, skipping", f.Len(), p.forest.MinRows())
		p.metrics.skipped("too_short")
		return nil
	}
	res := &SensorResult{Sensor: series.Name, Profile: profile, Frame: f, Features: f.Present(features)}

	ifTable, err := p.forest.Detect(f, res.Features)
	if err != nil {
		slog.WithError(err).Error("isolation forest failed")
		p.metrics.failed(frame.MethodIsolationForest)
		return nil
	}
	res.IF = ifTable
	p.metrics.anomaliesFlagged.WithLabelValues(res.Sensor, frame.MethodIsolationForest).Set(float64(ifTable.Anomalies()))
	slog.Infof("IF: %d anomalies in %d rows", ifTable.Anomalies(), ifTable.Len())

	if profile.PCA {
		pcaTable, err := p.pca.Detect(f, res.Features)
		if err != nil {
			slog.WithError(err).Error("windowed PCA failed")
			p.metrics.failed(frame.MethodWindowedPCA)
		} else {
			res.PCA = pcaTable
			p.metrics.anomaliesFlagged.WithLabelValues(res.Sensor, frame.MethodWindowedPCA).Set(float64(pcaTable.Anomalies()))
			slog.Infof("PCA: %d anomalies in %d windows", pcaTable.Anomalies(), pcaTable.Len())
		}
	}
	return res
}

func (p *Pipeline) summary(results []*SensorResult) []SummaryRow {
	var rows []SummaryRow
	for _, res := range results {
		rows = append(rows, SummaryRow{Sensor: res.Sensor, Method: strings.ToUpper(res.IF.Method), Anomalies: res.IF.Anomalies(), Total: res.IF.Len()})
		if res.PCA != nil {
			rows = append(rows, SummaryRow{Sensor: res.Sensor, Method: strings.ToUpper(res.PCA.Method), Anomalies: res.PCA.Anomalies(), Total: res.PCA.Len()})
		}
	}
	return rows
}

// fuseSeverities scores every primary sensor against the isolation forest flags of all the others.
func (p *Pipeline) fuseSeverities(results []*SensorResult) []*severity.Table {
	timer := p.metrics.stageDurationTimer(StageSeverity)
	defer timer.ObserveMilliseconds()

	flags := make(map[string]frame.FlagSeries, len(results))
	for _, res := range results {
		flags[res.Sensor] = res.IF.FlagSeries()
	}
	var tables []*severity.Table
	for _, res := range results {
		if res.Profile.Severity != api.SeverityRolePrimary {
			continue
		}
		table, err := p.scorer.Score(res.Sensor, res.IF, flags)
		if err != nil {
			log.WithError(err).Errorf("%s: severity scoring failed", res.Sensor)
			p.metrics.failed(StageSeverity)
			continue
		}
		p.metrics.severity(table)
		tables = append(tables, table)
		rows := make([]config.GenericMap, table.Len())
		for i := range rows {
			rows[i] = table.Row(i)
		}
		p.write(&write.Batch{
			Name:    fmt.Sprintf("anomalies_%s_with_severity", res.Sensor),
			Sensor:  res.Sensor,
			Columns: table.OutputColumns(),
			Rows:    rows,
		})
	}
	return tables
}

// explain runs root cause analysis on the sensors asking for it and logs a sample of the report.
func (p *Pipeline) explain(results []*SensorResult) []rca.Entry {
	timer := p.metrics.stageDurationTimer(StageRCA)
	defer timer.ObserveMilliseconds()

	var all []rca.Entry
	for _, res := range results {
		if !res.Profile.RCA {
			continue
		}
		entries, err := p.analyzer.Analyze(res.Sensor, res.IF)
		if err != nil {
			log.WithError(err).Errorf("%s: root cause analysis failed", res.Sensor)
			p.metrics.failed(StageRCA)
			continue
		}
		p.metrics.rcaEntries.WithLabelValues(res.Sensor).Add(float64(len(entries)))
		for i, e := range entries {
			if i == p.analyzer.Limit() {
				break
			}
			log.Info(e.String())
		}
		rows := make([]config.GenericMap, len(entries))
		for i := range entries {
			rows[i] = entries[i].Row()
		}
		p.write(&write.Batch{Name: "rca_" + res.Sensor, Sensor: res.Sensor, Columns: rca.OutputColumns, Rows: rows})
		all = append(all, entries...)
	}
	return all
}

func (p *Pipeline) runForecasts(results []*SensorResult) []forecast.Result {
	timer := p.metrics.stageDurationTimer(StageForecast)
	defer timer.ObserveMilliseconds()

	inputs := make([]forecast.Input, 0, len(results))
	for _, res := range results {
		inputs = append(inputs, forecast.Input{Sensor: res.Sensor, Frame: res.Frame, Features: res.Features, Anomalies: res.IF})
	}
	out := p.forecaster.Run(inputs)
	for i := range out {
		res := &out[i]
		for _, w := range res.Warnings {
			log.Warn(w.String())
		}
		p.write(&write.Batch{Name: "forecasts_" + res.Engine, Columns: forecast.PointColumns, Rows: res.PointRows()})
		p.write(&write.Batch{Name: "warnings_" + res.Engine, Columns: forecast.WarningColumns, Rows: res.WarningRows()})
		p.write(&write.Batch{
			Name:    "forecast_summary_" + res.Engine,
			Columns: forecast.SummaryColumns,
			Rows:    forecast.SummaryRows(res.Summary(p.forecaster.SummarySteps())),
		})
	}
	return out
}

func (p *Pipeline) writeTable(t *frame.AnomalyTable) {
	rows := make([]config.GenericMap, t.Len())
	for i := range rows {
		rows[i] = t.Row(i)
	}
	p.write(&write.Batch{
		Name:    fmt.Sprintf("anomalies_%s_%s", t.Frame.Sensor, t.Method),
		Sensor:  t.Frame.Sensor,
		Columns: t.OutputColumns(),
		Rows:    rows,
	})
}

func summaryBatch(summary []SummaryRow) *write.Batch {
	rows := make([]config.GenericMap, len(summary))
	for i := range summary {
		rows[i] = summary[i].Row()
	}
	return &write.Batch{Name: SummaryBatch, Columns: SummaryColumns, Rows: rows}
}

// write hands the batch to every writer; a failing writer doesn't prevent the others from running.
func (p *Pipeline) write(b *write.Batch) {
	for _, w := range p.writers {
		if err := w.writer.Write(b); err != nil {
			log.WithError(err).Errorf("%s: can't write %s", w.name, b.Name)
		}
	}
}

func (p *Pipeline) closeWriters() {
	closeAll(p.writers)
}

func (p *Pipeline) interrupted() bool {
	select {
	case <-p.exitChan:
		return true
	default:
		return false
	}
}

func (p *Pipeline) setState(s runState) {
	p.state.Store(int32(s))
}

func (p *Pipeline) getState() runState {
	return runState(p.state.Load())
}

// IsReady turns ready once every sensor has been ingested and analysed
func (p *Pipeline) IsReady() healthcheck.Check {
	return func() error {
		switch p.getState() {
		case stateAnalysing, stateDone:
			return nil
		case stateFailed:
			return fmt.Errorf("pipeline failed")
		}
		return fmt.Errorf("pipeline is still ingesting")
	}
}

// IsAlive stays alive until the run fails
func (p *Pipeline) IsAlive() healthcheck.Check {
	return func() error {
		if p.getState() == stateFailed {
			return fmt.Errorf("pipeline failed")
		}
		return nil
	}
}
