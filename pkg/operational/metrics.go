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

package operational

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/prometheus/client_golang/prometheus"
	log "github.com/sirupsen/logrus"
)

type MetricType string

const (
	TypeCounter   MetricType = "counter"
	TypeGauge     MetricType = "gauge"
	TypeHistogram MetricType = "histogram"
)

type MetricDefinition struct {
	Name   string
	Help   string
	Type   MetricType
	Labels []string
}

var (
	allMetrics   = []MetricDefinition{}
	allMetricsMu sync.Mutex
)

// DefineMetric declares an operational metric; it is only registered once a Metrics instance creates it.
func DefineMetric(name, help string, t MetricType, labels ...string) MetricDefinition {
	def := MetricDefinition{
		Name:   name,
		Help:   help,
		Type:   t,
		Labels: labels,
	}
	allMetricsMu.Lock()
	allMetrics = append(allMetrics, def)
	allMetricsMu.Unlock()
	return def
}

var (
	stageDurationHisto = DefineMetric(
		"stage_duration_ms",
		"Pipeline stage duration in milliseconds",
		TypeHistogram,
		"stage",
	)
	recordsWritten = DefineMetric(
		"records_written",
		"Number of output rows written",
		TypeCounter,
		"writer",
	)
)

// Metrics registers operational metrics with a common prefix. Collectors are cached so that
// several components can share the same metric.
type Metrics struct {
	settings   *config.MetricsSettings
	registerer prometheus.Registerer
	mu         sync.Mutex
	collectors map[string]prometheus.Collector
}

func NewMetrics(settings *config.MetricsSettings) *Metrics {
	return NewMetricsWithRegisterer(settings, prometheus.DefaultRegisterer)
}

func NewMetricsWithRegisterer(settings *config.MetricsSettings, registerer prometheus.Registerer) *Metrics {
	if settings == nil {
		settings = &config.MetricsSettings{}
	}
	return &Metrics{
		settings:   settings,
		registerer: registerer,
		collectors: map[string]prometheus.Collector{},
	}
}

func (o *Metrics) fullName(def *MetricDefinition) string {
	return o.settings.Prefix + def.Name
}

// register registers the collector, or returns the collector previously registered under the same name.
func (o *Metrics) register(def *MetricDefinition, c prometheus.Collector) prometheus.Collector {
	o.mu.Lock()
	defer o.mu.Unlock()
	name := o.fullName(def)
	if existing, ok := o.collectors[name]; ok {
		return existing
	}
	if err := o.registerer.Register(c); err != nil {
		are := prometheus.AlreadyRegisteredError{}
		if errors.As(err, &are) {
			c = are.ExistingCollector
		} else {
			log.Errorf("could not register %s: %v", name, err)
		}
	}
	o.collectors[name] = c
	return c
}

func (o *Metrics) NewCounter(def *MetricDefinition, labels ...string) prometheus.Counter {
	return o.NewCounterVec(def).WithLabelValues(labels...)
}

func (o *Metrics) NewCounterVec(def *MetricDefinition) *prometheus.CounterVec {
	verifyMetricType(def, TypeCounter)
	c := prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: o.fullName(def),
		Help: def.Help,
	}, def.Labels)
	return o.register(def, c).(*prometheus.CounterVec)
}

func (o *Metrics) NewGaugeVec(def *MetricDefinition) *prometheus.GaugeVec {
	verifyMetricType(def, TypeGauge)
	g := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Name: o.fullName(def),
		Help: def.Help,
	}, def.Labels)
	return o.register(def, g).(*prometheus.GaugeVec)
}

func (o *Metrics) NewHistogramVec(def *MetricDefinition, buckets []float64) *prometheus.HistogramVec {
	verifyMetricType(def, TypeHistogram)
	h := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Name:    o.fullName(def),
		Help:    def.Help,
		Buckets: buckets,
	}, def.Labels)
	return o.register(def, h).(*prometheus.HistogramVec)
}

func (o *Metrics) GetOrCreateStageDurationHisto() *prometheus.HistogramVec {
	return o.NewHistogramVec(&stageDurationHisto, []float64{1, 10, 100, 1000, 10000, 60000})
}

func (o *Metrics) CreateRecordsWrittenCounter(writer string) prometheus.Counter {
	return o.NewCounter(&recordsWritten, writer)
}

func verifyMetricType(def *MetricDefinition, t MetricType) {
	if def.Type != t {
		log.Panicf("operational metric %q is of type %q but is being registered as %q", def.Name, def.Type, t)
	}
}

// Timer observes the time elapsed between its creation and ObserveMilliseconds.
type Timer struct {
	startTime *time.Time
	observer  prometheus.Observer
}

func NewTimer(o prometheus.Observer) *Timer {
	now := time.Now()
	return &Timer{
		startTime: &now,
		observer:  o,
	}
}

// ObserveMilliseconds stops the timer and returns the elapsed duration.
func (t *Timer) ObserveMilliseconds() time.Duration {
	elapsed := time.Since(*t.startTime)
	t.observer.Observe(float64(elapsed.Milliseconds()))
	return elapsed
}

// GetDocumentation renders every defined metric as markdown.
func GetDocumentation() string {
	allMetricsMu.Lock()
	defs := make([]MetricDefinition, len(allMetrics))
	copy(defs, allMetrics)
	allMetricsMu.Unlock()
	sort.Slice(defs, func(i, j int) bool { return defs[i].Name < defs[j].Name })

	doc := ""
	for _, opts := range defs {
		doc += fmt.Sprintf(
			`
### %s
| **Name** | %s |
|:---|:---|
| **Description** | %s |
| **Type** | %s |
| **Labels** | %s |

`,
			opts.Name,
			opts.Name,
			opts.Help,
			opts.Type,
			strings.Join(opts.Labels, ", "),
		)
	}

	return doc
}
