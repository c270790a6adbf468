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
	"math"
	"math/rand"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	log "github.com/sirupsen/logrus"
)

const (
	defaultSamples   = 288
	defaultInterval  = 10 * time.Minute
	defaultSpikeSize = 6
	dailyPeriod      = 24 * time.Hour
)

var (
	defaultSyntheticSensors  = []string{"S2103"}
	defaultSyntheticFeatures = []string{"CO2", "Temperature", "Humidity"}
	// SyntheticStart is the timestamp of the first generated sample
	SyntheticStart = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
)

type IngestSynthetic struct {
	params  api.IngestSynthetic
	metrics *metrics
}

// Ingest generates one series per configured sensor: a daily sine wave per feature with
// gaussian noise and optional spikes
func (ingestS *IngestSynthetic) Ingest(out chan<- *frame.SensorSeries) {
	log.Debugf("entering IngestSynthetic Ingest, params = %v", ingestS.params)
	timer := ingestS.metrics.stageDurationTimer()
	defer timer.ObserveMilliseconds()

	rng := rand.New(rand.NewSource(ingestS.params.Seed))
	for _, sensor := range ingestS.params.Sensors {
		series := ingestS.generate(sensor, rng)
		ingestS.metrics.sheet(series, 0)
		out <- series
	}
}

func (ingestS *IngestSynthetic) generate(sensor string, rng *rand.Rand) *frame.SensorSeries {
	p := ingestS.params
	times := make([]time.Time, p.Samples)
	rows := make([]config.GenericMap, p.Samples)
	for i := range rows {
		times[i] = SyntheticStart.Add(time.Duration(i) * p.Interval.Duration)
		rows[i] = make(config.GenericMap, len(p.Features))
	}
	for fi, feature := range p.Features {
		base := 20 + 10*float64(fi)
		amplitude := 0.1 * base
		noise := 0.02 * base
		spike := p.SpikeSize * math.Sqrt(amplitude*amplitude/2+noise*noise)
		for i := range rows {
			phase := 2 * math.Pi * float64(times[i].Sub(SyntheticStart)) / float64(dailyPeriod)
			rows[i][feature] = base + amplitude*math.Sin(phase) + noise*rng.NormFloat64()
		}
		for s := 0; s < p.Spikes; s++ {
			i := rng.Intn(p.Samples)
			rows[i][feature] = rows[i][feature].(float64) + spike
		}
	}
	return frame.NewSensorSeries(sensor, append([]string{}, p.Features...), times, rows)
}

// NewIngestSynthetic create a new ingester
func NewIngestSynthetic(opMetrics *operational.Metrics, stageName string, params *api.IngestSynthetic) (Ingester, error) {
	log.Debugf("entering NewIngestSynthetic")
	jsonIngestSynthetic := api.IngestSynthetic{}
	if params != nil {
		jsonIngestSynthetic = *params
	}
	if len(jsonIngestSynthetic.Sensors) == 0 {
		jsonIngestSynthetic.Sensors = defaultSyntheticSensors
	}
	if len(jsonIngestSynthetic.Features) == 0 {
		jsonIngestSynthetic.Features = defaultSyntheticFeatures
	}
	if jsonIngestSynthetic.Samples <= 0 {
		jsonIngestSynthetic.Samples = defaultSamples
	}
	if jsonIngestSynthetic.Interval.Duration <= 0 {
		jsonIngestSynthetic.Interval.Duration = defaultInterval
	}
	if jsonIngestSynthetic.SpikeSize == 0 {
		jsonIngestSynthetic.SpikeSize = defaultSpikeSize
	}
	log.Debugf("params = %v", jsonIngestSynthetic)

	return &IngestSynthetic{
		params:  jsonIngestSynthetic,
		metrics: newMetrics(opMetrics, stageName, api.SyntheticType),
	}, nil
}
