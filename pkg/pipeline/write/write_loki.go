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
	"fmt"
	"strings"
	"time"

	"github.com/benbjohnson/clock"
	logAdapter "github.com/go-kit/kit/log/logrus"
	jsonIter "github.com/json-iterator/go"
	"github.com/netobserv/loki-client-go/loki"
	"github.com/netobserv/loki-client-go/pkg/backoff"
	"github.com/netobserv/loki-client-go/pkg/urlutil"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/prometheus/common/model"
	log "github.com/sirupsen/logrus"
)

var (
	keyReplacer = strings.NewReplacer("/", "_", ".", "_", "-", "_", " ", "_")
)

type emitter interface {
	Handle(labels model.LabelSet, timestamp time.Time, record string) error
	Stop()
}

// Loki row writer
type Loki struct {
	lokiConfig loki.Config
	apiConfig  api.WriteLoki
	client     emitter
	runID      string
	clock      clock.Clock
	batches    batchFilter
	metrics    *metrics
}

func buildLokiConfig(c *api.WriteLoki) (loki.Config, error) {
	batchWait, err := time.ParseDuration(c.BatchWait)
	if err != nil {
		return loki.Config{}, fmt.Errorf("failed in parsing BatchWait : %w", err)
	}

	timeout, err := time.ParseDuration(c.Timeout)
	if err != nil {
		return loki.Config{}, fmt.Errorf("failed in parsing Timeout : %w", err)
	}

	minBackoff, err := time.ParseDuration(c.MinBackoff)
	if err != nil {
		return loki.Config{}, fmt.Errorf("failed in parsing MinBackoff : %w", err)
	}

	maxBackoff, err := time.ParseDuration(c.MaxBackoff)
	if err != nil {
		return loki.Config{}, fmt.Errorf("failed in parsing MaxBackoff : %w", err)
	}

	cfg := loki.Config{
		TenantID:  c.TenantID,
		BatchWait: batchWait,
		BatchSize: c.BatchSize,
		Timeout:   timeout,
		BackoffConfig: backoff.BackoffConfig{
			MinBackoff: minBackoff,
			MaxBackoff: maxBackoff,
			MaxRetries: c.MaxRetries,
		},
	}
	var clientURL urlutil.URLValue
	err = clientURL.Set(strings.TrimSuffix(c.URL, "/") + "/loki/api/v1/push")
	if err != nil {
		return cfg, fmt.Errorf("failed to parse client URL: %w", err)
	}
	cfg.URL = clientURL
	return cfg, nil
}

// mergeLokiDefaults completes the provided parameters with the defaults of the unset fields
func mergeLokiDefaults(p *api.WriteLoki) api.WriteLoki {
	merged := api.GetWriteLokiDefaults()
	if p == nil {
		return merged
	}
	if p.URL != "" {
		merged.URL = p.URL
	}
	merged.TenantID = p.TenantID
	if p.BatchWait != "" {
		merged.BatchWait = p.BatchWait
	}
	if p.BatchSize != 0 {
		merged.BatchSize = p.BatchSize
	}
	if p.Timeout != "" {
		merged.Timeout = p.Timeout
	}
	if p.MinBackoff != "" {
		merged.MinBackoff = p.MinBackoff
	}
	if p.MaxBackoff != "" {
		merged.MaxBackoff = p.MaxBackoff
	}
	if p.MaxRetries != 0 {
		merged.MaxRetries = p.MaxRetries
	}
	merged.StaticLabels = p.StaticLabels
	merged.Labels = p.Labels
	if len(p.Batches) > 0 {
		merged.Batches = p.Batches
	}
	return merged
}

// ProcessRecord pushes one row as a json line
func (l *Loki) ProcessRecord(b *Batch, record config.GenericMap) error {
	// copy record before process to avoid alteration of the batch
	recordCopy := jsonRow(record)

	timestamp := l.clock.Now()
	if t, ok := recordCopy["time"].(time.Time); ok {
		timestamp = t
	}

	labels := model.LabelSet{
		"batch":  model.LabelValue(b.Name),
		"run_id": model.LabelValue(l.runID),
	}
	if sensor := rowSensor(b, record); sensor != "" {
		labels["sensor"] = model.LabelValue(sensor)
	}

	// Add static labels from config
	for k, v := range l.apiConfig.StaticLabels {
		labels[model.LabelName(k)] = model.LabelValue(v)
	}

	l.addNonStaticLabels(recordCopy, labels)

	for _, label := range l.apiConfig.Labels {
		delete(recordCopy, label)
	}

	js, err := jsonIter.ConfigCompatibleWithStandardLibrary.Marshal(recordCopy)
	if err != nil {
		return err
	}

	return l.client.Handle(labels, timestamp, string(js))
}

func (l *Loki) addNonStaticLabels(record map[string]interface{}, labels model.LabelSet) {
	// Add non-static labels from record
	for _, label := range l.apiConfig.Labels {
		val, ok := record[label]
		if !ok {
			continue
		}
		sanitizedKey := model.LabelName(keyReplacer.Replace(label))
		if !sanitizedKey.IsValid() {
			log.WithFields(log.Fields{"key": label, "sanitizedKey": sanitizedKey}).
				Debug("Invalid label. Ignoring it")
			continue
		}
		lv := model.LabelValue(fmt.Sprint(val))
		if !lv.IsValid() {
			log.WithFields(log.Fields{"key": label, "sanitizedKey": sanitizedKey, "value": val}).
				Debug("Invalid label value. Ignoring it")
			continue
		}
		labels[sanitizedKey] = lv
	}
}

// Write pushes the rows of the accepted batches
func (l *Loki) Write(b *Batch) error {
	if !l.batches.accepts(b.Name) {
		return nil
	}
	log.Debugf("entering Loki Write, batch %s", b.Name)
	for _, row := range b.Rows {
		if err := l.ProcessRecord(b, row); err != nil {
			l.metrics.error("push")
			return fmt.Errorf("write (Loki) batch %s: %w", b.Name, err)
		}
		l.metrics.recordsWritten.Inc()
	}
	return nil
}

// Close flushes the pending rows
func (l *Loki) Close() error {
	l.client.Stop()
	return nil
}

// NewWriteLoki creates a Loki writer from configuration
func NewWriteLoki(opMetrics *operational.Metrics, stageName string, params *api.WriteLoki, runID string, clk clock.Clock) (*Loki, error) {
	log.Debugf("entering NewWriteLoki")

	jsonWriteLoki := mergeLokiDefaults(params)
	lokiConfig, err := buildLokiConfig(&jsonWriteLoki)
	if err != nil {
		return nil, err
	}
	client, err := loki.NewWithLogger(lokiConfig, logAdapter.NewLogger(log.WithField("module", "write/loki")))
	if err != nil {
		return nil, err
	}

	return &Loki{
		lokiConfig: lokiConfig,
		apiConfig:  jsonWriteLoki,
		client:     client,
		runID:      runID,
		clock:      clk,
		batches:    batchFilter(jsonWriteLoki.Batches),
		metrics:    newMetrics(opMetrics, stageName, api.LokiType),
	}, nil
}
