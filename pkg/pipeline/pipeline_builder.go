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
	"fmt"

	"github.com/benbjohnson/clock"
	"github.com/google/uuid"
	"github.com/netobserv/gopipes/pkg/node"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/detect"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/forecast"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/ingest"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/preprocess"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/rca"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/severity"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/utils"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/pipeline/write"
	log "github.com/sirupsen/logrus"
)

// Error wraps any error caused by a wrong formation of the pipeline
type Error struct {
	StageName string
	wrapped   error
}

func (e *Error) Error() string {
	return fmt.Sprintf("pipeline stage %q: %s", e.StageName, e.wrapped.Error())
}

func (e *Error) Unwrap() error {
	return e.wrapped
}

// builder stores the information that is only required during the build of the pipeline
type builder struct {
	cfg       *config.ConfigFileStruct
	opMetrics *operational.Metrics
	clock     clock.Clock
	runID     string
	newWriter func(name string, params config.Write) (write.Writer, error)
}

func newBuilder(cfg *config.ConfigFileStruct, opMetrics *operational.Metrics, clk clock.Clock) *builder {
	b := &builder{
		cfg:       cfg,
		opMetrics: opMetrics,
		clock:     clk,
		runID:     uuid.New().String(),
	}
	b.newWriter = b.getWriter
	return b
}

func (b *builder) build() (*Pipeline, error) {
	ingester, err := b.getIngester()
	if err != nil {
		return nil, &Error{StageName: StageIngest, wrapped: err}
	}
	scorer, err := severity.NewScorer(b.cfg.Severity)
	if err != nil {
		return nil, &Error{StageName: StageSeverity, wrapped: err}
	}
	var forecaster *forecast.Batch
	if !b.cfg.Forecast.Disabled {
		forecaster, err = forecast.NewBatch(b.cfg.Forecast, b.opMetrics)
		if err != nil {
			return nil, &Error{StageName: StageForecast, wrapped: err}
		}
	}
	var writers []namedWriter
	for i, params := range b.cfg.Write {
		name := writerStageName(i, params.Type)
		w, err := b.newWriter(name, params)
		if err != nil {
			closeAll(writers)
			return nil, &Error{StageName: name, wrapped: err}
		}
		log.Infof("connecting stages: %s --> %s", StageDetect, name)
		writers = append(writers, namedWriter{name: name, writer: w})
	}
	if len(writers) == 0 {
		log.Warn("no writers have been defined; results are only logged")
	}

	return &Pipeline{
		cfg:          b.cfg,
		runID:        b.runID,
		clock:        b.clock,
		ingester:     ingester,
		preprocessor: preprocess.NewPreprocessor(b.cfg.Preprocess),
		forest:       detect.NewIsolationForest(b.cfg.IsolationForest),
		pca:          detect.NewWindowedPCA(b.cfg.PCA),
		scorer:       scorer,
		analyzer:     rca.NewAnalyzer(b.cfg.RCA),
		forecaster:   forecaster,
		writers:      writers,
		metrics:      newMetrics(b.opMetrics),
		exitChan:     utils.ExitChannel(),
	}, nil
}

func closeAll(writers []namedWriter) {
	for _, w := range writers {
		if err := w.writer.Close(); err != nil {
			log.WithError(err).Errorf("%s: can't close writer", w.name)
		}
	}
}

func writerStageName(i int, stageType string) string {
	return fmt.Sprintf("%s-%d-%s", StageWrite, i, stageType)
}

// connect links two nodes of the detection graph, and catches any panic from the Go-Pipes library.
func connect[T any](srcName string, src node.Sender[T], dstName string, dst node.Receiver[T]) (catchErr error) {
	defer func() {
		if msg := recover(); msg != nil {
			catchErr = &Error{
				StageName: dstName,
				wrapped: fmt.Errorf("%q and %q stages haven't compatible input/outputs: %v",
					srcName, dstName, msg),
			}
		}
	}()
	src.SendsTo(dst)
	return nil
}

func (b *builder) getIngester() (ingest.Ingester, error) {
	params := b.cfg.Ingest
	switch params.Type {
	case api.FileType:
		return ingest.NewIngestFile(b.opMetrics, StageIngest, params.File)
	case api.S3Type:
		return ingest.NewIngestS3(b.opMetrics, StageIngest, params.S3)
	case api.SyntheticType:
		return ingest.NewIngestSynthetic(b.opMetrics, StageIngest, params.Synthetic)
	}
	return nil, fmt.Errorf("`ingest` type %s not defined", params.Type)
}

func (b *builder) getWriter(name string, params config.Write) (write.Writer, error) {
	switch params.Type {
	case api.CSVType:
		return write.NewWriteCSV(b.opMetrics, name, params.CSV)
	case api.StdoutType:
		return write.NewWriteStdout(b.opMetrics, name, params.Stdout)
	case api.LokiType:
		return write.NewWriteLoki(b.opMetrics, name, params.Loki, b.runID, b.clock)
	case api.KafkaType:
		return write.NewWriteKafka(b.opMetrics, name, params.Kafka, b.runID)
	case api.S3Type:
		return write.NewWriteS3(b.opMetrics, name, params.S3, b.runID, b.clock)
	case api.NoneType:
		return write.NewWriteNone()
	}
	return nil, fmt.Errorf("`write` type %s not defined; if no writer needed, specify `none`", params.Type)
}
