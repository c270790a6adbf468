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
	"context"
	"fmt"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	kafkago "github.com/segmentio/kafka-go"
	log "github.com/sirupsen/logrus"
)

const (
	defaultReadTimeoutSeconds  = int64(10)
	defaultWriteTimeoutSeconds = int64(10)
)

type kafkaWriteMessage interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

type writeKafka struct {
	kafkaParams api.WriteKafka
	kafkaWriter kafkaWriteMessage
	runID       string
	batches     batchFilter
	metrics     *metrics
}

// Write sends one json message per row, keyed by sensor
func (r *writeKafka) Write(b *Batch) error {
	if !r.batches.accepts(b.Name) {
		return nil
	}
	log.Debugf("entering Kafka Write, batch %s, #items = %d", b.Name, len(b.Rows))
	msgs := make([]kafkago.Message, 0, len(b.Rows))
	for _, row := range b.Rows {
		value, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(jsonRow(row))
		if err != nil {
			r.metrics.error("encode")
			return fmt.Errorf("encoding row of %s: %w", b.Name, err)
		}
		msgs = append(msgs, kafkago.Message{
			Key:   []byte(rowSensor(b, row)),
			Value: value,
			Headers: []kafkago.Header{
				{Key: "batch", Value: []byte(b.Name)},
				{Key: "run_id", Value: []byte(r.runID)},
			},
		})
	}
	if len(msgs) == 0 {
		return nil
	}
	if err := r.kafkaWriter.WriteMessages(context.Background(), msgs...); err != nil {
		r.metrics.error("send")
		return fmt.Errorf("kafka error: %w", err)
	}
	r.metrics.recordsWritten.Add(float64(len(msgs)))
	return nil
}

func (r *writeKafka) Close() error {
	return r.kafkaWriter.Close()
}

// NewWriteKafka create a new writer to kafka
func NewWriteKafka(opMetrics *operational.Metrics, stageName string, params *api.WriteKafka, runID string) (Writer, error) {
	log.Debugf("entering NewWriteKafka")
	if params == nil || params.Address == "" || params.Topic == "" {
		return nil, fmt.Errorf("write kafka: address and topic must be provided")
	}
	jsonWriteKafka := *params

	var balancer kafkago.Balancer
	switch jsonWriteKafka.Balancer {
	case api.KafkaRoundRobin:
		balancer = &kafkago.RoundRobin{}
	case api.KafkaLeastBytes:
		balancer = &kafkago.LeastBytes{}
	case api.KafkaHash:
		balancer = &kafkago.Hash{}
	case api.KafkaCrc32:
		balancer = &kafkago.CRC32Balancer{}
	case api.KafkaMurmur2:
		balancer = &kafkago.Murmur2Balancer{}
	default:
		balancer = nil
	}

	readTimeoutSecs := defaultReadTimeoutSeconds
	if jsonWriteKafka.ReadTimeout != 0 {
		readTimeoutSecs = jsonWriteKafka.ReadTimeout
	}

	writeTimeoutSecs := defaultWriteTimeoutSeconds
	if jsonWriteKafka.WriteTimeout != 0 {
		writeTimeoutSecs = jsonWriteKafka.WriteTimeout
	}

	// connect to the kafka server
	kafkaWriter := kafkago.Writer{
		Addr:         kafkago.TCP(jsonWriteKafka.Address),
		Topic:        jsonWriteKafka.Topic,
		Balancer:     balancer,
		ReadTimeout:  time.Duration(readTimeoutSecs) * time.Second,
		WriteTimeout: time.Duration(writeTimeoutSecs) * time.Second,
		BatchSize:    jsonWriteKafka.BatchSize,
		BatchBytes:   jsonWriteKafka.BatchBytes,
	}

	return &writeKafka{
		kafkaParams: jsonWriteKafka,
		kafkaWriter: &kafkaWriter,
		runID:       runID,
		batches:     batchFilter(jsonWriteKafka.Batches),
		metrics:     newMetrics(opMetrics, stageName, api.KafkaType),
	}, nil
}
