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
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/benbjohnson/clock"
	"github.com/golang/snappy"
	minio "github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const defaultS3Timeout = 60 * time.Second

type s3Writer interface {
	putObject(ctx context.Context, bucket, objectName string, data []byte, opts minio.PutObjectOptions) error
}

type minioWriter struct {
	client *minio.Client
}

func (m *minioWriter) putObject(ctx context.Context, bucket, objectName string, data []byte, opts minio.PutObjectOptions) error {
	uploadInfo, err := m.client.PutObject(ctx, bucket, objectName, bytes.NewReader(data), int64(len(data)), opts)
	log.Debugf("uploadInfo = %v", uploadInfo)
	return err
}

type writeS3 struct {
	s3Params api.WriteS3
	s3Writer s3Writer
	streamID string
	clock    clock.Clock
	timeout  time.Duration
	sequence int64
	metrics  *metrics
}

// objectName places the batch below account/year=/month=/day=/hour=/stream-id=, using the write time
func (s *writeS3) objectName(b *Batch, now time.Time) string {
	name := fmt.Sprintf("%s/year=%04d/month=%02d/day=%02d/hour=%02d/stream-id=%s/%08d_%s.csv",
		s.s3Params.Account, now.Year(), now.Month(), now.Day(), now.Hour(), s.streamID, s.sequence, b.Name)
	if s.s3Params.Compression == api.S3CompressionSnappy {
		name += ".snappy"
	}
	return name
}

// Write stores the batch as one csv object
func (s *writeS3) Write(b *Batch) error {
	buf := new(bytes.Buffer)
	if err := encodeCSV(buf, b); err != nil {
		s.metrics.error("encode")
		return errors.Wrapf(err, "encoding batch %s", b.Name)
	}
	data := buf.Bytes()
	contentType := "text/csv"
	if s.s3Params.Compression == api.S3CompressionSnappy {
		data = snappy.Encode(nil, data)
		contentType = "application/octet-stream"
	}
	objectName := s.objectName(b, s.clock.Now().UTC())
	s.sequence++
	log.Debugf("S3 write: objectName = %s", objectName)

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	err := s.s3Writer.putObject(ctx, s.s3Params.Bucket, objectName, data, minio.PutObjectOptions{
		ContentType:  contentType,
		UserMetadata: s.s3Params.ObjectMetadata,
	})
	if err != nil {
		s.metrics.error("put")
		return errors.Wrapf(err, "writing %s to object store", objectName)
	}
	s.metrics.recordsWritten.Add(float64(len(b.Rows)))
	return nil
}

func (s *writeS3) Close() error {
	return nil
}

// NewWriteS3 create a new writer to S3
func NewWriteS3(opMetrics *operational.Metrics, stageName string, params *api.WriteS3, runID string, clk clock.Clock) (Writer, error) {
	if params == nil || params.Endpoint == "" || params.Bucket == "" {
		return nil, errors.New("write s3: endpoint and bucket must be provided")
	}
	log.Debugf("NewWriteS3, endpoint = %s, bucket = %s", params.Endpoint, params.Bucket)
	client, err := connectS3(params)
	if err != nil {
		return nil, err
	}
	return newWriteS3(opMetrics, stageName, params, runID, clk, &minioWriter{client: client}), nil
}

func newWriteS3(opMetrics *operational.Metrics, stageName string, params *api.WriteS3, runID string, clk clock.Clock, w s3Writer) *writeS3 {
	timeout := params.WriteTimeout.Duration
	if timeout == 0 {
		timeout = defaultS3Timeout
	}
	return &writeS3{
		s3Params: *params,
		s3Writer: w,
		streamID: runID,
		clock:    clk,
		timeout:  timeout,
		metrics:  newMetrics(opMetrics, stageName, api.S3Type),
	}
}

func connectS3(params *api.WriteS3) (*minio.Client, error) {
	s3Client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(params.AccessKeyID, params.SecretAccessKey, ""),
		Secure: params.Secure,
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating S3 client")
	}

	ctx, cancel := context.WithTimeout(context.Background(), defaultS3Timeout)
	defer cancel()
	found, err := s3Client.BucketExists(ctx, params.Bucket)
	if err != nil {
		return nil, errors.Wrap(err, "accessing S3 bucket")
	}
	if !found {
		return nil, errors.Errorf("bucket %s not found", params.Bucket)
	}
	log.Infof("Bucket %s found", params.Bucket)
	return s3Client, nil
}
