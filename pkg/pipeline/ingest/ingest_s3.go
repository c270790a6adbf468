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
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/golang/snappy"
	"github.com/minio/minio-go/v7"
	"github.com/minio/minio-go/v7/pkg/credentials"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

const (
	defaultS3Timeout = 60 * time.Second
	snappySuffix     = ".snappy"
)

var slog = logrus.WithField("component", "ingest.S3")

// objectStore is the subset of the s3 client used to fetch sheets
type objectStore interface {
	list(ctx context.Context, prefix string) ([]string, error)
	get(ctx context.Context, key string) (io.ReadCloser, error)
}

type minioStore struct {
	client *minio.Client
	bucket string
}

func (m *minioStore) list(ctx context.Context, prefix string) ([]string, error) {
	var keys []string
	for obj := range m.client.ListObjects(ctx, m.bucket, minio.ListObjectsOptions{Prefix: prefix, Recursive: true}) {
		if obj.Err != nil {
			return nil, obj.Err
		}
		keys = append(keys, obj.Key)
	}
	return keys, nil
}

func (m *minioStore) get(ctx context.Context, key string) (io.ReadCloser, error) {
	return m.client.GetObject(ctx, m.bucket, key, minio.GetObjectOptions{})
}

type ingestS3 struct {
	bucket  string
	prefix  string
	timeout time.Duration
	store   objectStore
	sheets  sheetReader
	metrics *metrics
}

// Ingest reads every sheet object below the prefix, in key order
func (s *ingestS3) Ingest(out chan<- *frame.SensorSeries) {
	timer := s.metrics.stageDurationTimer()
	defer timer.ObserveMilliseconds()

	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	keys, err := s.store.list(ctx, s.prefix)
	if err != nil {
		slog.WithError(err).Errorf("can't list objects of bucket %s", s.bucket)
		s.metrics.error("list")
		return
	}
	sort.Strings(keys)
	for _, key := range keys {
		if !hasSheetExtension(strings.TrimSuffix(key, snappySuffix), s.sheets.format) {
			continue
		}
		series, err := s.readObject(ctx, key)
		if err != nil {
			slog.WithError(err).Errorf("skipping object %s", key)
			s.metrics.error("read")
			continue
		}
		out <- series
	}
}

func (s *ingestS3) readObject(ctx context.Context, key string) (*frame.SensorSeries, error) {
	obj, err := s.store.get(ctx, key)
	if err != nil {
		return nil, errors.Wrapf(err, "getting object %s", key)
	}
	defer func() {
		_ = obj.Close()
	}()
	var in io.Reader = obj
	name := key
	if strings.HasSuffix(key, snappySuffix) {
		compressed, err := io.ReadAll(obj)
		if err != nil {
			return nil, errors.Wrapf(err, "reading object %s", key)
		}
		decoded, err := snappy.Decode(nil, compressed)
		if err != nil {
			return nil, errors.Wrapf(err, "decoding object %s", key)
		}
		in = bytes.NewReader(decoded)
		name = strings.TrimSuffix(key, snappySuffix)
	}
	series, dropped, err := s.sheets.read(sensorName(name), in)
	if err != nil {
		return nil, err
	}
	s.metrics.sheet(series, dropped)
	return series, nil
}

// NewIngestS3 create a new ingester reading sheets from an s3 bucket
func NewIngestS3(opMetrics *operational.Metrics, stageName string, params *api.IngestS3) (Ingester, error) {
	slog.Debugf("entering NewIngestS3")
	if params == nil || params.Endpoint == "" || params.Bucket == "" {
		return nil, errors.New("ingest s3: endpoint and bucket must be provided")
	}
	client, err := minio.New(params.Endpoint, &minio.Options{
		Creds:  credentials.NewStaticV4(params.AccessKeyID, params.SecretAccessKey, ""),
		Secure: params.Secure,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "creating s3 client for %s", params.Endpoint)
	}
	timeout := params.Timeout.Duration
	if timeout == 0 {
		timeout = defaultS3Timeout
	}
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	exists, err := client.BucketExists(ctx, params.Bucket)
	if err != nil {
		return nil, errors.Wrapf(err, "checking bucket %s", params.Bucket)
	}
	if !exists {
		return nil, errors.Errorf("bucket %s does not exist", params.Bucket)
	}
	return newIngestS3(opMetrics, stageName, params, timeout, &minioStore{client: client, bucket: params.Bucket}), nil
}

func newIngestS3(opMetrics *operational.Metrics, stageName string, params *api.IngestS3, timeout time.Duration, store objectStore) *ingestS3 {
	format := params.Format
	if format == "" {
		format = api.SheetFormatCSV
	}
	timeField := params.TimeField
	if timeField == "" {
		timeField = "time"
	}
	return &ingestS3{
		bucket:  params.Bucket,
		prefix:  params.Prefix,
		timeout: timeout,
		store:   store,
		sheets: sheetReader{
			format:    format,
			timeField: timeField,
			separator: ',',
		},
		metrics: newMetrics(opMetrics, stageName, api.S3Type),
	}
}
