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
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var flog = logrus.WithField("component", "ingest.File")

type ingestFile struct {
	directory string
	sheets    sheetReader
	sensors   sensorFilter
	metrics   *metrics
}

// Ingest reads every sheet of the directory, in file name order
func (r *ingestFile) Ingest(out chan<- *frame.SensorSeries) {
	timer := r.metrics.stageDurationTimer()
	defer timer.ObserveMilliseconds()

	files, err := r.sheetFiles()
	if err != nil {
		flog.WithError(err).Error("can't list sheets")
		r.metrics.error("list")
		return
	}
	flog.Infof("ingesting %d sheets from %s", len(files), r.directory)
	for _, file := range files {
		series, err := r.readFile(file)
		if err != nil {
			flog.WithError(err).Errorf("skipping sheet %s", file)
			r.metrics.error("read")
			continue
		}
		out <- series
	}
}

func (r *ingestFile) readFile(file string) (*frame.SensorSeries, error) {
	f, err := os.Open(file)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = f.Close()
	}()
	series, dropped, err := r.sheets.read(sensorName(file), f)
	if err != nil {
		return nil, err
	}
	r.metrics.sheet(series, dropped)
	flog.Debugf("sheet %s: %d rows, columns %v", series.Name, series.Len(), series.Columns)
	return series, nil
}

func (r *ingestFile) sheetFiles() ([]string, error) {
	entries, err := os.ReadDir(r.directory)
	if err != nil {
		return nil, errors.Wrapf(err, "reading directory %s", r.directory)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() || !hasSheetExtension(e.Name(), r.sheets.format) {
			continue
		}
		if !r.sensors.accepts(sensorName(e.Name())) {
			continue
		}
		files = append(files, filepath.Join(r.directory, e.Name()))
	}
	sort.Strings(files)
	return files, nil
}

func hasSheetExtension(name string, format api.SheetFormat) bool {
	ext := strings.ToLower(filepath.Ext(name))
	if format == api.SheetFormatJSONL {
		return ext == ".jsonl" || ext == ".json"
	}
	return ext == ".csv"
}

// NewIngestFile create a new ingester reading a directory of sheets
func NewIngestFile(opMetrics *operational.Metrics, stageName string, params *api.IngestFile) (Ingester, error) {
	flog.Debugf("entering NewIngestFile")
	if params == nil || params.Directory == "" {
		return nil, errors.New("ingest directory not specified")
	}
	params.SetDefaults()
	info, err := os.Stat(params.Directory)
	if err != nil {
		return nil, errors.Wrapf(err, "ingest directory %s", params.Directory)
	}
	if !info.IsDir() {
		return nil, errors.Errorf("%s is not a directory", params.Directory)
	}
	sep := []rune(params.CSVSeparator)
	flog.Infof("input directory = %s", params.Directory)

	return &ingestFile{
		directory: params.Directory,
		sheets: sheetReader{
			format:    params.Format,
			timeField: params.TimeField,
			separator: sep[0],
		},
		sensors: newSensorFilter(params.Sensors),
		metrics: newMetrics(opMetrics, stageName, api.FileType),
	}, nil
}
