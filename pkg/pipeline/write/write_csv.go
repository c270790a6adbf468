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
	"encoding/csv"
	"io"
	"os"
	"path/filepath"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var clog = logrus.WithField("component", "write.CSV")

type writeCSV struct {
	directory string
	metrics   *metrics
}

// Write stores the batch as <directory>/<batch name>.csv, replacing any previous file
func (w *writeCSV) Write(b *Batch) error {
	path := filepath.Join(w.directory, b.Name+".csv")
	f, err := os.Create(path)
	if err != nil {
		w.metrics.error("create")
		return errors.Wrapf(err, "creating %s", path)
	}
	if err := encodeCSV(f, b); err != nil {
		_ = f.Close()
		w.metrics.error("encode")
		return errors.Wrapf(err, "writing %s", path)
	}
	if err := f.Close(); err != nil {
		w.metrics.error("close")
		return errors.Wrapf(err, "closing %s", path)
	}
	w.metrics.recordsWritten.Add(float64(len(b.Rows)))
	clog.Debugf("saved %s (%d rows)", path, len(b.Rows))
	return nil
}

func (w *writeCSV) Close() error {
	return nil
}

// encodeCSV writes a header row followed by one line per row, cells in column order.
func encodeCSV(out io.Writer, b *Batch) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(b.Columns); err != nil {
		return err
	}
	record := make([]string, len(b.Columns))
	for _, row := range b.Rows {
		for i, c := range b.Columns {
			record[i] = utils.ConvertToString(row[c])
		}
		if err := writer.Write(record); err != nil {
			return err
		}
	}
	writer.Flush()
	return writer.Error()
}

// NewWriteCSV create a new writer storing csv files in a directory
func NewWriteCSV(opMetrics *operational.Metrics, stageName string, params *api.WriteCSV) (Writer, error) {
	clog.Debugf("entering NewWriteCSV")
	dir := "pipeline_outputs"
	if params != nil && params.Directory != "" {
		dir = params.Directory
	}
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, errors.Wrapf(err, "creating output directory %s", dir)
	}
	return &writeCSV{
		directory: dir,
		metrics:   newMetrics(opMetrics, stageName, api.CSVType),
	}, nil
}
