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
	"io"
	"os"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/operational"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/utils"
	log "github.com/sirupsen/logrus"
)

// textColumns hold the human readable line of a row, in lookup order
var textColumns = []string{"report", "message"}

type writeStdout struct {
	format  string
	out     io.Writer
	metrics *metrics
}

// Write prints every row of the batch
func (t *writeStdout) Write(b *Batch) error {
	log.Debugf("writeStdout: batch %s, number of rows = %d", b.Name, len(b.Rows))
	written := 0
	for _, row := range b.Rows {
		switch t.format {
		case "json":
			txt, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(jsonRow(row))
			if err != nil {
				t.metrics.error("encode")
				return fmt.Errorf("encoding row of %s: %w", b.Name, err)
			}
			fmt.Fprintln(t.out, string(txt))
		case "text":
			line, ok := textLine(row)
			if !ok {
				continue
			}
			fmt.Fprintln(t.out, line)
		default:
			fmt.Fprintf(t.out, "%s: %v\n", b.Name, map[string]interface{}(row))
		}
		written++
	}
	t.metrics.recordsWritten.Add(float64(written))
	return nil
}

func (t *writeStdout) Close() error {
	return nil
}

func textLine(row map[string]interface{}) (string, bool) {
	for _, c := range textColumns {
		if v, ok := row[c]; ok {
			return utils.ConvertToString(v), true
		}
	}
	return "", false
}

// NewWriteStdout create a new write
func NewWriteStdout(opMetrics *operational.Metrics, stageName string, params *api.WriteStdout) (Writer, error) {
	log.Debugf("entering NewWriteStdout")
	format := ""
	if params != nil {
		format = params.Format
	}
	return &writeStdout{
		format:  format,
		out:     os.Stdout,
		metrics: newMetrics(opMetrics, stageName, api.StdoutType),
	}, nil
}
