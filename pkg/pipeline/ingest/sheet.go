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
	"bufio"
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/utils"
	"github.com/pkg/errors"
	log "github.com/sirupsen/logrus"
)

const maxLineSize = 1024 * 1024

// sheetReader turns one sheet (a csv file or a json-lines file) into a sensor series.
type sheetReader struct {
	format    api.SheetFormat
	timeField string
	separator rune
}

// read parses the sheet and returns the series together with the number of rows dropped
// because their time cell couldn't be parsed.
func (r *sheetReader) read(sensor string, in io.Reader) (*frame.SensorSeries, int, error) {
	var columns []string
	var times []time.Time
	var rows []config.GenericMap
	var dropped int
	var err error
	switch r.format {
	case api.SheetFormatJSONL:
		columns, times, rows, dropped, err = r.readJSONLines(in)
	default:
		columns, times, rows, dropped, err = r.readCSV(in)
	}
	if err != nil {
		return nil, 0, errors.Wrapf(err, "reading sheet %s", sensor)
	}
	if dropped > 0 {
		log.WithField("sensor", sensor).Warnf("dropped %d rows without a valid %q value", dropped, r.timeField)
	}
	return frame.NewSensorSeries(sensor, columns, times, rows), dropped, nil
}

func (r *sheetReader) readCSV(in io.Reader) ([]string, []time.Time, []config.GenericMap, int, error) {
	reader := csv.NewReader(in)
	reader.Comma = r.separator
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true
	header, err := reader.Read()
	if err == io.EOF {
		return nil, nil, nil, 0, nil
	}
	if err != nil {
		return nil, nil, nil, 0, err
	}
	timeIdx := -1
	columns := make([]string, 0, len(header))
	for i, h := range header {
		h = strings.TrimSpace(strings.TrimPrefix(h, "\ufeff"))
		header[i] = h
		if timeIdx < 0 && strings.EqualFold(h, r.timeField) {
			timeIdx = i
			continue
		}
		columns = append(columns, h)
	}
	if timeIdx < 0 {
		return nil, nil, nil, 0, fmt.Errorf("time column %q not found in header %v", r.timeField, header)
	}

	var times []time.Time
	var rows []config.GenericMap
	dropped := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, nil, nil, 0, err
		}
		if timeIdx >= len(record) {
			dropped++
			continue
		}
		t, err := utils.ConvertToTime(record[timeIdx])
		if err != nil {
			dropped++
			continue
		}
		row := make(config.GenericMap, len(header)-1)
		for i, cell := range record {
			if i == timeIdx || i >= len(header) {
				continue
			}
			row[header[i]] = cell
		}
		times = append(times, t)
		rows = append(rows, row)
	}
	return columns, times, rows, dropped, nil
}

func (r *sheetReader) readJSONLines(in io.Reader) ([]string, []time.Time, []config.GenericMap, int, error) {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 64*1024), maxLineSize)
	seen := map[string]struct{}{}
	var columns []string
	var times []time.Time
	var rows []config.GenericMap
	dropped := 0
	lineNum := 0
	for scanner.Scan() {
		lineNum++
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		row := config.GenericMap{}
		var rawTime interface{}
		iter := jsoniter.ParseString(jsoniter.ConfigCompatibleWithStandardLibrary, line)
		iter.ReadMapCB(func(it *jsoniter.Iterator, key string) bool {
			value := it.Read()
			if strings.EqualFold(key, r.timeField) {
				rawTime = value
				return true
			}
			if _, ok := seen[key]; !ok {
				seen[key] = struct{}{}
				columns = append(columns, key)
			}
			row[key] = value
			return true
		})
		if iter.Error != nil {
			return nil, nil, nil, 0, fmt.Errorf("line %d: %w", lineNum, iter.Error)
		}
		t, err := utils.ConvertToTime(rawTime)
		if err != nil {
			dropped++
			continue
		}
		times = append(times, t)
		rows = append(rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, nil, nil, 0, err
	}
	return columns, times, rows, dropped, nil
}
