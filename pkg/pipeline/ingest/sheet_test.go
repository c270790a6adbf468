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
	"strings"
	"testing"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const csvSheet = "\ufefftime,CO2,Temperature\n" +
	"2024-03-01 10:10:00,450,21.5\n" +
	"2024-03-01 10:00:00,440,21.0\n" +
	"not a time,1,1\n" +
	"2024-03-01 10:10:00,,22.0\n"

func TestReadCSV(t *testing.T) {
	r := sheetReader{format: api.SheetFormatCSV, timeField: "time", separator: ','}
	s, dropped, err := r.read("S2103", strings.NewReader(csvSheet))
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, "S2103", s.Name)
	assert.Equal(t, []string{"CO2", "Temperature"}, s.Columns)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC), s.Times[0])
	assert.Equal(t, "440", s.Rows[0]["CO2"])
	// duplicate timestamp: empty cells don't override
	assert.Equal(t, "450", s.Rows[1]["CO2"])
	assert.Equal(t, "22.0", s.Rows[1]["Temperature"])
}

func TestReadCSV_Separator(t *testing.T) {
	r := sheetReader{format: api.SheetFormatCSV, timeField: "Time", separator: ';'}
	s, _, err := r.read("WS302", strings.NewReader("time;LAeq\n2024-03-01T10:00:00Z;55.2\n"))
	require.NoError(t, err)
	assert.Equal(t, []string{"LAeq"}, s.Columns)
	assert.Equal(t, "55.2", s.Rows[0]["LAeq"])
}

func TestReadCSV_MissingTime(t *testing.T) {
	r := sheetReader{format: api.SheetFormatCSV, timeField: "time", separator: ','}
	_, _, err := r.read("x", strings.NewReader("date,CO2\n2024-03-01,1\n"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading sheet x")
}

func TestReadCSV_Empty(t *testing.T) {
	r := sheetReader{format: api.SheetFormatCSV, timeField: "time", separator: ','}
	s, dropped, err := r.read("x", strings.NewReader(""))
	require.NoError(t, err)
	assert.Zero(t, dropped)
	assert.Zero(t, s.Len())
}

func TestReadJSONLines(t *testing.T) {
	in := `{"time":"2024-03-01T10:00:00Z","Wind Speed":1.5,"Air Temperature":12}

{"time":1709287800,"Air Temperature":12.5,"Rain Gauge":0}
{"Air Temperature":13}
`
	r := sheetReader{format: api.SheetFormatJSONL, timeField: "time"}
	s, dropped, err := r.read("S2120", strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, 1, dropped)
	assert.Equal(t, []string{"Wind Speed", "Air Temperature", "Rain Gauge"}, s.Columns)
	require.Equal(t, 2, s.Len())
	assert.Equal(t, 1.5, s.Rows[0]["Wind Speed"])
	assert.Equal(t, 12.5, s.Rows[1]["Air Temperature"])
	assert.Equal(t, int64(1709287800), s.Times[1].Unix())
}

func TestReadJSONLines_Malformed(t *testing.T) {
	r := sheetReader{format: api.SheetFormatJSONL, timeField: "time"}
	_, _, err := r.read("S2120", strings.NewReader("{\"time\":\n"))
	require.Error(t, err)
}

func TestSensorName(t *testing.T) {
	assert.Equal(t, "S2103", sensorName("/data/S2103.csv"))
	assert.Equal(t, "S2120", sensorName("sheets/2024/S2120.jsonl"))
	assert.Equal(t, "WS302", sensorName(`C:\data\WS302.csv`))
}

func TestSensorFilter(t *testing.T) {
	assert.True(t, newSensorFilter(nil).accepts("anything"))
	f := newSensorFilter([]string{" s2103 ", ""})
	assert.True(t, f.accepts("S2103"))
	assert.False(t, f.accepts("S2120"))
}
