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

package config

import (
	"bytes"
	"encoding/json"
	"testing"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v2"
)

func TestJSONUnmarshalStrict(t *testing.T) {
	type Message struct {
		Foo int    `json:"F"`
		Bar string `json:"B"`
	}
	msg := `{"F":1, "B":"bbb"}`
	var actualMsg Message
	expectedMsg := Message{Foo: 1, Bar: "bbb"}
	err := JSONUnmarshalStrict([]byte(msg), &actualMsg)
	require.NoError(t, err)
	require.Equal(t, expectedMsg, actualMsg)

	msg = `{"F":1, "B":"bbb", "NewField":0}`
	err = JSONUnmarshalStrict([]byte(msg), &actualMsg)
	require.Error(t, err)
}

func TestUnmarshalInline(t *testing.T) {
	cfg := `{"metricsSettings":{"port":9102,"prefix":"sensors_"}}`
	var cfs ConfigFileStruct
	err := yaml.Unmarshal([]byte(cfg), &cfs)
	require.NoError(t, err)
	require.Equal(t, "sensors_", cfs.MetricsSettings.Prefix)
	require.Equal(t, 9102, cfs.MetricsSettings.Port)

	err = json.Unmarshal([]byte(cfg), &cfs)
	require.NoError(t, err)
	require.Equal(t, "sensors_", cfs.MetricsSettings.Prefix)
	require.Equal(t, 9102, cfs.MetricsSettings.Port)
}

func TestGenericMapCopy(t *testing.T) {
	m := GenericMap{"a": 1.0, "b": "x"}
	c := m.Copy()
	c["a"] = 2.0
	assert.Equal(t, 1.0, m["a"])
	assert.Equal(t, "x", c["b"])
}

func readViper(t *testing.T, conf string) *viper.Viper {
	v := viper.New()
	v.SetConfigType("yaml")
	require.NoError(t, v.ReadConfig(bytes.NewReader([]byte(conf))))
	return v
}

const minimalConfig = `
ingest:
  type: file
  file:
    directory: ./data
`

func TestParseConfigDefaults(t *testing.T) {
	v := readViper(t, minimalConfig)
	cfg, err := ParseConfig(v, nil)
	require.NoError(t, err)

	assert.Equal(t, api.SheetFormatCSV, cfg.Ingest.File.Format)
	assert.Equal(t, "time", cfg.Ingest.File.TimeField)
	assert.Equal(t, 0.01, cfg.IsolationForest.Contamination)
	assert.Equal(t, 0.8, cfg.IsolationForest.TrainFraction)
	assert.Equal(t, 100, cfg.IsolationForest.NumTrees)
	assert.Equal(t, 6, cfg.PCA.WindowSize)
	assert.Equal(t, 0.95, cfg.PCA.VarianceFraction)
	assert.Equal(t, -0.1, *cfg.Severity.LowThreshold)
	assert.Equal(t, -0.3, *cfg.Severity.HighThreshold)
	assert.Equal(t, 1, cfg.RCA.TopK)
	assert.Len(t, cfg.Forecast.Engines, 3)
	assert.Equal(t, "sensor_pipeline_", cfg.MetricsSettings.Prefix)
	assert.Len(t, cfg.Sensors, 4)
}

func TestParseConfigRejectsUnknownFields(t *testing.T) {
	v := readViper(t, minimalConfig+"unknownStage: true\n")
	_, err := ParseConfig(v, nil)
	require.Error(t, err)
}

func TestParseConfigAppliesOptions(t *testing.T) {
	v := readViper(t, minimalConfig+`
write:
  - type: csv
    csv:
      directory: ./out
`)
	opts := Options{OutputDirectory: "/tmp/elsewhere", OnlySensors: []string{"S2103"}}
	cfg, err := ParseConfig(v, &opts)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/elsewhere", cfg.Write[0].CSV.Directory)
	assert.Equal(t, []string{"S2103"}, cfg.Ingest.File.Sensors)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name string
		conf string
	}{
		{name: "unknown ingest", conf: "ingest:\n  type: grpc\n"},
		{name: "missing directory", conf: "ingest:\n  type: file\n  file:\n    format: csv\n"},
		{name: "bad format", conf: minimalConfig + "    format: parquet\n"},
		{name: "bad contamination", conf: minimalConfig + "isolationForest:\n  contamination: 0.7\n"},
		{name: "inverted severity", conf: minimalConfig + "severity:\n  lowThreshold: -0.5\n  highThreshold: -0.2\n"},
		{name: "unknown engine", conf: minimalConfig + "forecast:\n  engines:\n    - type: prophet\n"},
		{name: "kafka without topic", conf: minimalConfig + "write:\n  - type: kafka\n    kafka:\n      address: localhost:9092\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseConfig(readViper(t, tt.conf), nil)
			require.Error(t, err)
		})
	}
}

func TestProfileFor(t *testing.T) {
	cfg := ConfigFileStruct{Sensors: DefaultSensorProfiles()}

	p, ok := cfg.ProfileFor("s2103")
	require.True(t, ok)
	assert.Equal(t, "S2103", p.Name)
	assert.Equal(t, api.SeverityRolePrimary, p.Severity)
	assert.True(t, p.RCA)

	p, ok = cfg.ProfileFor("EM500")
	require.True(t, ok)
	assert.Equal(t, "EM500", p.Name)
	assert.Empty(t, p.Features)

	cfg.Sensors = cfg.Sensors[:3]
	_, ok = cfg.ProfileFor("EM500")
	assert.False(t, ok)
}

func TestParseOptions(t *testing.T) {
	v := viper.New()
	v.Set("log-level", "debug")
	v.Set("only", "S2103,S2120")
	v.Set("metrics.port", 9999)
	v.Set("health.port", "8080")
	opts, err := ParseOptions(v)
	require.NoError(t, err)
	assert.Equal(t, "debug", opts.LogLevel)
	assert.Equal(t, []string{"S2103", "S2120"}, opts.OnlySensors)
	assert.Equal(t, 9999, opts.MetricsSettings.Port)
	assert.Equal(t, "8080", opts.Health.Port)
}
