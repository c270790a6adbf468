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

package test

import (
	"bytes"
	"testing"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/config"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"
)

// InitConfig reads a yaml configuration the way the CLI does and returns the parsed result.
func InitConfig(t *testing.T, conf string) (*viper.Viper, config.ConfigFileStruct) {
	v := viper.New()
	v.SetConfigType("yaml")
	err := v.ReadConfig(bytes.NewReader([]byte(conf)))
	require.NoError(t, err)

	cfg, err := config.ParseConfig(v, nil)
	require.NoError(t, err)
	return v, cfg
}

// Epoch is the first timestamp of generated series.
var Epoch = time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)

// NewFrame builds a frame of n rows spaced by cadence from Epoch; columns are filled by fn.
func NewFrame(t *testing.T, sensor string, n int, cadence time.Duration, fn func(col string, i int) float64, columns ...string) *frame.Frame {
	times := make([]time.Time, n)
	for i := range times {
		times[i] = Epoch.Add(time.Duration(i) * cadence)
	}
	f := frame.New(sensor, cadence, times)
	for _, c := range columns {
		values := make([]float64, n)
		for i := range values {
			values[i] = fn(c, i)
		}
		require.NoError(t, f.AddColumn(c, values))
	}
	return f
}

// NewSeries builds a raw series of n rows spaced by cadence from Epoch; cells are filled by fn.
func NewSeries(sensor string, n int, cadence time.Duration, fn func(col string, i int) interface{}, columns ...string) *frame.SensorSeries {
	times := make([]time.Time, n)
	rows := make([]config.GenericMap, n)
	for i := range rows {
		times[i] = Epoch.Add(time.Duration(i) * cadence)
		rows[i] = config.GenericMap{}
		for _, c := range columns {
			rows[i][c] = fn(c, i)
		}
	}
	return frame.NewSensorSeries(sensor, columns, times, rows)
}
