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
	"fmt"
	"strings"

	jsoniter "github.com/json-iterator/go"
	"github.com/mitchellh/mapstructure"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/sirupsen/logrus"
	"github.com/spf13/viper"
)

type GenericMap map[string]interface{}

// Copy returns a shallow copy of the map.
func (m GenericMap) Copy() GenericMap {
	result := make(GenericMap, len(m))
	for k, v := range m {
		result[k] = v
	}
	return result
}

type Options struct {
	ConfigFile      string          `mapstructure:"config"`
	LogLevel        string          `mapstructure:"log-level"`
	Health          Health          `mapstructure:"health"`
	Profile         Profile         `mapstructure:"profile"`
	MetricsSettings MetricsSettings `mapstructure:"metrics"`
	OutputDirectory string          `mapstructure:"output"`
	OnlySensors     []string        `mapstructure:"only"`
	DumpConfig      bool            `mapstructure:"dump-config"`
}

type Health struct {
	Address string `mapstructure:"address"`
	Port    string `mapstructure:"port"`
}

type Profile struct {
	Port int `mapstructure:"port"`
}

// MetricsSettings is kept flat so that it can be set from flags, environment and config file alike.
type MetricsSettings struct {
	Address  string `yaml:"address,omitempty" json:"address,omitempty" mapstructure:"address" doc:"address to expose /metrics on; empty disables the server"`
	Port     int    `yaml:"port,omitempty" json:"port,omitempty" mapstructure:"port" doc:"port to expose /metrics on; 0 disables the server"`
	Prefix   string `yaml:"prefix,omitempty" json:"prefix,omitempty" mapstructure:"prefix" doc:"prefix for names of the operational metrics"`
	TextFile string `yaml:"textFile,omitempty" json:"textFile,omitempty" mapstructure:"textfile" doc:"file receiving the operational metrics in text exposition format when the batch ends"`
	NoPanic  bool   `yaml:"noPanic,omitempty" json:"noPanic,omitempty" mapstructure:"no-panic"`
}

// ConfigFileStruct is the content of the pipeline configuration file.
type ConfigFileStruct struct {
	LogLevel        string              `yaml:"log-level,omitempty" json:"log-level,omitempty"`
	Ingest          Ingest              `yaml:"ingest" json:"ingest"`
	Sensors         []api.SensorProfile `yaml:"sensors,omitempty" json:"sensors,omitempty"`
	Preprocess      api.Preprocess      `yaml:"preprocess,omitempty" json:"preprocess,omitempty"`
	IsolationForest api.IsolationForest `yaml:"isolationForest,omitempty" json:"isolationForest,omitempty"`
	PCA             api.WindowedPCA     `yaml:"pca,omitempty" json:"pca,omitempty"`
	Severity        api.Severity        `yaml:"severity,omitempty" json:"severity,omitempty"`
	RCA             api.RCA             `yaml:"rca,omitempty" json:"rca,omitempty"`
	Forecast        api.Forecast        `yaml:"forecast,omitempty" json:"forecast,omitempty"`
	Write           []Write             `yaml:"write,omitempty" json:"write,omitempty"`
	MetricsSettings MetricsSettings     `yaml:"metricsSettings,omitempty" json:"metricsSettings,omitempty"`
}

type Ingest struct {
	Type      string               `yaml:"type" json:"type"`
	File      *api.IngestFile      `yaml:"file,omitempty" json:"file,omitempty"`
	S3        *api.IngestS3        `yaml:"s3,omitempty" json:"s3,omitempty"`
	Synthetic *api.IngestSynthetic `yaml:"synthetic,omitempty" json:"synthetic,omitempty"`
}

type Write struct {
	Type   string           `yaml:"type" json:"type"`
	CSV    *api.WriteCSV    `yaml:"csv,omitempty" json:"csv,omitempty"`
	Stdout *api.WriteStdout `yaml:"stdout,omitempty" json:"stdout,omitempty"`
	Loki   *api.WriteLoki   `yaml:"loki,omitempty" json:"loki,omitempty"`
	Kafka  *api.WriteKafka  `yaml:"kafka,omitempty" json:"kafka,omitempty"`
	S3     *api.WriteS3     `yaml:"s3,omitempty" json:"s3,omitempty"`
}

// ParseOptions decodes the runtime options gathered by viper (flags, environment and config file).
func ParseOptions(v *viper.Viper) (Options, error) {
	var opts Options
	decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook: mapstructure.ComposeDecodeHookFunc(
			mapstructure.StringToTimeDurationHookFunc(),
			mapstructure.StringToSliceHookFunc(","),
		),
		WeaklyTypedInput: true,
		Result:           &opts,
	})
	if err != nil {
		return opts, err
	}
	if err := decoder.Decode(v.AllSettings()); err != nil {
		return opts, fmt.Errorf("can't decode options: %w", err)
	}
	return opts, nil
}

// ParseConfig creates the internal unmarshalled representation of the configuration file read by viper
func ParseConfig(v *viper.Viper, opts *Options) (ConfigFileStruct, error) {
	out := ConfigFileStruct{}
	settings := v.AllSettings()
	// runtime options live next to the file content in viper; they are not part of the file model
	for _, key := range []string{"config", "health", "profile", "metrics", "output", "only", "dump-config"} {
		delete(settings, key)
	}
	b, err := jsoniter.ConfigCompatibleWithStandardLibrary.Marshal(settings)
	if err != nil {
		return out, fmt.Errorf("can't marshal configuration: %w", err)
	}
	logrus.Debugf("config = %s", string(b))
	if err := JSONUnmarshalStrict(b, &out); err != nil {
		logrus.Errorf("error when parsing configuration: %v", err)
		return out, err
	}
	if opts != nil {
		out.applyOptions(opts)
	}
	out.SetDefaults()
	if err := out.Validate(); err != nil {
		return out, err
	}
	return out, nil
}

func (c *ConfigFileStruct) applyOptions(opts *Options) {
	if opts.OutputDirectory != "" {
		for i := range c.Write {
			if c.Write[i].Type == api.CSVType && c.Write[i].CSV != nil {
				c.Write[i].CSV.Directory = opts.OutputDirectory
			}
		}
	}
	if len(opts.OnlySensors) > 0 && c.Ingest.File != nil {
		c.Ingest.File.Sensors = opts.OnlySensors
	}
	if opts.MetricsSettings.Port != 0 {
		c.MetricsSettings.Port = opts.MetricsSettings.Port
		c.MetricsSettings.Address = opts.MetricsSettings.Address
	}
	if opts.MetricsSettings.TextFile != "" {
		c.MetricsSettings.TextFile = opts.MetricsSettings.TextFile
	}
	if opts.MetricsSettings.Prefix != "" {
		c.MetricsSettings.Prefix = opts.MetricsSettings.Prefix
	}
}

// SetDefaults fills every unset stage parameter with its documented default.
func (c *ConfigFileStruct) SetDefaults() {
	if c.Ingest.File != nil {
		c.Ingest.File.SetDefaults()
	}
	if c.Ingest.S3 != nil {
		if c.Ingest.S3.Format == "" {
			c.Ingest.S3.Format = api.SheetFormatCSV
		}
		if c.Ingest.S3.TimeField == "" {
			c.Ingest.S3.TimeField = "time"
		}
	}
	if len(c.Sensors) == 0 {
		c.Sensors = DefaultSensorProfiles()
	}
	for i := range c.Sensors {
		if c.Sensors[i].MaxFeatures <= 0 {
			c.Sensors[i].MaxFeatures = api.DefaultMaxFeatures
		}
	}
	c.Preprocess.SetDefaults()
	c.IsolationForest.SetDefaults()
	c.PCA.SetDefaults()
	c.Severity.SetDefaults()
	c.RCA.SetDefaults()
	c.Forecast.SetDefaults()
	if c.MetricsSettings.Prefix == "" {
		c.MetricsSettings.Prefix = "sensor_pipeline_"
	}
	for i := range c.Write {
		if c.Write[i].Type == api.CSVType && c.Write[i].CSV == nil {
			c.Write[i].CSV = &api.WriteCSV{}
		}
		if c.Write[i].Type == api.CSVType && c.Write[i].CSV.Directory == "" {
			c.Write[i].CSV.Directory = "pipeline_outputs"
		}
	}
}

// Validate rejects configurations that can't produce a meaningful run.
func (c *ConfigFileStruct) Validate() error {
	switch c.Ingest.Type {
	case api.FileType:
		if c.Ingest.File == nil || c.Ingest.File.Directory == "" {
			return fmt.Errorf("ingest file: directory must be provided")
		}
		if err := validateFormat(c.Ingest.File.Format); err != nil {
			return err
		}
		if len(c.Ingest.File.CSVSeparator) != 1 {
			return fmt.Errorf("ingest file: csvSeparator must be a single character, got %q", c.Ingest.File.CSVSeparator)
		}
	case api.S3Type:
		if c.Ingest.S3 == nil || c.Ingest.S3.Bucket == "" || c.Ingest.S3.Endpoint == "" {
			return fmt.Errorf("ingest s3: endpoint and bucket must be provided")
		}
		if err := validateFormat(c.Ingest.S3.Format); err != nil {
			return err
		}
	case api.SyntheticType:
	default:
		return fmt.Errorf("ingest type %q not defined", c.Ingest.Type)
	}
	if c.IsolationForest.TrainFraction <= 0 || c.IsolationForest.TrainFraction > 1 {
		return fmt.Errorf("isolationForest: trainFraction must be in (0,1], got %v", c.IsolationForest.TrainFraction)
	}
	if c.IsolationForest.Contamination <= 0 || c.IsolationForest.Contamination > 0.5 {
		return fmt.Errorf("isolationForest: contamination must be in (0,0.5], got %v", c.IsolationForest.Contamination)
	}
	if c.PCA.WindowSize < 1 {
		return fmt.Errorf("pca: windowSize must be at least 1, got %d", c.PCA.WindowSize)
	}
	if c.PCA.VarianceFraction <= 0 || c.PCA.VarianceFraction > 1 {
		return fmt.Errorf("pca: varianceFraction must be in (0,1], got %v", c.PCA.VarianceFraction)
	}
	if *c.Severity.HighThreshold >= *c.Severity.LowThreshold {
		return fmt.Errorf("severity: highThreshold (%v) must be lower than lowThreshold (%v)", *c.Severity.HighThreshold, *c.Severity.LowThreshold)
	}
	for _, e := range c.Forecast.Engines {
		switch e.Type {
		case api.ForecastAutoregressive, api.ForecastSeasonal, api.ForecastHarmonic:
		default:
			return fmt.Errorf("forecast engine %q not defined", e.Type)
		}
	}
	for _, w := range c.Write {
		switch w.Type {
		case api.CSVType, api.StdoutType, api.NoneType:
		case api.LokiType:
			if w.Loki == nil {
				return fmt.Errorf("write loki: parameters must be provided")
			}
		case api.KafkaType:
			if w.Kafka == nil || w.Kafka.Address == "" || w.Kafka.Topic == "" {
				return fmt.Errorf("write kafka: address and topic must be provided")
			}
		case api.S3Type:
			if w.S3 == nil || w.S3.Bucket == "" || w.S3.Endpoint == "" {
				return fmt.Errorf("write s3: endpoint and bucket must be provided")
			}
		default:
			return fmt.Errorf("write type %q not defined", w.Type)
		}
	}
	return nil
}

func validateFormat(f api.SheetFormat) error {
	switch f {
	case api.SheetFormatCSV, api.SheetFormatJSONL:
		return nil
	}
	return fmt.Errorf("sheet format %q not defined", f)
}

// ProfileFor returns the profile matching a sensor name, falling back to the "*" profile.
func (c *ConfigFileStruct) ProfileFor(sensor string) (api.SensorProfile, bool) {
	var wildcard *api.SensorProfile
	for i := range c.Sensors {
		p := &c.Sensors[i]
		if p.Name == "*" {
			wildcard = p
			continue
		}
		if strings.EqualFold(p.Name, sensor) {
			return *p, true
		}
	}
	if wildcard != nil {
		p := *wildcard
		p.Name = sensor
		return p, true
	}
	return api.SensorProfile{}, false
}

// DefaultSensorProfiles mirrors the sheets of the reference deployment: an indoor air quality
// sensor, a weather station and a noise meter. Any other sheet uses its first numeric columns.
func DefaultSensorProfiles() []api.SensorProfile {
	return []api.SensorProfile{
		{Name: "S2103", Features: []string{"CO2", "Temperature", "Humidity"}, Severity: api.SeverityRolePrimary, RCA: true, MaxFeatures: api.DefaultMaxFeatures},
		{Name: "S2120", Features: []string{"Air Temperature", "Air Humidity", "Light Intensity", "Uv Index", "Wind Speed", "Rain Gauge", "Barometric Pressure"}, PCA: true, MaxFeatures: api.DefaultMaxFeatures},
		{Name: "WS302", FeatureContains: []string{"Noise", "LA"}, MaxFeatures: 1},
		{Name: "*", MaxFeatures: api.DefaultMaxFeatures},
	}
}

// JSONUnmarshalStrict is like json.Unmarshal but rejects unknown fields.
func JSONUnmarshalStrict(data []byte, v interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(v)
}
