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

package api

type SheetFormat string

const (
	SheetFormatCSV   SheetFormat = "csv"   // comma separated sheet with a header row
	SheetFormatJSONL SheetFormat = "jsonl" // one json object per line
)

type IngestFile struct {
	Directory    string      `yaml:"directory,omitempty" json:"directory,omitempty" doc:"directory holding one file per sensor sheet; the file name (without extension) is the sensor name"`
	Format       SheetFormat `yaml:"format,omitempty" json:"format,omitempty" enum:"SheetFormatEnum" doc:"sheet format; default csv"`
	TimeField    string      `yaml:"timeField,omitempty" json:"timeField,omitempty" doc:"column holding the timestamp; default time"`
	Sensors      []string    `yaml:"sensors,omitempty" json:"sensors,omitempty" doc:"restrict ingestion to these sensor names"`
	CSVSeparator string      `yaml:"csvSeparator,omitempty" json:"csvSeparator,omitempty" doc:"single character field separator for csv sheets; default ,"`
}

func (i *IngestFile) SetDefaults() {
	if i.Format == "" {
		i.Format = SheetFormatCSV
	}
	if i.TimeField == "" {
		i.TimeField = "time"
	}
	if i.CSVSeparator == "" {
		i.CSVSeparator = ","
	}
}

type IngestS3 struct {
	Endpoint        string      `yaml:"endpoint" json:"endpoint" doc:"address of s3 server"`
	AccessKeyID     string      `yaml:"accessKeyId" json:"accessKeyId" doc:"username to connect to server"`
	SecretAccessKey string      `yaml:"secretAccessKey" json:"secretAccessKey" doc:"password to connect to server"`
	Secure          bool        `yaml:"secure,omitempty" json:"secure,omitempty" doc:"use https to connect to server"`
	Bucket          string      `yaml:"bucket" json:"bucket" doc:"bucket holding the sensor sheets"`
	Prefix          string      `yaml:"prefix,omitempty" json:"prefix,omitempty" doc:"object prefix; every object below it is one sensor sheet"`
	Format          SheetFormat `yaml:"format,omitempty" json:"format,omitempty" enum:"SheetFormatEnum" doc:"sheet format; default csv"`
	TimeField       string      `yaml:"timeField,omitempty" json:"timeField,omitempty" doc:"column holding the timestamp; default time"`
	Timeout         Duration    `yaml:"timeout,omitempty" json:"timeout,omitempty" doc:"timeout for listing and reading objects; default 60s"`
}

type IngestSynthetic struct {
	Sensors   []string `yaml:"sensors,omitempty" json:"sensors,omitempty" doc:"names of the generated sensors"`
	Features  []string `yaml:"features,omitempty" json:"features,omitempty" doc:"names of the generated features per sensor"`
	Samples   int      `yaml:"samples,omitempty" json:"samples,omitempty" doc:"number of samples per sensor; default 288"`
	Interval  Duration `yaml:"interval,omitempty" json:"interval,omitempty" doc:"spacing between samples; default 10m"`
	Spikes    int      `yaml:"spikes,omitempty" json:"spikes,omitempty" doc:"number of injected spikes per sensor"`
	SpikeSize float64  `yaml:"spikeSize,omitempty" json:"spikeSize,omitempty" doc:"spike height in standard deviations; default 6"`
	Seed      int64    `yaml:"seed,omitempty" json:"seed,omitempty" doc:"random seed"`
}
