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

const (
	FileType      = "file"
	S3Type        = "s3"
	SyntheticType = "synthetic"
	CSVType       = "csv"
	StdoutType    = "stdout"
	LokiType      = "loki"
	KafkaType     = "kafka"
	NoneType      = "none"

	TagYaml = "yaml"
	TagDoc  = "doc"
	TagEnum = "enum"
)

// Note: items beginning with doc: "## title" are top level items that get divided into sections inside api.md.

type API struct {
	IngestFile      IngestFile      `yaml:"file" doc:"## Ingest file API\nFollowing is the supported API format for reading sensor sheets from a directory:\n"`
	IngestS3        IngestS3        `yaml:"s3" doc:"## Ingest S3 API\nFollowing is the supported API format for reading sensor sheets from an object store:\n"`
	IngestSynthetic IngestSynthetic `yaml:"synthetic" doc:"## Ingest synthetic API\nFollowing is the supported API format for generated sensor data:\n"`
	SensorProfile   SensorProfile   `yaml:"sensor" doc:"## Sensor profile API\nFollowing is the supported API format for per-sensor feature selection:\n"`
	Preprocess      Preprocess      `yaml:"preprocess" doc:"## Preprocess API\nFollowing is the supported API format for resampling and rolling features:\n"`
	IsolationForest IsolationForest `yaml:"isolationForest" doc:"## Isolation forest API\nFollowing is the supported API format for the isolation forest detector:\n"`
	WindowedPCA     WindowedPCA     `yaml:"pca" doc:"## Windowed PCA API\nFollowing is the supported API format for the windowed PCA detector:\n"`
	Severity        Severity        `yaml:"severity" doc:"## Severity API\nFollowing is the supported API format for severity scoring:\n"`
	RCA             RCA             `yaml:"rca" doc:"## Root cause analysis API\nFollowing is the supported API format for root cause analysis:\n"`
	Forecast        Forecast        `yaml:"forecast" doc:"## Forecast API\nFollowing is the supported API format for batch forecasting:\n"`
	WriteCSV        WriteCSV        `yaml:"csv" doc:"## Write CSV API\nFollowing is the supported API format for writing CSV files:\n"`
	WriteStdout     WriteStdout     `yaml:"stdout" doc:"## Write Standard Output\nFollowing is the supported API format for writing to standard output:\n"`
	WriteLoki       WriteLoki       `yaml:"loki" doc:"## Write Loki API\nFollowing is the supported API format for writing to loki:\n"`
	WriteKafka      WriteKafka      `yaml:"kafka" doc:"## Write Kafka API\nFollowing is the supported API format for writing to kafka:\n"`
	WriteS3         WriteS3         `yaml:"s3write" doc:"## Write S3 API\nFollowing is the supported API format for writing to an object store:\n"`
}
