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

type WriteCSV struct {
	Directory string `yaml:"directory,omitempty" json:"directory,omitempty" doc:"output directory; created when missing; default ./pipeline_outputs"`
}

type WriteStdout struct {
	Format string `yaml:"format,omitempty" json:"format,omitempty" doc:"the format of each line: printf (default - writes using golang's default map printing), json (writes as json), text (writes the report or message column only, skipping other rows)"`
}

type KafkaEncodeBalancerEnum string

const (
	KafkaRoundRobin KafkaEncodeBalancerEnum = "roundRobin"
	KafkaLeastBytes KafkaEncodeBalancerEnum = "leastBytes"
	KafkaHash       KafkaEncodeBalancerEnum = "hash"
	KafkaCrc32      KafkaEncodeBalancerEnum = "crc32"
	KafkaMurmur2    KafkaEncodeBalancerEnum = "murmur2"
)

type WriteKafka struct {
	Address      string                  `yaml:"address" json:"address" doc:"address of kafka server"`
	Topic        string                  `yaml:"topic" json:"topic" doc:"kafka topic to write to"`
	Balancer     KafkaEncodeBalancerEnum `yaml:"balancer,omitempty" json:"balancer,omitempty" enum:"KafkaBalancerEnum" doc:"one of the following:"`
	WriteTimeout int64                   `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty" doc:"timeout (in seconds) for write operation performed by the Writer"`
	ReadTimeout  int64                   `yaml:"readTimeout,omitempty" json:"readTimeout,omitempty" doc:"timeout (in seconds) for read operation performed by the Writer"`
	BatchBytes   int64                   `yaml:"batchBytes,omitempty" json:"batchBytes,omitempty" doc:"limit the maximum size of a request in bytes before being sent to a partition"`
	BatchSize    int                     `yaml:"batchSize,omitempty" json:"batchSize,omitempty" doc:"limit on how many messages will be buffered before being sent to a partition"`
	Batches      []string                `yaml:"batches,omitempty" json:"batches,omitempty" doc:"only write batches whose name starts with one of these prefixes; default all"`
}

type WriteLoki struct {
	URL          string            `yaml:"url,omitempty" json:"url,omitempty" doc:"the address of an existing Loki service to push the rows to"`
	TenantID     string            `yaml:"tenantID,omitempty" json:"tenantID,omitempty" doc:"identifies the tenant for the request"`
	BatchWait    string            `yaml:"batchWait,omitempty" json:"batchWait,omitempty" doc:"maximum amount of time to wait before sending a batch"`
	BatchSize    int               `yaml:"batchSize,omitempty" json:"batchSize,omitempty" doc:"maximum batch size (in bytes) of logs to accumulate before sending"`
	Timeout      string            `yaml:"timeout,omitempty" json:"timeout,omitempty" doc:"maximum time to wait for a server to respond to a request"`
	MinBackoff   string            `yaml:"minBackoff,omitempty" json:"minBackoff,omitempty" doc:"initial backoff time for client connection between retries"`
	MaxBackoff   string            `yaml:"maxBackoff,omitempty" json:"maxBackoff,omitempty" doc:"maximum backoff time for client connection between retries"`
	MaxRetries   int               `yaml:"maxRetries,omitempty" json:"maxRetries,omitempty" doc:"maximum number of retries for client connections"`
	StaticLabels map[string]string `yaml:"staticLabels,omitempty" json:"staticLabels,omitempty" doc:"map of common labels to set on each row"`
	Labels       []string          `yaml:"labels,omitempty" json:"labels,omitempty" doc:"list of row fields that should be used as labels, in addition to batch and sensor"`
	Batches      []string          `yaml:"batches,omitempty" json:"batches,omitempty" doc:"only write batches whose name starts with one of these prefixes; default rca_ and warnings_"`
}

func GetWriteLokiDefaults() WriteLoki {
	return WriteLoki{
		URL:        "http://loki:3100/",
		BatchWait:  "1s",
		BatchSize:  100 * 1024,
		Timeout:    "10s",
		MinBackoff: "1s",
		MaxBackoff: "5m",
		MaxRetries: 10,
		Batches:    []string{"rca_", "warnings_"},
	}
}

type S3Compression string

const (
	S3CompressionNone   S3Compression = ""       // plain csv objects
	S3CompressionSnappy S3Compression = "snappy" // snappy block encoded csv objects
)

type WriteS3 struct {
	Account         string            `yaml:"account" json:"account" doc:"tenant id, first element of the object path"`
	Endpoint        string            `yaml:"endpoint" json:"endpoint" doc:"address of s3 server"`
	AccessKeyID     string            `yaml:"accessKeyId" json:"accessKeyId" doc:"username to connect to server"`
	SecretAccessKey string            `yaml:"secretAccessKey" json:"secretAccessKey" doc:"password to connect to server"`
	Secure          bool              `yaml:"secure,omitempty" json:"secure,omitempty" doc:"use https to connect to server"`
	Bucket          string            `yaml:"bucket" json:"bucket" doc:"bucket into which to store objects"`
	Compression     S3Compression     `yaml:"compression,omitempty" json:"compression,omitempty" enum:"S3CompressionEnum" doc:"object compression; empty stores plain csv"`
	WriteTimeout    Duration          `yaml:"writeTimeout,omitempty" json:"writeTimeout,omitempty" doc:"timeout for each put operation; default 60s"`
	ObjectMetadata  map[string]string `yaml:"objectMetadata,omitempty" json:"objectMetadata,omitempty" doc:"user metadata attached to every object (key/value pairs)"`
}
