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

import (
	"log"
	"reflect"
)

// The structs below only document the accepted values of string enums; each field's yaml tag is
// the value and its doc tag the description.

type SheetFormatEnum struct {
	CSV   string `yaml:"csv" doc:"comma separated sheet with a header row"`
	JSONL string `yaml:"jsonl" doc:"one json object per line"`
}

type SeverityRoleEnum struct {
	Primary string `yaml:"primary" doc:"severity is computed for this sensor, other sensors contribute co-occurring flags"`
}

type ForecastEngineEnum struct {
	Autoregressive string `yaml:"autoregressive" doc:"AR(p) fitted on the d-times differenced series"`
	Seasonal       string `yaml:"seasonal" doc:"additive Holt-Winters with a fixed season length"`
	Harmonic       string `yaml:"harmonic" doc:"linear trend plus daily and weekly Fourier terms"`
}

type KafkaBalancerEnum struct {
	RoundRobin string `yaml:"roundRobin" doc:"RoundRobin balancer"`
	LeastBytes string `yaml:"leastBytes" doc:"LeastBytes balancer"`
	Hash       string `yaml:"hash" doc:"Hash balancer"`
	Crc32      string `yaml:"crc32" doc:"Crc32 balancer"`
	Murmur2    string `yaml:"murmur2" doc:"Murmur2 balancer"`
}

type S3CompressionEnum struct {
	Snappy string `yaml:"snappy" doc:"snappy block encoding"`
}

type enums struct {
	SheetFormatEnum    SheetFormatEnum
	SeverityRoleEnum   SeverityRoleEnum
	ForecastEngineEnum ForecastEngineEnum
	KafkaBalancerEnum  KafkaBalancerEnum
	S3CompressionEnum  S3CompressionEnum
}

type enumNameCacheKey struct {
	enum      interface{}
	operation string
}

var enumNamesCache = map[enumNameCacheKey]string{}

// GetEnumName gets the name of an enum value from the representing enum struct based on `TagYaml` tag.
func GetEnumName(enum interface{}, operation string) string {
	key := enumNameCacheKey{enum: enum, operation: operation}
	if cachedValue, found := enumNamesCache[key]; found {
		return cachedValue
	}

	field, found := reflect.TypeOf(enum).FieldByName(operation)
	if !found {
		log.Panicf("can't find operation %s in enum %v", operation, enum)
		return ""
	}
	tag := field.Tag.Get(TagYaml)

	enumNamesCache[key] = tag
	return tag
}

// GetEnumReflectionTypeByFieldName gets the enum struct `reflection Type` from the name of the struct (using fields from `enums{}` struct).
func GetEnumReflectionTypeByFieldName(enumName string) reflect.Type {
	field, found := reflect.TypeOf(enums{}).FieldByName(enumName)
	if !found {
		log.Panicf("can't find enumName %s in enums", enumName)
		return nil
	}
	return field.Type
}

// EnumValues lists the accepted values of a documented enum, in declaration order.
func EnumValues(enumName string) []string {
	t := GetEnumReflectionTypeByFieldName(enumName)
	values := make([]string, 0, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		values = append(values, t.Field(i).Tag.Get(TagYaml))
	}
	return values
}
