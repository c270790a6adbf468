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

package main

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/stretchr/testify/require"
)

type DocTags struct {
	Title    string             `yaml:"title" doc:"##title"`
	Field    string             `yaml:"field" doc:"field"`
	Slice    []string           `yaml:"slice" doc:"slice"`
	Map      map[string]float64 `yaml:"map" doc:"map"`
	Sub      DocSubTags         `yaml:"sub" doc:"sub"`
	SubPtr   *DocSubTags        `yaml:"subPtr,omitempty" doc:"subPtr"`
	Subs     []DocSubTags       `yaml:"subs" doc:"subs"`
	Interval api.Duration       `yaml:"interval" doc:"interval"`
	Format   api.SheetFormat    `yaml:"format" enum:"SheetFormatEnum" doc:"format"`
	Hidden   string             `yaml:"hidden"`
}

type DocSubTags struct {
	SubField string `yaml:"subField" doc:"subField"`
}

func Test_iterate(t *testing.T) {
	output := new(bytes.Buffer)
	expected := "\n##title\n<pre>\n title:\n</pre>" +
		"     field: field\n" +
		"     slice: slice\n" +
		"     map: map\n" +
		"     sub: sub\n" +
		"         subField: subField\n" +
		"     subPtr: subPtr\n" +
		"         subField: subField\n" +
		"     subs: subs\n" +
		"         subField: subField\n" +
		"     interval: interval\n" +
		"     format: (enum) format\n" +
		"         csv: comma separated sheet with a header row\n" +
		"         jsonl: one json object per line\n"
	iterate(output, reflect.TypeOf(DocTags{}), 0)
	require.Equal(t, expected, output.String())
}

func Test_main(_ *testing.T) {
	main()
}
