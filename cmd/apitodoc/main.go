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
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
)

var durationType = reflect.TypeOf(api.Duration{})

func fieldName(f reflect.StructField) string {
	return strings.ReplaceAll(f.Tag.Get(api.TagYaml), ",omitempty", "")
}

// leafType unwraps pointers, slices and maps down to the type whose fields get documented.
func leafType(t reflect.Type) reflect.Type {
	for {
		switch t.Kind() {
		case reflect.Ptr, reflect.Slice, reflect.Map:
			t = t.Elem()
		default:
			return t
		}
	}
}

// iterate writes one line per documented field of t. Top level fields whose doc starts with "#"
// open a section; enum fields list their accepted values.
func iterate(output io.Writer, t reflect.Type, indent int) {
	t = leafType(t)
	if t.Kind() != reflect.Struct || t == durationType {
		return
	}
	pad := strings.Repeat(" ", 4*(indent+1))
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		doc := f.Tag.Get(api.TagDoc)
		if doc == "" {
			continue
		}
		name := fieldName(f)
		if strings.HasPrefix(doc, "#") {
			fmt.Fprintf(output, "\n%s\n<pre>\n%s %s:\n", doc, strings.Repeat(" ", 4*indent), name)
			iterate(output, f.Type, indent+1)
			fmt.Fprint(output, "</pre>")
			continue
		}
		if enumName := f.Tag.Get(api.TagEnum); enumName != "" {
			fmt.Fprintf(output, "%s %s: (enum) %s\n", pad, name, doc)
			enumType := api.GetEnumReflectionTypeByFieldName(enumName)
			for j := 0; j < enumType.NumField(); j++ {
				value := enumType.Field(j)
				fmt.Fprintf(output, "%s     %s: %s\n", pad, fieldName(value), value.Tag.Get(api.TagDoc))
			}
			continue
		}
		fmt.Fprintf(output, "%s %s: %s\n", pad, name, doc)
		iterate(output, f.Type, indent+1)
	}
}

func main() {
	output := new(bytes.Buffer)
	fmt.Fprintf(output, "# sensor-pipeline API\n\n> Note: this file was generated by \"go run ./cmd/apitodoc > docs/api.md\"\n")
	iterate(output, reflect.TypeOf(api.API{}), 0)
	fmt.Print(output)
}
