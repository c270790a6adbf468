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

package utils

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

var ErrNotNumeric = errors.New("value is not numeric")

// ConvertToFloat64 coerces a raw cell into a float64. Empty strings, nil, NaN-like text and
// unsupported types return ErrNotNumeric.
func ConvertToFloat64(v interface{}) (float64, error) {
	switch i := v.(type) {
	case float64:
		return i, nil
	case float32:
		return float64(i), nil
	case int64:
		return float64(i), nil
	case int32:
		return float64(i), nil
	case int16:
		return float64(i), nil
	case int8:
		return float64(i), nil
	case int:
		return float64(i), nil
	case uint64:
		return float64(i), nil
	case uint32:
		return float64(i), nil
	case uint16:
		return float64(i), nil
	case uint8:
		return float64(i), nil
	case uint:
		return float64(i), nil
	case bool:
		if i {
			return 1, nil
		}
		return 0, nil
	case string:
		s := strings.TrimSpace(i)
		if s == "" {
			return math.NaN(), ErrNotNumeric
		}
		f, err := strconv.ParseFloat(s, 64)
		if err != nil || math.IsNaN(f) {
			return math.NaN(), ErrNotNumeric
		}
		return f, nil
	case nil:
		return math.NaN(), ErrNotNumeric
	default:
		return math.NaN(), fmt.Errorf("%w: unsupported type %T", ErrNotNumeric, v)
	}
}

// ConvertToString renders a raw cell the way writers expect it.
func ConvertToString(v interface{}) string {
	switch i := v.(type) {
	case nil:
		return ""
	case string:
		return i
	case float64:
		return strconv.FormatFloat(i, 'g', -1, 64)
	case float32:
		return strconv.FormatFloat(float64(i), 'g', -1, 32)
	case bool:
		return strconv.FormatBool(i)
	case time.Time:
		return i.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return i.String()
	default:
		return fmt.Sprint(v)
	}
}

var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
	"2006/01/02 15:04:05",
	"02/01/2006 15:04",
	"2006-01-02",
}

// ConvertToTime parses a timestamp cell. Numbers are read as unix seconds.
func ConvertToTime(v interface{}) (time.Time, error) {
	switch i := v.(type) {
	case time.Time:
		return i.UTC(), nil
	case string:
		s := strings.TrimSpace(i)
		for _, layout := range timeLayouts {
			if t, err := time.ParseInLocation(layout, s, time.UTC); err == nil {
				return t.UTC(), nil
			}
		}
		return time.Time{}, fmt.Errorf("can't parse time %q", s)
	default:
		f, err := ConvertToFloat64(v)
		if err != nil {
			return time.Time{}, fmt.Errorf("can't parse time %v: %w", v, err)
		}
		sec, frac := math.Modf(f)
		return time.Unix(int64(sec), int64(frac*1e9)).UTC(), nil
	}
}
