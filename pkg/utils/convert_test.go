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
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConvertToFloat64(t *testing.T) {
	f, err := ConvertToFloat64("  12.5 ")
	require.NoError(t, err)
	assert.Equal(t, 12.5, f)

	f, err = ConvertToFloat64(7)
	require.NoError(t, err)
	assert.Equal(t, 7.0, f)

	for _, bad := range []interface{}{"", "n/a", nil, "NaN", []int{1}} {
		f, err = ConvertToFloat64(bad)
		require.Error(t, err, "value %v", bad)
		assert.True(t, math.IsNaN(f))
		assert.ErrorIs(t, err, ErrNotNumeric)
	}
}

func TestConvertToTime(t *testing.T) {
	ts, err := ConvertToTime("2024-03-01 10:20:30")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 10, 20, 30, 0, time.UTC), ts)

	ts, err = ConvertToTime("2024-03-01T10:20:30+02:00")
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, 3, 1, 8, 20, 30, 0, time.UTC), ts)

	ts, err = ConvertToTime(float64(1700000000))
	require.NoError(t, err)
	assert.Equal(t, int64(1700000000), ts.Unix())

	_, err = ConvertToTime("yesterday")
	require.Error(t, err)
}

func TestConvertToString(t *testing.T) {
	assert.Equal(t, "", ConvertToString(nil))
	assert.Equal(t, "1.5", ConvertToString(1.5))
	assert.Equal(t, "true", ConvertToString(true))
	assert.Equal(t, "2024-01-01T00:00:00Z", ConvertToString(time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)))
}
