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

package frame

import "time"

// FlagSeries maps a timestamp (unix nanoseconds) to an anomaly flag.
type FlagSeries map[int64]bool

// Lookup tells whether the series has a value at t, and that value.
func (fs FlagSeries) Lookup(t time.Time) (flag bool, present bool) {
	flag, present = fs[t.UnixNano()]
	return
}
