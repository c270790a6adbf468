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

package detect

import "errors"

var (
	// ErrInsufficientData is returned when a frame has too few rows to fit a model.
	ErrInsufficientData = errors.New("insufficient data")
	// ErrNoFeatures is returned when none of the requested features is in the frame.
	ErrNoFeatures = errors.New("no requested feature in frame")
	// ErrModelFit is returned when a numerical decomposition fails.
	ErrModelFit = errors.New("model fit failed")
)
