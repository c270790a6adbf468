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

import (
	"fmt"
	"math"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/sirupsen/logrus"
)

var iflog = logrus.WithField("component", "detect.IsolationForest")

// IsolationForest flags the rows that a tree ensemble fitted on the leading rows isolates early.
type IsolationForest struct {
	cfg api.IsolationForest
}

func NewIsolationForest(cfg api.IsolationForest) *IsolationForest {
	iflog.Debugf("entering NewIsolationForest")
	cfg.SetDefaults()
	return &IsolationForest{cfg: cfg}
}

// MinRows is the frame length under which the pipeline skips this detector.
func (d *IsolationForest) MinRows() int {
	return d.cfg.MinRows
}

// Detect scores every row of f on the given features. The scaler and the ensemble only see the
// first floor(n·trainFraction) rows; the decision is the score minus the contamination
// percentile of the training scores, and negative decisions are anomalies.
func (d *IsolationForest) Detect(f *frame.Frame, features []string) (*frame.AnomalyTable, error) {
	feats := f.Present(features)
	if len(feats) == 0 {
		return nil, fmt.Errorf("%s: %w", f.Sensor, ErrNoFeatures)
	}
	n := f.Len()
	nTrain := int(math.Floor(float64(n) * d.cfg.TrainFraction))
	if nTrain < 1 {
		return nil, fmt.Errorf("%s: %d rows leave no training row: %w", f.Sensor, n, ErrInsufficientData)
	}

	x, err := f.Matrix(feats, 0, n)
	if err != nil {
		return nil, err
	}
	train := x.Slice(0, nTrain, 0, len(feats))
	scaler := FitScaler(train)
	xs := scaler.Transform(x)
	trainScaled := xs.Slice(0, nTrain, 0, len(feats))

	model := fitForest(trainScaled, d.cfg.NumTrees, d.cfg.MaxSamples, *d.cfg.Seed)
	scores := model.scoreSamples(xs)
	offset := percentile(scores[:nTrain], 100*d.cfg.Contamination)

	out := &frame.AnomalyTable{
		Frame:      f,
		Method:     frame.MethodIsolationForest,
		ScoreField: d.cfg.ScoreField,
		FlagField:  d.cfg.FlagField,
		Times:      f.Times,
		Scores:     make([]float64, n),
		Flags:      make([]bool, n),
	}
	for i, s := range scores {
		out.Scores[i] = s - offset
		out.Flags[i] = out.Scores[i] < 0
	}
	iflog.Debugf("%s: %d/%d rows flagged, %d training rows, offset %.4f", f.Sensor, out.Anomalies(), n, nTrain, offset)
	return out, nil
}
