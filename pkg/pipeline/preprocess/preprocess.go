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

package preprocess

import (
	"math"
	"time"

	"github.com/netobserv/sensor-anomaly-pipeline/pkg/api"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/frame"
	"github.com/netobserv/sensor-anomaly-pipeline/pkg/utils"
	"github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/interp"
	"gonum.org/v1/gonum/stat"
)

const (
	RollingMeanSuffix = "_rmean"
	RollingStdSuffix  = "_rstd"
	DeltaSuffix       = "_delta"
)

var plog = logrus.WithField("component", "preprocess.Preprocessor")

// Preprocessor turns a raw sensor series into a dense, uniformly spaced feature frame.
type Preprocessor struct {
	cadence time.Duration
	window  int
}

func NewPreprocessor(cfg api.Preprocess) *Preprocessor {
	plog.Debugf("entering NewPreprocessor")
	cfg.SetDefaults()
	return &Preprocessor{
		cadence: cfg.Cadence.Duration,
		window:  cfg.RollingWindow,
	}
}

// Process resamples the requested features, fills the gaps and appends the rolling mean,
// rolling std and delta of each feature. Features with no numeric value are dropped; when none
// is left the returned frame is empty.
func (p *Preprocessor) Process(series *frame.SensorSeries, features []string) *frame.Frame {
	if series == nil || series.Len() == 0 {
		return frame.Empty(nameOf(series), p.cadence)
	}
	known := map[string]bool{}
	for _, c := range series.Columns {
		known[c] = true
	}

	start := series.Times[0].Truncate(p.cadence)
	end := series.Times[series.Len()-1].Truncate(p.cadence)
	nBins := int(end.Sub(start)/p.cadence) + 1
	times := make([]time.Time, nBins)
	for i := range times {
		times[i] = start.Add(time.Duration(i) * p.cadence)
	}

	var kept []string
	resampled := map[string][]float64{}
	for _, feat := range features {
		if !known[feat] {
			plog.Warnf("%s: feature %s not found, dropping it", series.Name, feat)
			continue
		}
		values, ok := p.resample(series, feat, start, nBins)
		if !ok {
			plog.Warnf("%s: feature %s has no numeric value, dropping it", series.Name, feat)
			continue
		}
		kept = append(kept, feat)
		resampled[feat] = values
	}
	kept = dropCollisions(series.Name, kept)
	if len(kept) == 0 {
		return frame.Empty(series.Name, p.cadence)
	}

	f := frame.New(series.Name, p.cadence, times)
	derived := make([][]float64, 0, 3*len(kept))
	for _, feat := range kept {
		values := fill(times, resampled[feat])
		if err := f.AddColumn(feat, values); err != nil {
			plog.Errorf("%s: %v", series.Name, err)
			return frame.Empty(series.Name, p.cadence)
		}
		mean, std := p.rolling(values)
		derived = append(derived, mean, std, delta(values))
	}
	for i, feat := range kept {
		for j, suffix := range derivedSuffixes {
			if err := f.AddColumn(feat+suffix, derived[3*i+j]); err != nil {
				plog.Errorf("%s: %v", series.Name, err)
				return frame.Empty(series.Name, p.cadence)
			}
		}
	}
	plog.Debugf("%s: %d raw rows resampled into %d rows of %d columns", series.Name, series.Len(), f.Len(), len(f.Columns))
	return f
}

var derivedSuffixes = []string{RollingMeanSuffix, RollingStdSuffix, DeltaSuffix}

// dropCollisions removes repeated features and the features named like a column derived from another kept feature,
// such as X_delta next to X. Keeping both would give one frame column two meanings.
func dropCollisions(sensor string, features []string) []string {
	derived := map[string]string{}
	for _, feat := range features {
		for _, suffix := range derivedSuffixes {
			derived[feat+suffix] = feat
		}
	}
	out := make([]string, 0, len(features))
	seen := map[string]bool{}
	for _, feat := range features {
		if seen[feat] {
			continue
		}
		seen[feat] = true
		if base, collides := derived[feat]; collides {
			plog.Warnf("%s: feature %s collides with a column derived from %s, dropping it", sensor, feat, base)
			continue
		}
		out = append(out, feat)
	}
	return out
}

// resample averages the numeric values of each [t, t+cadence) bin. Empty bins are NaN.
func (p *Preprocessor) resample(series *frame.SensorSeries, feat string, start time.Time, nBins int) ([]float64, bool) {
	buckets := make([][]float64, nBins)
	found := false
	for i := range series.Rows {
		b := int(series.Times[i].Truncate(p.cadence).Sub(start) / p.cadence)
		for _, cell := range series.Values(i, feat) {
			v, err := utils.ConvertToFloat64(cell)
			if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
				continue
			}
			buckets[b] = append(buckets[b], v)
			found = true
		}
	}
	if !found {
		return nil, false
	}
	out := make([]float64, nBins)
	for i, b := range buckets {
		if len(b) == 0 {
			out[i] = math.NaN()
			continue
		}
		out[i] = stat.Mean(b, nil)
	}
	return out, true
}

// fill interpolates the missing values linearly in time; leading and trailing gaps take the
// nearest known value.
func fill(times []time.Time, values []float64) []float64 {
	var xs, ys []float64
	for i, v := range values {
		if !math.IsNaN(v) {
			xs = append(xs, float64(times[i].Unix()))
			ys = append(ys, v)
		}
	}
	out := make([]float64, len(values))
	if len(xs) == 1 {
		for i := range out {
			out[i] = ys[0]
		}
		return out
	}
	var pl interp.PiecewiseLinear
	if err := pl.Fit(xs, ys); err != nil {
		plog.Errorf("interpolation failed: %v", err)
		return values
	}
	for i, v := range values {
		if math.IsNaN(v) {
			out[i] = pl.Predict(float64(times[i].Unix()))
		} else {
			out[i] = v
		}
	}
	return out
}

// rolling computes the trailing mean and sample std over up to window samples. The std of a
// single sample is 0.
func (p *Preprocessor) rolling(values []float64) ([]float64, []float64) {
	mean := make([]float64, len(values))
	std := make([]float64, len(values))
	for i := range values {
		from := i - p.window + 1
		if from < 0 {
			from = 0
		}
		w := values[from : i+1]
		if len(w) == 1 {
			mean[i] = w[0]
			continue
		}
		mean[i], std[i] = stat.MeanStdDev(w, nil)
	}
	return mean, std
}

func delta(values []float64) []float64 {
	out := make([]float64, len(values))
	for i := 1; i < len(values); i++ {
		out[i] = values[i] - values[i-1]
	}
	return out
}

func nameOf(series *frame.SensorSeries) string {
	if series == nil {
		return ""
	}
	return series.Name
}
