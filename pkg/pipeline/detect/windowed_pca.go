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
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/stat"
)

var pcalog = logrus.WithField("component", "detect.WindowedPCA")

// WindowedPCA flags sliding windows that a low rank projection of all windows reconstructs badly.
type WindowedPCA struct {
	cfg api.WindowedPCA
}

func NewWindowedPCA(cfg api.WindowedPCA) *WindowedPCA {
	pcalog.Debugf("entering NewWindowedPCA")
	cfg.SetDefaults()
	return &WindowedPCA{cfg: cfg}
}

// Detect scores each window of windowSize consecutive rows; the result is indexed by the
// window's last row. A frame shorter than a window gives an empty table.
func (d *WindowedPCA) Detect(f *frame.Frame, features []string) (*frame.AnomalyTable, error) {
	feats := f.Present(features)
	if len(feats) == 0 {
		return nil, fmt.Errorf("%s: %w", f.Sensor, ErrNoFeatures)
	}
	w := d.cfg.WindowSize
	out := &frame.AnomalyTable{
		Frame:      f,
		Method:     frame.MethodWindowedPCA,
		ScoreField: d.cfg.ScoreField,
		FlagField:  d.cfg.FlagField,
		Offset:     w - 1,
	}
	if f.Len() < w {
		pcalog.Debugf("%s: %d rows, shorter than a window of %d", f.Sensor, f.Len(), w)
		return out, nil
	}

	windows, err := d.windows(f, feats)
	if err != nil {
		return nil, err
	}
	ws := FitScaler(windows).Transform(windows)
	errs, err := d.reconstructionErrors(ws)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", f.Sensor, err)
	}

	mean, variance := stat.PopMeanVariance(errs, nil)
	out.Threshold = mean + d.cfg.Sigmas*math.Sqrt(variance)
	out.Times = f.Times[w-1:]
	out.Scores = errs
	out.Flags = make([]bool, len(errs))
	for i, e := range errs {
		out.Flags[i] = e > out.Threshold
	}
	pcalog.Debugf("%s: %d/%d windows flagged, threshold %.4f", f.Sensor, out.Anomalies(), len(errs), out.Threshold)
	return out, nil
}

// windows flattens each run of windowSize rows, row by row, into one observation.
func (d *WindowedPCA) windows(f *frame.Frame, feats []string) (*mat.Dense, error) {
	x, err := f.Matrix(feats, 0, f.Len())
	if err != nil {
		return nil, err
	}
	w, nf := d.cfg.WindowSize, len(feats)
	m := f.Len() - w + 1
	out := mat.NewDense(m, w*nf, nil)
	for i := 0; i < m; i++ {
		for r := 0; r < w; r++ {
			for j := 0; j < nf; j++ {
				out.Set(i, r*nf+j, x.At(i+r, j))
			}
		}
	}
	return out, nil
}

// reconstructionErrors projects the centered windows on the fewest components explaining
// varianceFraction of the variance and returns the mean squared residual of each window.
func (d *WindowedPCA) reconstructionErrors(ws *mat.Dense) ([]float64, error) {
	m, cols := ws.Dims()
	centered := mat.NewDense(m, cols, nil)
	colMean := make([]float64, cols)
	col := make([]float64, m)
	for j := 0; j < cols; j++ {
		mat.Col(col, j, ws)
		colMean[j] = stat.Mean(col, nil)
	}
	centered.Apply(func(_, j int, v float64) float64 { return v - colMean[j] }, ws)

	k, vecs, err := d.components(ws)
	if err != nil {
		return nil, err
	}
	residual := centered
	if k > 0 {
		vk := vecs.Slice(0, cols, 0, k)
		var scores, rec mat.Dense
		scores.Mul(centered, vk)
		rec.Mul(&scores, vk.T())
		residual = mat.NewDense(m, cols, nil)
		residual.Sub(centered, &rec)
	}

	errs := make([]float64, m)
	row := make([]float64, cols)
	for i := 0; i < m; i++ {
		mat.Row(row, i, residual)
		var sum float64
		for _, v := range row {
			sum += v * v
		}
		errs[i] = sum / float64(cols)
	}
	return errs, nil
}

// components returns the number of kept components and the component vectors as columns.
func (d *WindowedPCA) components(ws *mat.Dense) (int, *mat.Dense, error) {
	m, _ := ws.Dims()
	if m < 2 {
		return 0, nil, nil
	}
	var pc stat.PC
	if ok := pc.PrincipalComponents(ws, nil); !ok {
		return 0, nil, ErrModelFit
	}
	vars := pc.VarsTo(nil)
	var total float64
	for _, v := range vars {
		total += v
	}
	if total <= 0 || math.IsNaN(total) {
		return 0, nil, nil
	}
	var vecs mat.Dense
	pc.VectorsTo(&vecs)
	k, cum := 0, 0.0
	for k < len(vars) {
		cum += vars[k]
		k++
		if cum/total >= d.cfg.VarianceFraction {
			break
		}
	}
	return k, &vecs, nil
}
