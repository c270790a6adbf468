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
	"math"
	"math/rand"

	"gonum.org/v1/gonum/mat"
)

const eulerGamma = 0.5772156649015329

// averagePathLength is the expected path length of an unsuccessful search in a binary search
// tree of n points, used to normalize isolation depths.
func averagePathLength(n int) float64 {
	switch {
	case n <= 1:
		return 0
	case n == 2:
		return 1
	}
	nf := float64(n)
	return 2*(math.Log(nf-1)+eulerGamma) - 2*(nf-1)/nf
}

type itreeNode struct {
	feature int
	split   float64
	left    int
	right   int
	size    int
	leaf    bool
}

type itree struct {
	nodes []itreeNode
}

// forest is an ensemble of isolation trees fitted on sub-samples of the training rows.
type forest struct {
	trees      []itree
	maxSamples int
}

func fitForest(x mat.Matrix, numTrees, maxSamples int, seed int64) *forest {
	n, _ := x.Dims()
	if maxSamples > n {
		maxSamples = n
	}
	depthLimit := int(math.Ceil(math.Log2(math.Max(float64(maxSamples), 2))))
	rng := rand.New(rand.NewSource(seed))
	f := &forest{trees: make([]itree, numTrees), maxSamples: maxSamples}
	for t := range f.trees {
		rows := rng.Perm(n)[:maxSamples]
		b := treeBuilder{x: x, rng: rng, depthLimit: depthLimit}
		b.build(rows, 0)
		f.trees[t] = itree{nodes: b.nodes}
	}
	return f
}

type treeBuilder struct {
	x          mat.Matrix
	rng        *rand.Rand
	depthLimit int
	nodes      []itreeNode
}

// build appends the subtree isolating rows and returns its node index.
func (b *treeBuilder) build(rows []int, depth int) int {
	idx := len(b.nodes)
	b.nodes = append(b.nodes, itreeNode{size: len(rows), leaf: true})
	if depth >= b.depthLimit || len(rows) <= 1 {
		return idx
	}

	_, d := b.x.Dims()
	lows := make([]float64, d)
	highs := make([]float64, d)
	var candidates []int
	for j := 0; j < d; j++ {
		lo, hi := math.Inf(1), math.Inf(-1)
		for _, r := range rows {
			v := b.x.At(r, j)
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		lows[j], highs[j] = lo, hi
		if hi > lo {
			candidates = append(candidates, j)
		}
	}
	if len(candidates) == 0 {
		return idx
	}

	feature := candidates[b.rng.Intn(len(candidates))]
	split := lows[feature] + b.rng.Float64()*(highs[feature]-lows[feature])
	var left, right []int
	for _, r := range rows {
		if b.x.At(r, feature) < split {
			left = append(left, r)
		} else {
			right = append(right, r)
		}
	}

	l := b.build(left, depth+1)
	rt := b.build(right, depth+1)
	b.nodes[idx] = itreeNode{feature: feature, split: split, left: l, right: rt, size: len(rows)}
	return idx
}

func (t *itree) pathLength(row []float64) float64 {
	i, depth := 0, 0
	for !t.nodes[i].leaf {
		n := t.nodes[i]
		if row[n.feature] < n.split {
			i = n.left
		} else {
			i = n.right
		}
		depth++
	}
	return float64(depth) + averagePathLength(t.nodes[i].size)
}

// scoreSamples returns -2^(-E[h(x)]/c(maxSamples)) per row; lower is more abnormal.
func (f *forest) scoreSamples(x mat.Matrix) []float64 {
	n, d := x.Dims()
	norm := averagePathLength(f.maxSamples)
	scores := make([]float64, n)
	row := make([]float64, d)
	for i := 0; i < n; i++ {
		mat.Row(row, i, x)
		var sum float64
		for t := range f.trees {
			sum += f.trees[t].pathLength(row)
		}
		mean := sum / float64(len(f.trees))
		if norm == 0 {
			scores[i] = -1
			continue
		}
		scores[i] = -math.Pow(2, -mean/norm)
	}
	return scores
}
