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

package write

import (
	"sync"

	log "github.com/sirupsen/logrus"
)

// WriteFake keeps every written batch in memory.
type WriteFake struct {
	mu      sync.Mutex
	batches []*Batch
	closed  bool
}

// Write stores a copy of the batch.
func (w *WriteFake) Write(b *Batch) error {
	log.Debugf("writeFake: batch %s, number of rows = %d", b.Name, len(b.Rows))
	w.mu.Lock()
	defer w.mu.Unlock()
	cp := &Batch{Name: b.Name, Sensor: b.Sensor, Columns: append([]string{}, b.Columns...)}
	for _, r := range b.Rows {
		cp.Rows = append(cp.Rows, r.Copy())
	}
	w.batches = append(w.batches, cp)
	return nil
}

func (w *WriteFake) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.closed = true
	return nil
}

// Batches returns the written batches, in write order.
func (w *WriteFake) Batches() []*Batch {
	w.mu.Lock()
	defer w.mu.Unlock()
	return append([]*Batch{}, w.batches...)
}

// Batch returns the written batch with the given name, or nil.
func (w *WriteFake) Batch(name string) *Batch {
	w.mu.Lock()
	defer w.mu.Unlock()
	for _, b := range w.batches {
		if b.Name == name {
			return b
		}
	}
	return nil
}

func (w *WriteFake) Closed() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.closed
}

// NewWriteFake creates a new write.
func NewWriteFake() *WriteFake {
	log.Debugf("entering NewWriteFake")
	return &WriteFake{}
}
