/*
 * Copyright (c) 2025 by Alexander Drost, Oldenburg, Germany.
 * This file is licensed to you under the Apache License, Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.  You may obtain a copy of the License at
 *   http://www.apache.org/licenses/LICENSE-2.0
 * Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.  See the License for the
 *  specific language governing permissions and limitations under the License.
 */

// Package history keeps a back/forward list of committed view states.
package history

import (
	"sync"
	"time"
)

// Entry is a recorded value and the time it was committed.
type Entry[T any] struct {
	Value T
	TS    time.Time
}

// Config controls depth caps and coalescing behavior.
type Config struct {
	// MaxDepth limits the number of entries kept behind the current one (0 means 64).
	MaxDepth int
	// MinInterval coalesces values pushed within the interval, replacing the
	// current entry instead of pushing a new one. A fast wheel spin becomes one step.
	MinInterval time.Duration
}

// Manager is a browser-style history: one current entry, a back stack and a
// forward stack. It is safe for concurrent use.
type Manager[T any] struct {
	cfg  Config
	mu   sync.Mutex
	cur  *Entry[T]
	back []Entry[T]
	fwd  []Entry[T]
}

func NewManager[T any](cfg Config) *Manager[T] {
	if cfg.MaxDepth <= 0 {
		cfg.MaxDepth = 64
	}
	if cfg.MinInterval < 0 {
		cfg.MinInterval = 0
	}
	return &Manager[T]{cfg: cfg}
}

// Push records v as the current entry. Within MinInterval of the current
// entry it replaces it. Any push clears the forward stack.
func (m *Manager[T]) Push(v T, ts time.Time) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.fwd = nil
	e := Entry[T]{Value: v, TS: ts}
	if m.cur == nil {
		m.cur = &e
		return
	}
	if ts.Sub(m.cur.TS) < m.cfg.MinInterval {
		// coalesce, keeping the timestamp of the burst start
		m.cur.Value = v
		return
	}
	m.back = append(m.back, *m.cur)
	m.cur = &e
	if over := len(m.back) - m.cfg.MaxDepth; over > 0 {
		m.back = append([]Entry[T]{}, m.back[over:]...)
	}
}

// Back moves to the previous entry and returns it.
func (m *Manager[T]) Back() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.cur == nil || len(m.back) == 0 {
		return zero, false
	}
	m.fwd = append(m.fwd, *m.cur)
	prev := m.back[len(m.back)-1]
	m.back = m.back[:len(m.back)-1]
	m.cur = &prev
	return prev.Value, true
}

// Forward moves to the next entry after a Back.
func (m *Manager[T]) Forward() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.cur == nil || len(m.fwd) == 0 {
		return zero, false
	}
	m.back = append(m.back, *m.cur)
	next := m.fwd[len(m.fwd)-1]
	m.fwd = m.fwd[:len(m.fwd)-1]
	m.cur = &next
	return next.Value, true
}

// Current returns the current entry's value.
func (m *Manager[T]) Current() (T, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var zero T
	if m.cur == nil {
		return zero, false
	}
	return m.cur.Value, true
}

// Len returns the number of entries including the current one.
func (m *Manager[T]) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := len(m.back) + len(m.fwd)
	if m.cur != nil {
		n++
	}
	return n
}

// Stats returns the depth of both stacks for diagnostics.
func (m *Manager[T]) Stats() (back, forward int) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.back), len(m.fwd)
}

// Clear drops all entries.
func (m *Manager[T]) Clear() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cur = nil
	m.back = nil
	m.fwd = nil
}
