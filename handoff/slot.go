// Copyright 2025 The packetd Authors
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package handoff implements the single-slot, wait-free publish path a
// link's I/O goroutine uses to hand completed scans to consumers without
// ever blocking on them.
package handoff

import (
	"sync"
	"sync/atomic"

	"github.com/b2atech/r2000/internal/rescue"
)

// Slot is a single-slot publisher for values of type T. Exactly one
// writer goroutine calls Publish; any number of reader goroutines call
// Load. Publish never blocks and never allocates past construction: it
// round-robins between two pre-allocated slots and flips an atomic
// index once the write is complete.
type Slot[T any] struct {
	values [2]T
	index  atomic.Int32 // -1 until the first publish

	mu        sync.Mutex
	listeners []func(*T)
}

// NewSlot returns an empty, unpublished Slot.
func NewSlot[T any]() *Slot[T] {
	s := &Slot[T]{}
	s.index.Store(-1)
	return s
}

// Publish writes val into the inactive slot and atomically makes it the
// active one, then synchronously invokes every registered listener with
// a pointer to the just-published value. Listener invocation happens on
// the caller's goroutine (typically the link's I/O goroutine) and each
// call is recovered via rescue.Safe so a panicking listener cannot take
// the link down.
func (s *Slot[T]) Publish(val T) {
	cur := s.index.Load()
	next := int32(0)
	if cur == 0 {
		next = 1
	}
	s.values[next] = val
	s.index.Store(next)

	s.mu.Lock()
	listeners := append([]func(*T){}, s.listeners...)
	s.mu.Unlock()

	for _, cb := range listeners {
		cb := cb
		rescue.Safe(func() { cb(&s.values[next]) })
	}
}

// Load returns the most recently published value and true, or the zero
// value and false if nothing has been published yet.
func (s *Slot[T]) Load() (T, bool) {
	idx := s.index.Load()
	if idx < 0 {
		var zero T
		return zero, false
	}
	return s.values[idx], true
}

// AddListener registers a callback invoked synchronously from Publish
// with every subsequently published value. Guarded by a mutex so
// registration never races with dispatch.
func (s *Slot[T]) AddListener(cb func(*T)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.listeners = append(s.listeners, cb)
}
