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

// Package pubsub implements a small multi-subscriber broadcast bus used by
// status.Watcher to fan device-status events out to however many consumers
// have registered interest. Unlike handoff.Slot's hard-realtime, single
// producer/single active value design, status events tolerate a bounded
// queue per subscriber and are fine being dropped under backpressure.
package pubsub

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
)

// Queue is a subscription returned by PubSub.Subscribe.
type Queue[T any] interface {
	// ID uniquely identifies the queue.
	ID() string

	// PopTimeout blocks until an item is available or timeout elapses.
	PopTimeout(timeout time.Duration) (T, bool)

	// Push enqueues an item. Never blocks: a full queue drops the item.
	Push(data T)

	// Close releases the queue. Further Push calls are no-ops.
	Close()
}

type channel[T any] struct {
	id     string
	ch     chan T
	closed atomic.Bool
}

func newChannel[T any](size int) Queue[T] {
	if size <= 0 {
		size = 1
	}

	return &channel[T]{
		id: uuid.New().String(),
		ch: make(chan T, size),
	}
}

func (ch *channel[T]) ID() string {
	return ch.id
}

func (ch *channel[T]) PopTimeout(timeout time.Duration) (T, bool) {
	var zero T
	if ch.closed.Load() {
		return zero, false
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	select {
	case data, ok := <-ch.ch:
		return data, ok

	case <-ctx.Done():
		return zero, false
	}
}

func (ch *channel[T]) Push(data T) {
	if ch.closed.Load() {
		return
	}

	select {
	case ch.ch <- data:
	default:
	}
}

func (ch *channel[T]) Close() {
	if ch.closed.CompareAndSwap(false, true) {
		close(ch.ch)
	}
}

// PubSub is a registry of Queue subscribers that Publish broadcasts to.
type PubSub[T any] struct {
	mut    sync.RWMutex
	queues map[string]Queue[T]
}

func New[T any]() *PubSub[T] {
	return &PubSub[T]{
		queues: make(map[string]Queue[T]),
	}
}

func (p *PubSub[T]) Num() int {
	p.mut.RLock()
	defer p.mut.RUnlock()

	return len(p.queues)
}

func (p *PubSub[T]) Subscribe(size int) Queue[T] {
	p.mut.Lock()
	defer p.mut.Unlock()

	ch := newChannel[T](size)
	p.queues[ch.ID()] = ch
	return ch
}

func (p *PubSub[T]) Publish(msg T) {
	p.mut.RLock()
	defer p.mut.RUnlock()

	for _, q := range p.queues {
		q.Push(msg)
	}
}

func (p *PubSub[T]) Unsubscribe(q Queue[T]) {
	p.mut.Lock()
	defer p.mut.Unlock()

	delete(p.queues, q.ID())
}
