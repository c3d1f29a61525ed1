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

// Package bufbytes implements the rolling extraction buffer a link
// appends freshly received bytes into and the PacketExtractor drains
// packets out of. It is touched only from the link's I/O goroutine, so
// it needs no internal locking.
package bufbytes

import "github.com/pkg/errors"

// ErrOverflow is returned by Append when accepting p would grow the buffer
// past its configured cap without the caller having consumed anything —
// this signals a stream that can never resynchronise within budget.
var ErrOverflow = errors.New("bufbytes: buffer exceeds capacity")

// Bytes is a capped, append/consume byte accumulator.
type Bytes struct {
	cap int
	buf []byte
}

// New returns an empty Bytes bounded at capacity c.
func New(c int) *Bytes {
	return &Bytes{cap: c}
}

// Append grows the buffer by p. It returns ErrOverflow if doing so would
// exceed the configured capacity.
func (b *Bytes) Append(p []byte) error {
	if len(b.buf)+len(p) > b.cap {
		return ErrOverflow
	}
	b.buf = append(b.buf, p...)
	return nil
}

// Bytes returns the unconsumed byte range. The caller must not retain it
// past the next Consume/Append/Reset call.
func (b *Bytes) Bytes() []byte {
	return b.buf
}

// Len returns the number of unconsumed bytes.
func (b *Bytes) Len() int {
	return len(b.buf)
}

// Cap returns the configured capacity.
func (b *Bytes) Cap() int {
	return b.cap
}

// Consume drops the first n bytes, compacting the remainder to the front
// of the backing array so future Append calls reuse the same allocation.
func (b *Bytes) Consume(n int) {
	if n <= 0 {
		return
	}
	if n >= len(b.buf) {
		b.buf = b.buf[:0]
		return
	}
	copy(b.buf, b.buf[n:])
	b.buf = b.buf[:len(b.buf)-n]
}

// Reset discards all unconsumed bytes.
func (b *Bytes) Reset() {
	b.buf = b.buf[:0]
}
