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

package datalink

import (
	"context"
	"time"

	"github.com/b2atech/r2000/common"
)

// backoff computes a capped exponential delay sequence: initial, then
// doubling, capped at max, unbounded attempts.
type backoff struct {
	initial time.Duration
	max     time.Duration
	attempt int
}

func newBackoff() *backoff {
	return &backoff{initial: common.ReconnectInitialDelay, max: common.ReconnectMaxDelay}
}

// next returns the delay before the next attempt and advances the
// sequence.
func (b *backoff) next() time.Duration {
	d := b.initial << uint(b.attempt)
	if d <= 0 || d > b.max {
		d = b.max
	}
	b.attempt++
	return d
}

// reset returns the sequence to its initial delay, called after a
// successful (re)connection.
func (b *backoff) reset() {
	b.attempt = 0
}

// sleep waits for the backoff's next delay or ctx cancellation,
// reporting which happened.
func (b *backoff) sleep(ctx context.Context) (cancelled bool) {
	select {
	case <-time.After(b.next()):
		return false
	case <-ctx.Done():
		return true
	}
}
