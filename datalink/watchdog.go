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
	"sync/atomic"
	"time"

	"github.com/b2atech/r2000/control"
	"github.com/b2atech/r2000/handle"
	"github.com/b2atech/r2000/logger"
	"github.com/b2atech/r2000/metrics"
)

// watchdog periodically re-issues feed_watchdog at half the handle's
// timeout so the device's own keep-alive timer never expires.
type watchdog struct {
	h         handle.Handle
	channel   control.Channel
	connected *atomic.Bool
	log       logger.Logger
}

func newWatchdog(h handle.Handle, channel control.Channel, connected *atomic.Bool, log logger.Logger) *watchdog {
	return &watchdog{h: h, channel: channel, connected: connected, log: log}
}

// run loops until ctx is cancelled, feeding the watchdog at period
// WatchdogTimeout/2. The ticker plus ctx.Done select is the idiomatic
// Go rendering of a sleep that can also be woken by cancellation.
func (w *watchdog) run(ctx context.Context) {
	period := w.h.WatchdogTimeout / 2
	if period <= 0 {
		period = 1 * time.Second
	}

	ticker := time.NewTicker(period)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			w.feedOnce(ctx)
		}
	}
}

func (w *watchdog) feedOnce(ctx context.Context) {
	cmdCtx, cancel := context.WithTimeout(ctx, 1*time.Second)
	defer cancel()

	tree, err := w.channel.Send(cmdCtx, control.FeedWatchdog, control.Params{"handle": w.h.ID})
	ok := err == nil && tree.Success()
	w.connected.Store(ok)
	if !ok {
		metrics.WatchdogFailures.WithLabelValues(w.h.ID).Inc()
		w.log.Warnf("datalink: feed_watchdog failed for handle %s: %v", w.h.ID, err)
	}
}
