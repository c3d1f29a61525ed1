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
	"sync"
	"sync/atomic"
	"time"

	"github.com/hashicorp/go-multierror"

	"github.com/b2atech/r2000/common"
	"github.com/b2atech/r2000/control"
	"github.com/b2atech/r2000/handle"
	"github.com/b2atech/r2000/handoff"
	"github.com/b2atech/r2000/internal/bufbytes"
	"github.com/b2atech/r2000/internal/rescue"
	"github.com/b2atech/r2000/logger"
	"github.com/b2atech/r2000/metrics"
	"github.com/b2atech/r2000/scan"
	"github.com/b2atech/r2000/wire"
)

// base is the shared lifecycle embedded by TCP and UDP links: the
// connectivity flag, the wire/scan pipeline, the realtime handoff slot
// and the watchdog, plus construction/teardown.
type base struct {
	h       handle.Handle
	channel control.Channel
	log     logger.Logger

	connected atomic.Bool
	alive     atomic.Bool

	lastScanUnixNano atomic.Int64
	stallThreshold   time.Duration

	slot       *handoff.Slot[scan.Scan]
	assembler  *scan.Assembler
	extractor  wire.Extractor
	extraction *bufbytes.Bytes

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	wd *watchdog
}

func newBase(h handle.Handle, channel control.Channel, log logger.Logger) *base {
	ctx, cancel := context.WithCancel(context.Background())
	b := &base{
		h:              h,
		channel:        channel,
		log:            log,
		slot:           handoff.NewSlot[scan.Scan](),
		assembler:      scan.NewAssembler(),
		extraction:     bufbytes.New(common.ExtractionBufferCap),
		ctx:            ctx,
		cancel:         cancel,
		stallThreshold: common.StallFactor * common.DefaultWatchdogTimeout,
	}
	if h.WatchdogTimeout > 0 {
		b.stallThreshold = common.StallFactor * h.WatchdogTimeout
	}
	return b
}

// IsAlive reports the link's belief that it can currently receive
// scans.
func (b *base) IsAlive() bool {
	return b.alive.Load()
}

// IsStalled reports whether no complete scan has published within
// stallThreshold, a proxy the caller can use to detect a silently wedged
// session.
func (b *base) IsStalled() bool {
	last := b.lastScanUnixNano.Load()
	if last == 0 {
		return false
	}
	return time.Since(time.Unix(0, last)) > b.stallThreshold
}

// AddOnNewScanAvailable registers a listener on the realtime handoff
// slot.
func (b *base) AddOnNewScanAvailable(cb func(*scan.Scan)) {
	b.slot.AddListener(cb)
}

// startWatchdog spawns the watchdog goroutine if the handle requests
// one.
func (b *base) startWatchdog() {
	if !b.h.WatchdogEnabled {
		return
	}
	b.wd = newWatchdog(b.h, b.channel, &b.connected, b.log)
	b.wg.Add(1)
	go func() {
		defer b.wg.Done()
		b.wd.run(b.ctx)
	}()
}

// feed processes newly received bytes: appends to the extraction
// buffer, drains packets through the extractor into the assembler,
// publishes completed scans, and compacts the buffer. Called only from
// the owning link's I/O goroutine.
func (b *base) feed(data []byte) {
	if err := b.extraction.Append(data); err != nil {
		// Cannot make progress within budget: drop everything and
		// resynchronise on the next magic that arrives.
		metrics.PacketsDropped.WithLabelValues(b.h.ID, "extraction_overflow").Inc()
		b.extraction.Reset()
		return
	}

	_, newStart, _ := b.extractor.Extract(b.extraction.Bytes(), b)
	b.extraction.Consume(newStart)
}

// Push implements wire.Assembler, forwarding into the scan assembler
// and publishing completed scans through the realtime handoff slot.
// This is how base itself sits between the extractor and the assembler
// without exposing the assembler type directly.
func (b *base) Push(h wire.Header, payload []byte) {
	b.assembler.Push(h, payload)
	if !b.assembler.IsComplete() {
		return
	}
	s := b.assembler.Take()
	b.lastScanUnixNano.Store(time.Now().UnixNano())
	metrics.ScansCompleted.WithLabelValues(b.h.ID).Inc()
	rescue.Safe(func() { b.slot.Publish(s) })
}

// teardown issues stop_scan then release_handle, best-effort, folding
// both outcomes into one error. Teardown control errors are logged by
// the caller, not propagated as fatal.
func (b *base) teardown() error {
	ctx, cancel := context.WithTimeout(context.Background(), common.DefaultStatusCommandTimeout)
	defer cancel()

	var result *multierror.Error
	if _, err := b.channel.Send(ctx, control.StopScan, control.Params{"handle": b.h.ID}); err != nil {
		b.log.Warnf("datalink: stop_scan failed for handle %s: %v", b.h.ID, err)
		result = multierror.Append(result, err)
	}
	if _, err := b.channel.Send(ctx, control.ReleaseHandle, control.Params{"handle": b.h.ID}); err != nil {
		b.log.Warnf("datalink: release_handle failed for handle %s: %v", b.h.ID, err)
		result = multierror.Append(result, err)
	}
	return result.ErrorOrNil()
}

// stop cancels the context, waits for all background goroutines, and
// marks the link dead. Idempotent via context cancellation semantics.
func (b *base) stop() {
	b.alive.Store(false)
	b.cancel()
	b.wg.Wait()
}
