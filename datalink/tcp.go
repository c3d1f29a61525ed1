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
	"errors"
	"fmt"
	"io"
	"net"

	"github.com/valyala/bytebufferpool"

	"github.com/b2atech/r2000/common"
	"github.com/b2atech/r2000/control"
	"github.com/b2atech/r2000/handle"
	"github.com/b2atech/r2000/logger"
	"github.com/b2atech/r2000/metrics"
)

// TCP is a streaming session over a TCP data socket, with a reconnect
// supervisor that re-establishes the connection after any transport
// failure.
type TCP struct {
	*base

	dialer net.Dialer
	bo     *backoff
}

// NewTCP constructs a TCP link: it issues start_scan, and on success
// spawns the watchdog (if enabled) plus the reconnect supervisor that
// owns the socket and I/O goroutine for the session's lifetime.
func NewTCP(h handle.Handle, channel control.Channel, log logger.Logger) *TCP {
	t := &TCP{
		base: newBase(h, channel, log),
		bo:   newBackoff(),
	}

	ctx, cancel := context.WithTimeout(context.Background(), common.DefaultStatusCommandTimeout)
	defer cancel()
	tree, err := channel.Send(ctx, control.StartScan, control.Params{"handle": h.ID})
	if err != nil || !tree.Success() {
		log.Errorf("datalink: start_scan failed for handle %s: %v", h.ID, err)
		t.alive.Store(false)
		return t
	}

	t.alive.Store(true)
	t.startWatchdog()

	t.wg.Add(1)
	go func() {
		defer t.wg.Done()
		t.supervise()
	}()

	return t
}

// supervise runs the capped exponential-backoff reconnect loop: connect,
// run the blocking read loop until it returns, then retry unless the
// link has been stopped.
func (t *TCP) supervise() {
	for {
		if t.ctx.Err() != nil {
			return
		}

		metrics.ReconnectAttempts.WithLabelValues(t.h.ID).Inc()
		conn, err := t.dialer.DialContext(t.ctx, "tcp", fmt.Sprintf("%s:%d", t.h.Address, t.h.Port))
		if err != nil {
			t.log.Warnf("datalink: tcp dial failed for handle %s: %v", t.h.ID, err)
			t.connected.Store(false)
			if t.bo.sleep(t.ctx) {
				return
			}
			continue
		}

		t.connected.Store(true)
		t.bo.reset()

		// Unblock the read loop promptly on cancellation: conn.Read has
		// no context awareness of its own, so closing the socket is the
		// standard way to interrupt it (net.Conn's documented behaviour).
		done := make(chan struct{})
		go func() {
			select {
			case <-t.ctx.Done():
				_ = conn.Close()
			case <-done:
			}
		}()

		t.readLoop(conn)
		close(done)
		_ = conn.Close()
		t.connected.Store(false)

		if t.ctx.Err() != nil {
			return
		}
		if t.bo.sleep(t.ctx) {
			return
		}
	}
}

// readLoop owns conn for as long as it is healthy: it posts reads of
// DefaultReceptionBufferSize bytes (or bytesNeeded, when the extractor
// asked for more), feeds every chunk through the wire/scan pipeline,
// and returns on any read error, including io.EOF, so supervise can
// reconnect.
func (t *TCP) readLoop(conn net.Conn) {
	buf := bytebufferpool.Get()
	defer bytebufferpool.Put(buf)

	size := common.DefaultReceptionBufferSize
	for {
		if t.ctx.Err() != nil {
			return
		}

		if cap(buf.B) < size {
			buf.B = make([]byte, size)
		}

		n, err := conn.Read(buf.B[:size])
		if n > 0 {
			t.feed(buf.B[:n])
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				t.log.Warnf("datalink: tcp read failed for handle %s: %v", t.h.ID, err)
			}
			return
		}

		size = common.DefaultReceptionBufferSize
	}
}

// Close tears the TCP link down: cancels the supervisor and watchdog,
// waits for both, then issues stop_scan/release_handle.
func (t *TCP) Close() error {
	t.stop()
	return t.teardown()
}

var _ Link = (*TCP)(nil)
