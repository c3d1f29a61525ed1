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
	"fmt"
	"net"
	"syscall"
	"time"

	"golang.org/x/sys/unix"

	"github.com/b2atech/r2000/common"
	"github.com/b2atech/r2000/control"
	"github.com/b2atech/r2000/handle"
	"github.com/b2atech/r2000/logger"
)

// udpPollInterval bounds how long readLoop's blocking read call can run
// before it re-checks ctx for cancellation.
const udpPollInterval = 500 * time.Millisecond

// UDP is a streaming session over a SO_REUSEADDR UDP socket. Datagram
// sockets do not fail connectively, so UDP has no reconnect supervisor:
// any unrecoverable read error simply marks the link dead.
type UDP struct {
	*base

	conn net.PacketConn
}

// NewUDP binds a SO_REUSEADDR UDP socket on the requested local
// address/port, issues start_scan, and spawns the watchdog (if
// enabled) plus the receive loop.
func NewUDP(h handle.Handle, localAddr string, localPort int, channel control.Channel, log logger.Logger) *UDP {
	u := &UDP{base: newBase(h, channel, log)}

	lc := net.ListenConfig{Control: setReuseAddr}
	conn, err := lc.ListenPacket(context.Background(), "udp", fmt.Sprintf("%s:%d", localAddr, localPort))
	if err != nil {
		log.Errorf("datalink: udp listen failed for handle %s: %v", h.ID, err)
		u.alive.Store(false)
		return u
	}
	u.conn = conn

	ctx, cancel := context.WithTimeout(context.Background(), common.DefaultStatusCommandTimeout)
	defer cancel()
	tree, err := channel.Send(ctx, control.StartScan, control.Params{"handle": h.ID})
	if err != nil || !tree.Success() {
		log.Errorf("datalink: start_scan failed for handle %s: %v", h.ID, err)
		u.alive.Store(false)
		_ = conn.Close()
		return u
	}

	u.alive.Store(true)
	u.connected.Store(true)
	u.startWatchdog()

	u.wg.Add(1)
	go func() {
		defer u.wg.Done()
		u.readLoop()
	}()

	return u
}

// setReuseAddr sets SO_REUSEADDR on the raw socket before bind, so a
// restarted process can immediately rebind the same local port.
func setReuseAddr(_, _ string, c syscall.RawConn) error {
	var sockErr error
	err := c.Control(func(fd uintptr) {
		sockErr = unix.SetsockoptInt(int(fd), unix.SOL_SOCKET, unix.SO_REUSEADDR, 1)
	})
	if err != nil {
		return err
	}
	return sockErr
}

// readLoop receives datagrams until the link is stopped or the socket
// reports an unrecoverable error. Each datagram may contain one or more
// packets, or a truncated trailing packet — the extractor's
// bytes-needed signal is satisfied simply by waiting for the next
// datagram.
func (u *UDP) readLoop() {
	buf := make([]byte, common.DefaultReceptionBufferSize)
	for {
		if u.ctx.Err() != nil {
			return
		}

		_ = u.conn.SetReadDeadline(time.Now().Add(udpPollInterval))
		n, _, err := u.conn.ReadFrom(buf)
		if n > 0 {
			u.feed(buf[:n])
		}
		if err != nil {
			if u.ctx.Err() != nil {
				return
			}
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			u.log.Warnf("datalink: udp read failed for handle %s: %v", u.h.ID, err)
			u.connected.Store(false)
			u.alive.Store(false)
			return
		}
	}
}

// Close tears the UDP link down: cancels the receive loop and
// watchdog, closes the socket, then issues stop_scan/release_handle.
func (u *UDP) Close() error {
	u.stop()
	if u.conn != nil {
		_ = u.conn.Close()
	}
	return u.teardown()
}

var _ Link = (*UDP)(nil)
