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
	"net"
	"strconv"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/b2atech/r2000/control"
	"github.com/b2atech/r2000/handle"
	"github.com/b2atech/r2000/logger"
	"github.com/b2atech/r2000/scan"
	"github.com/b2atech/r2000/wire"
)

// stubChannel answers every Send call with a success Tree and counts
// calls per command.
type stubChannel struct {
	mu    sync.Mutex
	calls map[control.Command]int
	fail  map[control.Command]bool
}

func newStubChannel() *stubChannel {
	return &stubChannel{calls: make(map[control.Command]int), fail: make(map[control.Command]bool)}
}

func (s *stubChannel) Send(_ context.Context, cmd control.Command, _ control.Params) (control.Tree, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.calls[cmd]++
	if s.fail[cmd] {
		return control.Tree{ErrorCode: 1, ErrorText: "failed"}, nil
	}
	return control.Tree{ErrorCode: 0, ErrorText: "success"}, nil
}

func (s *stubChannel) count(cmd control.Command) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.calls[cmd]
}

func packetBytesFor(scanNumber, packetNumber, numPointsScan, numPointsPacket uint16, samples ...uint32) []byte {
	h := wire.Header{
		Magic:           wire.Magic,
		PacketType:      wire.PacketTypeA,
		HeaderSize:      wire.HeaderWireSize,
		ScanNumber:      scanNumber,
		PacketNumber:    packetNumber,
		NumPointsScan:   numPointsScan,
		NumPointsPacket: numPointsPacket,
	}
	h.PacketSize = uint32(wire.HeaderWireSize + 4*len(samples))
	payload := make([]byte, 4*len(samples))
	for i, w := range samples {
		payload[i*4] = byte(w)
		payload[i*4+1] = byte(w >> 8)
		payload[i*4+2] = byte(w >> 16)
		payload[i*4+3] = byte(w >> 24)
	}
	return append(h.Encode(), payload...)
}

func TestTCPStartScanFailureMarksDead(t *testing.T) {
	ch := newStubChannel()
	ch.fail[control.StartScan] = true

	h := handle.Handle{ID: "h1", Address: "127.0.0.1", Port: 1}
	link := NewTCP(h, ch, logger.New(logger.Options{Stdout: true}))
	defer link.Close()

	assert.False(t, link.IsAlive())
}

func TestTCPReceivesAndPublishesScan(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	var accepted atomic.Bool
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted.Store(true)
		defer conn.Close()
		pkt := packetBytesFor(1, 1, 2, 2, 0x00320001, 0x00320002)
		_, _ = conn.Write(pkt)
		time.Sleep(200 * time.Millisecond)
	}()

	addr := ln.Addr().(*net.TCPAddr)
	ch := newStubChannel()
	h := handle.Handle{ID: "h2", Address: "127.0.0.1", Port: addr.Port}

	var mu sync.Mutex
	var got *scan.Scan
	link := NewTCP(h, ch, logger.New(logger.Options{Stdout: true}))
	link.AddOnNewScanAvailable(func(s *scan.Scan) {
		mu.Lock()
		defer mu.Unlock()
		cp := *s
		got = &cp
	})
	defer link.Close()

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint16{1, 2}, got.Distances)
	assert.True(t, accepted.Load())
}

func TestUDPReceivesAndPublishesScan(t *testing.T) {
	ch := newStubChannel()
	h := handle.Handle{ID: "h3", Address: "127.0.0.1", Port: 0}

	link := NewUDP(h, "127.0.0.1", 0, ch, logger.New(logger.Options{Stdout: true}))
	require.True(t, link.IsAlive())
	defer link.Close()

	localAddr := link.conn.LocalAddr().String()
	_, portStr, err := net.SplitHostPort(localAddr)
	require.NoError(t, err)
	port, err := strconv.Atoi(portStr)
	require.NoError(t, err)

	cliConn, err := net.Dial("udp", "127.0.0.1:"+strconv.Itoa(port))
	require.NoError(t, err)
	defer cliConn.Close()

	var mu sync.Mutex
	var got *scan.Scan
	link.AddOnNewScanAvailable(func(s *scan.Scan) {
		mu.Lock()
		defer mu.Unlock()
		cp := *s
		got = &cp
	})

	pkt := packetBytesFor(5, 1, 1, 1, 0x00320009)
	_, err = cliConn.Write(pkt)
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		mu.Lock()
		defer mu.Unlock()
		return got != nil
	}, 2*time.Second, 10*time.Millisecond)

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []uint16{9}, got.Distances)
}

func TestTCPCloseIssuesTeardownCommands(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			conn.Close()
		}
	}()

	addr := ln.Addr().(*net.TCPAddr)
	ch := newStubChannel()
	h := handle.Handle{ID: "h4", Address: "127.0.0.1", Port: addr.Port}
	link := NewTCP(h, ch, logger.New(logger.Options{Stdout: true}))

	require.NoError(t, link.Close())
	assert.Equal(t, 1, ch.count(control.StopScan))
	assert.Equal(t, 1, ch.count(control.ReleaseHandle))
	assert.False(t, link.IsAlive())
}

func TestBackoffCapsAndDoubles(t *testing.T) {
	b := newBackoff()
	d1 := b.next()
	d2 := b.next()
	assert.Equal(t, b.initial, d1)
	assert.Equal(t, 2*b.initial, d2)

	b.attempt = 20
	d := b.next()
	assert.Equal(t, b.max, d)
}

func TestIsStalled(t *testing.T) {
	h := handle.Handle{ID: "h5", WatchdogTimeout: 100 * time.Millisecond}
	base := newBase(h, newStubChannel(), logger.New(logger.Options{Stdout: true}))

	assert.False(t, base.IsStalled())
	base.lastScanUnixNano.Store(time.Now().Add(-time.Hour).UnixNano())
	assert.True(t, base.IsStalled())
}
