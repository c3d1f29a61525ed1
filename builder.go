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

// Package r2000 is the top-level entry point: it requests a device
// handle over the control channel and constructs the matching
// datalink.Link, wiring the wire/scan/handoff pipeline underneath.
package r2000

import (
	"context"
	"strconv"
	"time"

	"github.com/b2atech/r2000/common"
	"github.com/b2atech/r2000/control"
	"github.com/b2atech/r2000/datalink"
	"github.com/b2atech/r2000/handle"
	"github.com/b2atech/r2000/logger"
)

// TCPBuilder requests a TCP data handle and constructs a datalink.TCP
// on success, the Go rendering of the original driver's
// DataLinkBuilder for the TCP protocol branch.
type TCPBuilder struct {
	Channel control.Channel
	Log     logger.Logger
	Options handle.TCPOptions
}

// Build issues request_tcp_handle and, on success, returns a running
// TCP link.
func (b TCPBuilder) Build(ctx context.Context, deviceAddress string) (*datalink.TCP, error) {
	log := b.Log
	if (logger.Logger{}) == log {
		log = logger.New(logger.Options{Stdout: true})
	}

	timeout := b.Options.WatchdogTimeout
	if !b.Options.Watchdog {
		timeout = common.DefaultWatchdogTimeout
	}

	params := control.Params{
		"packet_type": string(b.Options.PacketType),
		"start_angle": strconv.Itoa(int(b.Options.StartAngle)),
		"watchdog":    strconv.FormatBool(b.Options.Watchdog),
	}
	if b.Options.Watchdog {
		params["watchdog_timeout"] = strconv.Itoa(int(b.Options.WatchdogTimeout / time.Millisecond))
	}

	tree, err := b.Channel.Send(ctx, control.RequestTCPHandle, params)
	if err != nil {
		return nil, err
	}
	if !tree.Success() {
		return nil, controlFailure(tree)
	}

	h := handleFromTree(tree, deviceAddress, b.Options.Watchdog, timeout)
	return datalink.NewTCP(h, b.Channel, log), nil
}

// UDPBuilder requests a UDP data handle and constructs a datalink.UDP
// on success.
type UDPBuilder struct {
	Channel control.Channel
	Log     logger.Logger
	Options handle.UDPOptions
}

// Build issues request_udp_handle and, on success, returns a running
// UDP link bound to the configured local address/port.
func (b UDPBuilder) Build(ctx context.Context, deviceAddress string) (*datalink.UDP, error) {
	log := b.Log
	if (logger.Logger{}) == log {
		log = logger.New(logger.Options{Stdout: true})
	}

	timeout := b.Options.WatchdogTimeout
	if !b.Options.Watchdog {
		timeout = common.DefaultWatchdogTimeout
	}

	params := control.Params{
		"packet_type":    string(b.Options.PacketType),
		"start_angle":    strconv.Itoa(int(b.Options.StartAngle)),
		"watchdog":       strconv.FormatBool(b.Options.Watchdog),
		"address":        b.Options.Address,
		"port":           strconv.Itoa(b.Options.Port),
	}
	if b.Options.Watchdog {
		params["watchdog_timeout"] = strconv.Itoa(int(b.Options.WatchdogTimeout / time.Millisecond))
	}

	tree, err := b.Channel.Send(ctx, control.RequestUDPHandle, params)
	if err != nil {
		return nil, err
	}
	if !tree.Success() {
		return nil, controlFailure(tree)
	}

	h := handleFromTree(tree, deviceAddress, b.Options.Watchdog, timeout)
	return datalink.NewUDP(h, b.Options.Address, b.Options.Port, b.Channel, log), nil
}

func handleFromTree(tree control.Tree, deviceAddress string, watchdog bool, timeout time.Duration) handle.Handle {
	h := handle.Handle{
		Address:         deviceAddress,
		WatchdogEnabled: watchdog,
		WatchdogTimeout: timeout,
	}
	if v, ok := tree.Get("handle"); ok {
		h.ID = v
	}
	if v, ok := tree.Get("port"); ok {
		if p, err := strconv.Atoi(v); err == nil {
			h.Port = p
		}
	}
	return h
}

type controlFailureError struct {
	errorCode int
	errorText string
}

func (e controlFailureError) Error() string {
	return "control: " + e.errorText
}

func controlFailure(tree control.Tree) error {
	return controlFailureError{errorCode: tree.ErrorCode, errorText: tree.ErrorText}
}
