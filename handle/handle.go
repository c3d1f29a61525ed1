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

// Package handle models the opaque device handle and the typed
// per-transport options recognised by the link builders.
package handle

import "time"

// Handle is the opaque session returned by request_tcp_handle /
// request_udp_handle, plus the watchdog policy the device applied.
type Handle struct {
	ID              string
	Address         string
	Port            int
	WatchdogEnabled bool
	WatchdogTimeout time.Duration
}

// PacketType selects the sample encoding requested from the device.
type PacketType string

const (
	PacketTypeA PacketType = "A"
	PacketTypeB PacketType = "B"
	PacketTypeC PacketType = "C"
)

// TCPOptions are the configuration fields a TCP link builder accepts.
type TCPOptions struct {
	Watchdog        bool
	WatchdogTimeout time.Duration
	PacketType      PacketType
	StartAngle      int32
	Port            int
}

// UDPOptions are TCPOptions plus the local listener address the device
// will stream datagrams to. Port shadows TCPOptions.Port: for UDP it
// names the local bind port rather than the server-assigned TCP port.
type UDPOptions struct {
	TCPOptions
	Address string
	Port    int
}
