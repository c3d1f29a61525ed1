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

package common

import "time"

const (
	// App is the library namespace used for metrics and default log files.
	App = "r2000"

	// Version is the library version.
	Version = "v0.1.0"

	// DefaultReceptionBufferSize is the size of a single TCP reception read.
	//
	// The device emits at most 1404-byte packets (60-byte header + maximum
	// payload); this is sized generously above that so a single read can
	// usually carry a full packet.
	DefaultReceptionBufferSize = 4096

	// ExtractionBufferCap bounds how large the rolling extraction buffer is
	// allowed to grow before the link gives up resynchronising a reception
	// cycle and refills from a clean slate.
	ExtractionBufferCap = 1 << 20

	// DefaultWatchdogTimeout is the sentinel used internally when the
	// watchdog is disabled. It is never sent to the device.
	DefaultWatchdogTimeout = 60 * time.Second

	// DefaultStatusPeriod is the StatusWatcher's default poll period.
	DefaultStatusPeriod = 2 * time.Second

	// DefaultStatusCommandTimeout bounds a single get_parameters call.
	DefaultStatusCommandTimeout = 1 * time.Second

	// DefaultDisconnectionTriggerThreshold is the number of consecutive
	// status-poll failures before a disconnection event fires.
	DefaultDisconnectionTriggerThreshold = 3

	// ReconnectInitialDelay is the TCP reconnect supervisor's first backoff.
	ReconnectInitialDelay = 100 * time.Millisecond

	// ReconnectMaxDelay caps the TCP reconnect supervisor's backoff.
	ReconnectMaxDelay = 20 * time.Second

	// StallFactor multiplies the watchdog timeout to decide when a link is
	// considered stalled (no complete scan published recently).
	StallFactor = 2
)
