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

// Package datalink owns the streaming session lifecycle: connecting to
// the device's data port, running the reception loop that feeds the
// wire/scan pipeline, keeping the connection alive with a watchdog, and
// (for TCP) reconnecting after a transport failure.
package datalink

import "github.com/b2atech/r2000/scan"

// Link is the public surface common to TCP and UDP streaming sessions.
type Link interface {
	// IsAlive reports whether the link believes it can currently
	// receive scans: false after a fatal setup error or unrecoverable
	// transport failure.
	IsAlive() bool

	// IsStalled reports whether no complete scan has been published
	// within an implementation-defined threshold.
	IsStalled() bool

	// AddOnNewScanAvailable registers a callback fired synchronously,
	// from the link's I/O goroutine, with every newly completed scan.
	// Callbacks must be non-blocking and bounded-time.
	AddOnNewScanAvailable(func(*scan.Scan))

	// Close tears the link down: stops background goroutines, issues
	// stop_scan and release_handle best-effort, and releases the
	// socket. Idempotent.
	Close() error
}
