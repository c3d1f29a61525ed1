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

package scan

import (
	"time"

	"github.com/b2atech/r2000/wire"
)

// state is the assembler's internal position in its Empty/Building/
// Complete state machine.
type state int

const (
	stateEmpty state = iota
	stateBuilding
	stateComplete
)

// Assembler is the stateful aggregator that folds successive packets of
// one scan_number into a Scan. It is touched only from a link's I/O
// goroutine and needs no internal locking.
type Assembler struct {
	st      state
	current Scan
}

// NewAssembler returns an Assembler ready to accept the first packet of
// a new scan.
func NewAssembler() *Assembler {
	return &Assembler{st: stateEmpty}
}

// Push implements wire.Assembler: it folds one packet's header and
// payload into the in-progress scan, discarding it and starting over
// whenever the packet breaks scan_number or packet_number continuity.
func (a *Assembler) Push(h wire.Header, payload []byte) {
	points := DecodePoints(payload)

	switch a.st {
	case stateEmpty, stateComplete:
		a.startNew(h, points)

	case stateBuilding:
		if h.ScanNumber != a.current.ScanNumber {
			// Lost packets: the in-progress scan is discarded and a new
			// one begins with this header.
			a.startNew(h, points)
			return
		}
		if int(h.PacketNumber) != len(a.current.Headers)+1 {
			// Out-of-order packet_number: discard and restart.
			a.startNew(h, points)
			return
		}
		a.append(h, points)
	}

	if a.current.Len() >= int(h.NumPointsScan) {
		a.st = stateComplete
	}
}

func (a *Assembler) startNew(h wire.Header, points []Point) {
	a.current = Scan{
		ScanNumber: h.ScanNumber,
		Distances:  make([]uint16, 0, h.NumPointsScan),
		Amplitudes: make([]uint16, 0, h.NumPointsScan),
		Headers:    make([]wire.Header, 0, 1),
	}
	a.st = stateBuilding
	a.append(h, points)
}

func (a *Assembler) append(h wire.Header, points []Point) {
	for _, p := range points {
		a.current.Distances = append(a.current.Distances, p.Distance)
		a.current.Amplitudes = append(a.current.Amplitudes, p.Amplitude)
	}
	a.current.Headers = append(a.current.Headers, h)
}

// IsComplete reports whether the in-progress scan has accumulated at
// least num_points_scan samples.
func (a *Assembler) IsComplete() bool {
	return a.st == stateComplete
}

// Take returns the completed scan, stamps its receipt time, and resets
// the assembler to Empty. The caller must check IsComplete first.
func (a *Assembler) Take() Scan {
	s := a.current
	s.ReceivedAt = time.Now()
	a.current = Scan{}
	a.st = stateEmpty
	return s
}
