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

// Package scan folds the packet stream the wire package decodes into
// complete Scan values, one revolution of the head at a time.
package scan

import (
	"time"

	"github.com/b2atech/r2000/wire"
)

// Point is one decoded sample: a distance in millimetres (0 is invalid)
// and an amplitude (values below 32 are undefined/invalid).
type Point struct {
	Distance  uint16
	Amplitude uint16
}

// Scan is one completed revolution: an ordered run of samples plus the
// packet headers that contributed them.
type Scan struct {
	ScanNumber uint16
	Distances  []uint16
	Amplitudes []uint16
	Headers    []wire.Header
	ReceivedAt time.Time
}

// Len returns the number of samples accumulated so far.
func (s Scan) Len() int {
	return len(s.Distances)
}

// DecodePoints splits a packet payload into distance/amplitude pairs.
// Each sample is one little-endian 32-bit word: low 16 bits distance,
// high 16 bits amplitude.
func DecodePoints(payload []byte) []Point {
	n := len(payload) / 4
	points := make([]Point, n)
	for i := 0; i < n; i++ {
		word := payload[i*4 : i*4+4]
		lo := uint16(word[0]) | uint16(word[1])<<8
		hi := uint16(word[2]) | uint16(word[3])<<8
		points[i] = Point{Distance: lo, Amplitude: hi}
	}
	return points
}
