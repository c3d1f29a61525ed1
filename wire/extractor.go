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

package wire

import "encoding/binary"

// Assembler is the narrow interface Extract feeds decoded packets into.
// scan.Assembler satisfies it; keeping it here (rather than importing the
// scan package) keeps wire free of a dependency on scan's richer state.
type Assembler interface {
	Push(h Header, payload []byte)
}

// Extractor is a stateless packet extractor: it carries no fields, and
// all state lives in the caller's rolling buffer.
type Extractor struct{}

// Extract scans buf for magic-prefixed packets on 32-bit-aligned
// boundaries, decodes each validated header, and feeds header+payload
// pairs to asm until it runs out of fully-buffered packets.
//
// hadEnoughBytes is true iff at least one full packet was consumed.
// newStart is the offset past the last fully consumed byte; the caller
// must retain buf[newStart:] for the next call. bytesNeeded is the
// number of additional bytes required before another packet can be
// extracted (0 means "no specific requirement, use the buffer's usual
// capacity").
func (Extractor) Extract(buf []byte, asm Assembler) (hadEnoughBytes bool, newStart int, bytesNeeded int) {
	pos := 0
	n := len(buf)

	for {
		// 1. Magic search on 32-bit-aligned boundaries.
		magicAt := -1
		for i := pos; i+2 <= n; i += 4 {
			if binary.LittleEndian.Uint16(buf[i:i+2]) == Magic {
				magicAt = i
				break
			}
		}
		if magicAt < 0 {
			// No magic found in the remainder; nothing more to consume
			// here, the whole aligned remainder is discarded by the
			// caller advancing past it on the next append.
			return hadEnoughBytes, pos, 0
		}

		// 2. Header validation.
		if n-magicAt < HeaderWireSize {
			// Not enough bytes yet to read a full header.
			return hadEnoughBytes, magicAt, HeaderWireSize - (n - magicAt)
		}

		hdr := DecodeHeader(buf[magicAt : magicAt+HeaderWireSize])
		if !hdr.Valid() {
			// Reject: advance past the magic only, resume searching.
			pos = magicAt + 4
			continue
		}

		// 3. Payload availability.
		packetEnd := magicAt + int(hdr.PacketSize)
		if n < packetEnd {
			return hadEnoughBytes, magicAt, packetEnd - n
		}

		// 4. Deliver and advance.
		payload := buf[magicAt+int(hdr.HeaderSize) : packetEnd]
		asm.Push(hdr, payload)
		hadEnoughBytes = true
		pos = packetEnd
	}
}
