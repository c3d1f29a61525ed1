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

// Package wire decodes the device's scan-packet wire format: a
// magic-prefixed, little-endian binary header followed by a run of 32-bit
// sample words. Every field is decoded by hand at a fixed
// offset rather than through an unsafe struct cast, matching how every
// binary-protocol decoder in the packetd corpus (protocol/pdns,
// protocol/pmysql, ...) reads its wire layout.
package wire

import "encoding/binary"

// Magic is the two-byte prefix marking the start of every packet.
const Magic uint16 = 0x5CA2

// PacketType identifies the sample encoding used by a packet's payload.
type PacketType uint16

const (
	PacketTypeA PacketType = 0x0041
	PacketTypeB PacketType = 0x0042
	PacketTypeC PacketType = 0x0043
)

// String renders the packet type the way the original driver's
// packetTypeToString did.
func (t PacketType) String() string {
	switch t {
	case PacketTypeA:
		return "A"
	case PacketTypeB:
		return "B"
	case PacketTypeC:
		return "C"
	default:
		return "unknown"
	}
}

// Supported reports whether t is one of the three decodable packet types.
func (t PacketType) Supported() bool {
	switch t {
	case PacketTypeA, PacketTypeB, PacketTypeC:
		return true
	default:
		return false
	}
}

// MinHeaderSize is the smallest header_size a packet may declare.
const MinHeaderSize = 60

// HeaderWireSize is the number of fixed-layout bytes this decoder reads;
// header_size may declare more (reserved for future fields/padding), in
// which case the extra bytes are skipped as part of the payload offset.
const HeaderWireSize = 60

// Header is the 60-byte packed binary header that precedes every
// packet's payload on the wire.
type Header struct {
	Magic               uint16
	PacketType          PacketType
	PacketSize          uint32
	HeaderSize          uint16
	ScanNumber          uint16
	PacketNumber        uint16
	TimestampRaw        uint64
	TimestampSync       uint64
	StatusFlags         uint32
	ScanFrequency       uint32
	NumPointsScan       uint16
	NumPointsPacket     uint16
	FirstIndex          uint16
	FirstAngle          int32
	AngularIncrement    int32
	IQInput             uint16
	IQOverload          uint16
	IQInputTimestamp    uint16
	IQOverloadTimestamp uint16
}

// DecodeHeader reads a Header from the first HeaderWireSize bytes of b.
// The caller must ensure len(b) >= HeaderWireSize.
func DecodeHeader(b []byte) Header {
	_ = b[HeaderWireSize-1]
	le := binary.LittleEndian
	return Header{
		Magic:               le.Uint16(b[0:2]),
		PacketType:          PacketType(le.Uint16(b[2:4])),
		PacketSize:          le.Uint32(b[4:8]),
		HeaderSize:          le.Uint16(b[8:10]),
		ScanNumber:          le.Uint16(b[10:12]),
		PacketNumber:        le.Uint16(b[12:14]),
		TimestampRaw:        le.Uint64(b[14:22]),
		TimestampSync:       le.Uint64(b[22:30]),
		StatusFlags:         le.Uint32(b[30:34]),
		ScanFrequency:       le.Uint32(b[34:38]),
		NumPointsScan:       le.Uint16(b[38:40]),
		NumPointsPacket:     le.Uint16(b[40:42]),
		FirstIndex:          le.Uint16(b[42:44]),
		FirstAngle:          int32(le.Uint32(b[44:48])),
		AngularIncrement:    int32(le.Uint32(b[48:52])),
		IQInput:             le.Uint16(b[52:54]),
		IQOverload:          le.Uint16(b[54:56]),
		IQInputTimestamp:    le.Uint16(b[56:58]),
		IQOverloadTimestamp: le.Uint16(b[58:60]),
	}
}

// Encode writes h back to wire form, the inverse of DecodeHeader. Used by
// tests and by anything stubbing a device for integration testing.
func (h Header) Encode() []byte {
	b := make([]byte, HeaderWireSize)
	le := binary.LittleEndian
	le.PutUint16(b[0:2], h.Magic)
	le.PutUint16(b[2:4], uint16(h.PacketType))
	le.PutUint32(b[4:8], h.PacketSize)
	le.PutUint16(b[8:10], h.HeaderSize)
	le.PutUint16(b[10:12], h.ScanNumber)
	le.PutUint16(b[12:14], h.PacketNumber)
	le.PutUint64(b[14:22], h.TimestampRaw)
	le.PutUint64(b[22:30], h.TimestampSync)
	le.PutUint32(b[30:34], h.StatusFlags)
	le.PutUint32(b[34:38], h.ScanFrequency)
	le.PutUint16(b[38:40], h.NumPointsScan)
	le.PutUint16(b[40:42], h.NumPointsPacket)
	le.PutUint16(b[42:44], h.FirstIndex)
	le.PutUint32(b[44:48], uint32(h.FirstAngle))
	le.PutUint32(b[48:52], uint32(h.AngularIncrement))
	le.PutUint16(b[52:54], h.IQInput)
	le.PutUint16(b[54:56], h.IQOverload)
	le.PutUint16(b[56:58], h.IQInputTimestamp)
	le.PutUint16(b[58:60], h.IQOverloadTimestamp)
	return b
}

// Valid reports whether h passes structural validation: magic must
// match, packet type must be supported, header_size must be at least
// MinHeaderSize, packet_size must be at least header_size, and
// num_points_packet must be nonzero.
func (h Header) Valid() bool {
	if h.Magic != Magic {
		return false
	}
	if !h.PacketType.Supported() {
		return false
	}
	if h.HeaderSize < MinHeaderSize {
		return false
	}
	if h.PacketSize < uint32(h.HeaderSize) {
		return false
	}
	if h.NumPointsPacket == 0 {
		return false
	}
	return true
}

// PayloadSize returns the number of sample bytes following the header.
func (h Header) PayloadSize() int {
	return int(h.PacketSize) - int(h.HeaderSize)
}
