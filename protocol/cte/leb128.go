// Copyright 2026 CTE Authors
//
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

package cte

// maxLEB128Bytes is the hard cap on LEB128 byte length: ceil(64/7) = 10.
const maxLEB128Bytes = 10

// appendULEB128 appends the ULEB128 encoding of v to buf and returns the
// extended slice.
func appendULEB128(buf []byte, v uint64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		if v != 0 {
			b |= 0x80
		}
		buf = append(buf, b)
		if v == 0 {
			return buf
		}
	}
}

func uleb128Len(v uint64) int {
	n := 1
	for v >>= 7; v != 0; v >>= 7 {
		n++
	}
	return n
}

// decodeULEB128 reads a ULEB128 value starting at buf[0], returning the
// value and the number of bytes consumed. The 10th byte is special: since
// only one value bit remains at shift 63, a 10th byte that still carries
// the continuation bit is an unterminated sequence, while a terminal 10th
// byte whose upper 7 bits (other than bit 0) are non-zero overflows past
// the 65th bit.
func decodeULEB128(buf []byte) (uint64, int, *ProtocolError) {
	var result uint64
	shift := uint(0)
	for i := 0; i < maxLEB128Bytes; i++ {
		if i >= len(buf) {
			return 0, 0, NewProtocolError(BufferUnderflow, "ULEB128: buffer exhausted")
		}
		b := buf[i]
		last := i == maxLEB128Bytes-1
		if last && b&0x80 != 0 {
			return 0, 0, NewProtocolError(Leb128Unterminated, "ULEB128 sequence exceeds 10 bytes")
		}
		if last && b&0xFE != 0 {
			return 0, 0, NewProtocolError(Leb128Overflow, "ULEB128 value exceeds 64 bits")
		}
		result |= uint64(b&0x7F) << shift
		if b&0x80 == 0 {
			return result, i + 1, nil
		}
		shift += 7
	}
	return 0, 0, NewProtocolError(Leb128Unterminated, "ULEB128 sequence exceeds 10 bytes")
}

// appendSLEB128 appends the SLEB128 encoding of v to buf and returns the
// extended slice.
func appendSLEB128(buf []byte, v int64) []byte {
	for {
		b := byte(v & 0x7F)
		v >>= 7
		signBitSet := b&0x40 != 0
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			buf = append(buf, b)
			return buf
		}
		buf = append(buf, b|0x80)
	}
}

func sleb128Len(v int64) int {
	n := 0
	for {
		b := byte(v & 0x7F)
		v >>= 7
		signBitSet := b&0x40 != 0
		n++
		if (v == 0 && !signBitSet) || (v == -1 && signBitSet) {
			return n
		}
	}
}

// decodeSLEB128 reads a SLEB128 value starting at buf[0], returning the
// value and the number of bytes consumed.
func decodeSLEB128(buf []byte) (int64, int, *ProtocolError) {
	var result int64
	shift := uint(0)
	for i := 0; i < maxLEB128Bytes; i++ {
		if i >= len(buf) {
			return 0, 0, NewProtocolError(BufferUnderflow, "SLEB128: buffer exhausted")
		}
		b := buf[i]
		if i == maxLEB128Bytes-1 && b&0x80 != 0 {
			return 0, 0, NewProtocolError(Leb128Unterminated, "SLEB128 sequence exceeds 10 bytes")
		}
		result |= int64(b&0x7F) << shift
		shift += 7
		if b&0x80 == 0 {
			if shift < 64 && b&0x40 != 0 {
				result |= -int64(1) << shift
			}
			return result, i + 1, nil
		}
		if shift >= 64 {
			return 0, 0, NewProtocolError(Leb128Overflow, "SLEB128 value exceeds 64 bits")
		}
	}
	return 0, 0, NewProtocolError(Leb128Unterminated, "SLEB128 sequence exceeds 10 bytes")
}
