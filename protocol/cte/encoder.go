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

import (
	"encoding/binary"
	"math"
)

// Encoder is an append-only builder over a fixed-capacity buffer. The
// version byte is written eagerly by NewEncoder/Reset; every subsequent
// operation appends exactly one field. A write that runs out of capacity
// poisons the Encoder, so every later write fails with BufferOverflow until
// Reset; a write rejected for an invalid argument (count, size code, length,
// index) returns its error without poisoning. After any failed write the
// caller is expected to discard the Encoder rather than continue issuing
// writes.
type Encoder struct {
	buf      []byte
	pos      int
	sizes    SizeTable
	poisoned bool
}

// EncoderOption configures an Encoder at construction time.
type EncoderOption func(*Encoder)

// WithSizeTable selects the SS→size dialect (see SizeTable) used by
// BeginPublicKeyVector and BeginSignatureVector. Defaults to DefaultSizeTable.
func WithSizeTable(t SizeTable) EncoderOption {
	return func(e *Encoder) { e.sizes = t }
}

// NewEncoder allocates an Encoder with a fresh buffer of the given capacity
// and writes the version byte. capacity must be >= 1.
func NewEncoder(capacity int, opts ...EncoderOption) (*Encoder, *ProtocolError) {
	if capacity <= 0 {
		return nil, NewProtocolError(InvalidCapacity, "capacity must be >= 1")
	}
	e := &Encoder{buf: make([]byte, capacity), sizes: DefaultSizeTable}
	for _, o := range opts {
		o(e)
	}
	e.buf[0] = VersionByte
	e.pos = 1
	return e, nil
}

// Reset truncates the Encoder back to just the version byte, leaving
// capacity unchanged. A poisoned Encoder becomes usable again.
func (e *Encoder) Reset() {
	e.buf[0] = VersionByte
	e.pos = 1
	e.poisoned = false
}

// Data returns the written bytes [0, Size()). The slice aliases the
// Encoder's internal buffer and is only valid until the next write.
func (e *Encoder) Data() []byte {
	return e.buf[:e.pos]
}

// Size returns the number of bytes written so far, including the version
// byte.
func (e *Encoder) Size() int {
	return e.pos
}

// Cap returns the Encoder's total buffer capacity.
func (e *Encoder) Cap() int {
	return len(e.buf)
}

func (e *Encoder) reserve(n int) (int, *ProtocolError) {
	if e.poisoned {
		return 0, NewProtocolError(BufferOverflow, "encoder is poisoned by a prior failed write")
	}
	if e.pos+n > len(e.buf) {
		e.poisoned = true
		return 0, errf(BufferOverflow, "need %d bytes, only %d remain", n, len(e.buf)-e.pos)
	}
	start := e.pos
	e.pos += n
	return start, nil
}

// BeginPublicKeyVector reserves a tag-00 field for n keys under size
// selector ss and returns a writable slice positioned at the payload start;
// the caller fills it with exactly n*keySize(ss) bytes.
func (e *Encoder) BeginPublicKeyVector(n int, ss uint8) ([]byte, *ProtocolError) {
	return e.beginVector(tagPublicKeyVector, n, ss, e.sizes.KeySize)
}

// BeginSignatureVector reserves a tag-01 field for n signatures under size
// selector ss and returns a writable slice positioned at the payload start.
func (e *Encoder) BeginSignatureVector(n int, ss uint8) ([]byte, *ProtocolError) {
	return e.beginVector(tagSignatureVector, n, ss, e.sizes.SigSize)
}

func (e *Encoder) beginVector(t tag, n int, ss uint8, sizeOf func(uint8) (int, bool)) ([]byte, *ProtocolError) {
	if n < MinVectorCount || n > MaxVectorCount {
		return nil, errf(InvalidCount, "count %d out of range [%d,%d]", n, MinVectorCount, MaxVectorCount)
	}
	itemSize, ok := sizeOf(ss)
	if !ok {
		return nil, errf(InvalidSizeCode, "unsupported size code %d", ss)
	}
	payload := n * itemSize
	start, err := e.reserve(1 + payload)
	if err != nil {
		return nil, err
	}
	e.buf[start] = byte(t)<<tagShift | byte(n)<<2 | ss&0x03
	return e.buf[start+1 : start+1+payload], nil
}

// AddPublicKeyVector is a thin wrapper over BeginPublicKeyVector that
// copies keys (n*keySize(ss) bytes, items concatenated) into the reserved
// region.
func (e *Encoder) AddPublicKeyVector(n int, ss uint8, keys []byte) *ProtocolError {
	dst, err := e.BeginPublicKeyVector(n, ss)
	if err != nil {
		return err
	}
	if len(keys) != len(dst) {
		return errf(BufferUnderflow, "expected %d bytes of key data, got %d", len(dst), len(keys))
	}
	copy(dst, keys)
	return nil
}

// AddSignatureVector is a thin wrapper over BeginSignatureVector that
// copies sigs into the reserved region.
func (e *Encoder) AddSignatureVector(n int, ss uint8, sigs []byte) *ProtocolError {
	dst, err := e.BeginSignatureVector(n, ss)
	if err != nil {
		return err
	}
	if len(sigs) != len(dst) {
		return errf(BufferUnderflow, "expected %d bytes of signature data, got %d", len(dst), len(sigs))
	}
	copy(dst, sigs)
	return nil
}

// BeginVectorData reserves a tag-11 field of length l, choosing the short
// or extended header form automatically, and returns a writable slice
// positioned at the payload start.
func (e *Encoder) BeginVectorData(l int) ([]byte, *ProtocolError) {
	switch {
	case l >= MinShortVectorDataLength && l <= MaxShortVectorDataLength:
		start, err := e.reserve(1 + l)
		if err != nil {
			return nil, err
		}
		e.buf[start] = byte(tagVectorData)<<tagShift | byte(l)
		return e.buf[start+1 : start+1+l], nil
	case l >= MinExtendedVectorDataLength && l <= MaxExtendedVectorDataLength:
		start, err := e.reserve(2 + l)
		if err != nil {
			return nil, err
		}
		hhh := byte((l >> 8) & 0x07)
		e.buf[start] = byte(tagVectorData)<<tagShift | vectorDataExtendedFlag | hhh<<2
		e.buf[start+1] = byte(l)
		return e.buf[start+2 : start+2+l], nil
	default:
		return nil, errf(InvalidVectorDataLength, "length %d is outside [0,%d] and [%d,%d]",
			l, MaxShortVectorDataLength, MinExtendedVectorDataLength, MaxExtendedVectorDataLength)
	}
}

// AddVectorData is a thin wrapper over BeginVectorData that copies data
// into the reserved region.
func (e *Encoder) AddVectorData(data []byte) *ProtocolError {
	dst, err := e.BeginVectorData(len(data))
	if err != nil {
		return err
	}
	copy(dst, data)
	return nil
}

// WriteIxDataIndex writes a one-byte IxData index field, i in [0,15].
func (e *Encoder) WriteIxDataIndex(i uint8) *ProtocolError {
	if i > MaxIndexValue {
		return errf(InvalidCount, "index %d exceeds max %d", i, MaxIndexValue)
	}
	start, err := e.reserve(1)
	if err != nil {
		return err
	}
	e.buf[start] = byte(tagIxData)<<tagShift | i<<2 | ixSubtypeIndex
	return nil
}

// WriteIxDataULEB128 writes an IxData varint field carrying an unsigned
// value. Zero is always encoded canonically as VARINT_ZERO (one byte).
func (e *Encoder) WriteIxDataULEB128(v uint64) *ProtocolError {
	if v == 0 {
		start, err := e.reserve(1)
		if err != nil {
			return err
		}
		e.buf[start] = byte(tagIxData)<<tagShift | varintEncZero<<2 | ixSubtypeVarint
		return nil
	}
	start, err := e.reserve(1 + uleb128Len(v))
	if err != nil {
		return err
	}
	e.buf[start] = byte(tagIxData)<<tagShift | varintEncULEB128<<2 | ixSubtypeVarint
	copy(e.buf[start+1:], appendULEB128(nil, v))
	return nil
}

// WriteIxDataSLEB128 writes an IxData varint field carrying a signed value.
func (e *Encoder) WriteIxDataSLEB128(v int64) *ProtocolError {
	start, err := e.reserve(1 + sleb128Len(v))
	if err != nil {
		return err
	}
	e.buf[start] = byte(tagIxData)<<tagShift | varintEncSLEB128<<2 | ixSubtypeVarint
	copy(e.buf[start+1:], appendSLEB128(nil, v))
	return nil
}

func (e *Encoder) writeFixed(typeCode uint8, payload []byte) *ProtocolError {
	start, err := e.reserve(1 + len(payload))
	if err != nil {
		return err
	}
	e.buf[start] = byte(tagIxData)<<tagShift | typeCode<<2 | ixSubtypeFixed
	copy(e.buf[start+1:], payload)
	return nil
}

func (e *Encoder) WriteIxDataI8(v int8) *ProtocolError {
	return e.writeFixed(FixedTypeI8, []byte{byte(v)})
}

func (e *Encoder) WriteIxDataI16(v int16) *ProtocolError {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], uint16(v))
	return e.writeFixed(FixedTypeI16, b[:])
}

func (e *Encoder) WriteIxDataI32(v int32) *ProtocolError {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], uint32(v))
	return e.writeFixed(FixedTypeI32, b[:])
}

func (e *Encoder) WriteIxDataI64(v int64) *ProtocolError {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], uint64(v))
	return e.writeFixed(FixedTypeI64, b[:])
}

func (e *Encoder) WriteIxDataU8(v uint8) *ProtocolError {
	return e.writeFixed(FixedTypeU8, []byte{v})
}

func (e *Encoder) WriteIxDataU16(v uint16) *ProtocolError {
	var b [2]byte
	binary.LittleEndian.PutUint16(b[:], v)
	return e.writeFixed(FixedTypeU16, b[:])
}

func (e *Encoder) WriteIxDataU32(v uint32) *ProtocolError {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], v)
	return e.writeFixed(FixedTypeU32, b[:])
}

func (e *Encoder) WriteIxDataU64(v uint64) *ProtocolError {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], v)
	return e.writeFixed(FixedTypeU64, b[:])
}

func (e *Encoder) WriteIxDataF32(v float32) *ProtocolError {
	var b [4]byte
	binary.LittleEndian.PutUint32(b[:], math.Float32bits(v))
	return e.writeFixed(FixedTypeF32, b[:])
}

func (e *Encoder) WriteIxDataF64(v float64) *ProtocolError {
	var b [8]byte
	binary.LittleEndian.PutUint64(b[:], math.Float64bits(v))
	return e.writeFixed(FixedTypeF64, b[:])
}

// WriteIxDataBoolean writes a one-byte IxData constant field.
func (e *Encoder) WriteIxDataBoolean(v bool) *ProtocolError {
	start, err := e.reserve(1)
	if err != nil {
		return err
	}
	code := byte(constFalse)
	if v {
		code = constTrue
	}
	e.buf[start] = byte(tagIxData)<<tagShift | code<<2 | ixSubtypeConstant
	return nil
}
