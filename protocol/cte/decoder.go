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

// Decoder is a stateful cursor over a loaded CTE buffer. It exposes a
// PeekType classification call, one typed Read per peek enumerant, and a
// streaming Run driver.
type Decoder struct {
	buf   []byte
	size  int
	pos   int
	sizes SizeTable

	lastVectorCount         int
	lastVectorPayloadLength int
	started                 bool
	poisoned                bool
}

// DecoderOption configures a Decoder at construction time.
type DecoderOption func(*Decoder)

// WithDecoderSizeTable selects the SS→size dialect used when reading
// public-key and signature vectors. Defaults to DefaultSizeTable.
func WithDecoderSizeTable(t SizeTable) DecoderOption {
	return func(d *Decoder) { d.sizes = t }
}

// NewDecoder allocates a Decoder with an internal buffer of exactly size
// bytes. The caller must fill it via Load before the first PeekType/Read
// call.
func NewDecoder(size int, opts ...DecoderOption) (*Decoder, *ProtocolError) {
	if size <= 0 || size > MaxTransactionSize {
		return nil, errf(InvalidCapacity, "size %d outside (0,%d]", size, MaxTransactionSize)
	}
	d := &Decoder{buf: make([]byte, size), size: size, sizes: DefaultSizeTable}
	for _, o := range opts {
		o(d)
	}
	return d, nil
}

// Load returns a writable slice over the Decoder's entire internal buffer
// so the caller can copy transaction bytes into it before parsing.
func (d *Decoder) Load() []byte {
	return d.buf
}

// Reset rewinds the read position to 1 (past the version byte) without
// refilling the buffer, so the same loaded bytes can be re-parsed.
func (d *Decoder) Reset() {
	d.pos = 1
	d.started = true
	d.poisoned = false
	d.lastVectorCount = 0
	d.lastVectorPayloadLength = 0
}

// LastVectorCount returns the item count recorded by the most recent
// public-key or signature vector read.
func (d *Decoder) LastVectorCount() int { return d.lastVectorCount }

// LastVectorPayloadLength returns the payload length recorded by the most
// recent vector read (public-key, signature, or vector-data).
func (d *Decoder) LastVectorPayloadLength() int { return d.lastVectorPayloadLength }

func (d *Decoder) ensureStarted() *ProtocolError {
	if d.started {
		return nil
	}
	if d.size < 1 {
		return NewProtocolError(BufferUnderflow, "buffer is empty")
	}
	if d.buf[0] != VersionByte {
		return errf(VersionMismatch, "expected 0x%02X, got 0x%02X", VersionByte, d.buf[0])
	}
	d.pos = 1
	d.started = true
	return nil
}

func (d *Decoder) poison(err *ProtocolError) *ProtocolError {
	d.poisoned = true
	return err
}

// PeekType classifies the next field without consuming it. The first call
// (across the lifetime of the Decoder or since the last Reset) additionally
// validates the version byte and advances the position past it. Returns
// EOF once position reaches size.
func (d *Decoder) PeekType() (PeekType, *ProtocolError) {
	if d.poisoned {
		return EOF, NewProtocolError(UnknownError, "decoder is poisoned by a prior failed operation")
	}
	if err := d.ensureStarted(); err != nil {
		return EOF, d.poison(err)
	}
	if d.pos == d.size {
		return EOF, nil
	}
	h := d.buf[d.pos]
	switch headerTag(h) {
	case tagPublicKeyVector:
		return PKVector0 + PeekType(h&0x03), nil
	case tagSignatureVector:
		return SigVector0 + PeekType(h&0x03), nil
	case tagIxData:
		ss := h & ixSubtypeMask
		dddd := (h >> 2) & 0x0F
		switch ss {
		case ixSubtypeIndex:
			return IxDataIndex, nil
		case ixSubtypeVarint:
			switch dddd {
			case varintEncZero:
				return IxDataVarintZero, nil
			case varintEncULEB128:
				return IxDataULEB128, nil
			case varintEncSLEB128:
				return IxDataSLEB128, nil
			default:
				return EOF, d.poison(errf(ReservedDetailCode, "reserved varint encoding code %d", dddd))
			}
		case ixSubtypeFixed:
			if dddd >= fixedTypeReservedStart {
				return EOF, d.poison(errf(ReservedDetailCode, "reserved fixed type code %d", dddd))
			}
			return fixedPeekType[dddd], nil
		case ixSubtypeConstant:
			switch dddd {
			case constFalse:
				return IxDataConstFalse, nil
			case constTrue:
				return IxDataConstTrue, nil
			default:
				return EOF, d.poison(errf(ReservedDetailCode, "reserved constant code %d", dddd))
			}
		}
	case tagVectorData:
		if h&vectorDataExtendedFlag == 0 {
			return VectorShort, nil
		}
		return VectorExtended, nil
	}
	return EOF, d.poison(errf(InvalidTag, "unreachable tag 0x%02X", h))
}

func (d *Decoder) checkBounds(n int) *ProtocolError {
	if d.pos+n > d.size {
		return errf(BufferUnderflow, "need %d bytes, only %d remain", n, d.size-d.pos)
	}
	return nil
}

func (d *Decoder) consumeVectorHeader(expected tag) (n int, ss uint8, err *ProtocolError) {
	if err = d.checkBounds(1); err != nil {
		return 0, 0, d.poison(err)
	}
	h := d.buf[d.pos]
	if headerTag(h) != expected {
		return 0, 0, d.poison(errf(UnexpectedTag, "expected tag %d, got %d", expected, headerTag(h)))
	}
	n = int((h >> 2) & 0x0F)
	if n < MinVectorCount || n > MaxVectorCount {
		return 0, 0, d.poison(errf(InvalidCount, "count %d out of range [%d,%d]", n, MinVectorCount, MaxVectorCount))
	}
	ss = h & 0x03
	d.pos++
	return n, ss, nil
}

func (d *Decoder) readVector(expected tag, sizeOf func(uint8) (int, bool)) ([]byte, *ProtocolError) {
	n, ss, err := d.consumeVectorHeader(expected)
	if err != nil {
		return nil, err
	}
	itemSize, ok := sizeOf(ss)
	if !ok {
		return nil, d.poison(errf(InvalidSizeCode, "unsupported size code %d", ss))
	}
	total := n * itemSize
	if err := d.checkBounds(total); err != nil {
		return nil, d.poison(err)
	}
	payload := d.buf[d.pos : d.pos+total]
	d.pos += total
	d.lastVectorCount = n
	d.lastVectorPayloadLength = total
	return payload, nil
}

// ReadPublicKeyVectorData reads the payload of a tag-00 field. The returned
// slice borrows the Decoder's buffer and is valid only until the next
// Decoder call.
func (d *Decoder) ReadPublicKeyVectorData() ([]byte, *ProtocolError) {
	return d.readVector(tagPublicKeyVector, d.sizes.KeySize)
}

// ReadSignatureVectorData reads the payload of a tag-01 field.
func (d *Decoder) ReadSignatureVectorData() ([]byte, *ProtocolError) {
	return d.readVector(tagSignatureVector, d.sizes.SigSize)
}

func (d *Decoder) consumeIxDataHeader(expectedSubtype uint8) (header byte, err *ProtocolError) {
	if err := d.checkBounds(1); err != nil {
		return 0, d.poison(err)
	}
	h := d.buf[d.pos]
	if headerTag(h) != tagIxData {
		return 0, d.poison(errf(UnexpectedTag, "expected IxData tag, got %d", headerTag(h)))
	}
	if h&ixSubtypeMask != expectedSubtype {
		return 0, d.poison(errf(InvalidSubtype, "expected subtype %d, got %d", expectedSubtype, h&ixSubtypeMask))
	}
	d.pos++
	return h, nil
}

// ReadIxDataIndex reads a one-byte IxData index field.
func (d *Decoder) ReadIxDataIndex() (uint8, *ProtocolError) {
	h, err := d.consumeIxDataHeader(ixSubtypeIndex)
	if err != nil {
		return 0, err
	}
	return (h >> 2) & 0x0F, nil
}

// ReadIxDataVarintZero consumes the header byte of a canonical zero varint.
func (d *Decoder) ReadIxDataVarintZero() (uint64, *ProtocolError) {
	h, err := d.consumeIxDataHeader(ixSubtypeVarint)
	if err != nil {
		return 0, err
	}
	if (h>>2)&0x0F != varintEncZero {
		return 0, d.poison(errf(ReservedDetailCode, "not a varint-zero field"))
	}
	return 0, nil
}

// ReadIxDataULEB128 reads an IxData varint field carrying an unsigned
// value, accepting both VARINT_ZERO and ULEB128([0x00]) as representations
// of zero.
func (d *Decoder) ReadIxDataULEB128() (uint64, *ProtocolError) {
	h, err := d.consumeIxDataHeader(ixSubtypeVarint)
	if err != nil {
		return 0, err
	}
	switch (h >> 2) & 0x0F {
	case varintEncZero:
		return 0, nil
	case varintEncULEB128:
		v, n, derr := decodeULEB128(d.buf[d.pos:d.size])
		if derr != nil {
			return 0, d.poison(derr)
		}
		d.pos += n
		return v, nil
	default:
		return 0, d.poison(errf(UnexpectedTag, "field is not a ULEB128 varint"))
	}
}

// ReadIxDataSLEB128 reads an IxData varint field carrying a signed value.
func (d *Decoder) ReadIxDataSLEB128() (int64, *ProtocolError) {
	h, err := d.consumeIxDataHeader(ixSubtypeVarint)
	if err != nil {
		return 0, err
	}
	if (h>>2)&0x0F != varintEncSLEB128 {
		return 0, d.poison(errf(UnexpectedTag, "field is not an SLEB128 varint"))
	}
	v, n, derr := decodeSLEB128(d.buf[d.pos:d.size])
	if derr != nil {
		return 0, d.poison(derr)
	}
	d.pos += n
	return v, nil
}

func (d *Decoder) readFixed(expectedType uint8, size int) ([]byte, *ProtocolError) {
	h, err := d.consumeIxDataHeader(ixSubtypeFixed)
	if err != nil {
		return nil, err
	}
	tc := (h >> 2) & 0x0F
	if tc >= fixedTypeReservedStart {
		return nil, d.poison(errf(ReservedDetailCode, "reserved fixed type code %d", tc))
	}
	if tc != expectedType {
		return nil, d.poison(errf(UnexpectedTag, "expected fixed type %d, got %d", expectedType, tc))
	}
	if err := d.checkBounds(size); err != nil {
		return nil, d.poison(err)
	}
	b := d.buf[d.pos : d.pos+size]
	d.pos += size
	return b, nil
}

func (d *Decoder) ReadIxDataI8() (int8, *ProtocolError) {
	b, err := d.readFixed(FixedTypeI8, 1)
	if err != nil {
		return 0, err
	}
	return int8(b[0]), nil
}

func (d *Decoder) ReadIxDataI16() (int16, *ProtocolError) {
	b, err := d.readFixed(FixedTypeI16, 2)
	if err != nil {
		return 0, err
	}
	return int16(binary.LittleEndian.Uint16(b)), nil
}

func (d *Decoder) ReadIxDataI32() (int32, *ProtocolError) {
	b, err := d.readFixed(FixedTypeI32, 4)
	if err != nil {
		return 0, err
	}
	return int32(binary.LittleEndian.Uint32(b)), nil
}

func (d *Decoder) ReadIxDataI64() (int64, *ProtocolError) {
	b, err := d.readFixed(FixedTypeI64, 8)
	if err != nil {
		return 0, err
	}
	return int64(binary.LittleEndian.Uint64(b)), nil
}

func (d *Decoder) ReadIxDataU8() (uint8, *ProtocolError) {
	b, err := d.readFixed(FixedTypeU8, 1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

func (d *Decoder) ReadIxDataU16() (uint16, *ProtocolError) {
	b, err := d.readFixed(FixedTypeU16, 2)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint16(b), nil
}

func (d *Decoder) ReadIxDataU32() (uint32, *ProtocolError) {
	b, err := d.readFixed(FixedTypeU32, 4)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(b), nil
}

func (d *Decoder) ReadIxDataU64() (uint64, *ProtocolError) {
	b, err := d.readFixed(FixedTypeU64, 8)
	if err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint64(b), nil
}

func (d *Decoder) ReadIxDataF32() (float32, *ProtocolError) {
	b, err := d.readFixed(FixedTypeF32, 4)
	if err != nil {
		return 0, err
	}
	return math.Float32frombits(binary.LittleEndian.Uint32(b)), nil
}

func (d *Decoder) ReadIxDataF64() (float64, *ProtocolError) {
	b, err := d.readFixed(FixedTypeF64, 8)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(b)), nil
}

// ReadIxDataBoolean reads an IxData constant field.
func (d *Decoder) ReadIxDataBoolean() (bool, *ProtocolError) {
	h, err := d.consumeIxDataHeader(ixSubtypeConstant)
	if err != nil {
		return false, err
	}
	switch (h >> 2) & 0x0F {
	case constFalse:
		return false, nil
	case constTrue:
		return true, nil
	default:
		return false, d.poison(errf(InvalidBoolCode, "reserved bool code %d", (h>>2)&0x0F))
	}
}

// ReadVectorDataPayload reads the payload of a tag-11 field, handling both
// the short and extended header forms.
func (d *Decoder) ReadVectorDataPayload() ([]byte, *ProtocolError) {
	if err := d.checkBounds(1); err != nil {
		return nil, d.poison(err)
	}
	h1 := d.buf[d.pos]
	if headerTag(h1) != tagVectorData {
		return nil, d.poison(errf(UnexpectedTag, "expected vector-data tag, got %d", headerTag(h1)))
	}
	var length, headerLen int
	if h1&vectorDataExtendedFlag == 0 {
		headerLen = 1
		length = int(h1 & 0x1F)
	} else {
		if h1&0x03 != 0 {
			return nil, d.poison(NewProtocolError(NonZeroReservedBits, "extended vector-data header byte 1 has non-zero reserved bits"))
		}
		if err := d.checkBounds(2); err != nil {
			return nil, d.poison(err)
		}
		h2 := d.buf[d.pos+1]
		hhh := (h1 >> 2) & 0x07
		length = int(hhh)<<8 | int(h2)
		headerLen = 2
		if length < MinExtendedVectorDataLength || length > MaxExtendedVectorDataLength {
			return nil, d.poison(errf(InvalidVectorDataLength, "extended length %d outside [%d,%d]",
				length, MinExtendedVectorDataLength, MaxExtendedVectorDataLength))
		}
	}
	if err := d.checkBounds(headerLen + length); err != nil {
		return nil, d.poison(err)
	}
	payload := d.buf[d.pos+headerLen : d.pos+headerLen+length]
	d.pos += headerLen + length
	d.lastVectorPayloadLength = length
	return payload, nil
}

// DataHandler is invoked once per field, in stream order, by Run. payload
// points to a borrow into the Decoder's buffer for vector fields and to a
// stack-local copy for scalar IxData fields; it must not be retained past
// the call.
type DataHandler func(t PeekType, payload []byte) error

// Run drives PeekType/Read in a loop until EOF, invoking handler for every
// field. It returns the first error encountered, from either the decoder
// or the handler.
func (d *Decoder) Run(handler DataHandler) error {
	for {
		t, err := d.PeekType()
		if err != nil {
			return err
		}
		if t == EOF {
			return nil
		}
		payload, err := d.dispatchRead(t)
		if err != nil {
			return err
		}
		if cbErr := handler(t, payload); cbErr != nil {
			return cbErr
		}
	}
}

func (d *Decoder) dispatchRead(t PeekType) ([]byte, *ProtocolError) {
	var scratch [8]byte
	switch t {
	case PKVector0, PKVector1, PKVector2, PKVector3:
		return d.ReadPublicKeyVectorData()
	case SigVector0, SigVector1, SigVector2, SigVector3:
		return d.ReadSignatureVectorData()
	case IxDataIndex:
		v, err := d.ReadIxDataIndex()
		if err != nil {
			return nil, err
		}
		scratch[0] = v
		return scratch[:1], nil
	case IxDataVarintZero:
		if _, err := d.ReadIxDataVarintZero(); err != nil {
			return nil, err
		}
		return scratch[:0], nil
	case IxDataULEB128:
		v, err := d.ReadIxDataULEB128()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint64(scratch[:], v)
		return scratch[:8], nil
	case IxDataSLEB128:
		v, err := d.ReadIxDataSLEB128()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint64(scratch[:], uint64(v))
		return scratch[:8], nil
	case IxDataI8:
		v, err := d.ReadIxDataI8()
		if err != nil {
			return nil, err
		}
		scratch[0] = byte(v)
		return scratch[:1], nil
	case IxDataI16:
		v, err := d.ReadIxDataI16()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint16(scratch[:], uint16(v))
		return scratch[:2], nil
	case IxDataI32:
		v, err := d.ReadIxDataI32()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint32(scratch[:], uint32(v))
		return scratch[:4], nil
	case IxDataI64:
		v, err := d.ReadIxDataI64()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint64(scratch[:], uint64(v))
		return scratch[:8], nil
	case IxDataU8:
		v, err := d.ReadIxDataU8()
		if err != nil {
			return nil, err
		}
		scratch[0] = v
		return scratch[:1], nil
	case IxDataU16:
		v, err := d.ReadIxDataU16()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint16(scratch[:], v)
		return scratch[:2], nil
	case IxDataU32:
		v, err := d.ReadIxDataU32()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint32(scratch[:], v)
		return scratch[:4], nil
	case IxDataU64:
		v, err := d.ReadIxDataU64()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint64(scratch[:], v)
		return scratch[:8], nil
	case IxDataF32:
		v, err := d.ReadIxDataF32()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint32(scratch[:], math.Float32bits(v))
		return scratch[:4], nil
	case IxDataF64:
		v, err := d.ReadIxDataF64()
		if err != nil {
			return nil, err
		}
		binary.LittleEndian.PutUint64(scratch[:], math.Float64bits(v))
		return scratch[:8], nil
	case IxDataConstFalse, IxDataConstTrue:
		v, err := d.ReadIxDataBoolean()
		if err != nil {
			return nil, err
		}
		if v {
			scratch[0] = 1
		} else {
			scratch[0] = 0
		}
		return scratch[:1], nil
	case VectorShort, VectorExtended:
		return d.ReadVectorDataPayload()
	default:
		return nil, d.poison(errf(InvalidTag, "unknown peek type %v", t))
	}
}
