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

// Package cte implements the Compact Transaction Encoding wire format: a
// tagged, self-describing binary layout for composing short transaction-like
// messages out of public-key vectors, signature vectors, inline/extended
// scalar fields (IxData), and opaque vector-data payloads.
package cte

// VersionByte is the mandatory first byte of every CTE transaction buffer.
const VersionByte = 0xF1

// MaxTransactionSize is the hard cap on a transaction buffer's length.
const MaxTransactionSize = 1232

// Vector count bounds (tags 00 and 01).
const (
	MinVectorCount = 1
	MaxVectorCount = 15
)

// Vector-data payload length windows (tag 11).
const (
	MinShortVectorDataLength    = 0
	MaxShortVectorDataLength    = 31
	MinExtendedVectorDataLength = 32
	MaxExtendedVectorDataLength = 1197
)

// MaxIndexValue is the largest value representable by an IxData index field.
const MaxIndexValue = 15

// tag occupies bits 7-6 of a header byte.
type tag uint8

const (
	tagPublicKeyVector tag = 0x00
	tagSignatureVector tag = 0x01
	tagIxData          tag = 0x02
	tagVectorData      tag = 0x03
	tagMask                = 0xC0
	tagShift               = 6
)

func headerTag(h byte) tag {
	return tag(h >> tagShift)
}

// IxData subtype occupies bits 1-0 of an IxData header byte.
const (
	ixSubtypeIndex    = 0x00
	ixSubtypeVarint   = 0x01
	ixSubtypeFixed    = 0x02
	ixSubtypeConstant = 0x03
	ixSubtypeMask     = 0x03
)

// Varint encoding codes (DDDD when SS = ixSubtypeVarint).
const (
	varintEncZero    = 0x00
	varintEncULEB128 = 0x01
	varintEncSLEB128 = 0x02
)

// Fixed-scalar type codes (DDDD when SS = ixSubtypeFixed).
const (
	FixedTypeI8 = iota
	FixedTypeI16
	FixedTypeI32
	FixedTypeI64
	FixedTypeU8
	FixedTypeU16
	FixedTypeU32
	FixedTypeU64
	FixedTypeF32
	FixedTypeF64
	fixedTypeReservedStart // 0x0A..0x0F reserved
)

var fixedTypeSize = [fixedTypeReservedStart]int{
	FixedTypeI8:  1,
	FixedTypeI16: 2,
	FixedTypeI32: 4,
	FixedTypeI64: 8,
	FixedTypeU8:  1,
	FixedTypeU16: 2,
	FixedTypeU32: 4,
	FixedTypeU64: 8,
	FixedTypeF32: 4,
	FixedTypeF64: 8,
}

// Constant codes (DDDD when SS = ixSubtypeConstant).
const (
	constFalse = 0x00
	constTrue  = 0x01
)

// Vector-data format flag (bit 5 of the command-data header byte).
const vectorDataExtendedFlag = 0x20

// PeekType is the closed set of field classifications PeekType can return.
type PeekType int

const (
	EOF PeekType = iota
	PKVector0
	PKVector1
	PKVector2
	PKVector3
	SigVector0
	SigVector1
	SigVector2
	SigVector3
	IxDataIndex
	IxDataVarintZero
	IxDataULEB128
	IxDataSLEB128
	IxDataI8
	IxDataI16
	IxDataI32
	IxDataI64
	IxDataU8
	IxDataU16
	IxDataU32
	IxDataU64
	IxDataF32
	IxDataF64
	IxDataConstFalse
	IxDataConstTrue
	VectorShort
	VectorExtended
)

func (p PeekType) String() string {
	switch p {
	case EOF:
		return "EOF"
	case PKVector0, PKVector1, PKVector2, PKVector3:
		return "PK_VECTOR"
	case SigVector0, SigVector1, SigVector2, SigVector3:
		return "SIG_VECTOR"
	case IxDataIndex:
		return "IXDATA_INDEX"
	case IxDataVarintZero:
		return "IXDATA_VARINT_ZERO"
	case IxDataULEB128:
		return "IXDATA_ULEB128"
	case IxDataSLEB128:
		return "IXDATA_SLEB128"
	case IxDataI8, IxDataI16, IxDataI32, IxDataI64,
		IxDataU8, IxDataU16, IxDataU32, IxDataU64,
		IxDataF32, IxDataF64:
		return "IXDATA_FIXED"
	case IxDataConstFalse:
		return "IXDATA_CONST_FALSE"
	case IxDataConstTrue:
		return "IXDATA_CONST_TRUE"
	case VectorShort:
		return "VECTOR_SHORT"
	case VectorExtended:
		return "VECTOR_EXTENDED"
	default:
		return "UNKNOWN"
	}
}

// fixedPeekType maps a fixed-scalar type code to its peek enumerant.
var fixedPeekType = [fixedTypeReservedStart]PeekType{
	FixedTypeI8:  IxDataI8,
	FixedTypeI16: IxDataI16,
	FixedTypeI32: IxDataI32,
	FixedTypeI64: IxDataI64,
	FixedTypeU8:  IxDataU8,
	FixedTypeU16: IxDataU16,
	FixedTypeU32: IxDataU32,
	FixedTypeU64: IxDataU64,
	FixedTypeF32: IxDataF32,
	FixedTypeF64: IxDataF64,
}
