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

import "fmt"

// ErrorCode is the closed taxonomy of CTE validation failures. Every
// invariant violation in the encoder or decoder raises a *ProtocolError
// carrying exactly one of these.
type ErrorCode int

const (
	UnknownError ErrorCode = iota
	VersionMismatch
	BufferOverflow
	BufferUnderflow
	InvalidTag
	UnexpectedTag
	InvalidCount
	InvalidSizeCode
	InvalidCryptoType
	InvalidSubtype
	ReservedDetailCode
	InvalidVectorDataLength
	NonZeroReservedBits
	Leb128Overflow
	Leb128Unterminated
	InvalidBoolCode
	InvalidCapacity
)

var errorCodeNames = map[ErrorCode]string{
	UnknownError:            "unknown error",
	VersionMismatch:         "version mismatch",
	BufferOverflow:          "buffer overflow",
	BufferUnderflow:         "buffer underflow",
	InvalidTag:              "invalid tag",
	UnexpectedTag:           "unexpected tag",
	InvalidCount:            "invalid count",
	InvalidSizeCode:         "invalid size code",
	InvalidCryptoType:       "invalid crypto type",
	InvalidSubtype:          "invalid subtype",
	ReservedDetailCode:      "reserved detail code",
	InvalidVectorDataLength: "invalid vector data length",
	NonZeroReservedBits:     "non-zero reserved bits",
	Leb128Overflow:          "leb128 overflow",
	Leb128Unterminated:      "leb128 unterminated",
	InvalidBoolCode:         "invalid bool code",
	InvalidCapacity:         "invalid capacity",
}

func (c ErrorCode) String() string {
	if n, ok := errorCodeNames[c]; ok {
		return n
	}
	return "unknown error"
}

// ProtocolError is the single error type raised by this package. A codec
// that has returned a ProtocolError must be discarded by the caller rather
// than used to retry the failed operation.
type ProtocolError struct {
	Code ErrorCode
	msg  string
}

// NewProtocolError builds a ProtocolError with the given code and message.
func NewProtocolError(code ErrorCode, msg string) *ProtocolError {
	return &ProtocolError{Code: code, msg: msg}
}

func (e *ProtocolError) Error() string {
	if e.msg != "" {
		return fmt.Sprintf("cte: %s: %s", e.Code, e.msg)
	}
	return fmt.Sprintf("cte: %s", e.Code)
}

// Is reports whether err is a *ProtocolError with the same code, so callers
// can do errors.Is(err, cte.NewProtocolError(cte.InvalidCount, "")).
func (e *ProtocolError) Is(err error) bool {
	t, ok := err.(*ProtocolError)
	return ok && t.Code == e.Code
}

func errf(code ErrorCode, format string, args ...interface{}) *ProtocolError {
	return &ProtocolError{Code: code, msg: fmt.Sprintf(format, args...)}
}
