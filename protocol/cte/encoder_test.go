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
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNewEncoderRejectsBadCapacity(t *testing.T) {
	_, err := NewEncoder(0)
	require.NotNil(t, err)
	require.Equal(t, InvalidCapacity, err.Code)
}

func TestEncoderCapacityOverflowPoisons(t *testing.T) {
	e, err := NewEncoder(4)
	require.Nil(t, err)
	werr := e.WriteIxDataULEB128(123456) // needs 1 header + 3 data = 4, but only 3 remain after version byte
	require.NotNil(t, werr)
	require.Equal(t, BufferOverflow, werr.Code)

	// The encoder is poisoned: any further write fails the same way, even
	// a write that would otherwise fit.
	werr2 := e.WriteIxDataIndex(1)
	require.NotNil(t, werr2)
	require.Equal(t, BufferOverflow, werr2.Code)
}

func TestEncoderResetClearsPoison(t *testing.T) {
	e, err := NewEncoder(2)
	require.Nil(t, err)
	_, werr := e.BeginVectorData(40) // exceeds capacity, poisons
	require.NotNil(t, werr)

	e.Reset()
	require.Nil(t, e.WriteIxDataIndex(3))
	require.Equal(t, 2, e.Size())
}

func TestBeginPublicKeyVectorRejectsBadCount(t *testing.T) {
	e, err := NewEncoder(256)
	require.Nil(t, err)
	_, werr := e.BeginPublicKeyVector(0, 0)
	require.NotNil(t, werr)
	require.Equal(t, InvalidCount, werr.Code)

	_, werr = e.BeginPublicKeyVector(16, 0)
	require.NotNil(t, werr)
	require.Equal(t, InvalidCount, werr.Code)
}

func TestBeginSignatureVectorRejectsBadSizeCode(t *testing.T) {
	e, err := NewEncoder(256, WithSizeTable(GenericSizeClassTable{}))
	require.Nil(t, err)
	_, werr := e.BeginSignatureVector(1, 9)
	require.NotNil(t, werr)
	require.Equal(t, InvalidSizeCode, werr.Code)
}

func TestAddVectorDataRejectsOutOfRangeLength(t *testing.T) {
	e, err := NewEncoder(2000)
	require.Nil(t, err)
	_, werr := e.BeginVectorData(MinShortVectorDataLength - 1)
	require.NotNil(t, werr)
	require.Equal(t, InvalidVectorDataLength, werr.Code)

	werr = e.AddVectorData(make([]byte, MaxExtendedVectorDataLength+1))
	require.NotNil(t, werr)
	require.Equal(t, InvalidVectorDataLength, werr.Code)
}

func TestAddPublicKeyVectorLengthMismatch(t *testing.T) {
	e, err := NewEncoder(256)
	require.Nil(t, err)
	werr := e.AddPublicKeyVector(2, 0, make([]byte, 10))
	require.NotNil(t, werr)
	require.Equal(t, BufferUnderflow, werr.Code)
}

func TestGenericSizeClassDialectOnEncoder(t *testing.T) {
	e, err := NewEncoder(256, WithSizeTable(GenericSizeClassTable{}))
	require.Nil(t, err)
	require.Nil(t, e.AddPublicKeyVector(1, 1, make([]byte, 64)))

	_, werr := e.BeginPublicKeyVector(1, 3) // reserved for public keys in Dialect B
	require.NotNil(t, werr)
	require.Equal(t, InvalidSizeCode, werr.Code)
}

func TestWriteIxDataFixedScalarsRoundTripBytes(t *testing.T) {
	e, err := NewEncoder(64)
	require.Nil(t, err)
	require.Nil(t, e.WriteIxDataI64(-1))
	require.Nil(t, e.WriteIxDataU64(^uint64(0)))
	require.Nil(t, e.WriteIxDataF64(3.5))
	require.Equal(t, 1+9+9+9, e.Size())
}
