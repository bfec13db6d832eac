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

// TestRoundTripMixedTransaction builds one transaction exercising every tag
// family and confirms PeekType/Read reproduces exactly what was written, in
// order, with no residual bytes.
func TestRoundTripMixedTransaction(t *testing.T) {
	e, err := NewEncoder(512)
	require.Nil(t, err)

	keys := make([]byte, 96) // n=3, ss=0 (32 bytes each)
	for i := range keys {
		keys[i] = byte(i)
	}
	sigs := make([]byte, 128) // n=2, ss=0 (64 bytes each)
	for i := range sigs {
		sigs[i] = byte(255 - i)
	}

	require.Nil(t, e.AddPublicKeyVector(3, 0, keys))
	require.Nil(t, e.AddSignatureVector(2, 0, sigs))
	require.Nil(t, e.WriteIxDataIndex(9))
	require.Nil(t, e.WriteIxDataULEB128(0))
	require.Nil(t, e.WriteIxDataULEB128(123456))
	require.Nil(t, e.WriteIxDataSLEB128(-78910))
	require.Nil(t, e.WriteIxDataI8(-5))
	require.Nil(t, e.WriteIxDataU16(60000))
	require.Nil(t, e.WriteIxDataF32(1.5))
	require.Nil(t, e.WriteIxDataBoolean(true))
	require.Nil(t, e.WriteIxDataBoolean(false))
	require.Nil(t, e.AddVectorData([]byte("Short payload")))
	require.Nil(t, e.AddVectorData(make([]byte, 150)))

	d, err := NewDecoder(e.Size())
	require.Nil(t, err)
	copy(d.Load(), e.Data())

	expect := func(want PeekType) {
		pt, perr := d.PeekType()
		require.Nil(t, perr)
		require.Equal(t, want, pt)
	}

	expect(PKVector0)
	gotKeys, rerr := d.ReadPublicKeyVectorData()
	require.Nil(t, rerr)
	require.Equal(t, keys, gotKeys)

	expect(SigVector0)
	gotSigs, rerr := d.ReadSignatureVectorData()
	require.Nil(t, rerr)
	require.Equal(t, sigs, gotSigs)

	expect(IxDataIndex)
	idx, rerr := d.ReadIxDataIndex()
	require.Nil(t, rerr)
	require.Equal(t, uint8(9), idx)

	expect(IxDataVarintZero)
	z, rerr := d.ReadIxDataULEB128()
	require.Nil(t, rerr)
	require.Equal(t, uint64(0), z)

	expect(IxDataULEB128)
	u, rerr := d.ReadIxDataULEB128()
	require.Nil(t, rerr)
	require.Equal(t, uint64(123456), u)

	expect(IxDataSLEB128)
	s, rerr := d.ReadIxDataSLEB128()
	require.Nil(t, rerr)
	require.Equal(t, int64(-78910), s)

	expect(IxDataI8)
	i8, rerr := d.ReadIxDataI8()
	require.Nil(t, rerr)
	require.Equal(t, int8(-5), i8)

	expect(IxDataU16)
	u16, rerr := d.ReadIxDataU16()
	require.Nil(t, rerr)
	require.Equal(t, uint16(60000), u16)

	expect(IxDataF32)
	f32, rerr := d.ReadIxDataF32()
	require.Nil(t, rerr)
	require.Equal(t, float32(1.5), f32)

	expect(IxDataConstTrue)
	bt, rerr := d.ReadIxDataBoolean()
	require.Nil(t, rerr)
	require.True(t, bt)

	expect(IxDataConstFalse)
	bf, rerr := d.ReadIxDataBoolean()
	require.Nil(t, rerr)
	require.False(t, bf)

	expect(VectorShort)
	short, rerr := d.ReadVectorDataPayload()
	require.Nil(t, rerr)
	require.Equal(t, "Short payload", string(short))

	expect(VectorExtended)
	ext, rerr := d.ReadVectorDataPayload()
	require.Nil(t, rerr)
	require.Len(t, ext, 150)

	pt, perr := d.PeekType()
	require.Nil(t, perr)
	require.Equal(t, EOF, pt)
}

// TestRoundTripViaRun drives a smaller mixed transaction (fixed scalar,
// short vector data, boolean) through the streaming Run API and checks the
// handler sees fields in order with usable payloads.
func TestRoundTripViaRun(t *testing.T) {
	e, err := NewEncoder(128)
	require.Nil(t, err)
	require.Nil(t, e.WriteIxDataU32(42))
	require.Nil(t, e.AddVectorData([]byte("hi")))
	require.Nil(t, e.WriteIxDataBoolean(true))

	d, err := NewDecoder(e.Size())
	require.Nil(t, err)
	copy(d.Load(), e.Data())

	var seen []PeekType
	var vectorPayload string
	runErr := d.Run(func(t PeekType, payload []byte) error {
		seen = append(seen, t)
		if t == VectorShort {
			vectorPayload = string(payload)
		}
		return nil
	})
	require.Nil(t, runErr)
	require.Equal(t, []PeekType{IxDataU32, VectorShort, IxDataConstTrue}, seen)
	require.Equal(t, "hi", vectorPayload)
}
