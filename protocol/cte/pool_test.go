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

func TestNewEncoderFromPoolRoundTrip(t *testing.T) {
	e, release, err := NewEncoderFromPool(64)
	require.Nil(t, err)
	defer release()

	require.Nil(t, e.WriteIxDataIndex(7))
	require.Equal(t, byte(VersionByte), e.Data()[0])
	require.Equal(t, byte(0x9C), e.Data()[1])
}

func TestNewDecoderFromPoolRoundTrip(t *testing.T) {
	e, erelease, err := NewEncoderFromPool(64)
	require.Nil(t, err)
	defer erelease()
	require.Nil(t, e.WriteIxDataIndex(7))

	d, drelease, derr := NewDecoderFromPool(e.Size())
	require.Nil(t, derr)
	defer drelease()
	copy(d.Load(), e.Data())

	pt, perr := d.PeekType()
	require.Nil(t, perr)
	require.Equal(t, IxDataIndex, pt)
	v, rerr := d.ReadIxDataIndex()
	require.Nil(t, rerr)
	require.Equal(t, uint8(7), v)
}

func TestNewEncoderFromPoolRejectsOversizedCapacity(t *testing.T) {
	_, release, err := NewEncoderFromPool(2000)
	defer release()
	require.NotNil(t, err)
	require.Equal(t, InvalidCapacity, err.Code)
}
