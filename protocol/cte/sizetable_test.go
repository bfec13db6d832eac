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

func TestCryptoTypeSizeTable(t *testing.T) {
	tbl := CryptoTypeSizeTable{}
	ks, ok := tbl.KeySize(CryptoTypeEd25519)
	require.True(t, ok)
	require.Equal(t, 32, ks)

	ss, ok := tbl.SigSize(CryptoTypeEd25519)
	require.True(t, ok)
	require.Equal(t, 64, ss)

	_, ok = tbl.KeySize(4)
	require.False(t, ok)
}

func TestGenericSizeClassTable(t *testing.T) {
	tbl := GenericSizeClassTable{}
	ks, ok := tbl.KeySize(2)
	require.True(t, ok)
	require.Equal(t, 128, ks)

	_, ok = tbl.KeySize(3)
	require.False(t, ok) // SS=3 is reserved for public keys in this dialect

	ss, ok := tbl.SigSize(3)
	require.True(t, ok)
	require.Equal(t, 29792, ss)
}

func TestDefaultSizeTableIsCryptoType(t *testing.T) {
	_, isCrypto := DefaultSizeTable.(CryptoTypeSizeTable)
	require.True(t, isCrypto)
}
