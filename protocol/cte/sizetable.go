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

// SizeTable resolves the SS size/type selector on tag-00 (public-key vector)
// and tag-01 (signature vector) headers to concrete byte counts.
//
// spec.md §9 documents two coexisting, mutually incompatible dialects for
// this selector found in the source repository. Neither is "the" format;
// an implementer picks one per build (or, as here, per codec instance).
// ok is false for an SS code the table does not support, which callers
// must turn into InvalidSizeCode/InvalidCryptoType.
type SizeTable interface {
	KeySize(ss uint8) (size int, ok bool)
	SigSize(ss uint8) (size int, ok bool)
}

// CryptoTypeSizeTable is Dialect A: SS names a signature scheme
// (Ed25519 or one of the SLH-DSA parameter sets) rather than a raw size
// class. This is the default dialect used by NewEncoder/NewDecoder.
type CryptoTypeSizeTable struct{}

const (
	CryptoTypeEd25519     = 0
	CryptoTypeSLHDSA128f  = 1
	CryptoTypeSLHDSA192f  = 2
	CryptoTypeSLHDSA256f  = 3
)

var cryptoKeySizes = [4]int{32, 32, 48, 64}
var cryptoSigSizes = [4]int{64, 32, 32, 32} // SLH-DSA variants carry a BLAKE3 hash placeholder, not the full signature.

func (CryptoTypeSizeTable) KeySize(ss uint8) (int, bool) {
	if int(ss) >= len(cryptoKeySizes) {
		return 0, false
	}
	return cryptoKeySizes[ss], true
}

func (CryptoTypeSizeTable) SigSize(ss uint8) (int, bool) {
	if int(ss) >= len(cryptoSigSizes) {
		return 0, false
	}
	return cryptoSigSizes[ss], true
}

// GenericSizeClassTable is Dialect B: SS names a raw size class shared by
// both public keys and signatures, with SS=3 reserved for an oversized
// signature class and invalid for public keys.
type GenericSizeClassTable struct{}

var genericKeySizes = [4]int{32, 64, 128, 0}
var genericSigSizes = [4]int{32, 64, 128, 29792}

func (GenericSizeClassTable) KeySize(ss uint8) (int, bool) {
	if int(ss) >= len(genericKeySizes) || ss == 3 {
		return 0, false
	}
	return genericKeySizes[ss], true
}

func (GenericSizeClassTable) SigSize(ss uint8) (int, bool) {
	if int(ss) >= len(genericSigSizes) {
		return 0, false
	}
	return genericSigSizes[ss], true
}

// DefaultSizeTable is the dialect used when a codec is constructed without
// an explicit WithSizeTable option. See DESIGN.md for why Dialect A won the
// default slot.
var DefaultSizeTable SizeTable = CryptoTypeSizeTable{}
