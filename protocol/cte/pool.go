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

import "github.com/lea-blockchain/cte/internal/bufpool"

// NewEncoderFromPool builds an Encoder backed by a pooled buffer instead of
// a freshly allocated one. Callers that encode many short-lived
// transactions should prefer this over NewEncoder to avoid repeated
// allocation/GC pressure. The returned release func must be called exactly
// once, after the caller is done with the Encoder's Data().
func NewEncoderFromPool(capacity int, opts ...EncoderOption) (*Encoder, func(), *ProtocolError) {
	if capacity <= 0 || capacity > bufpool.MaxBufferSize {
		return nil, func() {}, errf(InvalidCapacity, "capacity %d outside (0,%d]", capacity, bufpool.MaxBufferSize)
	}
	buf := bufpool.Get(capacity)
	e := &Encoder{buf: buf, sizes: DefaultSizeTable}
	for _, o := range opts {
		o(e)
	}
	e.buf[0] = VersionByte
	e.pos = 1
	release := func() { bufpool.Put(e.buf) }
	return e, release, nil
}

// NewDecoderFromPool builds a Decoder backed by a pooled buffer. The
// returned release func must be called exactly once, after the caller is
// done reading through any borrowed payload slices.
func NewDecoderFromPool(size int, opts ...DecoderOption) (*Decoder, func(), *ProtocolError) {
	if size <= 0 || size > bufpool.MaxBufferSize {
		return nil, func() {}, errf(InvalidCapacity, "size %d outside (0,%d]", size, bufpool.MaxBufferSize)
	}
	buf := bufpool.Get(size)
	d := &Decoder{buf: buf, size: size, sizes: DefaultSizeTable}
	for _, o := range opts {
		o(d)
	}
	release := func() { bufpool.Put(d.buf) }
	return d, release, nil
}
