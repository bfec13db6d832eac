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

// Package bufpool supplies pooled, fixed-capacity byte buffers for callers
// that build or parse many CTE transactions back to back (protocol/cte's
// NewEncoderFromPool/NewDecoderFromPool). It is grounded on the size-classed sync.Pool technique used
// by the teacher's cache/mempool, simplified for CTE's domain: every CTE
// transaction buffer is at most cte.MaxTransactionSize bytes, so a single
// size class suffices instead of a doubling ladder up to gigabytes.
package bufpool

import "sync"

// MaxBufferSize is the largest buffer this pool will ever hand out. It
// matches cte.MaxTransactionSize; duplicated here (instead of imported) so
// this package does not import protocol/cte, which imports it.
const MaxBufferSize = 1232

var pool = sync.Pool{
	New: func() interface{} {
		b := make([]byte, MaxBufferSize)
		return &b
	},
}

// Get returns a buffer of exactly size bytes, backed by pooled storage.
// size must be in (0, MaxBufferSize]. The returned slice's contents are not
// zeroed.
func Get(size int) []byte {
	if size <= 0 || size > MaxBufferSize {
		panic("bufpool: size out of range")
	}
	bp := pool.Get().(*[]byte)
	return (*bp)[:size]
}

// Put returns a buffer previously obtained from Get to the pool. The caller
// must not use buf after calling Put.
func Put(buf []byte) {
	if cap(buf) != MaxBufferSize {
		return // not one of ours
	}
	full := buf[:MaxBufferSize]
	pool.Put(&full)
}
