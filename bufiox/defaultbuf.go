// Copyright 2024 CloudWeGo Authors
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

package bufiox

import (
	"errors"
	"io"

	"github.com/bytedance/gopkg/lang/mcache"
)

const maxConsecutiveEmptyReads = 100

const defaultBufSize = 8 * 1024

var errNegativeCount = errors.New("bufiox: negative count")

var _ Reader = &DefaultReader{}

// DefaultReader wraps an io.Reader with the retry-until-full ReadBinary
// semantics the Reader interface promises.
type DefaultReader struct {
	rd  io.Reader
	err error
}

// NewDefaultReader returns a new DefaultReader that reads from rd.
func NewDefaultReader(rd io.Reader) *DefaultReader {
	return &DefaultReader{rd: rd}
}

// ReadBinary reads len(bs) bytes into bs, retrying short reads from the
// underlying reader until bs is full or the reader errors. On EOF it
// returns whatever was read along with the error.
func (r *DefaultReader) ReadBinary(bs []byte) (n int, err error) {
	if len(bs) == 0 {
		return 0, nil
	}
	if r.err != nil {
		return 0, r.err
	}
	var emptyReads int
	for n < len(bs) {
		nn, rerr := r.rd.Read(bs[n:])
		n += nn
		if rerr != nil {
			r.err = rerr
			return n, rerr
		}
		if nn == 0 {
			emptyReads++
			if emptyReads > maxConsecutiveEmptyReads {
				r.err = io.ErrNoProgress
				return n, r.err
			}
			continue
		}
		emptyReads = 0
	}
	return n, nil
}

var _ Writer = &DefaultWriter{}

// DefaultWriter accumulates Malloc'd output in a pooled buffer and writes
// it to the underlying io.Writer on Flush.
type DefaultWriter struct {
	buf []byte
	wd  io.Writer
	err error
}

// NewDefaultWriter returns a new DefaultWriter that writes to wd.
func NewDefaultWriter(wd io.Writer) *DefaultWriter {
	return &DefaultWriter{wd: wd}
}

func growCap(n int) int {
	c := defaultBufSize
	for c < n {
		c *= 2
	}
	return c
}

func (w *DefaultWriter) Malloc(n int) (buf []byte, err error) {
	if w.err != nil {
		return nil, w.err
	}
	if n < 0 {
		return nil, errNegativeCount
	}
	need := len(w.buf) + n
	if need > cap(w.buf) {
		grown := mcache.Malloc(len(w.buf), growCap(need))
		copy(grown, w.buf)
		if cap(w.buf) > 0 {
			mcache.Free(w.buf)
		}
		w.buf = grown[:need]
	} else {
		w.buf = w.buf[:need]
	}
	return w.buf[need-n : need], nil
}

func (w *DefaultWriter) Flush() (err error) {
	if w.err != nil {
		return w.err
	}
	if len(w.buf) == 0 {
		return nil
	}
	_, err = w.wd.Write(w.buf)
	if cap(w.buf) > 0 {
		mcache.Free(w.buf)
	}
	w.buf = nil
	if err != nil {
		w.err = err
	}
	return err
}
