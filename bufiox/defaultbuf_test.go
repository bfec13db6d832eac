// Copyright 2024 CloudWeGo Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package bufiox

import (
	"bytes"
	"io"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDefaultReaderReadBinaryFillsExactly(t *testing.T) {
	data := []byte("Hello, World!")
	r := NewDefaultReader(bytes.NewReader(data))

	buf := make([]byte, 5)
	n, err := r.ReadBinary(buf)
	require.NoError(t, err)
	require.Equal(t, 5, n)
	require.Equal(t, []byte("Hello"), buf)

	buf = make([]byte, 8)
	n, err = r.ReadBinary(buf)
	require.NoError(t, err)
	require.Equal(t, 8, n)
	require.Equal(t, []byte(", World!"), buf)
}

// TestDefaultReaderReadBinaryShortFinalChunk mirrors the ctetool CLI's
// fixed-size chunked drain: a read that asks for more than remains returns
// the partial data alongside io.EOF, not io.ErrUnexpectedEOF.
func TestDefaultReaderReadBinaryShortFinalChunk(t *testing.T) {
	r := NewDefaultReader(bytes.NewReader([]byte("abc")))
	buf := make([]byte, 10)
	n, err := r.ReadBinary(buf)
	require.ErrorIs(t, err, io.EOF)
	require.Equal(t, 3, n)
	require.Equal(t, []byte("abc"), buf[:n])
}

func TestDefaultReaderReadBinaryEmptyRequest(t *testing.T) {
	r := NewDefaultReader(bytes.NewReader([]byte("abc")))
	n, err := r.ReadBinary(nil)
	require.NoError(t, err)
	require.Equal(t, 0, n)
}

func TestDefaultReaderStaysErroredAfterEOF(t *testing.T) {
	r := NewDefaultReader(bytes.NewReader(nil))
	buf := make([]byte, 4)
	_, err := r.ReadBinary(buf)
	require.ErrorIs(t, err, io.EOF)
	_, err = r.ReadBinary(buf)
	require.ErrorIs(t, err, io.EOF)
}

func TestDefaultWriterMallocThenFlush(t *testing.T) {
	var out bytes.Buffer
	w := NewDefaultWriter(&out)

	buf, err := w.Malloc(5)
	require.NoError(t, err)
	copy(buf, "Hello")

	buf, err = w.Malloc(8)
	require.NoError(t, err)
	copy(buf, ", World!")

	require.NoError(t, w.Flush())
	require.Equal(t, "Hello, World!", out.String())
}

func TestDefaultWriterMallocGrowsPastInitialChunk(t *testing.T) {
	var out bytes.Buffer
	w := NewDefaultWriter(&out)

	big := bytes.Repeat([]byte("x"), defaultBufSize+1)
	buf, err := w.Malloc(len(big))
	require.NoError(t, err)
	copy(buf, big)

	require.NoError(t, w.Flush())
	require.Equal(t, big, out.Bytes())
}

func TestDefaultWriterFlushResetsState(t *testing.T) {
	var out bytes.Buffer
	w := NewDefaultWriter(&out)

	buf, err := w.Malloc(3)
	require.NoError(t, err)
	copy(buf, "abc")
	require.NoError(t, w.Flush())
	require.Equal(t, "abc", out.String())

	buf, err = w.Malloc(3)
	require.NoError(t, err)
	copy(buf, "def")
	require.NoError(t, w.Flush())
	require.Equal(t, "abcdef", out.String())
}

func TestDefaultWriterRejectsNegativeMalloc(t *testing.T) {
	w := NewDefaultWriter(&bytes.Buffer{})
	_, err := w.Malloc(-1)
	require.Equal(t, errNegativeCount, err)
}
