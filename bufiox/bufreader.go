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

// Reader is a buffer IO interface over an underlying io.Reader.
type Reader interface {
	// ReadBinary reads len(bs) bytes into bs, retrying on short reads from
	// the underlying reader, and returns the number of bytes actually
	// copied along with the error (typically io.EOF) that stopped it
	// short of len(bs).
	ReadBinary(bs []byte) (n int, err error)
}
