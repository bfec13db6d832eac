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

// Writer is a buffer IO interface over an underlying io.Writer.
type Writer interface {
	// Malloc grows the writer's pending output by n bytes and returns
	// that slice for the caller to fill in before the next Flush.
	Malloc(n int) (buf []byte, err error)

	// Flush writes all pending output to the underlying io.Writer and
	// resets the writer for reuse.
	Flush() (err error)
}
