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

// Command ctetool builds and inspects Compact Transaction Encoding buffers
// from the command line: "write" composes a transaction out of a sequence
// of type:value fields, "read" decodes one field by field.
package main

import (
	"encoding/hex"
	"errors"
	"flag"
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"

	"github.com/lea-blockchain/cte/bufiox"
	"github.com/lea-blockchain/cte/protocol/cte"
)

const (
	defaultBufferSize = 4096
	maxBufferSize     = 16 * 1024 * 1024
)

// sizeDialect is the SizeTable the CLI's pk-vec/sig-vec fields are parsed
// against. The original C tool's own usage text advertises sizes
// 32/64/128/29792, which is GenericSizeClassTable, not the package default
// (CryptoTypeSizeTable) — see DESIGN.md.
var sizeDialect = cte.GenericSizeClassTable{}

func main() {
	if len(os.Args) < 2 || os.Args[1] == "help" || os.Args[1] == "--help" {
		printUsage()
		return
	}

	var err error
	switch os.Args[1] {
	case "write":
		err = runWrite(os.Args[2:])
	case "read":
		err = runRead(os.Args[2:])
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown command %q\n\n", os.Args[1])
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Print(`Usage: ctetool <command> [options] [args...]

Commands:
  write   Create a CTE transaction from a sequence of fields.
  read    Read a CTE transaction and print its contents.
  help    Show this help message.

Options for 'write' and 'read':
  -b <size>   Use a buffer of the specified size in bytes (max 16MB).

Options for 'write':
  -o <file>   Write to the specified file instead of stdout.

Options for 'read':
  -i <file>   Read from the specified file instead of stdin.

Field formats for 'write':
  uint8:<val> uint16:<val> uint32:<val> uint64:<val>   (decimal or 0x-hex)
  int8:<val> int16:<val> int32:<val> int64:<val>       (decimal or 0x-hex)
  uleb:<val>                                           unsigned varint
  sleb:<val>                                           signed varint
  float:<val> double:<val>
  bool:<true|false>
  index:<0-15>
  vec:<hex_string>                   opaque vector-data payload
  pk-vec-<size>:<hex_string>         public-key vector, size in {32,64,128}
  sig-vec-<size>:<hex_string>        signature vector, size in {32,64,128,29792}
`)
}

func runWrite(args []string) error {
	fs := flag.NewFlagSet("write", flag.ExitOnError)
	bufSize := fs.Int("b", defaultBufferSize, "buffer size in bytes")
	outFile := fs.String("o", "", "output file (default stdout)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bufSize <= 0 || *bufSize > maxBufferSize {
		return fmt.Errorf("invalid buffer size %d: must be > 0 and <= %d", *bufSize, maxBufferSize)
	}
	fields := fs.Args()
	if len(fields) == 0 {
		return errors.New("no fields provided for 'write' command")
	}

	enc, perr := cte.NewEncoder(*bufSize)
	if perr != nil {
		return perr
	}
	for _, field := range fields {
		if err := encodeField(enc, field); err != nil {
			return err
		}
	}

	var dst io.Writer = os.Stdout
	if *outFile != "" {
		f, err := os.Create(*outFile)
		if err != nil {
			return err
		}
		defer f.Close()
		dst = f
	}
	w := bufiox.NewDefaultWriter(dst)
	buf, err := w.Malloc(enc.Size())
	if err != nil {
		return err
	}
	copy(buf, enc.Data())
	if err := w.Flush(); err != nil {
		return err
	}
	if *outFile != "" {
		fmt.Printf("Wrote %d bytes to %s\n", enc.Size(), *outFile)
	}
	return nil
}

// asError converts a possibly-nil *cte.ProtocolError to the error
// interface without tripping the typed-nil gotcha (a nil *ProtocolError
// boxed directly into an error interface value is != nil).
func asError(e *cte.ProtocolError) error {
	if e == nil {
		return nil
	}
	return e
}

func encodeField(enc *cte.Encoder, field string) error {
	colon := strings.IndexByte(field, ':')
	if colon < 0 {
		return fmt.Errorf("invalid field format %q, expected 'type:value'", field)
	}
	typ, value := field[:colon], field[colon+1:]

	switch {
	case typ == "uint8":
		v, err := strconv.ParseUint(value, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid value for uint8: %s", value)
		}
		return asError(enc.WriteIxDataU8(uint8(v)))
	case typ == "uint16":
		v, err := strconv.ParseUint(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid value for uint16: %s", value)
		}
		return asError(enc.WriteIxDataU16(uint16(v)))
	case typ == "uint32":
		v, err := strconv.ParseUint(value, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid value for uint32: %s", value)
		}
		return asError(enc.WriteIxDataU32(uint32(v)))
	case typ == "uint64":
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid value for uint64: %s", value)
		}
		return asError(enc.WriteIxDataU64(v))
	case typ == "int8":
		v, err := strconv.ParseInt(value, 0, 8)
		if err != nil {
			return fmt.Errorf("invalid value for int8: %s", value)
		}
		return asError(enc.WriteIxDataI8(int8(v)))
	case typ == "int16":
		v, err := strconv.ParseInt(value, 0, 16)
		if err != nil {
			return fmt.Errorf("invalid value for int16: %s", value)
		}
		return asError(enc.WriteIxDataI16(int16(v)))
	case typ == "int32":
		v, err := strconv.ParseInt(value, 0, 32)
		if err != nil {
			return fmt.Errorf("invalid value for int32: %s", value)
		}
		return asError(enc.WriteIxDataI32(int32(v)))
	case typ == "int64":
		v, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid value for int64: %s", value)
		}
		return asError(enc.WriteIxDataI64(v))
	case typ == "uleb":
		v, err := strconv.ParseUint(value, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid value for uleb: %s", value)
		}
		return asError(enc.WriteIxDataULEB128(v))
	case typ == "sleb":
		v, err := strconv.ParseInt(value, 0, 64)
		if err != nil {
			return fmt.Errorf("invalid value for sleb: %s", value)
		}
		return asError(enc.WriteIxDataSLEB128(v))
	case typ == "float":
		v, err := strconv.ParseFloat(value, 32)
		if err != nil {
			return fmt.Errorf("invalid value for float: %s", value)
		}
		return asError(enc.WriteIxDataF32(float32(v)))
	case typ == "double":
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("invalid value for double: %s", value)
		}
		return asError(enc.WriteIxDataF64(v))
	case typ == "bool":
		if value != "true" && value != "false" {
			return fmt.Errorf("invalid value for bool: %s", value)
		}
		return asError(enc.WriteIxDataBoolean(value == "true"))
	case typ == "index":
		v, err := strconv.ParseUint(value, 0, 8)
		if err != nil || v > cte.MaxIndexValue {
			return fmt.Errorf("invalid value for index: %s", value)
		}
		return asError(enc.WriteIxDataIndex(uint8(v)))
	case typ == "vec":
		b, err := hex.DecodeString(value)
		if err != nil {
			return fmt.Errorf("invalid hex string for vec: %s", value)
		}
		return asError(enc.AddVectorData(b))
	case strings.HasPrefix(typ, "pk-vec-"):
		return encodeVectorField(enc, typ, value, "pk-vec-", sizeDialect.KeySize, enc.BeginPublicKeyVector)
	case strings.HasPrefix(typ, "sig-vec-"):
		return encodeVectorField(enc, typ, value, "sig-vec-", sizeDialect.SigSize, enc.BeginSignatureVector)
	default:
		return fmt.Errorf("unknown field type %q", typ)
	}
}

func encodeVectorField(
	enc *cte.Encoder,
	typ, value, prefix string,
	sizeOf func(uint8) (int, bool),
	begin func(n int, ss uint8) ([]byte, *cte.ProtocolError),
) error {
	wantSize, err := strconv.Atoi(strings.TrimPrefix(typ, prefix))
	if err != nil {
		return fmt.Errorf("invalid size in field type %q", typ)
	}
	ss, ok := resolveSizeCode(wantSize, sizeOf)
	if !ok {
		return fmt.Errorf("%s: unsupported item size %d", prefix, wantSize)
	}
	raw, herr := hex.DecodeString(value)
	if herr != nil {
		return fmt.Errorf("invalid hex string for %s: %s", typ, value)
	}
	if wantSize == 0 || len(raw)%wantSize != 0 {
		return fmt.Errorf("%s: payload length %d is not a multiple of item size %d", typ, len(raw), wantSize)
	}
	n := len(raw) / wantSize
	dst, perr := begin(n, ss)
	if perr != nil {
		return perr
	}
	copy(dst, raw)
	return nil
}

func resolveSizeCode(wantSize int, sizeOf func(uint8) (int, bool)) (uint8, bool) {
	for ss := uint8(0); ss < 4; ss++ {
		if size, ok := sizeOf(ss); ok && size == wantSize {
			return ss, true
		}
	}
	return 0, false
}

func runRead(args []string) error {
	fs := flag.NewFlagSet("read", flag.ExitOnError)
	bufSize := fs.Int("b", defaultBufferSize, "buffer size in bytes")
	inFile := fs.String("i", "", "input file (default stdin)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if *bufSize <= 0 || *bufSize > maxBufferSize {
		return fmt.Errorf("invalid buffer size %d: must be > 0 and <= %d", *bufSize, maxBufferSize)
	}

	var src io.Reader = os.Stdin
	name := "stdin"
	if *inFile != "" {
		f, err := os.Open(*inFile)
		if err != nil {
			return err
		}
		defer f.Close()
		src = f
		name = *inFile
	}

	data, err := drain(src, *bufSize)
	if err != nil {
		return err
	}
	if len(data) == 0 {
		return errors.New("no data read from input")
	}

	dec, perr := cte.NewDecoder(len(data))
	if perr != nil {
		return perr
	}
	copy(dec.Load(), data)

	fmt.Printf("Reading from %s (%d bytes).....\n", name, len(data))
	fmt.Println("--------------------------------------")
	if runErr := dec.Run(printField); runErr != nil {
		return runErr
	}
	fmt.Println("--------------------------------------")
	fmt.Println("Successfully decoded all fields.")
	return nil
}

// drain reads all of src into memory through a bufiox.Reader, chunk by
// chunk, erroring if the stream exceeds limit bytes.
func drain(src io.Reader, limit int) ([]byte, error) {
	r := bufiox.NewDefaultReader(src)
	const chunkSize = 4096
	chunk := make([]byte, chunkSize)
	var data []byte
	for {
		n, err := r.ReadBinary(chunk)
		data = append(data, chunk[:n]...)
		if len(data) > limit {
			return nil, fmt.Errorf("input data exceeds buffer size of %d bytes", limit)
		}
		if err != nil {
			if errors.Is(err, io.EOF) {
				return data, nil
			}
			return nil, err
		}
	}
}

func printField(t cte.PeekType, payload []byte) error {
	fmt.Printf("Type: %s, ", t)
	switch t {
	case cte.PKVector0, cte.PKVector1, cte.PKVector2, cte.PKVector3:
		fmt.Printf("Public Key Vector, %d bytes\n", len(payload))
	case cte.SigVector0, cte.SigVector1, cte.SigVector2, cte.SigVector3:
		fmt.Printf("Signature Vector, %d bytes\n", len(payload))
	case cte.IxDataIndex:
		fmt.Printf("Index, Value: %d\n", payload[0])
	case cte.IxDataVarintZero:
		fmt.Println("Varint Zero")
	case cte.IxDataULEB128:
		fmt.Printf("ULEB128, Value: %d\n", leU64(payload))
	case cte.IxDataSLEB128:
		fmt.Printf("SLEB128, Value: %d\n", int64(leU64(payload)))
	case cte.IxDataI8:
		fmt.Printf("int8, Value: %d\n", int8(payload[0]))
	case cte.IxDataI16:
		fmt.Printf("int16, Value: %d\n", int16(leU64(payload)))
	case cte.IxDataI32:
		fmt.Printf("int32, Value: %d\n", int32(leU64(payload)))
	case cte.IxDataI64:
		fmt.Printf("int64, Value: %d\n", int64(leU64(payload)))
	case cte.IxDataU8:
		fmt.Printf("uint8, Value: %d\n", payload[0])
	case cte.IxDataU16:
		fmt.Printf("uint16, Value: %d\n", uint16(leU64(payload)))
	case cte.IxDataU32:
		fmt.Printf("uint32, Value: %d\n", uint32(leU64(payload)))
	case cte.IxDataU64:
		fmt.Printf("uint64, Value: %d\n", leU64(payload))
	case cte.IxDataF32:
		fmt.Printf("float32, Value: %v\n", math.Float32frombits(uint32(leU64(payload))))
	case cte.IxDataF64:
		fmt.Printf("float64, Value: %v\n", math.Float64frombits(leU64(payload)))
	case cte.IxDataConstFalse, cte.IxDataConstTrue:
		fmt.Printf("bool, Value: %v\n", payload[0] != 0)
	case cte.VectorShort, cte.VectorExtended:
		fmt.Printf("Vector Data, Length: %d\n", len(payload))
	default:
		fmt.Println("unknown")
	}
	return nil
}

func leU64(b []byte) uint64 {
	var v uint64
	for i := len(b) - 1; i >= 0; i-- {
		v = v<<8 | uint64(b[i])
	}
	return v
}
