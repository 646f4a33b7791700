// Package scan locates the start of zip archive data inside a byte
// stream that may carry an arbitrary executable prefix (a "polyglot"
// file: shell script or binary stub followed by a valid archive).
package scan

import (
	"bufio"
	"bytes"
	"errors"
	"fmt"
	"io"
)

// ErrInvalidArchive is returned when a stream ends without a local
// file header signature anywhere after a line boundary.
var ErrInvalidArchive = errors.New("invalid archive: no zip signature found")

// signature is the zip local file header magic.
var signature = [4]byte{0x50, 0x4B, 0x03, 0x04}

// FindArchive consumes r up to the first local file header signature
// and returns a reader positioned exactly at the signature's first
// byte (the four matched bytes are replayed ahead of the rest of r).
//
// A match attempt only ever starts at the beginning of the stream or
// immediately after a line-boundary byte (newline or NUL). A signature
// that appears mid-line inside the prefix is therefore not found; the
// prefix is expected to end at a line boundary.
func FindArchive(r io.Reader) (io.Reader, error) {
	src := r
	if _, ok := r.(io.ByteReader); !ok {
		src = bufio.NewReader(r)
	}
	br := src.(io.ByteReader)

	// state counts consecutive matched signature bytes; -1 means a
	// match cannot start until the next line boundary.
	state := 0
	for {
		b, err := br.ReadByte()
		if err == io.EOF {
			return nil, ErrInvalidArchive
		}
		if err != nil {
			return nil, fmt.Errorf("scanning for archive start: %w", err)
		}

		switch {
		case state >= 0 && b == signature[state]:
			state++
			if state == len(signature) {
				return io.MultiReader(bytes.NewReader(signature[:]), src), nil
			}
		case b == '\n' || b == 0x00:
			state = 0
		default:
			state = -1
		}
	}
}
