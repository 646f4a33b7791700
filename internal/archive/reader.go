package archive

import (
	"encoding/binary"
	"fmt"
	"io"
	"strings"

	"github.com/klauspost/compress/flate"
)

// Zip record signatures (little-endian values of the 4-byte magics).
const (
	localHeaderSig = 0x04034b50
	centralDirSig  = 0x02014b50
	endOfDirSig    = 0x06054b50
	descriptorSig  = 0x08074b50
)

// Compression methods.
const (
	MethodStore   uint16 = 0
	MethodDeflate uint16 = 8
)

const flagDescriptor = 0x8

// Entry describes one archive entry as read from its local file header.
// Sizes and CRC are zero for entries written with a trailing data
// descriptor; they are filled in once the entry has been fully read.
type Entry struct {
	Name             string
	Method           uint16
	Flags            uint16
	CRC32            uint32
	CompressedSize   uint32
	UncompressedSize uint32
}

// IsDir reports whether the entry is a directory entry.
func (e *Entry) IsDir() bool { return strings.HasSuffix(e.Name, "/") }

func (e *Entry) hasDescriptor() bool { return e.Flags&flagDescriptor != 0 }

// Reader reads zip entries sequentially from a stream positioned at
// the first local file header. It mirrors archive/tar's Reader: Next
// advances to the following entry, Read returns the current entry's
// decompressed bytes. The stream is consumed exactly once; no central
// directory access and no seeking is required.
type Reader struct {
	src  *byteSource
	cur  *Entry
	data io.Reader // decompressed view of the current entry
	fr   io.ReadCloser
	err  error
}

// NewReader creates a Reader over r, which must be positioned at a
// local file header (see scan.FindArchive).
func NewReader(r io.Reader) *Reader {
	return &Reader{src: &byteSource{r: r}}
}

// Next advances to the next entry in the archive. It returns io.EOF
// when the central directory is reached (no further entries).
func (r *Reader) Next() (*Entry, error) {
	if r.err != nil {
		return nil, r.err
	}
	if r.cur != nil {
		if err := r.finishEntry(); err != nil {
			r.err = err
			return nil, err
		}
	}

	var sig [4]byte
	if _, err := io.ReadFull(r.src, sig[:]); err != nil {
		r.err = fmt.Errorf("reading entry header: %w", err)
		return nil, r.err
	}
	switch binary.LittleEndian.Uint32(sig[:]) {
	case centralDirSig, endOfDirSig:
		r.err = io.EOF
		return nil, io.EOF
	case localHeaderSig:
	default:
		r.err = fmt.Errorf("malformed archive: unexpected record signature %#x", binary.LittleEndian.Uint32(sig[:]))
		return nil, r.err
	}

	var hdr [26]byte
	if _, err := io.ReadFull(r.src, hdr[:]); err != nil {
		r.err = fmt.Errorf("reading local file header: %w", err)
		return nil, r.err
	}

	e := &Entry{
		Flags:            binary.LittleEndian.Uint16(hdr[2:4]),
		Method:           binary.LittleEndian.Uint16(hdr[4:6]),
		CRC32:            binary.LittleEndian.Uint32(hdr[10:14]),
		CompressedSize:   binary.LittleEndian.Uint32(hdr[14:18]),
		UncompressedSize: binary.LittleEndian.Uint32(hdr[18:22]),
	}
	nameLen := binary.LittleEndian.Uint16(hdr[22:24])
	extraLen := binary.LittleEndian.Uint16(hdr[24:26])

	name := make([]byte, nameLen)
	if _, err := io.ReadFull(r.src, name); err != nil {
		r.err = fmt.Errorf("reading entry name: %w", err)
		return nil, r.err
	}
	e.Name = string(name)
	if _, err := io.CopyN(io.Discard, r.src, int64(extraLen)); err != nil {
		r.err = fmt.Errorf("skipping extra field: %w", err)
		return nil, r.err
	}

	switch {
	case e.IsDir():
		r.data = strings.NewReader("")
	case e.Method == MethodStore:
		if e.hasDescriptor() && e.CompressedSize == 0 && e.UncompressedSize == 0 {
			r.err = fmt.Errorf("stored entry %q with trailing descriptor is not streamable", e.Name)
			return nil, r.err
		}
		r.data = io.LimitReader(r.src, int64(e.CompressedSize))
	case e.Method == MethodDeflate:
		r.fr = flate.NewReader(r.src)
		r.data = r.fr
	default:
		r.err = fmt.Errorf("unsupported compression method %d for %q", e.Method, e.Name)
		return nil, r.err
	}

	r.cur = e
	return e, nil
}

// Read returns decompressed bytes of the current entry, ending with
// io.EOF at the entry boundary.
func (r *Reader) Read(p []byte) (int, error) {
	if r.err != nil {
		return 0, r.err
	}
	if r.cur == nil {
		return 0, fmt.Errorf("no current entry: call Next first")
	}
	return r.data.Read(p)
}

// finishEntry drains the remainder of the current entry and consumes
// its data descriptor, leaving the source positioned at the next
// record signature.
func (r *Reader) finishEntry() error {
	if _, err := io.Copy(io.Discard, r.data); err != nil {
		return fmt.Errorf("draining entry %q: %w", r.cur.Name, err)
	}
	if r.fr != nil {
		if err := r.fr.Close(); err != nil {
			return fmt.Errorf("closing decompressor for %q: %w", r.cur.Name, err)
		}
		r.fr = nil
	}
	if r.cur.hasDescriptor() {
		if err := r.readDescriptor(r.cur); err != nil {
			return err
		}
	}
	r.cur = nil
	r.data = nil
	return nil
}

// readDescriptor consumes the data descriptor that follows a streamed
// entry. The leading signature word is optional per the format, so the
// first four bytes are either the signature or the CRC itself.
func (r *Reader) readDescriptor(e *Entry) error {
	var buf [16]byte
	if _, err := io.ReadFull(r.src, buf[:4]); err != nil {
		return fmt.Errorf("reading data descriptor: %w", err)
	}
	off := 0
	if binary.LittleEndian.Uint32(buf[:4]) == descriptorSig {
		if _, err := io.ReadFull(r.src, buf[4:16]); err != nil {
			return fmt.Errorf("reading data descriptor: %w", err)
		}
		off = 4
	} else {
		if _, err := io.ReadFull(r.src, buf[4:12]); err != nil {
			return fmt.Errorf("reading data descriptor: %w", err)
		}
	}
	e.CRC32 = binary.LittleEndian.Uint32(buf[off : off+4])
	e.CompressedSize = binary.LittleEndian.Uint32(buf[off+4 : off+8])
	e.UncompressedSize = binary.LittleEndian.Uint32(buf[off+8 : off+12])
	return nil
}

// byteSource adapts an io.Reader with a ReadByte method so the flate
// decompressor never reads past the end of a deflate stream, keeping
// the source position exact for the record that follows.
type byteSource struct {
	r   io.Reader
	one [1]byte
}

func (s *byteSource) Read(p []byte) (int, error) { return s.r.Read(p) }

func (s *byteSource) ReadByte() (byte, error) {
	for {
		n, err := s.r.Read(s.one[:])
		if n == 1 {
			return s.one[0], nil
		}
		if err != nil {
			return 0, err
		}
	}
}
