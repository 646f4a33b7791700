// Package archive serves named entries directly from zip archive
// bytes, without extracting to disk. An Archive is backed either by an
// in-memory buffer it owns or by a file path it holds a reference to;
// every lookup opens a fresh decompressing pass over the source, so
// concurrent lookups share no cursor state.
package archive

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/huskpkg/husk/internal/scan"
)

// ErrIsDirectory is returned when byte content is requested for a name
// that resolves to a directory entry.
var ErrIsDirectory = errors.New("entry is a directory")

// Archive is a read-only view over a polyglot zip source. The manifest
// is parsed once at construction and immutable afterwards.
type Archive struct {
	path     string // non-empty for file-backed archives
	data     []byte // non-nil for memory-backed archives
	manifest *Manifest
}

// NewFromBytes creates a memory-backed Archive. The buffer is owned by
// the archive; callers must not modify it afterwards.
func NewFromBytes(data []byte) (*Archive, error) {
	a := &Archive{data: data}
	if err := a.loadManifest(); err != nil {
		return nil, err
	}
	return a, nil
}

// NewFromFile creates a file-backed Archive. Only the path is held;
// bytes are re-read from disk on every pass.
func NewFromFile(path string) (*Archive, error) {
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolving archive path: %w", err)
	}
	a := &Archive{path: abs}
	if err := a.loadManifest(); err != nil {
		return nil, err
	}
	return a, nil
}

// Path returns the backing file path, or "" for memory-backed archives.
func (a *Archive) Path() string { return a.path }

// Manifest returns the archive's parsed metadata. Never nil; archives
// without a manifest entry get an empty one.
func (a *Archive) Manifest() *Manifest { return a.manifest }

func (a *Archive) loadManifest() error {
	data, found, err := a.ReadEntry(ManifestPath)
	if err != nil {
		return fmt.Errorf("reading manifest entry: %w", err)
	}
	if !found {
		a.manifest = &Manifest{values: make(map[string]string)}
		return nil
	}
	m, err := ParseManifest(bytes.NewReader(data))
	if err != nil {
		return err
	}
	a.manifest = m
	return nil
}

// openPass opens a new Reader positioned at the first entry, scanning
// past any executable prefix.
func (a *Archive) openPass() (*Reader, io.Closer, error) {
	var (
		raw    io.Reader
		closer io.Closer
	)
	if a.data != nil {
		raw = bytes.NewReader(a.data)
	} else {
		f, err := os.Open(a.path)
		if err != nil {
			return nil, nil, fmt.Errorf("opening archive: %w", err)
		}
		raw = f
		closer = f
	}

	positioned, err := scan.FindArchive(raw)
	if err != nil {
		if closer != nil {
			_ = closer.Close()
		}
		return nil, nil, err
	}
	return NewReader(positioned), closer, nil
}

// ReadEntry returns the decompressed bytes of the named entry. The
// lookup is case-insensitive on the exact name. A missing entry is a
// normal outcome and reported via found=false, not an error; a name
// that resolves to a directory entry fails with ErrIsDirectory.
func (a *Archive) ReadEntry(name string) (data []byte, found bool, err error) {
	zr, closer, err := a.openPass()
	if err != nil {
		return nil, false, err
	}
	if closer != nil {
		defer func() {
			if cerr := closer.Close(); cerr != nil && err == nil {
				err = fmt.Errorf("closing archive: %w", cerr)
			}
		}()
	}

	for {
		e, nerr := zr.Next()
		if nerr == io.EOF {
			return nil, false, nil
		}
		if nerr != nil {
			return nil, false, nerr
		}
		if !nameMatches(e.Name, name) {
			continue
		}
		if e.IsDir() {
			return nil, true, fmt.Errorf("%q: %w", e.Name, ErrIsDirectory)
		}
		buf, rerr := io.ReadAll(zr)
		if rerr != nil {
			return nil, true, fmt.Errorf("reading entry %q: %w", e.Name, rerr)
		}
		return buf, true, nil
	}
}

// StatEntry reports whether the named entry exists, without reading
// its content. Directory entries are reported as found.
func (a *Archive) StatEntry(name string) (*Entry, bool, error) {
	zr, closer, err := a.openPass()
	if err != nil {
		return nil, false, err
	}
	if closer != nil {
		defer closer.Close()
	}

	for {
		e, nerr := zr.Next()
		if nerr == io.EOF {
			return nil, false, nil
		}
		if nerr != nil {
			return nil, false, nerr
		}
		if nameMatches(e.Name, name) {
			return e, true, nil
		}
	}
}

// Entries lists all entries in archive order. Each call is an
// independent pass over the source.
func (a *Archive) Entries() ([]*Entry, error) {
	zr, closer, err := a.openPass()
	if err != nil {
		return nil, err
	}
	if closer != nil {
		defer closer.Close()
	}

	var out []*Entry
	for {
		e, nerr := zr.Next()
		if nerr == io.EOF {
			return out, nil
		}
		if nerr != nil {
			return nil, nerr
		}
		// Drain so descriptor-carrying entries report real sizes.
		if _, derr := io.Copy(io.Discard, zr); derr != nil {
			return nil, fmt.Errorf("reading entry %q: %w", e.Name, derr)
		}
		out = append(out, e)
	}
}

// Walk runs fn over every entry in archive order, passing a reader
// for the entry's decompressed content. Returning an error from fn
// aborts the walk.
func (a *Archive) Walk(fn func(e *Entry, r io.Reader) error) error {
	zr, closer, err := a.openPass()
	if err != nil {
		return err
	}
	if closer != nil {
		defer closer.Close()
	}

	for {
		e, nerr := zr.Next()
		if nerr == io.EOF {
			return nil
		}
		if nerr != nil {
			return nerr
		}
		if err := fn(e, zr); err != nil {
			return err
		}
	}
}

func nameMatches(entryName, lookup string) bool {
	return strings.EqualFold(strings.TrimPrefix(entryName, "/"), strings.TrimPrefix(lookup, "/"))
}
