package scan

import (
	"bytes"
	"errors"
	"io"
	"strings"
	"testing"
)

var sig = []byte{0x50, 0x4B, 0x03, 0x04}

func TestFindArchiveAtStreamStart(t *testing.T) {
	payload := append(append([]byte{}, sig...), []byte("entry-data")...)

	r, err := FindArchive(bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("FindArchive() error: %v", err)
	}

	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("positioned stream = %q, want %q", got, payload)
	}
}

func TestFindArchiveSkipsScriptPrefix(t *testing.T) {
	tests := []struct {
		name   string
		prefix string
	}{
		{"shell script", "#!/bin/sh\nexec husk run \"$0\" \"$@\"\n"},
		{"single newline", "\n"},
		{"nul terminated stub", "BINARYSTUB\x00"},
		{"multi line", "line one\nline two\n\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			payload := append(append([]byte{}, sig...), []byte("rest")...)
			stream := append([]byte(tt.prefix), payload...)

			r, err := FindArchive(bytes.NewReader(stream))
			if err != nil {
				t.Fatalf("FindArchive() error: %v", err)
			}
			got, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(got, payload) {
				t.Errorf("positioned stream = %q, want %q", got, payload)
			}
		})
	}
}

func TestFindArchiveNoSignature(t *testing.T) {
	_, err := FindArchive(strings.NewReader("just a plain text file\nno archive here\n"))
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("error = %v, want ErrInvalidArchive", err)
	}
}

func TestFindArchiveEmptyStream(t *testing.T) {
	_, err := FindArchive(strings.NewReader(""))
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("error = %v, want ErrInvalidArchive", err)
	}
}

// A signature that appears mid-line, without a preceding line
// boundary, is deliberately not found: match attempts only start at
// stream start or after a newline/NUL.
func TestFindArchiveIgnoresMidLineSignature(t *testing.T) {
	stream := append([]byte("prefix-without-boundary"), sig...)

	_, err := FindArchive(bytes.NewReader(stream))
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("error = %v, want ErrInvalidArchive", err)
	}
}

// A partial signature match that ends in a line boundary re-enables
// matching immediately after.
func TestFindArchiveRecoversFromPartialMatch(t *testing.T) {
	stream := []byte{0x50, 0x4B, 0x03, '\n'}
	stream = append(stream, sig...)

	r, err := FindArchive(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("FindArchive() error: %v", err)
	}
	got := make([]byte, 4)
	if _, err := io.ReadFull(r, got); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, sig) {
		t.Errorf("stream head = %v, want signature", got)
	}
}

// Readers without their own ReadByte are wrapped internally.
func TestFindArchivePlainReader(t *testing.T) {
	payload := append(append([]byte{}, sig...), []byte("tail")...)
	stream := append([]byte("#!/bin/true\n"), payload...)

	r, err := FindArchive(onlyReader{bytes.NewReader(stream)})
	if err != nil {
		t.Fatalf("FindArchive() error: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, payload) {
		t.Errorf("positioned stream = %q, want %q", got, payload)
	}
}

// onlyReader hides every method except Read.
type onlyReader struct {
	r io.Reader
}

func (o onlyReader) Read(p []byte) (int, error) { return o.r.Read(p) }
