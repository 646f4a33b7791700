package archive

import (
	"bufio"
	"fmt"
	"io"
	"strings"
)

// ManifestPath is the well-known entry holding launch metadata.
const ManifestPath = "META-INF/MANIFEST.MF"

// Manifest is an ordered, immutable key/value mapping parsed from the
// archive's metadata entry. Key order is preserved from the file.
type Manifest struct {
	keys   []string
	values map[string]string
}

// ParseManifest reads line-oriented "Key: value" pairs. Blank lines
// are ignored; a later duplicate key overwrites the earlier value but
// keeps the original position.
func ParseManifest(r io.Reader) (*Manifest, error) {
	m := &Manifest{values: make(map[string]string)}
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		line := strings.TrimRight(sc.Text(), "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		key, value, ok := strings.Cut(line, ":")
		if !ok {
			return nil, fmt.Errorf("malformed manifest line %q", line)
		}
		key = strings.TrimSpace(key)
		if _, seen := m.values[key]; !seen {
			m.keys = append(m.keys, key)
		}
		m.values[key] = strings.TrimSpace(value)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	return m, nil
}

// Get returns the value for key, or "" when absent.
func (m *Manifest) Get(key string) string { return m.values[key] }

// Has reports whether key is present.
func (m *Manifest) Has(key string) bool {
	_, ok := m.values[key]
	return ok
}

// Keys returns the manifest keys in file order. The returned slice is
// a copy.
func (m *Manifest) Keys() []string {
	out := make([]string, len(m.keys))
	copy(out, m.keys)
	return out
}

// Len returns the number of distinct keys.
func (m *Manifest) Len() int { return len(m.keys) }
