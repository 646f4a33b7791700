package launch

import (
	"fmt"
	"strconv"
	"strings"
)

// Version is the 5-tuple comparable form of a runtime version string:
// major, minor, update, patch, release phase. Phase 0 is a final
// release; negative values rank pre-releases (more negative = earlier).
type Version [5]int

// Release phase codes for recognized qualifiers.
const (
	phaseFinal = 0
	phaseRC    = -1
	phaseBeta  = -2
	phaseEA    = -3
)

var qualifierPhases = map[string]int{
	"rc":   phaseRC,
	"beta": phaseBeta,
	"ea":   phaseEA,
}

var phaseQualifiers = map[int]string{
	phaseRC:   "rc",
	phaseBeta: "beta",
	phaseEA:   "ea",
}

// ParseVersion parses "major.minor.update[_patch][-qualifier]" into a
// Version. A version carrying a qualifier always orders below the same
// numeric prefix without one.
func ParseVersion(s string) (Version, error) {
	var v Version
	rest := s

	if numeric, qualifier, ok := strings.Cut(rest, "-"); ok {
		phase, known := qualifierPhases[qualifier]
		if !known {
			return v, fmt.Errorf("unrecognized version qualifier %q in %q", qualifier, s)
		}
		v[4] = phase
		rest = numeric
	}

	if numeric, patch, ok := strings.Cut(rest, "_"); ok {
		p, err := strconv.Atoi(patch)
		if err != nil {
			return v, fmt.Errorf("invalid patch component in %q: %w", s, err)
		}
		v[3] = p
		rest = numeric
	}

	parts := strings.Split(rest, ".")
	if len(parts) > 3 {
		return v, fmt.Errorf("invalid version %q: too many components", s)
	}
	for i, part := range parts {
		n, err := strconv.Atoi(part)
		if err != nil {
			return v, fmt.Errorf("invalid version component %q in %q", part, s)
		}
		v[i] = n
	}
	return v, nil
}

// String renders the canonical form; for canonical inputs it is the
// exact inverse of ParseVersion.
func (v Version) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%d.%d.%d", v[0], v[1], v[2])
	if v[3] > 0 {
		fmt.Fprintf(&b, "_%d", v[3])
	}
	if q, ok := phaseQualifiers[v[4]]; ok {
		b.WriteByte('-')
		b.WriteString(q)
	}
	return b.String()
}

// Compare orders versions lexicographically across all five integers.
func (v Version) Compare(o Version) int {
	for i := range v {
		switch {
		case v[i] < o[i]:
			return -1
		case v[i] > o[i]:
			return 1
		}
	}
	return 0
}

// CompareVersions compares two version strings in 5-tuple order.
func CompareVersions(a, b string) (int, error) {
	va, err := ParseVersion(a)
	if err != nil {
		return 0, err
	}
	vb, err := ParseVersion(b)
	if err != nil {
		return 0, err
	}
	return va.Compare(vb), nil
}

// ShortVersion normalizes legacy short forms to the canonical
// three-component form: "8" and "1.8" both become "1.8.0".
func ShortVersion(s string) string {
	parts := strings.Split(s, ".")
	if len(parts) == 1 {
		s = "1." + s
		parts = strings.Split(s, ".")
	}
	if len(parts) == 2 {
		s += ".0"
	}
	return s
}
