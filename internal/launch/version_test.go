package launch

import "testing"

func TestVersionRoundTrip(t *testing.T) {
	canonical := []string{
		"1.8.0",
		"1.8.0_30",
		"1.8.0-rc",
		"1.8.0_30-ea",
		"1.8.0-beta",
	}

	for _, in := range canonical {
		t.Run(in, func(t *testing.T) {
			v, err := ParseVersion(in)
			if err != nil {
				t.Fatalf("ParseVersion(%q) error: %v", in, err)
			}
			if got := v.String(); got != in {
				t.Errorf("round trip = %q, want %q", got, in)
			}
		})
	}
}

func TestParseVersionTuple(t *testing.T) {
	tests := []struct {
		in   string
		want Version
	}{
		{"1.8.0", Version{1, 8, 0, 0, 0}},
		{"1.8.0_30", Version{1, 8, 0, 30, 0}},
		{"1.8.0-rc", Version{1, 8, 0, 0, -1}},
		{"1.8.0-beta", Version{1, 8, 0, 0, -2}},
		{"1.8.0_30-ea", Version{1, 8, 0, 30, -3}},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			v, err := ParseVersion(tt.in)
			if err != nil {
				t.Fatalf("ParseVersion(%q) error: %v", tt.in, err)
			}
			if v != tt.want {
				t.Errorf("ParseVersion(%q) = %v, want %v", tt.in, v, tt.want)
			}
		})
	}
}

func TestParseVersionErrors(t *testing.T) {
	for _, in := range []string{"1.8.0-weird", "1.8.0_x", "a.b.c", "1.2.3.4"} {
		if _, err := ParseVersion(in); err == nil {
			t.Errorf("ParseVersion(%q) succeeded, want error", in)
		}
	}
}

func TestCompareVersions(t *testing.T) {
	tests := []struct {
		a, b string
		want int
	}{
		{"1.8.0_30-ea", "1.8.0_30", -1},
		{"1.8.0_30-ea", "1.8.0_20", 1},
		{"1.8.0-ea", "1.8.0_20", -1},
		{"1.8.0-ea", "1.8.0", -1},
		{"1.8.0-ea", "1.7.0", 1},
		{"1.8.0", "1.8.0", 0},
	}

	for _, tt := range tests {
		t.Run(tt.a+" vs "+tt.b, func(t *testing.T) {
			got, err := CompareVersions(tt.a, tt.b)
			if err != nil {
				t.Fatalf("CompareVersions error: %v", err)
			}
			if got != tt.want {
				t.Errorf("CompareVersions(%q, %q) = %d, want %d", tt.a, tt.b, got, tt.want)
			}
		})
	}
}

func TestShortVersion(t *testing.T) {
	for _, in := range []string{"8", "1.8", "1.8.0"} {
		if got := ShortVersion(in); got != "1.8.0" {
			t.Errorf("ShortVersion(%q) = %q, want %q", in, got, "1.8.0")
		}
	}
}
