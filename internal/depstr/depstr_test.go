package depstr

import "testing"

func TestDependencyString(t *testing.T) {
	tests := []struct {
		name string
		dep  Dependency
		want string
	}{
		{
			"no exclusions symbolic version",
			Dependency{Group: "g", Artifact: "a", Version: "LATEST"},
			"g:a:LATEST",
		},
		{
			"one exclusion with explicit artifact",
			Dependency{
				Group: "g", Artifact: "a", Version: "[2.23.0)",
				Exclusions: []Exclusion{{Group: "x", Artifact: "1.0.0"}},
			},
			"g:a:[2.23.0)(x:1.0.0)",
		},
		{
			"exclusion with explicit wildcard artifact",
			Dependency{
				Group: "g", Artifact: "a", Version: "1.0",
				Exclusions: []Exclusion{{Group: "x", Artifact: "*"}},
			},
			"g:a:1.0(x:*)",
		},
		{
			"exclusion with unspecified artifact",
			Dependency{
				Group: "g", Artifact: "a", Version: "1.0",
				Exclusions: []Exclusion{{Group: "x"}},
			},
			"g:a:1.0(x:*)",
		},
		{
			"two exclusions keep insertion order",
			Dependency{
				Group: "g", Artifact: "a", Version: "1.0",
				Exclusions: []Exclusion{
					{Group: "zz", Artifact: "b"},
					{Group: "aa"},
				},
			},
			"g:a:1.0(zz:b,aa:*)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.dep.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestExclusionStringWildcard(t *testing.T) {
	if got := (Exclusion{Group: "x", Artifact: "*"}).String(); got != "x:*" {
		t.Errorf("explicit wildcard = %q, want %q", got, "x:*")
	}
	if got := (Exclusion{Group: "x"}).String(); got != "x:*" {
		t.Errorf("unspecified artifact = %q, want %q", got, "x:*")
	}
}

func TestRepositoryString(t *testing.T) {
	tests := []struct {
		name string
		repo Repository
		want string
	}{
		{"id only", Repository{ID: "central"}, "central"},
		{"url only", Repository{URL: "https://repo.example.com/maven2"}, "https://repo.example.com/maven2"},
		{"id takes precedence", Repository{ID: "central", URL: "https://repo.example.com"}, "central"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.repo.String(); got != tt.want {
				t.Errorf("String() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestParseDependencyRoundTrip(t *testing.T) {
	inputs := []string{
		"g:a:LATEST",
		"g:a:[2.23.0)(x:1.0.0)",
		"g:a:1.0(x:*)",
		"com.example:lib:2.1.3(org.dep:core,other:*)",
	}

	for _, in := range inputs {
		t.Run(in, func(t *testing.T) {
			if got := ParseDependency(in).String(); got != in {
				t.Errorf("round trip = %q, want %q", got, in)
			}
		})
	}
}

func TestParseRepository(t *testing.T) {
	r := ParseRepository("central")
	if r.ID != "central" || r.URL != "" {
		t.Errorf("bare token parsed as %+v, want id", r)
	}
	r = ParseRepository("https://repo.example.com/maven2")
	if r.URL == "" || r.ID != "" {
		t.Errorf("url parsed as %+v, want URL", r)
	}
}

func TestParseList(t *testing.T) {
	deps := ParseList("g:a:1.0 g:b:LATEST(x:*)")
	if len(deps) != 2 {
		t.Fatalf("len = %d, want 2", len(deps))
	}
	if deps[0].Artifact != "a" || deps[1].Artifact != "b" {
		t.Errorf("unexpected artifacts: %+v", deps)
	}
	if len(deps[1].Exclusions) != 1 {
		t.Errorf("second dependency exclusions = %+v, want 1", deps[1].Exclusions)
	}

	if got := ParseList("   "); got != nil {
		t.Errorf("blank declaration = %+v, want nil", got)
	}
}
