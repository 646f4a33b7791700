package launch

import "testing"

func TestParseDeclaredProps(t *testing.T) {
	props := ParseDeclaredProps("bar baz=33 foo=y")
	if len(props) != 3 {
		t.Fatalf("len = %d, want 3", len(props))
	}

	if props[0].Name != "bar" || props[0].HasValue {
		t.Errorf("props[0] = %+v, want bare flag bar", props[0])
	}
	if props[1].Name != "baz" || props[1].Value != "33" || !props[1].HasValue {
		t.Errorf("props[1] = %+v, want baz=33", props[1])
	}
	if props[2].Name != "foo" || props[2].Value != "y" {
		t.Errorf("props[2] = %+v, want foo=y", props[2])
	}

	if got := ParseDeclaredProps("  "); got != nil {
		t.Errorf("blank declaration = %+v, want nil", got)
	}
}

func TestPropertyFlag(t *testing.T) {
	if got := (Property{Name: "bar"}).Flag(); got != "-Dbar" {
		t.Errorf("bare flag = %q, want -Dbar", got)
	}
	if got := (Property{Name: "baz", Value: "33", HasValue: true}).Flag(); got != "-Dbaz=33" {
		t.Errorf("valued flag = %q, want -Dbaz=33", got)
	}
}

// Command-line properties win and suppress the declared value of the
// same name entirely; unmatched declared properties are kept.
func TestMergePropsPrecedence(t *testing.T) {
	declared := ParseDeclaredProps("bar baz=33 foo=y")
	cmdline := []Property{
		ParseProperty("foo=x"),
		ParseProperty("zzz"),
	}

	merged := MergeProps(declared, cmdline)

	flags := make([]string, 0, len(merged))
	for _, p := range merged {
		flags = append(flags, p.Flag())
	}

	want := map[string]bool{"-Dfoo=x": true, "-Dbar": true, "-Dzzz": true, "-Dbaz=33": true}
	if len(flags) != len(want) {
		t.Fatalf("merged flags = %v, want exactly %v", flags, want)
	}
	for _, f := range flags {
		if !want[f] {
			t.Errorf("unexpected flag %q in %v", f, flags)
		}
	}

	fooCount := 0
	for _, p := range merged {
		if p.Name == "foo" {
			fooCount++
			if p.Value != "x" {
				t.Errorf("foo = %q, want command-line value x", p.Value)
			}
		}
	}
	if fooCount != 1 {
		t.Errorf("foo appears %d times, want 1", fooCount)
	}
}

func TestMergePropsNoCmdline(t *testing.T) {
	declared := ParseDeclaredProps("a=1 b")
	merged := MergeProps(declared, nil)
	if len(merged) != 2 {
		t.Fatalf("len = %d, want 2", len(merged))
	}
	if merged[0].Flag() != "-Da=1" || merged[1].Flag() != "-Db" {
		t.Errorf("merged = %v", merged)
	}
}
