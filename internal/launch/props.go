package launch

import "strings"

// Property is one system property for the child process. An empty
// Value with HasValue=false renders as a bare flag ("-Dname").
type Property struct {
	Name     string
	Value    string
	HasValue bool
}

// Flag renders the property as a -D argument.
func (p Property) Flag() string {
	if p.HasValue {
		return "-D" + p.Name + "=" + p.Value
	}
	return "-D" + p.Name
}

// ParseProperty parses a single "name[=value]" token.
func ParseProperty(tok string) Property {
	name, value, ok := strings.Cut(tok, "=")
	return Property{Name: name, Value: value, HasValue: ok}
}

// ParseDeclaredProps parses a manifest System-Properties declaration:
// space-separated tokens, each a bare flag name or name=value.
func ParseDeclaredProps(s string) []Property {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	props := make([]Property, 0, len(fields))
	for _, f := range fields {
		props = append(props, ParseProperty(f))
	}
	return props
}

// MergeProps combines declared properties with command-line supplied
// ones. A command-line property suppresses a declared property of the
// same name entirely; no name appears twice. Command-line properties
// keep their given order and come first, followed by unmatched
// declared properties in declaration order.
func MergeProps(declared, cmdline []Property) []Property {
	overridden := make(map[string]bool, len(cmdline))
	merged := make([]Property, 0, len(declared)+len(cmdline))
	for _, p := range cmdline {
		if overridden[p.Name] {
			continue
		}
		overridden[p.Name] = true
		merged = append(merged, p)
	}
	for _, p := range declared {
		if overridden[p.Name] {
			continue
		}
		merged = append(merged, p)
	}
	return merged
}
