// Package depstr maps structured dependency and repository
// descriptors to and from their compact string forms. It is a pure
// formatter: descriptors are assumed structurally valid, coordinate
// well-formedness is the resolver's concern.
package depstr

import "strings"

// Exclusion marks a transitive dependency to omit. An empty or "*"
// Artifact matches every artifact in the group.
type Exclusion struct {
	Group    string
	Artifact string
}

// String renders the exclusion as "group:artifact", with "*" standing
// in for an unspecified artifact.
func (x Exclusion) String() string {
	artifact := x.Artifact
	if artifact == "" {
		artifact = "*"
	}
	return x.Group + ":" + artifact
}

// Dependency is one resolved or declared library requirement. Version
// holds an exact version, a range expression, or a symbolic keyword
// such as "LATEST" or "RELEASE"; the codec does not interpret it.
// Exclusion order is significant and preserved from input.
type Dependency struct {
	Group      string
	Artifact   string
	Version    string
	Classifier string
	Scope      string
	Exclusions []Exclusion
}

// String renders "group:artifact:version" followed by the exclusion
// list "(g:a,g:a,...)" when present, in insertion order.
func (d Dependency) String() string {
	var b strings.Builder
	b.WriteString(d.Group)
	b.WriteByte(':')
	b.WriteString(d.Artifact)
	b.WriteByte(':')
	b.WriteString(d.Version)
	if len(d.Exclusions) > 0 {
		b.WriteByte('(')
		for i, x := range d.Exclusions {
			if i > 0 {
				b.WriteByte(',')
			}
			b.WriteString(x.String())
		}
		b.WriteByte(')')
	}
	return b.String()
}

// Repository identifies an artifact source by symbolic id or raw URL.
// When both are set the id is primary.
type Repository struct {
	ID  string
	URL string
}

// String renders the symbolic id when present, else the raw URL.
func (r Repository) String() string {
	if r.ID != "" {
		return r.ID
	}
	return r.URL
}

// ParseDependency is the inverse of Dependency.String for well-formed
// inputs: "group:artifact:version[(excl,excl,...)]". No validation is
// performed beyond the shape needed to split the fields.
func ParseDependency(s string) Dependency {
	var d Dependency

	if open := strings.IndexByte(s, '('); open >= 0 {
		list := strings.TrimSuffix(s[open+1:], ")")
		for _, part := range strings.Split(list, ",") {
			d.Exclusions = append(d.Exclusions, parseExclusion(part))
		}
		s = s[:open]
	}

	parts := strings.SplitN(s, ":", 3)
	if len(parts) > 0 {
		d.Group = parts[0]
	}
	if len(parts) > 1 {
		d.Artifact = parts[1]
	}
	if len(parts) > 2 {
		d.Version = parts[2]
	}
	return d
}

func parseExclusion(s string) Exclusion {
	group, artifact, _ := strings.Cut(s, ":")
	if artifact == "*" {
		artifact = ""
	}
	return Exclusion{Group: group, Artifact: artifact}
}

// ParseRepository interprets a bare token as a symbolic id and
// anything with a scheme separator as a raw URL.
func ParseRepository(s string) Repository {
	if strings.Contains(s, "://") {
		return Repository{URL: s}
	}
	return Repository{ID: s}
}

// ParseList splits a whitespace-separated declaration of dependency
// strings, as found in manifest metadata.
func ParseList(s string) []Dependency {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	deps := make([]Dependency, 0, len(fields))
	for _, f := range fields {
		deps = append(deps, ParseDependency(f))
	}
	return deps
}

// ParseRepositoryList splits a whitespace-separated declaration of
// repository strings.
func ParseRepositoryList(s string) []Repository {
	fields := strings.Fields(s)
	if len(fields) == 0 {
		return nil
	}
	repos := make([]Repository, 0, len(fields))
	for _, f := range fields {
		repos = append(repos, ParseRepository(f))
	}
	return repos
}
