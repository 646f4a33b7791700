package launch

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"

	"github.com/huskpkg/husk/internal/depstr"
)

// Resolver turns declared dependencies into local artifact paths for
// the classpath. Resolution strategy (and any network transport) is
// outside this package; the launcher only consumes the result.
type Resolver interface {
	Resolve(ctx context.Context, deps []depstr.Dependency, repos []depstr.Repository) ([]string, error)
}

// NullResolver resolves nothing and fails when dependencies are
// declared. It is the default when no local artifact directory is
// configured.
type NullResolver struct{}

// Resolve returns no paths; declared dependencies are an error.
func (NullResolver) Resolve(_ context.Context, deps []depstr.Dependency, _ []depstr.Repository) ([]string, error) {
	if len(deps) > 0 {
		return nil, fmt.Errorf("no resolver configured for %d declared dependencies (first: %s)", len(deps), deps[0])
	}
	return nil, nil
}

// DirResolver serves pre-fetched artifacts from a flat local
// directory, matching "<artifact>-<version>.jar".
type DirResolver struct {
	Dir    string
	Logger *slog.Logger
}

// Resolve maps each dependency to a file under Dir. Every declared
// dependency must be present; repositories are ignored (they describe
// where artifacts were fetched from, which already happened).
func (r DirResolver) Resolve(ctx context.Context, deps []depstr.Dependency, _ []depstr.Repository) ([]string, error) {
	logger := r.Logger
	if logger == nil {
		logger = slog.Default()
	}

	paths := make([]string, 0, len(deps))
	for _, d := range deps {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		name := fmt.Sprintf("%s-%s.jar", d.Artifact, d.Version)
		path := filepath.Join(r.Dir, name)
		if _, err := os.Stat(path); err != nil {
			return nil, fmt.Errorf("artifact %s not found in %s: %w", d, r.Dir, err)
		}
		logger.Debug("resolved dependency", "dependency", d.String(), "path", path)
		paths = append(paths, path)
	}
	return paths, nil
}
