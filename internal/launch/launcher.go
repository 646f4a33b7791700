// Package launch orchestrates a single application launch: locate the
// archive, read its metadata, resolve dependencies, extract the
// payload into the cache exactly once, and assemble the child-process
// command line. Any failure aborts the whole launch; no step retries.
package launch

import (
	"context"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/huskpkg/husk/internal/archive"
	"github.com/huskpkg/husk/internal/config"
	"github.com/huskpkg/husk/internal/depstr"
	"github.com/huskpkg/husk/internal/safety"
	"github.com/huskpkg/husk/internal/store"
)

// Recognized manifest attributes.
const (
	AttrApplicationClass   = "Application-Class"
	AttrApplicationName    = "Application-Name"
	AttrApplicationVersion = "Application-Version"
	AttrSystemProperties   = "System-Properties"
	AttrDependencies       = "Dependencies"
	AttrRepositories       = "Repositories"
	AttrMinRuntimeVersion  = "Min-Runtime-Version"
)

// System properties injected into every child process.
const (
	PropAppID  = "husk.app.id"
	PropAppDir = "husk.app.dir"
)

// MarkerFile signals that a cache directory has been fully extracted.
// Its presence is an idempotence guard, not a lock: two processes
// racing on first extraction may both extract, with identical results.
const MarkerFile = ".extracted"

// Phase names the steps of one launch, in order.
type Phase int

const (
	PhaseLocated Phase = iota + 1
	PhaseMetadataRead
	PhaseDependenciesResolved
	PhaseExtracted
	PhaseCommandAssembled
)

func (p Phase) String() string {
	switch p {
	case PhaseLocated:
		return "located"
	case PhaseMetadataRead:
		return "metadata-read"
	case PhaseDependenciesResolved:
		return "dependencies-resolved"
	case PhaseExtracted:
		return "extracted"
	case PhaseCommandAssembled:
		return "command-assembled"
	default:
		return fmt.Sprintf("phase(%d)", int(p))
	}
}

// Launcher drives launches against one configuration. The store is
// optional; with a nil store launches are simply not recorded.
type Launcher struct {
	cfg    *config.Config
	store  *store.Store
	res    Resolver
	logger *slog.Logger
}

// New creates a Launcher.
func New(cfg *config.Config, st *store.Store, res Resolver, logger *slog.Logger) *Launcher {
	if logger == nil {
		logger = slog.Default()
	}
	if res == nil {
		res = NullResolver{}
	}
	return &Launcher{cfg: cfg, store: st, res: res, logger: logger}
}

// Options configures one launch.
type Options struct {
	ArchivePath string
	Args        []string   // forwarded to the application verbatim
	Props       []Property // command-line -D overrides
}

// Result is the assembled launch, ready for process creation.
type Result struct {
	AppID      string
	AppVersion string
	EntryPoint string
	CacheDir   string
	Command    []string
	Extracted  bool // false when the cache marker short-circuited extraction
	RecordID   int64
}

// Prepare runs the full launch sequence up to command assembly. It
// performs no process creation; the returned command line is a
// one-shot handoff for the caller.
func (l *Launcher) Prepare(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()

	a, err := archive.NewFromFile(opts.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("locating archive in %s: %w", opts.ArchivePath, err)
	}
	l.logger.Debug("launch phase complete", "phase", PhaseLocated, "archive", a.Path())

	m := a.Manifest()
	entryPoint := m.Get(AttrApplicationClass)
	if entryPoint == "" {
		return nil, fmt.Errorf("manifest has no %s attribute", AttrApplicationClass)
	}
	if err := l.checkRuntimeVersion(m); err != nil {
		return nil, err
	}
	appVersion := m.Get(AttrApplicationVersion)
	appID := applicationID(m, entryPoint)
	l.logger.Debug("launch phase complete", "phase", PhaseMetadataRead, "app_id", appID)

	deps := depstr.ParseList(m.Get(AttrDependencies))
	repos := depstr.ParseRepositoryList(m.Get(AttrRepositories))
	artifactPaths, err := l.res.Resolve(ctx, deps, repos)
	if err != nil {
		return nil, fmt.Errorf("resolving dependencies: %w", err)
	}
	l.logger.Debug("launch phase complete", "phase", PhaseDependenciesResolved,
		"declared", len(deps), "artifacts", len(artifactPaths))

	cacheDir := filepath.Join(l.cfg.CacheRoot, "apps", appID)
	didExtract, err := l.ensureExtracted(ctx, a, cacheDir)
	if err != nil {
		return nil, fmt.Errorf("extracting to cache: %w", err)
	}
	l.logger.Debug("launch phase complete", "phase", PhaseExtracted,
		"cache_dir", cacheDir, "extracted", didExtract)

	classpath, err := buildClasspath(cacheDir, artifactPaths)
	if err != nil {
		return nil, fmt.Errorf("assembling classpath: %w", err)
	}

	runtimeBin := l.cfg.Runtime.Path
	if runtimeBin == "" {
		runtimeBin = "java"
	}

	command := []string{
		runtimeBin,
		"-D" + PropAppID + "=" + appID,
		"-D" + PropAppDir + "=" + cacheDir,
	}
	merged := MergeProps(ParseDeclaredProps(m.Get(AttrSystemProperties)), opts.Props)
	for _, p := range merged {
		command = append(command, p.Flag())
	}
	command = append(command, "-cp", classpath, entryPoint)
	command = append(command, opts.Args...)
	l.logger.Info("launch prepared", "phase", PhaseCommandAssembled,
		"app_id", appID, "runtime", runtimeBin, "args", len(opts.Args))

	res := &Result{
		AppID:      appID,
		AppVersion: appVersion,
		EntryPoint: entryPoint,
		CacheDir:   cacheDir,
		Command:    command,
		Extracted:  didExtract,
	}

	if l.store != nil {
		rec := &store.Launch{
			AppID:       appID,
			AppVersion:  appVersion,
			ArchivePath: a.Path(),
			CacheDir:    cacheDir,
			Extracted:   didExtract,
			Command:     strings.Join(command, " "),
			Status:      "prepared",
			StartTime:   start,
		}
		if err := l.store.CreateLaunch(rec); err != nil {
			l.logger.Warn("failed to record launch", "error", err)
		} else {
			res.RecordID = rec.ID
		}
	}

	return res, nil
}

// Finish updates the launch record after the child process has ended.
// A nil store or zero record id makes it a no-op.
func (l *Launcher) Finish(recordID int64, exitCode int, launchErr error) {
	if l.store == nil || recordID == 0 {
		return
	}
	rec, err := l.store.GetLaunch(recordID)
	if err != nil {
		l.logger.Warn("failed to load launch record", "id", recordID, "error", err)
		return
	}
	rec.Status = "completed"
	if launchErr != nil {
		rec.Status = "failed"
		rec.ErrorMessage = launchErr.Error()
	}
	rec.ExitCode.Int64 = int64(exitCode)
	rec.ExitCode.Valid = true
	rec.EndTime.Time = time.Now()
	rec.EndTime.Valid = true
	if err := l.store.UpdateLaunch(rec); err != nil {
		l.logger.Warn("failed to update launch record", "id", recordID, "error", err)
	}
}

func (l *Launcher) checkRuntimeVersion(m *archive.Manifest) error {
	min := m.Get(AttrMinRuntimeVersion)
	if min == "" || l.cfg.Runtime.Version == "" {
		return nil
	}
	cmp, err := CompareVersions(ShortVersion(l.cfg.Runtime.Version), ShortVersion(min))
	if err != nil {
		return fmt.Errorf("comparing runtime versions: %w", err)
	}
	if cmp < 0 {
		return fmt.Errorf("runtime %s is older than required %s", l.cfg.Runtime.Version, min)
	}
	return nil
}

// applicationID derives the cache identity: declared name or entry
// point, suffixed with the version when one is declared.
func applicationID(m *archive.Manifest, entryPoint string) string {
	name := m.Get(AttrApplicationName)
	if name == "" {
		name = entryPoint
	}
	if v := m.Get(AttrApplicationVersion); v != "" {
		return name + "_" + v
	}
	return name
}

// ensureExtracted extracts the archive payload into cacheDir unless
// the marker file already exists. The manifest entry is not extracted.
func (l *Launcher) ensureExtracted(ctx context.Context, a *archive.Archive, cacheDir string) (bool, error) {
	marker := filepath.Join(cacheDir, MarkerFile)
	if _, err := os.Stat(marker); err == nil {
		l.logger.Debug("cache already extracted", "dir", cacheDir)
		return false, nil
	}

	if err := os.MkdirAll(cacheDir, 0o755); err != nil {
		return false, fmt.Errorf("creating cache directory: %w", err)
	}

	err := a.Walk(func(e *archive.Entry, r io.Reader) error {
		if err := ctx.Err(); err != nil {
			return err
		}
		if strings.EqualFold(e.Name, archive.ManifestPath) {
			return nil
		}

		destPath, err := safety.SafeJoinUnder(cacheDir, e.Name)
		if err != nil {
			return fmt.Errorf("unsafe path in archive %q: %w", e.Name, err)
		}

		if e.IsDir() {
			return os.MkdirAll(destPath, 0o755)
		}

		if err := os.MkdirAll(filepath.Dir(destPath), 0o755); err != nil {
			return fmt.Errorf("creating directory: %w", err)
		}
		outFile, err := os.Create(destPath)
		if err != nil {
			return fmt.Errorf("creating file %s: %w", destPath, err)
		}
		_, err = io.Copy(outFile, r)
		if closeErr := outFile.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("extracting %s: %w", e.Name, err)
		}
		return nil
	})
	if err != nil {
		return false, err
	}

	if err := os.WriteFile(marker, nil, 0o644); err != nil {
		return false, fmt.Errorf("writing cache marker: %w", err)
	}
	return true, nil
}

// buildClasspath lists the cache dir itself, every extracted .jar in
// sorted walk order, then the resolver's artifact paths.
func buildClasspath(cacheDir string, artifactPaths []string) (string, error) {
	elements := []string{cacheDir}
	err := filepath.WalkDir(cacheDir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() && strings.HasSuffix(strings.ToLower(d.Name()), ".jar") {
			elements = append(elements, path)
		}
		return nil
	})
	if err != nil {
		return "", err
	}
	elements = append(elements, artifactPaths...)
	return strings.Join(elements, string(os.PathListSeparator)), nil
}
