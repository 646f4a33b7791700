package store

import (
	"database/sql"
	"io"
	"log/slog"
	"path/filepath"
	"testing"
	"time"
)

func testStore(t *testing.T) *Store {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	s, err := New(filepath.Join(t.TempDir(), "husk.db"), logger)
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func sampleLaunch(appID string, start time.Time) *Launch {
	return &Launch{
		AppID:       appID,
		AppVersion:  "1.0",
		ArchivePath: "/tmp/app.jar",
		CacheDir:    "/tmp/cache/" + appID,
		Extracted:   true,
		Command:     "/opt/jdk/bin/java -cp /tmp/cache com.example.Hello",
		Status:      "prepared",
		StartTime:   start,
	}
}

func TestCreateAndGetLaunch(t *testing.T) {
	s := testStore(t)

	l := sampleLaunch("hello_1.0", time.Now().UTC())
	if err := s.CreateLaunch(l); err != nil {
		t.Fatalf("CreateLaunch() error: %v", err)
	}
	if l.ID == 0 {
		t.Fatal("CreateLaunch() did not set ID")
	}

	got, err := s.GetLaunch(l.ID)
	if err != nil {
		t.Fatalf("GetLaunch() error: %v", err)
	}
	if got.AppID != l.AppID || got.Status != "prepared" || !got.Extracted {
		t.Errorf("GetLaunch() = %+v", got)
	}
	if got.ExitCode.Valid {
		t.Error("new launch has an exit code")
	}
	if got.EndTime.Valid {
		t.Error("new launch has an end time")
	}
}

func TestGetLaunchNotFound(t *testing.T) {
	s := testStore(t)
	if _, err := s.GetLaunch(12345); err == nil {
		t.Fatal("GetLaunch() on missing id succeeded")
	}
}

func TestUpdateLaunch(t *testing.T) {
	s := testStore(t)

	l := sampleLaunch("hello_1.0", time.Now().UTC())
	if err := s.CreateLaunch(l); err != nil {
		t.Fatal(err)
	}

	l.Status = "completed"
	l.ExitCode = sql.NullInt64{Int64: 0, Valid: true}
	l.EndTime = sql.NullTime{Time: time.Now().UTC(), Valid: true}
	if err := s.UpdateLaunch(l); err != nil {
		t.Fatalf("UpdateLaunch() error: %v", err)
	}

	got, err := s.GetLaunch(l.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != "completed" || !got.ExitCode.Valid || got.ExitCode.Int64 != 0 {
		t.Errorf("updated launch = %+v", got)
	}
	if !got.EndTime.Valid {
		t.Error("EndTime not persisted")
	}
}

func TestUpdateLaunchNotFound(t *testing.T) {
	s := testStore(t)

	l := sampleLaunch("ghost_1.0", time.Now().UTC())
	l.ID = 999
	if err := s.UpdateLaunch(l); err == nil {
		t.Fatal("UpdateLaunch() on missing id succeeded")
	}
}

func TestListLaunches(t *testing.T) {
	s := testStore(t)

	base := time.Date(2026, 8, 25, 10, 0, 0, 0, time.UTC)
	for i, appID := range []string{"alpha_1.0", "beta_2.0", "alpha_1.0"} {
		l := sampleLaunch(appID, base.Add(time.Duration(i)*time.Minute))
		if err := s.CreateLaunch(l); err != nil {
			t.Fatal(err)
		}
	}

	all, err := s.ListLaunches("", 0)
	if err != nil {
		t.Fatalf("ListLaunches() error: %v", err)
	}
	if len(all) != 3 {
		t.Fatalf("ListLaunches() returned %d, want 3", len(all))
	}
	// Newest first.
	if !all[0].StartTime.After(all[2].StartTime) {
		t.Errorf("launches not in reverse chronological order: %v then %v",
			all[0].StartTime, all[2].StartTime)
	}

	alphas, err := s.ListLaunches("alpha_1.0", 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(alphas) != 2 {
		t.Fatalf("filtered list returned %d, want 2", len(alphas))
	}
	for _, l := range alphas {
		if l.AppID != "alpha_1.0" {
			t.Errorf("filtered list contains %q", l.AppID)
		}
	}

	limited, err := s.ListLaunches("", 1)
	if err != nil {
		t.Fatal(err)
	}
	if len(limited) != 1 {
		t.Fatalf("limited list returned %d, want 1", len(limited))
	}
	if limited[0].AppID != "alpha_1.0" {
		t.Errorf("limited list returned %q, want newest launch", limited[0].AppID)
	}
}

func TestMigrationsIdempotent(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	dbPath := filepath.Join(t.TempDir(), "husk.db")

	s, err := New(dbPath, logger)
	if err != nil {
		t.Fatal(err)
	}
	l := sampleLaunch("hello_1.0", time.Now().UTC())
	if err := s.CreateLaunch(l); err != nil {
		t.Fatal(err)
	}
	if err := s.Close(); err != nil {
		t.Fatal(err)
	}

	// Reopening runs migrations again and must keep existing data.
	s2, err := New(dbPath, logger)
	if err != nil {
		t.Fatalf("reopen error: %v", err)
	}
	defer s2.Close()

	got, err := s2.GetLaunch(l.ID)
	if err != nil {
		t.Fatalf("GetLaunch() after reopen error: %v", err)
	}
	if got.AppID != "hello_1.0" {
		t.Errorf("AppID = %q after reopen", got.AppID)
	}
}
