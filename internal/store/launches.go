package store

import (
	"database/sql"
	"fmt"
	"time"
)

// Launch is one recorded application launch.
type Launch struct {
	ID           int64
	AppID        string
	AppVersion   string
	ArchivePath  string
	CacheDir     string
	Extracted    bool
	Command      string
	Status       string
	ExitCode     sql.NullInt64
	ErrorMessage string
	StartTime    time.Time
	EndTime      sql.NullTime
}

// CreateLaunch inserts a new Launch and sets its ID
func (s *Store) CreateLaunch(l *Launch) error {
	const query = `
		INSERT INTO launches (
			app_id, app_version, archive_path, cache_dir, extracted,
			command, status, exit_code, error_message, start_time, end_time
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	result, err := s.db.Exec(
		query,
		l.AppID, l.AppVersion, l.ArchivePath, l.CacheDir, l.Extracted,
		l.Command, l.Status, l.ExitCode, l.ErrorMessage, l.StartTime, l.EndTime,
	)
	if err != nil {
		return fmt.Errorf("failed to insert launch: %w", err)
	}

	id, err := result.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to get last insert id: %w", err)
	}

	l.ID = id
	return nil
}

// UpdateLaunch updates an existing Launch by ID
func (s *Store) UpdateLaunch(l *Launch) error {
	const query = `
		UPDATE launches SET
			app_id = ?, app_version = ?, archive_path = ?, cache_dir = ?,
			extracted = ?, command = ?, status = ?, exit_code = ?,
			error_message = ?, start_time = ?, end_time = ?
		WHERE id = ?
	`

	result, err := s.db.Exec(
		query,
		l.AppID, l.AppVersion, l.ArchivePath, l.CacheDir, l.Extracted,
		l.Command, l.Status, l.ExitCode, l.ErrorMessage, l.StartTime, l.EndTime,
		l.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update launch: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("launch not found: %d", l.ID)
	}

	return nil
}

// GetLaunch retrieves a Launch by ID
func (s *Store) GetLaunch(id int64) (*Launch, error) {
	const query = `
		SELECT id, app_id, app_version, archive_path, cache_dir, extracted,
			command, status, exit_code, error_message, start_time, end_time
		FROM launches WHERE id = ?
	`

	l := &Launch{}
	err := s.db.QueryRow(query, id).Scan(
		&l.ID, &l.AppID, &l.AppVersion, &l.ArchivePath, &l.CacheDir, &l.Extracted,
		&l.Command, &l.Status, &l.ExitCode, &l.ErrorMessage, &l.StartTime, &l.EndTime,
	)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("launch not found: %d", id)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get launch: %w", err)
	}

	return l, nil
}

// ListLaunches returns launches in reverse chronological order,
// optionally filtered by app id. limit <= 0 means no limit.
func (s *Store) ListLaunches(appID string, limit int) ([]*Launch, error) {
	query := `
		SELECT id, app_id, app_version, archive_path, cache_dir, extracted,
			command, status, exit_code, error_message, start_time, end_time
		FROM launches
	`
	var args []any
	if appID != "" {
		query += " WHERE app_id = ?"
		args = append(args, appID)
	}
	query += " ORDER BY start_time DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.Query(query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list launches: %w", err)
	}
	defer rows.Close()

	var launches []*Launch
	for rows.Next() {
		l := &Launch{}
		if err := rows.Scan(
			&l.ID, &l.AppID, &l.AppVersion, &l.ArchivePath, &l.CacheDir, &l.Extracted,
			&l.Command, &l.Status, &l.ExitCode, &l.ErrorMessage, &l.StartTime, &l.EndTime,
		); err != nil {
			return nil, fmt.Errorf("failed to scan launch: %w", err)
		}
		launches = append(launches, l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate launches: %w", err)
	}

	return launches, nil
}
