package ledger

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "modernc.org/sqlite"
)

const (
	sqliteBusyCode          = 5
	busyRetryAttempts       = 5
	busyRetryInitialBackoff = 10 * time.Millisecond
	busyRetryMaxBackoff     = 200 * time.Millisecond
)

// Export is one file written for a photo.
type Export struct {
	ID         int64
	PhotoUUID  string
	Album      string
	DestDir    string
	Path       string
	Bytes      int64
	Original   bool
	RunID      string
	ExportedAt time.Time
}

// Store manages the export ledger backed by SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open creates or connects to the ledger at path and applies migrations.
func Open(ctx context.Context, path string) (*Store, error) {
	path = strings.TrimSpace(path)
	if path == "" {
		return nil, errors.New("ledger path required")
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create ledger dir: %w", err)
	}
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.ExecContext(ctx, pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.applyMigrations(ctx); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file path.
func (s *Store) Path() string { return s.path }

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Record stores the files written by one photo export.
func (s *Store) Record(ctx context.Context, exports ...Export) error {
	if len(exports) == 0 {
		return nil
	}
	return retryOnBusy(ctx, func() error {
		tx, err := s.db.BeginTx(ctx, nil)
		if err != nil {
			return fmt.Errorf("begin record tx: %w", err)
		}
		defer func() { _ = tx.Rollback() }()

		for _, e := range exports {
			if e.ExportedAt.IsZero() {
				e.ExportedAt = time.Now()
			}
			if _, err := tx.ExecContext(ctx,
				`INSERT INTO exports (photo_uuid, album, dest_dir, path, bytes, original, run_id, exported_at)
				 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
				e.PhotoUUID,
				nullableString(e.Album),
				filepath.Clean(e.DestDir),
				e.Path,
				e.Bytes,
				boolToInt(e.Original),
				nullableString(e.RunID),
				e.ExportedAt.UTC().Format(time.RFC3339Nano),
			); err != nil {
				return fmt.Errorf("insert export: %w", err)
			}
		}
		return tx.Commit()
	})
}

// Exported reports whether photoUUID was exported to destDir before.
func (s *Store) Exported(ctx context.Context, photoUUID, destDir string) (bool, error) {
	var count int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM exports WHERE photo_uuid = ? AND dest_dir = ?",
		photoUUID, filepath.Clean(destDir),
	).Scan(&count)
	if err != nil {
		return false, fmt.Errorf("query export: %w", err)
	}
	return count > 0, nil
}

// List returns the most recent exports, newest first. An empty destDir
// lists every destination; limit <= 0 returns all rows.
func (s *Store) List(ctx context.Context, destDir string, limit int) ([]Export, error) {
	query := `SELECT id, photo_uuid, album, dest_dir, path, bytes, original, run_id, exported_at FROM exports`
	var args []any
	if destDir != "" {
		query += " WHERE dest_dir = ?"
		args = append(args, filepath.Clean(destDir))
	}
	query += " ORDER BY exported_at DESC, id DESC"
	if limit > 0 {
		query += " LIMIT ?"
		args = append(args, limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list exports: %w", err)
	}
	defer rows.Close()

	var out []Export
	for rows.Next() {
		var (
			e          Export
			album      sql.NullString
			runID      sql.NullString
			original   int
			exportedAt string
		)
		if err := rows.Scan(&e.ID, &e.PhotoUUID, &album, &e.DestDir, &e.Path, &e.Bytes, &original, &runID, &exportedAt); err != nil {
			return nil, fmt.Errorf("scan export: %w", err)
		}
		e.Album = album.String
		e.RunID = runID.String
		e.Original = original != 0
		if e.ExportedAt, err = time.Parse(time.RFC3339Nano, exportedAt); err != nil {
			return nil, fmt.Errorf("parse exported_at: %w", err)
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// Forget removes the records for photoUUID in destDir so the next export
// writes it again. It returns the number of rows removed.
func (s *Store) Forget(ctx context.Context, photoUUID, destDir string) (int64, error) {
	var removed int64
	err := retryOnBusy(ctx, func() error {
		res, err := s.db.ExecContext(ctx,
			"DELETE FROM exports WHERE photo_uuid = ? AND dest_dir = ?",
			photoUUID, filepath.Clean(destDir),
		)
		if err != nil {
			return err
		}
		removed, err = res.RowsAffected()
		return err
	})
	if err != nil {
		return 0, fmt.Errorf("forget export: %w", err)
	}
	return removed, nil
}

func isSQLiteBusy(err error) bool {
	if err == nil {
		return false
	}
	var coder interface{ Code() int }
	if errors.As(err, &coder) && coder.Code() == sqliteBusyCode {
		return true
	}
	msg := err.Error()
	return strings.Contains(msg, "SQLITE_BUSY") || strings.Contains(msg, "database is locked")
}

func retryOnBusy(ctx context.Context, op func() error) error {
	delay := busyRetryInitialBackoff
	var lastErr error
	for attempt := 0; attempt < busyRetryAttempts; attempt++ {
		lastErr = op()
		if lastErr == nil {
			return nil
		}
		if !isSQLiteBusy(lastErr) || attempt == busyRetryAttempts-1 {
			break
		}
		select {
		case <-time.After(delay):
		case <-ctx.Done():
			return ctx.Err()
		}
		if next := delay * 2; next <= busyRetryMaxBackoff {
			delay = next
		}
	}
	return lastErr
}

func nullableString(v string) any {
	if strings.TrimSpace(v) == "" {
		return nil
	}
	return v
}

func boolToInt(v bool) int {
	if v {
		return 1
	}
	return 0
}
