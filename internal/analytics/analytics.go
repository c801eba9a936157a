// Package analytics records anonymous page views in SQLite.
//
// Raw IP addresses are never stored: each is hashed with a per-deployment
// salt and truncated. Views older than the retention window are deleted.
package analytics

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	_ "modernc.org/sqlite"
)

// Retention is how long page views are kept.
const Retention = 365 * 24 * time.Hour

const schema = `
CREATE TABLE IF NOT EXISTS visitors (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	hashed_ip TEXT NOT NULL,
	user_agent TEXT,
	path TEXT,
	viewed_at INTEGER NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_visitors_viewed_at ON visitors(viewed_at);
`

// PathCount is a path with its number of views.
type PathCount struct {
	Path  string `json:"path"`
	Views int64  `json:"views"`
}

// Stats are aggregate counts. Nothing in here identifies a visitor.
type Stats struct {
	TotalViews     int64       `json:"total_views"`
	UniqueVisitors int64       `json:"unique_visitors"`
	ViewsToday     int64       `json:"views_today"`
	ViewsThisWeek  int64       `json:"views_this_week"`
	TopPaths       []PathCount `json:"top_paths"`
}

// Store is the SQLite-backed page-view log.
type Store struct {
	db   *sql.DB
	salt string
}

// Open opens (creating if needed) the database at path. ":memory:" gives a
// private in-memory database.
func Open(path, salt string) (*Store, error) {
	if salt == "" {
		return nil, errors.WithHint(errors.New("analytics: empty hashing salt"), "set ANALYTICS_SALT")
	}
	if path != ":memory:" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, errors.Wrap(err, "create analytics directory")
		}
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, errors.Wrap(err, "open analytics database")
	}
	// A single connection keeps ":memory:" databases shared and serialises writers.
	db.SetMaxOpenConns(1)

	if err := db.Ping(); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "ping analytics database")
	}
	if _, err := db.Exec(schema); err != nil {
		_ = db.Close()
		return nil, errors.Wrap(err, "migrate analytics database")
	}

	return &Store{db: db, salt: salt}, nil
}

// Close closes the database.
func (s *Store) Close() error {
	return s.db.Close()
}

// HashIP returns the salted, truncated hash stored in place of an IP.
func (s *Store) HashIP(ip string) string {
	sum := sha256.Sum256([]byte(ip + s.salt))
	return hex.EncodeToString(sum[:])[:16]
}

// Record stores a page view for the given client IP.
func (s *Store) Record(ctx context.Context, ip, userAgent, path string, at time.Time) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO visitors (hashed_ip, user_agent, path, viewed_at) VALUES (?, ?, ?, ?)`,
		s.HashIP(ip), userAgent, path, at.Unix())
	if err != nil {
		return errors.Wrap(err, "record page view")
	}
	return nil
}

// Cleanup deletes views older than Retention and returns how many went.
func (s *Store) Cleanup(ctx context.Context, now time.Time) (int64, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE viewed_at < ?`, now.Add(-Retention).Unix())
	if err != nil {
		return 0, errors.Wrap(err, "clean up page views")
	}
	n, _ := res.RowsAffected()
	return n, nil
}

// Stats computes aggregate counts relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{TopPaths: []PathCount{}}

	y, m, d := now.Date()
	midnight := time.Date(y, m, d, 0, 0, 0, 0, now.Location())
	weekAgo := now.Add(-7 * 24 * time.Hour)

	queries := []struct {
		dest  *int64
		query string
		args  []any
	}{
		{&stats.TotalViews, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.ViewsToday, `SELECT COUNT(*) FROM visitors WHERE viewed_at >= ?`, []any{midnight.Unix()}},
		{&stats.ViewsThisWeek, `SELECT COUNT(*) FROM visitors WHERE viewed_at >= ?`, []any{weekAgo.Unix()}},
	}
	for _, q := range queries {
		if err := s.db.QueryRowContext(ctx, q.query, q.args...).Scan(q.dest); err != nil {
			return nil, errors.Wrap(err, "query page view stats")
		}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT path, COUNT(*) AS views
		FROM visitors
		GROUP BY path
		ORDER BY views DESC, path ASC
		LIMIT 10`)
	if err != nil {
		return nil, errors.Wrap(err, "query top paths")
	}
	defer rows.Close()

	for rows.Next() {
		var pc PathCount
		if err := rows.Scan(&pc.Path, &pc.Views); err != nil {
			return nil, errors.Wrap(err, "scan top path")
		}
		stats.TopPaths = append(stats.TopPaths, pc)
	}
	return stats, rows.Err()
}
