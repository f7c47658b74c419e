package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"sync"
	"time"

	_ "modernc.org/sqlite"

	"github.com/artpar/favtag/internal/core"
	"github.com/artpar/favtag/internal/store"
)

// Store implements store.Store using SQLite.
type Store struct {
	mu     sync.RWMutex
	db     *sql.DB
	closed bool
}

// New creates a new SQLite-based tag store.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath+"?_pragma=journal_mode(WAL)&_pragma=busy_timeout(5000)&_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open tag database: %w", err)
	}

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize tag database: %w", err)
	}

	return s, nil
}

// NewInMemory creates a new in-memory SQLite store (useful for testing).
func NewInMemory() (*Store, error) {
	db, err := sql.Open("sqlite", ":memory:?_pragma=foreign_keys(1)")
	if err != nil {
		return nil, fmt.Errorf("failed to open in-memory database: %w", err)
	}
	// Every pooled connection to :memory: is a separate database.
	db.SetMaxOpenConns(1)

	s := &Store{db: db}
	if err := s.initialize(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize database: %w", err)
	}

	return s, nil
}

// initialize creates the necessary tables and indexes.
func (s *Store) initialize() error {
	schema := `
		CREATE TABLE IF NOT EXISTS results (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			url TEXT NOT NULL,
			title TEXT NOT NULL DEFAULT '',
			response_code INTEGER NOT NULL DEFAULT 0,
			probed_at INTEGER NOT NULL
		);

		CREATE TABLE IF NOT EXISTS tags (
			id INTEGER PRIMARY KEY AUTOINCREMENT,
			name TEXT NOT NULL UNIQUE
		);

		CREATE TABLE IF NOT EXISTS result_tags (
			result_id INTEGER NOT NULL REFERENCES results(id) ON DELETE CASCADE,
			tag_id INTEGER NOT NULL REFERENCES tags(id) ON DELETE CASCADE,
			PRIMARY KEY (result_id, tag_id)
		);

		CREATE INDEX IF NOT EXISTS idx_result_tags_tag ON result_tags(tag_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// CreateResult inserts a result and returns it with its assigned ID.
func (s *Store) CreateResult(ctx context.Context, result core.Result) (core.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return core.Result{}, store.ErrStoreClosed
	}

	if result.ProbedAt.IsZero() {
		result.ProbedAt = time.Now()
	}

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO results (url, title, response_code, probed_at) VALUES (?, ?, ?, ?)",
		result.URL, result.Title, result.ResponseCode, result.ProbedAt.Unix(),
	)
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to create result: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to read result id: %w", err)
	}
	result.ID = uint(id)
	result.ProbedAt = time.Unix(result.ProbedAt.Unix(), 0)

	tags := result.Tags
	result.Tags = []core.Tag{}
	for _, tag := range tags {
		t, err := s.addTag(ctx, result.ID, tag.Name)
		if err != nil {
			return core.Result{}, err
		}
		result.Tags = append(result.Tags, t)
	}

	return result, nil
}

// GetResult returns a result with its tags.
func (s *Store) GetResult(ctx context.Context, id uint) (core.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return core.Result{}, store.ErrStoreClosed
	}

	var (
		result   core.Result
		probedAt int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, url, title, response_code, probed_at FROM results WHERE id = ?",
		id,
	).Scan(&result.ID, &result.URL, &result.Title, &result.ResponseCode, &probedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return core.Result{}, store.ErrResultNotFound
	}
	if err != nil {
		return core.Result{}, fmt.Errorf("failed to get result: %w", err)
	}
	result.ProbedAt = time.Unix(probedAt, 0)

	result.Tags, err = s.tagsFor(ctx, id)
	if err != nil {
		return core.Result{}, err
	}

	return result, nil
}

// ListResults returns results ordered by ID, optionally filtered by tag.
func (s *Store) ListResults(ctx context.Context, tag string) ([]core.Result, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrStoreClosed
	}

	query := "SELECT id, url, title, response_code, probed_at FROM results ORDER BY id"
	args := []any{}
	if tag != "" {
		query = `
			SELECT r.id, r.url, r.title, r.response_code, r.probed_at
			FROM results r
			JOIN result_tags rt ON rt.result_id = r.id
			JOIN tags t ON t.id = rt.tag_id
			WHERE t.name = ?
			ORDER BY r.id`
		args = append(args, tag)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to list results: %w", err)
	}

	var results []core.Result
	for rows.Next() {
		var (
			r        core.Result
			probedAt int64
		)
		if err := rows.Scan(&r.ID, &r.URL, &r.Title, &r.ResponseCode, &probedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		r.ProbedAt = time.Unix(probedAt, 0)
		results = append(results, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("failed to list results: %w", err)
	}
	rows.Close()

	for i := range results {
		tags, err := s.tagsFor(ctx, results[i].ID)
		if err != nil {
			return nil, err
		}
		results[i].Tags = tags
	}

	return results, nil
}

// AddTag associates the named tag with a result.
func (s *Store) AddTag(ctx context.Context, resultID uint, tagName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrStoreClosed
	}

	_, err := s.addTag(ctx, resultID, tagName)
	return err
}

func (s *Store) addTag(ctx context.Context, resultID uint, tagName string) (core.Tag, error) {
	if tagName == "" {
		return core.Tag{}, store.ErrEmptyTagName
	}

	if err := s.resultExists(ctx, resultID); err != nil {
		return core.Tag{}, err
	}

	// Find or create the tag
	_, err := s.db.ExecContext(ctx, "INSERT OR IGNORE INTO tags (name) VALUES (?)", tagName)
	if err != nil {
		return core.Tag{}, fmt.Errorf("failed to create tag: %w", err)
	}

	tag := core.Tag{Name: tagName}
	err = s.db.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", tagName).Scan(&tag.ID)
	if err != nil {
		return core.Tag{}, fmt.Errorf("failed to find tag: %w", err)
	}

	// The composite primary key makes a repeated add a no-op.
	_, err = s.db.ExecContext(ctx,
		"INSERT OR IGNORE INTO result_tags (result_id, tag_id) VALUES (?, ?)",
		resultID, tag.ID,
	)
	if err != nil {
		return core.Tag{}, fmt.Errorf("failed to add tag to result: %w", err)
	}

	return tag, nil
}

// RemoveTag removes the association between a tag and a result.
func (s *Store) RemoveTag(ctx context.Context, resultID uint, tagName string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return store.ErrStoreClosed
	}

	var tagID uint
	err := s.db.QueryRowContext(ctx, "SELECT id FROM tags WHERE name = ?", tagName).Scan(&tagID)
	if errors.Is(err, sql.ErrNoRows) {
		return store.ErrTagNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to find tag: %w", err)
	}

	if err := s.resultExists(ctx, resultID); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx,
		"DELETE FROM result_tags WHERE result_id = ? AND tag_id = ?",
		resultID, tagID,
	)
	if err != nil {
		return fmt.Errorf("failed to remove tag from result: %w", err)
	}

	return nil
}

// ListTags returns the distinct tag names attached to at least one result.
func (s *Store) ListTags(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if s.closed {
		return nil, store.ErrStoreClosed
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT DISTINCT t.name
		FROM tags t
		JOIN result_tags rt ON rt.tag_id = t.id
		ORDER BY t.name`,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list tags: %w", err)
	}
	defer rows.Close()

	names := []string{}
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		names = append(names, name)
	}

	return names, rows.Err()
}

// Close closes the store.
func (s *Store) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	s.closed = true
	return s.db.Close()
}

func (s *Store) resultExists(ctx context.Context, resultID uint) error {
	var count int
	err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM results WHERE id = ?", resultID).Scan(&count)
	if err != nil {
		return fmt.Errorf("failed to check result: %w", err)
	}
	if count == 0 {
		return store.ErrResultNotFound
	}
	return nil
}

func (s *Store) tagsFor(ctx context.Context, resultID uint) ([]core.Tag, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT t.id, t.name
		FROM tags t
		JOIN result_tags rt ON rt.tag_id = t.id
		WHERE rt.result_id = ?
		ORDER BY t.name`,
		resultID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load tags: %w", err)
	}
	defer rows.Close()

	tags := []core.Tag{}
	for rows.Next() {
		var tag core.Tag
		if err := rows.Scan(&tag.ID, &tag.Name); err != nil {
			return nil, fmt.Errorf("failed to scan tag: %w", err)
		}
		tags = append(tags, tag)
	}

	return tags, rows.Err()
}

var _ store.Store = (*Store)(nil)
