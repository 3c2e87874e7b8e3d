package state

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/leapstack-labs/atlas/pkg/core"
)

// timeLayout is fixed-width so generated_at sorts lexically.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

// DefaultListLimit caps List when no limit is given.
const DefaultListLimit = 20

// Record is an archived snapshot: its header plus the full JSON document.
type Record struct {
	core.SnapshotHeader
	Data json.RawMessage `json:"data"`
}

// Save archives a snapshot under its header. Saving an existing ID replaces it.
func (s *Store) Save(ctx context.Context, h core.SnapshotHeader, snapshot any) error {
	if s.db == nil {
		return ErrNotOpen
	}
	if h.ID == "" {
		return errors.New("state: snapshot header has no ID")
	}
	data, err := json.Marshal(snapshot)
	if err != nil {
		return fmt.Errorf("encode snapshot %s: %w", h.ID, err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT OR REPLACE INTO snapshots (id, kind, generated_at, score, items, warnings, data)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		h.ID, string(h.Kind), h.GeneratedAt.UTC().Format(timeLayout), h.Score, h.Items, h.Warnings, string(data),
	)
	if err != nil {
		return fmt.Errorf("save snapshot %s: %w", h.ID, err)
	}
	return nil
}

// List returns the newest headers first. An empty kind lists every kind.
func (s *Store) List(ctx context.Context, kind core.SnapshotKind, limit int) ([]core.SnapshotHeader, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}
	if limit <= 0 {
		limit = DefaultListLimit
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, generated_at, score, items, warnings
		FROM snapshots
		WHERE ? = '' OR kind = ?
		ORDER BY generated_at DESC, id
		LIMIT ?`, string(kind), string(kind), limit)
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	defer func() { _ = rows.Close() }()

	headers := []core.SnapshotHeader{}
	for rows.Next() {
		h, err := scanHeader(rows)
		if err != nil {
			return nil, err
		}
		headers = append(headers, h)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows error: %w", err)
	}
	return headers, nil
}

// Get returns one archived snapshot.
func (s *Store) Get(ctx context.Context, id string) (*Record, error) {
	if s.db == nil {
		return nil, ErrNotOpen
	}

	row := s.db.QueryRowContext(ctx, `
		SELECT id, kind, generated_at, score, items, warnings, data
		FROM snapshots WHERE id = ?`, id)

	var (
		rec      Record
		kind, at string
		data     string
	)
	err := row.Scan(&rec.ID, &kind, &at, &rec.Score, &rec.Items, &rec.Warnings, &data)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("get snapshot %s: %w", id, err)
	}
	if rec.GeneratedAt, err = time.Parse(timeLayout, at); err != nil {
		return nil, fmt.Errorf("parse generated_at of %s: %w", id, err)
	}
	rec.Kind = core.SnapshotKind(kind)
	rec.Data = json.RawMessage(data)
	return &rec, nil
}

// Prune deletes all but the newest keep snapshots of a kind and reports how
// many rows were removed.
func (s *Store) Prune(ctx context.Context, kind core.SnapshotKind, keep int) (int64, error) {
	if s.db == nil {
		return 0, ErrNotOpen
	}
	res, err := s.db.ExecContext(ctx, `
		DELETE FROM snapshots
		WHERE kind = ? AND id NOT IN (
			SELECT id FROM snapshots WHERE kind = ?
			ORDER BY generated_at DESC, id
			LIMIT ?
		)`, string(kind), string(kind), keep)
	if err != nil {
		return 0, fmt.Errorf("prune %s snapshots: %w", kind, err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("prune %s snapshots: %w", kind, err)
	}
	return n, nil
}

func scanHeader(rows *sql.Rows) (core.SnapshotHeader, error) {
	var (
		h        core.SnapshotHeader
		kind, at string
	)
	if err := rows.Scan(&h.ID, &kind, &at, &h.Score, &h.Items, &h.Warnings); err != nil {
		return h, fmt.Errorf("scan snapshot: %w", err)
	}
	t, err := time.Parse(timeLayout, at)
	if err != nil {
		return h, fmt.Errorf("parse generated_at of %s: %w", h.ID, err)
	}
	h.Kind = core.SnapshotKind(kind)
	h.GeneratedAt = t
	return h, nil
}
