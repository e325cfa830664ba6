package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/chrislloyd/git-remote-sqlite/internal/gitobj"
)

// PutObject upserts an object: a second insert of an sha that is already
// present replaces its kind and data rather than failing (objects are
// content-addressed, so a duplicate insert normally carries the same
// bytes and changes nothing).
func PutObject(ctx context.Context, q querier, sha gitobj.Hash, kind gitobj.Kind, data []byte) error {
	if !sha.Valid() {
		return fmt.Errorf("%w: invalid sha %q", ErrWriteFailed, sha)
	}
	if !gitobj.ValidKind(kind) {
		return fmt.Errorf("%w: invalid kind %q", ErrWriteFailed, kind)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO objects (sha, kind, data) VALUES (?, ?, ?)
		 ON CONFLICT(sha) DO UPDATE SET kind = excluded.kind, data = excluded.data`,
		string(sha), string(kind), data)
	if err != nil {
		return fmt.Errorf("%w: put object %s: %v", ErrWriteFailed, sha, err)
	}
	return nil
}

// HasObject reports whether sha is present.
func HasObject(ctx context.Context, q querier, sha gitobj.Hash) (bool, error) {
	var exists int
	err := q.QueryRowContext(ctx, `SELECT 1 FROM objects WHERE sha = ?`, string(sha)).Scan(&exists)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, sql.ErrNoRows):
		return false, nil
	default:
		return false, fmt.Errorf("%w: has object %s: %v", ErrReadFailed, sha, err)
	}
}

// GetObject returns the kind and payload of sha, or ErrNotFound.
func GetObject(ctx context.Context, q querier, sha gitobj.Hash) (gitobj.Kind, []byte, error) {
	var kind string
	var data []byte
	err := q.QueryRowContext(ctx, `SELECT kind, data FROM objects WHERE sha = ?`, string(sha)).Scan(&kind, &data)
	switch {
	case err == nil:
		return gitobj.Kind(kind), data, nil
	case errors.Is(err, sql.ErrNoRows):
		return "", nil, ErrNotFound
	default:
		return "", nil, fmt.Errorf("%w: get object %s: %v", ErrReadFailed, sha, err)
	}
}

// IterateObjectsByKind returns every object hash of the given kind, in no
// particular order. Used by `fetch` to enumerate every stored object.
func IterateObjectsByKind(ctx context.Context, q querier, kind gitobj.Kind) ([]gitobj.Hash, error) {
	rows, err := q.QueryContext(ctx, `SELECT sha FROM objects WHERE kind = ?`, string(kind))
	if err != nil {
		return nil, fmt.Errorf("%w: iterate objects by kind %s: %v", ErrReadFailed, kind, err)
	}
	defer rows.Close()

	var out []gitobj.Hash
	for rows.Next() {
		var sha string
		if err := rows.Scan(&sha); err != nil {
			return nil, fmt.Errorf("%w: scan object sha: %v", ErrReadFailed, err)
		}
		out = append(out, gitobj.Hash(sha))
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate objects by kind %s: %v", ErrReadFailed, kind, err)
	}
	return out, nil
}

// CountObjects returns the total number of objects stored, regardless of
// kind. Used for diagnostics.
func CountObjects(ctx context.Context, q querier) (uint64, error) {
	var n uint64
	if err := q.QueryRowContext(ctx, `SELECT COUNT(*) FROM objects`).Scan(&n); err != nil {
		return 0, fmt.Errorf("%w: count objects: %v", ErrReadFailed, err)
	}
	return n, nil
}

// Store-level convenience wrappers, for callers outside an explicit
// transaction (e.g. `list`, which never needs one).

func (s *Store) PutObject(sha gitobj.Hash, kind gitobj.Kind, data []byte) error {
	return PutObject(context.Background(), s.db, sha, kind, data)
}

func (s *Store) HasObject(sha gitobj.Hash) (bool, error) {
	return HasObject(context.Background(), s.db, sha)
}

func (s *Store) GetObject(sha gitobj.Hash) (gitobj.Kind, []byte, error) {
	return GetObject(context.Background(), s.db, sha)
}

func (s *Store) IterateObjectsByKind(kind gitobj.Kind) ([]gitobj.Hash, error) {
	return IterateObjectsByKind(context.Background(), s.db, kind)
}

func (s *Store) CountObjects() (uint64, error) {
	return CountObjects(context.Background(), s.db)
}

// Tx-level mirrors, used inside the single transaction that wraps a push
// or fetch.

func (t *Tx) PutObject(sha gitobj.Hash, kind gitobj.Kind, data []byte) error {
	return PutObject(context.Background(), t.tx, sha, kind, data)
}

func (t *Tx) HasObject(sha gitobj.Hash) (bool, error) {
	return HasObject(context.Background(), t.tx, sha)
}

func (t *Tx) GetObject(sha gitobj.Hash) (gitobj.Kind, []byte, error) {
	return GetObject(context.Background(), t.tx, sha)
}

func (t *Tx) IterateObjectsByKind(kind gitobj.Kind) ([]gitobj.Hash, error) {
	return IterateObjectsByKind(context.Background(), t.tx, kind)
}
