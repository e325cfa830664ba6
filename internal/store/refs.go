package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"

	"github.com/chrislloyd/git-remote-sqlite/internal/gitobj"
)

// RefRecord is one row of IterateRefs' result: a name, the SHA it currently
// resolves to, and its class ("branch", "tag", "remote", or "symbolic").
type RefRecord struct {
	Name string
	Sha  gitobj.Hash
	Class string
}

// PutRef stores name -> value. If value begins with the literal prefix
// "ref: " the remainder is stored as a symbolic-ref target; otherwise value
// is treated as a SHA and upserted as a regular ref of the given class.
// Replace semantics on conflict.
func PutRef(ctx context.Context, q querier, name, value, class string) error {
	if target, ok := strings.CutPrefix(value, symrefPrefix); ok {
		_, err := q.ExecContext(ctx,
			`INSERT INTO symrefs (name, target) VALUES (?, ?)
			 ON CONFLICT(name) DO UPDATE SET target = excluded.target`,
			name, target)
		if err != nil {
			return fmt.Errorf("%w: put symref %s: %v", ErrWriteFailed, name, err)
		}
		return nil
	}

	sha := gitobj.Hash(value)
	if !sha.Valid() {
		return fmt.Errorf("%w: invalid ref target %q for %s", ErrWriteFailed, value, name)
	}
	_, err := q.ExecContext(ctx,
		`INSERT INTO refs (name, sha, class) VALUES (?, ?, ?)
		 ON CONFLICT(name) DO UPDATE SET sha = excluded.sha, class = excluded.class`,
		name, string(sha), class)
	if err != nil {
		return fmt.Errorf("%w: put ref %s: %v", ErrWriteFailed, name, err)
	}
	return nil
}

// GetRef returns the SHA a regular ref currently points to. It does not
// resolve symbolic refs — callers that need HEAD resolution should
// consult IterateRefs or follow symrefs explicitly.
func GetRef(ctx context.Context, q querier, name string) (gitobj.Hash, error) {
	var sha string
	err := q.QueryRowContext(ctx, `SELECT sha FROM refs WHERE name = ?`, name).Scan(&sha)
	switch {
	case err == nil:
		return gitobj.Hash(sha), nil
	case errors.Is(err, sql.ErrNoRows):
		return "", ErrNotFound
	default:
		return "", fmt.Errorf("%w: get ref %s: %v", ErrReadFailed, name, err)
	}
}

// DeleteRef removes a regular ref. Deleting an absent ref is not an error.
func DeleteRef(ctx context.Context, q querier, name string) error {
	if _, err := q.ExecContext(ctx, `DELETE FROM refs WHERE name = ?`, name); err != nil {
		return fmt.Errorf("%w: delete ref %s: %v", ErrWriteFailed, name, err)
	}
	return nil
}

// IterateRefs returns every regular ref ordered by name, followed by every
// symbolic ref whose target resolves in the ref table (reported with the
// target's SHA and class "symbolic"). A symbolic ref whose target is
// absent is silently omitted.
func IterateRefs(ctx context.Context, q querier) ([]RefRecord, error) {
	rows, err := q.QueryContext(ctx, `SELECT name, sha, class FROM refs ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("%w: iterate refs: %v", ErrReadFailed, err)
	}
	var out []RefRecord
	for rows.Next() {
		var r RefRecord
		var sha string
		if err := rows.Scan(&r.Name, &sha, &r.Class); err != nil {
			rows.Close()
			return nil, fmt.Errorf("%w: scan ref: %v", ErrReadFailed, err)
		}
		r.Sha = gitobj.Hash(sha)
		out = append(out, r)
	}
	if err := rows.Err(); err != nil {
		rows.Close()
		return nil, fmt.Errorf("%w: iterate refs: %v", ErrReadFailed, err)
	}
	rows.Close()

	symrows, err := q.QueryContext(ctx,
		`SELECT symrefs.name, refs.sha, refs.class
		 FROM symrefs JOIN refs ON refs.name = symrefs.target
		 ORDER BY symrefs.name`)
	if err != nil {
		return nil, fmt.Errorf("%w: iterate symrefs: %v", ErrReadFailed, err)
	}
	defer symrows.Close()
	for symrows.Next() {
		var name, sha, targetClass string
		if err := symrows.Scan(&name, &sha, &targetClass); err != nil {
			return nil, fmt.Errorf("%w: scan symref: %v", ErrReadFailed, err)
		}
		_ = targetClass
		out = append(out, RefRecord{Name: name, Sha: gitobj.Hash(sha), Class: "symbolic"})
	}
	if err := symrows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate symrefs: %v", ErrReadFailed, err)
	}
	return out, nil
}

func (s *Store) PutRef(name, value, class string) error {
	return PutRef(context.Background(), s.db, name, value, class)
}

func (s *Store) GetRef(name string) (gitobj.Hash, error) {
	return GetRef(context.Background(), s.db, name)
}

func (s *Store) DeleteRef(name string) error {
	return DeleteRef(context.Background(), s.db, name)
}

func (s *Store) IterateRefs() ([]RefRecord, error) {
	return IterateRefs(context.Background(), s.db)
}

func (t *Tx) PutRef(name, value, class string) error {
	return PutRef(context.Background(), t.tx, name, value, class)
}

func (t *Tx) GetRef(name string) (gitobj.Hash, error) {
	return GetRef(context.Background(), t.tx, name)
}

func (t *Tx) DeleteRef(name string) error {
	return DeleteRef(context.Background(), t.tx, name)
}

func (t *Tx) IterateRefs() ([]RefRecord, error) {
	return IterateRefs(context.Background(), t.tx)
}
