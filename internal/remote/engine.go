// Package remote composes the store, repo access, and walker components
// into the business semantics each protocol command requires.
package remote

import (
	"errors"
	"fmt"

	"github.com/chrislloyd/git-remote-sqlite/internal/gitobj"
	"github.com/chrislloyd/git-remote-sqlite/internal/gitrepo"
	"github.com/chrislloyd/git-remote-sqlite/internal/logging"
	"github.com/chrislloyd/git-remote-sqlite/internal/protocol"
	"github.com/chrislloyd/git-remote-sqlite/internal/store"
	"github.com/chrislloyd/git-remote-sqlite/internal/walker"
)

// ErrUnimplemented marks a command this engine advertises no capability
// for; the session loop treats it as fatal.
var ErrUnimplemented = errors.New("remote: command not implemented")

// objectKinds is the closed set of kinds fetch transfers, in a fixed
// order so CountObjects-style comparisons are deterministic.
var objectKinds = []gitobj.Kind{gitobj.KindBlob, gitobj.KindTree, gitobj.KindCommit, gitobj.KindTag}

// Engine implements the business semantics behind each protocol command.
type Engine struct {
	store *store.Store
	repo  *gitrepo.Repo
	log   *logging.Logger
}

// New builds an Engine over an opened store and repo.
func New(st *store.Store, repo *gitrepo.Repo) *Engine {
	return &Engine{store: st, repo: repo, log: logging.Default().Named("remote")}
}

// EnabledCapabilities is the fixed capability set this engine advertises:
// push, fetch, progress, option. All others are false, and no refspec
// template is advertised.
func (e *Engine) EnabledCapabilities() map[string]bool {
	return map[string]bool{"push": true, "fetch": true, "progress": true, "option": true}
}

// List projects the store's refs onto the protocol's ref shape. A fresh
// database (no rows yet) naturally yields an empty list rather than an
// error, since Open always creates the schema up front. Symbolic-ref
// rows surface as plain `<sha> <name>` pairs using their resolved SHA —
// this engine does not emit the `@target` form for HEAD on list.
func (e *Engine) List() ([]protocol.RefLine, error) {
	records, err := e.store.IterateRefs()
	if err != nil {
		return nil, fmt.Errorf("remote: list: %w", err)
	}
	lines := make([]protocol.RefLine, len(records))
	for i, r := range records {
		lines[i] = protocol.RefLine{Name: r.Name, Sha: string(r.Sha)}
	}
	return lines, nil
}

// Fetch transfers every stored object into the local repository, across
// the closed kind set {blob, tree, commit, tag}, inside one transaction.
// A SHA mismatch after a round-trip write aborts and rolls back.
func (e *Engine) Fetch() error {
	tx, err := e.store.Begin()
	if err != nil {
		return fmt.Errorf("remote: fetch: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	for _, kind := range objectKinds {
		shas, err := tx.IterateObjectsByKind(kind)
		if err != nil {
			return fmt.Errorf("remote: fetch: %w", err)
		}
		for _, sha := range shas {
			k, data, err := tx.GetObject(sha)
			if err != nil {
				return fmt.Errorf("remote: fetch: read %s: %w", sha, err)
			}
			written, err := e.repo.PutObject(k, data)
			if err != nil {
				return fmt.Errorf("remote: fetch: write %s: %w", sha, err)
			}
			if written != sha {
				return fmt.Errorf("remote: fetch: sha mismatch writing %s: got %s", sha, written)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("remote: fetch: %w", err)
	}
	committed = true
	return nil
}

// Push parses refspec, resolves its source in the local repo, walks the
// reachable object closure, and upserts every new object plus the
// destination ref into the store — all inside one transaction. Refspec
// parse failures and ref-resolve failures are reported as structured
// push results rather than Go errors.
func (e *Engine) Push(refspecText string) ([]protocol.PushResult, error) {
	parsed, err := gitrepo.ParseRefspec(refspecText, gitrepo.DirectionPush)
	if err != nil {
		return []protocol.PushResult{{Dst: refspecText, Err: `"Invalid refspec format"`}}, nil
	}

	tx, err := e.store.Begin()
	if err != nil {
		return nil, fmt.Errorf("remote: push: %w", err)
	}
	committed := false
	defer func() {
		if !committed {
			tx.Rollback()
		}
	}()

	sha, err := e.repo.ResolveRef(parsed.Src)
	if err != nil {
		return []protocol.PushResult{{Dst: parsed.Dst, Err: `"Failed to resolve reference"`}}, nil
	}

	w := walker.New(e.repo, sha)
	for {
		candidate, kind, ok := w.Next()
		if !ok {
			break
		}
		has, err := tx.HasObject(candidate)
		if err != nil {
			return nil, fmt.Errorf("remote: push: %w", err)
		}
		if has {
			continue
		}
		gotKind, data, err := e.repo.GetObject(candidate)
		if err != nil {
			return nil, fmt.Errorf("remote: push: read %s: %w", candidate, err)
		}
		_ = kind // the walker's kind and the repo's re-read kind agree by construction
		if err := tx.PutObject(candidate, gotKind, data); err != nil {
			return nil, fmt.Errorf("remote: push: %w", err)
		}
	}

	if err := tx.PutRef(parsed.Dst, string(sha), "branch"); err != nil {
		return nil, fmt.Errorf("remote: push: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("remote: push: %w", err)
	}
	committed = true
	return []protocol.PushResult{{Dst: parsed.Dst}}, nil
}

// Option answers the `option` command: `verbosity` is accepted,
// `progress`/`timeout`/`depth` are recognized but unsupported, and
// anything else is accepted and ignored.
func (e *Engine) Option(name string) OptionResult {
	switch name {
	case "verbosity":
		return OptionOK
	case "progress", "timeout", "depth":
		return OptionUnsupported
	default:
		return OptionOK
	}
}

// OptionResult is the outcome of Option.
type OptionResult int

const (
	OptionOK OptionResult = iota
	OptionUnsupported
)
