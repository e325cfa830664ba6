// Package walker produces every object reachable from a start commit —
// via commit ancestry and each commit's tree recursively — as a lazy,
// single-pass, non-restartable iterator. It surfaces one SHA per Next()
// call rather than computing the whole closure up front, so a push can
// stream objects into the destination as it discovers them.
package walker

import (
	"github.com/chrislloyd/git-remote-sqlite/internal/gitobj"
)

// ObjectReader is the read surface the walker needs. *gitrepo.Repo and
// *store.Store both satisfy it; push drives the walker over the working
// repo. Fetch does not use the walker.
type ObjectReader interface {
	GetObject(sha gitobj.Hash) (gitobj.Kind, []byte, error)
}

type provenance int

const (
	provenanceCommit provenance = iota
	provenanceTreeRoot
	provenanceTreeEntry
)

type pendingItem struct {
	sha        gitobj.Hash
	provenance provenance
}

type treeContext struct {
	entries []gitobj.TreeEntry
	next    int
}

// Walker is a lazy reachable-object iterator. The zero value is not
// usable; construct one with New.
type Walker struct {
	reader ObjectReader

	visited map[gitobj.Hash]struct{}

	pending   []pendingItem
	treeStack []*treeContext

	// commitFrontier is the revision walker's remaining work: commit SHAs
	// discovered as parents, not yet fed into pending.
	commitFrontier []gitobj.Hash
}

// New starts a walker rooted at start. Nothing is read until the first
// Next() call.
func New(reader ObjectReader, start gitobj.Hash) *Walker {
	return &Walker{
		reader:         reader,
		visited:        make(map[gitobj.Hash]struct{}),
		commitFrontier: []gitobj.Hash{start},
	}
}

// Next returns the next reachable SHA and its kind, or ok=false once the
// walker is exhausted. Each SHA is returned at most once across the
// walker's lifetime. A lookup failure on any pending object silently
// skips it rather than failing the walk.
func (w *Walker) Next() (sha gitobj.Hash, kind gitobj.Kind, ok bool) {
	for {
		if len(w.pending) > 0 {
			item := w.pending[0]
			w.pending = w.pending[1:]

			if _, seen := w.visited[item.sha]; seen {
				continue
			}
			k, data, err := w.reader.GetObject(item.sha)
			if err != nil {
				continue // lookup failure: skip silently
			}
			w.visited[item.sha] = struct{}{}
			w.expand(k, data)
			return item.sha, k, true
		}

		if len(w.treeStack) > 0 {
			top := w.treeStack[len(w.treeStack)-1]
			if top.next >= len(top.entries) {
				w.treeStack = w.treeStack[:len(w.treeStack)-1]
				continue
			}
			entry := top.entries[top.next]
			top.next++
			w.pending = append(w.pending, pendingItem{sha: entry.Hash, provenance: provenanceTreeEntry})
			continue
		}

		if len(w.commitFrontier) > 0 {
			c := w.commitFrontier[len(w.commitFrontier)-1]
			w.commitFrontier = w.commitFrontier[:len(w.commitFrontier)-1]
			if _, seen := w.visited[c]; seen {
				continue
			}
			w.pending = append(w.pending, pendingItem{sha: c, provenance: provenanceCommit})
			continue
		}

		return "", "", false
	}
}

// expand enqueues the follow-up work implied by just having emitted an
// object of kind k: a commit's tree and parents, or a tree's entries.
func (w *Walker) expand(k gitobj.Kind, data []byte) {
	switch k {
	case gitobj.KindCommit:
		tree, parents, err := gitobj.CommitRefs(data)
		if err != nil {
			return // malformed commit: nothing more to expand, object itself was still emitted
		}
		w.pending = append(w.pending, pendingItem{sha: tree, provenance: provenanceTreeRoot})
		w.commitFrontier = append(w.commitFrontier, parents...)
	case gitobj.KindTree:
		entries, err := gitobj.ParseTree(data)
		if err != nil {
			return
		}
		w.treeStack = append(w.treeStack, &treeContext{entries: entries})
	case gitobj.KindTag:
		target, err := gitobj.TagTarget(data)
		if err != nil {
			return
		}
		w.pending = append(w.pending, pendingItem{sha: target, provenance: provenanceTreeEntry})
	case gitobj.KindBlob:
		// terminal: blobs reference nothing further
	}
}
