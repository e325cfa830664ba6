package walker

import (
	"fmt"
	"testing"

	"github.com/chrislloyd/git-remote-sqlite/internal/gitobj"
)

// memReader is a minimal in-memory ObjectReader for walker tests.
type memReader struct {
	objects map[gitobj.Hash]struct {
		kind gitobj.Kind
		data []byte
	}
}

func newMemReader() *memReader {
	return &memReader{objects: make(map[gitobj.Hash]struct {
		kind gitobj.Kind
		data []byte
	})}
}

func (m *memReader) put(kind gitobj.Kind, data []byte) gitobj.Hash {
	h := gitobj.HashObject(kind, data)
	m.objects[h] = struct {
		kind gitobj.Kind
		data []byte
	}{kind, data}
	return h
}

func (m *memReader) GetObject(sha gitobj.Hash) (gitobj.Kind, []byte, error) {
	o, ok := m.objects[sha]
	if !ok {
		return "", nil, fmt.Errorf("not found: %s", sha)
	}
	return o.kind, o.data, nil
}

func drain(w *Walker) []gitobj.Hash {
	var out []gitobj.Hash
	for {
		sha, _, ok := w.Next()
		if !ok {
			break
		}
		out = append(out, sha)
	}
	return out
}

func treeBytes(m *memReader, entries []gitobj.TreeEntry) []byte {
	var buf []byte
	for _, e := range entries {
		buf = append(buf, e.Mode...)
		buf = append(buf, ' ')
		buf = append(buf, e.Name...)
		buf = append(buf, 0)
		raw := make([]byte, 20)
		for i := 0; i < 20; i++ {
			hi := fromHex(e.Hash[i*2])
			lo := fromHex(e.Hash[i*2+1])
			raw[i] = hi<<4 | lo
		}
		buf = append(buf, raw...)
	}
	return buf
}

func fromHex(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return 0
	}
}

func commitBytes(tree gitobj.Hash, parents ...gitobj.Hash) []byte {
	s := "tree " + string(tree) + "\n"
	for _, p := range parents {
		s += "parent " + string(p) + "\n"
	}
	s += "author A <a@example.com> 0 +0000\ncommitter A <a@example.com> 0 +0000\n\nmsg\n"
	return []byte(s)
}

func TestWalkerSingleCommitNoParents(t *testing.T) {
	m := newMemReader()
	blob := m.put(gitobj.KindBlob, []byte("hello"))
	tree := m.put(gitobj.KindTree, treeBytes(m, []gitobj.TreeEntry{{Mode: "100644", Name: "a.txt", Hash: blob}}))
	commit := m.put(gitobj.KindCommit, commitBytes(tree))

	w := New(m, commit)
	got := drain(w)

	want := map[gitobj.Hash]bool{commit: true, tree: true, blob: true}
	if len(got) != len(want) {
		t.Fatalf("got %v, want 3 objects %v", got, want)
	}
	for _, h := range got {
		if !want[h] {
			t.Errorf("unexpected object emitted: %s", h)
		}
	}
	if got[0] != commit {
		t.Errorf("first emitted = %s, want commit %s (commit before its tree/blob)", got[0], commit)
	}
}

func TestWalkerDedupesAcrossCommits(t *testing.T) {
	m := newMemReader()
	blob := m.put(gitobj.KindBlob, []byte("shared"))
	tree := m.put(gitobj.KindTree, treeBytes(m, []gitobj.TreeEntry{{Mode: "100644", Name: "a.txt", Hash: blob}}))
	c1 := m.put(gitobj.KindCommit, commitBytes(tree))
	c2 := m.put(gitobj.KindCommit, commitBytes(tree, c1))

	w := New(m, c2)
	got := drain(w)

	seen := map[gitobj.Hash]int{}
	for _, h := range got {
		seen[h]++
	}
	for h, n := range seen {
		if n != 1 {
			t.Errorf("object %s emitted %d times, want 1", h, n)
		}
	}
	for _, want := range []gitobj.Hash{c1, c2, tree, blob} {
		if seen[want] != 1 {
			t.Errorf("expected %s to be emitted exactly once, got %d", want, seen[want])
		}
	}
}

func TestWalkerSkipsMissingObjectsSilently(t *testing.T) {
	m := newMemReader()
	blob := m.put(gitobj.KindBlob, []byte("present"))
	missing := gitobj.HashObject(gitobj.KindBlob, []byte("never stored"))
	tree := m.put(gitobj.KindTree, treeBytes(m, []gitobj.TreeEntry{
		{Mode: "100644", Name: "present.txt", Hash: blob},
		{Mode: "100644", Name: "missing.txt", Hash: missing},
	}))
	commit := m.put(gitobj.KindCommit, commitBytes(tree))

	w := New(m, commit)
	got := drain(w)

	for _, h := range got {
		if h == missing {
			t.Error("missing object was emitted, want silent skip")
		}
	}
	found := map[gitobj.Hash]bool{}
	for _, h := range got {
		found[h] = true
	}
	if !found[commit] || !found[tree] || !found[blob] {
		t.Errorf("got %v, want commit/tree/blob all present despite missing sibling", got)
	}
}

func TestWalkerEmptyStartIsNotFoundSkippedToExhaustion(t *testing.T) {
	m := newMemReader()
	w := New(m, gitobj.HashObject(gitobj.KindCommit, []byte("nonexistent")))
	got := drain(w)
	if len(got) != 0 {
		t.Errorf("got %v, want no objects for an unresolvable start", got)
	}
	if _, _, ok := w.Next(); ok {
		t.Error("walker should stay exhausted after draining")
	}
}

func TestWalkerNestedTrees(t *testing.T) {
	m := newMemReader()
	blob := m.put(gitobj.KindBlob, []byte("nested"))
	subtree := m.put(gitobj.KindTree, treeBytes(m, []gitobj.TreeEntry{{Mode: "100644", Name: "f.txt", Hash: blob}}))
	roottree := m.put(gitobj.KindTree, treeBytes(m, []gitobj.TreeEntry{{Mode: "40000", Name: "dir", Hash: subtree}}))
	commit := m.put(gitobj.KindCommit, commitBytes(roottree))

	w := New(m, commit)
	got := drain(w)

	want := map[gitobj.Hash]bool{commit: true, roottree: true, subtree: true, blob: true}
	if len(got) != len(want) {
		t.Fatalf("got %v, want %v", got, want)
	}
	for _, h := range got {
		if !want[h] {
			t.Errorf("unexpected object: %s", h)
		}
	}
}
