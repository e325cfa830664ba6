package gitobj

import "testing"

func TestHashObjectMatchesGitHashObject(t *testing.T) {
	// `git hash-object` for an empty blob is the well-known constant.
	h := HashObject(KindBlob, nil)
	want := Hash("e69de29bb2d1d6434b8b29ae775ad8c2e48c5391")
	if h != want {
		t.Errorf("HashObject(blob, \"\") = %s, want %s", h, want)
	}
}

func TestHashObjectDeterministic(t *testing.T) {
	data := []byte("hello world\n")
	h1 := HashObject(KindBlob, data)
	h2 := HashObject(KindBlob, data)
	if h1 != h2 {
		t.Errorf("HashObject not deterministic: %s != %s", h1, h2)
	}
	if !h1.Valid() {
		t.Errorf("hash %q failed Valid()", h1)
	}
}

func TestHashObjectDiffersByKind(t *testing.T) {
	data := []byte("same bytes")
	if HashObject(KindBlob, data) == HashObject(KindTree, data) {
		t.Error("different kinds produced the same hash")
	}
}

func TestParseTreeRoundTrip(t *testing.T) {
	h1 := HashObject(KindBlob, []byte("a"))
	h2 := HashObject(KindBlob, []byte("b"))

	var buf []byte
	buf = appendTreeEntry(buf, "100644", "a.txt", h1)
	buf = appendTreeEntry(buf, "40000", "sub", h2)

	entries, err := ParseTree(buf)
	if err != nil {
		t.Fatalf("ParseTree: %v", err)
	}
	if len(entries) != 2 {
		t.Fatalf("got %d entries, want 2", len(entries))
	}
	if entries[0].Name != "a.txt" || entries[0].Hash != h1 || entries[0].IsSubtree() {
		t.Errorf("entry 0 = %+v", entries[0])
	}
	if entries[1].Name != "sub" || entries[1].Hash != h2 || !entries[1].IsSubtree() {
		t.Errorf("entry 1 = %+v", entries[1])
	}
}

func appendTreeEntry(buf []byte, mode, name string, h Hash) []byte {
	buf = append(buf, mode...)
	buf = append(buf, ' ')
	buf = append(buf, name...)
	buf = append(buf, 0)
	raw, _ := hexDecodeForTest(string(h))
	buf = append(buf, raw...)
	return buf
}

func hexDecodeForTest(s string) ([]byte, error) {
	out := make([]byte, len(s)/2)
	for i := range out {
		hi := fromHexDigit(s[i*2])
		lo := fromHexDigit(s[i*2+1])
		out[i] = hi<<4 | lo
	}
	return out, nil
}

func fromHexDigit(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return 0
	}
}

func TestCommitRefs(t *testing.T) {
	tree := HashObject(KindTree, nil)
	parent := HashObject(KindCommit, []byte("parent"))
	data := []byte("tree " + string(tree) + "\n" +
		"parent " + string(parent) + "\n" +
		"author A <a@example.com> 0 +0000\n" +
		"committer A <a@example.com> 0 +0000\n" +
		"\n" +
		"message\n")

	gotTree, parents, err := CommitRefs(data)
	if err != nil {
		t.Fatalf("CommitRefs: %v", err)
	}
	if gotTree != tree {
		t.Errorf("tree = %s, want %s", gotTree, tree)
	}
	if len(parents) != 1 || parents[0] != parent {
		t.Errorf("parents = %v, want [%s]", parents, parent)
	}
}

func TestCommitRefsMissingTree(t *testing.T) {
	_, _, err := CommitRefs([]byte("author A <a@example.com> 0 +0000\n\nmsg\n"))
	if err == nil {
		t.Error("expected error for commit with no tree header")
	}
}

func TestTagTarget(t *testing.T) {
	target := HashObject(KindCommit, []byte("x"))
	data := []byte("object " + string(target) + "\n" +
		"type commit\n" +
		"tag v1\n" +
		"tagger A <a@example.com> 0 +0000\n" +
		"\n" +
		"release\n")
	got, err := TagTarget(data)
	if err != nil {
		t.Fatalf("TagTarget: %v", err)
	}
	if got != target {
		t.Errorf("TagTarget = %s, want %s", got, target)
	}
}

func TestReferencedHashesBlobIsEmpty(t *testing.T) {
	refs, err := ReferencedHashes(KindBlob, []byte("anything"))
	if err != nil {
		t.Fatalf("ReferencedHashes: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("blob referenced %v, want none", refs)
	}
}
