package remote

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/chrislloyd/git-remote-sqlite/internal/gitobj"
	"github.com/chrislloyd/git-remote-sqlite/internal/gitrepo"
	"github.com/chrislloyd/git-remote-sqlite/internal/store"
)

func tempEngine(t *testing.T) (*Engine, *gitrepo.Repo, *store.Store) {
	t.Helper()
	gitDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(gitDir, "objects"), 0o755); err != nil {
		t.Fatal(err)
	}
	repo, err := gitrepo.Open(gitDir)
	if err != nil {
		t.Fatalf("gitrepo.Open: %v", err)
	}

	st, err := store.Open(filepath.Join(t.TempDir(), "repo.sqlite"))
	if err != nil {
		t.Fatalf("store.Open: %v", err)
	}
	t.Cleanup(func() { st.Close() })

	return New(st, repo), repo, st
}

func writeLooseRef(t *testing.T, repo *gitrepo.Repo, name string, sha gitobj.Hash) {
	t.Helper()
	path := filepath.Join(repo.GitDir(), filepath.FromSlash(name))
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(path, []byte(string(sha)+"\n"), 0o644); err != nil {
		t.Fatal(err)
	}
}

func TestPushThenFetchRoundTrip(t *testing.T) {
	engine, repo, st := tempEngine(t)

	blob, err := repo.PutObject(gitobj.KindBlob, []byte("# Test Repository\nThis is a test file.\n"))
	if err != nil {
		t.Fatal(err)
	}
	tree, err := repo.PutObject(gitobj.KindTree, treeBytesFor(blob, "README.md", "100644"))
	if err != nil {
		t.Fatal(err)
	}
	commit, err := repo.PutObject(gitobj.KindCommit, commitBytesFor(tree))
	if err != nil {
		t.Fatal(err)
	}
	writeLooseRef(t, repo, "refs/heads/main", commit)

	results, err := engine.Push("refs/heads/main:refs/heads/main")
	if err != nil {
		t.Fatalf("Push: %v", err)
	}
	if len(results) != 1 || results[0].Err != "" || results[0].Dst != "refs/heads/main" {
		t.Fatalf("Push results = %+v", results)
	}

	n, err := st.CountObjects()
	if err != nil {
		t.Fatal(err)
	}
	if n != 3 {
		t.Errorf("CountObjects after push = %d, want 3", n)
	}

	got, err := st.GetRef("refs/heads/main")
	if err != nil {
		t.Fatalf("GetRef: %v", err)
	}
	if got != commit {
		t.Errorf("GetRef = %s, want %s", got, commit)
	}

	// Fetch into a fresh repo and confirm the objects round-trip.
	freshGitDir := t.TempDir()
	if err := os.MkdirAll(filepath.Join(freshGitDir, "objects"), 0o755); err != nil {
		t.Fatal(err)
	}
	freshRepo, err := gitrepo.Open(freshGitDir)
	if err != nil {
		t.Fatal(err)
	}
	fetchEngine := New(st, freshRepo)
	if err := fetchEngine.Fetch(); err != nil {
		t.Fatalf("Fetch: %v", err)
	}

	kind, data, err := freshRepo.GetObject(commit)
	if err != nil {
		t.Fatalf("GetObject after fetch: %v", err)
	}
	if kind != gitobj.KindCommit {
		t.Errorf("kind = %q, want commit", kind)
	}
	_ = data
}

func TestPushInvalidRefspec(t *testing.T) {
	engine, _, _ := tempEngine(t)
	results, err := engine.Push("invalid::refspec")
	if err != nil {
		t.Fatalf("Push returned Go error: %v, want structured push-result", err)
	}
	if len(results) != 1 || results[0].Err != `"Invalid refspec format"` {
		t.Errorf("results = %+v", results)
	}
}

func TestPushUnresolvableSource(t *testing.T) {
	engine, _, _ := tempEngine(t)
	results, err := engine.Push("refs/heads/missing:refs/heads/missing")
	if err != nil {
		t.Fatalf("Push returned Go error: %v", err)
	}
	if len(results) != 1 || results[0].Err != `"Failed to resolve reference"` {
		t.Errorf("results = %+v", results)
	}
}

func TestListEmptyDatabase(t *testing.T) {
	engine, _, _ := tempEngine(t)
	refs, err := engine.List()
	if err != nil {
		t.Fatalf("List: %v", err)
	}
	if len(refs) != 0 {
		t.Errorf("List on fresh database = %v, want empty", refs)
	}
}

func TestOptionHandling(t *testing.T) {
	engine, _, _ := tempEngine(t)
	if engine.Option("verbosity") != OptionOK {
		t.Error("verbosity should be ok")
	}
	if engine.Option("progress") != OptionUnsupported {
		t.Error("progress should be unsupported")
	}
	if engine.Option("timeout") != OptionUnsupported {
		t.Error("timeout should be unsupported")
	}
	if engine.Option("some-other-option") != OptionOK {
		t.Error("unrecognized options should be accepted and ignored")
	}
}

func treeBytesFor(blob gitobj.Hash, name, mode string) []byte {
	var buf []byte
	buf = append(buf, mode...)
	buf = append(buf, ' ')
	buf = append(buf, name...)
	buf = append(buf, 0)
	raw := make([]byte, 20)
	for i := 0; i < 20; i++ {
		hi := fromHexDigit(blob[i*2])
		lo := fromHexDigit(blob[i*2+1])
		raw[i] = hi<<4 | lo
	}
	return append(buf, raw...)
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

func commitBytesFor(tree gitobj.Hash) []byte {
	return []byte("tree " + string(tree) + "\n" +
		"author A <a@example.com> 0 +0000\n" +
		"committer A <a@example.com> 0 +0000\n" +
		"\n" +
		"initial commit\n")
}
