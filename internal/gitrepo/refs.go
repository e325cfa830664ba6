package gitrepo

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/chrislloyd/git-remote-sqlite/internal/gitobj"
)

const symbolicRefPrefix = "ref: "

// maxSymbolicRefDepth bounds symbolic-ref recursion (HEAD -> refs/heads/main
// -> ...) against a cyclic or absurdly long chain.
const maxSymbolicRefDepth = 10

// ResolveRef returns the 40-hex commit SHA that name currently points to,
// following symbolic refs (HEAD, etc.) and falling back to packed-refs when
// no loose ref file exists.
func (r *Repo) ResolveRef(name string) (gitobj.Hash, error) {
	return r.resolveRef(name, 0)
}

func (r *Repo) resolveRef(name string, depth int) (gitobj.Hash, error) {
	if depth > maxSymbolicRefDepth {
		return "", fmt.Errorf("%w: %s: symbolic ref chain too deep", ErrRefResolveFailed, name)
	}

	if sha, target, ok, err := r.readLooseRef(name); err != nil {
		return "", err
	} else if ok {
		if target != "" {
			return r.resolveRef(target, depth+1)
		}
		return sha, nil
	}

	sha, ok, err := r.readPackedRef(name)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", fmt.Errorf("%w: %s", ErrRefResolveFailed, name)
	}
	return sha, nil
}

// readLooseRef reads gitDir/name. Returns ok=false if the file does not
// exist. A symbolic ref ("ref: <target>") is reported via target; a direct
// ref reports sha.
func (r *Repo) readLooseRef(name string) (sha gitobj.Hash, target string, ok bool, err error) {
	data, err := os.ReadFile(filepath.Join(r.gitDir, filepath.FromSlash(name)))
	if os.IsNotExist(err) {
		return "", "", false, nil
	}
	if err != nil {
		return "", "", false, fmt.Errorf("%w: %s: %v", ErrRefResolveFailed, name, err)
	}
	line := strings.TrimSpace(string(data))
	if t, isSymbolic := strings.CutPrefix(line, symbolicRefPrefix); isSymbolic {
		return "", strings.TrimSpace(t), true, nil
	}
	h := gitobj.Hash(line)
	if !h.Valid() {
		return "", "", false, fmt.Errorf("%w: %s: malformed ref content %q", ErrRefResolveFailed, name, line)
	}
	return h, "", true, nil
}

// readPackedRef scans gitDir/packed-refs for a line "<sha> <name>".
func (r *Repo) readPackedRef(name string) (gitobj.Hash, bool, error) {
	f, err := os.Open(filepath.Join(r.gitDir, "packed-refs"))
	if os.IsNotExist(err) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("%w: packed-refs: %v", ErrRefResolveFailed, err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	for scanner.Scan() {
		line := scanner.Text()
		if line == "" || line[0] == '#' || line[0] == '^' {
			continue
		}
		sp := strings.IndexByte(line, ' ')
		if sp < 0 {
			continue
		}
		if line[sp+1:] == name {
			h := gitobj.Hash(line[:sp])
			if !h.Valid() {
				return "", false, fmt.Errorf("%w: packed-refs: malformed sha %q", ErrRefResolveFailed, line[:sp])
			}
			return h, true, nil
		}
	}
	if err := scanner.Err(); err != nil {
		return "", false, fmt.Errorf("%w: packed-refs: %v", ErrRefResolveFailed, err)
	}
	return "", false, nil
}
