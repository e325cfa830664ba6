package gitrepo

import (
	"bytes"
	"compress/zlib"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/chrislloyd/git-remote-sqlite/internal/gitobj"
)

// looseObjectPath is the real Git fan-out layout: objects/<2 hex>/<38 hex>.
func (r *Repo) looseObjectPath(h gitobj.Hash) string {
	s := string(h)
	return filepath.Join(r.gitDir, "objects", s[:2], s[2:])
}

// GetObject reads a loose object's declared kind and raw, uncompressed,
// post-header payload. Packed objects are out of scope; a SHA that
// exists only in a pack is reported as an object-lookup failure, not
// distinguished from one that does not exist at all.
func (r *Repo) GetObject(sha gitobj.Hash) (gitobj.Kind, []byte, error) {
	if !sha.Valid() {
		return "", nil, fmt.Errorf("%w: invalid sha %q", ErrObjectLookup, sha)
	}
	f, err := os.Open(r.looseObjectPath(sha))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", ErrObjectLookup, sha, err)
	}
	defer f.Close()

	zr, err := zlib.NewReader(f)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: corrupt zlib stream: %v", ErrObjectLookup, sha, err)
	}
	defer zr.Close()

	raw, err := io.ReadAll(zr)
	if err != nil {
		return "", nil, fmt.Errorf("%w: %s: %v", ErrObjectLookup, sha, err)
	}

	nul := bytes.IndexByte(raw, 0)
	if nul < 0 {
		return "", nil, fmt.Errorf("%w: %s: missing header terminator", ErrObjectLookup, sha)
	}
	header := raw[:nul]
	sp := bytes.IndexByte(header, ' ')
	if sp < 0 {
		return "", nil, fmt.Errorf("%w: %s: malformed header %q", ErrObjectLookup, sha, header)
	}
	kind := gitobj.Kind(header[:sp])
	if !gitobj.ValidKind(kind) {
		return "", nil, fmt.Errorf("%w: %s: %q", ErrInvalidObjectKind, sha, kind)
	}
	return kind, raw[nul+1:], nil
}

// PutObject writes a loose object of the given kind and returns the
// resulting SHA, which is the Git hash of (kind, data). Writes are
// atomic via temp file + rename.
func (r *Repo) PutObject(kind gitobj.Kind, data []byte) (gitobj.Hash, error) {
	if !gitobj.ValidKind(kind) {
		return "", fmt.Errorf("%w: %q", ErrInvalidObjectKind, kind)
	}
	sha := gitobj.HashObject(kind, data)

	if _, _, err := r.GetObject(sha); err == nil {
		return sha, nil // already present
	}

	dir := filepath.Join(r.gitDir, "objects", string(sha)[:2])
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("%w: mkdir %s: %v", ErrObjectWrite, dir, err)
	}

	tmp, err := os.CreateTemp(dir, ".tmp-*")
	if err != nil {
		return "", fmt.Errorf("%w: tempfile: %v", ErrObjectWrite, err)
	}
	tmpName := tmp.Name()

	zw := zlib.NewWriter(tmp)
	if _, err := zw.Write(gitobj.Envelope(kind, data)); err != nil {
		zw.Close()
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: %v", ErrObjectWrite, sha, err)
	}
	if err := zw.Close(); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: flush: %v", ErrObjectWrite, sha, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: close: %v", ErrObjectWrite, sha, err)
	}

	dest := r.looseObjectPath(sha)
	if err := os.Rename(tmpName, dest); err != nil {
		os.Remove(tmpName)
		return "", fmt.Errorf("%w: %s: rename: %v", ErrObjectWrite, sha, err)
	}
	return sha, nil
}
