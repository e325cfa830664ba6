// Package gitrepo is a bounded capability surface over a local Git working
// repository: ref resolution, loose-object read/write, and refspec
// parsing. It never shells out to git; it speaks the on-disk loose-object
// format directly.
package gitrepo

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/chrislloyd/git-remote-sqlite/internal/logging"
)

// Repo is a handle on an opened Git directory (a GIT_DIR, not a working
// tree root — remote helpers are always invoked with GIT_DIR set by Git
// itself, so there is no upward .git discovery to perform).
type Repo struct {
	gitDir string
	log    *logging.Logger
}

// Open validates that gitDir looks like a Git directory (it has an
// objects/ subdirectory) and returns a handle on it. Initialization is
// otherwise a no-op: loose-object directories are created lazily on
// first write.
func Open(gitDir string) (*Repo, error) {
	if gitDir == "" {
		return nil, fmt.Errorf("%w: GIT_DIR not set", ErrOpenFailed)
	}
	info, err := os.Stat(filepath.Join(gitDir, "objects"))
	if err != nil || !info.IsDir() {
		return nil, fmt.Errorf("%w: %s is not a git directory", ErrOpenFailed, gitDir)
	}
	return &Repo{gitDir: gitDir, log: logging.Default().Named("gitrepo")}, nil
}

// GitDir returns the directory this Repo was opened against.
func (r *Repo) GitDir() string { return r.gitDir }
