package gitrepo

import "errors"

// Repo-level error kinds. Refspec-parse and ref-resolve failures surface
// to the host as structured push-result errors; the rest are fatal to
// the current command.
var (
	ErrOpenFailed       = errors.New("gitrepo: open failed")
	ErrRefResolveFailed = errors.New("gitrepo: ref resolve failed")
	ErrObjectLookup     = errors.New("gitrepo: object lookup failed")
	ErrObjectWrite      = errors.New("gitrepo: object write failed")
	ErrInvalidObjectKind = errors.New("gitrepo: invalid object kind")
	ErrRefspecParse     = errors.New("gitrepo: refspec parse failed")
)
