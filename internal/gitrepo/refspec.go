package gitrepo

import (
	"fmt"
	"strings"
)

// Direction selects push vs. fetch refspec semantics.
type Direction int

const (
	DirectionPush Direction = iota
	DirectionFetch
)

// Refspec is a parsed `[+]src:dst` mapping, or a lone `src` with Dst left
// empty.
type Refspec struct {
	Src   string
	Dst   string
	Force bool
}

// ParseRefspec parses text as Git does: an optional leading '+' marks a
// force update, then either "src:dst" or a lone "src". Direction is
// accepted for symmetry with callers that track it, but this
// implementation treats push and fetch refspec grammar identically (only
// the engine's use of the parsed form differs between the two
// directions).
func ParseRefspec(text string, direction Direction) (Refspec, error) {
	_ = direction
	if text == "" {
		return Refspec{}, fmt.Errorf("%w: empty refspec", ErrRefspecParse)
	}

	rest := text
	var force bool
	if strings.HasPrefix(rest, "+") {
		force = true
		rest = rest[1:]
	}

	if rest == "" {
		return Refspec{}, fmt.Errorf("%w: %q: empty after force marker", ErrRefspecParse, text)
	}

	if idx := strings.IndexByte(rest, ':'); idx >= 0 {
		src := rest[:idx]
		dst := rest[idx+1:]
		if strings.Contains(dst, ":") {
			return Refspec{}, fmt.Errorf("%w: %q: multiple ':' separators", ErrRefspecParse, text)
		}
		if src == "" || dst == "" {
			return Refspec{}, fmt.Errorf("%w: %q: empty src or dst", ErrRefspecParse, text)
		}
		return Refspec{Src: src, Dst: dst, Force: force}, nil
	}

	return Refspec{Src: rest, Dst: "", Force: force}, nil
}
