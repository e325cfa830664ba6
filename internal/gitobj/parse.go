package gitobj

import (
	"bytes"
	"fmt"
)

// ParseTree decodes a Git tree object's binary payload into its entries.
// Each record is "<mode> <name>\0<20 raw hash bytes>", repeated.
func ParseTree(data []byte) ([]TreeEntry, error) {
	var entries []TreeEntry
	for len(data) > 0 {
		sp := bytes.IndexByte(data, ' ')
		if sp < 0 {
			return nil, fmt.Errorf("gitobj: malformed tree entry: missing mode separator")
		}
		mode := string(data[:sp])
		rest := data[sp+1:]

		nul := bytes.IndexByte(rest, 0)
		if nul < 0 {
			return nil, fmt.Errorf("gitobj: malformed tree entry: missing name terminator")
		}
		name := string(rest[:nul])
		rest = rest[nul+1:]

		if len(rest) < 20 {
			return nil, fmt.Errorf("gitobj: malformed tree entry: short hash")
		}
		h := Hash(hexEncode(rest[:20]))
		entries = append(entries, TreeEntry{Mode: mode, Name: name, Hash: h})
		data = rest[20:]
	}
	return entries, nil
}

func hexEncode(b []byte) string {
	const digits = "0123456789abcdef"
	out := make([]byte, len(b)*2)
	for i, v := range b {
		out[i*2] = digits[v>>4]
		out[i*2+1] = digits[v&0xf]
	}
	return string(out)
}

// CommitRefs returns the tree hash and parent hashes named by a commit
// object's text payload, per gitformat-commit(5): a run of "<key> <value>"
// header lines ("tree", then zero or more "parent"), ending at the first
// blank line that introduces the commit message.
func CommitRefs(data []byte) (tree Hash, parents []Hash, err error) {
	for _, line := range bytes.Split(data, []byte("\n")) {
		if len(line) == 0 {
			break // blank line: end of headers
		}
		sp := bytes.IndexByte(line, ' ')
		if sp < 0 {
			continue // headers like gpgsig continuation lines start with a space, never reach here first
		}
		key := string(line[:sp])
		value := string(line[sp+1:])
		switch key {
		case "tree":
			if len(value) != HashLen {
				return "", nil, fmt.Errorf("gitobj: malformed commit: bad tree hash %q", value)
			}
			tree = Hash(value)
		case "parent":
			if len(value) != HashLen {
				return "", nil, fmt.Errorf("gitobj: malformed commit: bad parent hash %q", value)
			}
			parents = append(parents, Hash(value))
		}
	}
	if tree == "" {
		return "", nil, fmt.Errorf("gitobj: malformed commit: missing tree header")
	}
	return tree, parents, nil
}

// TagTarget returns the object hash a Git tag object's text payload points
// at, per gitformat-tag(5): the first header line is "object <sha>".
func TagTarget(data []byte) (Hash, error) {
	nl := bytes.IndexByte(data, '\n')
	line := data
	if nl >= 0 {
		line = data[:nl]
	}
	const prefix = "object "
	if !bytes.HasPrefix(line, []byte(prefix)) {
		return "", fmt.Errorf("gitobj: malformed tag: missing object header")
	}
	value := string(line[len(prefix):])
	if len(value) != HashLen {
		return "", fmt.Errorf("gitobj: malformed tag: bad object hash %q", value)
	}
	return Hash(value), nil
}

// ReferencedHashes returns every hash a single object of the given kind
// directly points at: a tree's entries, a commit's tree and parents, a
// tag's target. Blobs reference nothing.
func ReferencedHashes(kind Kind, data []byte) ([]Hash, error) {
	switch kind {
	case KindBlob:
		return nil, nil
	case KindTree:
		entries, err := ParseTree(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, len(entries))
		for i, e := range entries {
			refs[i] = e.Hash
		}
		return refs, nil
	case KindCommit:
		tree, parents, err := CommitRefs(data)
		if err != nil {
			return nil, err
		}
		refs := make([]Hash, 0, 1+len(parents))
		refs = append(refs, tree)
		refs = append(refs, parents...)
		return refs, nil
	case KindTag:
		target, err := TagTarget(data)
		if err != nil {
			return nil, err
		}
		return []Hash{target}, nil
	default:
		return nil, fmt.Errorf("gitobj: unsupported object kind %q", kind)
	}
}
