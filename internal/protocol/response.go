package protocol

import (
	"fmt"
	"io"
	"strings"
)

// CapabilityOrder is the full ordered capability set a remote helper may
// advertise. WriteCapabilities emits only the ones present in the
// enabled set, in this order.
var CapabilityOrder = []string{
	"import", "export", "push", "fetch", "connect", "stateless-connect",
	"check-connectivity", "get", "bidi-import", "signed-tags",
	"object-format", "no-private-update", "progress", "option",
}

// WriteCapabilities renders the `capabilities` response: the literal
// header, one line per enabled capability (in CapabilityOrder), optional
// refspec/export-marks/import-marks lines, then a blank terminator.
func WriteCapabilities(w io.Writer, enabled map[string]bool, refspec, exportMarks, importMarks string) error {
	if _, err := fmt.Fprintln(w, "capabilities"); err != nil {
		return err
	}
	for _, cap := range CapabilityOrder {
		if enabled[cap] {
			if _, err := fmt.Fprintln(w, cap); err != nil {
				return err
			}
		}
	}
	if refspec != "" {
		if _, err := fmt.Fprintf(w, "refspec %s\n", refspec); err != nil {
			return err
		}
	}
	if exportMarks != "" {
		if _, err := fmt.Fprintf(w, "export-marks %s\n", exportMarks); err != nil {
			return err
		}
	}
	if importMarks != "" {
		if _, err := fmt.Fprintf(w, "import-marks %s\n", importMarks); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// KeyValue is one `:key value` attribute pair in a keyword-form list line.
type KeyValue struct {
	Key   string
	Value string
}

// RefLine is one line of a `list` response block. Exactly one of Sha,
// SymbolicTarget, Unknown, or Keywords applies; they are mutually
// exclusive.
type RefLine struct {
	Name           string
	Sha            string
	SymbolicTarget string
	Unknown        bool
	Keywords       []KeyValue
	Attrs          []string
}

func (r RefLine) render() string {
	var prefix string
	switch {
	case len(r.Keywords) > 0:
		parts := make([]string, len(r.Keywords))
		for i, kv := range r.Keywords {
			parts[i] = ":" + kv.Key + " " + kv.Value
		}
		prefix = strings.Join(parts, " ")
	case r.Unknown:
		prefix = "?"
	case r.SymbolicTarget != "":
		prefix = "@" + r.SymbolicTarget
	default:
		prefix = r.Sha
	}
	var b strings.Builder
	b.WriteString(prefix)
	b.WriteByte(' ')
	b.WriteString(r.Name)
	for _, a := range r.Attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	return b.String()
}

// WriteList renders a `list` response block: one line per ref, then a
// blank terminator.
func WriteList(w io.Writer, refs []RefLine) error {
	for _, r := range refs {
		if _, err := fmt.Fprintln(w, r.render()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteOptionOK renders the `option` response for an accepted option.
func WriteOptionOK(w io.Writer) error {
	_, err := fmt.Fprintln(w, "ok")
	return err
}

// WriteOptionUnsupported renders the `option` response for a recognized
// but unsupported option.
func WriteOptionUnsupported(w io.Writer) error {
	_, err := fmt.Fprintln(w, "unsupported")
	return err
}

// WriteOptionError renders the `option` response for a rejected option.
func WriteOptionError(w io.Writer, message string) error {
	_, err := fmt.Fprintf(w, "error %s\n", message)
	return err
}

// WriteFetchComplete renders the `fetch` response signaling all requested
// objects are now present locally: a single blank line.
func WriteFetchComplete(w io.Writer) error {
	_, err := fmt.Fprintln(w)
	return err
}

// WriteFetchLock renders the `fetch` response reporting a lockfile the
// host should be aware of.
func WriteFetchLock(w io.Writer, path string) error {
	_, err := fmt.Fprintf(w, "lock %s\n", path)
	return err
}

// WriteFetchConnectivityOK renders the `fetch` response confirming
// connectivity without transferring objects.
func WriteFetchConnectivityOK(w io.Writer) error {
	_, err := fmt.Fprintln(w, "connectivity-ok")
	return err
}

// PushResult is one outcome line in a `push` response block.
type PushResult struct {
	Dst string
	Err string // empty on success
}

func (r PushResult) render() string {
	if r.Err == "" {
		return "ok " + r.Dst
	}
	return "error " + r.Dst + " " + r.Err
}

// WritePushResults renders a `push` response block: one result line per
// refspec, then a blank terminator.
func WritePushResults(w io.Writer, results []PushResult) error {
	for _, r := range results {
		if _, err := fmt.Fprintln(w, r.render()); err != nil {
			return err
		}
	}
	_, err := fmt.Fprintln(w)
	return err
}

// WriteConnectEstablished renders the `connect`/`stateless-connect`
// response for a successfully opened channel: a single blank line.
func WriteConnectEstablished(w io.Writer) error {
	_, err := fmt.Fprintln(w)
	return err
}

// WriteConnectFallback renders the `connect`/`stateless-connect` response
// telling the host to fall back to another transport.
func WriteConnectFallback(w io.Writer) error {
	_, err := fmt.Fprintln(w, "fallback")
	return err
}
