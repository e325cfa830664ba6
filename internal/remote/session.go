package remote

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
	"syscall"

	"github.com/chrislloyd/git-remote-sqlite/internal/logging"
	"github.com/chrislloyd/git-remote-sqlite/internal/protocol"
)

// Session runs the single-threaded, synchronous protocol loop: read one
// command line, execute it to completion, write its response, then loop.
// There is no cross-command state beyond the engine and the two
// connections it owns.
type Session struct {
	engine *Engine
	in     *bufio.Scanner
	out    io.Writer
	log    *logging.Logger
}

// NewSession wires a protocol loop around engine, reading commands from in
// and writing responses to out.
func NewSession(engine *Engine, in io.Reader, out io.Writer) *Session {
	return &Session{
		engine: engine,
		in:     bufio.NewScanner(in),
		out:    out,
		log:    logging.Default().Named("session"),
	}
}

// Run drives the loop until stdin reaches EOF, a command is fatal, or a
// broken pipe is observed on stdout (treated as a clean end — the host
// has simply closed the channel).
func (s *Session) Run() error {
	for s.in.Scan() {
		line := s.in.Text()
		if strings.TrimSpace(line) == "" {
			continue
		}

		cmd, err := protocol.ParseCommand(line)
		if err != nil {
			return fmt.Errorf("remote: protocol error: %w", err)
		}

		if err := s.dispatch(cmd); err != nil {
			if isBrokenPipe(err) {
				return nil
			}
			return err
		}
	}
	if err := s.in.Err(); err != nil {
		return fmt.Errorf("remote: stdin read: %w", err)
	}
	return nil
}

func (s *Session) dispatch(cmd protocol.Command) error {
	switch cmd.Kind {
	case protocol.KindCapabilities:
		return protocol.WriteCapabilities(s.out, s.engine.EnabledCapabilities(), "", "", "")

	case protocol.KindList, protocol.KindListForPush:
		refs, err := s.engine.List()
		if err != nil {
			return err
		}
		return protocol.WriteList(s.out, refs)

	case protocol.KindFetch:
		if err := s.engine.Fetch(); err != nil {
			return err
		}
		return protocol.WriteFetchComplete(s.out)

	case protocol.KindPush:
		results, err := s.engine.Push(cmd.Refspec)
		if err != nil {
			return err
		}
		return protocol.WritePushResults(s.out, results)

	case protocol.KindOption:
		switch s.engine.Option(cmd.OptionName) {
		case OptionOK:
			return protocol.WriteOptionOK(s.out)
		default:
			return protocol.WriteOptionUnsupported(s.out)
		}

	case protocol.KindImport, protocol.KindExport, protocol.KindConnect,
		protocol.KindStatelessConnect, protocol.KindGet:
		return fmt.Errorf("%w: %v", ErrUnimplemented, cmd.Kind)

	default:
		return fmt.Errorf("remote: unhandled command kind %v", cmd.Kind)
	}
}

func isBrokenPipe(err error) bool {
	return errors.Is(err, syscall.EPIPE) || errors.Is(err, io.ErrClosedPipe)
}
