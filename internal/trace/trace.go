// Package trace drives an interactive, one-pass-at-a-time reduction
// session, reading commands the same way the teacher reads player commands
// (internal/input's DirectCommandReader / InteractiveCommandReader) instead
// of a dedicated parser.
package trace

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/dekarrin/picireny/internal/engine"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/snapshot"
	"github.com/dekarrin/picireny/internal/unparse"
)

// Reader is the contract trace needs from a command source; both of
// internal/input's readers satisfy it.
type Reader interface {
	ReadCommand() (string, error)
	Close() error
}

// Session drives one interactive trace over tree using r, stepping the
// reducer one pass at a time and printing state to out between steps.
type Session struct {
	Tree    *hddtree.Tree
	Reducer *engine.Reducer
	Out     io.Writer

	passes int
}

// NewSession returns a Session ready to Run.
func NewSession(tree *hddtree.Tree, r *engine.Reducer, out io.Writer) *Session {
	return &Session{Tree: tree, Reducer: r, Out: out}
}

// Run reads commands from r until QUIT or end of input. Recognized
// commands (case-insensitive): NEXT runs one reduction pass; SHOW prints
// the current unparse; SAVE <path> writes a snapshot; QUIT exits.
func (s *Session) Run(ctx context.Context, r Reader) error {
	fmt.Fprintf(s.Out, "%d nodes loaded, %d passes run so far\n", s.Tree.NumNodes(), s.passes)
	for {
		line, err := r.ReadCommand()
		if err != nil {
			if err == io.EOF {
				return nil
			}
			return err
		}

		cmd, arg := splitCommand(line)
		switch strings.ToUpper(cmd) {
		case "NEXT", "N":
			changed, err := s.Reducer.Step(ctx, s.Tree)
			if err != nil {
				fmt.Fprintf(s.Out, "ERROR: %s\n", err.Error())
				continue
			}
			s.passes++
			fmt.Fprintf(s.Out, "pass %d: changed=%v\n", s.passes, changed)
		case "SHOW", "S":
			fmt.Fprintln(s.Out, unparse.Default(s.Tree))
		case "SAVE":
			if arg == "" {
				fmt.Fprintln(s.Out, "ERROR: SAVE requires a file path")
				continue
			}
			if err := snapshot.WriteFile(arg, s.Tree); err != nil {
				fmt.Fprintf(s.Out, "ERROR: %s\n", err.Error())
				continue
			}
			fmt.Fprintf(s.Out, "saved to %s\n", arg)
		case "QUIT", "Q", "EXIT":
			return nil
		case "":
			// ignore blank lines surfaced by a Reader configured to allow them
		default:
			fmt.Fprintf(s.Out, "unrecognized command %q\n", cmd)
		}
	}
}

func splitCommand(line string) (cmd, arg string) {
	fields := strings.SplitN(strings.TrimSpace(line), " ", 2)
	cmd = fields[0]
	if len(fields) > 1 {
		arg = strings.TrimSpace(fields[1])
	}
	return cmd, arg
}
