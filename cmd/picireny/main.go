/*
Picireny reduces a structurally-valid but overlong "interesting" input down
to a smaller one that still triggers the same behavior, using hierarchical
delta debugging over a context-free grammar instead of plain character-level
minimization.

Usage:

	picireny [flags]

The flags are:

	-v, --version
		Give the current version of Picireny and then exit.

	-g, --grammar FILE
		Use the provided grammar bundle (a PICIRENY GRAMMAR or MANIFEST TOML
		file). Defaults to "grammar.toml" in the current working directory.

	-i, --input FILE
		The interesting input file to reduce. Required unless --resume is
		given.

	-s, --start RULE
		Override the grammar's declared start rule.

	--strategy NAME
		One of bfs, recursive, coarse-bfs, coarse-recursive. Defaults to bfs.

	--fixed-point
		Repeat the chosen strategy until a full pass removes nothing further.

	--hoist
		Also try replacing a removable non-terminal with one of its own
		same-named descendants, not just deleting it outright. Needed for
		grammars where a construct can contain another instance of itself.

	-w, --workers N
		Run up to N oracle calls concurrently per ddmin round instead of
		testing candidates one at a time. Defaults to 1 (sequential).

	-o, --oracle COMMAND
		External command invoked once per candidate; exit code 0 means
		interesting, 1 means not interesting, anything else is unresolved.
		The literal "{}" in any argument is replaced with the candidate
		file's path.

	-t, --trace
		Start an interactive session instead of running straight through:
		step pass by pass, inspect intermediate output, and save snapshots.

	--resume FILE
		Resume a session previously saved with the trace SAVE command
		instead of parsing --input from scratch.

	-d, --direct
		Force reading trace commands directly from stdin instead of going
		through GNU readline where possible.

	--literal-tree
		Treat --input as a hand-written JSON tree description (see
		hddtree.ParseLiteralJSON) instead of parsing it against the grammar
		bundle. Useful for exercising the reducer without a real front end.

Once a reduction finishes, the reduced input is written to stdout.
*/
package main

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dekarrin/picireny"
	"github.com/dekarrin/picireny/internal/engine"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/input"
	"github.com/dekarrin/picireny/internal/oracle"
	"github.com/dekarrin/picireny/internal/snapshot"
	"github.com/dekarrin/picireny/internal/textpreview"
	"github.com/dekarrin/picireny/internal/trace"
	"github.com/dekarrin/picireny/internal/unparse"
	"github.com/dekarrin/picireny/internal/version"
	"github.com/dekarrin/rosed"
	"github.com/spf13/pflag"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitReduceError indicates an unsuccessful program execution due to a
	// problem during reduction.
	ExitReduceError

	// ExitInitError indicates an unsuccessful program execution due to an
	// issue initializing the session.
	ExitInitError
)

const consoleOutputWidth = 80

var (
	returnCode int = ExitSuccess

	flagVersion    = pflag.BoolP("version", "v", false, "Gives the version info")
	grammarFile    = pflag.StringP("grammar", "g", "grammar.toml", "The PICIRENY grammar bundle or manifest file that defines the input's structure")
	inputFile      = pflag.StringP("input", "i", "", "The interesting input file to reduce")
	startRule      = pflag.StringP("start", "s", "", "Override the grammar's declared start rule")
	strategyName   = pflag.String("strategy", "bfs", "Reduction strategy: bfs, recursive, coarse-bfs, coarse-recursive")
	fixedPoint     = pflag.Bool("fixed-point", false, "Repeat the strategy until a full pass removes nothing further")
	hoist          = pflag.Bool("hoist", false, "Also try replacing a removable non-terminal with one of its own same-named descendants")
	workers        = pflag.IntP("workers", "w", 1, "Oracle calls to run concurrently per ddmin round; 1 tests sequentially")
	oracleCommand  = pflag.StringP("oracle", "o", "", "External command to classify each candidate by exit code")
	traceMode      = pflag.BoolP("trace", "t", false, "Start an interactive pass-by-pass session")
	resumeFile     = pflag.String("resume", "", "Resume a session from a previously saved snapshot file")
	forceDirect    = pflag.BoolP("direct", "d", false, "Force reading trace commands directly from stdin instead of via GNU readline")
	literalTree    = pflag.Bool("literal-tree", false, "Treat --input as a hand-written JSON tree description instead of parsing it")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	strategy, err := parseStrategy(*strategyName)
	if err != nil {
		printErr(err)
		returnCode = ExitInitError
		return
	}

	engCfg := engine.Config{Strategy: strategy, FixedPoint: *fixedPoint, Hoist: *hoist, Workers: *workers}

	oc, err := buildOracle()
	if err != nil {
		printErr(err)
		returnCode = ExitInitError
		return
	}

	tree, err := loadTree(oc, engCfg)
	if err != nil {
		printErr(err)
		returnCode = ExitInitError
		return
	}

	reducer := engine.New(oc, engCfg)

	ctx := context.Background()

	if *traceMode {
		if err := runTrace(ctx, tree, reducer); err != nil {
			printErr(err)
			returnCode = ExitReduceError
		}
		return
	}

	before := unparse.Default(tree)
	fmt.Fprintf(os.Stderr, "before (%d bytes): %s\n", len(before), textpreview.Truncate(before, consoleOutputWidth))

	passes, err := reducer.Reduce(ctx, tree)
	if err != nil {
		printErr(err)
		returnCode = ExitReduceError
		return
	}

	after := unparse.Default(tree)
	fmt.Fprintf(os.Stderr, "reduced in %d pass(es), %d -> %d bytes: %s\n", passes, len(before), len(after), textpreview.Truncate(after, consoleOutputWidth))
	fmt.Println(after)
}

// loadTree resumes a snapshot if one was given, otherwise parses --input and
// runs the full picireny.Session.Prepare pipeline (minimal replacements,
// recursion flattening, squeeze, hide-unremovable) against the result. Real
// grammar-driven parsing requires a hddtree.Builder wired in by the embedder
// of this command (an ANTLR-generated front end is outside this module's
// scope); absent --literal-tree, the default build of this binary will
// report that clearly instead of reducing anything.
//
// A resumed snapshot is never re-prepared: it was saved mid-reduction, after
// Prepare already ran once, and Prepare's structural rewrites are not safe
// to run twice against a tree that may already carry REMOVE states.
func loadTree(oc oracle.Oracle, engCfg engine.Config) (*hddtree.Tree, error) {
	if *resumeFile != "" {
		return snapshot.ReadFile(*resumeFile)
	}

	if *inputFile == "" {
		return nil, fmt.Errorf("--input is required unless --resume is given")
	}

	builder := hddtree.Builder(hddtree.NewLiteral(nil))
	if *literalTree {
		data, err := os.ReadFile(*inputFile)
		if err != nil {
			return nil, fmt.Errorf("reading literal tree %q: %w", *inputFile, err)
		}
		builder, err = hddtree.ParseLiteralJSON(data)
		if err != nil {
			return nil, err
		}
	}

	sess, err := picireny.NewSession(picireny.Options{
		GrammarBundlePath: *grammarFile,
		InputPath:         *inputFile,
		StartRule:         *startRule,
		Builder:           builder,
		Oracle:            oc,
		Engine:            engCfg,
	})
	if err != nil {
		return nil, err
	}
	if err := sess.Prepare(); err != nil {
		return nil, fmt.Errorf("preparing %q: %w", *inputFile, err)
	}
	return sess.Tree, nil
}

func buildOracle() (oracle.Oracle, error) {
	if *oracleCommand == "" {
		return nil, fmt.Errorf("--oracle is required")
	}
	parts := strings.Fields(*oracleCommand)
	return oracle.Subprocess{
		Command: parts[0],
		Args:    parts[1:],
	}, nil
}

func runTrace(ctx context.Context, tree *hddtree.Tree, reducer *engine.Reducer) error {
	var reader trace.Reader
	var err error
	if *forceDirect {
		reader = input.NewDirectReader(os.Stdin)
	} else {
		reader, err = input.NewInteractiveReader()
		if err != nil {
			reader = input.NewDirectReader(os.Stdin)
		}
	}
	defer reader.Close()

	sess := trace.NewSession(tree, reducer, os.Stdout)
	return sess.Run(ctx, reader)
}

func parseStrategy(name string) (engine.Strategy, error) {
	switch strings.ToLower(name) {
	case "bfs", "":
		return engine.BFS, nil
	case "recursive":
		return engine.Recursive, nil
	case "coarse-bfs":
		return engine.CoarseBFS, nil
	case "coarse-recursive":
		return engine.CoarseRecursive, nil
	default:
		return 0, fmt.Errorf("unknown strategy %q", name)
	}
}

func printErr(err error) {
	wrapped := rosed.Edit(fmt.Sprintf("ERROR: %s", err.Error())).Wrap(consoleOutputWidth).String()
	fmt.Fprintln(os.Stderr, wrapped)
}
