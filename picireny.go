// Package picireny drives one hierarchical delta debugging reduction
// end to end: parse (via a caller-supplied Builder), compute minimal
// replacements, apply structural transforms, run the configured HDD
// strategy against an oracle, and unparse the 1-tree-minimal result.
//
// Grounded on the teacher's own root package tunaq's Engine type
// (engine.go): a small struct assembled by a New constructor that loads
// its inputs (there, a TQW world file; here, a grammar bundle and an
// input file) and exposes one main driving method (there, RunUntilQuit;
// here, Reduce).
package picireny

import (
	"context"
	"fmt"
	"os"

	"github.com/dekarrin/picireny/internal/engine"
	"github.com/dekarrin/picireny/internal/grammar"
	"github.com/dekarrin/picireny/internal/grammarbundle"
	"github.com/dekarrin/picireny/internal/hddtree"
	"github.com/dekarrin/picireny/internal/oracle"
	"github.com/dekarrin/picireny/internal/replace"
	"github.com/dekarrin/picireny/internal/transform"
	"github.com/dekarrin/picireny/internal/unparse"
)

// Session holds everything one reduction run needs.
type Session struct {
	Tree    *hddtree.Tree
	Grammar *grammar.Grammar
	Islands []grammarbundle.IslandSpec

	Oracle oracle.Oracle
	Engine engine.Config
}

// Options configures Session construction.
type Options struct {
	// GrammarBundlePath is the TOML GRAMMAR or MANIFEST file to load (spec
	// §1's grammar front-end boundary; internal/grammarbundle loads it).
	GrammarBundlePath string

	// InputPath is the original interesting input to reduce.
	InputPath string

	// StartRule overrides the grammar's own declared start rule, if set.
	StartRule string

	// Builder parses InputPath's bytes into a hddtree.Tree. The real
	// ANTLR-backed parser is out of this module's scope (spec §1); callers
	// wire their own, or use hddtree.NewLiteral for tests and debugging.
	Builder hddtree.Builder

	Oracle oracle.Oracle
	Engine engine.Config
}

// NewSession loads the grammar bundle and input file named by opts and
// parses the input into a tree ready for reduction.
func NewSession(opts Options) (*Session, error) {
	if opts.Builder == nil {
		return nil, fmt.Errorf("no tree Builder configured: a real front end is outside this module's scope (see hddtree.Builder), so callers must supply one")
	}

	bundle, err := grammarbundle.Load(opts.GrammarBundlePath)
	if err != nil {
		return nil, fmt.Errorf("loading grammar bundle %q: %w", opts.GrammarBundlePath, err)
	}

	startRule := opts.StartRule
	if startRule == "" {
		startRule = bundle.Grammar.StartRule
	}

	inputData, err := os.ReadFile(opts.InputPath)
	if err != nil {
		return nil, fmt.Errorf("reading input %q: %w", opts.InputPath, err)
	}

	tree, err := opts.Builder.Build(inputData, opts.GrammarBundlePath, startRule)
	if err != nil {
		return nil, fmt.Errorf("parsing %q: %w", opts.InputPath, err)
	}

	return &Session{
		Tree:    tree,
		Grammar: bundle.Grammar,
		Islands: bundle.Islands,
		Oracle:  opts.Oracle,
		Engine:  opts.Engine,
	}, nil
}

// Result reports the outcome of a completed reduction.
type Result struct {
	Output      string
	OriginalLen int
	FinalLen    int
	Passes      int
}

// Prepare runs everything Reduce does short of the HDD strategy itself:
// computes minimal replacements from s.Grammar, applies them to s.Tree, then
// flattens recursion, squeezes unary chains, and hides unremovable nodes.
// Callers that need to drive the engine incrementally (e.g. cmd/picireny's
// --trace mode) call Prepare once up front and then step an
// *engine.Reducer themselves; Reduce calls it automatically. Prepare must
// never be run twice against the same tree: the transforms it runs are
// idempotent individually but assume a freshly-parsed tree, not one that
// HDD has already started committing REMOVE states into.
func (s *Session) Prepare() error {
	rep, err := replace.Compute(s.Grammar)
	if err != nil {
		return err
	}
	replace.ApplyToTree(s.Tree, rep)

	pipeline := []transform.Pass{
		transform.FlattenRecursion{},
		transform.Squeeze{},
		transform.HideUnremovable{},
	}
	return transform.Pipeline(s.Tree, pipeline...)
}

// Reduce runs the full pipeline: Prepare, then drive the configured HDD
// strategy to a 1-tree-minimal result.
func (s *Session) Reduce(ctx context.Context) (Result, error) {
	original := unparse.Default(s.Tree)

	if err := s.Prepare(); err != nil {
		return Result{}, err
	}

	r := engine.New(s.Oracle, s.Engine)
	passes, err := r.Reduce(ctx, s.Tree)
	if err != nil {
		return Result{}, err
	}

	output := unparse.Default(s.Tree)
	return Result{
		Output:      output,
		OriginalLen: len(original),
		FinalLen:    len(output),
		Passes:      passes,
	}, nil
}
