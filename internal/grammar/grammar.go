// Package grammar is the in-memory representation of the context-free
// grammar the reducer's tree was parsed against: rule definitions with
// ordered alternatives, optional/star/plus quantifiers, and token
// definitions (fixed literal or regex). It is deliberately small — the
// grammar here exists only to let the replacement computer (internal
// package replace) and the tree transformations compute minimal
// replacements and removability, not to parse anything itself (spec §1,
// "out of scope: the ANTLR grammar front-end").
//
// Shape grounded on the (Rule{NonTerminal, Productions}) usage shown by
// the teacher's own internal/ictiobus/grammar package tests, generalized
// here with quantifier and token-definition fields the reducer needs that
// the teacher's LR-table-building grammar type does not.
package grammar

import "github.com/dekarrin/picireny/internal/hdderrors"

// Quant is the quantifier attached to a production element.
type Quant int

const (
	// QuantOne means the element occurs exactly once.
	QuantOne Quant = iota
	// QuantOptional means the element occurs zero or one times ("?").
	QuantOptional
	// QuantStar means the element occurs zero or more times ("*").
	QuantStar
	// QuantPlus means the element occurs one or more times ("+").
	QuantPlus
)

// Elem is one symbol reference within a Production.
type Elem struct {
	// Symbol is the name of the referenced terminal or nonterminal.
	Symbol string

	// Terminal is whether Symbol names a token rather than a rule.
	Terminal bool

	Quant Quant
}

// One returns an Elem referencing a nonterminal symbol exactly once.
func One(symbol string) Elem {
	return Elem{Symbol: symbol}
}

// Term returns an Elem referencing a terminal symbol exactly once.
func Term(symbol string) Elem {
	return Elem{Symbol: symbol, Terminal: true}
}

// Quantified returns a copy of e with its quantifier set to q.
func (e Elem) Quantified(q Quant) Elem {
	e.Quant = q
	return e
}

// Production is one alternative right-hand side of a Rule.
type Production []Elem

// Rule is a grammar rule: a nonterminal with one or more ordered
// alternative productions.
type Rule struct {
	NonTerminal string
	Productions []Production
}

// TokenDef describes a terminal's textual form.
type TokenDef struct {
	Name string

	// Literal, if non-empty, is the token's single fixed textual form (a
	// keyword or fixed punctuation token).
	Literal string

	// Pattern is the token's defining regex, consulted when Literal is
	// empty. It is an unanchored inner pattern; callers wrap it for full-
	// match testing.
	Pattern string

	// Hidden marks a token produced on a hidden channel (whitespace,
	// comments): it unparses but does not participate in rule productions.
	Hidden bool
}

// Grammar is a complete set of rules and token definitions, plus any
// manual replacement overrides (spec §4.1, "Users may override any rule's
// replacement via configuration").
type Grammar struct {
	Rules     map[string]*Rule
	RuleOrder []string

	Tokens     map[string]*TokenDef
	TokenOrder []string

	StartRule string

	// Overrides maps a rule name directly to a user-supplied replacement
	// string, bypassing the fixed-point computation for that rule.
	Overrides map[string]string
}

// New returns an empty Grammar ready to have rules and tokens added.
func New() *Grammar {
	return &Grammar{
		Rules:     make(map[string]*Rule),
		Tokens:    make(map[string]*TokenDef),
		Overrides: make(map[string]string),
	}
}

// AddRule adds r to the grammar, preserving insertion order for
// deterministic iteration (spec §4.1, "ties broken by alternative order in
// the grammar source (first wins) for determinism" depends on stable rule
// and production ordering throughout).
func (g *Grammar) AddRule(r *Rule) {
	if _, exists := g.Rules[r.NonTerminal]; !exists {
		g.RuleOrder = append(g.RuleOrder, r.NonTerminal)
	}
	g.Rules[r.NonTerminal] = r
}

// AddToken adds t to the grammar.
func (g *Grammar) AddToken(t *TokenDef) {
	if _, exists := g.Tokens[t.Name]; !exists {
		g.TokenOrder = append(g.TokenOrder, t.Name)
	}
	g.Tokens[t.Name] = t
}

// Validate checks that the grammar is well formed: it has at least one
// rule, at least one token, a start rule that is defined if one is named
// (an empty StartRule is accepted), and every symbol
// referenced by a production is defined as either a rule or a token.
// Grounded on the validation cases exercised by the teacher's
// internal/ictiobus/grammar package tests (empty grammar, no rules, no
// terminals all rejected).
func (g *Grammar) Validate() error {
	if len(g.Rules) == 0 {
		return hdderrors.Grammar("grammar has no rules")
	}
	if len(g.Tokens) == 0 {
		return hdderrors.Grammar("grammar has no terminals")
	}
	if g.StartRule != "" {
		if _, ok := g.Rules[g.StartRule]; !ok {
			return hdderrors.Grammarf("start rule %q is not defined", g.StartRule)
		}
	}

	for _, name := range g.RuleOrder {
		r := g.Rules[name]
		for pi, prod := range r.Productions {
			for _, elem := range prod {
				if elem.Terminal {
					if _, ok := g.Tokens[elem.Symbol]; !ok {
						return hdderrors.Grammarf("rule %q production %d references undefined token %q", name, pi, elem.Symbol)
					}
				} else {
					if _, ok := g.Rules[elem.Symbol]; !ok {
						return hdderrors.Grammarf("rule %q production %d references undefined rule %q", name, pi, elem.Symbol)
					}
				}
			}
		}
	}
	return nil
}
