// Package replace computes, for every rule and token in a grammar, the
// shortest string that may validly substitute for it in its own
// grammatical context (spec §4.1). It is the foundation the tree
// transformations and the HDD engine build removability decisions on top
// of: a node can only ever be set to REMOVE if its cached replacement is
// known.
package replace

import (
	"fmt"
	"regexp"

	"github.com/dekarrin/picireny/internal/grammar"
	"github.com/dekarrin/picireny/internal/hdderrors"
)

// maxTokenSearchLen bounds the brute-force BFS used to find a token
// pattern's shortest accepted string. Grammars in practice define tokens
// with short minimal forms (a single punctuation rune, a short keyword);
// this bound keeps the search tractable without needing a real regex-to-
// DFA compiler, which nothing in the example pack provides (see
// DESIGN.md).
const maxTokenSearchLen = 4

// defaultAlphabet is used for BFS when a token's pattern contains no
// literal runes of its own to seed the search alphabet from.
const defaultAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789 \t\n"

// regexMeta is the set of characters treated as regex syntax rather than
// literal content when deriving a search alphabet from a token's pattern.
const regexMeta = `\.^$*+?()[]{}|`

// Result holds the computed replacement strings.
type Result struct {
	Tokens map[string]string
	Rules  map[string]string
}

// Compute runs the replacement computer over g and returns the minimal
// replacement for every rule and token. It fails with
// ReplacementUnresolvable if any mandatory rule has no terminating
// expansion (e.g. a left-recursive rule with no non-recursive
// alternative).
func Compute(g *grammar.Grammar) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	tokens, err := computeTokens(g)
	if err != nil {
		return nil, err
	}

	rules, err := computeRules(g, tokens)
	if err != nil {
		return nil, err
	}

	return &Result{Tokens: tokens, Rules: rules}, nil
}

func computeTokens(g *grammar.Grammar) (map[string]string, error) {
	out := make(map[string]string, len(g.Tokens))
	for _, name := range g.TokenOrder {
		tok := g.Tokens[name]
		if tok.Literal != "" {
			out[name] = tok.Literal
			continue
		}

		rep, ok := shortestMatch(tok.Pattern, maxTokenSearchLen)
		if !ok {
			return nil, hdderrors.ReplacementUnresolvable(name)
		}
		out[name] = rep
	}
	return out, nil
}

// shortestMatch performs a bounded BFS for the shortest string that
// fully matches pattern, checking the empty string first (spec §4.1,
// "rep = \"\" if the empty string is accepted by the lexer rule in
// isolation"). Acceptance testing itself is delegated to the standard
// library's regexp package, exactly as the teacher's own lexer
// (internal/ictiobus/lex) does for matching token patterns against input
// text; only the BFS enumeration of candidates is the reducer's own.
func shortestMatch(pattern string, maxLen int) (string, bool) {
	re, err := regexp.Compile(`^(?:` + pattern + `)$`)
	if err != nil {
		return "", false
	}

	if re.MatchString("") {
		return "", true
	}

	alphabet := searchAlphabet(pattern)

	type item struct{ s string }
	queue := []item{{""}}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if len(cur.s) >= maxLen {
			continue
		}
		for _, r := range alphabet {
			cand := cur.s + string(r)
			if re.MatchString(cand) {
				return cand, true
			}
			queue = append(queue, item{cand})
		}
	}
	return "", false
}

// searchAlphabet extracts the distinct literal runes appearing in pattern
// (skipping regex metacharacters), falling back to a default alphabet if
// none are found — e.g. a pattern like `\d+` contributes no literal runes
// of its own, so BFS falls back to digits/letters/space, which will find
// "0"-"9" style candidates for any \d-based pattern.
func searchAlphabet(pattern string) string {
	seen := make(map[rune]bool)
	var out []rune
	skipNext := false
	for _, r := range pattern {
		if skipNext {
			skipNext = false
			continue
		}
		if r == '\\' {
			skipNext = true
			continue
		}
		if containsRune(regexMeta, r) {
			continue
		}
		if !seen[r] {
			seen[r] = true
			out = append(out, r)
		}
	}
	if len(out) == 0 {
		return defaultAlphabet
	}
	return string(out) + defaultAlphabet
}

func containsRune(s string, r rune) bool {
	for _, c := range s {
		if c == r {
			return true
		}
	}
	return false
}

func computeRules(g *grammar.Grammar, tokens map[string]string) (map[string]string, error) {
	resolved := make(map[string]string)
	for name, override := range g.Overrides {
		resolved[name] = override
	}

	for {
		changed := false
		for _, name := range g.RuleOrder {
			if _, overridden := g.Overrides[name]; overridden {
				continue
			}
			rep, ok := bestProduction(g.Rules[name], tokens, resolved)
			if !ok {
				continue
			}
			if cur, done := resolved[name]; !done || len(rep) < len(cur) {
				resolved[name] = rep
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	for _, name := range g.RuleOrder {
		if _, ok := resolved[name]; !ok {
			return nil, hdderrors.ReplacementUnresolvable(name)
		}
	}
	return resolved, nil
}

// bestProduction returns the shortest resolvable production of r, with
// ties broken by production order (first alternative wins, spec §4.1 and
// §9 open question resolution).
func bestProduction(r *grammar.Rule, tokens, rules map[string]string) (string, bool) {
	best := ""
	bestLen := -1
	for _, prod := range r.Productions {
		rep, ok := productionReplacement(prod, tokens, rules)
		if !ok {
			continue
		}
		if bestLen == -1 || len(rep) < bestLen {
			best = rep
			bestLen = len(rep)
		}
	}
	return best, bestLen != -1
}

func productionReplacement(prod grammar.Production, tokens, rules map[string]string) (string, bool) {
	out := ""
	for _, elem := range prod {
		switch elem.Quant {
		case grammar.QuantOptional, grammar.QuantStar:
			// Contributes empty unconditionally: the production may omit
			// this element entirely, so resolving its own replacement is
			// unnecessary (spec §4.1, "parts inside (...)? or (...)*
			// contribute empty").
			continue
		default:
			rep, ok := elemReplacement(elem, tokens, rules)
			if !ok {
				return "", false
			}
			out += rep
		}
	}
	return out, true
}

func elemReplacement(elem grammar.Elem, tokens, rules map[string]string) (string, bool) {
	if elem.Terminal {
		rep, ok := tokens[elem.Symbol]
		return rep, ok
	}
	rep, ok := rules[elem.Symbol]
	return rep, ok
}

// String implements fmt.Stringer for debugging/diagnostic output.
func (r *Result) String() string {
	return fmt.Sprintf("replace.Result{%d tokens, %d rules}", len(r.Tokens), len(r.Rules))
}
