package grammarbundle

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/dekarrin/picireny/internal/grammar"
)

// IslandSpec is a parsed island-grammar reference: text matching Pattern
// should be re-parsed, starting at StartRule, against the grammar named by
// Grammar (spec S2).
type IslandSpec struct {
	Name      string
	Pattern   *regexp.Regexp
	StartRule string
	Grammar   string
}

// Bundle is a fully parsed, not-yet-validated grammar plus any island
// specifications it declares.
type Bundle struct {
	Grammar *grammar.Grammar
	Islands []IslandSpec
}

func build(data topLevelGrammarData) (*Bundle, error) {
	g := grammar.New()
	g.StartRule = data.Start
	for k, v := range data.Overrides {
		g.Overrides[k] = v
	}

	tokenNames := make(map[string]bool, len(data.Tokens))
	for _, td := range data.Tokens {
		tokenNames[td.Name] = true
	}

	for _, td := range data.Tokens {
		g.AddToken(&grammar.TokenDef{
			Name:    td.Name,
			Literal: td.Literal,
			Pattern: td.Pattern,
			Hidden:  td.Hidden,
		})
	}

	for _, rd := range data.Rules {
		r := &grammar.Rule{NonTerminal: rd.NonTerminal}
		for _, prod := range rd.Productions {
			elems := make(grammar.Production, len(prod))
			for i, sym := range prod {
				elems[i] = parseElem(sym, tokenNames)
			}
			r.Productions = append(r.Productions, elems)
		}
		g.AddRule(r)
	}

	islands := make([]IslandSpec, 0, len(data.Islands))
	for _, id := range data.Islands {
		re, err := regexp.Compile(id.Pattern)
		if err != nil {
			return nil, fmt.Errorf("island %q: invalid pattern: %w", id.Name, err)
		}
		if re.SubexpIndex("island") < 0 {
			return nil, fmt.Errorf("island %q: pattern has no named capture group \"island\"", id.Name)
		}
		islands = append(islands, IslandSpec{
			Name:      id.Name,
			Pattern:   re,
			StartRule: id.StartRule,
			Grammar:   id.Grammar,
		})
	}

	if err := g.Validate(); err != nil {
		return nil, err
	}

	return &Bundle{Grammar: g, Islands: islands}, nil
}

// parseElem splits a trailing quantifier suffix off sym and classifies it as
// a terminal (if it names a defined token) or nonterminal reference.
func parseElem(sym string, tokenNames map[string]bool) grammar.Elem {
	quant := grammar.QuantOne
	base := sym
	if n := len(sym); n > 0 {
		switch sym[n-1] {
		case '?':
			quant = grammar.QuantOptional
			base = sym[:n-1]
		case '*':
			quant = grammar.QuantStar
			base = sym[:n-1]
		case '+':
			quant = grammar.QuantPlus
			base = sym[:n-1]
		}
	}
	base = strings.TrimSpace(base)

	var e grammar.Elem
	if tokenNames[base] {
		e = grammar.Term(base)
	} else {
		e = grammar.One(base)
	}
	return e.Quantified(quant)
}
