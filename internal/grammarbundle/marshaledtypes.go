package grammarbundle

type topLevelManifest struct {
	Format string   `toml:"format"`
	Type   string   `toml:"type"`
	Files  []string `toml:"files"`
}

// topLevelGrammarData is the full structure of a GRAMMAR-type bundle file.
type topLevelGrammarData struct {
	Format string `toml:"format"`
	Type   string `toml:"type"`

	// Start names the grammar's start rule.
	Start string `toml:"start"`

	Tokens  []tokenDef     `toml:"token"`
	Rules   []ruleDef      `toml:"rule"`
	Islands []islandDef    `toml:"island"`
	Overrides map[string]string `toml:"overrides"`
}

type tokenDef struct {
	Name    string `toml:"name"`
	Literal string `toml:"literal"`
	Pattern string `toml:"pattern"`
	Hidden  bool   `toml:"hidden"`
}

// ruleDef is one nonterminal's set of alternative productions. Each
// production is a list of symbol references; a symbol may carry a trailing
// "?", "*", or "+" to mark it optional, star-repeated, or plus-repeated.
type ruleDef struct {
	NonTerminal string     `toml:"nonterminal"`
	Productions [][]string `toml:"productions"`
}

// islandDef names a sub-grammar embedded inside a token's text (spec S2,
// "island grammar" scenario: e.g. JSON embedded inside an INI value).
// Pattern must contain exactly one named capture group "island" bounding
// the embedded text; StartRule names the rule to parse that text against,
// in a grammar bundle loaded separately by the caller.
type islandDef struct {
	Name      string `toml:"name"`
	Pattern   string `toml:"pattern"`
	StartRule string `toml:"start_rule"`
	Grammar   string `toml:"grammar"`
}
