package hddtree

import "fmt"

// Position is a source location: a 1-indexed line and a 0-indexed column
// immediately after the last character described by the position. It is
// advisory only; per the unparser's design, unparse never reads Position,
// only child order and node State, so stale positions after a structural
// rewrite do not affect correctness (see spec §4.4, §9 open question on
// post-unroll position values).
type Position struct {
	Line int
	Col  int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Col)
}

// Span is the (start, end) source extent of a node.
type Span struct {
	Start Position
	End   Position
}

func (s Span) String() string {
	return fmt.Sprintf("%s-%s", s.Start, s.End)
}
