// Package textpreview truncates candidate text for diagnostic display
// without splitting a multi-byte or wide rune in half, the same concern
// the teacher's own go.sum pulls in golang.org/x/text for (albeit only as
// a transitive dependency there — this package is its first direct use).
package textpreview

import (
	"strings"

	"golang.org/x/text/width"
)

const ellipsis = "..."

// Truncate returns s shortened to at most maxCols display columns,
// appending "..." if anything was cut. A rune classified as EastAsianWide
// or EastAsianFullwidth by golang.org/x/text/width counts as two columns;
// everything else counts as one. Truncation always stops on a rune
// boundary, so a wide rune is never split in half.
func Truncate(s string, maxCols int) string {
	if maxCols <= 0 {
		return ""
	}
	if totalCols(s) <= maxCols {
		return s
	}

	available := maxCols - len(ellipsis)
	if available <= 0 {
		return ellipsis[:maxCols]
	}

	var sb strings.Builder
	used := 0
	for _, r := range s {
		w := runeCols(r)
		if used+w > available {
			break
		}
		sb.WriteRune(r)
		used += w
	}
	return sb.String() + ellipsis
}

func totalCols(s string) int {
	total := 0
	for _, r := range s {
		total += runeCols(r)
	}
	return total
}

func runeCols(r rune) int {
	switch width.LookupRune(r).Kind() {
	case width.EastAsianWide, width.EastAsianFullwidth:
		return 2
	default:
		return 1
	}
}
