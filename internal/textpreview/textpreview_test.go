package textpreview

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_Truncate_leavesShortTextUnchanged(t *testing.T) {
	assert.Equal(t, "short", Truncate("short", 10))
}

func Test_Truncate_cutsAtRuneBoundaryWithEllipsis(t *testing.T) {
	got := Truncate("hello world", 8)
	assert.Equal(t, "hello...", got)
	assert.LessOrEqual(t, totalCols(got), 8)
}

func Test_Truncate_neverSplitsWideRune(t *testing.T) {
	// each CJK ideograph below is EastAsianWide (2 columns); a naive
	// byte-count truncation would slice one in half and produce invalid
	// UTF-8.
	got := Truncate("你好世界你好世界", 5)
	for _, r := range got {
		assert.NotEqual(t, rune(0xFFFD), r, "truncation produced a replacement rune: %q", got)
	}
	assert.LessOrEqual(t, totalCols(got), 5)
}

func Test_Truncate_zeroOrNegativeMaxColsIsEmpty(t *testing.T) {
	assert.Equal(t, "", Truncate("anything", 0))
	assert.Equal(t, "", Truncate("anything", -1))
}
