package formatter

import (
	"strings"
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"

	"github.com/veridian-labs/vlin/internal"
	"github.com/veridian-labs/vlin/internal/token"
	"github.com/veridian-labs/vlin/internal/types"
)

func init() {
	// keep assertions free of ANSI escapes
	color.NoColor = true
}

func sampleIssue() types.Issue {
	return types.Issue{
		Rule:     "explicit-begin",
		Severity: types.SeverityError,
		Filename: "m.sv",
		Message:  "if block constructs shall explicitly use begin/end. Expected begin, got x",
		Start:    token.Position{Filename: "m.sv", Line: 2, Column: 3, Offset: 12},
		End:      token.Position{Filename: "m.sv", Line: 2, Column: 5, Offset: 14},
	}
}

func TestGenerateFormattedIssue(t *testing.T) {
	source := &internal.SourceCode{Lines: []string{
		"module m;",
		"  if (a) x = 1;",
		"endmodule",
	}}

	output := GenerateFormattedIssue([]types.Issue{sampleIssue()}, source)

	assert.Contains(t, output, "error: explicit-begin")
	assert.Contains(t, output, "--> m.sv:2:3")
	assert.Contains(t, output, "2 |   if (a) x = 1;")
	assert.Contains(t, output, "^ if block constructs shall explicitly use begin/end.")
}

func TestSeverityHeader(t *testing.T) {
	issue := sampleIssue()
	issue.Severity = types.SeverityWarning

	output := GenerateFormattedIssue([]types.Issue{issue}, &internal.SourceCode{Lines: []string{"", "x"}})
	assert.True(t, strings.HasPrefix(output, "warning: "))
}

func TestOutOfRangeLineStillPrintsMessage(t *testing.T) {
	issue := sampleIssue()
	issue.Start.Line = 99

	output := GenerateFormattedIssue([]types.Issue{issue}, &internal.SourceCode{Lines: []string{"x"}})
	assert.Contains(t, output, issue.Message)
}

func TestExpandTabs(t *testing.T) {
	assert.Equal(t, "        x", expandTabs("\tx"))
	assert.Equal(t, "ab      c", expandTabs("ab\tc"))
}

func TestCalculateVisualColumn(t *testing.T) {
	// column 3 of "\tif" lands after one expanded tab and one rune
	assert.Equal(t, 9, calculateVisualColumn("\tif", 3))
	assert.Equal(t, 2, calculateVisualColumn("abc", 3))
}
