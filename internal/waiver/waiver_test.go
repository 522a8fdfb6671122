package waiver

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/veridian-labs/vlin/internal/lexer"
	"github.com/veridian-labs/vlin/internal/token"
)

func parse(src string) *Manager {
	return Parse(lexer.New("test.sv", []byte(src)).Tokenize())
}

func TestWaiveSameLine(t *testing.T) {
	m := parse("if (a) x = 1; // verilog_lint: waive explicit-begin\n")

	assert.True(t, m.IsWaived("explicit-begin", 1))
	assert.False(t, m.IsWaived("explicit-begin", 2))
	assert.False(t, m.IsWaived("no-tabs", 1))
}

func TestWaiveNextLineWhenCommentAlone(t *testing.T) {
	src := "// verilog_lint: waive explicit-begin\nif (a) x = 1;\n"
	m := parse(src)

	assert.True(t, m.IsWaived("explicit-begin", 2))
	assert.False(t, m.IsWaived("explicit-begin", 3))
}

func TestWaiveMultipleRules(t *testing.T) {
	m := parse("x = 1; // verilog_lint: waive explicit-begin, no-tabs\n")

	assert.True(t, m.IsWaived("explicit-begin", 1))
	assert.True(t, m.IsWaived("no-tabs", 1))
}

func TestWaiveRange(t *testing.T) {
	src := `// verilog_lint: waive-start explicit-begin
if (a) x = 1;
if (b) y = 1;
// verilog_lint: waive-stop explicit-begin
if (c) z = 1;
`
	m := parse(src)

	assert.True(t, m.IsWaived("explicit-begin", 2))
	assert.True(t, m.IsWaived("explicit-begin", 3))
	assert.False(t, m.IsWaived("explicit-begin", 5))
}

func TestWaiveStartWithoutStopRunsToEOF(t *testing.T) {
	src := "// verilog_lint: waive-start no-tabs\n\tx;\n\ty;\n"
	m := parse(src)

	assert.True(t, m.IsWaived("no-tabs", 2))
	assert.True(t, m.IsWaived("no-tabs", 3))
}

func TestWaiveInBlockComment(t *testing.T) {
	m := parse("x = 1; /* verilog_lint: waive no-tabs */\n")
	assert.True(t, m.IsWaived("no-tabs", 1))
}

func TestNonDirectiveCommentsIgnored(t *testing.T) {
	m := parse("// just a comment\n// verilog_lint: something-else x\n")
	assert.False(t, m.IsWaived("explicit-begin", 1))
	assert.False(t, m.IsWaived("explicit-begin", 2))
	assert.False(t, m.IsWaived("x", 2))
}

func TestParseDirective(t *testing.T) {
	tests := []struct {
		comment   string
		directive string
		rules     []string
		ok        bool
	}{
		{"// verilog_lint: waive explicit-begin", "waive", []string{"explicit-begin"}, true},
		{"/* verilog_lint: waive a,b */", "waive", []string{"a", "b"}, true},
		{"// verilog_lint: waive-start r", "waive-start", []string{"r"}, true},
		{"// verilog_lint: waive", "", nil, false},
		{"// unrelated", "", nil, false},
		{"// verilog_lint: disable r", "", nil, false},
	}

	for _, tt := range tests {
		directive, rules, ok := parseDirective(tt.comment)
		assert.Equal(t, tt.ok, ok, "comment %q", tt.comment)
		if tt.ok {
			assert.Equal(t, tt.directive, directive)
			assert.Equal(t, tt.rules, rules)
		}
	}
}

func TestEmptyStream(t *testing.T) {
	m := Parse([]token.Token{{Kind: token.EOF}})
	assert.False(t, m.IsWaived("explicit-begin", 1))
}
