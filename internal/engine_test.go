package internal

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/veridian-labs/vlin/internal/types"
)

const sampleSource = `module m;
  always_comb x = 1;
  if (a) begin
  end
endmodule
`

func TestEngineRunSource(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte(sampleSource))
	require.NoError(t, err)

	require.Len(t, issues, 1)
	issue := issues[0]
	assert.Equal(t, "explicit-begin", issue.Rule)
	assert.Equal(t, types.SeverityError, issue.Severity)
	assert.Equal(t, 2, issue.Start.Line)
	assert.Equal(t, 3, issue.Start.Column)
	assert.Contains(t, issue.Message, "always_comb block constructs shall explicitly use begin/end.")
	assert.Contains(t, issue.Message, "Expected begin, got x")
}

func TestEngineRunFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "m.sv")
	require.NoError(t, os.WriteFile(path, []byte(sampleSource), 0o644))

	engine, err := NewEngine(nil)
	require.NoError(t, err)

	issues, err := engine.Run(path)
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, path, issues[0].Filename)
}

func TestEngineSeverityFromConfig(t *testing.T) {
	conf := map[string]types.ConfigRule{
		"explicit-begin": {Severity: types.SeverityWarning},
	}
	engine, err := NewEngine(conf)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte("initial x = 1;"))
	require.NoError(t, err)
	require.Len(t, issues, 1)
	assert.Equal(t, types.SeverityWarning, issues[0].Severity)
}

func TestEngineRuleParamsFromConfig(t *testing.T) {
	conf := map[string]types.ConfigRule{
		"explicit-begin": {Params: map[string]string{"initial_enable": "false"}},
	}
	engine, err := NewEngine(conf)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte("initial x = 1;"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngineConfigErrors(t *testing.T) {
	t.Run("unknown rule", func(t *testing.T) {
		_, err := NewEngine(map[string]types.ConfigRule{"no-such-rule": {}})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unknown rule")
	})

	t.Run("bad rule parameter", func(t *testing.T) {
		_, err := NewEngine(map[string]types.ConfigRule{
			"explicit-begin": {Params: map[string]string{"if_enable": "sometimes"}},
		})
		require.Error(t, err)
	})
}

func TestEngineSeverityOffDisablesRule(t *testing.T) {
	conf := map[string]types.ConfigRule{
		"explicit-begin": {Severity: types.SeverityOff},
	}
	engine, err := NewEngine(conf)
	require.NoError(t, err)

	issues, err := engine.RunSource([]byte("initial x = 1;"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngineIgnoreRule(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)
	engine.IgnoreRule("explicit-begin")

	issues, err := engine.RunSource([]byte("initial x = 1;"))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngineIgnorePath(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)
	engine.IgnorePath("**/generated/**")

	assert.True(t, engine.IsIgnoredPath("rtl/generated/top.sv"))
	assert.False(t, engine.IsIgnoredPath("rtl/top.sv"))

	issues, err := engine.Run("rtl/generated/top.sv")
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngineWaivedIssuesAreFiltered(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	src := "initial x = 1; // verilog_lint: waive explicit-begin\n"
	issues, err := engine.RunSource([]byte(src))
	require.NoError(t, err)
	assert.Empty(t, issues)
}

func TestEngineIssuesAreOrdered(t *testing.T) {
	engine, err := NewEngine(nil)
	require.NoError(t, err)

	src := "initial x = 1;\n\ty;\nalways_comb z = 1;\n"
	first, err := engine.RunSource([]byte(src))
	require.NoError(t, err)
	second, err := engine.RunSource([]byte(src))
	require.NoError(t, err)

	require.Len(t, first, 3)
	assert.Equal(t, first, second)
	for i := 1; i < len(first); i++ {
		assert.LessOrEqual(t, first[i-1].Start.Offset, first[i].Start.Offset)
	}
}

func TestRuleNames(t *testing.T) {
	names := RuleNames()
	assert.Contains(t, names, "explicit-begin")
	assert.Contains(t, names, "line-length")
	assert.Contains(t, names, "no-tabs")

	desc, ok := DescribeRule("explicit-begin")
	require.True(t, ok)
	assert.Equal(t, "explicit-begin", desc.Name)
	assert.Len(t, desc.Params, 11)

	_, ok = DescribeRule("nope")
	assert.False(t, ok)
}
