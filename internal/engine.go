package internal

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/veridian-labs/vlin/internal/lexer"
	"github.com/veridian-labs/vlin/internal/rules"
	"github.com/veridian-labs/vlin/internal/token"
	"github.com/veridian-labs/vlin/internal/types"
	"github.com/veridian-labs/vlin/internal/waiver"
)

// Engine drives the linting of single files: it lexes the source, runs
// every enabled rule over it and folds the rule reports into issues.
type Engine struct {
	conf         map[string]types.ConfigRule
	ignoredRules map[string]bool
	ignorePaths  []string
	cache        *Cache

	watcher    *watcher
	isWatching bool
}

// ruleConstructor builds a fresh, unconfigured rule instance.
type ruleConstructor func() rules.Rule

// allRuleConstructors maps rule names to their constructors. The table is
// the single registration point for rules; nothing registers itself at
// package init time.
var allRuleConstructors = map[string]ruleConstructor{
	"explicit-begin": rules.NewExplicitBegin,
	"line-length":    rules.NewLineLength,
	"no-tabs":        rules.NewNoTabs,
}

// RuleNames returns the names of all registered rules, sorted.
func RuleNames() []string {
	names := make([]string, 0, len(allRuleConstructors))
	for name := range allRuleConstructors {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// DescribeRule returns the descriptor of a registered rule.
func DescribeRule(name string) (rules.Descriptor, bool) {
	cstr, ok := allRuleConstructors[name]
	if !ok {
		return rules.Descriptor{}, false
	}
	return cstr().Descriptor(), true
}

// NewEngine creates a lint engine for the given per-rule configuration.
// Every configured rule is instantiated and configured once up front so
// that configuration errors surface here rather than mid-run.
func NewEngine(conf map[string]types.ConfigRule) (*Engine, error) {
	for name, rc := range conf {
		cstr, ok := allRuleConstructors[name]
		if !ok {
			return nil, fmt.Errorf("unknown rule %q in configuration", name)
		}
		if err := cstr().Configure(rc.Params); err != nil {
			return nil, fmt.Errorf("invalid configuration: %w", err)
		}
	}
	return &Engine{conf: conf}, nil
}

// IgnoreRule disables a rule for this engine regardless of configuration.
func (e *Engine) IgnoreRule(rule string) {
	if e.ignoredRules == nil {
		e.ignoredRules = make(map[string]bool)
	}
	e.ignoredRules[rule] = true
}

// IgnorePath adds a doublestar glob pattern of paths to skip.
func (e *Engine) IgnorePath(pattern string) {
	e.ignorePaths = append(e.ignorePaths, pattern)
}

// IsIgnoredPath reports whether the path matches any ignore pattern.
func (e *Engine) IsIgnoredPath(path string) bool {
	for _, pattern := range e.ignorePaths {
		if ok, err := doublestar.Match(pattern, path); err == nil && ok {
			return true
		}
	}
	return false
}

// SetCache attaches a result cache; files whose content is unchanged are
// answered from it without re-linting.
func (e *Engine) SetCache(c *Cache) { e.cache = c }

// severityFor resolves the effective severity of a rule, preferring the
// configured value over the rule's default.
func (e *Engine) severityFor(name string, desc rules.Descriptor) types.Severity {
	if rc, ok := e.conf[name]; ok {
		return rc.Severity
	}
	return desc.DefaultSeverity
}

// activeRules instantiates and configures a fresh rule set for one file.
// Rules are rebuilt per file: a rule instance carries scan state and must
// never be reused across source units.
func (e *Engine) activeRules() (map[string]rules.Rule, error) {
	active := make(map[string]rules.Rule, len(allRuleConstructors))
	for name, cstr := range allRuleConstructors {
		if e.ignoredRules[name] {
			continue
		}
		rc, configured := e.conf[name]
		if configured && rc.Severity == types.SeverityOff {
			continue
		}
		rule := cstr()
		if configured {
			if err := rule.Configure(rc.Params); err != nil {
				return nil, err
			}
		}
		active[name] = rule
	}
	return active, nil
}

// Run applies all enabled rules to the given file.
func (e *Engine) Run(filename string) ([]types.Issue, error) {
	if e.IsIgnoredPath(filename) {
		return nil, nil
	}
	source, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("error reading %s: %w", filename, err)
	}

	if e.cache != nil {
		if issues, ok := e.cache.Get(filename, source); ok {
			return issues, nil
		}
	}

	issues, err := e.lint(filename, source)
	if err != nil {
		return nil, err
	}

	if e.cache != nil {
		e.cache.Set(filename, source, issues)
	}
	return issues, nil
}

// RunSource applies all enabled rules to an in-memory buffer.
func (e *Engine) RunSource(source []byte) ([]types.Issue, error) {
	return e.lint("", source)
}

func (e *Engine) lint(filename string, source []byte) ([]types.Issue, error) {
	active, err := e.activeRules()
	if err != nil {
		return nil, err
	}

	tokens := lexer.New(filename, source).Tokenize()
	waivers := waiver.Parse(tokens)
	lines := strings.Split(string(source), "\n")

	var wg sync.WaitGroup
	var mu sync.Mutex

	var allIssues []types.Issue
	for name, rule := range active {
		wg.Add(1)
		go func(name string, r rules.Rule) {
			defer wg.Done()

			feed(r, filename, tokens, lines)

			report := r.Report()
			severity := e.severityFor(name, report.Desc)

			mu.Lock()
			defer mu.Unlock()
			for _, v := range report.Violations {
				if waivers.IsWaived(name, v.Anchor.Pos.Line) {
					continue
				}
				allIssues = append(allIssues, types.Issue{
					Rule:     name,
					Severity: severity,
					Filename: filename,
					Message:  v.Message,
					Start:    v.Anchor.Pos,
					End:      v.Anchor.End(),
				})
			}
		}(name, rule)
	}
	wg.Wait()

	sortIssues(allIssues)
	return allIssues, nil
}

// feed drives one rule over the file, dispatching on the rule's input
// granularity.
func feed(r rules.Rule, filename string, tokens []token.Token, lines []string) {
	switch rule := r.(type) {
	case rules.TokenRule:
		for _, tok := range tokens {
			rule.HandleToken(tok)
		}
	case rules.LineRule:
		offset := 0
		for i, line := range lines {
			pos := token.Position{
				Filename: filename,
				Offset:   offset,
				Line:     i + 1,
				Column:   1,
			}
			rule.HandleLine(pos, line)
			offset += len(line) + 1
		}
	}
}

// sortIssues orders issues by position, then rule name, so output is
// deterministic regardless of rule scheduling.
func sortIssues(issues []types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		if issues[i].Start.Offset != issues[j].Start.Offset {
			return issues[i].Start.Offset < issues[j].Start.Offset
		}
		return issues[i].Rule < issues[j].Rule
	})
}

// SourceCode stores the content of a source file, split into lines.
type SourceCode struct {
	Lines []string
}

// ReadSourceCode reads the content of a file and returns it as a
// SourceCode struct.
func ReadSourceCode(filename string) (*SourceCode, error) {
	content, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return &SourceCode{Lines: strings.Split(string(content), "\n")}, nil
}
