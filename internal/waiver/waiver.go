// Package waiver implements lint waiver comments.
//
// Two forms are recognized inside EOL or block comments:
//
//	// verilog_lint: waive rule-a[,rule-b...]
//	// verilog_lint: waive-start rule-a ... // verilog_lint: waive-stop rule-a
//
// A plain waive applies to the line the comment sits on; if the comment is
// the only thing on its line, it applies to the following line instead. A
// waive-start/waive-stop pair waives the rule for every line in between.
package waiver

import (
	"strings"

	"github.com/veridian-labs/vlin/internal/token"
)

const directivePrefix = "verilog_lint:"

// Manager answers whether a finding at a given line is waived for a rule.
type Manager struct {
	// waived maps rule name to the set of waived line numbers.
	waived map[string]map[int]struct{}
}

// Parse scans the token stream for waiver comments and returns a Manager.
func Parse(tokens []token.Token) *Manager {
	m := &Manager{waived: make(map[string]map[int]struct{})}

	semanticLines := make(map[int]struct{})
	lastLine := 1
	for _, tok := range tokens {
		if !tok.Kind.IsFormatting() && tok.Kind != token.EOF {
			semanticLines[tok.Pos.Line] = struct{}{}
		}
		if tok.Pos.Line > lastLine {
			lastLine = tok.Pos.Line
		}
	}

	// open waive-start line per rule
	open := make(map[string]int)

	for _, tok := range tokens {
		if tok.Kind != token.CommentEOL && tok.Kind != token.CommentBlock {
			continue
		}
		directive, args, ok := parseDirective(tok.Text)
		if !ok {
			continue
		}
		switch directive {
		case "waive":
			line := tok.Pos.Line
			if _, occupied := semanticLines[line]; !occupied {
				line++
			}
			for _, rule := range args {
				m.waiveLine(rule, line)
			}
		case "waive-start":
			for _, rule := range args {
				open[rule] = tok.Pos.Line
			}
		case "waive-stop":
			for _, rule := range args {
				start, active := open[rule]
				if !active {
					continue
				}
				for line := start; line <= tok.Pos.Line; line++ {
					m.waiveLine(rule, line)
				}
				delete(open, rule)
			}
		}
	}

	// a waive-start without a matching stop runs to end of file
	for rule, start := range open {
		for line := start; line <= lastLine; line++ {
			m.waiveLine(rule, line)
		}
	}

	return m
}

// IsWaived reports whether the given rule is waived on the given line.
func (m *Manager) IsWaived(rule string, line int) bool {
	lines, ok := m.waived[rule]
	if !ok {
		return false
	}
	_, waived := lines[line]
	return waived
}

func (m *Manager) waiveLine(rule string, line int) {
	if m.waived[rule] == nil {
		m.waived[rule] = make(map[int]struct{})
	}
	m.waived[rule][line] = struct{}{}
}

// parseDirective extracts the directive word and rule names from a comment
// body, returning ok=false for comments that are not waiver directives.
func parseDirective(comment string) (directive string, rules []string, ok bool) {
	text := strings.TrimPrefix(comment, "//")
	text = strings.TrimPrefix(text, "/*")
	text = strings.TrimSuffix(text, "*/")
	text = strings.TrimSpace(text)

	if !strings.HasPrefix(text, directivePrefix) {
		return "", nil, false
	}
	text = strings.TrimSpace(strings.TrimPrefix(text, directivePrefix))

	fields := strings.SplitN(text, " ", 2)
	if len(fields) != 2 {
		return "", nil, false
	}
	directive = fields[0]
	switch directive {
	case "waive", "waive-start", "waive-stop":
	default:
		return "", nil, false
	}

	for _, rule := range strings.Split(fields[1], ",") {
		rule = strings.TrimSpace(rule)
		if rule != "" {
			rules = append(rules, rule)
		}
	}
	if len(rules) == 0 {
		return "", nil, false
	}
	return directive, rules, true
}
