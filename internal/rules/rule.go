// Package rules contains the style rules vlin can apply to a source file.
//
// A rule instance is built fresh for every file, configured once, fed the
// file's contents (token by token or line by line) and finalized into a
// Report. Instances are never shared between files or goroutines.
package rules

import (
	"fmt"
	"sort"
	"strconv"

	"github.com/veridian-labs/vlin/internal/token"
	"github.com/veridian-labs/vlin/internal/types"
)

// Param describes one configurable parameter of a rule.
type Param struct {
	Name    string
	Default string
	Help    string
}

// Descriptor is the static metadata of a rule: what it is called, what it
// checks and which parameters it accepts.
type Descriptor struct {
	Name            string
	Topic           string
	Description     string
	DefaultSeverity types.Severity
	Params          []Param
}

// Rule is the common surface of every style rule.
type Rule interface {
	// Descriptor returns the rule's static metadata.
	Descriptor() Descriptor

	// Configure applies the given parameters. Unknown parameter names or
	// malformed values fail the whole call and leave the rule in its
	// default configuration. A rule must not be exercised after a failed
	// Configure.
	Configure(params map[string]string) error

	// Report finalizes the ordered, duplicate-free set of findings.
	Report() Report
}

// TokenRule is a rule driven by the file's token stream, one token at a
// time in source order.
type TokenRule interface {
	Rule
	HandleToken(tok token.Token)
}

// LineRule is a rule driven by the file's raw lines.
type LineRule interface {
	Rule
	HandleLine(pos token.Position, line string)
}

// Violation is a single finding, anchored at the token that introduced
// the offending construct.
type Violation struct {
	Anchor  token.Token
	Message string
}

// Report pairs a rule's descriptor with its finalized findings.
type Report struct {
	Desc       Descriptor
	Violations []Violation
}

// violationSet collects violations in source order, collapsing repeated
// findings with the same anchor position and message.
type violationSet struct {
	seen       map[string]struct{}
	violations []Violation
}

func (s *violationSet) add(v Violation) {
	key := v.Anchor.Pos.String() + "\x00" + v.Message
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, dup := s.seen[key]; dup {
		return
	}
	s.seen[key] = struct{}{}
	s.violations = append(s.violations, v)
}

// finalize returns the findings ordered by source position, then message.
func (s *violationSet) finalize() []Violation {
	out := make([]Violation, len(s.violations))
	copy(out, s.violations)
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Anchor.Pos.Offset != out[j].Anchor.Pos.Offset {
			return out[i].Anchor.Pos.Offset < out[j].Anchor.Pos.Offset
		}
		return out[i].Message < out[j].Message
	})
	return out
}

// paramSetter validates and stores one parameter value.
type paramSetter func(value string) error

// setBool accepts exactly "true" or "false".
func setBool(dst *bool) paramSetter {
	return func(value string) error {
		switch value {
		case "true":
			*dst = true
		case "false":
			*dst = false
		default:
			return fmt.Errorf("expected true or false, got %q", value)
		}
		return nil
	}
}

// setInt accepts a positive decimal integer.
func setInt(dst *int) paramSetter {
	return func(value string) error {
		n, err := strconv.Atoi(value)
		if err != nil || n <= 0 {
			return fmt.Errorf("expected a positive integer, got %q", value)
		}
		*dst = n
		return nil
	}
}

// applyParams runs every given parameter through the schema. The caller is
// expected to point the setters at a scratch copy of its configuration and
// commit it only when applyParams succeeds, so a failure never leaves a
// half-applied state behind.
func applyParams(ruleName string, params map[string]string, schema map[string]paramSetter) error {
	for name, value := range params {
		set, ok := schema[name]
		if !ok {
			return fmt.Errorf("rule %s: unknown parameter %q", ruleName, name)
		}
		if err := set(value); err != nil {
			return fmt.Errorf("rule %s: parameter %q: %w", ruleName, name, err)
		}
	}
	return nil
}
