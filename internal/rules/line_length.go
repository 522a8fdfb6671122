package rules

import (
	"fmt"
	"strconv"
	"strings"
	"unicode/utf8"

	"github.com/veridian-labs/vlin/internal/token"
	"github.com/veridian-labs/vlin/internal/types"
)

const defaultLineLength = 100

// LineLengthRule flags lines wider than a configurable column limit.
type LineLengthRule struct {
	limit      int
	violations violationSet
}

// NewLineLength returns the rule with the default column limit.
func NewLineLength() Rule {
	return &LineLengthRule{limit: defaultLineLength}
}

func (r *LineLengthRule) Descriptor() Descriptor {
	return Descriptor{
		Name:            "line-length",
		Topic:           "line-length",
		Description:     "Checks that no source line exceeds the configured column limit.",
		DefaultSeverity: types.SeverityWarning,
		Params: []Param{
			{
				Name:    "length",
				Default: strconv.Itoa(defaultLineLength),
				Help:    "Maximum allowed line length in columns",
			},
		},
	}
}

func (r *LineLengthRule) Configure(params map[string]string) error {
	next := r.limit
	schema := map[string]paramSetter{
		"length": setInt(&next),
	}
	if err := applyParams("line-length", params, schema); err != nil {
		return err
	}
	r.limit = next
	return nil
}

func (r *LineLengthRule) HandleLine(pos token.Position, line string) {
	line = strings.TrimRight(line, "\r")
	width := utf8.RuneCountInString(line)
	if width <= r.limit {
		return
	}
	anchor := pos
	anchor.Column = r.limit + 1
	anchor.Offset += r.limit
	r.violations.add(Violation{
		Anchor: token.Token{
			Kind: token.Illegal,
			Text: line[len(line)-1:],
			Pos:  anchor,
		},
		Message: fmt.Sprintf("line is %d columns long, limit is %d", width, r.limit),
	})
}

func (r *LineLengthRule) Report() Report {
	return Report{Desc: r.Descriptor(), Violations: r.violations.finalize()}
}
