package rules

import (
	"strings"

	"github.com/veridian-labs/vlin/internal/token"
	"github.com/veridian-labs/vlin/internal/types"
)

// NoTabsRule flags tab characters anywhere in the source. One finding is
// reported per line, anchored at the first tab.
type NoTabsRule struct {
	violations violationSet
}

func NewNoTabs() Rule {
	return &NoTabsRule{}
}

func (r *NoTabsRule) Descriptor() Descriptor {
	return Descriptor{
		Name:            "no-tabs",
		Topic:           "tabs",
		Description:     "Checks that sources use spaces rather than tab characters.",
		DefaultSeverity: types.SeverityWarning,
	}
}

func (r *NoTabsRule) Configure(params map[string]string) error {
	return applyParams("no-tabs", params, nil)
}

func (r *NoTabsRule) HandleLine(pos token.Position, line string) {
	idx := strings.IndexByte(line, '\t')
	if idx < 0 {
		return
	}
	anchor := pos
	anchor.Column += idx
	anchor.Offset += idx
	r.violations.add(Violation{
		Anchor:  token.Token{Kind: token.Space, Text: "\t", Pos: anchor},
		Message: "tab character found; use spaces for indentation",
	})
}

func (r *NoTabsRule) Report() Report {
	return Report{Desc: r.Descriptor(), Violations: r.violations.finalize()}
}
