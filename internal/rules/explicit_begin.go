package rules

import (
	"github.com/veridian-labs/vlin/internal/token"
	"github.com/veridian-labs/vlin/internal/types"
)

const explicitBeginMessage = " block constructs shall explicitly use begin/end."

// ExplicitBeginRule checks that every block-introducing construct
// (if, else, the always family, forever, initial, for, foreach, while)
// opens its body with an explicit begin keyword rather than a single
// implicit statement.
//
// The check runs on the raw token stream: a condition is tracked only as
// a balanced parenthesis group, never parsed. Each construct kind can be
// switched off independently via its <construct>_enable parameter.
//
// Known quirk, kept for compatibility: when if_enable is false, an
// "else if" chain returns the scanner to its idle state as soon as the
// if is seen, so no begin is verified for that branch at all - not even
// for the else's own body.
type ExplicitBeginRule struct {
	flags ExplicitBeginFlags

	state      beginState
	ctx        beginContext
	violations violationSet
}

// ExplicitBeginFlags holds the per-construct enable switches. The zero
// value disables everything; use defaultExplicitBeginFlags for the
// everything-on default.
type ExplicitBeginFlags struct {
	If          bool
	Else        bool
	Always      bool
	AlwaysComb  bool
	AlwaysLatch bool
	AlwaysFF    bool
	Forever     bool
	Initial     bool
	For         bool
	Foreach     bool
	While       bool
}

func defaultExplicitBeginFlags() ExplicitBeginFlags {
	return ExplicitBeginFlags{
		If: true, Else: true, Always: true, AlwaysComb: true,
		AlwaysLatch: true, AlwaysFF: true, Forever: true,
		Initial: true, For: true, Foreach: true, While: true,
	}
}

// enabled reports whether the given token kind is a tracked construct
// start with its switch turned on. Consulted only in the idle state.
func (f ExplicitBeginFlags) enabled(k token.Kind) bool {
	switch k {
	case token.KwIf:
		return f.If
	case token.KwElse:
		return f.Else
	case token.KwAlways:
		return f.Always
	case token.KwAlwaysComb:
		return f.AlwaysComb
	case token.KwAlwaysLatch:
		return f.AlwaysLatch
	case token.KwAlwaysFF:
		return f.AlwaysFF
	case token.KwForever:
		return f.Forever
	case token.KwInitial:
		return f.Initial
	case token.KwFor:
		return f.For
	case token.KwForeach:
		return f.Foreach
	case token.KwWhile:
		return f.While
	}
	return false
}

type beginState int

const (
	stateIdle beginState = iota
	stateInAlways
	stateInElse
	stateInCondition
	stateExpectBegin
)

// beginContext is the transient context carried between transitions: the
// construct token a pending violation would be anchored at, and the
// parenthesis depth, which is meaningful only in stateInCondition.
type beginContext struct {
	anchor token.Token
	depth  int
}

// NewExplicitBegin returns the rule with all constructs enabled.
func NewExplicitBegin() Rule {
	return &ExplicitBeginRule{flags: defaultExplicitBeginFlags()}
}

func (r *ExplicitBeginRule) Descriptor() Descriptor {
	enableParam := func(name, construct string) Param {
		return Param{
			Name:    name,
			Default: "true",
			Help:    "All " + construct + " statements require an explicit begin-end block",
		}
	}
	return Descriptor{
		Name:  "explicit-begin",
		Topic: "explicit-begin",
		Description: "Checks that a begin directive follows all " +
			"if, else, always, always_comb, always_latch, always_ff, " +
			"forever, initial, for, foreach and while statements.",
		DefaultSeverity: types.SeverityError,
		Params: []Param{
			enableParam("if_enable", "if"),
			enableParam("else_enable", "else"),
			enableParam("always_enable", "always"),
			enableParam("always_comb_enable", "always_comb"),
			enableParam("always_latch_enable", "always_latch"),
			enableParam("always_ff_enable", "always_ff"),
			enableParam("forever_enable", "forever"),
			enableParam("initial_enable", "initial"),
			enableParam("for_enable", "for"),
			enableParam("foreach_enable", "foreach"),
			enableParam("while_enable", "while"),
		},
	}
}

// Configure applies <construct>_enable parameters. On any unknown name or
// non-boolean value the rule keeps its previous configuration.
func (r *ExplicitBeginRule) Configure(params map[string]string) error {
	next := r.flags
	schema := map[string]paramSetter{
		"if_enable":           setBool(&next.If),
		"else_enable":         setBool(&next.Else),
		"always_enable":       setBool(&next.Always),
		"always_comb_enable":  setBool(&next.AlwaysComb),
		"always_latch_enable": setBool(&next.AlwaysLatch),
		"always_ff_enable":    setBool(&next.AlwaysFF),
		"forever_enable":      setBool(&next.Forever),
		"initial_enable":      setBool(&next.Initial),
		"for_enable":          setBool(&next.For),
		"foreach_enable":      setBool(&next.Foreach),
		"while_enable":        setBool(&next.While),
	}
	if err := applyParams("explicit-begin", params, schema); err != nil {
		return err
	}
	r.flags = next
	return nil
}

// HandleToken advances the scanner by one token. Formatting tokens are
// invisible to the state machine in every state, and so is the EOF
// marker: a construct left pending at end of stream is not a finding.
func (r *ExplicitBeginRule) HandleToken(tok token.Token) {
	if tok.Kind.IsFormatting() || tok.Kind == token.EOF {
		return
	}
	var v *Violation
	r.state, r.ctx, v = r.flags.step(r.state, r.ctx, tok)
	if v != nil {
		r.violations.add(*v)
	}
}

// step is the transition function of the scanning automaton. It is a pure
// function of the enable flags, the current state and context, and one
// semantic token; at most one violation is produced per call. After a
// violation the automaton is always back in the idle state with a cleared
// context, so it can never stall mid-stream.
func (f ExplicitBeginFlags) step(state beginState, ctx beginContext, tok token.Token) (beginState, beginContext, *Violation) {
	switch state {
	case stateIdle:
		if !f.enabled(tok.Kind) {
			return stateIdle, ctx, nil
		}
		switch tok.Kind {
		case token.KwAlwaysComb, token.KwAlwaysLatch, token.KwForever, token.KwInitial:
			// No condition; the next semantic token must be begin.
			return stateExpectBegin, beginContext{anchor: tok}, nil
		case token.KwAlwaysFF, token.KwForeach, token.KwFor, token.KwIf, token.KwWhile:
			// A parenthesized condition follows, possibly after
			// intervening tokens (e.g. the @ of an always_ff).
			return stateInCondition, beginContext{anchor: tok}, nil
		case token.KwAlways:
			// Grammar varies: sensitivity markers, a sensitivity
			// list, or an immediate begin are all legal.
			return stateInAlways, beginContext{anchor: tok}, nil
		case token.KwElse:
			return stateInElse, beginContext{anchor: tok}, nil
		}
		return stateIdle, ctx, nil

	case stateInAlways:
		switch tok.Kind {
		case token.At, token.Star:
			return stateInAlways, ctx, nil
		case token.KwBegin:
			return stateIdle, beginContext{}, nil
		case token.LParen:
			ctx.depth = 1
			return stateInCondition, ctx, nil
		}
		return violate(ctx, tok)

	case stateInElse:
		switch tok.Kind {
		case token.KwIf:
			if !f.If {
				// if checking disabled: the whole chain is taken
				// as satisfied, nothing further is verified.
				return stateIdle, beginContext{}, nil
			}
			// A chained "else if" must satisfy the begin
			// requirement for its own condition.
			return stateInCondition, beginContext{anchor: tok}, nil
		case token.KwBegin:
			return stateIdle, beginContext{}, nil
		}
		return violate(ctx, tok)

	case stateInCondition:
		switch tok.Kind {
		case token.LParen:
			ctx.depth++
		case token.RParen:
			ctx.depth--
			if ctx.depth == 0 {
				return stateExpectBegin, ctx, nil
			}
		}
		// Everything that is not a parenthesis is part of the
		// condition (or leads up to it) and is discarded.
		return stateInCondition, ctx, nil

	case stateExpectBegin:
		if tok.Kind == token.KwBegin {
			return stateIdle, beginContext{}, nil
		}
		return violate(ctx, tok)
	}

	return stateIdle, beginContext{}, nil
}

// violate builds the finding for the tracked construct and resets the
// automaton to idle.
func violate(ctx beginContext, tok token.Token) (beginState, beginContext, *Violation) {
	v := &Violation{
		Anchor: ctx.anchor,
		Message: ctx.anchor.Text + explicitBeginMessage +
			" Expected begin, got " + tok.Text,
	}
	return stateIdle, beginContext{}, v
}

// Report finalizes the findings gathered so far.
func (r *ExplicitBeginRule) Report() Report {
	return Report{Desc: r.Descriptor(), Violations: r.violations.finalize()}
}
