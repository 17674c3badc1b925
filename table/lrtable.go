package table

import (
	"fmt"

	"github.com/parsix/parsix/errors"
	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/lr"
	"github.com/parsix/parsix/symbol"
)

// LRActionKind tags the four variants of an LR action-table entry
// (§4.6 "LR(1) action table").
type LRActionKind int

const (
	LRActionError LRActionKind = iota
	LRActionShift
	LRActionReduce
	LRActionAccept
)

// LRAction is one cell of the action table.
type LRAction struct {
	Kind       LRActionKind
	ShiftState lr.StateID
	Prod       *grammar.Production
}

// LRGotoKind tags the two variants of a goto-table entry.
type LRGotoKind int

const (
	LRGotoError LRGotoKind = iota
	LRGotoState
)

// LRGoto is one cell of the goto table.
type LRGoto struct {
	Kind  LRGotoKind
	State lr.StateID
}

// LRTable is the pair of tables a canonical-LR(1) driver needs: an
// action table keyed by (state, terminal), and a goto table keyed by
// (state, non-terminal) (§4.6).
type LRTable struct {
	g         *grammar.Grammar
	automaton *lr.Automaton
	action    []map[symbol.Terminal]LRAction
	goTo      []map[symbol.NonTerminal]LRGoto
}

// Grammar returns the grammar the table was built from.
func (t *LRTable) Grammar() *grammar.Grammar { return t.g }

// Automaton returns the canonical LR(1) automaton the table was built
// from; a panic-mode recovery routine walks this to find a state with a
// GOTO transition on some non-terminal (§4.7).
func (t *LRTable) Automaton() *lr.Automaton { return t.automaton }

// Action returns the action-table cell for (state, a).
func (t *LRTable) Action(state lr.StateID, a symbol.Terminal) LRAction {
	row := t.action[state]
	if e, ok := row[a]; ok {
		return e
	}
	return LRAction{Kind: LRActionError}
}

// Goto returns the goto-table cell for (state, A).
func (t *LRTable) Goto(state lr.StateID, a symbol.NonTerminal) LRGoto {
	row := t.goTo[state]
	if e, ok := row[a]; ok {
		return e
	}
	return LRGoto{Kind: LRGotoError}
}

// BuildLR constructs the LR(1) action/goto tables from g's canonical
// automaton, per the standard construction of §4.6:
//
//   - for an item A -> alpha . a beta (a a terminal), Action[state, a] = shift to GOTO(state, a)
//   - for a reducible item A -> alpha . with lookahead a, Action[state, a] = reduce by A -> alpha
//   - for the reducible augmented item S' -> S . with lookahead EOF, Action[state, EOF] = accept
//   - Goto[state, A] = GOTO(state, A) for every non-terminal A
//
// A shift/reduce or reduce/reduce collision on the same cell means g is
// not usable as a canonical LR(1) grammar as given, and is reported
// rather than resolved by an implicit precedence rule (§1's Non-goals
// exclude conflict-resolution policy).
func BuildLR(g *grammar.Grammar) (*LRTable, error) {
	if !g.FirstReady() {
		g.ComputeFIRST()
	}
	if !g.FollowReady() {
		if err := g.ComputeFOLLOW(); err != nil {
			return nil, err
		}
	}

	a, err := lr.Build(g)
	if err != nil {
		return nil, err
	}

	t := &LRTable{
		g:         g,
		automaton: a,
		action:    make([]map[symbol.Terminal]LRAction, len(a.States)),
		goTo:      make([]map[symbol.NonTerminal]LRGoto, len(a.States)),
	}
	for i := range t.action {
		t.action[i] = map[symbol.Terminal]LRAction{}
		t.goTo[i] = map[symbol.NonTerminal]LRGoto{}
	}

	for _, s := range a.States {
		for x, next := range s.Next {
			if term, ok := x.Term(); ok {
				if err := t.setAction(s.ID, term, LRAction{Kind: LRActionShift, ShiftState: next}); err != nil {
					return nil, err
				}
				continue
			}
			nt, _ := x.NonTerm()
			t.goTo[s.ID][nt] = LRGoto{Kind: LRGotoState, State: next}
		}

		for _, it := range s.Items.Items() {
			if !it.Reducible() {
				continue
			}
			for la := range it.Lookaheads {
				term, _ := la.Term()
				if it.Prod.Head == symbol.Start {
					if err := t.setAction(s.ID, term, LRAction{Kind: LRActionAccept}); err != nil {
						return nil, err
					}
					continue
				}
				if err := t.setAction(s.ID, term, LRAction{Kind: LRActionReduce, Prod: it.Prod}); err != nil {
					return nil, err
				}
			}
		}
	}

	return t, nil
}

// Dump renders every populated action/goto cell as a plain string-keyed
// map, used by cmd/parsix's describe subcommand and by tests that need
// to diff a whole table without reaching into its unexported slices.
func (t *LRTable) Dump() map[string]string {
	out := map[string]string{}
	for state, row := range t.action {
		for term, a := range row {
			key := fmt.Sprintf("%d,%v", state, term)
			switch a.Kind {
			case LRActionShift:
				out[key] = fmt.Sprintf("shift %d", a.ShiftState)
			case LRActionReduce:
				out[key] = fmt.Sprintf("reduce %d", a.Prod.Index)
			case LRActionAccept:
				out[key] = "accept"
			}
		}
	}
	for state, row := range t.goTo {
		for nt, g := range row {
			if g.Kind == LRGotoState {
				out[fmt.Sprintf("%d,goto,%v", state, nt)] = fmt.Sprintf("goto %d", g.State)
			}
		}
	}
	return out
}

func (t *LRTable) setAction(state lr.StateID, a symbol.Terminal, entry LRAction) error {
	row := t.action[state]
	if existing, ok := row[a]; ok && !actionsEqual(existing, entry) {
		return errors.New(errors.TableInvariantViolated,
			"grammar is not LR(1): state %v has conflicting actions on %v", state, a)
	}
	row[a] = entry
	return nil
}

func actionsEqual(a, b LRAction) bool {
	if a.Kind != b.Kind {
		return false
	}
	switch a.Kind {
	case LRActionShift:
		return a.ShiftState == b.ShiftState
	case LRActionReduce:
		return a.Prod.Index == b.Prod.Index
	default:
		return true
	}
}
