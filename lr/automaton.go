package lr

import (
	"github.com/emirpasic/gods/v2/queues/linkedlistqueue"

	"github.com/parsix/parsix/errors"
	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/symbol"
)

// StateID identifies a state of the canonical LR(1) automaton. It is the
// index into Automaton.States, and is what LRTable's action/goto tables
// are keyed on (§4.6).
type StateID int

// State is one state of the automaton: its (already closed) item set,
// and the GOTO-transitions leaving it to other states, keyed by the
// grammar symbol that triggers each transition.
type State struct {
	ID    StateID
	Items *ItemSet
	Next  map[symbol.Symbol]StateID
}

// Automaton is the canonical LR(1) collection of states built by Build.
type Automaton struct {
	Initial StateID
	States  []*State
}

// State returns the state with the given ID.
func (a *Automaton) State(id StateID) *State { return a.States[id] }

// Build runs the canonical-LR(1) construction of §4.4 over g: starting
// from the closure of the augmented start item (with lookahead {EOF}),
// it repeatedly computes GOTO on every symbol for every known state
// until no new state appears.
//
// Grounded on the teacher's genLR0Automaton (grammar/lr0.go): same
// known/unchecked worklist shape over kernels, generalized to canonical
// LR(1) item sets (so states are identified by full item-set equality,
// not just by LR(0) kernel) and using a gods/v2 linkedlistqueue for the
// pending-state worklist instead of the teacher's round-by-round slices.
func Build(g *grammar.Grammar) (*Automaton, error) {
	startProd := g.Production(0)
	if startProd.Head != symbol.Start {
		return nil, errors.New(errors.InvalidConstruction, "grammar's first production must be the augmented start production")
	}

	initialKernel := NewItemSet()
	initialKernel.Insert(NewItem(startProd, 0, map[symbol.Symbol]struct{}{symbol.EndOfInput: {}}))
	initialItems := CLOSURE(g, initialKernel)

	a := &Automaton{}
	initial := &State{ID: 0, Items: initialItems, Next: map[symbol.Symbol]StateID{}}
	a.States = append(a.States, initial)
	a.Initial = 0

	worklist := linkedlistqueue.New[*State]()
	worklist.Enqueue(initial)

	for !worklist.Empty() {
		s, _ := worklist.Dequeue()
		for _, x := range outgoingSymbols(s.Items) {
			next := GOTO(g, s.Items, x)
			if next.Len() == 0 {
				continue
			}

			target, isNew := a.findOrAdd(next)
			s.Next[x] = target.ID
			if isNew {
				worklist.Enqueue(target)
			}
		}
	}

	return a, nil
}

// findOrAdd returns the existing state whose item set is fully equal to
// items, or appends a new state for it. §3 distinguishes core equality
// (used nowhere in canonical LR(1), only in the teacher's LALR merge)
// from full equality (what canonical LR(1) state identity requires):
// this uses full equality, so two item sets with the same cores but
// different lookaheads remain distinct states.
func (a *Automaton) findOrAdd(items *ItemSet) (*State, bool) {
	for _, s := range a.States {
		if s.Items.Equals(items) {
			return s, false
		}
	}
	s := &State{ID: StateID(len(a.States)), Items: items, Next: map[symbol.Symbol]StateID{}}
	a.States = append(a.States, s)
	return s, true
}

// outgoingSymbols collects, in no particular order, every grammar symbol
// that appears immediately after the dot in some item of I.
func outgoingSymbols(I *ItemSet) []symbol.Symbol {
	seen := map[symbol.Symbol]struct{}{}
	var out []symbol.Symbol
	for _, it := range I.Items() {
		x, ok := it.DottedSymbol()
		if !ok {
			continue
		}
		if _, dup := seen[x]; dup {
			continue
		}
		seen[x] = struct{}{}
		out = append(out, x)
	}
	return out
}
