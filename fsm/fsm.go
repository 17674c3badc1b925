// Package fsm implements the finite-state-machine engine of §4.1: a
// transition table over byte input, simulated in one of three match
// modes, with optional epsilon-closure expansion for epsilon-NFAs.
//
// Grounded on the teacher's grammar/lexical/dfa/dfa.go for the sparse
// per-state map transition-table shape, and on
// original_source/FiniteStateMachine.h/.cpp, NFA.h, DFA.h for the three
// match-mode algorithms and the state-1-is-start / state-0-is-dead
// convention.
package fsm

import (
	"github.com/parsix/parsix/errors"
)

// State is a non-negative machine state. State 0 is the dead state
// (never an explicit entry in the transition table); state 1 is always
// the start state (§4.1 "States").
type State int

// DeadState is never a real destination: its absence from a transition
// result means "no move."
const DeadState State = 0

// StartState is where every simulation begins.
const StartState State = 1

// StateSet is an unordered collection of states, used both as an NFA's
// "current configuration" and as the machine's final-state set.
type StateSet map[State]struct{}

// NewStateSet builds a StateSet from the given states.
func NewStateSet(states ...State) StateSet {
	s := make(StateSet, len(states))
	for _, st := range states {
		s[st] = struct{}{}
	}
	return s
}

func (s StateSet) union(other StateSet) {
	for st := range other {
		s[st] = struct{}{}
	}
}

func (s StateSet) clone() StateSet {
	c := make(StateSet, len(s))
	for st := range s {
		c[st] = struct{}{}
	}
	return c
}

// Kind tags the machine's construction discipline: whether epsilon
// transitions are expanded after every step (§4.1 "NFA-specific").
type Kind int

const (
	// EpsilonNFA machines close over epsilon transitions after every
	// input step and during closure of the start configuration.
	EpsilonNFA Kind = iota
	// PlainNFA machines never expand epsilon transitions; a DFA is
	// simply a PlainNFA whose transition sets never hold more than one
	// state.
	PlainNFA
)

func (k Kind) String() string {
	switch k {
	case EpsilonNFA:
		return "epsilon-nfa"
	case PlainNFA:
		return "plain-nfa"
	default:
		return "unknown"
	}
}

// Table is the machine's transition function: state x byte -> set of
// next states, plus a separate epsilon-transition adjacency list. A
// sparse []map[byte][]State representation, following the teacher's
// per-state map usage for dfa.trans.
type Table struct {
	trans []map[byte][]State
	eps   []map[State]struct{}
}

// NewTable builds an empty transition table.
func NewTable() *Table {
	return &Table{}
}

func (t *Table) ensure(s State) {
	for State(len(t.trans)) <= s {
		t.trans = append(t.trans, nil)
		t.eps = append(t.eps, nil)
	}
}

// Add records a transition from `from` to `to` on input byte c.
func (t *Table) Add(from State, c byte, to State) {
	t.ensure(from)
	if t.trans[from] == nil {
		t.trans[from] = map[byte][]State{}
	}
	t.trans[from][c] = append(t.trans[from][c], to)
}

// AddEpsilon records an epsilon transition from `from` to `to`.
func (t *Table) AddEpsilon(from, to State) {
	t.ensure(from)
	if t.eps[from] == nil {
		t.eps[from] = map[State]struct{}{}
	}
	t.eps[from][to] = struct{}{}
}

// Step returns the set of states reachable from `from` on byte c.
func (t *Table) Step(from State, c byte) StateSet {
	if int(from) >= len(t.trans) || t.trans[from] == nil {
		return nil
	}
	dests := t.trans[from][c]
	if len(dests) == 0 {
		return nil
	}
	return NewStateSet(dests...)
}

// StepSet returns the union, over every state in `from`, of Step(state,
// c).
func (t *Table) StepSet(from StateSet, c byte) StateSet {
	out := StateSet{}
	for st := range from {
		out.union(t.Step(st, c))
	}
	return out
}

// EpsilonNeighbors returns the states directly epsilon-reachable from s.
func (t *Table) EpsilonNeighbors(s State) StateSet {
	if int(s) >= len(t.eps) || t.eps[s] == nil {
		return nil
	}
	out := make(StateSet, len(t.eps[s]))
	for st := range t.eps[s] {
		out[st] = struct{}{}
	}
	return out
}

// Machine is a finite-state machine: a transition table, a final-state
// set, and the construction Kind that governs whether epsilon-closure is
// applied after each step.
type Machine struct {
	table *Table
	final StateSet
	kind  Kind
}

// New validates and builds a Machine. An empty final-state set is an
// invalid-construction error (§4.1 "Failure modes").
func New(table *Table, final StateSet, kind Kind) (*Machine, error) {
	if len(final) == 0 {
		return nil, errors.New(errors.InvalidConstruction, "FSM: the set of final states cannot be empty")
	}
	return &Machine{table: table, final: final, kind: kind}, nil
}

// Table returns the machine's transition table.
func (m *Machine) Table() *Table { return m.table }

// FinalStates returns the machine's final-state set.
func (m *Machine) FinalStates() StateSet { return m.final }

func (m *Machine) isFinal(set StateSet) bool {
	for s := range set {
		if _, ok := m.final[s]; ok {
			return true
		}
	}
	return false
}

func (m *Machine) finalStatesIn(set StateSet) StateSet {
	out := StateSet{}
	for s := range set {
		if _, ok := m.final[s]; ok {
			out[s] = struct{}{}
		}
	}
	return out
}

// closure applies epsilon-closure expansion to set if the machine is an
// EpsilonNFA, otherwise returns set unchanged. Grounded on
// original_source NFA.h's _epsilon_closure, implemented here with a
// gods/v2 linkedlistqueue worklist instead of the source's raw stack.
func (m *Machine) closure(set StateSet) StateSet {
	if m.kind != EpsilonNFA {
		return set
	}
	return EpsilonClosure(m.table, set)
}

// step advances set by one input byte, applying epsilon-closure
// afterward if applicable.
func (m *Machine) step(set StateSet, c byte) StateSet {
	return m.closure(m.table.StepSet(set, c))
}
