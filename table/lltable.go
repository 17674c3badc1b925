// Package table builds the two driver-facing lookup tables of §4.6: the
// LL(1) parsing table (non-terminal x terminal -> production or error)
// and the LR(1) action/goto tables (state x terminal -> shift/reduce/
// accept/error, state x non-terminal -> goto/error).
//
// Grounded on the teacher's grammar/parsing_table.go and
// grammar/parsing_table_builder.go: this package keeps the teacher's
// tagged-entry style (an entry is a plain struct whose Kind field says
// which variant it holds) but builds a canonical-LR(1) table
// directly from an lr.Automaton rather than the teacher's LALR(1)
// table-compression pipeline, per spec.md §1's Non-goal excluding LALR
// merging and table compression.
package table

import (
	"github.com/parsix/parsix/errors"
	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/symbol"
)

// LLEntryKind tags the three variants of an LL table entry (§4.6 "LL(1)
// parsing table": error, production-reference, error-action-reference).
type LLEntryKind int

const (
	// LLError marks an (A, a) cell with no applicable production and no
	// attached recovery action: a parse error at this point (§4.5
	// "panic-mode" trigger).
	LLError LLEntryKind = iota
	// LLProduction marks a cell that names the production to expand A
	// with when the next input symbol is a.
	LLProduction
	// LLErrorWithAction marks an (A, a) cell that has no production but
	// carries a caller-attached recovery action, consulted by panic mode
	// before it falls back to skipping the token (§4.7 step 3).
	LLErrorWithAction
)

// ErrorAction is a caller-attached panic-mode recovery callback for a
// specific (non-terminal, terminal) cell. It reports whether it
// synchronized the parse.
type ErrorAction func(stack *grammar.LLStack, top grammar.Element, token symbol.Token) bool

// LLEntry is one cell of an LLTable.
type LLEntry struct {
	Kind   LLEntryKind
	Prod   *grammar.Production
	Action ErrorAction
}

// LLTable is the LL(1) parsing table: for each (non-terminal, terminal)
// pair, either the production to expand with, or an error marker.
type LLTable struct {
	g       *grammar.Grammar
	entries map[symbol.NonTerminal]map[symbol.Terminal]LLEntry
}

// Grammar returns the grammar the table was built from.
func (t *LLTable) Grammar() *grammar.Grammar { return t.g }

// Lookup returns the entry for (A, a), defaulting to LLError if the cell
// was never populated.
func (t *LLTable) Lookup(a symbol.NonTerminal, term symbol.Terminal) LLEntry {
	row, ok := t.entries[a]
	if !ok {
		return LLEntry{Kind: LLError}
	}
	e, ok := row[term]
	if !ok {
		return LLEntry{Kind: LLError}
	}
	return e
}

// BuildLL constructs the LL(1) table for g, per the standard
// construction of §4.6: for every production A -> alpha and every
// terminal a in FIRST(alpha), set M[A, a] = A -> alpha; if alpha derives
// EPSILON, also set M[A, b] = A -> alpha for every b in FOLLOW(A)
// (including EOF). A collision (the cell is already populated by a
// different production) means g is not LL(1), which is reported rather
// than silently overwritten, since a silent overwrite would make the
// driver nondeterministic in a way the caller couldn't detect.
func BuildLL(g *grammar.Grammar) (*LLTable, error) {
	if !g.FirstReady() {
		g.ComputeFIRST()
	}
	if !g.FollowReady() {
		if err := g.ComputeFOLLOW(); err != nil {
			return nil, err
		}
	}

	t := &LLTable{g: g, entries: map[symbol.NonTerminal]map[symbol.Terminal]LLEntry{}}

	for _, p := range g.Productions() {
		if p.Head == symbol.Start {
			continue
		}
		bodyFirst := g.FirstOfString(p.Symbols())

		derivesEpsilon := false
		for s := range bodyFirst {
			if s.IsEpsilon() {
				derivesEpsilon = true
				continue
			}
			term, _ := s.Term()
			if err := t.set(p.Head, term, p); err != nil {
				return nil, err
			}
		}
		if !derivesEpsilon {
			continue
		}
		follow, ok := g.FOLLOW(p.Head)
		if !ok {
			continue
		}
		for s := range follow {
			term, _ := s.Term()
			if err := t.set(p.Head, term, p); err != nil {
				return nil, err
			}
		}
	}

	return t, nil
}

func (t *LLTable) set(head symbol.NonTerminal, term symbol.Terminal, p *grammar.Production) error {
	row, ok := t.entries[head]
	if !ok {
		row = map[symbol.Terminal]LLEntry{}
		t.entries[head] = row
	}
	if existing, ok := row[term]; ok && existing.Prod.Index != p.Index {
		return errors.New(errors.TableInvariantViolated,
			"grammar is not LL(1): cell (%v, %v) already holds production %v, cannot also hold %v",
			head, term, existing.Prod, p)
	}
	row[term] = LLEntry{Kind: LLProduction, Prod: p}
	return nil
}

// SetErrorAction attaches a panic-mode recovery action to the (a, term)
// cell. It only applies to cells that are currently error cells;
// attaching an action over a cell that already holds a production would
// silently change normal parsing behavior, so that case is rejected.
func (t *LLTable) SetErrorAction(a symbol.NonTerminal, term symbol.Terminal, action ErrorAction) error {
	row, ok := t.entries[a]
	if !ok {
		row = map[symbol.Terminal]LLEntry{}
		t.entries[a] = row
	}
	if existing, ok := row[term]; ok && existing.Kind == LLProduction {
		return errors.New(errors.InvalidConstruction,
			"cannot attach an error action to cell (%v, %v): it already holds production %v", a, term, existing.Prod)
	}
	row[term] = LLEntry{Kind: LLErrorWithAction, Action: action}
	return nil
}
