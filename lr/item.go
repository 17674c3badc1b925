// Package lr implements canonical LR(1) items and item sets (§3, §4.4):
// CLOSURE, GOTO, and the state-by-state automaton construction that the
// table package turns into an LRTable.
//
// Unlike the teacher, which builds LR(0) kernels and merges lookaheads in
// afterward for an LALR(1) table (grammar/lr0.go, grammar/lalr1.go), this
// package keeps the lookahead set directly on every item from the start,
// per spec.md §4.4's CLOSURE/GOTO definitions and §1's Non-goal that
// excludes LALR merging and table compression.
package lr

import (
	"fmt"
	"sort"
	"strings"

	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/symbol"
)

// Item is a canonical LR(1) item: a production, a dot position, and a set
// of lookahead terminals (§3 "LR(1) item"). The dot is tracked two ways,
// per §9's resolution of the "grammar-symbol-counting dot vs. body-index
// dot" ambiguity: GramDot counts only grammar symbols (what CLOSURE/GOTO
// advance over), while BodyDot is the actual index into the production's
// Body slice (what a driver needs to run synthesized/action records in
// order). Equality and hashing only ever use GramDot.
type Item struct {
	Prod    *grammar.Production
	GramDot int
	BodyDot int
	Lookaheads map[symbol.Symbol]struct{}
}

// NewItem builds an item at gramDot with the given lookahead set. bodyDot
// is derived by walking Prod.Body and counting grammar symbols until
// gramDot of them have been passed.
func NewItem(p *grammar.Production, gramDot int, lookaheads map[symbol.Symbol]struct{}) *Item {
	bodyDot := 0
	seen := 0
	for i, e := range p.Body {
		if seen >= gramDot {
			bodyDot = i
			break
		}
		if s, ok := e.Symbol(); ok && !s.IsEpsilon() {
			seen++
		}
		bodyDot = i + 1
	}
	return &Item{Prod: p, GramDot: gramDot, BodyDot: bodyDot, Lookaheads: lookaheads}
}

// DottedSymbol returns the grammar symbol immediately after the dot, and
// true, or the zero Symbol and false if the item is reducible (the dot is
// at the end of the body).
func (it *Item) DottedSymbol() (symbol.Symbol, bool) {
	return it.Prod.SymbolAt(it.GramDot)
}

// Reducible reports whether the dot has reached the end of the countable
// body, i.e. this item looks like A -> alpha . (§3 "reducible item").
func (it *Item) Reducible() bool {
	return it.GramDot >= it.Prod.SymbolCount()
}

// Initial reports whether this is the augmented start item with the dot
// at position 0, i.e. S' -> . S.
func (it *Item) Initial() bool {
	return it.Prod.Head == symbol.Start && it.GramDot == 0
}

// coreKey identifies an item's LR(0) core: production index plus dot,
// ignoring lookaheads. Two items with the same core but different
// lookahead sets are "core-equal" per §3, and merge their lookaheads when
// inserted into the same ItemSet.
type coreKey struct {
	prodIndex int
	gramDot   int
}

func (it *Item) core() coreKey { return coreKey{it.Prod.Index, it.GramDot} }

// Equals reports full equality: same core and the exact same lookahead
// set. ItemSet's insert does not call it: it looks items up by core alone
// and merges lookaheads.
func (it *Item) Equals(other *Item) bool {
	if it.core() != other.core() {
		return false
	}
	if len(it.Lookaheads) != len(other.Lookaheads) {
		return false
	}
	for s := range it.Lookaheads {
		if _, ok := other.Lookaheads[s]; !ok {
			return false
		}
	}
	return true
}

func (it *Item) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v ->", it.Prod.Head)
	for i, e := range it.Prod.Body {
		if i == it.BodyDot {
			b.WriteString(" .")
		}
		fmt.Fprintf(&b, " %v", e)
	}
	if it.BodyDot == len(it.Prod.Body) {
		b.WriteString(" .")
	}
	b.WriteString(" , {")
	las := make([]string, 0, len(it.Lookaheads))
	for s := range it.Lookaheads {
		las = append(las, s.String())
	}
	sort.Strings(las)
	b.WriteString(strings.Join(las, "/"))
	b.WriteString("}")
	return b.String()
}
