package lr

import (
	"sort"
	"strings"

	"github.com/emirpasic/gods/v2/queues/linkedlistqueue"

	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/symbol"
)

// ItemSet is an unordered collection of LR(1) items that core-merges on
// insert: inserting an item whose core already exists unions the
// incoming lookaheads into the existing item rather than adding a
// duplicate (§3 "an item set never holds two items with the same core").
type ItemSet struct {
	byCore map[coreKey]*Item
	order  []coreKey

	// closure caches this set's own CLOSURE, computed at most once (§4.4
	// "CLOSURE is cached on the item set"), following the same
	// idempotent-publish shape as symbol.String.First and Grammar's
	// FIRST/FOLLOW caches: nil until populated, never mutated afterward.
	closure *ItemSet
}

// NewItemSet builds an empty item set.
func NewItemSet() *ItemSet {
	return &ItemSet{byCore: map[coreKey]*Item{}}
}

// Insert adds it to the set, merging lookaheads into an existing
// core-equal item if present. It reports whether the set's content
// actually changed (a new core, or new lookaheads merged into one).
func (s *ItemSet) Insert(it *Item) bool {
	c := it.core()
	existing, ok := s.byCore[c]
	if !ok {
		cp := &Item{Prod: it.Prod, GramDot: it.GramDot, BodyDot: it.BodyDot, Lookaheads: map[symbol.Symbol]struct{}{}}
		for la := range it.Lookaheads {
			cp.Lookaheads[la] = struct{}{}
		}
		s.byCore[c] = cp
		s.order = append(s.order, c)
		return true
	}
	changed := false
	for la := range it.Lookaheads {
		if _, has := existing.Lookaheads[la]; !has {
			existing.Lookaheads[la] = struct{}{}
			changed = true
		}
	}
	return changed
}

// Items returns the set's items in stable insertion order.
func (s *ItemSet) Items() []*Item {
	items := make([]*Item, len(s.order))
	for i, c := range s.order {
		items[i] = s.byCore[c]
	}
	return items
}

// Len reports the number of distinct item cores in the set.
func (s *ItemSet) Len() int { return len(s.order) }

// CoreEquals reports whether s and other contain exactly the same set of
// item cores, ignoring lookaheads (§3 "core equality").
func (s *ItemSet) CoreEquals(other *ItemSet) bool {
	if len(s.byCore) != len(other.byCore) {
		return false
	}
	for c := range s.byCore {
		if _, ok := other.byCore[c]; !ok {
			return false
		}
	}
	return true
}

// Equals reports full equality: same cores and, for each, identical
// lookahead sets.
func (s *ItemSet) Equals(other *ItemSet) bool {
	if !s.CoreEquals(other) {
		return false
	}
	for c, it := range s.byCore {
		o := other.byCore[c]
		if len(it.Lookaheads) != len(o.Lookaheads) {
			return false
		}
		for la := range it.Lookaheads {
			if _, ok := o.Lookaheads[la]; !ok {
				return false
			}
		}
	}
	return true
}

// FirstFuncOf adapts a *grammar.Grammar into the symbol.FirstFunc shape
// that symbol.String.First needs (package grammar doesn't import package
// symbol's FirstFunc type to avoid coupling the two at the function-value
// level; lr is where the two are wired together for CLOSURE).
func FirstFuncOf(g *grammar.Grammar) symbol.FirstFunc {
	return func(nt symbol.NonTerminal) map[symbol.Symbol]struct{} {
		set, _ := g.FIRST(nt)
		return set
	}
}

// CLOSURE computes the closure of an item set under grammar g, per the
// standard canonical-LR(1) CLOSURE algorithm of §4.4. Grounded on the
// teacher's genClosure/genLR0Closure worklist shape (grammar/lr0.go,
// grammar/lalr1.go), generalized to carry and propagate lookahead sets
// instead of merging them in a separate LALR pass, and using a
// gods/v2 linkedlistqueue for the worklist instead of the teacher's
// hand-rolled round slices.
//
// The result is cached on kernel; calling CLOSURE again on the same
// *ItemSet returns the cached set instead of recomputing. GOTO builds a
// fresh kernel on every call, so its own CLOSURE call is always computed
// anew.
func CLOSURE(g *grammar.Grammar, kernel *ItemSet) *ItemSet {
	if kernel.closure != nil {
		return kernel.closure
	}

	closure := NewItemSet()
	worklist := linkedlistqueue.New[*Item]()
	for _, it := range kernel.Items() {
		closure.Insert(it)
		worklist.Enqueue(it)
	}

	for !worklist.Empty() {
		it, _ := worklist.Dequeue()
		dotted, ok := it.DottedSymbol()
		if !ok || dotted.IsTerminal() {
			continue
		}
		b, _ := dotted.NonTerm()

		// beta is what follows the dotted non-terminal in it's own body.
		n := it.Prod.SymbolCount()
		var betaSyms []symbol.Symbol
		for i := it.GramDot + 1; i < n; i++ {
			s, _ := it.Prod.SymbolAt(i)
			betaSyms = append(betaSyms, s)
		}
		beta := symbol.NewString(betaSyms...)
		betaFirst := beta.First(FirstFuncOf(g))

		lookaheads := map[symbol.Symbol]struct{}{}
		betaDerivesEpsilon := false
		for s := range betaFirst {
			if s.IsEpsilon() {
				betaDerivesEpsilon = true
				continue
			}
			lookaheads[s] = struct{}{}
		}
		if betaDerivesEpsilon {
			for la := range it.Lookaheads {
				lookaheads[la] = struct{}{}
			}
		}

		for _, p := range g.ProductionsFor(b) {
			newItem := NewItem(p, 0, lookaheads)
			changed := closure.Insert(newItem)
			if changed {
				// Re-enqueue the merged item so its (possibly grown)
				// lookahead set propagates to whatever it in turn closes
				// over.
				worklist.Enqueue(closure.byCore[newItem.core()])
			}
		}
	}

	kernel.closure = closure
	return closure
}

// GOTO computes the successor item set reached from closed item set I on
// grammar symbol x: the kernel of every item in I whose dotted symbol is
// x, advanced one position, closed under CLOSURE (§4.4 "GOTO").
func GOTO(g *grammar.Grammar, I *ItemSet, x symbol.Symbol) *ItemSet {
	kernel := NewItemSet()
	for _, it := range I.Items() {
		dotted, ok := it.DottedSymbol()
		if !ok || dotted != x {
			continue
		}
		kernel.Insert(NewItem(it.Prod, it.GramDot+1, it.Lookaheads))
	}
	if kernel.Len() == 0 {
		return kernel
	}
	return CLOSURE(g, kernel)
}

// String renders the items in a stable, sorted order for diffable test
// output and debugging.
func (s *ItemSet) String() string {
	lines := make([]string, 0, s.Len())
	for _, it := range s.Items() {
		lines = append(lines, it.String())
	}
	sort.Strings(lines)
	return strings.Join(lines, "\n")
}
