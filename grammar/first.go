package grammar

import "github.com/parsix/parsix/symbol"

// ComputeFIRST runs the fixed-point algorithm of §4.3 over every
// production and caches the result per non-terminal. It is safe to call
// more than once: repeated calls are idempotent (§8 "Monotonicity") and
// simply return the already-populated cache.
//
// Grounded on the teacher's grammar/first.go (genFirstSet /
// genProdFirstEntry), adapted to resolve the Open Question in spec.md §9
// about a production's own head appearing as the first symbol of its own
// body: rather than relying on FIRST(H) already containing EPSILON on a
// given pass (which only holds after earlier passes converge), each
// production is simply re-evaluated from scratch every pass against the
// FIRST sets accumulated so far, and the outer loop repeats until a full
// pass adds nothing — so a self-referential production naturally catches
// up on a later pass instead of needing special-cased handling.
func (g *Grammar) ComputeFIRST() {
	if g.first != nil {
		return
	}

	first := map[symbol.NonTerminal]map[symbol.Symbol]struct{}{}
	for _, p := range g.prods {
		if _, ok := first[p.Head]; !ok {
			first[p.Head] = map[symbol.Symbol]struct{}{}
		}
	}

	for {
		changed := false
		for _, p := range g.prods {
			if firstOfProduction(first, p) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	g.first = first
}

// firstOfProduction folds production p's contribution into first[p.Head],
// following the inductive rule of §4.3 body-symbol by body-symbol, and
// reports whether anything new was added.
func firstOfProduction(first map[symbol.NonTerminal]map[symbol.Symbol]struct{}, p *Production) bool {
	acc := first[p.Head]
	changed := false
	add := func(s symbol.Symbol) {
		if _, ok := acc[s]; !ok {
			acc[s] = struct{}{}
			changed = true
		}
	}

	if p.IsEpsilon() {
		add(symbol.Epsilon)
		return changed
	}

	n := p.SymbolCount()
	for i := 0; i < n; i++ {
		sym, _ := p.SymbolAt(i)

		if sym.IsTerminal() {
			add(sym)
			return changed
		}

		nt, _ := sym.NonTerm()
		ntFirst, ok := first[nt]
		if !ok {
			// FIRST(nt) has no entry yet (nt has no productions of its
			// own): nothing to merge this pass.
			return changed
		}

		hasEpsilon := false
		for s := range ntFirst {
			if s.IsEpsilon() {
				hasEpsilon = true
				continue
			}
			add(s)
		}

		if !hasEpsilon {
			return changed
		}
		if i == n-1 {
			add(symbol.Epsilon)
		}
		// EPSILON ∈ FIRST(nt) and i < n-1: continue with the next body
		// symbol, including in the self-referential case sym == p.Head.
	}

	return changed
}

// FIRST returns the cached FIRST set for a non-terminal. ComputeFIRST
// must have been called first; otherwise FIRST returns a
// missing-precondition error via the ok result being false along with a
// nil map — callers needing a hard failure should check g.FirstReady().
func (g *Grammar) FIRST(nt symbol.NonTerminal) (map[symbol.Symbol]struct{}, bool) {
	if g.first == nil {
		return nil, false
	}
	set, ok := g.first[nt]
	return set, ok
}

// FirstReady reports whether ComputeFIRST has run.
func (g *Grammar) FirstReady() bool { return g.first != nil }

// FirstOfString computes FIRST(alpha) for an arbitrary symbol sequence
// using the cached per-non-terminal FIRST sets, per §4.3's "FIRST is also
// defined for arbitrary symbol strings".
func (g *Grammar) FirstOfString(alpha *symbol.String) map[symbol.Symbol]struct{} {
	return alpha.First(func(nt symbol.NonTerminal) map[symbol.Symbol]struct{} {
		set, _ := g.FIRST(nt)
		return set
	})
}
