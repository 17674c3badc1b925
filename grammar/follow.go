package grammar

import (
	"github.com/parsix/parsix/errors"
	"github.com/parsix/parsix/symbol"
)

// ComputeFOLLOW runs the fixed-point algorithm of §4.3 over every
// production and caches the result per non-terminal. FIRST must already
// be computed (§3 invariant "FOLLOW may only be computed after FIRST");
// calling this before ComputeFIRST returns a missing-precondition error.
//
// Grounded on the teacher's grammar/follow.go (genFollowSet), generalized
// from the teacher's symbol-table-keyed sets to this package's
// NonTerminal-keyed ones.
func (g *Grammar) ComputeFOLLOW() error {
	if g.follow != nil {
		return nil
	}
	if g.first == nil {
		return errors.New(errors.MissingPrecondition, "FOLLOW requires FIRST to have been computed first")
	}

	follow := map[symbol.NonTerminal]map[symbol.Symbol]struct{}{}
	for _, p := range g.prods {
		if _, ok := follow[p.Head]; !ok {
			follow[p.Head] = map[symbol.Symbol]struct{}{}
		}
	}
	// FOLLOW(start) initially contains EOF (§4.3).
	follow[g.Start()] = map[symbol.Symbol]struct{}{symbol.EndOfInput: {}}

	for {
		changed := false
		for _, p := range g.prods {
			if g.followOfProduction(follow, p) {
				changed = true
			}
		}
		if !changed {
			break
		}
	}

	g.follow = follow
	return nil
}

// followOfProduction folds production p = H -> alpha, into the FOLLOW
// sets of every non-terminal A occurring in alpha, per §4.3.
func (g *Grammar) followOfProduction(follow map[symbol.NonTerminal]map[symbol.Symbol]struct{}, p *Production) bool {
	changed := false
	n := p.SymbolCount()

	for i := 0; i < n; i++ {
		sym, _ := p.SymbolAt(i)
		a, ok := sym.NonTerm()
		if !ok {
			continue
		}

		// beta is everything after position i in the body.
		var beta []symbol.Symbol
		for j := i + 1; j < n; j++ {
			s, _ := p.SymbolAt(j)
			beta = append(beta, s)
		}
		betaStr := symbol.NewString(beta...)
		betaFirst := g.FirstOfString(betaStr)

		acc := follow[a]
		betaDerivesEpsilon := false
		for s := range betaFirst {
			if s.IsEpsilon() {
				betaDerivesEpsilon = true
				continue
			}
			if _, ok := acc[s]; !ok {
				acc[s] = struct{}{}
				changed = true
			}
		}

		if len(beta) == 0 || betaDerivesEpsilon {
			for s := range follow[p.Head] {
				if _, ok := acc[s]; !ok {
					acc[s] = struct{}{}
					changed = true
				}
			}
		}
	}

	return changed
}

// FOLLOW returns the cached FOLLOW set for a non-terminal. ComputeFOLLOW
// must have succeeded first.
func (g *Grammar) FOLLOW(nt symbol.NonTerminal) (map[symbol.Symbol]struct{}, bool) {
	if g.follow == nil {
		return nil, false
	}
	set, ok := g.follow[nt]
	return set, ok
}

// FollowReady reports whether ComputeFOLLOW has run.
func (g *Grammar) FollowReady() bool { return g.follow != nil }
