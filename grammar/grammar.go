package grammar

import (
	"github.com/parsix/parsix/errors"
	"github.com/parsix/parsix/symbol"
)

// Grammar is an ordered collection of productions (§3 "Grammar /
// production vector"). It caches FIRST per non-terminal and FOLLOW per
// non-terminal once computed, lazily and idempotently (§5): once
// populated, a cache is never mutated, so concurrent Parse calls over the
// same Grammar are safe.
//
// The head of the first production is the augmented start symbol (§3),
// and it is always symbol.Start: New synthesizes the S' -> S wrapper
// itself and rejects caller productions headed by symbol.Start, so
// canonical construction (lr.Build) has a single, predictable augmented
// production to seed CLOSURE from. lr.Build rejects a grammar whose first
// production has any other head.
type Grammar struct {
	prods []*Production

	first  map[symbol.NonTerminal]map[symbol.Symbol]struct{}
	follow map[symbol.NonTerminal]map[symbol.Symbol]struct{}
}

// New builds a Grammar whose augmented start production is
// symbol.Start -> start, followed by the given productions (in order).
// Indices are assigned in that order: the augmented production is always
// index 0.
func New(start symbol.NonTerminal, prods ...*Production) (*Grammar, error) {
	startProd, err := NewProduction(symbol.Start, Sym(symbol.N(start)))
	if err != nil {
		return nil, err
	}

	g := &Grammar{}
	g.add(startProd)
	for _, p := range prods {
		if p.Head == symbol.Start {
			return nil, errors.New(errors.InvalidConstruction, "a caller production cannot use the augmented start symbol as its head")
		}
		g.add(p)
	}
	return g, nil
}

func (g *Grammar) add(p *Production) {
	p.Index = len(g.prods)
	g.prods = append(g.prods, p)
}

// Productions returns the production vector in index order.
func (g *Grammar) Productions() []*Production { return g.prods }

// Production returns the production at index i.
func (g *Grammar) Production(i int) *Production { return g.prods[i] }

// Len reports the number of productions, including the augmented start
// production.
func (g *Grammar) Len() int { return len(g.prods) }

// Start returns the augmented start symbol, symbol.Start.
func (g *Grammar) Start() symbol.NonTerminal { return symbol.Start }

// ProductionsFor returns, in index order, every production whose head is
// nt.
func (g *Grammar) ProductionsFor(nt symbol.NonTerminal) []*Production {
	var out []*Production
	for _, p := range g.prods {
		if p.Head == nt {
			out = append(out, p)
		}
	}
	return out
}
