package grammar_test

import (
	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/symbol"
)

// The canonical arithmetic-expression grammar used throughout spec.md §8:
//
//	E -> E + T | T
//	T -> T * F | F
//	F -> ( E ) | id
//
// Terminal and non-terminal numbering is local to these tests.
const (
	tPlus symbol.Terminal = iota + symbol.TerminalMin
	tStar
	tLParen
	tRParen
	tID
)

const (
	nE symbol.NonTerminal = iota + symbol.NonTerminalMin
	nT
	nF
)

func mustProd(head symbol.NonTerminal, body ...grammar.Element) *grammar.Production {
	p, err := grammar.NewProduction(head, body...)
	if err != nil {
		panic(err)
	}
	return p
}

func sym(s symbol.Symbol) grammar.Element { return grammar.Sym(s) }

// arithmeticGrammar builds E -> E + T | T, T -> T * F | F, F -> ( E ) | id
// with the augmented start production S' -> E.
func arithmeticGrammar() *grammar.Grammar {
	g, err := grammar.New(nE,
		mustProd(nE, sym(symbol.N(nE)), sym(symbol.T(tPlus)), sym(symbol.N(nT))),
		mustProd(nE, sym(symbol.N(nT))),
		mustProd(nT, sym(symbol.N(nT)), sym(symbol.T(tStar)), sym(symbol.N(nF))),
		mustProd(nT, sym(symbol.N(nF))),
		mustProd(nF, sym(symbol.T(tLParen)), sym(symbol.N(nE)), sym(symbol.T(tRParen))),
		mustProd(nF, sym(symbol.T(tID))),
	)
	if err != nil {
		panic(err)
	}
	return g
}
