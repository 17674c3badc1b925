// Package symbol defines the grammar symbols shared by the grammar, lr,
// table and parser packages: terminals, non-terminals and the tagged
// Symbol value that wraps them.
package symbol

import "fmt"

// Terminal is a caller-declared enumeration of terminal symbols. Values 0
// and 1 are reserved for EPSILON and EOF; a caller's own terminals start
// at 2, mirroring the teacher's symbolNum reservation scheme.
type Terminal int

// NonTerminal is a caller-declared enumeration of non-terminal symbols.
// Value 0 is reserved for the augmented start symbol, which a Grammar
// assigns automatically to the head of its first production.
type NonTerminal int

const (
	// EPSILON denotes the empty string. It never appears in a FOLLOW set
	// and is only ever matched vacuously by the LL(1) driver.
	EPSILON Terminal = 0
	// EOF marks the end of input.
	EOF Terminal = 1

	// Start is the augmented start non-terminal, assigned to the head of
	// a grammar's first production.
	Start NonTerminal = 0

	// TerminalMin is the smallest terminal value a caller may declare for
	// their own alphabet.
	TerminalMin Terminal = 2
	// NonTerminalMin is the smallest non-terminal value a caller may
	// declare for their own alphabet.
	NonTerminalMin NonTerminal = 1
)

func (t Terminal) String() string {
	switch t {
	case EPSILON:
		return "ε"
	case EOF:
		return "$"
	default:
		return fmt.Sprintf("t%d", int(t))
	}
}

func (n NonTerminal) String() string {
	if n == Start {
		return "S'"
	}
	return fmt.Sprintf("n%d", int(n))
}

// kind tags which arm of the Symbol union is populated.
type kind uint8

const (
	kindTerminal kind = iota
	kindNonTerminal
)

// Symbol is a tagged value: either a terminal or a non-terminal. It is the
// Go sum-type replacement for the source's C-style symbol union (see
// DESIGN.md "Tagged unions").
type Symbol struct {
	kind kind
	t    Terminal
	n    NonTerminal
}

// T wraps a terminal as a Symbol.
func T(t Terminal) Symbol { return Symbol{kind: kindTerminal, t: t} }

// N wraps a non-terminal as a Symbol.
func N(n NonTerminal) Symbol { return Symbol{kind: kindNonTerminal, n: n} }

// Epsilon is the distinguished empty-string symbol.
var Epsilon = T(EPSILON)

// EndOfInput is the distinguished end-of-input symbol.
var EndOfInput = T(EOF)

// IsTerminal reports whether s is a terminal.
func (s Symbol) IsTerminal() bool { return s.kind == kindTerminal }

// IsNonTerminal reports whether s is a non-terminal.
func (s Symbol) IsNonTerminal() bool { return s.kind == kindNonTerminal }

// IsEpsilon reports whether s is the EPSILON terminal.
func (s Symbol) IsEpsilon() bool { return s.kind == kindTerminal && s.t == EPSILON }

// IsEOF reports whether s is the EOF terminal.
func (s Symbol) IsEOF() bool { return s.kind == kindTerminal && s.t == EOF }

// Term returns the wrapped terminal and true, or the zero Terminal and
// false if s is a non-terminal.
func (s Symbol) Term() (Terminal, bool) {
	if s.kind != kindTerminal {
		return 0, false
	}
	return s.t, true
}

// NonTerm returns the wrapped non-terminal and true, or the zero
// NonTerminal and false if s is a terminal.
func (s Symbol) NonTerm() (NonTerminal, bool) {
	if s.kind != kindNonTerminal {
		return 0, false
	}
	return s.n, true
}

// Less imposes the total ordering required by §3: terminals precede
// non-terminals; within a kind, ordering is by enumerator index.
func (s Symbol) Less(other Symbol) bool {
	if s.kind != other.kind {
		return s.kind == kindTerminal
	}
	if s.kind == kindTerminal {
		return s.t < other.t
	}
	return s.n < other.n
}

func (s Symbol) String() string {
	if s.kind == kindTerminal {
		return s.t.String()
	}
	return s.n.String()
}

// String is an ordered sequence of symbols with a lazily cached FIRST set.
// FIRST of an empty string is {EPSILON}; a non-empty String defers to the
// grammar's FIRST table for its constituent non-terminals, via First.
type String struct {
	Symbols []Symbol

	cached bool
	first  map[Symbol]struct{}
}

// NewString builds a symbol string from the given symbols.
func NewString(symbols ...Symbol) *String {
	return &String{Symbols: symbols}
}

// Len reports the number of symbols in the string.
func (s *String) Len() int { return len(s.Symbols) }

// IsEmpty reports whether the string has no symbols.
func (s *String) IsEmpty() bool { return len(s.Symbols) == 0 }

// FirstFunc computes FIRST(N) for a non-terminal N; it is supplied by the
// grammar package so that symbol.String stays independent of grammar.
type FirstFunc func(NonTerminal) map[Symbol]struct{}

// First returns the cached FIRST set of the string, computing it on first
// use via the standard inductive rule (§4.3). The cache is populated once
// and never mutated afterward; filling it is not synchronized.
func (s *String) First(firstOf FirstFunc) map[Symbol]struct{} {
	if s.cached {
		return s.first
	}

	result := map[Symbol]struct{}{}
	if s.IsEmpty() {
		result[Epsilon] = struct{}{}
		s.first = result
		s.cached = true
		return s.first
	}

	for _, sym := range s.Symbols {
		if sym.IsTerminal() {
			result[sym] = struct{}{}
			s.first = result
			s.cached = true
			return s.first
		}

		n, _ := sym.NonTerm()
		nFirst := firstOf(n)
		hasEpsilon := false
		for f := range nFirst {
			if f.IsEpsilon() {
				hasEpsilon = true
				continue
			}
			result[f] = struct{}{}
		}
		if !hasEpsilon {
			s.first = result
			s.cached = true
			return s.first
		}
	}
	result[Epsilon] = struct{}{}
	s.first = result
	s.cached = true
	return s.first
}
