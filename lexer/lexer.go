// Package lexer implements the lexical analyzer of §4.2: an FSM-driven
// scanner that slices the next lexeme from a remaining-input buffer,
// tracks a (line, column) cursor, and hands matched lexemes to a
// caller-supplied token factory.
//
// Grounded on the teacher's driver/lexer/lexer.go for the cursor-state
// shape (srcPtr/row/col, a "last accepted state" rewind point) and the
// caller-supplied factory pattern (LexSpec.KindIDAndName), simplified
// from the teacher's multi-mode push/pop lexer since this toolkit's
// lexer drives a single FSM per lexical grammar (mode stacks are a
// textual-grammar-DSL feature, out of scope per spec.md §1).
package lexer

import (
	"github.com/parsix/parsix/fsm"
	"github.com/parsix/parsix/symbol"
)

// WhitespacePolicy controls what the scanner does with leading
// whitespace before each scan (§4.2 "Whitespace policy").
type WhitespacePolicy int

const (
	// Default strips all leading whitespace; \n advances Line, every
	// other whitespace byte advances Column.
	Default WhitespacePolicy = iota
	// AllowWhitespace keeps whitespace in the input; lexemes may
	// contain it.
	AllowWhitespace
	// AllowNewline strips non-newline whitespace only; newlines pass
	// through for the caller's grammar to tokenize.
	AllowNewline
)

// TokenFactory builds a token from the FSM's final state and the
// matched lexeme (§6 "Token factory (caller-supplied)"). The factory
// must handle every state it designated as final at FSM-construction
// time.
type TokenFactory func(final fsm.State, lexeme []byte) symbol.Token

// Result is the outcome of a Next or Peek call.
type Result struct {
	Found bool
	Token symbol.Token
	Start, End int
	Line, Col int
}

// Lexer holds an FSM, a token factory, the remaining input, and a
// (line, column) cursor (§4.2 "Holds an FSM...").
type Lexer struct {
	machine *fsm.Machine
	factory TokenFactory
	input   []byte
	pos     int
	line    int
	col     int
}

// New builds a Lexer over the full input buffer, starting at (line 1,
// column 1).
func New(machine *fsm.Machine, factory TokenFactory, input []byte) *Lexer {
	return &Lexer{machine: machine, factory: factory, input: input, pos: 0, line: 1, col: 1}
}

// Line returns the current line number.
func (l *Lexer) Line() int { return l.line }

// Col returns the current column number.
func (l *Lexer) Col() int { return l.col }

// Remaining returns the input not yet consumed, including any leading
// whitespace the next scan has not yet stripped.
func (l *Lexer) Remaining() []byte { return l.input[l.pos:] }

func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\v' || c == '\f'
}

// stripWhitespace advances the cursor over leading whitespace per
// policy. It always runs, even for Peek, per §4.2: "whitespace stripping
// may still advance the cursor."
func (l *Lexer) stripWhitespace(policy WhitespacePolicy) {
	if policy == AllowWhitespace {
		return
	}
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if !isWhitespace(c) {
			return
		}
		if policy == AllowNewline && c == '\n' {
			return
		}
		if c == '\n' {
			l.line++
			l.col = 1
		} else {
			l.col++
		}
		l.pos++
	}
}

// scan strips whitespace, then runs the FSM in longest-prefix mode over
// the remaining input. It never mutates l.pos/l.line/l.col for the
// matched lexeme itself; the caller decides whether to commit via
// advance.
func (l *Lexer) scan(policy WhitespacePolicy) (Result, int, error) {
	l.stripWhitespace(policy)

	if l.pos >= len(l.input) {
		return Result{Found: true, Token: symbol.EOFToken, Start: l.pos, End: l.pos, Line: l.line, Col: l.col}, 0, nil
	}

	res, err := l.machine.Simulate(l.input[l.pos:], fsm.LongestPrefix)
	if err != nil {
		return Result{}, 0, err
	}
	if !res.Accepted {
		return Result{Found: false, Line: l.line, Col: l.col}, 0, nil
	}

	lexeme := res.Match()
	final := anyFinalState(res.FinalStates)
	tok := l.factory(final, lexeme)
	return Result{
		Found: true,
		Token: tok,
		Start: l.pos,
		End:   l.pos + len(lexeme),
		Line:  l.line,
		Col:   l.col,
	}, len(lexeme), nil
}

func anyFinalState(set fsm.StateSet) fsm.State {
	best := fsm.State(-1)
	for s := range set {
		if best == -1 || s < best {
			best = s
		}
	}
	return best
}

// Next slices and consumes the next lexeme (§4.2 "next"). On
// acceptance, it advances Column by the lexeme length and consumes the
// lexeme from the remaining input. On non-acceptance, it returns a
// not-found result without consuming anything.
func (l *Lexer) Next(policy WhitespacePolicy) (Result, error) {
	res, n, err := l.scan(policy)
	if err != nil {
		return Result{}, err
	}
	if res.Found && n > 0 {
		l.pos += n
		l.col += n
	}
	return res, nil
}

// Peek is identical to Next but does not consume the matched lexeme;
// leading whitespace is still stripped and the cursor still advances
// over it, per §4.2.
func (l *Lexer) Peek(policy WhitespacePolicy) (Result, error) {
	res, _, err := l.scan(policy)
	if err != nil {
		return Result{}, err
	}
	return res, nil
}

