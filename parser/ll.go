// Package parser implements the two table-driven parsing loops of §4.5
// and §4.6 (LL(1) and LR(1)), together with their panic-mode error
// recovery routines (§4.7).
//
// Grounded on original_source/include/parsix/LLParser.h for the LL
// control flow (parse_grammar_symbol dispatch, panic_mode,
// panic_mode_try_sync_variable) and original_source/LRParser.hpp for the
// LR control flow (_take_parsing_action, _reduce,
// _error_recov_panic_mode), with the teacher's
// driver/parser/semantic_action.go as the secondary grounding source for
// the Go shape of the callback types (kept in package grammar, see
// stack.go and production.go).
package parser

import (
	"fmt"

	"github.com/parsix/parsix/errors"
	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/lexer"
	"github.com/parsix/parsix/symbol"
	"github.com/parsix/parsix/table"
)

// LL drives a table-driven LL(1) parse over a lexer (§4.5).
type LL struct {
	table  *table.LLTable
	lex    *lexer.Lexer
	policy lexer.WhitespacePolicy

	stack *grammar.LLStack
	cur   symbol.Token
}

// NewLL builds an LL driver over the given table and lexer.
func NewLL(t *table.LLTable, lex *lexer.Lexer, policy lexer.WhitespacePolicy) *LL {
	return &LL{table: t, lex: lex, policy: policy, stack: grammar.NewLLStack()}
}

func (p *LL) fetch() error {
	res, err := p.lex.Next(p.policy)
	if err != nil {
		return err
	}
	if !res.Found {
		return errors.New(errors.ParseErrorUnrecoverable, "lexer could not match any token at line %d, col %d", p.lex.Line(), p.lex.Col())
	}
	p.cur = res.Token
	return nil
}

// Parse runs the main loop of §4.5: reset the stack, push the start
// symbol, fetch the first token, and repeatedly pop and dispatch the top
// stack element until the stack is empty.
func (p *LL) Parse() error {
	p.stack.Reset()
	p.stack.Push(p.table.Grammar().Production(0).Body[0])
	if err := p.fetch(); err != nil {
		return err
	}

	for !p.stack.Empty() {
		el, _ := p.stack.Pop()
		switch el.Kind() {
		case grammar.ElementSymbol:
			if err := p.parseSymbol(el); err != nil {
				return err
			}
		default:
			el.Invoke(p.stack)
		}
	}

	if !p.cur.IsEOF() {
		return errors.New(errors.ParseErrorUnrecoverable, "input remains after the start symbol was fully matched: current token %v", p.cur)
	}
	return nil
}

// parseSymbol implements §4.5's parse_symbol.
func (p *LL) parseSymbol(el grammar.Element) error {
	s, _ := el.Symbol()

	if s.IsEpsilon() {
		return nil
	}

	if term, ok := s.Term(); ok {
		matched := term == p.cur.Name
		offending := p.cur
		if err := p.fetch(); err != nil {
			return err
		}
		if !matched {
			return p.panicLLTerminal(offending)
		}
		return nil
	}

	nt, _ := s.NonTerm()
	entry := p.table.Lookup(nt, p.cur.Name)
	if entry.Kind == table.LLError {
		return p.panicLLNonTerminal(nt)
	}
	p.pushBody(entry.Prod)
	return nil
}

// pushBody pushes a production's body in reverse order so the first
// element becomes the new stack top.
func (p *LL) pushBody(prod *grammar.Production) {
	for i := len(prod.Body) - 1; i >= 0; i-- {
		p.stack.Push(prod.Body[i])
	}
}

// panicLLTerminal implements §4.7's terminal branch: report, pretend the
// mismatched terminal was matched (it is already off the stack, and its
// replacement token has already been fetched by parseSymbol), resume.
func (p *LL) panicLLTerminal(offending symbol.Token) error {
	_ = offending // reported via the caller's logging layer, if any
	return nil
}

// panicLLNonTerminal implements §4.7's non-terminal branch for a
// mismatched non-terminal A: try an epsilon production, then scan
// forward for a synchronizing token, consulting any caller-attached
// error action along the way, failing only if EOF is reached with the
// stack exhausted.
func (p *LL) panicLLNonTerminal(a symbol.NonTerminal) error {
	for _, prod := range p.table.Grammar().ProductionsFor(a) {
		if prod.IsEpsilon() {
			p.pushBody(prod)
			return nil
		}
	}

	for {
		peeked, err := p.lex.Peek(p.policy)
		if err != nil {
			return err
		}
		if peeked.Token.IsEOF() {
			break
		}

		entry := p.table.Lookup(a, peeked.Token.Name)
		switch entry.Kind {
		case table.LLProduction:
			if err := p.fetch(); err != nil {
				return err
			}
			return nil
		case table.LLErrorWithAction:
			top := grammar.Sym(symbol.N(a))
			if entry.Action(p.stack, top, peeked.Token) {
				if err := p.fetch(); err != nil {
					return err
				}
				return nil
			}
		}

		// Not synchronized on this token: discard it and try the next.
		if err := p.fetch(); err != nil {
			return err
		}
	}

	return p.failToSynchronize(a)
}

// failToSynchronize implements §4.7 step 4: pop A (already off the
// stack) and let the caller continue with whatever is now on top; if the
// stack is already empty, the parse cannot recover.
func (p *LL) failToSynchronize(a symbol.NonTerminal) error {
	if p.stack.Empty() {
		return errors.New(errors.ParseErrorUnrecoverable, "LL panic-mode recovery could not synchronize for %v before reaching EOF", a)
	}
	return nil
}

func (p *LL) String() string {
	return fmt.Sprintf("LL{stack depth=%d, current=%v}", p.stack.Len(), p.cur)
}
