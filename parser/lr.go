package parser

import (
	"github.com/parsix/parsix/errors"
	"github.com/parsix/parsix/grammar"
	"github.com/parsix/parsix/lexer"
	"github.com/parsix/parsix/lr"
	"github.com/parsix/parsix/symbol"
	"github.com/parsix/parsix/table"
)

// DefaultErrorLimit is the number of errors an LR driver will attempt to
// recover from before giving up (§7 "Error recovery limit").
const DefaultErrorLimit = 5

// LR drives a table-driven LR(1) parse over a lexer (§4.6).
//
// Grounded on original_source/LRParser.hpp's _take_parsing_action,
// _reduce and _error_recov_panic_mode.
type LR struct {
	table  *table.LRTable
	lex    *lexer.Lexer
	policy lexer.WhitespacePolicy

	stack      *grammar.LRStack
	cur        symbol.Token
	errorCount int
	errorLimit int
}

// NewLR builds an LR driver over the given table and lexer, with the
// default error recovery limit.
func NewLR(t *table.LRTable, lex *lexer.Lexer, policy lexer.WhitespacePolicy) *LR {
	return &LR{table: t, lex: lex, policy: policy, stack: grammar.NewLRStack(), errorLimit: DefaultErrorLimit}
}

// SetErrorLimit overrides the default error recovery limit.
func (p *LR) SetErrorLimit(n int) { p.errorLimit = n }

func (p *LR) fetch() error {
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

// Parse runs the main loop of §4.6: initialize the stack to the start
// state, fetch the first token, and repeatedly consult the action table
// for (top state, current token) until accept or an unrecoverable error.
// result is a caller-supplied accumulator, threaded through to the
// augmented start production's accept action and returned unchanged if
// no such action is attached.
func (p *LR) Parse(result any) (any, error) {
	g := p.table.Grammar()
	if !g.FollowReady() {
		if err := g.ComputeFOLLOW(); err != nil {
			return nil, err
		}
	}

	p.stack.Reset()
	p.errorCount = 0
	if err := p.fetch(); err != nil {
		return nil, err
	}

	for {
		top := p.stack.Top()
		action := p.table.Action(lr.StateID(top.State), p.cur.Name)

		switch action.Kind {
		case table.LRActionShift:
			tok := p.cur
			if err := p.fetch(); err != nil {
				return nil, err
			}
			p.stack.Push(grammar.LRStackElement{State: int(action.ShiftState), Token: tok})

		case table.LRActionReduce:
			if err := p.reduce(action.Prod); err != nil {
				return nil, err
			}

		case table.LRActionAccept:
			return p.accept(result), nil

		default:
			if err := p.recoverFromError(); err != nil {
				return nil, err
			}
		}
	}
}

// reduce implements §4.6's reduce step: run the production's postfix
// reduce action (if any), pop SymbolCount() frames, look up the new
// state via GOTO[top][head], and push it.
func (p *LR) reduce(prod *grammar.Production) error {
	newState := grammar.LRStackElement{}
	if prod.OnReduce != nil {
		prod.OnReduce(p.stack, &newState)
	}

	if !p.stack.PopN(prod.SymbolCount()) {
		return errors.New(errors.TableInvariantViolated, "LR stack underflow reducing by %v", prod)
	}

	top := p.stack.Top()
	g := p.table.Goto(lr.StateID(top.State), prod.Head)
	if g.Kind != table.LRGotoState {
		return errors.New(errors.TableInvariantViolated,
			"GOTO table has no entry for state %d on %v after reducing by %v", top.State, prod.Head, prod)
	}

	newState.State = int(g.State)
	p.stack.Push(newState)
	return nil
}

// accept implements §4.6's accept step: run the augmented start
// production's postfix accept action, if any, passing it the caller's
// accumulator.
func (p *LR) accept(result any) any {
	start := p.table.Grammar().Production(0)
	newState := grammar.LRStackElement{}
	if start.OnAccept != nil {
		start.OnAccept(p.stack, &newState, result)
	}
	return result
}

// recoverFromError implements §4.7's LR panic mode, entered whenever the
// action table has no entry for (top state, current token).
func (p *LR) recoverFromError() error {
	p.errorCount++
	if p.errorCount > p.errorLimit {
		return errors.New(errors.ErrorLimitExceeded, "exceeded the error recovery limit of %d", p.errorLimit)
	}
	return p.panicMode()
}

// panicMode walks the stack top-down until it finds a state with at
// least one GOTO entry, recording every non-terminal that state has a
// GOTO on; it then scans forward through the input (including the
// current, already-fetched token) for one that lies in FOLLOW(N) for
// some recorded N, pushes GOTO[state][N], and resumes. Reaching EOF
// without synchronizing fails the parse, per the decision recorded in
// DESIGN.md: the source's retry-until-the-error-limit-fires behavior in
// this situation always ends in failure, so this driver reports it
// directly instead of looping to the same outcome.
func (p *LR) panicMode() error {
	var recorded []symbol.NonTerminal
	depth := 0
	found := false
	p.stack.States(func(frame grammar.LRStackElement) bool {
		state := p.table.Automaton().State(lr.StateID(frame.State))
		for x := range state.Next {
			if nt, ok := x.NonTerm(); ok {
				recorded = append(recorded, nt)
			}
		}
		if len(recorded) > 0 {
			found = true
			return false
		}
		depth++
		return true
	})
	if !found {
		return errors.New(errors.ParseErrorUnrecoverable, "LR panic-mode recovery found no state with a GOTO entry to synchronize on")
	}
	if depth > 0 && !p.stack.PopN(depth) {
		return errors.New(errors.ParseErrorUnrecoverable, "LR panic-mode recovery found no state with a GOTO entry to synchronize on")
	}

	for {
		// EOF is never treated as a synchronizing lookahead, even when it
		// is technically a member of some recorded non-terminal's FOLLOW
		// set: recovery that has run out of input without matching a real
		// token failed to recover, it did not get lucky. See DESIGN.md for
		// this decision.
		if p.cur.IsEOF() {
			return errors.New(errors.ParseErrorUnrecoverable, "LR panic-mode recovery could not synchronize before reaching EOF")
		}

		for _, nt := range recorded {
			follow, ok := p.table.Grammar().FOLLOW(nt)
			if !ok {
				continue
			}
			if _, inFollow := follow[symbol.T(p.cur.Name)]; !inFollow {
				continue
			}

			top := p.stack.Top()
			g := p.table.Goto(lr.StateID(top.State), nt)
			if g.Kind != table.LRGotoState {
				return errors.New(errors.TableInvariantViolated, "recorded non-terminal %v has no GOTO at state %d", nt, top.State)
			}
			p.stack.Push(grammar.LRStackElement{State: int(g.State)})
			return nil
		}

		if err := p.fetch(); err != nil {
			return err
		}
	}
}
