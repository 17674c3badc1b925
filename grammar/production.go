// Package grammar implements the data model of §3–§4.3: symbols are
// reused from package symbol, and this package adds production elements,
// productions, the production vector (Grammar), and FIRST/FOLLOW.
//
// Grounded on the teacher's grammar/production.go, grammar/first.go and
// grammar/follow.go, generalized from the teacher's dynamically-registered
// symbolTable to the caller-declared Terminal/NonTerminal enumerations of
// symbol.Symbol, since table construction here is always programmatic
// (spec.md §1 Non-goals: no textual grammar files).
package grammar

import (
	"fmt"
	"strings"

	"github.com/parsix/parsix/errors"
	"github.com/parsix/parsix/symbol"
)

// ElementKind tags the three variants of a production element (§3
// "Production element"). This is the Go sum-type replacement for the
// source's ProdElementType union (see DESIGN.md "Tagged unions").
type ElementKind int

const (
	// ElementSymbol wraps a grammar symbol (terminal or non-terminal).
	// Only elements of this kind count toward a production's length for
	// LR reductions.
	ElementSymbol ElementKind = iota
	// ElementSynthesized wraps a synthesized record: opaque data plus an
	// optional semantic callback invoked when the LL driver pops it.
	ElementSynthesized
	// ElementAction wraps an action record: same shape as a synthesized
	// record, distinguished only by tag.
	ElementAction
)

func (k ElementKind) String() string {
	switch k {
	case ElementSymbol:
		return "symbol"
	case ElementSynthesized:
		return "synthesized"
	case ElementAction:
		return "action"
	default:
		return "unknown"
	}
}

// RecordAction is the callback shape invoked for a synthesized or action
// record when the LL driver pops it off the stack (§6 "LL
// synthesized/action record").
type RecordAction func(stack *LLStack, data any)

// Element is a single production-body element: a tagged union over a
// grammar symbol, a synthesized record, or an action record (§3).
type Element struct {
	kind ElementKind
	sym  symbol.Symbol

	data   any
	action RecordAction
}

// Sym builds a grammar-symbol element.
func Sym(s symbol.Symbol) Element { return Element{kind: ElementSymbol, sym: s} }

// Synthesized builds a synthesized-record element.
func Synthesized(data any, action RecordAction) Element {
	return Element{kind: ElementSynthesized, data: data, action: action}
}

// Action builds an action-record element.
func Action(data any, action RecordAction) Element {
	return Element{kind: ElementAction, data: data, action: action}
}

// Kind reports which variant e holds.
func (e Element) Kind() ElementKind { return e.kind }

// IsSymbol reports whether e wraps a grammar symbol.
func (e Element) IsSymbol() bool { return e.kind == ElementSymbol }

// Symbol returns the wrapped grammar symbol and true, or the zero Symbol
// and false if e is not a grammar-symbol element.
func (e Element) Symbol() (symbol.Symbol, bool) {
	if e.kind != ElementSymbol {
		return symbol.Symbol{}, false
	}
	return e.sym, true
}

// Invoke runs e's action, if any, against the given LL stack. It is a
// no-op for grammar-symbol elements and for records with a nil action.
func (e Element) Invoke(stack *LLStack) {
	if e.kind == ElementSymbol || e.action == nil {
		return
	}
	e.action(stack, e.data)
}

func (e Element) String() string {
	switch e.kind {
	case ElementSymbol:
		return e.sym.String()
	case ElementSynthesized:
		return "{synthesized}"
	case ElementAction:
		return "{action}"
	default:
		return "?"
	}
}

// ReduceAction is invoked when the LR driver reduces by a production (§6
// "LR postfix reduce action"). The new state's Data field may be set by
// the callback to carry a synthesized attribute up the stack.
type ReduceAction func(stack *LRStack, newState *LRStackElement)

// AcceptAction is invoked once, on the augmented start production, when
// the LR driver reaches the accept action at the end of a successful
// parse (§6 "LR postfix accept action"). Production 0 is not reduced, so
// the start symbol's frame is still on top of the stack. result is the
// caller-supplied accumulator threaded through Parse.
//
// spec.md §9 leaves open whether accept and reduce should share one
// callback shape with an ignored parameter or be two distinct fields;
// DESIGN.md records the decision to use two distinct fields, which is
// what this type split embodies.
type AcceptAction func(stack *LRStack, newState *LRStackElement, result any)

// Production is a single grammar rule: a head non-terminal, a non-empty
// body of elements, an index assigned once placed into a Grammar, and an
// optional postfix action invoked by the LR driver on reduction (§3).
type Production struct {
	Head symbol.NonTerminal
	Body []Element

	// Index is assigned by Grammar.add; it is the "k" referenced by LR
	// table entries (shift/reduce/goto all carry production or state
	// indices) and by LL table production-reference entries.
	Index int

	// symbolCount is the number of ElementSymbol entries in Body; this is
	// the "length" used for LR reductions (only grammar symbols count).
	symbolCount int

	OnReduce ReduceAction
	OnAccept AcceptAction
}

// NewProduction builds a production from a head and a non-empty body.
// Index is left at its zero value until the production is added to a
// Grammar.
func NewProduction(head symbol.NonTerminal, body ...Element) (*Production, error) {
	if len(body) == 0 {
		return nil, errors.New(errors.InvalidConstruction, "production body must be non-empty; head: %v", head)
	}
	p := &Production{Head: head, Body: body}
	for _, e := range body {
		if isCountableSymbol(e) {
			p.symbolCount++
		}
	}
	return p, nil
}

// isCountableSymbol reports whether e is a grammar-symbol element that
// counts toward a production's length. EPSILON may appear explicitly as a
// body element (so an epsilon production still satisfies the "non-empty
// body" invariant, and the LL driver can pop and match it vacuously per
// §4.5), but it is never itself shifted or reduced over, so it is excluded
// here — this is what makes IsEpsilon, the LR pop count, and CLOSURE's dot
// arithmetic agree with standard grammar theory.
func isCountableSymbol(e Element) bool {
	s, ok := e.Symbol()
	return ok && !s.IsEpsilon()
}

// SymbolCount returns the number of grammar-symbol elements in the body,
// i.e. the length the LR driver pops on a reduction by this production.
func (p *Production) SymbolCount() int { return p.symbolCount }

// IsEpsilon reports whether the production has no grammar-symbol elements
// (it derives the empty string, modulo any records in its body).
func (p *Production) IsEpsilon() bool { return p.symbolCount == 0 }

// Symbols returns just the grammar-symbol elements of the body, in order,
// as a *symbol.String — used by FIRST/FOLLOW and by CLOSURE.
func (p *Production) Symbols() *symbol.String {
	syms := make([]symbol.Symbol, 0, p.symbolCount)
	for _, e := range p.Body {
		if !isCountableSymbol(e) {
			continue
		}
		s, _ := e.Symbol()
		syms = append(syms, s)
	}
	return symbol.NewString(syms...)
}

// SymbolAt returns the i'th grammar-symbol element's symbol (0-indexed
// among grammar symbols only, skipping records and EPSILON), and true, or
// the zero Symbol and false if i is out of range.
func (p *Production) SymbolAt(i int) (symbol.Symbol, bool) {
	if i < 0 || i >= p.symbolCount {
		return symbol.Symbol{}, false
	}
	n := 0
	for _, e := range p.Body {
		if !isCountableSymbol(e) {
			continue
		}
		s, _ := e.Symbol()
		if n == i {
			return s, true
		}
		n++
	}
	return symbol.Symbol{}, false
}

// Equals compares two productions ignoring Index and the postfix actions,
// per §3 "Equality ignores index and action".
func (p *Production) Equals(q *Production) bool {
	if p.Head != q.Head || len(p.Body) != len(q.Body) {
		return false
	}
	for i := range p.Body {
		a, b := p.Body[i], q.Body[i]
		if a.kind != b.kind {
			return false
		}
		if a.kind == ElementSymbol && a.sym != b.sym {
			return false
		}
	}
	return true
}

func (p *Production) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "%v ->", p.Head)
	for _, e := range p.Body {
		fmt.Fprintf(&b, " %v", e)
	}
	return b.String()
}
