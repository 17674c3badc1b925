package grammar

import "github.com/parsix/parsix/symbol"

// LLStack is the LL(1) driver's parsing stack: a sequence of production
// elements still to match, top last (§3 "LL stack element"). It lives
// here, alongside Element, so that RecordAction callbacks (which need to
// inspect and mutate the stack) don't create an import cycle between
// grammar and parser.
type LLStack struct {
	elems []Element
}

// NewLLStack returns an empty LL stack.
func NewLLStack() *LLStack { return &LLStack{} }

// Push appends elements in the order given, so the last one becomes the
// new top. Per §4.5, the driver pushes a production's body in reverse
// order so that its first element ends up on top.
func (s *LLStack) Push(elems ...Element) { s.elems = append(s.elems, elems...) }

// Pop removes and returns the top element and true, or the zero Element
// and false if the stack is empty.
func (s *LLStack) Pop() (Element, bool) {
	if len(s.elems) == 0 {
		return Element{}, false
	}
	top := s.elems[len(s.elems)-1]
	s.elems = s.elems[:len(s.elems)-1]
	return top, true
}

// Top returns the top element without removing it, and true, or the zero
// Element and false if the stack is empty.
func (s *LLStack) Top() (Element, bool) {
	if len(s.elems) == 0 {
		return Element{}, false
	}
	return s.elems[len(s.elems)-1], true
}

// Len reports the number of elements on the stack.
func (s *LLStack) Len() int { return len(s.elems) }

// Empty reports whether the stack has no elements.
func (s *LLStack) Empty() bool { return len(s.elems) == 0 }

// Reset clears the stack for a fresh parse, per §3 "Lifecycle".
func (s *LLStack) Reset() { s.elems = s.elems[:0] }

// Elements returns a read-only view of the stack, bottom to top, for
// diagnostics and for semantic actions that need to look several frames
// down (e.g. to build a syntax tree).
func (s *LLStack) Elements() []Element { return s.elems }

// LRStackElement is a single frame of the LR driver's state stack: a
// state id, caller-defined attribute data, and the last token consumed
// to reach this state (§3 "LR stack element").
type LRStackElement struct {
	State int
	Data  any
	Token symbol.Token
}

// LRStack is the LR(1) driver's stack of states (§3, §4.6).
type LRStack struct {
	frames []LRStackElement
}

// NewLRStack returns a stack initialized with the single start-state
// frame (state 0), per §4.6 "the start state is 0".
func NewLRStack() *LRStack {
	return &LRStack{frames: []LRStackElement{{State: 0}}}
}

// Push appends a new frame, making it the new top.
func (s *LRStack) Push(frame LRStackElement) { s.frames = append(s.frames, frame) }

// Pop removes and returns the top frame and true, or the zero frame and
// false if only the start frame remains (the start frame is never
// popped).
func (s *LRStack) Pop() (LRStackElement, bool) {
	if len(s.frames) <= 1 {
		return LRStackElement{}, false
	}
	top := s.frames[len(s.frames)-1]
	s.frames = s.frames[:len(s.frames)-1]
	return top, true
}

// PopN removes the top n frames. It returns false without modifying the
// stack if doing so would pop below the start frame.
func (s *LRStack) PopN(n int) bool {
	if len(s.frames)-n < 1 {
		return false
	}
	s.frames = s.frames[:len(s.frames)-n]
	return true
}

// Top returns the top frame. The stack always has at least the start
// frame, so this never fails on a properly initialized stack.
func (s *LRStack) Top() LRStackElement { return s.frames[len(s.frames)-1] }

// SetTopData overwrites the Data field of the top frame. The LR driver
// runs a ReduceAction before popping the reduced frames, so a reduce
// callback publishes its attribute through newState, not through this.
func (s *LRStack) SetTopData(data any) { s.frames[len(s.frames)-1].Data = data }

// Len reports the number of frames on the stack, including the start
// frame.
func (s *LRStack) Len() int { return len(s.frames) }

// Frames returns a read-only view of the stack, bottom to top.
func (s *LRStack) Frames() []LRStackElement { return s.frames }

// States walks the stack top-down, yielding each frame's state to visit
// until visit returns false. Used by panic-mode recovery (§4.7) to find a
// state with a non-error GOTO entry.
func (s *LRStack) States(visit func(LRStackElement) bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if !visit(s.frames[i]) {
			return
		}
	}
}

// Reset restores the stack to its single start-state frame, per §3
// "Lifecycle".
func (s *LRStack) Reset() { s.frames = []LRStackElement{{State: 0}} }
