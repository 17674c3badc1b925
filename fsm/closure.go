package fsm

import "github.com/emirpasic/gods/v2/queues/linkedlistqueue"

// EpsilonClosure expands set to include every state reachable by zero or
// more epsilon transitions, via classical worklist expansion guarded
// against revisiting states already in the running set (§4.1).
//
// Grounded on original_source/NFA.h's _epsilon_closure (a raw
// std::stack), using a gods/v2 linkedlistqueue worklist instead, in the
// same style as the lr package's CLOSURE.
func EpsilonClosure(table *Table, set StateSet) StateSet {
	result := set.clone()
	worklist := linkedlistqueue.New[State]()
	for s := range set {
		worklist.Enqueue(s)
	}

	for !worklist.Empty() {
		s, _ := worklist.Dequeue()
		for next := range table.EpsilonNeighbors(s) {
			if _, seen := result[next]; seen {
				continue
			}
			result[next] = struct{}{}
			worklist.Enqueue(next)
		}
	}

	return result
}
