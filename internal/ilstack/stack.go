package ilstack

import "fmt"

// node is one cell of the persistent, structurally-shared stack. Pushing never mutates an
// existing node, so a Stack value captured at a branch site (spec §5 "cheap what-did-the-
// stack-look-like-here without aliasing hazards") stays valid no matter what the live
// stack does afterwards.
type node struct {
	value Type
	prev  *node
	depth int
}

// Stack is an immutable operand stack snapshot. The zero value is the empty (root) stack.
type Stack struct {
	top        *node
	unreachable bool
}

// Height returns the number of values currently on the stack.
func (s Stack) Height() int {
	if s.top == nil {
		return 0
	}
	return s.top.depth
}

// IsRoot reports whether the stack is empty — the "no pushes since last reset" state
// spec §3 requires at every exception-scope transition.
func (s Stack) IsRoot() bool {
	return s.top == nil
}

// Push returns a new stack with v on top. O(1), no mutation of s.
func (s Stack) Push(v Type) Stack {
	if s.unreachable {
		return s
	}
	d := 1
	if s.top != nil {
		d = s.top.depth + 1
	}
	return Stack{top: &node{value: v, prev: s.top, depth: d}}
}

// PushAll pushes a sequence of types in order (first element pushed first, so the last
// element ends up on top).
func (s Stack) PushAll(vs []Type) Stack {
	for _, v := range vs {
		s = s.Push(v)
	}
	return s
}

// Unreachable resets the stack to root and marks it stack-polymorphic: every subsequent
// pop or top query succeeds and returns Unknown, regardless of how many values are
// requested, until the next MarkReachable (a label mark resets this). This models the
// teacher's valueTypeStack.unreachable() and is what makes code after an unconditional
// branch, before the next label, verify without complaint about its actual contents.
func (s Stack) Unreachable() Stack {
	return Stack{top: &node{value: Unknown, prev: nil, depth: 1}, unreachable: true}
}

// IsUnreachable reports whether this stack is in the stack-polymorphic state.
func (s Stack) IsUnreachable() bool { return s.unreachable }

// MarkReachable clears the unreachable flag once a label mark gives the verifier a
// concrete known stack shape again (the caller replaces s outright at that point; this
// exists for symmetry/clarity at call sites).
func (s Stack) MarkReachable() Stack {
	s.unreachable = false
	return s
}

// TopN returns the top n values, deepest first (so TopN(2) on [..., a, b] returns
// [a, b]), without modifying the stack. ok is false on underflow.
func (s Stack) TopN(n int) (vs []Type, ok bool) {
	if n == 0 {
		return nil, true
	}
	if s.unreachable {
		vs = make([]Type, n)
		for i := range vs {
			vs[i] = Unknown
		}
		return vs, true
	}
	if s.Height() < n {
		return nil, false
	}
	vs = make([]Type, n)
	cur := s.top
	for i := n - 1; i >= 0; i-- {
		vs[i] = cur.value
		cur = cur.prev
	}
	return vs, true
}

// PopN returns the stack with its top n values removed, and those values (deepest
// first), or ok=false on underflow.
func (s Stack) PopN(n int) (rest Stack, popped []Type, ok bool) {
	if n == 0 {
		return s, nil, true
	}
	if s.unreachable {
		popped = make([]Type, n)
		for i := range popped {
			popped[i] = Unknown
		}
		return s, popped, true
	}
	if s.Height() < n {
		return s, nil, false
	}
	popped, _ = s.TopN(n)
	cur := s.top
	for i := 0; i < n; i++ {
		cur = cur.prev
	}
	return Stack{top: cur}, popped, true
}

// Unique returns a stable hash of the stack's shape, used as a map key for "which stack
// flowed into which label" bookkeeping (spec §3 "unique identity"). Two structurally
// equal stacks always hash the same; collisions between unequal stacks are possible and
// callers must still confirm with Equal before trusting a match.
func (s Stack) Unique() uint64 {
	var h uint64 = 1469598103934665603 // FNV-1a offset basis
	const prime = 1099511628211
	if s.unreachable {
		h ^= 0xdeadbeef
		h *= prime
		return h
	}
	for cur := s.top; cur != nil; cur = cur.prev {
		h ^= uint64(cur.value.Kind)
		h *= prime
		if cur.value.Elem != nil {
			for _, b := range []byte(cur.value.Elem.String()) {
				h ^= uint64(b)
				h *= prime
			}
		}
	}
	return h
}

// Equal reports whether two stacks have the same height and, element-wise, structurally
// identical types (true equality, never subtyping in either direction) — spec §9
// "Persistent stack snapshots".
func (s Stack) Equal(o Stack) bool {
	if s.unreachable || o.unreachable {
		return true
	}
	if s.Height() != o.Height() {
		return false
	}
	a, b := s.top, o.top
	for a != nil {
		if !Equal(a.value, b.value) {
			return false
		}
		a, b = a.prev, b.prev
	}
	return true
}

// String renders the stack bottom-to-top for diagnostics, e.g. "[Int32, Reference(Foo)]".
func (s Stack) String() string {
	if s.unreachable {
		return "<unreachable>"
	}
	vs := make([]Type, 0, s.Height())
	for cur := s.top; cur != nil; cur = cur.prev {
		vs = append(vs, cur.value)
	}
	out := "["
	for i := len(vs) - 1; i >= 0; i-- {
		out += vs[i].String()
		if i > 0 {
			out += ", "
		}
	}
	return out + "]"
}

// Snapshot captures the current stack for later comparison (it already is immutable, so
// this is an identity function kept for readability at call sites that want to be
// explicit about "I'm keeping this around").
func (s Stack) Snapshot() Stack { return s }

var _ = fmt.Stringer(Stack{})
