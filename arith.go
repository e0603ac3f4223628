package sigil

import "github.com/Turyansky/Sigil/internal/instrbuf"

// isNumeric reports whether t is one of the kinds CIL's arithmetic opcodes accept.
func isNumeric(t StackType) bool {
	switch t {
	case Int32Type, Int64Type, Float32Type, Float64Type, NativeIntType:
		return true
	default:
		return false
	}
}

// binaryNumeric pops two operands, infers the operating type from the value on top of
// the stack (the second operand, matching how CIL's actual verifier reads it off the
// live stack rather than requiring the caller to restate it), checks both operands
// against that type, and pushes the result of the same type.
func (e *Emitter) binaryNumeric(opcode string) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if e.v.Stack().IsUnreachable() {
		_, err := e.v.UpdateState(opcode, instrbuf.Operand{}, []StackType{Int32Type, Int32Type}, []StackType{Int32Type}, loc(2))
		return e.wrap(err)
	}
	top, ok := e.v.Stack().TopN(2)
	if !ok {
		return e.errorf(KindStackUnderflow, "%s requires 2 operands, have %d", opcode, e.v.Stack().Height())
	}
	t := top[1]
	if !isNumeric(t) {
		return e.errorf(KindTypeMismatch, "%s: operand must be numeric, got %s", opcode, t)
	}
	_, err := e.v.UpdateState(opcode, instrbuf.Operand{}, []StackType{t, t}, []StackType{t}, loc(2))
	return e.wrap(err)
}

func (e *Emitter) unaryNumeric(opcode string) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if e.v.Stack().IsUnreachable() {
		_, err := e.v.UpdateState(opcode, instrbuf.Operand{}, []StackType{Int32Type}, []StackType{Int32Type}, loc(2))
		return e.wrap(err)
	}
	top, ok := e.v.Stack().TopN(1)
	if !ok {
		return e.errorf(KindStackUnderflow, "%s requires 1 operand, have %d", opcode, e.v.Stack().Height())
	}
	t := top[0]
	if !isNumeric(t) {
		return e.errorf(KindTypeMismatch, "%s: operand must be numeric, got %s", opcode, t)
	}
	_, err := e.v.UpdateState(opcode, instrbuf.Operand{}, []StackType{t}, []StackType{t}, loc(2))
	return e.wrap(err)
}

// Add, Sub, Mul, Div, Rem, And, Or, Xor, Shl and Shr pop two numeric operands of the
// same stack type and push the result. Neg pops and pushes a single numeric operand.
func (e *Emitter) Add() error { return e.binaryNumeric("add") }
func (e *Emitter) Sub() error { return e.binaryNumeric("sub") }
func (e *Emitter) Mul() error { return e.binaryNumeric("mul") }
func (e *Emitter) Div() error { return e.binaryNumeric("div") }
func (e *Emitter) Rem() error { return e.binaryNumeric("rem") }
func (e *Emitter) And() error { return e.binaryNumeric("and") }
func (e *Emitter) Or() error  { return e.binaryNumeric("or") }
func (e *Emitter) Xor() error { return e.binaryNumeric("xor") }
func (e *Emitter) Shl() error { return e.binaryNumeric("shl") }
func (e *Emitter) Shr() error { return e.binaryNumeric("shr") }
func (e *Emitter) Neg() error { return e.unaryNumeric("neg") }
