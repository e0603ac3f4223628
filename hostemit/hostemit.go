// Package hostemit defines the contract the verifying emitter consumes from the "host
// byte-emitter" (spec §6, an explicitly out-of-scope external collaborator: "the
// low-level byte-emitter that writes opcodes and computes native offsets" and "the host
// runtime that turns the buffer into a callable delegate"). It also ships BufferEmitter,
// a reference implementation good enough to run this repository's own tests end-to-end
// without a real JIT — the actual materialization into machine code is explicitly a
// Non-goal (spec.md §1).
package hostemit

import (
	"fmt"
	"reflect"

	"github.com/Turyansky/Sigil/internal/ilstack"
	"github.com/Turyansky/Sigil/internal/instrbuf"
)

// Delegate is the callable a finalized method produces.
type Delegate func(args ...any) (any, error)

// Emitter is the host byte-emitter contract spec §6 describes: append opcodes/operands,
// patch a previously written offset, track try/catch/finally region boundaries, report
// the current offset, and materialize a callable delegate.
type Emitter interface {
	AppendOpcode(op string) error
	AppendOperand(operand instrbuf.Operand) error
	Patch(offset int, operand instrbuf.Operand) error
	BeginTry() error
	BeginCatch(caught reflect.Type) error
	BeginFinally() error
	EndTry() error
	CurrentOffset() int
	Finalize(returnType *ilstack.Type, locals []ilstack.Type) (Delegate, error)
}

// ProgramLoader is an optional fast path: an Emitter that can accept the whole resolved
// instruction log and label->offset table in one call instead of receiving it one
// AppendOpcode/AppendOperand/Patch call at a time. CreateDelegate prefers this when the
// host implements it; BufferEmitter does.
type ProgramLoader interface {
	LoadProgram(instrs []instrbuf.Instruction, labelOffsets map[uint64]int)
}

// BufferEmitter is a reference Emitter: instead of native code it interprets the
// instruction log directly. It exists so this repository's own end-to-end scenario
// tests (spec.md §8) can assert on actual delegate behavior without a real host runtime.
type BufferEmitter struct {
	instrs       []instrbuf.Instruction
	labelOffsets map[uint64]int
	registry     *Registry
}

// NewBufferEmitter creates a reference host emitter. registry supplies the Go function
// values that back call/callvirt/newobj operands (the emitter package never invents
// callables on its own — that would be the real reflection/JIT collaborators' job).
func NewBufferEmitter(registry *Registry) *BufferEmitter {
	return &BufferEmitter{labelOffsets: map[uint64]int{}, registry: registry}
}

// Registry supplies the callables a BufferEmitter dispatches call/callvirt/newobj to,
// keyed by the same reflect.Value the verifier's caller passed when building the
// instruction (see hostreflect.Ctor.Fn / hostreflect.Method.Fn).
type Registry struct{}

func (b *BufferEmitter) AppendOpcode(string) error                         { return nil }
func (b *BufferEmitter) AppendOperand(instrbuf.Operand) error              { return nil }
func (b *BufferEmitter) Patch(int, instrbuf.Operand) error                 { return nil }
func (b *BufferEmitter) BeginTry() error                                   { return nil }
func (b *BufferEmitter) BeginCatch(reflect.Type) error                     { return nil }
func (b *BufferEmitter) BeginFinally() error                               { return nil }
func (b *BufferEmitter) EndTry() error                                     { return nil }
func (b *BufferEmitter) CurrentOffset() int                                { return len(b.instrs) }

// LoadProgram is how the finalizer hands BufferEmitter the completed instruction log and
// the resolved label->offset table (spec §4.8 step 5 "hand the instruction buffer to the
// host emitter").
func (b *BufferEmitter) LoadProgram(instrs []instrbuf.Instruction, labelOffsets map[uint64]int) {
	b.instrs = instrs
	b.labelOffsets = labelOffsets
}

// Finalize returns a Delegate that interprets the loaded program.
func (b *BufferEmitter) Finalize(returnType *ilstack.Type, locals []ilstack.Type) (Delegate, error) {
	instrs := b.instrs
	labelOffsets := b.labelOffsets
	numLocals := len(locals)
	return func(args ...any) (any, error) {
		return interpret(instrs, labelOffsets, numLocals, args)
	}, nil
}

type frame struct {
	stack  []any
	locals []any
	args   []any
}

func (f *frame) push(v any)     { f.stack = append(f.stack, v) }
func (f *frame) pop() any       { v := f.stack[len(f.stack)-1]; f.stack = f.stack[:len(f.stack)-1]; return v }
func (f *frame) popN(n int) []any {
	out := make([]any, n)
	for i := n - 1; i >= 0; i-- {
		out[i] = f.pop()
	}
	return out
}

func interpret(instrs []instrbuf.Instruction, labelOffsets map[uint64]int, numLocals int, args []any) (result any, err error) {
	fr := &frame{locals: make([]any, numLocals), args: args}
	pc := 0
	type pendingException struct{ v any }
	defer func() {
		if r := recover(); r != nil {
			if pe, ok := r.(pendingException); ok {
				err = fmt.Errorf("unhandled exception: %v", pe.v)
				return
			}
			panic(r)
		}
	}()
	for pc < len(instrs) {
		in := instrs[pc]
		switch in.Opcode {
		case "ldc.i4":
			fr.push(in.Operand.I32)
		case "ldc.i8":
			fr.push(in.Operand.I64)
		case "ldc.r4":
			fr.push(in.Operand.F32)
		case "ldc.r8":
			fr.push(in.Operand.F64)
		case "ldnull":
			fr.push(nil)
		case "ldarg":
			fr.push(fr.args[in.Operand.I32])
		case "ldloc":
			fr.push(fr.locals[in.Operand.I32])
		case "stloc":
			fr.locals[in.Operand.I32] = fr.pop()
		case "add", "sub", "mul", "div", "rem", "and", "or", "xor", "shl", "shr":
			b, a := fr.pop(), fr.pop()
			fr.push(arith(in.Opcode, a, b))
		case "neg":
			fr.push(arith("neg", fr.pop(), nil))
		case "newarr":
			n := toInt(fr.pop())
			fr.push(make([]any, n))
		case "newobj":
			ctor := in.Operand.Ref.(reflect.Value)
			n := ctor.Type().NumIn()
			raw := fr.popN(n)
			callArgs := toReflectArgs(ctor.Type(), raw)
			out := ctor.Call(callArgs)
			fr.push(out[0].Interface())
		case "call", "callvirt":
			fn := in.Operand.Ref.(reflect.Value)
			n := fn.Type().NumIn()
			raw := fr.popN(n)
			callArgs := toReflectArgs(fn.Type(), raw)
			out := fn.Call(callArgs)
			if fn.Type().NumOut() > 0 {
				fr.push(out[0].Interface())
			}
		case "br", "leave":
			pc = labelOffsets[in.Operand.LabelID]
			continue
		case "brtrue":
			if truthy(fr.pop()) {
				pc = labelOffsets[in.Operand.LabelID]
				continue
			}
		case "brfalse":
			if !truthy(fr.pop()) {
				pc = labelOffsets[in.Operand.LabelID]
				continue
			}
		case "beq", "bne", "blt", "bgt", "ble", "bge":
			b, a := fr.pop(), fr.pop()
			if compare(in.Opcode, a, b) {
				pc = labelOffsets[in.Operand.LabelID]
				continue
			}
		case "switch":
			idx := toInt(fr.pop())
			if idx >= 0 && idx < len(in.Operand.Targets) {
				pc = labelOffsets[in.Operand.Targets[idx]]
				continue
			}
			if in.Operand.HasTarget || in.Operand.LabelID != 0 {
				pc = labelOffsets[in.Operand.LabelID]
				continue
			}
		case "begin_try", "begin_finally", "end_try":
			// no-op for the interpreter: control flow through try/finally is expressed
			// entirely via leave/endfinally branches already present in the log.
		case "begin_catch":
			// Only reached if control falls into a catch header directly, which the
			// verifier never allows; the interpreter never jumps here on its own.
		case "endfinally":
			// falls through to the next instruction, same as CIL.
		case "ret":
			if len(fr.stack) > 0 {
				return fr.pop(), nil
			}
			return nil, nil
		default:
			return nil, fmt.Errorf("hostemit: unrecognized opcode %q", in.Opcode)
		}
		pc++
	}
	return nil, nil
}

func toInt(v any) int {
	switch n := v.(type) {
	case int32:
		return int(n)
	case int64:
		return int(n)
	case int:
		return n
	default:
		return 0
	}
}

func truthy(v any) bool { return toInt(v) != 0 }

func toReflectArgs(fnType reflect.Type, raw []any) []reflect.Value {
	out := make([]reflect.Value, len(raw))
	for i, r := range raw {
		if r == nil {
			out[i] = reflect.Zero(fnType.In(i))
			continue
		}
		out[i] = reflect.ValueOf(r)
	}
	return out
}

func arith(op string, a, b any) any {
	switch av := a.(type) {
	case int32:
		bv, _ := b.(int32)
		switch op {
		case "add":
			return av + bv
		case "sub":
			return av - bv
		case "mul":
			return av * bv
		case "div":
			return av / bv
		case "rem":
			return av % bv
		case "and":
			return av & bv
		case "or":
			return av | bv
		case "xor":
			return av ^ bv
		case "shl":
			return av << uint(bv)
		case "shr":
			return av >> uint(bv)
		case "neg":
			return -av
		}
	case int64:
		bv, _ := b.(int64)
		switch op {
		case "add":
			return av + bv
		case "sub":
			return av - bv
		case "mul":
			return av * bv
		case "div":
			return av / bv
		case "neg":
			return -av
		}
	}
	return nil
}

func compare(op string, a, b any) bool {
	af, bf := toFloat(a), toFloat(b)
	switch op {
	case "beq":
		return af == bf
	case "bne":
		return af != bf
	case "blt":
		return af < bf
	case "bgt":
		return af > bf
	case "ble":
		return af <= bf
	case "bge":
		return af >= bf
	}
	return false
}

func toFloat(v any) float64 {
	switch n := v.(type) {
	case int32:
		return float64(n)
	case int64:
		return float64(n)
	case float32:
		return float64(n)
	case float64:
		return n
	default:
		return 0
	}
}
