package sigil

import (
	"reflect"

	"github.com/Turyansky/Sigil/internal/hostreflect"
	"github.com/Turyansky/Sigil/internal/instrbuf"
)

// Method is a resolved callable: the function value backing it (used by hostemit's
// reference interpreter), its declaring type (nil for a free function), and signature.
type Method struct {
	Declaring reflect.Type
	Name      string
	Params    []StackType
	Result    *StackType // nil for void
	Fn        reflect.Value
	Virtual   bool
}

// RegisterMethod makes fn callable as m.Name via CallByName, for use with Call/
// CallVirtual once resolved. This stands in for the external method-resolution
// facility of spec §6; Sigil itself performs no lookup by name against live metadata.
// The registered signature is read off m.Fn itself (minus the leading receiver
// parameter for a virtual method), so CallByName's params must match m.Fn's Go
// parameter types exactly.
func (e *Emitter) RegisterMethod(m Method) {
	t := m.Fn.Type()
	start := 0
	if m.Virtual {
		start = 1
	}
	params := make([]reflect.Type, 0, t.NumIn()-start)
	for i := start; i < t.NumIn(); i++ {
		params = append(params, t.In(i))
	}
	e.methods = append(e.methods, hostreflect.Method{
		Name: m.Name, Params: params, Fn: m.Fn, IsVirtual: m.Virtual,
	})
}

func (e *Emitter) call(opcode string, m Method) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	pops := append([]StackType(nil), m.Params...)
	if m.Virtual && m.Declaring != nil {
		pops = append([]StackType{ReferenceType(m.Declaring)}, pops...)
	}
	var push []StackType
	if m.Result != nil {
		push = []StackType{*m.Result}
	}
	_, err := e.v.UpdateState(opcode, instrbuf.Operand{Kind: instrbuf.OperandMethod, Ref: m.Fn}, pops, push, loc(2))
	return e.wrap(err)
}

// Call invokes a non-virtual method: pops its declared parameters (reverse of push
// order) and pushes its result (nothing for void).
func (e *Emitter) Call(m Method) error { m.Virtual = false; return e.call("call", m) }

// CallVirtual invokes a virtual method: pops the receiver beneath the declared
// parameters, then proceeds as Call.
func (e *Emitter) CallVirtual(m Method) error { m.Virtual = true; return e.call("callvirt", m) }

// CallByName resolves a method of name and exact parameter-type signature among those
// registered via RegisterMethod, then behaves as Call (or CallVirtual when virtual is
// true). This is the method-family mirror of NewObjectOfTypes: the call site supplies a
// name and a Go reflect.Type signature rather than an already-resolved Method, and
// resolution failure is reported as NoSuchMethod instead of silently doing nothing.
func (e *Emitter) CallByName(name string, declaring reflect.Type, virtual bool, result *StackType, params ...reflect.Type) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	resolved, ok := hostreflect.GetMethod(name, params, e.methods)
	if !ok {
		return e.errorf(KindNoSuchMethod, "no method %s%s", name, hostreflect.FormatSignature(params))
	}
	stackParams := make([]StackType, len(params))
	for i, p := range params {
		stackParams[i] = paramStackType(p)
	}
	m := Method{Declaring: declaring, Name: name, Params: stackParams, Result: result, Fn: resolved.Fn}
	if virtual {
		return e.CallVirtual(m)
	}
	return e.Call(m)
}

// Signature describes a call_indirect target: parameter types plus an optional return
// type, with no bound callable — the function pointer itself comes off the stack.
type Signature struct {
	Params []StackType
	Result *StackType
}

// CallIndirect pops a NativeInt function pointer, then the call's arguments beneath it
// in reverse, and pushes the signature's result (spec.md §C.5).
func (e *Emitter) CallIndirect(sig Signature) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	pops := append(append([]StackType(nil), sig.Params...), NativeIntType)
	var push []StackType
	if sig.Result != nil {
		push = []StackType{*sig.Result}
	}
	_, err := e.v.UpdateState("calli", instrbuf.Operand{Kind: instrbuf.OperandMethod, Ref: sig}, pops, push, loc(1))
	return e.wrap(err)
}
