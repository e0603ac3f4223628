package sigil

import (
	"reflect"

	"github.com/Turyansky/Sigil/internal/hostreflect"
	"github.com/Turyansky/Sigil/internal/instrbuf"
)

// NewArray pops one Int32/NativeInt length and pushes a Reference(elem[]) (spec §4.7).
func (e *Emitter) NewArray(elem reflect.Type) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if elem == nil {
		return argumentNull(e, "elem")
	}
	top, ok := e.v.Stack().TopN(1)
	popType := NativeIntType
	if ok && len(top) == 1 && top[0] == Int32Type {
		popType = Int32Type
	}
	_, err := e.v.UpdateState("newarr", instrbuf.Operand{Kind: instrbuf.OperandType, Ref: elem}, []StackType{popType}, []StackType{ArrayType(elem)}, loc(1))
	return e.wrap(err)
}

// Ctor is a resolved constructor: a Go function value of shape func(params...) T,
// standing in for a CLR constructor (spec §4.7, §6 "type.get_constructor").
type Ctor struct {
	Declaring reflect.Type
	Params    []reflect.Type
	Fn        reflect.Value
}

// RegisterConstructor makes c resolvable by NewObjectOfTypes. Like RegisterMethod, this
// stands in for the external reflection facility: Sigil never invents a constructor on
// its own.
func (e *Emitter) RegisterConstructor(c Ctor) {
	e.ctors = append(e.ctors, hostreflect.Ctor{Declaring: c.Declaring, Params: c.Params, Fn: c.Fn})
}

// NewObject constructs c.Declaring directly from an already-resolved Ctor: the
// declaring type must be a reference type (spec §4.7 "the constructor's declaring type
// must be a reference type, not a value type"), and the top len(c.Params) stack values,
// reversed, must each be assignable to the corresponding parameter.
func (e *Emitter) NewObject(c Ctor) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if c.Declaring == nil {
		return argumentNull(e, "Declaring")
	}
	if hostreflect.IsValueType(c.Declaring) {
		return e.errorf(KindInvalidOperation, "cannot construct value type %s with NewObject", c.Declaring)
	}
	pops := make([]StackType, len(c.Params))
	for i, p := range c.Params {
		pops[i] = paramStackType(p)
	}
	_, err := e.v.UpdateState("newobj", instrbuf.Operand{Kind: instrbuf.OperandCtor, Ref: c.Fn}, pops, []StackType{ReferenceType(c.Declaring)}, loc(1))
	return e.wrap(err)
}

// NewObjectOfTypes resolves a constructor of declaring by exact parameter-type
// signature among those registered via RegisterConstructor, then behaves as NewObject.
// This is the single variadic entry every fixed-arity NewObjectN convenience wrapper
// forwards to (spec.md §9 "Generic arity-N convenience overloads"; see
// ctors_generated.go).
func (e *Emitter) NewObjectOfTypes(declaring reflect.Type, params ...reflect.Type) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if declaring == nil {
		return argumentNull(e, "declaring")
	}
	c, ok := hostreflect.GetConstructor(declaring, params, e.ctors)
	if !ok {
		return e.errorf(KindNoSuchConstructor, "no constructor %s%s", declaring, hostreflect.FormatSignature(params))
	}
	return e.NewObject(Ctor{Declaring: declaring, Params: params, Fn: c.Fn})
}

// paramStackType classifies a constructor parameter's reflect.Type into the stack type
// the verifier expects to find on the stack for it: known numeric kinds map to their
// primitive StackType, structs are value types by value, everything else is a reference
// (matching hostreflect.IsValueType's classification).
func paramStackType(t reflect.Type) StackType {
	switch t.Kind() {
	case reflect.Int32, reflect.Uint32:
		return Int32Type
	case reflect.Int64, reflect.Uint64, reflect.Int, reflect.Uint:
		return Int64Type
	case reflect.Float32:
		return Float32Type
	case reflect.Float64:
		return Float64Type
	case reflect.Bool:
		return Int32Type
	case reflect.Struct:
		return ValueTypeOf(t)
	default:
		if hostreflect.IsValueType(t) {
			return ValueTypeOf(t)
		}
		return ReferenceType(t)
	}
}
