package sigil

import (
	"reflect"

	"github.com/Turyansky/Sigil/internal/instrbuf"
)

// Field describes a field to load or store: its declaring type, name, stack type, and
// whether it is static. Sigil has no reflection facility of its own for discovering
// fields (that is the external "Reflection" collaborator, spec §5/§6); callers build a
// Field from whatever their host reflection layer already knows.
type Field struct {
	Declaring reflect.Type
	Name      string
	Type      StackType
	Static    bool
}

// LoadField pops an object reference assignable to f.Declaring and pushes the field's
// value.
func (e *Emitter) LoadField(f Field) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if f.Static {
		_, err := e.v.UpdateState("ldsfld", instrbuf.Operand{Kind: instrbuf.OperandField, Ref: f}, nil, []StackType{f.Type}, loc(1))
		return e.wrap(err)
	}
	_, err := e.v.UpdateState("ldfld", instrbuf.Operand{Kind: instrbuf.OperandField, Ref: f}, []StackType{ReferenceType(f.Declaring)}, []StackType{f.Type}, loc(1))
	return e.wrap(err)
}

// StoreField pops the value to store, and — for instance fields — the target object
// reference beneath it, in that push order: objectref then value.
func (e *Emitter) StoreField(f Field) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if f.Static {
		_, err := e.v.UpdateState("stsfld", instrbuf.Operand{Kind: instrbuf.OperandField, Ref: f}, []StackType{f.Type}, nil, loc(1))
		return e.wrap(err)
	}
	_, err := e.v.UpdateState("stfld", instrbuf.Operand{Kind: instrbuf.OperandField, Ref: f}, []StackType{ReferenceType(f.Declaring), f.Type}, nil, loc(1))
	return e.wrap(err)
}
