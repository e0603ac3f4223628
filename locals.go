package sigil

import "github.com/Turyansky/Sigil/internal/instrbuf"

// LoadLocal pushes the value of a previously declared local. Rejects a load from a slot
// that has not been definitely assigned on every path reaching this point (spec.md §C.6).
func (e *Emitter) LoadLocal(l Local) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(l.owner, "Local"); err != nil {
		return err
	}
	if !e.v.LocalAssigned(l.id) {
		return e.errorf(KindInvalidOperation, "load of unassigned local %q", l.Name)
	}
	_, err := e.v.UpdateState("ldloc", instrbuf.Operand{Kind: instrbuf.OperandLocal, I32: int32(l.id)}, nil, []StackType{l.Type}, loc(1))
	return e.wrap(err)
}

// StoreLocal pops the top of stack into local l, checking assignability against its
// declared type, and marks it definitely assigned from here on.
func (e *Emitter) StoreLocal(l Local) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(l.owner, "Local"); err != nil {
		return err
	}
	_, err := e.v.UpdateState("stloc", instrbuf.Operand{Kind: instrbuf.OperandLocal, I32: int32(l.id)}, []StackType{l.Type}, nil, loc(1))
	if err != nil {
		return e.wrap(err)
	}
	e.v.MarkLocalAssigned(l.id)
	return nil
}

// LoadArg pushes the value of parameter slot a. Parameters are definitely assigned from
// method entry.
func (e *Emitter) LoadArg(a Arg) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(a.owner, "Arg"); err != nil {
		return err
	}
	_, err := e.v.UpdateState("ldarg", instrbuf.Operand{Kind: instrbuf.OperandArg, I32: int32(a.Index)}, nil, []StackType{a.Type}, loc(1))
	return e.wrap(err)
}

// StoreArg pops the top of stack into parameter slot a, checking assignability.
func (e *Emitter) StoreArg(a Arg) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(a.owner, "Arg"); err != nil {
		return err
	}
	_, err := e.v.UpdateState("starg", instrbuf.Operand{Kind: instrbuf.OperandArg, I32: int32(a.Index)}, []StackType{a.Type}, nil, loc(1))
	return e.wrap(err)
}
