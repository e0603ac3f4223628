package sigil

import "github.com/Turyansky/Sigil/internal/verifier"

// SwitchTable is the operand of a table branch: one label per case value 0..n-1, plus
// an optional default taken when the selector is out of range.
type SwitchTable struct {
	Cases   []Label
	Default *Label
}

func (e *Emitter) branch(opcode string, l Label, condPops []StackType, unconditional bool) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(l.owner, "Label"); err != nil {
		return err
	}
	_, err := e.v.EmitBranch(opcode, l.id, condPops, unconditional, loc(2))
	return e.wrap(err)
}

// Branch is an unconditional jump to l.
func (e *Emitter) Branch(l Label) error { return e.branch("br", l, nil, true) }

// BranchIfTrue pops one Int32/NativeInt comparand and jumps to l if it is non-zero.
func (e *Emitter) BranchIfTrue(l Label) error { return e.branch("brtrue", l, []StackType{Int32Type}, false) }

// BranchIfFalse pops one Int32/NativeInt comparand and jumps to l if it is zero.
func (e *Emitter) BranchIfFalse(l Label) error { return e.branch("brfalse", l, []StackType{Int32Type}, false) }

// BranchIfEqual, BranchIfNotEqual, BranchIfLess, BranchIfGreater, BranchIfLessOrEqual
// and BranchIfGreaterOrEqual pop two comparands of the same numeric type and jump to l
// if the named relation holds.
func (e *Emitter) branchCompare(opcode string, l Label) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(l.owner, "Label"); err != nil {
		return err
	}
	top, ok := e.v.Stack().TopN(2)
	t := Int32Type
	if ok && len(top) == 2 {
		t = top[1]
	}
	_, err := e.v.EmitBranch(opcode, l.id, []StackType{t, t}, false, loc(2))
	return e.wrap(err)
}

func (e *Emitter) BranchIfEqual(l Label) error            { return e.branchCompare("beq", l) }
func (e *Emitter) BranchIfNotEqual(l Label) error          { return e.branchCompare("bne", l) }
func (e *Emitter) BranchIfLess(l Label) error              { return e.branchCompare("blt", l) }
func (e *Emitter) BranchIfGreater(l Label) error           { return e.branchCompare("bgt", l) }
func (e *Emitter) BranchIfLessOrEqual(l Label) error       { return e.branchCompare("ble", l) }
func (e *Emitter) BranchIfGreaterOrEqual(l Label) error    { return e.branchCompare("bge", l) }

// Switch pops one Int32/NativeInt selector and jumps to table.Cases[selector], or
// table.Default when the selector is out of range and a default was given (spec.md §C.4).
func (e *Emitter) Switch(table SwitchTable) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	ids := make([]verifier.LabelID, 0, len(table.Cases))
	for _, c := range table.Cases {
		if err := e.checkOwner(c.owner, "Label"); err != nil {
			return err
		}
		ids = append(ids, c.id)
	}
	var def *verifier.LabelID
	if table.Default != nil {
		if err := e.checkOwner(table.Default.owner, "Label"); err != nil {
			return err
		}
		d := table.Default.id
		def = &d
	}
	_, err := e.v.EmitSwitch(ids, def, loc(1))
	return e.wrap(err)
}
