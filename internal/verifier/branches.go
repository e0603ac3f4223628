package verifier

import (
	"github.com/Turyansky/Sigil/internal/ilstack"
	"github.com/Turyansky/Sigil/internal/instrbuf"
	"github.com/Turyansky/Sigil/internal/verrors"
)

// EmitBranch appends a branch instruction targeting label after popping condPops (empty
// for an unconditional branch, one Int32 for brtrue/brfalse, two for beq/bne/…). It
// records the post-pop stack as "the shape flowing into label" (spec §4.4 step 4, §4.5),
// checks it against any previously recorded requirement, and either resolves the operand
// immediately (label already marked — a backward branch) or registers a pending patch
// for later resolution at MarkLabel time (a forward branch).
//
// unconditional reports whether opcode is an unconditional transfer: after it, the
// verifier's live stack becomes unreachable (stack-polymorphic) until the next label
// mark, mirroring CIL's "br is stack-polymorphic" rule.
func (v *Verifier) EmitBranch(opcode string, label LabelID, condPops []ilstack.Type, unconditional bool, loc instrbuf.SourceLoc) (int, error) {
	if err := v.checkNotFinalized(); err != nil {
		return -1, err
	}
	info, ok := v.labels[label]
	if !ok {
		return -1, verrors.New(verrors.KindLabelError, v.Buf.CurrentIndex(), v.stack.String(),
			"branch to unknown label (defined by a different verifier?)").WithLabels(uint64(label))
	}

	idx, err := v.UpdateState(opcode, instrbuf.Operand{Kind: instrbuf.OperandLabel, LabelID: uint64(label)}, condPops, nil, loc)
	if err != nil {
		return -1, err
	}

	flowsInto := v.stack
	v.branchesByStack[flowsInto.Unique()] = branchRecord{label: label, index: idx}

	if !info.RequiredIsSet {
		snap := flowsInto
		info.RequiredStack = &snap
		info.RequiredIsSet = true
	} else if !info.RequiredStack.Equal(flowsInto) {
		return idx, verrors.New(verrors.KindLabelError, idx, flowsInto.String(),
			"branch stack disagreement for label %q: have %s, required %s", info.Name, flowsInto, *info.RequiredStack).WithLabels(uint64(label))
	}

	if info.MarkedAt != nil {
		if err := v.Buf.Patch(idx, instrbuf.Operand{Kind: instrbuf.OperandLabel, LabelID: uint64(label), HasTarget: true}); err != nil {
			return idx, verrors.New(verrors.KindLabelError, idx, v.stack.String(), "%v", err)
		}
	} else {
		v.pendingPatches[idx] = patch{label: label}
	}

	if unconditional {
		v.stack = v.stack.Unreachable()
	}
	return idx, nil
}

// EmitSwitch appends a table-branch instruction: pops one Int32/NativeInt selector and
// treats every case target, plus the optional default, as an incoming branch for stack-
// agreement purposes (spec.md §C.4).
func (v *Verifier) EmitSwitch(targets []LabelID, defaultTarget *LabelID, loc instrbuf.SourceLoc) (int, error) {
	if err := v.checkNotFinalized(); err != nil {
		return -1, err
	}
	all := append([]LabelID(nil), targets...)
	if defaultTarget != nil {
		all = append(all, *defaultTarget)
	}
	for _, l := range all {
		if _, ok := v.labels[l]; !ok {
			return -1, verrors.New(verrors.KindLabelError, v.Buf.CurrentIndex(), v.stack.String(),
				"switch target is not a label defined by this verifier").WithLabels(uint64(l))
		}
	}
	raw := make([]uint64, len(targets))
	for i, l := range targets {
		raw[i] = uint64(l)
	}
	op := instrbuf.Operand{Kind: instrbuf.OperandSwitchTable, Targets: raw}
	if defaultTarget != nil {
		op.LabelID = uint64(*defaultTarget)
	}
	idx, err := v.UpdateState("switch", op, []ilstack.Type{ilstack.NativeIntType}, nil, loc)
	if err != nil {
		return -1, err
	}
	flowsInto := v.stack
	for _, l := range all {
		info := v.labels[l]
		v.branchesByStack[flowsInto.Unique()] = branchRecord{label: l, index: idx}
		if !info.RequiredIsSet {
			snap := flowsInto
			info.RequiredStack = &snap
			info.RequiredIsSet = true
		} else if !info.RequiredStack.Equal(flowsInto) {
			return idx, verrors.New(verrors.KindLabelError, idx, flowsInto.String(),
				"switch stack disagreement for label %q", info.Name).WithLabels(uint64(l))
		}
		if info.MarkedAt == nil {
			v.pendingPatches[idx] = patch{label: l}
		}
	}
	return idx, nil
}

// MarkLabel binds label to the current instruction position (spec §4.5). If an incoming
// branch already recorded a required stack shape, the live stack must structurally equal
// it; otherwise the live stack becomes the requirement for any later branch to check
// against. Marking also resolves the concrete offset for every branch that patched
// forward to this label and restores reachability if the code leading here was
// unreachable (a label mark makes a program point reachable-by-definition per CIL).
func (v *Verifier) MarkLabel(label LabelID) error {
	if err := v.checkNotFinalized(); err != nil {
		return err
	}
	info, ok := v.labels[label]
	if !ok {
		return verrors.New(verrors.KindLabelError, v.Buf.CurrentIndex(), v.stack.String(),
			"mark of unknown label").WithLabels(uint64(label))
	}
	if info.MarkedAt != nil {
		return verrors.New(verrors.KindLabelError, v.Buf.CurrentIndex(), v.stack.String(),
			"label %q already marked", info.Name).WithLabels(uint64(label))
	}

	if v.stack.IsUnreachable() {
		if info.RequiredIsSet {
			v.stack = *info.RequiredStack
		} else {
			v.stack = ilstack.Stack{}
		}
	}

	if info.RequiredIsSet {
		if !info.RequiredStack.Equal(v.stack) {
			return verrors.New(verrors.KindLabelError, v.Buf.CurrentIndex(), v.stack.String(),
				"stack at mark differs from incoming branch: have %s, required %s", v.stack, *info.RequiredStack).WithLabels(uint64(label))
		}
	} else {
		snap := v.stack
		info.RequiredStack = &snap
		info.RequiredIsSet = true
	}

	idx := v.Buf.CurrentIndex()
	info.MarkedAt = &idx

	for pidx, p := range v.pendingPatches {
		if p.label != label {
			continue
		}
		if err := v.Buf.Patch(pidx, instrbuf.Operand{Kind: instrbuf.OperandLabel, LabelID: uint64(label), HasTarget: true}); err != nil {
			return verrors.New(verrors.KindLabelError, pidx, v.stack.String(), "%v", err)
		}
		delete(v.pendingPatches, pidx)
	}
	return nil
}

// AllLabelsMarked reports whether every defined label has been marked (spec §4.8 step 1).
func (v *Verifier) AllLabelsMarked() (bool, []LabelID) {
	var unmarked []LabelID
	for id, info := range v.labels {
		if info.MarkedAt == nil {
			unmarked = append(unmarked, id)
		}
	}
	return len(unmarked) == 0, unmarked
}

// AllPatchesResolved reports whether every pending forward-branch patch was resolved
// (spec §4.8 step 3).
func (v *Verifier) AllPatchesResolved() bool { return len(v.pendingPatches) == 0 }
