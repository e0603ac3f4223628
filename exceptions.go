package sigil

import (
	"reflect"

	"github.com/google/uuid"
)

// TryScope identifies an open try region, returned by BeginExceptionBlock and passed
// back to every handler opened under it and to EndExceptionBlock (spec §4.6).
type TryScope struct {
	id    uint64
	owner uuid.UUID
	End   Label
}

// CatchScope identifies an open catch region, passed to EndCatchBlock.
type CatchScope struct {
	id    uint64
	owner uuid.UUID
}

// FinallyScope identifies an open finally region, passed to EndFinallyBlock.
type FinallyScope struct {
	id    uint64
	owner uuid.UUID
}

// BeginExceptionBlock opens a try region. The current stack must be empty (spec §4.6).
func (e *Emitter) BeginExceptionBlock() (TryScope, error) {
	if err := e.poisoned(); err != nil {
		return TryScope{}, err
	}
	id, endID, err := e.v.BeginExceptionBlock(loc(1))
	if err != nil {
		return TryScope{}, e.wrap(err)
	}
	return TryScope{id: id, owner: e.id, End: Label{id: endID, owner: e.id, Name: "try_end"}}, nil
}

// BeginCatchBlock opens a catch region under try for values assignable to caughtType.
// The stack resets to exactly one value: the caught reference.
func (e *Emitter) BeginCatchBlock(try TryScope, caughtType reflect.Type) (CatchScope, error) {
	if err := e.poisoned(); err != nil {
		return CatchScope{}, err
	}
	if err := e.checkOwner(try.owner, "TryScope"); err != nil {
		return CatchScope{}, err
	}
	if caughtType == nil {
		return CatchScope{}, argumentNull(e, "caughtType")
	}
	id, err := e.v.BeginCatchBlock(try.id, caughtType, loc(1))
	if err != nil {
		return CatchScope{}, e.wrap(err)
	}
	return CatchScope{id: id, owner: e.id}, nil
}

// BeginCatchAllBlock opens a catch region that matches any thrown value.
func (e *Emitter) BeginCatchAllBlock(try TryScope, throwable reflect.Type) (CatchScope, error) {
	if err := e.poisoned(); err != nil {
		return CatchScope{}, err
	}
	if err := e.checkOwner(try.owner, "TryScope"); err != nil {
		return CatchScope{}, err
	}
	if throwable == nil {
		return CatchScope{}, argumentNull(e, "throwable")
	}
	id, err := e.v.BeginCatchAllBlock(try.id, throwable, loc(1))
	if err != nil {
		return CatchScope{}, e.wrap(err)
	}
	return CatchScope{id: id, owner: e.id}, nil
}

// EndCatchBlock closes catch, leaving to the parent try's end label. The stack must be
// empty.
func (e *Emitter) EndCatchBlock(catch CatchScope) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(catch.owner, "CatchScope"); err != nil {
		return err
	}
	return e.wrap(e.v.EndCatchBlock(catch.id, loc(1)))
}

// BeginFinallyBlock opens the (at most one) finally region for try.
func (e *Emitter) BeginFinallyBlock(try TryScope) (FinallyScope, error) {
	if err := e.poisoned(); err != nil {
		return FinallyScope{}, err
	}
	if err := e.checkOwner(try.owner, "TryScope"); err != nil {
		return FinallyScope{}, err
	}
	id, err := e.v.BeginFinallyBlock(try.id, loc(1))
	if err != nil {
		return FinallyScope{}, e.wrap(err)
	}
	return FinallyScope{id: id, owner: e.id}, nil
}

// EndFinallyBlock closes finally, emitting endfinally. The stack must be empty.
func (e *Emitter) EndFinallyBlock(fin FinallyScope) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(fin.owner, "FinallyScope"); err != nil {
		return err
	}
	return e.wrap(e.v.EndFinallyBlock(fin.id, loc(1)))
}

// EndExceptionBlock closes try: every catch/finally opened under it must already be
// closed, and at least one must have been opened. Marks try.End.
func (e *Emitter) EndExceptionBlock(try TryScope) error {
	if err := e.poisoned(); err != nil {
		return err
	}
	if err := e.checkOwner(try.owner, "TryScope"); err != nil {
		return err
	}
	return e.wrap(e.v.EndExceptionBlock(try.id, loc(1)))
}
