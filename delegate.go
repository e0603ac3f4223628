package sigil

import (
	"reflect"

	"github.com/Turyansky/Sigil/hostemit"
	"github.com/Turyansky/Sigil/internal/instrbuf"
	"github.com/Turyansky/Sigil/internal/verrors"
)

// WithHost sets the host byte-emitter CreateDelegate hands the finished instruction log
// to (spec §6's "byte-emitter"/"host runtime" collaborators). Must be called before
// CreateDelegate; defaults to an in-process hostemit.BufferEmitter if never called, so a
// caller exercising only the verifier never needs to know about hostemit.
func (e *Emitter) WithHost(host hostemit.Emitter) *Emitter {
	e.host = host
	return e
}

// CreateDelegate runs the §4.8 finalization checks (every label marked, every scope
// closed, every forward patch resolved, residual stack compatible with the declared
// return), then hands the completed instruction log to the host emitter and returns the
// callable it produces. Calling CreateDelegate again after success returns the same
// delegate without re-running finalization or re-touching the host (spec §8 "Idempotence
// of finalize") — the Emitter is read-only once finalized.
func (e *Emitter) CreateDelegate() (hostemit.Delegate, error) {
	if e.delegate != nil {
		return e.delegate, nil
	}
	if err := e.poisoned(); err != nil {
		return nil, err
	}
	if err := e.v.ReadyToFinalize(); err != nil {
		return nil, err
	}
	if e.cfg.MaxStackDepth > 0 && e.v.HighWaterMark() > e.cfg.MaxStackDepth {
		return nil, e.errorf(verrors.KindInvalidOperation,
			"method requires stack depth %d, exceeding configured maximum %d", e.v.HighWaterMark(), e.cfg.MaxStackDepth)
	}

	host := e.host
	if host == nil {
		host = hostemit.NewBufferEmitter(&hostemit.Registry{})
	}

	instrs := e.buf.Instructions()
	offsets := e.v.LabelOffsets()
	if pl, ok := host.(hostemit.ProgramLoader); ok {
		pl.LoadProgram(instrs, offsets)
	} else if err := replay(host, instrs, offsets); err != nil {
		return nil, err
	}

	delegate, err := host.Finalize(e.v.ReturnType(), e.v.LocalTypes())
	if err != nil {
		return nil, e.wrap(err)
	}
	e.v.MarkFinalized()
	e.delegate = delegate
	return delegate, nil
}

// replay feeds a host emitter that has no ProgramLoader fast path through its one-call-
// at-a-time contract, resolving every label operand to its concrete offset as it goes.
func replay(host hostemit.Emitter, instrs []instrbuf.Instruction, offsets map[uint64]int) error {
	for _, in := range instrs {
		if err := host.AppendOpcode(in.Opcode); err != nil {
			return err
		}
		op := in.Operand
		if off, ok := offsets[op.LabelID]; ok {
			op.HasTarget = true
			_ = off
		}
		if err := host.AppendOperand(op); err != nil {
			return err
		}
		switch in.Opcode {
		case "begin_try":
			if err := host.BeginTry(); err != nil {
				return err
			}
		case "begin_finally":
			if err := host.BeginFinally(); err != nil {
				return err
			}
		case "end_try":
			if err := host.EndTry(); err != nil {
				return err
			}
		case "begin_catch":
			caught, _ := op.Ref.(reflect.Type)
			if err := host.BeginCatch(caught); err != nil {
				return err
			}
		}
	}
	return nil
}
