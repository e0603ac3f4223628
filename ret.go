package sigil

// Ret emits a return. The stack must hold exactly the method's declared return type
// (nothing for void); afterwards the live stack becomes unreachable until the next
// label mark, since control never falls through a ret (spec §4.5).
func (e *Emitter) Ret() error {
	if err := e.poisoned(); err != nil {
		return err
	}
	_, err := e.v.EmitReturn(loc(1))
	return e.wrap(err)
}
