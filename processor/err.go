package processor

import (
	"errors"

	"github.com/ezrec/em2200/translate"
)

var f = translate.From

var (
	ErrRunning        = errors.New(f("processor running"))
	ErrNotRunning     = errors.New(f("processor not running"))
	ErrStopped        = errors.New(f("processor stopped"))
	ErrStorageMissing = errors.New(f("storage locator missing"))
	ErrRegisterIndex  = errors.New(f("register index invalid"))
	ErrBaseRegister   = errors.New(f("base register index invalid"))
	ErrMnemonic       = errors.New(f("mnemonic unknown"))
)

// ErrStop reports the reason a processor stopped.
type ErrStop struct {
	Reason StopReason
	Detail uint64
}

func (err *ErrStop) Error() string {
	return f("stopped: %v detail %012o", err.Reason, err.Detail)
}

func (err *ErrStop) Is(target error) bool {
	return target == ErrStopped
}

// ErrInstruction identifies an instruction that failed for a reason other
// than an architectural interrupt.
type ErrInstruction struct {
	PAR         ProgramAddressRegister
	Instruction Instruction
}

func (err *ErrInstruction) Error() string {
	return f("instruction %v at %v", err.Instruction, err.PAR)
}
