package emulator

import (
	"errors"

	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/translate"
)

var f = translate.From

var (
	ErrModuleMissing   = errors.New(f("no module loaded"))
	ErrBankReserved    = errors.New(f("bank name reserved for the environment"))
	ErrEnvironmentSize = errors.New(f("environment does not fit in storage"))
)

// ErrRuntime indicates the processor and location of a runtime error.
type ErrRuntime struct {
	Processor string
	PAR       processor.ProgramAddressRegister
	Err       error
}

func (err *ErrRuntime) Error() string {
	return f("%v at %v: %v", err.Processor, err.PAR, err.Err)
}

func (err *ErrRuntime) Unwrap() error {
	return err.Err
}
