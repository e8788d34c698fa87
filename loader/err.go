package loader

import (
	"errors"

	"github.com/ezrec/em2200/translate"
)

var f = translate.From

var (
	ErrMagic      = errors.New(f("not an absolute module"))
	ErrVersion    = errors.New(f("absolute module version unsupported"))
	ErrBankEmpty  = errors.New(f("bank has no words"))
	ErrBankType   = errors.New(f("bank type not loadable"))
	ErrBankLevel  = errors.New(f("bank level invalid"))
	ErrBankLimits = errors.New(f("bank limits not on a granule"))
	ErrEntryBank  = errors.New(f("entry point not in a loaded bank"))
	ErrBankCount  = errors.New(f("bank count mismatch"))
	ErrPlacement  = errors.New(f("module does not fit in storage"))
)

// ErrBankDuplicate indicates two banks with the same name.
type ErrBankDuplicate struct {
	Level uint
	BDI   uint
}

func (err ErrBankDuplicate) Error() string {
	return f("bank %o:%o duplicated", err.Level, err.BDI)
}

// ErrBank locates a failure to a bank of the module.
type ErrBank struct {
	Level uint
	BDI   uint
	Err   error
}

func (err *ErrBank) Error() string {
	return f("bank %o:%o %v", err.Level, err.BDI, err.Err)
}

func (err *ErrBank) Unwrap() error {
	return err.Err
}
