package trace

import (
	"errors"

	"github.com/ezrec/em2200/translate"
)

var f = translate.From

var (
	ErrMagic   = errors.New(f("invalid trace file magic"))
	ErrVersion = errors.New(f("trace file version unsupported"))
	ErrClosed  = errors.New(f("trace closed"))
)
