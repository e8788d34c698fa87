package inventory

import (
	"errors"

	"github.com/ezrec/em2200/translate"
)

var f = translate.From

var (
	ErrClosed        = errors.New(f("inventory closed"))
	ErrNodeLimit     = errors.New(f("no free unique processor identifier"))
	ErrNodeDuplicate = errors.New(f("node name duplicated"))
)

// ErrNodeMissing indicates a UPI that names no node of the expected kind.
type ErrNodeMissing uint16

func (err ErrNodeMissing) Error() string {
	return f("upi %d not found", uint16(err))
}
