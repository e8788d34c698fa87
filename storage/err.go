package storage

import (
	"errors"

	"github.com/ezrec/em2200/translate"
)

var f = translate.From

var (
	ErrSegmentInvalid = errors.New(f("segment invalid"))
	ErrSegmentSize    = errors.New(f("segment size invalid"))
	ErrUPIMismatch    = errors.New(f("address UPI does not match storage"))
)

// ErrAddress indicates a reference outside of a segment.
type ErrAddress AbsoluteAddress

func (err ErrAddress) Error() string {
	return f("address %v out of range", AbsoluteAddress(err))
}
