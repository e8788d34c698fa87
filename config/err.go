package config

import (
	"errors"
	"strings"

	"github.com/ezrec/em2200/translate"
)

var f = translate.From

var (
	ErrNotFound      = errors.New(f("configuration not found"))
	ErrNoStorage     = errors.New(f("no main storage configured"))
	ErrNoProcessor   = errors.New(f("no instruction processor configured"))
	ErrNameDuplicate = errors.New(f("node name duplicated"))
	ErrRunMode       = errors.New(f("run mode unknown"))
	ErrLogLevel      = errors.New(f("log level unknown"))
)

// ErrUndecoded lists configuration keys that were not recognized.
type ErrUndecoded []string

func (err ErrUndecoded) Error() string {
	return f("unknown configuration keys: %v", strings.Join(err, ", "))
}

func (err ErrUndecoded) Is(target error) (ok bool) {
	_, ok = target.(ErrUndecoded)
	return
}
