package processor

import (
	"fmt"

	"github.com/ezrec/em2200/word"
)

// AccessLock is a ring and domain pair. The same form is used for the
// access key held in the indicator/key register.
type AccessLock struct {
	Ring   uint // Two bit ring, 0 being the most privileged.
	Domain uint // Sixteen bit domain.
}

// AccessLockFromWord decodes the low 18 bits of a word.
func AccessLockFromWord(w word.Word) AccessLock {
	return AccessLock{
		Ring:   uint(w>>16) & 03,
		Domain: uint(w) & 0177777,
	}
}

// Word encodes the lock as ring << 16 | domain.
func (al AccessLock) Word() word.Word {
	return word.Word(al.Ring&03)<<16 | word.Word(al.Domain&0177777)
}

func (al AccessLock) String() string {
	return fmt.Sprintf("%o,%o", al.Ring, al.Domain)
}

// AccessPermissions are the enter/execute, read, and write rights to a bank.
type AccessPermissions struct {
	Enter bool // Enter or execute.
	Read  bool
	Write bool
}

// AccessPermissionsFromBits decodes three bits, enter being the most significant.
func AccessPermissionsFromBits(bits uint) AccessPermissions {
	return AccessPermissions{
		Enter: bits&04 != 0,
		Read:  bits&02 != 0,
		Write: bits&01 != 0,
	}
}

// Bits encodes the permissions as three bits, enter being the most significant.
func (ap AccessPermissions) Bits() (bits uint) {
	if ap.Enter {
		bits |= 04
	}
	if ap.Read {
		bits |= 02
	}
	if ap.Write {
		bits |= 01
	}
	return
}

func (ap AccessPermissions) String() string {
	flag := func(on bool, c byte) byte {
		if on {
			return c
		}
		return '-'
	}
	return string([]byte{flag(ap.Enter, 'E'), flag(ap.Read, 'R'), flag(ap.Write, 'W')})
}

// EffectivePermissions selects the special permissions when the key's ring
// is more privileged than the lock's, or the domains match, and the general
// permissions otherwise.
func EffectivePermissions(key, lock AccessLock, general, special AccessPermissions) AccessPermissions {
	if key.Ring < lock.Ring || key.Domain == lock.Domain {
		return special
	}
	return general
}
