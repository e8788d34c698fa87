package processor

import (
	"fmt"

	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/word"
)

// Base register indices with architectural meaning.
const (
	BR_CODE          = 0  // Extended mode code bank.
	BR_ICS           = 26 // Interrupt control stack.
	BR_LEVEL0_BDT    = 16 // Level 0 bank descriptor table, and the interrupt vectors.
	BR_BASIC_FIRST   = 12 // First basic mode base register.
	BR_COUNT         = 32 // Number of base registers.
	BR_USER_COUNT    = 16 // Base registers addressable by the b field.
	BR_DESCRIPTOR_SZ = 4  // Words in the stored form of a base register.
)

// Base register word 0 bits.
const (
	brGAPShift   = 33
	brSAPShift   = 30
	brVoidBit    = word.Word(0000200000000)
	brLargeBit   = word.Word(0000004000000)
	brLockMask   = word.Word(0777777)
	brUpperMask  = word.Word(0777777777)
	brLowerShift = 27
)

// BaseRegister caches the location, limits and access rules of one bank.
type BaseRegister struct {
	Void                 bool                    // Explicitly void.
	Large                bool                    // Large bank granularity.
	LowerLimitNormalized uint64                  // Lowest relative address, in words.
	UpperLimitNormalized uint64                  // Highest relative address, in words.
	AccessLock           AccessLock              // Ring and domain lock.
	GeneralPermissions   AccessPermissions       // Permissions for a non-matching key.
	SpecialPermissions   AccessPermissions       // Permissions for a matching key.
	BaseAddress          storage.AbsoluteAddress // Storage location of the lower limit.
}

// VoidBaseRegister is the base register of no bank at all.
var VoidBaseRegister = BaseRegister{Void: true}

// NewBaseRegister builds a base register from a bank descriptor. A void
// descriptor, or one whose limits cross, yields a void base register.
func NewBaseRegister(bd BankDescriptor) (br BaseRegister) {
	br = BaseRegister{
		Large:                bd.Large(),
		LowerLimitNormalized: bd.LowerLimitNormalized(),
		UpperLimitNormalized: bd.UpperLimitNormalized(),
		AccessLock:           bd.AccessLock(),
		GeneralPermissions:   bd.GeneralPermissions(),
		SpecialPermissions:   bd.SpecialPermissions(),
		BaseAddress:          bd.BaseAddress(),
	}
	br.Void = br.LowerLimitNormalized > br.UpperLimitNormalized
	return
}

// BaseRegisterFromWords decodes the four word stored form.
func BaseRegisterFromWords(w [BR_DESCRIPTOR_SZ]word.Word) (br BaseRegister) {
	br.GeneralPermissions = AccessPermissionsFromBits(uint(w[0]>>brGAPShift) & 07)
	br.SpecialPermissions = AccessPermissionsFromBits(uint(w[0]>>brSAPShift) & 07)
	br.Void = w[0]&brVoidBit != 0
	br.Large = w[0]&brLargeBit != 0
	br.AccessLock = AccessLockFromWord(w[0] & brLockMask)

	lower := uint64(w[1]>>brLowerShift) & 0777
	upper := uint64(w[1] & brUpperMask)
	if br.Large {
		br.LowerLimitNormalized = lower << 15
		br.UpperLimitNormalized = (upper << 6) | 077
	} else {
		br.LowerLimitNormalized = lower << 9
		br.UpperLimitNormalized = upper
	}

	br.BaseAddress = storage.AddressFromWords(w[2], w[3])
	return
}

// Words encodes the four word stored form.
func (br BaseRegister) Words() (w [BR_DESCRIPTOR_SZ]word.Word) {
	w[0] = word.Word(br.GeneralPermissions.Bits())<<brGAPShift |
		word.Word(br.SpecialPermissions.Bits())<<brSAPShift |
		br.AccessLock.Word()
	if br.Void {
		w[0] |= brVoidBit
	}

	var lower, upper uint64
	if br.Large {
		w[0] |= brLargeBit
		lower = br.LowerLimitNormalized >> 15
		upper = br.UpperLimitNormalized >> 6
	} else {
		lower = br.LowerLimitNormalized >> 9
		upper = br.UpperLimitNormalized
	}
	w[1] = word.Word(lower&0777)<<brLowerShift | word.Word(upper)&brUpperMask

	addr := br.BaseAddress.Words()
	w[2] = addr[0]
	w[3] = addr[1]
	return
}

// IsVoid is true when the register maps no storage.
func (br *BaseRegister) IsVoid() bool {
	return br.Void || br.LowerLimitNormalized > br.UpperLimitNormalized
}

// Contains checks a relative address against the limits.
func (br *BaseRegister) Contains(relative uint32) bool {
	return !br.IsVoid() && uint64(relative) >= br.LowerLimitNormalized && uint64(relative) <= br.UpperLimitNormalized
}

// Size returns the number of words in the bank.
func (br *BaseRegister) Size() uint64 {
	if br.IsVoid() {
		return 0
	}
	return br.UpperLimitNormalized - br.LowerLimitNormalized + 1
}

// EffectivePermissions returns the permissions granted to an access key.
func (br *BaseRegister) EffectivePermissions(key AccessLock) AccessPermissions {
	return EffectivePermissions(key, br.AccessLock, br.GeneralPermissions, br.SpecialPermissions)
}

// Absolute converts a relative address, already checked against the limits,
// to a storage address.
func (br *BaseRegister) Absolute(relative uint32) storage.AbsoluteAddress {
	return br.BaseAddress.AddOffset(int(relative) - int(br.LowerLimitNormalized))
}

func (br BaseRegister) String() string {
	if br.IsVoid() {
		return "void"
	}
	return fmt.Sprintf("%v %o-%o lock %v gap %v sap %v",
		br.BaseAddress, br.LowerLimitNormalized, br.UpperLimitNormalized,
		br.AccessLock, br.GeneralPermissions, br.SpecialPermissions)
}
