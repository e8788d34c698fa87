package processor

import (
	"fmt"

	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/word"
)

// BankType is the type field of a bank descriptor.
type BankType uint

const (
	BANK_EXTENDED         = BankType(0) // Extended mode bank.
	BANK_BASIC            = BankType(1) // Basic mode bank.
	BANK_GATE             = BankType(2) // Gate bank.
	BANK_INDIRECT         = BankType(3) // Indirect bank.
	BANK_QUEUE            = BankType(4) // Queue bank.
	BANK_QUEUE_REPOSITORY = BankType(6) // Queue bank repository.
)

var bankTypeNames = map[BankType]string{
	BANK_EXTENDED:         "Extended",
	BANK_BASIC:            "Basic",
	BANK_GATE:             "Gate",
	BANK_INDIRECT:         "Indirect",
	BANK_QUEUE:            "Queue",
	BANK_QUEUE_REPOSITORY: "QueueRepository",
}

func (bt BankType) String() string {
	name, ok := bankTypeNames[bt]
	if !ok {
		return fmt.Sprintf("BankType(%d)", uint(bt))
	}
	return name
}

const (
	BD_WORDS        = 8 // Words in a bank descriptor.
	BD_FIXED_LEVELS = 8 // Number of bank descriptor table levels.
)

// Bank descriptor word 0 bits.
const (
	bdGeneralFaultBit = word.Word(020000000)
	bdLargeBit        = word.Word(04000000)
)

// BankDescriptor is the eight word in-storage description of a bank.
type BankDescriptor [BD_WORDS]word.Word

// NewBankDescriptor builds a descriptor for a bank.
func NewBankDescriptor(bankType BankType, lock AccessLock, general, special AccessPermissions,
	large bool, lower, upper uint32, base storage.AbsoluteAddress) (bd BankDescriptor) {
	bd[0] = word.Word(general.Bits())<<33 |
		word.Word(special.Bits())<<30 |
		word.Word(bankType&017)<<24 |
		lock.Word()
	if large {
		bd[0] |= bdLargeBit
		bd[1] = word.Word(lower>>15)<<27 | word.Word(upper>>6)&brUpperMask
	} else {
		bd[1] = word.Word(lower>>9)<<27 | word.Word(upper)&brUpperMask
	}
	addr := base.Words()
	bd[2] = addr[0]
	bd[3] = addr[1]
	return
}

func (bd *BankDescriptor) GeneralPermissions() AccessPermissions {
	return AccessPermissionsFromBits(uint(bd[0]>>33) & 07)
}

func (bd *BankDescriptor) SpecialPermissions() AccessPermissions {
	return AccessPermissionsFromBits(uint(bd[0]>>30) & 07)
}

func (bd *BankDescriptor) Type() BankType {
	return BankType(bd[0]>>24) & 017
}

func (bd *BankDescriptor) GeneralFault() bool {
	return bd[0]&bdGeneralFaultBit != 0
}

func (bd *BankDescriptor) Large() bool {
	return bd[0]&bdLargeBit != 0
}

func (bd *BankDescriptor) AccessLock() AccessLock {
	return AccessLockFromWord(bd[0])
}

// LowerLimit is the raw nine bit lower limit.
func (bd *BankDescriptor) LowerLimit() uint32 {
	return uint32(bd[1]>>27) & 0777
}

// UpperLimit is the raw 27 bit upper limit.
func (bd *BankDescriptor) UpperLimit() uint32 {
	return uint32(bd[1] & brUpperMask)
}

// LowerLimitNormalized is the lowest relative address, in words.
func (bd *BankDescriptor) LowerLimitNormalized() uint64 {
	if bd.Large() {
		return uint64(bd.LowerLimit()) << 15
	}
	return uint64(bd.LowerLimit()) << 9
}

// UpperLimitNormalized is the highest relative address, in words. A large
// bank's limit needs 33 bits.
func (bd *BankDescriptor) UpperLimitNormalized() uint64 {
	if bd.Large() {
		return uint64(bd.UpperLimit())<<6 | 077
	}
	return uint64(bd.UpperLimit())
}

// TargetLBDI is the L,BDI an indirect bank refers to.
func (bd *BankDescriptor) TargetLBDI() (level uint, bdi uint) {
	return splitLBDI(word.H1.Get(bd[1]))
}

func (bd *BankDescriptor) BaseAddress() storage.AbsoluteAddress {
	return storage.AddressFromWords(bd[2], bd[3])
}

// Displacement is the position of the bank within a large bank group.
func (bd *BankDescriptor) Displacement() uint {
	return uint(bd[4]>>18) & 077777
}

// splitLBDI splits an 18-bit L,BDI into its level and bank descriptor index.
func splitLBDI(lbdi word.Word) (level uint, bdi uint) {
	return uint(lbdi>>15) & 07, uint(lbdi) & 077777
}

// joinLBDI forms an 18-bit L,BDI.
func joinLBDI(level, bdi uint) word.Word {
	return word.Word(level&07)<<15 | word.Word(bdi&077777)
}
