package processor

import (
	"github.com/ezrec/em2200/word"
)

const (
	IKR_INSTRUCTION_IN_F0 = 9  // Instruction in F0, for resumption after an interrupt.
	IKR_EXECUTE_REPEATED  = 10 // Execute repeated instruction in F0.
	IKR_SOFTWARE_BREAK    = 11 // Software break pending.
)

var (
	ikrShortStatus = word.Q1
	ikrClass       = word.S3
	ikrAccessKey   = word.H2
)

// IndicatorKeyRegister holds the interrupt status and the access key.
type IndicatorKeyRegister word.Word

func (ikr IndicatorKeyRegister) ShortStatus() uint {
	return uint(ikrShortStatus.Get(word.Word(ikr)))
}

func (ikr *IndicatorKeyRegister) SetShortStatus(ssf uint) {
	*ikr = IndicatorKeyRegister(ikrShortStatus.Set(word.Word(*ikr), word.Word(ssf)))
}

func (ikr IndicatorKeyRegister) InterruptClass() InterruptClass {
	return InterruptClass(ikrClass.Get(word.Word(ikr)))
}

func (ikr *IndicatorKeyRegister) SetInterruptClass(class InterruptClass) {
	*ikr = IndicatorKeyRegister(ikrClass.Set(word.Word(*ikr), word.Word(class)))
}

// AccessKey returns the key compared against bank access locks.
func (ikr IndicatorKeyRegister) AccessKey() AccessLock {
	return AccessLockFromWord(ikrAccessKey.Get(word.Word(ikr)))
}

func (ikr *IndicatorKeyRegister) SetAccessKey(key AccessLock) {
	*ikr = IndicatorKeyRegister(ikrAccessKey.Set(word.Word(*ikr), key.Word()))
}

func (ikr IndicatorKeyRegister) InstructionInF0() bool {
	return word.Word(ikr).Bit(IKR_INSTRUCTION_IN_F0)
}

func (ikr *IndicatorKeyRegister) SetInstructionInF0(on bool) {
	*ikr = IndicatorKeyRegister(word.Word(*ikr).SetBit(IKR_INSTRUCTION_IN_F0, on))
}

func (ikr IndicatorKeyRegister) SoftwareBreak() bool {
	return word.Word(ikr).Bit(IKR_SOFTWARE_BREAK)
}

func (ikr *IndicatorKeyRegister) SetSoftwareBreak(on bool) {
	*ikr = IndicatorKeyRegister(word.Word(*ikr).SetBit(IKR_SOFTWARE_BREAK, on))
}

// Clear resets everything except the access key.
func (ikr *IndicatorKeyRegister) Clear() {
	*ikr = IndicatorKeyRegister(ikrAccessKey.Get(word.Word(*ikr)))
}
