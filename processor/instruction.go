package processor

import (
	"fmt"

	"github.com/ezrec/em2200/word"
)

// Instruction word field positions.
const (
	iwFShift = 30
	iwJShift = 26
	iwAShift = 22
	iwXShift = 18
	iwHShift = 17
	iwIShift = 16
	iwBShift = 12

	iwHIUMask  = word.Word(0777777)
	iwXHIUMask = word.Word(017777777)
)

// Instruction is a decoded view of an instruction word.
//
//	f(6) j(4) a(4) x(4) h(1) i(1) u(16)
//
// In extended mode u is split into b(4) d(12).
type Instruction word.Word

// MakeInstruction builds a basic mode style instruction word.
func MakeInstruction(f, j, a, x, h, i, u uint) Instruction {
	return Instruction(word.Word(f&077)<<iwFShift |
		word.Word(j&017)<<iwJShift |
		word.Word(a&017)<<iwAShift |
		word.Word(x&017)<<iwXShift |
		word.Word(h&1)<<iwHShift |
		word.Word(i&1)<<iwIShift |
		word.Word(u&0177777))
}

// MakeExtendedInstruction builds an extended mode instruction word.
func MakeExtendedInstruction(f, j, a, x, h, i, b, d uint) Instruction {
	return MakeInstruction(f, j, a, x, h, i, (b&017)<<iwBShift|(d&07777))
}

func (iw Instruction) F() uint { return uint(iw>>iwFShift) & 077 }
func (iw Instruction) J() uint { return uint(iw>>iwJShift) & 017 }
func (iw Instruction) A() uint { return uint(iw>>iwAShift) & 017 }
func (iw Instruction) X() uint { return uint(iw>>iwXShift) & 017 }
func (iw Instruction) H() uint { return uint(iw>>iwHShift) & 1 }
func (iw Instruction) I() uint { return uint(iw>>iwIShift) & 1 }
func (iw Instruction) U() uint { return uint(iw) & 0177777 }
func (iw Instruction) B() uint { return uint(iw>>iwBShift) & 017 }
func (iw Instruction) D() uint { return uint(iw) & 07777 }

// IB is the five bit base register field used at PP 0 and 1.
func (iw Instruction) IB() uint { return iw.I()<<4 | iw.B() }

// HIU is the 18-bit h, i and u fields, as used by immediate operands.
func (iw Instruction) HIU() uint { return uint(word.Word(iw) & iwHIUMask) }

// JA is the eight bit register field formed from j and a.
func (iw Instruction) JA() uint { return iw.J()<<4 | iw.A() }

// WithXHIU replaces the x, h, i and u fields from an indirect word.
func (iw Instruction) WithXHIU(indirect word.Word) Instruction {
	return Instruction(word.Word(iw)&^iwXHIUMask | indirect&iwXHIUMask)
}

// WithU replaces the u field.
func (iw Instruction) WithU(u uint) Instruction {
	return Instruction(word.Word(iw)&^word.Word(0177777) | word.Word(u&0177777))
}

func (iw Instruction) Word() word.Word {
	return word.Word(iw)
}

func (iw Instruction) String() string {
	return fmt.Sprintf("%02o %02o %02o %02o %o %o %06o",
		iw.F(), iw.J(), iw.A(), iw.X(), iw.H(), iw.I(), iw.U())
}
