package processor

import (
	"fmt"

	"github.com/ezrec/em2200/word"
)

// ProgramAddressRegister locates the next instruction.
type ProgramAddressRegister struct {
	Level uint   // Bank level of the code bank.
	BDI   uint   // Bank descriptor index of the code bank.
	PC    uint32 // Program counter, 18 bits.
}

// ProgramAddressRegisterFromWord decodes L,BDI from H1 and the PC from H2.
func ProgramAddressRegisterFromWord(w word.Word) (par ProgramAddressRegister) {
	par.Level, par.BDI = splitLBDI(word.H1.Get(w))
	par.PC = uint32(word.H2.Get(w))
	return
}

// Word encodes L,BDI in H1 and the PC in H2.
func (par ProgramAddressRegister) Word() word.Word {
	return word.H1.Set(word.Word(par.PC)&0777777, joinLBDI(par.Level, par.BDI))
}

// LBDI returns the 18-bit L,BDI.
func (par ProgramAddressRegister) LBDI() word.Word {
	return joinLBDI(par.Level, par.BDI)
}

func (par ProgramAddressRegister) String() string {
	return fmt.Sprintf("%o,%05o:%06o", par.Level, par.BDI, par.PC)
}
