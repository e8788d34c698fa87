package asm

import (
	"slices"

	"github.com/ezrec/em2200/loader"
	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/word"
)

// ENTRY_LABEL names the entry point of a program, when defined.
const ENTRY_LABEL = "start"

// Statement is one assembled word.
type Statement struct {
	LineNo    int        // Source line number.
	Address   uint32     // Relative address of the word.
	Words     []string   // Source words, after substitutions.
	Word      word.Word  // Assembled word.
	LinkLabel string     // Label linked into the word, if any.
	LinkField word.Field // Field of the word the label's address fills.
}

// Program is an assembled sequence of words.
type Program struct {
	Basic      bool              // Assembled for basic mode.
	Statements []Statement       // Assembled words, in source order.
	Labels     map[string]uint32 // Label addresses.
}

// Lower returns the lowest address of the program.
func (prog *Program) Lower() (lower uint32) {
	for n, stmt := range prog.Statements {
		if n == 0 || stmt.Address < lower {
			lower = stmt.Address
		}
	}
	return
}

// Upper returns the highest address of the program.
func (prog *Program) Upper() (upper uint32) {
	for _, stmt := range prog.Statements {
		upper = max(upper, stmt.Address)
	}
	return
}

// Words returns the words from lower to Upper, with unassembled
// addresses zero.
func (prog *Program) Words(lower uint32) (words []word.Word) {
	if len(prog.Statements) == 0 || prog.Upper() < lower {
		return
	}
	words = make([]word.Word, prog.Upper()-lower+1)
	for _, stmt := range prog.Statements {
		if stmt.Address >= lower {
			words[stmt.Address-lower] = stmt.Word
		}
	}
	return
}

// Entry returns the address of the entry label, or the lowest address.
func (prog *Program) Entry() uint32 {
	addr, ok := prog.Labels[ENTRY_LABEL]
	if ok {
		return addr
	}
	return prog.Lower()
}

// Bank returns the program as a single bank, with its lower limit on a
// small bank granule.
func (prog *Program) Bank(level, bdi uint) (bank loader.Bank, err error) {
	if len(prog.Statements) == 0 {
		err = ErrProgramEmpty
		return
	}

	rwe := processor.AccessPermissions{Enter: true, Read: true, Write: true}
	bank = loader.Bank{
		Level:   level,
		BDI:     bdi,
		Type:    processor.BANK_EXTENDED,
		General: rwe,
		Special: rwe,
		Lower:   prog.Lower() &^ 0777,
	}
	if prog.Basic {
		bank.Type = processor.BANK_BASIC
	}
	bank.Words = prog.Words(bank.Lower)

	return
}

// Module returns an absolute module holding the program as its only
// bank, entered at the entry label.
func (prog *Program) Module(level, bdi uint) (mod *loader.Module, err error) {
	bank, err := prog.Bank(level, bdi)
	if err != nil {
		return
	}

	mod = &loader.Module{
		Basic: prog.Basic,
		Entry: processor.ProgramAddressRegister{Level: level, BDI: bdi, PC: prog.Entry()},
		Banks: []loader.Bank{bank},
	}
	err = mod.Validate()
	if err != nil {
		mod = nil
	}

	return
}

// Listing returns the assembled words by address.
func (prog *Program) Listing() (lines []Statement) {
	lines = slices.Clone(prog.Statements)
	slices.SortStableFunc(lines, func(a, b Statement) int {
		return int(int64(a.Address) - int64(b.Address))
	})
	return
}
