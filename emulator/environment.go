package emulator

import (
	"log"

	"github.com/pkg/errors"

	"github.com/ezrec/em2200/loader"
	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/word"
)

// Reserved level 0 bank names of the environment. The ICS banks follow
// ICS_BDI, one per instruction processor.
const (
	HANDLER_BDI = 040
	ICS_BDI     = 041
)

// HALT_BASE is the HALT detail of the standard interrupt handlers, plus
// the interrupt class.
const HALT_BASE = 01000

var (
	// Environment banks are readable at any key, and fully accessible
	// at key 0.
	envGeneral = processor.AccessPermissions{Read: true}
	envSpecial = processor.AccessPermissions{Enter: true, Read: true, Write: true}
)

// environment is the layout of the banking environment in the fixed
// segment of the first storage processor:
//   - the bank descriptor tables of levels 0 to 7, the level 0 table
//     also holding the interrupt vectors,
//   - the standard interrupt handler bank,
//   - an interrupt control stack bank per instruction processor,
//   - then the banks of the module.
type environment struct {
	bdt     [processor.BD_FIXED_LEVELS]processor.BankDescriptor
	handler processor.BankDescriptor
	ics     []processor.BankDescriptor
	top     uint32 // ICS pointer of an empty stack.
	base    storage.AbsoluteAddress
}

// reserved is true for the bank names of the environment.
func reserved(level, bdi uint, processors int) bool {
	return level == 0 && bdi >= HANDLER_BDI && bdi < ICS_BDI+uint(processors)
}

// tableEntries returns the bank descriptors in the table of each level,
// large enough for the module's banks.
func tableEntries(mod *loader.Module, minimum uint32, processors int) (entries [processor.BD_FIXED_LEVELS]uint32) {
	for level := range entries {
		entries[level] = minimum
	}
	entries[0] = max(entries[0], ICS_BDI+uint32(processors))
	for _, bank := range mod.Banks {
		entries[bank.Level] = max(entries[bank.Level], uint32(bank.BDI)+1)
	}
	return
}

func envDescriptor(lower, upper uint32, addr storage.AbsoluteAddress) processor.BankDescriptor {
	return processor.NewBankDescriptor(processor.BANK_EXTENDED, processor.AccessLock{},
		envGeneral, envSpecial, false, lower, upper, addr)
}

// haltInstruction is the HALT of a standard interrupt handler.
func haltInstruction(detail uint) (iw processor.Instruction, err error) {
	enc, err := processor.LookupMnemonic("HALT", false)
	if err != nil {
		return
	}
	iw = processor.MakeInstruction(enc.F, enc.J, enc.A, 0, 0, 0, detail)
	return
}

// buildEnvironment writes the banking environment into storage, and
// returns its layout. Module banks are placed at env.base.
func (emu *Emulator) buildEnvironment(mod *loader.Module) (env *environment, err error) {
	ms := emu.Storage
	cfg := &emu.Config.Environment
	processors := len(emu.Processors)

	entries := tableEntries(mod, cfg.BDTSize, processors)
	frames := cfg.ICSFrames * processor.ICS_FRAME_SIZE

	env = &environment{top: frames}

	var size uint32
	for _, n := range entries {
		size += n * processor.BD_WORDS
	}
	size += uint32(processor.CLASS_COUNT) + frames*uint32(processors)

	seg, err := ms.Segment(0)
	if err != nil {
		return
	}
	if size > seg.Size() {
		err = errors.Wrapf(ErrEnvironmentSize, "%o words", size)
		return
	}

	addr := storage.AbsoluteAddress{UPI: ms.UPI}
	err = ms.WriteBlock(addr, make([]word.Word, size))
	if err != nil {
		return
	}

	for level, n := range entries {
		env.bdt[level] = envDescriptor(0, n*processor.BD_WORDS-1, addr)
		addr = addr.AddOffset(int(n * processor.BD_WORDS))
	}

	env.handler = envDescriptor(0, uint32(processor.CLASS_COUNT)-1, addr)
	vectors := env.bdt[0].BaseAddress()
	for class := range uint32(processor.CLASS_COUNT) {
		var iw processor.Instruction
		iw, err = haltInstruction(uint(HALT_BASE + class))
		if err != nil {
			return
		}
		err = ms.Write(addr.AddOffset(int(class)), iw.Word())
		if err != nil {
			return
		}
		vector := processor.ProgramAddressRegister{Level: 0, BDI: HANDLER_BDI, PC: class}
		err = ms.Write(vectors.AddOffset(int(class)), vector.Word())
		if err != nil {
			return
		}
	}
	addr = addr.AddOffset(int(processor.CLASS_COUNT))

	err = env.setDescriptor(ms, 0, HANDLER_BDI, env.handler)
	if err != nil {
		return
	}

	for n := range processors {
		bd := envDescriptor(0, frames-1, addr)
		env.ics = append(env.ics, bd)
		err = env.setDescriptor(ms, 0, ICS_BDI+uint(n), bd)
		if err != nil {
			return
		}
		addr = addr.AddOffset(int(frames))
	}

	env.base = addr

	if emu.Verbose {
		log.Printf("emulator: environment of %o words, module at %v", size, env.base)
	}

	return
}

// setDescriptor enters a bank descriptor in the table of its level.
func (env *environment) setDescriptor(ms *storage.MainStorage, level, bdi uint, bd processor.BankDescriptor) (err error) {
	table := &env.bdt[level]
	offset := uint32(bdi) * processor.BD_WORDS
	if uint64(offset)+processor.BD_WORDS-1 > table.UpperLimitNormalized() {
		err = errors.Wrapf(loader.ErrPlacement, "bank descriptor %o:%o", level, bdi)
		return
	}
	err = ms.WriteBlock(table.BaseAddress().AddOffset(int(offset)), bd[:])
	return
}
