package processor

import (
	"errors"

	"github.com/ezrec/em2200/word"
)

// voidBankName is true for the bank names that void a base register.
func voidBankName(level, bdi uint) bool {
	return level == 0 && bdi < 32
}

// bankDescriptor reads a bank descriptor from the table for its level.
func (p *Processor) bankDescriptor(level, bdi uint) (bd BankDescriptor, err error) {
	br := &p.BR[BR_LEVEL0_BDT+(level&07)]
	relative := uint32(bdi) * BD_WORDS
	if !br.Contains(relative) || !br.Contains(relative+BD_WORDS-1) {
		err = NewAddressingException(AE_FATAL, level, bdi)
		return
	}

	addr := br.Absolute(relative)
	err = p.storageFor(addr).ReadBlock(addr, bd[:])
	if err != nil {
		err = errors.Join(NewHardwareCheck(), err)
	}
	return
}

// loadBank builds the base register for a bank name, following one level
// of indirect bank.
func (p *Processor) loadBank(level, bdi uint) (br BaseRegister, entry ActiveBaseTableEntry, err error) {
	entry = ActiveBaseTableEntry{Level: level, BDI: bdi}
	if voidBankName(level, bdi) {
		br = VoidBaseRegister
		return
	}

	bd, err := p.bankDescriptor(level, bdi)
	if err != nil {
		return
	}

	if bd.Type() == BANK_INDIRECT {
		if bd.GeneralFault() {
			err = NewAddressingException(AE_GBIT_SET_INDIRECT, level, bdi)
			return
		}
		level, bdi = bd.TargetLBDI()
		if voidBankName(level, bdi) {
			br = VoidBaseRegister
			return
		}
		bd, err = p.bankDescriptor(level, bdi)
		if err != nil {
			return
		}
	}

	switch bd.Type() {
	case BANK_EXTENDED, BANK_BASIC:
	default:
		err = NewAddressingException(AE_BD_TYPE_INVALID, level, bdi)
		return
	}

	entry.Descriptor = bd
	br = NewBaseRegister(bd)
	return
}

// loadBankName loads the bank named by H1 of w into a base register.
func (p *Processor) loadBankName(brIndex uint, w word.Word) (err error) {
	level, bdi := splitLBDI(word.H1.Get(w))
	br, entry, err := p.loadBank(level, bdi)
	if err != nil {
		return
	}
	entry.Offset = uint32(word.H2.Get(w))

	p.BR[brIndex] = br
	p.ABT.SetEntry(brIndex, entry)
	return
}

// opLBU loads a user base register, B2 through B15, by bank name.
func (p *Processor) opLBU() (err error) {
	a := p.current.A()
	if a < 2 {
		err = NewInvalidInstruction(II_INVALID_BASE_REGISTER)
		return
	}
	value, err := p.getOperandWord()
	if err != nil {
		return
	}
	err = p.loadBankName(a, value)
	return
}

// opLBE loads an exec base register, B16 through B31, by bank name.
func (p *Processor) opLBE() (err error) {
	err = p.requirePrivilege(0)
	if err != nil {
		return
	}
	value, err := p.getOperandWord()
	if err != nil {
		return
	}
	err = p.loadBankName(p.current.A()+16, value)
	return
}

// loadDirect loads a base register from its four word stored form.
func (p *Processor) loadDirect(brIndex uint) (err error) {
	err = p.requirePrivilege(0)
	if err != nil {
		return
	}
	values, err := p.getOperandWords(BR_DESCRIPTOR_SZ, true)
	if err != nil {
		return
	}
	p.BR[brIndex] = BaseRegisterFromWords([BR_DESCRIPTOR_SZ]word.Word(values))
	return
}

func (p *Processor) opLBUD() error { return p.loadDirect(p.current.A()) }
func (p *Processor) opLBED() error { return p.loadDirect(p.current.A() + 16) }

// opSBU stores the bank name of a user base register. B0 reports the
// bank of the PAR.
func (p *Processor) opSBU() (err error) {
	if p.DR.BasicMode() {
		err = p.requirePrivilege(0)
		if err != nil {
			return
		}
	}

	a := p.current.A()
	value := word.H1.Set(0, p.PAR.LBDI())
	if a != 0 {
		entry, _ := p.ABT.Entry(a)
		value = entry.Word()
	}
	err = p.storeOperandWords([]word.Word{value}, true)
	return
}

// storeDirect stores the four word form of a base register.
func (p *Processor) storeDirect(brIndex uint) (err error) {
	err = p.requirePrivilege(0)
	if err != nil {
		return
	}
	values := p.BR[brIndex].Words()
	err = p.storeOperandWords(values[:], true)
	return
}

func (p *Processor) opSBUD() error { return p.storeDirect(p.current.A()) }
func (p *Processor) opSBED() error { return p.storeDirect(p.current.A() + 16) }

// opLBN translates a virtual address to a bank name in X(a). A basic mode
// bank yields its level and displacement without a skip; any other bank
// leaves the virtual address and skips.
func (p *Processor) opLBN() (err error) {
	err = p.requirePrivilege(0)
	if err != nil {
		return
	}
	value, err := p.getOperandWord()
	if err != nil {
		return
	}

	level, bdi := splitLBDI(word.H1.Get(value))
	_, entry, err := p.loadBank(level, bdi)
	if err != nil {
		return
	}

	a := p.current.A()
	if entry.Descriptor.Type() == BANK_BASIC {
		name := joinLBDI(entry.Level, entry.Descriptor.Displacement())
		p.SetX(a, word.H1.Set(word.H2.Get(value), name))
		return
	}

	p.SetX(a, value)
	p.skip()
	return
}

// opDABT stores the fifteen active base table entries.
func (p *Processor) opDABT() (err error) {
	err = p.requirePrivilege(1)
	if err != nil {
		return
	}
	values := make([]word.Word, ABT_SIZE)
	for n, entry := range p.ABT {
		values[n] = entry.Word()
	}
	err = p.storeOperandWords(values, true)
	return
}

// opLAE loads B1 through B15 from fifteen bank names. Every bank is
// checked before any base register changes.
func (p *Processor) opLAE() (err error) {
	err = p.requirePrivilege(0)
	if err != nil {
		return
	}
	values, err := p.getOperandWords(ABT_SIZE, true)
	if err != nil {
		return
	}

	var brs [ABT_SIZE]BaseRegister
	var entries [ABT_SIZE]ActiveBaseTableEntry
	for n, value := range values {
		level, bdi := splitLBDI(word.H1.Get(value))
		brs[n], entries[n], err = p.loadBank(level, bdi)
		if err != nil {
			return
		}
		entries[n].Offset = uint32(word.H2.Get(value))
	}

	for n := range brs {
		p.BR[n+1] = brs[n]
		p.ABT.SetEntry(uint(n+1), entries[n])
	}
	return
}
