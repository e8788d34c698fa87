package processor

import (
	"github.com/ezrec/em2200/word"
)

// aIndex returns the GRS index of A(n) in the selected register set.
func (p *Processor) aIndex(n uint) uint {
	if p.DR.ExecRegisterSet() {
		return GRS_EA0 + n
	}
	return GRS_A0 + n
}

// xIndex returns the GRS index of X(n) in the selected register set.
func (p *Processor) xIndex(n uint) uint {
	if p.DR.ExecRegisterSet() {
		return GRS_EX0 + n
	}
	return GRS_X0 + n
}

// rIndex returns the GRS index of R(n) in the selected register set.
func (p *Processor) rIndex(n uint) uint {
	if p.DR.ExecRegisterSet() {
		return GRS_ER0 + n
	}
	return GRS_R0 + n
}

// A returns accumulator n of the register set selected by DB17.
func (p *Processor) A(n uint) word.Word { return p.GRS.Get(p.aIndex(n)) }

// X returns index register n of the register set selected by DB17.
func (p *Processor) X(n uint) word.Word { return p.GRS.Get(p.xIndex(n)) }

// R returns R register n of the register set selected by DB17.
func (p *Processor) R(n uint) word.Word { return p.GRS.Get(p.rIndex(n)) }

func (p *Processor) SetA(n uint, value word.Word) { p.GRS.Set(p.aIndex(n), value) }
func (p *Processor) SetX(n uint, value word.Word) { p.GRS.Set(p.xIndex(n), value) }
func (p *Processor) SetR(n uint, value word.Word) { p.GRS.Set(p.rIndex(n), value) }

// Register returns a GRS register by absolute index.
func (p *Processor) Register(index uint) (value word.Word, err error) {
	if index >= GRS_SIZE {
		err = ErrRegisterIndex
		return
	}
	value = p.GRS.Get(index)
	return
}

// SetRegister stores a GRS register by absolute index.
func (p *Processor) SetRegister(index uint, value word.Word) (err error) {
	if index >= GRS_SIZE {
		err = ErrRegisterIndex
		return
	}
	p.GRS.Set(index, value)
	return
}

// BaseRegister returns base register n.
func (p *Processor) BaseRegister(n uint) (br BaseRegister, err error) {
	if n >= BR_COUNT {
		err = ErrBaseRegister
		return
	}
	br = p.BR[n]
	return
}

// SetBaseRegister replaces base register n.
func (p *Processor) SetBaseRegister(n uint, br BaseRegister) (err error) {
	if n >= BR_COUNT {
		err = ErrBaseRegister
		return
	}
	p.BR[n] = br
	return
}
