package processor

import (
	"errors"

	"github.com/ezrec/em2200/word"
)

// Test and set lock bit, the low bit of S1.
const tsLockBit = word.Word(010000000000)

// isImmediate is true when the current instruction carries its operand
// in its u field.
func (p *Processor) isImmediate() bool {
	return p.op.Flags()&OPF_IMMEDIATE != 0 && p.current.J() >= word.JU
}

// immediate forms the immediate operand of the current instruction.
func (p *Processor) immediate() (value word.Word) {
	iw := p.current
	pp := p.DR.ProcessorPrivilege()

	width := uint(18)
	if iw.X() == 0 {
		value = word.Word(iw.HIU())
		if value == 0777777 {
			value = 0
		}
	} else {
		u := word.Word(iw.U())
		if u == 0177777 {
			u = 0
		}
		xi := p.xIndex(iw.X())
		xr := IndexRegister(p.GRS.Get(xi))
		if p.index24() {
			value = u + xr.XM24()
		} else {
			value = u + xr.XM()
		}
		if (pp < 2 && p.DR.Exec24BitIndexing()) || (pp > 1 && iw.I() != 0) {
			width = 24
		}
		value &= (word.Word(1) << width) - 1

		if iw.H() != 0 {
			if p.index24() {
				xr = xr.Increment24()
			} else {
				xr = xr.Increment18()
			}
			p.GRS.Set(xi, word.Word(xr))
		}
	}

	if iw.J() == word.JXU {
		value = word.SignExtend(value, width)
	}
	return
}

// partial extracts the partial word designated by j of the current instruction.
func (p *Processor) partial(w word.Word) word.Word {
	return word.Extract(w, p.current.J(), p.DR.QuarterWordMode())
}

// getOperand reads the operand of the current instruction, honouring
// immediate operands and partial word designators. GRS operands are
// always full word.
func (p *Processor) getOperand() (value word.Word, err error) {
	if p.isImmediate() {
		value = p.immediate()
		return
	}

	ref, err := p.resolve(true)
	if err != nil {
		return
	}
	value, err = p.readRef(ref, 0)
	if err != nil {
		return
	}
	if !ref.grs {
		value = p.partial(value)
	}
	return
}

// getOperandWords reads n consecutive full words at the operand address.
func (p *Processor) getOperandWords(n int, grsCheck bool) (values []word.Word, err error) {
	ref, err := p.resolve(grsCheck)
	if err != nil {
		return
	}

	values = make([]word.Word, n)
	for i := range values {
		values[i], err = p.readRef(ref, uint32(i))
		if err != nil {
			values = nil
			return
		}
	}
	return
}

// getOperandDouble reads a register pair's worth of storage.
func (p *Processor) getOperandDouble() (value word.Double, err error) {
	values, err := p.getOperandWords(2, true)
	if err != nil {
		return
	}
	value = word.Double{values[0], values[1]}
	return
}

// storeOperand stores to the operand of the current instruction,
// honouring partial word designators. A j of U or XU stores nothing.
func (p *Processor) storeOperand(value word.Word) (err error) {
	j := p.current.J()
	if j >= word.JU {
		return
	}

	ref, err := p.resolve(true)
	if err != nil {
		return
	}

	if ref.grs || j == word.JW {
		err = p.writeRef(ref, 0, value)
		return
	}

	addr, err := p.translate(ref, 0, true)
	if err != nil {
		return
	}
	old, err := p.readAbsolute(addr)
	if err != nil {
		return
	}
	err = p.writeAbsolute(addr, word.Inject(old, value, j, p.DR.QuarterWordMode()))
	return
}

// storeOperandWords stores consecutive full words at the operand address.
// Every word is checked before any is written.
func (p *Processor) storeOperandWords(values []word.Word, grsCheck bool) (err error) {
	ref, err := p.resolve(grsCheck)
	if err != nil {
		return
	}

	if !ref.grs {
		for n := range values {
			_, err = p.translate(ref, uint32(n), true)
			if err != nil {
				return
			}
		}
	}

	for n, value := range values {
		err = p.writeRef(ref, uint32(n), value)
		if err != nil {
			return
		}
	}
	return
}

// incrementOperand adds delta to the partial word operand in place,
// setting carry and overflow. zero is true when either the original
// operand or the result is zero.
func (p *Processor) incrementOperand(delta word.Word) (zero bool, err error) {
	ref, err := p.resolve(true)
	if err != nil {
		return
	}

	raw, err := p.readRef(ref, 0)
	if err != nil {
		return
	}

	value := raw
	j := p.current.J()
	partial := !ref.grs && j != word.JW && j < word.JU
	if partial {
		value = p.partial(raw)
	}

	sum, carry, overflow := word.Add(value, delta)
	p.DR.SetCarry(carry)
	p.DR.SetOverflow(overflow)
	zero = value.IsZero() || sum.IsZero()

	if partial {
		sum = word.Inject(raw, sum, j, p.DR.QuarterWordMode())
	}
	err = p.writeRef(ref, 0, sum)
	return
}

// testAndSet changes the lock bit of the operand with a single
// compare-and-swap. With set, an already set lock bit leaves the word
// unchanged; without it, an already clear bit does. wasSet reports the
// lock bit before the operation.
func (p *Processor) testAndSet(set bool) (wasSet bool, ref reference, err error) {
	ref, err = p.resolve(false)
	if err != nil {
		return
	}
	addr, err := p.translate(ref, 0, true)
	if err != nil {
		return
	}
	ms := p.storageFor(addr)

	for {
		var old word.Word
		old, err = p.readAbsolute(addr)
		if err != nil {
			return
		}

		wasSet = old&tsLockBit != 0
		if wasSet == set {
			return
		}

		// The whole of S1 is replaced, not just the lock bit.
		value := word.S1.Set(old, 01)
		if !set {
			value = word.S1.Set(old, 0)
		}

		var swapped bool
		swapped, err = ms.CompareAndSwap(addr, old, value)
		if err != nil {
			err = errors.Join(NewHardwareCheck(), err)
			return
		}
		if swapped {
			return
		}
	}
}
