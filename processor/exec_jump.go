package processor

import (
	"github.com/ezrec/em2200/word"
)

// jumpIf forms the jump target, and jumps when the condition holds. The
// target is formed even when the jump is not taken, so any index
// increment is always applied.
func (p *Processor) jumpIf(cond func() bool) (err error) {
	target, err := p.uValue()
	if err != nil {
		return
	}
	if cond() {
		p.jump(target)
	}
	return
}

func always() bool { return true }

// jumpIfA jumps on a test of A(a).
func (p *Processor) jumpIfA(test func(a word.Word) bool) error {
	a := p.current.A()
	return p.jumpIf(func() bool { return test(p.A(a)) })
}

func (p *Processor) opJ() error  { return p.jumpIf(always) }
func (p *Processor) opHJ() error { return p.jumpIf(always) }

// opJK forms its target but never jumps; there are no console keys.
func (p *Processor) opJK() error {
	return p.jumpIf(func() bool { return false })
}

// opHLTJ jumps, then stops the processor.
func (p *Processor) opHLTJ() (err error) {
	err = p.requirePrivilege(0)
	if err != nil {
		return
	}
	target, err := p.uValue()
	if err != nil {
		return
	}
	p.jump(target)
	err = &ErrStop{Reason: STOP_HALT_JUMP_EXECUTED, Detail: uint64(target)}
	return
}

func (p *Processor) opJZ() error  { return p.jumpIfA(word.Word.IsZero) }
func (p *Processor) opJNZ() error { return p.jumpIfA(func(a word.Word) bool { return !a.IsZero() }) }
func (p *Processor) opJP() error  { return p.jumpIfA(func(a word.Word) bool { return !a.IsNegative() }) }
func (p *Processor) opJN() error  { return p.jumpIfA(word.Word.IsNegative) }
func (p *Processor) opJB() error  { return p.jumpIfA(func(a word.Word) bool { return a&1 != 0 }) }
func (p *Processor) opJNB() error { return p.jumpIfA(func(a word.Word) bool { return a&1 == 0 }) }

func (p *Processor) opDJZ() error {
	a := p.current.A()
	return p.jumpIf(func() bool {
		return word.Double{p.A(a), p.A(a + 1)}.IsZero()
	})
}

// opJGD jumps when the register named by the j and a fields is greater
// than zero, and always decrements it.
func (p *Processor) opJGD() (err error) {
	index := p.current.JA() % GRS_SIZE
	pp := p.DR.ProcessorPrivilege()
	if !grsReadAllowed(index, pp) || !grsWriteAllowed(index, pp) {
		err = NewReferenceViolation(RV_GRS, 0, false)
		return
	}

	target, err := p.uValue()
	if err != nil {
		return
	}

	value := p.GRS.Get(index)
	if isGreaterZero(value) {
		p.jump(target)
	}
	p.GRS.Set(index, word.AddSimple(value, word.FromInt(-1)))
	return
}

// opJMGI jumps when XM of X(a) is greater than zero, and always
// increments X(a).
func (p *Processor) opJMGI() (err error) {
	target, err := p.uValue()
	if err != nil {
		return
	}

	a := p.current.A()
	xr := IndexRegister(p.X(a))
	if p.index24() {
		if isGreaterZero(xr.SignedXM24()) {
			p.jump(target)
		}
		xr = xr.Increment24()
	} else {
		if isGreaterZero(xr.SignedXM()) {
			p.jump(target)
		}
		xr = xr.Increment18()
	}
	p.SetX(a, word.Word(xr))
	return
}

// opLMJ saves the return address in XM of X(a), and jumps.
func (p *Processor) opLMJ() (err error) {
	target, err := p.uValue()
	if err != nil {
		return
	}
	a := p.current.A()
	ret := word.Word(p.PAR.PC+1) & 0777777
	p.SetX(a, xmField.Set(p.X(a), ret))
	p.jump(target)
	return
}

// opSLJ stores the return address in H2 of the operand, and jumps to the
// word after it.
func (p *Processor) opSLJ() (err error) {
	ref, err := p.resolve(false)
	if err != nil {
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
	ret := word.Word(p.PAR.PC+1) & 0777777
	err = p.writeAbsolute(addr, word.H2.Set(old, ret))
	if err != nil {
		return
	}
	p.jump(ref.relative + 1)
	return
}

func (p *Processor) opJO() error  { return p.jumpIf(p.DR.Overflow) }
func (p *Processor) opJNO() error { return p.jumpIf(func() bool { return !p.DR.Overflow() }) }
func (p *Processor) opJC() error  { return p.jumpIf(p.DR.Carry) }
func (p *Processor) opJNC() error { return p.jumpIf(func() bool { return !p.DR.Carry() }) }

// opJDF jumps on divide check, clearing it.
func (p *Processor) opJDF() error {
	return p.jumpIf(func() bool {
		if !p.DR.DivideCheck() {
			return false
		}
		p.DR.SetDivideCheck(false)
		return true
	})
}

// opJNDF jumps unless divide check is set, and clears it.
func (p *Processor) opJNDF() error {
	return p.jumpIf(func() bool {
		if p.DR.DivideCheck() {
			p.DR.SetDivideCheck(false)
			return false
		}
		return true
	})
}

// jumpOnSign jumps on the sign of A(a), then rotates A(a) left one bit.
func (p *Processor) jumpOnSign(negative bool) error {
	a := p.current.A()
	return p.jumpIf(func() bool {
		value := p.A(a)
		p.SetA(a, word.LeftCircular(value, 1))
		return value.IsNegative() == negative
	})
}

func (p *Processor) opJPS() error { return p.jumpOnSign(false) }
func (p *Processor) opJNS() error { return p.jumpOnSign(true) }

// opAAIJ enables deferrable interrupts, and jumps.
func (p *Processor) opAAIJ() (err error) {
	if !p.DR.BasicMode() {
		err = p.requirePrivilege(2)
		if err != nil {
			return
		}
	}
	err = p.jumpIf(always)
	if err != nil {
		return
	}
	p.DR.SetDeferrableInterrupt(true)
	return
}

// opPAIJ prevents deferrable interrupts, and jumps.
func (p *Processor) opPAIJ() (err error) {
	if !p.DR.BasicMode() {
		err = p.requirePrivilege(1)
		if err != nil {
			return
		}
	}
	err = p.jumpIf(always)
	if err != nil {
		return
	}
	p.DR.SetDeferrableInterrupt(false)
	return
}
