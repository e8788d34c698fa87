package processor

import (
	"math/bits"

	"github.com/ezrec/em2200/word"
)

// skipIf reads the operand, and skips the next instruction when the test
// of the operand holds.
func (p *Processor) skipIf(test func(u word.Word) bool) (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	if test(value.Canon()) {
		p.skip()
	}
	return
}

// skipIfA is skipIf with A(a) and A(a+1) available to the test.
func (p *Processor) skipIfA(test func(u, a0, a1 word.Word) bool) error {
	a := p.current.A()
	return p.skipIf(func(u word.Word) bool { return test(u, p.A(a), p.A(a+1)) })
}

func isPositiveZero(w word.Word) bool { return w == word.PositiveZero }
func isNegativeZero(w word.Word) bool { return w.IsNegativeZero() }
func isGreaterZero(w word.Word) bool  { return !w.IsNegative() && !w.IsZero() }
func isLessZero(w word.Word) bool     { return w.IsNegative() && !w.IsZero() }

func (p *Processor) opTZ() error   { return p.skipIf(word.Word.IsZero) }
func (p *Processor) opTNZ() error  { return p.skipIf(func(u word.Word) bool { return !u.IsZero() }) }
func (p *Processor) opTP() error   { return p.skipIf(func(u word.Word) bool { return !u.IsNegative() }) }
func (p *Processor) opTN() error   { return p.skipIf(word.Word.IsNegative) }
func (p *Processor) opTNOP() error { return p.skipIf(func(word.Word) bool { return false }) }
func (p *Processor) opTSKP() error { return p.skipIf(func(word.Word) bool { return true }) }
func (p *Processor) opTGZ() error  { return p.skipIf(isGreaterZero) }
func (p *Processor) opTPZ() error  { return p.skipIf(isPositiveZero) }
func (p *Processor) opTMZ() error  { return p.skipIf(isNegativeZero) }
func (p *Processor) opTLZ() error  { return p.skipIf(isLessZero) }
func (p *Processor) opTMZG() error {
	return p.skipIf(func(u word.Word) bool { return isNegativeZero(u) || isGreaterZero(u) })
}
func (p *Processor) opTNLZ() error {
	return p.skipIf(func(u word.Word) bool { return !isLessZero(u) })
}
func (p *Processor) opTPZL() error {
	return p.skipIf(func(u word.Word) bool { return isPositiveZero(u) || isLessZero(u) })
}
func (p *Processor) opTNMZ() error {
	return p.skipIf(func(u word.Word) bool { return !isNegativeZero(u) })
}
func (p *Processor) opTNPZ() error {
	return p.skipIf(func(u word.Word) bool { return !isPositiveZero(u) })
}
func (p *Processor) opTNGZ() error {
	return p.skipIf(func(u word.Word) bool { return !isGreaterZero(u) })
}

func (p *Processor) opTE() error {
	return p.skipIfA(func(u, a0, _ word.Word) bool { return u == a0 })
}

func (p *Processor) opTNE() error {
	return p.skipIfA(func(u, a0, _ word.Word) bool { return u != a0 })
}

func (p *Processor) opTLE() error {
	return p.skipIfA(func(u, a0, _ word.Word) bool { return word.Compare(u, a0) <= 0 })
}

func (p *Processor) opTG() error {
	return p.skipIfA(func(u, a0, _ word.Word) bool { return word.Compare(u, a0) > 0 })
}

func within(low, u, high word.Word) bool {
	return word.Compare(low, u) < 0 && word.Compare(u, high) <= 0
}

func (p *Processor) opTW() error {
	return p.skipIfA(func(u, a0, a1 word.Word) bool { return within(a0, u, a1) })
}

func (p *Processor) opTNW() error {
	return p.skipIfA(func(u, a0, a1 word.Word) bool { return !within(a0, u, a1) })
}

// parity is the parity of the operand bits selected by A(a).
func parity(u, a word.Word) uint {
	return uint(bits.OnesCount64(uint64(u&a&word.Mask))) & 1
}

func (p *Processor) opTEP() error {
	return p.skipIfA(func(u, a0, _ word.Word) bool { return parity(u, a0) == 0 })
}

func (p *Processor) opTOP() error {
	return p.skipIfA(func(u, a0, _ word.Word) bool { return parity(u, a0) == 1 })
}

// opTLEM skips when the operand's low half is at most XM of X(a), and
// always increments X(a).
func (p *Processor) opTLEM() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}

	a := p.current.A()
	xr := IndexRegister(p.X(a))
	if word.H2.Get(value) <= xr.XM() {
		p.skip()
	}

	if p.index24() {
		xr = xr.Increment24()
	} else {
		xr = xr.Increment18()
	}
	p.SetX(a, word.Word(xr))
	return
}

func (p *Processor) opDTE() (err error) {
	value, err := p.getOperandDouble()
	if err != nil {
		return
	}
	a := p.current.A()
	if value[0].Canon() == p.A(a) && value[1].Canon() == p.A(a+1) {
		p.skip()
	}
	return
}

// skipIfMasked compares the operand and A(a),A(a+1) under the R2 mask.
func (p *Processor) skipIfMasked(test func(u, a0, a1 word.Word) bool) (err error) {
	value, err := p.getOperandWord()
	if err != nil {
		return
	}
	a := p.current.A()
	mask := p.R(2)
	if test(value&mask, p.A(a)&mask, p.A(a+1)&mask) {
		p.skip()
	}
	return
}

func (p *Processor) opMTE() error {
	return p.skipIfMasked(func(u, a0, _ word.Word) bool { return u == a0 })
}

func (p *Processor) opMTNE() error {
	return p.skipIfMasked(func(u, a0, _ word.Word) bool { return u != a0 })
}

func (p *Processor) opMTLE() error {
	return p.skipIfMasked(func(u, a0, _ word.Word) bool { return word.Compare(u, a0) <= 0 })
}

func (p *Processor) opMTG() error {
	return p.skipIfMasked(func(u, a0, _ word.Word) bool { return word.Compare(u, a0) > 0 })
}

func (p *Processor) opMTW() error {
	return p.skipIfMasked(func(u, a0, a1 word.Word) bool { return within(a0, u, a1) })
}

func (p *Processor) opMTNW() error {
	return p.skipIfMasked(func(u, a0, a1 word.Word) bool { return !within(a0, u, a1) })
}

func (p *Processor) opMATL() error {
	return p.skipIfMasked(func(u, a0, _ word.Word) bool { return u <= a0 })
}

func (p *Processor) opMATG() error {
	return p.skipIfMasked(func(u, a0, _ word.Word) bool { return u > a0 })
}

// opTS raises a test and set interrupt when the lock bit is already set,
// and sets it otherwise.
func (p *Processor) opTS() (err error) {
	wasSet, ref, err := p.testAndSet(true)
	if err != nil {
		return
	}
	if wasSet {
		err = NewTestAndSet(ref.index, ref.relative)
	}
	return
}

// opTSS sets the lock bit and skips, unless it was already set.
func (p *Processor) opTSS() (err error) {
	wasSet, _, err := p.testAndSet(true)
	if err != nil {
		return
	}
	if !wasSet {
		p.skip()
	}
	return
}

// opTCS clears the lock bit and skips, unless it was already clear.
func (p *Processor) opTCS() (err error) {
	wasSet, _, err := p.testAndSet(false)
	if err != nil {
		return
	}
	if wasSet {
		p.skip()
	}
	return
}
