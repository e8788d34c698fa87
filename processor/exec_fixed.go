package processor

import (
	"github.com/ezrec/em2200/word"
)

// addDesignators records carry and overflow, and raises an operation
// trap on overflow when DB27 is set.
func (p *Processor) addDesignators(carry, overflow bool) (err error) {
	p.DR.SetCarry(carry)
	p.DR.SetOverflow(overflow)
	if overflow && p.DR.OperationTrap() {
		err = NewOperationTrap(OT_FIXED_POINT_BINARY_OVERFLOW)
	}
	return
}

// addToA adds an adjusted operand to A(a).
func (p *Processor) addToA(adjust func(word.Word) word.Word) (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	sum, carry, overflow := word.Add(p.A(a), adjust(value))
	p.SetA(a, sum)
	err = p.addDesignators(carry, overflow)
	return
}

// addUpper adds an adjusted operand to A(a), leaving the sum in A(a+1).
func (p *Processor) addUpper(adjust func(word.Word) word.Word) (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	sum, carry, overflow := word.Add(p.A(a), adjust(value))
	p.SetA(a+1, sum)
	err = p.addDesignators(carry, overflow)
	return
}

// addToX adds an adjusted operand to X(a).
func (p *Processor) addToX(adjust func(word.Word) word.Word) (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	sum, carry, overflow := word.Add(p.X(a), adjust(value))
	p.SetX(a, sum)
	err = p.addDesignators(carry, overflow)
	return
}

func identity(w word.Word) word.Word  { return w }
func negate(w word.Word) word.Word    { return w.Negate() }
func magnitude(w word.Word) word.Word { return w.Magnitude() }
func negativeMagnitude(w word.Word) word.Word {
	return w.Magnitude().Negate()
}

func (p *Processor) opAA() error   { return p.addToA(identity) }
func (p *Processor) opANA() error  { return p.addToA(negate) }
func (p *Processor) opAMA() error  { return p.addToA(magnitude) }
func (p *Processor) opANMA() error { return p.addToA(negativeMagnitude) }
func (p *Processor) opAU() error   { return p.addUpper(identity) }
func (p *Processor) opANU() error  { return p.addUpper(negate) }
func (p *Processor) opAX() error   { return p.addToX(identity) }
func (p *Processor) opANX() error  { return p.addToX(negate) }

// addFields adds each of the given fields of the operand to the same
// field of A(a), independently and without designators.
func (p *Processor) addFields(negative bool, fields ...word.Field) (err error) {
	value, err := p.getOperandWord()
	if err != nil {
		return
	}
	a := p.current.A()
	result := p.A(a)
	for _, field := range fields {
		addend := field.Get(value)
		if negative {
			addend = ^addend & ((word.Word(1) << field.Width) - 1)
		}
		result = field.Set(result, word.AddField(field.Get(result), addend, field.Width))
	}
	p.SetA(a, result)
	return
}

func (p *Processor) opAH() error  { return p.addFields(false, word.H1, word.H2) }
func (p *Processor) opANH() error { return p.addFields(true, word.H1, word.H2) }
func (p *Processor) opAT() error  { return p.addFields(false, word.T1, word.T2, word.T3) }
func (p *Processor) opANT() error { return p.addFields(true, word.T1, word.T2, word.T3) }

// increment adds delta to the operand in place. With skipNonZero, the
// next instruction is skipped unless the operand or the result was zero.
func (p *Processor) increment(delta word.Word, skipNonZero bool) (err error) {
	zero, err := p.incrementOperand(delta)
	if err != nil {
		return
	}
	if skipNonZero && !zero {
		p.skip()
	}
	return
}

func (p *Processor) opADD1() (err error) {
	if p.DR.BasicMode() {
		err = p.requirePrivilege(0)
		if err != nil {
			return
		}
	}
	return p.increment(1, false)
}

func (p *Processor) opSUB1() (err error) {
	if p.DR.BasicMode() {
		err = p.requirePrivilege(0)
		if err != nil {
			return
		}
	}
	return p.increment(word.FromInt(-1), false)
}

func (p *Processor) opINC() error  { return p.increment(1, true) }
func (p *Processor) opDEC() error  { return p.increment(word.FromInt(-1), true) }
func (p *Processor) opINC2() error { return p.increment(2, true) }
func (p *Processor) opDEC2() error { return p.increment(word.FromInt(-2), true) }
func (p *Processor) opENZ() error  { return p.increment(word.PositiveZero, true) }

// addDouble adds the double word operand to A(a),A(a+1).
func (p *Processor) addDouble(negative bool) (err error) {
	value, err := p.getOperandDouble()
	if err != nil {
		return
	}
	if negative {
		value = value.Negate()
	}
	a := p.current.A()
	sum, carry, overflow := word.AddDouble(word.Double{p.A(a), p.A(a + 1)}, value)
	p.SetA(a, sum[0])
	p.SetA(a+1, sum[1])
	err = p.addDesignators(carry, overflow)
	return
}

func (p *Processor) opDA() error  { return p.addDouble(false) }
func (p *Processor) opDAN() error { return p.addDouble(true) }

func (p *Processor) opMI() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	product := word.Multiply(p.A(a), value)
	p.SetA(a, product[0])
	p.SetA(a+1, product[1])
	return
}

func (p *Processor) opMSI() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	product, overflow := word.MultiplySingle(p.A(a), value)
	p.SetA(a, product)
	if overflow && p.DR.OperationTrap() {
		err = NewOperationTrap(OT_MULTIPLY_SINGLE_OVERFLOW)
	}
	return
}

func (p *Processor) opMF() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	product := word.MultiplyFractional(p.A(a), value)
	p.SetA(a, product[0])
	p.SetA(a+1, product[1])
	return
}

// divideCheck sets DB23, and either raises an arithmetic exception when
// enabled by DB29, or zeroes the destination registers.
func (p *Processor) divideCheck(registers ...uint) (err error) {
	p.DR.SetDivideCheck(true)
	if p.DR.ArithmeticException() {
		err = NewArithmeticException(AX_DIVIDE_CHECK)
		return
	}
	for _, a := range registers {
		p.SetA(a, 0)
	}
	return
}

func (p *Processor) opDI() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	quotient, remainder, ok := word.DivideInteger(word.Double{p.A(a), p.A(a + 1)}, value)
	if !ok {
		return p.divideCheck(a, a+1)
	}
	p.SetA(a, quotient)
	p.SetA(a+1, remainder)
	return
}

func (p *Processor) opDSF() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	quotient, ok := word.DivideSingleFractional(p.A(a), value)
	if !ok {
		return p.divideCheck(a + 1)
	}
	p.SetA(a+1, quotient)
	return
}

func (p *Processor) opDF() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	quotient, remainder, ok := word.DivideFractional(word.Double{p.A(a), p.A(a + 1)}, value)
	if !ok {
		return p.divideCheck(a, a+1)
	}
	p.SetA(a, quotient)
	p.SetA(a+1, remainder)
	return
}
