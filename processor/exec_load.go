package processor

import (
	"github.com/ezrec/em2200/word"
)

// Program designator bits, as loaded by LPD and stored by SPD.
var programDesignators = [...]struct {
	mask word.Word
	bit  uint
}{
	{020, DB_CARRY},
	{010, DB_OVERFLOW},
	{004, DB_CHARACTERISTIC_UNDER},
	{002, DB_CHARACTERISTIC_OVER},
	{001, DB_DIVIDE_CHECK},
}

// getOperandWord reads a single full word operand.
func (p *Processor) getOperandWord() (value word.Word, err error) {
	values, err := p.getOperandWords(1, true)
	if err != nil {
		return
	}
	value = values[0]
	return
}

// requirePrivilege raises an invalid instruction interrupt unless the
// processor privilege is at most pp.
func (p *Processor) requirePrivilege(pp uint) (err error) {
	if p.DR.ProcessorPrivilege() > pp {
		err = NewInvalidInstruction(II_INVALID_PROCESSOR_PRIVILEGE)
	}
	return
}

func (p *Processor) opLA() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	p.SetA(p.current.A(), value)
	return
}

func (p *Processor) opLNA() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	p.SetA(p.current.A(), value.Negate())
	return
}

func (p *Processor) opLMA() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	p.SetA(p.current.A(), value.Magnitude())
	return
}

func (p *Processor) opLNMA() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	p.SetA(p.current.A(), value.Magnitude().Negate())
	return
}

func (p *Processor) opLR() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	p.SetR(p.current.A(), value)
	return
}

func (p *Processor) opLX() (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	p.SetX(p.current.A(), value)
	return
}

// setXField loads one field of X(a) from the operand.
func (p *Processor) setXField(field word.Field) (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	p.SetX(a, field.Set(p.X(a), value))
	return
}

func (p *Processor) opLXM() error  { return p.setXField(xmField) }
func (p *Processor) opLXI() error  { return p.setXField(xiField) }
func (p *Processor) opLXLM() error { return p.setXField(xm24Field) }
func (p *Processor) opLXSI() error { return p.setXField(xi12Field) }
func (p *Processor) opLSBO() error { return p.setXField(word.S1) }
func (p *Processor) opLSBL() error { return p.setXField(word.S2) }

func (p *Processor) opDL() (err error) {
	value, err := p.getOperandDouble()
	if err != nil {
		return
	}
	a := p.current.A()
	p.SetA(a, value[0])
	p.SetA(a+1, value[1])
	return
}

func (p *Processor) opDLN() (err error) {
	value, err := p.getOperandDouble()
	if err != nil {
		return
	}
	value = value.Negate()
	a := p.current.A()
	p.SetA(a, value[0])
	p.SetA(a+1, value[1])
	return
}

func (p *Processor) opDLM() (err error) {
	value, err := p.getOperandDouble()
	if err != nil {
		return
	}
	if value.IsNegative() {
		value = value.Negate()
	}
	a := p.current.A()
	p.SetA(a, value[0])
	p.SetA(a+1, value[1])
	return
}

// registerSpans decodes the LRS/SRS descriptor in A(a) into the two
// register spans it names, as (first register, count) pairs. The second
// span in the word is transferred first.
func (p *Processor) registerSpans() (spans [2][2]uint) {
	desc := p.A(p.current.A())
	spans[0] = [2]uint{uint(word.Q4.Get(desc)) & 0177, uint(word.Q3.Get(desc)) & 0177}
	spans[1] = [2]uint{uint(word.Q2.Get(desc)) & 0177, uint(word.Q1.Get(desc)) & 0177}
	return
}

func (p *Processor) opLRS() (err error) {
	spans := p.registerSpans()
	total := int(spans[0][1] + spans[1][1])

	var indices []uint
	for _, span := range spans {
		for n := range span[1] {
			index := (span[0] + n) % GRS_SIZE
			if !grsWriteAllowed(index, p.DR.ProcessorPrivilege()) {
				err = NewReferenceViolation(RV_GRS, 0, false)
				return
			}
			indices = append(indices, index)
		}
	}

	if total == 0 {
		return
	}

	values, err := p.getOperandWords(total, false)
	if err != nil {
		return
	}
	for n, index := range indices {
		p.GRS.Set(index, values[n])
	}
	return
}

func (p *Processor) opLD() (err error) {
	err = p.requirePrivilege(0)
	if err != nil {
		return
	}
	value, err := p.getOperandWord()
	if err != nil {
		return
	}
	p.DR = DesignatorRegister(value.Canon())
	return
}

func (p *Processor) opLPD() (err error) {
	value, err := p.uValue()
	if err != nil {
		return
	}
	for _, pd := range programDesignators {
		p.DR.SetBit(pd.bit, word.Word(value)&pd.mask != 0)
	}
	return
}
