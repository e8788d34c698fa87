package processor

import (
	"github.com/ezrec/em2200/word"
)

// shiftCount is the seven bit shift count from the indexed u field.
func (p *Processor) shiftCount() (count uint, err error) {
	value, err := p.uValue()
	if err != nil {
		return
	}
	count = uint(value) & 0177
	return
}

// shiftSingle shifts A(a) in place.
func (p *Processor) shiftSingle(shift func(word.Word, uint) word.Word) (err error) {
	count, err := p.shiftCount()
	if err != nil {
		return
	}
	a := p.current.A()
	p.SetA(a, shift(p.A(a), count))
	return
}

// shiftDouble shifts A(a),A(a+1) in place.
func (p *Processor) shiftDouble(shift func(word.Double, uint) word.Double) (err error) {
	count, err := p.shiftCount()
	if err != nil {
		return
	}
	a := p.current.A()
	result := shift(word.Double{p.A(a), p.A(a + 1)}, count)
	p.SetA(a, result[0])
	p.SetA(a+1, result[1])
	return
}

func (p *Processor) opSSC() error  { return p.shiftSingle(word.RightCircular) }
func (p *Processor) opDSC() error  { return p.shiftDouble(word.DoubleRightCircular) }
func (p *Processor) opSSL() error  { return p.shiftSingle(word.RightLogical) }
func (p *Processor) opDSL() error  { return p.shiftDouble(word.DoubleRightLogical) }
func (p *Processor) opSSA() error  { return p.shiftSingle(word.RightAlgebraic) }
func (p *Processor) opDSA() error  { return p.shiftDouble(word.DoubleRightAlgebraic) }
func (p *Processor) opLSSC() error { return p.shiftSingle(word.LeftCircular) }
func (p *Processor) opLDSC() error { return p.shiftDouble(word.DoubleLeftCircular) }
func (p *Processor) opLSSL() error { return p.shiftSingle(word.LeftLogical) }
func (p *Processor) opLDSL() error { return p.shiftDouble(word.DoubleLeftLogical) }

// opLSC loads the normalized operand into A(a), and the normalizing
// shift count into A(a+1).
func (p *Processor) opLSC() (err error) {
	value, err := p.getOperandWord()
	if err != nil {
		return
	}
	a := p.current.A()
	normal, count := word.Normalize(value)
	p.SetA(a, normal)
	p.SetA(a+1, word.Word(count))
	return
}

// opDLSC normalizes a double word operand into A(a),A(a+1), with the
// shift count in A(a+2).
func (p *Processor) opDLSC() (err error) {
	value, err := p.getOperandDouble()
	if err != nil {
		return
	}
	a := p.current.A()
	normal, count := word.NormalizeDouble(value)
	p.SetA(a, normal[0])
	p.SetA(a+1, normal[1])
	p.SetA(a+2, word.Word(count))
	return
}
