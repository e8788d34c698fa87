package processor

import (
	"github.com/ezrec/em2200/word"
)

// logical combines A(a) with the operand, leaving the result in A(a+1).
func (p *Processor) logical(combine func(a, u word.Word) word.Word) (err error) {
	value, err := p.getOperand()
	if err != nil {
		return
	}
	a := p.current.A()
	p.SetA(a+1, combine(p.A(a), value))
	return
}

func (p *Processor) opOR() error {
	return p.logical(func(a, u word.Word) word.Word { return a | u })
}

func (p *Processor) opXOR() error {
	return p.logical(func(a, u word.Word) word.Word { return a ^ u })
}

func (p *Processor) opAND() error {
	return p.logical(func(a, u word.Word) word.Word { return a & u })
}

// opMLU selects operand bits where R2 is set, and A(a) bits elsewhere.
func (p *Processor) opMLU() error {
	mask := p.R(2)
	return p.logical(func(a, u word.Word) word.Word { return (u & mask) | (a &^ mask) })
}
