package processor

import (
	"github.com/ezrec/em2200/word"
)

// Constants stored by the SZ through SAZ group, indexed by a.
var storeConstants = [8]word.Word{
	0,              // SZ
	word.Mask,      // SNZ
	1,              // SP1
	0777777777776,  // SN1
	0050505050505,  // SFS
	0606060606060,  // SFZ
	0040040040040,  // SAS
	0060060060060,  // SAZ
}

func (p *Processor) opSA() error {
	return p.storeOperand(p.A(p.current.A()))
}

func (p *Processor) opSNA() error {
	return p.storeOperand(p.A(p.current.A()).Negate())
}

func (p *Processor) opSMA() error {
	return p.storeOperand(p.A(p.current.A()).Magnitude())
}

func (p *Processor) opSR() error {
	return p.storeOperand(p.R(p.current.A()))
}

func (p *Processor) opSX() error {
	return p.storeOperand(p.X(p.current.A()))
}

func (p *Processor) storeConstant() error {
	return p.storeOperand(storeConstants[p.current.A()&07])
}

func (p *Processor) opSZ() error  { return p.storeConstant() }
func (p *Processor) opSNZ() error { return p.storeConstant() }
func (p *Processor) opSP1() error { return p.storeConstant() }
func (p *Processor) opSN1() error { return p.storeConstant() }
func (p *Processor) opSFS() error { return p.storeConstant() }
func (p *Processor) opSFZ() error { return p.storeConstant() }
func (p *Processor) opSAS() error { return p.storeConstant() }
func (p *Processor) opSAZ() error { return p.storeConstant() }

func (p *Processor) opDS() error {
	a := p.current.A()
	return p.storeOperandWords([]word.Word{p.A(a), p.A(a + 1)}, true)
}

func (p *Processor) opSRS() (err error) {
	var values []word.Word
	for _, span := range p.registerSpans() {
		for n := range span[1] {
			index := (span[0] + n) % GRS_SIZE
			if !grsReadAllowed(index, p.DR.ProcessorPrivilege()) {
				err = NewReferenceViolation(RV_GRS, 0, false)
				return
			}
			values = append(values, p.GRS.Get(index))
		}
	}

	if len(values) == 0 {
		return
	}
	err = p.storeOperandWords(values, false)
	return
}

func (p *Processor) opSD() error {
	return p.storeOperandWords([]word.Word{word.Word(p.DR)}, true)
}

func (p *Processor) opSPD() error {
	var value word.Word
	for _, pd := range programDesignators {
		if p.DR.Bit(pd.bit) {
			value |= pd.mask
		}
	}
	return p.storeOperandWords([]word.Word{value}, true)
}
