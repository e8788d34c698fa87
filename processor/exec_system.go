package processor

import (
	"github.com/ezrec/em2200/word"
)

// opHALT stops the processor with the indexed u field as the detail.
func (p *Processor) opHALT() (err error) {
	detail, err := p.uValue()
	if err != nil {
		return
	}
	err = &ErrStop{Reason: STOP_DEBUG, Detail: uint64(detail)}
	return
}

// opNOP does nothing but index.
func (p *Processor) opNOP() (err error) {
	_, err = p.uValue()
	return
}

func (p *Processor) opER() (err error) {
	value, err := p.uValue()
	if err != nil {
		return
	}
	err = NewSignal(SIGNAL_EXECUTIVE_REQUEST, word.Word(value))
	return
}

func (p *Processor) opSGNL() (err error) {
	value, err := p.uValue()
	if err != nil {
		return
	}
	err = NewSignal(SIGNAL_SGNL, word.Word(value))
	return
}

func (p *Processor) opIAR() (err error) {
	err = p.requirePrivilege(0)
	if err != nil {
		return
	}
	detail, err := p.uValue()
	if err != nil {
		return
	}
	err = &ErrStop{Reason: STOP_INITIATE_AUTO_RECOVERY, Detail: uint64(detail)}
	return
}
