package processor

import (
	"errors"
	"log"

	"github.com/ezrec/em2200/word"
)

const (
	ICS_FRAME_SIZE = 6           // Words pushed on the interrupt control stack.
	ICS_POINTER    = GRS_EX0 + 1 // EX1, the interrupt control stack pointer.
)

// halt stops the processor during dispatch.
func (p *Processor) halt(reason StopReason, detail uint64) error {
	p.Stop(reason, detail)
	return &ErrStop{Reason: reason, Detail: detail}
}

// dispatch enters the handler of an interrupt.
//   - Saves PAR, DR, IKR, quantum and the status words on the ICS.
//   - Reads the handler's bank name and offset from the vector for the
//     class, in the level 0 bank descriptor table bank.
//   - Bases the handler bank on B0, and enters it at PP 0 in extended
//     mode with the exec register set.
func (p *Processor) dispatch(mi *MachineInterrupt) (err error) {
	if p.Verbose {
		log.Printf("%v: dispatch %v at %v", p.Name, mi, p.PAR)
	}

	detail := uint64(mi.Class)

	p.mutex.Lock()
	p.last = mi
	p.mutex.Unlock()

	p.IKR.SetShortStatus(mi.ShortStatus)
	p.IKR.SetInterruptClass(mi.Class)

	frame := [ICS_FRAME_SIZE]word.Word{
		p.PAR.Word(),
		word.Word(p.DR),
		word.Word(p.IKR),
		p.Quantum,
		mi.Status[0],
		mi.Status[1],
	}

	ics := &p.BR[BR_ICS]
	if ics.IsVoid() || !ics.EffectivePermissions(AccessLock{}).Write {
		return p.halt(STOP_ICS_BASE_REGISTER_INVALID, detail)
	}

	xr := IndexRegister(p.GRS.Get(ICS_POINTER))
	size := uint32(xr.XI())
	if size < ICS_FRAME_SIZE {
		return p.halt(STOP_ICS_OVERFLOW, detail)
	}
	xr = xr.Decrement18()
	top := uint32(xr.XM())
	if !ics.Contains(top) || !ics.Contains(top+size-1) {
		return p.halt(STOP_ICS_OVERFLOW, detail)
	}

	addr := ics.Absolute(top)
	err = p.storageFor(addr).WriteBlock(addr, frame[:])
	if err != nil {
		return p.halt(STOP_INTERRUPT_HANDLER_HARDWARE_FAILURE, detail)
	}
	p.GRS.Set(ICS_POINTER, word.Word(xr))

	vectors := &p.BR[BR_LEVEL0_BDT]
	if !vectors.Contains(uint32(mi.Class)) {
		return p.halt(STOP_L0_BASE_REGISTER_INVALID, detail)
	}
	vector, err := p.readAbsolute(vectors.Absolute(uint32(mi.Class)))
	if err != nil {
		return p.halt(STOP_INTERRUPT_HANDLER_HARDWARE_FAILURE, detail)
	}

	level, bdi := splitLBDI(word.H1.Get(vector))
	offset := uint32(word.H2.Get(vector))
	if voidBankName(level, bdi) {
		return p.halt(STOP_INTERRUPT_HANDLER_INVALID_LEVEL_BDI, detail)
	}

	bd, err := p.bankDescriptor(level, bdi)
	if err != nil {
		var fault *MachineInterrupt
		if errors.As(err, &fault) && fault.Class == CLASS_ADDRESSING_EXCEPTION {
			return p.halt(STOP_INTERRUPT_HANDLER_INVALID_LEVEL_BDI, detail)
		}
		return p.halt(STOP_INTERRUPT_HANDLER_HARDWARE_FAILURE, detail)
	}
	if bd.Type() != BANK_EXTENDED {
		return p.halt(STOP_INTERRUPT_HANDLER_INVALID_BANK_TYPE, detail)
	}

	handler := NewBaseRegister(bd)
	if !handler.Contains(offset) {
		return p.halt(STOP_INTERRUPT_HANDLER_OFFSET_OUT_OF_RANGE, detail)
	}

	p.DR = 0
	p.DR.SetExecRegisterSet(true)
	p.DR.SetArithmeticException(true)
	p.DR.SetProcessorPrivilege(0)
	p.DR.SetBasicMode(false)

	p.IKR.SetAccessKey(AccessLock{})
	p.IKR.SetInstructionInF0(false)

	p.BR[BR_CODE] = handler
	p.PAR = ProgramAddressRegister{Level: level, BDI: bdi, PC: offset}

	if p.Events != nil {
		p.Events.InterruptDispatched(p, mi)
	}

	err = nil
	return
}
