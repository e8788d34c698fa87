package trace

import (
	"fmt"

	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/word"
)

// EventKind identifies a trace record.
type EventKind uint8

//go:generate go tool stringer -linecomment -type=EventKind
const (
	EVENT_INSTRUCTION          = EventKind(0) // instruction
	EVENT_INTERRUPT_RAISED     = EventKind(1) // raised
	EVENT_INTERRUPT_DISPATCHED = EventKind(2) // dispatched
	EVENT_STOPPED              = EventKind(3) // stopped
)

// Event is a fixed size trace record.
//
//	EVENT_INSTRUCTION:          Code is the Op, Word the instruction.
//	EVENT_INTERRUPT_*:          Code is the class, Word status word 0,
//	                            Detail the short status.
//	EVENT_STOPPED:              Code is the stop reason, Detail the detail.
type Event struct {
	Kind   EventKind `struc:"uint8"`
	Level  uint8
	BDI    uint16
	PC     uint32
	Code   uint16
	Word   uint64
	Detail uint64
}

// PAR returns the program address the event occurred at.
func (ev *Event) PAR() processor.ProgramAddressRegister {
	return processor.ProgramAddressRegister{Level: uint(ev.Level), BDI: uint(ev.BDI), PC: ev.PC}
}

func (ev Event) String() string {
	par := ev.PAR()
	switch ev.Kind {
	case EVENT_INSTRUCTION:
		return fmt.Sprintf("%v %v %v %v", par, ev.Kind, processor.Op(ev.Code), word.Word(ev.Word))
	case EVENT_INTERRUPT_RAISED, EVENT_INTERRUPT_DISPATCHED:
		return fmt.Sprintf("%v %v %v %03o", par, ev.Kind, processor.InterruptClass(ev.Code), ev.Detail)
	case EVENT_STOPPED:
		return fmt.Sprintf("%v %v %v %012o", par, ev.Kind, processor.StopReason(ev.Code), ev.Detail)
	}
	return fmt.Sprintf("%v %v", par, ev.Kind)
}

func instructionEvent(par processor.ProgramAddressRegister, iw processor.Instruction, op processor.Op) Event {
	return Event{
		Kind:  EVENT_INSTRUCTION,
		Level: uint8(par.Level),
		BDI:   uint16(par.BDI),
		PC:    par.PC,
		Code:  uint16(op),
		Word:  uint64(iw.Word()),
	}
}

func interruptEvent(kind EventKind, par processor.ProgramAddressRegister, mi *processor.MachineInterrupt) Event {
	return Event{
		Kind:   kind,
		Level:  uint8(par.Level),
		BDI:    uint16(par.BDI),
		PC:     par.PC,
		Code:   uint16(mi.Class),
		Word:   uint64(mi.Status[0]),
		Detail: uint64(mi.ShortStatus),
	}
}

func stopEvent(par processor.ProgramAddressRegister, reason processor.StopReason, detail uint64) Event {
	return Event{
		Kind:   EVENT_STOPPED,
		Level:  uint8(par.Level),
		BDI:    uint16(par.BDI),
		PC:     par.PC,
		Code:   uint16(reason),
		Detail: detail,
	}
}
