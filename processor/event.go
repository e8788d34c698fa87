package processor

// EventSink observes a processor. Every method is called from the
// goroutine running the processor, so a sink may inspect its registers.
type EventSink interface {
	// InstructionExecuted is called after an instruction completes or is
	// aborted by an interrupt.
	InstructionExecuted(p *Processor, par ProgramAddressRegister, iw Instruction, op Op)
	// InterruptRaised is called when an interrupt is posted.
	InterruptRaised(p *Processor, mi *MachineInterrupt)
	// InterruptDispatched is called once the handler has been entered.
	InterruptDispatched(p *Processor, mi *MachineInterrupt)
	// Stopped is called when the processor stops.
	Stopped(p *Processor, reason StopReason, detail uint64)
}

// EventSinks fans events out to several sinks.
type EventSinks []EventSink

var _ EventSink = EventSinks(nil)

func (sinks EventSinks) InstructionExecuted(p *Processor, par ProgramAddressRegister, iw Instruction, op Op) {
	for _, sink := range sinks {
		sink.InstructionExecuted(p, par, iw, op)
	}
}

func (sinks EventSinks) InterruptRaised(p *Processor, mi *MachineInterrupt) {
	for _, sink := range sinks {
		sink.InterruptRaised(p, mi)
	}
}

func (sinks EventSinks) InterruptDispatched(p *Processor, mi *MachineInterrupt) {
	for _, sink := range sinks {
		sink.InterruptDispatched(p, mi)
	}
}

func (sinks EventSinks) Stopped(p *Processor, reason StopReason, detail uint64) {
	for _, sink := range sinks {
		sink.Stopped(p, reason, detail)
	}
}
