// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package processor

import (
	"context"
	"errors"
	"fmt"
	"log"
	"sync"

	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/word"
)

// StorageLocator finds the main storage processor owning a UPI.
type StorageLocator interface {
	LocateStorage(upi uint16) (*storage.MainStorage, error)
}

// Processor is the simulation context of one instruction processor.
type Processor struct {
	Verbose bool // Set to enable verbose logging.

	Name    string         // Node name.
	UPI     uint16         // Unique processor identifier.
	Locator StorageLocator // Main storage lookup by UPI.
	Events  EventSink      // Observer, may be nil.

	JumpHistoryInterrupt bool // Raise jump history full at the threshold.

	DR          DesignatorRegister     // Designator register.
	GRS         GeneralRegisterSet     // General register set.
	BR          [BR_COUNT]BaseRegister // Base registers B0-B31.
	ABT         ActiveBaseTable        // Bank names loaded in B1-B15.
	PAR         ProgramAddressRegister // Program address register.
	IKR         IndicatorKeyRegister   // Indicator/key register.
	Quantum     word.Word              // Quantum timer.
	JumpHistory JumpHistory            // Jump history table.

	mutex      sync.Mutex
	running    bool
	stopReason StopReason
	stopDetail uint64
	runMode    RunMode
	pending    *MachineInterrupt
	last       *MachineInterrupt

	current          Instruction
	op               Op
	preventIncrement bool
}

// NewProcessor creates a stopped processor with void base registers.
func NewProcessor(name string, upi uint16, locator StorageLocator) (p *Processor) {
	p = &Processor{
		Name:    name,
		UPI:     upi,
		Locator: locator,
	}
	p.Clear()
	p.stopReason = STOP_INITIAL

	return
}

// Clear resets the processor.
//   - Clears the registers, the active base table and the jump history.
//   - Voids every base register.
//   - Discards pending and last interrupts.
//   - Stops the processor with STOP_CLEARED.
func (p *Processor) Clear() {
	if p.Verbose {
		log.Printf("%v: clear", p.Name)
	}

	p.mutex.Lock()
	defer p.mutex.Unlock()

	p.DR = 0
	clear(p.GRS[:])
	for n := range p.BR {
		p.BR[n] = VoidBaseRegister
	}
	p.ABT = ActiveBaseTable{}
	p.PAR = ProgramAddressRegister{}
	p.IKR = 0
	p.Quantum = 0
	p.JumpHistory.Clear()

	p.running = false
	p.stopReason = STOP_CLEARED
	p.stopDetail = 0
	p.pending = nil
	p.last = nil
	p.current = 0
	p.op = OP_INVALID
	p.preventIncrement = false
}

// String returns the processor state as a string.
func (p *Processor) String() (text string) {
	regs := []string{"par", "dr", "ikr", "stop"}
	for _, reg := range regs {
		var strval string
		switch reg {
		case "par":
			strval = p.PAR.String()
		case "dr":
			strval = word.Word(p.DR).String()
		case "ikr":
			strval = word.Word(p.IKR).String()
		case "stop":
			strval = fmt.Sprintf("%v %012o", p.StopReason(), p.StopDetail())
		}
		text += fmt.Sprintf("% 5s: %v\n", reg, strval)
	}
	for n, br := range p.BR {
		if br.IsVoid() {
			continue
		}
		text += fmt.Sprintf("% 5s: %v\n", fmt.Sprintf("b%d", n), br)
	}
	text += p.GRS.String()

	return
}

// Running is true while the processor is started.
func (p *Processor) Running() bool {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.running
}

// StopReason returns the reason the processor last stopped.
func (p *Processor) StopReason() StopReason {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.stopReason
}

// StopDetail returns the detail word of the last stop.
func (p *Processor) StopDetail() uint64 {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.stopDetail
}

// LastInterrupt returns the interrupt most recently dispatched.
func (p *Processor) LastInterrupt() *MachineInterrupt {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.last
}

// PendingInterrupt returns the interrupt waiting for dispatch.
func (p *Processor) PendingInterrupt() *MachineInterrupt {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.pending
}

func (p *Processor) RunMode() RunMode {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	return p.runMode
}

func (p *Processor) SetRunMode(mode RunMode) {
	p.mutex.Lock()
	defer p.mutex.Unlock()
	p.runMode = mode
}

// Start marks the processor as running.
func (p *Processor) Start() (err error) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.running {
		err = ErrRunning
		return
	}
	if p.Locator == nil {
		err = ErrStorageMissing
		return
	}

	if p.Verbose {
		log.Printf("%v: start at %v", p.Name, p.PAR)
	}
	p.running = true
	return
}

// Stop stops a running processor. Safe to call from any goroutine; the
// processor notices between cycles.
func (p *Processor) Stop(reason StopReason, detail uint64) {
	p.mutex.Lock()
	if !p.running {
		p.mutex.Unlock()
		return
	}
	p.running = false
	p.stopReason = reason
	p.stopDetail = detail
	p.mutex.Unlock()

	if p.Verbose {
		log.Printf("%v: stop %v detail %012o at %v", p.Name, reason, detail, p.PAR)
	}
	if p.Events != nil {
		p.Events.Stopped(p, reason, detail)
	}
}

// RaiseInterrupt posts an interrupt. A pending interrupt of higher
// priority, that is a lower class code, is kept in preference.
func (p *Processor) RaiseInterrupt(mi *MachineInterrupt) {
	p.mutex.Lock()
	if p.pending == nil || mi.Class < p.pending.Class {
		p.pending = mi
	}
	p.mutex.Unlock()

	if p.Verbose {
		log.Printf("%v: raise %v", p.Name, mi)
	}
	if p.Events != nil {
		p.Events.InterruptRaised(p, mi)
	}
}

// takePending removes the pending interrupt, unless it is deferrable
// and deferrable interrupts are disabled.
func (p *Processor) takePending() (mi *MachineInterrupt) {
	p.mutex.Lock()
	defer p.mutex.Unlock()

	if p.pending == nil {
		return
	}
	if p.pending.Deferrable() && !p.DR.DeferrableInterrupt() {
		return
	}
	mi = p.pending
	p.pending = nil
	return
}

// Cycle executes a single processor cycle:
//   - dispatches a pending interrupt, or
//   - fetches the next instruction into F0, or
//   - executes the instruction in F0.
//
// A stop, including a HALT, is returned as an *ErrStop.
func (p *Processor) Cycle() (err error) {
	if !p.Running() {
		err = ErrNotRunning
		return
	}

	mi := p.takePending()
	if mi != nil {
		err = p.dispatch(mi)
		return
	}

	if !p.IKR.InstructionInF0() {
		err = p.fetch()
		if errors.As(err, &mi) {
			p.RaiseInterrupt(mi)
			err = nil
		}
		return
	}

	err = p.execute()
	return
}

// Step runs cycles until an instruction completes, an interrupt is
// dispatched, or the processor stops.
func (p *Processor) Step() (err error) {
	for {
		dispatching := p.PendingInterrupt() != nil
		err = p.Cycle()
		if err != nil {
			return
		}
		if dispatching && p.PendingInterrupt() == nil {
			return
		}
		if !p.IKR.InstructionInF0() {
			return
		}
	}
}

// Run starts the processor, and runs until it stops or the context is
// cancelled.
func (p *Processor) Run(ctx context.Context) (err error) {
	err = p.Start()
	if err != nil {
		return
	}

	for {
		select {
		case <-ctx.Done():
			p.Stop(STOP_CANCELLED, 0)
			err = ctx.Err()
			return
		default:
		}

		switch p.RunMode() {
		case RUN_SINGLE_CYCLE:
			err = p.Cycle()
			if err == nil {
				p.Stop(STOP_DEBUG, 0)
			}
		case RUN_SINGLE_INSTRUCTION:
			err = p.Step()
			if err == nil {
				p.Stop(STOP_DEBUG, 0)
			}
		default:
			err = p.Cycle()
		}

		if errors.Is(err, ErrNotRunning) {
			err = &ErrStop{Reason: p.StopReason(), Detail: p.StopDetail()}
		}
		if err != nil {
			return
		}
	}
}

// fetch reads the instruction at the PAR into F0.
func (p *Processor) fetch() (err error) {
	pc := p.PAR.PC
	basic := p.DR.BasicMode()

	brIndex := uint(BR_CODE)
	if basic {
		brIndex, err = p.basicBank(pc, true)
		if err != nil {
			return
		}
	} else {
		br := &p.BR[brIndex]
		if br.Large || !br.Contains(pc) {
			err = NewReferenceViolation(RV_STORAGE_LIMITS, brIndex, true)
			return
		}
	}

	br := &p.BR[brIndex]
	perms := br.EffectivePermissions(p.IKR.AccessKey())
	if !perms.Enter {
		err = NewReferenceViolation(RV_EXECUTE_ACCESS, brIndex, true)
		return
	}
	if basic && !perms.Read {
		err = NewReferenceViolation(RV_READ_ACCESS, brIndex, true)
		return
	}

	value, err := p.readAbsolute(br.Absolute(pc))
	if err != nil {
		return
	}

	p.current = Instruction(value)
	p.IKR.SetInstructionInF0(true)
	return
}

// execute runs the instruction in F0.
func (p *Processor) execute() (err error) {
	par := p.PAR
	iw := p.current
	op := Decode(iw, p.DR.BasicMode())

	p.op = op
	p.preventIncrement = false

	if p.Verbose {
		log.Printf("%v: %v: %v %v", p.Name, par, iw, op)
	}

	handler := opHandlers[op]
	if handler == nil {
		err = NewInvalidInstruction(II_UNDEFINED_FUNCTION_CODE)
	} else {
		err = handler(p)
	}

	var mi *MachineInterrupt
	var stop *ErrStop
	switch {
	case err == nil:
		p.complete()
	case errors.As(err, &stop):
		p.complete()
		p.Stop(stop.Reason, stop.Detail)
	case errors.As(err, &mi):
		if mi.completesInstruction() {
			p.complete()
		} else {
			p.IKR.SetInstructionInF0(false)
		}
		p.RaiseInterrupt(mi)
		err = nil
	default:
		p.IKR.SetInstructionInF0(false)
		err = errors.Join(&ErrInstruction{PAR: par, Instruction: iw}, err)
	}

	if p.Events != nil {
		p.Events.InstructionExecuted(p, par, iw, op)
	}

	if p.DR.QuantumTimer() {
		p.Quantum = word.AddSimple(p.Quantum, word.FromInt(-1))
		if p.Quantum.IsNegative() {
			p.RaiseInterrupt(NewQuantumTimer())
		}
	}

	return
}

// complete retires the instruction in F0, advancing the PAR unless the
// instruction jumped.
func (p *Processor) complete() {
	p.IKR.SetInstructionInF0(false)
	if !p.preventIncrement {
		p.PAR.PC = (p.PAR.PC + 1) & 0777777
	}
}

// skip skips the next instruction.
func (p *Processor) skip() {
	p.PAR.PC = (p.PAR.PC + 1) & 0777777
}

// jump transfers control within the current code bank, recording the
// jump in the jump history.
func (p *Processor) jump(target uint32) {
	if p.JumpHistory.Add(p.PAR.Word()) && p.JumpHistoryInterrupt {
		p.RaiseInterrupt(NewJumpHistoryFull())
	}
	p.PAR.PC = target & 0777777
	p.preventIncrement = true
}

// storageFor returns the storage processor holding an address.
// An unknown UPI is a configuration error, and panics.
func (p *Processor) storageFor(addr storage.AbsoluteAddress) *storage.MainStorage {
	ms, err := p.Locator.LocateStorage(addr.UPI)
	if err != nil {
		panic(fmt.Sprintf("%v: %v", p.Name, err))
	}
	return ms
}

// readAbsolute reads storage, reporting failures as a hardware check.
func (p *Processor) readAbsolute(addr storage.AbsoluteAddress) (value word.Word, err error) {
	value, err = p.storageFor(addr).Read(addr)
	if err != nil {
		err = errors.Join(NewHardwareCheck(), err)
	}
	return
}

// writeAbsolute writes storage, reporting failures as a hardware check.
func (p *Processor) writeAbsolute(addr storage.AbsoluteAddress, value word.Word) (err error) {
	err = p.storageFor(addr).Write(addr, value)
	if err != nil {
		err = errors.Join(NewHardwareCheck(), err)
	}
	return
}
