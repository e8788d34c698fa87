package processor

import (
	"github.com/ezrec/em2200/word"
)

// Designator register bits, numbered from 0 at the sign.
const (
	DB_ALQ_MONITOR          = 0  // Activity level queue monitor enabled.
	DB_FAULT_HANDLING       = 6  // Fault handling in progress.
	DB_EXEC_24BIT_INDEXING  = 11 // Exec 24-bit indexing enabled.
	DB_QUANTUM_TIMER        = 12 // Quantum timer enabled.
	DB_DEFERRABLE_INTERRUPT = 13 // Deferrable interrupts enabled.
	DB_PRIVILEGE            = 14 // Processor privilege, two bits.
	DB_BASIC_MODE           = 16 // Basic mode enabled.
	DB_EXEC_REGISTER_SET    = 17 // Exec register set selected.
	DB_CARRY                = 18 // Carry.
	DB_OVERFLOW             = 19 // Overflow.
	DB_CHARACTERISTIC_UNDER = 21 // Characteristic underflow.
	DB_CHARACTERISTIC_OVER  = 22 // Characteristic overflow.
	DB_DIVIDE_CHECK         = 23 // Divide check.
	DB_OPERATION_TRAP       = 27 // Operation trap enabled.
	DB_ARITHMETIC_EXCEPTION = 29 // Arithmetic exception interrupts enabled.
	DB_BASIC_MODE_BR_SELECT = 31 // Basic mode base register selection.
	DB_QUARTER_WORD_MODE    = 32 // Quarter word mode.
)

// DesignatorRegister holds the processor mode and status flags.
type DesignatorRegister word.Word

func (dr DesignatorRegister) Bit(n uint) bool {
	return word.Word(dr).Bit(n)
}

func (dr *DesignatorRegister) SetBit(n uint, on bool) {
	*dr = DesignatorRegister(word.Word(*dr).SetBit(n, on))
}

// ProcessorPrivilege returns PP, 0 being the most privileged.
func (dr DesignatorRegister) ProcessorPrivilege() uint {
	return uint(word.Word(dr)>>(35-DB_PRIVILEGE-1)) & 03
}

func (dr *DesignatorRegister) SetProcessorPrivilege(pp uint) {
	field := word.Field{Shift: 35 - DB_PRIVILEGE - 1, Width: 2}
	*dr = DesignatorRegister(field.Set(word.Word(*dr), word.Word(pp&03)))
}

func (dr DesignatorRegister) BasicMode() bool           { return dr.Bit(DB_BASIC_MODE) }
func (dr DesignatorRegister) ExecRegisterSet() bool     { return dr.Bit(DB_EXEC_REGISTER_SET) }
func (dr DesignatorRegister) Carry() bool               { return dr.Bit(DB_CARRY) }
func (dr DesignatorRegister) Overflow() bool            { return dr.Bit(DB_OVERFLOW) }
func (dr DesignatorRegister) DivideCheck() bool         { return dr.Bit(DB_DIVIDE_CHECK) }
func (dr DesignatorRegister) OperationTrap() bool       { return dr.Bit(DB_OPERATION_TRAP) }
func (dr DesignatorRegister) ArithmeticException() bool { return dr.Bit(DB_ARITHMETIC_EXCEPTION) }
func (dr DesignatorRegister) QuarterWordMode() bool     { return dr.Bit(DB_QUARTER_WORD_MODE) }
func (dr DesignatorRegister) Exec24BitIndexing() bool   { return dr.Bit(DB_EXEC_24BIT_INDEXING) }
func (dr DesignatorRegister) QuantumTimer() bool        { return dr.Bit(DB_QUANTUM_TIMER) }
func (dr DesignatorRegister) DeferrableInterrupt() bool { return dr.Bit(DB_DEFERRABLE_INTERRUPT) }
func (dr DesignatorRegister) FaultHandling() bool       { return dr.Bit(DB_FAULT_HANDLING) }
func (dr DesignatorRegister) BasicModeBRSelect() bool   { return dr.Bit(DB_BASIC_MODE_BR_SELECT) }

func (dr *DesignatorRegister) SetBasicMode(on bool)           { dr.SetBit(DB_BASIC_MODE, on) }
func (dr *DesignatorRegister) SetExecRegisterSet(on bool)     { dr.SetBit(DB_EXEC_REGISTER_SET, on) }
func (dr *DesignatorRegister) SetCarry(on bool)               { dr.SetBit(DB_CARRY, on) }
func (dr *DesignatorRegister) SetOverflow(on bool)            { dr.SetBit(DB_OVERFLOW, on) }
func (dr *DesignatorRegister) SetDivideCheck(on bool)         { dr.SetBit(DB_DIVIDE_CHECK, on) }
func (dr *DesignatorRegister) SetOperationTrap(on bool)       { dr.SetBit(DB_OPERATION_TRAP, on) }
func (dr *DesignatorRegister) SetArithmeticException(on bool) { dr.SetBit(DB_ARITHMETIC_EXCEPTION, on) }
func (dr *DesignatorRegister) SetQuarterWordMode(on bool)     { dr.SetBit(DB_QUARTER_WORD_MODE, on) }
func (dr *DesignatorRegister) SetExec24BitIndexing(on bool)   { dr.SetBit(DB_EXEC_24BIT_INDEXING, on) }
func (dr *DesignatorRegister) SetQuantumTimer(on bool)        { dr.SetBit(DB_QUANTUM_TIMER, on) }
func (dr *DesignatorRegister) SetDeferrableInterrupt(on bool) { dr.SetBit(DB_DEFERRABLE_INTERRUPT, on) }
func (dr *DesignatorRegister) SetFaultHandling(on bool)       { dr.SetBit(DB_FAULT_HANDLING, on) }
func (dr *DesignatorRegister) SetBasicModeBRSelect(on bool)   { dr.SetBit(DB_BASIC_MODE_BR_SELECT, on) }

// extended is true when the processor is in extended mode.
func (dr DesignatorRegister) extended() bool {
	return !dr.BasicMode()
}
