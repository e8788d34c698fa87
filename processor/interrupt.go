package processor

import (
	"fmt"

	"github.com/ezrec/em2200/word"
)

// InterruptClass is the interrupt class, which also indexes the interrupt
// vector table. Lower codes take priority.
type InterruptClass uint

const (
	CLASS_HARDWARE_DEFAULT       = InterruptClass(000) // Hardware default
	CLASS_HARDWARE_CHECK         = InterruptClass(001) // Hardware check
	CLASS_DIAGNOSTIC             = InterruptClass(002) // Diagnostic
	CLASS_REFERENCE_VIOLATION    = InterruptClass(010) // Reference violation
	CLASS_ADDRESSING_EXCEPTION   = InterruptClass(011) // Addressing exception
	CLASS_TERMINAL_ADDRESSING    = InterruptClass(012) // Terminal addressing exception
	CLASS_RCS_GENERIC_STACK      = InterruptClass(013) // RCS/generic stack underflow/overflow
	CLASS_SIGNAL                 = InterruptClass(014) // Signal
	CLASS_TEST_AND_SET           = InterruptClass(015) // Test and set
	CLASS_INVALID_INSTRUCTION    = InterruptClass(016) // Invalid instruction
	CLASS_PAGE_EXCEPTION         = InterruptClass(017) // Page exception
	CLASS_ARITHMETIC_EXCEPTION   = InterruptClass(020) // Arithmetic exception
	CLASS_DATA_EXCEPTION         = InterruptClass(021) // Data exception
	CLASS_OPERATION_TRAP         = InterruptClass(022) // Operation trap
	CLASS_BREAKPOINT             = InterruptClass(023) // Breakpoint
	CLASS_QUANTUM_TIMER          = InterruptClass(024) // Quantum timer
	CLASS_PAGES_ZEROED           = InterruptClass(027) // Page(s) zeroed
	CLASS_SOFTWARE_BREAK         = InterruptClass(030) // Software break
	CLASS_JUMP_HISTORY_FULL      = InterruptClass(031) // Jump history full
	CLASS_DAYCLOCK               = InterruptClass(033) // Dayclock
	CLASS_PERFORMANCE_MONITORING = InterruptClass(034) // Performance monitoring
	CLASS_IPL                    = InterruptClass(035) // Initial program load
	CLASS_UPI_INITIAL            = InterruptClass(036) // UPI initial
	CLASS_UPI_NORMAL             = InterruptClass(037) // UPI normal
	CLASS_COUNT                  = InterruptClass(064) // Number of interrupt vectors
)

var interruptClassNames = map[InterruptClass]string{
	CLASS_HARDWARE_DEFAULT:       "Hardware default",
	CLASS_HARDWARE_CHECK:         "Hardware check",
	CLASS_DIAGNOSTIC:             "Diagnostic",
	CLASS_REFERENCE_VIOLATION:    "Reference violation",
	CLASS_ADDRESSING_EXCEPTION:   "Addressing exception",
	CLASS_TERMINAL_ADDRESSING:    "Terminal addressing exception",
	CLASS_RCS_GENERIC_STACK:      "RCS/generic stack underflow/overflow",
	CLASS_SIGNAL:                 "Signal",
	CLASS_TEST_AND_SET:           "Test and set",
	CLASS_INVALID_INSTRUCTION:    "Invalid instruction",
	CLASS_PAGE_EXCEPTION:         "Page exception",
	CLASS_ARITHMETIC_EXCEPTION:   "Arithmetic exception",
	CLASS_DATA_EXCEPTION:         "Data exception",
	CLASS_OPERATION_TRAP:         "Operation trap",
	CLASS_BREAKPOINT:             "Breakpoint",
	CLASS_QUANTUM_TIMER:          "Quantum timer",
	CLASS_PAGES_ZEROED:           "Page(s) zeroed",
	CLASS_SOFTWARE_BREAK:         "Software break",
	CLASS_JUMP_HISTORY_FULL:      "Jump history full",
	CLASS_DAYCLOCK:               "Dayclock",
	CLASS_PERFORMANCE_MONITORING: "Performance monitoring",
	CLASS_IPL:                    "Initial program load",
	CLASS_UPI_INITIAL:            "UPI initial",
	CLASS_UPI_NORMAL:             "UPI normal",
}

func (ic InterruptClass) String() string {
	name, ok := interruptClassNames[ic]
	if !ok {
		return fmt.Sprintf("InterruptClass(%03o)", uint(ic))
	}
	return name
}

// Deferrable interrupts are held pending while deferrable interrupts are
// disabled in the designator register.
func (ic InterruptClass) Deferrable() bool {
	switch ic {
	case CLASS_QUANTUM_TIMER, CLASS_PAGES_ZEROED, CLASS_SOFTWARE_BREAK,
		CLASS_JUMP_HISTORY_FULL, CLASS_DAYCLOCK, CLASS_PERFORMANCE_MONITORING,
		CLASS_UPI_NORMAL:
		return true
	}
	return false
}

// Reference violation types, in bits 0-2 of the short status field.
type ReferenceViolationType uint

const (
	RV_GRS             = ReferenceViolationType(0) // GRS access.
	RV_STORAGE_LIMITS  = ReferenceViolationType(1) // Void bank, or outside of the limits.
	RV_READ_ACCESS     = ReferenceViolationType(2) // Read permission denied.
	RV_WRITE_ACCESS    = ReferenceViolationType(3) // Write permission denied.
	RV_EXECUTE_ACCESS  = ReferenceViolationType(4) // Execute permission denied.
	rvFetchBit         = 040
	rvBaseRegisterMask = 037
)

// Addressing exception reasons.
type AddressingExceptionReason uint

const (
	AE_FATAL                    = AddressingExceptionReason(000) // Fatal addressing exception.
	AE_GBIT_SET_GATE            = AddressingExceptionReason(001) // General fault set on a gate.
	AE_ENTER_ACCESS_DENIED      = AddressingExceptionReason(002) // Enter access denied.
	AE_INVALID_SOURCE_LEVEL_BDI = AddressingExceptionReason(003) // Source L,BDI invalid.
	AE_GATE_BANK_BOUNDARY       = AddressingExceptionReason(004) // Gate offset out of the gate bank.
	AE_BD_TYPE_INVALID          = AddressingExceptionReason(010) // Bank descriptor type invalid.
	AE_GBIT_SET_INDIRECT        = AddressingExceptionReason(011) // General fault set on an indirect bank.
	AE_INDIRECT_LIMIT           = AddressingExceptionReason(012) // Indirect addressing chain too long.
)

// Invalid instruction reasons.
type InvalidInstructionReason uint

const (
	II_UNDEFINED_FUNCTION_CODE     = InvalidInstructionReason(0) // Undefined function code.
	II_INVALID_PROCESSOR_PRIVILEGE = InvalidInstructionReason(1) // Processor privilege too low.
	II_INVALID_BASE_REGISTER       = InvalidInstructionReason(2) // Base register not permitted.
	II_INVALID_TARGET              = InvalidInstructionReason(3) // Jump target not permitted.
)

// Arithmetic exception reasons.
type ArithmeticExceptionReason uint

const (
	AX_CHARACTERISTIC_OVERFLOW  = ArithmeticExceptionReason(0) // Characteristic overflow.
	AX_CHARACTERISTIC_UNDERFLOW = ArithmeticExceptionReason(1) // Characteristic underflow.
	AX_DIVIDE_CHECK             = ArithmeticExceptionReason(2) // Divide check.
)

// Operation trap reasons.
type OperationTrapReason uint

const (
	OT_FIXED_POINT_BINARY_OVERFLOW = OperationTrapReason(1) // Fixed point binary integer overflow.
	OT_MULTIPLY_SINGLE_OVERFLOW    = OperationTrapReason(2) // Multiply single integer overflow.
)

// Signal reasons.
type SignalReason uint

const (
	SIGNAL_SGNL              = SignalReason(0) // Signal instruction.
	SIGNAL_EXECUTIVE_REQUEST = SignalReason(1) // Executive request instruction.
)

// MachineInterrupt is an architectural interrupt. It aborts the current
// instruction and is dispatched through the interrupt vector for its class.
type MachineInterrupt struct {
	Class       InterruptClass // Interrupt class.
	ShortStatus uint           // Nine bit short status field.
	Status      [2]word.Word   // Interrupt status words 0 and 1.
}

var _ error = (*MachineInterrupt)(nil)

func (mi *MachineInterrupt) Error() string {
	return f("interrupt %03o (%v) ssf %03o", uint(mi.Class), mi.Class, mi.ShortStatus)
}

// Is matches another interrupt of the same class and short status.
func (mi *MachineInterrupt) Is(target error) bool {
	other, ok := target.(*MachineInterrupt)
	return ok && other.Class == mi.Class && other.ShortStatus == mi.ShortStatus
}

func (mi *MachineInterrupt) Deferrable() bool {
	return mi.Class.Deferrable()
}

// completesInstruction is true for interrupts taken after the raising
// instruction has completed, rather than aborting it.
func (mi *MachineInterrupt) completesInstruction() bool {
	switch mi.Class {
	case CLASS_SIGNAL, CLASS_OPERATION_TRAP:
		return true
	}
	return false
}

// ReferenceViolation decodes the short status of a reference violation.
func (mi *MachineInterrupt) ReferenceViolation() (kind ReferenceViolationType, brIndex uint, fetch bool) {
	kind = ReferenceViolationType(mi.ShortStatus >> 6)
	brIndex = mi.ShortStatus & rvBaseRegisterMask
	fetch = mi.ShortStatus&rvFetchBit != 0
	return
}

// NewReferenceViolation builds a reference violation naming the base
// register through which the reference failed.
func NewReferenceViolation(kind ReferenceViolationType, brIndex uint, fetch bool) *MachineInterrupt {
	ssf := uint(kind&07)<<6 | brIndex&rvBaseRegisterMask
	if fetch {
		ssf |= rvFetchBit
	}
	return &MachineInterrupt{Class: CLASS_REFERENCE_VIOLATION, ShortStatus: ssf}
}

// NewAddressingException builds an addressing exception for a bank name.
func NewAddressingException(reason AddressingExceptionReason, level, bdi uint) *MachineInterrupt {
	mi := &MachineInterrupt{Class: CLASS_ADDRESSING_EXCEPTION, ShortStatus: uint(reason)}
	mi.Status[1] = word.H1.Set(0, joinLBDI(level, bdi))
	return mi
}

func NewInvalidInstruction(reason InvalidInstructionReason) *MachineInterrupt {
	return &MachineInterrupt{Class: CLASS_INVALID_INSTRUCTION, ShortStatus: uint(reason)}
}

func NewArithmeticException(reason ArithmeticExceptionReason) *MachineInterrupt {
	return &MachineInterrupt{Class: CLASS_ARITHMETIC_EXCEPTION, ShortStatus: uint(reason)}
}

func NewOperationTrap(reason OperationTrapReason) *MachineInterrupt {
	return &MachineInterrupt{Class: CLASS_OPERATION_TRAP, ShortStatus: uint(reason)}
}

// NewSignal builds a signal interrupt carrying the instruction's operand.
func NewSignal(reason SignalReason, operand word.Word) *MachineInterrupt {
	mi := &MachineInterrupt{Class: CLASS_SIGNAL, ShortStatus: uint(reason)}
	mi.Status[0] = operand.Canon()
	return mi
}

// NewTestAndSet builds a test and set interrupt naming the locked word.
func NewTestAndSet(brIndex uint, relative uint32) *MachineInterrupt {
	mi := &MachineInterrupt{Class: CLASS_TEST_AND_SET}
	mi.Status[1] = word.Word(brIndex&037)<<18 | word.Word(relative)&0777777
	return mi
}

func NewHardwareCheck() *MachineInterrupt {
	return &MachineInterrupt{Class: CLASS_HARDWARE_CHECK}
}

func NewBreakpoint() *MachineInterrupt {
	return &MachineInterrupt{Class: CLASS_BREAKPOINT}
}

func NewQuantumTimer() *MachineInterrupt {
	return &MachineInterrupt{Class: CLASS_QUANTUM_TIMER}
}

func NewSoftwareBreak() *MachineInterrupt {
	return &MachineInterrupt{Class: CLASS_SOFTWARE_BREAK}
}

func NewJumpHistoryFull() *MachineInterrupt {
	return &MachineInterrupt{Class: CLASS_JUMP_HISTORY_FULL}
}
