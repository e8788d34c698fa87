package processor

import (
	"fmt"
)

// StopReason is the reason the processor last stopped.
type StopReason uint

const (
	STOP_INITIAL                               = StopReason(iota) // Never started.
	STOP_CLEARED                                                  // Cleared.
	STOP_DEBUG                                                    // HALT instruction, or a debug stop.
	STOP_DEVELOPMENT                                              // Development stop.
	STOP_BREAKPOINT                                               // Breakpoint reached.
	STOP_HALT_JUMP_EXECUTED                                       // Halt jump executed.
	STOP_ICS_BASE_REGISTER_INVALID                                // ICS base register is void or not writable.
	STOP_ICS_OVERFLOW                                             // ICS frame outside of the ICS bank.
	STOP_INITIATE_AUTO_RECOVERY                                   // Auto recovery requested.
	STOP_L0_BASE_REGISTER_INVALID                                 // Level 0 BDT base register invalid.
	STOP_PANEL_HALT                                               // Halted from the panel.
	STOP_INTERRUPT_HANDLER_HARDWARE_FAILURE                       // Double fault while handling an interrupt.
	STOP_INTERRUPT_HANDLER_OFFSET_OUT_OF_RANGE                    // Handler offset outside of the handler bank.
	STOP_INTERRUPT_HANDLER_INVALID_BANK_TYPE                      // Handler bank is not an extended mode bank.
	STOP_INTERRUPT_HANDLER_INVALID_LEVEL_BDI                      // Handler L,BDI does not name a bank.
	STOP_CANCELLED                                                // Run context cancelled.
)

var stopReasonNames = [...]string{
	STOP_INITIAL:                               "Initial",
	STOP_CLEARED:                               "Cleared",
	STOP_DEBUG:                                 "Debug",
	STOP_DEVELOPMENT:                           "Development",
	STOP_BREAKPOINT:                            "Breakpoint",
	STOP_HALT_JUMP_EXECUTED:                    "HaltJumpExecuted",
	STOP_ICS_BASE_REGISTER_INVALID:             "ICSBaseRegisterInvalid",
	STOP_ICS_OVERFLOW:                          "ICSOverflow",
	STOP_INITIATE_AUTO_RECOVERY:                "InitiateAutoRecovery",
	STOP_L0_BASE_REGISTER_INVALID:              "L0BaseRegisterInvalid",
	STOP_PANEL_HALT:                            "PanelHalt",
	STOP_INTERRUPT_HANDLER_HARDWARE_FAILURE:    "InterruptHandlerHardwareFailure",
	STOP_INTERRUPT_HANDLER_OFFSET_OUT_OF_RANGE: "InterruptHandlerOffsetOutOfRange",
	STOP_INTERRUPT_HANDLER_INVALID_BANK_TYPE:   "InterruptHandlerInvalidBankType",
	STOP_INTERRUPT_HANDLER_INVALID_LEVEL_BDI:   "InterruptHandlerInvalidLevelBDI",
	STOP_CANCELLED:                             "Cancelled",
}

func (sr StopReason) String() string {
	if int(sr) >= len(stopReasonNames) {
		return fmt.Sprintf("StopReason(%d)", uint(sr))
	}
	return stopReasonNames[sr]
}

// RunMode selects how far Run proceeds before stopping.
type RunMode uint

const (
	RUN_NORMAL             = RunMode(iota) // Run until stopped.
	RUN_SINGLE_INSTRUCTION                 // Stop after each completed instruction.
	RUN_SINGLE_CYCLE                       // Stop after each cycle.
)

var runModeNames = [...]string{
	RUN_NORMAL:             "Normal",
	RUN_SINGLE_INSTRUCTION: "SingleInstruction",
	RUN_SINGLE_CYCLE:       "SingleCycle",
}

func (rm RunMode) String() string {
	if int(rm) >= len(runModeNames) {
		return fmt.Sprintf("RunMode(%d)", uint(rm))
	}
	return runModeNames[rm]
}
