// Package processor implements the instruction processor of a 36-bit
// ones'-complement mainframe.
//
// The processor owns a designator register, a 128 word general register
// set, thirty-two base registers, an active base table, and a program
// address register. It fetches, decodes, and executes instructions against
// main storage found through a StorageLocator, resolving operand
// addresses in basic or extended mode and enforcing ring/domain access
// control.
//
// Architectural faults are MachineInterrupt values. A fault aborts the
// current instruction, and the following cycle dispatches it through the
// interrupt vector table and the interrupt control stack.
package processor
