package processor

import (
	"fmt"
	"strings"

	"github.com/ezrec/em2200/word"
)

// General register set indices.
const (
	GRS_X0   = 000  // User index registers X0-X15.
	GRS_A0   = 014  // User accumulators A0-A15, overlapping X12-X15.
	GRS_UR0  = 034  // User registers UR0-UR3.
	GRS_R0   = 0100 // User R registers R0-R15.
	GRS_ER0  = 0120 // Exec R registers ER0-ER15.
	GRS_EX0  = 0140 // Exec index registers EX0-EX15.
	GRS_EA0  = 0154 // Exec accumulators EA0-EA15, overlapping EX12-EX15.
	GRS_SIZE = 0200 // Number of registers.

	GRS_R1 = GRS_R0 + 1 // Repeat count for shift and search instructions.
	GRS_R2 = GRS_R0 + 2 // Bit mask register.
)

var grsNames = func() (names [GRS_SIZE]string) {
	for n := range names {
		names[n] = fmt.Sprintf("0%o", n)
	}
	for n := range 12 {
		names[GRS_X0+n] = fmt.Sprintf("X%d", n)
		names[GRS_EX0+n] = fmt.Sprintf("EX%d", n)
	}
	for n := range 16 {
		names[GRS_A0+n] = fmt.Sprintf("A%d", n)
		names[GRS_EA0+n] = fmt.Sprintf("EA%d", n)
		names[GRS_R0+n] = fmt.Sprintf("R%d", n)
		names[GRS_ER0+n] = fmt.Sprintf("ER%d", n)
	}
	for n := range 4 {
		names[GRS_UR0+n] = fmt.Sprintf("UR%d", n)
	}
	return
}()

// RegisterName returns the conventional name of a register index.
func RegisterName(index uint) string {
	if index >= GRS_SIZE {
		return fmt.Sprintf("0%o", index)
	}
	return grsNames[index]
}

// RegisterIndex returns the register index for a conventional name.
func RegisterIndex(name string) (index uint, ok bool) {
	name = strings.ToUpper(name)
	for n, reg := range grsNames {
		if reg == name {
			return uint(n), true
		}
	}
	return
}

// GeneralRegisterSet holds the 128 general registers. Exec and user aliases
// are selected by index; the set itself holds exactly one cell per register.
type GeneralRegisterSet [GRS_SIZE]word.Word

// Get returns a register.
func (grs *GeneralRegisterSet) Get(index uint) word.Word {
	return grs[index%GRS_SIZE]
}

// Set stores a register, masked to 36 bits.
func (grs *GeneralRegisterSet) Set(index uint, value word.Word) {
	grs[index%GRS_SIZE] = value.Canon()
}

// grsReadAllowed checks register read access at a processor privilege.
func grsReadAllowed(index uint, pp uint) bool {
	switch {
	case index < 040:
		return true
	case index < 0100:
		return false
	case index < 0120:
		return true
	}
	return pp <= 2
}

// grsWriteAllowed checks register write access at a processor privilege.
func grsWriteAllowed(index uint, pp uint) bool {
	switch {
	case index < 040:
		return true
	case index < 0100:
		return false
	case index < 0120:
		return true
	}
	return pp == 0
}

// String dumps the register set, eight registers to a line.
func (grs *GeneralRegisterSet) String() string {
	var sb strings.Builder
	for row := 0; row < GRS_SIZE; row += 8 {
		fmt.Fprintf(&sb, "% 5s:", grsNames[row])
		for col := range 8 {
			fmt.Fprintf(&sb, " %v", grs[row+col])
		}
		sb.WriteString("\n")
	}
	return sb.String()
}
