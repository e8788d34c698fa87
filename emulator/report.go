package emulator

import (
	"fmt"
	"io"

	"github.com/mgutz/ansi"

	"github.com/ezrec/em2200/processor"
)

var (
	colorNormal  = ansi.ColorCode("green+b")
	colorWarning = ansi.ColorCode("yellow+b")
	colorFailure = ansi.ColorCode("red+b")
)

// stopColor selects the colour of a stop: a HALT 0 is normal, any other
// debug stop or halt jump is a warning, and everything else a failure.
func stopColor(reason processor.StopReason, detail uint64) string {
	switch reason {
	case processor.STOP_DEBUG:
		if detail == 0 {
			return colorNormal
		}
		return colorWarning
	case processor.STOP_HALT_JUMP_EXECUTED, processor.STOP_CANCELLED:
		return colorWarning
	}
	return colorFailure
}

// Report writes the stop status of every processor, colourized when
// color is set. Verbose reports include the register state.
func (emu *Emulator) Report(w io.Writer, color bool) (err error) {
	for _, p := range emu.Processors {
		reason, detail := p.StopReason(), p.StopDetail()
		status := fmt.Sprintf("%v %012o", reason, detail)
		if color {
			status = stopColor(reason, detail) + status + ansi.Reset
		}
		_, err = fmt.Fprintf(w, "%v (upi %d): %v at %v\n", p.Name, p.UPI, status, p.PAR)
		if err != nil {
			return
		}

		mi := p.LastInterrupt()
		if mi != nil {
			_, err = fmt.Fprintf(w, "  last interrupt: %v\n", mi)
			if err != nil {
				return
			}
		}

		if emu.Verbose {
			_, err = io.WriteString(w, p.String())
			if err != nil {
				return
			}
		}
	}

	return
}
