package trace

import (
	"github.com/sirupsen/logrus"

	"github.com/ezrec/em2200/processor"
)

// LogSink logs processor events as structured log entries. Instructions
// are logged at debug level, interrupts and stops at info level.
type LogSink struct {
	Logger    logrus.FieldLogger // Destination, logrus.StandardLogger() when nil.
	Registers bool               // Include A0, X0 and R0 of the active set.
}

var _ processor.EventSink = (*LogSink)(nil)

func (sink *LogSink) logger(p *processor.Processor) logrus.FieldLogger {
	logger := sink.Logger
	if logger == nil {
		logger = logrus.StandardLogger()
	}
	return logger.WithFields(logrus.Fields{
		"ip":  p.Name,
		"upi": p.UPI,
	})
}

func (sink *LogSink) InstructionExecuted(p *processor.Processor, par processor.ProgramAddressRegister, iw processor.Instruction, op processor.Op) {
	fields := logrus.Fields{
		"par": par.String(),
		"iw":  iw.String(),
		"op":  op.String(),
		"dr":  uint64(p.DR),
	}
	if sink.Registers {
		fields["a0"] = p.A(0).String()
		fields["x0"] = p.X(0).String()
		fields["r0"] = p.R(0).String()
	}
	sink.logger(p).WithFields(fields).Debug("instruction")
}

func (sink *LogSink) InterruptRaised(p *processor.Processor, mi *processor.MachineInterrupt) {
	sink.logger(p).WithFields(logrus.Fields{
		"par":    p.PAR.String(),
		"class":  mi.Class.String(),
		"status": mi.ShortStatus,
	}).Info("interrupt raised")
}

func (sink *LogSink) InterruptDispatched(p *processor.Processor, mi *processor.MachineInterrupt) {
	sink.logger(p).WithFields(logrus.Fields{
		"par":   p.PAR.String(),
		"class": mi.Class.String(),
	}).Debug("interrupt dispatched")
}

func (sink *LogSink) Stopped(p *processor.Processor, reason processor.StopReason, detail uint64) {
	sink.logger(p).WithFields(logrus.Fields{
		"par":    p.PAR.String(),
		"reason": reason.String(),
		"detail": detail,
	}).Info("stopped")
}
