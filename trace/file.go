package trace

import (
	"io"
	"strings"
	"sync"

	"github.com/golang/snappy"
	"github.com/lunixbochs/struc"
	"github.com/pkg/errors"

	"github.com/ezrec/em2200/processor"
)

const (
	TRACE_MAGIC   = "A22T" // Trace file magic.
	TRACE_VERSION = 1      // Trace file version.
)

// TraceHeader is the uncompressed header of a trace file.
type TraceHeader struct {
	Magic   string `struc:"[4]byte"`
	Version uint32
	UPI     uint16
	// Processor name, right null padded.
	Name string `struc:"[32]byte"`
}

// FileSink records processor events to a trace file: a TraceHeader
// followed by a snappy stream of Events.
type FileSink struct {
	mutex  sync.Mutex
	w      io.WriteCloser
	zw     *snappy.Writer
	err    error
	closed bool
	Count  int // Events written.
}

var _ processor.EventSink = (*FileSink)(nil)

// NewFileSink writes the trace header for a processor, and returns the sink.
func NewFileSink(w io.WriteCloser, p *processor.Processor) (sink *FileSink, err error) {
	header := &TraceHeader{
		Magic:   TRACE_MAGIC,
		Version: TRACE_VERSION,
		UPI:     p.UPI,
		Name:    p.Name,
	}
	err = struc.Pack(w, header)
	if err != nil {
		err = errors.Wrap(err, "failed to pack trace header")
		return
	}

	sink = &FileSink{w: w, zw: snappy.NewBufferedWriter(w)}
	return
}

func (sink *FileSink) pack(ev Event) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	if sink.err != nil {
		return
	}
	if sink.closed {
		sink.err = ErrClosed
		return
	}

	err := struc.Pack(sink.zw, &ev)
	if err != nil {
		sink.err = errors.Wrap(err, "failed to pack trace event")
		return
	}
	sink.Count++
}

// Err returns the first error writing the trace.
func (sink *FileSink) Err() error {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	return sink.err
}

// Close flushes the trace, and closes the underlying writer.
func (sink *FileSink) Close() (err error) {
	sink.mutex.Lock()
	defer sink.mutex.Unlock()

	if sink.closed {
		return sink.err
	}
	sink.closed = true

	err = sink.zw.Close()
	if err != nil {
		err = errors.Wrap(err, "failed to flush trace")
	}
	cerr := sink.w.Close()
	if err == nil {
		err = cerr
	}
	if sink.err == nil {
		sink.err = err
	}
	return sink.err
}

func (sink *FileSink) InstructionExecuted(p *processor.Processor, par processor.ProgramAddressRegister, iw processor.Instruction, op processor.Op) {
	sink.pack(instructionEvent(par, iw, op))
}

func (sink *FileSink) InterruptRaised(p *processor.Processor, mi *processor.MachineInterrupt) {
	sink.pack(interruptEvent(EVENT_INTERRUPT_RAISED, p.PAR, mi))
}

func (sink *FileSink) InterruptDispatched(p *processor.Processor, mi *processor.MachineInterrupt) {
	sink.pack(interruptEvent(EVENT_INTERRUPT_DISPATCHED, p.PAR, mi))
}

func (sink *FileSink) Stopped(p *processor.Processor, reason processor.StopReason, detail uint64) {
	sink.pack(stopEvent(p.PAR, reason, detail))
}

// Reader reads back a trace file.
type Reader struct {
	r      io.ReadCloser
	zr     *snappy.Reader
	Header TraceHeader
}

// NewReader reads the trace header.
func NewReader(r io.ReadCloser) (tr *Reader, err error) {
	tr = &Reader{r: r}
	err = struc.Unpack(r, &tr.Header)
	if err != nil {
		err = errors.Wrap(err, "failed to unpack trace header")
		tr = nil
		return
	}
	if tr.Header.Magic != TRACE_MAGIC {
		err = ErrMagic
		tr = nil
		return
	}
	if tr.Header.Version != TRACE_VERSION {
		err = ErrVersion
		tr = nil
		return
	}
	tr.Header.Name = strings.TrimRight(tr.Header.Name, "\x00")
	tr.zr = snappy.NewReader(r)
	return
}

// Next returns the next event, or io.EOF at the end of the trace.
func (tr *Reader) Next() (ev Event, err error) {
	err = struc.Unpack(tr.zr, &ev)
	return
}

// Close closes the underlying reader.
func (tr *Reader) Close() error {
	tr.zr.Reset(nil)
	return tr.r.Close()
}
