// Copyright 2024, Jason S. McMullan <jason.mcmullan@gmail.com>

package emulator

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"log"
	"maps"
	"os"
	"path/filepath"
	"strings"
	"sync"

	pkgerrors "github.com/pkg/errors"
	"github.com/sirupsen/logrus"

	"github.com/ezrec/em2200/config"
	"github.com/ezrec/em2200/internal"
	"github.com/ezrec/em2200/inventory"
	"github.com/ezrec/em2200/loader"
	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/storage"
	"github.com/ezrec/em2200/trace"
	"github.com/ezrec/em2200/word"
)

var _emulator_defines = map[string]string{
	"HALT_BASE":   fmt.Sprintf("0%o", HALT_BASE),
	"HANDLER_BDI": fmt.Sprintf("0%o", HANDLER_BDI),
	"ICS_BDI":     fmt.Sprintf("0%o", ICS_BDI),
}

// Emulator is a partition: storage and instruction processors from a
// configuration, a banking environment, and a loaded module.
type Emulator struct {
	Verbose bool           // If set, enables verbose logging.
	Config  *config.Config // Machine description.
	Logger  *logrus.Logger // Destination of the trace log.

	Inventory  *inventory.Manager     // Nodes of the partition.
	Storage    *storage.MainStorage   // Storage holding the environment and the module.
	Processors []*processor.Processor // Instruction processors, in configuration order.

	Module     *loader.Module     // Loaded module.
	Placements []loader.Placement // Where the module banks were placed.

	env    *environment
	traces []*trace.FileSink
}

// New builds the nodes of a configuration.
func New(cfg *config.Config) (emu *Emulator, err error) {
	err = cfg.Validate()
	if err != nil {
		return
	}

	level, err := cfg.Trace.LogLevel()
	if err != nil {
		return
	}
	logger := logrus.New()
	logger.SetLevel(level)

	inv := inventory.New()
	inv.Verbose = cfg.Verbose

	emu = &Emulator{
		Verbose:   cfg.Verbose,
		Config:    cfg,
		Logger:    logger,
		Inventory: inv,
	}

	defer func() {
		if err != nil {
			inv.Close()
			emu = nil
		}
	}()

	for _, msp := range cfg.Storage {
		var ms *storage.MainStorage
		ms, err = inv.CreateMainStorage(msp.Name, msp.Size)
		if err != nil {
			return
		}
		ms.Verbose = cfg.Verbose
		if emu.Storage == nil {
			emu.Storage = ms
		}
	}

	for _, ip := range cfg.Processor {
		var p *processor.Processor
		p, err = inv.CreateProcessor(ip.Name)
		if err != nil {
			return
		}
		p.Verbose = cfg.Verbose
		emu.Processors = append(emu.Processors, p)
	}

	return
}

// Defines returns an iterator over the assembler equates of the
// environment, and the UPI of every node as UPI_<name>.
func (emu *Emulator) Defines() iter.Seq2[string, string] {
	nodes := func(yield func(string, string) bool) {
		for upi, name := range emu.Inventory.Nodes() {
			if !yield("UPI_"+name, fmt.Sprintf("%d", upi)) {
				return
			}
		}
	}
	return internal.IterSeq2Concat(maps.All(_emulator_defines), nodes)
}

// Close stops the processors, and closes the trace files.
func (emu *Emulator) Close() (err error) {
	err = emu.Inventory.Close()
	err = errors.Join(err, emu.closeTraces())
	return
}

func (emu *Emulator) closeTraces() (err error) {
	for _, sink := range emu.traces {
		err = errors.Join(err, sink.Close())
	}
	emu.traces = nil
	return
}

// Load builds the banking environment, and installs a module after it.
func (emu *Emulator) Load(mod *loader.Module) (err error) {
	err = mod.Validate()
	if err != nil {
		return
	}

	for _, bank := range mod.Banks {
		if reserved(bank.Level, bank.BDI, len(emu.Processors)) {
			err = &loader.ErrBank{Level: bank.Level, BDI: bank.BDI, Err: ErrBankReserved}
			return
		}
	}

	env, err := emu.buildEnvironment(mod)
	if err != nil {
		return
	}

	placed, err := mod.Install(emu.Storage, env.base, emu.Verbose)
	if err != nil {
		return
	}
	for _, pl := range placed {
		err = env.setDescriptor(emu.Storage, pl.Level, pl.BDI, pl.Descriptor)
		if err != nil {
			return
		}
	}

	emu.env = env
	emu.Module = mod
	emu.Placements = placed

	return
}

// LoadFile loads an absolute module file.
func (emu *Emulator) LoadFile(path string) (err error) {
	mod, err := loader.ReadFile(path)
	if err != nil {
		return
	}
	return emu.Load(mod)
}

// Reset clears every processor, and readies it to enter the module:
//   - the bank descriptor tables are based on B16-B23,
//   - the processor's ICS bank is based on B26 with an empty stack,
//   - the entry bank is based on B0 in extended mode, or on B12 in
//     basic mode, with the other banks of the module following it,
//   - the configured designators and run mode are applied,
//   - the trace sinks are attached.
func (emu *Emulator) Reset() (err error) {
	if emu.Module == nil {
		err = ErrModuleMissing
		return
	}

	err = emu.closeTraces()
	if err != nil {
		return
	}

	for n, p := range emu.Processors {
		err = emu.resetProcessor(n, p)
		if err != nil {
			return
		}
	}

	return
}

func (emu *Emulator) resetProcessor(n int, p *processor.Processor) (err error) {
	env := emu.env
	mod := emu.Module

	p.Clear()

	for level := range env.bdt {
		p.BR[processor.BR_LEVEL0_BDT+level] = processor.NewBaseRegister(env.bdt[level])
	}
	p.BR[processor.BR_ICS] = processor.NewBaseRegister(env.ics[n])
	p.GRS.Set(processor.ICS_POINTER, word.Word(processor.ICS_FRAME_SIZE)<<18|word.Word(env.top))

	first, last := uint(2), uint(processor.BR_USER_COUNT-1)
	if mod.Basic {
		first = processor.BR_BASIC_FIRST
		p.DR.SetBasicMode(true)
	}

	brIndex := first
	entry, _ := emu.placement(mod.Entry.Level, mod.Entry.BDI)
	if !mod.Basic {
		p.BR[processor.BR_CODE] = processor.NewBaseRegister(entry.Descriptor)
	} else {
		emu.baseBank(p, brIndex, entry)
		brIndex++
	}
	for _, pl := range emu.Placements {
		if pl.Level == entry.Level && pl.BDI == entry.BDI {
			continue
		}
		if brIndex > last {
			break
		}
		emu.baseBank(p, brIndex, pl)
		brIndex++
	}
	p.PAR = mod.Entry

	err = emu.Config.Processor[n].Apply(p)
	if err != nil {
		return
	}

	return emu.attachSinks(p)
}

// baseBank bases an installed bank on a user base register.
func (emu *Emulator) baseBank(p *processor.Processor, brIndex uint, pl loader.Placement) {
	p.BR[brIndex] = processor.NewBaseRegister(pl.Descriptor)
	p.ABT.SetEntry(brIndex, processor.ActiveBaseTableEntry{
		Level:      pl.Level,
		BDI:        pl.BDI,
		Descriptor: pl.Descriptor,
	})
	if emu.Verbose {
		log.Printf("%v: B%d is %o:%05o", p.Name, brIndex, pl.Level, pl.BDI)
	}
}

func (emu *Emulator) placement(level, bdi uint) (pl loader.Placement, ok bool) {
	for _, pl = range emu.Placements {
		if pl.Level == level && pl.BDI == bdi {
			ok = true
			return
		}
	}
	return
}

// tracePath returns the trace file of a processor. With more than one
// processor the name of the processor is added before the extension.
func (emu *Emulator) tracePath(p *processor.Processor) string {
	path := emu.Config.Trace.File
	if len(emu.Processors) == 1 {
		return path
	}
	ext := filepath.Ext(path)
	return strings.TrimSuffix(path, ext) + "-" + p.Name + ext
}

func (emu *Emulator) attachSinks(p *processor.Processor) (err error) {
	tr := &emu.Config.Trace

	var sinks processor.EventSinks
	if tr.Log {
		sinks = append(sinks, &trace.LogSink{Logger: emu.Logger, Registers: tr.Registers})
	}
	if len(tr.File) != 0 {
		path := emu.tracePath(p)
		var ouf *os.File
		ouf, err = os.Create(path)
		if err != nil {
			return
		}
		var sink *trace.FileSink
		sink, err = trace.NewFileSink(ouf, p)
		if err != nil {
			ouf.Close()
			err = pkgerrors.Wrap(err, path)
			return
		}
		emu.traces = append(emu.traces, sink)
		sinks = append(sinks, sink)
	}

	switch len(sinks) {
	case 0:
		p.Events = nil
	case 1:
		p.Events = sinks[0]
	default:
		p.Events = sinks
	}
	return
}

// Run runs every processor until it stops, or the context is cancelled.
// A processor stopping, by HALT or otherwise, is not an error.
func (emu *Emulator) Run(ctx context.Context) (err error) {
	if emu.Module == nil {
		err = ErrModuleMissing
		return
	}

	errs := make([]error, len(emu.Processors))

	var wg sync.WaitGroup
	for n, p := range emu.Processors {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[n] = p.Run(ctx)
		}()
	}
	wg.Wait()

	for n, p := range emu.Processors {
		if errs[n] == nil || errors.Is(errs[n], processor.ErrStopped) {
			continue
		}
		err = errors.Join(err, &ErrRuntime{Processor: p.Name, PAR: p.PAR, Err: errs[n]})
	}

	for _, sink := range emu.traces {
		err = errors.Join(err, sink.Err())
	}

	return
}
