// Package config reads the machine description of an emulated partition.
//
// The description is a TOML file:
//
//	verbose = false
//
//	[[storage]]
//	name = "MSP0"
//	size = 0o1000000
//
//	[[processor]]
//	name = "IP0"
//	run_mode = "normal"
//	quantum_timer = true
//	quantum = 0o10000
//
//	[environment]
//	ics_frames = 16
//
//	[trace]
//	log = true
//	level = "debug"
//	file = "ip0.a22t"
package config

import (
	"io"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
	"github.com/pkg/errors"
	"github.com/shibukawa/configdir"
	"github.com/sirupsen/logrus"

	"github.com/ezrec/em2200/processor"
	"github.com/ezrec/em2200/word"
)

const (
	CONFIG_VENDOR = "em2200"      // Configuration directory vendor.
	CONFIG_FILE   = "em2200.toml" // Default configuration file name.
)

// Storage describes a main storage processor.
type Storage struct {
	Name string `toml:"name"`
	Size uint32 `toml:"size"` // Words in the fixed segment, zero for the default.
}

// Processor describes an instruction processor and its initial state.
type Processor struct {
	Name                 string `toml:"name"`
	RunMode              string `toml:"run_mode"` // normal, single_instruction or single_cycle.
	JumpHistoryInterrupt bool   `toml:"jump_history_interrupt"`
	QuantumTimer         bool   `toml:"quantum_timer"`
	Quantum              uint64 `toml:"quantum"`
	DeferrableInterrupt  bool   `toml:"deferrable_interrupt"`
	Exec24BitIndexing    bool   `toml:"exec_24bit_indexing"`
	QuarterWordMode      bool   `toml:"quarter_word_mode"`
	OperationTrap        bool   `toml:"operation_trap"`
}

// Environment sizes the banking environment built for a program.
type Environment struct {
	ICSFrames uint32 `toml:"ics_frames"` // Interrupt control stack depth.
	BDTSize   uint32 `toml:"bdt_size"`   // Bank descriptors per level.
}

// Trace selects the event sinks of every processor.
type Trace struct {
	Log       bool   `toml:"log"`       // Log events with logrus.
	Level     string `toml:"level"`     // logrus level name.
	Registers bool   `toml:"registers"` // Log A0, X0 and R0 with each instruction.
	File      string `toml:"file"`      // Trace file, empty for none.
}

// Config is a machine description.
type Config struct {
	Verbose     bool        `toml:"verbose"`
	Storage     []Storage   `toml:"storage"`
	Processor   []Processor `toml:"processor"`
	Environment Environment `toml:"environment"`
	Trace       Trace       `toml:"trace"`
}

// Default returns a machine with one storage processor and one
// instruction processor.
func Default() *Config {
	return &Config{
		Storage:   []Storage{{Name: "MSP0"}},
		Processor: []Processor{{Name: "IP0", RunMode: "normal"}},
		Environment: Environment{
			ICSFrames: 16,
			BDTSize:   0100,
		},
		Trace: Trace{Level: "info"},
	}
}

// Decode reads a configuration, over the defaults. Unknown keys are an
// error.
func Decode(r io.Reader) (cfg *Config, err error) {
	cfg = Default()
	cfg.Storage = nil
	cfg.Processor = nil

	md, err := toml.NewDecoder(r).Decode(cfg)
	if err != nil {
		cfg = nil
		return
	}

	undecoded := md.Undecoded()
	if len(undecoded) != 0 {
		var keys ErrUndecoded
		for _, key := range undecoded {
			keys = append(keys, key.String())
		}
		err = keys
		cfg = nil
		return
	}

	err = cfg.Validate()
	if err != nil {
		cfg = nil
	}
	return
}

// Load reads a configuration file.
func Load(path string) (cfg *Config, err error) {
	inf, err := os.Open(path)
	if err != nil {
		return
	}
	defer inf.Close()

	cfg, err = Decode(inf)
	if err != nil {
		err = errors.Wrap(err, path)
	}
	return
}

// Locate finds the default configuration file in the user and system
// configuration directories.
func Locate() (path string, err error) {
	configDirs := configdir.New(CONFIG_VENDOR, "")
	folder := configDirs.QueryFolderContainsFile(CONFIG_FILE)
	if folder == nil {
		err = ErrNotFound
		return
	}
	path = filepath.Join(folder.Path, CONFIG_FILE)
	return
}

// LoadDefault loads the located configuration file, or returns the
// defaults when there is none.
func LoadDefault() (cfg *Config, err error) {
	path, err := Locate()
	if errors.Is(err, ErrNotFound) {
		cfg = Default()
		err = nil
		return
	}
	if err != nil {
		return
	}
	return Load(path)
}

// Validate checks the configuration is complete and consistent.
func (cfg *Config) Validate() (err error) {
	if len(cfg.Storage) == 0 {
		return ErrNoStorage
	}
	if len(cfg.Processor) == 0 {
		return ErrNoProcessor
	}

	names := map[string]bool{}
	for _, ms := range cfg.Storage {
		if names[ms.Name] {
			return errors.Wrap(ErrNameDuplicate, ms.Name)
		}
		names[ms.Name] = true
	}
	for _, ip := range cfg.Processor {
		if names[ip.Name] {
			return errors.Wrap(ErrNameDuplicate, ip.Name)
		}
		names[ip.Name] = true
		_, err = ip.Mode()
		if err != nil {
			return errors.Wrap(err, ip.Name)
		}
	}

	_, err = cfg.Trace.LogLevel()
	return
}

var runModes = map[string]processor.RunMode{
	"":                   processor.RUN_NORMAL,
	"normal":             processor.RUN_NORMAL,
	"single_instruction": processor.RUN_SINGLE_INSTRUCTION,
	"single_cycle":       processor.RUN_SINGLE_CYCLE,
}

// Mode returns the run mode of the processor.
func (ip *Processor) Mode() (mode processor.RunMode, err error) {
	mode, ok := runModes[ip.RunMode]
	if !ok {
		err = ErrRunMode
	}
	return
}

// Apply sets the initial designators, quantum and options of a processor.
func (ip *Processor) Apply(p *processor.Processor) (err error) {
	mode, err := ip.Mode()
	if err != nil {
		return
	}
	p.SetRunMode(mode)
	p.JumpHistoryInterrupt = ip.JumpHistoryInterrupt
	p.DR.SetQuantumTimer(ip.QuantumTimer)
	p.DR.SetDeferrableInterrupt(ip.DeferrableInterrupt)
	p.DR.SetExec24BitIndexing(ip.Exec24BitIndexing)
	p.DR.SetQuarterWordMode(ip.QuarterWordMode)
	p.DR.SetOperationTrap(ip.OperationTrap)
	p.Quantum = word.Word(ip.Quantum) & word.Mask
	return
}

// LogLevel returns the logrus level of the trace log.
func (tr *Trace) LogLevel() (level logrus.Level, err error) {
	if len(tr.Level) == 0 {
		level = logrus.InfoLevel
		return
	}
	level, err = logrus.ParseLevel(tr.Level)
	if err != nil {
		err = errors.Wrap(ErrLogLevel, tr.Level)
	}
	return
}
