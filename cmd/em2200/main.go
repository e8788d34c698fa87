// Copyright 2025, Jason S. McMullan <jason.mcmullan@gmail.com>

package main

import (
	"context"
	"flag"
	"log"
	"os"
	"os/signal"
	"time"

	"github.com/ezrec/em2200/asm"
	"github.com/ezrec/em2200/config"
	"github.com/ezrec/em2200/emulator"
	"github.com/ezrec/em2200/loader"
)

func main() {
	var configPath string
	var compile string
	var output string
	var level uint
	var bdi uint
	var save bool
	var timeout time.Duration
	var nocolor bool
	var verbose bool

	flag.StringVar(&configPath, "config", "", "Machine configuration, .toml")
	flag.StringVar(&compile, "c", "", "Assembler source to compile")
	flag.StringVar(&output, "o", "", "Absolute module to write")
	flag.UintVar(&level, "level", 0, "Bank level of the compiled program")
	flag.UintVar(&bdi, "bdi", 0100, "Bank descriptor index of the compiled program")
	flag.BoolVar(&save, "s", false, "Save the module, do not execute")
	flag.DurationVar(&timeout, "t", 0, "Run time limit, 0 for none")
	flag.BoolVar(&nocolor, "nocolor", false, "Do not colourize the report")
	flag.BoolVar(&verbose, "v", false, "Verbose mode")

	flag.Parse()

	var cfg *config.Config
	var err error
	if len(configPath) != 0 {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadDefault()
	}
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if verbose {
		cfg.Verbose = true
	}

	emu, err := emulator.New(cfg)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	defer emu.Close()

	var mod *loader.Module

	switch {
	case len(compile) != 0:
		if flag.NArg() != 0 {
			log.Fatalf("%v: Unknown arguments: %v", os.Args[0], flag.Args())
		}

		inf, err := os.Open(compile)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		defer inf.Close()

		as := &asm.Assembler{Verbose: verbose}
		for equ, value := range emu.Defines() {
			as.Predefine(equ, value)
		}
		prog, err := as.Parse(inf)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
		mod, err = prog.Module(level, bdi)
		if err != nil {
			log.Fatalf("%v: %v", compile, err)
		}
	case flag.NArg() == 1:
		mod, err = loader.ReadFile(flag.Arg(0))
		if err != nil {
			log.Fatalf("%v: %v", os.Args[0], err)
		}
	default:
		log.Fatalf("%v: Expected -c source.asm, or one module.abs", os.Args[0])
	}

	if len(output) != 0 {
		err = mod.WriteFile(output)
		if err != nil {
			log.Fatalf("%v: %v", output, err)
		}
	}

	if save {
		return
	}

	err = emu.Load(mod)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	err = emu.Reset()
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	if timeout != 0 {
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	runErr := emu.Run(ctx)

	err = emu.Report(os.Stdout, !nocolor)
	if err != nil {
		log.Fatalf("%v: %v", os.Args[0], err)
	}
	if runErr != nil {
		log.Fatalf("%v: %v", os.Args[0], runErr)
	}
}
