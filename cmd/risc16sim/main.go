// Package main provides the entry point for the RISC-16 simulator.
// It runs an assembly program either functionally or through the 5-stage
// timing pipeline, optionally stepping it interactively.
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/go-logr/logr"
	"github.com/go-logr/logr/funcr"

	"github.com/sarchlab/risc16sim/config"
	"github.com/sarchlab/risc16sim/emu"
	"github.com/sarchlab/risc16sim/loader"
	"github.com/sarchlab/risc16sim/timing/core"
)

var (
	timing      = flag.Bool("timing", false, "Enable timing simulation mode")
	interactive = flag.Bool("interactive", false, "Step the timing pipeline from the keyboard")
	trace       = flag.Bool("trace", false, "Print the pipeline contents after every cycle")
	configPath  = flag.String("config", "", "Path to simulator configuration YAML file")
	writeConfig = flag.String("write-config", "", "Write the effective configuration to a YAML file and exit")
	memWindow   = flag.Int("mem", 0, "Number of data memory bytes to display (overrides config)")
	verbose     = flag.Bool("v", false, "Verbose output")
)

func main() {
	flag.Parse()

	cfg, err := loadConfig()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *writeConfig != "" {
		if err := cfg.SaveConfig(*writeConfig); err != nil {
			fmt.Fprintf(os.Stderr, "Error writing config: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if flag.NArg() < 1 {
		fmt.Fprintf(os.Stderr, "Usage: risc16sim [options] <program.s>\n")
		fmt.Fprintf(os.Stderr, "\nOptions:\n")
		flag.PrintDefaults()
		os.Exit(1)
	}

	programPath := flag.Arg(0)

	prog, err := loader.Load(programPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading program: %v\n", err)
		os.Exit(1)
	}

	logger := newLogger(os.Stderr, *verbose)

	if *verbose {
		fmt.Printf("Loaded: %s\n", programPath)
		fmt.Printf("Instructions: %d\n", prog.Len())
		fmt.Printf("Labels: %d\n", len(prog.Labels))
	}

	switch {
	case *interactive:
		err = runInteractive(prog, cfg, logger)
	case *timing:
		err = runTiming(prog, cfg, logger, os.Stdout, *trace)
	default:
		err = runEmulation(prog, cfg, logger, os.Stdout)
	}

	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	cfg := config.DefaultConfig()
	if *configPath != "" {
		var err error
		cfg, err = config.LoadConfig(*configPath)
		if err != nil {
			return nil, err
		}
	}

	if *memWindow > 0 {
		cfg.MemoryWindow = *memWindow
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	return cfg, nil
}

// newLogger returns a logger writing one line per entry to w. Verbose
// output enables V(1) pipeline events.
func newLogger(w io.Writer, verbose bool) logr.Logger {
	verbosity := 0
	if verbose {
		verbosity = 1
	}

	return funcr.New(func(prefix, args string) {
		if prefix != "" {
			fmt.Fprintf(w, "%s: %s\n", prefix, args)
			return
		}
		fmt.Fprintln(w, args)
	}, funcr.Options{Verbosity: verbosity})
}

// runEmulation runs the program in functional emulation mode.
func runEmulation(
	prog *loader.Program,
	cfg *config.Config,
	logger logr.Logger,
	w io.Writer,
) error {
	emulator := emu.NewEmulator(
		emu.WithLogger(logger),
		emu.WithMaxInstructions(cfg.MaxCycles),
	)
	emulator.LoadProgram(prog)

	if err := emulator.Run(); err != nil {
		return err
	}

	fmt.Fprintf(w, "Instructions executed: %d\n", emulator.InstructionCount())
	fmt.Fprintf(w, "\n")
	printRegisters(w, emulator.RegFile().Snapshot())
	fmt.Fprintf(w, "\n")
	printMemory(w, emulator.Memory().Dump(cfg.MemoryWindow))

	return nil
}

// runTiming runs the program in timing simulation mode.
func runTiming(
	prog *loader.Program,
	cfg *config.Config,
	logger logr.Logger,
	w io.Writer,
	withTrace bool,
) error {
	c := core.NewCore(&emu.RegFile{}, emu.NewMemory(), cfg.CoreOptions(logger)...)
	c.Load(prog)

	if withTrace {
		for c.Tick() {
			printTrace(w, c.Snapshot())
			if cfg.MaxCycles > 0 && c.Stats().Cycles >= cfg.MaxCycles {
				break
			}
		}
	} else {
		c.Run(cfg.MaxCycles)
	}

	snapshot := c.Snapshot()
	printReport(w, snapshot)

	if !snapshot.Finished {
		return fmt.Errorf("program did not finish within %d cycles", cfg.MaxCycles)
	}

	return nil
}
