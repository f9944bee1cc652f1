package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/wippyai/hax/artifact"
	"github.com/wippyai/hax/asm"
	"github.com/wippyai/hax/bytecode"
	"github.com/wippyai/hax/config"
	"github.com/wippyai/hax/listing"
	"github.com/wippyai/hax/vm"
)

// ArtifactExt marks files holding a serialized artifact rather than a
// listing.
const ArtifactExt = ".hxc"

func main() {
	var (
		configFile  = flag.String("config", "", "Path to hax.toml (default: search upwards from the working directory)")
		format      = flag.String("format", "", "Bytecode format: 3.6, 3.7, 3.8, 3.9 or 3.10")
		filename    = flag.String("filename", "", "File name recorded in code objects")
		outDir      = flag.String("o", "", "Write one "+ArtifactExt+" artifact per function into this directory")
		disassemble = flag.Bool("dis", false, "Print the disassembly of each assembled function")
		simulate    = flag.Bool("simulate", false, "Check each assembled function with the stack simulator")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
		verbose     = flag.Bool("v", false, "Debug logging")
	)
	flag.Parse()

	if flag.NArg() == 0 {
		fmt.Fprintln(os.Stderr, "Usage: hax [flags] <file.hxl|file"+ArtifactExt+">...")
		fmt.Fprintln(os.Stderr, "       hax -dis -simulate <file.hxl>")
		fmt.Fprintln(os.Stderr, "       hax -i <file.hxl>  (interactive mode)")
		fmt.Fprintln(os.Stderr)
		flag.PrintDefaults()
		os.Exit(2)
	}

	cfg, err := loadConfig(*configFile)
	if err != nil {
		report(err)
		os.Exit(1)
	}
	flag.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "format":
			cfg.Assemble.Format = *format
		case "filename":
			cfg.Assemble.Filename = *filename
		case "o":
			cfg.Output.Path = *outDir
		case "dis":
			cfg.Output.Disassemble = *disassemble
		case "simulate":
			cfg.Output.Simulate = *simulate
		}
	})
	if *verbose {
		cfg.Log.Level = "debug"
	}
	if err := cfg.Validate(); err != nil {
		report(err)
		os.Exit(1)
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		report(err)
		os.Exit(1)
	}
	defer func() { _ = log.Sync() }()
	asm.SetLogger(log)

	if *interactive {
		if err := runInteractive(flag.Args(), cfg); err != nil {
			report(err)
			os.Exit(1)
		}
		return
	}

	if err := run(flag.Args(), cfg, log); err != nil {
		report(err)
		os.Exit(1)
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	wd, err := os.Getwd()
	if err != nil {
		return nil, fmt.Errorf("working directory: %w", err)
	}
	cfg, err := config.FindAndLoad(wd)
	if err != nil {
		return nil, err
	}
	if cfg == nil {
		cfg = config.Default()
	}
	return cfg, nil
}

// entry is one function on its way through the pipeline. Artifacts read
// back from disk have no unit.
type entry struct {
	file string
	code *bytecode.Code
	unit *asm.Unit
	sim  *vm.Result
}

func run(paths []string, cfg *config.Config, log *zap.Logger) error {
	entries, err := load(paths, cfg)
	if err != nil {
		return err
	}

	if cfg.Output.Simulate {
		if err := simulateAll(entries); err != nil {
			return err
		}
	}

	for _, e := range entries {
		if cfg.Output.Disassemble {
			fmt.Printf("Disassembly of %s (%s):\n", e.code.Name, e.file)
			if err := bytecode.Fprint(os.Stdout, e.code); err != nil {
				return fmt.Errorf("disassemble %s: %w", e.code.Name, err)
			}
			fmt.Println()
		}
		if e.sim != nil {
			fmt.Printf("%s: max stack depth %d of %d reserved, %d paths\n",
				e.code.Name, e.sim.MaxDepth, e.code.StackSize, e.sim.Paths)
		}
	}

	if dir := cfg.OutputPath(); dir != "" {
		if err := writeArtifacts(dir, entries, log); err != nil {
			return err
		}
	}
	return nil
}

// load compiles and assembles listings and decodes artifacts, in argument
// order.
func load(paths []string, cfg *config.Config) ([]entry, error) {
	format, err := cfg.Assemble.BytecodeFormat()
	if err != nil {
		return nil, err
	}

	var entries []entry
	for _, path := range paths {
		if strings.HasSuffix(path, ArtifactExt) {
			e, err := readArtifact(path)
			if err != nil {
				return nil, err
			}
			entries = append(entries, e)
			continue
		}

		codes, err := listing.CompileFile(path, format)
		if err != nil {
			return nil, err
		}
		if cfg.Assemble.Filename != "" {
			for _, c := range codes {
				c.Filename = cfg.Assemble.Filename
			}
		}
		units, err := asm.AssembleAll(codes)
		if err != nil {
			return nil, err
		}
		for _, u := range units {
			entries = append(entries, entry{file: path, code: u.Code(), unit: u})
		}
	}
	return entries, nil
}

func readArtifact(path string) (entry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return entry{}, fmt.Errorf("read file: %w", err)
	}
	a, err := artifact.Unmarshal(data)
	if err != nil {
		return entry{}, fmt.Errorf("%s: %w", path, err)
	}
	return entry{file: path, code: a.Code()}, nil
}

func simulateAll(entries []entry) error {
	for i := range entries {
		res, err := vm.Simulate(entries[i].code)
		if err != nil {
			return fmt.Errorf("simulate %s: %w", entries[i].code.Name, err)
		}
		if res.MaxDepth > entries[i].code.StackSize {
			return fmt.Errorf("simulate %s: stack depth %d exceeds reserved %d",
				entries[i].code.Name, res.MaxDepth, entries[i].code.StackSize)
		}
		entries[i].sim = &res
	}
	return nil
}

func writeArtifacts(dir string, entries []entry, log *zap.Logger) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create output directory: %w", err)
	}
	for _, e := range entries {
		if e.unit == nil {
			continue
		}
		a, err := artifact.New(e.unit)
		if err != nil {
			return err
		}
		data, err := a.Marshal()
		if err != nil {
			return err
		}
		path := filepath.Join(dir, e.code.Name+ArtifactExt)
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return fmt.Errorf("write artifact: %w", err)
		}
		log.Info("wrote artifact",
			zap.String("function", e.code.Name),
			zap.String("path", path),
			zap.Stringer("id", a.ID),
			zap.Int("bytes", len(data)))
	}
	return nil
}
