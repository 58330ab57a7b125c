package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"go.uber.org/zap"
	"golang.org/x/term"

	wasmembed "github.com/wippyai/wasm-embed"
	"github.com/wippyai/wasm-embed/engine"
	"github.com/wippyai/wasm-embed/store"
	"github.com/wippyai/wasm-embed/wasm"
)

func main() {
	var (
		wasmFile    = flag.String("wasm", "", "Path to wasm module file")
		newName     = flag.String("rename", "", "New module name to write")
		strip       = flag.Bool("strip", false, "Remove the module name")
		output      = flag.String("o", "", "Output file for -rename/-strip (default: in place)")
		sections    = flag.Bool("sections", false, "List module sections and exit")
		cacheDir    = flag.String("cache", "", "Compilation cache directory")
		verbose     = flag.Bool("v", false, "Verbose logging")
		interactive = flag.Bool("i", false, "Interactive mode with TUI")
	)
	flag.Parse()

	if *wasmFile == "" {
		fmt.Fprintln(os.Stderr, "Usage: modname -wasm <file.wasm>                          (show name and exports)")
		fmt.Fprintln(os.Stderr, "       modname -wasm <file.wasm> -rename NEW [-o out.wasm]")
		fmt.Fprintln(os.Stderr, "       modname -wasm <file.wasm> -strip [-o out.wasm]")
		fmt.Fprintln(os.Stderr, "       modname -wasm <file.wasm> -sections")
		fmt.Fprintln(os.Stderr, "       modname -wasm <file.wasm> -i  (interactive mode)")
		os.Exit(1)
	}

	if *verbose {
		logger, err := zap.NewDevelopment()
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error: create logger: %v\n", err)
			os.Exit(1)
		}
		engine.SetLogger(logger.Named("engine"))
		store.SetLogger(logger.Named("store"))
	}

	if *interactive {
		if !term.IsTerminal(int(os.Stdout.Fd())) {
			fmt.Fprintln(os.Stderr, "Error: interactive mode requires a terminal")
			os.Exit(1)
		}
		if err := runInteractive(*wasmFile, *cacheDir); err != nil {
			fmt.Fprintf(os.Stderr, "Error: %v\n", err)
			os.Exit(1)
		}
		return
	}

	if err := run(*wasmFile, *newName, *strip, *output, *sections, *cacheDir); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func run(wasmFile, newName string, strip bool, output string, listSections bool, cacheDir string) error {
	ctx := context.Background()

	data, err := os.ReadFile(wasmFile)
	if err != nil {
		return fmt.Errorf("read file: %w", err)
	}

	if listSections {
		return printSections(data)
	}

	if newName != "" && strip {
		return fmt.Errorf("-rename and -strip are mutually exclusive")
	}
	if output == "" {
		output = wasmFile
	}

	eng, err := engine.NewWithConfig(ctx, &engine.Config{CacheDir: cacheDir})
	if err != nil {
		return fmt.Errorf("create engine: %w", err)
	}
	defer eng.Close(ctx)

	st := store.NewWithEngine(eng)
	defer st.Close(ctx)

	mod, err := st.Compile(ctx, data)
	if err != nil {
		return fmt.Errorf("compile: %w", err)
	}
	defer mod.Close(ctx)

	switch {
	case newName != "":
		if !mod.SetName(wasmembed.NewByteVecString(newName)) {
			return fmt.Errorf("rename failed")
		}
		out, err := mod.Bytes()
		if err != nil {
			return fmt.Errorf("serialize: %w", err)
		}
		if err := os.WriteFile(output, out, 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Printf("Renamed to %q: %s (%d bytes)\n", newName, output, len(out))

	case strip:
		out, err := wasm.StripModuleName(data)
		if err != nil {
			return fmt.Errorf("strip name: %w", err)
		}
		if err := os.WriteFile(output, out, 0o644); err != nil {
			return fmt.Errorf("write file: %w", err)
		}
		fmt.Printf("Name removed: %s (%d bytes)\n", output, len(out))

	default:
		printModule(wasmFile, len(data), mod)
	}

	return nil
}

func printModule(wasmFile string, size int, mod *store.Module) {
	fmt.Printf("Module: %s\n", wasmFile)
	fmt.Printf("Size: %d bytes\n", size)

	if name := mod.Name(); name.IsNil() {
		fmt.Printf("Name: (none)\n")
	} else {
		fmt.Printf("Name: %q\n", name.String())
	}

	exports := mod.ExportedFunctions()
	fmt.Printf("\nExported functions: %d\n", len(exports))
	for _, e := range exports {
		fmt.Printf("  %s\n", e)
	}
}

func printSections(data []byte) error {
	sections, err := wasm.ScanSections(data)
	if err != nil {
		return fmt.Errorf("scan: %w", err)
	}

	fmt.Printf("Sections: %d\n", len(sections))
	for _, sec := range sections {
		label := wasm.SectionName(sec.ID)
		if sec.ID == wasm.SectionCustom {
			label = fmt.Sprintf("custom %q", sec.Name)
		}
		fmt.Printf("  %-24s %6d bytes at 0x%06x\n", label, sec.End-sec.Start, sec.Start)
	}
	return nil
}
