// Command canspec-gen generates Go constants for the messages, signals and
// enumerations of a bus specification.
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"golang.org/x/tools/imports"

	"github.com/parsecan/parsecan-go/pkg/specparse"
)

func main() {
	specPath := flag.String("spec", "", "Bus specification file (.yaml, .yml, .toml)")
	output := flag.String("output", "", "Output Go file")
	pkg := flag.String("package", "", "Package name (default: bus name)")
	flag.Parse()

	if *specPath == "" || *output == "" {
		fmt.Fprintln(os.Stderr, "Usage: canspec-gen -spec <file> -output <file.go> [-package <name>]")
		flag.PrintDefaults()
		os.Exit(1)
	}

	if err := run(*specPath, *output, *pkg); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(specPath, output, pkg string) error {
	bus, err := specparse.LoadSpec(specPath)
	if err != nil {
		return fmt.Errorf("loading spec: %w", err)
	}

	if pkg == "" {
		pkg = packageName(bus.Name())
	}

	code, err := Generate(bus, pkg, filepath.Base(specPath))
	if err != nil {
		return fmt.Errorf("generating: %w", err)
	}

	if dir := filepath.Dir(output); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("creating output dir: %w", err)
		}
	}
	if err := writeFormatted(output, code); err != nil {
		return err
	}
	fmt.Printf("  generated %s\n", output)
	return nil
}

// writeFormatted formats Go source code with goimports and writes it to a file.
func writeFormatted(path string, code string) error {
	formatted, err := imports.Process(path, []byte(code), nil)
	if err != nil {
		// Keep the raw output for debugging the template.
		_ = os.WriteFile(path+".broken", []byte(code), 0o644)
		return fmt.Errorf("goimports %s: %w", filepath.Base(path), err)
	}
	return os.WriteFile(path, formatted, 0o644)
}

// packageName lowercases name and drops everything that is not a letter or
// digit: "Body-CAN" becomes "bodycan".
func packageName(name string) string {
	var b strings.Builder
	for _, r := range strings.ToLower(name) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9' && b.Len() > 0) {
			b.WriteRune(r)
		}
	}
	if b.Len() == 0 {
		return "bus"
	}
	return b.String()
}
