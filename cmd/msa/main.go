// Command msa compiles MULTIX source to its RISC-V-encoded byte vector.
// Each invocation is a single compile: there is no persistent session or
// REPL state between runs, only the advisory surfaces (-lint, -xref,
// -format), which read the source through the same lexer and block
// tracker the Compiler uses without compiling it.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/multixspace/msa/api"
	"github.com/multixspace/msa/assembler"
	"github.com/multixspace/msa/output"
	"github.com/multixspace/msa/tools"
	"github.com/multixspace/msa/tui"
)

// Version information - can be overridden at build time with:
// go build -ldflags "-X main.Version=v1.2.3"
var (
	Version = "dev"
	Commit  = "unknown"
	Date    = "unknown"
)

func main() {
	var (
		showVersion = flag.Bool("version", false, "Show version information")
		showHelp    = flag.Bool("help", false, "Show help information")
		outFile     = flag.String("o", "", "Write the assembled image to this file (default: <input>.bin)")
		hexOut      = flag.Bool("hex", false, "Print a hex dump of the assembled image instead of writing binary")
		traceOut    = flag.Bool("trace", false, "Print the pass-2 emission trace")
		lintOnly    = flag.Bool("lint", false, "Run the linter and exit without compiling")
		formatOnly  = flag.String("format", "", "Reformat source and print to stdout: one of default, compact, expanded")
		xrefOnly    = flag.Bool("xref", false, "Print a symbol cross-reference report and exit without compiling")
		apiServer   = flag.Bool("api-server", false, "Start the HTTP compile service")
		apiPort     = flag.Int("port", 8080, "API server port (used with -api-server)")
		tuiMode     = flag.Bool("tui", false, "Open the interactive source/trace/hex/symbols viewer")
	)

	flag.Parse()

	if *showVersion {
		fmt.Printf("msa %s\n", Version)
		if Commit != "unknown" {
			fmt.Printf("Commit: %s\n", Commit)
		}
		if Date != "unknown" {
			fmt.Printf("Built: %s\n", Date)
		}
		os.Exit(0)
	}

	if *showHelp {
		printHelp()
		os.Exit(0)
	}

	if *apiServer {
		runAPIServer(*apiPort)
		return
	}

	if flag.NArg() == 0 {
		printHelp()
		os.Exit(0)
	}

	srcFile := flag.Arg(0)
	data, err := os.ReadFile(srcFile) // #nosec G304 -- path is an operator-supplied CLI argument
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot read %s: %v\n", srcFile, err)
		os.Exit(1)
	}
	source := string(data)

	if *tuiMode {
		runTUI(srcFile)
		return
	}

	if *lintOnly {
		runLint(source, srcFile)
		return
	}

	if *xrefOnly {
		runXRef(source, srcFile)
		return
	}

	if *formatOnly != "" {
		runFormat(source, srcFile, *formatOnly)
		return
	}

	runCompile(source, srcFile, *outFile, *hexOut, *traceOut)
}

func runCompile(source, srcFile, outFile string, hexOut, traceOut bool) {
	c := assembler.New()
	image, err := c.CompileNamed(source, srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Compile error:\n%v\n", err)
		os.Exit(1)
	}

	if traceOut {
		for _, line := range c.Trace() {
			fmt.Println(line)
		}
	}

	if hexOut {
		fmt.Print(output.HexDump(image, 16))
		return
	}

	if outFile == "" {
		outFile = srcFile + ".bin"
	}
	if err := output.WriteBinary(outFile, image); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
		os.Exit(1)
	}
	fmt.Printf("Wrote %d bytes to %s\n", len(image), outFile)
}

func runLint(source, srcFile string) {
	issues := tools.NewLinter(tools.DefaultLintOptions()).Lint(source, srcFile)
	if len(issues) == 0 {
		fmt.Println("no lint issues")
		return
	}
	errCount := 0
	for _, issue := range issues {
		fmt.Println(issue.String())
		if issue.Level == tools.LintError {
			errCount++
		}
	}
	if errCount > 0 {
		os.Exit(1)
	}
}

func runXRef(source, srcFile string) {
	report, err := tools.GenerateXRef(source, srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(report)
}

func runFormat(source, srcFile, style string) {
	var opts *tools.FormatOptions
	switch style {
	case "default":
		opts = tools.DefaultFormatOptions()
	case "compact":
		opts = tools.CompactFormatOptions()
	case "expanded":
		opts = tools.ExpandedFormatOptions()
	default:
		fmt.Fprintf(os.Stderr, "Error: unknown format style %q (want default, compact, or expanded)\n", style)
		os.Exit(1)
	}

	formatted, err := tools.NewFormatter(opts).Format(source, srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Print(formatted)
}

func runTUI(srcFile string) {
	t, err := tui.New(srcFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if err := t.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "TUI error: %v\n", err)
		os.Exit(1)
	}
}

func runAPIServer(port int) {
	server := api.NewServer(port)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		if err := server.Start(); err != nil {
			fmt.Fprintf(os.Stderr, "API server error: %v\n", err)
			os.Exit(1)
		}
	}()

	<-sigChan
	fmt.Println("\nShutting down API server...")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error during shutdown: %v\n", err)
		os.Exit(1)
	}
	fmt.Println("API server stopped")
}

func printHelp() {
	fmt.Printf(`msa %s

Usage: msa [options] <source-file>
       msa -api-server [-port N]

Options:
  -help              Show this help message
  -version           Show version information
  -o FILE            Write the assembled image to FILE (default: <input>.bin)
  -hex               Print a hex dump of the image instead of writing binary
  -trace             Print the pass-2 emission trace

Advisory Modes (exit without compiling):
  -lint              Run the linter and exit
  -xref              Print a symbol cross-reference report and exit
  -format STYLE      Reformat source and print to stdout: default, compact, expanded

Interactive & Service Modes:
  -tui               Open the interactive source/trace/hex/symbols viewer
  -api-server        Start the HTTP compile service (no source file required)
  -port N            API server port (default: 8080, used with -api-server)

Examples:
  # Compile a program to a binary image
  msa program.msa

  # Compile and inspect the assembled bytes
  msa -hex program.msa

  # Check for undefined labels without compiling
  msa -lint program.msa

  # Start the HTTP compile service
  msa -api-server -port 3000
`, Version)
}
