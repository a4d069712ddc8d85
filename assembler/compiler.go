// Package assembler implements the MULTIX two-pass translation pipeline:
// symbol placement (pass 1), instruction emission (pass 2), and the Driver
// that orchestrates both against the Lexer, Value Resolver, and Block
// Tracker.
package assembler

import (
	"github.com/multixspace/msa/encoder"
	"github.com/multixspace/msa/lexer"
)

// Compiler is the Driver: it owns the encoder instance and exposes the
// three logical operations described in §6 — compile, reset, and read
// access to the trace of the last successful compile.
type Compiler struct {
	enc  *encoder.Encoder
	syms *SymbolTable
}

// New creates a Compiler ready for its first compile.
func New() *Compiler {
	return &Compiler{enc: encoder.New()}
}

// Reset clears all state held from a previous compile: output, trace, and
// symbol table. Compile calls this internally at the start of every run.
func (c *Compiler) Reset() {
	c.enc.Reset()
	c.syms = nil
}

// Trace returns the assembly trace of the most recent compile. It is empty
// when that compile failed, since every compile starts with Reset.
func (c *Compiler) Trace() []string {
	return c.enc.Trace
}

// Symbols returns the resolved symbol table of the most recent compile, or
// nil if no compile has run yet or the most recent one failed.
func (c *Compiler) Symbols() *SymbolTable {
	return c.syms
}

// Compile translates source into its encoded byte vector. On any error the
// output and trace are discarded — partial results never escape a failed
// compile.
func (c *Compiler) Compile(source string) ([]byte, error) {
	return c.CompileNamed(source, "")
}

// CompileNamed is Compile with an explicit filename, used only to annotate
// diagnostics produced from multi-file hosts.
func (c *Compiler) CompileNamed(source, filename string) ([]byte, error) {
	c.Reset()

	lines, lerr := lexer.Prepare(source, filename)
	if lerr != nil {
		return nil, lerr
	}

	p1, perr := runPass1(lines, filename)
	if perr != nil {
		return nil, perr
	}

	if err := runPass2(lines, filename, p1.Symbols, p1.Origin, c.enc); err != nil {
		c.enc.Reset()
		return nil, err
	}

	c.syms = p1.Symbols
	return c.enc.Output, nil
}
