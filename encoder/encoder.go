package encoder

import (
	"fmt"
	"strconv"
	"strings"
)

// Encoder accumulates the assembled byte vector and its parallel trace of
// mnemonic strings. One call to an Emit* method appends exactly one 32-bit
// little-endian word to Output and one line to Trace.
type Encoder struct {
	Output []byte
	Trace  []string
}

// New creates an empty Encoder.
func New() *Encoder {
	return &Encoder{}
}

// Reset clears the output buffer and trace, releasing any state from a
// previous compile.
func (e *Encoder) Reset() {
	e.Output = nil
	e.Trace = nil
}

// Len returns the current length of the output buffer. Diagnostic use only
// during pass 2 — the authoritative program counter is tracked separately
// by the assembler.
func (e *Encoder) Len() int {
	return len(e.Output)
}

// emit appends word in little-endian order and records its mnemonic.
func (e *Encoder) emit(word uint32, mnemonic string) {
	e.Output = append(e.Output,
		byte(word),
		byte(word>>8),
		byte(word>>16),
		byte(word>>24),
	)
	e.Trace = append(e.Trace, "  "+mnemonic)
}

// Comment appends a structural comment line to the trace without emitting
// any bytes.
func (e *Encoder) Comment(text string) {
	e.Trace = append(e.Trace, "; "+text)
}

// ParseRegister parses an "x0".."x31" token and returns its index.
func ParseRegister(tok string) (uint32, error) {
	tok = strings.TrimSpace(tok)
	if !strings.HasPrefix(tok, "x") {
		return 0, fmt.Errorf("unknown register: %q", tok)
	}
	n, err := strconv.ParseUint(tok[1:], 10, 32)
	if err != nil || n > 31 {
		return 0, fmt.Errorf("unknown register: %q", tok)
	}
	return uint32(n), nil
}

// IsRegister reports whether tok looks like a register token.
func IsRegister(tok string) bool {
	_, err := ParseRegister(tok)
	return err == nil
}

func regName(r uint32) string {
	return "x" + strconv.FormatUint(uint64(r), 10)
}
