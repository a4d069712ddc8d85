package encoder_test

import (
	"testing"

	"github.com/multixspace/msa/encoder"
)

func TestEncoder_HaltIsSelfJump(t *testing.T) {
	e := encoder.New()
	e.EmitJAL(0, 0)

	if len(e.Output) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(e.Output))
	}
	// jal x0, 0 -> opcode 0x6F, all other fields zero.
	want := []byte{0x6F, 0x00, 0x00, 0x00}
	for i := range want {
		if e.Output[i] != want[i] {
			t.Errorf("byte %d: expected %#02x, got %#02x", i, want[i], e.Output[i])
		}
	}
	if len(e.Trace) != 1 {
		t.Fatalf("expected 1 trace entry, got %d", len(e.Trace))
	}
}

func TestEncoder_LoadImmediateSmall(t *testing.T) {
	e := encoder.New()
	e.EmitLoadImmSmall(5, 7)

	if len(e.Output) != 4 {
		t.Fatalf("expected 4 bytes, got %d", len(e.Output))
	}
	word := uint32(e.Output[0]) | uint32(e.Output[1])<<8 | uint32(e.Output[2])<<16 | uint32(e.Output[3])<<24
	if word&0x7F != 0x13 {
		t.Errorf("expected opcode 0x13, got %#x", word&0x7F)
	}
	rd := (word >> 7) & 0x1F
	if rd != 5 {
		t.Errorf("expected rd=5, got %d", rd)
	}
}

func TestEncoder_UpperImmediate(t *testing.T) {
	e := encoder.New()
	e.EmitLUI(5, 0x10)

	word := uint32(e.Output[0]) | uint32(e.Output[1])<<8 | uint32(e.Output[2])<<16 | uint32(e.Output[3])<<24
	if word&0x7F != 0x37 {
		t.Errorf("expected opcode 0x37, got %#x", word&0x7F)
	}
	rd := (word >> 7) & 0x1F
	if rd != 5 {
		t.Errorf("expected rd=5, got %d", rd)
	}
	imm := word >> 12
	if imm != 0x10 {
		t.Errorf("expected imm[31:12]=0x10, got %#x", imm)
	}
}

func TestEncoder_ResetClearsState(t *testing.T) {
	e := encoder.New()
	e.EmitJAL(0, 0)
	e.Reset()
	if len(e.Output) != 0 || len(e.Trace) != 0 {
		t.Errorf("expected empty state after reset, got %d bytes, %d trace lines", len(e.Output), len(e.Trace))
	}
}

func TestParseRegister_Valid(t *testing.T) {
	for _, tok := range []string{"x0", "x5", "x31"} {
		if _, err := encoder.ParseRegister(tok); err != nil {
			t.Errorf("expected %q to parse, got error: %v", tok, err)
		}
	}
}

func TestParseRegister_Invalid(t *testing.T) {
	for _, tok := range []string{"x32", "r5", "sp", ""} {
		if _, err := encoder.ParseRegister(tok); err == nil {
			t.Errorf("expected %q to be rejected", tok)
		}
	}
}
