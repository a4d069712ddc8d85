package resolver_test

import (
	"testing"

	"github.com/multixspace/msa/resolver"
)

type fakeSymbols struct {
	constants map[string]int64
	labels    map[string]int64
}

func (f fakeSymbols) Constant(name string) (int64, bool) {
	v, ok := f.constants[name]
	return v, ok
}

func (f fakeSymbols) Label(name string) (int64, bool) {
	v, ok := f.labels[name]
	return v, ok
}

func TestResolve_Empty(t *testing.T) {
	if got := resolver.Resolve("", nil); got != 0 {
		t.Errorf("expected 0, got %d", got)
	}
}

func TestResolve_Decimal(t *testing.T) {
	if got := resolver.Resolve("42", nil); got != 42 {
		t.Errorf("expected 42, got %d", got)
	}
}

func TestResolve_Hex(t *testing.T) {
	if got := resolver.Resolve("0x10", nil); got != 16 {
		t.Errorf("expected 16, got %d", got)
	}
}

func TestResolve_CharLiteral(t *testing.T) {
	if got := resolver.Resolve("'A", nil); got != 65 {
		t.Errorf("expected 65, got %d", got)
	}
}

func TestResolve_KBSuffix(t *testing.T) {
	if got := resolver.Resolve("4kb", nil); got != 4096 {
		t.Errorf("expected 4096, got %d", got)
	}
	if got := resolver.Resolve("4KB", nil); got != 4096 {
		t.Errorf("expected 4096 (case-insensitive), got %d", got)
	}
}

func TestResolve_MBSuffix(t *testing.T) {
	if got := resolver.Resolve("2mb", nil); got != 2*1024*1024 {
		t.Errorf("expected 2MB, got %d", got)
	}
}

func TestResolve_ConstantBeforeLabel(t *testing.T) {
	syms := fakeSymbols{
		constants: map[string]int64{"RAM": 0x8000},
		labels:    map[string]int64{"RAM": 0x1234},
	}
	if got := resolver.Resolve("RAM", syms); got != 0x8000 {
		t.Errorf("expected constant to win, got %#x", got)
	}
}

func TestResolve_LabelIgnoresMultiplier(t *testing.T) {
	// "loopkb" strips to "loop" with multiplier 1024, but since it then
	// resolves as a label the multiplier must be ignored.
	syms := fakeSymbols{labels: map[string]int64{"loop": 0x100}}
	if got := resolver.Resolve("loopkb", syms); got != 0x100 {
		t.Errorf("expected label value unscaled (0x100), got %#x", got)
	}
}

func TestResolve_UnparsableFallsBackToZero(t *testing.T) {
	if got := resolver.Resolve("not-a-number", nil); got != 0 {
		t.Errorf("expected fallback 0, got %d", got)
	}
}
