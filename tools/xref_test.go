package tools_test

import (
	"strings"
	"testing"

	"github.com/multixspace/msa/tools"
)

func TestXRef_DefinitionAndCall(t *testing.T) {
	src := strings.Join([]string{
		": 0",
		"add_one [--x31]",
		"_",
		"add_one :",
		"x1 x1 + 1",
		"= [x31++]",
	}, "\n")

	gen := tools.NewXRefGenerator()
	symbols, err := gen.Generate(src, "test.msa")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	sym, ok := symbols["add_one"]
	if !ok {
		t.Fatal("expected symbol add_one")
	}
	if sym.Definition == nil {
		t.Error("expected add_one to have a definition")
	}
	if !sym.IsFunction {
		t.Error("expected add_one to be marked callable")
	}
}

func TestXRef_UndefinedSymbol(t *testing.T) {
	src := ": 0\nmissing\n_\n"
	gen := tools.NewXRefGenerator()
	symbols, err := gen.Generate(src, "test.msa")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	undefined := tools.NewXRefReport(symbols)
	_ = undefined

	sym, ok := symbols["missing"]
	if !ok || sym.Definition != nil {
		t.Error("expected missing to be referenced but undefined")
	}
}

func TestXRef_ConstantTracking(t *testing.T) {
	src := strings.Join([]string{
		"LIMIT 100",
		": 0",
		"x1 LIMIT",
		"_",
	}, "\n")

	gen := tools.NewXRefGenerator()
	symbols, err := gen.Generate(src, "test.msa")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	sym, ok := symbols["LIMIT"]
	if !ok || !sym.IsConstant || sym.Value != 100 {
		t.Errorf("expected LIMIT constant=100, got %+v", sym)
	}
	if len(sym.References) == 0 {
		t.Error("expected LIMIT to have a reference from the move line")
	}
}

func TestXRef_ReportString(t *testing.T) {
	src := ": 0\n_\n"
	report, err := tools.GenerateXRef(src, "test.msa")
	if err != nil {
		t.Fatalf("GenerateXRef failed: %v", err)
	}
	if !strings.Contains(report, "Symbol Cross-Reference") {
		t.Error("expected report header")
	}
}
