package tools

import (
	"fmt"
	"sort"
	"strings"

	"github.com/multixspace/msa/lexer"
	"github.com/multixspace/msa/resolver"
)

// ReferenceType indicates how a symbol is used
type ReferenceType int

const (
	RefDefinition ReferenceType = iota // Symbol defined here
	RefJump                            // Unconditional jump target
	RefCall                            // Call target ([--reg] form)
	RefBranch                          // Identifier operand of a range/while/if opener
	RefValueUse                        // Constant used as a value elsewhere
)

func (r ReferenceType) String() string {
	switch r {
	case RefDefinition:
		return "definition"
	case RefJump:
		return "jump"
	case RefCall:
		return "call"
	case RefBranch:
		return "branch"
	case RefValueUse:
		return "value"
	default:
		return "unknown"
	}
}

// Reference represents a single reference to a symbol
type Reference struct {
	Type   ReferenceType
	Line   int
	Source string // Source line text
}

// Symbol represents a symbol and all its references
type Symbol struct {
	Name       string
	Definition *Reference   // Where it's defined
	References []*Reference // Where it's used
	Value      int64        // Constant value, if IsConstant
	IsConstant bool         // True for pre-code constant definitions
	IsFunction bool         // True if referenced by a call site
}

// XRefGenerator generates cross-reference information for MULTIX source,
// without compiling it.
type XRefGenerator struct {
	symbols map[string]*Symbol
}

// NewXRefGenerator creates a new cross-reference generator
func NewXRefGenerator() *XRefGenerator {
	return &XRefGenerator{
		symbols: make(map[string]*Symbol),
	}
}

// Generate generates cross-reference information from source code
func (x *XRefGenerator) Generate(input, filename string) (map[string]*Symbol, error) {
	lines, err := lexer.Prepare(input, filename)
	if err != nil {
		return nil, fmt.Errorf("lex error: %w", err)
	}

	x.collectDefinitions(lines)
	x.collectReferences(lines)
	x.analyzeCallGraph()

	return x.symbols, nil
}

// collectDefinitions walks every line once, recording the entry point,
// named labels, and pre-code constant definitions.
func (x *XRefGenerator) collectDefinitions(lines []lexer.Line) {
	inCode := false
	for _, line := range lines {
		tokens := strings.Fields(line.Text)
		if len(tokens) == 0 {
			continue
		}

		switch {
		case tokens[0] == ":":
			x.defineLabel(":", line)
			inCode = true

		case len(tokens) == 2 && tokens[1] == ":" && tokens[0] != ":":
			x.defineLabel(tokens[0], line)
			inCode = true

		case !inCode && len(tokens) == 2 && isIdentifier(tokens[0]):
			x.defineConstant(tokens[0], tokens[1], line)
		}
	}
}

func (x *XRefGenerator) defineLabel(name string, line lexer.Line) {
	sym := x.symbolFor(name)
	sym.Definition = &Reference{Type: RefDefinition, Line: line.LineNo, Source: line.Text}
}

func (x *XRefGenerator) defineConstant(name, valueTok string, line lexer.Line) {
	sym := x.symbolFor(name)
	sym.Definition = &Reference{Type: RefDefinition, Line: line.LineNo, Source: line.Text}
	sym.IsConstant = true
	sym.Value = resolver.Resolve(valueTok, nil)
}

// collectReferences finds jump, call, and branch-opener targets, plus any
// bare identifier used as a value operand elsewhere.
func (x *XRefGenerator) collectReferences(lines []lexer.Line) {
	inCode := false
	for _, line := range lines {
		tokens := strings.Fields(line.Text)
		if len(tokens) == 0 {
			continue
		}

		switch {
		case tokens[0] == ":", len(tokens) == 2 && tokens[1] == ":" && tokens[0] != ":":
			inCode = true

		case len(tokens) == 1 && isIdentifier(tokens[0]):
			x.addReference(tokens[0], RefJump, line.LineNo, line.Text)

		case len(tokens) == 2 && isIdentifier(tokens[0]) && looksLikeBracket(tokens[1]):
			x.addReference(tokens[0], RefCall, line.LineNo, line.Text)

		case (tokens[0] == "&" || tokens[0] == "?") && len(tokens) >= 4:
			for _, tok := range tokens[1:3] {
				if isIdentifier(tok) {
					x.addReference(tok, RefBranch, line.LineNo, line.Text)
				}
			}

		default:
			if !inCode {
				continue
			}
			for i, tok := range tokens {
				if i == 0 {
					continue
				}
				if isIdentifier(tok) {
					x.addReference(tok, RefValueUse, line.LineNo, line.Text)
				}
			}
		}
	}
}

func (x *XRefGenerator) symbolFor(name string) *Symbol {
	sym, exists := x.symbols[name]
	if !exists {
		sym = &Symbol{Name: name, References: make([]*Reference, 0)}
		x.symbols[name] = sym
	}
	return sym
}

func (x *XRefGenerator) addReference(name string, refType ReferenceType, line int, source string) {
	sym := x.symbolFor(name)
	sym.References = append(sym.References, &Reference{Type: refType, Line: line, Source: source})
}

// analyzeCallGraph determines which symbols are call targets.
func (x *XRefGenerator) analyzeCallGraph() {
	for _, symbol := range x.symbols {
		for _, ref := range symbol.References {
			if ref.Type == RefCall {
				symbol.IsFunction = true
				break
			}
		}
	}
}

// XRefReport generates a formatted cross-reference report
type XRefReport struct {
	symbols []*Symbol
}

// NewXRefReport creates a new cross-reference report
func NewXRefReport(symbols map[string]*Symbol) *XRefReport {
	sortedSymbols := make([]*Symbol, 0, len(symbols))
	for _, sym := range symbols {
		sortedSymbols = append(sortedSymbols, sym)
	}
	sort.Slice(sortedSymbols, func(i, j int) bool {
		return sortedSymbols[i].Name < sortedSymbols[j].Name
	})

	return &XRefReport{symbols: sortedSymbols}
}

// String generates a text report
func (r *XRefReport) String() string {
	var sb strings.Builder

	sb.WriteString("Symbol Cross-Reference\n")
	sb.WriteString("======================\n\n")

	for _, sym := range r.symbols {
		sb.WriteString(fmt.Sprintf("%-30s", sym.Name))

		switch {
		case sym.IsConstant:
			sb.WriteString(fmt.Sprintf(" [constant=%d]", sym.Value))
		case sym.IsFunction:
			sb.WriteString(" [callable]")
		default:
			sb.WriteString(" [label]")
		}
		sb.WriteString("\n")

		if sym.Definition != nil {
			sb.WriteString(fmt.Sprintf("  Defined:     line %d\n", sym.Definition.Line))
		} else {
			sb.WriteString("  Defined:     (undefined)\n")
		}

		if len(sym.References) == 0 {
			sb.WriteString("  Referenced:  (never)\n")
		} else {
			sb.WriteString(fmt.Sprintf("  Referenced:  %d time(s)\n", len(sym.References)))

			refsByType := make(map[ReferenceType][]*Reference)
			for _, ref := range sym.References {
				refsByType[ref.Type] = append(refsByType[ref.Type], ref)
			}

			types := []ReferenceType{RefCall, RefJump, RefBranch, RefValueUse}
			for _, refType := range types {
				refs := refsByType[refType]
				if len(refs) > 0 {
					linesList := make([]string, len(refs))
					for i, ref := range refs {
						linesList[i] = fmt.Sprintf("%d", ref.Line)
					}
					sb.WriteString(fmt.Sprintf("    %-10s: line(s) %s\n", refType.String(), strings.Join(linesList, ", ")))
				}
			}
		}

		sb.WriteString("\n")
	}

	totalSymbols := len(r.symbols)
	definedSymbols := 0
	undefinedSymbols := 0
	unusedSymbols := 0
	functionCount := 0

	for _, sym := range r.symbols {
		if sym.Definition != nil {
			definedSymbols++
		} else {
			undefinedSymbols++
		}
		if len(sym.References) == 0 && sym.Name != EntryLabelName {
			unusedSymbols++
		}
		if sym.IsFunction {
			functionCount++
		}
	}

	sb.WriteString("Summary\n")
	sb.WriteString("=======\n")
	sb.WriteString(fmt.Sprintf("Total symbols:     %d\n", totalSymbols))
	sb.WriteString(fmt.Sprintf("Defined:           %d\n", definedSymbols))
	sb.WriteString(fmt.Sprintf("Undefined:         %d\n", undefinedSymbols))
	sb.WriteString(fmt.Sprintf("Unused:            %d\n", unusedSymbols))
	sb.WriteString(fmt.Sprintf("Callable:          %d\n", functionCount))

	return sb.String()
}

// GenerateXRef is a convenience function to generate a cross-reference report
func GenerateXRef(input, filename string) (string, error) {
	gen := NewXRefGenerator()
	symbols, err := gen.Generate(input, filename)
	if err != nil {
		return "", err
	}

	report := NewXRefReport(symbols)
	return report.String(), nil
}

// GetSymbols returns all symbols found in the source
func (x *XRefGenerator) GetSymbols() map[string]*Symbol {
	return x.symbols
}

// GetSymbol returns a specific symbol by name
func (x *XRefGenerator) GetSymbol(name string) (*Symbol, bool) {
	sym, exists := x.symbols[name]
	return sym, exists
}

// GetFunctions returns all symbols that are call targets
func (x *XRefGenerator) GetFunctions() []*Symbol {
	functions := make([]*Symbol, 0)
	for _, sym := range x.symbols {
		if sym.IsFunction {
			functions = append(functions, sym)
		}
	}
	sort.Slice(functions, func(i, j int) bool {
		return functions[i].Name < functions[j].Name
	})
	return functions
}

// GetConstants returns all symbols defined as pre-code constants
func (x *XRefGenerator) GetConstants() []*Symbol {
	constants := make([]*Symbol, 0)
	for _, sym := range x.symbols {
		if sym.IsConstant {
			constants = append(constants, sym)
		}
	}
	sort.Slice(constants, func(i, j int) bool {
		return constants[i].Name < constants[j].Name
	})
	return constants
}

// GetUndefinedSymbols returns all symbols that are referenced but not defined
func (x *XRefGenerator) GetUndefinedSymbols() []*Symbol {
	undefined := make([]*Symbol, 0)
	for _, sym := range x.symbols {
		if sym.Definition == nil && len(sym.References) > 0 {
			undefined = append(undefined, sym)
		}
	}
	sort.Slice(undefined, func(i, j int) bool {
		return undefined[i].Name < undefined[j].Name
	})
	return undefined
}

// GetUnusedSymbols returns all symbols that are defined but never referenced
func (x *XRefGenerator) GetUnusedSymbols() []*Symbol {
	unused := make([]*Symbol, 0)
	for _, sym := range x.symbols {
		if sym.Definition != nil && len(sym.References) == 0 {
			if sym.Name != EntryLabelName {
				unused = append(unused, sym)
			}
		}
	}
	sort.Slice(unused, func(i, j int) bool {
		return unused[i].Name < unused[j].Name
	})
	return unused
}

// EntryLabelName is the sentinel entry-point symbol, exempt from unused
// reporting.
const EntryLabelName = ":"
