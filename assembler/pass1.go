package assembler

import (
	"strings"

	"github.com/multixspace/msa/blocks"
	"github.com/multixspace/msa/lexer"
	"github.com/multixspace/msa/resolver"
)

// closeCost returns the byte contribution of closing a block of the given
// kind (§4.4's "Block closer" rows).
func closeCost(kind blocks.Kind) int64 {
	switch kind {
	case blocks.KindWhile:
		return WhileCloseBytes
	case blocks.KindRange:
		return RangeCloseBytes
	default:
		return IfCloseBytes
	}
}

// pass1Result carries everything pass 2 needs: the resolved symbol table,
// the origin, and the final program counter (for the size-consistency
// check in §8).
type pass1Result struct {
	Symbols  *SymbolTable
	Origin   int64
	FinalPC  int64
}

// runPass1 walks lines once, sizing every line via Classify and recording
// every constant and label address. It owns its own Tracker — pass 2
// constructs a fresh one and, walking the identical line sequence, arrives
// at identical auto-label names.
func runPass1(lines []lexer.Line, filename string) (*pass1Result, *Error) {
	syms := NewSymbolTable()
	tracker := blocks.New()

	var pc int64
	var origin int64
	inCode := false

	for _, line := range lines {
		pos := lexer.Position{Filename: filename, Line: line.LineNo}
		tokens := strings.Fields(line.Text)

		closed := tracker.CloseTo(line.Indent)
		for _, frame := range closed {
			pc += closeCost(frame.Kind)
			if err := syms.DefineLabel(frame.End, pc); err != nil {
				return nil, NewError(pos, ErrDuplicateSymbol, err.Error(), line.Text)
			}
		}

		c, cerr := Classify(tokens, inCode, pos)
		if cerr != nil {
			return nil, cerr
		}

		switch c.Kind {
		case KindConstantDef:
			name := tokens[0]
			value := resolver.Resolve(tokens[1], syms)
			if err := syms.DefineConstant(name, value); err != nil {
				return nil, NewError(pos, ErrDuplicateSymbol, err.Error(), line.Text)
			}

		case KindEntryPoint:
			var value int64
			if len(tokens) > 1 {
				value = resolver.Resolve(tokens[1], syms)
			}
			origin = value
			pc = origin
			if err := syms.DefineLabel(EntryLabel, pc); err != nil {
				return nil, NewError(pos, ErrDuplicateSymbol, err.Error(), line.Text)
			}
			inCode = true

		case KindNamedLabel:
			if err := syms.DefineLabel(tokens[0], pc); err != nil {
				return nil, NewError(pos, ErrDuplicateSymbol, err.Error(), line.Text)
			}
			inCode = true

		case KindWhileOpener:
			frame := tracker.Open(blocks.KindWhile, line.Indent)
			if err := syms.DefineLabel(frame.Start, pc); err != nil {
				return nil, NewError(pos, ErrDuplicateSymbol, err.Error(), line.Text)
			}
			pc += int64(c.ByteCost)

		case KindRangeOpener:
			step := int64(1)
			if len(tokens) >= 5 {
				step = resolver.Resolve(tokens[4], syms)
			}
			frame := tracker.OpenRange(line.Indent, tokens[1], step)
			if err := syms.DefineLabel(frame.Start, pc+4); err != nil {
				return nil, NewError(pos, ErrDuplicateSymbol, err.Error(), line.Text)
			}
			pc += int64(c.ByteCost)

		case KindIfOpener:
			tracker.Open(blocks.KindIf, line.Indent)
			pc += int64(c.ByteCost)

		case KindBreak, KindContinue:
			if _, ok := tracker.InnermostLoop(); !ok {
				return nil, NewError(pos, ErrBreakContinueOutsideLoop, "no enclosing loop", line.Text)
			}
			pc += int64(c.ByteCost)

		default:
			pc += int64(c.ByteCost)
		}
	}

	closed := tracker.CloseAll()
	for _, frame := range closed {
		pc += closeCost(frame.Kind)
		pos := lexer.Position{Filename: filename, Line: -1}
		if err := syms.DefineLabel(frame.End, pc); err != nil {
			return nil, NewError(pos, ErrDuplicateSymbol, err.Error(), "")
		}
	}

	return &pass1Result{Symbols: syms, Origin: origin, FinalPC: pc}, nil
}
