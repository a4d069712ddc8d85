package encoder

import "fmt"

// ArithOp identifies one of the three-operand arithmetic operators MULTIX
// exposes. Only '+' is fully exercised by the shipped programs; the other
// four are generated symmetrically.
type ArithOp int

const (
	OpAdd ArithOp = iota
	OpSub
	OpOr
	OpAnd
	OpXor
)

func (op ArithOp) String() string {
	switch op {
	case OpAdd:
		return "add"
	case OpSub:
		return "sub"
	case OpOr:
		return "or"
	case OpAnd:
		return "and"
	case OpXor:
		return "xor"
	default:
		return "?"
	}
}

func (op ArithOp) funct3() uint32 {
	switch op {
	case OpAdd, OpSub:
		return funct3AddSub
	case OpOr:
		return funct3Or
	case OpAnd:
		return funct3And
	case OpXor:
		return funct3Xor
	default:
		return 0
	}
}

func (op ArithOp) funct7() uint32 {
	if op == OpSub {
		return funct7Sub
	}
	return funct7Add
}

// immOpName returns the register-immediate mnemonic for op. SUB has no
// immediate form in RV64I — callers negate the immediate and use ADDI.
func (op ArithOp) immOpName() string {
	switch op {
	case OpAdd, OpSub:
		return "addi"
	case OpOr:
		return "ori"
	case OpAnd:
		return "andi"
	case OpXor:
		return "xori"
	default:
		return "?"
	}
}

// EmitArithReg emits the three-register form: rd = rs1 OP rs2.
func (e *Encoder) EmitArithReg(op ArithOp, rd, rs1, rs2 uint32) {
	word := packR(opcodeOp, op.funct3(), op.funct7(), rd, rs1, rs2)
	e.emit(word, fmt.Sprintf("%s %s, %s, %s", op, regName(rd), regName(rs1), regName(rs2)))
}

// EmitArithImm emits the register-immediate form: rd = rs1 OP imm.
// For OpSub the immediate is negated so a single ADDI covers it.
func (e *Encoder) EmitArithImm(op ArithOp, rd, rs1 uint32, imm int64) {
	name := op.immOpName()
	useImm := imm
	if op == OpSub {
		useImm = -imm
	}
	word := packI(opcodeOpImm, op.funct3(), rd, rs1, useImm)
	e.emit(word, fmt.Sprintf("%s %s, %s, %d", name, regName(rd), regName(rs1), useImm))
}

// EmitMove emits a register-to-register move as "addi rd, rs, 0".
func (e *Encoder) EmitMove(rd, rs uint32) {
	word := packI(opcodeOpImm, funct3AddSub, rd, rs, 0)
	e.emit(word, fmt.Sprintf("mv %s, %s", regName(rd), regName(rs)))
}

// EmitLoadImmSmall emits "addi rd, x0, imm" for imm in [-2048, 2047].
func (e *Encoder) EmitLoadImmSmall(rd uint32, imm int64) {
	word := packI(opcodeOpImm, funct3AddSub, rd, 0, imm)
	e.emit(word, fmt.Sprintf("li %s, %d", regName(rd), imm))
}

// EmitLUI emits "lui rd, imm20", the high 20 bits of a constant. The low 12
// bits are discarded by this single-instruction path (spec.md §4.5).
func (e *Encoder) EmitLUI(rd uint32, imm20 uint32) {
	word := packU(opcodeLUI, rd, imm20&0xFFFFF)
	e.emit(word, fmt.Sprintf("lui %s, 0x%x", regName(rd), imm20&0xFFFFF))
}

// EmitAUIPC emits "auipc rd, imm20" — used by the call sequence to capture
// the current pc into a scratch register.
func (e *Encoder) EmitAUIPC(rd uint32, imm20 uint32) {
	word := packU(opcodeAUIPC, rd, imm20&0xFFFFF)
	e.emit(word, fmt.Sprintf("auipc %s, 0x%x", regName(rd), imm20&0xFFFFF))
}
