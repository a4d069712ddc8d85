package encoder

import "fmt"

// EmitBEQ emits "beq rs1, rs2, offset".
func (e *Encoder) EmitBEQ(rs1, rs2 uint32, offset int64) {
	e.emitBranch("beq", funct3Beq, rs1, rs2, offset)
}

// EmitBNE emits "bne rs1, rs2, offset".
func (e *Encoder) EmitBNE(rs1, rs2 uint32, offset int64) {
	e.emitBranch("bne", funct3Bne, rs1, rs2, offset)
}

// EmitBLT emits "blt rs1, rs2, offset" (rs1 < rs2, signed).
func (e *Encoder) EmitBLT(rs1, rs2 uint32, offset int64) {
	e.emitBranch("blt", funct3Blt, rs1, rs2, offset)
}

// EmitBGE emits "bge rs1, rs2, offset" (rs1 >= rs2, signed).
func (e *Encoder) EmitBGE(rs1, rs2 uint32, offset int64) {
	e.emitBranch("bge", funct3Bge, rs1, rs2, offset)
}

func (e *Encoder) emitBranch(name string, funct3, rs1, rs2 uint32, offset int64) {
	word := packB(opcodeBranch, funct3, rs1, rs2, offset)
	e.emit(word, fmt.Sprintf("%s %s, %s, %d", name, regName(rs1), regName(rs2), offset))
}

// EmitJAL emits "jal rd, offset" — an unconditional jump. rd=0 discards the
// link register, which is how halt (self-jump) and plain unconditional
// jumps are built.
func (e *Encoder) EmitJAL(rd uint32, offset int64) {
	word := packJ(opcodeJAL, rd, offset)
	e.emit(word, fmt.Sprintf("jal %s, %d", regName(rd), offset))
}

// EmitJALR emits "jalr rd, imm(rs1)" — an indirect jump through rs1.
func (e *Encoder) EmitJALR(rd, rs1 uint32, imm int64) {
	word := packI(opcodeJALR, funct3Jalr, rd, rs1, imm)
	e.emit(word, fmt.Sprintf("jalr %s, %d(%s)", regName(rd), imm, regName(rs1)))
}
