package encoder

import "fmt"

// EmitLoad emits "ld rd, imm(rs1)" — an 8-byte load.
func (e *Encoder) EmitLoad(rd, rs1 uint32, imm int64) {
	word := packI(opcodeLoad, funct3Ld, rd, rs1, imm)
	e.emit(word, fmt.Sprintf("ld %s, %d(%s)", regName(rd), imm, regName(rs1)))
}

// EmitStore emits "sd rs2, imm(rs1)" — an 8-byte store of rs2 at [rs1+imm].
func (e *Encoder) EmitStore(rs1, rs2 uint32, imm int64) {
	word := packS(opcodeStore, funct3Ld, rs1, rs2, imm)
	e.emit(word, fmt.Sprintf("sd %s, %d(%s)", regName(rs2), imm, regName(rs1)))
}
