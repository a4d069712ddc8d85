// Package encoder packs RV64I instruction fields into little-endian 32-bit
// machine words and renders a trace mnemonic for every emitted word.
package encoder

// RISC-V base opcodes used by the primitives pass 2 synthesizes.
const (
	opcodeLoad   = 0x03 // LD
	opcodeOpImm  = 0x13 // ADDI/ANDI/ORI/XORI
	opcodeAUIPC  = 0x17
	opcodeStore  = 0x23 // SD
	opcodeOp     = 0x33 // ADD/SUB/AND/OR/XOR
	opcodeLUI    = 0x37
	opcodeBranch = 0x63 // BEQ/BNE/BLT/BGE
	opcodeJALR   = 0x67
	opcodeJAL    = 0x6F
)

// funct3 selectors.
const (
	funct3AddSub = 0x0
	funct3Xor    = 0x4
	funct3Or     = 0x6
	funct3And    = 0x7
	funct3Ld     = 0x3 // 64-bit load/store width
	funct3Beq    = 0x0
	funct3Bne    = 0x1
	funct3Blt    = 0x4
	funct3Bge    = 0x5
	funct3Jalr   = 0x0
)

// funct7 selectors for the R-type ADD/SUB distinction.
const (
	funct7Add = 0x00
	funct7Sub = 0x20
)

// packR builds an R-type word: funct7(7) rs2(5) rs1(5) funct3(3) rd(5) opcode(7).
func packR(opcode, funct3, funct7, rd, rs1, rs2 uint32) uint32 {
	return (funct7 << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

// packI builds an I-type word: imm[11:0](12) rs1(5) funct3(3) rd(5) opcode(7).
// imm is truncated to its low 12 bits (the caller is responsible for range
// checks where the spec requires one).
func packI(opcode, funct3, rd, rs1 uint32, imm int64) uint32 {
	imm12 := uint32(imm) & 0xFFF
	return (imm12 << 20) | (rs1 << 15) | (funct3 << 12) | (rd << 7) | opcode
}

// packS builds an S-type word with the ISA's split 7/5 immediate placement:
// imm[11:5](7) rs2(5) rs1(5) funct3(3) imm[4:0](5) opcode(7).
func packS(opcode, funct3, rs1, rs2 uint32, imm int64) uint32 {
	imm12 := uint32(imm) & 0xFFF
	hi := (imm12 >> 5) & 0x7F
	lo := imm12 & 0x1F
	return (hi << 25) | (rs2 << 20) | (rs1 << 15) | (funct3 << 12) | (lo << 7) | opcode
}

// packB builds a B-type word. imm is a signed byte offset, must be even;
// the ISA scrambles the bit layout so that imm[0] is never stored (branch
// targets are always 2-byte aligned, and MULTIX only ever emits 4-byte
// aligned branches).
func packB(opcode, funct3, rs1, rs2 uint32, imm int64) uint32 {
	u := uint32(imm)
	imm12 := (u >> 12) & 0x1
	imm11 := (u >> 11) & 0x1
	imm10_5 := (u >> 5) & 0x3F
	imm4_1 := (u >> 1) & 0xF

	return (imm12 << 31) | (imm10_5 << 25) | (rs2 << 20) | (rs1 << 15) |
		(funct3 << 12) | (imm4_1 << 8) | (imm11 << 7) | opcode
}

// packU builds a U-type word: imm[31:12](20) rd(5) opcode(7).
func packU(opcode, rd, imm20 uint32) uint32 {
	return (imm20 << 12) | (rd << 7) | opcode
}

// packJ builds a J-type word. imm is a signed byte offset, must be even.
func packJ(opcode, rd uint32, imm int64) uint32 {
	u := uint32(imm)
	imm20 := (u >> 20) & 0x1
	imm10_1 := (u >> 1) & 0x3FF
	imm11 := (u >> 11) & 0x1
	imm19_12 := (u >> 12) & 0xFF

	return (imm20 << 31) | (imm10_1 << 21) | (imm11 << 20) | (imm19_12 << 12) | (rd << 7) | opcode
}
