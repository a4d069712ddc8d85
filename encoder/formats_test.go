package encoder

import "testing"

// decodeR/decodeI/etc mirror the bit layouts in formats.go in reverse, used
// only to verify the encoder round-trips field values correctly.

func decodeR(word uint32) (opcode, funct3, funct7, rd, rs1, rs2 uint32) {
	opcode = word & 0x7F
	rd = (word >> 7) & 0x1F
	funct3 = (word >> 12) & 0x7
	rs1 = (word >> 15) & 0x1F
	rs2 = (word >> 20) & 0x1F
	funct7 = (word >> 25) & 0x7F
	return
}

func decodeI(word uint32) (opcode, funct3, rd, rs1 uint32, imm int64) {
	opcode = word & 0x7F
	rd = (word >> 7) & 0x1F
	funct3 = (word >> 12) & 0x7
	rs1 = (word >> 15) & 0x1F
	raw := int32(word) >> 20
	imm = int64(raw)
	return
}

func decodeS(word uint32) (opcode, funct3, rs1, rs2 uint32, imm int64) {
	opcode = word & 0x7F
	lo := (word >> 7) & 0x1F
	funct3 = (word >> 12) & 0x7
	rs1 = (word >> 15) & 0x1F
	rs2 = (word >> 20) & 0x1F
	hi := (word >> 25) & 0x7F
	raw := (hi << 5) | lo
	// sign-extend from bit 11
	signExtended := int32(raw<<20) >> 20
	imm = int64(signExtended)
	return
}

func decodeB(word uint32) (opcode, funct3, rs1, rs2 uint32, imm int64) {
	opcode = word & 0x7F
	imm11 := (word >> 7) & 0x1
	imm4_1 := (word >> 8) & 0xF
	funct3 = (word >> 12) & 0x7
	rs1 = (word >> 15) & 0x1F
	rs2 = (word >> 20) & 0x1F
	imm10_5 := (word >> 25) & 0x3F
	imm12 := (word >> 31) & 0x1

	raw := (imm12 << 12) | (imm11 << 11) | (imm10_5 << 5) | (imm4_1 << 1)
	signExtended := int32(raw<<19) >> 19
	imm = int64(signExtended)
	return
}

func decodeU(word uint32) (opcode, rd, imm20 uint32) {
	opcode = word & 0x7F
	rd = (word >> 7) & 0x1F
	imm20 = (word >> 12) & 0xFFFFF
	return
}

func decodeJ(word uint32) (opcode, rd uint32, imm int64) {
	opcode = word & 0x7F
	rd = (word >> 7) & 0x1F
	imm19_12 := (word >> 12) & 0xFF
	imm11 := (word >> 20) & 0x1
	imm10_1 := (word >> 21) & 0x3FF
	imm20 := (word >> 31) & 0x1

	raw := (imm20 << 20) | (imm19_12 << 12) | (imm11 << 11) | (imm10_1 << 1)
	signExtended := int32(raw<<11) >> 11
	imm = int64(signExtended)
	return
}

func TestPackR_RoundTrip(t *testing.T) {
	word := packR(opcodeOp, funct3AddSub, funct7Sub, 5, 6, 7)
	opcode, funct3, funct7, rd, rs1, rs2 := decodeR(word)
	if opcode != opcodeOp || funct3 != funct3AddSub || funct7 != funct7Sub || rd != 5 || rs1 != 6 || rs2 != 7 {
		t.Errorf("round-trip mismatch: %#x -> opcode=%#x funct3=%d funct7=%#x rd=%d rs1=%d rs2=%d",
			word, opcode, funct3, funct7, rd, rs1, rs2)
	}
}

func TestPackI_RoundTrip(t *testing.T) {
	for _, imm := range []int64{0, 7, -1, 2047, -2048} {
		word := packI(opcodeOpImm, funct3AddSub, 5, 0, imm)
		opcode, funct3, rd, rs1, gotImm := decodeI(word)
		if opcode != opcodeOpImm || funct3 != funct3AddSub || rd != 5 || rs1 != 0 || gotImm != imm {
			t.Errorf("imm %d: round-trip mismatch: opcode=%#x funct3=%d rd=%d rs1=%d imm=%d",
				imm, opcode, funct3, rd, rs1, gotImm)
		}
	}
}

func TestPackS_RoundTrip(t *testing.T) {
	for _, imm := range []int64{0, 8, -8, 2047, -2048} {
		word := packS(opcodeStore, funct3Ld, 1, 2, imm)
		opcode, funct3, rs1, rs2, gotImm := decodeS(word)
		if opcode != opcodeStore || funct3 != funct3Ld || rs1 != 1 || rs2 != 2 || gotImm != imm {
			t.Errorf("imm %d: round-trip mismatch: opcode=%#x funct3=%d rs1=%d rs2=%d imm=%d",
				imm, opcode, funct3, rs1, rs2, gotImm)
		}
	}
}

func TestPackB_RoundTrip(t *testing.T) {
	for _, imm := range []int64{0, 4, -4, 4092, -4096} {
		word := packB(opcodeBranch, funct3Bge, 4, 2, imm)
		opcode, funct3, rs1, rs2, gotImm := decodeB(word)
		if opcode != opcodeBranch || funct3 != funct3Bge || rs1 != 4 || rs2 != 2 || gotImm != imm {
			t.Errorf("imm %d: round-trip mismatch: opcode=%#x funct3=%d rs1=%d rs2=%d imm=%d",
				imm, opcode, funct3, rs1, rs2, gotImm)
		}
	}
}

func TestPackU_RoundTrip(t *testing.T) {
	word := packU(opcodeLUI, 5, 0x10)
	opcode, rd, imm20 := decodeU(word)
	if opcode != opcodeLUI || rd != 5 || imm20 != 0x10 {
		t.Errorf("round-trip mismatch: opcode=%#x rd=%d imm20=%#x", opcode, rd, imm20)
	}
}

func TestPackJ_RoundTrip(t *testing.T) {
	for _, imm := range []int64{0, 4, -4, 1048572, -1048576} {
		word := packJ(opcodeJAL, 0, imm)
		opcode, rd, gotImm := decodeJ(word)
		if opcode != opcodeJAL || rd != 0 || gotImm != imm {
			t.Errorf("imm %d: round-trip mismatch: opcode=%#x rd=%d imm=%d", imm, opcode, rd, gotImm)
		}
	}
}
