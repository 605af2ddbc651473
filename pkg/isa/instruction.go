package isa

// Instruction is a logical, not-yet-encoded machine instruction. Which
// of DR/SR1/SR2/Immediate are meaningful is determined by the
// instruction's format (see Format.OperandForm).
type Instruction struct {
	ID        InstID
	Format    Format
	DR        Register
	SR1       Register
	SR2       Register
	Immediate int32
}

// EncodedInstruction is the bit-packed 16- or 32-bit form of an
// Instruction, ready to be appended to the text section.
type EncodedInstruction struct {
	NBytes int // 2 (halfword) or 4 (fullword)
	Word   uint32
}
