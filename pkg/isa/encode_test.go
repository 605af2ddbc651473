package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEncodeDecodeRegFormatRoundTrip(t *testing.T) {
	inst := Instruction{ID: Add, Format: FormatReg, DR: RegS0, SR1: RegS1, SR2: RegS2}
	enc := Encode(inst)
	assert.Equal(t, 4, enc.NBytes)
	assert.Equal(t, uint32(1), enc.Word&1, "bitmode bit must be set for fullword")

	got := Decode(enc)
	assert.Equal(t, inst, got)
}

func TestEncodeDecodeImmediateFormatRoundTrip(t *testing.T) {
	for _, imm := range []int32{0, 1, -1, 8191, -8192} {
		inst := Instruction{ID: Addi, Format: FormatImmediate, DR: RegT0, SR1: RegT1, Immediate: imm}
		got := Decode(Encode(inst))
		assert.Equal(t, inst, got, "immediate %d", imm)
	}
}

func TestEncodeDecodeUnsignedImmediateFormat(t *testing.T) {
	inst := Instruction{ID: Andi, Format: FormatImmediate, DR: RegT0, SR1: RegT1, Immediate: 0x3FFF}
	got := Decode(Encode(inst))
	assert.Equal(t, inst, got)
}

func TestEncodeDecodeSetFormatRoundTrip(t *testing.T) {
	inst := Instruction{ID: Sli, Format: FormatSet, DR: RegS3, Immediate: -12345}
	got := Decode(Encode(inst))
	assert.Equal(t, inst, got)
}

func TestEncodeDecodeSuiUpperShift(t *testing.T) {
	// Sui stores the upper 21 bits of a 32-bit target; the low 11
	// bits are necessarily lost and must decode back as zero.
	inst := Instruction{ID: Sui, Format: FormatSet, DR: RegS3, Immediate: int32(0xABCDE800)}
	got := Decode(Encode(inst))
	assert.Equal(t, Instruction{ID: Sui, Format: FormatSet, DR: RegS3, Immediate: int32(0xABCDE800)}, got)
}

func TestEncodeDecodeJumpFormatRoundTrip(t *testing.T) {
	for _, imm := range []int32{0, 2, -2, 66666630, -66666630} {
		inst := Instruction{ID: Rji, Format: FormatJump, Immediate: imm}
		got := Decode(Encode(inst))
		assert.Equal(t, inst, got, "immediate %d", imm)
	}
}

func TestEncodeDecodeRjaliImpliesRA(t *testing.T) {
	inst := Instruction{ID: Rjali, Format: FormatJump, Immediate: 1024}
	got := Decode(Encode(inst))
	assert.Equal(t, RegRA, got.DR)
	assert.Equal(t, inst.Immediate, got.Immediate)
}

func TestEncodeDecodeBranchFormatRoundTrip(t *testing.T) {
	for _, imm := range []int32{0, 2, -2, 16382, -16384} {
		inst := Instruction{ID: Beq, Format: FormatBranch, SR1: RegT2, SR2: RegT3, Immediate: imm}
		got := Decode(Encode(inst))
		assert.Equal(t, inst, got, "immediate %d", imm)
	}
}

func TestEncodeDecodeDataAccessDoesNotHalveImmediate(t *testing.T) {
	inst := Instruction{ID: Lw, Format: FormatBranch, SR1: RegSP, SR2: RegT0, Immediate: 7}
	got := Decode(Encode(inst))
	assert.Equal(t, inst, got)
}

func TestEncodeDecodeHalfRegRoundTrip(t *testing.T) {
	inst := Instruction{ID: AddH, Format: FormatHalfReg, DR: RegS0, SR1: RegS0, SR2: RegS1}
	enc := Encode(inst)
	assert.Equal(t, 2, enc.NBytes)
	assert.Equal(t, uint32(0), enc.Word&1, "bitmode bit must be clear for halfword")

	got := Decode(enc)
	assert.Equal(t, inst, got)
}

func TestEncodeDecodeMovHImpliesZeroSR1(t *testing.T) {
	inst := Instruction{ID: MovH, Format: FormatHalfReg, DR: RegS0, SR1: RegZero, SR2: RegS1}
	got := Decode(Encode(inst))
	assert.Equal(t, inst, got)
}

func TestEncodeDecodeHalfImmediateRoundTrip(t *testing.T) {
	inst := Instruction{ID: LsftiH, Format: FormatHalfImmediate, DR: RegS0, SR1: RegS0, Immediate: 17}
	got := Decode(Encode(inst))
	assert.Equal(t, inst, got)
}

func TestDecodeInvalidOpcodeIsInvalid(t *testing.T) {
	got := Decode(EncodedInstruction{NBytes: 4, Word: 1 | (30 << posOpcode)})
	assert.Equal(t, Invalid, got.ID)
}

func TestDecodeInvalidHalfwordOpcodeIsInvalid(t *testing.T) {
	got := Decode(EncodedInstruction{NBytes: 2, Word: 31 << posHalfOpcode})
	assert.Equal(t, Invalid, got.ID)
}
