package isa

import "github.com/ydrojd/assembler/pkg/bits"

// Bit positions and widths from spec.md §4.B.
const (
	posBitmode = 0
	widBitmode = 1

	posOpcode = 1
	widOpcode = 5

	posFuncodeShort = 6
	widFuncodeShort = 2

	posFuncodeLong = 6
	widFuncodeLong = 6

	posImmImmediate = 8
	widImmImmediate = 14

	posImmSet = 6
	widImmSet = 21

	posImmJump = 6
	widImmJump = 26

	posBranchLower = 8
	widBranchLower = 9

	posBranchUpper = 27
	widBranchUpper = 5

	posSR2 = 17
	widSR2 = 5

	posSR1 = 22
	widSR1 = 5

	posDR = 27
	widDR = 5

	// Halfword layout.
	posHalfOpcode = 1
	widHalfOpcode = 5

	posHalfOperand = 6
	widHalfOperand = 5

	posHalfDR = 11
	widHalfDR = 5
)

// opcodeFormats / halfOpcodeFormats record the single format each
// opcode value belongs to, so decode can learn an instruction's field
// layout before it knows the instruction's identity.
var opcodeFormats, halfOpcodeFormats = buildOpcodeFormats()

func buildOpcodeFormats() (map[uint8]Format, map[uint8]Format) {
	full := make(map[uint8]Format)
	half := make(map[uint8]Format)
	for _, d := range descriptors {
		if d.IsHalfword {
			if existing, ok := half[d.Opcode]; ok && existing != d.Format {
				panic("isa: halfword opcode used by two different formats")
			}
			half[d.Opcode] = d.Format
		} else {
			if existing, ok := full[d.Opcode]; ok && existing != d.Format {
				panic("isa: fullword opcode used by two different formats")
			}
			full[d.Opcode] = d.Format
		}
	}
	return full, half
}

// Encode packs a logical Instruction into its 16- or 32-bit wire
// form. The caller is responsible for having built inst with fields
// consistent with its format's operand form.
func Encode(inst Instruction) EncodedInstruction {
	d, ok := Lookup(inst.ID)
	if !ok {
		panic("isa: encoding unknown instruction id")
	}

	if d.IsHalfword {
		return encodeHalfword(d, inst)
	}
	return encodeFullword(d, inst)
}

func encodeFullword(d Descriptor, inst Instruction) EncodedInstruction {
	var word uint32
	bits.Place(&word, 1, posBitmode, widBitmode)
	bits.Place(&word, uint32(d.Opcode), posOpcode, widOpcode)

	switch d.Format {
	case FormatReg:
		bits.Place(&word, uint32(d.Funcode), posFuncodeLong, widFuncodeLong)
		bits.Place(&word, uint32(inst.SR2), posSR2, widSR2)
		bits.Place(&word, uint32(inst.SR1), posSR1, widSR1)
		bits.Place(&word, uint32(inst.DR), posDR, widDR)

	case FormatImmediate:
		bits.Place(&word, uint32(d.Funcode), posFuncodeShort, widFuncodeShort)
		bits.Place(&word, uint32(inst.Immediate), posImmImmediate, widImmImmediate)
		bits.Place(&word, uint32(inst.SR1), posSR1, widSR1)
		bits.Place(&word, uint32(inst.DR), posDR, widDR)

	case FormatSet:
		bits.Place(&word, encodeSetImmediate(d.ID, inst.Immediate), posImmSet, widImmSet)
		bits.Place(&word, uint32(inst.DR), posDR, widDR)

	case FormatJump:
		bits.Place(&word, encodeJumpOrBranchImmediate(d.ID, inst.Immediate), posImmJump, widImmJump)

	case FormatBranch:
		bits.Place(&word, uint32(d.Funcode), posFuncodeShort, widFuncodeShort)
		raw := encodeJumpOrBranchImmediate(d.ID, inst.Immediate)
		bits.Place(&word, raw, posBranchLower, widBranchLower)
		bits.Place(&word, raw>>widBranchLower, posBranchUpper, widBranchUpper)
		bits.Place(&word, uint32(inst.SR2), posSR2, widSR2)
		bits.Place(&word, uint32(inst.SR1), posSR1, widSR1)
	}

	return EncodedInstruction{NBytes: 4, Word: word}
}

func encodeHalfword(d Descriptor, inst Instruction) EncodedInstruction {
	var word uint32
	bits.Place(&word, 0, posBitmode, widBitmode)
	bits.Place(&word, uint32(d.Opcode), posHalfOpcode, widHalfOpcode)
	bits.Place(&word, uint32(inst.DR), posHalfDR, widHalfDR)

	switch d.Format {
	case FormatHalfReg:
		bits.Place(&word, uint32(inst.SR2), posHalfOperand, widHalfOperand)
	case FormatHalfImmediate:
		bits.Place(&word, uint32(inst.Immediate), posHalfOperand, widHalfOperand)
	}

	return EncodedInstruction{NBytes: 2, Word: word}
}

// encodeSetImmediate masks (never widens) the user-facing 32-bit
// immediate down to the 21-bit set-format field. Sui and Apci take
// the upper 21 bits of the target value; every other set instruction
// takes the low 21 bits directly.
func encodeSetImmediate(id InstID, imm int32) uint32 {
	if isUpperShiftSet(id) {
		return (uint32(imm) >> 11) & bits.Select(^uint32(0), 0, widImmSet)
	}
	return uint32(imm) & bits.Select(^uint32(0), 0, widImmSet)
}

// encodeJumpOrBranchImmediate masks a byte-offset immediate to its
// field width. Jump- and branch-format immediates are divided by two
// before encoding because they represent even byte offsets, except
// for data-access (load/store) instructions which address bytes
// directly.
func encodeJumpOrBranchImmediate(id InstID, imm int32) uint32 {
	width := widImmJump
	if d, ok := Lookup(id); ok && d.Format == FormatBranch {
		width = widBranchLower + widBranchUpper
	}
	value := imm
	if !IsDataAccess(id) {
		value = imm >> 1
	}
	return uint32(value) & bits.Select(^uint32(0), 0, width)
}

func isUpperShiftSet(id InstID) bool {
	return id == Sui || id == Apci
}

// Decode reverses Encode, returning an Instruction with ID == Invalid
// for any (opcode, funcode, bitmode) combination that does not match
// a known instruction.
func Decode(enc EncodedInstruction) Instruction {
	if enc.NBytes == 2 {
		return decodeHalfword(enc.Word)
	}
	return decodeFullword(enc.Word)
}

func decodeFullword(word uint32) Instruction {
	opcode := uint8(bits.Select(word, posOpcode, widOpcode))
	format, ok := opcodeFormats[opcode]
	if !ok {
		return Instruction{ID: Invalid}
	}

	var funcode uint8
	switch format {
	case FormatReg:
		funcode = uint8(bits.Select(word, posFuncodeLong, widFuncodeLong))
	case FormatBranch, FormatImmediate:
		funcode = uint8(bits.Select(word, posFuncodeShort, widFuncodeShort))
	}

	id := decodeInstID(false, opcode, funcode)
	if id == Invalid {
		return Instruction{ID: Invalid}
	}
	d, _ := Lookup(id)

	inst := Instruction{ID: id, Format: format}

	switch format {
	case FormatReg:
		inst.SR2 = Register(bits.Select(word, posSR2, widSR2))
		inst.SR1 = Register(bits.Select(word, posSR1, widSR1))
		inst.DR = Register(bits.Select(word, posDR, widDR))

	case FormatImmediate:
		raw := bits.Select(word, posImmImmediate, widImmImmediate)
		inst.Immediate = int32(extend(raw, widImmImmediate, d.Extension))
		inst.SR1 = Register(bits.Select(word, posSR1, widSR1))
		inst.DR = Register(bits.Select(word, posDR, widDR))

	case FormatSet:
		raw := bits.Select(word, posImmSet, widImmSet)
		inst.Immediate = decodeSetImmediate(id, raw, d.Extension)
		inst.DR = Register(bits.Select(word, posDR, widDR))

	case FormatJump:
		raw := bits.Select(word, posImmJump, widImmJump)
		signed := int32(bits.SignExtend(raw, widImmJump))
		inst.Immediate = signed << 1

	case FormatBranch:
		lower := bits.Select(word, posBranchLower, widBranchLower)
		upper := bits.Select(word, posBranchUpper, widBranchUpper)
		raw := lower | (upper << widBranchLower)
		signed := int32(bits.SignExtend(raw, widBranchLower+widBranchUpper))
		if IsDataAccess(id) {
			inst.Immediate = signed
		} else {
			inst.Immediate = signed << 1
		}
		inst.SR2 = Register(bits.Select(word, posSR2, widSR2))
		inst.SR1 = Register(bits.Select(word, posSR1, widSR1))
	}

	if id == Rjali {
		inst.DR = RegRA
	}

	return inst
}

func decodeHalfword(word uint32) Instruction {
	opcode := uint8(bits.Select(word, posHalfOpcode, widHalfOpcode))
	format, ok := halfOpcodeFormats[opcode]
	if !ok {
		return Instruction{ID: Invalid}
	}

	id := decodeInstID(true, opcode, 0)
	if id == Invalid {
		return Instruction{ID: Invalid}
	}
	d, _ := Lookup(id)

	inst := Instruction{ID: id, Format: format}
	inst.DR = Register(bits.Select(word, posHalfDR, widHalfDR))

	switch format {
	case FormatHalfReg:
		inst.SR2 = Register(bits.Select(word, posHalfOperand, widHalfOperand))
		switch id {
		case MovH, JalrH:
			inst.SR1 = RegZero
		default:
			inst.SR1 = inst.DR
		}

	case FormatHalfImmediate:
		raw := bits.Select(word, posHalfOperand, widHalfOperand)
		inst.Immediate = int32(extend(raw, widHalfOperand, d.Extension))
		inst.SR1 = inst.DR
	}

	return inst
}

func decodeSetImmediate(id InstID, raw uint32, ext ExtensionKind) int32 {
	if isUpperShiftSet(id) {
		return int32(raw << 11)
	}
	return int32(extend(raw, widImmSet, ext))
}

func extend(raw uint32, width int, ext ExtensionKind) uint32 {
	switch ext {
	case ExtendSign:
		return bits.SignExtend(raw, width)
	case ExtendOne:
		return bits.OneExtend(raw, width)
	default:
		return bits.ZeroExtend(raw, width)
	}
}
