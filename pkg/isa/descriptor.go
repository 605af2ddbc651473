package isa

// Descriptor is the per-instruction-ID type information baked into
// the assembler: its encoding format, its opcode/funcode bit pattern,
// whether it is a halfword instruction, and how its immediate widens
// on decode. This table is the authoritative specification for binary
// compatibility (spec.md §6).
type Descriptor struct {
	ID         InstID
	Mnemonic   string
	Format     Format
	Opcode     uint8
	Funcode    uint8
	IsHalfword bool
	Extension  ExtensionKind
}

// FuncodeBits returns the width of the funcode field for d's format:
// 6 bits for the reg format, 2 bits for the branch and immediate
// formats, 0 for the set, jump and halfword formats (which carry no
// separate funcode field).
func (d Descriptor) FuncodeBits() int {
	switch d.Format {
	case FormatReg:
		return 6
	case FormatBranch, FormatImmediate:
		return 2
	default:
		// Half formats carry no funcode field at all; set and jump
		// formats give their whole operand field to the immediate,
		// so opcode alone must distinguish their instructions.
		return 0
	}
}

var descriptors = buildDescriptors()

func buildDescriptors() map[InstID]Descriptor {
	reg := func(id InstID, mnemonic string, funcode uint8) Descriptor {
		return Descriptor{ID: id, Mnemonic: mnemonic, Format: FormatReg, Opcode: 0, Funcode: funcode, Extension: ExtendNone}
	}
	halfReg := func(id InstID, mnemonic string, opcode uint8) Descriptor {
		return Descriptor{ID: id, Mnemonic: mnemonic, Format: FormatHalfReg, Opcode: opcode, IsHalfword: true, Extension: ExtendNone}
	}
	halfImm := func(id InstID, mnemonic string, opcode uint8, ext ExtensionKind) Descriptor {
		return Descriptor{ID: id, Mnemonic: mnemonic, Format: FormatHalfImmediate, Opcode: opcode, IsHalfword: true, Extension: ext}
	}
	branch := func(id InstID, mnemonic string, opcode, funcode uint8, ext ExtensionKind) Descriptor {
		return Descriptor{ID: id, Mnemonic: mnemonic, Format: FormatBranch, Opcode: opcode, Funcode: funcode, Extension: ext}
	}
	imm := func(id InstID, mnemonic string, opcode, funcode uint8, ext ExtensionKind) Descriptor {
		return Descriptor{ID: id, Mnemonic: mnemonic, Format: FormatImmediate, Opcode: opcode, Funcode: funcode, Extension: ext}
	}
	set := func(id InstID, mnemonic string, opcode uint8, ext ExtensionKind) Descriptor {
		return Descriptor{ID: id, Mnemonic: mnemonic, Format: FormatSet, Opcode: opcode, Extension: ext}
	}
	jump := func(id InstID, mnemonic string, opcode uint8) Descriptor {
		return Descriptor{ID: id, Mnemonic: mnemonic, Format: FormatJump, Opcode: opcode, Extension: ExtendSign}
	}

	d := map[InstID]Descriptor{
		// Fullword register-format arithmetic/compare, funcode 0..20.
		Add: reg(Add, "add", 0), Sub: reg(Sub, "sub", 1), Mult: reg(Mult, "mult", 2),
		Div: reg(Div, "div", 3), Multu: reg(Multu, "multu", 4), Divu: reg(Divu, "divu", 5),
		Nand: reg(Nand, "nand", 6), Nor: reg(Nor, "nor", 7), Xnor: reg(Xnor, "xnor", 8),
		Eql: reg(Eql, "eql", 9), Neql: reg(Neql, "neql", 10), Grt: reg(Grt, "grt", 11),
		Gre: reg(Gre, "gre", 12), Grtu: reg(Grtu, "grtu", 13), Greu: reg(Greu, "greu", 14),
		Lsft: reg(Lsft, "lsft", 15), Rsft: reg(Rsft, "rsft", 16), Rsfta: reg(Rsfta, "rsfta", 17),
		Or: reg(Or, "or", 18), And: reg(And, "and", 19), Xor: reg(Xor, "xor", 20),

		// Halfword register-format equivalents, opcode 0..16.
		AddH: halfReg(AddH, "add_h", 0), SubH: halfReg(SubH, "sub_h", 1), MultH: halfReg(MultH, "mult_h", 2),
		DivH: halfReg(DivH, "div_h", 3), MultuH: halfReg(MultuH, "multu_h", 4), DivuH: halfReg(DivuH, "divu_h", 5),
		NandH: halfReg(NandH, "nand_h", 6), NorH: halfReg(NorH, "nor_h", 7), XnorH: halfReg(XnorH, "xnor_h", 8),
		EqlH: halfReg(EqlH, "eql_h", 9), GrtH: halfReg(GrtH, "grt_h", 10), GreH: halfReg(GreH, "gre_h", 11),
		GrtuH: halfReg(GrtuH, "grtu_h", 12), GreuH: halfReg(GreuH, "greu_h", 13), LsftH: halfReg(LsftH, "lsft_h", 14),
		RsftH: halfReg(RsftH, "rsft_h", 15), RsftaH: halfReg(RsftaH, "rsfta_h", 16),

		MovH:  halfReg(MovH, "mov_h", 17),
		JalrH: halfReg(JalrH, "jalr_h", 18),

		// Halfword immediate-format shifts and short add/sub, opcode 19..23.
		LsftiH:  halfImm(LsftiH, "lsfti_h", 19, ExtendZero),
		RsftiH:  halfImm(RsftiH, "rsfti_h", 20, ExtendZero),
		RsftiaH: halfImm(RsftiaH, "rsftia_h", 21, ExtendZero),
		IncrH:   halfImm(IncrH, "incr_h", 22, ExtendZero),
		DecrH:   halfImm(DecrH, "decr_h", 23, ExtendZero),

		// Fullword immediate-format arithmetic, opcodes 5-6, and Jalr, opcode 7.
		Addi:   imm(Addi, "addi", 5, 0, ExtendSign),
		Multi:  imm(Multi, "multi", 5, 1, ExtendSign),
		Divi:   imm(Divi, "divi", 5, 2, ExtendSign),
		Multui: imm(Multui, "multui", 5, 3, ExtendZero),
		Divui:  imm(Divui, "divui", 6, 0, ExtendZero),
		Andi:   imm(Andi, "andi", 6, 1, ExtendZero),
		Ori:    imm(Ori, "ori", 6, 2, ExtendZero),
		Xori:   imm(Xori, "xori", 6, 3, ExtendZero),
		Jalr:   imm(Jalr, "jalr", 7, 0, ExtendSign),

		// Set-format: the 21-bit immediate leaves no room for a
		// funcode field, so each instruction gets its own opcode.
		Sli:  set(Sli, "sli", 8, ExtendSign),
		Sui:  set(Sui, "sui", 9, ExtendNone),
		Apci: set(Apci, "apci", 10, ExtendNone),

		// Jump-format: likewise, the 26-bit immediate leaves no room
		// for a funcode field.
		Rji:   jump(Rji, "rji", 11),
		Rjali: jump(Rjali, "rjali", 12),

		// Branch-format conditional branches, opcodes 1-2.
		Beq:  branch(Beq, "beq", 1, 0, ExtendSign),
		Bne:  branch(Bne, "bne", 1, 1, ExtendSign),
		Bgr:  branch(Bgr, "bgr", 1, 2, ExtendSign),
		Bge:  branch(Bge, "bge", 1, 3, ExtendSign),
		Bgru: branch(Bgru, "bgru", 2, 0, ExtendSign),
		Bgeu: branch(Bgeu, "bgeu", 2, 1, ExtendSign),

		// Branch-format data access, opcodes 2-4.
		Sw:  branch(Sw, "sw", 2, 2, ExtendSign),
		Sh:  branch(Sh, "sh", 2, 3, ExtendSign),
		Sb:  branch(Sb, "sb", 3, 0, ExtendSign),
		Lw:  branch(Lw, "lw", 3, 1, ExtendSign),
		Lh:  branch(Lh, "lh", 3, 2, ExtendSign),
		Lb:  branch(Lb, "lb", 3, 3, ExtendSign),
		Lhu: branch(Lhu, "lhu", 4, 0, ExtendSign),
		Lbu: branch(Lbu, "lbu", 4, 1, ExtendSign),
	}

	if len(d) != int(totalInstIDs)-1 {
		panic("isa: missing descriptor entry for one or more instruction IDs")
	}

	return d
}

// Lookup returns the descriptor for id.
func Lookup(id InstID) (Descriptor, bool) {
	d, ok := descriptors[id]
	return d, ok
}

// LookupMnemonic resolves a machine-instruction mnemonic (e.g. the
// internal "add_h") to its descriptor. This is distinct from the
// surface assembly mnemonic tables used by pkg/analyzer.
func LookupMnemonic(mnemonic string) (Descriptor, bool) {
	for _, d := range descriptors {
		if d.Mnemonic == mnemonic {
			return d, true
		}
	}
	return Descriptor{}, false
}

// decodeKey identifies an instruction shape during decode: its
// bitmode-derived halfword-ness, its opcode, and (for fullword
// formats only) its funcode.
type decodeKey struct {
	isHalfword bool
	opcode     uint8
	funcode    uint8
}

var decodeTable = buildDecodeTable()

func buildDecodeTable() map[decodeKey]InstID {
	table := make(map[decodeKey]InstID, len(descriptors))
	for id, d := range descriptors {
		var key decodeKey
		if d.IsHalfword {
			key = decodeKey{isHalfword: true, opcode: d.Opcode}
		} else {
			key = decodeKey{isHalfword: false, opcode: d.Opcode, funcode: d.Funcode}
		}
		if existing, dup := table[key]; dup {
			panic("isa: duplicate (opcode, funcode, is_halfword) encoding for " + existing.String() + " and " + id.String())
		}
		table[key] = id
	}
	return table
}

func decodeInstID(isHalfword bool, opcode, funcode uint8) InstID {
	key := decodeKey{isHalfword: isHalfword, opcode: opcode}
	if !isHalfword {
		key.funcode = funcode
	}
	if id, ok := decodeTable[key]; ok {
		return id
	}
	return Invalid
}

func (id InstID) String() string {
	if d, ok := descriptors[id]; ok {
		return d.Mnemonic
	}
	return "invalid"
}
