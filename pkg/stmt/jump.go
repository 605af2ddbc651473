package stmt

import (
	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/bits"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

const jumpFieldBits = 26

const (
	JumpRegJump CompileCase = iota + 1
	JumpShortNoJump
	JumpShortRAJump
	JumpFullJump
)

type jumpDestKind uint8

const (
	jumpDestRegister jumpDestKind = iota
	jumpDestLabel
)

// Jump implements `jmp dest`, `jal dest`, and `jal return_reg, dest`.
type Jump struct {
	base
	DestKind  jumpDestKind
	ReturnReg isa.Register
	DestReg   isa.Register
	Operand   LabelOperand
}

func NewJumpToRegister(returnReg, dest isa.Register) *Jump {
	return &Jump{DestKind: jumpDestRegister, ReturnReg: returnReg, DestReg: dest}
}

func NewJumpToLabel(returnReg isa.Register, op LabelOperand) *Jump {
	return &Jump{DestKind: jumpDestLabel, ReturnReg: returnReg, Operand: op}
}

func (s *Jump) HasLabelOperand() bool {
	return s.DestKind == jumpDestLabel
}

func (s *Jump) GetLabelOperand() LabelOperand {
	return s.Operand
}

// Validate checks the hard error a compile case cannot express:
// jumping to a data-typed symbol.
func (s *Jump) Validate(tab *symtab.Table) error {
	if s.DestKind != jumpDestLabel {
		return nil
	}
	id, ok := tab.Lookup(s.Operand.Label.Identifier)
	if !ok {
		return nil // reported as "label not found" by the caller
	}
	sym := tab.Get(id)
	if sym.Type == symtab.TypeData {
		return asmerr.ErrExpectedExecutable
	}
	return nil
}

func (s *Jump) CompileCase(tab *symtab.Table, pc uint32, opts Options) CompileCase {
	if s.DestKind == jumpDestRegister {
		return JumpRegJump
	}

	if !resolveLabel(&s.Operand, tab) {
		return Undetermined
	}
	sym := tab.Get(s.Operand.Label.SymbolID)

	var eligible bool
	if sym.Scope == symtab.ScopeExternal {
		// An external symbol's address isn't known yet, so the
		// short-form decision can't depend on the computed offset: it
		// is purely the caller's choice, via opts.ShortJumps.
		eligible = opts.ShortJumps
	} else {
		offset := int32(sym.Address) + s.Operand.Offset - int32(pc)
		eligible = bits.SignedBitwidth(int64(offset))-1 <= jumpFieldBits
	}

	if eligible {
		if s.ReturnReg == isa.RegZero {
			return JumpShortNoJump
		}
		if s.ReturnReg == isa.RegRA {
			return JumpShortRAJump
		}
	}
	return JumpFullJump
}

func (s *Jump) Size(cc CompileCase) bits.MemoryAlloc {
	switch cc {
	case JumpRegJump:
		return halfwordAlloc(2)
	case JumpShortNoJump, JumpShortRAJump:
		return fullwordAlloc(4)
	default: // JumpFullJump, Undetermined (worst case)
		return fullwordAlloc(8)
	}
}

func (s *Jump) RelocKind(cc CompileCase, tab *symtab.Table) symtab.RelocKind {
	if s.DestKind != jumpDestLabel {
		return symtab.RelocNone
	}
	sym := tab.Get(s.Operand.Label.SymbolID)
	switch cc {
	case JumpShortNoJump, JumpShortRAJump:
		if sym.Scope == symtab.ScopeExternal {
			return symtab.RelocShortJump
		}
		return symtab.RelocDummy
	case JumpFullJump:
		if sym.Scope == symtab.ScopeExternal {
			return symtab.RelocLongJump
		}
		return symtab.RelocDummy
	default:
		return symtab.RelocNone
	}
}

func (s *Jump) GenInstructions(cc CompileCase, tab *symtab.Table, pc uint32) []isa.Instruction {
	switch cc {
	case JumpRegJump:
		return []isa.Instruction{{ID: isa.JalrH, Format: isa.FormatHalfReg, DR: s.ReturnReg, SR1: isa.RegZero, SR2: s.DestReg}}

	case JumpShortNoJump:
		sym := tab.Get(s.Operand.Label.SymbolID)
		offset := int32(sym.Address) + s.Operand.Offset - int32(pc)
		return []isa.Instruction{{ID: isa.Rji, Format: isa.FormatJump, Immediate: offset}}

	case JumpShortRAJump:
		sym := tab.Get(s.Operand.Label.SymbolID)
		offset := int32(sym.Address) + s.Operand.Offset - int32(pc)
		return []isa.Instruction{{ID: isa.Rjali, Format: isa.FormatJump, DR: isa.RegRA, Immediate: offset}}

	default: // JumpFullJump
		sym := tab.Get(s.Operand.Label.SymbolID)
		delta := int32(sym.Address) + s.Operand.Offset - int32(pc)
		upper, lower := splitUpperLower(delta)
		return []isa.Instruction{
			{ID: isa.Apci, Format: isa.FormatSet, DR: isa.RegAR, Immediate: upper},
			{ID: isa.Jalr, Format: isa.FormatImmediate, DR: s.ReturnReg, SR1: isa.RegAR, Immediate: lower},
		}
	}
}
