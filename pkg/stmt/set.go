package stmt

import (
	"github.com/ydrojd/assembler/pkg/bits"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

// SourceKind distinguishes the three surface forms of `set dr, X`.
type SourceKind uint8

const (
	SourceInt SourceKind = iota
	SourceRegister
	SourceLabel
)

const (
	SetIntLowerFit CompileCase = iota + 1
	SetIntUpperFit
	SetIntFull
	SetDataLabel
	SetPCRel
	SetRegMov
)

// Set implements `set dr, X`.
type Set struct {
	base
	Kind     SourceKind
	DR       isa.Register
	IntValue int32
	SrcReg   isa.Register
	Operand  LabelOperand
}

func NewSetInt(dr isa.Register, value int32) *Set {
	return &Set{Kind: SourceInt, DR: dr, IntValue: value}
}

func NewSetRegister(dr, src isa.Register) *Set {
	return &Set{Kind: SourceRegister, DR: dr, SrcReg: src}
}

func NewSetLabel(dr isa.Register, op LabelOperand) *Set {
	return &Set{Kind: SourceLabel, DR: dr, Operand: op}
}

// splitUpperLower divides a 32-bit target into a zero-low-11-bits
// upper field and a 0..2047 lower field whose bitwise OR reconstructs
// the original value exactly (see spec's "direct bit-field split").
func splitUpperLower(value int32) (upper, lower int32) {
	v := uint32(value)
	return int32(v &^ 0x7FF), int32(v & 0x7FF)
}

func (s *Set) HasLabelOperand() bool {
	return s.Kind == SourceLabel
}

func (s *Set) GetLabelOperand() LabelOperand {
	return s.Operand
}

func (s *Set) CompileCase(tab *symtab.Table, pc uint32, _ Options) CompileCase {
	switch s.Kind {
	case SourceRegister:
		return SetRegMov

	case SourceInt:
		if bits.SignedBitwidth(int64(s.IntValue)) <= 14 {
			return SetIntLowerFit
		}
		if uint32(s.IntValue)&0x7FF == 0 {
			return SetIntUpperFit
		}
		return SetIntFull

	default: // SourceLabel
		if !resolveLabel(&s.Operand, tab) {
			return Undetermined
		}
		sym := tab.Get(s.Operand.Label.SymbolID)
		if sym.Section == symtab.SectionText {
			return SetPCRel
		}
		return SetDataLabel
	}
}

func (s *Set) Size(cc CompileCase) bits.MemoryAlloc {
	switch cc {
	case SetRegMov:
		return halfwordAlloc(2)
	case SetIntLowerFit, SetIntUpperFit:
		return fullwordAlloc(4)
	default: // SetIntFull, SetDataLabel, SetPCRel, Undetermined (worst case)
		return fullwordAlloc(8)
	}
}

func (s *Set) RelocKind(cc CompileCase, tab *symtab.Table) symtab.RelocKind {
	switch cc {
	case SetDataLabel:
		sym := tab.Get(s.Operand.Label.SymbolID)
		if sym.Scope == symtab.ScopeExternal {
			return symtab.RelocSymbolLongStore
		}
		return symtab.RelocSectionLongStore
	case SetPCRel:
		sym := tab.Get(s.Operand.Label.SymbolID)
		if sym.Scope == symtab.ScopeExternal {
			return symtab.RelocLongJump
		}
		return symtab.RelocDummy
	default:
		return symtab.RelocNone
	}
}

func (s *Set) GenInstructions(cc CompileCase, tab *symtab.Table, pc uint32) []isa.Instruction {
	switch cc {
	case SetRegMov:
		return []isa.Instruction{{ID: isa.MovH, Format: isa.FormatHalfReg, DR: s.DR, SR1: isa.RegZero, SR2: s.SrcReg}}

	case SetIntLowerFit:
		return []isa.Instruction{{ID: isa.Sli, Format: isa.FormatSet, DR: s.DR, Immediate: s.IntValue}}

	case SetIntUpperFit:
		return []isa.Instruction{{ID: isa.Sui, Format: isa.FormatSet, DR: s.DR, Immediate: s.IntValue}}

	case SetIntFull:
		upper, lower := splitUpperLower(s.IntValue)
		return []isa.Instruction{
			{ID: isa.Sui, Format: isa.FormatSet, DR: s.DR, Immediate: upper},
			{ID: isa.Addi, Format: isa.FormatImmediate, DR: s.DR, SR1: s.DR, Immediate: lower},
		}

	case SetDataLabel:
		sym := tab.Get(s.Operand.Label.SymbolID)
		target := int32(sym.Address) + s.Operand.Offset
		upper, lower := splitUpperLower(target)
		return []isa.Instruction{
			{ID: isa.Sui, Format: isa.FormatSet, DR: s.DR, Immediate: upper},
			{ID: isa.Addi, Format: isa.FormatImmediate, DR: s.DR, SR1: s.DR, Immediate: lower},
		}

	default: // SetPCRel
		sym := tab.Get(s.Operand.Label.SymbolID)
		delta := int32(sym.Address) + s.Operand.Offset - int32(pc)
		upper, lower := splitUpperLower(delta)
		return []isa.Instruction{
			{ID: isa.Apci, Format: isa.FormatSet, DR: s.DR, Immediate: upper},
			{ID: isa.Addi, Format: isa.FormatImmediate, DR: s.DR, SR1: s.DR, Immediate: lower},
		}
	}
}
