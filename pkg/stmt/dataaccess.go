package stmt

import (
	"github.com/ydrojd/assembler/pkg/bits"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

const dataAccessFieldBits = 9 + 5

const (
	DataAccessShortReg CompileCase = iota + 1
	DataAccessLongReg
	DataAccessLabel
)

type dataAccessBaseKind uint8

const (
	dataAccessBaseRegister dataAccessBaseKind = iota
	dataAccessBaseLabel
)

// DataAccess implements `op dr, reg[, imm]` and `op dr, label[, imm]`
// loads/stores.
type DataAccess struct {
	base
	ID       isa.InstID
	ValueReg isa.Register
	BaseKind dataAccessBaseKind
	BaseReg  isa.Register
	Operand  LabelOperand // Offset doubles as the immediate displacement for the register-base form
}

func NewDataAccessRegister(id isa.InstID, valueReg, baseReg isa.Register, imm int32) *DataAccess {
	return &DataAccess{ID: id, ValueReg: valueReg, BaseKind: dataAccessBaseRegister, BaseReg: baseReg, Operand: LabelOperand{Offset: imm}}
}

func NewDataAccessLabel(id isa.InstID, valueReg isa.Register, op LabelOperand) *DataAccess {
	return &DataAccess{ID: id, ValueReg: valueReg, BaseKind: dataAccessBaseLabel, Operand: op}
}

func (s *DataAccess) HasLabelOperand() bool {
	return s.BaseKind == dataAccessBaseLabel
}

func (s *DataAccess) GetLabelOperand() LabelOperand {
	return s.Operand
}

func (s *DataAccess) CompileCase(tab *symtab.Table, _ uint32, _ Options) CompileCase {
	if s.BaseKind == dataAccessBaseLabel {
		if !resolveLabel(&s.Operand, tab) {
			return Undetermined
		}
		return DataAccessLabel
	}
	if bits.SignedBitwidth(int64(s.Operand.Offset)) <= dataAccessFieldBits {
		return DataAccessShortReg
	}
	return DataAccessLongReg
}

func (s *DataAccess) Size(cc CompileCase) bits.MemoryAlloc {
	switch cc {
	case DataAccessShortReg:
		return fullwordAlloc(4)
	case DataAccessLongReg:
		return fullwordAlloc(12)
	default: // DataAccessLabel, Undetermined (worst case)
		return fullwordAlloc(8)
	}
}

func (s *DataAccess) RelocKind(cc CompileCase, tab *symtab.Table) symtab.RelocKind {
	if cc != DataAccessLabel {
		return symtab.RelocNone
	}
	sym := tab.Get(s.Operand.Label.SymbolID)
	isLoad := !isa.IsStore(s.ID)
	external := sym.Scope == symtab.ScopeExternal

	switch {
	case external && isLoad:
		return symtab.RelocSymbolLongLoad
	case external && !isLoad:
		return symtab.RelocSymbolLongStore
	case isLoad:
		return symtab.RelocSectionLongLoad
	default:
		return symtab.RelocSectionLongStore
	}
}

func (s *DataAccess) GenInstructions(cc CompileCase, tab *symtab.Table, _ uint32) []isa.Instruction {
	switch cc {
	case DataAccessShortReg:
		return []isa.Instruction{{ID: s.ID, Format: isa.FormatBranch, SR1: s.BaseReg, SR2: s.ValueReg, Immediate: s.Operand.Offset}}

	case DataAccessLongReg:
		upper, lower := splitUpperLower(s.Operand.Offset)
		return []isa.Instruction{
			{ID: isa.Sui, Format: isa.FormatSet, DR: isa.RegAR, Immediate: upper},
			{ID: isa.Add, Format: isa.FormatReg, DR: isa.RegAR, SR1: isa.RegAR, SR2: s.BaseReg},
			{ID: s.ID, Format: isa.FormatBranch, SR1: isa.RegAR, SR2: s.ValueReg, Immediate: lower},
		}

	default: // DataAccessLabel
		sym := tab.Get(s.Operand.Label.SymbolID)
		target := int32(sym.Address) + s.Operand.Offset
		upper, lower := splitUpperLower(target)
		return []isa.Instruction{
			{ID: isa.Sui, Format: isa.FormatSet, DR: isa.RegAR, Immediate: upper},
			{ID: s.ID, Format: isa.FormatBranch, SR1: isa.RegAR, SR2: s.ValueReg, Immediate: lower},
		}
	}
}
