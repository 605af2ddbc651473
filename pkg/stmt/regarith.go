package stmt

import (
	"github.com/ydrojd/assembler/pkg/bits"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

const (
	RegArithFullword CompileCase = iota + 1
	RegArithHalfword
)

// RegisterArithmetic implements `op dr, sr1, sr2` / `op dr, sr2`.
type RegisterArithmetic struct {
	base
	noLabelOperand
	ID       isa.InstID
	DR       isa.Register
	SR1      isa.Register
	SR2      isa.Register
}

// NewRegisterArithmetic builds the statement, defaulting sr1 to dr
// when the two-operand surface form was used.
func NewRegisterArithmetic(id isa.InstID, dr, sr1, sr2 isa.Register, twoOperand bool) *RegisterArithmetic {
	if twoOperand {
		sr1 = dr
	}
	return &RegisterArithmetic{ID: id, DR: dr, SR1: sr1, SR2: sr2}
}

func (s *RegisterArithmetic) CompileCase(_ *symtab.Table, _ uint32, _ Options) CompileCase {
	if s.DR == s.SR1 {
		if _, ok := isa.HalfwordForm(s.ID); ok {
			return RegArithHalfword
		}
	}
	return RegArithFullword
}

func (s *RegisterArithmetic) Size(cc CompileCase) bits.MemoryAlloc {
	if cc == RegArithHalfword {
		return halfwordAlloc(2)
	}
	return fullwordAlloc(4)
}

func (s *RegisterArithmetic) GenInstructions(cc CompileCase, _ *symtab.Table, _ uint32) []isa.Instruction {
	if cc == RegArithHalfword {
		h, _ := isa.HalfwordForm(s.ID)
		return []isa.Instruction{{ID: h, Format: isa.FormatHalfReg, DR: s.DR, SR1: s.DR, SR2: s.SR2}}
	}
	return []isa.Instruction{{ID: s.ID, Format: isa.FormatReg, DR: s.DR, SR1: s.SR1, SR2: s.SR2}}
}
