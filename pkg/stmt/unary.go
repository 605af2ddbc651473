package stmt

import (
	"github.com/ydrojd/assembler/pkg/bits"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

type UnaryOp uint8

const (
	Neg UnaryOp = iota
	Not
)

const (
	UnaryHalfReg CompileCase = iota + 1
	UnaryFullReg
)

// Unary implements `neg dr, operand` and `not dr, operand`.
type Unary struct {
	base
	noLabelOperand
	Op      UnaryOp
	DR      isa.Register
	Operand isa.Register
}

func NewUnary(op UnaryOp, dr, operand isa.Register) *Unary {
	return &Unary{Op: op, DR: dr, Operand: operand}
}

func (s *Unary) CompileCase(_ *symtab.Table, _ uint32, _ Options) CompileCase {
	if s.Op == Not && s.DR == s.Operand {
		return UnaryHalfReg
	}
	return UnaryFullReg
}

func (s *Unary) Size(cc CompileCase) bits.MemoryAlloc {
	if cc == UnaryHalfReg {
		return halfwordAlloc(2)
	}
	return fullwordAlloc(4)
}

func (s *Unary) GenInstructions(cc CompileCase, _ *symtab.Table, _ uint32) []isa.Instruction {
	if cc == UnaryHalfReg {
		return []isa.Instruction{{ID: isa.NandH, Format: isa.FormatHalfReg, DR: s.DR, SR1: s.DR, SR2: s.Operand}}
	}

	switch s.Op {
	case Neg:
		return []isa.Instruction{{ID: isa.Sub, Format: isa.FormatReg, DR: s.DR, SR1: isa.RegZero, SR2: s.Operand}}
	default:
		return []isa.Instruction{{ID: isa.Xnor, Format: isa.FormatReg, DR: s.DR, SR1: isa.RegZero, SR2: s.Operand}}
	}
}
