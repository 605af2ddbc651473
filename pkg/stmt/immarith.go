package stmt

import (
	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/bits"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

const (
	ImmArithShortShift CompileCase = iota + 1
	ImmArithLongShift
	ImmArithShortAdd
	ImmArithFullword
)

func isShift(id isa.InstID) bool {
	return id == isa.LsftiH || id == isa.RsftiH || id == isa.RsftiaH
}

func isSignedImmArith(id isa.InstID) bool {
	return id == isa.Addi || id == isa.Multi || id == isa.Divi
}

// ImmediateArithmetic implements `op dr, src, imm` / `op dr, imm`.
type ImmediateArithmetic struct {
	base
	noLabelOperand
	ID        isa.InstID
	DR        isa.Register
	Src       isa.Register
	Immediate int32
}

// NewImmediateArithmetic validates the immediate range eagerly: an
// out-of-range literal is a compile error regardless of surrounding
// symbol resolution (spec scenario: `addi t0, 10000` fails outright).
func NewImmediateArithmetic(id isa.InstID, dr, src isa.Register, imm int32, twoOperand bool) (*ImmediateArithmetic, error) {
	if twoOperand {
		src = dr
	}

	switch {
	case isShift(id):
		if bits.UnsignedBitwidth(uint64(uint32(imm))) > 5 {
			return nil, asmerr.Wrap(asmerr.ErrImmediateOutOfRange, "shift amount %d", imm)
		}
	case isSignedImmArith(id):
		if bits.SignedBitwidth(int64(imm)) > 14 {
			return nil, asmerr.Wrap(asmerr.ErrImmediateOutOfRange, "%d", imm)
		}
	default:
		if bits.UnsignedBitwidth(uint64(uint32(imm))) > 14 {
			return nil, asmerr.Wrap(asmerr.ErrImmediateOutOfRange, "%d", imm)
		}
	}

	return &ImmediateArithmetic{ID: id, DR: dr, Src: src, Immediate: imm}, nil
}

func (s *ImmediateArithmetic) CompileCase(_ *symtab.Table, _ uint32, _ Options) CompileCase {
	if isShift(s.ID) {
		if s.DR == s.Src {
			return ImmArithShortShift
		}
		return ImmArithLongShift
	}
	if s.ID == isa.Addi && s.DR == s.Src && bits.SignedBitwidth(int64(s.Immediate)) <= 6 {
		return ImmArithShortAdd
	}
	return ImmArithFullword
}

func (s *ImmediateArithmetic) Size(cc CompileCase) bits.MemoryAlloc {
	switch cc {
	case ImmArithShortShift, ImmArithShortAdd:
		return halfwordAlloc(2)
	case ImmArithLongShift:
		return halfwordAlloc(4)
	default:
		return fullwordAlloc(4)
	}
}

func (s *ImmediateArithmetic) GenInstructions(cc CompileCase, _ *symtab.Table, _ uint32) []isa.Instruction {
	switch cc {
	case ImmArithShortShift:
		return []isa.Instruction{{ID: s.ID, Format: isa.FormatHalfImmediate, DR: s.DR, SR1: s.DR, Immediate: s.Immediate}}

	case ImmArithLongShift:
		return []isa.Instruction{
			{ID: isa.MovH, Format: isa.FormatHalfReg, DR: s.DR, SR1: isa.RegZero, SR2: s.Src},
			{ID: s.ID, Format: isa.FormatHalfImmediate, DR: s.DR, SR1: s.DR, Immediate: s.Immediate},
		}

	case ImmArithShortAdd:
		if s.Immediate >= 0 {
			return []isa.Instruction{{ID: isa.IncrH, Format: isa.FormatHalfImmediate, DR: s.DR, SR1: s.DR, Immediate: s.Immediate}}
		}
		return []isa.Instruction{{ID: isa.DecrH, Format: isa.FormatHalfImmediate, DR: s.DR, SR1: s.DR, Immediate: -s.Immediate}}

	default:
		return []isa.Instruction{{ID: s.ID, Format: isa.FormatImmediate, DR: s.DR, SR1: s.Src, Immediate: s.Immediate}}
	}
}
