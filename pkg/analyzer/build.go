package analyzer

import (
	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/asmparser"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/stmt"
)

var regArithIDs = map[string]isa.InstID{
	"add": isa.Add, "sub": isa.Sub, "mult": isa.Mult, "div": isa.Div,
	"multu": isa.Multu, "divu": isa.Divu, "eql": isa.Eql, "neql": isa.Neql,
	"grt": isa.Grt, "grtu": isa.Grtu, "gre": isa.Gre, "greu": isa.Greu,
	"lsft": isa.Lsft, "rsft": isa.Rsft, "rsfta": isa.Rsfta,
	"nor": isa.Nor, "nand": isa.Nand, "or": isa.Or, "and": isa.And, "xor": isa.Xor, "xnor": isa.Xnor,
}

var immArithIDs = map[string]isa.InstID{
	"xori": isa.Xori, "ori": isa.Ori, "andi": isa.Andi, "addi": isa.Addi,
	"multi": isa.Multi, "divi": isa.Divi, "multui": isa.Multui, "divui": isa.Divui,
	"lsfti": isa.LsftiH, "rsfti": isa.RsftiH, "rsftia": isa.RsftiaH,
}

var dataAccessIDs = map[string]isa.InstID{
	"sw": isa.Sw, "sh": isa.Sh, "sb": isa.Sb,
	"lw": isa.Lw, "lh": isa.Lh, "lb": isa.Lb, "lhu": isa.Lhu, "lbu": isa.Lbu,
}

var branchIDs = map[string]isa.InstID{
	"beq": isa.Beq, "bne": isa.Bne, "bgr": isa.Bgr, "bgru": isa.Bgru, "bge": isa.Bge, "bgeu": isa.Bgeu,
}

// buildStatement converts one parsed instruction statement into its
// semantic-statement representation.
func buildStatement(ps asmparser.ParsedStatement) (stmt.Statement, error) {
	if id, ok := regArithIDs[ps.Mnemonic]; ok {
		return buildRegisterArithmetic(ps, id)
	}
	if id, ok := immArithIDs[ps.Mnemonic]; ok {
		return buildImmediateArithmetic(ps, id)
	}
	if id, ok := dataAccessIDs[ps.Mnemonic]; ok {
		return buildDataAccess(ps, id)
	}
	if id, ok := branchIDs[ps.Mnemonic]; ok {
		return buildBranch(ps, id)
	}
	switch ps.Mnemonic {
	case "neg":
		return buildUnary(ps, stmt.Neg)
	case "not":
		return buildUnary(ps, stmt.Not)
	case "set":
		return buildSet(ps)
	case "jmp":
		return buildJump(ps, isa.RegZero, false)
	case "jal":
		return buildJump(ps, isa.RegRA, true)
	default:
		return nil, asmerr.AtLine(ps.Line, asmerr.Wrap(asmerr.ErrUnknownMnemonic, "%q", ps.Mnemonic))
	}
}

func reg(ps asmparser.ParsedStatement, arg asmparser.Arg) (isa.Register, error) {
	if arg.Kind != asmparser.ArgRegister {
		return 0, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
	}
	r, ok := isa.ParseRegister(arg.Text)
	if !ok {
		return 0, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
	}
	return r, nil
}

func integer(ps asmparser.ParsedStatement, arg asmparser.Arg) (int32, error) {
	if arg.Kind != asmparser.ArgInteger {
		return 0, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
	}
	return int32(arg.Integer), nil
}

func labelOperand(arg asmparser.Arg) stmt.LabelOperand {
	return stmt.LabelOperand{Label: stmt.Label{Identifier: arg.Text}}
}

func buildRegisterArithmetic(ps asmparser.ParsedStatement, id isa.InstID) (stmt.Statement, error) {
	switch len(ps.Args) {
	case 2:
		dr, err := reg(ps, ps.Args[0])
		if err != nil {
			return nil, err
		}
		sr2, err := reg(ps, ps.Args[1])
		if err != nil {
			return nil, err
		}
		return stmt.NewRegisterArithmetic(id, dr, 0, sr2, true), nil
	case 3:
		dr, err := reg(ps, ps.Args[0])
		if err != nil {
			return nil, err
		}
		sr1, err := reg(ps, ps.Args[1])
		if err != nil {
			return nil, err
		}
		sr2, err := reg(ps, ps.Args[2])
		if err != nil {
			return nil, err
		}
		return stmt.NewRegisterArithmetic(id, dr, sr1, sr2, false), nil
	default:
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
	}
}

func buildImmediateArithmetic(ps asmparser.ParsedStatement, id isa.InstID) (stmt.Statement, error) {
	switch len(ps.Args) {
	case 2:
		dr, err := reg(ps, ps.Args[0])
		if err != nil {
			return nil, err
		}
		imm, err := integer(ps, ps.Args[1])
		if err != nil {
			return nil, err
		}
		s, err := stmt.NewImmediateArithmetic(id, dr, 0, imm, true)
		return wrapImmErr(ps, s, err)
	case 3:
		dr, err := reg(ps, ps.Args[0])
		if err != nil {
			return nil, err
		}
		src, err := reg(ps, ps.Args[1])
		if err != nil {
			return nil, err
		}
		imm, err := integer(ps, ps.Args[2])
		if err != nil {
			return nil, err
		}
		s, err := stmt.NewImmediateArithmetic(id, dr, src, imm, false)
		return wrapImmErr(ps, s, err)
	default:
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
	}
}

func wrapImmErr(ps asmparser.ParsedStatement, s *stmt.ImmediateArithmetic, err error) (stmt.Statement, error) {
	if err != nil {
		return nil, asmerr.AtLine(ps.Line, err)
	}
	return s, nil
}

func buildUnary(ps asmparser.ParsedStatement, op stmt.UnaryOp) (stmt.Statement, error) {
	if len(ps.Args) != 2 {
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
	}
	dr, err := reg(ps, ps.Args[0])
	if err != nil {
		return nil, err
	}
	operand, err := reg(ps, ps.Args[1])
	if err != nil {
		return nil, err
	}
	return stmt.NewUnary(op, dr, operand), nil
}

func buildSet(ps asmparser.ParsedStatement) (stmt.Statement, error) {
	if len(ps.Args) != 2 {
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
	}
	dr, err := reg(ps, ps.Args[0])
	if err != nil {
		return nil, err
	}
	src := ps.Args[1]
	switch src.Kind {
	case asmparser.ArgInteger:
		return stmt.NewSetInt(dr, int32(src.Integer)), nil
	case asmparser.ArgRegister:
		sr, ok := isa.ParseRegister(src.Text)
		if !ok {
			return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
		}
		return stmt.NewSetRegister(dr, sr), nil
	case asmparser.ArgLabel:
		return stmt.NewSetLabel(dr, labelOperand(src)), nil
	default:
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrSetSourceTypeMismatch)
	}
}

func buildJump(ps asmparser.ParsedStatement, defaultReturn isa.Register, isJal bool) (stmt.Statement, error) {
	var dest asmparser.Arg
	returnReg := defaultReturn

	switch len(ps.Args) {
	case 1:
		dest = ps.Args[0]
	case 2:
		if !isJal {
			return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
		}
		r, err := reg(ps, ps.Args[0])
		if err != nil {
			return nil, err
		}
		returnReg = r
		dest = ps.Args[1]
	default:
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
	}

	switch dest.Kind {
	case asmparser.ArgRegister:
		r, ok := isa.ParseRegister(dest.Text)
		if !ok {
			return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
		}
		return stmt.NewJumpToRegister(returnReg, r), nil
	case asmparser.ArgLabel:
		return stmt.NewJumpToLabel(returnReg, labelOperand(dest)), nil
	default:
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
	}
}

func buildBranch(ps asmparser.ParsedStatement, id isa.InstID) (stmt.Statement, error) {
	if len(ps.Args) != 3 {
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
	}
	sr1, err := reg(ps, ps.Args[0])
	if err != nil {
		return nil, err
	}
	sr2, err := reg(ps, ps.Args[1])
	if err != nil {
		return nil, err
	}
	if ps.Args[2].Kind != asmparser.ArgLabel {
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
	}
	return stmt.NewBranch(id, sr1, sr2, labelOperand(ps.Args[2])), nil
}

func buildDataAccess(ps asmparser.ParsedStatement, id isa.InstID) (stmt.Statement, error) {
	if len(ps.Args) < 2 || len(ps.Args) > 3 {
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
	}
	dr, err := reg(ps, ps.Args[0])
	if err != nil {
		return nil, err
	}

	var imm int32
	if len(ps.Args) == 3 {
		imm, err = integer(ps, ps.Args[2])
		if err != nil {
			return nil, err
		}
	}

	base := ps.Args[1]
	switch base.Kind {
	case asmparser.ArgRegister:
		r, ok := isa.ParseRegister(base.Text)
		if !ok {
			return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
		}
		return stmt.NewDataAccessRegister(id, dr, r, imm), nil
	case asmparser.ArgLabel:
		op := labelOperand(base)
		op.Offset = imm
		return stmt.NewDataAccessLabel(id, dr, op), nil
	default:
		return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandKind)
	}
}
