package isa

// Format is the instruction encoding shape. It determines bit layout
// and which of an Instruction's fields are meaningful.
type Format uint8

const (
	FormatReg Format = iota
	FormatBranch
	FormatImmediate
	FormatSet
	FormatJump
	FormatHalfReg
	FormatHalfImmediate
)

func (f Format) String() string {
	switch f {
	case FormatReg:
		return "reg"
	case FormatBranch:
		return "branch"
	case FormatImmediate:
		return "immediate"
	case FormatSet:
		return "set"
	case FormatJump:
		return "jump"
	case FormatHalfReg:
		return "half_reg"
	case FormatHalfImmediate:
		return "half_immediate"
	default:
		return "?"
	}
}

// IsHalfword reports whether a format always encodes to a 16-bit
// word.
func (f Format) IsHalfword() bool {
	return f == FormatHalfReg || f == FormatHalfImmediate
}

// OperandForm records which of an instruction's {dr, sr1, sr2, imm}
// fields are meaningful for a given format.
type OperandForm struct {
	HasDR   bool
	HasSR1  bool
	HasSR2  bool
	HasImm  bool
}

var operandForms = map[Format]OperandForm{
	FormatReg:           {HasDR: true, HasSR1: true, HasSR2: true, HasImm: false},
	FormatBranch:        {HasDR: false, HasSR1: true, HasSR2: true, HasImm: true},
	FormatImmediate:     {HasDR: true, HasSR1: true, HasSR2: false, HasImm: true},
	FormatSet:           {HasDR: true, HasSR1: false, HasSR2: false, HasImm: true},
	FormatJump:          {HasDR: false, HasSR1: false, HasSR2: false, HasImm: true},
	FormatHalfReg:       {HasDR: true, HasSR1: true, HasSR2: true, HasImm: false},
	FormatHalfImmediate: {HasDR: true, HasSR1: true, HasSR2: false, HasImm: true},
}

// OperandForm returns the operand-presence table entry for f.
func (f Format) OperandForm() OperandForm {
	return operandForms[f]
}

// ExtensionKind governs how a decoded immediate is widened.
type ExtensionKind uint8

const (
	ExtendNone ExtensionKind = iota
	ExtendSign
	ExtendZero
	ExtendOne
)

func (e ExtensionKind) String() string {
	switch e {
	case ExtendSign:
		return "sign"
	case ExtendZero:
		return "zero"
	case ExtendOne:
		return "one"
	default:
		return "na"
	}
}
