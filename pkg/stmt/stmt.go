// Package stmt implements the seven semantic-statement variants: one
// per assembly-statement family. Each exposes sizing, compile-case
// selection, instruction generation, and relocation-kind
// determination against a symbol table and a placement address.
package stmt

import (
	"github.com/ydrojd/assembler/pkg/bits"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

// CompileCase is a small non-zero tag identifying which
// machine-instruction expansion a statement will emit. Undetermined
// (zero) means the computation depends on a symbol whose address is
// not yet known; callers use it as a worst-case proxy during the
// sizing pass.
type CompileCase int

const Undetermined CompileCase = 0

// Options threads user-facing assembler flags into compile-case
// selection.
type Options struct {
	ShortJumps bool
}

// Label identifies a symbolic address: its source identifier and,
// once resolved, the symbol table ID it was bound to.
type Label struct {
	Identifier string
	SymbolID   symtab.ID
}

// LabelOperand is a symbolic address plus a static displacement, as
// used by jump, branch, set, and data-access statements.
type LabelOperand struct {
	Label  Label
	Offset int32
}

// Statement is the capability set every semantic-statement variant
// implements.
type Statement interface {
	CompileCase(symtab *symtab.Table, pc uint32, opts Options) CompileCase
	Size(cc CompileCase) bits.MemoryAlloc
	GenInstructions(cc CompileCase, symtab *symtab.Table, pc uint32) []isa.Instruction
	HasLabelOperand() bool
	GetLabelOperand() LabelOperand
	RelocKind(cc CompileCase, symtab *symtab.Table) symtab.RelocKind
	HasLabel() bool
	GetLabel() string
	SetLabel(identifier string)
}

// base implements the label-attached-to-statement bookkeeping shared
// by every variant via embedding.
type base struct {
	label string
}

func (b *base) HasLabel() bool     { return b.label != "" }
func (b *base) GetLabel() string   { return b.label }
func (b *base) SetLabel(id string) { b.label = id }

// noLabelOperand implements HasLabelOperand/GetLabelOperand/RelocKind
// for statement variants that never reference a symbol
// (register-arithmetic and unary statements).
type noLabelOperand struct{}

func (noLabelOperand) HasLabelOperand() bool { return false }
func (noLabelOperand) GetLabelOperand() LabelOperand {
	return LabelOperand{}
}
func (noLabelOperand) RelocKind(CompileCase, *symtab.Table) symtab.RelocKind {
	return symtab.RelocNone
}

// fullwordAlloc and halfwordAlloc are the two alignments every
// statement's Size ultimately resolves to for a given byte count.
func fullwordAlloc(nbytes uint32) bits.MemoryAlloc {
	return bits.MemoryAlloc{NBytes: nbytes, Alignment: bits.AlignWord}
}

func halfwordAlloc(nbytes uint32) bits.MemoryAlloc {
	return bits.MemoryAlloc{NBytes: nbytes, Alignment: bits.AlignHalfword}
}

// resolveLabel looks up op's symbol in symtab, caching the ID on the
// operand. Returns false ("undetermined") if the symbol is not yet
// defined.
func resolveLabel(op *LabelOperand, tab *symtab.Table) bool {
	id, ok := tab.Lookup(op.Label.Identifier)
	if !ok {
		return false
	}
	op.Label.SymbolID = id
	return true
}
