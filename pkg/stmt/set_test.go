package stmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

func TestSetIntLowerFit(t *testing.T) {
	s := NewSetInt(isa.RegT0, 100)
	tab := symtab.New()

	cc := s.CompileCase(tab, 0, Options{})
	assert.Equal(t, SetIntLowerFit, cc)
	assert.Equal(t, uint32(4), s.Size(cc).NBytes)

	insts := s.GenInstructions(cc, tab, 0)
	require.Len(t, insts, 1)
	assert.Equal(t, isa.Sli, insts[0].ID)
}

func TestSetIntUpperFit(t *testing.T) {
	s := NewSetInt(isa.RegT0, int32(0x00801800))
	tab := symtab.New()

	cc := s.CompileCase(tab, 0, Options{})
	assert.Equal(t, SetIntUpperFit, cc)

	insts := s.GenInstructions(cc, tab, 0)
	require.Len(t, insts, 1)
	assert.Equal(t, isa.Sui, insts[0].ID)
}

func TestSetIntFullSplitsAndReassembles(t *testing.T) {
	value := int32(0x12345678)
	s := NewSetInt(isa.RegT0, value)
	tab := symtab.New()

	cc := s.CompileCase(tab, 0, Options{})
	assert.Equal(t, SetIntFull, cc)

	insts := s.GenInstructions(cc, tab, 0)
	require.Len(t, insts, 2)
	assert.Equal(t, isa.Sui, insts[0].ID)
	assert.Equal(t, isa.Addi, insts[1].ID)
	assert.Equal(t, value, insts[0].Immediate|insts[1].Immediate)
}

func TestSetDataLabelEmitsSectionRelativeReloc(t *testing.T) {
	tab := symtab.New()
	id, _ := tab.Insert(symtab.Symbol{Identifier: "x", Section: symtab.SectionData, Type: symtab.TypeData, Scope: symtab.ScopeLocal, Address: 0x10})
	_ = id

	s := NewSetLabel(isa.RegT0, LabelOperand{Label: Label{Identifier: "x"}})
	cc := s.CompileCase(tab, 0, Options{})
	assert.Equal(t, SetDataLabel, cc)
	assert.Equal(t, symtab.RelocSectionLongStore, s.RelocKind(cc, tab))
}

func TestSetExternalLabelUsesDataLabelWithSymbolReloc(t *testing.T) {
	tab := symtab.New()
	tab.Insert(symtab.Symbol{Identifier: "f", Section: symtab.SectionUndefined, Type: symtab.TypeUndefined, Scope: symtab.ScopeExternal})

	// An external symbol is never in .text, so this exercises the
	// data-label path with symr relocation instead; pc_rel requires
	// the symbol to be resolved in .text.
	s := NewSetLabel(isa.RegT0, LabelOperand{Label: Label{Identifier: "f"}})
	cc := s.CompileCase(tab, 0, Options{})
	assert.Equal(t, SetDataLabel, cc)
	assert.Equal(t, symtab.RelocSymbolLongStore, s.RelocKind(cc, tab))
}

func TestSetUndeterminedBeforeSymbolDefined(t *testing.T) {
	tab := symtab.New()
	s := NewSetLabel(isa.RegT0, LabelOperand{Label: Label{Identifier: "x"}})
	assert.Equal(t, Undetermined, s.CompileCase(tab, 0, Options{}))
}
