package stmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

func TestBranchShortWithinFieldWidth(t *testing.T) {
	tab := symtab.New()
	tab.Insert(symtab.Symbol{Identifier: "target", Section: symtab.SectionText, Type: symtab.TypeFunction, Address: 1000})

	s := NewBranch(isa.Beq, isa.RegT0, isa.RegT1, LabelOperand{Label: Label{Identifier: "target"}})
	cc := s.CompileCase(tab, 980, Options{})
	assert.Equal(t, BranchShort, cc)
	assert.Equal(t, uint32(4), s.Size(cc).NBytes)
}

func TestBranchLongInvertsPredicateAndSwapsOperands(t *testing.T) {
	tab := symtab.New()
	tab.Insert(symtab.Symbol{Identifier: "far", Section: symtab.SectionText, Type: symtab.TypeFunction, Address: 1_000_000})

	s := NewBranch(isa.Beq, isa.RegT0, isa.RegT1, LabelOperand{Label: Label{Identifier: "far"}})
	cc := s.CompileCase(tab, 0, Options{})
	require.Equal(t, BranchLong, cc)
	assert.Equal(t, uint32(8), s.Size(cc).NBytes)

	insts := s.GenInstructions(cc, tab, 0)
	require.Len(t, insts, 2)
	assert.Equal(t, isa.Bne, insts[0].ID)
	assert.Equal(t, isa.RegT1, insts[0].SR1)
	assert.Equal(t, isa.RegT0, insts[0].SR2)
	assert.Equal(t, isa.Rji, insts[1].ID)
}

func TestBranchValidateRejectsExternalTarget(t *testing.T) {
	tab := symtab.New()
	tab.Insert(symtab.Symbol{Identifier: "f", Scope: symtab.ScopeExternal})

	s := NewBranch(isa.Beq, isa.RegT0, isa.RegT1, LabelOperand{Label: Label{Identifier: "f"}})
	assert.Error(t, s.Validate(tab))
}
