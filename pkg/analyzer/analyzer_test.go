package analyzer

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/asmlex"
	"github.com/ydrojd/assembler/pkg/asmparser"
	"github.com/ydrojd/assembler/pkg/stmt"
	"github.com/ydrojd/assembler/pkg/symtab"
	"github.com/ydrojd/assembler/pkg/unit"
)

func analyze(t *testing.T, src string) (*unit.CompilationUnit, error) {
	t.Helper()
	statements, err := asmparser.New(asmlex.New(src)).ParseAll()
	require.NoError(t, err)
	return Analyze(statements, stmt.Options{})
}

func TestAnalyzeSimpleProgram(t *testing.T) {
	u, err := analyze(t, `
.text
.global start
start:
    addi t0, t0, 1
    jmp start
`)
	require.NoError(t, err)

	id, ok := u.SymbolTable.Lookup("start")
	require.True(t, ok)
	sym := u.SymbolTable.Get(id)
	assert.Equal(t, uint32(0), sym.Address)
	assert.Equal(t, symtab.ScopeGlobal, sym.Scope)
	assert.Equal(t, symtab.TypeFunction, sym.Type)
	assert.Equal(t, symtab.SectionText, sym.Section)

	assert.NotEmpty(t, u.Instructions)
}

func TestAnalyzeDuplicateLabelIsError(t *testing.T) {
	_, err := analyze(t, `
.text
foo:
    add t0, t1, t2
foo:
    add t0, t1, t2
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrDuplicateLabel))
}

func TestAnalyzeUndefinedLabelIsError(t *testing.T) {
	_, err := analyze(t, `
.text
    jmp nowhere
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrLabelNotFound))
}

func TestAnalyzeGlobalDeclarationWithoutLocalDefinitionBecomesExternal(t *testing.T) {
	u, err := analyze(t, `
.text
.global foreign
    jal foreign
`)
	require.NoError(t, err)

	id, ok := u.SymbolTable.Lookup("foreign")
	require.True(t, ok)
	sym := u.SymbolTable.Get(id)
	assert.Equal(t, symtab.ScopeExternal, sym.Scope)
	assert.Equal(t, symtab.SectionUndefined, sym.Section)
}

func TestAnalyzeBranchToExternalSymbolIsRejected(t *testing.T) {
	_, err := analyze(t, `
.text
.global foreign
    beq t0, t1, foreign
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrInvalidBranchTarget))
}

func TestAnalyzeBranchToDataSymbolIsRejected(t *testing.T) {
	_, err := analyze(t, `
.data
counter: .word 0
.text
    beq t0, t1, counter
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrExpectedExecutable))
}

func TestAnalyzeDataDirectiveOutsideDataSectionIsError(t *testing.T) {
	_, err := analyze(t, `
.text
.word 1
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrDirectiveOutsideData))
}

func TestAnalyzeInstructionOutsideTextIsError(t *testing.T) {
	_, err := analyze(t, `
.data
    add t0, t1, t2
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrInstructionOutsideText))
}

func TestAnalyzeDataSection(t *testing.T) {
	u, err := analyze(t, `
.data
one: .word 1
arr: .byte_array 4
.text
start:
    add t0, t1, t2
`)
	require.NoError(t, err)
	require.Len(t, u.Data, 2)

	oneID, ok := u.SymbolTable.Lookup("one")
	require.True(t, ok)
	assert.Equal(t, uint32(0), u.SymbolTable.Get(oneID).Address)

	arrID, ok := u.SymbolTable.Lookup("arr")
	require.True(t, ok)
	assert.Equal(t, uint32(4), u.SymbolTable.Get(arrID).Address)
}

func TestAnalyzeAnonymousBackwardLabelsAreDisambiguated(t *testing.T) {
	u, err := analyze(t, `
.text
b_1:
    add t0, t0, t1
    jmp b_1
b_1:
    add t1, t1, t2
    jmp b_1
`)
	require.NoError(t, err)

	first, ok := u.SymbolTable.Lookup("b_1#0")
	require.True(t, ok)
	second, ok := u.SymbolTable.Lookup("b_1#1")
	require.True(t, ok)
	assert.NotEqual(t, u.SymbolTable.Get(first).Address, u.SymbolTable.Get(second).Address)
}

func TestAnalyzeTrailingLabelBindsToSectionEnd(t *testing.T) {
	u, err := analyze(t, `
.text
start:
    add t0, t1, t2
end:
`)
	require.NoError(t, err)

	startID, ok := u.SymbolTable.Lookup("start")
	require.True(t, ok)
	endID, ok := u.SymbolTable.Lookup("end")
	require.True(t, ok)

	assert.Greater(t, u.SymbolTable.Get(endID).Address, u.SymbolTable.Get(startID).Address)
}

func TestAnalyzeDuplicateGlobalDeclarationIsError(t *testing.T) {
	_, err := analyze(t, `
.text
.global start
.global start
start:
    add t0, t1, t2
`)
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrDuplicateGlobal))
}
