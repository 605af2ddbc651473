package stmt

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

func TestUnaryNotWithMatchingRegistersIsHalfword(t *testing.T) {
	s := NewUnary(Not, isa.RegT0, isa.RegT0)
	tab := symtab.New()

	cc := s.CompileCase(tab, 0, Options{})
	assert.Equal(t, UnaryHalfReg, cc)

	insts := s.GenInstructions(cc, tab, 0)
	require.Len(t, insts, 1)
	assert.Equal(t, isa.NandH, insts[0].ID)
}

func TestUnaryNegIsAlwaysFullword(t *testing.T) {
	s := NewUnary(Neg, isa.RegT0, isa.RegT0)
	tab := symtab.New()

	cc := s.CompileCase(tab, 0, Options{})
	assert.Equal(t, UnaryFullReg, cc)

	insts := s.GenInstructions(cc, tab, 0)
	require.Len(t, insts, 1)
	assert.Equal(t, isa.Sub, insts[0].ID)
	assert.Equal(t, isa.RegZero, insts[0].SR1)
}

func TestUnaryNotWithDifferentRegistersIsFullword(t *testing.T) {
	s := NewUnary(Not, isa.RegT0, isa.RegT1)
	tab := symtab.New()

	cc := s.CompileCase(tab, 0, Options{})
	assert.Equal(t, UnaryFullReg, cc)

	insts := s.GenInstructions(cc, tab, 0)
	assert.Equal(t, isa.Xnor, insts[0].ID)
}
