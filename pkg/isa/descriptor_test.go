package isa

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEveryInstructionHasADescriptor(t *testing.T) {
	for id := Add; id < totalInstIDs; id++ {
		_, ok := Lookup(id)
		assert.Truef(t, ok, "instruction id %d has no descriptor", id)
	}
}

func TestDescriptorEncodingIsUnique(t *testing.T) {
	// buildDecodeTable already panics on duplicates at package init;
	// this test documents the invariant and would fail loudly if the
	// panic were ever downgraded to a silent overwrite.
	seen := map[decodeKey]InstID{}
	for id, d := range descriptors {
		var key decodeKey
		if d.IsHalfword {
			key = decodeKey{isHalfword: true, opcode: d.Opcode}
		} else {
			key = decodeKey{isHalfword: false, opcode: d.Opcode, funcode: d.Funcode}
		}
		if existing, dup := seen[key]; dup {
			t.Fatalf("opcode collision between %s and %s", existing.String(), id.String())
		}
		seen[key] = id
	}
}

func TestLookupMnemonic(t *testing.T) {
	d, ok := LookupMnemonic("add_h")
	require.True(t, ok)
	assert.Equal(t, AddH, d.ID)
	assert.True(t, d.IsHalfword)

	_, ok = LookupMnemonic("does_not_exist")
	assert.False(t, ok)
}

func TestFuncodeBits(t *testing.T) {
	regDesc, _ := Lookup(Add)
	assert.Equal(t, 6, regDesc.FuncodeBits())

	branchDesc, _ := Lookup(Beq)
	assert.Equal(t, 2, branchDesc.FuncodeBits())

	setDesc, _ := Lookup(Sli)
	assert.Equal(t, 0, setDesc.FuncodeBits())

	halfDesc, _ := Lookup(AddH)
	assert.Equal(t, 0, halfDesc.FuncodeBits())
}

func TestHalfwordFormEquivalents(t *testing.T) {
	h, ok := HalfwordForm(Add)
	require.True(t, ok)
	assert.Equal(t, AddH, h)

	_, ok = HalfwordForm(Jalr)
	assert.False(t, ok)
}

func TestBranchInverse(t *testing.T) {
	inv, ok := Inverse(Beq)
	require.True(t, ok)
	assert.Equal(t, Bne, inv)

	_, ok = Inverse(Add)
	assert.False(t, ok)
}
