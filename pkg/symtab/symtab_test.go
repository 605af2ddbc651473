package symtab

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInsertAssignsDenseIDsFromOne(t *testing.T) {
	tab := New()

	id1, ok := tab.Insert(Symbol{Identifier: "start", Section: SectionText, Type: TypeFunction, Scope: ScopeLocal})
	require.True(t, ok)
	assert.Equal(t, ID(1), id1)

	id2, ok := tab.Insert(Symbol{Identifier: "x", Section: SectionData, Type: TypeData, Scope: ScopeGlobal})
	require.True(t, ok)
	assert.Equal(t, ID(2), id2)

	assert.Equal(t, 2, tab.Len())
}

func TestInsertRejectsDuplicateIdentifier(t *testing.T) {
	tab := New()
	_, ok := tab.Insert(Symbol{Identifier: "start"})
	require.True(t, ok)

	id, ok := tab.Insert(Symbol{Identifier: "start"})
	assert.False(t, ok)
	assert.Equal(t, SentinelID, id)
}

func TestLookupAndGet(t *testing.T) {
	tab := New()
	id, _ := tab.Insert(Symbol{Identifier: "start", Address: 0})

	found, ok := tab.Lookup("start")
	require.True(t, ok)
	assert.Equal(t, id, found)

	_, ok = tab.Lookup("nope")
	assert.False(t, ok)

	sym := tab.Get(found)
	assert.Equal(t, "start", sym.Identifier)
}

func TestSetAddressAndSize(t *testing.T) {
	tab := New()
	id, _ := tab.Insert(Symbol{Identifier: "start"})

	tab.SetAddress(id, 0x100)
	tab.SetSize(id, 4)

	sym := tab.Get(id)
	assert.Equal(t, uint32(0x100), sym.Address)
	assert.Equal(t, uint32(4), sym.Size)
}

func TestEachSkipsSentinel(t *testing.T) {
	tab := New()
	tab.Insert(Symbol{Identifier: "a"})
	tab.Insert(Symbol{Identifier: "b"})

	var seen []string
	tab.Each(func(id ID, sym Symbol) {
		assert.NotEqual(t, SentinelID, id)
		seen = append(seen, sym.Identifier)
	})

	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestInsertRefIsAppendOnly(t *testing.T) {
	tab := New()
	tab.InsertRef(SymbolRef{SymbolID: 1, Address: 4, Kind: RelocShortJump})
	tab.InsertRef(SymbolRef{SymbolID: 2, Address: 8, Kind: RelocLongJump})

	refs := tab.Refs()
	require.Len(t, refs, 2)
	assert.Equal(t, RelocShortJump, refs[0].Kind)
	assert.Equal(t, RelocLongJump, refs[1].Kind)
}
