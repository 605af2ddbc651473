package directive

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildWordWithValues(t *testing.T) {
	alloc, err := Build(Word, "x", []int32{1, 2, 3})
	require.NoError(t, err)
	assert.False(t, alloc.ZeroData)
	assert.Equal(t, []int32{1, 2, 3}, alloc.Values)
	assert.Equal(t, uint32(12), alloc.MemoryAlloc.NBytes)
	assert.Equal(t, Word.alignment(), alloc.MemoryAlloc.Alignment)
}

func TestBuildWordWithNoArgumentsReservesOneZero(t *testing.T) {
	alloc, err := Build(Word, "", nil)
	require.NoError(t, err)
	assert.True(t, alloc.ZeroData)
	assert.Nil(t, alloc.Values)
	assert.Equal(t, uint32(4), alloc.MemoryAlloc.NBytes)
}

func TestBuildWordAllZeroValuesBecomesZeroData(t *testing.T) {
	alloc, err := Build(Word, "", []int32{0, 0})
	require.NoError(t, err)
	assert.True(t, alloc.ZeroData)
	assert.Nil(t, alloc.Values)
	assert.Equal(t, uint32(8), alloc.MemoryAlloc.NBytes)
}

func TestBuildArrayReservesZeroedElements(t *testing.T) {
	alloc, err := Build(ByteArray, "buf", []int32{16})
	require.NoError(t, err)
	assert.True(t, alloc.ZeroData)
	assert.Equal(t, uint32(16), alloc.MemoryAlloc.NBytes)
}

func TestBuildArrayRejectsWrongArgCount(t *testing.T) {
	_, err := Build(WordArray, "buf", []int32{1, 2})
	assert.Error(t, err)

	_, err = Build(WordArray, "buf", nil)
	assert.Error(t, err)
}
