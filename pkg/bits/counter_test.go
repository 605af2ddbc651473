package bits

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ydrojd/assembler/pkg/asmerr"
)

func TestAlignedCounter(t *testing.T) {
	var c AlignedCounter

	addr, err := c.Increment(MemoryAlloc{NBytes: 2, Alignment: AlignHalfword})
	require.NoError(t, err)
	assert.Equal(t, uint32(0), addr)
	assert.Equal(t, uint32(2), c.Offset())

	// Next placement of a fullword must round up to a 4-byte boundary.
	addr, err = c.Increment(MemoryAlloc{NBytes: 4, Alignment: AlignWord})
	require.NoError(t, err)
	assert.Equal(t, uint32(4), addr)
	assert.Equal(t, uint32(8), c.Offset())

	addr, err = c.Increment(MemoryAlloc{NBytes: 1, Alignment: AlignByte})
	require.NoError(t, err)
	assert.Equal(t, uint32(8), addr)
	assert.Equal(t, uint32(9), c.Offset())

	c.Reset()
	assert.Equal(t, uint32(0), c.Offset())
}

func TestAlignedCounterOverflowOnAllocation(t *testing.T) {
	c := AlignedCounter{}
	_, err := c.Increment(MemoryAlloc{NBytes: 2, Alignment: AlignByte})
	require.NoError(t, err)

	c = AlignedCounter{}
	// Force offset near the top of the address space, then allocate
	// past it.
	_, err = c.Increment(MemoryAlloc{NBytes: math.MaxUint32 - 1, Alignment: AlignByte})
	require.NoError(t, err)
	_, err = c.Increment(MemoryAlloc{NBytes: 4, Alignment: AlignByte})
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrAddressOverflow))
}

func TestAlignedCounterOverflowOnAlignmentPadding(t *testing.T) {
	c := AlignedCounter{}
	_, err := c.Increment(MemoryAlloc{NBytes: math.MaxUint32 - 1, Alignment: AlignByte})
	require.NoError(t, err)

	// offset is now MaxUint32-1; rounding up to a word boundary wraps.
	_, err = c.Increment(MemoryAlloc{NBytes: 1, Alignment: AlignWord})
	require.Error(t, err)
	assert.True(t, errors.Is(err, asmerr.ErrAddressOverflow))
}
