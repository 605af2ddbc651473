package bits

import "github.com/ydrojd/assembler/pkg/asmerr"

// Alignment is a placement alignment in bytes.
type Alignment uint32

const (
	AlignByte     Alignment = 1
	AlignHalfword Alignment = 2
	AlignWord     Alignment = 4
)

// MemoryAlloc describes the size and alignment requirement of a
// single placement: an instruction sequence or a data-directive blob.
type MemoryAlloc struct {
	NBytes    uint32
	Alignment Alignment
}

// AlignedCounter is a running byte offset used by the analyzer's
// sizing, layout, and code-generation passes. It hands out the
// pre-increment aligned address for each placement and keeps the
// offset advancing monotonically.
type AlignedCounter struct {
	offset uint32
}

// Reset zeroes the counter.
func (c *AlignedCounter) Reset() {
	c.offset = 0
}

// Offset returns the counter's current, not-yet-aligned value.
func (c *AlignedCounter) Offset() uint32 {
	return c.offset
}

// Increment rounds the counter up to alloc's alignment, returns that
// rounded value (the placement address), and advances the counter by
// alloc.NBytes. It reports asmerr.ErrAddressOverflow if either the
// alignment padding or the allocation itself would wrap the counter
// past the 32-bit address space.
func (c *AlignedCounter) Increment(alloc MemoryAlloc) (uint32, error) {
	aligned := alignUp(c.offset, uint32(alloc.Alignment))
	if aligned < c.offset {
		return 0, asmerr.ErrAddressOverflow
	}
	next := aligned + alloc.NBytes
	if next < aligned {
		return 0, asmerr.ErrAddressOverflow
	}
	c.offset = next
	return aligned, nil
}

func alignUp(offset uint32, alignment uint32) uint32 {
	if alignment <= 1 {
		return offset
	}
	remainder := offset % alignment
	if remainder == 0 {
		return offset
	}
	return offset + (alignment - remainder)
}
