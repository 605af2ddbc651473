// Package directive models the parsed representation of data/section
// directives: `.word`, `.halfword`, `.byte` and their `_array`
// variants.
package directive

import (
	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/bits"
)

// Kind enumerates the six directive shapes.
type Kind uint8

const (
	Word Kind = iota
	Halfword
	Byte
	WordArray
	HalfwordArray
	ByteArray
)

func (k Kind) alignment() bits.Alignment {
	switch k {
	case Word, WordArray:
		return bits.AlignWord
	case Halfword, HalfwordArray:
		return bits.AlignHalfword
	default:
		return bits.AlignByte
	}
}

func (k Kind) elementSize() uint32 {
	switch k {
	case Word, WordArray:
		return 4
	case Halfword, HalfwordArray:
		return 2
	default:
		return 1
	}
}

func (k Kind) isArray() bool {
	return k == WordArray || k == HalfwordArray || k == ByteArray
}

// DataAlloc is a single data/section-directive record: whether it
// reserves zeroed storage, the memory it occupies, and (for
// non-array directives) the literal values it initializes.
type DataAlloc struct {
	ZeroData    bool
	MemoryAlloc bits.MemoryAlloc
	Values      []int32
	Label       string
}

// Build constructs the DataAlloc for a directive of kind k given its
// literal arguments. For array directives, args must hold exactly
// one element: the element count.
func Build(k Kind, label string, args []int32) (DataAlloc, error) {
	if k.isArray() {
		if len(args) != 1 {
			return DataAlloc{}, asmerr.ErrArrayDirectiveArgCount
		}
		count := uint32(args[0])
		return DataAlloc{
			ZeroData:    true,
			MemoryAlloc: bits.MemoryAlloc{NBytes: count * k.elementSize(), Alignment: k.alignment()},
			Label:       label,
		}, nil
	}

	values := args
	if len(values) == 0 {
		values = []int32{0}
	}

	allZero := true
	for _, v := range values {
		if v != 0 {
			allZero = false
			break
		}
	}

	alloc := DataAlloc{
		MemoryAlloc: bits.MemoryAlloc{NBytes: uint32(len(values)) * k.elementSize(), Alignment: k.alignment()},
		Label:       label,
	}
	if allZero {
		alloc.ZeroData = true
	} else {
		alloc.Values = values
	}
	return alloc, nil
}
