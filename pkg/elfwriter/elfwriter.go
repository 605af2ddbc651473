// Package elfwriter serializes a compilation unit into a relocatable
// ELF32 little-endian object file: four PROGBITS/NOBITS sections
// (.text, .data, .rodata, .bss), a symbol table, a string table, and a
// .rel.text carrying the unit's symbol references.
//
// The instruction set has no machine ID of its own, so e_machine is
// left at EM_NONE, matching how the original toolchain flagged its
// object files as belonging to a non-standard architecture.
package elfwriter

import (
	"bytes"
	"encoding/binary"
	"io"

	"github.com/ydrojd/assembler/pkg/directive"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
	"github.com/ydrojd/assembler/pkg/unit"
)

const (
	etRel   = 1
	emNone  = 0
	evCurrent = 1

	shtNull    = 0
	shtProgbits = 1
	shtSymtab  = 2
	shtStrtab  = 3
	shtRel     = 9
	shtNobits  = 8

	shfWrite     = 0x1
	shfAlloc     = 0x2
	shfExecinstr = 0x4

	sttNotype = 0
	sttObject = 1
	sttFunc   = 2

	stbLocal  = 0
	stbGlobal = 1
)

// elf32Header mirrors Elf32_Ehdr field-for-field.
type elf32Header struct {
	Ident     [16]byte
	Type      uint16
	Machine   uint16
	Version   uint32
	Entry     uint32
	Phoff     uint32
	Shoff     uint32
	Flags     uint32
	Ehsize    uint16
	Phentsize uint16
	Phnum     uint16
	Shentsize uint16
	Shnum     uint16
	Shstrndx  uint16
}

// elf32SectionHeader mirrors Elf32_Shdr.
type elf32SectionHeader struct {
	Name      uint32
	Type      uint32
	Flags     uint32
	Addr      uint32
	Offset    uint32
	Size      uint32
	Link      uint32
	Info      uint32
	Addralign uint32
	Entsize   uint32
}

// elf32Sym mirrors Elf32_Sym.
type elf32Sym struct {
	Name  uint32
	Value uint32
	Size  uint32
	Info  uint8
	Other uint8
	Shndx uint16
}

// elf32Rel mirrors Elf32_Rel.
type elf32Rel struct {
	Offset uint32
	Info   uint32
}

// stringTable accumulates null-terminated strings, index 0 always the
// empty string per ELF convention.
type stringTable struct {
	buf []byte
}

func newStringTable() *stringTable {
	return &stringTable{buf: []byte{0}}
}

func (s *stringTable) add(str string) uint32 {
	off := uint32(len(s.buf))
	s.buf = append(s.buf, []byte(str)...)
	s.buf = append(s.buf, 0)
	return off
}

// sectionIndex names the fixed section order written to the file.
const (
	secNull = iota
	secText
	secData
	secRodata
	secBSS
	secSymtab
	secStrtab
	secRelText
	secShstrtab
	secCount
)

// Write serializes u as a complete ELF32 object with entry as the
// file's entry-point address.
func Write(w io.Writer, u *unit.CompilationUnit, entry uint32) error {
	textBytes := encodeText(u.Instructions)
	dataBytes := encodeData(u.Data)
	rodataBytes := encodeData(u.Rodata)
	bssSize := dataSize(u.BSS)

	shstrtab := newStringTable()
	sectionNames := [secCount]uint32{}
	sectionNames[secText] = shstrtab.add(".text")
	sectionNames[secData] = shstrtab.add(".data")
	sectionNames[secRodata] = shstrtab.add(".rodata")
	sectionNames[secBSS] = shstrtab.add(".bss")
	sectionNames[secSymtab] = shstrtab.add(".symtab")
	sectionNames[secStrtab] = shstrtab.add(".strtab")
	sectionNames[secRelText] = shstrtab.add(".rel.text")
	sectionNames[secShstrtab] = shstrtab.add(".shstrtab")

	strtab := newStringTable()
	symbols := []elf32Sym{{}} // index 0: null symbol
	for id := symtab.ID(1); int(id) <= u.SymbolTable.Len(); id++ {
		sym := u.SymbolTable.Get(id)
		symbols = append(symbols, elf32Sym{
			Name:  strtab.add(sym.Identifier),
			Value: sym.Address,
			Size:  sym.Size,
			Info:  symbolInfo(sym),
			Shndx: sectionIndexOf(sym.Section),
		})
	}

	var rels []elf32Rel
	for _, ref := range u.SymbolTable.Refs() {
		rels = append(rels, elf32Rel{
			Offset: ref.Address,
			Info:   (uint32(ref.SymbolID) << 8) | uint32(ref.Kind),
		})
	}

	symtabBytes := encodeSyms(symbols)
	relBytes := encodeRels(rels)

	const ehsize = 52
	const shsize = 40
	offset := uint32(ehsize)

	secOffsets := [secCount]uint32{}
	place := func(idx int, size int) {
		secOffsets[idx] = offset
		offset += uint32(size)
	}
	place(secText, len(textBytes))
	place(secData, len(dataBytes))
	place(secRodata, len(rodataBytes))
	// .bss occupies no file space (SHT_NOBITS).
	place(secSymtab, len(symtabBytes))
	place(secStrtab, len(strtab.buf))
	place(secRelText, len(relBytes))
	place(secShstrtab, len(shstrtab.buf))

	shoff := offset

	headers := make([]elf32SectionHeader, secCount)
	headers[secText] = elf32SectionHeader{
		Name: sectionNames[secText], Type: shtProgbits, Flags: shfAlloc | shfExecinstr,
		Offset: secOffsets[secText], Size: uint32(len(textBytes)), Addralign: 4,
	}
	headers[secData] = elf32SectionHeader{
		Name: sectionNames[secData], Type: shtProgbits, Flags: shfAlloc | shfWrite,
		Offset: secOffsets[secData], Size: uint32(len(dataBytes)), Addralign: 4,
	}
	headers[secRodata] = elf32SectionHeader{
		Name: sectionNames[secRodata], Type: shtProgbits, Flags: shfAlloc,
		Offset: secOffsets[secRodata], Size: uint32(len(rodataBytes)), Addralign: 4,
	}
	headers[secBSS] = elf32SectionHeader{
		Name: sectionNames[secBSS], Type: shtNobits, Flags: shfAlloc | shfWrite,
		Offset: secOffsets[secSymtab], Size: bssSize, Addralign: 4,
	}
	headers[secSymtab] = elf32SectionHeader{
		Name: sectionNames[secSymtab], Type: shtSymtab,
		Offset: secOffsets[secSymtab], Size: uint32(len(symtabBytes)),
		Link: secStrtab, Info: 1, Addralign: 4, Entsize: 16,
	}
	headers[secStrtab] = elf32SectionHeader{
		Name: sectionNames[secStrtab], Type: shtStrtab,
		Offset: secOffsets[secStrtab], Size: uint32(len(strtab.buf)), Addralign: 1,
	}
	headers[secRelText] = elf32SectionHeader{
		Name: sectionNames[secRelText], Type: shtRel,
		Offset: secOffsets[secRelText], Size: uint32(len(relBytes)),
		Link: secSymtab, Info: secText, Addralign: 4, Entsize: 8,
	}
	headers[secShstrtab] = elf32SectionHeader{
		Name: sectionNames[secShstrtab], Type: shtStrtab,
		Offset: secOffsets[secShstrtab], Size: uint32(len(shstrtab.buf)), Addralign: 1,
	}

	header := elf32Header{
		Type:      etRel,
		Machine:   emNone,
		Version:   evCurrent,
		Entry:     entry,
		Shoff:     shoff,
		Ehsize:    ehsize,
		Shentsize: shsize,
		Shnum:     secCount,
		Shstrndx:  secShstrtab,
	}
	header.Ident[0], header.Ident[1], header.Ident[2], header.Ident[3] = 0x7f, 'E', 'L', 'F'
	header.Ident[4] = 1 // ELFCLASS32
	header.Ident[5] = 1 // ELFDATA2LSB
	header.Ident[6] = 1 // EV_CURRENT

	var out bytes.Buffer
	if err := binary.Write(&out, binary.LittleEndian, header); err != nil {
		return err
	}
	out.Write(textBytes)
	out.Write(dataBytes)
	out.Write(rodataBytes)
	out.Write(symtabBytes)
	out.Write(strtab.buf)
	out.Write(relBytes)
	out.Write(shstrtab.buf)

	// Section header at index 0 is always the null section entry.
	if err := binary.Write(&out, binary.LittleEndian, elf32SectionHeader{}); err != nil {
		return err
	}
	for i := 1; i < secCount; i++ {
		if err := binary.Write(&out, binary.LittleEndian, headers[i]); err != nil {
			return err
		}
	}

	_, err := w.Write(out.Bytes())
	return err
}

func encodeText(instructions []isa.Instruction) []byte {
	var buf []byte
	for _, inst := range instructions {
		enc := isa.Encode(inst)
		if enc.NBytes == 4 {
			buf = padTo(buf, 4)
		}
		word := make([]byte, 4)
		binary.LittleEndian.PutUint32(word, enc.Word)
		buf = append(buf, word[:enc.NBytes]...)
	}
	return buf
}

func padTo(buf []byte, alignment uint32) []byte {
	for alignment > 1 && len(buf)%int(alignment) != 0 {
		buf = append(buf, 0)
	}
	return buf
}

func encodeData(allocs []directive.DataAlloc) []byte {
	var buf []byte
	for _, alloc := range allocs {
		buf = padTo(buf, uint32(alloc.MemoryAlloc.Alignment))
		if alloc.ZeroData {
			buf = append(buf, make([]byte, alloc.MemoryAlloc.NBytes)...)
			continue
		}
		elemSize := uint32(alloc.MemoryAlloc.Alignment)
		if len(alloc.Values) > 0 {
			elemSize = alloc.MemoryAlloc.NBytes / uint32(len(alloc.Values))
		}
		for _, v := range alloc.Values {
			word := make([]byte, 4)
			binary.LittleEndian.PutUint32(word, uint32(v))
			buf = append(buf, word[:elemSize]...)
		}
	}
	return buf
}

func dataSize(allocs []directive.DataAlloc) uint32 {
	var size uint32
	for _, alloc := range allocs {
		if rem := size % uint32(alloc.MemoryAlloc.Alignment); rem != 0 && alloc.MemoryAlloc.Alignment > 1 {
			size += uint32(alloc.MemoryAlloc.Alignment) - rem
		}
		size += alloc.MemoryAlloc.NBytes
	}
	return size
}

func encodeSyms(syms []elf32Sym) []byte {
	var out bytes.Buffer
	for _, s := range syms {
		_ = binary.Write(&out, binary.LittleEndian, s)
	}
	return out.Bytes()
}

func encodeRels(rels []elf32Rel) []byte {
	var out bytes.Buffer
	for _, r := range rels {
		_ = binary.Write(&out, binary.LittleEndian, r)
	}
	return out.Bytes()
}

func symbolInfo(sym symtab.Symbol) uint8 {
	var typ uint8
	switch sym.Type {
	case symtab.TypeFunction:
		typ = sttFunc
	case symtab.TypeData:
		typ = sttObject
	default:
		typ = sttNotype
	}

	bind := uint8(stbLocal)
	if sym.Scope != symtab.ScopeLocal {
		bind = stbGlobal
	}
	return (bind << 4) | typ
}

func sectionIndexOf(section symtab.Section) uint16 {
	switch section {
	case symtab.SectionText:
		return secText
	case symtab.SectionData:
		return secData
	case symtab.SectionRodata:
		return secRodata
	case symtab.SectionBSS:
		return secBSS
	default:
		return 0 // SHN_UNDEF
	}
}
