// Package symtab implements the assembler's symbol table: a dense,
// ELF-index-compatible identifier space plus an append-only
// relocation-reference log.
package symtab

// Section identifies where a symbol lives.
type Section uint8

const (
	SectionUndefined Section = iota
	SectionText
	SectionData
	SectionRodata
	SectionBSS
)

// Type classifies what a symbol names.
type Type uint8

const (
	TypeUndefined Type = iota
	TypeFunction
	TypeData
)

// Scope records a symbol's visibility.
type Scope uint8

const (
	ScopeLocal Scope = iota
	ScopeGlobal
	ScopeExternal
)

// ID is a dense symbol identifier. 0 is the reserved sentinel.
type ID uint32

const SentinelID ID = 0

// Symbol is one entry of the symbol table.
type Symbol struct {
	Identifier string
	Section    Section
	Address    uint32
	Type       Type
	Scope      Scope
	Size       uint32
}

// RelocKind tags how a linker must patch a relocation site.
type RelocKind uint8

const (
	RelocNone RelocKind = iota
	RelocSymbolLongStore
	RelocSymbolLongLoad
	RelocSectionLongStore
	RelocSectionLongLoad
	RelocShortJump
	RelocLongJump
	RelocDummy
)

// SymbolRef is a relocation record: a patch site in .text referring
// to a symbol.
type SymbolRef struct {
	SymbolID ID
	Address  uint32
	Kind     RelocKind
}

// Table is the symbol table: a name→ID map, a dense ID→Symbol store
// indexed from 1, and an append-only relocation log.
type Table struct {
	byName  map[string]ID
	symbols []Symbol // index 0 is the sentinel
	refs    []SymbolRef
}

// New returns an empty table with the sentinel already in place.
func New() *Table {
	return &Table{
		byName:  make(map[string]ID),
		symbols: []Symbol{{Identifier: "", Section: SectionUndefined, Type: TypeUndefined, Scope: ScopeLocal}},
	}
}

// Lookup returns the ID bound to identifier, if any.
func (t *Table) Lookup(identifier string) (ID, bool) {
	id, ok := t.byName[identifier]
	return id, ok
}

// Insert adds a new symbol, failing (returning the sentinel ID and
// false) if the identifier is already bound.
func (t *Table) Insert(sym Symbol) (ID, bool) {
	if _, exists := t.byName[sym.Identifier]; exists {
		return SentinelID, false
	}
	id := ID(len(t.symbols))
	t.symbols = append(t.symbols, sym)
	t.byName[sym.Identifier] = id
	return id, true
}

// Get returns the symbol stored at id. Callers must only pass IDs
// obtained from Lookup or Insert.
func (t *Table) Get(id ID) Symbol {
	return t.symbols[id]
}

// SetAddress updates the address of the symbol at id.
func (t *Table) SetAddress(id ID, address uint32) {
	t.symbols[id].Address = address
}

// SetSize updates the size of the symbol at id.
func (t *Table) SetSize(id ID, size uint32) {
	t.symbols[id].Size = size
}

// InsertRef appends a relocation record.
func (t *Table) InsertRef(ref SymbolRef) {
	t.refs = append(t.refs, ref)
}

// Refs returns the relocation log in insertion order.
func (t *Table) Refs() []SymbolRef {
	return t.refs
}

// Each calls fn for every defined symbol (index 0, the sentinel, is
// skipped) in insertion order, passing its ID.
func (t *Table) Each(fn func(id ID, sym Symbol)) {
	for i := 1; i < len(t.symbols); i++ {
		fn(ID(i), t.symbols[i])
	}
}

// Len returns the number of defined symbols, excluding the sentinel.
func (t *Table) Len() int {
	return len(t.symbols) - 1
}
