// Package unit defines CompilationUnit, the artifact the semantic
// analyzer produces and the ELF writer consumes.
package unit

import (
	"github.com/ydrojd/assembler/pkg/directive"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/symtab"
)

// CompilationUnit aggregates everything the analyzer derives from a
// single translation unit's statement stream.
type CompilationUnit struct {
	SymbolTable  *symtab.Table
	Instructions []isa.Instruction
	Data         []directive.DataAlloc
	Rodata       []directive.DataAlloc
	BSS          []directive.DataAlloc
}
