// Package analyzer drives the multi-pass translation from a parsed
// statement stream to a complete unit.CompilationUnit: sectioning and
// symbol collection, anonymous-label renaming, worst-case sizing,
// final compile-case selection, address refinement, and code
// generation.
package analyzer

import (
	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/asmparser"
	"github.com/ydrojd/assembler/pkg/bits"
	"github.com/ydrojd/assembler/pkg/directive"
	"github.com/ydrojd/assembler/pkg/isa"
	"github.com/ydrojd/assembler/pkg/stmt"
	"github.com/ydrojd/assembler/pkg/symtab"
	"github.com/ydrojd/assembler/pkg/unit"
)

// Analyze runs the full pipeline over a parsed statement stream and
// produces a complete compilation unit, or the first error
// encountered.
func Analyze(statements []asmparser.ParsedStatement, opts stmt.Options) (*unit.CompilationUnit, error) {
	renameAnonymousLabels(statements)

	b, err := runPass0(statements)
	if err != nil {
		return nil, err
	}

	tab := symtab.New()

	if err := definePass1Labels(b, tab, opts); err != nil {
		return nil, err
	}
	definePendingExternals(b, tab)

	if err := validateControlFlow(b.text, tab); err != nil {
		return nil, err
	}
	if err := finalizeTextCompileCases(b.text, tab, opts); err != nil {
		return nil, err
	}
	if err := refineTextAddresses(b, tab); err != nil {
		return nil, err
	}

	instrs := generateText(b.text, tab)

	return &unit.CompilationUnit{
		SymbolTable:  tab,
		Instructions: instrs,
		Data:         allocsOf(b.data),
		Rodata:       allocsOf(b.rodata),
		BSS:          allocsOf(b.bss),
	}, nil
}

// definePass1Labels walks every section once, assigning worst-case
// .text addresses (via Undetermined sizing for any statement with a
// label operand) and exact addresses for data/rodata/bss, and inserts
// every defined label into tab at that address.
func definePass1Labels(b *build, tab *symtab.Table, opts stmt.Options) error {
	var counter bits.AlignedCounter
	for i := range b.text {
		e := &b.text[i]

		var cc stmt.CompileCase
		if e.statement.HasLabelOperand() {
			cc = stmt.Undetermined
		} else {
			cc = e.statement.CompileCase(tab, 0, opts)
		}

		addr, err := counter.Increment(e.statement.Size(cc))
		if err != nil {
			return asmerr.AtLine(e.line, err)
		}
		e.pass1Addr = addr

		ids, err := defineLabels(tab, e.labels, symtab.SectionText, symtab.TypeFunction, addr, b.pendingGlobals)
		if err != nil {
			return err
		}
		e.labelIDs = ids
	}
	if err := defineTrailingSet(b, tab, symtab.SectionText, symtab.TypeFunction, counter.Offset()); err != nil {
		return err
	}

	if err := definePass1Data(b, b.data, symtab.SectionData, tab); err != nil {
		return err
	}
	if err := definePass1Data(b, b.rodata, symtab.SectionRodata, tab); err != nil {
		return err
	}
	if err := definePass1Data(b, b.bss, symtab.SectionBSS, tab); err != nil {
		return err
	}
	return nil
}

func definePass1Data(b *build, entries []dataEntry, section symtab.Section, tab *symtab.Table) error {
	var counter bits.AlignedCounter
	for i := range entries {
		addr, err := counter.Increment(entries[i].alloc.MemoryAlloc)
		if err != nil {
			if len(entries[i].labels) > 0 {
				return asmerr.AtLine(entries[i].labels[0].line, err)
			}
			return err
		}
		ids, err := defineLabels(tab, entries[i].labels, section, symtab.TypeData, addr, b.pendingGlobals)
		if err != nil {
			return err
		}
		entries[i].labelIDs = ids
	}
	return defineTrailingSet(b, tab, section, symtab.TypeData, counter.Offset())
}

func defineTrailingSet(b *build, tab *symtab.Table, section symtab.Section, typ symtab.Type, addr uint32) error {
	ids, err := defineLabels(tab, b.trailingLabels[section], section, typ, addr, b.pendingGlobals)
	if err != nil {
		return err
	}
	b.trailingLabelIDs[section] = ids
	return nil
}

func defineLabels(tab *symtab.Table, labels []labelRef, section symtab.Section, typ symtab.Type, addr uint32, pendingGlobals map[string]int) ([]symtab.ID, error) {
	ids := make([]symtab.ID, 0, len(labels))
	for _, l := range labels {
		scope := symtab.ScopeLocal
		if _, ok := pendingGlobals[l.name]; ok {
			scope = symtab.ScopeGlobal
		}
		id, ok := tab.Insert(symtab.Symbol{Identifier: l.name, Section: section, Address: addr, Type: typ, Scope: scope})
		if !ok {
			return nil, asmerr.AtLine(l.line, asmerr.Wrap(asmerr.ErrDuplicateLabel, "%q", l.name))
		}
		ids = append(ids, id)
	}
	return ids, nil
}

// definePendingExternals inserts a placeholder symbol for every
// identifier named by .global/.externex/.externdata that pass 1 never
// defined locally: a forward declaration of something another
// translation unit provides.
func definePendingExternals(b *build, tab *symtab.Table) {
	for name := range b.pendingGlobals {
		if _, ok := tab.Lookup(name); ok {
			continue
		}
		tab.Insert(symtab.Symbol{
			Identifier: name,
			Section:    symtab.SectionUndefined,
			Address:    0,
			Type:       symtab.TypeUndefined,
			Scope:      symtab.ScopeExternal,
		})
	}
}

// validateControlFlow surfaces the two hard-error rules compile-case
// selection cannot express on its own: branching to a data symbol,
// and branching to an external symbol.
func validateControlFlow(entries []textEntry, tab *symtab.Table) error {
	for _, e := range entries {
		switch s := e.statement.(type) {
		case *stmt.Jump:
			if err := s.Validate(tab); err != nil {
				return asmerr.AtLine(e.line, err)
			}
		case *stmt.Branch:
			if err := s.Validate(tab); err != nil {
				return asmerr.AtLine(e.line, err)
			}
		}
	}
	return nil
}

func finalizeTextCompileCases(entries []textEntry, tab *symtab.Table, opts stmt.Options) error {
	for i := range entries {
		e := &entries[i]
		cc := e.statement.CompileCase(tab, e.pass1Addr, opts)
		if cc == stmt.Undetermined {
			return asmerr.AtLine(e.line, asmerr.ErrLabelNotFound)
		}
		e.finalCC = cc
	}
	return nil
}

// refineTextAddresses recomputes .text addresses using each
// statement's final (non-worst-case) size and commits the refined
// addresses back to every label symbol.
func refineTextAddresses(b *build, tab *symtab.Table) error {
	var counter bits.AlignedCounter
	for i := range b.text {
		e := &b.text[i]
		addr, err := counter.Increment(e.statement.Size(e.finalCC))
		if err != nil {
			return asmerr.AtLine(e.line, err)
		}
		e.finalAddr = addr
		for _, id := range e.labelIDs {
			tab.SetAddress(id, addr)
		}
	}
	final := counter.Offset()
	for _, id := range b.trailingLabelIDs[symtab.SectionText] {
		tab.SetAddress(id, final)
	}
	return nil
}

func generateText(entries []textEntry, tab *symtab.Table) []isa.Instruction {
	var out []isa.Instruction
	for i := range entries {
		e := &entries[i]
		out = append(out, e.statement.GenInstructions(e.finalCC, tab, e.finalAddr)...)

		if !e.statement.HasLabelOperand() {
			continue
		}
		kind := e.statement.RelocKind(e.finalCC, tab)
		if kind == symtab.RelocNone {
			continue
		}
		op := e.statement.GetLabelOperand()
		tab.InsertRef(symtab.SymbolRef{SymbolID: op.Label.SymbolID, Address: e.finalAddr, Kind: kind})
	}
	return out
}

func allocsOf(entries []dataEntry) []directive.DataAlloc {
	out := make([]directive.DataAlloc, len(entries))
	for i, e := range entries {
		out[i] = e.alloc
	}
	return out
}
