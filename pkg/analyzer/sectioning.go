package analyzer

import (
	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/asmparser"
	"github.com/ydrojd/assembler/pkg/directive"
	"github.com/ydrojd/assembler/pkg/stmt"
	"github.com/ydrojd/assembler/pkg/symtab"
)

// labelRef is a defining label plus the source line it was declared
// on, for duplicate-definition diagnostics.
type labelRef struct {
	name string
	line int
}

// textEntry is one .text placement: an instruction statement plus the
// labels (usually zero or one, occasionally more when several bare
// label lines precede it) bound to its start address.
type textEntry struct {
	labels    []labelRef
	labelIDs  []symtab.ID
	statement stmt.Statement
	line      int
	pass1Addr uint32
	finalCC   stmt.CompileCase
	finalAddr uint32
}

// dataEntry is one data/rodata/bss placement.
type dataEntry struct {
	labels   []labelRef
	labelIDs []symtab.ID
	alloc    directive.DataAlloc
}

var dataDirectiveKinds = map[string]directive.Kind{
	".word":           directive.Word,
	".halfword":       directive.Halfword,
	".byte":           directive.Byte,
	".word_array":     directive.WordArray,
	".halfword_array": directive.HalfwordArray,
	".byte_array":     directive.ByteArray,
}

var globalDirectives = map[string]bool{
	".global":     true,
	".externex":   true,
	".externdata": true,
}

// build is the product of pass 0: the statement stream bucketed by
// section, with pending labels resolved to their owning entry and
// external declarations collected.
type build struct {
	text             []textEntry
	data             []dataEntry
	rodata           []dataEntry
	bss              []dataEntry
	trailingLabels   map[symtab.Section][]labelRef
	trailingLabelIDs map[symtab.Section][]symtab.ID
	pendingGlobals   map[string]int // identifier -> declaring line
}

func runPass0(statements []asmparser.ParsedStatement) (*build, error) {
	b := &build{
		trailingLabels:   make(map[symtab.Section][]labelRef),
		trailingLabelIDs: make(map[symtab.Section][]symtab.ID),
		pendingGlobals:   make(map[string]int),
	}

	section := symtab.SectionText
	var pending []labelRef

	flushTrailing := func() {
		if len(pending) == 0 {
			return
		}
		b.trailingLabels[section] = append(b.trailingLabels[section], pending...)
		pending = nil
	}

	for _, ps := range statements {
		if ps.Label != "" {
			pending = append(pending, labelRef{name: ps.Label, line: ps.Line})
		}

		switch {
		case ps.Kind == asmparser.KindDirective:
			switch {
			case ps.Directive == ".text":
				flushTrailing()
				section = symtab.SectionText
			case ps.Directive == ".data":
				flushTrailing()
				section = symtab.SectionData
			case ps.Directive == ".rodata":
				flushTrailing()
				section = symtab.SectionRodata
			case ps.Directive == ".bss":
				flushTrailing()
				section = symtab.SectionBSS

			case globalDirectives[ps.Directive]:
				if len(ps.Args) != 1 || ps.Args[0].Kind == asmparser.ArgInteger {
					return nil, asmerr.AtLine(ps.Line, asmerr.ErrWrongOperandCount)
				}
				name := ps.Args[0].Text
				if _, dup := b.pendingGlobals[name]; dup {
					return nil, asmerr.AtLine(ps.Line, asmerr.Wrap(asmerr.ErrDuplicateGlobal, "%q", name))
				}
				b.pendingGlobals[name] = ps.Line

			default:
				kind, ok := dataDirectiveKinds[ps.Directive]
				if !ok {
					return nil, asmerr.AtLine(ps.Line, asmerr.Wrap(asmerr.ErrUnknownDirective, "%q", ps.Directive))
				}
				if section == symtab.SectionText {
					return nil, asmerr.AtLine(ps.Line, asmerr.ErrDirectiveOutsideData)
				}
				args := make([]int32, len(ps.Args))
				for i, a := range ps.Args {
					if a.Kind != asmparser.ArgInteger {
						return nil, asmerr.AtLine(ps.Line, asmerr.ErrDirectiveNonInteger)
					}
					args[i] = int32(a.Integer)
				}
				alloc, err := directive.Build(kind, ps.Label, args)
				if err != nil {
					return nil, asmerr.AtLine(ps.Line, err)
				}
				entry := dataEntry{labels: pending, alloc: alloc}
				pending = nil
				switch section {
				case symtab.SectionData:
					b.data = append(b.data, entry)
				case symtab.SectionRodata:
					b.rodata = append(b.rodata, entry)
				default:
					b.bss = append(b.bss, entry)
				}
			}

		case ps.Mnemonic != "":
			if section != symtab.SectionText {
				return nil, asmerr.AtLine(ps.Line, asmerr.ErrInstructionOutsideText)
			}
			st, err := buildStatement(ps)
			if err != nil {
				return nil, err
			}
			b.text = append(b.text, textEntry{labels: pending, statement: st, line: ps.Line})
			pending = nil

		default:
			// bare label-only line: stays in `pending` for the next entry.
		}
	}

	flushTrailing()
	return b, nil
}
