// Package asmparser turns a token stream (pkg/asmlex) into parsed
// statement records: label, mnemonic-or-directive, and an argument
// list. It performs no semantic analysis — that is pkg/analyzer and
// pkg/stmt's job — only surface syntax.
package asmparser

import (
	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/asmlex"
	"github.com/ydrojd/assembler/pkg/isa"
)

// StatementKind distinguishes an instruction statement from a
// directive statement.
type StatementKind uint8

const (
	KindInstruction StatementKind = iota
	KindDirective
)

// ArgKind tags the surface shape of one parsed argument.
type ArgKind uint8

const (
	ArgInteger ArgKind = iota
	ArgLabel
	ArgRegister
	ArgString
)

// Arg is one parsed instruction/directive argument.
type Arg struct {
	Kind    ArgKind
	Integer int64
	Text    string // register name, label identifier, or string literal
}

// ParsedStatement is one line of assembly: an optional defining
// label, a mnemonic or directive name, and its argument list.
type ParsedStatement struct {
	Kind      StatementKind
	Line      int
	Label     string
	Mnemonic  string
	Directive string
	Args      []Arg
}

// Parser consumes a token stream produced by asmlex and emits
// ParsedStatement records, one per source line that carries a label,
// mnemonic, or directive.
type Parser struct {
	lex *asmlex.Lexer
	tok asmlex.Token
}

// New wraps lex for parsing.
func New(lex *asmlex.Lexer) *Parser {
	p := &Parser{lex: lex}
	p.advance()
	return p
}

func (p *Parser) advance() {
	p.tok = p.lex.Next()
}

// ParseAll consumes every statement until end of input.
func (p *Parser) ParseAll() ([]ParsedStatement, error) {
	var statements []ParsedStatement
	for p.tok.Kind != asmlex.TokEOF {
		st, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		if st != nil {
			statements = append(statements, *st)
		}
	}
	return statements, nil
}

func (p *Parser) parseStatement() (*ParsedStatement, error) {
	line := p.tok.Line
	label := ""

	if p.tok.Kind == asmlex.TokIdentifier && p.lex.PeekIsColon() {
		label = p.tok.Text
		p.advance() // identifier
		if p.tok.Kind != asmlex.TokColon {
			return nil, asmerr.AtLine(line, asmerr.ErrMissingLabelColon)
		}
		p.advance() // colon
	}

	if p.tok.Kind == asmlex.TokEOF || p.tok.Kind == asmlex.TokNewline {
		if p.tok.Kind == asmlex.TokNewline {
			p.advance()
		}
		if label == "" {
			return nil, nil
		}
		return &ParsedStatement{Kind: KindInstruction, Line: line, Label: label}, nil
	}

	if p.tok.Kind == asmlex.TokDirective {
		directiveName := p.tok.Text
		p.advance()
		args, err := p.parseArgs(line)
		if err != nil {
			return nil, err
		}
		return &ParsedStatement{Kind: KindDirective, Line: line, Label: label, Directive: directiveName, Args: args}, nil
	}

	if p.tok.Kind != asmlex.TokIdentifier {
		return nil, asmerr.AtLine(line, asmerr.ErrUnknownToken)
	}
	mnemonic := p.tok.Text
	p.advance()
	args, err := p.parseArgs(line)
	if err != nil {
		return nil, err
	}
	return &ParsedStatement{Kind: KindInstruction, Line: line, Label: label, Mnemonic: mnemonic, Args: args}, nil
}

func (p *Parser) parseArgs(line int) ([]Arg, error) {
	var args []Arg
	if p.tok.Kind == asmlex.TokEOF || p.tok.Kind == asmlex.TokNewline {
		if p.tok.Kind == asmlex.TokNewline {
			p.advance()
		}
		return args, nil
	}

	for {
		arg, err := p.parseArg(line)
		if err != nil {
			return nil, err
		}
		args = append(args, arg)

		switch p.tok.Kind {
		case asmlex.TokComma:
			p.advance()
			if p.tok.Kind == asmlex.TokEOF || p.tok.Kind == asmlex.TokNewline {
				return nil, asmerr.AtLine(line, asmerr.ErrExpectedArgument)
			}
		case asmlex.TokNewline:
			p.advance()
			return args, nil
		case asmlex.TokEOF:
			return args, nil
		default:
			return nil, asmerr.AtLine(line, asmerr.ErrMissingComma)
		}
	}
}

func (p *Parser) parseArg(line int) (Arg, error) {
	switch p.tok.Kind {
	case asmlex.TokInteger:
		v := p.tok.IntValue
		p.advance()
		return Arg{Kind: ArgInteger, Integer: v}, nil
	case asmlex.TokString:
		text := p.tok.Text
		p.advance()
		return Arg{Kind: ArgString, Text: text}, nil
	case asmlex.TokIdentifier:
		text := p.tok.Text
		p.advance()
		if _, ok := isa.ParseRegister(text); ok {
			return Arg{Kind: ArgRegister, Text: text}, nil
		}
		return Arg{Kind: ArgLabel, Text: text}, nil
	default:
		return Arg{}, asmerr.AtLine(line, asmerr.ErrExpectedArgument)
	}
}
