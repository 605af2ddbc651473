// Package diag renders source-level diagnostics for the command line:
// syntax-highlighted listings and line-anchored error reports.
package diag

import (
	"strings"

	"github.com/fatih/color"

	"github.com/ydrojd/assembler/pkg/asmlex"
	"github.com/ydrojd/assembler/pkg/isa"
)

var (
	mnemonicColor  = color.New(color.FgMagenta, color.Bold)
	directiveColor = color.New(color.FgBlue)
	registerColor  = color.New(color.FgCyan)
	stringColor    = color.New(color.FgGreen)
	numberColor    = color.New(color.FgYellow)
	labelColor     = color.New(color.FgHiYellow)
)

// HighlightLine colors one source line of assembly by re-tokenizing
// it with asmlex. Tokens are colored by lexical kind; identifiers
// followed by a colon are treated as label definitions.
func HighlightLine(line string) string {
	if line == "" {
		return ""
	}

	lex := asmlex.New(line + "\n")
	var out strings.Builder
	pos := 0

	for {
		tok := lex.Next()
		if tok.Kind == asmlex.TokEOF || tok.Kind == asmlex.TokNewline {
			break
		}

		start := strings.Index(line[pos:], tok.Text)
		if start < 0 {
			continue
		}
		start += pos
		end := start + len(tok.Text)
		out.WriteString(line[pos:start])
		out.WriteString(colorFor(tok, lex).Sprint(tok.Text))
		pos = end
	}
	out.WriteString(line[pos:])
	return out.String()
}

func colorFor(tok asmlex.Token, lex *asmlex.Lexer) *color.Color {
	switch tok.Kind {
	case asmlex.TokDirective:
		return directiveColor
	case asmlex.TokString:
		return stringColor
	case asmlex.TokInteger:
		return numberColor
	case asmlex.TokIdentifier:
		if lex.PeekIsColon() {
			return labelColor
		}
		if isRegisterName(tok.Text) {
			return registerColor
		}
		return mnemonicColor
	default:
		return color.New()
	}
}

func isRegisterName(name string) bool {
	_, ok := isa.ParseRegister(name)
	return ok
}
