// Package asm implements the "build" subcommand: source in, ELF32
// object out.
package asm

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ydrojd/assembler/pkg/analyzer"
	"github.com/ydrojd/assembler/pkg/asmerr"
	"github.com/ydrojd/assembler/pkg/asmlex"
	"github.com/ydrojd/assembler/pkg/asmparser"
	"github.com/ydrojd/assembler/pkg/diag"
	"github.com/ydrojd/assembler/pkg/elfwriter"
	"github.com/ydrojd/assembler/pkg/stmt"
)

var (
	outputPath  string
	shortJumps  bool
	includes    []string
	entrySymbol string
)

// BuildCmd assembles a single source file into a relocatable ELF32
// object.
var BuildCmd = &cobra.Command{
	Use:   "build [source]",
	Short: "Assemble a source file into an ELF32 object",
	Args:  cobra.ExactArgs(1),
	RunE:  runBuild,
}

func init() {
	BuildCmd.Flags().StringVarP(&outputPath, "output", "o", "", "output object path (default: source name with .o extension)")
	BuildCmd.Flags().BoolVar(&shortJumps, "short-jumps", false, "prefer short jump/branch encodings when the target permits")
	BuildCmd.Flags().StringSliceVarP(&includes, "include", "I", nil, "include search path (reserved)")
	BuildCmd.Flags().StringVar(&entrySymbol, "entry", "start", "symbol whose address becomes the object's entry point")
}

func runBuild(cmd *cobra.Command, args []string) error {
	sourcePath := args[0]

	src, err := os.ReadFile(sourcePath)
	if err != nil {
		return fmt.Errorf("reading %s: %w", sourcePath, err)
	}
	source := string(src)

	slog.Debug("lexing and parsing", "stage", "parse", "file", sourcePath)
	statements, err := asmparser.New(asmlex.New(source)).ParseAll()
	if err != nil {
		logStageError("parse", sourcePath, err)
		diag.ReportError(cmd.ErrOrStderr(), source, err)
		return err
	}

	slog.Debug("resolving symbols and encoding", "stage", "analyze")
	opts := stmt.Options{ShortJumps: shortJumps}
	u, err := analyzer.Analyze(statements, opts)
	if err != nil {
		logStageError("analyze", sourcePath, err)
		diag.ReportError(cmd.ErrOrStderr(), source, err)
		return err
	}

	var entry uint32
	if id, ok := u.SymbolTable.Lookup(entrySymbol); ok {
		entry = u.SymbolTable.Get(id).Address
	} else {
		slog.Debug("entry symbol not defined, entry point left at zero", "symbol", entrySymbol)
	}

	out := outputPath
	if out == "" {
		out = defaultOutputPath(sourcePath)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("creating %s: %w", out, err)
	}
	defer f.Close()

	if err := elfwriter.Write(f, u, entry); err != nil {
		return fmt.Errorf("writing %s: %w", out, err)
	}

	slog.Debug("wrote object", "path", out, "entry", entry)
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s\n", out)
	return nil
}

// logStageError emits a structured error record, adding a line
// attribute when err carries one.
func logStageError(stage, file string, err error) {
	var lineErr *asmerr.LineError
	if errors.As(err, &lineErr) {
		slog.Error(stage+" failed", "stage", stage, "file", file, "line", lineErr.Line, "err", lineErr.Err)
		return
	}
	slog.Error(stage+" failed", "stage", stage, "file", file, "err", err)
}

func defaultOutputPath(sourcePath string) string {
	base := filepath.Base(sourcePath)
	ext := filepath.Ext(base)
	return strings.TrimSuffix(base, ext) + ".o"
}
