package diag

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"github.com/ydrojd/assembler/pkg/asmerr"
)

var errorLabel = color.New(color.FgRed, color.Bold)

// ReportError writes err to w. If err carries a source line (via
// asmerr.LineError), the offending line is printed, highlighted,
// alongside the message.
func ReportError(w io.Writer, source string, err error) {
	var lineErr *asmerr.LineError
	if errors.As(err, &lineErr) {
		fmt.Fprintf(w, "%s %s\n", errorLabel.Sprint("error:"), lineErr.Err)
		if snippet, ok := sourceLine(source, lineErr.Line); ok {
			fmt.Fprintf(w, "  %d | %s\n", lineErr.Line, HighlightLine(snippet))
		}
		return
	}
	fmt.Fprintf(w, "%s %v\n", errorLabel.Sprint("error:"), err)
}

func sourceLine(source string, line int) (string, bool) {
	if line <= 0 {
		return "", false
	}
	lines := strings.Split(source, "\n")
	if line > len(lines) {
		return "", false
	}
	return lines[line-1], true
}
