package analyzer

import (
	"strconv"
	"strings"

	"github.com/ydrojd/assembler/pkg/asmparser"
)

// renameAnonymousLabels rewrites every `b_*`/`f_*` identifier (label
// definition or reference) to `<base>#<tag>`, giving repeatable local
// labels distinct symtab identities per occurrence.
//
// Backward labels (b_) are numbered by a forward scan: each
// definition gets the next tag for its base name, and a reference
// binds to the most recently seen definition (or tag 0, anticipating
// the first definition, if none has been seen yet).
//
// Forward labels (f_) are symmetric: numbered by a reverse scan, so a
// reference always binds to the nearest definition that follows it in
// the file.
func renameAnonymousLabels(statements []asmparser.ParsedStatement) {
	renameDirectional(statements, "b_", false)
	renameDirectional(statements, "f_", true)
}

func renameDirectional(statements []asmparser.ParsedStatement, prefix string, reverse bool) {
	counters := make(map[string]int)

	visit := func(i int) {
		st := &statements[i]
		if st.Label != "" && strings.HasPrefix(st.Label, prefix) {
			tag := counters[st.Label]
			counters[st.Label] = tag + 1
			st.Label = renderTag(st.Label, tag)
		}
		for j := range st.Args {
			arg := &st.Args[j]
			if arg.Kind != asmparser.ArgLabel || !strings.HasPrefix(arg.Text, prefix) {
				continue
			}
			tag := counters[arg.Text]
			if tag > 0 {
				tag--
			}
			arg.Text = renderTag(arg.Text, tag)
		}
	}

	if reverse {
		for i := len(statements) - 1; i >= 0; i-- {
			visit(i)
		}
	} else {
		for i := range statements {
			visit(i)
		}
	}
}

func renderTag(base string, tag int) string {
	return base + "#" + strconv.Itoa(tag)
}
