package diagfmt

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"fortio.org/safecast"
	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"sagld/internal/parser"
	"sagld/internal/source"
)

var errorLabel = color.New(color.FgRed, color.Bold)

// Pretty writes a human-readable rendering of a conversion failure.
// Structural errors with a line number come out as
//
//	<path>:<line>: error: <message>
//	    <line> | <source text>
//	           | ^~~~~~~~~~~~~
//
// with the excerpt taken from file. Errors without position
// information (bad addresses, I/O) print a single labeled line.
func Pretty(w io.Writer, file *source.File, err error, opts PrettyOpts) {
	label := "error:"
	if opts.Color {
		label = errorLabel.Sprint(label)
	}

	var perr *parser.Error
	if errors.As(err, &perr) && file != nil {
		fmt.Fprintf(w, "%s:%d: %s %s\n", file.Path, perr.Line, label, perr.Message)
		writeExcerpt(w, file, perr.Line, opts)
		return
	}

	if file != nil {
		fmt.Fprintf(w, "%s: %s %v\n", file.Path, label, err)
		return
	}
	fmt.Fprintf(w, "%s %v\n", label, err)
}

// writeExcerpt prints the offending source line in a numbered gutter
// with a caret underline spanning its non-blank content.
func writeExcerpt(w io.Writer, file *source.File, line int, opts PrettyOpts) {
	lineNum, err := safecast.Conv[uint32](line)
	if err != nil {
		return
	}
	text := file.Line(lineNum)
	if strings.TrimSpace(text) == "" {
		// Errors can point one past the last line (unexpected end of
		// file); there is nothing useful to underline there.
		return
	}

	fmt.Fprintf(w, "%5d | %s\n", line, text)

	trimmed := strings.TrimLeft(text, " \t")
	indent := text[:len(text)-len(trimmed)]
	width := runewidth.StringWidth(strings.TrimRight(trimmed, " \t"))
	if width < 1 {
		width = 1
	}

	underline := "^" + strings.Repeat("~", width-1)
	if opts.Color {
		underline = errorLabel.Sprint(underline)
	}
	// Leading whitespace is copied verbatim so tabs keep their width.
	fmt.Fprintf(w, "      | %s%s\n", indent, underline)
}
