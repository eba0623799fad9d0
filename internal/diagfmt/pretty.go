package diagfmt

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"

	"unsound/internal/diag"
	"unsound/internal/source"
)

var (
	errorColor   = color.New(color.FgRed, color.Bold)
	warningColor = color.New(color.FgYellow, color.Bold)
	infoColor    = color.New(color.FgCyan, color.Bold)
	ruleColor    = color.New(color.FgMagenta)
	gutterColor  = color.New(color.FgBlue)
	noteColor    = color.New(color.FgHiBlack)
)

func severityLabel(sev diag.Severity, colored bool) string {
	if !colored {
		return sev.String()
	}
	switch sev {
	case diag.SevError:
		return errorColor.Sprint("error")
	case diag.SevWarning:
		return warningColor.Sprint("warning")
	default:
		return infoColor.Sprint("info")
	}
}

// Pretty formats diagnostics in a human-readable form. Expects the bag to be
// sorted already. For each diagnostic prints
//
//	<path>:<line>:<col>: <severity>[<rule>]: <message>
//
// followed by the source line with a ^~~~ underline for the span, then any
// notes with the same layout.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	for _, d := range bag.Items() {
		printHeading(w, fs, d.Primary, severityLabel(d.Severity, opts.Color), d.Rule, d.Message, opts)
		printContext(w, fs, d.Primary, opts)
		if !opts.ShowNotes {
			continue
		}
		for _, n := range d.Notes {
			label := "note"
			if opts.Color {
				label = noteColor.Sprint("note")
			}
			if n.Span.Empty() && n.Span.File == 0 {
				fmt.Fprintf(w, "  %s: %s\n", label, n.Msg)
				continue
			}
			printHeading(w, fs, n.Span, label, "", n.Msg, opts)
			printContext(w, fs, n.Span, opts)
		}
	}
}

func printHeading(w io.Writer, fs *source.FileSet, span source.Span, label, rule, msg string, opts PrettyOpts) {
	start, _ := fs.Resolve(span)
	path := displayPath(fs, span.File, opts.PathMode)
	if rule != "" {
		if opts.Color {
			rule = ruleColor.Sprint(rule)
		}
		fmt.Fprintf(w, "%s:%d:%d: %s[%s]: %s\n", path, start.Line, start.Col, label, rule, msg)
		return
	}
	fmt.Fprintf(w, "%s:%d:%d: %s: %s\n", path, start.Line, start.Col, label, msg)
}

func printContext(w io.Writer, fs *source.FileSet, span source.Span, opts PrettyOpts) {
	if opts.Context < 0 {
		return
	}
	file := fs.Get(span.File)
	start, end := fs.Resolve(span)

	first := start.Line
	if ctx := uint32(opts.Context); first > ctx {
		first -= ctx
	} else {
		first = 1
	}

	for line := first; line <= start.Line; line++ {
		text := file.Line(line)
		gutter := fmt.Sprintf("%5d |", line)
		if opts.Color {
			gutter = gutterColor.Sprint(gutter)
		}
		fmt.Fprintf(w, "%s %s\n", gutter, text)
	}

	// Underline the span on its first line.
	text := file.Line(start.Line)
	width := span.Len()
	if end.Line != start.Line {
		width = 0
		if rest := uint32(len(text)); rest >= start.Col {
			width = rest - (start.Col - 1)
		}
	}
	if width == 0 {
		width = 1
	}
	marker := "^" + strings.Repeat("~", int(width)-1)
	if opts.Color {
		marker = errorColor.Sprint(marker)
	}
	gutter := "      |"
	if opts.Color {
		gutter = gutterColor.Sprint(gutter)
	}
	fmt.Fprintf(w, "%s %s%s\n", gutter, strings.Repeat(" ", int(start.Col-1)), marker)
}

// Short prints one line per diagnostic without source context. Notes without
// a span are folded into the line in parentheses.
func Short(w io.Writer, bag *diag.Bag, fs *source.FileSet, pathMode PathMode) {
	for _, d := range bag.Items() {
		start, _ := fs.Resolve(d.Primary)
		path := displayPath(fs, d.Primary.File, pathMode)
		fmt.Fprintf(w, "%s:%d:%d: %s[%s]: %s\n", path, start.Line, start.Col, d.Severity, d.Rule, d.Message)
	}
}
