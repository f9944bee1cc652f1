package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	haxerrors "github.com/wippyai/hax/errors"
)

var (
	diagErrorStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF6B6B"))

	diagSourceStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	diagCaretStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FFD700"))
)

// report prints err to stderr, coloured when stderr is a terminal.
func report(err error) {
	fmt.Fprint(os.Stderr, render(err, term.IsTerminal(int(os.Stderr.Fd()))))
}

// render formats a diagnostic. Compile errors that carry the offending
// source line quote it with a caret under the column when one is known.
func render(err error, color bool) string {
	paint := func(s lipgloss.Style, text string) string {
		if !color {
			return text
		}
		return s.Render(text)
	}

	var b strings.Builder
	b.WriteString(paint(diagErrorStyle, "Error:"))
	b.WriteString(" ")
	b.WriteString(err.Error())
	b.WriteString("\n")

	var herr *haxerrors.Error
	if !errors.As(err, &herr) || herr.Source == "" {
		return b.String()
	}
	b.WriteString("    ")
	b.WriteString(paint(diagSourceStyle, herr.Source))
	b.WriteString("\n")
	if herr.Column > 0 {
		b.WriteString("    ")
		b.WriteString(caretPad(herr.Source, herr.Column))
		b.WriteString(paint(diagCaretStyle, "^"))
		b.WriteString("\n")
	}
	return b.String()
}

// caretPad returns the whitespace that lines a caret up with the 1-based
// column, keeping tabs so it aligns under tab-indented source.
func caretPad(source string, col int) string {
	var b strings.Builder
	for i, r := range []rune(source) {
		if i >= col-1 {
			break
		}
		if r == '\t' {
			b.WriteRune('\t')
		} else {
			b.WriteRune(' ')
		}
	}
	return b.String()
}
