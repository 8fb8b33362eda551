package main

import (
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed, color.Bold)
	cyan   = color.New(color.FgCyan)
	faint  = color.New(color.Faint)
)

func printSuccess(format string, a ...any) {
	green.Printf("✓ "+format, a...)
}

func printWarning(format string, a ...any) {
	yellow.Fprintf(os.Stderr, "! "+format, a...)
}

// printError prints a titled error with suggestions to stderr and returns a
// plain error for cobra, which is configured not to print it again.
func printError(title, explanation string, suggestions []string) error {
	return fprintError(os.Stderr, title, explanation, suggestions)
}

func fprintError(w io.Writer, title, explanation string, suggestions []string) error {
	red.Fprintf(w, "%s\n\n", title)
	fmt.Fprintf(w, "%s\n", explanation)

	if len(suggestions) > 0 {
		fmt.Fprintln(w)
		for _, s := range suggestions {
			fmt.Fprintf(w, "  - %s\n", s)
		}
	}
	return fmt.Errorf("%s", title)
}
