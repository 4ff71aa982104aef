// Package output provides output path resolution, document writing and terminal
// output formatting utilities for the releasenotes CLI.
// This package is designed to have minimal dependencies to avoid import cycles.
package output

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// defaultWidth is assumed when the terminal width is unknown.
const defaultWidth = 80

// Logo is the banner printed before a run on terminals.
var Logo = []string{
	` ┬─┐┌─┐┬  ┌─┐┌─┐┌─┐┌─┐  ┌┐┌┌─┐┌┬┐┌─┐┌─┐`,
	` ├┬┘├┤ │  ├┤ ├─┤└─┐├┤   ││││ │ │ ├┤ └─┐`,
	` ┴└─└─┘┴─┘└─┘┴ ┴└─┘└─┘  ┘└┘└─┘ ┴ └─┘└─┘`,
}

// LogoDisplayWidth is the column width of the widest Logo line.
const LogoDisplayWidth = 40

// PrintLogo prints the banner in yellow, centered for the terminal width.
// A width of 0 or less means unknown.
func PrintLogo(out io.Writer, width int) {
	yellow := color.New(color.FgYellow).SprintFunc()
	if width <= 0 {
		width = defaultWidth
	}
	padding := (width - LogoDisplayWidth) / 2
	if padding < 0 {
		padding = 0
	}
	for _, line := range Logo {
		fmt.Fprintln(out, yellow(strings.Repeat(" ", padding)+line))
	}
	fmt.Fprintln(out)
}

// PrintSuccess prints the final success message with the written path.
// Uses green checkmark and cyan for the output path.
func PrintSuccess(out io.Writer, commits int, path string) {
	green := color.New(color.FgGreen, color.Bold).SprintFunc()
	cyan := color.New(color.FgCyan).SprintFunc()
	fmt.Fprintf(out, "%s Release notes with %d %s generated at %s\n",
		green("✓"), commits, plural(commits, "commit", "commits"), cyan(path))
}

// PrintWarning prints a yellow warning line.
func PrintWarning(out io.Writer, message string) {
	yellow := color.New(color.FgYellow, color.Bold).SprintFunc()
	fmt.Fprintf(out, "%s %s\n", yellow("!"), message)
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
