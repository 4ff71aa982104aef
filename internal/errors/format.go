package errors

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// palette colors the parts of a formatted error.
type palette struct {
	label    func(a ...interface{}) string
	category func(a ...interface{}) string
	message  func(a ...interface{}) string
	usage    func(a ...interface{}) string
	usageArg func(a ...interface{}) string
	fix      func(a ...interface{}) string
	bullet   func(a ...interface{}) string
}

// colored follows fatih/color's global detection, so it degrades to plain
// text when NO_COLOR is set or stderr is not a terminal.
var colored = palette{
	label:    color.New(color.FgRed, color.Bold).SprintFunc(),
	category: color.New(color.FgYellow).SprintFunc(),
	message:  color.New(color.FgRed).SprintFunc(),
	usage:    color.New(color.FgCyan, color.Bold).SprintFunc(),
	usageArg: color.New(color.FgCyan).SprintFunc(),
	fix:      color.New(color.FgGreen, color.Bold).SprintFunc(),
	bullet:   color.New(color.FgGreen).SprintFunc(),
}

var plain = palette{
	label:    fmt.Sprint,
	category: fmt.Sprint,
	message:  fmt.Sprint,
	usage:    fmt.Sprint,
	usageArg: fmt.Sprint,
	fix:      fmt.Sprint,
	bullet:   fmt.Sprint,
}

// FormatError formats a CLIError for the terminal:
//
//	Error [Not Found]: specified branch 'mian' was not found
//
//	To fix this:
//	  • Available branches: main, develop
func FormatError(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, colored)
}

// FormatErrorPlain formats a CLIError without ANSI escapes.
func FormatErrorPlain(err *CLIError) string {
	if err == nil {
		return ""
	}
	return formatError(err, plain)
}

func formatError(err *CLIError, p palette) string {
	var sb strings.Builder

	fmt.Fprintf(&sb, "%s [%s]: %s\n", p.label("Error"), p.category(err.Category.String()), p.message(err.Message))

	if err.Usage != "" {
		fmt.Fprintf(&sb, "\n%s%s\n", p.usage("Usage: "), p.usageArg(err.Usage))
	}

	if len(err.Remediation) > 0 {
		fmt.Fprintf(&sb, "\n%s\n", p.fix("To fix this:"))
		for _, step := range err.Remediation {
			fmt.Fprintf(&sb, "  %s %s\n", p.bullet("•"), step)
		}
	}

	return sb.String()
}

// FprintError prints a formatted CLIError to w.
func FprintError(w io.Writer, err *CLIError) {
	if err == nil {
		return
	}
	fmt.Fprint(w, FormatError(err))
}
