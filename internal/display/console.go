package display

import (
	"fmt"
	"io"
	"strings"
)

// ConsoleDisplay renders frames as plain text, one frame per render, for
// running the rig against a terminal instead of the LCD.
type ConsoleDisplay struct {
	w io.Writer
}

// NewConsoleDisplay creates a display writing to w.
func NewConsoleDisplay(w io.Writer) *ConsoleDisplay {
	return &ConsoleDisplay{w: w}
}

// Render writes the frame. The active row gets a ">" marker; the addressed
// digit is bracketed while the blink phase is on and blanked while off.
func (c *ConsoleDisplay) Render(f Frame) error {
	var b strings.Builder
	if f.Notice != "" {
		b.WriteString("== " + strings.ReplaceAll(f.Notice, "\n", " ") + " ==\n")
		_, err := io.WriteString(c.w, b.String())
		return err
	}
	for i, line := range f.Lines {
		marker := "  "
		if i == f.ActiveRow {
			marker = "> "
		}
		if i == f.BlinkRow {
			line = markDigit(line, f.BlinkHour, f.BlinkOn)
		}
		fmt.Fprintf(&b, "%s%s\n", marker, line)
	}
	if f.Degraded {
		b.WriteString("  [settings not loaded]\n")
	}
	_, err := io.WriteString(c.w, b.String())
	return err
}

// Close is a no-op for the console.
func (c *ConsoleDisplay) Close() error {
	return nil
}

// markDigit wraps the hour or minute field of "Label: 2h 30min" in
// brackets, or blanks it in the off blink phase.
func markDigit(line string, hour, on bool) string {
	colon := strings.Index(line, ": ")
	if colon < 0 {
		return line
	}
	label, rest := line[:colon+2], line[colon+2:]
	fields := strings.SplitN(rest, " ", 2)
	if len(fields) != 2 {
		return line
	}
	target := 1
	if hour {
		target = 0
	}
	if on {
		fields[target] = "[" + fields[target] + "]"
	} else {
		fields[target] = strings.Repeat("_", len(fields[target]))
	}
	return label + fields[0] + " " + fields[1]
}
