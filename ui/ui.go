package ui

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"golang.org/x/term"
)

var (
	isTTY   bool
	verbose bool

	out    io.Writer = os.Stdout
	errOut io.Writer = os.Stderr

	cyan   = lipgloss.Color("6")
	green  = lipgloss.Color("2")
	red    = lipgloss.Color("1")
	yellow = lipgloss.Color("3")
	dim    = lipgloss.Color("8")

	// Styles - exported for use in other packages
	Primary = lipgloss.NewStyle().Foreground(cyan)
	Success = lipgloss.NewStyle().Foreground(green)
	Error   = lipgloss.NewStyle().Foreground(red)
	Warning = lipgloss.NewStyle().Foreground(yellow)
	Dim     = lipgloss.NewStyle().Foreground(dim)
	Bold    = lipgloss.NewStyle().Bold(true)
)

func init() {
	isTTY = term.IsTerminal(int(os.Stdout.Fd()))
	if !isTTY {
		lipgloss.SetColorProfile(termenv.Ascii)
	}
}

// SetOutput redirects regular and error output. Redirected output is never
// treated as a terminal, so spinners and progress bars fall back to plain lines.
func SetOutput(stdout, stderr io.Writer) {
	out = stdout
	errOut = stderr
	isTTY = false
	lipgloss.SetColorProfile(termenv.Ascii)
}

// Writer returns the writer regular output goes to.
func Writer() io.Writer {
	return out
}

// ErrWriter returns the writer error output goes to.
func ErrWriter() io.Writer {
	return errOut
}

// SetVerbose enables/disables verbose mode
func SetVerbose(v bool) {
	verbose = v
}

// IsTTY returns whether output is a terminal
func IsTTY() bool {
	return isTTY
}

// Step prints a step indicator: [1/4] Scanning for images
func Step(num, total int, msg string) {
	prefix := Dim.Render(fmt.Sprintf("[%d/%d]", num, total))
	fmt.Fprintf(out, "%s %s\n", prefix, msg)
}

// Detail prints indented secondary info with arrow
func Detail(msg string) {
	fmt.Fprintf(out, "  %s %s\n", Dim.Render("→"), msg)
}

// Verbosef prints a formatted message only in verbose mode
func Verbosef(format string, a ...any) {
	if verbose {
		fmt.Fprintf(out, "  %s %s\n", Dim.Render("→"), Dim.Render(fmt.Sprintf(format, a...)))
	}
}

// SuccessMsg prints a success message with checkmark
func SuccessMsg(msg string) {
	fmt.Fprintf(out, "%s %s\n", Success.Render("✓"), msg)
}

// ErrorMsg prints an error to stderr with formatting and optional hints
func ErrorMsg(title string, err error, hints ...string) {
	fmt.Fprintf(errOut, "%s %s\n", Error.Render("✗"), title)
	if err != nil {
		fmt.Fprintf(errOut, "  %s\n", Dim.Render(err.Error()))
	}
	for _, hint := range hints {
		fmt.Fprintf(errOut, "  %s %s\n", Dim.Render("Hint:"), hint)
	}
}

// WarnMsg prints a warning message
func WarnMsg(msg string) {
	fmt.Fprintf(out, "%s %s\n", Warning.Render("!"), msg)
}

// FormatDuration formats duration nicely (e.g., "234ms" or "1.2s")
func FormatDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	return fmt.Sprintf("%.1fs", d.Seconds())
}

// FormatBytes formats sizes with binary units (e.g., "890B", "1.2KB", "3.4MB")
func FormatBytes(b int64) string {
	const unit = 1024
	if b < unit {
		return fmt.Sprintf("%dB", b)
	}
	div, exp := int64(unit), 0
	for n := b / unit; n >= unit && exp < 3; n /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f%cB", float64(b)/float64(div), "KMGT"[exp])
}

// Println is a simple wrapper for fmt.Fprintln on the current output
func Println(a ...any) {
	fmt.Fprintln(out, a...)
}

// Printf is a simple wrapper for fmt.Fprintf on the current output
func Printf(format string, a ...any) {
	fmt.Fprintf(out, format, a...)
}
