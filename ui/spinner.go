package ui

import (
	"fmt"

	"github.com/charmbracelet/huh/spinner"
	"github.com/schollz/progressbar/v3"
)

// SpinnerAction runs an action with a spinner, returning any error from the action
type SpinnerAction func() error

// RunWithSpinner runs an action with a spinner display
// If not TTY, just prints the title and runs the action
func RunWithSpinner(title string, action SpinnerAction) error {
	if !IsTTY() {
		fmt.Fprintln(out, title)
		return action()
	}

	var actionErr error
	spinErr := spinner.New().
		Title(title).
		Action(func() {
			actionErr = action()
		}).
		Run()

	if spinErr != nil {
		return spinErr
	}
	return actionErr
}

// Progress counts finished work items. Off a terminal it prints nothing.
type Progress struct {
	bar *progressbar.ProgressBar
}

// NewProgress creates a progress bar for total items.
func NewProgress(total int, description string) *Progress {
	if !IsTTY() {
		return &Progress{}
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(errOut),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(15),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowElapsedTimeOnFinish(),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(errOut)
		}),
	)
	return &Progress{bar: bar}
}

// Add marks n items as done. Safe for concurrent use.
func (p *Progress) Add(n int) {
	if p.bar != nil {
		_ = p.bar.Add(n)
	}
}

// Finish completes the bar even when some items were never reported.
func (p *Progress) Finish() {
	if p.bar != nil {
		_ = p.bar.Finish()
	}
}
