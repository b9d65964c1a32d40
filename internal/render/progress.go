package render

import (
	"os"
	"time"

	"github.com/mattn/go-isatty"
	"github.com/schollz/progressbar/v3"
)

// Bar is a nil-safe progress bar. A nil Bar swallows updates, so callers on
// non-interactive outputs need no branching.
type Bar struct {
	bar *progressbar.ProgressBar
}

// NewBar builds a terminal progress bar when stderr is a TTY, nil otherwise.
func NewBar(total int, description string) *Bar {
	if !isatty.IsTerminal(os.Stderr.Fd()) && !isatty.IsCygwinTerminal(os.Stderr.Fd()) {
		return nil
	}
	bar := progressbar.NewOptions(total,
		progressbar.OptionSetWriter(os.Stderr),
		progressbar.OptionSetDescription(description),
		progressbar.OptionShowCount(),
		progressbar.OptionThrottle(200*time.Millisecond),
		progressbar.OptionClearOnFinish(),
		progressbar.OptionSetRenderBlankState(true),
	)
	return &Bar{bar: bar}
}

// Set moves the bar to an absolute position.
func (b *Bar) Set(n int) {
	if b == nil || b.bar == nil {
		return
	}
	_ = b.bar.Set(n)
}

// Finish completes and clears the bar.
func (b *Bar) Finish() {
	if b == nil || b.bar == nil {
		return
	}
	_ = b.bar.Finish()
}
