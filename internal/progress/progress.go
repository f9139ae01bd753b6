// Package progress defines the reporting capability handed to the download
// pipeline. The pipeline calls it synchronously per chunk; throttling and
// rendering are entirely the sink's concern.
package progress

import (
	"fmt"
	"os"

	"github.com/fatih/color"
)

// Sink receives phase announcements and download updates.
type Sink interface {
	// Status announces a new phase, e.g. "extracting 0.15.2...".
	Status(message string)

	// Download reports the running byte count. total is -1 when the
	// transfer length is unknown (chunked responses).
	Download(downloaded, total int64)
}

// throttleDelta suppresses non-interactive download updates until at least
// this many new bytes have arrived, so logs are not flooded line-per-chunk.
const throttleDelta = 5 * 1024 * 1024

// Console renders progress to stdout. On a terminal it rewrites a single
// line; otherwise it prints a throttled line per delta.
type Console struct {
	interactive  bool
	lastReported int64
	lineOpen     bool
	status       func(format string, a ...any)
}

// NewConsole builds a Console sink, detecting whether stdout is a terminal.
func NewConsole() *Console {
	interactive := false
	if info, err := os.Stdout.Stat(); err == nil {
		interactive = info.Mode()&os.ModeCharDevice != 0
	}
	return &Console{
		interactive: interactive,
		status:      color.New(color.FgGreen).PrintfFunc(),
	}
}

// Status prints the phase message, closing any in-place progress line first.
func (c *Console) Status(message string) {
	c.finishLine()
	c.status("%s\n", message)
	c.lastReported = 0
}

// Download renders the byte counter. When the total is unknown it degrades
// to reporting bytes only.
func (c *Console) Download(downloaded, total int64) {
	if !c.interactive && downloaded-c.lastReported < throttleDelta && (total < 0 || downloaded < total) {
		return
	}
	c.lastReported = downloaded

	if c.interactive {
		if total >= 0 {
			fmt.Printf("\r%s / %s", formatBytes(downloaded), formatBytes(total))
		} else {
			fmt.Printf("\r%s", formatBytes(downloaded))
		}
		c.lineOpen = true
		return
	}
	if total >= 0 {
		fmt.Printf("downloaded %s / %s\n", formatBytes(downloaded), formatBytes(total))
	} else {
		fmt.Printf("downloaded %s\n", formatBytes(downloaded))
	}
}

func (c *Console) finishLine() {
	if c.lineOpen {
		fmt.Println()
		c.lineOpen = false
	}
}

// formatBytes renders a byte count with a binary unit suffix.
func formatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// Discard is a Sink that drops everything; used by tests and autoswitch.
type Discard struct{}

func (Discard) Status(string)         {}
func (Discard) Download(int64, int64) {}
