package ui

import (
	"fmt"
	"strings"
	"time"
)

// HumanSize renders a byte count with binary units.
func HumanSize(n uint64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := uint64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}

// formatElapsed renders a wall-clock duration at second granularity.
func formatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	return d.Round(time.Second).String()
}

// truncate shortens s to width runes, marking the cut with an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	if width == 1 {
		return string(runes[:1])
	}
	return string(runes[:width-1]) + "…"
}

// padName truncates or right-pads a filename to a fixed column width.
func padName(name string, width int) string {
	name = truncate(name, width)
	if pad := width - len([]rune(name)); pad > 0 {
		name += strings.Repeat(" ", pad)
	}
	return name
}
