package cli

import (
	"fmt"
	"math"
)

// FormatSeconds formats a song time in seconds for display.
func FormatSeconds(sec float64) string {
	if sec < 1 {
		return fmt.Sprintf("%dms", int(math.Round(sec*1000)))
	}
	if sec < 60 {
		return fmt.Sprintf("%.2fs", sec)
	}
	mins := int(sec / 60)
	return fmt.Sprintf("%dm%.1fs", mins, sec-float64(mins*60))
}

// FormatFreq formats a frequency in hertz.
func FormatFreq(hz float64) string {
	return fmt.Sprintf("%.2f Hz", hz)
}

// FormatBytes formats a byte count to a human readable string
func FormatBytes(n int) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)

	switch {
	case n >= GB:
		return fmt.Sprintf("%.2f GB", float64(n)/GB)
	case n >= MB:
		return fmt.Sprintf("%.2f MB", float64(n)/MB)
	case n >= KB:
		return fmt.Sprintf("%.2f KB", float64(n)/KB)
	default:
		return fmt.Sprintf("%d B", n)
	}
}
