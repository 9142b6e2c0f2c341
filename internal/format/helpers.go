package format

import (
	"fmt"
	"math"
	"strings"
	"time"
	"unicode/utf8"
)

// FmtDuration formats a duration as "Xm Ys", "Ys" or "Nms".
func FmtDuration(d time.Duration) string {
	if d < time.Second {
		return fmt.Sprintf("%dms", d.Milliseconds())
	}
	s := int(d.Seconds())
	if s >= 60 {
		return fmt.Sprintf("%dm %ds", s/60, s%60)
	}
	return fmt.Sprintf("%ds", s)
}

// Truncate shortens s to maxLen runes, appending "..." if truncated.
func Truncate(s string, maxLen int) string {
	if utf8.RuneCountInString(s) <= maxLen {
		return s
	}
	r := []rune(s)
	if maxLen <= 3 {
		return string(r[:maxLen])
	}
	return string(r[:maxLen-3]) + "..."
}

// Bar draws value as a bar of block characters, scaled so scale fills width.
// A zero scale is replaced by 1, like the chart renderer.
func Bar(value, scale float64, width int) string {
	if width <= 0 {
		return ""
	}
	if !(scale > 0) {
		scale = 1
	}
	if !(value > 0) {
		value = 0
	}
	n := int(math.Round(math.Min(value/scale, 1) * float64(width)))
	return strings.Repeat("█", n) + strings.Repeat("░", width-n)
}

// StatusMark returns "✓" for ok and "✗" otherwise.
func StatusMark(ok bool) string {
	if ok {
		return "✓"
	}
	return "✗"
}
