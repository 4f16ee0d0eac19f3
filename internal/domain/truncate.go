package domain

import (
	"fmt"
	"strings"
)

// DefaultTailRatio is the share of the budget given to the tail of a
// truncated report. Diagnostic tools put actionable summaries at the end,
// so the tail wins most of the budget.
const DefaultTailRatio = 0.85

// Truncate bounds s to at most budget bytes using DefaultTailRatio.
func Truncate(s string, budget int) string {
	return TruncateRatio(s, budget, DefaultTailRatio)
}

// TruncateRatio returns s unchanged when it fits the budget. Otherwise it
// keeps the first head bytes and last tail bytes, trimmed outward to line
// boundaries so no line is ever cut except at the omission marker, and
// splices in a marker carrying the omitted size rounded to the nearest
// thousand characters. The result is never longer than budget.
func TruncateRatio(s string, budget int, tailRatio float64) string {
	if len(s) <= budget {
		return s
	}
	if budget <= 0 {
		return ""
	}

	marker := omissionMarker(len(s) - budget)
	usable := budget - len(marker)
	if usable <= 0 {
		// Budget too small for head+marker+tail; keep the tail alone.
		tail := s[len(s)-budget:]
		if i := strings.IndexByte(tail, '\n'); i >= 0 && i+1 < len(tail) {
			tail = tail[i+1:]
		}
		return tail
	}

	tailChars := int(float64(usable) * tailRatio)
	headChars := usable - tailChars

	head := s[:headChars]
	if i := strings.LastIndexByte(head, '\n'); i >= 0 {
		head = head[:i+1]
	} else {
		head = ""
	}

	tail := s[len(s)-tailChars:]
	if i := strings.IndexByte(tail, '\n'); i >= 0 {
		tail = tail[i+1:]
	}

	return head + marker + tail
}

func omissionMarker(omitted int) string {
	k := (omitted + 500) / 1000
	if k < 1 {
		k = 1
	}
	return fmt.Sprintf("[... ~%dk chars omitted ...]\n", k)
}
