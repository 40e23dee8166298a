package classify

import "strings"

// ExtractContext slices a window of lines around matchOffset: the last
// windowLines lines before the offset plus the first windowLines lines
// from the offset onward. The match's own line belongs to the "after"
// segment, so it appears exactly once. Degenerate windows at the very
// start or end of the text are valid and never panic.
func ExtractContext(logText string, matchOffset, windowLines int) string {
	if matchOffset < 0 {
		matchOffset = 0
	}
	if matchOffset > len(logText) {
		matchOffset = len(logText)
	}

	before := splitTail(logText[:matchOffset], windowLines)
	after := splitHead(logText[matchOffset:], windowLines)

	lines := append(before, after...)
	return strings.Join(lines, "\n")
}

// splitTail returns up to n trailing lines of s, dropping a trailing
// empty fragment left by splitting exactly at a line boundary.
func splitTail(s string, n int) []string {
	if s == "" || n <= 0 {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[len(lines)-n:]
	}
	return lines
}

// splitHead returns up to n leading lines of s, ignoring the empty
// fragment after a trailing newline.
func splitHead(s string, n int) []string {
	if s == "" || n <= 0 {
		return nil
	}
	lines := strings.Split(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}
