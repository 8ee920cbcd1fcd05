package common

import "regexp"

// ansiRegex matches ANSI escape sequences (colors, cursor movement, etc.)
var ansiRegex = regexp.MustCompile(`\x1b\[[0-9;?]*[a-zA-Z]`)

// StripANSI removes ANSI escape codes from a string.
// ONT shells colorize prompts and redraw lines on PTY sessions.
func StripANSI(s string) string {
	return ansiRegex.ReplaceAllString(s, "")
}

// NormalizeNewlines turns the CRLF line endings of PTY output into LF.
func NormalizeNewlines(s string) string {
	return crlfRegex.ReplaceAllString(s, "\n")
}

var crlfRegex = regexp.MustCompile(`\r+\n`)
