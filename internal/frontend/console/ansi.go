// Package console is the line-based terminal front end: a player Decider
// that reads move and counter choices, and a narration sink that prints the
// battle with ANSI colors.
package console

import (
	"fmt"
	"strings"
)

// ANSI escape code constants for terminal styling.
const (
	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	Black   = "\033[30m"
	Red     = "\033[31m"
	Green   = "\033[32m"
	Yellow  = "\033[33m"
	Blue    = "\033[34m"
	Magenta = "\033[35m"
	Cyan    = "\033[36m"
	White   = "\033[37m"
)

var colorsByName = map[string]string{
	"black":   Black,
	"red":     Red,
	"green":   Green,
	"yellow":  Yellow,
	"blue":    Blue,
	"magenta": Magenta,
	"cyan":    Cyan,
	"white":   White,
}

// ColorNamed returns the escape code for a color name such as a stat's
// configured color, or "" when the name is unknown.
func ColorNamed(name string) string {
	return colorsByName[strings.ToLower(strings.TrimSpace(name))]
}

// Colorize wraps text with the given ANSI color code and a reset suffix.
// An empty color returns text unchanged.
func Colorize(color, text string) string {
	if color == "" {
		return text
	}
	return color + text + Reset
}

// Colorf wraps a formatted string with the given ANSI color code.
func Colorf(color, format string, args ...any) string {
	return Colorize(color, fmt.Sprintf(format, args...))
}

// StripANSI removes all ANSI escape sequences from a string.
//
// Postcondition: Returns text with all \033[...m sequences removed.
func StripANSI(s string) string {
	result := make([]byte, 0, len(s))
	i := 0
	for i < len(s) {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			j := i + 2
			for j < len(s) && s[j] != 'm' {
				j++
			}
			if j < len(s) {
				i = j + 1
				continue
			}
		}
		result = append(result, s[i])
		i++
	}
	return string(result)
}
