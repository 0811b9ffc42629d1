package merge

import (
	"regexp"
	"strings"
)

// Sentinel literals delimiting the user-owned custom jobs block. They live in
// comment lines and are matched textually, never parsed as YAML, so the block
// between them round-trips byte-exactly no matter what it contains.
const (
	StartSentinel = "<--START CUSTOM JOBS-->"
	EndSentinel   = "<--END CUSTOM JOBS-->"
)

var (
	startRe = sentinelRe(StartSentinel)
	endRe   = sentinelRe(EndSentinel)
)

// sentinelRe matches a whole line carrying the literal inside a comment, with
// arbitrary leading indentation or other prefix text.
func sentinelRe(literal string) *regexp.Regexp {
	return regexp.MustCompile(`(?m)^.*#+[ \t]*` + regexp.QuoteMeta(literal) + `.*$`)
}

// ExtractCustomSection returns the text strictly between the first start
// sentinel line and the first end sentinel line after it, with leading and
// trailing blank lines stripped. ok is false when either sentinel is missing.
func ExtractCustomSection(text string) (section string, ok bool) {
	start := startRe.FindStringIndex(text)
	if start == nil {
		return "", false
	}
	rest := text[start[1]:]
	end := endRe.FindStringIndex(rest)
	if end == nil {
		return "", false
	}
	return trimBlankLines(rest[:end[0]]), true
}

// StripCustomSection removes the sentinel-delimited block, sentinel lines
// included. Run on a prior document before parsing it, so the block re-enters
// the output only through the splice step and never doubles up.
func StripCustomSection(text string) string {
	start := startRe.FindStringIndex(text)
	if start == nil {
		return text
	}
	rest := text[start[1]:]
	end := endRe.FindStringIndex(rest)
	if end == nil {
		return text
	}
	return text[:start[0]] + strings.TrimPrefix(rest[end[1]:], "\n")
}

func trimBlankLines(s string) string {
	lines := strings.Split(s, "\n")
	start := 0
	for start < len(lines) && strings.TrimSpace(lines[start]) == "" {
		start++
	}
	end := len(lines)
	for end > start && strings.TrimSpace(lines[end-1]) == "" {
		end--
	}
	return strings.Join(lines[start:end], "\n")
}
