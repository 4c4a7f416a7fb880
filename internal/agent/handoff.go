package agent

import (
	"regexp"
	"strings"
)

// handoffPattern matches a single [HANDOFF:<target>] marker, spec.md §4.6.
var handoffPattern = regexp.MustCompile(`\[HANDOFF:([a-z_]+)\]`)

// ExtractHandoff strips the handoff marker (if any) from assistant text
// and returns the cleaned text plus the target, e.g. "checkout", "end",
// "resolved", "retry". An empty target means no marker was present.
func ExtractHandoff(text string) (cleaned string, target string) {
	match := handoffPattern.FindStringSubmatch(text)
	cleaned = strings.TrimSpace(handoffPattern.ReplaceAllString(text, ""))
	if match == nil {
		return cleaned, ""
	}
	return cleaned, match[1]
}
