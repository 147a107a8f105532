package dossier

import (
	"strconv"
	"strings"
	"unicode"
)

// Section represents a heading in a markdown document.
type Section struct {
	Level  int    `json:"level"`
	Title  string `json:"title"`
	Anchor string `json:"anchor"`
}

// ExtractSections returns the document outline: every heading outside
// fenced code blocks, with URL-safe anchors deduplicated by numeric suffix.
func ExtractSections(markdown string) []Section {
	var sections []Section
	anchorCounts := make(map[string]int)

	scanLines(markdown, func(line string, heading bool) {
		if !heading {
			return
		}
		level, title := parseHeading(line)
		if title == "" {
			return
		}
		anchor := generateAnchor(title)
		if n, ok := anchorCounts[anchor]; ok {
			anchorCounts[anchor]++
			anchor += "-" + strconv.Itoa(n)
		} else {
			anchorCounts[anchor] = 1
		}
		sections = append(sections, Section{Level: level, Title: title, Anchor: anchor})
	})

	return sections
}

// scanLines calls fn for every line, flagging heading lines. A heading is a
// line whose trimmed form starts with '#', outside a ``` fence.
func scanLines(markdown string, fn func(line string, heading bool)) {
	inFence := false
	for _, line := range strings.Split(markdown, "\n") {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "```") {
			inFence = !inFence
			fn(line, false)
			continue
		}
		fn(line, !inFence && strings.HasPrefix(trimmed, "#"))
	}
}

// parseHeading splits a heading line into its level and title.
func parseHeading(line string) (int, string) {
	trimmed := strings.TrimSpace(line)
	level := len(trimmed) - len(strings.TrimLeft(trimmed, "#"))
	title := strings.TrimSpace(strings.TrimRight(trimmed[level:], "#"))
	return level, title
}

// generateAnchor creates a URL-safe anchor from a title.
func generateAnchor(title string) string {
	var sb strings.Builder
	prevHyphen := false

	for _, r := range strings.ToLower(title) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			sb.WriteRune(r)
			prevHyphen = false
		} else if unicode.IsSpace(r) || r == '-' {
			if !prevHyphen && sb.Len() > 0 {
				sb.WriteRune('-')
				prevHyphen = true
			}
		}
	}

	return strings.TrimSuffix(sb.String(), "-")
}
