package llm

import (
	"errors"
	"strings"
)

var ErrNoStructuredContent = errors.New("no structured content found in completion")

// ExtractJSON pulls the first balanced JSON object or array out of a
// completion, tolerating prose and code fences around it. The prompt
// contract asks for exactly one object with no prose, but models drift.
func ExtractJSON(text string) (string, error) {
	text = stripFences(text)

	start := -1
	var open, close byte

	for i := 0; i < len(text); i++ {
		if text[i] == '{' || text[i] == '[' {
			start = i
			open = text[i]
			if open == '{' {
				close = '}'
			} else {
				close = ']'
			}
			break
		}
	}

	if start < 0 {
		return "", ErrNoStructuredContent
	}

	depth := 0
	inString := false
	escaped := false

	for i := start; i < len(text); i++ {
		c := text[i]

		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}

		switch c {
		case '"':
			inString = true
		case open:
			depth++
		case close:
			depth--
			if depth == 0 {
				return text[start : i+1], nil
			}
		}
	}

	return "", ErrNoStructuredContent
}

// ExtractYAML returns the fenced yaml block if one exists, otherwise the
// whole trimmed completion.
func ExtractYAML(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if trimmed == "" {
		return "", ErrNoStructuredContent
	}

	if block, ok := fencedBlock(trimmed, "```yaml"); ok {
		return block, nil
	}
	if block, ok := fencedBlock(trimmed, "```"); ok {
		return block, nil
	}

	return trimmed, nil
}

func fencedBlock(text, fence string) (string, bool) {
	start := strings.Index(text, fence)
	if start < 0 {
		return "", false
	}

	rest := text[start+len(fence):]
	if nl := strings.IndexByte(rest, '\n'); nl >= 0 {
		rest = rest[nl+1:]
	}

	end := strings.Index(rest, "```")
	if end < 0 {
		return "", false
	}

	return strings.TrimSpace(rest[:end]), true
}

func stripFences(text string) string {
	if block, ok := fencedBlock(text, "```json"); ok {
		return block
	}
	if block, ok := fencedBlock(text, "```"); ok {
		return block
	}
	return text
}
