package analyzer

import "strings"

// TagDelimiter separates tags inside a raw tag field.
const TagDelimiter = ","

// ParseTags splits a raw tag field into trimmed, non-empty tags in their
// original order. Empty and whitespace-only input yields an empty slice.
func ParseTags(raw string) []string {
	parts := strings.Split(raw, TagDelimiter)
	tags := make([]string, 0, len(parts))
	for _, p := range parts {
		if tag := strings.TrimSpace(p); tag != "" {
			tags = append(tags, tag)
		}
	}
	return tags
}
