package model

import "fmt"

// CountingPolicy controls how repeated tags are counted.
type CountingPolicy string

const (
	// PerOccurrence counts every parsed tag token.
	PerOccurrence CountingPolicy = "per-occurrence"
	// PerRowUnique counts a tag at most once per row.
	PerRowUnique CountingPolicy = "per-row-unique"
)

// ParseCountingPolicy converts a configuration string into a policy.
func ParseCountingPolicy(s string) (CountingPolicy, error) {
	switch CountingPolicy(s) {
	case PerOccurrence:
		return PerOccurrence, nil
	case PerRowUnique:
		return PerRowUnique, nil
	default:
		return "", fmt.Errorf("invalid counting policy %q (valid: %s, %s)", s, PerOccurrence, PerRowUnique)
	}
}
