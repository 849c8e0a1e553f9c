// Package history persists the console's command history between sessions
package history

import (
	"fmt"
	"slices"
)

// Policy bounds and optionally deduplicates a command list
type Policy struct {
	// Limit is the number of newest entries kept; zero or less keeps all
	Limit int
	// AllowDuplicates keeps repeated commands; when false only the most
	// recent occurrence of each command survives
	AllowDuplicates bool
}

// DefaultPolicy returns the default policy
func DefaultPolicy() Policy {
	return Policy{
		Limit:           50,
		AllowDuplicates: true,
	}
}

// Validate checks if the policy is valid
func (p Policy) Validate() error {
	if p.Limit < 0 {
		return fmt.Errorf("history limit cannot be negative, got: %d", p.Limit)
	}
	return nil
}

// Apply returns a new list: the newest Limit entries in chronological order,
// then deduplicated from the newest end when duplicates are not allowed.
// Truncation happens before deduplication, so a list with many duplicates can
// end up shorter than Limit.
func (p Policy) Apply(entries []string) []string {
	result := slices.Clone(entries)

	// Newest first, cut, then back to chronological order.
	slices.Reverse(result)
	if p.Limit > 0 && len(result) > p.Limit {
		result = result[:p.Limit]
	}
	slices.Reverse(result)

	if p.AllowDuplicates {
		return result
	}
	return dedupKeepLast(result)
}

// dedupKeepLast keeps the last occurrence of each value, preserving the
// relative order of the survivors
func dedupKeepLast(entries []string) []string {
	seen := make(map[string]struct{}, len(entries))
	kept := make([]string, 0, len(entries))

	for i := len(entries) - 1; i >= 0; i-- {
		if _, dup := seen[entries[i]]; dup {
			continue
		}
		seen[entries[i]] = struct{}{}
		kept = append(kept, entries[i])
	}

	slices.Reverse(kept)
	return kept
}
