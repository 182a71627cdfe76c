// Package cliflags implements the small domain-specific grammars the run
// command's flags accept: human-readable durations, suffixed iteration
// counts, and compaction-strategy shortcuts (spec §6).
package cliflags

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseDuration accepts "( <int><unit> [whitespace] )+" with unit in
// {d, h, m, s}, units repeatable and in any order, components summed, and
// returns the total in seconds (spec §6's duration grammar, a monoid per
// spec §8: convert("1h 30m") == convert("30m 1h") == convert("1h") +
// convert("30m")).
func ParseDuration(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("cliflags: empty duration")
	}

	var total int64
	var numStart int
	consumedAny := false

	i := 0
	for i < len(s) {
		if s[i] == ' ' || s[i] == '\t' {
			i++
			continue
		}
		numStart = i
		for i < len(s) && s[i] >= '0' && s[i] <= '9' {
			i++
		}
		if i == numStart {
			return 0, fmt.Errorf("cliflags: invalid duration %q: expected a number at position %d", s, numStart)
		}
		n, err := strconv.ParseInt(s[numStart:i], 10, 64)
		if err != nil {
			return 0, fmt.Errorf("cliflags: invalid duration %q: %w", s, err)
		}
		if i >= len(s) {
			return 0, fmt.Errorf("cliflags: invalid duration %q: missing unit after %d", s, n)
		}
		unit := s[i]
		i++

		var mult int64
		switch unit {
		case 'd':
			mult = 24 * 60 * 60
		case 'h':
			mult = 60 * 60
		case 'm':
			mult = 60
		case 's':
			mult = 1
		default:
			return 0, fmt.Errorf("cliflags: invalid duration %q: unknown unit %q", s, string(unit))
		}
		total += n * mult
		consumedAny = true
	}

	if !consumedAny {
		return 0, fmt.Errorf("cliflags: invalid duration %q", s)
	}
	return total, nil
}
