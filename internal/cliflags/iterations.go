package cliflags

import (
	"fmt"
	"strconv"
	"strings"
)

// ParseIterations accepts a plain integer or one suffixed with k/m/b
// (thousand/million/billion, case-insensitive) per spec §6's -i/--iterations
// flag.
func ParseIterations(s string) (int64, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0, fmt.Errorf("cliflags: empty iteration count")
	}

	mult := int64(1)
	last := s[len(s)-1]
	switch last {
	case 'k', 'K':
		mult = 1_000
		s = s[:len(s)-1]
	case 'm', 'M':
		mult = 1_000_000
		s = s[:len(s)-1]
	case 'b', 'B':
		mult = 1_000_000_000
		s = s[:len(s)-1]
	}

	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, fmt.Errorf("cliflags: invalid iteration count %q: %w", s, err)
	}
	return n * mult, nil
}
