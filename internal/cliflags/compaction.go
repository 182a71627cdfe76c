package cliflags

import (
	"fmt"
	"strings"
)

// ParseCompaction implements spec §6's compaction shortcut grammar:
// ^(stcs|lcs|twcs|ucs)(,<arg>)*$ mapped to the matching CQL compaction
// class, or a raw passthrough (with `"` rewritten to `'`) for anything
// that doesn't match a shortcut.
func ParseCompaction(s string) (map[string]string, error) {
	s = strings.TrimSpace(s)
	parts := strings.Split(s, ",")
	shortcut := strings.ToLower(parts[0])
	args := parts[1:]

	switch shortcut {
	case "stcs":
		return stcs(args)
	case "lcs":
		return lcs(args)
	case "twcs":
		return twcs(args)
	case "ucs":
		return ucs(args)
	default:
		return nil, errNotShortcut
	}
}

// errNotShortcut signals ParseCompaction saw input outside the shortcut
// grammar; callers fall back to RawPassthrough.
var errNotShortcut = fmt.Errorf("cliflags: not a compaction shortcut")

// IsShortcut reports whether err came from ParseCompaction failing to
// recognise a shortcut prefix (as opposed to a malformed shortcut).
func IsShortcut(err error) bool {
	return err == errNotShortcut
}

// RawPassthrough returns the unrecognised --compaction value as a raw CQL
// map literal, with double quotes rewritten to single quotes per spec §6.
func RawPassthrough(s string) string {
	return strings.ReplaceAll(s, `"`, `'`)
}

func stcs(args []string) (map[string]string, error) {
	m := map[string]string{"class": "SizeTieredCompactionStrategy"}
	switch len(args) {
	case 0:
	case 2:
		m["min_threshold"] = args[0]
		m["max_threshold"] = args[1]
	default:
		return nil, fmt.Errorf("cliflags: stcs takes 0 or 2 args, got %d", len(args))
	}
	return m, nil
}

func lcs(args []string) (map[string]string, error) {
	m := map[string]string{"class": "LeveledCompactionStrategy"}
	switch len(args) {
	case 0:
	case 1:
		m["sstable_size_in_mb"] = args[0]
	case 2:
		m["sstable_size_in_mb"] = args[0]
		m["fanout_size"] = args[1]
	default:
		return nil, fmt.Errorf("cliflags: lcs takes 0, 1, or 2 args, got %d", len(args))
	}
	return m, nil
}

func twcs(args []string) (map[string]string, error) {
	m := map[string]string{"class": "TimeWindowCompactionStrategy"}
	switch len(args) {
	case 0:
	case 2:
		unit := strings.ToUpper(args[1])
		switch unit {
		case "MINUTES", "HOURS", "DAYS":
		default:
			return nil, fmt.Errorf("cliflags: twcs window_unit must be one of MINUTES, HOURS, DAYS, got %q", args[1])
		}
		m["compaction_window_size"] = args[0]
		m["compaction_window_unit"] = unit
	default:
		return nil, fmt.Errorf("cliflags: twcs takes 0 or 2 args, got %d", len(args))
	}
	return m, nil
}

func ucs(args []string) (map[string]string, error) {
	m := map[string]string{"class": "UnifiedCompactionStrategy"}
	if len(args) > 0 {
		m["scaling_parameters"] = strings.Join(args, ",")
	}
	return m, nil
}
