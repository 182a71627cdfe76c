package cliflags

import "testing"

func TestParseCompactionSTCS(t *testing.T) {
	m, err := ParseCompaction("stcs,4,32")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["class"] != "SizeTieredCompactionStrategy" {
		t.Fatalf("unexpected class: %v", m)
	}
	if m["min_threshold"] != "4" || m["max_threshold"] != "32" {
		t.Fatalf("unexpected thresholds: %v", m)
	}
}

func TestParseCompactionLCS(t *testing.T) {
	m, err := ParseCompaction("lcs,160")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["sstable_size_in_mb"] != "160" {
		t.Fatalf("unexpected args: %v", m)
	}
}

func TestParseCompactionTWCSInvalidUnit(t *testing.T) {
	if _, err := ParseCompaction("twcs,1,WEEKS"); err == nil {
		t.Fatal("expected error for invalid window unit")
	}
}

func TestParseCompactionUCS(t *testing.T) {
	m, err := ParseCompaction("ucs,T4,2")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if m["scaling_parameters"] != "T4,2" {
		t.Fatalf("unexpected scaling_parameters: %v", m)
	}
}

func TestParseCompactionNotShortcut(t *testing.T) {
	_, err := ParseCompaction(`{"class": "SizeTieredCompactionStrategy"}`)
	if !IsShortcut(err) {
		t.Fatalf("expected not-a-shortcut error, got %v", err)
	}
	raw := RawPassthrough(`{"class": "SizeTieredCompactionStrategy"}`)
	if raw != `{'class': 'SizeTieredCompactionStrategy'}` {
		t.Fatalf("unexpected passthrough: %q", raw)
	}
}
