package cliflags

import "testing"

func TestParseIterations(t *testing.T) {
	cases := map[string]int64{
		"100000": 100000,
		"5k":     5000,
		"2M":     2_000_000,
		"1b":     1_000_000_000,
	}
	for in, want := range cases {
		got, err := ParseIterations(in)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", in, err)
		}
		if got != want {
			t.Fatalf("%s: got %d, want %d", in, got, want)
		}
	}
}

func TestParseIterationsInvalid(t *testing.T) {
	if _, err := ParseIterations(""); err == nil {
		t.Fatal("expected error for empty input")
	}
	if _, err := ParseIterations("abc"); err == nil {
		t.Fatal("expected error for non-numeric input")
	}
}
