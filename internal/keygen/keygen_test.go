package keygen

import "testing"

func TestSequentialWrapsAndIsPermutation(t *testing.T) {
	g := New(Sequential, "t", 2, 5)

	var ids []uint64
	for {
		k, ok := g.Next()
		if !ok {
			break
		}
		if k.Prefix != "t" {
			t.Fatalf("unexpected prefix %q", k.Prefix)
		}
		ids = append(ids, k.ID)
	}

	want := []uint64{0, 1, 2, 0, 1}
	if len(ids) != len(want) {
		t.Fatalf("got %d ids, want %d", len(ids), len(want))
	}
	for i := range want {
		if ids[i] != want[i] {
			t.Errorf("id[%d] = %d, want %d", i, ids[i], want[i])
		}
	}
}

func TestSequentialIsStrictPermutationWhenTotalLEMax(t *testing.T) {
	const maxID = 99
	const total = 50
	g := New(Sequential, "p", maxID, total)

	seen := make(map[uint64]bool)
	for i := 0; i < total; i++ {
		k, ok := g.Next()
		if !ok {
			t.Fatalf("generator exhausted early at i=%d", i)
		}
		if seen[k.ID] {
			t.Fatalf("duplicate id %d", k.ID)
		}
		seen[k.ID] = true
	}
	if _, ok := g.Next(); ok {
		t.Fatalf("expected generator to be exhausted after %d draws", total)
	}
	for i := uint64(0); i < total; i++ {
		if !seen[i] {
			t.Errorf("missing id %d from permutation", i)
		}
	}
}

func TestUniformStaysInRange(t *testing.T) {
	const maxID = 17
	g := New(Uniform, "u", maxID, 2000)
	for {
		k, ok := g.Next()
		if !ok {
			break
		}
		if k.ID > maxID {
			t.Fatalf("uniform id %d exceeds maxID %d", k.ID, maxID)
		}
	}
}

func TestNormalStaysInRange(t *testing.T) {
	const maxID = 1000
	g := New(Normal, "n", maxID, 5000)
	for {
		k, ok := g.Next()
		if !ok {
			break
		}
		if k.ID > maxID {
			t.Fatalf("normal id %d exceeds maxID %d", k.ID, maxID)
		}
	}
}

func TestNormalZeroMaxID(t *testing.T) {
	g := New(Normal, "n", 0, 100)
	for i := 0; i < 100; i++ {
		k, ok := g.Next()
		if !ok {
			t.Fatalf("unexpected exhaustion at i=%d", i)
		}
		if k.ID != 0 {
			t.Fatalf("expected id 0 when maxID=0, got %d", k.ID)
		}
	}
}

func TestParseDistribution(t *testing.T) {
	cases := map[string]Distribution{
		"random":   Uniform,
		"":         Uniform,
		"sequence": Sequential,
		"normal":   Normal,
	}
	for in, want := range cases {
		got, err := ParseDistribution(in)
		if err != nil {
			t.Fatalf("ParseDistribution(%q) error: %v", in, err)
		}
		if got != want {
			t.Errorf("ParseDistribution(%q) = %v, want %v", in, got, want)
		}
	}
	if _, err := ParseDistribution("bogus"); err == nil {
		t.Error("expected error for unknown distribution")
	}
}

func TestUnboundedRemaining(t *testing.T) {
	g := New(Uniform, "x", 10, Unbounded)
	if g.Remaining() != Unbounded {
		t.Errorf("Remaining() = %d, want Unbounded", g.Remaining())
	}
	if _, ok := g.Next(); !ok {
		t.Error("unbounded generator should never report exhaustion")
	}
}
