package workload

import (
	"strconv"
	"testing"
)

func TestBindParametersUnknownNameErrors(t *testing.T) {
	w := &fakeParamWorkload{}
	err := BindParameters(w, map[string]string{"bogus": "1"})
	if err == nil {
		t.Fatal("expected error for unknown parameter")
	}
}

func TestBindParametersAssignsTypedValues(t *testing.T) {
	w := &fakeParamWorkload{}
	err := BindParameters(w, map[string]string{
		"rows":    "42",
		"ratio":   "0.75",
		"enabled": "true",
		"mode":    "fast",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if w.rows != 42 {
		t.Errorf("rows = %d, want 42", w.rows)
	}
	if w.ratio != 0.75 {
		t.Errorf("ratio = %f, want 0.75", w.ratio)
	}
	if !w.enabled {
		t.Error("enabled = false, want true")
	}
	if w.mode != "fast" {
		t.Errorf("mode = %q, want fast", w.mode)
	}
}

func TestBindParametersRejectsBadEnum(t *testing.T) {
	w := &fakeParamWorkload{}
	err := BindParameters(w, map[string]string{"mode": "bogus"})
	if err == nil {
		t.Fatal("expected error for invalid enum value")
	}
}

func TestBindParametersRejectsBadType(t *testing.T) {
	w := &fakeParamWorkload{}
	if err := BindParameters(w, map[string]string{"rows": "not-a-number"}); err == nil {
		t.Fatal("expected error for non-integer rows")
	}
}

// fakeParamWorkload exercises BindParameters directly through the minimal
// ParamHolder surface.
type fakeParamWorkload struct {
	rows    int64
	ratio   float64
	enabled bool
	mode    string
}

func (w *fakeParamWorkload) Parameters() []ParamDescriptor {
	return []ParamDescriptor{
		{Name: "rows", Kind: KindI64, Set: func(raw string) error {
			v, err := strconv.ParseInt(raw, 10, 64)
			w.rows = v
			return err
		}},
		{Name: "ratio", Kind: KindF64, Set: func(raw string) error {
			v, err := strconv.ParseFloat(raw, 64)
			w.ratio = v
			return err
		}},
		{Name: "enabled", Kind: KindBool, Set: func(raw string) error {
			v, err := strconv.ParseBool(raw)
			w.enabled = v
			return err
		}},
		{Name: "mode", Kind: KindEnum, Variants: []string{"fast", "slow"}, Set: func(raw string) error {
			w.mode = raw
			return nil
		}},
	}
}
