package fieldgen

import "testing"

type constGen struct {
	name string
	v    Value
}

func (c *constGen) Name() string { return c.name }
func (c *constGen) Next() Value  { return c.v }

func TestOverrideSupersedesDefault(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory("const", func(args []string) (FieldGenerator, error) {
		return &constGen{name: "const", v: StringValue(args[0])}, nil
	})

	f := Field{Table: "users", Column: "name"}
	r.SetDefault(f, &constGen{name: "default", v: StringValue("default-value")})

	if err := r.SetOverride(f, "const(override-value)"); err != nil {
		t.Fatalf("SetOverride: %v", err)
	}

	gen, err := r.Resolve(f)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := gen.Next().Str; got != "override-value" {
		t.Errorf("resolved value = %q, want override-value", got)
	}
}

func TestResolveFallsBackToDefault(t *testing.T) {
	r := NewRegistry()
	f := Field{Table: "t", Column: "c"}
	r.SetDefault(f, &constGen{name: "default", v: StringValue("d")})

	gen, err := r.Resolve(f)
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if got := gen.Next().Str; got != "d" {
		t.Errorf("value = %q, want d", got)
	}
}

func TestResolveUnknownFieldErrors(t *testing.T) {
	r := NewRegistry()
	if _, err := r.Resolve(Field{Table: "x", Column: "y"}); err == nil {
		t.Error("expected error for unregistered field")
	}
}

func TestSetOverrideUnknownFunction(t *testing.T) {
	r := NewRegistry()
	if err := r.SetOverride(Field{Table: "t", Column: "c"}, "nope(1)"); err == nil {
		t.Error("expected error for unknown generator function")
	}
}

func TestParseFunctionCall(t *testing.T) {
	name, args, err := parseFunctionCall("randstring(10,20)")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "randstring" {
		t.Errorf("name = %q, want randstring", name)
	}
	if len(args) != 2 || args[0] != "10" || args[1] != "20" {
		t.Errorf("args = %v, want [10 20]", args)
	}

	name, args, err = parseFunctionCall("bareword")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if name != "bareword" || args != nil {
		t.Errorf("got name=%q args=%v, want bareword/nil", name, args)
	}

	if _, _, err := parseFunctionCall("broken(1,2"); err == nil {
		t.Error("expected error for unterminated call")
	}
}
