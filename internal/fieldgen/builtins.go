package fieldgen

import (
	"fmt"
	"math/rand/v2"
	"strconv"
	"strings"
)

// RegisterBuiltins installs the small set of generator functions every
// built-in workload relies on by default. Richer generators (book text,
// realistic names, ...) are the opaque external registry spec §1 excludes
// from this engine's scope; these cover the scalar/string primitives the
// engine itself needs to exercise the field-override grammar end to end.
func RegisterBuiltins(r *Registry) {
	r.RegisterFactory("fixed", newFixedGenerator)
	r.RegisterFactory("randstring", newRandStringGenerator)
	r.RegisterFactory("randint", newRandIntGenerator)
}

type fixedGenerator struct{ v Value }

func (g *fixedGenerator) Name() string { return "fixed" }
func (g *fixedGenerator) Next() Value  { return g.v }

func newFixedGenerator(args []string) (FieldGenerator, error) {
	if len(args) != 1 {
		return nil, fmt.Errorf("fixed() takes exactly one argument")
	}
	return &fixedGenerator{v: StringValue(args[0])}, nil
}

type randStringGenerator struct {
	min, max int
}

func (g *randStringGenerator) Name() string { return "randstring" }

func (g *randStringGenerator) Next() Value {
	const alphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	n := g.min
	if g.max > g.min {
		n += rand.IntN(g.max - g.min + 1)
	}
	var sb strings.Builder
	sb.Grow(n)
	for i := 0; i < n; i++ {
		sb.WriteByte(alphabet[rand.IntN(len(alphabet))])
	}
	return StringValue(sb.String())
}

func newRandStringGenerator(args []string) (FieldGenerator, error) {
	min, max := 8, 64
	var err error
	if len(args) > 0 {
		if min, err = strconv.Atoi(args[0]); err != nil {
			return nil, fmt.Errorf("randstring: invalid min %q", args[0])
		}
	}
	if len(args) > 1 {
		if max, err = strconv.Atoi(args[1]); err != nil {
			return nil, fmt.Errorf("randstring: invalid max %q", args[1])
		}
	}
	if max < min {
		return nil, fmt.Errorf("randstring: max %d < min %d", max, min)
	}
	return &randStringGenerator{min: min, max: max}, nil
}

type randIntGenerator struct {
	min, max int64
}

func (g *randIntGenerator) Name() string { return "randint" }

func (g *randIntGenerator) Next() Value {
	if g.max <= g.min {
		return NumberValue(float64(g.min))
	}
	return NumberValue(float64(g.min + rand.Int64N(g.max-g.min+1)))
}

func newRandIntGenerator(args []string) (FieldGenerator, error) {
	min, max := int64(0), int64(1000000)
	var err error
	if len(args) > 0 {
		if min, err = strconv.ParseInt(args[0], 10, 64); err != nil {
			return nil, fmt.Errorf("randint: invalid min %q", args[0])
		}
	}
	if len(args) > 1 {
		if max, err = strconv.ParseInt(args[1], 10, 64); err != nil {
			return nil, fmt.Errorf("randint: invalid max %q", args[1])
		}
	}
	return &randIntGenerator{min: min, max: max}, nil
}
