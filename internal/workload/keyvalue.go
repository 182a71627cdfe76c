package workload

import (
	"strconv"

	"github.com/nimbusdb/cstress/internal/fieldgen"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/runner"
)

func init() {
	Default.Register("keyvalue", func() Workload { return NewKeyValue() })
}

// KeyValue is the simplest profile: one table, one value column, uniform
// read/write access over the partition space.
type KeyValue struct {
	ValueSize int64
}

// NewKeyValue builds a KeyValue workload with default tunables.
func NewKeyValue() *KeyValue {
	return &KeyValue{ValueSize: 64}
}

func (w *KeyValue) Name() string        { return "keyvalue" }
func (w *KeyValue) Description() string { return "Simple key-value read/write/delete workload" }

func (w *KeyValue) DDL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS keyvalue (key text PRIMARY KEY, value text)`,
	}
}

func (w *KeyValue) DefaultReadRate() float64 { return 0.5 }

func (w *KeyValue) PopulatePolicy() PopulatePolicy { return StandardPopulate() }

func (w *KeyValue) PopulateKeyGenerator(maxID uint64, total int64) *keygen.Generator {
	return nil // fall back to the engine's default sequential populate generator
}

func (w *KeyValue) InstallFieldDefaults(reg *fieldgen.Registry) error {
	size := strconv.FormatInt(w.ValueSize, 10)
	gen, err := reg.Build("randstring", size, size)
	if err != nil {
		return err
	}
	reg.SetDefault(fieldgen.Field{Table: "keyvalue", Column: "value"}, gen)
	return nil
}

func (w *KeyValue) Parameters() []ParamDescriptor {
	return []ParamDescriptor{
		{
			Name:        "valuesize",
			Description: "Size in bytes of the generated value column",
			Kind:        KindI64,
			Set: func(raw string) error {
				v, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return err
				}
				w.ValueSize = v
				return nil
			},
		},
	}
}

func (w *KeyValue) Filters() FilterAnnotations { return FilterAnnotations{} }

func (w *KeyValue) NewRunner(cfg runner.Config) (runner.Runner, error) {
	return runner.NewGeneric(runner.TableSpec{
		Table:        "keyvalue",
		PartitionCol: "key",
		ValueColumns: []string{"value"},
	}, cfg), nil
}
