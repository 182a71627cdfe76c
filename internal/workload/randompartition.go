package workload

import (
	"strconv"

	"github.com/nimbusdb/cstress/internal/fieldgen"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/runner"
)

func init() {
	Default.Register("randompartitionaccess", func() Workload { return NewRandomPartitionAccess() })
}

// RandomPartitionAccess stresses cache/coordinator behavior by hammering a
// uniformly random subset of a large key space rather than a tight
// working set; its default read rate favors reads, the common shape for
// testing read-path hot/cold partition behavior.
type RandomPartitionAccess struct {
	HotsetFraction float64
}

func NewRandomPartitionAccess() *RandomPartitionAccess {
	return &RandomPartitionAccess{HotsetFraction: 1.0}
}

func (w *RandomPartitionAccess) Name() string { return "randompartitionaccess" }
func (w *RandomPartitionAccess) Description() string {
	return "Uniform random access across the full partition space"
}

func (w *RandomPartitionAccess) DDL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS randompartitionaccess (id text PRIMARY KEY, payload text)`,
	}
}

func (w *RandomPartitionAccess) DefaultReadRate() float64 { return 0.8 }

func (w *RandomPartitionAccess) PopulatePolicy() PopulatePolicy { return StandardPopulate() }

func (w *RandomPartitionAccess) PopulateKeyGenerator(maxID uint64, total int64) *keygen.Generator {
	return nil
}

func (w *RandomPartitionAccess) InstallFieldDefaults(reg *fieldgen.Registry) error {
	gen, err := reg.Build("randstring", "32", "128")
	if err != nil {
		return err
	}
	reg.SetDefault(fieldgen.Field{Table: "randompartitionaccess", Column: "payload"}, gen)
	return nil
}

func (w *RandomPartitionAccess) Parameters() []ParamDescriptor {
	return []ParamDescriptor{
		{
			Name:        "hotsetfraction",
			Description: "Fraction of the partition space treated as the hot set (informational; access remains uniform)",
			Kind:        KindF64,
			Set: func(raw string) error {
				v, err := strconv.ParseFloat(raw, 64)
				if err != nil {
					return err
				}
				w.HotsetFraction = v
				return nil
			},
		},
	}
}

func (w *RandomPartitionAccess) Filters() FilterAnnotations { return FilterAnnotations{} }

func (w *RandomPartitionAccess) NewRunner(cfg runner.Config) (runner.Runner, error) {
	return runner.NewGeneric(runner.TableSpec{
		Table:        "randompartitionaccess",
		PartitionCol: "id",
		ValueColumns: []string{"payload"},
	}, cfg), nil
}
