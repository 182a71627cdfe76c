package workload

import (
	"strconv"

	"github.com/nimbusdb/cstress/internal/fieldgen"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/runner"
)

func init() {
	Default.Register("basictimeseries", func() Workload { return NewBasicTimeSeries() })
}

// BasicTimeSeries models an append-heavy time-series table: populate
// deletes are disabled by default (time-series data is rarely deleted
// during load), and mutations dominate over reads.
type BasicTimeSeries struct {
	FieldCount int64
}

func NewBasicTimeSeries() *BasicTimeSeries {
	return &BasicTimeSeries{FieldCount: 3}
}

func (w *BasicTimeSeries) Name() string { return "basictimeseries" }
func (w *BasicTimeSeries) Description() string {
	return "Append-heavy time-series workload with a wide value row"
}

func (w *BasicTimeSeries) DDL() []string {
	return []string{
		`CREATE TABLE IF NOT EXISTS basictimeseries (sensor_id text PRIMARY KEY, reading text, unit text, recorded_at text)`,
	}
}

func (w *BasicTimeSeries) DefaultReadRate() float64 { return 0.1 }

func (w *BasicTimeSeries) PopulatePolicy() PopulatePolicy {
	return CustomPopulate(10000, false)
}

func (w *BasicTimeSeries) PopulateKeyGenerator(maxID uint64, total int64) *keygen.Generator {
	return keygen.New(keygen.Sequential, "sensor", maxID, total)
}

func (w *BasicTimeSeries) InstallFieldDefaults(reg *fieldgen.Registry) error {
	for _, col := range []string{"reading", "unit", "recorded_at"} {
		gen, err := reg.Build("randstring", "8", "16")
		if err != nil {
			return err
		}
		reg.SetDefault(fieldgen.Field{Table: "basictimeseries", Column: col}, gen)
	}
	return nil
}

func (w *BasicTimeSeries) Parameters() []ParamDescriptor {
	return []ParamDescriptor{
		{
			Name:        "fieldcount",
			Description: "Number of value fields per row (informational; every row carries reading, unit, and recorded_at)",
			Kind:        KindI64,
			Set: func(raw string) error {
				v, err := strconv.ParseInt(raw, 10, 64)
				if err != nil {
					return err
				}
				w.FieldCount = v
				return nil
			},
		},
	}
}

func (w *BasicTimeSeries) Filters() FilterAnnotations { return FilterAnnotations{} }

func (w *BasicTimeSeries) NewRunner(cfg runner.Config) (runner.Runner, error) {
	return runner.NewGeneric(runner.TableSpec{
		Table:        "basictimeseries",
		PartitionCol: "sensor_id",
		ValueColumns: []string{"reading", "unit", "recorded_at"},
	}, cfg), nil
}
