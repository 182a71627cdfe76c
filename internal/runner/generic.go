package runner

import (
	"context"
	"fmt"

	"github.com/nimbusdb/cstress/internal/fieldgen"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/session"
)

// TableSpec names a table and the non-key columns a generic Runner fills
// with field-generator values on every mutation.
type TableSpec struct {
	Table        string
	PartitionCol string
	ValueColumns []string
}

// Generic is a table-driven Runner suitable for the simple built-in
// workloads (key-value, time-series, random-partition-access): it builds
// CQL text and positional args from a TableSpec plus the resolved field
// registry, deferring execution entirely to the Session.
type Generic struct {
	spec TableSpec
	cfg  Config
}

// NewGeneric builds a Generic runner bound to one table.
func NewGeneric(spec TableSpec, cfg Config) *Generic {
	return &Generic{spec: spec, cfg: cfg}
}

func (g *Generic) fieldValues() ([]any, error) {
	args := make([]any, 0, len(g.spec.ValueColumns))
	for _, col := range g.spec.ValueColumns {
		gen, err := g.cfg.Fields.Resolve(fieldgen.Field{Table: g.spec.Table, Column: col})
		if err != nil {
			return nil, err
		}
		v := gen.Next()
		if v.IsString {
			args = append(args, v.Str)
		} else {
			args = append(args, v.Num)
		}
	}
	return args, nil
}

func (g *Generic) BindSelect(_ context.Context, key keygen.PartitionKey) (session.BoundStatement, error) {
	cql := fmt.Sprintf("SELECT * FROM %s WHERE %s = ?", g.spec.Table, g.spec.PartitionCol)
	return &session.FakeStatement{CQL: cql, Args: []any{key.Text()}, PaginateOn: g.cfg.Paginate}, nil
}

func (g *Generic) BindMutation(_ context.Context, key keygen.PartitionKey) (session.BoundStatement, error) {
	values, err := g.fieldValues()
	if err != nil {
		return nil, err
	}
	cql := fmt.Sprintf("INSERT INTO %s (%s, %s...) VALUES (?, ...)", g.spec.Table, g.spec.PartitionCol, g.spec.Table)
	return &session.FakeStatement{CQL: cql, Args: append([]any{key.Text()}, values...)}, nil
}

func (g *Generic) BindDelete(_ context.Context, key keygen.PartitionKey) (session.BoundStatement, error) {
	cql := fmt.Sprintf("DELETE FROM %s WHERE %s = ?", g.spec.Table, g.spec.PartitionCol)
	return &session.FakeStatement{CQL: cql, Args: []any{key.Text()}}, nil
}

// BindPopulate defaults to BindMutation, matching spec §4.7's
// "getNextPopulate, which defaults to getNextMutation".
func (g *Generic) BindPopulate(ctx context.Context, key keygen.PartitionKey) (session.BoundStatement, error) {
	return g.BindMutation(ctx, key)
}
