// Package session specifies the narrow slice of the underlying database
// client library the stress engine depends on. Per spec §1 the client
// itself — its wire protocol, connection pool, and prepared-statement
// compiler — is an external collaborator named only by this interface.
package session

import (
	"context"
	"fmt"
)

// ConsistencyLevel names the read/write consistency requested for a bound
// statement; passed through to the driver unmodified (spec §3 RunConfig).
type ConsistencyLevel int

const (
	ConsistencyOne ConsistencyLevel = iota
	ConsistencyLocalOne
	ConsistencyQuorum
	ConsistencyLocalQuorum
	ConsistencyAll
	ConsistencySerial
	ConsistencyLocalSerial
)

// ParseConsistencyLevel maps a --cl/--serial-cl flag value.
func ParseConsistencyLevel(s string) (ConsistencyLevel, error) {
	switch s {
	case "ONE", "one":
		return ConsistencyOne, nil
	case "LOCAL_ONE", "local_one":
		return ConsistencyLocalOne, nil
	case "QUORUM", "quorum":
		return ConsistencyQuorum, nil
	case "LOCAL_QUORUM", "local_quorum", "":
		return ConsistencyLocalQuorum, nil
	case "ALL", "all":
		return ConsistencyAll, nil
	case "SERIAL", "serial":
		return ConsistencySerial, nil
	case "LOCAL_SERIAL", "local_serial":
		return ConsistencyLocalSerial, nil
	default:
		return 0, fmt.Errorf("unknown consistency level: %s", s)
	}
}

// BoundStatement is an opaque prepared-statement-with-parameters handle
// produced by the profile runner bridge (internal/runner) and submitted
// unchanged by the dispatch loop. Its concrete shape is the database
// client library's concern; the engine only needs to know whether a read
// should walk result pages.
type BoundStatement interface {
	Paginate() bool
}

// Outcome is delivered exactly once to a Future's registered callback.
type Outcome struct {
	Err error
}

// Success reports whether the operation completed without error.
func (o Outcome) Success() bool { return o.Err == nil }

// Future is the async completion handle returned by Session.ExecuteAsync.
// Implementations must invoke the registered callback on the driver's own
// I/O thread and must invoke it exactly once, after every result page has
// been walked when the bound statement requested pagination (spec §4.4).
type Future interface {
	// OnComplete registers cb. cb must not block and must not call back
	// into the dispatch loop (spec §5).
	OnComplete(cb func(Outcome))
}

// Session is the lifecycle and async-submission surface the engine
// depends on. Schema DDL application and connection establishment are
// handled by the CLI's startup path (spec §1, out of scope here) before a
// Session reaches the engine.
type Session interface {
	ExecuteAsync(ctx context.Context, stmt BoundStatement) Future
	Close() error
}
