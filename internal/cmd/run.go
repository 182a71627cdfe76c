package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/nimbusdb/cstress/internal/cliflags"
	"github.com/nimbusdb/cstress/internal/collector"
	"github.com/nimbusdb/cstress/internal/engine"
	"github.com/nimbusdb/cstress/internal/history"
	"github.com/nimbusdb/cstress/internal/keygen"
	"github.com/nimbusdb/cstress/internal/session"
	"github.com/nimbusdb/cstress/internal/stresscontext"
	"github.com/nimbusdb/cstress/internal/workload"
)

var runCmd = &cobra.Command{
	Use:   "run <workload>",
	Short: "Run a workload against the configured cluster",
	Long: `run drives the named workload profile at the configured rate, thread
count, and read/write/delete mix until the requested iteration count or
duration is reached.

Example:
  stress run keyvalue --iterations 100000 --threads 4 --rate 10000
  stress run basictimeseries --duration 1h30m --rate 5000`,
	Args: cobra.ExactArgs(1),
	RunE: runRun,
}

func init() {
	rootCmd.AddCommand(runCmd)

	f := runCmd.Flags()
	f.StringP("host", "h", "127.0.0.1", "contact point")
	f.Int("cql-port", 9042, "port")
	f.StringP("username", "U", "", "username")
	f.StringP("password", "P", "", "password")
	f.StringP("duration", "d", "", "human-readable span, e.g. 1h30m, 45s, 1d2h3m")
	f.StringP("iterations", "i", "", "operation count, accepts k/m/b suffixes")
	f.IntP("threads", "t", 4, "worker thread count")
	f.IntP("rate", "r", 0, "ops/sec cap; 0 disables the limiter")
	f.IntP("partitions", "p", 100000, "partition key space size")
	f.String("partition-key-generator", "random", "random, sequence, or normal")
	f.Float64("read-rate", -1, "fraction of ops that are reads; defaults to the workload's suggestion")
	f.Float64("delete-rate", 0, "fraction of ops that are deletes")
	f.Int("queue-depth", 128, "per-thread in-flight cap")
	f.String("populate", "standard", "standard, none, or a row count")
	f.StringToString("field", nil, "override a field generator: <table>.<column>=<fn>(args)")
	f.StringToString("workload-param", nil, "set a dynamic workload parameter: <name>=<value>")
	f.String("compaction", "", "CQL map literal or shortcut (stcs/lcs/twcs/ucs)")
	f.Int64("ttl", 0, "DDL-only: row TTL in seconds")
	f.String("compression", "", "DDL-only: compression options")
	f.String("replication", "", "DDL-only: replication options")
	f.String("cl", "LOCAL_QUORUM", "consistency level")
	f.String("serial-cl", "SERIAL", "serial consistency level")
	f.Int64("max-read-latency", 0, "read latency SLO in ms; 0 disables")
	f.Int64("max-write-latency", 0, "write latency SLO in ms; 0 disables")
	f.Int("prometheus-port", 0, "0 disables the Prometheus exporter")
	f.String("raw-event-log", "", "path (or directory) for the per-operation raw event log")
	f.Bool("coordinator-only", false, "pin all requests to one endpoint")
	f.Int("page-size", 5000, "result page size")
	f.Bool("paginate", false, "walk all result pages on reads")
}

func runRun(cmd *cobra.Command, args []string) error {
	cfg, err := resolveRunConfig(cmd, args[0])
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	sinks, closeSinks, err := buildCollectorChain(cmd, cfg)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	defer closeSinks()

	host, _ := cmd.Flags().GetString("host")
	slog.Info("connecting", "host", host)
	sess := session.NewFakeSession()

	sc, err := stresscontext.Build(cfg, sinks, sess)
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	store, err := openHistoryStore()
	if err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}
	defer store.Close()

	startedAt := time.Now()
	ctx := context.Background()
	result, err := engine.Run(ctx, sc, logger)
	endedAt := time.Now()
	if err != nil {
		return fmt.Errorf("run failed: %w", err)
	}

	slog.Info("run finished", "state", result.FinalState.String(), "reason", result.Reason)

	status := "completed"
	if result.Reason == "latency SLO breach" {
		status = "failed:latency SLO breach"
	} else if result.Reason == "external stop" {
		status = "stopped"
	}
	if _, saveErr := store.Save(history.RunSummary{
		Workload:  args[0],
		Config:    cfg,
		Metrics:   result.Metrics,
		StartedAt: startedAt,
		EndedAt:   endedAt,
		Status:    status,
	}); saveErr != nil {
		slog.Warn("failed to persist run summary", "error", saveErr)
	}

	if result.Reason == "latency SLO breach" {
		return fmt.Errorf("failed: latency SLO breach")
	}
	return nil
}

func resolveRunConfig(cmd *cobra.Command, workloadName string) (*stresscontext.RunConfig, error) {
	f := cmd.Flags()
	cfg := &stresscontext.RunConfig{Workload: workloadName}

	durationStr, _ := f.GetString("duration")
	iterationsStr, _ := f.GetString("iterations")
	if durationStr != "" && iterationsStr != "" {
		return nil, fmt.Errorf("--duration and --iterations are mutually exclusive")
	}
	if durationStr != "" {
		secs, err := cliflags.ParseDuration(durationStr)
		if err != nil {
			return nil, err
		}
		cfg.DurationS = secs
	}
	if iterationsStr != "" {
		n, err := cliflags.ParseIterations(iterationsStr)
		if err != nil {
			return nil, err
		}
		cfg.Iterations = n
	}

	cfg.Threads, _ = f.GetInt("threads")
	cfg.Rate, _ = f.GetInt("rate")
	partitions, _ := f.GetInt("partitions")
	cfg.PartitionCount = uint64(partitions)

	pkg, _ := f.GetString("partition-key-generator")
	dist, err := keygen.ParseDistribution(pkg)
	if err != nil {
		return nil, err
	}
	cfg.PartitionKeyGenerator = dist

	readRate, _ := f.GetFloat64("read-rate")
	cfg.ReadRate = readRate // -1 sentinel, resolved against the workload default below
	cfg.DeleteRate, _ = f.GetFloat64("delete-rate")
	cfg.QueueDepth, _ = f.GetInt("queue-depth")

	populate, _ := f.GetString("populate")
	switch strings.ToLower(populate) {
	case "none":
		cfg.Populate = stresscontext.PopulateNone
	case "standard", "":
		cfg.Populate = stresscontext.PopulateStandard
	default:
		rows, err := cliflags.ParseIterations(populate)
		if err != nil {
			return nil, fmt.Errorf("invalid --populate value %q: %w", populate, err)
		}
		cfg.Populate = stresscontext.PopulateCustom
		cfg.PopulateRows = rows
		cfg.PopulateDelete = cfg.DeleteRate > 0
	}

	cfg.Fields, _ = f.GetStringToString("field")
	cfg.WorkloadParameters, _ = f.GetStringToString("workload-param")

	compaction, _ := f.GetString("compaction")
	if compaction != "" {
		m, err := cliflags.ParseCompaction(compaction)
		if err != nil {
			if !cliflags.IsShortcut(err) {
				return nil, err
			}
			cfg.Compaction = map[string]string{"raw": cliflags.RawPassthrough(compaction)}
		} else {
			cfg.Compaction = m
		}
	}
	cfg.TTLSeconds, _ = f.GetInt64("ttl")
	cfg.Compression, _ = f.GetString("compression")
	cfg.Replication, _ = f.GetString("replication")

	clName, _ := f.GetString("cl")
	cl, err := session.ParseConsistencyLevel(clName)
	if err != nil {
		return nil, err
	}
	cfg.Consistency = cl

	serialClName, _ := f.GetString("serial-cl")
	serialCl, err := session.ParseConsistencyLevel(serialClName)
	if err != nil {
		return nil, err
	}
	cfg.SerialConsistency = serialCl

	cfg.MaxReadLatencyMs, _ = f.GetInt64("max-read-latency")
	cfg.MaxWriteLatencyMs, _ = f.GetInt64("max-write-latency")
	cfg.PageSize, _ = f.GetInt("page-size")
	cfg.Paginate, _ = f.GetBool("paginate")
	cfg.CoordinatorOnlyMode, _ = f.GetBool("coordinator-only")
	cfg.PrometheusPort, _ = f.GetInt("prometheus-port")
	cfg.RawEventLog, _ = f.GetString("raw-event-log")

	if cfg.ReadRate < 0 {
		// --read-rate was not given: use the workload's own
		// DefaultReadRate(). stresscontext.Build does not resolve it, and
		// a negative value would fail Validate(), so look it up now.
		w, err := lookupWorkloadDefault(workloadName)
		if err != nil {
			return nil, err
		}
		cfg.ReadRate = w
	}

	return cfg, nil
}

func buildCollectorChain(cmd *cobra.Command, cfg *stresscontext.RunConfig) (collector.Collector, func(), error) {
	var chain []collector.Collector
	var closers []func()

	chain = append(chain, collector.NewProgressCollector(5*time.Second, logger))

	if cfg.RawEventLog != "" {
		raw, err := collector.OpenRawLog(cfg.RawEventLog)
		if err != nil {
			return nil, nil, err
		}
		chain = append(chain, raw)
		closers = append(closers, raw.Close)
	}

	if cfg.PrometheusPort > 0 {
		prom := collector.NewPrometheusCollector()
		chain = append(chain, prom)
		mux := http.NewServeMux()
		mux.Handle("/metrics", prom.Handler())
		srv := &http.Server{Addr: fmt.Sprintf(":%d", cfg.PrometheusPort), Handler: mux}
		go func() {
			if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
				slog.Error("prometheus exporter stopped", "error", err)
			}
		}()
		closers = append(closers, func() { _ = srv.Close() })
	}

	return collector.NewComposite(chain...), func() {
		for _, c := range closers {
			c()
		}
	}, nil
}

func lookupWorkloadDefault(name string) (float64, error) {
	w, err := workload.Default.Get(name)
	if err != nil {
		return 0, err
	}
	return w.DefaultReadRate(), nil
}
