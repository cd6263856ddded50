package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-deepwalk/pkg/config"
	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
	"github.com/dd0wney/cluso-deepwalk/pkg/loader"
	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
	"github.com/dd0wney/cluso-deepwalk/pkg/metrics"
)

// loadJob merges the config file, environment and any flags the user set.
func loadJob(cmd *cobra.Command, args []string) (*config.Job, error) {
	path, _ := cmd.Flags().GetString("config")
	return config.Load(path, func(job *config.Job) {
		if len(args) == 1 {
			job.Input = args[0]
		}
		applyFlags(cmd, job)
	})
}

func applyFlags(cmd *cobra.Command, job *config.Job) {
	flags := cmd.Flags()
	set := func(name string, apply func()) {
		if flags.Changed(name) {
			apply()
		}
	}

	set("log-level", func() { job.LogLevel, _ = flags.GetString("log-level") })
	set("format", func() { job.Format, _ = flags.GetString("format") })
	set("undirected", func() { job.Undirected, _ = flags.GetBool("undirected") })
	set("unchecked", func() { job.Unchecked, _ = flags.GetBool("unchecked") })
	set("chunk-size", func() { job.ChunkSize, _ = flags.GetInt("chunk-size") })
	set("parse-workers", func() { job.ParseWorkers, _ = flags.GetInt("parse-workers") })
	set("postgres-url", func() { job.PostgresURL, _ = flags.GetString("postgres-url") })
	set("postgres-query", func() { job.PostgresQuery, _ = flags.GetString("postgres-query") })
	set("num-paths", func() { job.NumPaths, _ = flags.GetInt("num-paths") })
	set("path-length", func() { job.PathLength, _ = flags.GetInt("path-length") })
	set("alpha", func() { job.Alpha, _ = flags.GetFloat64("alpha") })
	set("workers", func() { job.Workers, _ = flags.GetInt("workers") })
	set("seed", func() { job.Seed, _ = flags.GetUint64("seed") })
	set("output", func() { job.Output, _ = flags.GetString("output") })
	set("stream", func() { job.Stream, _ = flags.GetBool("stream") })
	set("metrics-addr", func() { job.MetricsAddr, _ = flags.GetString("metrics-addr") })
}

func newLogger(cmd *cobra.Command, job *config.Job) logging.Logger {
	return logging.NewJSONLogger(cmd.ErrOrStderr(), logging.ParseLevel(job.LogLevel))
}

// loadGraph reads the job's input, from PostgreSQL when a URL is set.
func loadGraph(ctx context.Context, job *config.Job, log logging.Logger, reg *metrics.Registry) (*graph.Graph, error) {
	opts := job.LoaderOptions(log, reg)

	if job.PostgresURL != "" {
		pool, err := loader.ConnectPostgres(ctx, job.PostgresURL)
		if err != nil {
			return nil, err
		}
		defer pool.Close()

		g, err := loader.FromPostgres(ctx, pool, job.PostgresQuery, opts)
		if err != nil {
			return nil, err
		}
		reg.RecordGraph(g.Order(), g.NumberOfEdges())
		return g, nil
	}

	f, err := job.GraphFormat()
	if err != nil {
		return nil, err
	}
	return loader.LoadFile(ctx, job.Input, f, opts)
}
