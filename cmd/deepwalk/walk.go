package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/google/uuid"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-deepwalk/pkg/config"
	"github.com/dd0wney/cluso-deepwalk/pkg/corpus"
	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
	"github.com/dd0wney/cluso-deepwalk/pkg/metrics"
	"github.com/dd0wney/cluso-deepwalk/pkg/sink"
	"github.com/dd0wney/cluso-deepwalk/pkg/walk"
)

func runWalk(cmd *cobra.Command, args []string) error {
	job, err := loadJob(cmd, args)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	noProgress, _ := cmd.Flags().GetBool("no-progress")
	showProgress := !noProgress && !job.Stream && isTerminal(cmd)
	if showProgress && logging.ParseLevel(job.LogLevel) < logging.WarnLevel {
		// Info lines would tear the progress bar.
		job.LogLevel = "warn"
	}

	runID := uuid.NewString()
	log := newLogger(cmd, job).With(logging.RunID(runID))
	reg := metrics.NewRegistry()
	if job.MetricsAddr != "" {
		srv := serveMetrics(job.MetricsAddr, reg, log)
		defer shutdown(srv, log)
	}

	start := time.Now()
	g, err := loadGraph(ctx, job, log, reg)
	if err != nil {
		log.Error("failed to load graph", logging.Error(err))
		return err
	}
	loaded := time.Since(start)

	w := walk.NewWalker(g)
	opts := job.CorpusOptions(log, reg)
	opts.RunID = runID
	reg.RecordRun(runID, describeInput(job), opts.Workers, opts.NumPaths*g.Order())

	sum := summary{
		RunID:    runID,
		Input:    describeInput(job),
		Stats:    g.Stats(),
		Job:      job,
		LoadTime: loaded,
	}

	if job.Stream {
		walks, err := streamWalks(ctx, w, opts, job)
		if err != nil {
			return err
		}
		sum.Walks = walks
	} else {
		walks, err := buildWalks(ctx, w, opts, showProgress)
		if err != nil {
			return err
		}
		sum.Walks = len(walks)
		sum.Fingerprint = corpus.Fingerprint(walks)
		sum.Vocabulary = len(corpus.CountVocabulary(walks))

		if job.Output != "" {
			s, err := sink.Open(ctx, job.Output, job.SinkOptions())
			if err != nil {
				return err
			}
			if err := sink.Drain(s, walks); err != nil {
				log.Error("failed to write corpus", logging.Path(job.Output), logging.Error(err))
				return err
			}
		}
	}
	sum.TotalTime = time.Since(start)
	reg.UpdateSystemMetrics()

	renderWalkSummary(cmd.OutOrStdout(), sum, job.Output == "-")
	return nil
}

// buildWalks runs corpus.Build, drawing a progress bar on a terminal.
func buildWalks(ctx context.Context, w *walk.Walker, opts corpus.Options, showProgress bool) ([][]uint64, error) {
	if !showProgress {
		return corpus.Build(ctx, w, opts)
	}
	return buildWithProgress(ctx, w, opts)
}

// streamWalks writes walks to the job's output as the iterator yields them.
func streamWalks(ctx context.Context, w *walk.Walker, opts corpus.Options, job *config.Job) (int, error) {
	it, err := corpus.NewIterator(w, opts)
	if err != nil {
		return 0, err
	}
	s, err := sink.Open(ctx, job.Output, job.SinkOptions())
	if err != nil {
		return 0, err
	}

	log := logging.OrNop(opts.Logger).With(logging.Component("stream"), logging.Path(job.Output))
	timer := logging.StartTimer(log, "streamed corpus")

	n := 0
	pass := 0
	for path := range it.All() {
		if err := s.Write(path); err != nil {
			s.Close()
			timer.EndError(err)
			return n, err
		}
		n++
		if opts.Metrics != nil {
			opts.Metrics.RecordWalks([][]uint64{path}, opts.PathLength)
		}
		if it.Pass() != pass {
			pass = it.Pass()
			if err := ctx.Err(); err != nil {
				s.Close()
				timer.EndError(err)
				return n, err
			}
			log.Debug("pass started", logging.Pass(pass))
		}
	}
	if err := s.Close(); err != nil {
		timer.EndError(err)
		return n, err
	}
	timer.End(logging.Walks(n))
	return n, nil
}

func serveMetrics(addr string, reg *metrics.Registry, log logging.Logger) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", reg.Handler())
	srv := &http.Server{
		Addr:              addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
	}
	go func() {
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("metrics server failed", logging.Error(err))
		}
	}()
	log.Info("serving metrics", logging.String("addr", addr))
	return srv
}

func shutdown(srv *http.Server, log logging.Logger) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Warn("metrics server shutdown", logging.Error(err))
	}
}

func isTerminal(cmd *cobra.Command) bool {
	f, ok := cmd.ErrOrStderr().(*os.File)
	return ok && isatty.IsTerminal(f.Fd())
}

func describeInput(job *config.Job) string {
	if job.PostgresURL != "" {
		return "postgres"
	}
	return job.Input
}
