// Package config loads a walk job from YAML, .env files and DEEPWALK_*
// environment variables, in increasing order of precedence.
package config

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"

	"github.com/dd0wney/cluso-deepwalk/pkg/corpus"
	"github.com/dd0wney/cluso-deepwalk/pkg/loader"
	"github.com/dd0wney/cluso-deepwalk/pkg/logging"
	"github.com/dd0wney/cluso-deepwalk/pkg/metrics"
	"github.com/dd0wney/cluso-deepwalk/pkg/parallel"
	"github.com/dd0wney/cluso-deepwalk/pkg/sink"
	"github.com/dd0wney/cluso-deepwalk/pkg/source"
	"github.com/dd0wney/cluso-deepwalk/pkg/validation"
)

// Job describes one load-and-walk run.
type Job struct {
	// Input is a file path, "-" for stdin or s3://bucket/key. It may be
	// empty when PostgresURL is set.
	Input  string `yaml:"input" validate:"omitempty,location"`
	Format string `yaml:"format" validate:"omitempty,graphformat"`

	Undirected   bool `yaml:"undirected"`
	Unchecked    bool `yaml:"unchecked"`
	ChunkSize    int  `yaml:"chunk_size" validate:"lte=10000000"`
	ParseWorkers int  `yaml:"parse_workers" validate:"lte=4096"`

	PostgresURL   string `yaml:"postgres_url"`
	PostgresQuery string `yaml:"postgres_query"`

	NumPaths   int     `yaml:"num_paths"`
	PathLength int     `yaml:"path_length"`
	Alpha      float64 `yaml:"alpha"`
	Workers    int     `yaml:"workers" validate:"lte=4096"`
	Seed       uint64  `yaml:"seed"`

	// Output is where walks go; empty means the corpus is only summarized.
	Output      string        `yaml:"output" validate:"omitempty,location"`
	SendTimeout time.Duration `yaml:"send_timeout"`
	// Stream writes walks to Output as they are generated on one goroutine
	// instead of building the corpus in memory first.
	Stream bool `yaml:"stream"`

	MetricsAddr string   `yaml:"metrics_addr" validate:"omitempty,hostname_port"`
	LogLevel    string   `yaml:"log_level"`
	S3          S3Config `yaml:"s3"`
}

// S3Config overrides the default AWS client settings
type S3Config struct {
	Region   string `yaml:"region"`
	Endpoint string `yaml:"endpoint" validate:"omitempty,url"`
}

// Default returns a job with the standard DeepWalk settings: 10 walks of
// length 40 per node without restarts, on one worker, over an undirected
// graph.
func Default() *Job {
	return &Job{
		Undirected: true,
		ChunkSize:  loader.DefaultChunkSize,
		NumPaths:   10,
		PathLength: 40,
		Alpha:      0,
		Workers:    1,
		Seed:       0,
		LogLevel:   "info",
	}
}

// Load builds a job from defaults, the YAML file at path (skipped when
// path is empty), any .env file in the working directory and the process
// environment. overrides run last, in order, before the job is validated.
func Load(path string, overrides ...func(*Job)) (*Job, error) {
	job := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", path, err)
		}
		if err := job.decodeYAML(data); err != nil {
			return nil, fmt.Errorf("failed to parse config %s: %w", path, err)
		}
	}

	if err := LoadDotEnv(); err != nil {
		return nil, err
	}
	job.ApplyEnv()
	for _, override := range overrides {
		override(job)
	}

	if err := job.Validate(); err != nil {
		return nil, err
	}
	return job, nil
}

// Parse decodes YAML over the defaults without consulting the environment.
// Unknown keys are rejected.
func Parse(data []byte) (*Job, error) {
	job := Default()
	if err := job.decodeYAML(data); err != nil {
		return nil, err
	}
	return job, nil
}

func (j *Job) decodeYAML(data []byte) error {
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(j); err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	return nil
}

// LoadDotEnv loads the given .env files, or ./.env when none are named.
// Variables already set in the environment win. A missing default file is
// not an error.
func LoadDotEnv(files ...string) error {
	if len(files) == 0 {
		if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to load .env: %w", err)
		}
		return nil
	}
	if err := godotenv.Load(files...); err != nil {
		return fmt.Errorf("failed to load env files: %w", err)
	}
	return nil
}

// LogLevels lists the accepted log_level values
var LogLevels = []string{"debug", "info", "warn", "error"}

// Validate checks formats and upper bounds through struct tags, then the
// ranges and the rules that span fields.
func (j *Job) Validate() error {
	if err := validation.Struct(j); err != nil {
		return err
	}

	return validation.NewConfigValidator("job").
		Positive("num_paths", j.NumPaths).
		Positive("path_length", j.PathLength).
		Probability("alpha", j.Alpha).
		Positive("workers", j.Workers).
		Positive("chunk_size", j.ChunkSize).
		NonNegative("parse_workers", j.ParseWorkers).
		NonNegativeDuration("send_timeout", j.SendTimeout).
		When(j.LogLevel != "", func(cv *validation.ConfigValidator) {
			cv.OneOf("log_level", j.LogLevel, LogLevels)
		}).
		When(j.PostgresURL == "", func(cv *validation.ConfigValidator) {
			cv.Required("input", j.Input)
		}).
		When(j.Unchecked, func(cv *validation.ConfigValidator) {
			cv.Custom("unchecked", func() error {
				f, err := j.GraphFormat()
				if err != nil {
					return err
				}
				if f != loader.FormatAdjList {
					return fmt.Errorf("only applies to %s input, not %s", loader.FormatAdjList, f)
				}
				return nil
			})
		}).
		When(j.Stream, func(cv *validation.ConfigValidator) {
			cv.Required("output", j.Output)
		}).
		Validate()
}

// GraphFormat returns the configured format, or the one implied by the
// input's extension.
func (j *Job) GraphFormat() (loader.Format, error) {
	if j.Format != "" {
		return loader.ParseFormat(j.Format)
	}
	return loader.FormatFromPath(j.Input)
}

// SourceOptions returns how inputs and outputs reach S3
func (j *Job) SourceOptions() source.Options {
	return source.Options{Region: j.S3.Region, Endpoint: j.S3.Endpoint}
}

// LoaderOptions maps the job onto loader options
func (j *Job) LoaderOptions(log logging.Logger, reg *metrics.Registry) loader.Options {
	return loader.Options{
		Undirected: j.Undirected,
		Unchecked:  j.Unchecked,
		ChunkSize:  j.ChunkSize,
		Workers:    validation.DefaultOrInt(j.ParseWorkers, parallel.DefaultWorkers()),
		Logger:     log,
		Metrics:    reg,
		Source:     j.SourceOptions(),
	}
}

// CorpusOptions maps the job onto corpus options
func (j *Job) CorpusOptions(log logging.Logger, reg *metrics.Registry) corpus.Options {
	return corpus.Options{
		NumPaths:   j.NumPaths,
		PathLength: j.PathLength,
		Alpha:      j.Alpha,
		Workers:    j.Workers,
		Seed:       j.Seed,
		Logger:     log,
		Metrics:    reg,
	}
}

// SinkOptions returns the settings for opening Output
func (j *Job) SinkOptions() sink.Options {
	return sink.Options{Source: j.SourceOptions(), SendTimeout: j.SendTimeout}
}
