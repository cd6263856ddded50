// Command deepwalk loads a graph and writes a corpus of truncated random
// walks for skip-gram training.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	version = "0.1.0"
	commit  = "dev"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "deepwalk",
		Short: "Random-walk corpus builder for graph embeddings",
		Long: `deepwalk reads a graph (edge list, weighted edge list, adjacency list,
MatrixMarket or a PostgreSQL edge table), normalizes it and generates
num_paths truncated random walks per node. Walks are written one per line
to a file, an S3 object or a PUSH socket.

Settings come from --config (YAML), then .env and DEEPWALK_* variables,
then command-line flags.`,
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().String("config", "", "YAML job file")
	rootCmd.PersistentFlags().String("log-level", "", "Log level (debug, info, warn, error)")

	// Version command
	rootCmd.AddCommand(&cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "deepwalk v%s (%s)\n", version, commit)
		},
	})

	// Walk command
	walkCmd := &cobra.Command{
		Use:   "walk [input]",
		Short: "Load a graph and generate a walk corpus",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runWalk,
	}
	addGraphFlags(walkCmd)
	walkCmd.Flags().Int("num-paths", 0, "Walks started per node (passes)")
	walkCmd.Flags().Int("path-length", 0, "Maximum nodes per walk")
	walkCmd.Flags().Float64("alpha", 0, "Restart probability")
	walkCmd.Flags().Int("workers", 0, "Parallel walk workers")
	walkCmd.Flags().Uint64("seed", 0, "Random seed")
	walkCmd.Flags().StringP("output", "o", "", "Output: file, -, s3://bucket/key or tcp://host:port")
	walkCmd.Flags().Bool("stream", false, "Write walks as they are generated instead of building the corpus first")
	walkCmd.Flags().String("metrics-addr", "", "Serve Prometheus metrics on this address")
	walkCmd.Flags().Bool("no-progress", false, "Disable the progress bar")
	rootCmd.AddCommand(walkCmd)

	// Stats command
	statsCmd := &cobra.Command{
		Use:   "stats [input]",
		Short: "Load a graph and print its statistics",
		Args:  cobra.MaximumNArgs(1),
		RunE:  runStats,
	}
	addGraphFlags(statsCmd)
	rootCmd.AddCommand(statsCmd)

	return rootCmd
}

func addGraphFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("format", "f", "", "Input format (edgelist, weighted-edgelist, adjlist, mtx); guessed from the extension when empty")
	cmd.Flags().Bool("undirected", true, "Add reverse edges after loading")
	cmd.Flags().Bool("unchecked", false, "Take adjacency rows verbatim")
	cmd.Flags().Int("chunk-size", 0, "Adjacency lines per parse task")
	cmd.Flags().Int("parse-workers", 0, "Adjacency parse workers (0 = all CPUs)")
	cmd.Flags().String("postgres-url", "", "Read edges from PostgreSQL instead of a file")
	cmd.Flags().String("postgres-query", "", "Edge query returning (src, dst) bigint pairs")
}
