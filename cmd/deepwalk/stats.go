package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-deepwalk/pkg/metrics"
)

func runStats(cmd *cobra.Command, args []string) error {
	job, err := loadJob(cmd, args)
	if err != nil {
		return err
	}

	log := newLogger(cmd, job)
	g, err := loadGraph(cmd.Context(), job, log, metrics.NewRegistry())
	if err != nil {
		return err
	}

	fmt.Fprintln(cmd.OutOrStdout(), renderTable(describeInput(job), graphRows(g.Stats())))
	return nil
}
