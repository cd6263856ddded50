package main

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/dd0wney/cluso-deepwalk/pkg/config"
	"github.com/dd0wney/cluso-deepwalk/pkg/graph"
)

// Styles
var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FF00FF"))

	labelStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#00FFFF"))

	statsBoxStyle = lipgloss.NewStyle().
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#00FF00")).
			Padding(1, 2)
)

type summary struct {
	RunID       string
	Input       string
	Stats       graph.Stats
	Job         *config.Job
	Walks       int
	Vocabulary  int
	Fingerprint string
	LoadTime    time.Duration
	TotalTime   time.Duration
}

type row struct {
	label, value string
}

func renderTable(title string, rows []row) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(labelStyle.Render(fmt.Sprintf("%-*s", width, r.label)))
		b.WriteString("  ")
		b.WriteString(r.value)
	}
	return statsBoxStyle.Render(b.String())
}

func graphRows(s graph.Stats) []row {
	return []row{
		{"nodes", fmt.Sprint(s.Nodes)},
		{"edges", fmt.Sprint(s.Edges)},
		{"degree", fmt.Sprintf("min %d / mean %.2f / max %d", s.MinDegree, s.MeanDegree, s.MaxDegree)},
		{"isolated", fmt.Sprint(s.Isolated)},
		{"self loops", fmt.Sprint(s.SelfLoops)},
		{"weighted", fmt.Sprint(s.Weighted)},
	}
}

// renderWalkSummary prints the run summary. When the corpus itself went to
// stdout the summary is skipped so the output stays a clean corpus.
func renderWalkSummary(w io.Writer, s summary, corpusOnStdout bool) {
	if corpusOnStdout {
		return
	}

	rows := []row{{"run", s.RunID}, {"input", s.Input}}
	rows = append(rows, graphRows(s.Stats)...)
	rows = append(rows,
		row{"walks", fmt.Sprintf("%d (%d passes x %d nodes)", s.Walks, s.Job.NumPaths, s.Stats.Nodes)},
		row{"path length", fmt.Sprint(s.Job.PathLength)},
		row{"alpha", fmt.Sprint(s.Job.Alpha)},
		row{"workers", fmt.Sprint(s.Job.Workers)},
		row{"seed", fmt.Sprint(s.Job.Seed)},
	)
	if s.Fingerprint != "" {
		rows = append(rows,
			row{"vocabulary", fmt.Sprint(s.Vocabulary)},
			row{"fingerprint", s.Fingerprint[:16]},
		)
	}
	if s.Job.Output != "" {
		rows = append(rows, row{"output", s.Job.Output})
	}
	rows = append(rows,
		row{"load time", s.LoadTime.Round(time.Millisecond).String()},
		row{"total time", s.TotalTime.Round(time.Millisecond).String()},
	)

	fmt.Fprintln(w, renderTable("deepwalk corpus", rows))
}
