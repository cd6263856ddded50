package main

import (
	"context"
	"fmt"
	"os"

	"github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/dd0wney/cluso-deepwalk/pkg/corpus"
	"github.com/dd0wney/cluso-deepwalk/pkg/walk"
)

type passMsg struct {
	done, total int
}

type finishedMsg struct {
	err error
}

// progressModel draws one bar for the passes of a corpus build.
type progressModel struct {
	bar      progress.Model
	done     int
	total    int
	finished bool
	err      error
	cancel   context.CancelFunc
}

func newProgressModel(total int, cancel context.CancelFunc) progressModel {
	return progressModel{
		bar:    progress.New(progress.WithDefaultGradient()),
		total:  total,
		cancel: cancel,
	}
}

func (m progressModel) Init() tea.Cmd {
	return nil
}

func (m progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			// The build stops after the pass in progress.
			m.cancel()
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.bar.Width = max(10, min(msg.Width-20, 80))
	case passMsg:
		m.done, m.total = msg.done, msg.total
	case finishedMsg:
		m.finished = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m progressModel) View() string {
	pct := 0.0
	if m.total > 0 {
		pct = float64(m.done) / float64(m.total)
	}
	return fmt.Sprintf("\n  %s  pass %d/%d\n", m.bar.ViewAs(pct), m.done, m.total)
}

// buildWithProgress runs corpus.Build on a goroutine and renders its passes
// on stderr until it finishes or the user quits.
func buildWithProgress(ctx context.Context, w *walk.Walker, opts corpus.Options) ([][]uint64, error) {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	p := tea.NewProgram(newProgressModel(opts.NumPaths, cancel), tea.WithOutput(os.Stderr))
	opts.OnPass = func(done, total int) {
		p.Send(passMsg{done: done, total: total})
	}

	var (
		walks    [][]uint64
		buildErr error
		done     = make(chan struct{})
	)
	go func() {
		defer close(done)
		walks, buildErr = corpus.Build(ctx, w, opts)
		p.Send(finishedMsg{err: buildErr})
	}()

	if _, err := p.Run(); err != nil {
		cancel()
		<-done
		return nil, err
	}
	<-done
	return walks, buildErr
}
