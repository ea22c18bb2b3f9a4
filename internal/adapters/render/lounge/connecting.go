package lounge

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
)

// CountsFunc reports cohort sizes as snapshots arrive.
type CountsFunc func(viewers, workers int)

type countsMsg struct {
	viewers int
	workers int
}

type connectedMsg struct {
	err error
}

// connectingModel spins while presence channels are joined and shows the
// counts seen so far.
type connectingModel struct {
	spinner spinner.Model
	styles  styles
	query   tea.Cmd
	snap    Snapshot
	seen    bool
	err     error
	done    bool
}

func newConnectingModel(query tea.Cmd) connectingModel {
	s := newStyles()
	return connectingModel{
		spinner: spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(s.prompt)),
		styles:  s,
		query:   query,
	}
}

func (m connectingModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.query)
}

func (m connectingModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case countsMsg:
		m.snap.Viewers, m.snap.Workers = msg.viewers, msg.workers
		m.seen = true
		return m, nil
	case connectedMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	return m, nil
}

func (m connectingModel) View() string {
	if m.done {
		return ""
	}
	if !m.seen {
		return m.spinner.View() + " " + m.styles.hint.Render("Connecting to the lounge...")
	}
	return m.spinner.View() + " " + renderPresence(m.snap, m.styles)
}

// RunConnecting runs query behind a spinner on out. Counts passed to the
// query's CountsFunc replace the spinner label until the query returns.
func RunConnecting(ctx context.Context, out io.Writer, query func(context.Context, CountsFunc) error) error {
	var p *tea.Program
	run := func() tea.Msg {
		return connectedMsg{err: query(ctx, func(viewers, workers int) {
			p.Send(countsMsg{viewers: viewers, workers: workers})
		})}
	}

	p = tea.NewProgram(
		newConnectingModel(run),
		tea.WithInput(nil),
		tea.WithOutput(out),
		tea.WithContext(ctx),
	)

	final, err := p.Run()
	if err != nil {
		return fmt.Errorf("connect to lounge: %w", err)
	}

	result, ok := final.(connectingModel)
	if !ok {
		return fmt.Errorf("unexpected final connecting model type %T", final)
	}
	return result.err
}
