package cmd

import (
	"context"
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/bnema/snookertab/internal/adapters/render/board"
	"github.com/bnema/snookertab/internal/application"
)

type watchTickMsg time.Time

type watchReloadedMsg struct {
	statuses []application.TableStatus
	symbol   string
	err      error
}

// watchModel is the live table board. The once-per-second tick only moves
// the displayed clock and elapsed times; it never touches engine state.
// Quitting the view stops the tick with it.
type watchModel struct {
	ctx      context.Context
	app      *app
	statuses []application.TableStatus
	symbol   string
	now      time.Time
	err      error
	clock    lipgloss.Style
	help     lipgloss.Style
}

func newWatchModel(ctx context.Context, app *app) watchModel {
	return watchModel{
		ctx:   ctx,
		app:   app,
		now:   app.now(),
		clock: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252")),
		help:  lipgloss.NewStyle().Faint(true),
	}
}

func watchTick() tea.Cmd {
	return tea.Tick(time.Second, func(t time.Time) tea.Msg {
		return watchTickMsg(t)
	})
}

func (m watchModel) reload() tea.Cmd {
	return func() tea.Msg {
		statuses, err := m.app.engine.TableStatuses(m.ctx)
		if err != nil {
			return watchReloadedMsg{err: err}
		}
		view, err := m.app.engine.History(m.ctx)
		if err != nil {
			return watchReloadedMsg{err: err}
		}
		return watchReloadedMsg{statuses: statuses, symbol: view.Symbol}
	}
}

func (m watchModel) Init() tea.Cmd {
	return tea.Batch(m.reload(), watchTick())
}

func (m watchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case watchTickMsg:
		m.now = time.Time(msg)
		return m, watchTick()
	case watchReloadedMsg:
		m.err = msg.err
		if msg.err == nil {
			m.statuses = msg.statuses
			m.symbol = msg.symbol
		}
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "esc", "ctrl+c":
			return m, tea.Quit
		case "r":
			return m, m.reload()
		}
	}
	return m, nil
}

func (m watchModel) View() string {
	if m.err != nil {
		return fmt.Sprintf("watch: %v\n", m.err)
	}

	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.clock.Render(m.now.Format("Mon 2 Jan 2006  3:04:05 PM")),
		"",
		board.BoardContent(m.statuses, board.RenderOptions{Now: m.now, Symbol: m.symbol}),
		"",
		m.help.Render("r reload, q quit"),
	)
}

func newWatchCmd(app *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Live view of the table board with running elapsed times",
		RunE: func(cmd *cobra.Command, _ []string) error {
			p := tea.NewProgram(newWatchModel(cmd.Context(), app), tea.WithContext(cmd.Context()))
			_, err := p.Run()
			return err
		},
	}
}
