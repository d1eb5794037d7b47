package board

import (
	"fmt"
	"time"

	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/snookertab/internal/application"
	"github.com/bnema/snookertab/internal/domain"
)

type RenderOptions struct {
	Now    time.Time
	Symbol string
}

func boardView(statuses []application.TableStatus, opts RenderOptions, s styles) string {
	lines := []string{
		s.title.Render("Snooker Tables"),
		s.header.Render(fmt.Sprintf("occupied: %d/%d", occupiedCount(statuses), len(statuses))),
	}

	for _, status := range statuses {
		lines = append(lines, tableLine(status, opts, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func occupiedCount(statuses []application.TableStatus) int {
	n := 0
	for _, status := range statuses {
		if status.Occupied {
			n++
		}
	}
	return n
}

func tableLine(status application.TableStatus, opts RenderOptions, s styles) string {
	label := s.table.Render(fmt.Sprintf("Table %s", status.Table))
	if !status.Occupied {
		return lipgloss.JoinHorizontal(lipgloss.Top, label, "  ", s.idle.Render("idle"))
	}

	elapsed := status.Elapsed
	if !opts.Now.IsZero() {
		elapsed = opts.Now.Sub(status.StartedAt)
	}

	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		label,
		"  ",
		s.occupied.Render(domain.FormatElapsed(elapsed)),
		"  ",
		s.detail.Render(fmt.Sprintf("since %s", domain.FormatClock(status.StartedAt))),
		"  ",
		s.notice.Render(fmt.Sprintf("@%.2f/min", status.Rate)),
		"  ",
		s.amount.Render(fmt.Sprintf("%s%.2f", opts.Symbol, status.RunningAmount)),
	)
}

func historyView(view application.HistoryView, s styles) string {
	lines := []string{
		s.title.Render("Match History"),
		s.header.Render(fmt.Sprintf("matches: %d", len(view.Matches))),
	}

	if len(view.Matches) == 0 {
		lines = append(lines, s.empty.Render("No matches recorded yet."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, match := range view.Matches {
		lines = append(lines, matchLine(match, view.Symbol, s))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func matchLine(match domain.Match, symbol string, s styles) string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		s.serial.Render(fmt.Sprintf("#%03d", match.Serial)),
		"  ",
		s.table.Render(fmt.Sprintf("Table %s", match.Table)),
		"  ",
		s.detail.Render(fmt.Sprintf("%s  %s to %s",
			match.StartTime.Format("2006-01-02"),
			domain.FormatClock(match.StartTime),
			domain.FormatClock(match.EndTime),
		)),
		"  ",
		s.detail.Render(fmt.Sprintf("%d min", match.Duration)),
		"  ",
		s.notice.Render(fmt.Sprintf("@%.2f", match.Rate)),
		"  ",
		s.amount.Render(fmt.Sprintf("%s%.2f", symbol, match.Amount)),
	)
}

func summaryView(summary application.Summary, s styles) string {
	lines := []string{
		s.title.Render("Total Summary"),
		s.detail.Render(fmt.Sprintf("Matches:       %d", summary.Matches)),
		s.detail.Render(fmt.Sprintf("Total minutes: %d", summary.TotalMinutes)),
		s.amount.Render(fmt.Sprintf("Total amount:  %s%.2f", summary.Symbol, summary.TotalAmount)),
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

// BoardContent renders the table board without running a program, for
// callers that already own a bubbletea loop (the live watch view).
func BoardContent(statuses []application.TableStatus, opts RenderOptions) string {
	return boardView(statuses, opts, newStyles())
}
