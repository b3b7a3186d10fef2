package history

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"

	"kvload/internal/storage"
	"kvload/internal/tui/styles"
)

func columns() []table.Column {
	return []table.Column{
		{Title: "Time", Width: 20},
		{Title: "ID", Width: 36},
		{Title: "Workload", Width: 9},
		{Title: "Threads", Width: 7},
		{Title: "Reqs", Width: 10},
		{Title: "Req/s", Width: 9},
		{Title: "Avg ms", Width: 9},
	}
}

// Rows renders one table row per run. Runs with no successful requests
// show "-" for the derived columns.
func Rows(items []storage.HistoryItem) []table.Row {
	rows := make([]table.Row, len(items))
	for i, item := range items {
		rps, avg := "-", "-"
		if item.Report.HasData {
			rps = fmt.Sprintf("%d", item.Report.ThroughputPerSec)
			avg = fmt.Sprintf("%.3f", item.Report.AverageLatencyMs)
		}
		rows[i] = table.Row{
			item.Timestamp.Format(time.RFC822),
			item.ID,
			item.Config.Workload.String(),
			fmt.Sprintf("%d", item.Config.Threads),
			fmt.Sprintf("%d", item.Report.TotalRequests),
			rps,
			avg,
		}
	}
	return rows
}

// Render draws a static table of past runs.
func Render(items []storage.HistoryItem) string {
	if len(items) == 0 {
		return styles.Subtle.Render("No runs recorded yet.") + "\n"
	}

	t := table.New(
		table.WithColumns(columns()),
		table.WithRows(Rows(items)),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	// Nothing is focused in a static render.
	s.Selected = lipgloss.NewStyle()
	t.SetStyles(s)
	// Header plus its bottom border take two lines.
	t.SetHeight(len(items) + 2)

	return styles.Box.Render(t.View()) + "\n"
}
