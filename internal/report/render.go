// Package report renders an owner's budget figures for the terminal.
package report

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/qx/budget_robot/internal/budget"
	"github.com/qx/budget_robot/internal/model"
)

const boxWidth = 44

var (
	colorBorder = lipgloss.Color("#575653")
	colorText   = lipgloss.Color("#FFFCF0")
	colorAccent = lipgloss.Color("#3AA99F")
	colorGreen  = lipgloss.Color("#879A39")
	colorRed    = lipgloss.Color("#D14D41")
	colorMuted  = lipgloss.Color("#6F6E69")

	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(colorText).
			Align(lipgloss.Center)

	boxStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(colorBorder).
			Width(boxWidth).
			Padding(0, 1)

	labelStyle = lipgloss.NewStyle().Foreground(colorMuted)
	valueStyle = lipgloss.NewStyle().Foreground(colorText)
	goodStyle  = lipgloss.NewStyle().Foreground(colorGreen)
	badStyle   = lipgloss.NewStyle().Foreground(colorRed)
	headStyle  = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
)

// Render draws the summary box followed by the given entries.
func Render(telegramID int64, s budget.Summary, entries []model.ExpenseEntry) string {
	var b strings.Builder

	b.WriteString(boxStyle.Align(lipgloss.Center).
		Render(titleStyle.Render(fmt.Sprintf("BUDGET  %d", telegramID))))
	b.WriteString("\n")

	remaining := goodStyle
	if s.RemainingBudget.IsNegative() {
		remaining = badStyle
	}
	rows := []string{
		row("Budget", valueStyle.Render(s.Budget.StringFixed(2))),
		row("Ends on", valueStyle.Render(s.LastDay.Format(model.DateLayout))),
		row("Spent", valueStyle.Render(s.TotalSpent.StringFixed(2))),
		row("Remaining", remaining.Render(s.RemainingBudget.StringFixed(2))),
		row("Days left", valueStyle.Render(fmt.Sprint(s.DaysRemaining))),
		row("Daily allowance", valueStyle.Render(s.DailyAllowance.StringFixed(2))),
		row("Spent today", valueStyle.Render(s.TodaySpent.StringFixed(2))),
		row("Available today", goodStyle.Render(s.AvailableToday.StringFixed(2))),
	}
	if s.Expired {
		rows = append(rows, badStyle.Render("Budget period is over"))
	}
	b.WriteString(boxStyle.Render(strings.Join(rows, "\n")))
	b.WriteString("\n")

	if len(entries) == 0 {
		b.WriteString(labelStyle.Render("  No expenses recorded."))
		b.WriteString("\n")
		return b.String()
	}

	lines := []string{headStyle.Render(fmt.Sprintf("%-10s  %-8s  %12s", "Date", "Time", "Amount"))}
	for _, e := range entries {
		lines = append(lines, valueStyle.Render(fmt.Sprintf("%-10s  %-8s  %12s",
			e.Date.Format(model.DateLayout),
			e.Time.Format(model.TimeLayout),
			e.Amount.StringFixed(2),
		)))
	}
	b.WriteString(boxStyle.Render(strings.Join(lines, "\n")))
	b.WriteString("\n")
	return b.String()
}

// RenderNoBudget is shown for owners that never saved a budget.
func RenderNoBudget(telegramID int64) string {
	return boxStyle.Render(labelStyle.Render(fmt.Sprintf("User %d has no budget yet.", telegramID))) + "\n"
}

func row(label, value string) string {
	return labelStyle.Render(fmt.Sprintf("%-18s", label)) + value
}
