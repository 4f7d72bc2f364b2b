package ui

import "github.com/charmbracelet/lipgloss"

var (
	// Help template styles, ANSI colours so any terminal theme renders them.
	TitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true).MarginBottom(1)
	UsageStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	DescStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	FlagStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("3"))

	// REPL styles.
	BannerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("6")).
			Bold(true).
			Border(lipgloss.DoubleBorder()).
			BorderForeground(lipgloss.Color("5")).
			Padding(0, 2)
	AnswerLabelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("2")).Bold(true)
	RuleStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	HintStyle        = lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Italic(true)
	ErrorStyle       = lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
)

// Rule is a horizontal separator of width cells.
func Rule(width int) string {
	r := make([]rune, width)
	for i := range r {
		r[i] = '─'
	}
	return RuleStyle.Render(string(r))
}
