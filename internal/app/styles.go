package app

import "github.com/charmbracelet/lipgloss"

var (
	paneStyle       = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1)
	selectionPane   = paneStyle.Copy().BorderForeground(lipgloss.Color("62"))
	resultsPane     = paneStyle.Copy().BorderForeground(lipgloss.Color("62"))
	focusedBorder   = lipgloss.Color("204")
	dropZoneStyle   = lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("240")).Padding(0, 1)
	dropActiveStyle = dropZoneStyle.Copy().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("42"))
	errorBanner     = lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(lipgloss.Color("196")).Foreground(lipgloss.Color("203")).Padding(0, 1)
	headerStyle     = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("230")).Background(lipgloss.Color("22"))
	titleStyle      = lipgloss.NewStyle().Bold(true)
	statusStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	busyStatus      = lipgloss.NewStyle().Foreground(lipgloss.Color("214"))
	mutedStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("244"))
	selectedStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true)
)
