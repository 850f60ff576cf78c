package main

import "charm.land/lipgloss/v2"

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#7BA1BB")).Bold(true)
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF"))
	okStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#16EC06"))
	warnStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF0026"))
	dimStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#666666"))
)

func field(label, value string) string {
	return labelStyle.Render(label) + " " + valueStyle.Render(value)
}
