package main

import "github.com/charmbracelet/lipgloss"

type styles struct {
	offset   lipgloss.Style
	bytes    lipgloss.Style
	mnemonic lipgloss.Style
	operand  lipgloss.Style
	comment  lipgloss.Style
	err      lipgloss.Style
}

// ANSI Color reference
// 1	Red
// 3	Yellow
// 6	Cyan
// 7	White
// 8	Bright Black (Gray)

func newStyles() styles {
	return styles{
		offset:   lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		bytes:    lipgloss.NewStyle(),
		mnemonic: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		operand:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		comment:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(8)),
		err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
	}
}

// plainStyles don't style anything.
func plainStyles() styles {
	s := lipgloss.NewStyle()
	return styles{offset: s, bytes: s, mnemonic: s, operand: s, comment: s, err: s}
}
