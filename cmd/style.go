package cmd

import (
	"os"

	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"
)

var (
	linkStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	mutedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
)

// styled reports whether stdout is an interactive terminal. Piped output
// stays plain so the link can be consumed by scripts.
func styled() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}

func styleLink(s string) string {
	if !styled() {
		return s
	}
	return linkStyle.Render(s)
}

func styleMuted(s string) string {
	if !styled() {
		return s
	}
	return mutedStyle.Render(s)
}
