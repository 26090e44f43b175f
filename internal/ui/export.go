package ui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/microbe-atlas/locus/internal/export"
	"github.com/microbe-atlas/locus/internal/portal"
)

type exportedMsg struct {
	path  string
	count int
	err   error
}

func exportCmd(path string, genes []portal.Gene, columns []string) tea.Cmd {
	return func() tea.Msg {
		err := export.WriteFile(path, genes, columns)
		return exportedMsg{path: path, count: len(genes), err: err}
	}
}

func formatExported(msg exportedMsg) string {
	return fmt.Sprintf("Exported %d genes to %s", msg.count, msg.path)
}
