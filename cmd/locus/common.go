package main

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/microbe-atlas/locus/internal/config"
	"github.com/microbe-atlas/locus/internal/export"
	"github.com/microbe-atlas/locus/internal/logging"
	"github.com/microbe-atlas/locus/internal/portal"
	"github.com/microbe-atlas/locus/internal/prefs"
)

// session is what a headless subcommand needs: config, preferences and a
// portal client.
type session struct {
	cfg    config.Config
	prefs  prefs.Prefs
	client portal.GeneSearcher
	close  func() error
}

const requestTimeout = 30 * time.Second

// newClient is swapped in tests to point at an httptest server.
var newClient = func(apiURL string) (portal.GeneSearcher, error) {
	return portal.NewClient(apiURL)
}

func openSession(opts *rootOptions) (*session, error) {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}
	closeLog, err := logging.Setup(logging.Options{Path: cfg.LogPath(), Level: cfg.LogLevel, Console: true})
	if err != nil {
		return nil, fmt.Errorf("init logging: %w", err)
	}
	p, err := prefs.Load(opts.prefsPath)
	if err != nil {
		logging.Component("cli").Warn("load preferences failed; using defaults", "error", err)
	}
	client, err := newClient(cfg.APIURL)
	if err != nil {
		_ = closeLog()
		return nil, fmt.Errorf("init portal client: %w", err)
	}
	return &session{cfg: cfg, prefs: p, client: client, close: closeLog}, nil
}

// writeGenes prints genes as a table on out, or as TSV to tsvPath when set.
// A tsvPath of "-" writes TSV to out.
func writeGenes(ctx context.Context, out io.Writer, genes []portal.Gene, columns []string, tsvPath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	switch strings.TrimSpace(tsvPath) {
	case "":
		_, err := fmt.Fprintln(out, renderTable(genes, columns))
		return err
	case "-":
		return export.WriteTSV(out, genes, columns)
	default:
		if err := export.WriteFile(tsvPath, genes, columns); err != nil {
			return err
		}
		_, err := fmt.Fprintf(out, "wrote %d genes to %s\n", len(genes), tsvPath)
		return err
	}
}

func renderTable(genes []portal.Gene, columns []string) string {
	if len(columns) == 0 {
		columns = prefs.DefaultColumns
	}
	headers := make([]string, len(columns))
	for i, c := range columns {
		headers[i] = export.Header(c)
	}
	rows := make([][]string, 0, len(genes))
	for _, g := range genes {
		row := make([]string, len(columns))
		for i, c := range columns {
			row[i] = export.Value(g, c)
		}
		rows = append(rows, row)
	}

	headerStyle := lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Padding(0, 1)
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("#71839b"))).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, _ int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle
			}
			return cellStyle
		}).
		String()
}

func closeSession(s *session) {
	if s != nil && s.close != nil {
		_ = s.close()
	}
}
