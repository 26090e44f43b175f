// Package prefs handles locus user preferences persistence.
// Preferences are stored in ~/.config/locus/prefs.toml.
package prefs

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"

	toml "github.com/pelletier/go-toml/v2"

	"github.com/microbe-atlas/locus/internal/export"
)

// Prefs holds user preferences for locus.
type Prefs struct {
	Theme     string   `toml:"theme"`
	Columns   []string `toml:"columns"`
	SortField string   `toml:"sort_field"`
	SortOrder string   `toml:"sort_order"`
}

const (
	defaultPrefsPath = "~/.config/locus/prefs.toml"
	defaultTheme     = "Nightfox"
	defaultSortField = "locus_tag"
	defaultSortOrder = "asc"
)

// AllColumns lists the search table columns in display order.
var AllColumns = export.Columns

// DefaultColumns are shown when no column selection was saved.
var DefaultColumns = []string{"locus_tag", "gene_name", "product", "seq_id", "start", "end"}

// DefaultPath returns the default preferences file path.
func DefaultPath() string {
	return defaultPrefsPath
}

// Default returns the preferences used before anything was saved.
func Default() Prefs {
	return Prefs{
		Theme:     defaultTheme,
		Columns:   slices.Clone(DefaultColumns),
		SortField: defaultSortField,
		SortOrder: defaultSortOrder,
	}
}

// Load reads preferences from the given path, falling back to defaults if missing.
func Load(path string) (Prefs, error) {
	resolved, err := resolvePath(path)
	if err != nil {
		return Default(), nil
	}

	prefs := Default()

	file, err := os.Open(resolved)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return prefs, nil
		}
		return prefs, nil // Graceful degradation
	}
	defer func() { _ = file.Close() }()

	bytes, err := io.ReadAll(file)
	if err != nil {
		return prefs, nil // Graceful degradation
	}

	if err := toml.Unmarshal(bytes, &prefs); err != nil {
		return Default(), nil // Graceful degradation
	}

	return normalize(prefs), nil
}

// Save writes preferences to the given path, creating directories as needed.
func Save(path string, p Prefs) error {
	resolved, err := resolvePath(path)
	if err != nil {
		return fmt.Errorf("resolve path: %w", err)
	}

	dir := filepath.Dir(resolved)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create prefs dir: %w", err)
	}

	bytes, err := toml.Marshal(normalize(p))
	if err != nil {
		return fmt.Errorf("marshal prefs: %w", err)
	}

	if err := os.WriteFile(resolved, bytes, 0o644); err != nil {
		return fmt.Errorf("write prefs: %w", err)
	}

	return nil
}

// ToggleColumn shows or hides a column, keeping AllColumns order. The last
// visible column cannot be hidden.
func (p Prefs) ToggleColumn(name string) Prefs {
	if !slices.Contains(AllColumns, name) {
		return p
	}
	visible := slices.Contains(p.Columns, name)
	if visible && len(p.Columns) == 1 {
		return p
	}
	next := make([]string, 0, len(AllColumns))
	for _, col := range AllColumns {
		on := slices.Contains(p.Columns, col)
		if col == name {
			on = !visible
		}
		if on {
			next = append(next, col)
		}
	}
	p.Columns = next
	return p
}

func normalize(p Prefs) Prefs {
	if strings.TrimSpace(p.Theme) == "" {
		p.Theme = defaultTheme
	}
	cols := make([]string, 0, len(p.Columns))
	for _, col := range AllColumns {
		if slices.Contains(p.Columns, col) {
			cols = append(cols, col)
		}
	}
	if len(cols) == 0 {
		cols = slices.Clone(DefaultColumns)
	}
	p.Columns = cols
	if strings.TrimSpace(p.SortField) == "" {
		p.SortField = defaultSortField
	}
	switch strings.ToLower(strings.TrimSpace(p.SortOrder)) {
	case "desc":
		p.SortOrder = "desc"
	default:
		p.SortOrder = defaultSortOrder
	}
	return p
}

func resolvePath(path string) (string, error) {
	if strings.TrimSpace(path) == "" {
		return expandPath(defaultPrefsPath)
	}
	return expandPath(path)
}

func expandPath(path string) (string, error) {
	trimmed := strings.TrimSpace(path)
	if trimmed == "" {
		return "", fmt.Errorf("path is empty")
	}
	if strings.HasPrefix(trimmed, "~") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("resolve home dir: %w", err)
		}
		trimmed = filepath.Join(home, strings.TrimPrefix(trimmed, "~"))
	}
	return filepath.Abs(trimmed)
}
