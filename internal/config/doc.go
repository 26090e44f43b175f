// Package config handles loading and parsing the locus configuration file.
//
// # Overview
//
// locus reads a small TOML file to discover the portal API, where to write its
// log, and a few tuning knobs for searching and for the genome browser view.
//
// # Configuration Discovery
//
// The Load function follows this resolution order:
//
//  1. If a path is explicitly provided, use it
//  2. Otherwise, use ~/.config/locus/config.toml (default)
//  3. If the config file doesn't exist, fall back to Default()
//  4. If the file exists but fields are missing, empty or non-positive, use defaults
//
// # Default Values
//
//   - API: http://127.0.0.1:8000
//   - Log directory: ~/.local/share/locus/logs (log file <log_dir>/locus.log)
//   - Log level: info
//   - Backend status poll: 5 seconds
//   - Search page size: 25
//   - Genomic Context page size: 1000 (one page per viewport)
//   - Viewer width fallback: 800 columns
//   - Navigation zoom level: "navigation"
//
// # TOML Format
//
//	api_url = "https://portal.example.org"
//	log_dir = "~/.local/share/locus/logs"
//	log_level = "debug"
//	poll_seconds = 5
//	page_size = 25
//	viewport_page_size = 1000
//	default_genome = "GCF_000005845.2"
//	default_locus = "NC_000913.3:1..20000"
//	viewer_width = 800
//	navigation_zoom = "navigation"
//
// All fields are optional. Tilde expansion is performed for log_dir.
//
// # Error Handling
//
// Load returns errors for path expansion failures, unreadable files (other
// than os.ErrNotExist) and TOML syntax errors. A missing file is not an error.
package config
