// Package config provides configuration structures and utilities for
// colorcarbon: CLI-level options, the .colorcarbon site file with per-host
// cookies and headers, and XDG directory lookup.
package config
