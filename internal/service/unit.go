// Package service installs and drives the user-level systemd unit that keeps
// the bot process running.
package service

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Config is everything the unit file depends on. RunnerPath must already be
// resolved to an absolute path; Render performs no lookups.
type Config struct {
	Name       string // unit name, without the .service suffix
	ProjectDir string // working directory for the unit
	RunnerPath string // absolute path to the runner executable
	RunnerArgs string // arguments appended to the runner invocation
	UnitDir    string // directory the unit file is written to
}

// UnitPath returns the on-disk location of the unit file.
func (c Config) UnitPath() string {
	return filepath.Join(c.UnitDir, c.Name+".service")
}

// Render produces the unit file text. It is pure and deterministic: equal
// configs yield byte-identical output, which install relies on to detect
// no-op reinstalls.
func Render(cfg Config) string {
	execStart := cfg.RunnerPath
	if cfg.RunnerArgs != "" {
		execStart += " " + cfg.RunnerArgs
	}
	// The runner's own directory goes first on PATH so tools it shells out
	// to resolve against the same installation.
	searchPath := strings.Join([]string{
		filepath.Dir(cfg.RunnerPath),
		"/usr/local/bin",
		"/usr/bin",
		"/bin",
	}, ":")

	var b strings.Builder
	fmt.Fprintf(&b, "[Unit]\n")
	fmt.Fprintf(&b, "Description=%s (managed by forktend)\n", cfg.Name)
	fmt.Fprintf(&b, "After=network-online.target\n")
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "[Service]\n")
	fmt.Fprintf(&b, "Type=simple\n")
	fmt.Fprintf(&b, "WorkingDirectory=%s\n", cfg.ProjectDir)
	fmt.Fprintf(&b, "ExecStart=%s\n", execStart)
	fmt.Fprintf(&b, "Restart=always\n")
	fmt.Fprintf(&b, "RestartSec=10\n")
	fmt.Fprintf(&b, "StandardOutput=journal\n")
	fmt.Fprintf(&b, "StandardError=journal\n")
	fmt.Fprintf(&b, "Environment=PYTHONUNBUFFERED=1\n")
	fmt.Fprintf(&b, "Environment=PATH=%s\n", searchPath)
	fmt.Fprintf(&b, "\n")
	fmt.Fprintf(&b, "[Install]\n")
	fmt.Fprintf(&b, "WantedBy=default.target\n")
	return b.String()
}
