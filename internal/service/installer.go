package service

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/user"
	"path/filepath"
	"strings"

	"github.com/zhubert/forktend/internal/config"
	"github.com/zhubert/forktend/internal/errors"
	"github.com/zhubert/forktend/internal/exec"
	"github.com/zhubert/forktend/internal/logger"
	"github.com/zhubert/forktend/internal/ui"
)

// Installer generates the unit file and drives the user systemd session.
type Installer struct {
	cfg      config.Service
	executor exec.Executor
	out      io.Writer

	unitDir string // override for tests; default ~/.config/systemd/user
}

// NewInstaller creates an Installer backed by real command execution.
func NewInstaller(cfg config.Service, out io.Writer) *Installer {
	return &Installer{cfg: cfg, executor: exec.NewOSExecutor(), out: out}
}

// NewInstallerWithExecutor creates an Installer with a custom executor and
// unit directory. Used by tests.
func NewInstallerWithExecutor(cfg config.Service, executor exec.Executor, out io.Writer, unitDir string) *Installer {
	return &Installer{cfg: cfg, executor: executor, out: out, unitDir: unitDir}
}

func (in *Installer) printf(format string, args ...interface{}) {
	fmt.Fprintf(in.out, format, args...)
}

func (in *Installer) warnf(format string, args ...interface{}) {
	fmt.Fprintf(in.out, ui.WarningStyle.Render("Warning:")+" "+format+"\n", args...)
}

// resolveUnitDir returns the per-user systemd unit directory.
func (in *Installer) resolveUnitDir() (string, error) {
	if in.unitDir != "" {
		return in.unitDir, nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", errors.E(errors.Op("service.UnitDir"), errors.KindIO, err)
	}
	return filepath.Join(home, ".config", "systemd", "user"), nil
}

// resolveRunner locates the runner executable: the configured override path
// when set, otherwise a PATH lookup.
func (in *Installer) resolveRunner() (string, error) {
	if in.cfg.RunnerPath != "" {
		if _, err := os.Stat(in.cfg.RunnerPath); err != nil {
			return "", errors.MissingDependency(in.cfg.RunnerPath)
		}
		return in.cfg.RunnerPath, nil
	}
	path, err := exec.LookPath(in.cfg.Runner)
	if err != nil {
		return "", errors.MissingDependency(in.cfg.Runner)
	}
	return path, nil
}

// ResolveConfig produces the fully resolved unit configuration Render needs.
func (in *Installer) ResolveConfig() (Config, error) {
	runnerPath, err := in.resolveRunner()
	if err != nil {
		return Config{}, err
	}
	unitDir, err := in.resolveUnitDir()
	if err != nil {
		return Config{}, err
	}
	return Config{
		Name:       in.cfg.Name,
		ProjectDir: in.cfg.ProjectDir,
		RunnerPath: runnerPath,
		RunnerArgs: in.cfg.RunnerArgs,
		UnitDir:    unitDir,
	}, nil
}

// systemctl runs a user-session systemctl command.
func (in *Installer) systemctl(ctx context.Context, args ...string) (string, error) {
	full := append([]string{"--user"}, args...)
	output, err := in.executor.CombinedOutput(ctx, "", "systemctl", full...)
	text := strings.TrimSpace(string(output))
	if err != nil {
		if text != "" {
			return text, fmt.Errorf("systemctl --user %s: %w: %s", strings.Join(args, " "), err, text)
		}
		return text, fmt.Errorf("systemctl --user %s: %w", strings.Join(args, " "), err)
	}
	return text, nil
}

// CheckAvailable verifies the user systemd session is reachable. A degraded
// session still counts as reachable; only a connection failure does not.
func (in *Installer) CheckAvailable(ctx context.Context) error {
	out, err := in.systemctl(ctx, "is-system-running")
	if err != nil && (out == "" || strings.Contains(out, "Failed to connect")) {
		return errors.SupervisorUnavailable(err)
	}
	return nil
}

// Install writes the rendered unit file and reloads the supervisor's unit
// cache. Re-running with unchanged configuration is a no-op: the file is not
// rewritten and no reload is issued.
func (in *Installer) Install(ctx context.Context) error {
	if err := in.CheckAvailable(ctx); err != nil {
		return err
	}
	cfg, err := in.ResolveConfig()
	if err != nil {
		return err
	}

	rendered := Render(cfg)
	unitPath := cfg.UnitPath()

	if existing, err := os.ReadFile(unitPath); err == nil && string(existing) == rendered {
		in.printf("%s is up to date\n", unitPath)
		return nil
	}

	if err := os.MkdirAll(cfg.UnitDir, 0755); err != nil {
		return errors.E(errors.Op("service.Install"), errors.KindIO, err)
	}
	if err := os.WriteFile(unitPath, []byte(rendered), 0644); err != nil {
		return errors.E(errors.Op("service.Install"), errors.KindIO, err)
	}
	logger.Info("wrote unit file %s", unitPath)
	in.printf("Installed %s\n", unitPath)

	if _, err := in.systemctl(ctx, "daemon-reload"); err != nil {
		return errors.E(errors.Op("service.Install"), errors.KindSupervisorUnavailable, err)
	}
	return nil
}

// Enable marks the unit to start with the user session.
func (in *Installer) Enable(ctx context.Context) error {
	if _, err := in.systemctl(ctx, "enable", in.cfg.Name); err != nil {
		return errors.E(errors.Op("service.Enable"), errors.KindInvalid, err)
	}
	in.printf("Enabled %s\n", in.cfg.Name)
	return nil
}

// Start starts the unit.
func (in *Installer) Start(ctx context.Context) error {
	if _, err := in.systemctl(ctx, "start", in.cfg.Name); err != nil {
		return errors.E(errors.Op("service.Start"), errors.KindInvalid, err)
	}
	in.printf("Started %s\n", in.cfg.Name)
	return nil
}

// Stop stops the unit. A unit that is not loaded or not running counts as
// stopped.
func (in *Installer) Stop(ctx context.Context) error {
	out, err := in.systemctl(ctx, "stop", in.cfg.Name)
	if err != nil && !isAbsentUnit(out) {
		return errors.E(errors.Op("service.Stop"), errors.KindInvalid, err)
	}
	in.printf("Stopped %s\n", in.cfg.Name)
	return nil
}

// Restart restarts (or starts) the unit.
func (in *Installer) Restart(ctx context.Context) error {
	if _, err := in.systemctl(ctx, "restart", in.cfg.Name); err != nil {
		return errors.E(errors.Op("service.Restart"), errors.KindInvalid, err)
	}
	in.printf("Restarted %s\n", in.cfg.Name)
	return nil
}

// Status prints the unit's status. systemctl status exits non-zero for a
// stopped unit; the output is still the answer.
func (in *Installer) Status(ctx context.Context) error {
	out, err := in.systemctl(ctx, "status", in.cfg.Name, "--no-pager")
	if out != "" {
		in.printf("%s\n", out)
		return nil
	}
	if err != nil {
		return errors.E(errors.Op("service.Status"), errors.KindInvalid, err)
	}
	return nil
}

// Logs prints recent journal entries for the unit.
func (in *Installer) Logs(ctx context.Context, lines int) error {
	output, err := in.executor.CombinedOutput(ctx, "", "journalctl",
		"--user", "-u", in.cfg.Name, "-n", fmt.Sprintf("%d", lines), "--no-pager")
	if err != nil {
		return errors.E(errors.Op("service.Logs"), errors.KindInvalid, err)
	}
	in.printf("%s\n", strings.TrimSpace(string(output)))
	return nil
}

// Disable removes the unit from session startup. An already-disabled or
// absent unit counts as success.
func (in *Installer) Disable(ctx context.Context) error {
	out, err := in.systemctl(ctx, "disable", in.cfg.Name)
	if err != nil && !isAbsentUnit(out) {
		return errors.E(errors.Op("service.Disable"), errors.KindInvalid, err)
	}
	in.printf("Disabled %s\n", in.cfg.Name)
	return nil
}

// Uninstall disables and stops the unit, removes the unit file, and reloads.
// Every teardown step tolerates prior absence.
func (in *Installer) Uninstall(ctx context.Context) error {
	if err := in.Disable(ctx); err != nil {
		in.warnf("%v", err)
	}
	if err := in.Stop(ctx); err != nil {
		in.warnf("%v", err)
	}

	unitDir, err := in.resolveUnitDir()
	if err != nil {
		return err
	}
	unitPath := filepath.Join(unitDir, in.cfg.Name+".service")
	if err := os.Remove(unitPath); err != nil && !os.IsNotExist(err) {
		return errors.E(errors.Op("service.Uninstall"), errors.KindIO, err)
	}
	in.printf("Removed %s\n", unitPath)

	if _, err := in.systemctl(ctx, "daemon-reload"); err != nil {
		return errors.E(errors.Op("service.Uninstall"), errors.KindSupervisorUnavailable, err)
	}
	return nil
}

// Up brings the service fully online: install, enable, restart, status.
// It stops at the first hard failure.
func (in *Installer) Up(ctx context.Context) error {
	steps := []struct {
		name string
		fn   func(context.Context) error
	}{
		{"install", in.Install},
		{"enable", in.Enable},
		{"restart", in.Restart},
		{"status", in.Status},
	}
	for _, step := range steps {
		if err := step.fn(ctx); err != nil {
			return errors.E(errors.Op("service.Up"), errors.GetKind(err), fmt.Sprintf("step %q failed", step.name), err)
		}
	}
	return nil
}

// Down takes the service offline: stop, disable, status. Best-effort: a
// failed stop does not block the disable.
func (in *Installer) Down(ctx context.Context) error {
	if err := in.Stop(ctx); err != nil {
		in.warnf("%v", err)
	}
	if err := in.Disable(ctx); err != nil {
		in.warnf("%v", err)
	}
	return in.Status(ctx)
}

// Linger enables session lingering so the unit keeps running after logout.
func (in *Installer) Linger(ctx context.Context) error {
	u, err := user.Current()
	if err != nil {
		return errors.E(errors.Op("service.Linger"), errors.KindIO, err)
	}
	if err := in.executor.Run(ctx, "", "loginctl", "enable-linger", u.Username); err != nil {
		return errors.E(errors.Op("service.Linger"), errors.KindInvalid, err)
	}
	in.printf("Lingering enabled for %s\n", u.Username)
	return nil
}

// isAbsentUnit recognizes systemctl's "nothing to do" answers during
// teardown.
func isAbsentUnit(output string) bool {
	return strings.Contains(output, "not loaded") ||
		strings.Contains(output, "does not exist") ||
		strings.Contains(output, "No such file")
}
