package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/forktend/internal/service"
)

var logLines int

var serviceCmd = &cobra.Command{
	Use:   "service",
	Short: "Manage the user-level systemd service for the bot",
	Long: `Generates a systemd user unit for the bot process and drives it through
systemctl --user. The service name and runner are configured via
FORKTEND_SERVICE_NAME and FORKTEND_RUNNER (override path: FORKTEND_RUNNER_PATH).`,
}

var serviceUpCmd = &cobra.Command{
	Use:   "up",
	Short: "Install, enable, restart, and show status",
	RunE:  serviceRun((*service.Installer).Up),
}

var serviceInstallCmd = &cobra.Command{
	Use:   "install",
	Short: "Write the unit file and reload the supervisor",
	RunE:  serviceRun((*service.Installer).Install),
}

var serviceStartCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the service",
	RunE:  serviceRun((*service.Installer).Start),
}

var serviceStopCmd = &cobra.Command{
	Use:   "stop",
	Short: "Stop the service",
	RunE:  serviceRun((*service.Installer).Stop),
}

var serviceRestartCmd = &cobra.Command{
	Use:   "restart",
	Short: "Restart the service",
	RunE:  serviceRun((*service.Installer).Restart),
}

var serviceStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the service status",
	RunE:  serviceRun((*service.Installer).Status),
}

var serviceLogsCmd = &cobra.Command{
	Use:   "logs",
	Short: "Show recent service logs from the journal",
	RunE: func(cmd *cobra.Command, args []string) error {
		return newInstaller().Logs(cmd.Context(), logLines)
	},
}

var serviceDownCmd = &cobra.Command{
	Use:   "down",
	Short: "Stop and disable the service",
	RunE:  serviceRun((*service.Installer).Down),
}

var serviceUninstallCmd = &cobra.Command{
	Use:   "uninstall",
	Short: "Disable, stop, and remove the unit file",
	RunE:  serviceRun((*service.Installer).Uninstall),
}

var servicePrintCmd = &cobra.Command{
	Use:   "print",
	Short: "Print the unit file that install would write",
	RunE: func(cmd *cobra.Command, args []string) error {
		resolved, err := newInstaller().ResolveConfig()
		if err != nil {
			return err
		}
		fmt.Print(service.Render(resolved))
		return nil
	},
}

var serviceLingerCmd = &cobra.Command{
	Use:   "linger",
	Short: "Enable lingering so the service survives logout",
	RunE:  serviceRun((*service.Installer).Linger),
}

func init() {
	serviceLogsCmd.Flags().IntVarP(&logLines, "lines", "n", 100, "Number of journal lines to show")

	serviceCmd.AddCommand(serviceUpCmd)
	serviceCmd.AddCommand(serviceInstallCmd)
	serviceCmd.AddCommand(serviceStartCmd)
	serviceCmd.AddCommand(serviceStopCmd)
	serviceCmd.AddCommand(serviceRestartCmd)
	serviceCmd.AddCommand(serviceStatusCmd)
	serviceCmd.AddCommand(serviceLogsCmd)
	serviceCmd.AddCommand(serviceDownCmd)
	serviceCmd.AddCommand(serviceUninstallCmd)
	serviceCmd.AddCommand(servicePrintCmd)
	serviceCmd.AddCommand(serviceLingerCmd)
	rootCmd.AddCommand(serviceCmd)
}

func newInstaller() *service.Installer {
	return service.NewInstaller(cfg.Service, os.Stdout)
}

// serviceRun adapts an Installer method into a cobra RunE.
func serviceRun(fn func(*service.Installer, context.Context) error) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		return fn(newInstaller(), cmd.Context())
	}
}
