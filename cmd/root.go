// Package cmd wires the forktend CLI: fork workflow commands at the top
// level, service installer commands under "service".
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/zhubert/forktend/internal/config"
	"github.com/zhubert/forktend/internal/errors"
	"github.com/zhubert/forktend/internal/exec"
	"github.com/zhubert/forktend/internal/fork"
	"github.com/zhubert/forktend/internal/git"
	"github.com/zhubert/forktend/internal/logger"
	"github.com/zhubert/forktend/internal/ui"
)

var (
	debugMode bool
	quietMode bool
	assumeYes bool

	version, commit, date = "dev", "none", "unknown"
)

// SetVersionInfo sets version information from ldflags
func SetVersionInfo(v, c, d string) {
	version, commit, date = v, c, d
}

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "forktend",
	Short: "Maintain a fork: sync with upstream, isolate private work, run the bot service",
	Long: `Forktend keeps a fork's main branch synchronized with its upstream
repository while private commits stay isolated on feature branches, and it
manages the user-level systemd service for the background bot process.

Configuration comes from FORKTEND_-prefixed environment variables; see
'forktend best-practice' for the recommended workflow.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	cobra.OnInitialize(initConfig)
	rootCmd.PersistentFlags().BoolVar(&debugMode, "debug", false, "Enable debug logging (to "+logger.DefaultLogPath+")")
	rootCmd.PersistentFlags().BoolVarP(&quietMode, "quiet", "q", false, "Reduce logging to info level only")
	rootCmd.PersistentFlags().BoolVarP(&assumeYes, "yes", "y", false, "Skip confirmation prompts")
}

func initConfig() {
	if quietMode {
		logger.SetDebug(false)
	} else if debugMode {
		logger.SetDebug(true)
	}
	cfg = config.Load()
	if assumeYes {
		cfg.AssumeYes = true
	}
}

// Execute runs the root command and returns the process exit code.
func Execute() int {
	rootCmd.Version = version
	rootCmd.SetVersionTemplate(versionTemplate())
	defer logger.Close()

	if err := rootCmd.Execute(); err != nil {
		return renderError(err)
	}
	return 0
}

func versionTemplate() string {
	if commit != "none" && commit != "" {
		return fmt.Sprintf("forktend %s\n  commit: %s\n  built:  %s\n", version, commit, date)
	}
	return fmt.Sprintf("forktend %s\n", version)
}

// renderError prints the one-line diagnosis (plus remediation hint, if any)
// to stderr. A user-declined confirmation is a clean exit, not an error.
func renderError(err error) int {
	if errors.Is(err, errors.KindUserAborted) {
		fmt.Println("Aborted.")
		return 0
	}
	fmt.Fprintln(os.Stderr, ui.ErrorStyle.Render("Error: ")+err.Error())
	if hint := errors.GetHint(err); hint != "" {
		fmt.Fprintln(os.Stderr, ui.HintStyle.Render("  hint: "+hint))
	}
	return 1
}

// newWorkflow builds the fork workflow for the current directory, verifying
// git is installed and the directory is a repository.
func newWorkflow() (*fork.Workflow, error) {
	if _, err := exec.LookPath("git"); err != nil {
		return nil, errors.MissingDependency("git")
	}

	repoPath, err := os.Getwd()
	if err != nil {
		return nil, errors.E(errors.Op("cmd.Workflow"), errors.KindIO, err)
	}

	svc := git.NewGitService()
	if !svc.IsRepo(rootCmd.Context(), repoPath) {
		return nil, errors.E(errors.Op("cmd.Workflow"), errors.KindInvalid,
			fmt.Sprintf("%s is not a git repository", repoPath))
	}

	return fork.New(svc, cfg.Fork, newPrompter(), os.Stdout, repoPath), nil
}

// newPrompter returns the confirmation prompter: interactive by default,
// auto-confirming under --yes / FORKTEND_ASSUME_YES.
func newPrompter() fork.Prompter {
	if cfg.AssumeYes {
		return fork.AutoConfirm{}
	}
	return huhPrompter{}
}

// stashHint reminds the user how to get auto-stashed changes back.
func stashHint(handle *fork.StashHandle) {
	if handle == nil {
		return
	}
	fmt.Println(ui.HintStyle.Render("Your changes are stashed; restore them with ") +
		ui.CommandStyle.Render("forktend stash-pop"))
}
