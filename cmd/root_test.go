package cmd

import (
	stderrors "errors"
	"testing"

	"github.com/zhubert/forktend/internal/errors"
)

func TestDebugFlagDefaultFalse(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("debug")
	if flag == nil {
		t.Fatal("--debug flag not found")
	}
	if flag.DefValue != "false" {
		t.Errorf("--debug default = %q, want %q", flag.DefValue, "false")
	}
}

func TestQuietFlagExists(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("quiet")
	if flag == nil {
		t.Fatal("--quiet flag not found")
	}
	if flag.Shorthand != "q" {
		t.Errorf("--quiet shorthand = %q, want %q", flag.Shorthand, "q")
	}
}

func TestYesFlagExists(t *testing.T) {
	flag := rootCmd.PersistentFlags().Lookup("yes")
	if flag == nil {
		t.Fatal("--yes flag not found")
	}
	if flag.Shorthand != "y" {
		t.Errorf("--yes shorthand = %q, want %q", flag.Shorthand, "y")
	}
}

func TestInitConfig_YesFlagSetsAssumeYes(t *testing.T) {
	origYes := assumeYes
	defer func() { assumeYes = origYes }()

	assumeYes = true
	initConfig()
	if !cfg.AssumeYes {
		t.Error("--yes should set AssumeYes")
	}
}

func TestRenderError_UserAbortedIsCleanExit(t *testing.T) {
	if code := renderError(errors.UserAborted()); code != 0 {
		t.Errorf("user abort exit code = %d, want 0", code)
	}
}

func TestRenderError_FailuresExitNonZero(t *testing.T) {
	if code := renderError(errors.DivergedMain("main", 2)); code != 1 {
		t.Errorf("diverged main exit code = %d, want 1", code)
	}
	if code := renderError(stderrors.New("plain failure")); code != 1 {
		t.Errorf("plain error exit code = %d, want 1", code)
	}
}

func TestCommandsRegistered(t *testing.T) {
	want := []string{
		"menu", "status", "new-feature", "sync", "sync-main", "repair-main",
		"sync-branch", "sync-continue", "sync-abort", "stash-pop",
		"best-practice", "service",
	}
	have := make(map[string]bool)
	for _, c := range rootCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("command %q not registered", name)
		}
	}
}

func TestServiceSubcommandsRegistered(t *testing.T) {
	want := []string{
		"up", "install", "start", "stop", "restart", "status",
		"logs", "down", "uninstall", "print", "linger",
	}
	have := make(map[string]bool)
	for _, c := range serviceCmd.Commands() {
		have[c.Name()] = true
	}
	for _, name := range want {
		if !have[name] {
			t.Errorf("service subcommand %q not registered", name)
		}
	}
}
