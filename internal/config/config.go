// Package config holds forktend's configuration, read from the environment.
// Every knob has a FORKTEND_-prefixed variable; nothing is persisted.
package config

import (
	"os"

	"github.com/spf13/viper"
)

// Fork configures the fork workflow: which remote is the upstream, which
// branch it publishes, and what the local main branch is called.
type Fork struct {
	UpstreamRemote string // remote name for the upstream repository
	UpstreamURL    string // URL used when the upstream remote must be added
	UpstreamBranch string // branch tracked on the upstream remote
	MainBranch     string // local branch mirroring upstream
	OriginRemote   string // remote the fork pushes to
}

// Service configures the user-level service installer.
type Service struct {
	Name       string // unit name, without the .service suffix
	Runner     string // package-manager executable that starts the bot
	RunnerPath string // optional absolute override; skips PATH lookup
	RunnerArgs string // arguments passed to the runner
	ProjectDir string // working directory for the unit
}

// Config is the full forktend configuration.
type Config struct {
	Fork          Fork
	Service       Service
	AssumeYes     bool // skip all confirmation prompts
	Notifications bool // desktop notification when a long operation finishes
}

// Load reads configuration from the environment, applying defaults.
func Load() *Config {
	v := viper.New()
	v.SetEnvPrefix("FORKTEND")
	v.AutomaticEnv()

	v.SetDefault("upstream_remote", "upstream")
	v.SetDefault("upstream_url", "")
	v.SetDefault("upstream_branch", "main")
	v.SetDefault("main_branch", "main")
	v.SetDefault("origin_remote", "origin")
	v.SetDefault("assume_yes", false)
	v.SetDefault("notify", false)
	v.SetDefault("service_name", "fork-bot")
	v.SetDefault("runner", "uv")
	v.SetDefault("runner_path", "")
	v.SetDefault("runner_args", "run bot")
	v.SetDefault("project_dir", "")

	cfg := &Config{
		Fork: Fork{
			UpstreamRemote: v.GetString("upstream_remote"),
			UpstreamURL:    v.GetString("upstream_url"),
			UpstreamBranch: v.GetString("upstream_branch"),
			MainBranch:     v.GetString("main_branch"),
			OriginRemote:   v.GetString("origin_remote"),
		},
		Service: Service{
			Name:       v.GetString("service_name"),
			Runner:     v.GetString("runner"),
			RunnerPath: v.GetString("runner_path"),
			RunnerArgs: v.GetString("runner_args"),
			ProjectDir: v.GetString("project_dir"),
		},
		AssumeYes:     v.GetBool("assume_yes"),
		Notifications: v.GetBool("notify"),
	}

	if cfg.Service.ProjectDir == "" {
		if wd, err := os.Getwd(); err == nil {
			cfg.Service.ProjectDir = wd
		}
	}

	return cfg
}
