package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gh-nvat/semver-gate/src/internal/runner"
	"github.com/gh-nvat/semver-gate/src/pkg/config"
	"github.com/gh-nvat/semver-gate/src/pkg/github"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

const ENV_PREFIX = "SEMVER_GATE"

var (
	Version   = "dev"
	BuildTime = "unknown"
)

// errExit carries a verdict exit code out of cobra without printing anything
type errExit struct {
	code int
}

func (e errExit) Error() string {
	return fmt.Sprintf("exit status %d", e.code)
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		var exit errExit
		if errors.As(err, &exit) {
			os.Exit(exit.code)
		}
		fmt.Fprintln(os.Stderr, "❌", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	cmd := &cobra.Command{
		Use:   "semver-gate",
		Short: "Detect breaking API changes in a Rust workspace pull request",
		Long: `semver-gate runs cargo-semver-checks and a set of diff-based checks over watched
source files, writes a markdown report when anything breaking is found, exports
BREAKING_CHANGES_DETECTED for later workflow steps and optionally comments on the PR.

Exit codes: 0 no breaking change, 1 breaking change or fatal error, 2 inconclusive.`,
		Version:       fmt.Sprintf("%s (built: %s)", Version, BuildTime),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return initConfig(v)
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			opts := optionsFromViper(v)
			setupLogging(v.GetBool("verbose"))

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			if timeout := v.GetDuration("timeout"); timeout > 0 {
				var cancel context.CancelFunc
				ctx, cancel = context.WithTimeout(ctx, timeout)
				defer cancel()
			}

			code, err := run(ctx, opts, v.GetBool("enable-tracing"))
			if err != nil {
				return err
			}
			if code != 0 {
				return errExit{code: code}
			}
			return nil
		},
	}

	flags := cmd.Flags()

	// Common flags
	flags.String("config", config.DEFAULT_CONFIG_PATH, "Path to the checks file, relative to --work-dir")
	flags.String("work-dir", "", "Repository root (default: current directory)")
	flags.String("base", "", "Base ref to compare against (default: $GITHUB_BASE_REF)")
	flags.String("head", "HEAD", "Head ref")
	flags.String("run-mode", runner.RUN_MODE_GITHUB, "Run mode: github or local")
	flags.String("report-path", runner.DEFAULT_REPORT_PATH, "Where the markdown report is written when breaking changes are found")
	flags.String("templates-path", "", "Directory with report.md.tmpl / check.md.tmpl overrides")
	flags.Bool("skip-install", false, "Do not install cargo-semver-checks when it is missing")
	flags.Bool("verbose", false, "Enable debug logging")
	flags.Duration("timeout", 0, "Bound the whole run (0 = no limit)")

	// Export flags
	flags.String("output-dir", "./output", "Directory for report.json and performance-report.json")
	flags.Bool("enable-export-report", false, "Write report.json into --output-dir")
	flags.Bool("enable-tracing", false, "Write performance-report.json into --output-dir")

	// GitHub mode flags
	flags.String("comment-via", github.COMMENT_VIA_GH, "How to post the PR comment: gh or api [github mode]")
	flags.Int("pr-number", 0, "Pull request number (default: from GITHUB_REF or the event payload) [github mode]")

	_ = v.BindPFlags(flags)

	return cmd
}

// initConfig layers flags over SEMVER_GATE_* env vars over an optional .semver-gate.yaml,
// looked up in --work-dir first and then in the current directory
func initConfig(v *viper.Viper) error {
	v.SetEnvPrefix(ENV_PREFIX)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	v.SetConfigName(".semver-gate")
	v.SetConfigType("yaml")
	if workDir := v.GetString("work-dir"); workDir != "" {
		v.AddConfigPath(workDir)
	}
	v.AddConfigPath(".")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("failed to read .semver-gate.yaml: %w", err)
		}
	}

	// GitHub Actions variables fill whatever was not set explicitly
	if v.GetString("base") == "" {
		v.Set("base", os.Getenv("GITHUB_BASE_REF"))
	}
	return nil
}

func optionsFromViper(v *viper.Viper) *runner.Options {
	return &runner.Options{
		RunMode:       v.GetString("run-mode"),
		ConfigPath:    v.GetString("config"),
		WorkDir:       v.GetString("work-dir"),
		BaseRef:       v.GetString("base"),
		HeadRef:       v.GetString("head"),
		ReportPath:    v.GetString("report-path"),
		TemplatesPath: v.GetString("templates-path"),
		SkipInstall:   v.GetBool("skip-install"),

		OutputDir:          v.GetString("output-dir"),
		EnableExportReport: v.GetBool("enable-export-report"),

		CommentVia:  v.GetString("comment-via"),
		GhPrNumber:  v.GetInt("pr-number"),
		GhRepo:      os.Getenv("GITHUB_REPOSITORY"),
		GhToken:     os.Getenv("GITHUB_TOKEN"),
		GhRef:       os.Getenv("GITHUB_REF"),
		GhEventPath: os.Getenv("GITHUB_EVENT_PATH"),
		GhEnvFile:   os.Getenv("GITHUB_ENV"),
	}
}

func setupLogging(verbose bool) {
	log.SetOutput(os.Stderr)
	log.SetFormatter(&log.TextFormatter{
		FullTimestamp:   true,
		TimestampFormat: time.RFC3339,
	})
	if verbose {
		log.SetLevel(log.DebugLevel)
	} else {
		log.SetLevel(log.WarnLevel)
	}
}
