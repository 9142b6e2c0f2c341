package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"profiledash/internal/config"
	"profiledash/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

var rootFlags struct {
	configPath string
	logLevel   string
	logFormat  string
	endpoint   string
	tokenFile  string
	timeout    string
}

// appConfig is the resolved configuration of the running command.
var appConfig *config.Config

var rootCmd = &cobra.Command{
	Use:   "profiledash",
	Short: "Profile dashboard for the learning platform GraphQL API",
	Long: `profiledash signs in to the learning platform, fetches your profile
(identity, recent projects, XP, audit totals, skills) and draws it as a
dashboard: an HTML page, a terminal table or an MCP tool result.

Settings come from ~/.config/profiledash/config.yaml (or --config), then
PROFILEDASH_* environment variables, then command-line flags.`,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&rootFlags.configPath, "config", "", "Config file (YAML or JSON); default $"+config.EnvConfig+" or the user config dir")
	pf.StringVar(&rootFlags.logLevel, "log-level", "", "Log level: debug, info, warn, error")
	pf.StringVar(&rootFlags.logFormat, "log-format", "", "Log format: text or json")
	pf.StringVar(&rootFlags.endpoint, "endpoint", "", "GraphQL endpoint URL")
	pf.StringVar(&rootFlags.tokenFile, "token-file", "", "Token file written by login")
	pf.StringVar(&rootFlags.timeout, "timeout", "", "Per-request timeout (e.g. 30s)")

	rootCmd.AddCommand(loginCmd)
	rootCmd.AddCommand(logoutCmd)
	rootCmd.AddCommand(dashboardCmd)
	rootCmd.AddCommand(renderCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(mcpCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.Version = version
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// loadConfig resolves defaults < file < environment < flags, validates the
// result and configures logging.
func loadConfig(cmd *cobra.Command, _ []string) error {
	path := rootFlags.configPath
	if path == "" {
		path = os.Getenv(config.EnvConfig)
	}
	cfg, err := config.LoadDefault(path)
	if err != nil {
		return err
	}
	cfg.ApplyEnv(os.LookupEnv)

	flags := cmd.Flags()
	if flags.Changed("log-level") {
		cfg.Log.Level = rootFlags.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Log.Format = rootFlags.logFormat
	}
	if flags.Changed("endpoint") {
		cfg.Endpoint = rootFlags.endpoint
	}
	if flags.Changed("token-file") {
		cfg.TokenFile = rootFlags.tokenFile
	}
	if flags.Changed("timeout") {
		cfg.Timeout = rootFlags.timeout
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration:\n%w", err)
	}
	level, _ := logging.ParseLevel(cfg.Log.Level)
	logging.Init(level, cfg.Log.Format, cmd.ErrOrStderr())

	appConfig = cfg
	return nil
}
