// File: cmd/root.go
package cmd

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/xkilldash9x/botctl/internal/config"
	"github.com/xkilldash9x/botctl/internal/observability"
)

type contextKey string

const configKey contextKey = "config"

const defaultEnvFile = ".env"

// errReported marks errors that were already shown to the operator in the
// output region, so Execute does not print them a second time.
var errReported = errors.New("reported")

// flagBindings maps persistent flags to configuration keys.
var flagBindings = map[string]string{
	"base-url":   "api.base_url",
	"password":   "api.password",
	"timeout":    "api.timeout",
	"strip-html": "output.strip_html",
	"log-level":  "logger.level",
}

// NewRootCommand builds a fresh command tree. Each call returns independent
// flag state, so the interactive shell and tests can run commands repeatedly.
func NewRootCommand() *cobra.Command {
	var cfgFile, envFile string

	root := &cobra.Command{
		Use:           "botctl",
		Short:         "botctl drives the copy bot's admin API from the terminal.",
		Long:          "botctl sends the dashboard's actions to the copy bot's admin API, reading form fields from flags, a values file or a saved dashboard page.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			v := viper.New()
			config.SetDefaults(v)

			if err := initializeConfig(cmd, v, cfgFile, envFile); err != nil {
				return fmt.Errorf("failed to initialize configuration: %w", err)
			}

			cfg, err := config.NewConfigFromViper(v)
			if err != nil {
				observability.InitializeLogger(config.NewDefaultConfig().Logger)
				return fmt.Errorf("failed to load or validate config: %w", err)
			}

			observability.InitializeLogger(cfg.Logger)
			observability.GetLogger().Debug("Starting botctl", zap.String("version", Version), zap.String("base_url", cfg.API.BaseURL))

			cmd.SetContext(context.WithValue(cmd.Context(), configKey, cfg))
			return nil
		},
	}

	pf := root.PersistentFlags()
	pf.StringVarP(&cfgFile, "config", "c", "", "config file (default is ./config.yaml)")
	pf.StringVar(&envFile, "env-file", defaultEnvFile, "dotenv file read before the environment")
	pf.String("base-url", "", "bot API base URL")
	pf.String("password", "", "API password (prefer BOTCTL_API_PASSWORD)")
	pf.Duration("timeout", 0, "request timeout")
	pf.Bool("strip-html", false, "print only the text of HTML responses")
	pf.String("log-level", "", "log level (debug, info, warn, error)")

	root.SetVersionTemplate(`{{printf "%s\n" .Version}}`)

	root.AddCommand(newClickCommand())
	root.AddCommand(newActionsCommand())
	root.AddCommand(newShellCommand())
	root.AddCommand(newLogsCommand())
	root.AddCommand(newVersionCommand())
	return root
}

// Execute runs the command tree with the given arguments.
func Execute(ctx context.Context, args []string) error {
	return execute(ctx, NewRootCommand(), args, os.Stderr)
}

func execute(ctx context.Context, root *cobra.Command, args []string, stderr io.Writer) error {
	root.SetArgs(args)
	err := root.ExecuteContext(ctx)
	defer observability.Sync()

	if err == nil {
		return nil
	}
	if errors.Is(err, context.Canceled) {
		observability.GetLogger().Debug("Command cancelled.")
		return err
	}
	if !errors.Is(err, errReported) {
		fmt.Fprintln(stderr, "Error:", err)
	}
	observability.GetLogger().Debug("Command execution failed", zap.Error(err))
	return err
}

// initializeConfig reads the config file, the dotenv file and the environment,
// and binds the persistent flags.
func initializeConfig(cmd *cobra.Command, v *viper.Viper, cfgFile, envFile string) error {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			// The default file is optional; an explicit one is not.
			if !(errors.Is(err, fs.ErrNotExist) && envFile == defaultEnvFile) {
				return fmt.Errorf("error reading env file: %w", err)
			}
		}
	}

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
	} else {
		v.AddConfigPath(".")
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetEnvPrefix("BOTCTL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("error reading config file: %w", err)
		}
	}

	for name, key := range flagBindings {
		flag := cmd.Flags().Lookup(name)
		if flag == nil {
			flag = cmd.Root().PersistentFlags().Lookup(name)
		}
		if flag == nil {
			continue
		}
		if err := v.BindPFlag(key, flag); err != nil {
			return fmt.Errorf("failed to bind flag --%s: %w", name, err)
		}
	}
	return nil
}

// skipConfig replaces the root pre-run for commands that need no configuration.
func skipConfig(*cobra.Command, []string) error { return nil }

func configFromContext(ctx context.Context) (*config.Config, error) {
	cfg, ok := ctx.Value(configKey).(*config.Config)
	if !ok || cfg == nil {
		return nil, errors.New("configuration not loaded")
	}
	return cfg, nil
}
