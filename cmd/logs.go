// File: cmd/logs.go
package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/botctl/internal/botlog"
	"github.com/xkilldash9x/botctl/internal/observability"
)

func newLogsCommand() *cobra.Command {
	var (
		path      string
		level     string
		fromStart bool
		poll      bool
	)

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Follow the bot's log file",
		Long: `Follow the bot's log file until interrupted.

Multi-line entries such as tracebacks are printed as one entry. --level hides
entries below the given bot level (` + strings.Join(botlog.Levels, ", ") + `).`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}

			logCfg := cfg.BotLog
			if path != "" {
				logCfg.Path = path
			}
			if cmd.Flags().Changed("from-start") {
				logCfg.FromStart = fromStart
			}
			if cmd.Flags().Changed("poll") {
				logCfg.Poll = poll
			}

			follower, err := botlog.NewFollower(logCfg, observability.GetLogger())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			return follower.Follow(cmd.Context(), level, func(e botlog.Entry) {
				if e.Level == "" {
					fmt.Fprintln(out, e.Message)
					return
				}
				fmt.Fprintln(out, e.String())
			})
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "bot log file (default bot_log.path)")
	cmd.Flags().StringVarP(&level, "level", "l", "", "minimum bot log level to show")
	cmd.Flags().BoolVar(&fromStart, "from-start", false, "print the existing contents before following")
	cmd.Flags().BoolVar(&poll, "poll", false, "poll for changes instead of using file notifications")
	return cmd
}
