// File: cmd/click.go
package cmd

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/botctl/internal/action"
	"github.com/xkilldash9x/botctl/internal/router"
)

func newClickCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "click <action>",
		Short: "Trigger one dashboard action and print the response",
		Long: `Trigger one dashboard action and print the response.

Fields are read, in order of precedence, from --field/--check flags, the values
file, the dashboard snapshot and finally the configured password. Run
"botctl actions" to see every action and the fields it reads.`,
		Example: `  botctl click view-params -f view-exchange-name=binance
  botctl click add-multiple-symbols -f multi-symbol-exchange-name=binance -f "multi-symbols=BTC/USDT, ETH/USDT"
  botctl click symbol-db-view-symbol-db-sort-by-date --snapshot plugins.html --check symbol-db-view-symbol-db-exchanges-to-exclude=bybit`,
		Args:              cobra.ExactArgs(1),
		ValidArgsFunction: completeActions,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			s, err := newSession(cmd, cfg, flags)
			if err != nil {
				return err
			}
			return clickError(s.router.Click(cmd.Context(), router.Event{Action: args[0]}))
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

// clickError marks router errors as already reported: the router has shown
// them in the output region or raised an alert.
func clickError(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", errReported, err)
}

func completeActions(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	var out []string
	for _, d := range action.All() {
		if strings.HasPrefix(string(d.ID), toComplete) {
			out = append(out, fmt.Sprintf("%s\t%s %s", d.ID, d.Method, d.Path))
		}
	}
	return out, cobra.ShellCompDirectiveNoFileComp
}

func isUnknownAction(err error) bool {
	return errors.Is(err, router.ErrUnknownAction)
}
