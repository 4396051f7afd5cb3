// File: cmd/actions.go
package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/xkilldash9x/botctl/internal/action"
)

func newActionsCommand() *cobra.Command {
	var page string

	cmd := &cobra.Command{
		Use:               "actions",
		Short:             "List the dashboard actions and the fields they read",
		Args:              cobra.NoArgs,
		PersistentPreRunE: skipConfig,
		RunE: func(cmd *cobra.Command, args []string) error {
			pages := action.Pages
			if page != "" {
				p, err := parsePage(page)
				if err != nil {
					return err
				}
				pages = []action.Page{p}
			}
			return printActions(cmd.OutOrStdout(), pages)
		},
	}

	cmd.Flags().StringVarP(&page, "page", "p", "", "only list one page ("+pageNames()+")")
	return cmd
}

func parsePage(name string) (action.Page, error) {
	for _, p := range action.Pages {
		if strings.EqualFold(string(p), name) {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown page %q, expected one of %s", name, pageNames())
}

func pageNames() string {
	names := make([]string, len(action.Pages))
	for i, p := range action.Pages {
		names[i] = string(p)
	}
	return strings.Join(names, ", ")
}

func printActions(w io.Writer, pages []action.Page) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, p := range pages {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "[%s]\n", p)
		for _, d := range action.ByPage(p) {
			fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\n", d.ID, d.Method, d.Path, describeInputs(d.Inputs()))
		}
	}
	return tw.Flush()
}

func describeInputs(in action.Inputs) string {
	parts := make([]string, 0, len(in.Values)+len(in.Checked))
	parts = append(parts, in.Values...)
	for _, name := range in.Checked {
		parts = append(parts, name+"[]")
	}
	if len(parts) == 0 {
		return "-"
	}
	return strings.Join(parts, ", ")
}
