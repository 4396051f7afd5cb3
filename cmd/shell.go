// File: cmd/shell.go
package cmd

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/xkilldash9x/botctl/internal/action"
	"github.com/xkilldash9x/botctl/internal/router"
)

const shellPrompt = "botctl > "

const shellHelp = `Commands:
  set <id> <value>         set a field (the value is the rest of the line)
  unset <id>               remove a field
  check <name> <value>     check a checkbox
  uncheck <name> <value>   uncheck a checkbox
  fields                   show the fields set in this session
  actions [page]           list actions and the fields they read
  <action>                 trigger an action, e.g. view-params
  help                     show this help
  exit | quit              leave the shell
`

func newShellCommand() *cobra.Command {
	var flags sourceFlags

	cmd := &cobra.Command{
		Use:   "shell",
		Short: "Interactive console that keeps form fields between clicks",
		Long: `Interactive console that keeps form fields between clicks.

The shell holds one page worth of fields. Set them once, then trigger as many
actions as needed; each click reads the fields as they are at that moment.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := configFromContext(cmd.Context())
			if err != nil {
				return err
			}
			s, err := newSession(cmd, cfg, flags)
			if err != nil {
				return err
			}
			return s.run(cmd.Context(), cmd.InOrStdin(), cmd.OutOrStdout(), cmd.ErrOrStderr())
		},
	}

	flags.register(cmd.Flags())
	return cmd
}

func (s *session) run(ctx context.Context, in io.Reader, out, errOut io.Writer) error {
	fmt.Fprintf(out, "botctl %s. Type \"help\" for commands.\n", Version)
	scanner := bufio.NewScanner(in)

	for {
		if ctx.Err() != nil {
			return nil
		}
		fmt.Fprint(out, shellPrompt)
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			continue
		}
		if line == "exit" || line == "quit" {
			break
		}
		s.exec(ctx, line, out, errOut)
	}

	if err := scanner.Err(); err != nil {
		return fmt.Errorf("error reading input: %w", err)
	}
	fmt.Fprintln(out, "Bye.")
	return nil
}

// exec runs one shell line. Errors are printed and never end the session.
func (s *session) exec(ctx context.Context, line string, out, errOut io.Writer) {
	command, rest := splitWord(line)

	switch command {
	case "help":
		fmt.Fprint(out, shellHelp)

	case "set":
		id, value := splitWord(rest)
		if id == "" {
			fmt.Fprintln(errOut, "usage: set <id> <value>")
			return
		}
		s.values.Set(id, value)

	case "unset":
		id, _ := splitWord(rest)
		if id == "" {
			fmt.Fprintln(errOut, "usage: unset <id>")
			return
		}
		s.values.Unset(id)

	case "check", "uncheck":
		name, value := splitWord(rest)
		if name == "" || value == "" {
			fmt.Fprintf(errOut, "usage: %s <name> <value>\n", command)
			return
		}
		// The first edit of a group starts from what the page currently shows.
		if _, ok := s.values.Group(name); !ok {
			s.values.SetChecked(name, s.layers.Checked(name))
		}
		if command == "check" {
			s.values.Check(name, value)
		} else {
			s.values.Uncheck(name, value)
		}

	case "fields":
		s.printFields(out)

	case "actions":
		pages := action.Pages
		if name, _ := splitWord(rest); name != "" {
			p, err := parsePage(name)
			if err != nil {
				fmt.Fprintln(errOut, err)
				return
			}
			pages = []action.Page{p}
		}
		if err := printActions(out, pages); err != nil {
			fmt.Fprintln(errOut, err)
		}

	default:
		if rest != "" {
			fmt.Fprintf(errOut, "%s takes no arguments; use set to fill fields first\n", command)
			return
		}
		// The router has already shown the outcome; the error only matters for the log.
		if err := s.router.Click(ctx, router.Event{Action: command}); err != nil && !isUnknownAction(err) {
			s.logger.Debug("Click failed.", zap.String("action", command), zap.Error(err))
		}
	}
}

func (s *session) printFields(out io.Writer) {
	ids := s.values.IDs()
	groups := s.values.Groups()
	if len(ids) == 0 && len(groups) == 0 {
		fmt.Fprintln(out, "(no fields set)")
		return
	}
	for _, id := range ids {
		v, _ := s.values.Value(id)
		if id == action.FieldPassword {
			v = "********"
		}
		fmt.Fprintf(out, "%s = %q\n", id, v)
	}
	for _, name := range groups {
		fmt.Fprintf(out, "%s[] = %s\n", name, strings.Join(s.values.Checked(name), ", "))
	}
}

// splitWord returns the first whitespace separated word of s and the rest with
// its leading whitespace removed.
func splitWord(s string) (string, string) {
	s = strings.TrimLeft(s, " \t")
	i := strings.IndexAny(s, " \t")
	if i < 0 {
		return s, ""
	}
	return s[:i], strings.TrimLeft(s[i:], " \t")
}
