// File: cmd/session.go
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"github.com/xkilldash9x/botctl/internal/action"
	"github.com/xkilldash9x/botctl/internal/apiclient"
	"github.com/xkilldash9x/botctl/internal/config"
	"github.com/xkilldash9x/botctl/internal/form"
	"github.com/xkilldash9x/botctl/internal/observability"
	"github.com/xkilldash9x/botctl/internal/output"
	"github.com/xkilldash9x/botctl/internal/router"
)

// sourceFlags are the field source flags shared by click and shell.
type sourceFlags struct {
	valuesFile string
	snapshot   string
	fields     []string
	checks     []string
}

func (f *sourceFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.valuesFile, "values", "", "YAML file with field values (default forms.values_file)")
	fs.StringVar(&f.snapshot, "snapshot", "", "saved dashboard page to read fields from (default forms.snapshot)")
	fs.StringArrayVarP(&f.fields, "field", "f", nil, "set a field, id=value (repeatable)")
	fs.StringArrayVar(&f.checks, "check", nil, "check a checkbox, name=value (repeatable)")
}

// session is the page a command works on: its editable fields, the layers
// below them, and a router bound to the terminal.
type session struct {
	values *form.Values
	layers form.Layered
	router *router.Router
	logger *zap.Logger
}

// newSession layers the field sources from highest to lowest precedence: flag
// and shell edits, the values file, the snapshot, then the configured password.
func newSession(cmd *cobra.Command, cfg *config.Config, flags sourceFlags) (*session, error) {
	logger := observability.GetLogger()

	values := form.NewValues()
	assignments, err := form.ParseAssignments(flags.fields)
	if err != nil {
		return nil, fmt.Errorf("--field: %w", err)
	}
	for _, a := range assignments {
		values.Set(a.Key, a.Value)
	}
	checks, err := form.ParseAssignments(flags.checks)
	if err != nil {
		return nil, fmt.Errorf("--check: %w", err)
	}
	for _, a := range checks {
		values.Check(a.Key, a.Value)
	}

	layers := form.Layered{values}

	valuesFile := firstNonEmpty(flags.valuesFile, cfg.Forms.ValuesFile)
	if valuesFile != "" {
		fromFile, err := form.LoadValuesFile(valuesFile)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded values file.", zap.String("path", valuesFile), zap.Int("fields", len(fromFile.IDs())))
		layers = append(layers, fromFile)
	}

	snapshot := firstNonEmpty(flags.snapshot, cfg.Forms.Snapshot)
	if snapshot != "" {
		doc, err := form.LoadDocument(snapshot)
		if err != nil {
			return nil, err
		}
		logger.Debug("Loaded dashboard snapshot.", zap.String("path", snapshot), zap.Int("fields", len(doc.IDs())))
		layers = append(layers, doc)
	}

	if cfg.API.Password != "" {
		defaults := form.NewValues()
		defaults.Set(action.FieldPassword, cfg.API.Password)
		layers = append(layers, defaults)
	}

	client, err := apiclient.New(cfg.API, logger)
	if err != nil {
		return nil, err
	}

	r := router.New(router.Options{
		Client:  client,
		Display: output.NewTerminal(cmd.OutOrStdout(), cfg.Output.StripHTML),
		Alerter: terminalAlerter(cmd.ErrOrStderr()),
		Fields:  layers,
		Logger:  logger,
	})

	return &session{values: values, layers: layers, router: r, logger: logger}, nil
}

func terminalAlerter(w io.Writer) router.Alerter {
	return router.AlerterFunc(func(message string) {
		fmt.Fprintf(w, "alert: %s\n", message)
	})
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
