// Package router dispatches dashboard clicks: it resolves the action, builds the
// request from the page's fields, sends it and shows the outcome in the output
// region.
package router

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/xkilldash9x/botctl/internal/action"
	"github.com/xkilldash9x/botctl/internal/output"
)

// UnknownActionMessage is the alert raised for an unrecognized action.
const UnknownActionMessage = "Unknown action!"

// ErrUnknownAction is returned by Click when the event names no known action.
var ErrUnknownAction = errors.New("unknown action")

// Event is a click on a control carrying an action identifier.
type Event struct {
	Action string
}

// Client sends one request and returns the content to display.
type Client interface {
	Send(ctx context.Context, method, path string, body []byte) (output.Content, error)
}

// Alerter shows a modal notification to the operator.
type Alerter interface {
	Alert(message string)
}

// AlerterFunc adapts a function to the Alerter interface.
type AlerterFunc func(message string)

func (f AlerterFunc) Alert(message string) { f(message) }

// PasswordSource is the handle of the password field.
type PasswordSource interface {
	Password() string
}

// StaticPassword is a fixed password handle.
type StaticPassword string

func (p StaticPassword) Password() string { return string(p) }

// FieldPassword reads the password from a field of a Fields source, the way the
// dashboard reads its password input.
type FieldPassword struct {
	Fields action.Fields
	ID     string
}

func (p FieldPassword) Password() string {
	if p.Fields == nil {
		return ""
	}
	id := p.ID
	if id == "" {
		id = action.FieldPassword
	}
	v, _ := p.Fields.Value(id)
	return v
}

// Options are the explicit handles a Router works with.
type Options struct {
	Client   Client
	Display  output.Display
	Alerter  Alerter
	Fields   action.Fields
	Password PasswordSource
	Logger   *zap.Logger
}

// Router turns events into API requests.
type Router struct {
	client   Client
	display  output.Display
	alerter  Alerter
	fields   action.Fields
	password PasswordSource
	logger   *zap.Logger
}

// New builds a Router. Client and Display are required.
func New(opts Options) *Router {
	if opts.Client == nil {
		panic("router: Options.Client is required")
	}
	if opts.Display == nil {
		panic("router: Options.Display is required")
	}
	r := &Router{
		client:   opts.Client,
		display:  opts.Display,
		alerter:  opts.Alerter,
		fields:   opts.Fields,
		password: opts.Password,
		logger:   opts.Logger,
	}
	if r.alerter == nil {
		r.alerter = AlerterFunc(func(string) {})
	}
	if r.password == nil {
		r.password = FieldPassword{Fields: opts.Fields}
	}
	if r.logger == nil {
		r.logger = zap.NewNop()
	}
	r.logger = r.logger.Named("router")
	return r
}

// Click handles one event and waits for the response. An event without an action
// is ignored. Every failure after the action resolves is shown in the display as
// "Error: <message>" and returned.
func (r *Router) Click(ctx context.Context, ev Event) error {
	req, err := r.prepare(ev)
	if err != nil || req == nil {
		return err
	}
	return r.send(ctx, *req)
}

// Go handles one event without waiting. The request is built from the fields
// before Go returns; only the network call runs in the background. The returned
// channel receives the outcome and is then closed. Overlapping calls are not
// ordered: whichever response arrives last is what the display shows.
func (r *Router) Go(ctx context.Context, ev Event) <-chan error {
	done := make(chan error, 1)
	req, err := r.prepare(ev)
	if err != nil || req == nil {
		done <- err
		close(done)
		return done
	}
	go func() {
		defer close(done)
		done <- r.send(ctx, *req)
	}()
	return done
}

// prepare resolves and builds the request. A nil request with a nil error means
// there is nothing to do.
func (r *Router) prepare(ev Event) (*action.Request, error) {
	if ev.Action == "" {
		return nil, nil
	}
	d, ok := action.Lookup(ev.Action)
	if !ok {
		r.logger.Warn("Unknown action.", zap.String("action", ev.Action))
		r.alerter.Alert(UnknownActionMessage)
		return nil, ErrUnknownAction
	}

	req, err := d.Build(r.fields)
	if err != nil {
		r.logger.Warn("Failed to build request.", zap.String("action", ev.Action), zap.Error(err))
		r.showError(err)
		return nil, err
	}
	req = req.WithPassword(r.password.Password())
	return &req, nil
}

func (r *Router) send(ctx context.Context, req action.Request) error {
	log := r.logger.With(
		zap.String("action", string(req.Action)),
		zap.String("method", req.Method),
		zap.String("path", req.Path),
	)

	body, err := req.Body()
	if err != nil {
		log.Warn("Failed to encode request body.", zap.Error(err))
		r.showError(err)
		return err
	}

	log.Debug("Dispatching action.")
	content, err := r.client.Send(ctx, req.Method, req.Path, body)
	if err != nil {
		log.Warn("Action failed.", zap.Error(err))
		r.showError(err)
		return err
	}
	r.display.Show(content)
	return nil
}

func (r *Router) showError(err error) {
	r.display.Show(output.Text("Error: " + err.Error()))
}
