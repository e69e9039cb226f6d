package notifier

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"

	"github.com/kart-io/pling/pkg/config"
	"github.com/kart-io/pling/pkg/errors"
	"github.com/kart-io/pling/pkg/logger"
	"github.com/kart-io/pling/pkg/observability"
	"github.com/kart-io/pling/pkg/platform"
	"github.com/kart-io/pling/pkg/transport"
)

// Mode selects the transport used for HTTP channels.
type Mode string

const (
	Blocking Mode = "blocking"
	Async    Mode = "async"
)

// Dispatcher sends notifiers through the transports it was built with.
// A dispatcher without a blocking client cannot send HTTP channels with
// SendBlocking, and likewise for async; attempting it panics.
type Dispatcher struct {
	blocking    transport.Client
	asyncClient transport.Client
	async       *transport.Async
	logger      logger.Logger
	telemetry   *observability.TelemetryProvider
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithBlocking enables SendBlocking for HTTP channels.
func WithBlocking(c transport.Client) Option {
	return func(d *Dispatcher) { d.blocking = c }
}

// WithAsync enables SendAsync for HTTP channels.
func WithAsync(c transport.Client) Option {
	return func(d *Dispatcher) {
		d.asyncClient = c
		d.async = transport.NewAsync(c)
	}
}

// WithLogger sets the logger.
func WithLogger(l logger.Logger) Option {
	return func(d *Dispatcher) { d.logger = l }
}

// WithTelemetry records a span and metrics for every send.
func WithTelemetry(tp *observability.TelemetryProvider) Option {
	return func(d *Dispatcher) { d.telemetry = tp }
}

// NewDispatcher creates a dispatcher. With no transport options it can
// only send Command, Desktop and Email.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{logger: logger.Discard}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// NewDispatcherFromConfig builds a dispatcher with both transports sharing
// one HTTP client configured from cfg.
func NewDispatcherFromConfig(cfg *config.Config, opts ...Option) *Dispatcher {
	client := transport.NewHTTPClient(cfg.HTTPTimeout, cfg.UserAgent)
	base := []Option{WithBlocking(client), WithAsync(client)}
	return NewDispatcher(append(base, opts...)...)
}

var (
	defaultOnce       sync.Once
	defaultDispatcher *Dispatcher
)

// Default returns a dispatcher with default configuration and both
// transports enabled.
func Default() *Dispatcher {
	defaultOnce.Do(func() {
		cfg, err := config.New()
		if err != nil {
			panic(err)
		}
		defaultDispatcher = NewDispatcherFromConfig(cfg)
	})
	return defaultDispatcher
}

// SendBlocking sends text and waits for the result.
func (d *Dispatcher) SendBlocking(ctx context.Context, n Notifier, text string) error {
	ch := mustChannel(n)
	ctx, s := d.begin(ctx, ch.Kind(), Blocking)
	defer s.span.End()

	var err error
	switch c := ch.(type) {
	case platform.LocalChannel:
		err = c.Deliver(ctx, text)
	case platform.HTTPChannel:
		if d.blocking == nil {
			panic(unsupported(ch.Kind(), Blocking))
		}
		var req *transport.Request
		if req, err = c.BuildRequest(text); err == nil {
			err = d.blocking.Do(ctx, req)
		}
	default:
		panic(unsupported(ch.Kind(), Blocking))
	}

	err = annotate(ch.Kind(), err)
	d.finish(ctx, s, err)
	return err
}

// SendAsync starts sending text and returns a handle for the result. Local
// channels have no awaitable variant and complete before SendAsync returns.
func (d *Dispatcher) SendAsync(ctx context.Context, n Notifier, text string) *transport.Handle {
	ch := mustChannel(n)

	switch c := ch.(type) {
	case platform.LocalChannel:
		ctx, s := d.begin(ctx, ch.Kind(), Async)
		defer s.span.End()
		err := annotate(ch.Kind(), c.Deliver(ctx, text))
		d.finish(ctx, s, err)
		return transport.Resolved(err)
	case platform.HTTPChannel:
		if d.async == nil {
			panic(unsupported(ch.Kind(), Async))
		}
		ctx, s := d.begin(ctx, ch.Kind(), Async)
		req, err := c.BuildRequest(text)
		if err != nil {
			err = annotate(ch.Kind(), err)
			d.finish(ctx, s, err)
			s.span.End()
			return transport.Resolved(err)
		}
		return d.async.Go(ctx, func(ctx context.Context) error {
			defer s.span.End()
			err := annotate(ch.Kind(), d.asyncClient.Do(ctx, req))
			d.finish(ctx, s, err)
			return err
		})
	default:
		panic(unsupported(ch.Kind(), Async))
	}
}

// Wait blocks until every send started with SendAsync has finished.
func (d *Dispatcher) Wait() {
	if d.async != nil {
		d.async.Wait()
	}
}

// SendAll sends text to every notifier. A failure on one channel does not
// stop the others; all failures are returned together.
func (d *Dispatcher) SendAll(ctx context.Context, notifiers []Notifier, text string, mode Mode) error {
	agg := errors.NewAggregator()

	if mode == Async {
		handles := make([]*transport.Handle, len(notifiers))
		for i, n := range notifiers {
			handles[i] = d.SendAsync(ctx, n, text)
		}
		for i, h := range handles {
			agg.Add(failedTo(notifiers[i].Kind(), h.Wait(ctx)))
		}
		return agg.ToError()
	}

	for _, n := range notifiers {
		agg.Add(failedTo(n.Kind(), d.SendBlocking(ctx, n, text)))
	}
	return agg.ToError()
}

// send carries the per-send span and scoped logger from begin to finish.
type send struct {
	kind  platform.Kind
	span  trace.Span
	log   logger.Logger
	start time.Time
}

func (d *Dispatcher) begin(ctx context.Context, kind platform.Kind, mode Mode) (context.Context, *send) {
	sendID := uuid.NewString()
	ctx, span := d.telemetry.TraceSend(ctx, kind.Name(), sendID, string(mode))
	s := &send{
		kind:  kind,
		span:  span,
		log:   d.logger.With("channel", kind.Name(), "send_id", sendID, "mode", mode),
		start: time.Now(),
	}
	s.log.Debug("Sending notification")
	return ctx, s
}

func (d *Dispatcher) finish(ctx context.Context, s *send, err error) {
	duration := time.Since(s.start)
	if err != nil {
		code, _ := errors.CodeOf(err)
		d.telemetry.RecordFailed(ctx, s.kind.Name(), duration, string(code))
		observability.SetSpanError(s.span, err)
		s.log.Error("Notification failed", "duration", duration, "category", errors.GetCategory(code), "error", err)
		return
	}
	d.telemetry.RecordSent(ctx, s.kind.Name(), duration)
	observability.SetSpanSuccess(s.span)
	s.log.Info("Notification sent", "duration", duration)
}

func mustChannel(n Notifier) platform.Channel {
	if n.channel == nil {
		panic(errors.New(errors.ErrInvalidConfig, "send on an empty notifier"))
	}
	return n.channel
}

func unsupported(kind platform.Kind, mode Mode) error {
	return errors.NewPlatformError(errors.ErrUnsupportedTransport, kind.Name(), fmt.Sprintf("%s transport is not enabled", mode))
}

// annotate makes sure err names the channel that failed.
func annotate(kind platform.Kind, err error) error {
	if err == nil {
		return nil
	}
	if ne, ok := err.(*errors.NotifyError); ok {
		if ne.Platform != "" {
			return ne
		}
		cp := *ne
		cp.Platform = kind.Name()
		return &cp
	}
	return errors.Wrap(err, errors.ErrMessageSendFailed, "send failed").WithPlatform(kind.Name())
}

func failedTo(kind platform.Kind, err error) error {
	if err == nil {
		return nil
	}
	code, ok := errors.CodeOf(err)
	if !ok {
		code = errors.ErrMessageSendFailed
	}
	return errors.Wrapf(err, code, "failed to send %s notification", kind).WithPlatform(kind.Name())
}
