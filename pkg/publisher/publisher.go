package publisher

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goliatone/go-pubcontrol/pkg/auth"
	"github.com/goliatone/go-pubcontrol/pkg/config"
	"github.com/goliatone/go-pubcontrol/pkg/interfaces/logger"
	"github.com/goliatone/go-pubcontrol/pkg/item"
	"github.com/goliatone/go-pubcontrol/pkg/transport"
	"github.com/goliatone/go-pubcontrol/pkg/transport/httptransport"
)

// TransportFactory builds the transport for a configured control URI.
type TransportFactory func(controlURI string) transport.Transport

// Publisher fans a publish call out to every registered client.
//
// The client list is only changed through ApplyConfig and AddClient and must
// not be modified while a Publish call is running; Publisher does no locking.
type Publisher struct {
	clients     []Client
	logger      logger.Logger
	factory     TransportFactory
	tokenTTL    time.Duration
	timeout     time.Duration
	now         func() time.Time
	generateIDs bool
}

type Option func(*Publisher)

// WithLogger sets the logger used for registration and fan-out diagnostics.
func WithLogger(l logger.Logger) Option {
	return func(p *Publisher) {
		p.logger = logger.OrNop(l)
	}
}

// WithTransportFactory overrides how transports are built from configuration.
func WithTransportFactory(f TransportFactory) Option {
	return func(p *Publisher) {
		if f != nil {
			p.factory = f
		}
	}
}

// WithTokenTTL sets the validity window of claims built from configuration.
func WithTokenTTL(ttl time.Duration) Option {
	return func(p *Publisher) {
		p.tokenTTL = ttl
	}
}

// WithTimeout sets the request timeout of the default HTTP transport.
func WithTimeout(d time.Duration) Option {
	return func(p *Publisher) {
		p.timeout = d
	}
}

// WithClock overrides the signing clock of clients built from configuration.
func WithClock(now func() time.Time) Option {
	return func(p *Publisher) {
		if now != nil {
			p.now = now
		}
	}
}

// WithGeneratedIDs assigns a random id to items published without one, so
// every endpoint receives the same id.
func WithGeneratedIDs(enabled bool) Option {
	return func(p *Publisher) {
		p.generateIDs = enabled
	}
}

// New builds an empty publisher.
func New(opts ...Option) *Publisher {
	p := &Publisher{
		logger:   &logger.Nop{},
		tokenTTL: auth.DefaultTTL,
		now:      time.Now,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(p)
		}
	}
	if p.factory == nil {
		p.factory = p.httpTransport
	}
	return p
}

// NewFromConfig builds a publisher with the clients and shared settings of cfg.
func NewFromConfig(cfg config.Config, opts ...Option) (*Publisher, error) {
	base := []Option{WithTokenTTL(cfg.TokenTTL), WithTimeout(cfg.Timeout)}
	p := New(append(base, opts...)...)
	if err := p.ApplyConfig(cfg.Clients...); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *Publisher) httpTransport(controlURI string) transport.Transport {
	return httptransport.New(controlURI,
		httptransport.WithTimeout(p.timeout),
		httptransport.WithLogger(p.logger),
	)
}

// ApplyConfig appends one client per entry, in order. Existing clients are
// kept. When any entry is invalid nothing is appended.
func (p *Publisher) ApplyConfig(cfgs ...config.ClientConfig) error {
	built := make([]*PublisherClient, 0, len(cfgs))
	for i, cfg := range cfgs {
		client, err := p.buildClient(cfg)
		if err != nil {
			return fmt.Errorf("publisher: client config %d: %w", i, err)
		}
		built = append(built, client)
	}

	for _, client := range built {
		p.clients = append(p.clients, client)
		fields := []logger.Field{{Key: "endpoint", Value: client.Endpoint()}}
		if claim := client.Auth(); claim != nil {
			fields = append(fields,
				logger.Field{Key: "issuer", Value: claim.Issuer()},
				logger.Field{Key: "key", Value: claim.MaskedKey()},
			)
		}
		p.logger.Info("publisher client registered", fields...)
	}
	return nil
}

func (p *Publisher) buildClient(cfg config.ClientConfig) (*PublisherClient, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	opts := []ClientOption{WithClientClock(p.now)}
	if cfg.HasAuth() {
		claim, err := auth.NewClaim(cfg.ControlIss, []byte(cfg.Key), auth.WithTTL(p.tokenTTL))
		if err != nil {
			return nil, err
		}
		opts = append(opts, WithAuth(claim))
	}
	if vc := auth.NewVerifyComponents(cfg.VerifyIss, cfg.VerifyKey); vc != nil {
		opts = append(opts, WithVerifyComponents(vc))
	}
	return NewClient(p.factory(cfg.ControlURI), opts...), nil
}

// AddClient appends a pre-built client. Nil clients are ignored.
func (p *Publisher) AddClient(c Client) {
	if c == nil {
		return
	}
	p.clients = append(p.clients, c)
}

// Clients returns the registered clients in fan-out order.
func (p *Publisher) Clients() []Client {
	out := make([]Client, len(p.clients))
	copy(out, p.clients)
	return out
}

// Publish delivers it to channel on every client, one after the other in
// registration order. Every client is attempted; when any fail the error of
// the earliest failing client is returned.
func (p *Publisher) Publish(ctx context.Context, channel string, it *item.Item) error {
	if channel == "" {
		return fmt.Errorf("%w: channel is required", item.ErrValidation)
	}
	if it == nil {
		return fmt.Errorf("%w: item is required", item.ErrValidation)
	}
	if p.generateIDs && it.ID() == "" {
		it = it.WithID(item.NewID())
	}

	var first error
	for i, client := range p.clients {
		if err := client.Publish(ctx, channel, it); err != nil && first == nil {
			first = p.wrapFailure(i, client, channel, err)
		}
	}

	p.logger.Debug("publish fan-out complete",
		logger.Field{Key: "channel", Value: channel},
		logger.Field{Key: "clients", Value: len(p.clients)},
	)
	return first
}

func (p *Publisher) wrapFailure(index int, client Client, channel string, err error) error {
	var pubErr *PublishError
	if errors.As(err, &pubErr) {
		return err
	}

	ctx := map[string]any{
		"index":   index,
		"channel": channel,
	}
	if pc, ok := client.(*PublisherClient); ok {
		if ep := pc.Endpoint(); ep != "" {
			ctx["endpoint"] = ep
		}
		if claim := pc.Auth(); claim != nil && claim.Issuer() != "" {
			ctx["issuer"] = claim.Issuer()
		}
	}
	return &PublishError{
		Message: fmt.Sprintf("publisher: client %d failed to publish to %q: %v", index, channel, err),
		Context: ctx,
		Err:     err,
	}
}
