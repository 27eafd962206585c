package publisher

import (
	"context"
	"time"

	"github.com/goliatone/go-pubcontrol/pkg/auth"
	"github.com/goliatone/go-pubcontrol/pkg/item"
	"github.com/goliatone/go-pubcontrol/pkg/transport"
)

// Client publishes an item to a channel on one endpoint.
type Client interface {
	Publish(ctx context.Context, channel string, it *item.Item) error
}

// ClientFunc adapts a function to the Client interface.
type ClientFunc func(ctx context.Context, channel string, it *item.Item) error

var _ Client = ClientFunc(nil)

func (f ClientFunc) Publish(ctx context.Context, channel string, it *item.Item) error {
	if f == nil {
		return nil
	}
	return f(ctx, channel, it)
}

// PublisherClient binds one transport and an optional claim to the act of
// publishing. Without a claim requests are sent unauthenticated.
type PublisherClient struct {
	transport transport.Transport
	auth      *auth.Claim
	verify    *auth.VerifyComponents
	now       func() time.Time
}

var _ Client = (*PublisherClient)(nil)

type ClientOption func(*PublisherClient)

// WithAuth signs every request with claim.
func WithAuth(claim *auth.Claim) ClientOption {
	return func(c *PublisherClient) {
		c.auth = claim
	}
}

// WithVerifyComponents attaches verification metadata for downstream consumers.
func WithVerifyComponents(vc *auth.VerifyComponents) ClientOption {
	return func(c *PublisherClient) {
		c.verify = vc
	}
}

// WithClientClock overrides the time source used when signing tokens.
func WithClientClock(now func() time.Time) ClientOption {
	return func(c *PublisherClient) {
		if now != nil {
			c.now = now
		}
	}
}

// NewClient builds a client around t.
func NewClient(t transport.Transport, opts ...ClientOption) *PublisherClient {
	c := &PublisherClient{transport: t, now: time.Now}
	for _, opt := range opts {
		if opt != nil {
			opt(c)
		}
	}
	return c
}

func (c *PublisherClient) Transport() transport.Transport           { return c.transport }
func (c *PublisherClient) Auth() *auth.Claim                        { return c.auth }
func (c *PublisherClient) VerifyComponents() *auth.VerifyComponents { return c.verify }

// Endpoint returns the transport publish URI when the transport exposes one.
func (c *PublisherClient) Endpoint() string {
	if ep, ok := c.transport.(interface{ PublishURI() string }); ok {
		return ep.PublishURI()
	}
	return ""
}

// Publish exports it for channel and hands it to the transport. Signing and
// transport errors are returned as is.
func (c *PublisherClient) Publish(ctx context.Context, channel string, it *item.Item) error {
	headers := map[string]string{}
	if c.auth != nil {
		token, err := c.auth.Sign(c.now())
		if err != nil {
			return err
		}
		headers["Authorization"] = "Bearer " + token
	}

	export := map[string]any{}
	if it != nil {
		export = it.Export()
	}
	export["channel"] = channel

	return c.transport.Publish(ctx, headers, transport.Content{
		Items: []map[string]any{export},
	})
}
