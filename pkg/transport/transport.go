package transport

import "context"

// Content is the publish request body: one entry per item, each carrying the
// target channel next to the exported item fields.
type Content struct {
	Items []map[string]any `json:"items"`
}

// Transport delivers a publish request to a single endpoint. Retries, timeouts
// and connection reuse belong to implementations.
type Transport interface {
	Publish(ctx context.Context, headers map[string]string, content Content) error
}

// Func adapts a function to the Transport interface.
type Func func(ctx context.Context, headers map[string]string, content Content) error

var _ Transport = Func(nil)

// Publish satisfies the Transport interface.
func (f Func) Publish(ctx context.Context, headers map[string]string, content Content) error {
	if f == nil {
		return nil
	}
	return f(ctx, headers, content)
}
