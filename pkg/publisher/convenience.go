package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/goliatone/go-pubcontrol/pkg/item"
)

// PublishHTTPResponse publishes a single buffered HTTP response. content may
// be a string or []byte body, an item.HTTPResponseFormat, or a map with any of
// body, code, reason and headers.
func (p *Publisher) PublishHTTPResponse(ctx context.Context, channel string, content any) error {
	format, err := toHTTPResponse(content)
	if err != nil {
		return err
	}
	return p.Publish(ctx, channel, item.New(format))
}

// PublishHTTPStream publishes one chunk of an HTTP stream. content may be a
// string or []byte chunk, an item.HTTPStreamFormat, or a map with content
// and close.
func (p *Publisher) PublishHTTPStream(ctx context.Context, channel string, content any) error {
	format, err := toHTTPStream(content)
	if err != nil {
		return err
	}
	return p.Publish(ctx, channel, item.New(format))
}

func toHTTPResponse(content any) (item.HTTPResponseFormat, error) {
	switch v := content.(type) {
	case item.HTTPResponseFormat:
		return v, nil
	case *item.HTTPResponseFormat:
		if v == nil {
			return item.HTTPResponseFormat{}, fmt.Errorf("%w: nil http response", item.ErrValidation)
		}
		return *v, nil
	case string:
		return item.NewHTTPResponse(v), nil
	case []byte:
		return item.HTTPResponseFormat{Body: v}, nil
	case map[string]any:
		var f item.HTTPResponseFormat
		var err error
		if f.Body, err = bytesField(v, "body"); err != nil {
			return f, err
		}
		if f.Code, err = intField(v, "code"); err != nil {
			return f, err
		}
		if f.Reason, err = stringField(v, "reason"); err != nil {
			return f, err
		}
		if f.Headers, err = headersField(v, "headers"); err != nil {
			return f, err
		}
		return f, nil
	default:
		return item.HTTPResponseFormat{}, fmt.Errorf("%w: unsupported http response content %T", item.ErrValidation, content)
	}
}

func toHTTPStream(content any) (item.HTTPStreamFormat, error) {
	switch v := content.(type) {
	case item.HTTPStreamFormat:
		return v, nil
	case *item.HTTPStreamFormat:
		if v == nil {
			return item.HTTPStreamFormat{}, fmt.Errorf("%w: nil http stream", item.ErrValidation)
		}
		return *v, nil
	case string:
		return item.NewHTTPStream(v), nil
	case []byte:
		return item.HTTPStreamFormat{Content: v}, nil
	case map[string]any:
		var f item.HTTPStreamFormat
		var err error
		if f.Content, err = bytesField(v, "content"); err != nil {
			return f, err
		}
		if raw, ok := v["close"]; ok {
			closed, isBool := raw.(bool)
			if !isBool {
				return f, fmt.Errorf("%w: close must be a bool, got %T", item.ErrValidation, raw)
			}
			f.Close = closed
		}
		return f, nil
	default:
		return item.HTTPStreamFormat{}, fmt.Errorf("%w: unsupported http stream content %T", item.ErrValidation, content)
	}
}

func bytesField(m map[string]any, key string) ([]byte, error) {
	switch v := m[key].(type) {
	case nil:
		return nil, nil
	case string:
		return []byte(v), nil
	case []byte:
		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a string, got %T", item.ErrValidation, key, v)
	}
}

func stringField(m map[string]any, key string) (string, error) {
	switch v := m[key].(type) {
	case nil:
		return "", nil
	case string:
		return v, nil
	default:
		return "", fmt.Errorf("%w: %s must be a string, got %T", item.ErrValidation, key, v)
	}
}

func intField(m map[string]any, key string) (int, error) {
	switch v := m[key].(type) {
	case nil:
		return 0, nil
	case int:
		return v, nil
	case int64:
		if v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s out of range: %d", item.ErrValidation, key, v)
		}
		return int(v), nil
	case float64:
		if v != math.Trunc(v) || v < math.MinInt32 || v > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s must be an integer, got %v", item.ErrValidation, key, v)
		}
		return int(v), nil
	case json.Number:
		n, err := v.Int64()
		if err != nil || n < math.MinInt32 || n > math.MaxInt32 {
			return 0, fmt.Errorf("%w: %s must be an integer, got %s", item.ErrValidation, key, v)
		}
		return int(n), nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number, got %T", item.ErrValidation, key, v)
	}
}

func headersField(m map[string]any, key string) (map[string]string, error) {
	switch v := m[key].(type) {
	case nil:
		return nil, nil
	case map[string]string:
		return v, nil
	case map[string]any:
		out := make(map[string]string, len(v))
		for k, raw := range v {
			s, ok := raw.(string)
			if !ok {
				return nil, fmt.Errorf("%w: header %s must be a string, got %T", item.ErrValidation, k, raw)
			}
			out[k] = s
		}
		return out, nil
	default:
		return nil, fmt.Errorf("%w: %s must be a map, got %T", item.ErrValidation, key, v)
	}
}
