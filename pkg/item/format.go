package item

import (
	"encoding/base64"
	"errors"
	"unicode/utf8"
)

// ErrValidation reports a malformed format, item or publish argument.
var ErrValidation = errors.New("item: validation failed")

// Format names used as export keys.
const (
	FormatHTTPResponse = "http-response"
	FormatHTTPStream   = "http-stream"
	FormatWSMessage    = "ws-message"
)

// Format is one wire representation of a message payload.
type Format interface {
	Name() string
	Export() map[string]any
}

// HTTPResponseFormat delivers a single buffered HTTP response.
type HTTPResponseFormat struct {
	Code    int
	Reason  string
	Headers map[string]string
	Body    []byte
}

var _ Format = HTTPResponseFormat{}

// NewHTTPResponse returns a response format with the given body and default status.
func NewHTTPResponse(body string) HTTPResponseFormat {
	return HTTPResponseFormat{Body: []byte(body)}
}

func (f HTTPResponseFormat) Name() string { return FormatHTTPResponse }

func (f HTTPResponseFormat) Export() map[string]any {
	out := map[string]any{}
	if f.Code > 0 {
		out["code"] = f.Code
	}
	if f.Reason != "" {
		out["reason"] = f.Reason
	}
	if len(f.Headers) > 0 {
		headers := make(map[string]string, len(f.Headers))
		for k, v := range f.Headers {
			headers[k] = v
		}
		out["headers"] = headers
	}
	if f.Body != nil {
		putBytes(out, "body", f.Body)
	}
	return out
}

// HTTPStreamFormat is one chunk of a long-lived HTTP stream, or the close
// sentinel when Close is set.
type HTTPStreamFormat struct {
	Content []byte
	Close   bool
}

var _ Format = HTTPStreamFormat{}

// NewHTTPStream returns a stream chunk format.
func NewHTTPStream(content string) HTTPStreamFormat {
	return HTTPStreamFormat{Content: []byte(content)}
}

// NewHTTPStreamClose returns the stream close sentinel.
func NewHTTPStreamClose() HTTPStreamFormat {
	return HTTPStreamFormat{Close: true}
}

func (f HTTPStreamFormat) Name() string { return FormatHTTPStream }

func (f HTTPStreamFormat) Export() map[string]any {
	if f.Close {
		return map[string]any{"action": "close"}
	}
	out := map[string]any{}
	putBytes(out, "content", f.Content)
	return out
}

// putBytes stores text payloads under key and binary ones base64 encoded under key-bin.
func putBytes(out map[string]any, key string, value []byte) {
	if utf8.Valid(value) {
		out[key] = string(value)
		return
	}
	out[key+"-bin"] = base64.StdEncoding.EncodeToString(value)
}
