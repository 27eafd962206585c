package item

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
)

// WebSocketEvent is a single event in the websocket-events encoding used by
// GRIP front-ends for WebSocket-over-HTTP.
type WebSocketEvent struct {
	typ        string
	content    string
	hasContent bool
}

var _ Format = (*WebSocketEvent)(nil)

// NewWebSocketEvent builds an event. Content is optional; only the first value is used.
func NewWebSocketEvent(typ string, content ...string) (*WebSocketEvent, error) {
	if typ == "" {
		return nil, fmt.Errorf("%w: websocket event type is required", ErrValidation)
	}
	if strings.ContainsAny(typ, " \r\n") {
		return nil, fmt.Errorf("%w: websocket event type %q contains framing characters", ErrValidation, typ)
	}
	e := &WebSocketEvent{typ: typ}
	if len(content) > 0 {
		e.content = content[0]
		e.hasContent = true
	}
	return e, nil
}

func (e *WebSocketEvent) Type() string { return e.typ }

// Content returns the event content and whether any was set.
func (e *WebSocketEvent) Content() (string, bool) { return e.content, e.hasContent }

func (e *WebSocketEvent) Name() string { return FormatWSMessage }

// Export emits the event under ws-message with websocket-events framing as the
// content. Subscribers reading raw WebSocket text will see the framing.
func (e *WebSocketEvent) Export() map[string]any {
	return map[string]any{"content": string(EncodeWebSocketEvents(e))}
}

// EncodeWebSocketEvents frames events as "TYPE\r\n" or "TYPE <hexlen>\r\n<content>\r\n".
func EncodeWebSocketEvents(events ...*WebSocketEvent) []byte {
	var buf bytes.Buffer
	for _, e := range events {
		if e == nil {
			continue
		}
		buf.WriteString(e.typ)
		if e.hasContent {
			buf.WriteByte(' ')
			buf.WriteString(strconv.FormatInt(int64(len(e.content)), 16))
			buf.WriteString("\r\n")
			buf.WriteString(e.content)
		}
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

// DecodeWebSocketEvents parses the websocket-events encoding.
func DecodeWebSocketEvents(body []byte) ([]*WebSocketEvent, error) {
	var out []*WebSocketEvent
	rest := body
	for len(rest) > 0 {
		at := bytes.Index(rest, []byte("\r\n"))
		if at < 0 {
			return nil, fmt.Errorf("%w: websocket event missing line terminator", ErrValidation)
		}
		header := string(rest[:at])
		rest = rest[at+2:]

		typ, sizeHex, hasSize := strings.Cut(header, " ")
		if typ == "" {
			return nil, fmt.Errorf("%w: websocket event type is required", ErrValidation)
		}
		if !hasSize {
			out = append(out, &WebSocketEvent{typ: typ})
			continue
		}

		size, err := strconv.ParseInt(sizeHex, 16, 64)
		if err != nil || size < 0 {
			return nil, fmt.Errorf("%w: invalid websocket event size %q", ErrValidation, sizeHex)
		}
		if size > int64(len(rest))-2 || !bytes.HasPrefix(rest[size:], []byte("\r\n")) {
			return nil, fmt.Errorf("%w: truncated websocket event content", ErrValidation)
		}
		out = append(out, &WebSocketEvent{typ: typ, content: string(rest[:size]), hasContent: true})
		rest = rest[size+2:]
	}
	return out, nil
}

