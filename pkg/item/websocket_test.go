package item

import (
	"errors"
	"testing"
)

func TestWebSocketEventDefaults(t *testing.T) {
	we, err := NewWebSocketEvent("type")
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if we.Type() != "type" {
		t.Fatalf("expected type, got %q", we.Type())
	}
	if content, ok := we.Content(); ok || content != "" {
		t.Fatalf("expected no content, got %q", content)
	}
}

func TestWebSocketEventContent(t *testing.T) {
	we, err := NewWebSocketEvent("type", "content")
	if err != nil {
		t.Fatalf("new event: %v", err)
	}
	if content, ok := we.Content(); !ok || content != "content" {
		t.Fatalf("expected content, got %q (%v)", content, ok)
	}
}

func TestWebSocketEventRequiresType(t *testing.T) {
	if _, err := NewWebSocketEvent(""); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestEncodeWebSocketEvents(t *testing.T) {
	open, _ := NewWebSocketEvent("OPEN")
	text, _ := NewWebSocketEvent("TEXT", "hello world")
	got := string(EncodeWebSocketEvents(open, text))
	want := "OPEN\r\nTEXT b\r\nhello world\r\n"
	if got != want {
		t.Fatalf("expected %q, got %q", want, got)
	}
}

func TestWebSocketEventExport(t *testing.T) {
	text, _ := NewWebSocketEvent("TEXT", "hi")
	got := New(text).Export()
	msg, ok := got[FormatWSMessage].(map[string]any)
	if !ok || msg["content"] != "TEXT 2\r\nhi\r\n" {
		t.Fatalf("unexpected export %v", got)
	}
}

func TestDecodeWebSocketEvents(t *testing.T) {
	events, err := DecodeWebSocketEvents([]byte("OPEN\r\nTEXT 5\r\nhello\r\nCLOSE 2\r\n\x03\xe8\r\n"))
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].Type() != "OPEN" {
		t.Fatalf("unexpected first event %q", events[0].Type())
	}
	if content, ok := events[1].Content(); !ok || content != "hello" {
		t.Fatalf("unexpected text content %q", content)
	}
	if content, _ := events[2].Content(); content != "\x03\xe8" {
		t.Fatalf("unexpected close payload %q", content)
	}
}

func TestDecodeWebSocketEventsRejectsTruncated(t *testing.T) {
	cases := []string{
		"OPEN",
		"TEXT 10\r\nshort\r\n",
		"TEXT zz\r\nx\r\n",
		"TEXT 7fffffffffffffff\r\nhi\r\n",
		"TEXT 1\r\n",
	}
	for _, body := range cases {
		if _, err := DecodeWebSocketEvents([]byte(body)); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", body, err)
		}
	}
}

func TestWebSocketEventRejectsFramingInType(t *testing.T) {
	for _, typ := range []string{"TEXT\r\nCLOSE", "TEXT 5", "PING\n"} {
		if _, err := NewWebSocketEvent(typ); !errors.Is(err, ErrValidation) {
			t.Fatalf("expected ErrValidation for %q, got %v", typ, err)
		}
	}
}
