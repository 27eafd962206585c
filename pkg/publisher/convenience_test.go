package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"math"
	"reflect"
	"testing"

	"github.com/goliatone/go-pubcontrol/pkg/item"
)

func publishedExport(t *testing.T, publish func(p *Publisher) error) map[string]any {
	t.Helper()
	rec := &recordingClient{}
	p := New()
	p.AddClient(rec)
	if err := publish(p); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(rec.calls) != 1 || rec.calls[0].channel != "chan" {
		t.Fatalf("unexpected calls %+v", rec.calls)
	}
	return rec.calls[0].item.Export()
}

func TestPublishHTTPResponseFormat(t *testing.T) {
	format := item.HTTPResponseFormat{Code: 200, Reason: "OK", Headers: map[string]string{"X": "1"}, Body: []byte("4")}
	got := publishedExport(t, func(p *Publisher) error {
		return p.PublishHTTPResponse(context.Background(), "chan", format)
	})
	if want := item.New(format).Export(); !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPublishHTTPResponseStringMatchesMap(t *testing.T) {
	fromString := publishedExport(t, func(p *Publisher) error {
		return p.PublishHTTPResponse(context.Background(), "chan", "message")
	})
	fromMap := publishedExport(t, func(p *Publisher) error {
		return p.PublishHTTPResponse(context.Background(), "chan", map[string]any{"body": "message"})
	})
	if !reflect.DeepEqual(fromString, fromMap) {
		t.Fatalf("expected identical exports, got %v and %v", fromString, fromMap)
	}
	if want := item.New(item.NewHTTPResponse("message")).Export(); !reflect.DeepEqual(fromString, want) {
		t.Fatalf("expected %v, got %v", want, fromString)
	}
}

func TestPublishHTTPResponseMapFields(t *testing.T) {
	got := publishedExport(t, func(p *Publisher) error {
		return p.PublishHTTPResponse(context.Background(), "chan", map[string]any{
			"body":    "b",
			"code":    float64(201),
			"reason":  "Created",
			"headers": map[string]any{"Content-Type": "text/plain"},
		})
	})
	want := map[string]any{"http-response": map[string]any{
		"body":    "b",
		"code":    201,
		"reason":  "Created",
		"headers": map[string]string{"Content-Type": "text/plain"},
	}}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}
}

func TestPublishHTTPStream(t *testing.T) {
	fromFormat := publishedExport(t, func(p *Publisher) error {
		return p.PublishHTTPStream(context.Background(), "chan", item.NewHTTPStream("1"))
	})
	if want := item.New(item.NewHTTPStream("1")).Export(); !reflect.DeepEqual(fromFormat, want) {
		t.Fatalf("expected %v, got %v", want, fromFormat)
	}

	fromString := publishedExport(t, func(p *Publisher) error {
		return p.PublishHTTPStream(context.Background(), "chan", "message")
	})
	if want := item.New(item.NewHTTPStream("message")).Export(); !reflect.DeepEqual(fromString, want) {
		t.Fatalf("expected %v, got %v", want, fromString)
	}

	closed := publishedExport(t, func(p *Publisher) error {
		return p.PublishHTTPStream(context.Background(), "chan", map[string]any{"close": true})
	})
	if want := item.New(item.NewHTTPStreamClose()).Export(); !reflect.DeepEqual(closed, want) {
		t.Fatalf("expected %v, got %v", want, closed)
	}
}

func TestPublishHTTPStreamFansOut(t *testing.T) {
	a, b := &recordingClient{}, &recordingClient{}
	p := New()
	p.AddClient(a)
	p.AddClient(b)
	if err := p.PublishHTTPStream(context.Background(), "chan", "message"); err != nil {
		t.Fatalf("publish: %v", err)
	}
	if len(a.calls) != 1 || len(b.calls) != 1 {
		t.Fatalf("expected each client called once, got %d and %d", len(a.calls), len(b.calls))
	}
}

func TestConvenienceRejectsUnsupportedContent(t *testing.T) {
	p := New()
	if err := p.PublishHTTPResponse(context.Background(), "chan", 42); !errors.Is(err, item.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := p.PublishHTTPStream(context.Background(), "chan", map[string]any{"close": "yes"}); !errors.Is(err, item.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
	if err := p.PublishHTTPResponse(context.Background(), "chan", map[string]any{"code": "200"}); !errors.Is(err, item.ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestPublishHTTPResponseRejectsNonIntegralCode(t *testing.T) {
	p := New()
	for _, code := range []any{200.9, math.NaN(), math.Inf(1), float64(1 << 40), int64(1 << 40), json.Number("200.5")} {
		err := p.PublishHTTPResponse(context.Background(), "chan", map[string]any{"code": code})
		if !errors.Is(err, item.ErrValidation) {
			t.Fatalf("code %v: expected ErrValidation, got %v", code, err)
		}
	}
}
