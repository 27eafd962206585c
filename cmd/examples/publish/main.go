package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"os"
	"time"

	"github.com/goliatone/go-pubcontrol/pkg/config"
	"github.com/goliatone/go-pubcontrol/pkg/interfaces/logger"
	"github.com/goliatone/go-pubcontrol/pkg/item"
	"github.com/goliatone/go-pubcontrol/pkg/publisher"
	"github.com/rs/zerolog"
)

func main() {
	configPath := flag.String("config", "", "JSON file with a client entry or a list of entries")
	channel := flag.String("channel", "test", "channel to publish on")
	message := flag.String("message", "hello world", "message body")
	flag.Parse()

	zl := zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr, TimeFormat: time.Kitchen}).
		With().Timestamp().Logger().
		Level(zerolog.DebugLevel)
	log := logger.NewZerolog(zl)

	var input any = map[string]any{"control_uri": "http://localhost:5561"}
	if *configPath != "" {
		raw, err := os.ReadFile(*configPath)
		if err != nil {
			zl.Fatal().Err(err).Msg("read config")
		}
		if err := json.Unmarshal(raw, &input); err != nil {
			zl.Fatal().Err(err).Msg("decode config")
		}
	}

	cfg, err := config.Load(input)
	if err != nil {
		zl.Fatal().Err(err).Msg("load config")
	}

	pub, err := publisher.NewFromConfig(cfg, publisher.WithLogger(log), publisher.WithGeneratedIDs(true))
	if err != nil {
		zl.Fatal().Err(err).Msg("build publisher")
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	it := item.New(
		item.NewHTTPResponse(*message+"\n"),
		item.NewHTTPStream(*message+"\n"),
	)
	if err := pub.Publish(ctx, *channel, it); err != nil {
		var pubErr *publisher.PublishError
		evt := zl.Error().Err(err)
		if errors.As(err, &pubErr) {
			evt = evt.Interface("context", pubErr.Context)
		}
		evt.Msg("publish failed")
		os.Exit(1)
	}
	zl.Info().Str("channel", *channel).Msg("published")
}
