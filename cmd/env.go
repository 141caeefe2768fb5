package main

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/civicworks/civic-cli/internal/classify"
	"github.com/civicworks/civic-cli/internal/config"
	"github.com/civicworks/civic-cli/internal/geo"
	"github.com/civicworks/civic-cli/internal/model"
	"github.com/civicworks/civic-cli/internal/store"
	"github.com/civicworks/civic-cli/pkg/anthropic"
	"github.com/civicworks/civic-cli/pkg/llm"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "civic.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, &store.PoolConfig{
			MaxConns: cfg.Store.MaxConns,
			MinConns: cfg.Store.MinConns,
		})
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

// initClassifier builds the classification service for the configured
// provider. The "local" provider needs no credentials.
func initClassifier(c config.ClassifierConfig) (*classify.Service, error) {
	var opts []classify.ServiceOption

	switch c.Provider {
	case "local", "":

	case "anthropic":
		if c.AnthropicKey == "" {
			return nil, eris.New("anthropic API key is required (CIVIC_CLASSIFIER_ANTHROPIC_KEY)")
		}
		completer := classify.AnthropicCompleter{
			Client:    anthropic.NewClient(c.AnthropicKey),
			Model:     c.Model,
			MaxTokens: int64(c.MaxTokens),
		}
		opts = append(opts, classify.WithRemote(classify.NewRemote(completer)))

	case "openai":
		if c.OpenAIKey == "" {
			return nil, eris.New("openai API key is required (CIVIC_CLASSIFIER_OPENAI_KEY)")
		}
		completer := classify.OpenAICompleter{
			Client: llm.NewClient(c.OpenAIKey,
				llm.WithBaseURL(c.OpenAIBaseURL),
				llm.WithModel(c.Model)),
			Model: c.Model,
		}
		opts = append(opts, classify.WithRemote(classify.NewRemote(completer)))

	default:
		return nil, eris.Errorf("unsupported classifier provider: %s", c.Provider)
	}

	if c.FallbackLocal {
		opts = append(opts, classify.WithLocalFallback())
	}
	return classify.NewService(opts...), nil
}

// initResolver returns the feed's location source: an always-failing primary
// wrapped with the configured fallback coordinate when one is set.
func initResolver(c config.GeoConfig) geo.Resolver {
	coord := model.Coordinate{Lat: c.FallbackLat, Lng: c.FallbackLng}
	if coord.Validate() != nil || (c.FallbackLat == 0 && c.FallbackLng == 0) {
		return geo.Unavailable{}
	}
	return geo.NewFallback(geo.Unavailable{}, coord)
}
