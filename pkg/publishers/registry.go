package publishers

import (
	"context"
	"errors"
	"fmt"

	"github.com/samvad-hq/samvad-media-wall/internal/logger"
)

// Builder creates a Publisher from a config entry.
type Builder func(ctx context.Context, cfg PublisherConfig, log logger.Logger) (Publisher, error)

// Builders maps publisher types to their constructors.
type Builders map[string]Builder

// DefaultBuilders knows every supported sink type.
func DefaultBuilders() Builders {
	return Builders{
		TypeHTTP:      newHTTPPublisher,
		TypeSQS:       newSQSPublisher,
		TypeSNS:       newSNSPublisher,
		TypeGCPPubSub: newGCPPubSubPublisher,
	}
}

// BuildAll instantiates publishers for cfgs. On error, publishers built so
// far are closed before returning.
func BuildAll(ctx context.Context, builders Builders, cfgs []PublisherConfig, log logger.Logger) ([]Publisher, error) {
	var pubs []Publisher
	for _, cfg := range cfgs {
		build, ok := builders[cfg.Type]
		if !ok {
			return nil, errors.Join(
				fmt.Errorf("no publisher registered for type %q", cfg.Type),
				NewFanout(pubs).Close(),
			)
		}
		pub, err := build(ctx, cfg, log)
		if err != nil {
			return nil, errors.Join(
				fmt.Errorf("build publisher %q: %w", cfg.ID, err),
				NewFanout(pubs).Close(),
			)
		}
		pubs = append(pubs, pub)
	}
	return pubs, nil
}

// NewFanoutFromFile loads the publishers file and builds every enabled sink.
func NewFanoutFromFile(ctx context.Context, path string, log logger.Logger) (*Fanout, error) {
	reg, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	pubs, err := BuildAll(ctx, DefaultBuilders(), reg.Enabled(), log)
	if err != nil {
		return nil, err
	}
	return NewFanout(pubs), nil
}
