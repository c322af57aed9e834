package assets

import (
	"context"
	"fmt"
	"os"

	"github.com/rs/zerolog/log"

	"github.com/selab-final/authportal/internal/config"
	"github.com/selab-final/authportal/web"
)

// FromConfig builds the source named by assets.backend.
func FromConfig(ctx context.Context, cfg *config.Config) (Source, error) {
	switch cfg.Assets.Backend {
	case "embed", "":
		log.Info().Str("component", "assets").Msg("serving embedded assets")
		return NewFSSource(web.Public()), nil
	case "dir":
		if _, err := os.Stat(cfg.Assets.Dir); err != nil {
			return nil, fmt.Errorf("assets directory: %w", err)
		}
		log.Info().Str("component", "assets").Str("dir", cfg.Assets.Dir).Msg("serving assets from directory")
		return NewFSSource(os.DirFS(cfg.Assets.Dir)), nil
	case "s3":
		client, err := NewS3Client(ctx, cfg.Assets.S3)
		if err != nil {
			return nil, err
		}
		return NewS3Source(client, cfg.Assets.S3.Bucket, cfg.Assets.S3.Prefix), nil
	default:
		return nil, fmt.Errorf("unsupported assets backend: %s", cfg.Assets.Backend)
	}
}
