package portal

import (
	"context"
	"errors"
	"html/template"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/selab-final/authportal/internal/assets"
	"github.com/selab-final/authportal/internal/auth"
	"github.com/selab-final/authportal/internal/metrics"
	"github.com/selab-final/authportal/web"
)

// Credentials is the credential store as seen by the HTTP layer.
type Credentials interface {
	Register(ctx context.Context, username, email, password string) (int64, error)
	Authenticate(ctx context.Context, username, password string) (string, bool, error)
}

// Options wires the portal's collaborators. Templates defaults to the embedded
// page templates, Auth to auth.DefaultConfig and Metrics may be nil.
type Options struct {
	Store     Credentials
	Sessions  *auth.Registry
	Assets    assets.Source
	Templates *template.Template
	Auth      *auth.Config
	Metrics   *metrics.Metrics
}

type Portal struct {
	templates *template.Template
	store     Credentials
	sessions  *auth.Registry
	assets    assets.Source
	auth      *auth.Config
	metrics   *metrics.Metrics
	log       zerolog.Logger
}

func New(opts Options) (*Portal, error) {
	if opts.Store == nil {
		return nil, errors.New("portal: credential store is required")
	}
	if opts.Sessions == nil {
		return nil, errors.New("portal: session registry is required")
	}
	if opts.Assets == nil {
		return nil, errors.New("portal: asset source is required")
	}

	templates := opts.Templates
	if templates == nil {
		var err error
		if templates, err = web.Templates(); err != nil {
			return nil, err
		}
	}
	if templates.Lookup(dashboardTemplate) == nil {
		return nil, errors.New("portal: dashboard template missing")
	}

	authCfg := opts.Auth
	if authCfg == nil {
		authCfg = auth.DefaultConfig()
	}

	log.Info().Str("component", "portal").Msg("successfully loaded templates")

	return &Portal{
		templates: templates,
		store:     opts.Store,
		sessions:  opts.Sessions,
		assets:    opts.Assets,
		auth:      authCfg,
		metrics:   opts.Metrics,
		log:       log.With().Str("component", "portal").Logger(),
	}, nil
}
