package cmd

import (
	"context"
	"fmt"
	"io"
	"net/http"

	"github.com/highvoltag3/BamVoo/internal/adapters/alexa"
	"github.com/highvoltag3/BamVoo/internal/adapters/octoeverywhere"
	"github.com/highvoltag3/BamVoo/internal/adapters/render/transcript"
	tomlrepo "github.com/highvoltag3/BamVoo/internal/adapters/repo/toml"
	chainstore "github.com/highvoltag3/BamVoo/internal/adapters/secrets/chain"
	"github.com/highvoltag3/BamVoo/internal/application"
	"github.com/highvoltag3/BamVoo/internal/config"
	xlog "github.com/highvoltag3/BamVoo/internal/log"
	"github.com/highvoltag3/BamVoo/internal/ports"
	"github.com/spf13/viper"
)

type app struct {
	cfg                config.Config
	owners             ports.OwnerRepository
	secretStore        *chainstore.Store
	transcriptRenderer func([]transcript.Exchange, transcript.RenderOptions) (string, error)
	httpClient         *http.Client
}

// wireApp loads configuration and builds the pieces every command shares.
// Credentials are resolved lazily by the commands that need them.
func wireApp(configFile string, logOutput io.Writer) (*app, error) {
	v := viper.New()
	cfg, err := config.Load(v, configFile)
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	xlog.Configure(xlog.Config{Level: cfg.LogLevel, Output: logOutput})

	owners, err := tomlrepo.NewOwnerRepository(v)
	if err != nil {
		return nil, fmt.Errorf("wire owner repository: %w", err)
	}

	secretStore, err := chainstore.NewEnvFirstWithFileFallback(cfg.SecretPrefix, cfg.SecretsDir)
	if err != nil {
		return nil, fmt.Errorf("wire secret store chain: %w", err)
	}

	return &app{
		cfg:                cfg,
		owners:             owners,
		secretStore:        secretStore,
		transcriptRenderer: transcript.Render,
		httpClient:         octoeverywhere.NewHTTPClient(),
	}, nil
}

func (a *app) resolveSecrets(ctx context.Context) (config.Config, error) {
	cfg := a.cfg
	if err := cfg.ResolveSecrets(ctx, a.secretStore); err != nil {
		return config.Config{}, err
	}
	return cfg, nil
}

func (a *app) printerAPI(ctx context.Context) (ports.PrinterAPI, error) {
	cfg, err := a.resolveSecrets(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequirePrinterAPI(); err != nil {
		return nil, err
	}

	return octoeverywhere.Client{
		BaseURL:        cfg.PrinterAPI.BaseURL,
		AppToken:       cfg.PrinterAPI.Token,
		HTTPClient:     a.httpClient,
		RequestTimeout: cfg.PrinterAPI.Timeout,
	}, nil
}

func (a *app) notifier(ctx context.Context) (ports.Notifier, error) {
	cfg, err := a.resolveSecrets(ctx)
	if err != nil {
		return nil, err
	}
	if err := cfg.RequireNotifications(); err != nil {
		return nil, err
	}

	return alexa.Notifier{
		BaseURL:        cfg.Notifications.BaseURL,
		SkillID:        cfg.Notifications.SkillID,
		AccessToken:    cfg.Notifications.AccessToken,
		HTTPClient:     a.httpClient,
		RequestTimeout: cfg.Notifications.Timeout,
	}, nil
}

func (a *app) skill(ctx context.Context) (*application.Skill, error) {
	api, err := a.printerAPI(ctx)
	if err != nil {
		return nil, err
	}
	return application.NewSkill(api)
}

func (a *app) forwarder(ctx context.Context) (*application.Forwarder, error) {
	notifier, err := a.notifier(ctx)
	if err != nil {
		return nil, err
	}
	return application.NewForwarder(a.owners, notifier)
}
