// Package config loads BamVoo settings from defaults, an optional TOML file
// and the environment.
package config

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports"
	"github.com/spf13/viper"
)

const (
	dirName    = ".bamvoo"
	fileName   = "config"
	fileType   = "toml"
	envPrefix  = "BAMVOO"
	ownersFile = "owners.toml"
)

const (
	KeyLogLevel = "log.level"

	KeyPrinterAPIBaseURL  = "printer_api.base_url"
	KeyPrinterAPIToken    = "printer_api.token"
	KeyPrinterAPITokenRef = "printer_api.token_ref"
	KeyPrinterAPITimeout  = "printer_api.timeout"

	KeyNotificationsBaseURL        = "notifications.base_url"
	KeyNotificationsSkillID        = "notifications.skill_id"
	KeyNotificationsAccessToken    = "notifications.access_token"
	KeyNotificationsAccessTokenRef = "notifications.access_token_ref"
	KeyNotificationsTimeout        = "notifications.timeout"

	KeyServerListen            = "server.listen"
	KeyServerWebhookRateLimit  = "server.webhook_rate_limit"
	KeyServerWebhookRateWindow = "server.webhook_rate_window"
	KeyServerTracing           = "server.tracing"

	KeyOwnersPath      = "owners.path"
	KeySecretsDir      = "secrets.dir"
	KeySecretEnvPrefix = "secrets.env_prefix"
)

var (
	ErrPrinterAPITokenMissing    = errors.New("printer API token is not configured (set OCTO_APP_TOKEN or printer_api.token_ref)")
	ErrNotificationsUnconfigured = errors.New("notifications are not configured (set ALEXA_SKILL_ID and ALEXA_ACCESS_TOKEN)")
)

type Config struct {
	Dir           string
	File          string
	LogLevel      string
	PrinterAPI    PrinterAPI
	Notifications Notifications
	Server        Server
	OwnersPath    string
	SecretsDir    string
	SecretPrefix  string
}

type PrinterAPI struct {
	BaseURL  string
	Token    string
	TokenRef string
	Timeout  time.Duration
}

type Notifications struct {
	BaseURL        string
	SkillID        string
	AccessToken    string
	AccessTokenRef string
	Timeout        time.Duration
}

type Server struct {
	Listen            string
	WebhookRateLimit  int
	WebhookRateWindow time.Duration
	Tracing           bool
}

// Load reads configuration into v and returns the resolved values. When
// configFile is empty, config.toml in ~/.bamvoo is used if it exists.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if v == nil {
		v = viper.New()
	}

	dir, err := defaultDir()
	if err != nil {
		return Config{}, err
	}
	setDefaults(v, dir)

	if err := bindEnv(v); err != nil {
		return Config{}, err
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
	} else {
		v.SetConfigName(fileName)
		v.SetConfigType(fileType)
		v.AddConfigPath(dir)
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if configFile != "" || !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("read config: %w", err)
		}
	}

	cfg := Config{
		Dir:      dir,
		File:     v.ConfigFileUsed(),
		LogLevel: v.GetString(KeyLogLevel),
		PrinterAPI: PrinterAPI{
			BaseURL:  v.GetString(KeyPrinterAPIBaseURL),
			Token:    strings.TrimSpace(v.GetString(KeyPrinterAPIToken)),
			TokenRef: v.GetString(KeyPrinterAPITokenRef),
			Timeout:  v.GetDuration(KeyPrinterAPITimeout),
		},
		Notifications: Notifications{
			BaseURL:        v.GetString(KeyNotificationsBaseURL),
			SkillID:        strings.TrimSpace(v.GetString(KeyNotificationsSkillID)),
			AccessToken:    strings.TrimSpace(v.GetString(KeyNotificationsAccessToken)),
			AccessTokenRef: v.GetString(KeyNotificationsAccessTokenRef),
			Timeout:        v.GetDuration(KeyNotificationsTimeout),
		},
		Server: Server{
			Listen:            v.GetString(KeyServerListen),
			WebhookRateLimit:  v.GetInt(KeyServerWebhookRateLimit),
			WebhookRateWindow: v.GetDuration(KeyServerWebhookRateWindow),
			Tracing:           v.GetBool(KeyServerTracing),
		},
		OwnersPath:   v.GetString(KeyOwnersPath),
		SecretsDir:   v.GetString(KeySecretsDir),
		SecretPrefix: v.GetString(KeySecretEnvPrefix),
	}

	if cfg.PrinterAPI.Timeout <= 0 {
		return Config{}, fmt.Errorf("%s must be positive", KeyPrinterAPITimeout)
	}
	if cfg.Server.WebhookRateLimit < 0 {
		return Config{}, fmt.Errorf("%s must not be negative", KeyServerWebhookRateLimit)
	}

	return cfg, nil
}

func defaultDir() (string, error) {
	homeDir, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("resolve home directory: %w", err)
	}
	return filepath.Join(homeDir, dirName), nil
}

func setDefaults(v *viper.Viper, dir string) {
	v.SetDefault(KeyLogLevel, "info")

	v.SetDefault(KeyPrinterAPIBaseURL, "https://octoeverywhere.com/api/appconnection/v1")
	v.SetDefault(KeyPrinterAPITokenRef, "octoeverywhere/app_token")
	v.SetDefault(KeyPrinterAPITimeout, 10*time.Second)

	v.SetDefault(KeyNotificationsBaseURL, "https://api.amazonalexa.com")
	v.SetDefault(KeyNotificationsAccessTokenRef, "alexa/access_token")
	v.SetDefault(KeyNotificationsTimeout, 10*time.Second)

	v.SetDefault(KeyServerListen, ":8080")
	v.SetDefault(KeyServerWebhookRateLimit, 60)
	v.SetDefault(KeyServerWebhookRateWindow, time.Minute)
	v.SetDefault(KeyServerTracing, false)

	v.SetDefault(KeyOwnersPath, filepath.Join(dir, ownersFile))
	v.SetDefault(KeySecretsDir, filepath.Join(dir, "secrets"))
	v.SetDefault(KeySecretEnvPrefix, "BAMVOO_SECRET")
}

// bindEnv maps every key to BAMVOO_<SECTION>_<NAME>. The three credentials
// also accept the names used by existing skill deployments.
func bindEnv(v *viper.Viper) error {
	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	aliases := map[string][]string{
		KeyPrinterAPIToken:          {"BAMVOO_PRINTER_API_TOKEN", "OCTO_APP_TOKEN"},
		KeyNotificationsSkillID:     {"BAMVOO_NOTIFICATIONS_SKILL_ID", "ALEXA_SKILL_ID"},
		KeyNotificationsAccessToken: {"BAMVOO_NOTIFICATIONS_ACCESS_TOKEN", "ALEXA_ACCESS_TOKEN"},
	}
	for key, names := range aliases {
		if err := v.BindEnv(append([]string{key}, names...)...); err != nil {
			return fmt.Errorf("bind env for %s: %w", key, err)
		}
	}

	return nil
}

// ResolveSecrets fills empty credentials from their secret references. An
// unknown reference leaves the credential empty; Require* reports it.
func (c *Config) ResolveSecrets(ctx context.Context, store ports.SecretStore) error {
	if store == nil {
		return nil
	}

	resolve := func(value *string, ref string) error {
		if *value != "" || ref == "" {
			return nil
		}
		secret, err := store.Get(ctx, ref)
		if errors.Is(err, domain.ErrSecretNotFound) {
			return nil
		}
		if err != nil {
			return err
		}
		*value = secret
		return nil
	}

	if err := resolve(&c.PrinterAPI.Token, c.PrinterAPI.TokenRef); err != nil {
		return fmt.Errorf("resolve %s: %w", KeyPrinterAPITokenRef, err)
	}
	if err := resolve(&c.Notifications.AccessToken, c.Notifications.AccessTokenRef); err != nil {
		return fmt.Errorf("resolve %s: %w", KeyNotificationsAccessTokenRef, err)
	}

	return nil
}

func (c Config) RequirePrinterAPI() error {
	if c.PrinterAPI.Token == "" {
		return ErrPrinterAPITokenMissing
	}
	return nil
}

func (c Config) RequireNotifications() error {
	if c.Notifications.SkillID == "" || c.Notifications.AccessToken == "" {
		return ErrNotificationsUnconfigured
	}
	return nil
}
