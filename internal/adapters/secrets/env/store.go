// Package env reads secrets from environment variables. A key such as
// "octoeverywhere/app_token" maps to BAMVOO_SECRET_OCTOEVERYWHERE_APP_TOKEN.
package env

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports"
	"github.com/spf13/viper"
)

const DefaultPrefix = "BAMVOO_SECRET"

type Store struct {
	v *viper.Viper
}

var _ ports.SecretStore = (*Store)(nil)

func NewStore(prefix string) *Store {
	if prefix == "" {
		prefix = DefaultPrefix
	}

	v := viper.New()
	v.SetEnvPrefix(prefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("/", "_", "-", "_", ".", "_"))
	v.AutomaticEnv()

	return &Store{v: v}
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	trimmed := strings.TrimSpace(key)
	if trimmed == "" {
		return "", errors.New("secret key is empty")
	}

	value := strings.TrimSpace(s.v.GetString(trimmed))
	if value == "" {
		return "", fmt.Errorf("env secret %q: %w", key, domain.ErrSecretNotFound)
	}

	return value, nil
}

// Put is unsupported: the environment is owned by the process launcher.
func (s *Store) Put(ctx context.Context, key string, _ string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("env secret %q: %w", key, domain.ErrSecretReadOnly)
}

func (s *Store) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return fmt.Errorf("env secret %q: %w", key, domain.ErrSecretReadOnly)
}
