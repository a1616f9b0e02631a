// Package chain layers secret backends. Lookups walk the layers in order,
// so an environment variable overrides a stored file of the same key.
package chain

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"

	envstore "github.com/highvoltag3/BamVoo/internal/adapters/secrets/env"
	filestore "github.com/highvoltag3/BamVoo/internal/adapters/secrets/file"
	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports"
)

const (
	LayerEnv  = "env"
	LayerFile = "file"
)

// Layer is one named backend of a Store.
type Layer struct {
	Name  string
	Store ports.SecretStore
}

// Store resolves keys against its layers in order. A layer that does not
// hold the key is skipped; any other failure ends the lookup. Writes land in
// the first layer that accepts them.
type Store struct {
	layers []Layer
}

var _ ports.SecretStore = (*Store)(nil)

var errNoLayers = errors.New("secret store needs at least one layer")

func New(layers ...Layer) (*Store, error) {
	if len(layers) == 0 {
		return nil, errNoLayers
	}
	for i, layer := range layers {
		if layer.Store == nil {
			return nil, fmt.Errorf("secret layer %d (%s) is nil", i, layer.Name)
		}
	}

	return &Store{layers: slices.Clone(layers)}, nil
}

// NewEnvFirstWithFileFallback reads <envPrefix>_* variables first, then
// files under fileRoot. Writes always land in the file store since the
// environment is read-only.
func NewEnvFirstWithFileFallback(envPrefix string, fileRoot string) (*Store, error) {
	return New(
		Layer{Name: LayerEnv, Store: envstore.NewStore(envPrefix)},
		Layer{Name: LayerFile, Store: filestore.NewStore(fileRoot)},
	)
}

// Lookup returns the value of key and the name of the layer it came from.
func (s *Store) Lookup(ctx context.Context, key string) (string, string, error) {
	for _, layer := range s.layers {
		value, found, err := layer.get(ctx, key)
		if err != nil {
			return "", "", err
		}
		if found {
			return value, layer.Name, nil
		}
	}

	return "", "", fmt.Errorf("secret %q not set in %s: %w", key, s.names(), domain.ErrSecretNotFound)
}

func (s *Store) Get(ctx context.Context, key string) (string, error) {
	value, _, err := s.Lookup(ctx, key)
	return value, err
}

// Put stores value in the first writable layer. It refuses when a read-only
// layer ahead of it already holds key, because the stored value would never
// be read.
func (s *Store) Put(ctx context.Context, key string, value string) error {
	for _, layer := range s.layers {
		err := layer.Store.Put(ctx, key, value)
		if err == nil {
			return nil
		}
		if !errors.Is(err, domain.ErrSecretReadOnly) {
			return fmt.Errorf("%s secret backend: %w", layer.Name, err)
		}
		if err := layer.refuseShadowed(ctx, key); err != nil {
			return err
		}
	}

	return fmt.Errorf("secret %q: no writable backend in %s: %w", key, s.names(), domain.ErrSecretReadOnly)
}

// Delete removes key from every writable layer. It reports ErrSecretShadowed
// when a read-only layer still supplies the key afterwards.
func (s *Store) Delete(ctx context.Context, key string) error {
	var shadowed error
	for _, layer := range s.layers {
		err := layer.Store.Delete(ctx, key)
		if err == nil {
			continue
		}
		if !errors.Is(err, domain.ErrSecretReadOnly) {
			return fmt.Errorf("%s secret backend: %w", layer.Name, err)
		}
		if shadowed == nil {
			shadowed = layer.refuseShadowed(ctx, key)
		}
	}

	return shadowed
}

func (s *Store) names() string {
	names := make([]string, 0, len(s.layers))
	for _, layer := range s.layers {
		names = append(names, layer.Name)
	}
	return strings.Join(names, ", ")
}

func (l Layer) get(ctx context.Context, key string) (string, bool, error) {
	value, err := l.Store.Get(ctx, key)
	switch {
	case err == nil:
		return value, true, nil
	case errors.Is(err, domain.ErrSecretNotFound):
		return "", false, nil
	default:
		return "", false, fmt.Errorf("%s secret backend: %w", l.Name, err)
	}
}

func (l Layer) refuseShadowed(ctx context.Context, key string) error {
	_, found, err := l.get(ctx, key)
	if err != nil {
		return err
	}
	if found {
		return fmt.Errorf("secret %q is set in the %s backend and overrides stored values: %w", key, l.Name, domain.ErrSecretShadowed)
	}
	return nil
}
