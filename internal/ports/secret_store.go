package ports

import "context"

// SecretStore resolves secret references such as API tokens. Get fails with
// an error wrapping domain.ErrSecretNotFound when the key is unknown.
type SecretStore interface {
	Get(ctx context.Context, key string) (string, error)
	Put(ctx context.Context, key string, value string) error
	Delete(ctx context.Context, key string) error
}
