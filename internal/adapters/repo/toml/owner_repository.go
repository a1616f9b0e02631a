// Package toml stores the printer owner registry as a TOML file.
package toml

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports"
	toml "github.com/pelletier/go-toml/v2"
	"github.com/spf13/viper"
)

const (
	OwnersPathKey    = "owners.path"
	ownersFileMode   = 0o600
	ownersDirMode    = 0o700
	ownersConfigDir  = ".bamvoo"
	ownersConfigFile = "owners.toml"
	tempFilePattern  = ".owners-*.toml.tmp"
)

type OwnerRepository struct {
	ownersPath string
	mu         *sync.RWMutex
	now        func() time.Time
}

var (
	lockRegistryMu sync.Mutex
	pathLockMap    = map[string]*sync.RWMutex{}
)

var _ ports.OwnerRepository = (*OwnerRepository)(nil)

// NewOwnerRepository opens the registry at owners.path, defaulting to
// ~/.bamvoo/owners.toml. A missing file is an empty registry.
func NewOwnerRepository(cfg *viper.Viper) (*OwnerRepository, error) {
	if cfg == nil {
		cfg = viper.New()
	}

	if cfg.GetString(OwnersPathKey) == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return nil, fmt.Errorf("resolve home directory: %w", err)
		}
		cfg.SetDefault(OwnersPathKey, filepath.Join(homeDir, ownersConfigDir, ownersConfigFile))
	}

	ownersPath := cfg.GetString(OwnersPathKey)
	if ownersPath == "" {
		return nil, errors.New("owners path is empty")
	}
	ownersPath, err := normalizeOwnersPath(ownersPath)
	if err != nil {
		return nil, err
	}

	return &OwnerRepository{ownersPath: ownersPath, mu: lockForPath(ownersPath), now: time.Now}, nil
}

func (r *OwnerRepository) Path() string {
	return r.ownersPath
}

func (r *OwnerRepository) ResolveOwner(ctx context.Context, printerID domain.PrinterID) (domain.UserID, bool, error) {
	if err := ctx.Err(); err != nil {
		return "", false, err
	}
	if strings.TrimSpace(string(printerID)) == "" {
		return "", false, nil
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return "", false, err
	}

	for _, entry := range file.Owners {
		if entry.PrinterID == string(printerID) {
			return domain.UserID(entry.UserID), true, nil
		}
	}

	return "", false, nil
}

func (r *OwnerRepository) List(ctx context.Context) ([]domain.Ownership, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	r.mu.RLock()
	defer r.mu.RUnlock()

	file, err := r.readSchema()
	if err != nil {
		return nil, err
	}

	owners := make([]domain.Ownership, 0, len(file.Owners))
	for _, entry := range file.Owners {
		owners = append(owners, fromSchema(entry))
	}

	return owners, nil
}

// Save records who owns a printer, replacing any previous owner.
func (r *OwnerRepository) Save(ctx context.Context, ownership domain.Ownership) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if err := ownership.Validate(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	encoded := toSchema(ownership)
	encoded.AddedAt = formatTime(r.now())
	updated := false
	for i := range file.Owners {
		if file.Owners[i].PrinterID == encoded.PrinterID {
			file.Owners[i] = encoded
			updated = true
			break
		}
	}
	if !updated {
		file.Owners = append(file.Owners, encoded)
	}

	if err := ctx.Err(); err != nil {
		return err
	}

	return r.writeSchema(file)
}

func (r *OwnerRepository) Delete(ctx context.Context, printerID domain.PrinterID) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	file, err := r.readSchema()
	if err != nil {
		return err
	}

	kept := file.Owners[:0]
	removed := false
	for _, entry := range file.Owners {
		if entry.PrinterID == string(printerID) {
			removed = true
			continue
		}
		kept = append(kept, entry)
	}
	if !removed {
		return fmt.Errorf("printer %s: %w", printerID, domain.ErrOwnerNotFound)
	}
	file.Owners = kept

	return r.writeSchema(file)
}

func (r *OwnerRepository) readSchema() (fileSchema, error) {
	data, err := os.ReadFile(r.ownersPath)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return fileSchema{}, nil
		}
		return fileSchema{}, fmt.Errorf("read owners file: %w", err)
	}

	var file fileSchema
	if err := toml.Unmarshal(data, &file); err != nil {
		return fileSchema{}, fmt.Errorf("decode owners file: %w", err)
	}
	if err := file.validateVersion(); err != nil {
		return fileSchema{}, err
	}
	file.applyDefaults()

	return file, nil
}

func (r *OwnerRepository) writeSchema(file fileSchema) error {
	file.applyDefaults()

	if err := os.MkdirAll(filepath.Dir(r.ownersPath), ownersDirMode); err != nil {
		return fmt.Errorf("create owners directory: %w", err)
	}

	data, err := toml.Marshal(file)
	if err != nil {
		return fmt.Errorf("encode owners file: %w", err)
	}

	tempFile, err := os.CreateTemp(filepath.Dir(r.ownersPath), tempFilePattern)
	if err != nil {
		return fmt.Errorf("create temp owners file: %w", err)
	}

	tempName := tempFile.Name()
	cleanup := true
	defer func() {
		if cleanup {
			_ = os.Remove(tempName)
		}
	}()

	if _, err := tempFile.Write(data); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("write temp owners file: %w", err)
	}

	if err := tempFile.Chmod(ownersFileMode); err != nil {
		_ = tempFile.Close()
		return fmt.Errorf("chmod temp owners file: %w", err)
	}

	if err := tempFile.Close(); err != nil {
		return fmt.Errorf("close temp owners file: %w", err)
	}

	if err := os.Rename(tempName, r.ownersPath); err != nil {
		return fmt.Errorf("replace owners file: %w", err)
	}
	cleanup = false

	return nil
}

func normalizeOwnersPath(path string) (string, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolve owners path: %w", err)
	}

	return filepath.Clean(absPath), nil
}

func lockForPath(path string) *sync.RWMutex {
	lockRegistryMu.Lock()
	defer lockRegistryMu.Unlock()

	if mu, ok := pathLockMap[path]; ok {
		return mu
	}

	mu := &sync.RWMutex{}
	pathLockMap[path] = mu
	return mu
}

func toSchema(ownership domain.Ownership) ownerSchema {
	return ownerSchema{
		PrinterID: strings.TrimSpace(string(ownership.PrinterID)),
		UserID:    strings.TrimSpace(string(ownership.UserID)),
	}
}

func fromSchema(entry ownerSchema) domain.Ownership {
	return domain.Ownership{
		PrinterID: domain.PrinterID(entry.PrinterID),
		UserID:    domain.UserID(entry.UserID),
		AddedAt:   parseTime(entry.AddedAt),
	}
}

func parseTime(raw string) time.Time {
	if raw == "" {
		return time.Time{}
	}

	parsed, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}
	}

	return parsed
}

func formatTime(value time.Time) string {
	if value.IsZero() {
		return ""
	}

	return value.UTC().Format(time.RFC3339)
}
