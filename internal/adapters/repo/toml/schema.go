package toml

import "fmt"

const currentSchemaVersion = 1

type fileSchema struct {
	Version int           `toml:"version"`
	Owners  []ownerSchema `toml:"owners"`
}

func (s *fileSchema) applyDefaults() {
	if s.Version == 0 {
		s.Version = currentSchemaVersion
	}
}

func (s fileSchema) validateVersion() error {
	if s.Version > currentSchemaVersion {
		return fmt.Errorf("unsupported owners schema version %d (current %d)", s.Version, currentSchemaVersion)
	}

	return nil
}

type ownerSchema struct {
	PrinterID string `toml:"printer_id"`
	UserID    string `toml:"user_id"`
	AddedAt   string `toml:"added_at,omitempty"`
}
