package domain

import (
	"fmt"
	"strings"
	"time"
)

type UserID string

// Ownership ties a printer to the voice-platform user notified about it.
type Ownership struct {
	PrinterID PrinterID
	UserID    UserID
	AddedAt   time.Time
}

func (o Ownership) Validate() error {
	if strings.TrimSpace(string(o.PrinterID)) == "" {
		return fmt.Errorf("printer id is required")
	}
	if strings.TrimSpace(string(o.UserID)) == "" {
		return fmt.Errorf("user id is required")
	}

	return nil
}
