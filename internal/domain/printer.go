package domain

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
)

// PrinterID is kept as text. The printer API sends ids as strings for
// cloud printers and as bare numbers for some local ones.
type PrinterID string

// UnmarshalJSON accepts a JSON string or number. A number keeps its literal
// text, so 1 and "1" name the same printer.
func (id *PrinterID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		return nil
	}

	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("printer id: %w", err)
		}
		*id = PrinterID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("printer id must be a string or number, got %s", data)
	}
	*id = PrinterID(n.String())
	return nil
}

type Printer struct {
	ID   PrinterID `json:"id"`
	Name string    `json:"name"`
}

type PrintState string

const (
	PrintStateIdle     PrintState = "Idle"
	PrintStatePrinting PrintState = "Printing"
	PrintStatePaused   PrintState = "Paused"
)

// Spoken renders the state the way it is read back to the user.
func (s PrintState) Spoken() string {
	return strings.ToLower(string(s))
}

type PrintProgress struct {
	Percent float64 `json:"percent"`
}

// PrinterState is what the printer reports about its current job. Progress
// is nil when the printer does not report it. TimeRemaining is in seconds.
type PrinterState struct {
	State         PrintState     `json:"state"`
	Progress      *PrintProgress `json:"progress,omitempty"`
	TimeRemaining *int           `json:"time_remaining,omitempty"`
}

func (s PrinterState) IsPrinting() bool {
	return s.State == PrintStatePrinting
}

// HasTimeRemaining treats a zero estimate the same as a missing one.
func (s PrinterState) HasTimeRemaining() bool {
	return s.TimeRemaining != nil && *s.TimeRemaining > 0
}

func (s PrinterState) RemainingSeconds() int {
	if s.TimeRemaining == nil {
		return 0
	}
	return *s.TimeRemaining
}

type WebcamSnapshot struct {
	URL string `json:"url,omitempty"`
}

func (s WebcamSnapshot) Available() bool {
	return strings.TrimSpace(s.URL) != ""
}
