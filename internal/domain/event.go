package domain

import "strings"

type EventType string

const (
	EventPrintFinished EventType = "PrintFinished"
	EventPrintFailed   EventType = "PrintFailed"
	EventPrintStarted  EventType = "PrintStarted"
	EventPrintPaused   EventType = "PrintPaused"
	EventPrintResumed  EventType = "PrintResumed"
)

const fallbackPrinterName = "your printer"

type EventPrinter struct {
	ID   PrinterID `json:"id"`
	Name string    `json:"name"`
}

type NotificationEvent struct {
	Type    EventType     `json:"type"`
	Printer *EventPrinter `json:"printer,omitempty"`
}

func (e NotificationEvent) PrinterID() PrinterID {
	if e.Printer == nil {
		return ""
	}
	return e.Printer.ID
}

func (e NotificationEvent) PrinterName() string {
	if e.Printer == nil || strings.TrimSpace(e.Printer.Name) == "" {
		return fallbackPrinterName
	}
	return e.Printer.Name
}

// Message returns the notification body for the event, or false when the
// event type is not one we notify about.
func (e NotificationEvent) Message() (string, bool) {
	name := e.PrinterName()

	switch e.Type {
	case EventPrintFinished:
		return name + " just finished printing!", true
	case EventPrintFailed:
		return name + " encountered an error and stopped printing.", true
	case EventPrintStarted:
		return name + " has started printing.", true
	case EventPrintPaused:
		return name + " has been paused.", true
	case EventPrintResumed:
		return name + " has resumed printing.", true
	default:
		return "", false
	}
}
