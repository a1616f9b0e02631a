package application

import (
	"github.com/highvoltag3/BamVoo/internal/domain"
)

type RequestType string

const (
	RequestLaunch       RequestType = "LaunchRequest"
	RequestIntent       RequestType = "IntentRequest"
	RequestSessionEnded RequestType = "SessionEndedRequest"
)

const (
	IntentGetPrinters       = "GetPrintersIntent"
	IntentSelectPrinter     = "PrinterSelectionIntent"
	IntentGetPrinterStatus  = "GetPrinterStatusIntent"
	IntentGetPrintProgress  = "GetPrintProgressIntent"
	IntentGetTimeRemaining  = "GetTimeRemainingIntent"
	IntentGetWebcamSnapshot = "GetWebcamSnapshotIntent"
	IntentHelp              = "AMAZON.HelpIntent"
	IntentCancel            = "AMAZON.CancelIntent"
	IntentStop              = "AMAZON.StopIntent"

	SlotPrinterName = "PrinterName"
)

type Request struct {
	Type      RequestType
	Intent    string
	Slots     map[string]string
	SessionID string
}

func (r Request) IsIntent(names ...string) bool {
	if r.Type != RequestIntent {
		return false
	}
	for _, name := range names {
		if r.Intent == name {
			return true
		}
	}
	return false
}

func (r Request) Slot(name string) string {
	return r.Slots[name]
}

// ImageDirective asks a screen-capable device to show an image.
type ImageDirective struct {
	URL string
}

type Response struct {
	Speech     string
	Reprompt   string
	Image      *ImageDirective
	EndSession bool
}

// Turn is the outcome of one request: what to say and the session state to
// carry into the next request.
type Turn struct {
	Response Response
	State    domain.SessionState
}
