package application

import (
	"context"
	"errors"
	"fmt"

	"github.com/highvoltag3/BamVoo/internal/domain"
	xlog "github.com/highvoltag3/BamVoo/internal/log"
	"github.com/highvoltag3/BamVoo/internal/metrics"
	"github.com/highvoltag3/BamVoo/internal/ports"
)

var errNoHandler = errors.New("no handler matches request")

const (
	fallbackSpeech = "Sorry, I had trouble doing what you asked. Please try again."
	askReprompt    = "What would you like to know about your printer?"
)

type HandleFunc func(ctx context.Context, req Request, state *domain.SessionState) (Response, error)

type Handler struct {
	Name    string
	Matches func(Request) bool
	Handle  HandleFunc
}

// Skill routes conversational requests to the first registered handler that
// matches. Handler errors and panics fall through to a generic apology and the
// session state from before the turn is kept.
type Skill struct {
	api      ports.PrinterAPI
	handlers []Handler
}

func NewSkill(api ports.PrinterAPI) (*Skill, error) {
	if api == nil {
		return nil, errors.New("printer api is nil")
	}

	s := &Skill{api: api}
	s.handlers = []Handler{
		{Name: "Launch", Matches: requestTypeIs(RequestLaunch), Handle: s.launch},
		{Name: "GetPrinters", Matches: intentIs(IntentGetPrinters), Handle: s.discoverPrinters},
		{Name: "PrinterSelection", Matches: intentIs(IntentSelectPrinter), Handle: s.selectPrinter},
		{Name: "GetPrinterStatus", Matches: intentIs(IntentGetPrinterStatus), Handle: s.printerStatus},
		{Name: "GetPrintProgress", Matches: intentIs(IntentGetPrintProgress), Handle: s.printProgress},
		{Name: "GetTimeRemaining", Matches: intentIs(IntentGetTimeRemaining), Handle: s.timeRemaining},
		{Name: "GetWebcamSnapshot", Matches: intentIs(IntentGetWebcamSnapshot), Handle: s.webcamSnapshot},
		{Name: "Help", Matches: intentIs(IntentHelp), Handle: s.help},
		{Name: "CancelAndStop", Matches: intentIs(IntentCancel, IntentStop), Handle: s.goodbye},
		{Name: "SessionEnded", Matches: requestTypeIs(RequestSessionEnded), Handle: s.sessionEnded},
	}

	return s, nil
}

// Handlers returns the registered handlers in match order.
func (s *Skill) Handlers() []Handler {
	handlers := make([]Handler, len(s.handlers))
	copy(handlers, s.handlers)
	return handlers
}

func (s *Skill) Handle(ctx context.Context, req Request, state domain.SessionState) Turn {
	logger := xlog.WithComponentFromContext(ctx, "skill")
	if req.SessionID != "" {
		logger = logger.With().Str(xlog.FieldSessionID, req.SessionID).Logger()
	}

	handler, ok := s.match(req)
	if !ok {
		logger.Warn().
			Err(errNoHandler).
			Str(xlog.FieldEvent, "turn.unhandled").
			Str("request_type", string(req.Type)).
			Str(xlog.FieldIntent, req.Intent).
			Msg("no handler for request")
		metrics.RecordTurn("Unhandled", metrics.OutcomeFallback)
		return Turn{Response: fallbackResponse(), State: state}
	}

	working := state.Clone()
	resp, err := invoke(ctx, handler, req, &working)
	if err != nil {
		logger.Error().
			Err(err).
			Str(xlog.FieldEvent, "turn.failed").
			Str("handler", handler.Name).
			Str(xlog.FieldIntent, req.Intent).
			Msg("handler failed")
		metrics.RecordTurn(handler.Name, metrics.OutcomeFallback)
		return Turn{Response: fallbackResponse(), State: state}
	}

	metrics.RecordTurn(handler.Name, metrics.OutcomeOK)
	return Turn{Response: resp, State: working}
}

func (s *Skill) match(req Request) (Handler, bool) {
	for _, handler := range s.handlers {
		if handler.Matches(req) {
			return handler, true
		}
	}
	return Handler{}, false
}

func invoke(ctx context.Context, handler Handler, req Request, state *domain.SessionState) (resp Response, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			err = fmt.Errorf("handler %s panicked: %v", handler.Name, rec)
		}
	}()

	return handler.Handle(ctx, req, state)
}

func fallbackResponse() Response {
	return Response{Speech: fallbackSpeech, Reprompt: askReprompt}
}

func requestTypeIs(t RequestType) func(Request) bool {
	return func(req Request) bool {
		return req.Type == t
	}
}

func intentIs(names ...string) func(Request) bool {
	return func(req Request) bool {
		return req.IsIntent(names...)
	}
}
