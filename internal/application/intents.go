package application

import (
	"context"
	"fmt"

	"github.com/highvoltag3/BamVoo/internal/domain"
	xlog "github.com/highvoltag3/BamVoo/internal/log"
)

const (
	welcomeSpeech = `Welcome to BamVoo. You can ask me about your printer status, progress, or time remaining. For example, say "How far along is my X1C?" or "What's the status of my Mini?"`
	helpSpeech    = `You can ask me to check your printers, get print status, progress, or time remaining. For example, say "Check my printers", "How far along is my X1C?", or "What's the status of my Mini?". You can also ask for a webcam snapshot by saying "Show me a snapshot from my printer".`

	noPrintersSpeech        = "No printers found. Please make sure your printers are connected to OctoEverywhere."
	fetchPrintersFailed     = "Sorry, I couldn't fetch your printers right now. Please try again later."
	discoverFirstSpeech     = "Please ask me to check your printers first."
	specifyPrinterSpeech    = `Please specify which printer you want to check. You can say "check my printers" to see available options.`
	askAboutPrinterReprompt = "You can ask about status, progress, or time remaining."
	whichPrinterReprompt    = "Which printer would you like to check?"
	specifyPrinterReprompt  = "Please specify which printer you want to check."
	goodbyeSpeech           = "Goodbye!"
)

func (s *Skill) launch(_ context.Context, _ Request, _ *domain.SessionState) (Response, error) {
	return Response{Speech: welcomeSpeech, Reprompt: askReprompt}, nil
}

func (s *Skill) help(_ context.Context, _ Request, _ *domain.SessionState) (Response, error) {
	return Response{Speech: helpSpeech, Reprompt: askReprompt}, nil
}

func (s *Skill) goodbye(_ context.Context, _ Request, _ *domain.SessionState) (Response, error) {
	return Response{Speech: goodbyeSpeech, EndSession: true}, nil
}

func (s *Skill) sessionEnded(ctx context.Context, req Request, _ *domain.SessionState) (Response, error) {
	logger := xlog.WithComponentFromContext(ctx, "skill")
	logger.Info().
		Str(xlog.FieldEvent, "session.ended").
		Str(xlog.FieldSessionID, req.SessionID).
		Msg("session ended")

	return Response{}, nil
}

func (s *Skill) discoverPrinters(ctx context.Context, _ Request, state *domain.SessionState) (Response, error) {
	printers, err := s.api.ListPrinters(ctx)
	if err != nil {
		logUpstreamFailure(ctx, "list_printers", "", err)
		return Response{Speech: fetchPrintersFailed}, nil
	}

	switch len(printers) {
	case 0:
		return Response{Speech: noPrintersSpeech}, nil
	case 1:
		printer := printers[0]
		state.Select(printer)
		return Response{
			Speech:   fmt.Sprintf("Found your printer: %s. What would you like to know about it?", printer.Name),
			Reprompt: askAboutPrinterReprompt,
		}, nil
	default:
		state.OfferCandidates(printers)
		return Response{
			Speech:   fmt.Sprintf("You have %d printers: %s. Which one would you like to check?", len(printers), domain.PrinterNames(printers)),
			Reprompt: specifyPrinterReprompt,
		}, nil
	}
}

func (s *Skill) selectPrinter(_ context.Context, req Request, state *domain.SessionState) (Response, error) {
	if !state.HasCandidates() {
		return Response{Speech: discoverFirstSpeech}, nil
	}

	spoken := req.Slot(SlotPrinterName)
	printer, ok := domain.MatchPrinter(state.AvailablePrinters, spoken)
	if !ok {
		return Response{
			Speech:   fmt.Sprintf("I couldn't find a printer named %s. Please try again.", spoken),
			Reprompt: whichPrinterReprompt,
		}, nil
	}

	state.Select(printer)
	return Response{
		Speech:   fmt.Sprintf("Selected %s. What would you like to know about it?", printer.Name),
		Reprompt: askAboutPrinterReprompt,
	}, nil
}

func (s *Skill) printerStatus(ctx context.Context, _ Request, state *domain.SessionState) (Response, error) {
	printer, ok := state.Selected()
	if !ok {
		return Response{Speech: specifyPrinterSpeech}, nil
	}

	current, err := s.api.GetPrinterState(ctx, printer.ID)
	if err != nil {
		logUpstreamFailure(ctx, "get_printer_state", printer.ID, err)
		return Response{Speech: fmt.Sprintf("Sorry, I couldn't get the status of %s right now. Please try again later.", printer.Name)}, nil
	}

	speech := fmt.Sprintf("%s is currently %s", printer.Name, current.State.Spoken())
	if current.IsPrinting() && current.Progress != nil {
		speech += fmt.Sprintf(". The print is %s complete", domain.FormatProgress(current.Progress.Percent))
		if current.HasTimeRemaining() {
			speech += fmt.Sprintf(" with %s remaining", domain.FormatTimeRemaining(current.RemainingSeconds()))
		}
	}

	return Response{Speech: speech + "."}, nil
}

func (s *Skill) printProgress(ctx context.Context, _ Request, state *domain.SessionState) (Response, error) {
	printer, ok := state.Selected()
	if !ok {
		return Response{Speech: specifyPrinterSpeech}, nil
	}

	current, err := s.api.GetPrinterState(ctx, printer.ID)
	if err != nil {
		logUpstreamFailure(ctx, "get_printer_state", printer.ID, err)
		return Response{Speech: fmt.Sprintf("Sorry, I couldn't get the progress of %s right now. Please try again later.", printer.Name)}, nil
	}

	if !current.IsPrinting() {
		return notPrinting(printer, current), nil
	}
	if current.Progress == nil {
		return Response{Speech: fmt.Sprintf("%s is printing, but I don't have progress information available.", printer.Name)}, nil
	}

	speech := fmt.Sprintf("%s is %s complete", printer.Name, domain.FormatProgress(current.Progress.Percent))
	if current.HasTimeRemaining() {
		speech += fmt.Sprintf(" with %s remaining", domain.FormatTimeRemaining(current.RemainingSeconds()))
	}

	return Response{Speech: speech + "."}, nil
}

func (s *Skill) timeRemaining(ctx context.Context, _ Request, state *domain.SessionState) (Response, error) {
	printer, ok := state.Selected()
	if !ok {
		return Response{Speech: specifyPrinterSpeech}, nil
	}

	current, err := s.api.GetPrinterState(ctx, printer.ID)
	if err != nil {
		logUpstreamFailure(ctx, "get_printer_state", printer.ID, err)
		return Response{Speech: fmt.Sprintf("Sorry, I couldn't get the time remaining for %s right now. Please try again later.", printer.Name)}, nil
	}

	if !current.IsPrinting() {
		return notPrinting(printer, current), nil
	}
	if !current.HasTimeRemaining() {
		return Response{Speech: fmt.Sprintf("%s is printing, but I don't have time remaining information available.", printer.Name)}, nil
	}

	progress := "unknown progress"
	if current.Progress != nil {
		progress = domain.FormatProgress(current.Progress.Percent)
	}

	return Response{
		Speech: fmt.Sprintf("%s has %s remaining and is %s complete.", printer.Name, domain.FormatTimeRemaining(current.RemainingSeconds()), progress),
	}, nil
}

func (s *Skill) webcamSnapshot(ctx context.Context, _ Request, state *domain.SessionState) (Response, error) {
	printer, ok := state.Selected()
	if !ok {
		return Response{Speech: specifyPrinterSpeech}, nil
	}

	snapshot, err := s.api.GetWebcamSnapshot(ctx, printer.ID)
	if err != nil {
		logUpstreamFailure(ctx, "get_webcam_snapshot", printer.ID, err)
		return Response{Speech: fmt.Sprintf("Sorry, I couldn't get a snapshot from %s right now. Please try again later.", printer.Name)}, nil
	}

	if !snapshot.Available() {
		return Response{Speech: fmt.Sprintf("%s doesn't have a webcam or the snapshot is not available.", printer.Name)}, nil
	}

	return Response{
		Speech: fmt.Sprintf("I've captured a snapshot from %s. You can view it in the Alexa app.", printer.Name),
		Image:  &ImageDirective{URL: snapshot.URL},
	}, nil
}

func notPrinting(printer domain.Printer, current domain.PrinterState) Response {
	return Response{Speech: fmt.Sprintf("%s is not currently printing. It's %s.", printer.Name, current.State.Spoken())}
}

func logUpstreamFailure(ctx context.Context, operation string, printerID domain.PrinterID, err error) {
	logger := xlog.WithComponentFromContext(ctx, "skill")
	event := logger.Warn().
		Err(err).
		Str(xlog.FieldEvent, "printer_api.failed").
		Str("operation", operation)
	if printerID != "" {
		event = event.Str(xlog.FieldPrinterID, string(printerID))
	}
	event.Msg("printer api call failed")
}
