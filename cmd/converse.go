package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/highvoltag3/BamVoo/internal/adapters/render/transcript"
	"github.com/highvoltag3/BamVoo/internal/application"
	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/spf13/cobra"
)

var defaultConversation = []string{"launch", "printers", "status", "progress", "time", "help", "stop"}

var stepIntents = map[string]string{
	"printers": application.IntentGetPrinters,
	"status":   application.IntentGetPrinterStatus,
	"progress": application.IntentGetPrintProgress,
	"time":     application.IntentGetTimeRemaining,
	"webcam":   application.IntentGetWebcamSnapshot,
	"help":     application.IntentHelp,
	"cancel":   application.IntentCancel,
	"stop":     application.IntentStop,
}

func newConverseCmd(app *app) *cobra.Command {
	var steps []string
	var printer string
	var showState bool
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "converse",
		Short: "Run a scripted conversation against your printers",
		Long: `converse plays a sequence of turns through the skill in a single session and prints the transcript.

Steps: launch, printers, select <name>, status, progress, time, webcam, help, cancel, stop, end,
or a raw intent name followed by Slot=value pairs.`,
		Example: `  bamvoo converse
  bamvoo converse --printer X1C
  bamvoo converse --step printers --step "select mini" --step webcam`,
		RunE: func(cmd *cobra.Command, _ []string) error {
			script := steps
			if len(script) == 0 {
				script = defaultScript(printer)
			}

			requests, err := parseConversation(script)
			if err != nil {
				return err
			}

			skill, err := app.skill(cmd.Context())
			if err != nil {
				return err
			}
			session := newScriptedSession(skill, requests)

			if asJSON {
				return writeConversationJSON(cmd, session.run(cmd.Context()))
			}

			exchanges, err := runConversationSpinner(cmd.Context(), cmd.ErrOrStderr(), session)
			if err != nil {
				return err
			}

			output, err := app.transcriptRenderer(exchanges, transcript.RenderOptions{ShowState: showState})
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), output)
			return err
		},
	}

	cmd.Flags().StringArrayVar(&steps, "step", nil, "Conversation step (repeatable, replaces the default script)")
	cmd.Flags().StringVar(&printer, "printer", "", "Select this printer after discovery in the default script")
	cmd.Flags().BoolVar(&showState, "show-state", false, "Print session attributes after each turn")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Render JSON output")

	return cmd
}

func defaultScript(printer string) []string {
	if strings.TrimSpace(printer) == "" {
		return defaultConversation
	}

	script := make([]string, 0, len(defaultConversation)+1)
	for _, step := range defaultConversation {
		script = append(script, step)
		if step == "printers" {
			script = append(script, "select "+printer)
		}
	}
	return script
}

type scriptedRequest struct {
	utterance string
	request   application.Request
}

func parseConversation(steps []string) ([]scriptedRequest, error) {
	requests := make([]scriptedRequest, 0, len(steps))
	for _, step := range steps {
		req, err := parseStep(step)
		if err != nil {
			return nil, err
		}
		requests = append(requests, scriptedRequest{utterance: strings.TrimSpace(step), request: req})
	}
	return requests, nil
}

func parseStep(step string) (application.Request, error) {
	fields := strings.Fields(step)
	if len(fields) == 0 {
		return application.Request{}, errors.New("conversation step is empty")
	}

	keyword := strings.ToLower(fields[0])
	rest := strings.TrimSpace(strings.TrimPrefix(strings.TrimSpace(step), fields[0]))

	switch keyword {
	case "launch", "open":
		return application.Request{Type: application.RequestLaunch}, nil
	case "end":
		return application.Request{Type: application.RequestSessionEnded}, nil
	case "select", "use":
		if rest == "" {
			return application.Request{}, fmt.Errorf("step %q: printer name is required", step)
		}
		return intentRequest(application.IntentSelectPrinter, map[string]string{application.SlotPrinterName: rest}), nil
	}

	if intent, ok := stepIntents[keyword]; ok {
		return intentRequest(intent, nil), nil
	}

	if strings.HasSuffix(fields[0], "Intent") {
		slots := map[string]string{}
		for _, pair := range fields[1:] {
			name, value, ok := strings.Cut(pair, "=")
			if !ok || name == "" {
				return application.Request{}, fmt.Errorf("step %q: slot %q must be Name=value", step, pair)
			}
			slots[name] = value
		}
		return intentRequest(fields[0], slots), nil
	}

	return application.Request{}, fmt.Errorf("unknown conversation step %q", step)
}

func intentRequest(intent string, slots map[string]string) application.Request {
	return application.Request{Type: application.RequestIntent, Intent: intent, Slots: slots}
}

type turnHandler interface {
	Handle(ctx context.Context, req application.Request, state domain.SessionState) application.Turn
}

// scriptedSession is a scripted conversation bound to one session id.
type scriptedSession struct {
	skill     turnHandler
	sessionID string
	requests  []scriptedRequest
}

func newScriptedSession(skill turnHandler, requests []scriptedRequest) *scriptedSession {
	return &scriptedSession{
		skill:     skill,
		sessionID: "converse." + uuid.NewString(),
		requests:  requests,
	}
}

func (s *scriptedSession) play(ctx context.Context, scripted scriptedRequest, state domain.SessionState) transcript.Exchange {
	req := scripted.request
	req.SessionID = s.sessionID

	return transcript.Exchange{
		Utterance: scripted.utterance,
		Request:   req,
		Turn:      s.skill.Handle(ctx, req, state),
	}
}

// run plays every request, threading the session state through each turn.
// It stops early when the skill ends the session.
func (s *scriptedSession) run(ctx context.Context) []transcript.Exchange {
	exchanges := make([]transcript.Exchange, 0, len(s.requests))
	for _, scripted := range s.requests {
		exchange := s.play(ctx, scripted, stateAfter(exchanges))
		exchanges = append(exchanges, exchange)
		if endsConversation(exchange) {
			break
		}
	}
	return exchanges
}

func stateAfter(exchanges []transcript.Exchange) domain.SessionState {
	if len(exchanges) == 0 {
		return domain.SessionState{}
	}
	return exchanges[len(exchanges)-1].Turn.State
}

func endsConversation(exchange transcript.Exchange) bool {
	return exchange.Turn.Response.EndSession || exchange.Request.Type == application.RequestSessionEnded
}

type conversationTurnJSON struct {
	Step       string              `json:"step"`
	Speech     string              `json:"speech,omitempty"`
	Reprompt   string              `json:"reprompt,omitempty"`
	ImageURL   string              `json:"imageUrl,omitempty"`
	EndSession bool                `json:"endSession,omitempty"`
	State      domain.SessionState `json:"state"`
}

func writeConversationJSON(cmd *cobra.Command, exchanges []transcript.Exchange) error {
	turns := make([]conversationTurnJSON, 0, len(exchanges))
	for _, exchange := range exchanges {
		resp := exchange.Turn.Response
		turn := conversationTurnJSON{
			Step:       exchange.Utterance,
			Speech:     resp.Speech,
			Reprompt:   resp.Reprompt,
			EndSession: resp.EndSession,
			State:      exchange.Turn.State,
		}
		if resp.Image != nil {
			turn.ImageURL = resp.Image.URL
		}
		turns = append(turns, turn)
	}

	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(turns)
}
