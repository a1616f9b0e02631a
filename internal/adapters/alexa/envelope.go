package alexa

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/highvoltag3/BamVoo/internal/application"
	"github.com/highvoltag3/BamVoo/internal/domain"
)

const (
	envelopeVersion = "1.0"

	aplDirectiveType = "Alexa.Presentation.APL.RenderDocument"
	aplVersion       = "1.8"
	aplImageSource   = "${payload.imageUrl}"
)

var ErrInvalidEnvelope = errors.New("invalid request envelope")

type RequestEnvelope struct {
	Version string      `json:"version"`
	Session Session     `json:"session"`
	Request RequestBody `json:"request"`
}

type Session struct {
	New        bool            `json:"new"`
	SessionID  string          `json:"sessionId"`
	Attributes json.RawMessage `json:"attributes,omitempty"`
	User       User            `json:"user"`
}

type User struct {
	UserID string `json:"userId"`
}

type RequestBody struct {
	Type      string  `json:"type"`
	RequestID string  `json:"requestId"`
	Intent    *Intent `json:"intent,omitempty"`
}

type Intent struct {
	Name  string          `json:"name"`
	Slots map[string]Slot `json:"slots,omitempty"`
}

type Slot struct {
	Name  string `json:"name"`
	Value string `json:"value,omitempty"`
}

type ResponseEnvelope struct {
	Version           string              `json:"version"`
	SessionAttributes domain.SessionState `json:"sessionAttributes"`
	Response          ResponseBody        `json:"response"`
}

type ResponseBody struct {
	OutputSpeech     *OutputSpeech `json:"outputSpeech,omitempty"`
	Reprompt         *Reprompt     `json:"reprompt,omitempty"`
	Directives       []Directive   `json:"directives,omitempty"`
	ShouldEndSession *bool         `json:"shouldEndSession,omitempty"`
}

type OutputSpeech struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type Reprompt struct {
	OutputSpeech OutputSpeech `json:"outputSpeech"`
}

type Directive struct {
	Type        string         `json:"type"`
	Token       string         `json:"token,omitempty"`
	Document    APLDocument    `json:"document"`
	Datasources map[string]any `json:"datasources,omitempty"`
}

type APLDocument struct {
	Type         string          `json:"type"`
	Version      string          `json:"version"`
	MainTemplate APLMainTemplate `json:"mainTemplate"`
}

type APLMainTemplate struct {
	Parameters []string  `json:"parameters"`
	Items      []APLItem `json:"items"`
}

type APLItem struct {
	Type   string `json:"type"`
	Source string `json:"source"`
	Width  string `json:"width"`
	Height string `json:"height"`
}

// DecodeRequest parses a request envelope. Unknown fields are ignored since
// the platform adds fields over time.
func DecodeRequest(body []byte) (RequestEnvelope, error) {
	var envelope RequestEnvelope
	if err := json.Unmarshal(body, &envelope); err != nil {
		return RequestEnvelope{}, fmt.Errorf("%w: %w", ErrInvalidEnvelope, err)
	}
	if envelope.Request.Type == "" {
		return RequestEnvelope{}, fmt.Errorf("%w: request type is required", ErrInvalidEnvelope)
	}
	return envelope, nil
}

// Turn converts the envelope into a skill request and the session state it
// carries. A new session starts from empty state whatever attributes it has.
func (e RequestEnvelope) Turn() (application.Request, domain.SessionState, error) {
	req := application.Request{
		Type:      application.RequestType(e.Request.Type),
		SessionID: e.Session.SessionID,
	}
	if e.Request.Intent != nil {
		req.Intent = e.Request.Intent.Name
		if len(e.Request.Intent.Slots) > 0 {
			req.Slots = make(map[string]string, len(e.Request.Intent.Slots))
			for key, slot := range e.Request.Intent.Slots {
				name := slot.Name
				if name == "" {
					name = key
				}
				req.Slots[name] = slot.Value
			}
		}
	}

	var state domain.SessionState
	attributes := bytes.TrimSpace(e.Session.Attributes)
	if e.Session.New || len(attributes) == 0 || bytes.Equal(attributes, []byte("null")) {
		return req, state, nil
	}
	if err := json.Unmarshal(attributes, &state); err != nil {
		return application.Request{}, domain.SessionState{}, fmt.Errorf("%w: session attributes: %w", ErrInvalidEnvelope, err)
	}

	return req, state, nil
}

// EncodeTurn renders a turn as a response envelope. A reprompt keeps the
// session open; without one the platform decides.
func EncodeTurn(turn application.Turn) ResponseEnvelope {
	resp := turn.Response
	body := ResponseBody{}

	if resp.Speech != "" {
		body.OutputSpeech = plainText(resp.Speech)
	}
	if resp.Reprompt != "" {
		body.Reprompt = &Reprompt{OutputSpeech: *plainText(resp.Reprompt)}
		body.ShouldEndSession = boolPtr(false)
	}
	if resp.EndSession {
		body.ShouldEndSession = boolPtr(true)
	}
	if resp.Image != nil {
		body.Directives = append(body.Directives, imageDirective(resp.Image.URL))
	}

	return ResponseEnvelope{
		Version:           envelopeVersion,
		SessionAttributes: turn.State,
		Response:          body,
	}
}

func imageDirective(url string) Directive {
	return Directive{
		Type:  aplDirectiveType,
		Token: "webcamSnapshot",
		Document: APLDocument{
			Type:    "APL",
			Version: aplVersion,
			MainTemplate: APLMainTemplate{
				Parameters: []string{"payload"},
				Items: []APLItem{{
					Type:   "Image",
					Source: aplImageSource,
					Width:  "100%",
					Height: "100%",
				}},
			},
		},
		Datasources: map[string]any{
			"payload": map[string]string{"imageUrl": url},
		},
	}
}

func plainText(text string) *OutputSpeech {
	return &OutputSpeech{Type: "PlainText", Text: text}
}

func boolPtr(v bool) *bool {
	return &v
}
