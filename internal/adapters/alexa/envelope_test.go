package alexa

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/highvoltag3/BamVoo/internal/application"
	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const selectionRequest = `{
	"version": "1.0",
	"session": {
		"new": false,
		"sessionId": "amzn1.echo-api.session.1",
		"attributes": {
			"availablePrinters": [
				{"id": "printer_1", "name": "X1C"},
				{"id": "printer_2", "name": "Mini"}
			]
		},
		"user": {"userId": "amzn1.ask.account.abc"}
	},
	"request": {
		"type": "IntentRequest",
		"requestId": "amzn1.echo-api.request.1",
		"locale": "en-US",
		"intent": {
			"name": "PrinterSelectionIntent",
			"confirmationStatus": "NONE",
			"slots": {
				"PrinterName": {"name": "PrinterName", "value": "x1c"}
			}
		}
	}
}`

func TestDecodeRequestBuildsTurnInput(t *testing.T) {
	t.Parallel()

	envelope, err := DecodeRequest([]byte(selectionRequest))
	require.NoError(t, err)

	req, state, err := envelope.Turn()
	require.NoError(t, err)

	wantReq := application.Request{
		Type:      application.RequestIntent,
		Intent:    application.IntentSelectPrinter,
		Slots:     map[string]string{application.SlotPrinterName: "x1c"},
		SessionID: "amzn1.echo-api.session.1",
	}
	if diff := cmp.Diff(wantReq, req); diff != "" {
		t.Fatalf("request mismatch (-want +got):\n%s", diff)
	}

	wantState := domain.SessionState{AvailablePrinters: []domain.Printer{
		{ID: "printer_1", Name: "X1C"},
		{ID: "printer_2", Name: "Mini"},
	}}
	if diff := cmp.Diff(wantState, state); diff != "" {
		t.Fatalf("state mismatch (-want +got):\n%s", diff)
	}
}

func TestTurnStartsNewSessionEmpty(t *testing.T) {
	t.Parallel()

	envelope, err := DecodeRequest([]byte(`{
		"session": {"new": true, "sessionId": "s1", "attributes": {"selectedPrinter": {"id": "p", "name": "Old"}}},
		"request": {"type": "LaunchRequest", "requestId": "r1"}
	}`))
	require.NoError(t, err)

	req, state, err := envelope.Turn()
	require.NoError(t, err)
	assert.Equal(t, application.RequestLaunch, req.Type)
	assert.Empty(t, req.Intent)
	assert.Equal(t, domain.SessionState{}, state)
}

func TestDecodeRequestRejectsMalformedInput(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `hello`},
		{name: "missing request type", body: `{"session": {"sessionId": "s1"}, "request": {}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			_, err := DecodeRequest([]byte(tt.body))
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidEnvelope)
		})
	}
}

func TestTurnRejectsMalformedAttributes(t *testing.T) {
	t.Parallel()

	envelope, err := DecodeRequest([]byte(`{
		"session": {"new": false, "sessionId": "s1", "attributes": {"selectedPrinter": "X1C"}},
		"request": {"type": "IntentRequest", "intent": {"name": "GetPrinterStatusIntent"}}
	}`))
	require.NoError(t, err)

	_, _, err = envelope.Turn()
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidEnvelope)
}

func TestEncodeTurnWithReprompt(t *testing.T) {
	t.Parallel()

	selected := domain.Printer{ID: "printer_1", Name: "X1C"}
	envelope := EncodeTurn(application.Turn{
		Response: application.Response{
			Speech:   "Selected X1C. What would you like to know about it?",
			Reprompt: "You can ask about status, progress, or time remaining.",
		},
		State: domain.SessionState{SelectedPrinter: &selected},
	})

	encoded, err := json.Marshal(envelope)
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"version": "1.0",
		"sessionAttributes": {"selectedPrinter": {"id": "printer_1", "name": "X1C"}},
		"response": {
			"outputSpeech": {"type": "PlainText", "text": "Selected X1C. What would you like to know about it?"},
			"reprompt": {"outputSpeech": {"type": "PlainText", "text": "You can ask about status, progress, or time remaining."}},
			"shouldEndSession": false
		}
	}`, string(encoded))
}

func TestEncodeTurnEndSessionAndEmptyResponse(t *testing.T) {
	t.Parallel()

	goodbye := EncodeTurn(application.Turn{Response: application.Response{Speech: "Goodbye!", EndSession: true}})
	require.NotNil(t, goodbye.Response.ShouldEndSession)
	assert.True(t, *goodbye.Response.ShouldEndSession)

	ended := EncodeTurn(application.Turn{})
	want := ResponseEnvelope{Version: "1.0"}
	if diff := cmp.Diff(want, ended); diff != "" {
		t.Fatalf("empty envelope mismatch (-want +got):\n%s", diff)
	}
}

func TestEncodeTurnRendersImageDirective(t *testing.T) {
	t.Parallel()

	envelope := EncodeTurn(application.Turn{Response: application.Response{
		Speech: "I've captured a snapshot from X1C. You can view it in the Alexa app.",
		Image:  &application.ImageDirective{URL: "https://example.com/snapshot.jpg"},
	}})

	require.Len(t, envelope.Response.Directives, 1)
	directive := envelope.Response.Directives[0]

	want := Directive{
		Type:  "Alexa.Presentation.APL.RenderDocument",
		Token: "webcamSnapshot",
		Document: APLDocument{
			Type:    "APL",
			Version: "1.8",
			MainTemplate: APLMainTemplate{
				Parameters: []string{"payload"},
				Items: []APLItem{{
					Type:   "Image",
					Source: "${payload.imageUrl}",
					Width:  "100%",
					Height: "100%",
				}},
			},
		},
		Datasources: map[string]any{
			"payload": map[string]string{"imageUrl": "https://example.com/snapshot.jpg"},
		},
	}
	if diff := cmp.Diff(want, directive); diff != "" {
		t.Fatalf("directive mismatch (-want +got):\n%s", diff)
	}
	assert.Nil(t, envelope.Response.ShouldEndSession)
}
