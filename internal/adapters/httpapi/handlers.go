package httpapi

import (
	"encoding/json"
	"io"
	"net/http"

	"github.com/highvoltag3/BamVoo/internal/adapters/alexa"
	"github.com/highvoltag3/BamVoo/internal/domain"
	xlog "github.com/highvoltag3/BamVoo/internal/log"
)

const invalidPayloadMessage = "Invalid payload"

func handleHealthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

func (s *Server) handleSkill(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorBody{Error: invalidPayloadMessage})
		return
	}

	envelope, err := alexa.DecodeRequest(body)
	if err != nil {
		rejectPayload(w, r, "skill", err)
		return
	}
	req, state, err := envelope.Turn()
	if err != nil {
		rejectPayload(w, r, "skill", err)
		return
	}

	turn := s.skill.Handle(r.Context(), req, state)
	writeJSON(w, http.StatusOK, alexa.EncodeTurn(turn))
}

func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var event domain.NotificationEvent
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBytes))
	if err := decoder.Decode(&event); err != nil {
		rejectPayload(w, r, "webhook", err)
		return
	}

	logger := xlog.WithComponentFromContext(r.Context(), "webhook")
	logger.Info().
		Str(xlog.FieldEvent, "webhook.received").
		Str(xlog.FieldEventType, string(event.Type)).
		Str(xlog.FieldPrinterID, string(event.PrinterID())).
		Msg("webhook event received")

	resp := s.webhook.HandleWebhook(r.Context(), event)
	writeJSON(w, resp.StatusCode, resp.Body)
}

func rejectPayload(w http.ResponseWriter, r *http.Request, component string, err error) {
	logger := xlog.WithComponentFromContext(r.Context(), component)
	logger.Warn().
		Err(err).
		Str(xlog.FieldEvent, component+".invalid_payload").
		Msg("rejecting malformed request body")
	writeJSON(w, http.StatusBadRequest, errorBody{Error: invalidPayloadMessage})
}
