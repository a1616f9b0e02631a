package httpapi

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/highvoltag3/BamVoo/internal/adapters/alexa"
	"github.com/highvoltag3/BamVoo/internal/application"
	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/highvoltag3/BamVoo/internal/ports/mocks"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

type fakeWebhook struct {
	events []domain.NotificationEvent
	resp   application.WebhookResponse
}

func (f *fakeWebhook) HandleWebhook(_ context.Context, event domain.NotificationEvent) application.WebhookResponse {
	f.events = append(f.events, event)
	return f.resp
}

type panickingSkill struct{}

func (panickingSkill) Handle(context.Context, application.Request, domain.SessionState) application.Turn {
	panic("skill exploded")
}

func anyContext() any {
	return mock.MatchedBy(func(context.Context) bool { return true })
}

func newTestServer(t *testing.T, cfg Config, webhook WebhookHandler) (*Server, *mocks.MockPrinterAPI) {
	t.Helper()

	api := mocks.NewMockPrinterAPI(t)
	skill, err := application.NewSkill(api)
	require.NoError(t, err)

	if webhook == nil {
		webhook = &fakeWebhook{resp: application.WebhookResponse{StatusCode: http.StatusOK, Body: application.WebhookBody{Message: "Event processed successfully"}}}
	}

	srv, err := New(cfg, skill, webhook)
	require.NoError(t, err)
	return srv, api
}

func postJSON(t *testing.T, handler http.Handler, path string, body string) *httptest.ResponseRecorder {
	t.Helper()

	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	req.RemoteAddr = "203.0.113.7:4242"
	recorder := httptest.NewRecorder()
	handler.ServeHTTP(recorder, req)
	return recorder
}

func TestNewRejectsNilHandlers(t *testing.T) {
	_, err := New(Config{}, nil, &fakeWebhook{})
	require.Error(t, err)

	api := mocks.NewMockPrinterAPI(t)
	skill, err := application.NewSkill(api)
	require.NoError(t, err)
	_, err = New(Config{}, skill, nil)
	require.Error(t, err)
}

func TestHealthz(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)

	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Equal(t, "ok", recorder.Body.String())
	assert.NotEmpty(t, recorder.Header().Get(HeaderRequestID))
}

func TestMetricsEndpointExposesCollectors(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)

	srv.Handler().ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/healthz", nil))
	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/metrics", nil))

	assert.Equal(t, http.StatusOK, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "bamvoo_http_request_duration_seconds")
}

func TestRequestIDIsEchoed(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)

	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set(HeaderRequestID, "req-123")
	recorder := httptest.NewRecorder()
	srv.Handler().ServeHTTP(recorder, req)

	assert.Equal(t, "req-123", recorder.Header().Get(HeaderRequestID))
}

func TestSkillEndpointCarriesSessionAcrossTurns(t *testing.T) {
	srv, api := newTestServer(t, Config{}, nil)
	api.On("ListPrinters", anyContext()).Return([]domain.Printer{
		{ID: "printer_1", Name: "X1C"},
		{ID: "printer_2", Name: "Mini"},
	}, nil).Once()
	api.On("GetPrinterState", anyContext(), domain.PrinterID("printer_1")).Return(domain.PrinterState{
		State:         domain.PrintStatePrinting,
		Progress:      &domain.PrintProgress{Percent: 52.5},
		TimeRemaining: func() *int { v := 1500; return &v }(),
	}, nil).Once()

	discover := postJSON(t, srv.Handler(), "/skill", `{
		"session": {"new": true, "sessionId": "s1"},
		"request": {"type": "IntentRequest", "requestId": "r1", "intent": {"name": "GetPrintersIntent"}}
	}`)
	require.Equal(t, http.StatusOK, discover.Code)

	var first alexa.ResponseEnvelope
	require.NoError(t, json.Unmarshal(discover.Body.Bytes(), &first))
	require.NotNil(t, first.Response.OutputSpeech)
	assert.Contains(t, first.Response.OutputSpeech.Text, "You have 2 printers: X1C, Mini")

	attributes, err := json.Marshal(first.SessionAttributes)
	require.NoError(t, err)

	selectBody := `{
		"session": {"new": false, "sessionId": "s1", "attributes": ` + string(attributes) + `},
		"request": {"type": "IntentRequest", "requestId": "r2", "intent": {"name": "PrinterSelectionIntent", "slots": {"PrinterName": {"name": "PrinterName", "value": "x1c"}}}}
	}`
	selected := postJSON(t, srv.Handler(), "/skill", selectBody)
	require.Equal(t, http.StatusOK, selected.Code)

	var second alexa.ResponseEnvelope
	require.NoError(t, json.Unmarshal(selected.Body.Bytes(), &second))
	require.NotNil(t, second.SessionAttributes.SelectedPrinter)
	assert.Equal(t, "X1C", second.SessionAttributes.SelectedPrinter.Name)
	assert.Empty(t, second.SessionAttributes.AvailablePrinters)

	attributes, err = json.Marshal(second.SessionAttributes)
	require.NoError(t, err)

	status := postJSON(t, srv.Handler(), "/skill", `{
		"session": {"new": false, "sessionId": "s1", "attributes": `+string(attributes)+`},
		"request": {"type": "IntentRequest", "requestId": "r3", "intent": {"name": "GetPrinterStatusIntent"}}
	}`)
	require.Equal(t, http.StatusOK, status.Code)

	var third alexa.ResponseEnvelope
	require.NoError(t, json.Unmarshal(status.Body.Bytes(), &third))
	assert.Contains(t, third.Response.OutputSpeech.Text, "53 percent complete")
	assert.Contains(t, third.Response.OutputSpeech.Text, "25 minutes remaining")
}

func TestSkillEndpointRejectsMalformedEnvelope(t *testing.T) {
	srv, _ := newTestServer(t, Config{}, nil)

	recorder := postJSON(t, srv.Handler(), "/skill", `{"request":`)

	assert.Equal(t, http.StatusBadRequest, recorder.Code)
	assert.JSONEq(t, `{"error":"Invalid payload"}`, recorder.Body.String())
}

func TestWebhookEndpoint(t *testing.T) {
	t.Run("forwards decoded event", func(t *testing.T) {
		webhook := &fakeWebhook{resp: application.WebhookResponse{
			StatusCode: http.StatusOK,
			Body:       application.WebhookBody{Message: "Event processed successfully"},
		}}
		srv, _ := newTestServer(t, Config{}, webhook)

		recorder := postJSON(t, srv.Handler(), "/webhook", `{"type":"PrintFinished","printer":{"id":"printer_1","name":"X1C"}}`)

		assert.Equal(t, http.StatusOK, recorder.Code)
		assert.JSONEq(t, `{"message":"Event processed successfully"}`, recorder.Body.String())
		require.Len(t, webhook.events, 1)
		assert.Equal(t, domain.EventPrintFinished, webhook.events[0].Type)
		assert.Equal(t, domain.PrinterID("printer_1"), webhook.events[0].PrinterID())
	})

	t.Run("propagates failure status", func(t *testing.T) {
		webhook := &fakeWebhook{resp: application.WebhookResponse{
			StatusCode: http.StatusInternalServerError,
			Body:       application.WebhookBody{Error: "Failed to process event"},
		}}
		srv, _ := newTestServer(t, Config{}, webhook)

		recorder := postJSON(t, srv.Handler(), "/webhook", `{"type":"PrintFailed","printer":{"id":"printer_1"}}`)

		assert.Equal(t, http.StatusInternalServerError, recorder.Code)
		assert.JSONEq(t, `{"error":"Failed to process event"}`, recorder.Body.String())
	})

	t.Run("malformed json is rejected", func(t *testing.T) {
		webhook := &fakeWebhook{}
		srv, _ := newTestServer(t, Config{}, webhook)

		recorder := postJSON(t, srv.Handler(), "/webhook", `not json`)

		assert.Equal(t, http.StatusBadRequest, recorder.Code)
		assert.JSONEq(t, `{"error":"Invalid payload"}`, recorder.Body.String())
		assert.Empty(t, webhook.events)
	})
}

func TestWebhookEndpointIsRateLimited(t *testing.T) {
	srv, _ := newTestServer(t, Config{WebhookRateLimit: 2, WebhookRateWindow: time.Minute}, nil)

	for i := 0; i < 2; i++ {
		recorder := postJSON(t, srv.Handler(), "/webhook", `{"type":"PrintStarted"}`)
		require.Equal(t, http.StatusOK, recorder.Code)
	}

	recorder := postJSON(t, srv.Handler(), "/webhook", `{"type":"PrintStarted"}`)
	assert.Equal(t, http.StatusTooManyRequests, recorder.Code)
	assert.Equal(t, "60", recorder.Header().Get("Retry-After"))
	assert.Equal(t, "application/json", recorder.Header().Get("Content-Type"))
}

func TestRecovererAnswersJSON500(t *testing.T) {
	srv, err := New(Config{}, panickingSkill{}, &fakeWebhook{})
	require.NoError(t, err)

	recorder := postJSON(t, srv.Handler(), "/skill", `{"session":{"sessionId":"s1"},"request":{"type":"LaunchRequest"}}`)

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.JSONEq(t, `{"error":"Internal server error"}`, recorder.Body.String())
}

func TestServerStartShutdownNoGoroutineLeak(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv, _ := newTestServer(t, Config{ListenAddr: "127.0.0.1:0"}, nil)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	require.Eventually(t, func() bool { return srv.Addr() != "" }, 2*time.Second, 10*time.Millisecond)

	client := &http.Client{Transport: &http.Transport{DisableKeepAlives: true}}
	resp, err := client.Get("http://" + srv.Addr() + "/healthz")
	require.NoError(t, err)
	_ = resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	require.NoError(t, srv.Shutdown(shutdownCtx))

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Start did not return after Shutdown")
	}
}

func TestShutdownBeforeStartKeepsServerStopped(t *testing.T) {
	defer goleak.VerifyNone(t, goleak.IgnoreCurrent())

	srv, _ := newTestServer(t, Config{ListenAddr: "127.0.0.1:0"}, nil)
	require.NoError(t, srv.Shutdown(context.Background()))

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(3 * time.Second):
		t.Fatal("Start served after Shutdown")
	}
	assert.Empty(t, srv.Addr())
}
