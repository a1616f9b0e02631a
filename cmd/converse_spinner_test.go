package cmd

import (
	"context"
	"io"
	"sync"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/highvoltag3/BamVoo/internal/application"
	"github.com/highvoltag3/BamVoo/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// recordingSkill selects a printer on every turn and ends the session on
// StopIntent.
type recordingSkill struct {
	mu       sync.Mutex
	requests []application.Request
	states   []domain.SessionState
}

func (s *recordingSkill) Handle(_ context.Context, req application.Request, state domain.SessionState) application.Turn {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.requests = append(s.requests, req)
	s.states = append(s.states, state)

	printer := domain.Printer{ID: domain.PrinterID(req.Intent), Name: req.Intent}
	return application.Turn{
		Response: application.Response{
			Speech:     "handled " + req.Intent,
			EndSession: req.Intent == application.IntentStop,
		},
		State: domain.SessionState{SelectedPrinter: &printer},
	}
}

func mustParseConversation(t *testing.T, steps ...string) []scriptedRequest {
	t.Helper()

	requests, err := parseConversation(steps)
	require.NoError(t, err)
	return requests
}

func TestConversationSpinnerPlaysEveryTurn(t *testing.T) {
	t.Parallel()

	skill := &recordingSkill{}
	session := newScriptedSession(skill, mustParseConversation(t, "status", "time", "webcam"))

	exchanges, err := runConversationSpinner(context.Background(), io.Discard, session)
	require.NoError(t, err)
	require.Len(t, exchanges, 3)

	assert.Equal(t, "webcam", exchanges[2].Utterance)
	assert.Equal(t, "handled "+application.IntentGetWebcamSnapshot, exchanges[2].Turn.Response.Speech)

	skill.mu.Lock()
	defer skill.mu.Unlock()
	require.Len(t, skill.requests, 3)
	for _, req := range skill.requests {
		assert.Equal(t, session.sessionID, req.SessionID)
	}
	assert.Equal(t, domain.SessionState{}, skill.states[0])
	assert.Equal(t, application.IntentGetPrinterStatus, skill.states[1].SelectedPrinter.Name)
	assert.Equal(t, application.IntentGetTimeRemaining, skill.states[2].SelectedPrinter.Name)
}

func TestConversationSpinnerStopsWhenSessionEnds(t *testing.T) {
	t.Parallel()

	skill := &recordingSkill{}
	session := newScriptedSession(skill, mustParseConversation(t, "status", "stop", "time"))

	exchanges, err := runConversationSpinner(context.Background(), io.Discard, session)
	require.NoError(t, err)
	require.Len(t, exchanges, 2)
	assert.True(t, exchanges[1].Turn.Response.EndSession)

	assert.Equal(t, exchanges, session.run(context.Background()))
}

func TestConversationSpinnerShowsCurrentStep(t *testing.T) {
	t.Parallel()

	skill := &recordingSkill{}
	session := newScriptedSession(skill, mustParseConversation(t, "status", "select mini", "end"))

	var m tea.Model = newConversationSpinnerModel(context.Background(), session)
	assert.Contains(t, m.View(), "turn 1/3: status…")

	m, cmd := m.Update(turnPlayedMsg{exchange: session.play(context.Background(), session.requests[0], domain.SessionState{})})
	require.NotNil(t, cmd)
	assert.Contains(t, m.View(), "turn 2/3: select mini…")

	played, ok := cmd().(turnPlayedMsg)
	require.True(t, ok)
	assert.Equal(t, "select mini", played.exchange.Utterance)

	m, _ = m.Update(played)
	m, cmd = m.Update(turnPlayedMsg{exchange: session.play(context.Background(), session.requests[2], domain.SessionState{})})
	assert.Empty(t, m.View())
	assert.Equal(t, tea.Quit(), cmd())

	final := m.(conversationSpinnerModel)
	require.Len(t, final.exchanges, 3)
	assert.Equal(t, application.RequestSessionEnded, final.exchanges[2].Request.Type)
}
