package cmd

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/highvoltag3/BamVoo/internal/adapters/render/transcript"
)

// turnPlayedMsg carries one finished turn back to the spinner.
type turnPlayedMsg struct {
	exchange transcript.Exchange
}

// conversationSpinnerModel plays a scripted conversation one turn per
// message, showing which step is waiting on the printer API.
type conversationSpinnerModel struct {
	spinner   spinner.Model
	ctx       context.Context
	session   *scriptedSession
	exchanges []transcript.Exchange
	done      bool
}

func newConversationSpinnerModel(ctx context.Context, session *scriptedSession) conversationSpinnerModel {
	s := spinner.New(
		spinner.WithSpinner(spinner.Dot),
		spinner.WithStyle(lipgloss.NewStyle().Foreground(lipgloss.Color("69"))),
	)

	return conversationSpinnerModel{
		spinner:   s,
		ctx:       ctx,
		session:   session,
		exchanges: make([]transcript.Exchange, 0, len(session.requests)),
	}
}

func (m conversationSpinnerModel) playNext() tea.Cmd {
	ctx := m.ctx
	session := m.session
	scripted := session.requests[len(m.exchanges)]
	state := stateAfter(m.exchanges)

	return func() tea.Msg {
		return turnPlayedMsg{exchange: session.play(ctx, scripted, state)}
	}
}

func (m conversationSpinnerModel) Init() tea.Cmd {
	if len(m.session.requests) == 0 {
		return tea.Quit
	}
	return tea.Batch(m.spinner.Tick, m.playNext())
}

func (m conversationSpinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case turnPlayedMsg:
		m.exchanges = append(m.exchanges, msg.exchange)
		if endsConversation(msg.exchange) || len(m.exchanges) == len(m.session.requests) {
			m.done = true
			return m, tea.Quit
		}
		return m, m.playNext()
	default:
		return m, nil
	}
}

func (m conversationSpinnerModel) View() string {
	if m.done || len(m.exchanges) >= len(m.session.requests) {
		return ""
	}

	current := len(m.exchanges)
	return fmt.Sprintf("%s turn %d/%d: %s…", m.spinner.View(), current+1, len(m.session.requests), m.session.requests[current].utterance)
}

// runConversationSpinner plays the session on output with a per-turn
// spinner and returns the exchanges it collected.
func runConversationSpinner(ctx context.Context, output io.Writer, session *scriptedSession) ([]transcript.Exchange, error) {
	p := tea.NewProgram(
		newConversationSpinnerModel(ctx, session),
		tea.WithInput(nil),
		tea.WithOutput(output),
		tea.WithContext(ctx),
	)

	finalModel, err := p.Run()
	if err != nil {
		return nil, err
	}

	result, ok := finalModel.(conversationSpinnerModel)
	if !ok {
		return nil, fmt.Errorf("unexpected final spinner model type %T", finalModel)
	}

	return result.exchanges, nil
}
