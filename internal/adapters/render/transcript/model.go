package transcript

import (
	"errors"
	"io"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/highvoltag3/BamVoo/internal/application"
)

var ErrUnexpectedRenderModel = errors.New("unexpected final bubbletea model type")

// exchangeMsg asks the model to lay out exchanges[index]. An index past the
// end finishes the transcript.
type exchangeMsg struct {
	index int
}

// sessionSummary is what the header reports once every turn has been seen.
type sessionSummary struct {
	turns     int
	snapshots int
	printer   string
	ended     bool
}

func (s *sessionSummary) observe(exchange Exchange) {
	s.turns++
	if exchange.Turn.Response.Image != nil {
		s.snapshots++
	}
	if selected, ok := exchange.Turn.State.Selected(); ok {
		s.printer = selected.Name
	}
	if exchange.Turn.Response.EndSession || exchange.Request.Type == application.RequestSessionEnded {
		s.ended = true
	}
}

type model struct {
	exchanges []Exchange
	opts      RenderOptions
	styles    styles
	sections  []string
	summary   sessionSummary
	output    string
}

func newModel(exchanges []Exchange, opts RenderOptions) model {
	return model{
		exchanges: exchanges,
		opts:      opts,
		styles:    newStyles(),
		sections:  make([]string, 0, len(exchanges)),
	}
}

func nextExchange(index int) tea.Cmd {
	return func() tea.Msg {
		return exchangeMsg{index: index}
	}
}

func (m model) Init() tea.Cmd {
	return nextExchange(0)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, ok := msg.(exchangeMsg)
	if !ok {
		return m, nil
	}

	if next.index >= len(m.exchanges) {
		m.output = renderView(m.summary, m.sections, m.opts, m.styles)
		return m, tea.Quit
	}

	exchange := m.exchanges[next.index]
	m.summary.observe(exchange)
	m.sections = append(m.sections, renderExchange(exchange, m.opts, m.styles))
	return m, nextExchange(next.index + 1)
}

func (m model) View() string {
	return m.output
}

// Render lays out a conversation transcript for the terminal, one turn at a
// time, under a header summarising the session.
func Render(exchanges []Exchange, opts RenderOptions) (string, error) {
	p := tea.NewProgram(
		newModel(exchanges, opts),
		tea.WithInput(nil),
		tea.WithOutput(io.Discard),
	)

	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	rendered, ok := finalModel.(model)
	if !ok {
		return "", ErrUnexpectedRenderModel
	}

	return rendered.View(), nil
}
