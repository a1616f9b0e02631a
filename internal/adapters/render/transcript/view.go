package transcript

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/highvoltag3/BamVoo/internal/application"
	"github.com/highvoltag3/BamVoo/internal/domain"
)

// Exchange is one user utterance and the skill's turn in reply.
type Exchange struct {
	Utterance string
	Request   application.Request
	Turn      application.Turn
}

type RenderOptions struct {
	Title string
	// ShowState appends the session attributes after each turn.
	ShowState bool
}

func renderView(summary sessionSummary, sections []string, opts RenderOptions, s styles) string {
	title := opts.Title
	if title == "" {
		title = "BamVoo conversation"
	}

	lines := []string{
		s.title.Render(title),
		s.header.Render(summaryLabel(summary)),
	}

	if len(sections) == 0 {
		lines = append(lines, s.empty.Render("No turns were run."))
		return lipgloss.JoinVertical(lipgloss.Left, lines...)
	}

	for _, section := range sections {
		lines = append(lines, s.section.Render(section))
	}

	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func summaryLabel(summary sessionSummary) string {
	parts := []string{fmt.Sprintf("turns: %d", summary.turns)}
	if summary.printer != "" {
		parts = append(parts, "printer: "+summary.printer)
	}
	if summary.snapshots > 0 {
		parts = append(parts, fmt.Sprintf("snapshots: %d", summary.snapshots))
	}
	if summary.turns > 0 {
		if summary.ended {
			parts = append(parts, "session closed")
		} else {
			parts = append(parts, "session open")
		}
	}
	return strings.Join(parts, " | ")
}

func renderExchange(exchange Exchange, opts RenderOptions, s styles) string {
	resp := exchange.Turn.Response
	parts := []string{
		s.user.Render("you: " + utteranceLabel(exchange)),
	}

	if resp.Speech != "" {
		parts = append(parts, s.skill.Render("bamvoo: "+resp.Speech))
	} else {
		parts = append(parts, s.empty.Render("bamvoo: (no speech)"))
	}
	if resp.Reprompt != "" {
		parts = append(parts, s.reprompt.Render("reprompt: "+resp.Reprompt))
	}
	if resp.Image != nil {
		parts = append(parts, s.directive.Render("image: "+resp.Image.URL))
	}
	if resp.EndSession {
		parts = append(parts, s.ended.Render("[session ended]"))
	}
	if opts.ShowState {
		parts = append(parts, s.state.Render("state: "+stateLabel(exchange.Turn.State)))
	}

	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func utteranceLabel(exchange Exchange) string {
	if exchange.Utterance != "" {
		return exchange.Utterance
	}

	req := exchange.Request
	if req.Type != application.RequestIntent {
		return "<" + string(req.Type) + ">"
	}
	if len(req.Slots) == 0 {
		return req.Intent
	}

	slots := make([]string, 0, len(req.Slots))
	for name, value := range req.Slots {
		slots = append(slots, name+"="+value)
	}
	return req.Intent + " " + strings.Join(slots, " ")
}

func stateLabel(state domain.SessionState) string {
	parts := make([]string, 0, 2)
	if selected, ok := state.Selected(); ok {
		parts = append(parts, "selected "+selected.Name)
	}
	if state.HasCandidates() {
		parts = append(parts, "candidates "+domain.PrinterNames(state.AvailablePrinters))
	}
	if len(parts) == 0 {
		return "empty"
	}
	return strings.Join(parts, " | ")
}
