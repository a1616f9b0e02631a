package domain

import "strings"

// SessionState holds the attributes carried across turns of one conversation.
// At most one of SelectedPrinter and AvailablePrinters is the meaningful state;
// both are empty in a fresh session.
type SessionState struct {
	SelectedPrinter   *Printer  `json:"selectedPrinter,omitempty"`
	AvailablePrinters []Printer `json:"availablePrinters,omitempty"`
}

// Clone returns a copy that shares nothing with s.
func (s SessionState) Clone() SessionState {
	clone := SessionState{}
	if s.SelectedPrinter != nil {
		selected := *s.SelectedPrinter
		clone.SelectedPrinter = &selected
	}
	if s.AvailablePrinters != nil {
		clone.AvailablePrinters = make([]Printer, len(s.AvailablePrinters))
		copy(clone.AvailablePrinters, s.AvailablePrinters)
	}
	return clone
}

func (s *SessionState) Select(printer Printer) {
	selected := printer
	s.SelectedPrinter = &selected
	s.AvailablePrinters = nil
}

func (s *SessionState) OfferCandidates(printers []Printer) {
	candidates := make([]Printer, len(printers))
	copy(candidates, printers)
	s.AvailablePrinters = candidates
}

func (s *SessionState) HasCandidates() bool {
	return s != nil && s.AvailablePrinters != nil
}

func (s *SessionState) Selected() (Printer, bool) {
	if s == nil || s.SelectedPrinter == nil {
		return Printer{}, false
	}
	return *s.SelectedPrinter, true
}

// MatchPrinter returns the first candidate whose name contains the spoken name
// or is contained by it, ignoring case. An empty name matches nothing.
func MatchPrinter(candidates []Printer, spoken string) (Printer, bool) {
	needle := strings.ToLower(strings.TrimSpace(spoken))
	if needle == "" {
		return Printer{}, false
	}

	for _, candidate := range candidates {
		name := strings.ToLower(candidate.Name)
		if name == "" {
			continue
		}
		if strings.Contains(name, needle) || strings.Contains(needle, name) {
			return candidate, true
		}
	}

	return Printer{}, false
}

func PrinterNames(printers []Printer) string {
	names := make([]string, 0, len(printers))
	for _, printer := range printers {
		names = append(names, printer.Name)
	}
	return strings.Join(names, ", ")
}
