package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testPrinters = []Printer{
	{ID: "1", Name: "X1C"},
	{ID: "2", Name: "Mini"},
}

func TestMatchPrinter(t *testing.T) {
	tests := []struct {
		name   string
		spoken string
		want   string
		found  bool
	}{
		{name: "exact", spoken: "X1C", want: "X1C", found: true},
		{name: "case insensitive", spoken: "x1c", want: "X1C", found: true},
		{name: "spoken contains name", spoken: "my mini printer", want: "Mini", found: true},
		{name: "name contains spoken", spoken: "mi", want: "Mini", found: true},
		{name: "unknown", spoken: "InvalidPrinter", found: false},
		{name: "empty", spoken: "", found: false},
		{name: "whitespace", spoken: "   ", found: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MatchPrinter(testPrinters, tt.spoken)
			require.Equal(t, tt.found, ok)
			if tt.found {
				assert.Equal(t, tt.want, got.Name)
			}
		})
	}
}

func TestMatchPrinterFirstMatchWins(t *testing.T) {
	candidates := []Printer{{ID: "a", Name: "Prusa MK4"}, {ID: "b", Name: "Prusa Mini"}}

	got, ok := MatchPrinter(candidates, "prusa")
	require.True(t, ok)
	assert.Equal(t, PrinterID("a"), got.ID)
}

func TestSessionStateSelectClearsCandidates(t *testing.T) {
	var state SessionState
	state.OfferCandidates(testPrinters)
	require.True(t, state.HasCandidates())

	state.Select(testPrinters[1])

	selected, ok := state.Selected()
	require.True(t, ok)
	assert.Equal(t, "Mini", selected.Name)
	assert.False(t, state.HasCandidates())
}

func TestSessionStateOfferCandidatesCopiesInput(t *testing.T) {
	printers := []Printer{{ID: "1", Name: "X1C"}}
	var state SessionState
	state.OfferCandidates(printers)

	printers[0].Name = "changed"
	assert.Equal(t, "X1C", state.AvailablePrinters[0].Name)
}

func TestSessionStateSelectedOnFreshSession(t *testing.T) {
	var state SessionState
	_, ok := state.Selected()
	assert.False(t, ok)
	assert.False(t, state.HasCandidates())

	var nilState *SessionState
	_, ok = nilState.Selected()
	assert.False(t, ok)
}

func TestPrinterNames(t *testing.T) {
	assert.Equal(t, "X1C, Mini", PrinterNames(testPrinters))
	assert.Equal(t, "", PrinterNames(nil))
}

func TestSessionStateCloneIsIndependent(t *testing.T) {
	var state SessionState
	state.Select(testPrinters[0])
	state.AvailablePrinters = []Printer{testPrinters[1]}

	clone := state.Clone()
	clone.SelectedPrinter.Name = "changed"
	clone.AvailablePrinters[0].Name = "changed"

	assert.Equal(t, "X1C", state.SelectedPrinter.Name)
	assert.Equal(t, "Mini", state.AvailablePrinters[0].Name)
}
