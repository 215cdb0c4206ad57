package components

import (
	"strings"
	"testing"

	tea "charm.land/bubbletea/v2"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func key(r rune) tea.KeyPressMsg {
	return tea.KeyPressMsg{Code: r, Text: string(r)}
}

var (
	enter = tea.KeyPressMsg{Code: tea.KeyEnter}
	down  = tea.KeyPressMsg{Code: tea.KeyDown}
	up    = tea.KeyPressMsg{Code: tea.KeyUp}
)

func TestYesNoDirectKeys(t *testing.T) {
	y := NewYesNo()
	y, cmd := y.Update(key('n'))
	require.NotNil(t, cmd)
	assert.Equal(t, YesNoMsg{Yes: false}, cmd())
	assert.True(t, y.Answered)

	// A second answer is ignored.
	_, cmd = y.Update(key('y'))
	assert.Nil(t, cmd)
}

func TestYesNoEnterUsesCursor(t *testing.T) {
	y := NewYesNo()
	y, _ = y.Update(tea.KeyPressMsg{Code: tea.KeyTab})
	assert.False(t, y.Yes)
	_, cmd := y.Update(enter)
	require.NotNil(t, cmd)
	assert.Equal(t, YesNoMsg{Yes: false}, cmd())
}

func TestMenuSkipsDisabled(t *testing.T) {
	var picked string
	pick := func(s string) func() tea.Cmd {
		return func() tea.Cmd { picked = s; return nil }
	}
	m := NewMenu([]MenuItem{
		{Label: "Yoga", Action: pick("Yoga")},
		{Label: "Diet", Action: pick("Diet"), Disabled: true},
		{Label: "Allopathic", Action: pick("Allopathic")},
	})
	assert.Equal(t, "Yoga", m.Current())

	m, _ = m.Update(down)
	assert.Equal(t, "Allopathic", m.Current())
	m, _ = m.Update(enter)
	assert.Equal(t, "Allopathic", picked)

	m.Disable("Allopathic")
	assert.Equal(t, "Yoga", m.Current())
	m.Disable("Yoga")
	assert.Equal(t, "", m.Current())
	assert.Contains(t, ansi.Strip(m.View()), "Yoga", "disabled entries stay listed")
}

func TestTextInputNumericOnly(t *testing.T) {
	ti := NewTextInput("Age", "", true, 3)
	ti.Focus()
	for _, r := range "4x2" {
		ti, _ = ti.Update(key(r))
	}
	assert.Equal(t, "42", ti.Value())

	ti.Err = "age must be between 1 and 120"
	assert.Contains(t, ti.View(), "age must be")
}

func TestPickerFiltersAndPicks(t *testing.T) {
	ids := []string{"cough", "high_fever", "mild_fever"}
	search := func(q string) []string {
		var out []string
		for _, id := range ids {
			if strings.Contains(id, q) {
				out = append(out, id)
			}
		}
		return out
	}
	p := NewPicker("Symptom 1", search, strings.ToUpper, 5)
	p.Focus()
	assert.Len(t, p.Matches(), 3)

	for _, r := range "fever" {
		p, _ = p.Update(key(r))
	}
	assert.Equal(t, []string{"high_fever", "mild_fever"}, p.Matches())

	p, _ = p.Update(down)
	p, _ = p.Update(down)
	assert.Equal(t, "mild_fever", p.Highlighted())
	p, _ = p.Update(up)

	_, cmd := p.Update(enter)
	require.NotNil(t, cmd)
	assert.Equal(t, PickedMsg{ID: "high_fever"}, cmd())
	assert.Contains(t, p.View(), "HIGH_FEVER")

	p.Reset()
	assert.Len(t, p.Matches(), 3)
}

func TestPickerNoMatches(t *testing.T) {
	p := NewPicker("Symptom", func(string) []string { return nil }, strings.ToUpper, 3)
	p.Focus()
	_, cmd := p.Update(enter)
	assert.Nil(t, cmd)
	assert.Contains(t, p.View(), "no matching symptom")
}

func TestProgressBarClamps(t *testing.T) {
	assert.Equal(t, 1.0, NewProgressBar("", 1.7, false, 20).Percent)
	assert.Equal(t, 0.0, NewProgressBar("", -1, false, 20).Percent)
	assert.Contains(t, NewProgressBar("Step 2 of 4", 0.5, true, 40).View(), "50%")
}

func TestButtonDisabled(t *testing.T) {
	pressed := false
	b := NewButton("Next", func() tea.Cmd { pressed = true; return nil })
	b.Disabled = true
	b.Update(enter)
	assert.False(t, pressed)

	b.Disabled = false
	b.Update(enter)
	assert.True(t, pressed)
}
