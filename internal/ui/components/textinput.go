package components

import (
	"charm.land/bubbles/v2/textinput"
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

// TextInput wraps bubbles/textinput with a label and an inline error.
type TextInput struct {
	Label       string
	Model       textinput.Model
	NumericOnly bool
	Err         string
}

// NewTextInput creates an unfocused input.
func NewTextInput(label, placeholder string, numericOnly bool, charLimit int) TextInput {
	ti := textinput.New()
	ti.Placeholder = placeholder
	ti.Prompt = "> "
	if charLimit > 0 {
		ti.CharLimit = charLimit
	}
	return TextInput{Label: label, Model: ti, NumericOnly: numericOnly}
}

// Focus gives the input the cursor.
func (t *TextInput) Focus() tea.Cmd {
	return t.Model.Focus()
}

// Blur removes the cursor.
func (t *TextInput) Blur() {
	t.Model.Blur()
}

// Focused reports whether the input has the cursor.
func (t TextInput) Focused() bool {
	return t.Model.Focused()
}

// Update forwards keys to the model, dropping non-digits in numeric mode.
func (t TextInput) Update(msg tea.Msg) (TextInput, tea.Cmd) {
	if t.NumericOnly {
		if kmsg, ok := msg.(tea.KeyMsg); ok {
			if key := kmsg.String(); len(key) == 1 && (key[0] < '0' || key[0] > '9') {
				return t, nil
			}
		}
	}
	var cmd tea.Cmd
	t.Model, cmd = t.Model.Update(msg)
	return t, cmd
}

// View renders label, field and error.
func (t TextInput) View() string {
	label := theme.Unselected
	if t.Focused() {
		label = theme.Selected
	}
	view := label.Render(t.Label) + "\n" + t.Model.View()
	if t.Err != "" {
		view += "\n" + lipgloss.NewStyle().Foreground(theme.Error).Render("✗ "+t.Err)
	}
	return view
}

// Value returns the current text.
func (t TextInput) Value() string {
	return t.Model.Value()
}

// SetValue replaces the text.
func (t *TextInput) SetValue(s string) {
	t.Model.SetValue(s)
}
