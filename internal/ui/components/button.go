package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

// Button is a single action such as "Next" or "Get Insights". A disabled
// button renders dimmed and ignores Enter.
type Button struct {
	Label    string
	Focused  bool
	Disabled bool
	OnPress  func() tea.Cmd
}

// NewButton creates a focused, enabled button.
func NewButton(label string, onPress func() tea.Cmd) Button {
	return Button{Label: label, Focused: true, OnPress: onPress}
}

// Update handles Enter.
func (b Button) Update(msg tea.Msg) (Button, tea.Cmd) {
	if !b.Focused || b.Disabled {
		return b, nil
	}
	if kmsg, ok := msg.(tea.KeyMsg); ok && kmsg.String() == "enter" && b.OnPress != nil {
		return b, b.OnPress()
	}
	return b, nil
}

// View renders the button.
func (b Button) View() string {
	label := " ▸ " + b.Label + " "
	switch {
	case b.Disabled:
		return theme.ButtonInactive.Foreground(theme.TextDim).Render(label)
	case b.Focused:
		return theme.ButtonActive.Render(label)
	default:
		return theme.ButtonInactive.Render(lipgloss.NewStyle().Foreground(theme.Text).Render(label))
	}
}
