package components

import (
	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

// YesNoMsg carries the answer picked in a YesNo.
type YesNoMsg struct {
	Yes bool
}

// YesNo is a two-button YES / NO prompt. y and n answer directly; the arrow
// keys move between buttons and Enter picks one. Only one answer is sent.
type YesNo struct {
	Yes      bool // cursor on YES
	Answered bool
	Choice   bool
}

// NewYesNo creates a prompt with the cursor on YES.
func NewYesNo() YesNo {
	return YesNo{Yes: true}
}

// Update handles keys and emits a YesNoMsg on the first answer.
func (y YesNo) Update(msg tea.Msg) (YesNo, tea.Cmd) {
	if y.Answered {
		return y, nil
	}
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return y, nil
	}

	switch kmsg.String() {
	case "left", "h", "up", "k":
		y.Yes = true
	case "right", "l", "down", "j", "tab":
		y.Yes = !y.Yes
	case "y", "Y":
		return y.answer(true)
	case "n", "N":
		return y.answer(false)
	case "enter":
		return y.answer(y.Yes)
	}
	return y, nil
}

func (y YesNo) answer(yes bool) (YesNo, tea.Cmd) {
	y.Answered = true
	y.Choice = yes
	y.Yes = yes
	return y, func() tea.Msg { return YesNoMsg{Yes: yes} }
}

// View renders the buttons. After answering, the chosen one is coloured.
func (y YesNo) View() string {
	yes, no := theme.ButtonInactive, theme.ButtonInactive
	switch {
	case y.Answered && y.Choice:
		yes = yes.BorderForeground(theme.Success).Foreground(theme.Success)
	case y.Answered:
		no = no.BorderForeground(theme.Error).Foreground(theme.Error)
	case y.Yes:
		yes = theme.ButtonActive
	default:
		no = theme.ButtonActive
	}
	return lipgloss.JoinHorizontal(lipgloss.Center, yes.Render("YES"), "  ", no.Render("NO"))
}
