// Package screen defines what the router stacks.
package screen

import (
	tea "charm.land/bubbletea/v2"

	"github.com/ayushhealth/ayushbot/internal/ui/layout"
)

// Screen is one full-window view.
type Screen interface {
	// Init returns the screen's first command.
	Init() tea.Cmd

	Update(msg tea.Msg) (Screen, tea.Cmd)

	// View renders the area between header and footer.
	View(width, height int) string

	// Title is shown in the header. Empty hides it.
	Title() string
}

// KeyHintProvider lets a screen replace the default footer hints.
type KeyHintProvider interface {
	KeyHints() []layout.KeyHint
}

// StepProvider lets a screen put a progress label in the header, such as
// "Step 2 of 4".
type StepProvider interface {
	StepLabel() string
}
