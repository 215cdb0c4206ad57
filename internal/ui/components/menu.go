package components

import (
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

// MenuItem is one choice in a Menu.
type MenuItem struct {
	Label    string
	Action   func() tea.Cmd
	Disabled bool
}

// Menu is a vertical list of choices. Used for gender and for remedy
// categories.
type Menu struct {
	Items    []MenuItem
	Selected int
}

// NewMenu creates a menu with the first enabled item selected.
func NewMenu(items []MenuItem) Menu {
	m := Menu{Items: items, Selected: -1}
	m.selectFrom(0, 1)
	return m
}

// selectFrom moves the cursor to the first enabled item at or after i in
// direction dir. The cursor stays put when there is none.
func (m *Menu) selectFrom(i, dir int) {
	for ; i >= 0 && i < len(m.Items); i += dir {
		if !m.Items[i].Disabled {
			m.Selected = i
			return
		}
	}
}

// Current returns the selected item's label, or "" when nothing is selectable.
func (m Menu) Current() string {
	if m.Selected < 0 || m.Selected >= len(m.Items) {
		return ""
	}
	return m.Items[m.Selected].Label
}

// Disable greys out the item with label and moves the cursor off it.
func (m *Menu) Disable(label string) {
	for i := range m.Items {
		if m.Items[i].Label != label {
			continue
		}
		m.Items[i].Disabled = true
		if i == m.Selected {
			m.Selected = -1
			m.selectFrom(i+1, 1)
			if m.Selected < 0 {
				m.selectFrom(i-1, -1)
			}
		}
	}
}

// Update handles keyboard navigation.
func (m Menu) Update(msg tea.Msg) (Menu, tea.Cmd) {
	kmsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch kmsg.String() {
	case "up", "k":
		m.selectFrom(m.Selected-1, -1)
	case "down", "j":
		m.selectFrom(m.Selected+1, 1)
	case "enter":
		if m.Selected >= 0 && m.Selected < len(m.Items) {
			item := m.Items[m.Selected]
			if item.Action != nil && !item.Disabled {
				return m, item.Action()
			}
		}
	}
	return m, nil
}

// View renders the menu.
func (m Menu) View() string {
	var b strings.Builder
	for i, item := range m.Items {
		switch {
		case item.Disabled:
			b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Strikethrough(true).Render("    " + item.Label))
		case i == m.Selected:
			b.WriteString(theme.Selected.Render("  ▸ " + item.Label))
		default:
			b.WriteString(theme.Unselected.Render("    " + item.Label))
		}
		b.WriteByte('\n')
	}
	return b.String()
}
