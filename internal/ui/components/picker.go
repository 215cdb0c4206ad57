package components

import (
	"fmt"
	"strings"

	tea "charm.land/bubbletea/v2"
	"charm.land/lipgloss/v2"

	"github.com/ayushhealth/ayushbot/internal/ui/theme"
)

// PickedMsg is sent when a Picker choice is confirmed.
type PickedMsg struct {
	ID string
}

// Picker filters a list of ids as the user types and confirms one with
// Enter. Search returns matches for the query; Label names an id.
type Picker struct {
	Input  TextInput
	Search func(query string) []string
	Label  func(id string) string
	Rows   int

	matches []string
	cursor  int
}

// NewPicker creates a picker showing rows matches at a time.
func NewPicker(label string, search func(string) []string, name func(string) string, rows int) Picker {
	p := Picker{
		Input:  NewTextInput(label, "start typing a symptom", false, 40),
		Search: search,
		Label:  name,
		Rows:   max(rows, 1),
	}
	p.refresh()
	return p
}

func (p *Picker) refresh() {
	p.matches = p.Search(p.Input.Value())
	if p.cursor >= len(p.matches) {
		p.cursor = max(len(p.matches)-1, 0)
	}
}

// Matches returns the current filtered ids.
func (p Picker) Matches() []string {
	return p.matches
}

// Highlighted returns the id under the cursor, or "".
func (p Picker) Highlighted() string {
	if p.cursor < len(p.matches) {
		return p.matches[p.cursor]
	}
	return ""
}

// Focus gives the picker's input the cursor.
func (p *Picker) Focus() tea.Cmd { return p.Input.Focus() }

// Blur removes the cursor.
func (p *Picker) Blur() { p.Input.Blur() }

// Reset clears the query.
func (p *Picker) Reset() {
	p.Input.SetValue("")
	p.cursor = 0
	p.refresh()
}

// Update moves the cursor, confirms on Enter and filters on anything else.
func (p Picker) Update(msg tea.Msg) (Picker, tea.Cmd) {
	if kmsg, ok := msg.(tea.KeyMsg); ok {
		switch kmsg.String() {
		case "up":
			if p.cursor > 0 {
				p.cursor--
			}
			return p, nil
		case "down":
			if p.cursor < len(p.matches)-1 {
				p.cursor++
			}
			return p, nil
		case "enter":
			id := p.Highlighted()
			if id == "" {
				return p, nil
			}
			return p, func() tea.Msg { return PickedMsg{ID: id} }
		}
	}

	before := p.Input.Value()
	var cmd tea.Cmd
	p.Input, cmd = p.Input.Update(msg)
	if p.Input.Value() != before {
		p.cursor = 0
		p.refresh()
	}
	return p, cmd
}

// View renders the input and a window of matches around the cursor.
func (p Picker) View() string {
	var b strings.Builder
	b.WriteString(p.Input.View())
	if !p.Input.Focused() {
		return b.String()
	}
	b.WriteByte('\n')

	if len(p.matches) == 0 {
		b.WriteString(theme.Hint.Render("  no matching symptom"))
		return b.String()
	}

	start := 0
	if p.cursor >= p.Rows {
		start = p.cursor - p.Rows + 1
	}
	end := min(start+p.Rows, len(p.matches))
	for i := start; i < end; i++ {
		name := p.Label(p.matches[i])
		if i == p.cursor {
			b.WriteString(theme.Selected.Render("  ▸ " + name))
		} else {
			b.WriteString(theme.Unselected.Render("    " + name))
		}
		b.WriteByte('\n')
	}
	if more := len(p.matches) - end; more > 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.TextDim).Render(fmt.Sprintf("    … %d more", more)))
	}
	return b.String()
}
