package wizard

import (
	"time"

	tea "charm.land/bubbletea/v2"

	"github.com/ayushhealth/ayushbot/internal/elicit"
	"github.com/ayushhealth/ayushbot/internal/insight"
	"github.com/ayushhealth/ayushbot/internal/predictor"
)

// pollInterval is how often the transcript is redrawn from the buffer.
const pollInterval = 50 * time.Millisecond

// Messages carry the run id they were started for. Anything arriving after
// a restart is dropped.

type tickMsg time.Time

// typedMsg reports that a script finished typing.
type typedMsg struct {
	run string
	tag string
}

// actionMsg carries the loop's answer to Start or Answer.
type actionMsg struct {
	run string
	act elicit.Action
	err error
}

// bundleMsg carries the remedy fetch result.
type bundleMsg struct {
	run    string
	bundle *predictor.Bundle
	err    error
}

// insightMsg carries the explainer's result.
type insightMsg struct {
	run     string
	insight *insight.Insight
	err     error
}

func tickCmd() tea.Cmd {
	return tea.Tick(pollInterval, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// waitTyped returns a command that fires once done is closed.
func waitTyped(done <-chan struct{}, run, tag string) tea.Cmd {
	return func() tea.Msg {
		<-done
		return typedMsg{run: run, tag: tag}
	}
}
