package update

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fallenscent22/voice-alert/internal/notify"
)

func waitForDeliveryCmd(ch <-chan notify.Delivery) tea.Cmd {
	if ch == nil {
		return nil
	}
	return func() tea.Msg {
		d, ok := <-ch
		if !ok {
			return nil
		}
		return ReminderAlertMsg{Delivery: d}
	}
}

// routeDeliveryCmd hands the fired alert to the coordinator (which
// starts playback) and looks the reminder up for the prompt.
func (m Model) routeDeliveryCmd(d notify.Delivery) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		routeErr := m.backend.HandleDelivery(ctx, d)

		rem, err := m.repo.Get(ctx, d.Payload.ReminderID)
		if err != nil {
			return AlertReadyMsg{Err: err}
		}
		if routeErr != nil {
			// Playback failed but the prompt still has to be answered.
			return AlertReadyMsg{Reminder: rem, Body: d.Body + " (sound unavailable: " + routeErr.Error() + ")"}
		}
		return AlertReadyMsg{Reminder: rem, Body: d.Body}
	}
}

// handleAlertKey services the ringing prompt; everything except
// snooze, stop, and quit is swallowed until the user decides.
func (m Model) handleAlertKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "s":
		return m, m.actionCmd(m.Alert.Reminder.ID, notify.ActionSnooze)
	case "x":
		return m, m.actionCmd(m.Alert.Reminder.ID, notify.ActionStop)
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) actionCmd(id string, action notify.Action) tea.Cmd {
	return func() tea.Msg {
		err := m.backend.HandleAction(context.Background(), id, action)
		return ActionDoneMsg{Action: action, Err: err}
	}
}
