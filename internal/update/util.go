package update

import (
	"context"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fallenscent22/voice-alert/internal/model"
)

// visibleItems applies the list scope: default hides completed,
// "done" shows only completed, "all" shows everything.
func (m Model) visibleItems() []model.Reminder {
	out := make([]model.Reminder, 0, len(m.Items))
	for _, rem := range m.Items {
		switch m.Scope {
		case "all":
			out = append(out, rem)
		case "done":
			if rem.IsCompleted() {
				out = append(out, rem)
			}
		default:
			if !rem.IsCompleted() {
				out = append(out, rem)
			}
		}
	}
	return out
}

func (m Model) selected() (model.Reminder, bool) {
	visible := m.visibleItems()
	if m.Cursor < 0 || m.Cursor >= len(visible) {
		return model.Reminder{}, false
	}
	return visible[m.Cursor], true
}

func (m Model) loadRemindersCmd() tea.Cmd {
	return func() tea.Msg {
		items, err := m.repo.List(context.Background())
		if err != nil {
			return AppErrorMsg{Err: err}
		}
		sort.SliceStable(items, func(i, j int) bool { return items[i].Date.Before(items[j].Date) })
		return SetRemindersMsg{Items: items}
	}
}

// loadSettingsCmd re-reads the persisted flags so View never touches
// the store.
func (m Model) loadSettingsCmd() tea.Cmd {
	return func() tea.Msg {
		msg := SetSettingsMsg{Notifications: m.Notifications, Sound: m.Sound, Dark: m.Dark}
		if m.settings == nil {
			return msg
		}
		ctx := context.Background()
		if v, err := m.settings.NotificationsEnabled(ctx); err == nil {
			msg.Notifications = v
		}
		if v, err := m.settings.SoundEnabled(ctx); err == nil {
			msg.Sound = v
		}
		if v, err := m.settings.DarkMode(ctx); err == nil {
			msg.Dark = v
		}
		return msg
	}
}

func (m Model) playCmd(id string) tea.Cmd {
	return func() tea.Msg {
		if err := m.backend.Play(context.Background(), id); err != nil {
			return AppErrorMsg{Err: err}
		}
		return SetStatusMsg{Text: "playing"}
	}
}

func (m Model) deleteCmd(id string) tea.Cmd {
	return tea.Sequence(
		func() tea.Msg {
			if err := m.backend.Delete(context.Background(), id); err != nil {
				return AppErrorMsg{Err: err}
			}
			return SetStatusMsg{Text: "reminder deleted"}
		},
		m.loadRemindersCmd(),
	)
}

func formatWhen(t time.Time, now time.Time) string {
	if t.Year() == now.Year() && t.YearDay() == now.YearDay() {
		return t.Format("15:04")
	}
	return t.Format("Jan 2 15:04")
}

func soundLabel(rem model.Reminder) string {
	if rem.AudioURI != "" {
		return "recording"
	}
	return rem.SelectedSound
}
