package update

import (
	"fmt"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fallenscent22/voice-alert/internal/sound"
	"github.com/fallenscent22/voice-alert/internal/views"
)

const helpText = `# Commands

- ` + "`/add <when> <title> [sound:<name>] [daily]`" + `
- ` + "`/list [all|done]`" + `
- ` + "`/snooze <n>` `/stop <n>` `/delete <n>` `/play <n>` `/recur <n>`" + `
- ` + "`/sound [name]`" + `
- ` + "`/set notifications|sound|dark on|off`" + `

While a reminder rings: **s** snoozes for 15 minutes, **x** stops it.`

func (m Model) Init() tea.Cmd {
	return tea.Batch(m.loadRemindersCmd(), m.loadSettingsCmd(), waitForDeliveryCmd(m.deliveries))
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch typed := msg.(type) {
	case tea.KeyMsg:
		if m.Alert != nil {
			return m.handleAlertKey(typed)
		}
		if m.Palette.Active {
			return m.handlePaletteKey(typed)
		}
		return m.handleListKey(typed)

	case SetRemindersMsg:
		m.Items = typed.Items
		if m.Cursor >= len(m.Items) {
			m.Cursor = len(m.Items) - 1
		}
		if m.Cursor < 0 {
			m.Cursor = 0
		}
		return m, nil

	case SetSettingsMsg:
		m.Notifications = typed.Notifications
		m.Sound = typed.Sound
		m.Dark = typed.Dark
		return m, nil

	case SetStatusMsg:
		m.Status = StatusBar{Text: typed.Text, IsError: typed.IsError}
		return m, nil

	case AppErrorMsg:
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		}
		return m, nil

	case ReminderAlertMsg:
		// Keep listening for the next delivery while this one is routed.
		return m, tea.Batch(m.routeDeliveryCmd(typed.Delivery), waitForDeliveryCmd(m.deliveries))

	case AlertReadyMsg:
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
			return m, m.loadRemindersCmd()
		}
		m.Alert = &ActiveAlert{Reminder: typed.Reminder, Body: typed.Body}
		m.Status = StatusBar{Text: "reminder: " + typed.Reminder.Title}
		return m, m.loadRemindersCmd()

	case ActionDoneMsg:
		m.Alert = nil
		if typed.Err != nil {
			m.Status = StatusBar{Text: typed.Err.Error(), IsError: true}
		} else {
			m.Status = StatusBar{Text: fmt.Sprintf("reminder %s", typed.Action)}
		}
		return m, m.loadRemindersCmd()
	}

	return m, nil
}

func (m Model) handleListKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "/":
		m.Palette.Active = true
		m.Palette.Input = ""
		m.commandInput.Focus()
		m.commandInput.SetValue("")
		m.Status = StatusBar{Text: "command palette active"}
		return m, nil
	case m.Keys.Up:
		if m.Cursor > 0 {
			m.Cursor--
		}
		return m, nil
	case m.Keys.Down:
		if m.Cursor < len(m.visibleItems())-1 {
			m.Cursor++
		}
		return m, nil
	case m.Keys.Play:
		if rem, ok := m.selected(); ok {
			return m, m.playCmd(rem.ID)
		}
		return m, nil
	case m.Keys.Delete:
		if rem, ok := m.selected(); ok {
			return m, m.deleteCmd(rem.ID)
		}
		return m, nil
	case "x":
		m.backend.StopPlayback()
		m.Status = StatusBar{Text: "playback stopped"}
		return m, nil
	case m.Keys.Refresh:
		return m, tea.Batch(m.loadRemindersCmd(), m.loadSettingsCmd())
	case m.Keys.Help:
		m.HelpVisible = !m.HelpVisible
		return m, nil
	case "ctrl+c", m.Keys.Quit:
		m.Quitting = true
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) View() string {
	status := ""
	if m.Status.Text != "" {
		if m.Status.IsError {
			status = "status: error: " + m.Status.Text
		} else {
			status = "status: " + m.Status.Text
		}
	}

	visible := m.visibleItems()
	items := make([]views.ReminderItemData, 0, len(visible))
	now := m.now()
	for _, rem := range visible {
		items = append(items, views.ReminderItemData{
			ID:        rem.ID,
			Title:     rem.Title,
			When:      formatWhen(rem.Date, now),
			Sound:     soundLabel(rem),
			Recurring: rem.IsRecurring,
			Completed: rem.IsCompleted(),
			Armed:     rem.NotificationID != "",
			Overdue:   !rem.IsCompleted() && rem.Date.Before(now),
		})
	}

	rightPane := m.renderRightPane()
	alert := ""
	if m.Alert != nil {
		alert = views.RenderAlertPrompt(views.AlertPromptData{
			Title: m.Alert.Reminder.Title,
			Body:  m.Alert.Body,
			Sound: soundLabel(m.Alert.Reminder),
		})
	}

	return views.RenderApp(views.AppData{
		Header:     fmt.Sprintf("voice-alert | %d reminders | next: %s", len(visible), m.nextLabel(now)),
		LeftPane:   views.RenderReminderPanel(items, m.Cursor, m.Scope),
		RightPane:  rightPane,
		StatusLine: status,
		Alert:      alert,
		Footer: fmt.Sprintf("keys: %s/%s move | %s play | x stop | %s delete | / cmd | %s help | %s quit",
			m.Keys.Down, m.Keys.Up, m.Keys.Play, m.Keys.Delete, m.Keys.Help, m.Keys.Quit),
		Dark: m.Dark,
	})
}

func (m Model) renderRightPane() string {
	parts := []string{}
	if m.Palette.Active {
		parts = append(parts, views.RenderCommandPalette(true, m.Palette.Input))
	}
	parts = append(parts, m.renderSettingsPanel())
	if m.SoundsPane {
		highlight := ""
		if rem, ok := m.selected(); ok {
			highlight = rem.SelectedSound
		}
		parts = append(parts, views.RenderSoundPanel(sound.Names(), highlight))
	}
	if m.HelpVisible {
		parts = append(parts, views.RenderMarkdown(helpText, m.Dark))
	}
	out := ""
	for i, p := range parts {
		if i > 0 {
			out += "\n\n"
		}
		out += p
	}
	return out
}

func (m Model) renderSettingsPanel() string {
	return views.RenderSettingsPanel(views.SettingsPanelData{
		Notifications: m.Notifications,
		Sound:         m.Sound,
		Dark:          m.Dark,
	})
}

func (m Model) nextLabel(now time.Time) string {
	for _, rem := range m.Items {
		if rem.Date.After(now) && !rem.IsCompleted() {
			return formatWhen(rem.Date, now)
		}
	}
	return "(none)"
}
