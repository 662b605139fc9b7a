package views

import (
	"fmt"
	"strings"
)

type ReminderItemData struct {
	ID        string
	Title     string
	When      string
	Sound     string
	Recurring bool
	Completed bool
	Armed     bool
	Overdue   bool
}

func RenderReminderPanel(items []ReminderItemData, cursor int, scope string) string {
	var b strings.Builder
	title := "reminders"
	if scope != "" {
		title = "reminders (" + scope + ")"
	}
	b.WriteString(title + ":\n")
	b.WriteString("actions: [j/k]move [p]play [x]stop [D]delete [/]command\n")
	if len(items) == 0 {
		b.WriteString("  (none)")
		return b.String()
	}
	for i, item := range items {
		pointer := " "
		if i == cursor {
			pointer = ">"
		}
		b.WriteString(fmt.Sprintf("%s %2d. %s %s %s", pointer, i+1, stateBadge(item), item.When, item.Title))
		if item.Sound != "" {
			b.WriteString(" ♪" + item.Sound)
		}
		if item.Recurring {
			b.WriteString(" (daily)")
		}
		b.WriteString("\n")
	}
	return strings.TrimSuffix(b.String(), "\n")
}

func stateBadge(item ReminderItemData) string {
	switch {
	case item.Completed:
		return "[DONE]"
	case item.Overdue:
		return "[OVERDUE]"
	case item.Armed:
		return "[ARMED]"
	default:
		return "[IDLE]"
	}
}

type AlertPromptData struct {
	Title string
	Body  string
	Sound string
}

// RenderAlertPrompt is the ringing-reminder surface: the alert stays up
// until the user picks snooze or stop.
func RenderAlertPrompt(data AlertPromptData) string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("⏰ %s\n", data.Title))
	b.WriteString(data.Body + "\n")
	if data.Sound != "" {
		b.WriteString("playing: " + data.Sound + "\n")
	}
	b.WriteString("[s] snooze 15m   [x] stop")
	return b.String()
}

func RenderSoundPanel(names []string, highlight string) string {
	var b strings.Builder
	b.WriteString("sounds:\n")
	for _, name := range names {
		cursor := " "
		if name == highlight {
			cursor = ">"
		}
		b.WriteString(fmt.Sprintf("%s %s\n", cursor, name))
	}
	b.WriteString("preview: /sound <name>")
	return b.String()
}

type SettingsPanelData struct {
	Notifications bool
	Sound         bool
	Dark          bool
}

func RenderSettingsPanel(data SettingsPanelData) string {
	return fmt.Sprintf("settings:\nnotifications: %s\nsound: %s\ndark mode: %s",
		onOff(data.Notifications), onOff(data.Sound), onOff(data.Dark))
}

func onOff(v bool) string {
	if v {
		return "on"
	}
	return "off"
}

func RenderCommandPalette(active bool, input string) string {
	if !active {
		return ""
	}
	return fmt.Sprintf("command: /%s", input)
}
