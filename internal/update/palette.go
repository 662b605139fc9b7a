package update

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fallenscent22/voice-alert/internal/commands"
	"github.com/fallenscent22/voice-alert/internal/model"
	"github.com/fallenscent22/voice-alert/internal/notify"
	"github.com/fallenscent22/voice-alert/internal/sound"
)

func (m Model) handlePaletteKey(key tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch key.String() {
	case "esc":
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		m.Status = StatusBar{Text: "command cancelled"}
		return m, nil
	case "enter":
		input := m.commandInput.Value()
		m.Palette = CommandPaletteState{}
		m.commandInput.Blur()
		return m.runCommand(input)
	case "ctrl+c":
		m.Quitting = true
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.commandInput, cmd = m.commandInput.Update(key)
	m.Palette.Input = m.commandInput.Value()
	return m, cmd
}

func (m Model) runCommand(input string) (tea.Model, tea.Cmd) {
	cmd, err := commands.Parse(input)
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
		return m, nil
	}

	res, err := commands.Execute(cmd, m.handlers(&m))
	if err != nil {
		m.Status = StatusBar{Text: err.Error(), IsError: true}
	} else {
		m.Status = StatusBar{Text: res.Message}
	}
	return m, tea.Batch(m.loadRemindersCmd(), m.loadSettingsCmd())
}

// handlers binds palette commands to the coordinator. They run inline:
// every command is a quick local call and the user expects the status
// line to answer immediately.
func (m Model) handlers(mm *Model) commands.Handlers {
	ctx := context.Background()
	return commands.Handlers{
		Add: func(a commands.AddArgs) (commands.Result, error) {
			at, err := commands.ParseWhen(a.When, m.now())
			if err != nil {
				return commands.Result{}, err
			}
			selected := a.Sound
			if selected == "" {
				selected = sound.Catalog[0].Name
			}
			rem := model.Reminder{
				Title:         a.Title,
				Date:          at,
				IsRecurring:   a.Daily,
				SelectedSound: selected,
			}
			saved, err := m.backend.Save(ctx, rem)
			if err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: fmt.Sprintf("reminder set for %s", formatWhen(saved.Date, m.now()))}, nil
		},
		List: func(a commands.ListArgs) (commands.Result, error) {
			mm.Scope = a.Scope
			mm.Cursor = 0
			label := a.Scope
			if label == "" {
				label = "upcoming"
			}
			return commands.Result{Message: "showing " + label}, nil
		},
		Snooze: func(a commands.TargetArgs) (commands.Result, error) {
			rem, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.backend.HandleAction(ctx, rem.ID, notify.ActionSnooze); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "snoozed: " + rem.Title}, nil
		},
		Stop: func(a commands.TargetArgs) (commands.Result, error) {
			rem, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.backend.HandleAction(ctx, rem.ID, notify.ActionStop); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "stopped: " + rem.Title}, nil
		},
		Delete: func(a commands.TargetArgs) (commands.Result, error) {
			rem, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.backend.Delete(ctx, rem.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "deleted: " + rem.Title}, nil
		},
		Play: func(a commands.TargetArgs) (commands.Result, error) {
			rem, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			if err := m.backend.Play(ctx, rem.ID); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "playing: " + rem.Title}, nil
		},
		Recur: func(a commands.TargetArgs) (commands.Result, error) {
			rem, err := m.resolveTarget(a.Target)
			if err != nil {
				return commands.Result{}, err
			}
			rem.IsRecurring = !rem.IsRecurring
			saved, err := m.backend.Save(ctx, rem)
			if err != nil {
				return commands.Result{}, err
			}
			if saved.IsRecurring {
				return commands.Result{Message: "now recurring daily: " + saved.Title}, nil
			}
			return commands.Result{Message: "no longer recurring: " + saved.Title}, nil
		},
		Sound: func(a commands.SoundArgs) (commands.Result, error) {
			if a.Name == "" {
				mm.SoundsPane = !mm.SoundsPane
				return commands.Result{Message: "sound catalog toggled"}, nil
			}
			if err := m.backend.Preview(ctx, a.Name); err != nil {
				return commands.Result{}, err
			}
			return commands.Result{Message: "previewing: " + a.Name}, nil
		},
		Set: func(a commands.SetArgs) (commands.Result, error) {
			on := a.Value == "on"
			switch a.Key {
			case "notifications":
				if err := m.backend.SetNotificationsEnabled(ctx, on); err != nil {
					return commands.Result{}, err
				}
				mm.Notifications = on
			case "sound":
				if err := m.settings.SetSoundEnabled(ctx, on); err != nil {
					return commands.Result{}, err
				}
				mm.Sound = on
			case "dark":
				if err := m.settings.SetDarkMode(ctx, on); err != nil {
					return commands.Result{}, err
				}
				mm.Dark = on
			}
			return commands.Result{Message: fmt.Sprintf("%s %s", a.Key, a.Value)}, nil
		},
	}
}

// resolveTarget accepts a 1-based position in the visible list or a
// reminder id (full or unambiguous prefix).
func (m Model) resolveTarget(target string) (model.Reminder, error) {
	visible := m.visibleItems()
	if n, err := strconv.Atoi(target); err == nil {
		if n < 1 || n > len(visible) {
			return model.Reminder{}, &commands.CommandError{
				Code:    commands.ErrCodeInvalidArgument,
				Message: fmt.Sprintf("no reminder at position %d", n),
			}
		}
		return visible[n-1], nil
	}

	var match model.Reminder
	found := 0
	for _, rem := range m.Items {
		if rem.ID == target {
			return rem, nil
		}
		if strings.HasPrefix(rem.ID, target) {
			match = rem
			found++
		}
	}
	switch found {
	case 1:
		return match, nil
	case 0:
		return model.Reminder{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: "no reminder matches " + target,
		}
	default:
		return model.Reminder{}, &commands.CommandError{
			Code:    commands.ErrCodeInvalidArgument,
			Message: "ambiguous reminder: " + target,
		}
	}
}
