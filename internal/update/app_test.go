package update

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/fallenscent22/voice-alert/internal/model"
	"github.com/fallenscent22/voice-alert/internal/notify"
	"github.com/fallenscent22/voice-alert/internal/storage"
)

type fakeBackend struct {
	saved      []model.Reminder
	deleted    []string
	played     []string
	previewed  []string
	actions    []notify.Action
	actionIDs  []string
	deliveries []notify.Delivery
	notifOn    *bool
	stops      int
}

func (b *fakeBackend) Save(ctx context.Context, rem model.Reminder) (model.Reminder, error) {
	if rem.ID == "" {
		rem.ID = fmt.Sprintf("gen-%d", len(b.saved)+1)
	}
	b.saved = append(b.saved, rem)
	return rem, nil
}

func (b *fakeBackend) Delete(ctx context.Context, id string) error {
	b.deleted = append(b.deleted, id)
	return nil
}

func (b *fakeBackend) Play(ctx context.Context, id string) error {
	b.played = append(b.played, id)
	return nil
}

func (b *fakeBackend) Preview(ctx context.Context, name string) error {
	b.previewed = append(b.previewed, name)
	return nil
}

func (b *fakeBackend) StopPlayback() { b.stops++ }

func (b *fakeBackend) HandleDelivery(ctx context.Context, d notify.Delivery) error {
	b.deliveries = append(b.deliveries, d)
	return nil
}

func (b *fakeBackend) HandleAction(ctx context.Context, id string, action notify.Action) error {
	b.actionIDs = append(b.actionIDs, id)
	b.actions = append(b.actions, action)
	return nil
}

func (b *fakeBackend) SetNotificationsEnabled(ctx context.Context, enabled bool) error {
	b.notifOn = &enabled
	return nil
}

type listRepo struct {
	rems []model.Reminder
}

func (r *listRepo) List(ctx context.Context) ([]model.Reminder, error) { return r.rems, nil }

func (r *listRepo) Get(ctx context.Context, id string) (model.Reminder, error) {
	for _, rem := range r.rems {
		if rem.ID == id {
			return rem, nil
		}
	}
	return model.Reminder{}, fmt.Errorf("%w: %s", storage.ErrNotFound, id)
}

func (r *listRepo) Create(ctx context.Context, rem model.Reminder) error { return nil }
func (r *listRepo) Update(ctx context.Context, rem model.Reminder) error { return nil }
func (r *listRepo) Delete(ctx context.Context, id string) error          { return nil }
func (r *listRepo) ClearNotificationHandles(ctx context.Context) error   { return nil }

type memSettings struct {
	soundOn bool
	dark    bool
}

func (s *memSettings) NotificationsEnabled(ctx context.Context) (bool, error) { return true, nil }
func (s *memSettings) SoundEnabled(ctx context.Context) (bool, error)         { return s.soundOn, nil }
func (s *memSettings) DarkMode(ctx context.Context) (bool, error)             { return s.dark, nil }
func (s *memSettings) SetSoundEnabled(ctx context.Context, v bool) error {
	s.soundOn = v
	return nil
}
func (s *memSettings) SetDarkMode(ctx context.Context, v bool) error {
	s.dark = v
	return nil
}

func testModel(t *testing.T, rems ...model.Reminder) (Model, *fakeBackend) {
	t.Helper()
	backend := &fakeBackend{}
	m := NewModel(backend, &listRepo{rems: rems}, &memSettings{soundOn: true}, nil)
	m.Items = rems
	m.now = func() time.Time { return time.Date(2026, 9, 1, 8, 0, 0, 0, time.UTC) }
	return m, backend
}

func keyMsg(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func remindersFixture() []model.Reminder {
	done := true
	return []model.Reminder{
		{ID: "aaa-1", Title: "First", Date: time.Date(2026, 9, 1, 9, 0, 0, 0, time.UTC), SelectedSound: "Bell"},
		{ID: "bbb-2", Title: "Second", Date: time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC), SelectedSound: "Bell"},
		{ID: "ccc-3", Title: "Done", Date: time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC), SelectedSound: "Bell", Completed: &done},
	}
}

func TestCursorNavigationStaysInBounds(t *testing.T) {
	m, _ := testModel(t, remindersFixture()...)

	next, _ := m.Update(keyMsg("j"))
	m = next.(Model)
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor)
	}
	// Two visible items (completed hidden); down again stays put.
	next, _ = m.Update(keyMsg("j"))
	m = next.(Model)
	if m.Cursor != 1 {
		t.Fatalf("cursor = %d, want 1", m.Cursor)
	}
	next, _ = m.Update(keyMsg("k"))
	m = next.(Model)
	if m.Cursor != 0 {
		t.Fatalf("cursor = %d, want 0", m.Cursor)
	}
}

func TestStopKeyHaltsPlayback(t *testing.T) {
	m, backend := testModel(t, remindersFixture()...)

	next, _ := m.Update(keyMsg("x"))
	m = next.(Model)
	if backend.stops != 1 {
		t.Fatalf("stops = %d, want 1", backend.stops)
	}
	if m.Status.Text != "playback stopped" {
		t.Fatalf("status = %q", m.Status.Text)
	}
}

func TestScopeFiltersCompleted(t *testing.T) {
	m, _ := testModel(t, remindersFixture()...)

	if got := len(m.visibleItems()); got != 2 {
		t.Fatalf("default scope items = %d, want 2", got)
	}
	m.Scope = "done"
	if got := len(m.visibleItems()); got != 1 {
		t.Fatalf("done scope items = %d, want 1", got)
	}
	m.Scope = "all"
	if got := len(m.visibleItems()); got != 3 {
		t.Fatalf("all scope items = %d, want 3", got)
	}
}

func TestPaletteAddCreatesReminder(t *testing.T) {
	m, backend := testModel(t)

	next, _ := m.runCommand("add +10m water plants daily")
	m = next.(Model)

	if len(backend.saved) != 1 {
		t.Fatalf("saved = %d, want 1", len(backend.saved))
	}
	rem := backend.saved[0]
	if rem.Title != "water plants" || !rem.IsRecurring {
		t.Fatalf("saved reminder = %+v", rem)
	}
	if rem.SelectedSound == "" {
		t.Fatal("default sound not applied")
	}
	want := time.Date(2026, 9, 1, 8, 10, 0, 0, time.UTC)
	if !rem.Date.Equal(want) {
		t.Fatalf("date = %v, want %v", rem.Date, want)
	}
	if m.Status.IsError {
		t.Fatalf("status = %+v", m.Status)
	}
}

func TestPaletteTargetsByPositionAndPrefix(t *testing.T) {
	m, backend := testModel(t, remindersFixture()...)

	next, _ := m.runCommand("stop 2")
	m = next.(Model)
	if len(backend.actionIDs) != 1 || backend.actionIDs[0] != "bbb-2" {
		t.Fatalf("action ids = %v", backend.actionIDs)
	}
	if backend.actions[0] != notify.ActionStop {
		t.Fatalf("action = %v", backend.actions[0])
	}

	next, _ = m.runCommand("snooze aaa")
	m = next.(Model)
	if backend.actionIDs[1] != "aaa-1" || backend.actions[1] != notify.ActionSnooze {
		t.Fatalf("actions = %v %v", backend.actionIDs, backend.actions)
	}

	next, _ = m.runCommand("delete zzz")
	m = next.(Model)
	if !m.Status.IsError {
		t.Fatal("unknown target must surface an error status")
	}
}

func TestPaletteSetTogglesSettings(t *testing.T) {
	m, backend := testModel(t)

	next, _ := m.runCommand("set notifications off")
	m = next.(Model)
	if backend.notifOn == nil || *backend.notifOn {
		t.Fatal("notifications not disabled through backend")
	}
	if m.Notifications {
		t.Fatal("notifications flag not applied to model")
	}

	next, _ = m.runCommand("set sound off")
	m = next.(Model)
	if m.Sound {
		t.Fatal("sound flag not applied to model")
	}

	next, _ = m.runCommand("set dark on")
	m = next.(Model)
	if !m.Dark {
		t.Fatal("dark mode flag not applied to model")
	}
}

func TestSettingsFlagsAreCachedOnModel(t *testing.T) {
	settings := &memSettings{soundOn: true}
	m := NewModel(&fakeBackend{}, &listRepo{}, settings, nil)
	if !m.Sound || !m.Notifications {
		t.Fatalf("initial flags: sound=%v notifications=%v", m.Sound, m.Notifications)
	}

	// The store changes behind the model; View keeps rendering the
	// cached flags until a refresh message lands.
	settings.soundOn = false
	settings.dark = true
	if !m.Sound || m.Dark {
		t.Fatal("View state must not track the store directly")
	}

	msg := m.loadSettingsCmd()()
	loaded, ok := msg.(SetSettingsMsg)
	if !ok {
		t.Fatalf("msg = %#v", msg)
	}
	next, _ := m.Update(loaded)
	m = next.(Model)
	if m.Sound || !m.Dark {
		t.Fatalf("refreshed flags: sound=%v dark=%v", m.Sound, m.Dark)
	}
}

func TestPaletteSoundPreview(t *testing.T) {
	m, backend := testModel(t)

	next, _ := m.runCommand("sound Bell")
	m = next.(Model)
	if len(backend.previewed) != 1 || backend.previewed[0] != "Bell" {
		t.Fatalf("previewed = %v", backend.previewed)
	}

	next, _ = m.runCommand("sound")
	m = next.(Model)
	if !m.SoundsPane {
		t.Fatal("sound catalog pane not toggled")
	}
}

func TestAlertKeysDispatchActions(t *testing.T) {
	rems := remindersFixture()
	m, backend := testModel(t, rems...)
	m.Alert = &ActiveAlert{Reminder: rems[0], Body: "Time for your reminder!"}

	next, cmd := m.Update(keyMsg("s"))
	m = next.(Model)
	if cmd == nil {
		t.Fatal("expected action command")
	}
	msg := cmd()
	done, ok := msg.(ActionDoneMsg)
	if !ok || done.Action != notify.ActionSnooze {
		t.Fatalf("msg = %#v", msg)
	}
	if len(backend.actionIDs) != 1 || backend.actionIDs[0] != "aaa-1" {
		t.Fatalf("action ids = %v", backend.actionIDs)
	}

	next, _ = m.Update(done)
	m = next.(Model)
	if m.Alert != nil {
		t.Fatal("alert prompt should be dismissed")
	}
}

func TestAlertSwallowsOtherKeys(t *testing.T) {
	rems := remindersFixture()
	m, _ := testModel(t, rems...)
	m.Alert = &ActiveAlert{Reminder: rems[0]}

	next, cmd := m.Update(keyMsg("j"))
	m = next.(Model)
	if cmd != nil || m.Cursor != 0 || m.Alert == nil {
		t.Fatal("keys other than snooze/stop must be ignored while ringing")
	}
}

func TestRouteDeliveryProducesAlert(t *testing.T) {
	rems := remindersFixture()
	m, backend := testModel(t, rems...)

	d := notify.Delivery{
		Body:    "Time for your reminder!",
		Payload: notify.Payload{ReminderID: "aaa-1"},
	}
	msg := m.routeDeliveryCmd(d)()
	ready, ok := msg.(AlertReadyMsg)
	if !ok || ready.Err != nil {
		t.Fatalf("msg = %#v", msg)
	}
	if len(backend.deliveries) != 1 {
		t.Fatal("delivery not routed through backend")
	}

	next, _ := m.Update(ready)
	m = next.(Model)
	if m.Alert == nil || m.Alert.Reminder.ID != "aaa-1" {
		t.Fatalf("alert = %+v", m.Alert)
	}
}

func TestRouteDeliveryUnknownReminder(t *testing.T) {
	m, _ := testModel(t)

	d := notify.Delivery{Payload: notify.Payload{ReminderID: "ghost"}}
	msg := m.routeDeliveryCmd(d)()
	ready, ok := msg.(AlertReadyMsg)
	if !ok || !errors.Is(ready.Err, storage.ErrNotFound) {
		t.Fatalf("msg = %#v", msg)
	}
}
