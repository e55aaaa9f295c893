package ui

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/embycli/internal/colors"
	"github.com/five82/embycli/internal/emby"
	"github.com/five82/embycli/internal/prefs"
)

type fakeFetcher struct {
	mu       sync.Mutex
	calls    int
	sessions []emby.Session
	err      error
}

func (f *fakeFetcher) Sessions(context.Context) ([]emby.Session, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls++
	return f.sessions, f.err
}

func (f *fakeFetcher) Calls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls
}

func ptr[T any](v T) *T { return &v }

func playingSession() emby.Session {
	return emby.Session{
		UserName:       ptr("bob"),
		DeviceName:     ptr("Kitchen"),
		Client:         ptr("Emby Web"),
		RemoteEndPoint: ptr("192.168.1.50"),
		NowPlayingItem: &emby.NowPlayingItem{
			Name:         ptr("Bohemian Rhapsody"),
			Type:         ptr("Audio"),
			AlbumArtist:  ptr("Queen"),
			RunTimeTicks: ptr(int64(3_550_000_000)),
		},
		PlayState: &emby.PlayState{PositionTicks: ptr(int64(600_000_000))},
	}
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestModel(t *testing.T, f *fakeFetcher, interval time.Duration) WatchModel {
	t.Helper()
	return NewWatchModel(context.Background(), WatchOptions{
		Fetcher:   f,
		Palette:   colors.Palette{},
		Interval:  interval,
		Prefs:     prefs.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
	})
}

// fetch runs the model's pending fetch command and feeds the result back.
func fetch(t *testing.T, m WatchModel, cmd tea.Cmd) (WatchModel, tea.Cmd) {
	t.Helper()
	if cmd == nil {
		t.Fatal("expected a fetch command, got nil")
	}
	msg := cmd()
	if _, ok := msg.(sessionsMsg); !ok {
		t.Fatalf("fetch command returned %T, want sessionsMsg", msg)
	}
	next, nextCmd := m.Update(msg)
	return next.(WatchModel), nextCmd
}

func TestWatchModel_InitFetchesAndRenders(t *testing.T) {
	f := &fakeFetcher{sessions: []emby.Session{playingSession()}}
	m := newTestModel(t, f, 5*time.Second)

	if !strings.Contains(m.View(), "Fetching sessions...") {
		t.Fatalf("initial view = %q, want fetching placeholder", m.View())
	}

	m, cmd := fetch(t, m, m.Init())
	if f.Calls() != 1 {
		t.Fatalf("fetcher calls = %d, want 1", f.Calls())
	}
	if m.fetching {
		t.Fatal("fetching = true after sessions arrived")
	}
	if batch, ok := cmd().(tea.BatchMsg); !ok || len(batch) != 2 {
		t.Fatalf("post-fetch command = %T, want clear screen and tick batch", cmd())
	}

	view := m.View()
	if !strings.Contains(view, "Queen - Bohemian Rhapsody") {
		t.Fatalf("view missing entry:\n%s", view)
	}
	if !strings.Contains(view, "every 5s") {
		t.Fatalf("view missing interval footer:\n%s", view)
	}
}

func TestWatchModel_EmptySessions(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, time.Second)
	m, _ = fetch(t, m, m.Init())
	if !strings.HasPrefix(m.View(), "Nothing playing\n") {
		t.Fatalf("view = %q, want Nothing playing", m.View())
	}
}

func TestWatchModel_TicksAccumulateToInterval(t *testing.T) {
	f := &fakeFetcher{}
	m := newTestModel(t, f, time.Second)
	m, _ = fetch(t, m, m.Init())

	for i := 1; i < 4; i++ {
		next, _ := m.Update(tickMsg(time.Now()))
		m = next.(WatchModel)
		if m.fetching {
			t.Fatalf("fetch started after %d ticks, want 4", i)
		}
		if m.waited != time.Duration(i)*TickSlice {
			t.Fatalf("waited = %v after %d ticks", m.waited, i)
		}
	}

	next, cmd := m.Update(tickMsg(time.Now()))
	m = next.(WatchModel)
	if !m.fetching {
		t.Fatal("fetch not started once the interval elapsed")
	}
	m, _ = fetch(t, m, cmd)
	if f.Calls() != 2 {
		t.Fatalf("fetcher calls = %d, want 2", f.Calls())
	}
	if m.waited != 0 {
		t.Fatalf("waited = %v after fetch, want 0", m.waited)
	}
}

func TestWatchModel_QuitWhileWaiting(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, time.Second)
	m, _ = fetch(t, m, m.Init())

	for _, k := range []tea.KeyMsg{keyRunes("q"), {Type: tea.KeyCtrlC}} {
		_, cmd := m.Update(k)
		if cmd == nil {
			t.Fatalf("%s: no command, want quit", k)
		}
		if _, ok := cmd().(tea.QuitMsg); !ok {
			t.Fatalf("%s: command returned %T, want tea.QuitMsg", k, cmd())
		}
	}
}

func TestWatchModel_QuitDuringFetchWaitsForFetch(t *testing.T) {
	f := &fakeFetcher{}
	m := newTestModel(t, f, time.Second)
	pending := m.Init()

	next, cmd := m.Update(keyRunes("q"))
	m = next.(WatchModel)
	if cmd != nil {
		t.Fatalf("quit during fetch returned a command, want it deferred")
	}
	if !m.quitPending {
		t.Fatal("quitPending = false after quit during fetch")
	}

	_, cmd = fetch(t, m, pending)
	if f.Calls() != 1 {
		t.Fatalf("fetcher calls = %d, want the in-flight fetch to complete", f.Calls())
	}
	if cmd == nil {
		t.Fatal("no command after fetch, want quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("command returned %T, want tea.QuitMsg", cmd())
	}
}

func TestWatchModel_ErrorsShownInlineAndOffline(t *testing.T) {
	f := &fakeFetcher{err: errors.New("dial tcp 127.0.0.1:8096: connect: connection refused")}
	m := newTestModel(t, f, time.Second)

	m, cmd := fetch(t, m, m.Init())
	if cmd == nil {
		t.Fatal("loop stopped after a failed fetch")
	}
	view := m.View()
	if !strings.HasPrefix(view, "Error: dial tcp 127.0.0.1:8096: connect: connection refused") {
		t.Fatalf("view = %q, want inline error", view)
	}
	if strings.Contains(view, "OFFLINE") {
		t.Fatalf("offline marker after one failure:\n%s", view)
	}

	m.fetching = true
	m, _ = fetch(t, m, fetchSessionsCmd(m.ctx, m.fetcher, m.store))
	if !strings.Contains(m.View(), "OFFLINE (2 failed polls)") {
		t.Fatalf("view missing offline marker:\n%s", m.View())
	}

	f.mu.Lock()
	f.err = nil
	f.mu.Unlock()
	m.fetching = true
	m, _ = fetch(t, m, fetchSessionsCmd(m.ctx, m.fetcher, m.store))
	if view := m.View(); strings.Contains(view, "Error:") || strings.Contains(view, "OFFLINE") {
		t.Fatalf("view still shows failure after recovery:\n%s", view)
	}
}

func TestWatchModel_IntervalKeysPersist(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, 5*time.Second)
	m, _ = fetch(t, m, m.Init())

	next, _ := m.Update(keyRunes("+"))
	m = next.(WatchModel)
	if m.Interval() != 6*time.Second {
		t.Fatalf("interval = %v after +, want 6s", m.Interval())
	}
	saved, err := prefs.Load(m.prefsPath)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	if saved.WatchInterval != 6 {
		t.Fatalf("saved interval = %d, want 6", saved.WatchInterval)
	}

	for i := 0; i < 10; i++ {
		next, _ = m.Update(keyRunes("-"))
		m = next.(WatchModel)
	}
	if m.Interval() != prefs.MinWatchInterval {
		t.Fatalf("interval = %v, want clamped to %v", m.Interval(), prefs.MinWatchInterval)
	}
	if !strings.Contains(m.View(), "every 1s") {
		t.Fatalf("footer not updated:\n%s", m.View())
	}
}

func TestWatchModel_ThemeKeyPersists(t *testing.T) {
	m := newTestModel(t, &fakeFetcher{}, time.Second)

	next, _ := m.Update(keyRunes("T"))
	m = next.(WatchModel)
	if m.theme.Name != "Kanagawa" {
		t.Fatalf("theme = %q, want Kanagawa", m.theme.Name)
	}
	saved, _ := prefs.Load(m.prefsPath)
	if saved.Theme != "Kanagawa" {
		t.Fatalf("saved theme = %q, want Kanagawa", saved.Theme)
	}
}

func TestWatchModel_PrefsSaveFailureShowsNotice(t *testing.T) {
	blocker := filepath.Join(t.TempDir(), "file")
	if err := os.WriteFile(blocker, nil, 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	m := newTestModel(t, &fakeFetcher{}, time.Second)
	m.prefsPath = filepath.Join(blocker, "prefs.toml")

	next, _ := m.Update(keyRunes("+"))
	m = next.(WatchModel)
	if m.Interval() != 2*time.Second {
		t.Fatalf("interval = %v, want 2s even when saving fails", m.Interval())
	}
	if !strings.Contains(m.View(), "prefs not saved") {
		t.Fatalf("view missing save notice:\n%s", m.View())
	}
}

func TestWatch_QuitKeyEndsProgram(t *testing.T) {
	f := &fakeFetcher{}
	var out strings.Builder
	err := Watch(context.Background(), WatchOptions{
		Fetcher:   f,
		Interval:  time.Second,
		Prefs:     prefs.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Input:     strings.NewReader("q"),
		Output:    &out,
	})
	if err != nil {
		t.Fatalf("Watch returned error: %v", err)
	}
	if f.Calls() < 1 {
		t.Fatal("Watch quit before the first fetch completed")
	}
}

func TestWatch_ContextCancelIsCleanExit(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 100*time.Millisecond)
	defer cancel()

	var out strings.Builder
	err := Watch(ctx, WatchOptions{
		Fetcher:   &fakeFetcher{},
		Interval:  time.Second,
		Prefs:     prefs.Default(),
		PrefsPath: filepath.Join(t.TempDir(), "prefs.toml"),
		Input:     strings.NewReader(""),
		Output:    &out,
	})
	if err != nil {
		t.Fatalf("Watch returned error after cancel: %v", err)
	}
}

func TestWatch_RequiresFetcher(t *testing.T) {
	if err := Watch(context.Background(), WatchOptions{}); err == nil {
		t.Fatal("Watch returned nil error without a fetcher")
	}
}
