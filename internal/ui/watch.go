package ui

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/embycli/internal/colors"
	"github.com/five82/embycli/internal/emby"
	"github.com/five82/embycli/internal/logging"
	"github.com/five82/embycli/internal/playing"
	"github.com/five82/embycli/internal/prefs"
	"github.com/five82/embycli/internal/state"
)

// TickSlice is the granularity of the wait between refreshes. Key presses
// are handled as they arrive; the slice only bounds how late a refresh
// starts after the interval changes.
const TickSlice = 250 * time.Millisecond

// WatchOptions configures the live now-playing view.
type WatchOptions struct {
	Fetcher  emby.SessionFetcher
	Users    []string
	Palette  colors.Palette
	Interval time.Duration

	// Prefs is persisted to PrefsPath when the interval or theme changes.
	Prefs     prefs.Prefs
	PrefsPath string

	// Input and Output default to the terminal.
	Input  io.Reader
	Output io.Writer
}

// WatchModel is the bubbletea model of the live now-playing view.
type WatchModel struct {
	ctx     context.Context
	fetcher emby.SessionFetcher
	store   *state.Store
	users   []string
	palette colors.Palette

	prefs     prefs.Prefs
	prefsPath string
	interval  time.Duration

	keys  keyMap
	help  help.Model
	theme Theme
	width int

	snapshot    state.Snapshot
	waited      time.Duration
	fetching    bool
	quitPending bool
	notice      string
}

type tickMsg time.Time

type sessionsMsg state.Snapshot

// NewWatchModel builds the model. The first fetch starts from Init.
func NewWatchModel(ctx context.Context, opts WatchOptions) WatchModel {
	if ctx == nil {
		ctx = context.Background()
	}

	interval := opts.Interval
	if interval <= 0 {
		interval = opts.Prefs.Interval()
	}

	m := WatchModel{
		ctx:       ctx,
		fetcher:   opts.Fetcher,
		store:     &state.Store{},
		users:     opts.Users,
		palette:   opts.Palette,
		prefs:     opts.Prefs,
		prefsPath: opts.PrefsPath,
		interval:  prefs.ClampInterval(interval),
		keys:      DefaultKeyMap(),
		help:      help.New(),
		theme:     GetTheme(opts.Prefs.Theme),
		fetching:  true,
	}
	if !m.palette.Enabled {
		m.help.Styles = plainHelpStyles()
	}
	return m
}

// Interval returns the current refresh interval.
func (m WatchModel) Interval() time.Duration {
	return m.interval
}

// Init implements tea.Model.
func (m WatchModel) Init() tea.Cmd {
	return fetchSessionsCmd(m.ctx, m.fetcher, m.store)
}

// Update implements tea.Model.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
		return m, nil

	case sessionsMsg:
		m.snapshot = state.Snapshot(msg)
		m.fetching = false
		m.waited = 0
		if m.quitPending {
			return m, tea.Quit
		}
		return m, tea.Batch(tea.ClearScreen, tickCmd(TickSlice))

	case tickMsg:
		return m.handleTick()
	}
	return m, nil
}

func (m WatchModel) handleTick() (tea.Model, tea.Cmd) {
	if m.fetching {
		return m, nil
	}
	m.waited += TickSlice
	if m.waited < m.interval {
		return m, tickCmd(TickSlice)
	}
	m.fetching = true
	return m, fetchSessionsCmd(m.ctx, m.fetcher, m.store)
}

func (m WatchModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		// A fetch in flight always completes; the quit is honoured when it lands.
		if m.fetching {
			m.quitPending = true
			return m, nil
		}
		return m, tea.Quit

	case key.Matches(msg, m.keys.Slower):
		m.setInterval(m.interval + time.Second)
		return m, nil

	case key.Matches(msg, m.keys.Faster):
		m.setInterval(m.interval - time.Second)
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		m.savePrefs()
		return m, nil
	}
	return m, nil
}

func (m *WatchModel) setInterval(d time.Duration) {
	d = prefs.ClampInterval(d)
	if d == m.interval {
		return
	}
	m.interval = d
	m.prefs = m.prefs.WithInterval(d)
	m.savePrefs()
}

func (m *WatchModel) savePrefs() {
	if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
		logging.Warn().Err(err).Msg("failed to save prefs")
		m.notice = "prefs not saved: " + err.Error()
		return
	}
	m.notice = ""
}

// View implements tea.Model.
func (m WatchModel) View() string {
	var body string
	switch {
	case m.snapshot.LastError != nil:
		body = "Error: " + m.snapshot.LastError.Error()
	case !m.snapshot.HasSessions:
		body = "Fetching sessions..."
	default:
		body = playing.FormatText(playing.BuildEntries(m.snapshot.Sessions, m.users), m.palette)
	}
	return body + "\n\n" + m.renderFooter()
}

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSessionsCmd(ctx context.Context, fetcher emby.SessionFetcher, store *state.Store) tea.Cmd {
	return func() tea.Msg {
		sessions, err := fetcher.Sessions(ctx)
		store.Update(sessions, err)
		return sessionsMsg(store.Snapshot())
	}
}

// Watch runs the live now-playing view until the user quits or ctx is done.
func Watch(ctx context.Context, opts WatchOptions) error {
	if opts.Fetcher == nil {
		return errors.New("watch requires a session fetcher")
	}

	restore := logging.Mute()
	defer restore()

	programOpts := []tea.ProgramOption{tea.WithAltScreen(), tea.WithContext(ctx)}
	if opts.Input != nil {
		programOpts = append(programOpts, tea.WithInput(opts.Input))
	}
	if opts.Output != nil {
		programOpts = append(programOpts, tea.WithOutput(opts.Output))
	}

	_, err := tea.NewProgram(NewWatchModel(ctx, opts), programOpts...).Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
