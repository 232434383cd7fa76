package ui

import (
	"context"
	"errors"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/buddyctl/internal/logtail"
	"github.com/five82/buddyctl/internal/prefs"
	"github.com/five82/buddyctl/internal/state"
)

const activityLines = 6

// Controller performs host actions on behalf of the dashboard.
type Controller interface {
	Refresh(ctx context.Context)
	EndStream(ctx context.Context) error
	CloseSteam(ctx context.Context) error
	RestoreResolution(ctx context.Context) error
	AppNames(ctx context.Context) ([]string, error)
}

// Options configures the UI.
type Options struct {
	Context      context.Context
	Controller   Controller
	Store        *state.Store
	Address      string
	PollTick     time.Duration
	ThemeName    string
	PrefsPath    string
	ActivityPath string // zerolog JSON file shown in the activity panel
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx          context.Context
	ctrl         Controller
	store        *state.Store
	address      string
	prefsPath    string
	activityPath string
	pollTick     time.Duration

	// UI state
	theme  Theme
	keys   keyMap
	help   help.Model
	width  int
	height int
	ready  bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	activity    []logtail.Entry

	// Apps panel
	apps       viewport.Model
	appNames   []string
	appsLoaded bool

	// Action feedback
	busy      string
	notice    string
	noticeErr bool
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = time.Second
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	return Model{
		ctx:          ctx,
		ctrl:         opts.Controller,
		store:        opts.Store,
		address:      opts.Address,
		prefsPath:    prefsPath,
		activityPath: opts.ActivityPath,
		pollTick:     pollTick,
		theme:        GetTheme(opts.ThemeName),
		keys:         DefaultKeyMap(),
		help:         help.New(),
		apps:         viewport.New(0, 0),
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.activityPath != "" {
		cmds = append(cmds, fetchActivityCmd(m.activityPath))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.ready = true
		m.resizeApps()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.snapshot = state.Snapshot(msg)
		m.lastUpdated = time.Now()
		return m, nil

	case activityMsg:
		m.activity = msg
		return m, nil

	case appsMsg:
		m.busy = ""
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
			return m, nil
		}
		m.appNames = msg.names
		m.appsLoaded = true
		m.updateApps()
		return m, nil

	case actionDoneMsg:
		m.busy = ""
		if msg.err != nil {
			m.setNotice(msg.err.Error(), true)
		} else {
			m.setNotice(msg.name+" done", false)
		}
		return m, m.afterAction()
	}

	return m, nil
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.help.ShowAll {
		return m.renderHelp()
	}
	return m.renderMain()
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.help.ShowAll {
		// Any key closes help
		m.help.ShowAll = false
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.saveTheme()
		return m, nil

	case key.Matches(msg, m.keys.Up):
		m.apps.ScrollUp(1)
		return m, nil

	case key.Matches(msg, m.keys.Down):
		m.apps.ScrollDown(1)
		return m, nil
	}

	if m.ctrl == nil || m.busy != "" {
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Refresh):
		return m.startAction("refresh", func(ctx context.Context) error {
			m.ctrl.Refresh(ctx)
			return nil
		})
	case key.Matches(msg, m.keys.EndStream):
		return m.startAction("end stream", m.ctrl.EndStream)
	case key.Matches(msg, m.keys.CloseSteam):
		return m.startAction("close steam", m.ctrl.CloseSteam)
	case key.Matches(msg, m.keys.RestoreResolution):
		return m.startAction("restore resolution", m.ctrl.RestoreResolution)
	case key.Matches(msg, m.keys.LoadApps):
		m.busy = "load apps"
		return m, appsCmd(m.ctx, m.ctrl)
	}
	return m, nil
}

func (m Model) startAction(name string, fn func(context.Context) error) (tea.Model, tea.Cmd) {
	m.busy = name
	m.notice = ""
	return m, actionCmd(m.ctx, name, fn)
}

func (m Model) afterAction() tea.Cmd {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.activityPath != "" {
		cmds = append(cmds, fetchActivityCmd(m.activityPath))
	}
	return tea.Batch(cmds...)
}

func (m *Model) setNotice(text string, isErr bool) {
	m.notice = text
	m.noticeErr = isErr
}

func (m *Model) saveTheme() {
	if m.prefsPath == "" {
		return
	}
	// Load first so the persisted client id survives.
	p, _ := prefs.Load(m.prefsPath)
	p.Theme = m.theme.Name
	_ = prefs.Save(m.prefsPath, p)
}

func (m Model) handleTick() (tea.Model, tea.Cmd) {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	if m.activityPath != "" {
		cmds = append(cmds, fetchActivityCmd(m.activityPath))
	}
	return m, tea.Batch(cmds...)
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type activityMsg []logtail.Entry

type appsMsg struct {
	names []string
	err   error
}

type actionDoneMsg struct {
	name string
	err  error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

func fetchActivityCmd(path string) tea.Cmd {
	return func() tea.Msg {
		entries, err := logtail.Entries(path, activityLines)
		if err != nil {
			return activityMsg(nil)
		}
		return activityMsg(entries)
	}
}

func actionCmd(ctx context.Context, name string, fn func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return actionDoneMsg{name: name, err: fn(ctx)}
	}
}

func appsCmd(ctx context.Context, ctrl Controller) tea.Cmd {
	return func() tea.Msg {
		names, err := ctrl.AppNames(ctx)
		return appsMsg{names: names, err: err}
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	if opts.Store == nil {
		return errors.New("ui requires a data store")
	}
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}
	p := tea.NewProgram(New(opts), tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && ctx.Err() != nil {
		return nil
	}
	return err
}
