package ui

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"go.uber.org/zap"

	"github.com/five82/logsift/internal/config"
	"github.com/five82/logsift/internal/prefs"
	"github.com/five82/logsift/internal/state"
)

// View represents the current active view.
type View int

const (
	ViewRecords View = iota
	ViewStats
)

// Options configures the UI.
type Options struct {
	Context   context.Context
	Store     *state.Store
	Config    *config.Config
	Prefs     prefs.Prefs
	PrefsPath string
	// Reload re-reads every loaded file. Nil disables the reload key.
	Reload   func(context.Context) error
	Logger   *zap.Logger
	PollTick time.Duration
	// ExportDir receives tab exports. Defaults to the working directory.
	ExportDir string
}

// statusLine is a transient message shown at the bottom of the screen.
type statusLine struct {
	text string
	err  bool
}

// Model is the root application state for Bubble Tea.
type Model struct {
	// Configuration
	ctx       context.Context
	store     *state.Store
	config    *config.Config
	prefs     prefs.Prefs
	prefsPath string
	reload    func(context.Context) error
	logger    *zap.Logger
	pollTick  time.Duration
	exportDir string
	keys      keyMap

	// UI state
	theme       Theme
	currentView View
	width       int
	height      int
	ready       bool

	// Data state
	snapshot    state.Snapshot
	lastUpdated time.Time
	reloading   bool

	// Tabs
	tabs   []*tab
	active int
	tabSeq int

	statsViewport viewport.Model
	prompt        promptState
	modal         Modal
	showHelp      bool
	status        statusLine
}

// New creates a new Bubble Tea model.
func New(opts Options) Model {
	ctx := opts.Context
	if ctx == nil {
		ctx = context.Background()
	}

	pollTick := opts.PollTick
	if pollTick == 0 {
		pollTick = DefaultUIInterval
	}

	prefsPath := opts.PrefsPath
	if prefsPath == "" {
		prefsPath = prefs.DefaultPath()
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	cfg := opts.Config
	if cfg == nil {
		def := config.Default()
		cfg = &def
	}

	tabs := tabsFromPrefs(opts.Prefs)
	return Model{
		ctx:         ctx,
		store:       opts.Store,
		config:      cfg,
		prefs:       opts.Prefs,
		prefsPath:   prefsPath,
		reload:      opts.Reload,
		logger:      logger.Named("ui"),
		pollTick:    pollTick,
		exportDir:   opts.ExportDir,
		keys:        DefaultKeyMap(),
		theme:       GetTheme(opts.Prefs.Theme),
		currentView: ViewRecords,
		tabs:        tabs,
		tabSeq:      len(tabs),
		prompt:      promptState{input: newPromptInput()},
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(m.pollTick)}
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
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
		if !m.ready {
			m.statsViewport = viewport.New(max(m.width-2, 0), m.listHeight())
		}
		m.ready = true
		m.prompt.input.Width = max(m.width-20, 10)
		m.activeTab().scrollTo(m.listHeight())
		m.updateStatsViewport()
		return m, nil

	case tickMsg:
		return m.handleTick()

	case snapshotMsg:
		m.applySnapshot(state.Snapshot(msg))
		return m, nil

	case reloadDoneMsg:
		m.reloading = false
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("reload: %v", msg.err), true)
		} else {
			m.setStatus("reloaded", false)
		}
		if m.store != nil {
			return m, fetchSnapshotCmd(m.store)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			m.setStatus(fmt.Sprintf("export: %v", msg.err), true)
		} else {
			m.setStatus(fmt.Sprintf("exported %d records to %s", msg.count, msg.path), false)
		}
		return m, nil
	}

	return m, nil
}

// applySnapshot stores a new snapshot and refreshes the active tab when the
// record set changed. Other tabs refresh lazily when they are shown.
func (m *Model) applySnapshot(snap state.Snapshot) {
	changed := snap.Version != m.snapshot.Version
	m.snapshot = snap
	m.lastUpdated = time.Now()
	t := m.activeTab()
	t.refresh(snap, false)
	t.scrollTo(m.listHeight())
	if changed {
		m.updateStatsViewport()
	}
}

// View implements tea.Model.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}
	if m.showHelp {
		return m.renderHelp()
	}
	if m.modal != nil {
		return m.modal.View(m.theme, m.width, m.height)
	}
	return m.renderMain()
}

// handleKey processes keyboard input. Overlays take precedence over the
// prompt, which takes precedence over global and view keys.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.showHelp {
		// Any key closes help
		m.showHelp = false
		return m, nil
	}
	if m.modal != nil {
		return m.handleModalKey(msg)
	}
	if m.prompt.kind != promptNone {
		return m.handlePromptKey(msg)
	}

	m.status = statusLine{}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
		return m, nil

	case key.Matches(msg, m.keys.CycleTheme):
		m.theme = GetTheme(NextTheme(m.theme.Name))
		m.prefs.Theme = m.theme.Name
		if err := prefs.Save(m.prefsPath, m.prefs); err != nil {
			m.logger.Warn("save theme failed", zap.Error(err))
		}
		m.updateStatsViewport()
		return m, nil

	case key.Matches(msg, m.keys.Escape):
		if m.clearSearch() {
			return m, nil
		}
		m.currentView = ViewRecords
		return m, nil

	case key.Matches(msg, m.keys.Reload):
		if m.reload == nil || m.reloading {
			return m, nil
		}
		m.reloading = true
		m.setStatus("reloading...", false)
		return m, reloadCmd(m.ctx, m.reload)

	case key.Matches(msg, m.keys.ToggleStats):
		if m.currentView == ViewStats {
			m.currentView = ViewRecords
		} else {
			m.currentView = ViewStats
			m.updateStatsViewport()
		}
		return m, nil

	case key.Matches(msg, m.keys.NewTab):
		m.newTab()
		return m, nil

	case key.Matches(msg, m.keys.CloseTab):
		m.closeTab()
		return m, nil

	case key.Matches(msg, m.keys.NextTab):
		m.cycleTab(1)
		return m, nil

	case key.Matches(msg, m.keys.PrevTab):
		m.cycleTab(-1)
		return m, nil

	case key.Matches(msg, m.keys.SaveTabs):
		m.saveTabs()
		return m, nil

	case key.Matches(msg, m.keys.Filters):
		t := m.activeTab()
		m.modal = newFilterModal("Filters: "+t.name, t.criteria, m.location())
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.currentView = ViewRecords
		return m, m.openPrompt(promptSearch)

	case key.Matches(msg, m.keys.Jump):
		m.currentView = ViewRecords
		return m, m.openPrompt(promptJump)

	case key.Matches(msg, m.keys.Export):
		return m, m.exportCmd()
	}

	if s := msg.String(); len(s) == 1 && s[0] >= '1' && s[0] <= '9' {
		m.switchTab(int(s[0] - '1'))
		return m, nil
	}

	switch m.currentView {
	case ViewStats:
		var cmd tea.Cmd
		m.statsViewport, cmd = m.statsViewport.Update(msg)
		return m, cmd
	default:
		return m.handleRecordsKey(msg)
	}
}

// handleTick processes the polling tick.
func (m Model) handleTick() (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	if m.store != nil {
		cmds = append(cmds, fetchSnapshotCmd(m.store))
	}
	cmds = append(cmds, tickCmd(m.pollTick))
	return m, tea.Batch(cmds...)
}

func (m *Model) setStatus(text string, isErr bool) {
	m.status = statusLine{text: text, err: isErr}
	if isErr {
		m.logger.Debug("ui error", zap.String("message", text))
	}
}

func (m Model) location() *time.Location {
	if m.config != nil && m.config.Location != nil {
		return m.config.Location
	}
	return time.UTC
}

// renderMain renders the full UI.
func (m Model) renderMain() string {
	var b strings.Builder

	b.WriteString(m.renderHeader())
	b.WriteString("\n")
	b.WriteString(m.renderTabBar())
	b.WriteString("\n")
	b.WriteString(m.renderCommandBar())
	b.WriteString("\n")

	switch m.currentView {
	case ViewStats:
		b.WriteString(m.renderStats())
	default:
		b.WriteString(m.renderRecords())
	}
	b.WriteString("\n")
	b.WriteString(m.renderStatusLine())

	return b.String()
}

// Messages

type tickMsg time.Time

type snapshotMsg state.Snapshot

type reloadDoneMsg struct {
	err error
}

type exportDoneMsg struct {
	path  string
	count int
	err   error
}

// Commands

func tickCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func reloadCmd(ctx context.Context, reload func(context.Context) error) tea.Cmd {
	return func() tea.Msg {
		return reloadDoneMsg{err: reload(ctx)}
	}
}

func fetchSnapshotCmd(store *state.Store) tea.Cmd {
	return func() tea.Msg {
		return snapshotMsg(store.Snapshot())
	}
}

// Run starts the Bubble Tea program.
func Run(opts Options) error {
	m := New(opts)
	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(m.ctx))
	_, err := p.Run()
	if errors.Is(err, tea.ErrProgramKilled) && m.ctx.Err() != nil {
		return nil
	}
	return err
}
