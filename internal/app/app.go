// Package app contains the root model of the answering program.
package app

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/zjrosen/htx/internal/attr"
	"github.com/zjrosen/htx/internal/flags"
	"github.com/zjrosen/htx/internal/keys"
	"github.com/zjrosen/htx/internal/log"
	"github.com/zjrosen/htx/internal/markup"
	"github.com/zjrosen/htx/internal/presentation"
	"github.com/zjrosen/htx/internal/pubsub"
	"github.com/zjrosen/htx/internal/registry"
	"github.com/zjrosen/htx/internal/ui/logpanel"
	"github.com/zjrosen/htx/internal/ui/styles"
	"github.com/zjrosen/htx/internal/ui/taskview"
	"github.com/zjrosen/htx/internal/ui/toaster"
	"github.com/zjrosen/htx/internal/widgets"
)

const (
	toastDuration = 3 * time.Second
	saveTimeout   = 5 * time.Second
)

// Saver persists an export snapshot for a task.
type Saver interface {
	Save(ctx context.Context, taskID string, records map[string]registry.ExportRecord) error
}

// SnapshotEvent carries one export snapshot from the registry stream.
type SnapshotEvent = pubsub.Event[map[string]registry.ExportRecord]

// Config wires the model to a rendered task.
type Config struct {
	Engine *markup.Engine
	Kit    *widgets.Kit

	// Source returns the current markup; it is called again on reload.
	Source func() (string, error)
	Data   map[string]string
	Priors map[string]attr.Props

	TaskID string
	Saver  Saver // nil disables saving
	Flags  *flags.Registry

	// Changes fires when the markup file changes on disk. Nil disables
	// hot reload.
	Changes <-chan struct{}

	Width int
	Debug bool
}

// Model is the root application state.
type Model struct {
	engine *markup.Engine
	kit    *widgets.Kit
	source func() (string, error)
	data   map[string]string
	taskID string
	saver  Saver
	flags  *flags.Registry

	tree     *markup.Tree
	renderer *taskview.Renderer
	controls []taskview.Control
	cursor   int

	editing bool
	editor  textarea.Model

	viewport   viewport.Model
	help       help.Model
	keys       keys.KeyMap
	showExport bool
	records    map[string]registry.ExportRecord

	width    int
	height   int
	maxWidth int

	toaster toaster.Model

	debugMode   bool
	logListener *log.LogListener
	logs        logpanel.Model

	ctx         context.Context
	cancel      context.CancelFunc
	snapshots   *pubsub.Broker[map[string]registry.ExportRecord]
	listener    *pubsub.ContinuousListener[map[string]registry.ExportRecord]
	unsubscribe func()
	changes     <-chan struct{}
}

type reloadMsg struct {
	fromWatcher bool
}

type savedMsg struct {
	records int
	manual  bool
	err     error
}

// New renders the task and subscribes to its export stream.
func New(cfg Config) (Model, error) {
	if cfg.Engine == nil || cfg.Kit == nil || cfg.Source == nil {
		return Model{}, errors.New("app: engine, kit and source are required")
	}
	src, err := cfg.Source()
	if err != nil {
		return Model{}, fmt.Errorf("reading markup: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	tree, err := cfg.Engine.Render(ctx, src, cfg.Data, cfg.Priors)
	if err != nil {
		cancel()
		return Model{}, err
	}

	broker := pubsub.NewBroker[map[string]registry.ExportRecord]()
	unsubscribe := cfg.Engine.Registry().SubscribeInstancesValuesChanges(func(values map[string]registry.ExportRecord) {
		broker.Publish(pubsub.UpdatedEvent, values)
	})

	editor := textarea.New()
	editor.ShowLineNumbers = false
	editor.Prompt = ""

	m := Model{
		engine:      cfg.Engine,
		kit:         cfg.Kit,
		source:      cfg.Source,
		data:        cfg.Data,
		taskID:      cfg.TaskID,
		saver:       cfg.Saver,
		flags:       cfg.Flags,
		tree:        tree,
		renderer:    taskview.New(cfg.Kit, taskview.WithWidth(cfg.Width)),
		editor:      editor,
		viewport:    viewport.New(0, 0),
		help:        help.New(),
		keys:        keymap(cfg.Debug),
		maxWidth:    cfg.Width,
		toaster:     toaster.New(),
		logs:        logpanel.New(),
		debugMode:   cfg.Debug,
		ctx:         ctx,
		cancel:      cancel,
		snapshots:   broker,
		listener:    pubsub.NewLatestListener(ctx, broker),
		unsubscribe: unsubscribe,
		changes:     cfg.Changes,
	}
	if cfg.Debug {
		m.logListener = log.NewListener(ctx)
	}
	m.refresh()

	log.Info(log.CatUI, "task opened", "task", cfg.TaskID, "controls", len(m.controls))
	return m, nil
}

// Init implements tea.Model. It starts the snapshot, watcher and log
// listeners.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{m.listener.Listen()}
	if m.changes != nil {
		cmds = append(cmds, waitForChange(m.changes))
	}
	if m.logListener != nil {
		cmds = append(cmds, m.logListener.Listen())
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		w := msg.Width
		if m.maxWidth > 0 && m.maxWidth < w {
			w = m.maxWidth
		}
		m.renderer.SetWidth(w)
		m.editor.SetWidth(max(w-4, 10))
		m.viewport.Width = msg.Width
		m.viewport.Height = msg.Height
		m.help.Width = msg.Width
		m.logs = m.logs.SetSize(msg.Width, msg.Height)
		m.refresh()
		return m, nil

	case SnapshotEvent:
		m.records = msg.Payload
		if m.showExport {
			m.refresh()
		}
		cmds := []tea.Cmd{m.listener.Listen()}
		if m.saver != nil && m.flags.Enabled(flags.FlagAutosave) {
			cmds = append(cmds, m.saveCmd(msg.Payload, false))
		}
		return m, tea.Batch(cmds...)

	case savedMsg:
		if msg.err != nil {
			log.ErrorErr(log.CatDB, "saving answers failed", msg.err, "task", m.taskID)
			var cmd tea.Cmd
			m.toaster, cmd = m.toaster.Show("Save failed: "+msg.err.Error(), toaster.StyleError, toastDuration)
			return m, cmd
		}
		log.Debug(log.CatDB, "answers saved", "task", m.taskID, "records", msg.records)
		if msg.manual {
			var cmd tea.Cmd
			m.toaster, cmd = m.toaster.Show(fmt.Sprintf("Saved %d answers", msg.records), toaster.StyleSuccess, toastDuration)
			return m, cmd
		}
		return m, nil

	case reloadMsg:
		cmd := m.reload()
		if msg.fromWatcher && m.changes != nil {
			cmd = tea.Batch(cmd, waitForChange(m.changes))
		}
		return m, cmd

	case log.LogEvent:
		m.logs = m.logs.Append(msg.Payload)
		if m.logListener == nil {
			return m, nil
		}
		return m, m.logListener.Listen()

	case toaster.DismissMsg:
		m.toaster = m.toaster.Update(msg)
		return m, nil

	case tea.KeyMsg:
		if m.debugMode && key.Matches(msg, m.keys.Logs) {
			m.logs = m.logs.Toggle()
			return m, nil
		}
		// The log panel takes precedence while it is open
		if m.logs.Visible() {
			var handled bool
			if m.logs, handled = m.logs.Update(msg); handled {
				return m, nil
			}
		}
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.handleKey(msg)
	}

	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Markup hotkeys take precedence over the default bindings.
	if c, ok := m.hotkey(msg.String()); ok {
		m.kit.ToggleChoice(c.ID)
		m.cursor = m.indexOf(c.ID)
		m.refresh()
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		m.flush()
		return m, tea.Quit

	case key.Matches(msg, m.keys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
		m.refresh()

	case key.Matches(msg, m.keys.Down):
		if m.cursor < len(m.controls)-1 {
			m.cursor++
		}
		m.refresh()

	case key.Matches(msg, m.keys.PageUp):
		m.viewport.ScrollUp(max(m.viewport.Height/2, 1))

	case key.Matches(msg, m.keys.PageDown):
		m.viewport.ScrollDown(max(m.viewport.Height/2, 1))

	case key.Matches(msg, m.keys.Toggle):
		if c, ok := m.focused(); ok && c.Kind == taskview.ControlChoice {
			m.kit.ToggleChoice(c.ID)
			m.refresh()
		}

	case key.Matches(msg, m.keys.Edit):
		c, ok := m.focused()
		if !ok {
			return m, nil
		}
		if c.Kind == taskview.ControlChoice {
			m.kit.ToggleChoice(c.ID)
			m.refresh()
			return m, nil
		}
		return m, m.startEditing(c.ID)

	case key.Matches(msg, m.keys.Save):
		if m.saver == nil {
			var cmd tea.Cmd
			m.toaster, cmd = m.toaster.Show("No answer store configured", toaster.StyleWarn, toastDuration)
			return m, cmd
		}
		return m, m.saveCmd(m.engine.Registry().InstancesValues(), true)

	case key.Matches(msg, m.keys.Reload):
		return m, func() tea.Msg { return reloadMsg{} }

	case key.Matches(msg, m.keys.Export):
		m.showExport = !m.showExport
		if m.showExport && m.records == nil {
			m.records = m.engine.Registry().InstancesValues()
		}
		m.refresh()

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	editing := keys.EditingKeyMap()
	switch {
	case key.Matches(msg, editing.Commit):
		if c, ok := m.focused(); ok {
			m.kit.SetText(c.ID, strings.TrimRight(m.editor.Value(), "\n"))
		}
		m.stopEditing()
		return m, nil
	case key.Matches(msg, editing.Cancel):
		m.stopEditing()
		return m, nil
	}

	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	m.refresh()
	return m, cmd
}

func (m *Model) startEditing(id string) tea.Cmd {
	ta, ok := m.kit.TextAreas.Instance(id)
	if !ok {
		return nil
	}
	m.editing = true
	m.editor.Placeholder = ta.Placeholder
	m.editor.SetHeight(max(ta.Rows, 1))
	m.editor.SetValue(ta.Value)
	cmd := m.editor.Focus()
	m.refresh()
	return cmd
}

func (m *Model) stopEditing() {
	m.editing = false
	m.editor.Blur()
	m.editor.Reset()
	m.refresh()
}

// reload re-reads the markup and re-renders it over the current tree so
// named controls keep their answers.
func (m *Model) reload() tea.Cmd {
	if m.editing {
		m.stopEditing()
	}
	src, err := m.source()
	if err == nil {
		var tree *markup.Tree
		tree, err = m.engine.Rerender(m.ctx, m.tree, src, m.data, nil)
		if err == nil {
			m.tree = tree
		}
	}
	m.refresh()

	var cmd tea.Cmd
	if err != nil {
		log.ErrorErr(log.CatUI, "reload failed", err)
		m.toaster, cmd = m.toaster.Show("Reload failed: "+err.Error(), toaster.StyleError, toastDuration)
		return cmd
	}
	log.Info(log.CatUI, "task reloaded", "task", m.taskID, "controls", len(m.controls))
	m.toaster, cmd = m.toaster.Show("Reloaded", toaster.StyleInfo, toastDuration)
	return cmd
}

// flush saves the current answers before quitting so the last debounce
// window is not lost.
func (m Model) flush() {
	if m.saver == nil || !m.flags.Enabled(flags.FlagAutosave) {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
	defer cancel()
	if err := m.saver.Save(ctx, m.taskID, m.engine.Registry().InstancesValues()); err != nil {
		log.ErrorErr(log.CatDB, "final save failed", err, "task", m.taskID)
	}
}

func (m Model) saveCmd(records map[string]registry.ExportRecord, manual bool) tea.Cmd {
	saver, taskID := m.saver, m.taskID
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), saveTimeout)
		defer cancel()
		return savedMsg{records: len(records), manual: manual, err: saver.Save(ctx, taskID, records)}
	}
}

func waitForChange(ch <-chan struct{}) tea.Cmd {
	return func() tea.Msg {
		if _, ok := <-ch; !ok {
			return nil
		}
		return reloadMsg{fromWatcher: true}
	}
}

// refresh recomputes the focusable controls and the viewport content after
// any state change.
func (m *Model) refresh() {
	m.controls = m.renderer.Controls(m.tree)
	if m.cursor >= len(m.controls) {
		m.cursor = max(len(m.controls)-1, 0)
	}

	focus, editor := "", ""
	if c, ok := m.focused(); ok {
		focus = c.ID
	}
	if m.editing {
		editor = m.editor.View()
	}
	m.renderer.SetFocus(focus, editor)

	content := m.renderer.Render(m.tree)
	if m.showExport {
		content += "\n\n" + m.exportView()
	}
	m.viewport.SetContent(content)
}

func (m Model) exportView() string {
	var buf bytes.Buffer
	if err := presentation.NewFormatter(&buf).FormatRecords(m.records); err != nil {
		return styles.ErrorStyle.Render(err.Error())
	}
	return styles.HintStyle.Render(strings.TrimRight(buf.String(), "\n"))
}

func (m Model) focused() (taskview.Control, bool) {
	if m.cursor < 0 || m.cursor >= len(m.controls) {
		return taskview.Control{}, false
	}
	return m.controls[m.cursor], true
}

func (m Model) hotkey(s string) (taskview.Control, bool) {
	for _, c := range m.controls {
		if c.Hotkey != "" && c.Hotkey == s {
			return c, true
		}
	}
	return taskview.Control{}, false
}

func (m Model) indexOf(id string) int {
	for i, c := range m.controls {
		if c.ID == id {
			return i
		}
	}
	return m.cursor
}

// View implements tea.Model.
func (m Model) View() string {
	footer := m.footer()
	if m.height == 0 {
		return m.renderer.Render(m.tree) + "\n" + footer
	}
	vp := m.viewport
	vp.Height = max(m.height-lipgloss.Height(footer), 1)
	return lipgloss.JoinVertical(lipgloss.Left, vp.View(), footer)
}

func (m Model) footer() string {
	parts := []string{m.taskID}
	if n := len(m.controls); n > 0 {
		parts = append(parts, fmt.Sprintf("%d/%d", m.cursor+1, n))
	}
	if m.saver != nil && m.flags.Enabled(flags.FlagAutosave) {
		parts = append(parts, "autosave")
	}
	if m.changes != nil {
		parts = append(parts, "watching")
	}
	status := styles.StatusBarStyle.Render(strings.Join(parts, " • "))

	lines := []string{status}
	if m.toaster.Visible() {
		lines = append(lines, m.toaster.View())
	}
	if m.logs.Visible() {
		lines = append([]string{m.logs.View()}, lines...)
	}
	if m.editing {
		lines = append(lines, m.help.View(keys.EditingKeyMap()))
	} else {
		lines = append(lines, m.help.View(m.keys))
	}
	return strings.Join(lines, "\n")
}

func keymap(debug bool) keys.KeyMap {
	km := keys.DefaultKeyMap()
	km.Logs.SetEnabled(debug)
	return km
}

// Tree returns the mounted tree.
func (m Model) Tree() *markup.Tree { return m.tree }

// Records returns the latest export snapshot received from the stream.
func (m Model) Records() map[string]registry.ExportRecord { return m.records }

// Close releases the export subscription and unmounts the tree.
func (m *Model) Close() error {
	if m.unsubscribe != nil {
		m.unsubscribe()
	}
	if m.cancel != nil {
		m.cancel()
	}
	if m.snapshots != nil {
		m.snapshots.Close()
	}
	if m.tree != nil {
		m.tree.Unmount()
	}
	return nil
}
