// Package demo is the interactive terminal front end of "fiber demo". The
// page is rendered into an in-memory host; every bubbletea tick grants the
// engine an idle slot, and key presses are delivered as host events.
package demo

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/go-drift/fiber/pkg/apps"
	"github.com/go-drift/fiber/pkg/core"
	"github.com/go-drift/fiber/pkg/engine"
	"github.com/go-drift/fiber/pkg/host"
	"github.com/go-drift/fiber/pkg/host/memhost"
	"github.com/go-drift/fiber/pkg/host/termview"
)

// Options configures a Model.
type Options struct {
	Title       string
	Todos       []string
	Engine      core.Config
	Tick        time.Duration
	SliceBudget time.Duration
	Styles      termview.Styles
	// Now measures slice budgets. Defaults to time.Now.
	Now func() time.Time
}

type tickMsg time.Time

// Model is the bubbletea model of the demo.
type Model struct {
	opts   Options
	host   *memhost.Host
	engine *core.Engine
	loop   *engine.IdleLoop
	view   *termview.Renderer

	targets []*memhost.Node
	cursor  int
	adding  bool
	input   textinput.Model

	keys   keyMap
	help   help.Model
	status lipgloss.Style
}

// New renders the page and returns a model ready to run.
func New(opts Options) (*Model, error) {
	if opts.Tick <= 0 {
		opts.Tick = 16 * time.Millisecond
	}
	if opts.SliceBudget <= 0 {
		opts.SliceBudget = 8 * time.Millisecond
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}

	h := memhost.New()
	e := core.NewEngine(h, opts.Engine)
	props := core.Props{"title": opts.Title}
	if len(opts.Todos) > 0 {
		props["items"] = opts.Todos
	}
	if err := e.Render(core.C(apps.Page, props), h.Container()); err != nil {
		return nil, fmt.Errorf("render page: %w", err)
	}

	ti := textinput.New()
	ti.Placeholder = "new todo"
	ti.CharLimit = 120
	ti.Width = 40

	m := &Model{
		opts:   opts,
		host:   h,
		engine: e,
		loop:   engine.NewIdleLoop(e, h),
		view:   termview.New(opts.Styles),
		input:  ti,
		keys:   defaultKeys,
		help:   help.New(),
		status: lipgloss.NewStyle().Foreground(lipgloss.Color("#666666")),
	}
	m.loop.Start()
	return m, nil
}

// Host returns the in-memory host the page renders into.
func (m *Model) Host() *memhost.Host { return m.host }

// Engine returns the demo engine.
func (m *Model) Engine() *core.Engine { return m.engine }

// Focused returns the node the cursor is on, or nil.
func (m *Model) Focused() *memhost.Node {
	if m.cursor < len(m.targets) {
		return m.targets[m.cursor]
	}
	return nil
}

func (m *Model) Init() tea.Cmd {
	return m.tick()
}

func (m *Model) tick() tea.Cmd {
	return tea.Tick(m.opts.Tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tickMsg:
		m.Step()
		return m, m.tick()

	case tea.WindowSizeMsg:
		m.help.Width = msg.Width

	case tea.KeyMsg:
		if m.adding {
			return m, m.updateInput(msg)
		}
		switch {
		case key.Matches(msg, m.keys.Quit):
			m.loop.Stop()
			m.engine.Teardown()
			return m, tea.Quit
		case key.Matches(msg, m.keys.Next):
			if len(m.targets) > 0 {
				m.cursor = (m.cursor + 1) % len(m.targets)
			}
		case key.Matches(msg, m.keys.Prev):
			if len(m.targets) > 0 {
				m.cursor = (m.cursor + len(m.targets) - 1) % len(m.targets)
			}
		case key.Matches(msg, m.keys.Press):
			if n := m.Focused(); n != nil {
				m.host.Dispatch(n, "click", nil)
			}
		case key.Matches(msg, m.keys.Inc):
			m.clickID(apps.IncrementID)
		case key.Matches(msg, m.keys.Dec):
			m.clickID(apps.DecrementID)
		case key.Matches(msg, m.keys.Add):
			m.adding = true
			return m, m.input.Focus()
		}
	}
	return m, nil
}

func (m *Model) updateInput(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Submit):
		if n := m.findID(apps.NewTodoID); n != nil {
			m.host.Dispatch(n, "submit", m.input.Value())
		}
		fallthrough
	case key.Matches(msg, m.keys.Cancel):
		m.adding = false
		m.input.Blur()
		m.input.SetValue("")
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// Step grants the engine one idle slot and refreshes focus targets after a
// commit.
func (m *Model) Step() {
	before, _ := m.engine.LastCycle()
	m.host.RunIdle(host.Budget(m.opts.Now, m.opts.SliceBudget))
	if after, ok := m.engine.LastCycle(); ok && after.Seq != before.Seq {
		m.refreshTargets()
		engine.Logger().Debug("demo commit",
			zap.Uint64("seq", after.Seq),
			zap.Int("mutations", after.Mutations))
	}
}

func (m *Model) refreshTargets() {
	focused := m.Focused()
	m.targets = m.host.Find(func(n *memhost.Node) bool {
		return len(n.Listeners("click")) > 0
	})
	m.cursor = 0
	for i, n := range m.targets {
		if n == focused {
			m.cursor = i
		}
	}
}

func (m *Model) clickID(id string) {
	if n := m.findID(id); n != nil {
		m.host.Dispatch(n, "click", nil)
	}
}

func (m *Model) findID(id string) *memhost.Node {
	found := m.host.Find(func(n *memhost.Node) bool {
		v, _ := n.Attr("id")
		return v == id
	})
	if len(found) == 0 {
		return nil
	}
	return found[0]
}

func (m *Model) View() string {
	var b strings.Builder
	m.view.Focus = m.Focused()
	m.view.Draft = m.input.Value()
	b.WriteString(m.view.Render(m.host.Container()))
	b.WriteString("\n\n")
	if m.adding {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
	}
	if stats, ok := m.engine.LastCycle(); ok {
		b.WriteString(m.status.Render(fmt.Sprintf(
			"cycle %d: %d units in %d slices, %d mutations, commit %s",
			stats.Seq, stats.Units, stats.Slices, stats.Mutations, stats.CommitDuration)))
		b.WriteString("\n")
	}
	b.WriteString(m.help.View(m.keys))
	return b.String()
}
