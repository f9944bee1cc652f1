package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/wippyai/hax/bytecode"
	"github.com/wippyai/hax/config"
	haxerrors "github.com/wippyai/hax/errors"
	"github.com/wippyai/hax/vm"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4")).
			Padding(0, 1)

	funcStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#98FB98"))

	typeStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#87CEEB"))

	selectedStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#7D56F4"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF6B6B"))

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#666666"))

	paneStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#7D56F4"))
)

const listWidth = 28

type interactiveModel struct {
	err      error
	cfg      *config.Config
	paths    []string
	entries  []inspected
	visible  []int
	filter   textinput.Model
	view     viewport.Model
	selected int
	width    int
	height   int
	ready    bool
	loaded   bool
	typing   bool
}

// inspected is an entry with its simulation outcome. Simulation errors are
// shown in the pane rather than ending the session.
type inspected struct {
	entry
	simErr error
}

type loadedMsg struct {
	err     error
	entries []inspected
}

func newInteractiveModel(paths []string, cfg *config.Config) *interactiveModel {
	ti := textinput.New()
	ti.Prompt = "/"
	ti.Placeholder = "filter"
	ti.Width = listWidth - 4
	return &interactiveModel{
		cfg:    cfg,
		paths:  paths,
		filter: ti,
	}
}

func (m *interactiveModel) Init() tea.Cmd {
	return m.load
}

func (m *interactiveModel) load() tea.Msg {
	entries, err := load(m.paths, m.cfg)
	if err != nil {
		return loadedMsg{err: err}
	}
	out := make([]inspected, len(entries))
	for i, e := range entries {
		out[i].entry = e
		res, err := vm.Simulate(e.code)
		if err != nil {
			out[i].simErr = err
			continue
		}
		out[i].sim = &res
	}
	return loadedMsg{entries: out}
}

func (m *interactiveModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.typing {
			return m.updateFilter(msg)
		}
		switch msg.String() {
		case "ctrl+c", "q":
			return m, tea.Quit

		case "up", "k":
			if m.selected > 0 {
				m.selected--
				m.refresh()
			}
			return m, nil

		case "down", "j":
			if m.selected < len(m.visible)-1 {
				m.selected++
				m.refresh()
			}
			return m, nil

		case "/":
			m.typing = true
			return m, m.filter.Focus()
		}

	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		w := max(msg.Width-listWidth-6, 20)
		h := max(msg.Height-6, 5)
		if !m.ready {
			m.view = viewport.New(w, h)
			m.ready = true
		} else {
			m.view.Width = w
			m.view.Height = h
		}
		m.refresh()
		return m, nil

	case loadedMsg:
		m.loaded = true
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.entries = msg.entries
		m.applyFilter()
		return m, nil
	}

	var cmd tea.Cmd
	m.view, cmd = m.view.Update(msg)
	return m, cmd
}

func (m *interactiveModel) updateFilter(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.filter.SetValue("")
		fallthrough
	case "enter":
		m.typing = false
		m.filter.Blur()
		m.applyFilter()
		return m, nil
	}
	var cmd tea.Cmd
	m.filter, cmd = m.filter.Update(msg)
	m.applyFilter()
	return m, cmd
}

func (m *interactiveModel) applyFilter() {
	q := strings.ToLower(m.filter.Value())
	m.visible = m.visible[:0]
	for i, e := range m.entries {
		if q == "" || strings.Contains(strings.ToLower(e.code.Name), q) {
			m.visible = append(m.visible, i)
		}
	}
	m.selected = min(m.selected, max(len(m.visible)-1, 0))
	m.refresh()
}

func (m *interactiveModel) refresh() {
	if !m.ready {
		return
	}
	if len(m.visible) == 0 {
		m.view.SetContent("no functions")
		return
	}
	m.view.SetContent(describe(m.entries[m.visible[m.selected]]))
	m.view.GotoTop()
}

// describe renders the detail pane for one function: header, simulation
// result, disassembly and operand tables.
func describe(e inspected) string {
	c := e.code
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", funcStyle.Render(c.Name), typeStyle.Render(e.file))
	fmt.Fprintf(&b, "format %s  flags %s\n", c.FormatOrDefault(), c.Flags)
	fmt.Fprintf(&b, "args %d (posonly %d, kwonly %d)  locals %d  stack %d\n",
		c.ArgCount, c.PosOnlyArgCount, c.KwOnlyArgCount, c.NLocals, c.StackSize)
	if e.unit != nil {
		fmt.Fprintf(&b, "inline instructions %d\n", e.unit.Inline)
	}
	switch {
	case e.simErr != nil:
		b.WriteString(errorStyle.Render("simulation: " + e.simErr.Error()))
		b.WriteString("\n")
	case e.sim != nil:
		fmt.Fprintf(&b, "simulation: max depth %d, %d paths\n", e.sim.MaxDepth, e.sim.Paths)
	}
	b.WriteString("\n")

	dis, err := bytecode.Disassemble(c)
	if err != nil {
		b.WriteString(errorStyle.Render(err.Error()))
	} else {
		b.WriteString(dis)
	}
	b.WriteString("\n")

	consts := make([]string, len(c.Consts))
	for i, v := range c.Consts {
		consts[i] = haxerrors.Repr(v)
	}
	for _, t := range []struct {
		name  string
		items []string
	}{
		{"consts", consts},
		{"names", c.Names},
		{"varnames", c.Varnames},
		{"cellvars", c.Cellvars},
		{"freevars", c.Freevars},
	} {
		if len(t.items) == 0 {
			continue
		}
		b.WriteString(typeStyle.Render(t.name))
		b.WriteString("\n")
		for i, s := range t.items {
			fmt.Fprintf(&b, "  %3d  %s\n", i, s)
		}
	}
	return b.String()
}

func (m *interactiveModel) View() string {
	if m.err != nil {
		return errorStyle.Render(render(m.err, false)) + "\nPress q to quit."
	}
	if !m.loaded || !m.ready {
		return "Assembling..."
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("hax inspector"))
	b.WriteString(" ")
	b.WriteString(strings.Join(m.paths, ", "))
	b.WriteString("\n\n")

	var list strings.Builder
	if m.typing || m.filter.Value() != "" {
		list.WriteString(m.filter.View())
		list.WriteString("\n\n")
	}
	for i, idx := range m.visible {
		name := m.entries[idx].code.Name
		if len(name) > listWidth-4 {
			name = name[:listWidth-5] + "…"
		}
		if i == m.selected {
			list.WriteString(selectedStyle.Render("> " + name))
		} else {
			list.WriteString("  " + funcStyle.Render(name))
		}
		list.WriteString("\n")
	}

	left := paneStyle.Width(listWidth).Height(m.view.Height).Render(list.String())
	right := paneStyle.Render(m.view.View())
	b.WriteString(lipgloss.JoinHorizontal(lipgloss.Top, left, right))
	b.WriteString("\n")
	b.WriteString(helpStyle.Render("↑/↓ select • pgup/pgdn scroll • / filter • q quit"))
	return b.String()
}

func runInteractive(paths []string, cfg *config.Config) error {
	p := tea.NewProgram(newInteractiveModel(paths, cfg), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
