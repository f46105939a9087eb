package main

import (
	"fmt"
	"strings"
	"time"

	"charm.land/bubbles/v2/textinput"
	"charm.land/bubbles/v2/viewport"
	tea "charm.land/bubbletea/v2"
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"github.com/gosuda/prism/browser"
)

const (
	tickInterval = 50 * time.Millisecond
	panelHeight  = 8
)

type model struct {
	cfg       appConfig
	session   *browser.Session
	present   *presenter
	console   *console
	address   textinput.Model
	panel     viewport.Model
	showPanel bool
	editing   bool
	ready     bool
	width     int
	height    int
	page      string
	status    string
}

var (
	chromeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24"))
	navOn       = lipgloss.NewStyle().Foreground(lipgloss.Color("230")).Background(lipgloss.Color("24")).Bold(true)
	navOff      = lipgloss.NewStyle().Foreground(lipgloss.Color("244")).Background(lipgloss.Color("24"))
	statusStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252")).Background(lipgloss.Color("236"))
	errStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Background(lipgloss.Color("236"))
	panelStyle  = lipgloss.NewStyle().BorderStyle(lipgloss.NormalBorder()).BorderTop(true).BorderForeground(lipgloss.Color("240"))
)

func newModel(cfg appConfig, session *browser.Session, con *console) model {
	ti := textinput.New()
	ti.Prompt = ""
	ti.Placeholder = "path/to/app.prism"
	ti.CharLimit = 1024
	ti.SetValue(session.Location())
	vp := viewport.New(
		viewport.WithWidth(80),
		viewport.WithHeight(panelHeight),
	)
	return model{
		cfg:     cfg,
		session: session,
		present: newPresenter(cfg.cfg.CellWidth, cfg.cfg.CellHeight),
		console: con,
		address: ti,
		panel:   vp,
		status:  "ready",
	}
}

func tick() tea.Cmd {
	return tea.Tick(tickInterval, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func copyLocation(text string) tea.Cmd {
	return func() tea.Msg {
		return copiedMsg{text: text, err: clipboard.WriteAll(text)}
	}
}

func (m model) Init() tea.Cmd {
	return tick()
}

// pageRows is the number of terminal rows left for the document.
func (m model) pageRows() int {
	rows := m.height - 2
	if m.showPanel {
		rows -= panelHeight + 1
	}
	return max(rows, 1)
}

func (m *model) resize() {
	w, h := m.present.pixelSize(m.width, m.pageRows())
	m.session.Resize(w, h)
	m.address.SetWidth(max(m.width-8, 10))
	m.panel.SetWidth(m.width)
	m.panel.SetHeight(panelHeight)
}

// refresh repaints the page when the session has changed and syncs the
// chrome with it.
func (m *model) refresh() {
	if m.session.NeedsFrame() || m.page == "" {
		fb := m.session.Frame()
		m.page = m.present.Render(fb, m.width, m.pageRows())
	}
	if !m.editing {
		m.address.SetValue(m.session.Location())
	}
	if content, ok := m.console.take(); ok {
		m.panel.SetContent(content)
		m.panel.GotoBottom()
	}
}

func (m *model) report(err error) {
	if err != nil {
		m.status = err.Error()
		return
	}
	m.status = "loaded " + m.session.Title()
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true
		m.resize()
		m.page = ""
		m.refresh()
		return m, nil

	case tickMsg:
		m.session.Tick(time.Time(msg))
		if m.ready {
			m.refresh()
		}
		return m, tick()

	case copiedMsg:
		if msg.err != nil {
			m.status = "clipboard: " + msg.err.Error()
		} else {
			m.status = "copied " + msg.text
		}
		return m, nil

	case tea.MouseClickMsg:
		mouse := msg.Mouse()
		if mouse.Button != tea.MouseLeft {
			return m, nil
		}
		if mouse.Y == 0 {
			m.editing = true
			return m, m.address.Focus()
		}
		row := mouse.Y - 1
		if row >= m.pageRows() {
			return m, nil
		}
		m.editing = false
		m.address.Blur()
		x, y := m.present.cellCenter(mouse.X, row)
		if _, err := m.session.Click(x, y); err != nil {
			m.report(err)
		}
		m.refresh()
		return m, nil

	case tea.MouseWheelMsg:
		switch msg.Mouse().Button {
		case tea.MouseWheelUp:
			m.session.Scroll(-1)
		case tea.MouseWheelDown:
			m.session.Scroll(1)
		}
		m.refresh()
		return m, nil

	case tea.KeyPressMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.editing {
			return m.updateAddress(msg)
		}
		if inst := m.session.Instance(); inst != nil && inst.Focused() != "" {
			if m.typeIntoPage(msg) {
				m.refresh()
				return m, nil
			}
		}
		return m.updateShortcut(msg)
	}

	if m.showPanel {
		var cmd tea.Cmd
		m.panel, cmd = m.panel.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) updateAddress(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	switch msg.Key().Code {
	case tea.KeyEnter:
		m.editing = false
		m.address.Blur()
		m.report(m.session.Load(strings.TrimSpace(m.address.Value())))
		m.refresh()
		return m, nil
	case tea.KeyEscape:
		m.editing = false
		m.address.Blur()
		m.address.SetValue(m.session.Location())
		return m, nil
	}
	var cmd tea.Cmd
	m.address, cmd = m.address.Update(msg)
	return m, cmd
}

// typeIntoPage sends text keys to the focused page input.
func (m *model) typeIntoPage(msg tea.KeyPressMsg) bool {
	inst := m.session.Instance()
	k := msg.Key()
	switch k.Code {
	case tea.KeyEscape:
		return inst.Blur()
	case tea.KeyBackspace:
		inst.HandleBackspace()
		return true
	}
	if k.Text == "" || k.Mod&(tea.ModCtrl|tea.ModAlt) != 0 {
		return false
	}
	for _, r := range k.Text {
		inst.HandleKey(r)
	}
	return true
}

func (m model) updateShortcut(msg tea.KeyPressMsg) (tea.Model, tea.Cmd) {
	step := max(m.pageRows()*m.present.cellH/m.cfg.cfg.Step(), 1)
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "ctrl+l", ":":
		m.editing = true
		m.address.CursorEnd()
		return m, m.address.Focus()
	case "b", "alt+left":
		m.report(m.session.Back())
	case "f", "alt+right":
		m.report(m.session.Forward())
	case "r", "f5":
		m.report(m.session.Reload())
	case "j", "down":
		m.session.Scroll(1)
	case "k", "up":
		m.session.Scroll(-1)
	case "pgdown", "space":
		m.session.Scroll(step)
	case "pgup":
		m.session.Scroll(-step)
	case "g", "home":
		m.session.Scroll(-1 << 20)
	case "G", "end":
		m.session.Scroll(1 << 20)
	case "o":
		m.showPanel = !m.showPanel
		m.resize()
		m.page = ""
	case "y":
		return m, copyLocation(m.session.Location())
	default:
		return m, nil
	}
	m.refresh()
	return m, nil
}

func (m model) View() tea.View {
	if !m.ready {
		v := tea.NewView("initializing...")
		v.AltScreen = true
		return v
	}
	parts := []string{m.chrome(), m.page}
	if m.showPanel {
		parts = append(parts, panelStyle.Width(m.width).Render(m.panel.View()))
	}
	parts = append(parts, m.statusLine())
	v := tea.NewView(strings.Join(parts, "\n"))
	v.AltScreen = true
	v.MouseMode = tea.MouseModeCellMotion
	return v
}

func (m model) chrome() string {
	back, fwd := navOff.Render(" ◀ "), navOff.Render("▶ ")
	if m.session.CanGoBack() {
		back = navOn.Render(" ◀ ")
	}
	if m.session.CanGoForward() {
		fwd = navOn.Render("▶ ")
	}
	return back + fwd + chromeStyle.Width(max(m.width-5, 1)).MaxWidth(max(m.width-5, 1)).Render(" "+m.address.View())
}

func (m model) statusLine() string {
	percent := 100
	if total := m.session.ContentHeight(); total > 0 {
		_, h := m.session.Size()
		if total > h {
			percent = m.session.ScrollOffset() * 100 / (total - h)
		}
	}
	used, limit := m.session.MemoryUsage()
	line := fmt.Sprintf(" %s | %d%% | %s | %.1f/%d KiB | o console  y copy  q quit",
		m.session.Title(), percent, m.status, float64(used)/1024, limit/1024)
	line = runewidth.FillRight(runewidth.Truncate(line, m.width, "…"), m.width)
	if m.session.Err() != nil {
		return errStyle.Render(line)
	}
	return statusStyle.Render(line)
}
