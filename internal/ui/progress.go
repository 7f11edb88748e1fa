package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"loom/internal/emit"
)

type progressModel struct {
	title   string
	events  <-chan emit.Event
	spinner spinner.Model
	prog    progress.Model
	items   []targetItem
	index   map[string]int
	width   int
	done    bool
}

type targetItem struct {
	name   string
	status emit.Status
	output string
}

type eventMsg emit.Event
type doneMsg struct{}

// NewProgressModel returns a Bubble Tea model that renders emit progress.
func NewProgressModel(title string, targets []string, events <-chan emit.Event) tea.Model {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))

	prog := progress.New(progress.WithDefaultGradient())
	prog.Width = 76

	items := make([]targetItem, 0, len(targets))
	index := make(map[string]int, len(targets))
	for i, name := range targets {
		items = append(items, targetItem{name: name, status: emit.StatusQueued})
		index[name] = i
	}
	return &progressModel{
		title:   title,
		events:  events,
		spinner: sp,
		prog:    prog,
		items:   items,
		index:   index,
		width:   80,
	}
}

func (m *progressModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.listenForEvent())
}

func (m *progressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case eventMsg:
		cmd := m.applyEvent(emit.Event(msg))
		return m, tea.Batch(cmd, m.listenForEvent())
	case doneMsg:
		m.done = true
		return m, tea.Quit
	case spinner.TickMsg:
		if m.done {
			return m, nil
		}
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		if msg.Width > 0 {
			m.width = msg.Width
			m.prog.Width = msg.Width - 4
		}
		return m, nil
	case progress.FrameMsg:
		model, cmd := m.prog.Update(msg)
		m.prog = model.(progress.Model)
		return m, cmd
	}
	return m, nil
}

func (m *progressModel) View() string {
	if len(m.items) == 0 {
		return ""
	}
	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("7"))
	header := m.title
	if m.done {
		header = fmt.Sprintf("done: %s", header)
	} else {
		header = fmt.Sprintf("%s %s", m.spinner.View(), header)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(header))
	b.WriteString("\n\n")

	statusWidth := 10
	nameWidth := m.width - statusWidth - 4
	if nameWidth < 20 {
		nameWidth = 20
	}

	for _, item := range m.items {
		label := item.name
		if item.output != "" {
			label = fmt.Sprintf("%s -> %s", item.name, item.output)
		}
		statusStyled := styleStatus(item.status).Render(fmt.Sprintf("%10s", item.status))
		b.WriteString(fmt.Sprintf("  %s %s\n", statusStyled, truncate(label, nameWidth)))
	}

	b.WriteString("\n")
	if m.done {
		b.WriteString(m.prog.ViewAs(1.0))
	} else {
		b.WriteString(m.prog.View())
	}
	b.WriteString("\n")

	return b.String()
}

func (m *progressModel) listenForEvent() tea.Cmd {
	return func() tea.Msg {
		ev, ok := <-m.events
		if !ok {
			return doneMsg{}
		}
		return eventMsg(ev)
	}
}

func (m *progressModel) applyEvent(ev emit.Event) tea.Cmd {
	idx, ok := m.index[ev.Target]
	if !ok {
		return nil
	}
	m.items[idx].status = ev.Status
	if ev.Output != "" {
		m.items[idx].output = ev.Output
	}

	total := 0.0
	for _, item := range m.items {
		total += progressFromStatus(item.status)
	}
	return m.prog.SetPercent(total / float64(len(m.items)))
}

func progressFromStatus(status emit.Status) float64 {
	switch status {
	case emit.StatusBuilding:
		return 0.4
	case emit.StatusWriting:
		return 0.8
	case emit.StatusDone, emit.StatusError:
		return 1.0
	default:
		return 0.0
	}
}

func styleStatus(status emit.Status) lipgloss.Style {
	switch status {
	case emit.StatusDone:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("2"))
	case emit.StatusError:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("1"))
	case emit.StatusBuilding, emit.StatusWriting:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
	default:
		return lipgloss.NewStyle().Foreground(lipgloss.Color("7"))
	}
}

func truncate(value string, width int) string {
	if width <= 0 {
		return value
	}
	if runewidth.StringWidth(value) <= width {
		return value
	}
	if width <= 3 {
		return runewidth.Truncate(value, width, "")
	}
	return runewidth.Truncate(value, width-3, "...")
}
