package main

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/a-h/reviewextract/flow"
	"github.com/a-h/reviewextract/notify"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/reflow/wordwrap"
)

// Dracula color scheme.
var (
	Background  = lipgloss.Color("#282a36")
	CurrentLine = lipgloss.Color("#44475a")
	Foreground  = lipgloss.Color("#f8f8f2")
	Comment     = lipgloss.Color("#6272a4")
	Cyan        = lipgloss.Color("#8be9fd")
	Green       = lipgloss.Color("#50fa7b")
	Pink        = lipgloss.Color("#ff79c6")
	Purple      = lipgloss.Color("#bd93f9")
	Red         = lipgloss.Color("#ff5555")
)

var (
	headerStyle         = lipgloss.NewStyle().Background(CurrentLine).Foreground(Purple).Bold(true).Padding(0, 1)
	buttonStyle         = lipgloss.NewStyle().Background(Purple).Foreground(Background).Padding(0, 2)
	disabledButtonStyle = lipgloss.NewStyle().Background(CurrentLine).Foreground(Comment).Padding(0, 2)
	progressStyle       = lipgloss.NewStyle().Foreground(Cyan).Padding(1, 0)
	alertStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(Red).Foreground(Foreground).Padding(0, 1)
	helpStyle           = lipgloss.NewStyle().Foreground(Comment)
)

var notificationStyles = map[notify.Kind]lipgloss.Style{
	notify.KindSuccess: lipgloss.NewStyle().Foreground(Green),
	notify.KindError:   lipgloss.NewStyle().Foreground(Red),
}

const messageEnterURL = "Please enter a URL."

// pageChangedMsg asks the model to redraw after a handle was updated from
// outside the event loop.
type pageChangedMsg struct{}

type outcomeMsg flow.Outcome

func newTUIPage(path, label string) *tuiPage {
	return &tuiPage{
		path:    path,
		label:   label,
		enabled: true,
		send:    func(tea.Msg) {},
	}
}

// tuiPage holds the state of the extraction form. The flow updates it from
// a command goroutine, so access is guarded and every change triggers a
// redraw.
type tuiPage struct {
	m        sync.Mutex
	path     string
	label    string
	enabled  bool
	progress bool
	alert    string
	location string
	send     func(tea.Msg)
}

func (p *tuiPage) update(f func()) {
	p.m.Lock()
	f()
	p.m.Unlock()
	p.send(pageChangedMsg{})
}

func (p *tuiPage) Label() string {
	p.m.Lock()
	defer p.m.Unlock()
	return p.label
}

func (p *tuiPage) SetLabel(label string) {
	p.update(func() { p.label = label })
}

func (p *tuiPage) Enabled() bool {
	p.m.Lock()
	defer p.m.Unlock()
	return p.enabled
}

func (p *tuiPage) SetEnabled(enabled bool) {
	p.update(func() { p.enabled = enabled })
}

func (p *tuiPage) Show() {
	p.update(func() { p.progress = true })
}

func (p *tuiPage) Hide() {
	p.update(func() { p.progress = false })
}

func (p *tuiPage) Path() string {
	return p.path
}

func (p *tuiPage) Navigate(target string) {
	p.update(func() { p.location = target })
}

func (p *tuiPage) Alert(message string) {
	p.update(func() { p.alert = message })
}

func (p *tuiPage) Location() string {
	p.m.Lock()
	defer p.m.Unlock()
	return p.location
}

func (p *tuiPage) dismissAlert() (dismissed bool) {
	p.m.Lock()
	defer p.m.Unlock()
	dismissed = p.alert != ""
	p.alert = ""
	return dismissed
}

type snapshot struct {
	label, alert      string
	enabled, progress bool
}

func (p *tuiPage) snapshot() snapshot {
	p.m.Lock()
	defer p.m.Unlock()
	return snapshot{label: p.label, alert: p.alert, enabled: p.enabled, progress: p.progress}
}

type extractModel struct {
	ctx      context.Context
	flow     *flow.Flow
	page     *tuiPage
	notifier *notify.Notifier
	input    textinput.Model
	spinner  spinner.Model
	width    int
}

func newExtractModel(ctx context.Context, f *flow.Flow, p *tuiPage) extractModel {
	ti := textinput.New()
	ti.Placeholder = "https://rozetka.com.ua/..."
	ti.Prompt = "┃ "
	ti.Focus()

	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(Pink)

	return extractModel{
		ctx:  ctx,
		flow: f,
		page: p,
		// Changes can come from Update itself, where a blocking send would
		// deadlock the event loop.
		notifier: notify.New(func(notify.Notification, bool) {
			go p.send(pageChangedMsg{})
		}),
		input:   ti,
		spinner: sp,
		width:   80,
	}
}

func (m extractModel) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m extractModel) submit(url string) tea.Cmd {
	return func() tea.Msg {
		return outcomeMsg(m.flow.Submit(m.ctx, url))
	}
}

func (m extractModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case outcomeMsg:
		if m.page.Location() != "" {
			return m, tea.Quit
		}
		return m, nil
	case pageChangedMsg:
		return m, nil
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		return m, cmd
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.input.Width = msg.Width - 4
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "esc", "ctrl+c":
			return m, tea.Quit
		}
		// An alert blocks the form until a key is pressed.
		if m.page.dismissAlert() {
			return m, nil
		}
		if msg.String() == "enter" {
			if !m.page.Enabled() {
				return m, nil
			}
			url := strings.TrimSpace(m.input.Value())
			if url == "" {
				m.notifier.Error(messageEnterURL)
				return m, nil
			}
			return m, m.submit(url)
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	default:
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
}

func (m extractModel) View() string {
	s := m.page.snapshot()
	var sb strings.Builder
	sb.WriteString(headerStyle.Render("Review extraction"))
	sb.WriteString("\n\n")
	sb.WriteString(m.input.View())
	sb.WriteString("\n\n")
	if s.enabled {
		sb.WriteString(buttonStyle.Render(s.label))
	} else {
		sb.WriteString(disabledButtonStyle.Render(s.label))
	}
	sb.WriteString("\n")
	if s.progress {
		sb.WriteString(progressStyle.Render(fmt.Sprintf("%s Extracting reviews, this can take a while...", m.spinner.View())))
		sb.WriteString("\n")
	}
	if s.alert != "" {
		sb.WriteString("\n")
		sb.WriteString(alertStyle.Render(wordwrap.String(s.alert, max(m.width-4, 20))))
		sb.WriteString("\n")
		sb.WriteString(helpStyle.Render("Press any key to continue."))
		sb.WriteString("\n")
	}
	if n, ok := m.notifier.Current(); ok {
		sb.WriteString("\n")
		sb.WriteString(notificationStyles[n.Kind].Render(n.Message))
		sb.WriteString("\n")
	}
	sb.WriteString("\n")
	sb.WriteString(helpStyle.Render("enter: extract • esc: quit"))
	sb.WriteString("\n")
	return sb.String()
}
