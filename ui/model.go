// Package ui hosts the messenger in a terminal.
// The bubbletea loop is the UI thread: views and the navigation stack are only
// touched from Update, worker updates reach it through the Applier.
package ui

import (
	stdErrors "errors"
	"fmt"
	"strings"

	"messenger/app"
	"messenger/binding"
	"messenger/domain"
	"messenger/errors"
	"messenger/views"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
)

const (
	chromeHeight  = 6
	defaultWidth  = 80
	defaultHeight = 24
	composeLimit  = 1000
	roomListHelp  = "↑/↓ move • enter open • r refresh • q quit"
	chatRoomHelp  = "enter send • esc back • ctrl+c quit"
)

type Model struct {
	shell    *app.Shell
	applier  *Applier
	styles   Styles
	input    textinput.Model
	viewport viewport.Model
	cursor   int
	bound    *views.ChatRoomView
	lines    []string
	width    int
	height   int
	status   string
	failed   bool
}

func New(shell *app.Shell, applier *Applier) *Model {
	input := textinput.New()
	input.Placeholder = "Write a message"
	input.CharLimit = composeLimit
	input.Prompt = "> "
	return &Model{
		shell:    shell,
		applier:  applier,
		styles:   DefaultStyles(),
		input:    input,
		viewport: viewport.New(defaultWidth, defaultHeight-chromeHeight),
		width:    defaultWidth,
		height:   defaultHeight,
	}
}

func (m *Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.applier.listen())
}

// Fail reports a message the outbox could not deliver.
func (m *Model) Fail(roomID domain.RoomID, content string, err error) {
	m.status = fmt.Sprintf("not delivered to %s: %q (%v)", roomID, content, err)
	m.failed = true
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch msg := msg.(type) {
	case ApplyMsg:
		msg.fn()
		cmd = m.applier.listen()
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.viewport.Width = msg.Width
		m.viewport.Height = max(1, msg.Height-chromeHeight)
		m.input.Width = max(1, msg.Width-len(m.input.Prompt)-1)
	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		switch view := m.shell.Active().(type) {
		case *views.RoomListView:
			cmd = m.updateRoomList(view, msg)
		case *views.ChatRoomView:
			cmd = m.updateChatRoom(view, msg)
		}
	}
	m.sync()
	return m, cmd
}

func (m *Model) updateRoomList(list *views.RoomListView, msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "q":
		return tea.Quit
	case "up", "k":
		m.cursor = max(0, m.cursor-1)
	case "down", "j":
		m.cursor = min(list.Rooms().ItemCount()-1, m.cursor+1)
	case "r":
		if err := m.shell.Refresh(); err != nil {
			m.report(err)
		}
	case "enter":
		if _, err := m.shell.Select(m.cursor); err != nil {
			m.report(err)
			return nil
		}
		m.clearStatus()
		m.input.Reset()
		m.viewport.GotoBottom()
		return m.input.Focus()
	}
	return nil
}

func (m *Model) updateChatRoom(chat *views.ChatRoomView, msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEsc:
		chat.SetDraft(m.input.Value())
		if err := m.shell.Back(); err != nil {
			m.report(err)
			return nil
		}
		m.input.Blur()
		return nil
	case tea.KeyEnter:
		chat.SetDraft(m.input.Value())
		if _, err := chat.Submit(); err != nil {
			if !stdErrors.Is(err, errors.ErrEmptyMessage) {
				m.report(err)
			}
			return nil
		}
		m.input.Reset()
		m.viewport.GotoBottom()
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

// sync clamps the cursor and refreshes the viewport after an update.
func (m *Model) sync() {
	m.cursor = max(0, min(m.cursor, m.shell.Rooms().Rooms().ItemCount()-1))
	if chat, ok := m.shell.Active().(*views.ChatRoomView); ok {
		if chat != m.bound {
			m.attach(chat)
		}
		bottom := m.viewport.AtBottom()
		m.viewport.SetContent(strings.Join(m.lines, "\n"))
		if bottom {
			m.viewport.GotoBottom()
		}
	}
}

// attach renders the transcript of chat once, then follows its binding.
// Only the most recently attached view updates the rendered lines.
func (m *Model) attach(chat *views.ChatRoomView) {
	m.bound = chat
	m.lines = lo.Map(chat.Messages().Rows(), func(row binding.Row, _ int) string { return m.line(row) })
	chat.Messages().Observe(binding.ObserverFunc(func(change binding.Change) {
		if m.bound == chat {
			m.follow(chat.Messages(), change)
		}
	}))
}

func (m *Model) follow(messages *binding.ListBinding[domain.ChatMessage], change binding.Change) {
	row, err := messages.Render(change.Index)
	switch {
	case change.Kind == binding.Inserted && err == nil && change.Index == len(m.lines):
		m.lines = append(m.lines, m.line(row))
	case change.Kind == binding.Changed && err == nil && change.Index < len(m.lines):
		m.lines[change.Index] = m.line(row)
	default:
		m.lines = lo.Map(messages.Rows(), func(row binding.Row, _ int) string { return m.line(row) })
	}
}

func (m *Model) report(err error) {
	m.status = err.Error()
	m.failed = true
}

func (m *Model) clearStatus() {
	m.status = ""
	m.failed = false
}

func (m *Model) View() string {
	var b strings.Builder
	b.WriteString(m.styles.Header.Render(strings.Join(m.shell.Stack().Breadcrumbs(), " › ")))
	b.WriteString("\n")
	help := roomListHelp
	switch view := m.shell.Active().(type) {
	case *views.RoomListView:
		b.WriteString(m.roomList(view.Rooms().Rows()))
	case *views.ChatRoomView:
		help = chatRoomHelp
		b.WriteString(m.viewport.View())
		b.WriteString("\n")
		b.WriteString(m.input.View())
	}
	if m.status != "" {
		style := m.styles.Status
		if m.failed {
			style = m.styles.Error
		}
		b.WriteString("\n")
		b.WriteString(style.Render(m.status))
	}
	b.WriteString("\n")
	b.WriteString(m.styles.Help.Render(help))
	return b.String()
}

func (m *Model) roomList(rows []binding.Row) string {
	if len(rows) == 0 {
		return m.styles.Subtitle.Render("No conversations yet")
	}
	lines := make([]string, 0, len(rows))
	for i, row := range rows {
		title := row.Title
		if row.Badge != "" {
			title = lipgloss.JoinHorizontal(lipgloss.Top, title, " ", m.styles.Badge.Render(row.Badge))
		}
		entry := lipgloss.JoinVertical(lipgloss.Left, title, m.styles.Subtitle.Render(row.Subtitle))
		style := m.styles.Row
		if i == m.cursor {
			style = m.styles.Selected
		}
		lines = append(lines, style.Render(entry))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) line(row binding.Row) string {
	line := fmt.Sprintf("%s %s %s", m.styles.Meta.Render(row.Meta), m.styles.Sender.Render(row.Title+":"), row.Subtitle)
	if row.Badge != "" {
		line += " " + m.styles.Meta.Render(row.Badge)
	}
	return line
}
