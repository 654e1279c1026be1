package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"relaychat/internal/logger"
)

const (
	headerHeight = 3
	footerHeight = 6
	inputHeight  = 3
	maxLogLines  = 50
	footerLogs   = 2
)

type model struct {
	cfg     appConfig
	history *chatHistory
	relay   handoffChannel

	composer  composerScreen
	responder *responderScreen
	pendingID uint64

	statusLine  string
	logs        []string
	quitConfirm bool

	width  int
	height int

	spinner spinner.Model
	theme   uiTheme
}

func newModel(cfg appConfig, theme uiTheme) model {
	history := newChatHistory()

	sp := spinner.New()
	sp.Spinner = spinner.Points
	sp.Style = theme.accent

	return model{
		cfg:        cfg,
		history:    history,
		relay:      newRelay(),
		composer:   newComposerScreen(history, cfg.charLimit, cfg.mouse),
		statusLine: "ready",
		logs:       []string{},
		spinner:    sp,
		theme:      theme,
	}
}

func (m model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.spinner.Tick)
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.resize()
		m.composer.refresh(m.theme)
	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)
		cmds = append(cmds, cmd)
	case handoffDoneMsg:
		m.handleHandoffDone(msg)
	case tea.MouseMsg:
		if m.quitConfirm || m.responder != nil {
			break
		}
		cmds = append(cmds, m.composer.update(msg))
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.quitConfirm {
			switch msg.String() {
			case "y", "Y", "enter":
				return m, tea.Quit
			case "n", "N", "esc":
				m.quitConfirm = false
				m.statusLine = "quit canceled"
			}
			return m, nil
		}
		if m.responder != nil {
			switch msg.String() {
			case "enter":
				return m, m.finishHandoff(true)
			case "esc":
				return m, m.finishHandoff(false)
			}
			cmds = append(cmds, m.responder.update(msg))
			break
		}
		switch msg.String() {
		case "esc":
			m.quitConfirm = true
			m.statusLine = "quit?"
			return m, nil
		case "enter":
			return m, m.send()
		}
		cmds = append(cmds, m.composer.update(msg))
	}
	return m, tea.Batch(cmds...)
}

// awaitingReply covers the whole round trip: from initiate until the
// completion message has been applied, not just while the responder is open.
func (m *model) awaitingReply() bool {
	return m.pendingID != 0 || m.relay.awaiting()
}

// send appends the outgoing message and opens the responder. Blank input
// never reaches the relay, and nothing is sent until the previous completion
// has landed.
func (m *model) send() tea.Cmd {
	if m.awaitingReply() {
		m.logError(fmt.Errorf("send handoff after #%d: %w", m.pendingID, errHandoffPending))
		return nil
	}
	text, ok := m.composer.takeInput()
	if !ok {
		m.statusLine = "nothing to send"
		return nil
	}
	m.history.append(text, senderSelf)
	m.composer.refresh(m.theme)

	pending, err := m.relay.initiate(text)
	if err != nil {
		m.logError(err)
		return nil
	}
	req, err := m.relay.receive(pending)
	if err != nil {
		m.logError(err)
		req = handoffRequest{Message: missingMessageText}
	}
	responder := newResponderScreen(pending.id, req, m.cfg.charLimit)
	responder.resize(m.width)
	m.responder = &responder
	m.pendingID = pending.id
	m.composer.input.Blur()
	m.statusLine = fmt.Sprintf("handoff #%d sent · waiting for reply", pending.id)
	logger.Info("handoff initiated", "id", pending.id, "chars", len(text))
	return textinput.Blink
}

// finishHandoff terminates the responder and completes the relay. A dismissed
// responder completes with no response.
func (m *model) finishHandoff(replied bool) tea.Cmd {
	var extras map[string]string
	if replied && m.responder != nil {
		extras = m.responder.reply().extras()
	}
	m.responder = nil
	m.composer.input.Focus()

	done, err := m.relay.complete(extras)
	if err != nil {
		m.logError(err)
		return nil
	}
	return func() tea.Msg { return done }
}

func (m *model) handleHandoffDone(msg handoffDoneMsg) {
	if msg.id == 0 || msg.id != m.pendingID {
		logger.Warn("stale handoff completion", "id", msg.id, "expected", m.pendingID)
		return
	}
	m.pendingID = 0
	reply, ok := msg.replyText()
	if !ok {
		reason := "dismissed"
		if msg.response != nil {
			reason = "empty reply"
		}
		m.appendLog(fmt.Sprintf("handoff #%d closed without reply (%s)", msg.id, reason))
		m.statusLine = "no reply"
		return
	}
	m.history.append(reply, senderOther)
	m.composer.refresh(m.theme)
	m.appendLog(fmt.Sprintf("handoff #%d replied after %s", msg.id, msg.elapsed.Round(time.Millisecond)))
	m.statusLine = "reply received"
}

func (m *model) resize() {
	contentWidth := maxInt(40, m.width-4)
	contentHeight := maxInt(8, m.height-headerHeight-footerHeight)
	m.composer.resize(contentWidth, contentHeight-inputHeight)
	if m.responder != nil {
		m.responder.resize(contentWidth)
	}
}

func (m model) View() string {
	if m.quitConfirm {
		return m.theme.root.Render(m.renderQuitModal())
	}
	header := m.renderHeader()
	var content string
	if m.responder != nil {
		content = m.responder.view(m.theme, m.width, maxInt(8, m.height-headerHeight-footerHeight))
	} else {
		content = m.composer.view(m.theme, m.width)
	}
	footer := m.renderFooter()
	return m.theme.root.Render(lipgloss.JoinVertical(lipgloss.Left, header, content, footer))
}

func (m *model) renderHeader() string {
	title := m.theme.title.Render(m.cfg.title)
	state := m.theme.helpText.Render("idle")
	if m.awaitingReply() {
		state = m.spinner.View() + " " + m.theme.helpText.Render(fmt.Sprintf("awaiting reply · handoff #%d", m.pendingID))
	}
	meta := m.theme.helpText.Render(fmt.Sprintf("messages: %d", m.history.len()))
	joined := lipgloss.JoinHorizontal(lipgloss.Left, title, "  ", state, "  ", meta)
	return m.theme.header.Width(maxInt(20, m.width-4)).Render(joined)
}

func (m *model) renderFooter() string {
	contentWidth := maxInt(40, m.width-4)
	statusStyle := m.theme.status
	lower := strings.ToLower(m.statusLine)
	if strings.Contains(lower, "failed") || strings.Contains(lower, "error") {
		statusStyle = m.theme.errorStatus
	}
	line := statusStyle.Render(compactSingleLine(m.statusLine, 180))
	hints := "Keys: Enter send · PgUp/PgDn scroll · Esc quit prompt · Ctrl+C quit"
	if m.responder != nil {
		hints = "Keys: Enter reply · Esc back without replying · Ctrl+C quit"
	}
	lines := []string{line}
	recent := m.logs[maxInt(0, len(m.logs)-footerLogs):]
	for idx := 0; idx < footerLogs; idx++ {
		entry := ""
		if idx < len(recent) {
			entry = compactSingleLine(recent[idx], maxInt(20, contentWidth-4))
		}
		lines = append(lines, m.theme.timestamp.Render(entry))
	}
	lines = append(lines, m.theme.helpText.Render(hints))
	return m.theme.footer.Width(contentWidth).Render(strings.Join(lines, "\n"))
}

func (m *model) renderQuitModal() string {
	canvasWidth := maxInt(40, m.width-4)
	canvasHeight := maxInt(12, m.height-4)
	modalWidth := clampInt(int(float64(canvasWidth)*0.56), 32, 64)
	if modalWidth > canvasWidth-2 {
		modalWidth = canvasWidth - 2
	}

	body := strings.Join([]string{
		m.theme.errorStatus.Render("QUIT?"),
		m.theme.helpText.Render("The chat history is kept in memory only and will be lost."),
		"",
		m.theme.accent.Render("[Y / Enter] Quit") + "    " + m.theme.helpText.Render("[N / Esc] Return"),
	}, "\n")
	panel := m.theme.modalFrame.Width(modalWidth).Render(body)
	return lipgloss.Place(
		canvasWidth,
		canvasHeight,
		lipgloss.Center,
		lipgloss.Center,
		panel,
		lipgloss.WithWhitespaceBackground(m.theme.background),
	)
}

func (m *model) appendLog(line string) {
	trimmed := strings.TrimSpace(line)
	if trimmed == "" {
		return
	}
	logger.Info(trimmed)
	m.pushLog(trimmed)
}

func (m *model) pushLog(line string) {
	m.logs = append(m.logs, fmt.Sprintf("%s %s", time.Now().Format("15:04:05"), compactSingleLine(line, 220)))
	if len(m.logs) > maxLogLines {
		m.logs = m.logs[len(m.logs)-maxLogLines:]
	}
}

func (m *model) logError(err error) {
	if err == nil {
		return
	}
	logger.Error("relaychat error", "err", err)
	m.pushLog("error: " + err.Error())
	m.statusLine = "error: " + compactSingleLine(err.Error(), 160)
}
