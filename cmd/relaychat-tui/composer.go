package main

import (
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	composerPlaceholder = "Type a message"
	composerSendLabel   = "Kirim"
	bubbleMaxRatio      = 0.72
	bubbleMinWidth      = 12
)

type composerScreen struct {
	history  *chatHistory
	input    textinput.Model
	timeline viewport.Model
	mouse    bool
}

func newComposerScreen(history *chatHistory, charLimit int, mouse bool) composerScreen {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = charLimit
	input.Placeholder = composerPlaceholder
	input.Focus()

	timeline := viewport.New(0, 0)
	timeline.MouseWheelEnabled = mouse
	timeline.MouseWheelDelta = 4

	return composerScreen{
		history:  history,
		input:    input,
		timeline: timeline,
		mouse:    mouse,
	}
}

// takeInput returns the pending text and clears the field. Blank input is
// left in place and reported as not sendable.
func (s *composerScreen) takeInput() (string, bool) {
	text := s.input.Value()
	if strings.TrimSpace(text) == "" {
		return "", false
	}
	s.input.Reset()
	return text, true
}

func (s *composerScreen) update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case tea.MouseMsg:
		if !s.mouse {
			return nil
		}
		var cmd tea.Cmd
		s.timeline, cmd = s.timeline.Update(msg)
		return cmd
	case tea.KeyMsg:
		switch msg.String() {
		case "pgup", "ctrl+b":
			s.timeline.LineUp(8)
			return nil
		case "pgdown", "ctrl+f":
			s.timeline.LineDown(8)
			return nil
		case "up":
			if s.input.Value() == "" {
				s.timeline.LineUp(2)
				return nil
			}
		case "down":
			if s.input.Value() == "" {
				s.timeline.LineDown(2)
				return nil
			}
		case "home":
			s.timeline.GotoTop()
			return nil
		case "end":
			s.timeline.GotoBottom()
			return nil
		}
	}
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *composerScreen) resize(width, height int) {
	s.input.Width = maxInt(20, width-6-lipgloss.Width(composerSendLabel))
	s.timeline.Width = maxInt(20, width-4)
	s.timeline.Height = maxInt(3, height-2)
}

func (s *composerScreen) refresh(theme uiTheme) {
	atBottom := s.timeline.AtBottom()
	offset := s.timeline.YOffset
	s.timeline.SetContent(renderHistory(s.history.newestFirst(), theme, s.timeline.Width))
	if atBottom {
		s.timeline.GotoBottom()
	} else {
		s.timeline.SetYOffset(offset)
	}
}

// renderHistory stacks entries from the bottom edge up, newest first, so the
// latest message always sits directly above the input.
func renderHistory(newestFirst []chatMessage, theme uiTheme, width int) string {
	if len(newestFirst) == 0 {
		return theme.helpText.Render("No messages yet. Type a message and press Enter to send it.")
	}
	width = maxInt(bubbleMinWidth+4, width)
	rows := make([]string, len(newestFirst))
	for idx, msg := range newestFirst {
		rows[len(newestFirst)-1-idx] = renderBubble(msg, theme, width)
	}
	return strings.Join(rows, "\n")
}

func renderBubble(msg chatMessage, theme uiTheme, width int) string {
	maxBubble := maxInt(bubbleMinWidth, int(float64(width)*bubbleMaxRatio))
	style := theme.bubbleStyle(msg.Sender)
	frame := style.GetHorizontalFrameSize()
	body := wrapText(msg.Text, maxInt(1, maxBubble-frame))
	bubble := style.Render(body)
	stamp := theme.timestamp.Render(msg.CreatedAt.Format("15:04"))

	position := lipgloss.Left
	if msg.Sender == senderSelf {
		position = lipgloss.Right
	}
	block := lipgloss.JoinVertical(position, bubble, stamp)
	return lipgloss.PlaceHorizontal(width, position, block)
}

func (s *composerScreen) view(theme uiTheme, width int) string {
	contentWidth := maxInt(40, width-4)
	timeline := theme.panel.Width(contentWidth).Render(s.timeline.View())

	hint := theme.accent.Render("[Enter] " + composerSendLabel)
	input := theme.inputPanel.Width(contentWidth).Render(
		lipgloss.JoinHorizontal(lipgloss.Center, s.input.View(), "  ", hint),
	)
	return lipgloss.JoinVertical(lipgloss.Left, timeline, input)
}
