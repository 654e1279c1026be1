package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

const (
	responderHeading     = "Received message:"
	responderPlaceholder = "Type your reply"
	responderReplyLabel  = "Balas"
)

// responderScreen lives for exactly one handoff.
type responderScreen struct {
	handoffID uint64
	message   string
	input     textinput.Model
}

func newResponderScreen(handoffID uint64, req handoffRequest, charLimit int) responderScreen {
	input := textinput.New()
	input.Prompt = "❯ "
	input.CharLimit = charLimit
	input.Placeholder = responderPlaceholder
	input.Focus()
	return responderScreen{
		handoffID: handoffID,
		message:   req.Message,
		input:     input,
	}
}

// reply never fails and never trims; blank handling belongs to the composer.
func (s responderScreen) reply() handoffResponse {
	return handoffResponse{Reply: s.input.Value()}
}

func (s *responderScreen) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	s.input, cmd = s.input.Update(msg)
	return cmd
}

func (s *responderScreen) resize(width int) {
	s.input.Width = clampInt(width-12, 20, 72)
}

func (s *responderScreen) view(theme uiTheme, width, height int) string {
	contentWidth := clampInt(width-8, 32, 80)
	body := strings.Join([]string{
		theme.panelTitle.Render(fmt.Sprintf("Handoff #%d", s.handoffID)),
		theme.helpText.Render(responderHeading),
		theme.received.Render(wrapText(s.message, maxInt(10, contentWidth-6))),
		"",
		theme.inputPanel.Width(maxInt(24, contentWidth-6)).Render(s.input.View()),
		"",
		theme.accent.Render("[Enter] "+responderReplyLabel) + "    " + theme.helpText.Render("[Esc] Back without replying"),
	}, "\n")
	panel := theme.panel.Width(contentWidth).Render(
		lipgloss.JoinVertical(lipgloss.Center, body),
	)
	return lipgloss.Place(
		maxInt(contentWidth+2, width-4),
		maxInt(12, height),
		lipgloss.Center,
		lipgloss.Center,
		panel,
		lipgloss.WithWhitespaceBackground(theme.background),
	)
}
