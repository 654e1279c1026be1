package main

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestModel(t *testing.T) model {
	t.Helper()
	m := newModel(appConfig{title: "Relay Test", charLimit: 200, mouse: true}, newTheme(defaultPalette()))
	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 40})
	return next.(model)
}

func press(t *testing.T, m model, key tea.KeyType) (model, tea.Cmd) {
	t.Helper()
	next, cmd := m.Update(tea.KeyMsg{Type: key})
	return next.(model), cmd
}

func typeRunes(t *testing.T, m model, text string) model {
	t.Helper()
	next, _ := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
	return next.(model)
}

// deliver runs the completion command and feeds its message back into Update.
func deliver(t *testing.T, m model, cmd tea.Cmd) (model, handoffDoneMsg) {
	t.Helper()
	require.NotNil(t, cmd)
	done, ok := cmd().(handoffDoneMsg)
	require.True(t, ok, "expected handoffDoneMsg")
	next, _ := m.Update(done)
	return next.(model), done
}

func sendMessage(t *testing.T, m model, text string) model {
	t.Helper()
	m.composer.input.SetValue(text)
	m, _ = press(t, m, tea.KeyEnter)
	require.NotNil(t, m.responder, "expected responder to open")
	return m
}

func TestSendAppendsSelfBeforeHandoffCompletes(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")

	assert.Equal(t, []entry{{"hello", senderSelf}}, entries(m.history.snapshot()))
	assert.True(t, m.relay.awaiting())
	assert.Equal(t, "hello", m.responder.message)
	assert.Equal(t, "", m.composer.input.Value())
}

func TestTypedTextIsSent(t *testing.T) {
	m := newTestModel(t)
	m = typeRunes(t, m, "typed by hand")
	assert.Equal(t, "typed by hand", m.composer.input.Value())

	m, _ = press(t, m, tea.KeyEnter)
	require.NotNil(t, m.responder)
	assert.Equal(t, "typed by hand", m.responder.message)
}

func TestBlankSendDoesNothing(t *testing.T) {
	for _, input := range []string{"", "   ", "\t "} {
		m := newTestModel(t)
		m.composer.input.SetValue(input)
		m, cmd := press(t, m, tea.KeyEnter)

		assert.Nil(t, cmd)
		assert.Equal(t, 0, m.history.len())
		assert.Nil(t, m.responder)
		assert.False(t, m.relay.awaiting())
	}
}

func TestReplyAppendsOtherAfterSelf(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")
	m.responder.input.SetValue("hi")

	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, m.responder)
	assert.False(t, m.relay.awaiting())
	assert.Equal(t, 1, m.history.len(), "reply lands only when the completion event is delivered")

	m, _ = deliver(t, m, cmd)
	assert.Equal(t, []entry{
		{"hello", senderSelf},
		{"hi", senderOther},
	}, entries(m.history.snapshot()))
	assert.Equal(t, []entry{
		{"hi", senderOther},
		{"hello", senderSelf},
	}, entries(m.history.newestFirst()))
}

func TestDismissAddsNothing(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")
	m.responder.input.SetValue("never sent")

	m, cmd := press(t, m, tea.KeyEsc)
	m, done := deliver(t, m, cmd)

	assert.Nil(t, done.response)
	assert.Equal(t, 1, m.history.len())
	assert.False(t, m.quitConfirm, "esc on the responder is back navigation, not quit")
	require.NotEmpty(t, m.logs)
	assert.Contains(t, m.logs[len(m.logs)-1], "dismissed")
}

func TestEmptyReplyAddsNothing(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")

	m, cmd := press(t, m, tea.KeyEnter)
	m, done := deliver(t, m, cmd)

	require.NotNil(t, done.response)
	assert.Equal(t, "", done.response.Reply)
	assert.Equal(t, 1, m.history.len())
	assert.Equal(t, "no reply", m.statusLine)
}

func TestWhitespaceReplyIsKeptVerbatim(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")
	m.responder.input.SetValue("  spaced  ")

	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = deliver(t, m, cmd)

	last, ok := m.history.last()
	require.True(t, ok)
	assert.Equal(t, "  spaced  ", last.Text)
	assert.Equal(t, senderOther, last.Sender)
}

func TestDuplicateCompletionIsIgnored(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")
	m.responder.input.SetValue("hi")

	m, cmd := press(t, m, tea.KeyEnter)
	m, done := deliver(t, m, cmd)
	next, _ := m.Update(done)
	m = next.(model)

	assert.Equal(t, 2, m.history.len())
}

func TestComposerInputUntouchedByHandoff(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")
	m = typeRunes(t, m, "reply text")

	assert.Equal(t, "reply text", m.responder.input.Value())
	assert.Equal(t, "", m.composer.input.Value())

	m, cmd := press(t, m, tea.KeyEnter)
	m, _ = deliver(t, m, cmd)
	assert.Equal(t, "", m.composer.input.Value())
	assert.True(t, m.composer.input.Focused())
}

func TestMultipleRoundTripsBuildHistory(t *testing.T) {
	m := newTestModel(t)
	for _, pair := range [][2]string{{"one", "uno"}, {"two", ""}, {"three", "tres"}} {
		m = sendMessage(t, m, pair[0])
		m.responder.input.SetValue(pair[1])
		var cmd tea.Cmd
		m, cmd = press(t, m, tea.KeyEnter)
		m, _ = deliver(t, m, cmd)
	}

	assert.Equal(t, []entry{
		{"one", senderSelf},
		{"uno", senderOther},
		{"two", senderSelf},
		{"three", senderSelf},
		{"tres", senderOther},
	}, entries(m.history.snapshot()))
}

func TestQuitConfirmFlow(t *testing.T) {
	m := newTestModel(t)
	m, _ = press(t, m, tea.KeyEsc)
	assert.True(t, m.quitConfirm)
	assert.Contains(t, m.View(), "QUIT?")

	m = typeRunes(t, m, "n")
	assert.False(t, m.quitConfirm)

	m, _ = press(t, m, tea.KeyEsc)
	_, cmd := press(t, m, tea.KeyEnter)
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestViewShowsActiveScreen(t *testing.T) {
	m := newTestModel(t)
	view := m.View()
	assert.Contains(t, view, "Relay Test")
	assert.Contains(t, view, composerSendLabel)

	m = sendMessage(t, m, "hello there")
	view = m.View()
	assert.Contains(t, view, responderHeading)
	assert.Contains(t, view, "hello there")
	assert.Contains(t, view, responderReplyLabel)
	assert.Contains(t, view, "awaiting reply")
}

func TestRenderHistoryPlacesNewestAtBottom(t *testing.T) {
	h := newChatHistory()
	h.append("first message", senderSelf)
	h.append("second message", senderOther)

	out := renderHistory(h.newestFirst(), newTheme(defaultPalette()), 60)
	first := strings.Index(out, "first message")
	second := strings.Index(out, "second message")
	require.NotEqual(t, -1, first)
	require.NotEqual(t, -1, second)
	assert.Less(t, first, second)
}

func TestSendWaitsForUndeliveredCompletion(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")
	m.responder.input.SetValue("hi")
	m, replyCmd := press(t, m, tea.KeyEnter)
	require.Nil(t, m.responder)
	assert.False(t, m.relay.awaiting())
	assert.True(t, m.awaitingReply(), "completion not yet applied")
	assert.Contains(t, m.View(), "awaiting reply")

	m.composer.input.SetValue("next")
	m, cmd := press(t, m, tea.KeyEnter)
	assert.Nil(t, cmd)
	assert.Nil(t, m.responder)
	assert.Equal(t, "next", m.composer.input.Value(), "refused send keeps the draft")
	assert.Equal(t, []entry{{"hello", senderSelf}}, entries(m.history.snapshot()))
	assert.Contains(t, m.statusLine, "error")
	assert.Contains(t, m.statusLine, errHandoffPending.Error())

	m, _ = deliver(t, m, replyCmd)
	assert.False(t, m.awaitingReply())
	assert.Equal(t, []entry{
		{"hello", senderSelf},
		{"hi", senderOther},
	}, entries(m.history.snapshot()))

	m, _ = press(t, m, tea.KeyEnter)
	require.NotNil(t, m.responder)
	assert.Equal(t, "next", m.responder.message)
	assert.Equal(t, []entry{
		{"hello", senderSelf},
		{"hi", senderOther},
		{"next", senderSelf},
	}, entries(m.history.snapshot()))
}

func TestSendWhileResponderOpenIsRefused(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")
	id := m.pendingID
	m.composer.input.SetValue("sneaky")

	assert.Nil(t, m.send())
	assert.Equal(t, id, m.pendingID)
	assert.Equal(t, "hello", m.responder.message)
	assert.Equal(t, 1, m.history.len())
	require.NotEmpty(t, m.logs)
	assert.Contains(t, m.logs[len(m.logs)-1], errHandoffPending.Error())
}

func TestFooterShowsRecentLogLines(t *testing.T) {
	m := newTestModel(t)
	m = sendMessage(t, m, "hello")
	assert.Contains(t, m.View(), "Handoff #1")

	m, cmd := press(t, m, tea.KeyEsc)
	m, _ = deliver(t, m, cmd)
	assert.Contains(t, m.View(), "handoff #1 closed without reply (dismissed)")
}
