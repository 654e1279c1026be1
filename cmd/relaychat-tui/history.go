package main

import "time"

type sender int

const (
	senderSelf sender = iota
	senderOther
)

func (s sender) String() string {
	switch s {
	case senderSelf:
		return "self"
	case senderOther:
		return "other"
	default:
		return "unknown"
	}
}

type chatMessage struct {
	Text      string    `json:"text"`
	Sender    sender    `json:"sender"`
	CreatedAt time.Time `json:"created_at"`
}

// chatHistory is append-only. Callers only ever see copies of the backing slice.
type chatHistory struct {
	messages []chatMessage
	now      func() time.Time
}

func newChatHistory() *chatHistory {
	return &chatHistory{now: time.Now}
}

func (h *chatHistory) append(text string, from sender) chatMessage {
	msg := chatMessage{Text: text, Sender: from, CreatedAt: h.now()}
	h.messages = append(h.messages, msg)
	return msg
}

func (h *chatHistory) len() int {
	return len(h.messages)
}

func (h *chatHistory) snapshot() []chatMessage {
	out := make([]chatMessage, len(h.messages))
	copy(out, h.messages)
	return out
}

func (h *chatHistory) newestFirst() []chatMessage {
	out := make([]chatMessage, 0, len(h.messages))
	for idx := len(h.messages) - 1; idx >= 0; idx-- {
		out = append(out, h.messages[idx])
	}
	return out
}

func (h *chatHistory) last() (chatMessage, bool) {
	if len(h.messages) == 0 {
		return chatMessage{}, false
	}
	return h.messages[len(h.messages)-1], true
}
