package main

import (
	"errors"
	"fmt"
	"time"
)

// Payload field names shared by the composer and responder screens.
const (
	extraMessage = "message"
	extraReply   = "reply"
)

const missingMessageText = "No message found"

var (
	errHandoffPending   = errors.New("handoff already pending")
	errNoPendingHandoff = errors.New("no pending handoff")
)

type handoffRequest struct {
	Message string `json:"message"`
}

type handoffResponse struct {
	Reply string `json:"reply"`
}

func (r handoffResponse) extras() map[string]string {
	return map[string]string{extraReply: r.Reply}
}

// pendingHandoff is the handle for one round trip. The request travels as its
// own extras map so the responder never shares state with the composer.
// Values are passed through byte for byte.
type pendingHandoff struct {
	id        uint64
	extras    map[string]string
	startedAt time.Time
}

// handoffDoneMsg is the completion event. response is nil when the responder
// was dismissed without replying.
type handoffDoneMsg struct {
	id       uint64
	response *handoffResponse
	elapsed  time.Duration
}

func (m handoffDoneMsg) replyText() (string, bool) {
	if m.response == nil || m.response.Reply == "" {
		return "", false
	}
	return m.response.Reply, true
}

type handoffChannel interface {
	initiate(text string) (*pendingHandoff, error)
	receive(p *pendingHandoff) (handoffRequest, error)
	complete(extras map[string]string) (handoffDoneMsg, error)
	awaiting() bool
}

type relay struct {
	seq     uint64
	pending *pendingHandoff
	now     func() time.Time
}

func newRelay() *relay {
	return &relay{now: time.Now}
}

func (r *relay) initiate(text string) (*pendingHandoff, error) {
	if r.pending != nil {
		return nil, fmt.Errorf("initiate handoff while %d is open: %w", r.pending.id, errHandoffPending)
	}
	r.seq++
	r.pending = &pendingHandoff{
		id:        r.seq,
		extras:    map[string]string{extraMessage: text},
		startedAt: r.now(),
	}
	return r.pending, nil
}

func (r *relay) receive(p *pendingHandoff) (handoffRequest, error) {
	if p == nil {
		return handoffRequest{}, errNoPendingHandoff
	}
	text, ok := p.extras[extraMessage]
	if !ok {
		text = missingMessageText
	}
	return handoffRequest{Message: text}, nil
}

// complete delivers the responder's result. Nil extras, or extras without a
// reply field, mean the responder closed without replying.
func (r *relay) complete(extras map[string]string) (handoffDoneMsg, error) {
	if r.pending == nil {
		return handoffDoneMsg{}, errNoPendingHandoff
	}
	p := r.pending
	r.pending = nil
	done := handoffDoneMsg{id: p.id, elapsed: r.now().Sub(p.startedAt)}
	if reply, ok := extras[extraReply]; ok {
		done.response = &handoffResponse{Reply: reply}
	}
	return done, nil
}

func (r *relay) awaiting() bool {
	return r.pending != nil
}
