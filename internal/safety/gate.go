package safety

import (
	"errors"
	"strings"
)

// ErrEmptyMessage reports a missing or whitespace-only message. It is the
// only error the gate produces and maps to a user-correctable 400.
var ErrEmptyMessage = errors.New("missing message")

// DefaultDenyList is the fixed phrase list evaluated against every inbound
// message. Matching is literal substring containment on the lowered message;
// false positives on benign messages are the accepted trade-off of that
// policy.
var DefaultDenyList = []string{
	"how to kill myself",
	"kill myself",
	"suicide method",
	"how to commit suicide",
	"commit suicide",
	"harm myself",
	"self harm",
	"cut myself",
	"overdose",
	"ways to die",
}

// DefaultBlockedReply is returned verbatim whenever a message is blocked.
const DefaultBlockedReply = "I'm really sorry you're feeling this way. I can't help with self-harm instructions. " +
	"If you're in immediate danger, contact local emergency services or someone you trust right now. " +
	"If you want, tell me what's going on and I can offer supportive coping steps."

type Result struct {
	Blocked bool
	Reply   string
}

// Gate classifies messages against an immutable deny list. The list and the
// blocked reply are injected at construction so tests can substitute them.
type Gate struct {
	denyList     []string
	blockedReply string
}

func NewGate(denyList []string, blockedReply string) *Gate {
	return &Gate{denyList: denyList, blockedReply: blockedReply}
}

func NewDefaultGate() *Gate {
	return NewGate(DefaultDenyList, DefaultBlockedReply)
}

// Classify lowers and trims the message, rejects empty input, and blocks on
// any deny-list phrase contained in the result. It runs before any embedding,
// retrieval, or generation work; a blocked result short-circuits the pipeline.
func (g *Gate) Classify(message string) (Result, error) {
	msg := strings.ToLower(strings.TrimSpace(message))
	if msg == "" {
		return Result{}, ErrEmptyMessage
	}

	for _, phrase := range g.denyList {
		if strings.Contains(msg, phrase) {
			return Result{Blocked: true, Reply: g.blockedReply}, nil
		}
	}

	return Result{}, nil
}
