package chatview

import "time"

// sendDoneMsg is sent when a streamed reply completes (or fails).
type sendDoneMsg struct {
	ConversationID string
	Err            error
}

// streamTickMsg redraws the transcript while a reply is streaming in.
type streamTickMsg time.Time

// attachDoneMsg is sent when a /doc attachment finishes.
type attachDoneMsg struct {
	ConversationID string
	Err            error
}
