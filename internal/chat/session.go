package chat

import (
	"container/list"

	"github.com/rmorales/opotutor/internal/llm"
)

// session holds the model-side context for one conversation: the message
// history in provider shape, rebuilt lazily and kept between sends.
type session struct {
	conversationID string
	history        []llm.Message
}

// sessionRegistry is a bounded LRU cache of live sessions keyed by
// conversation id. Sessions are created lazily on first send and evicted
// least-recently-used once the cap is reached, or disposed explicitly
// when their conversation is deleted.
type sessionRegistry struct {
	cap      int
	order    *list.List               // front = most recent
	elements map[string]*list.Element // conversation id -> element holding *session
}

func newSessionRegistry(cap int) *sessionRegistry {
	return &sessionRegistry{
		cap:      cap,
		order:    list.New(),
		elements: make(map[string]*list.Element),
	}
}

// get returns the session for id, creating it if absent, and marks it
// most recently used.
func (r *sessionRegistry) get(id string) *session {
	if el, ok := r.elements[id]; ok {
		r.order.MoveToFront(el)
		return el.Value.(*session)
	}

	s := &session{conversationID: id}
	r.elements[id] = r.order.PushFront(s)

	for r.order.Len() > r.cap {
		oldest := r.order.Back()
		r.order.Remove(oldest)
		delete(r.elements, oldest.Value.(*session).conversationID)
	}

	return s
}

// dispose drops the session for id, if any.
func (r *sessionRegistry) dispose(id string) {
	if el, ok := r.elements[id]; ok {
		r.order.Remove(el)
		delete(r.elements, id)
	}
}

// len returns the number of live sessions.
func (r *sessionRegistry) len() int {
	return r.order.Len()
}
