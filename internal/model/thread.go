package model

// Thread is one discussion: an opening message and its replies in
// document order. A thread with exactly one message has no responses.
type Thread struct {
	// Question is the text of the first post.
	Question string `json:"question"`

	// Responses are the texts of every following post, in order.
	Responses []string `json:"responses"`
}

// NewThread builds a Thread from extracted post texts.
// It returns false when messages is empty; such a thread must not be stored.
func NewThread(messages []string) (Thread, bool) {
	if len(messages) == 0 {
		return Thread{}, false
	}
	responses := make([]string, len(messages)-1)
	copy(responses, messages[1:])
	return Thread{
		Question:  messages[0],
		Responses: responses,
	}, true
}

// Valid reports whether the thread can be persisted.
func (t Thread) Valid() bool {
	return t.Question != ""
}

// PersistedThread is a thread that the store has assigned an ID to.
// It is never mutated after creation.
type PersistedThread struct {
	// ID is the autoincrement primary key of the threads row.
	ID int64 `json:"id"`

	// Question is the stored opening message.
	Question string `json:"question"`

	// Responses are the stored replies in insertion order.
	Responses []PersistedResponse `json:"responses"`
}

// PersistedResponse is one stored reply, owned by exactly one thread.
type PersistedResponse struct {
	ID       int64  `json:"id"`
	ThreadID int64  `json:"thread_id"`
	Response string `json:"response"`
}

// ResponseTexts returns the reply texts in insertion order.
func (p PersistedThread) ResponseTexts() []string {
	texts := make([]string, len(p.Responses))
	for i, r := range p.Responses {
		texts[i] = r.Response
	}
	return texts
}
