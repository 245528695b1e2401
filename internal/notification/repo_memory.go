package notification

import (
	"context"
	"sync"
)

// MemoryRepo is a simple in-memory preference repository useful for tests.
// It is not intended for production use.
type MemoryRepo struct {
	mu    sync.Mutex
	prefs map[string]Preference
}

func NewMemoryRepo() *MemoryRepo {
	return &MemoryRepo{prefs: make(map[string]Preference)}
}

func prefKey(subject string, channel Channel) string {
	return subject + "/" + string(channel)
}

func (r *MemoryRepo) Upsert(ctx context.Context, p Preference) error {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()
	r.prefs[prefKey(p.Subject, p.Channel)] = p
	return nil
}

func (r *MemoryRepo) List(ctx context.Context, subject string) ([]Preference, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	var out []Preference
	for _, p := range r.prefs {
		if p.Subject == subject {
			out = append(out, p)
		}
	}
	return out, nil
}

func (r *MemoryRepo) Find(ctx context.Context, subject string, channel Channel) (Preference, bool, error) {
	_ = ctx
	r.mu.Lock()
	defer r.mu.Unlock()

	p, ok := r.prefs[prefKey(subject, channel)]
	return p, ok, nil
}

// MemoryOutbox collects enqueued messages for assertions in tests.
type MemoryOutbox struct {
	mu       sync.Mutex
	messages []Message
}

func NewMemoryOutbox() *MemoryOutbox { return &MemoryOutbox{} }

func (o *MemoryOutbox) Enqueue(ctx context.Context, msg Message) error {
	_ = ctx
	o.mu.Lock()
	defer o.mu.Unlock()
	o.messages = append(o.messages, msg)
	return nil
}

func (o *MemoryOutbox) Messages() []Message {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]Message, len(o.messages))
	copy(out, o.messages)
	return out
}
