package notification

import "time"

// Channel is a delivery medium for notifications.
type Channel string

const (
	ChannelEmail   Channel = "email"
	ChannelPush    Channel = "push"
	ChannelWebhook Channel = "webhook"
)

func isValidChannel(c Channel) bool {
	switch c {
	case ChannelEmail, ChannelPush, ChannelWebhook:
		return true
	default:
		return false
	}
}

// Preference is a subject's opt-in state for one channel.
type Preference struct {
	Subject string  `json:"subject" db:"subject"`
	Channel Channel `json:"channel" db:"channel"`
	Enabled bool    `json:"enabled" db:"enabled"`

	// Target is channel-specific: an email address, a device token, a URL.
	Target string `json:"target,omitempty" db:"target"`

	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Message is an immutable outbox record awaiting delivery.
//
// Invariants:
// - Messages are never updated after enqueue.
// - subject is required; a message is always addressed to one principal.
// - Delivery itself happens elsewhere; this module only enqueues.
type Message struct {
	ID      string  `json:"id"`
	Subject string  `json:"subject"`
	Channel Channel `json:"channel"`

	Title string `json:"title"`
	Body  string `json:"body"`

	CreatedAt time.Time `json:"created_at"`
}
