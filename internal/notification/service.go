package notification

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// PreferenceRepository is the persistence contract for channel preferences.
type PreferenceRepository interface {
	Upsert(ctx context.Context, p Preference) error
	List(ctx context.Context, subject string) ([]Preference, error)
	Find(ctx context.Context, subject string, channel Channel) (Preference, bool, error)
}

// Service manages preferences and enqueues messages for later delivery.
//
// IMPORTANT:
// - Enqueue is best-effort from the caller's perspective: business flows
//   should not fail because a notification could not be queued.
// - The delivery worker consuming the outbox lives outside this module.
type Service struct {
	prefs  PreferenceRepository
	outbox Outbox
	clock  func() time.Time
}

func NewService(prefs PreferenceRepository, outbox Outbox) *Service {
	return &Service{prefs: prefs, outbox: outbox, clock: time.Now}
}

var (
	ErrInvalidArgument = errors.New("notification: invalid argument")
	ErrChannelDisabled = errors.New("notification: channel disabled")
)

type UpsertPreferenceRequest struct {
	Channel Channel
	Enabled bool
	Target  string
}

func (s *Service) UpsertPreference(ctx context.Context, subject string, req UpsertPreferenceRequest) (Preference, error) {
	if subject == "" || !isValidChannel(req.Channel) {
		return Preference{}, ErrInvalidArgument
	}
	if req.Enabled && req.Channel != ChannelPush && req.Target == "" {
		// email/webhook need a destination; push targets are registered by
		// the device flow and may arrive later.
		return Preference{}, ErrInvalidArgument
	}

	p := Preference{
		Subject:   subject,
		Channel:   req.Channel,
		Enabled:   req.Enabled,
		Target:    req.Target,
		UpdatedAt: s.clock().UTC(),
	}
	if err := s.prefs.Upsert(ctx, p); err != nil {
		return Preference{}, err
	}
	return p, nil
}

func (s *Service) ListPreferences(ctx context.Context, subject string) ([]Preference, error) {
	if subject == "" {
		return nil, ErrInvalidArgument
	}
	return s.prefs.List(ctx, subject)
}

// Enqueue places a message on the outbox if the subject opted into the
// channel. An absent preference means not opted in.
func (s *Service) Enqueue(ctx context.Context, subject string, channel Channel, title, body string) (Message, error) {
	if subject == "" || !isValidChannel(channel) || title == "" {
		return Message{}, ErrInvalidArgument
	}

	pref, ok, err := s.prefs.Find(ctx, subject, channel)
	if err != nil {
		return Message{}, err
	}
	if !ok || !pref.Enabled {
		return Message{}, ErrChannelDisabled
	}

	msg := Message{
		ID:        uuid.NewString(),
		Subject:   subject,
		Channel:   channel,
		Title:     title,
		Body:      body,
		CreatedAt: s.clock().UTC(),
	}
	if err := s.outbox.Enqueue(ctx, msg); err != nil {
		return Message{}, err
	}
	return msg, nil
}
