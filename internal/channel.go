package internal

import "context"

// EventKind classifies events delivered by the realtime session channel.
type EventKind string

const (
	EventAudioOutput      EventKind = "audio_output"
	EventUserInterruption EventKind = "user_interruption"
	EventUserMessage      EventKind = "user_message"
	EventAssistantMessage EventKind = "assistant_message"
	EventOther            EventKind = "other"
)

// Event is a typed event from the realtime session channel. Audio is set
// for audio_output, Text for the message kinds, and RawKind carries the
// original wire type for "other" events.
type Event struct {
	Kind    EventKind
	Audio   []byte
	Text    string
	RawKind string
}

// CloseClass classifies how a channel terminated.
type CloseClass int

const (
	// CloseNormal is an orderly close handshake initiated by either side.
	CloseNormal CloseClass = iota
	// CloseTimeout is a closure without a close frame, treated as the
	// remote service enforcing its maximum session duration.
	CloseTimeout
	// CloseFailure is any other transport error.
	CloseFailure
)

func (c CloseClass) String() string {
	switch c {
	case CloseNormal:
		return "normal"
	case CloseTimeout:
		return "timeout"
	default:
		return "failure"
	}
}

// Channel is a bidirectional, message-oriented connection to the remote
// voice service. Events() is closed when the connection terminates; after
// that CloseInfo() reports how.
type Channel interface {
	// Events returns the inbound event stream. The channel is closed on
	// connection termination.
	Events() <-chan Event

	// SendAudio transmits one raw audio frame to the remote service.
	SendAudio(frame []byte) error

	// Close tears down the connection. Idempotent.
	Close() error

	// CloseInfo reports the close classification and underlying error (nil
	// for a normal close). Valid once Events() is closed.
	CloseInfo() (CloseClass, error)
}

// ChannelDialer opens a realtime session channel. Implemented by the EVI
// websocket client; tests substitute fakes.
type ChannelDialer interface {
	Dial(ctx context.Context, cfg *Config) (Channel, error)
}
