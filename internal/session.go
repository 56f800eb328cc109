package internal

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

// SessionState is the coordinator lifecycle state.
type SessionState int

const (
	StateIdle SessionState = iota
	StateConnecting
	StateActive
	StateClosing
	StateClosed
)

func (s SessionState) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateActive:
		return "active"
	case StateClosing:
		return "closing"
	default:
		return "closed"
	}
}

// Observer receives message notifications from a live session. System-role
// notifications (interruption markers, unknown event kinds) are delivered
// here but never persisted.
type Observer interface {
	OnMessage(role, content string)
}

// ObserverFunc adapts a function to the Observer interface.
type ObserverFunc func(role, content string)

func (f ObserverFunc) OnMessage(role, content string) {
	f(role, content)
}

// SessionResult describes how a session ended.
type SessionResult struct {
	ConversationID int64
	Resumed        bool
	Class          CloseClass
	Err            error
}

// TimedOut reports whether the session ended because the remote service
// enforced its maximum session duration. The conversation is preserved and
// resumable.
func (r *SessionResult) TimedOut() bool {
	return r.Class == CloseTimeout
}

// Coordinator owns the lifecycle of a single realtime voice session: it
// opens the channel, runs the audio bridge, classifies inbound events,
// persists transcript messages exactly once each, and executes ordered
// teardown on any terminal condition.
type Coordinator struct {
	cfg    *Config
	store  *Store
	dialer ChannelDialer
	bridge AudioBridge

	observers []Observer
	playback  *FrameQueue

	mu             sync.Mutex
	state          SessionState
	conversationID int64
}

// NewCoordinator builds a coordinator from its collaborators.
func NewCoordinator(cfg *Config, store *Store, dialer ChannelDialer, bridge AudioBridge) *Coordinator {
	return &Coordinator{
		cfg:      cfg,
		store:    store,
		dialer:   dialer,
		bridge:   bridge,
		playback: NewFrameQueue(),
		state:    StateIdle,
	}
}

// AddObserver registers an observer. Observers are invoked synchronously,
// in registration order, once per qualifying event.
func (c *Coordinator) AddObserver(o Observer) {
	c.observers = append(c.observers, o)
}

// State returns the current lifecycle state.
func (c *Coordinator) State() SessionState {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func (c *Coordinator) setState(s SessionState) {
	c.mu.Lock()
	c.state = s
	c.mu.Unlock()
	LogDebug("Session state: %s", s)
}

// ConversationID returns the conversation bound to this session, or 0
// before one is established.
func (c *Coordinator) ConversationID() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.conversationID
}

func (c *Coordinator) setConversationID(id int64) {
	c.mu.Lock()
	c.conversationID = id
	c.mu.Unlock()
}

// Run conducts one session. With conversationID == 0 a new conversation is
// created once the channel is open; otherwise the given conversation is
// validated and resumed. Run blocks until the session ends by cancellation,
// remote closure, or error, and always leaves the bound conversation in
// status "paused".
func (c *Coordinator) Run(ctx context.Context, conversationID int64) (*SessionResult, error) {
	resuming := conversationID > 0

	// Idle -> Connecting. Resume targets are validated before any side
	// effect; an unknown id returns to Idle having touched nothing.
	c.setState(StateConnecting)
	if resuming {
		if _, err := c.store.GetConversation(conversationID); err != nil {
			c.setState(StateIdle)
			return nil, err
		}
	}

	channel, err := c.dialer.Dial(ctx, c.cfg)
	if err != nil {
		c.setState(StateIdle)
		return nil, err
	}

	// Connecting -> Active. Bind the conversation: resumed rows flip back
	// to active, fresh sessions get a new row.
	if resuming {
		if err := c.store.UpdateStatus(conversationID, StatusActive); err != nil {
			_ = channel.Close()
			c.setState(StateIdle)
			return nil, err
		}
	} else {
		conversationID, err = c.store.CreateConversation("")
		if err != nil {
			_ = channel.Close()
			c.setState(StateIdle)
			return nil, err
		}
	}
	c.setConversationID(conversationID)
	c.setState(StateActive)

	// Event pump: classify every inbound event until the stream closes or
	// cancellation is observed. No events are admitted after that.
	pumpDone := make(chan struct{})
	go func() {
		defer close(pumpDone)
		for {
			select {
			case <-ctx.Done():
				return
			case ev, ok := <-channel.Events():
				if !ok {
					return
				}
				// Cancellation wins over a buffered event that became
				// ready in the same select.
				if ctx.Err() != nil {
					return
				}
				c.handleEvent(ev)
			}
		}
	}()

	// Audio bridge: capture/playback loop bound to the channel.
	bridgeErr := make(chan error, 1)
	go func() {
		bridgeErr <- c.bridge.Start(ctx, channel, c.playback, c.cfg.AllowInterrupt)
	}()

	// The single suspension point of the Active state.
	var runErr error
	select {
	case <-ctx.Done():
		// User-initiated cancellation; not an error.
	case <-pumpDone:
		// Channel closed (remote end, timeout, or failure).
	case err := <-bridgeErr:
		if err != nil {
			runErr = err
		}
	}

	// Active -> Closing -> Closed. Best-effort ordered teardown: each step
	// logs its failure and the next step still runs.
	c.setState(StateClosing)

	if err := c.bridge.Stop(); err != nil {
		LogError("Error stopping audio bridge: %v", err)
	}
	if err := channel.Close(); err != nil {
		LogError("Error closing channel: %v", err)
	}
	// Closing the channel ends the event stream; wait for the pump so an
	// in-flight handler finishes persisting and notifying before the
	// conversation is paused and Run returns.
	<-pumpDone
	if err := c.store.UpdateStatus(conversationID, StatusPaused); err != nil {
		LogError("Error updating conversation status: %v", err)
	}

	c.setState(StateClosed)

	result := &SessionResult{
		ConversationID: conversationID,
		Resumed:        resuming,
	}
	if ctx.Err() != nil {
		// Cancellation wins the classification: graceful shutdown.
		result.Class = CloseNormal
	} else {
		result.Class, result.Err = channel.CloseInfo()
	}
	if runErr != nil {
		result.Class = CloseFailure
		result.Err = runErr
	}
	return result, nil
}

// handleEvent applies the event classification contract. A failure while
// handling one event is logged and does not terminate the session.
func (c *Coordinator) handleEvent(ev Event) {
	switch ev.Kind {
	case EventAudioOutput:
		c.playback.Push(ev.Audio)

	case EventUserInterruption:
		// Stop speaking immediately: every queued, not-yet-played frame is
		// discarded. Frames already handed to the output device play out.
		dropped := c.playback.Drain()
		LogDebug("Interruption: drained %d queued frame(s)", dropped)
		c.notify(RoleSystem, "[Interrupted]")

	case EventUserMessage:
		c.persist(RoleUser, ev.Text)
		c.notify(RoleUser, ev.Text)

	case EventAssistantMessage:
		c.persist(RoleAssistant, ev.Text)
		c.notify(RoleAssistant, ev.Text)

	default:
		c.notify(RoleSystem, fmt.Sprintf("[%s]", ev.RawKind))
	}
}

// persist writes one transcript message. A write failure degrades
// durability but never kills a live conversation: it is logged and surfaced
// to observers as a system notification.
func (c *Coordinator) persist(role, content string) {
	if _, err := c.store.AddMessage(c.ConversationID(), role, content, nil); err != nil {
		LogError("Failed to save %s message: %v", role, err)
		c.notify(RoleSystem, "[Message not saved]")
	}
}

func (c *Coordinator) notify(role, content string) {
	for _, o := range c.observers {
		o.OnMessage(role, content)
	}
}

// DescribeEnd renders a human-readable account of how a session ended,
// including resume instructions when the remote service hit its session
// limit.
func DescribeEnd(result *SessionResult) string {
	switch {
	case result.TimedOut():
		return fmt.Sprintf(
			"Session ended: the service closed the connection (session duration limit).\n"+
				"Your conversation has been saved. Resume with: voxtalk resume %d",
			result.ConversationID)
	case result.Class == CloseFailure && result.Err != nil:
		return fmt.Sprintf("Session ended with error: %v", result.Err)
	default:
		return "Disconnected"
	}
}

// ErrIsNotFound reports whether err is a conversation-not-found error.
func ErrIsNotFound(err error) bool {
	var nf *NotFoundError
	return errors.As(err, &nf)
}
