package internal

import "fmt"

// NotFoundError indicates a requested conversation does not exist
type NotFoundError struct {
	ConversationID int64
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("conversation %d not found", e.ConversationID)
}

// ConfigError represents a missing or unusable configuration value
type ConfigError struct {
	Key  string
	Hint string
}

func (e *ConfigError) Error() string {
	if e.Hint != "" {
		return fmt.Sprintf("%s not found or not configured. Set it in a .env file or environment variable. %s", e.Key, e.Hint)
	}
	return fmt.Sprintf("%s not found or not configured", e.Key)
}

// StoreError represents errors from the conversation store
type StoreError struct {
	Op  string // "open", "query", "exec"
	Err error
}

func (e *StoreError) Error() string {
	return fmt.Sprintf("store error: %s: %v", e.Op, e.Err)
}

func (e *StoreError) Unwrap() error {
	return e.Err
}

// ChannelError represents errors from the realtime session channel
type ChannelError struct {
	Op  string // "dial", "send", "read"
	Err error
}

func (e *ChannelError) Error() string {
	return fmt.Sprintf("channel error: %s: %v", e.Op, e.Err)
}

func (e *ChannelError) Unwrap() error {
	return e.Err
}

// AudioError represents errors from the audio bridge
type AudioError struct {
	Op  string // "init", "capture", "playback"
	Err error
}

func (e *AudioError) Error() string {
	return fmt.Sprintf("audio error: %s: %v", e.Op, e.Err)
}

func (e *AudioError) Unwrap() error {
	return e.Err
}

// ExportError represents errors during transcript export
type ExportError struct {
	Format string
	Path   string
	Err    error
}

func (e *ExportError) Error() string {
	return fmt.Sprintf("export error [%s] %s: %v", e.Format, e.Path, e.Err)
}

func (e *ExportError) Unwrap() error {
	return e.Err
}
