package domain

import "time"

// EventType represents the type of domain event
type EventType string

// Event types
const (
	EventSymbolAccepted  EventType = "SymbolAccepted"
	EventBufferReset     EventType = "BufferReset"
	EventMatchDetected   EventType = "MatchDetected"
	EventDetectorStarted EventType = "DetectorStarted"
	EventDetectorStopped EventType = "DetectorStopped"
	EventPadConnected    EventType = "PadConnected"
	EventPadDisconnected EventType = "PadDisconnected"
	EventError           EventType = "Error"
	EventConfigLoaded    EventType = "ConfigLoaded"
	EventConfigSaved     EventType = "ConfigSaved"
)

// DomainEvent is the interface for all domain events
type DomainEvent interface {
	Type() EventType
}

// SymbolAcceptedEvent is emitted after a symbol has been appended to the buffer
type SymbolAcceptedEvent struct {
	Symbol Symbol
	Buffer []Symbol // buffer contents including Symbol
	At     time.Time
}

func (e SymbolAcceptedEvent) Type() EventType { return EventSymbolAccepted }

// BufferResetEvent is emitted when an overlong gap clears the buffer
type BufferResetEvent struct {
	Gap time.Duration
}

func (e BufferResetEvent) Type() EventType { return EventBufferReset }

// MatchDetectedEvent is emitted when the buffer equals the pattern
type MatchDetectedEvent struct {
	Pattern string
	Count   int // matches since the detector was created
	At      time.Time
}

func (e MatchDetectedEvent) Type() EventType { return EventMatchDetected }

// DetectorStartedEvent is emitted when the detector begins listening
type DetectorStartedEvent struct {
	Source string
}

func (e DetectorStartedEvent) Type() EventType { return EventDetectorStarted }

// DetectorStoppedEvent is emitted when the detector stops listening
type DetectorStoppedEvent struct{}

func (e DetectorStoppedEvent) Type() EventType { return EventDetectorStopped }

// PadConnectedEvent is emitted when a gamepad joins the connected set
type PadConnectedEvent struct {
	Pad PadInfo
}

func (e PadConnectedEvent) Type() EventType { return EventPadConnected }

// PadDisconnectedEvent is emitted when a gamepad leaves the connected set
type PadDisconnectedEvent struct {
	Pad PadInfo
}

func (e PadDisconnectedEvent) Type() EventType { return EventPadDisconnected }

// ErrorEvent is emitted when an error occurs
type ErrorEvent struct {
	Message string
	Err     error
}

func (e ErrorEvent) Type() EventType { return EventError }

// ConfigLoadedEvent is emitted when configuration is loaded
type ConfigLoadedEvent struct {
	Pattern string
	Source  string
}

func (e ConfigLoadedEvent) Type() EventType { return EventConfigLoaded }

// ConfigSavedEvent is emitted when configuration is saved
type ConfigSavedEvent struct{}

func (e ConfigSavedEvent) Type() EventType { return EventConfigSaved }
