package planmode

import "time"

// TelemetryEvent names a Plan Mode transition for the structured record
// emitted on every state change.
type TelemetryEvent string

const (
	TelemetryEntered         TelemetryEvent = "Entered"
	TelemetryRefusalCaptured TelemetryEvent = "RefusalCaptured"
	TelemetryApplySuccess    TelemetryEvent = "ApplySuccess"
	TelemetryExit            TelemetryEvent = "Exit"
)

// Telemetry is the structured record emitted on every Plan Mode
// transition.
type Telemetry struct {
	Event          TelemetryEvent `json:"event"`
	PreviousMode   ApprovalMode   `json:"previousMode"`
	PlanEntryCount int            `json:"planEntryCount"`
	OccurredAt     time.Time      `json:"occurredAt"`
}

// NewTelemetry stamps a fresh telemetry record with the current time.
func NewTelemetry(event TelemetryEvent, previousMode ApprovalMode, entryCount int) Telemetry {
	return Telemetry{
		Event:          event,
		PreviousMode:   previousMode,
		PlanEntryCount: entryCount,
		OccurredAt:     time.Now().UTC(),
	}
}

// EnteredTelemetry snapshots activation.
func (s *Session) EnteredTelemetry() Telemetry {
	return NewTelemetry(TelemetryEntered, s.EnteredFrom, s.Artifact.EntryCount())
}

// RefusalTelemetry snapshots a capture.
func (s *Session) RefusalTelemetry() Telemetry {
	return NewTelemetry(TelemetryRefusalCaptured, s.EnteredFrom, s.Artifact.EntryCount())
}
